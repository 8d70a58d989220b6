package pinkycmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lhaig/pinky/internal/compiler"
	"github.com/lhaig/pinky/internal/hostshim"
)

var runCmd = &cobra.Command{
	Use:   "run <file.pinky>",
	Short: "Compile then execute the module in-process and print its output",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	res := compiler.Compile(string(source))
	if res.Bug != nil {
		return fmt.Errorf("internal compiler error: %w", res.Bug)
	}
	if res.Diagnostics != nil && res.Diagnostics.HasErrors() {
		return fmt.Errorf("%s", res.Diagnostics.Format(path))
	}

	out, err := hostshim.Run(cmd.Context(), res.Bytes)
	if err != nil {
		return fmt.Errorf("running %s: %w", path, err)
	}

	fmt.Fprint(cmd.OutOrStdout(), strings.Join(out, ""))
	return nil
}
