package pinkycmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lhaig/pinky/internal/compiler"
)

var checkCmd = &cobra.Command{
	Use:   "check <file.pinky>",
	Short: "Lex, parse, and lower without emitting a WASM binary",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	diags := compiler.Check(string(source))
	if diags.HasErrors() {
		return fmt.Errorf("%s", diags.Format(path))
	}

	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}
