package pinkycmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lhaig/pinky/internal/compiler"
)

var dumpStringsCmd = &cobra.Command{
	Use:   "dump-strings <file.pinky>",
	Short: "Print the raw string-table bytes a compile would emit",
	Args:  cobra.ExactArgs(1),
	RunE:  runDumpStrings,
}

func init() {
	rootCmd.AddCommand(dumpStringsCmd)
}

func runDumpStrings(cmd *cobra.Command, args []string) error {
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

	_, err = cmd.OutOrStdout().Write(res.Strings)
	return err
}
