package pinkycmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lhaig/pinky/internal/compiler"
)

var buildOut string

var buildCmd = &cobra.Command{
	Use:   "build <file.pinky>",
	Short: "Compile a Pinky source file to a WASM binary",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildOut, "out", "", "output path (default: <file> with a .wasm extension)")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	path := args[0]
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	out := buildOut
	if out == "" {
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		out = filepath.Join(filepath.Dir(path), base+".wasm")
	}

	if err := compiler.EmitWasm(string(source), out); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	return nil
}
