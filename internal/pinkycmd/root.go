// Package pinkycmd implements the pinkyc command-line driver: a thin
// Cobra front end over internal/compiler and internal/hostshim. It is
// not part of the back-end's five core components — the compiler
// itself stays synchronous and side-effect-free (spec.md §5); this
// package only parses flags, reads/writes files, and logs.
//
// Grounded on the sibling pack repo's Cobra shape
// (tecch-wiz-hintents/cmd/root.go and internal/cmd/*.go): a package-
// level rootCmd, subcommands registered from init(), and a thin
// cmd/pinkyc/main.go that just calls Execute.
package pinkycmd

import (
	"github.com/spf13/cobra"

	"github.com/lhaig/pinky/internal/pinkylog"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "pinkyc",
	Short: "pinkyc - the Pinky-to-WebAssembly compiler",
	Long: `pinkyc compiles Pinky source (numbers, booleans, strings, nil,
variables, arithmetic, conditionals, while/for loops, first-class
named functions, print/println) into a self-contained WASM 1.0 module
that exports "main" and a linear "memory".`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		pinkylog.SetVerbose(verbose)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log each compile phase at debug level")
}
