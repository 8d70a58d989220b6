// Package pinkylog provides the structured logging the cmd/pinkyc
// driver uses to trace each compile phase (parse, lower, encode)
// behind a runtime-adjustable level. The back-end itself never logs:
// logging is strictly a CLI-driver concern, preserving the core's
// synchronous, side-effect-free contract.
package pinkylog

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the package-level logger every CLI command logs through.
var Logger *slog.Logger

// Level is the current log level, adjustable at runtime via SetVerbose or Init.
var Level = new(slog.LevelVar)

func init() {
	Init(slog.LevelInfo, os.Stderr)
}

// Init (re)configures Logger with the given level and output.
func Init(level slog.Level, output io.Writer) {
	if output == nil {
		output = os.Stderr
	}
	handler := slog.NewTextHandler(output, &slog.HandlerOptions{Level: Level})
	Logger = slog.New(handler)
	Level.Set(level)
}

// SetVerbose raises the level to Debug when verbose is true, Info
// otherwise — the effect of cmd/pinkyc's global --verbose flag.
func SetVerbose(verbose bool) {
	if verbose {
		Level.Set(slog.LevelDebug)
		return
	}
	Level.Set(slog.LevelInfo)
}

// Phase logs one compile-pipeline stage at Debug level.
func Phase(name string, args ...any) {
	Logger.Debug(name, args...)
}
