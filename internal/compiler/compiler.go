// Package compiler is the thin façade spec.md §1 calls for: wrap
// lex -> parse -> lower into one entry point ("compileFromSource") so
// callers (the CLI, the host-shim integration tests) never touch the
// parser or codegen packages directly. Grounded on lhaig-intent's
// internal/compiler/compiler.go Compile/Check shape, trimmed of the
// Rust/Cargo build step, the multi-file module registry, and the
// contract-verification pipeline Pinky has no equivalent of.
package compiler

import (
	"fmt"
	"os"

	"github.com/lhaig/pinky/internal/ast"
	"github.com/lhaig/pinky/internal/codegen"
	"github.com/lhaig/pinky/internal/diagnostic"
	"github.com/lhaig/pinky/internal/parser"
	"github.com/lhaig/pinky/internal/pinkylog"
)

// Result holds the output of a compilation (spec.md §6.1's
// `{bytes, error, strings}` tuple, plus the diagnostics that carry the
// error in detail). Bug is set instead of Diagnostics when lowering hit
// an internal inconsistency rather than a problem with the user's
// program (spec.md §2.2); it is never produced by a well-formed input.
type Result struct {
	Diagnostics *diagnostic.Diagnostics
	Bug         error
	Bytes       []byte
	Strings     []byte
}

// Compile runs the full pipeline: parse -> lower -> assemble. On
// failure, Bytes and Strings are nil and Diagnostics carries the first
// fatal error; lowering never returns partial output (spec.md §4.E
// "Failure semantics of lowering"). A codegen.CompilerBug panic is
// recovered here, once, and reported through Result.Bug instead of
// being confused with a user-facing diagnostic.
func Compile(source string) (result *Result) {
	defer recoverBug(&result)

	pinkylog.Phase("parse")
	p := parser.New(source)
	prog := p.Parse()
	if p.Diagnostics().HasErrors() {
		return &Result{Diagnostics: p.Diagnostics()}
	}

	pinkylog.Phase("lower")
	mod, diags := lower(prog)
	if diags.HasErrors() {
		return &Result{Diagnostics: diags}
	}

	pinkylog.Phase("encode", "bytes", len(mod.Bytes))
	return &Result{Diagnostics: diags, Bytes: mod.Bytes, Strings: mod.Strings}
}

// Check runs parse + lower without keeping the emitted bytes, surfacing
// every compile error exactly as Compile would (spec.md §6.1). A
// codegen.CompilerBug panic is recovered and folded into the returned
// Diagnostics as a single fatal error, the same contract Check always
// gives its callers.
func Check(source string) (diags *diagnostic.Diagnostics) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(codegen.CompilerBug)
			if !ok {
				panic(r)
			}
			diags = diagnostic.New()
			diags.Errorf(0, 0, 0, "%s", b.Error())
		}
	}()

	p := parser.New(source)
	prog := p.Parse()
	if p.Diagnostics().HasErrors() {
		return p.Diagnostics()
	}

	_, diags = lower(prog)
	return diags
}

// lower is the sole call site for codegen.Generate, kept separate so
// Compile and Check share the exact same invocation.
func lower(prog *ast.Program) (*codegen.Module, *diagnostic.Diagnostics) {
	return codegen.Generate(prog)
}

// recoverBug catches a codegen.CompilerBug panic and reports it through
// *result instead of letting it unwind past the façade; any other panic
// is not ours to interpret and is re-raised.
func recoverBug(result **Result) {
	r := recover()
	if r == nil {
		return
	}
	b, ok := r.(codegen.CompilerBug)
	if !ok {
		panic(r)
	}
	pinkylog.Logger.Error("compiler bug", "err", b.Error())
	*result = &Result{Bug: b}
}

// EmitWasm runs the full pipeline and writes the resulting module to
// outPath.
func EmitWasm(source, outPath string) error {
	res := Compile(source)
	if res.Bug != nil {
		return fmt.Errorf("internal compiler error: %w", res.Bug)
	}
	if res.Diagnostics != nil && res.Diagnostics.HasErrors() {
		return fmt.Errorf("compilation errors:\n%s", res.Diagnostics.Format("input"))
	}
	return os.WriteFile(outPath, res.Bytes, 0644)
}
