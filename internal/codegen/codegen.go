// Package codegen implements the AST Lowering component and the
// top-level compile driver: it walks a validated ast.Program, emits
// instruction sequences against the runtime helper catalogue and the
// scope/registry bookkeeping, and assembles the final WASM 1.0 module
// in the mandated section order (spec.md §2, §4.E, §6.2). Grounded on
// the generator/funcCompiler split in lhaig-intent's internal/wasmbe,
// retargeted from a statically-typed IR to Pinky's boxed dynamic
// values; this package previously held the teacher's deprecated
// AST-to-Rust generator, now fully repurposed (see DESIGN.md).
package codegen

import (
	"fmt"

	"github.com/lhaig/pinky/internal/ast"
	"github.com/lhaig/pinky/internal/diagnostic"
	"github.com/lhaig/pinky/internal/encoding"
	"github.com/lhaig/pinky/internal/runtime"
	"github.com/lhaig/pinky/internal/scope"
	"github.com/lhaig/pinky/internal/strtable"
)

// MaxIterations bounds every while/for loop at run time, guaranteeing
// termination for untrusted scripts (spec.md §4.E, §8).
const MaxIterations = 10_000

// Module is the successful output of Generate: a complete WASM binary
// plus the raw string-table bytes exposed for tooling (spec.md §6.1).
type Module struct {
	Bytes   []byte
	Strings []byte
}

type exportEntry struct {
	name  string
	kind  byte
	index uint32
}

// Generator owns all per-compile state: the function-symbol registry,
// string table, type-signature cache, and the accumulated function and
// export tables. A fresh Generator is created for every call to
// Generate so no state survives across compilations (spec.md §5).
type Generator struct {
	diags *diagnostic.Diagnostics

	reg  *scope.Registry
	strs *strtable.Table

	types   []scope.Signature
	typeIdx map[string]uint32

	funcSec []uint32 // type index per non-import function, in Code-section order
	codes   [][]byte // encoded (locals ++ body) per non-import function
	exports []exportEntry

	userDecl map[string]*ast.FunctionDecl // top-level function declarations, by name
}

// Generate lowers prog into a complete WASM module. On the first
// compile error, it returns a nil Module and the diagnostics carrying
// it; lowering aborts rather than continuing with partial output
// (spec.md §4.E "Failure semantics of lowering").
func Generate(prog *ast.Program) (*Module, *diagnostic.Diagnostics) {
	g := &Generator{
		diags:    diagnostic.New(),
		reg:      scope.NewRegistry(),
		strs:     strtable.New(),
		typeIdx:  make(map[string]uint32),
		userDecl: make(map[string]*ast.FunctionDecl),
	}

	g.declareImports()
	g.declareRuntimeHelpers()
	g.predeclareUserFunctions(prog)
	if g.diags.HasErrors() {
		return nil, g.diags
	}

	g.compileUserFunctions(prog)
	if g.diags.HasErrors() {
		return nil, g.diags
	}

	mainIndex := g.compileMain(prog)
	if g.diags.HasErrors() {
		return nil, g.diags
	}

	g.exports = append(g.exports, exportEntry{name: "main", kind: encoding.ExportFunc, index: mainIndex})

	return &Module{Bytes: g.assemble(), Strings: g.strs.Bytes()}, g.diags
}

func (g *Generator) typeIndex(sig scope.Signature) uint32 {
	key := string(sig.Params) + "|" + string(sig.Results)
	if idx, ok := g.typeIdx[key]; ok {
		return idx
	}
	idx := uint32(len(g.types))
	g.types = append(g.types, sig)
	g.typeIdx[key] = idx
	return idx
}

// declareImports registers env.print and env.println as the first two
// entries of the function catalogue (spec.md §3 "Imports").
func (g *Generator) declareImports() {
	sig := scope.Signature{Params: []byte{encoding.ValI32}}
	g.typeIndex(sig)
	g.reg.Declare("print", scope.KindImport, sig)
	g.reg.Declare("println", scope.KindImport, sig)
}

// declareRuntimeHelpers assembles the fixed runtime catalogue and
// registers every helper under its own index space (spec.md §3
// "Defined runtime helpers").
func (g *Generator) declareRuntimeHelpers() {
	base := uint32(len(g.reg.OfKind(scope.KindImport)))
	for _, h := range runtime.Catalogue(base) {
		sig := scope.Signature{Params: h.Params, Results: h.Results}
		g.reg.Declare(h.Name, scope.KindRuntime, sig)
		tidx := g.typeIndex(sig)
		g.funcSec = append(g.funcSec, tidx)
		g.codes = append(g.codes, encodeFunctionBody(h.Locals, h.Body))
	}
}

// predeclareUserFunctions registers every top-level function's name
// and signature before any body is lowered, so forward and mutually
// recursive calls resolve. Duplicate names are a compile error
// (spec.md §4.E, §7).
func (g *Generator) predeclareUserFunctions(prog *ast.Program) {
	for _, stmt := range prog.Statements {
		fn, ok := stmt.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		if _, exists := g.userDecl[fn.Name]; exists {
			g.errorf(fn.Position(), "duplicate function %q", fn.Name)
			continue
		}
		g.userDecl[fn.Name] = fn

		params := make([]byte, len(fn.Params))
		for i := range params {
			params[i] = encoding.ValI32
		}
		sig := scope.Signature{Params: params, Results: []byte{encoding.ValI32}}
		g.reg.Declare(fn.Name, scope.KindUser, sig)
		g.typeIndex(sig)
	}
}

// compileUserFunctions lowers every predeclared function body, in
// source order, appending each to the function/code tables.
func (g *Generator) compileUserFunctions(prog *ast.Program) {
	for _, stmt := range prog.Statements {
		fn, ok := stmt.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		if g.diags.HasErrors() {
			return
		}
		g.compileFunctionDecl(fn)
	}
}

func (g *Generator) errorf(pos ast.Pos, format string, args ...interface{}) {
	g.diags.Errorf(pos.Line, pos.Column, pos.Length, format, args...)
}

// CompilerBug marks a failure in the lowering pass itself rather than
// in the user's program: a function declaration that was never
// predeclared, an undeclared runtime helper, an AST node of a kind the
// parser should never have produced. It must
// never reach a user as a diagnostic, so bug panics with it instead of
// recording it on g.diags; compiler.Compile is the sole recoverer.
type CompilerBug struct {
	Message string
}

func (b CompilerBug) Error() string { return "compiler bug: " + b.Message }

func bug(format string, args ...interface{}) {
	panic(CompilerBug{Message: fmt.Sprintf(format, args...)})
}

// encodeFunctionBody groups a flat per-local value-type list into the
// WASM locals-declaration prelude and appends the already-terminated
// instruction bytes (grounded on wasmbe.go's compactLocals/compileBody
// split).
func encodeFunctionBody(localTypes []byte, body []byte) []byte {
	type group struct {
		count int
		vtype byte
	}
	var groups []group
	for _, t := range localTypes {
		if len(groups) > 0 && groups[len(groups)-1].vtype == t {
			groups[len(groups)-1].count++
			continue
		}
		groups = append(groups, group{count: 1, vtype: t})
	}

	var decl []byte
	decl = append(decl, encoding.Uleb128(uint64(len(groups)))...)
	for _, gr := range groups {
		decl = append(decl, encoding.Uleb128(uint64(gr.count))...)
		decl = append(decl, gr.vtype)
	}

	out := make([]byte, 0, len(decl)+len(body))
	out = append(out, decl...)
	out = append(out, body...)
	return out
}

// assemble concatenates every WASM section in the mandated order
// (spec.md §6.2).
func (g *Generator) assemble() []byte {
	var out []byte
	out = append(out, encoding.Magic()...)
	out = append(out, encoding.Version()...)
	out = append(out, g.emitTypeSection()...)
	out = append(out, g.emitImportSection()...)
	out = append(out, g.emitFunctionSection()...)
	out = append(out, g.emitMemorySection()...)
	out = append(out, g.emitGlobalSection()...)
	out = append(out, g.emitExportSection()...)
	out = append(out, g.emitCodeSection()...)
	out = append(out, g.emitDataSection()...)
	return out
}

func (g *Generator) emitTypeSection() []byte {
	var contents []byte
	for _, sig := range g.types {
		contents = append(contents, 0x60)
		contents = append(contents, encoding.Uleb128(uint64(len(sig.Params)))...)
		contents = append(contents, sig.Params...)
		contents = append(contents, encoding.Uleb128(uint64(len(sig.Results)))...)
		contents = append(contents, sig.Results...)
	}
	return encoding.Section(encoding.SectionType, encoding.Vector(len(g.types), contents))
}

func (g *Generator) emitImportSection() []byte {
	imports := g.reg.OfKind(scope.KindImport)
	var contents []byte
	for _, imp := range imports {
		contents = append(contents, encoding.String("env")...)
		contents = append(contents, encoding.String(imp.Name)...)
		contents = append(contents, encoding.ImportFunc)
		contents = append(contents, encoding.Uleb128(uint64(g.typeIndex(imp.Sig)))...)
	}
	return encoding.Section(encoding.SectionImport, encoding.Vector(len(imports), contents))
}

func (g *Generator) emitFunctionSection() []byte {
	var contents []byte
	for _, tidx := range g.funcSec {
		contents = append(contents, encoding.Uleb128(uint64(tidx))...)
	}
	return encoding.Section(encoding.SectionFunction, encoding.Vector(len(g.funcSec), contents))
}

func (g *Generator) emitMemorySection() []byte {
	// limits = { min: 16, max: none } (spec.md §6.2).
	contents := []byte{0x00}
	contents = append(contents, encoding.Uleb128(16)...)
	return encoding.Section(encoding.SectionMemory, encoding.Vector(1, contents))
}

func (g *Generator) emitGlobalSection() []byte {
	initVal := int32(g.strs.Len() + 1)
	var contents []byte
	contents = append(contents, encoding.ValI32, encoding.GlobalVar)
	contents = append(contents, encoding.I32Const(initVal)...)
	contents = append(contents, encoding.OpEnd)
	return encoding.Section(encoding.SectionGlobal, encoding.Vector(1, contents))
}

func (g *Generator) emitExportSection() []byte {
	var contents []byte
	for _, exp := range g.exports {
		contents = append(contents, encoding.String(exp.name)...)
		contents = append(contents, exp.kind)
		contents = append(contents, encoding.Uleb128(uint64(exp.index))...)
	}
	contents = append(contents, encoding.String("memory")...)
	contents = append(contents, encoding.ExportMemory)
	contents = append(contents, encoding.Uleb128(0)...)
	return encoding.Section(encoding.SectionExport, encoding.Vector(len(g.exports)+1, contents))
}

func (g *Generator) emitCodeSection() []byte {
	var contents []byte
	for _, code := range g.codes {
		contents = append(contents, encoding.Uleb128(uint64(len(code)))...)
		contents = append(contents, code...)
	}
	return encoding.Section(encoding.SectionCode, encoding.Vector(len(g.codes), contents))
}

func (g *Generator) emitDataSection() []byte {
	blob := g.strs.Bytes()
	var contents []byte
	contents = append(contents, encoding.Uleb128(0)...) // memory index 0
	contents = append(contents, encoding.I32Const(0)...)
	contents = append(contents, encoding.OpEnd)
	contents = append(contents, encoding.Uleb128(uint64(len(blob)))...)
	contents = append(contents, blob...)
	return encoding.Section(encoding.SectionData, encoding.Vector(1, contents))
}
