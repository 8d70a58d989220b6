package codegen

import (
	"github.com/lhaig/pinky/internal/ast"
	"github.com/lhaig/pinky/internal/encoding"
	"github.com/lhaig/pinky/internal/scope"
)

// funcGen lowers one function body (a user-defined function or the
// synthetic main function) into WASM instruction bytes. It pairs the
// shared Generator (string table, registry, diagnostics) with the
// per-function scope/slot allocator, mirroring wasmbe.go's
// generator/funcCompiler split.
type funcGen struct {
	g    *Generator
	fn   *scope.Function
	body []byte

	// blockDepth is not read or written by any lowering: Pinky has no
	// break/continue statements, and while/for lowering emits fixed
	// br_if/br depths (1 and 0) relative to its own block/loop pair.
	blockDepth int
}

func (fc *funcGen) emit(b []byte) {
	fc.body = append(fc.body, b...)
}

// compileFunctionDecl lowers one user-defined function declaration and
// appends its encoded body to the generator's function/code tables
// (spec.md §4.E "FunctionDeclStatement"). Parameters are declared as
// locals 0..N-1 in a fresh scope; no outer binding is visible inside
// the body (no closures, spec.md §9).
func (g *Generator) compileFunctionDecl(fn *ast.FunctionDecl) {
	entry, ok := g.reg.Lookup(fn.Name)
	if !ok {
		bug("function %q was not predeclared", fn.Name)
	}

	fc := &funcGen{g: g, fn: scope.NewFunction(fn.Params)}
	for _, stmt := range fn.Body {
		fc.compileStmt(stmt)
		if g.diags.HasErrors() {
			return
		}
	}
	// Functions that fall through without an explicit `ret` return
	// boxed nil (spec.md §4.E, §8 "Functions fall-through return boxed
	// nil").
	fc.emit(encoding.Call(g.runtimeIndex("box_nil")))
	fc.emit([]byte{encoding.OpReturn})
	fc.emit([]byte{encoding.OpEnd})

	g.funcSec = append(g.funcSec, g.typeIndex(entry.Sig))
	g.codes = append(g.codes, encodeFunctionBody(fc.fn.LocalTypes(), fc.body))
}

// compileMain lowers every top-level statement that is not a function
// declaration into a synthetic, parameterless `main` function and
// returns its absolute function index.
func (g *Generator) compileMain(prog *ast.Program) uint32 {
	fc := &funcGen{g: g, fn: scope.NewFunction(nil)}
	for _, stmt := range prog.Statements {
		if _, ok := stmt.(*ast.FunctionDecl); ok {
			continue
		}
		fc.compileStmt(stmt)
		if g.diags.HasErrors() {
			return 0
		}
	}
	fc.emit(encoding.Call(g.runtimeIndex("box_nil")))
	fc.emit([]byte{encoding.OpReturn})
	fc.emit([]byte{encoding.OpEnd})

	sig := scope.Signature{Results: []byte{encoding.ValI32}}
	mainIndex := uint32(g.reg.Count())
	g.funcSec = append(g.funcSec, g.typeIndex(sig))
	g.codes = append(g.codes, encodeFunctionBody(fc.fn.LocalTypes(), fc.body))
	return mainIndex
}

// runtimeIndex looks up a runtime helper's absolute function index.
// Every name here is declared by declareRuntimeHelpers before any
// lowering runs, so a missing entry is an internal bug, not a
// user-facing compile error.
func (g *Generator) runtimeIndex(name string) uint32 {
	entry, ok := g.reg.Lookup(name)
	if !ok {
		bug("runtime helper %q was not declared", name)
	}
	return entry.Index
}
