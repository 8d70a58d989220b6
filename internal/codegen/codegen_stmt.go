package codegen

import (
	"github.com/lhaig/pinky/internal/ast"
	"github.com/lhaig/pinky/internal/encoding"
)

// compileStmt lowers one statement (spec.md §4.E "Statement lowering").
func (fc *funcGen) compileStmt(s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.PrintStmt:
		fc.compileExpr(stmt.Value)
		if stmt.Newline {
			fc.emit(encoding.Call(fc.g.runtimeIndex("println")))
		} else {
			fc.emit(encoding.Call(fc.g.runtimeIndex("print")))
		}

	case *ast.AssignStmt:
		fc.compileExpr(stmt.Value)
		var slot int
		if stmt.Local {
			slot = fc.fn.Declare(stmt.Name)
		} else {
			slot = fc.fn.Assign(stmt.Name)
		}
		fc.emit(encoding.LocalSet(uint32(slot)))

	case *ast.ExprStmt:
		fc.compileExpr(stmt.Expr)
		fc.emit([]byte{encoding.OpDrop})

	case *ast.ReturnStmt:
		fc.compileExpr(stmt.Value)
		fc.emit([]byte{encoding.OpReturn})

	case *ast.IfStmt:
		fc.compileIfStmt(stmt)

	case *ast.WhileStmt:
		fc.compileWhileStmt(stmt)

	case *ast.ForStmt:
		fc.compileForStmt(stmt)

	case *ast.FunctionDecl:
		fc.g.errorf(stmt.Position(), "nested function declarations are not supported")

	default:
		bug("unknown statement kind %T", s)
	}
}

// compileIfStmt lowers `if`/`elif`/`else` as a right-nested chain: the
// first elif lives in the first branch's else arm, and so on, each
// opening a fresh scope for its own body (spec.md §4.E "IfStatement").
func (fc *funcGen) compileIfStmt(stmt *ast.IfStmt) {
	fc.compileExpr(stmt.Condition)
	fc.emit(encoding.Call(fc.g.runtimeIndex("is_truthy")))
	fc.emit(encoding.If(encoding.BlockVoid))

	fc.fn.EnterScope()
	for _, s := range stmt.Then {
		fc.compileStmt(s)
	}
	fc.fn.ExitScope()

	if len(stmt.Elifs) > 0 || len(stmt.Else) > 0 {
		fc.emit(encoding.Else())
		fc.compileElseChain(stmt.Elifs, stmt.Else)
	}

	fc.emit(encoding.EndOp())
}

// compileElseChain lowers the remaining elif branches and the final
// else body, recursing so each elif nests inside the previous
// branch's else arm.
func (fc *funcGen) compileElseChain(elifs []ast.ElifBranch, elseBody []ast.Stmt) {
	if len(elifs) == 0 {
		fc.fn.EnterScope()
		for _, s := range elseBody {
			fc.compileStmt(s)
		}
		fc.fn.ExitScope()
		return
	}

	head := elifs[0]
	fc.compileExpr(head.Condition)
	fc.emit(encoding.Call(fc.g.runtimeIndex("is_truthy")))
	fc.emit(encoding.If(encoding.BlockVoid))

	fc.fn.EnterScope()
	for _, s := range head.Body {
		fc.compileStmt(s)
	}
	fc.fn.ExitScope()

	if len(elifs) > 1 || len(elseBody) > 0 {
		fc.emit(encoding.Else())
		fc.compileElseChain(elifs[1:], elseBody)
	}

	fc.emit(encoding.EndOp())
}

// compileWhileStmt lowers a bounded while loop (spec.md §4.E
// "WhileStatement"): a counter guards against runaway scripts with
// `unreachable` after MaxIterations, following the block/loop/br_if
// pattern laid out in spec.md (the counter guard here compares with
// the signed i32.ge_s) and grounded on wasmbe.go's shape for the same
// construct.
func (fc *funcGen) compileWhileStmt(stmt *ast.WhileStmt) {
	counter := fc.fn.RawLocal(encoding.ValI32)
	fc.emit(encoding.I32Const(0))
	fc.emit(encoding.LocalSet(uint32(counter)))

	fc.emit(encoding.Block(encoding.BlockVoid))
	fc.emit(encoding.Loop(encoding.BlockVoid))

	fc.emit(encoding.LocalGet(uint32(counter)))
	fc.emit(encoding.I32Const(MaxIterations))
	fc.emit([]byte{encoding.OpI32GeS})
	fc.emit(encoding.If(encoding.BlockVoid))
	fc.emit([]byte{encoding.OpUnreachable})
	fc.emit(encoding.EndOp())

	fc.emit(encoding.LocalGet(uint32(counter)))
	fc.emit(encoding.I32Const(1))
	fc.emit([]byte{encoding.OpI32Add})
	fc.emit(encoding.LocalSet(uint32(counter)))

	fc.compileExpr(stmt.Condition)
	fc.emit(encoding.Call(fc.g.runtimeIndex("is_truthy")))
	fc.emit([]byte{encoding.OpI32Eqz})
	fc.emit(encoding.BrIf(1)) // exit the outer block

	fc.fn.EnterScope()
	for _, s := range stmt.Body {
		fc.compileStmt(s)
	}
	fc.fn.ExitScope()

	fc.emit(encoding.Br(0)) // back to loop head
	fc.emit(encoding.EndOp())
	fc.emit(encoding.EndOp())
}

// compileForStmt lowers the numeric for-loop (spec.md §4.E
// "ForStatement"). is_descending is computed once from the (folded,
// if a literal) step value; the loop tests `i < stop` when
// descending, `i > stop` otherwise, exiting once that comparison is
// crossed.
//
// The live loop value is kept in rawIter, a raw f64 local: iterSlot
// (the name `stmt.Name` resolves to, an ordinary boxed i32 slot like
// any other variable) only ever holds a freshly boxed copy of it,
// re-boxed once per iteration before the body runs. Comparing or
// incrementing iterSlot directly would feed a boxed pointer to
// f64.lt/f64.add, a WASM type mismatch the validator rejects.
func (fc *funcGen) compileForStmt(stmt *ast.ForStmt) {
	fc.fn.EnterScope()
	iterSlot := fc.fn.Declare(stmt.Name)
	rawIter := fc.fn.RawLocal(encoding.ValF64)
	stopSlot := fc.fn.RawLocal(encoding.ValF64)
	stepSlot := fc.fn.RawLocal(encoding.ValF64)
	counter := fc.fn.RawLocal(encoding.ValI32)
	descending := fc.fn.RawLocal(encoding.ValI32)

	fc.compileExpr(stmt.Start)
	fc.emit(encoding.Call(fc.g.runtimeIndex("unbox_number")))
	fc.emit(encoding.LocalSet(uint32(rawIter)))

	fc.compileExpr(stmt.Stop)
	fc.emit(encoding.Call(fc.g.runtimeIndex("unbox_number")))
	fc.emit(encoding.LocalSet(uint32(stopSlot)))

	if stmt.Step != nil {
		fc.compileExpr(stmt.Step)
	} else {
		fc.emit(encoding.F64Const(1))
		fc.emit(encoding.Call(fc.g.runtimeIndex("box_number")))
	}
	fc.emit(encoding.Call(fc.g.runtimeIndex("unbox_number")))
	fc.emit(encoding.LocalSet(uint32(stepSlot)))

	// is_descending = (step < 0), computed once before the loop.
	fc.emit(encoding.LocalGet(uint32(stepSlot)))
	fc.emit(encoding.F64Const(0))
	fc.emit([]byte{encoding.OpF64Lt})
	fc.emit(encoding.LocalSet(uint32(descending)))

	fc.emit(encoding.I32Const(0))
	fc.emit(encoding.LocalSet(uint32(counter)))

	fc.emit(encoding.Block(encoding.BlockVoid))
	fc.emit(encoding.Loop(encoding.BlockVoid))

	fc.emit(encoding.LocalGet(uint32(counter)))
	fc.emit(encoding.I32Const(MaxIterations))
	fc.emit([]byte{encoding.OpI32GeS})
	fc.emit(encoding.If(encoding.BlockVoid))
	fc.emit([]byte{encoding.OpUnreachable})
	fc.emit(encoding.EndOp())

	fc.emit(encoding.LocalGet(uint32(counter)))
	fc.emit(encoding.I32Const(1))
	fc.emit([]byte{encoding.OpI32Add})
	fc.emit(encoding.LocalSet(uint32(counter)))

	// crossed = descending ? (i < stop) : (i > stop)
	fc.emit(encoding.LocalGet(uint32(descending)))
	fc.emit(encoding.If(encoding.BlockI32))
	fc.emit(encoding.LocalGet(uint32(rawIter)))
	fc.emit(encoding.LocalGet(uint32(stopSlot)))
	fc.emit([]byte{encoding.OpF64Lt})
	fc.emit(encoding.Else())
	fc.emit(encoding.LocalGet(uint32(rawIter)))
	fc.emit(encoding.LocalGet(uint32(stopSlot)))
	fc.emit([]byte{encoding.OpF64Gt})
	fc.emit(encoding.EndOp())
	fc.emit(encoding.BrIf(1)) // exit the outer block once crossed

	// Box the current raw value so reads of stmt.Name inside the body
	// see the usual boxed pointer representation.
	fc.emit(encoding.LocalGet(uint32(rawIter)))
	fc.emit(encoding.Call(fc.g.runtimeIndex("box_number")))
	fc.emit(encoding.LocalSet(uint32(iterSlot)))

	fc.fn.EnterScope()
	for _, s := range stmt.Body {
		fc.compileStmt(s)
	}
	fc.fn.ExitScope()

	fc.emit(encoding.LocalGet(uint32(rawIter)))
	fc.emit(encoding.LocalGet(uint32(stepSlot)))
	fc.emit([]byte{encoding.OpF64Add})
	fc.emit(encoding.LocalSet(uint32(rawIter)))

	fc.emit(encoding.Br(0))
	fc.emit(encoding.EndOp())
	fc.emit(encoding.EndOp())

	fc.fn.ExitScope()
}
