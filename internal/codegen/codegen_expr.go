package codegen

import (
	"github.com/lhaig/pinky/internal/ast"
	"github.com/lhaig/pinky/internal/encoding"
	"github.com/lhaig/pinky/internal/scope"
)

// compileExpr lowers e, leaving exactly one boxed pointer on the
// operand stack (spec.md §4.E "Expression lowering" invariant).
func (fc *funcGen) compileExpr(e ast.Expr) {
	switch expr := e.(type) {
	case *ast.NumberLit:
		fc.emit(encoding.F64Const(expr.Value))
		fc.emit(encoding.Call(fc.g.runtimeIndex("box_number")))

	case *ast.BooleanLit:
		val := int32(0)
		if expr.Value {
			val = 1
		}
		fc.emit(encoding.I32Const(val))
		fc.emit(encoding.Call(fc.g.runtimeIndex("box_bool")))

	case *ast.StringLit:
		offset, length := fc.g.strs.Intern(expr.Value)
		fc.emit(encoding.I32Const(int32(offset)))
		fc.emit(encoding.I32Const(int32(length)))
		fc.emit(encoding.Call(fc.g.runtimeIndex("box_string")))

	case *ast.NilLit:
		fc.emit(encoding.Call(fc.g.runtimeIndex("box_nil")))

	case *ast.Identifier:
		slot, ok := fc.fn.Resolve(expr.Name)
		if !ok {
			fc.g.errorf(expr.Pos, "undeclared variable %q", expr.Name)
			return
		}
		fc.emit(encoding.LocalGet(uint32(slot)))

	case *ast.Grouping:
		fc.compileExpr(expr.Expr)

	case *ast.UnaryExpr:
		fc.compileUnary(expr)

	case *ast.BinaryExpr:
		fc.compileBinary(expr)

	case *ast.CallExpr:
		fc.compileCall(expr)

	default:
		bug("unknown expression kind %T", e)
	}
}

func (fc *funcGen) compileUnary(e *ast.UnaryExpr) {
	switch e.Op {
	case ast.UnaryPlus:
		fc.compileExpr(e.Operand)

	case ast.UnaryMinus:
		if lit, ok := e.Operand.(*ast.NumberLit); ok {
			fc.emit(encoding.F64Const(-lit.Value))
			fc.emit(encoding.Call(fc.g.runtimeIndex("box_number")))
			return
		}
		fc.compileExpr(e.Operand)
		fc.emit(encoding.Call(fc.g.runtimeIndex("unbox_number")))
		fc.emit([]byte{encoding.OpF64Neg})
		fc.emit(encoding.Call(fc.g.runtimeIndex("box_number")))

	case ast.UnaryNot:
		// Numeric-zero test, not logical-not on truthiness: resolves
		// the open question in SPEC_FULL.md §4 item 1.
		fc.compileExpr(e.Operand)
		fc.emit(encoding.Call(fc.g.runtimeIndex("unbox_number")))
		fc.emit(encoding.F64Const(0))
		fc.emit([]byte{encoding.OpF64Eq})
		fc.emit(encoding.Call(fc.g.runtimeIndex("box_bool")))

	default:
		bug("unknown unary operator")
	}
}

func (fc *funcGen) compileBinary(e *ast.BinaryExpr) {
	switch e.Op {
	case ast.BinAnd:
		fc.compileShortCircuit(e, true)
		return
	case ast.BinOr:
		fc.compileShortCircuit(e, false)
		return
	case ast.BinAdd:
		fc.compilePlus(e)
		return
	case ast.BinMod:
		fc.compileExpr(e.Left)
		fc.emit(encoding.Call(fc.g.runtimeIndex("unbox_number")))
		fc.compileExpr(e.Right)
		fc.emit(encoding.Call(fc.g.runtimeIndex("unbox_number")))
		fc.emit(encoding.Call(fc.g.runtimeIndex("mod")))
		fc.emit(encoding.Call(fc.g.runtimeIndex("box_number")))
		return
	case ast.BinPow:
		fc.compileExpr(e.Left)
		fc.emit(encoding.Call(fc.g.runtimeIndex("unbox_number")))
		fc.compileExpr(e.Right)
		fc.emit(encoding.Call(fc.g.runtimeIndex("unbox_number")))
		fc.emit(encoding.Call(fc.g.runtimeIndex("math_pow")))
		fc.emit(encoding.Call(fc.g.runtimeIndex("box_number")))
		return
	}

	// Remaining operators: unbox both as f64, apply the matching WASM
	// op, re-box (arithmetic -> box_number, comparison -> box_bool).
	fc.compileExpr(e.Left)
	fc.emit(encoding.Call(fc.g.runtimeIndex("unbox_number")))
	fc.compileExpr(e.Right)
	fc.emit(encoding.Call(fc.g.runtimeIndex("unbox_number")))

	switch e.Op {
	case ast.BinSub:
		fc.emit([]byte{encoding.OpF64Sub})
		fc.emit(encoding.Call(fc.g.runtimeIndex("box_number")))
	case ast.BinMul:
		fc.emit([]byte{encoding.OpF64Mul})
		fc.emit(encoding.Call(fc.g.runtimeIndex("box_number")))
	case ast.BinDiv:
		fc.emit([]byte{encoding.OpF64Div})
		fc.emit(encoding.Call(fc.g.runtimeIndex("box_number")))
	case ast.BinLt:
		fc.emit([]byte{encoding.OpF64Lt})
		fc.emit(encoding.Call(fc.g.runtimeIndex("box_bool")))
	case ast.BinLeq:
		fc.emit([]byte{encoding.OpF64Le})
		fc.emit(encoding.Call(fc.g.runtimeIndex("box_bool")))
	case ast.BinGt:
		fc.emit([]byte{encoding.OpF64Gt})
		fc.emit(encoding.Call(fc.g.runtimeIndex("box_bool")))
	case ast.BinGeq:
		fc.emit([]byte{encoding.OpF64Ge})
		fc.emit(encoding.Call(fc.g.runtimeIndex("box_bool")))
	case ast.BinEq:
		fc.emit([]byte{encoding.OpF64Eq})
		fc.emit(encoding.Call(fc.g.runtimeIndex("box_bool")))
	case ast.BinNeq:
		fc.emit([]byte{encoding.OpF64Ne})
		fc.emit(encoding.Call(fc.g.runtimeIndex("box_bool")))
	default:
		bug("unknown binary operator")
	}
}

// compilePlus implements the three-way runtime dispatch spec.md §4.E
// describes for `+`: string concatenation wins over boolean
// coercion, which wins over plain numeric addition. Pinky is
// dynamically typed, so this dispatch happens in emitted code, not at
// compile time — mirrored on the tag-dispatch style the runtime
// catalogue itself uses (e.g. is_truthy, stringify_into).
func (fc *funcGen) compilePlus(e *ast.BinaryExpr) {
	left := fc.fn.Scratch()
	right := fc.fn.Scratch()

	fc.compileExpr(e.Left)
	fc.emit(encoding.LocalSet(uint32(left)))
	fc.compileExpr(e.Right)
	fc.emit(encoding.LocalSet(uint32(right)))

	fc.emit(encoding.LocalGet(uint32(left)))
	fc.emit(encoding.Call(fc.g.runtimeIndex("is_string")))
	fc.emit(encoding.LocalGet(uint32(right)))
	fc.emit(encoding.Call(fc.g.runtimeIndex("is_string")))
	fc.emit([]byte{encoding.OpI32Or})

	fc.emit(encoding.If(encoding.BlockI32))
	fc.emit(encoding.LocalGet(uint32(left)))
	fc.emit(encoding.LocalGet(uint32(right)))
	fc.emit(encoding.Call(fc.g.runtimeIndex("concat")))
	fc.emit(encoding.Else())

	fc.emit(encoding.LocalGet(uint32(left)))
	fc.emit(encoding.Call(fc.g.runtimeIndex("is_bool")))
	fc.emit(encoding.LocalGet(uint32(right)))
	fc.emit(encoding.Call(fc.g.runtimeIndex("is_bool")))
	fc.emit([]byte{encoding.OpI32Or})

	fc.emit(encoding.If(encoding.BlockI32))
	fc.emit(encoding.LocalGet(uint32(left)))
	fc.emit(encoding.Call(fc.g.runtimeIndex("to_number")))
	fc.emit(encoding.Call(fc.g.runtimeIndex("unbox_number")))
	fc.emit(encoding.LocalGet(uint32(right)))
	fc.emit(encoding.Call(fc.g.runtimeIndex("to_number")))
	fc.emit(encoding.Call(fc.g.runtimeIndex("unbox_number")))
	fc.emit([]byte{encoding.OpF64Add})
	fc.emit(encoding.Call(fc.g.runtimeIndex("box_number")))
	fc.emit(encoding.Else())

	fc.emit(encoding.LocalGet(uint32(left)))
	fc.emit(encoding.Call(fc.g.runtimeIndex("unbox_number")))
	fc.emit(encoding.LocalGet(uint32(right)))
	fc.emit(encoding.Call(fc.g.runtimeIndex("unbox_number")))
	fc.emit([]byte{encoding.OpF64Add})
	fc.emit(encoding.Call(fc.g.runtimeIndex("box_number")))

	fc.emit(encoding.EndOp())
	fc.emit(encoding.EndOp())
}

// compileShortCircuit lowers `and` (isAnd=true) and `or` (isAnd=false)
// per spec.md §9: stash the left value in a scratch slot, then branch
// on its truthiness without evaluating the right operand unless the
// left's truthiness demands it.
func (fc *funcGen) compileShortCircuit(e *ast.BinaryExpr, isAnd bool) {
	scratch := fc.fn.Scratch()
	fc.compileExpr(e.Left)
	fc.emit(encoding.LocalSet(uint32(scratch)))

	fc.emit(encoding.LocalGet(uint32(scratch)))
	fc.emit(encoding.Call(fc.g.runtimeIndex("is_truthy")))
	fc.emit(encoding.If(encoding.BlockI32))
	if isAnd {
		fc.compileExpr(e.Right)
	} else {
		fc.emit(encoding.LocalGet(uint32(scratch)))
	}
	fc.emit(encoding.Else())
	if isAnd {
		fc.emit(encoding.LocalGet(uint32(scratch)))
	} else {
		fc.compileExpr(e.Right)
	}
	fc.emit(encoding.EndOp())
}

// builtinPredicates exposes the four tag predicates as user-callable
// functions (spec.md §4.E "FunctionCall"). Each is a raw i32-returning
// runtime helper; the call site re-boxes the result exactly once,
// correcting the double-box bug flagged in SPEC_FULL.md §4 item 2.
var builtinPredicates = map[string]bool{
	"is_nil": true, "is_bool": true, "is_number": true, "is_string": true,
}

func (fc *funcGen) compileCall(e *ast.CallExpr) {
	if entry, ok := fc.g.reg.Lookup(e.Callee); ok && entry.Kind == scope.KindUser {
		decl := fc.g.userDecl[e.Callee]
		if decl != nil && len(e.Args) != len(decl.Params) {
			fc.g.errorf(e.Position(), "function %q expects %d argument(s), got %d", e.Callee, len(decl.Params), len(e.Args))
			return
		}
		for _, arg := range e.Args {
			fc.compileExpr(arg)
		}
		fc.emit(encoding.Call(entry.Index))
		return
	}

	if builtinPredicates[e.Callee] {
		if len(e.Args) != 1 {
			fc.g.errorf(e.Position(), "%q expects 1 argument, got %d", e.Callee, len(e.Args))
			return
		}
		fc.compileExpr(e.Args[0])
		fc.emit(encoding.Call(fc.g.runtimeIndex(e.Callee)))
		fc.emit(encoding.Call(fc.g.runtimeIndex("box_bool")))
		return
	}

	fc.g.errorf(e.Position(), "undefined function %q", e.Callee)
}
