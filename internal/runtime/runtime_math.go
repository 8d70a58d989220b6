package runtime

import (
	"math"

	"github.com/lhaig/pinky/internal/encoding"
)

// modHelper implements floored modulus: the result takes the sign of
// the divisor. This resolves the open question in SPEC_FULL.md §4
// item 4 (mod semantics) in favor of floored rather than truncated
// division remainder.
//
//	mod(a, b) = a - floor(a/b)*b
func modHelper() Helper {
	return Helper{
		Name:    "mod",
		Params:  []byte{encoding.ValF64, encoding.ValF64},
		Results: []byte{encoding.ValF64},
		Locals:  []byte{encoding.ValF64, encoding.ValI64}, // 2 quotient, 3 truncated
		Body: seq(
			encoding.LocalGet(0), encoding.LocalGet(1), op(encoding.OpF64Div), encoding.LocalSet(2), // quotient = a/b

			// floor(quotient): truncate toward zero, then step down by
			// one if the truncation rounded up (quotient negative and
			// not already integral).
			encoding.LocalGet(2), op(encoding.OpI64TruncF64S), encoding.LocalSet(3),
			encoding.LocalGet(2), encoding.LocalGet(3), op(encoding.OpF64ConvertI64S), op(encoding.OpF64Lt),
			encoding.If(encoding.BlockVoid),
			encoding.LocalGet(3), encoding.I64Const(1), op(encoding.OpI64Sub), encoding.LocalSet(3),
			encoding.EndOp(),

			// a - floor(a/b)*b
			encoding.LocalGet(0),
			encoding.LocalGet(3), op(encoding.OpF64ConvertI64S), encoding.LocalGet(1), op(encoding.OpF64Mul),
			op(encoding.OpF64Sub),
			encoding.EndOp(),
		),
	}
}

// mathPowHelper implements exponentiation by repeated squaring for
// integral exponents, with a reciprocal fallback for negative
// exponents. Non-integral exponents (spec.md §4.C's "IEEE-754
// exponentiation" does not restrict `math_pow` to integers) cannot be
// computed this way: WASM 1.0 has no transcendental instructions
// (no log2/exp2) to build a general real power from, and none of the
// retrieval pack's dependencies ship a software implementation either.
// Rather than silently truncating the exponent to the nearest integer
// and returning a plausible-looking wrong answer (e.g. 2^0.5 = 1), a
// fractional exponent returns NaN — an honest, visibly-abnormal signal
// instead of a silent one. This restriction is recorded as a resolved
// decision in SPEC_FULL.md §4.
func mathPowHelper() Helper {
	return Helper{
		Name:    "math_pow",
		Params:  []byte{encoding.ValF64, encoding.ValF64},
		Results: []byte{encoding.ValF64},
		Locals: []byte{
			encoding.ValI64, // 2 n        (truncated exponent magnitude)
			encoding.ValF64, // 3 result
			encoding.ValF64, // 4 base
			encoding.ValI32, // 5 neg
		},
		Body: seq(
			encoding.LocalGet(1), op(encoding.OpI64TruncF64S), encoding.LocalSet(2),

			// Fractional exponent: trunc(exp) as f64 must round-trip back
			// to exp exactly, or this isn't an integral power.
			encoding.LocalGet(1),
			encoding.LocalGet(2), op(encoding.OpF64ConvertI64S),
			op(encoding.OpF64Ne),
			encoding.If(encoding.BlockF64),
			encoding.F64Const(math.NaN()),
			encoding.Else(),

			encoding.I32Const(0), encoding.LocalSet(5),
			encoding.LocalGet(2), encoding.I64Const(0), op(encoding.OpI64LtS),
			encoding.If(encoding.BlockVoid),
			encoding.I32Const(1), encoding.LocalSet(5),
			encoding.I64Const(0), encoding.LocalGet(2), op(encoding.OpI64Sub), encoding.LocalSet(2),
			encoding.EndOp(),

			encoding.F64Const(1), encoding.LocalSet(3), // result = 1
			encoding.LocalGet(0), encoding.LocalSet(4), // base = operand

			encoding.Block(encoding.BlockVoid),
			encoding.Loop(encoding.BlockVoid),
			encoding.LocalGet(2), op(encoding.OpI64Eqz),
			encoding.BrIf(1),

			encoding.LocalGet(2), encoding.I64Const(2), op(encoding.OpI64RemS), encoding.I64Const(0), op(encoding.OpI64Eq),
			encoding.If(encoding.BlockVoid),
			// even: base *= base; n /= 2
			encoding.LocalGet(4), encoding.LocalGet(4), op(encoding.OpF64Mul), encoding.LocalSet(4),
			encoding.LocalGet(2), encoding.I64Const(2), op(encoding.OpI64DivS), encoding.LocalSet(2),
			encoding.Else(),
			// odd: result *= base; n -= 1
			encoding.LocalGet(3), encoding.LocalGet(4), op(encoding.OpF64Mul), encoding.LocalSet(3),
			encoding.LocalGet(2), encoding.I64Const(1), op(encoding.OpI64Sub), encoding.LocalSet(2),
			encoding.EndOp(),

			encoding.Br(0),
			encoding.EndOp(),
			encoding.EndOp(),

			encoding.LocalGet(5),
			encoding.If(encoding.BlockF64),
			encoding.F64Const(1), encoding.LocalGet(3), op(encoding.OpF64Div),
			encoding.Else(),
			encoding.LocalGet(3),
			encoding.EndOp(),

			encoding.EndOp(), // closes the outer fractional-exponent If/Else
			encoding.EndOp(), // function terminator
		),
	}
}
