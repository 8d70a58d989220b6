package runtime

import "github.com/lhaig/pinky/internal/encoding"

// toNumberHelper coerces any boxed value to a boxed number: booleans
// become 0/1, nil becomes 0, numbers pass through unchanged, strings
// are parsed as a (possibly signed, possibly fractional) decimal
// literal or coerced to NaN if nothing valid could be read.
//
// Locals beyond the ptr parameter:
//
//	1  tag          i32
//	2  strOffset    i32
//	3  strLen       i32
//	4  i            i32  (string scan index)
//	5  result       f64  (string-parse accumulator)
//	6  fracDiv      f64
//	7  seenDot      i32
//	8  sign         f64
//	9  ch           i32
//	10 validSeen    i32
//	11 digit        f64
func toNumberHelper(boxNumberIdx uint32) Helper {
	locals := []byte{
		encoding.ValI32, // 1 tag
		encoding.ValI32, // 2 strOffset
		encoding.ValI32, // 3 strLen
		encoding.ValI32, // 4 i
		encoding.ValF64, // 5 result
		encoding.ValF64, // 6 fracDiv
		encoding.ValI32, // 7 seenDot
		encoding.ValF64, // 8 sign
		encoding.ValI32, // 9 ch
		encoding.ValI32, // 10 validSeen
		encoding.ValF64, // 11 digit
	}

	stringBranch := seq(
		encoding.LocalGet(0), encoding.I32Load(1), encoding.LocalSet(2), // strOffset
		encoding.LocalGet(0), encoding.I32Load(5), encoding.LocalSet(3), // strLen
		encoding.I32Const(0), encoding.LocalSet(4), // i = 0
		encoding.F64Const(0), encoding.LocalSet(5), // result = 0
		encoding.F64Const(1), encoding.LocalSet(6), // fracDiv = 1
		encoding.I32Const(0), encoding.LocalSet(7), // seenDot = 0
		encoding.F64Const(1), encoding.LocalSet(8), // sign = 1
		encoding.I32Const(0), encoding.LocalSet(10), // validSeen = 0

		// leading '-' sign
		encoding.LocalGet(3), encoding.I32Const(0), op(encoding.OpI32GtS),
		encoding.If(encoding.BlockVoid),
		encoding.LocalGet(2), encoding.I32Load8U(0), encoding.I32Const('-'), op(encoding.OpI32Eq),
		encoding.If(encoding.BlockVoid),
		encoding.F64Const(-1), encoding.LocalSet(8),
		encoding.I32Const(1), encoding.LocalSet(4),
		encoding.EndOp(),
		encoding.EndOp(),

		// scan loop
		encoding.Block(encoding.BlockVoid),
		encoding.Loop(encoding.BlockVoid),
		encoding.LocalGet(4), encoding.LocalGet(3), op(encoding.OpI32LtS),
		op(encoding.OpI32Eqz), encoding.BrIf(1),

		encoding.LocalGet(2), encoding.LocalGet(4), op(encoding.OpI32Add),
		encoding.I32Load8U(0), encoding.LocalSet(9), // ch

		// ch == '.' && !seenDot
		encoding.LocalGet(9), encoding.I32Const('.'), op(encoding.OpI32Eq),
		encoding.LocalGet(7), op(encoding.OpI32Eqz),
		op(encoding.OpI32And),
		encoding.If(encoding.BlockVoid),
		encoding.I32Const(1), encoding.LocalSet(7),
		encoding.Else(),

		// '0'..'9'
		encoding.LocalGet(9), encoding.I32Const('0'), op(encoding.OpI32GeS),
		encoding.LocalGet(9), encoding.I32Const('9'), op(encoding.OpI32LeS),
		op(encoding.OpI32And),
		encoding.If(encoding.BlockVoid),
		encoding.I32Const(1), encoding.LocalSet(10),
		encoding.LocalGet(9), encoding.I32Const('0'), op(encoding.OpI32Sub),
		op(encoding.OpF64ConvertI32S), encoding.LocalSet(11),
		encoding.LocalGet(7),
		encoding.If(encoding.BlockVoid),
		encoding.LocalGet(6), encoding.F64Const(10), op(encoding.OpF64Mul), encoding.LocalSet(6),
		encoding.LocalGet(5), encoding.LocalGet(11), encoding.LocalGet(6), op(encoding.OpF64Div), op(encoding.OpF64Add), encoding.LocalSet(5),
		encoding.Else(),
		encoding.LocalGet(5), encoding.F64Const(10), op(encoding.OpF64Mul), encoding.LocalGet(11), op(encoding.OpF64Add), encoding.LocalSet(5),
		encoding.EndOp(),
		encoding.Else(),
		// invalid trailing character: mark invalid, force exit next check
		encoding.I32Const(0), encoding.LocalSet(10),
		encoding.LocalGet(3), encoding.LocalSet(4),
		encoding.EndOp(),
		encoding.EndOp(),

		encoding.LocalGet(4), encoding.I32Const(1), op(encoding.OpI32Add), encoding.LocalSet(4),
		encoding.Br(0),
		encoding.EndOp(), // loop
		encoding.EndOp(), // block

		encoding.LocalGet(10), op(encoding.OpI32Eqz),
		encoding.If(encoding.BlockVoid),
		encoding.F64Const(0), encoding.F64Const(0), op(encoding.OpF64Div), encoding.LocalSet(5), // NaN
		encoding.Else(),
		encoding.LocalGet(5), encoding.LocalGet(8), op(encoding.OpF64Mul), encoding.LocalSet(5),
		encoding.EndOp(),

		encoding.LocalGet(5),
		encoding.Call(boxNumberIdx),
	)

	body := seq(
		encoding.LocalGet(0), encoding.I32Load8U(0), encoding.LocalSet(1),

		encoding.LocalGet(1), encoding.I32Const(tagNumber), op(encoding.OpI32Eq),
		encoding.If(encoding.BlockI32),
		encoding.LocalGet(0), // passthrough, already boxed
		encoding.Else(),

		encoding.LocalGet(1), encoding.I32Const(tagBool), op(encoding.OpI32Eq),
		encoding.If(encoding.BlockI32),
		encoding.LocalGet(0), encoding.I32Load8U(1), op(encoding.OpF64ConvertI32S),
		encoding.Call(boxNumberIdx),
		encoding.Else(),

		encoding.LocalGet(1), encoding.I32Const(tagNil), op(encoding.OpI32Eq),
		encoding.If(encoding.BlockI32),
		encoding.F64Const(0),
		encoding.Call(boxNumberIdx),
		encoding.Else(),

		stringBranch,

		encoding.EndOp(),
		encoding.EndOp(),
		encoding.EndOp(),
		encoding.EndOp(),
	)

	return Helper{
		Name:    "to_number",
		Params:  []byte{encoding.ValI32},
		Results: []byte{encoding.ValI32},
		Locals:  locals,
		Body:    body,
	}
}
