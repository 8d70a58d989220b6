package runtime

import "github.com/lhaig/pinky/internal/encoding"

// stringifyIntoHelper is an internal plumbing helper, not part of the
// externally documented runtime contract: it writes the decimal (or
// literal) text form of a boxed value starting at the current heap
// pointer, advances the heap pointer past what it wrote, and returns
// the number of bytes written. concat chains two calls to build its
// result without a separate scratch buffer.
//
// Locals beyond the ptr parameter:
//
//	1  tag        i32
//	2  dest       i32  (heap pointer captured at entry)
//	3  n          i32  (bytes written so far)
//	4  srcOffset  i32  (string branch)
//	5  srcLen     i32  (string branch)
//	6  i          i32  (string-copy loop index)
//	7  neg        i32  (number branch)
//	8  absVal     f64
//	9  intPart    i64
//	10 fracPart   f64
//	11 tmp        i64  (digit-count loop)
//	12 cnt        i32  (decimal digit count)
//	13 divisor    i64
//	14 digitIdx   i32
//	15 digitVal   i64
//	16 fracIdx    i32
//	17 fracDigit  i32
func stringifyIntoHelper() Helper {
	locals := []byte{
		encoding.ValI32, // 1 tag
		encoding.ValI32, // 2 dest
		encoding.ValI32, // 3 n
		encoding.ValI32, // 4 srcOffset
		encoding.ValI32, // 5 srcLen
		encoding.ValI32, // 6 i
		encoding.ValI32, // 7 neg
		encoding.ValF64, // 8 absVal
		encoding.ValI64, // 9 intPart
		encoding.ValF64, // 10 fracPart
		encoding.ValI64, // 11 tmp
		encoding.ValI32, // 12 cnt
		encoding.ValI64, // 13 divisor
		encoding.ValI32, // 14 digitIdx
		encoding.ValI64, // 15 digitVal
		encoding.ValI32, // 16 fracIdx
		encoding.ValI32, // 17 fracDigit
	}

	stringCopy := seq(
		encoding.LocalGet(0), encoding.I32Load(1), encoding.LocalSet(4), // srcOffset
		encoding.LocalGet(0), encoding.I32Load(5), encoding.LocalSet(5), // srcLen
		encoding.I32Const(0), encoding.LocalSet(6), // i = 0

		encoding.Block(encoding.BlockVoid),
		encoding.Loop(encoding.BlockVoid),
		encoding.LocalGet(6), encoding.LocalGet(5), op(encoding.OpI32LtS),
		op(encoding.OpI32Eqz), encoding.BrIf(1),

		encoding.LocalGet(2), encoding.LocalGet(3), op(encoding.OpI32Add), encoding.LocalGet(6), op(encoding.OpI32Add),
		encoding.LocalGet(4), encoding.LocalGet(6), op(encoding.OpI32Add), encoding.I32Load8U(0),
		encoding.I32Store8(0),

		encoding.LocalGet(6), encoding.I32Const(1), op(encoding.OpI32Add), encoding.LocalSet(6),
		encoding.Br(0),
		encoding.EndOp(),
		encoding.EndOp(),

		encoding.LocalGet(3), encoding.LocalGet(5), op(encoding.OpI32Add), encoding.LocalSet(3), // n += srcLen
	)

	boolBranch := seq(
		encoding.LocalGet(0), encoding.I32Load8U(1),
		encoding.If(encoding.BlockVoid),
		writeLiteral([]byte("true"), 2, 3),
		encoding.Else(),
		writeLiteral([]byte("false"), 2, 3),
		encoding.EndOp(),
	)

	nilBranch := writeLiteral([]byte("nil"), 2, 3)

	numberBranch := seq(
		encoding.LocalGet(0), encoding.F64Load(1), encoding.LocalSet(8), // absVal = value (for now)

		// neg = value < 0; absVal = neg ? -value : value
		encoding.LocalGet(8), encoding.F64Const(0), op(encoding.OpF64Lt),
		encoding.If(encoding.BlockVoid),
		encoding.I32Const(1), encoding.LocalSet(7),
		encoding.F64Const(0), encoding.LocalGet(8), op(encoding.OpF64Sub), encoding.LocalSet(8),
		encoding.EndOp(),

		encoding.LocalGet(8), op(encoding.OpI64TruncF64S), encoding.LocalSet(9), // intPart
		encoding.LocalGet(8), encoding.LocalGet(9), op(encoding.OpF64ConvertI64S), op(encoding.OpF64Sub), encoding.LocalSet(10), // fracPart

		// '-' prefix
		encoding.LocalGet(7),
		encoding.If(encoding.BlockVoid),
		encoding.LocalGet(2), encoding.LocalGet(3), op(encoding.OpI32Add),
		encoding.I32Const('-'),
		encoding.I32Store8(0),
		encoding.LocalGet(3), encoding.I32Const(1), op(encoding.OpI32Add), encoding.LocalSet(3),
		encoding.EndOp(),

		// digit count
		encoding.I32Const(1), encoding.LocalSet(12), // cnt = 1
		encoding.LocalGet(9), encoding.LocalSet(11), // tmp = intPart
		encoding.Block(encoding.BlockVoid),
		encoding.Loop(encoding.BlockVoid),
		encoding.LocalGet(11), encoding.I64Const(10), op(encoding.OpI64GeS),
		op(encoding.OpI32Eqz), encoding.BrIf(1),
		encoding.LocalGet(11), encoding.I64Const(10), op(encoding.OpI64DivS), encoding.LocalSet(11),
		encoding.LocalGet(12), encoding.I32Const(1), op(encoding.OpI32Add), encoding.LocalSet(12),
		encoding.Br(0),
		encoding.EndOp(),
		encoding.EndOp(),

		// divisor = 10^(cnt-1)
		encoding.I64Const(1), encoding.LocalSet(13),
		encoding.I32Const(0), encoding.LocalSet(14),
		encoding.Block(encoding.BlockVoid),
		encoding.Loop(encoding.BlockVoid),
		encoding.LocalGet(14), encoding.LocalGet(12), encoding.I32Const(1), op(encoding.OpI32Sub), op(encoding.OpI32LtS),
		op(encoding.OpI32Eqz), encoding.BrIf(1),
		encoding.LocalGet(13), encoding.I64Const(10), op(encoding.OpI64Mul), encoding.LocalSet(13),
		encoding.LocalGet(14), encoding.I32Const(1), op(encoding.OpI32Add), encoding.LocalSet(14),
		encoding.Br(0),
		encoding.EndOp(),
		encoding.EndOp(),

		// emit cnt digits, most significant first
		encoding.I32Const(0), encoding.LocalSet(14),
		encoding.Block(encoding.BlockVoid),
		encoding.Loop(encoding.BlockVoid),
		encoding.LocalGet(14), encoding.LocalGet(12), op(encoding.OpI32LtS),
		op(encoding.OpI32Eqz), encoding.BrIf(1),

		encoding.LocalGet(9), encoding.LocalGet(13), op(encoding.OpI64DivS),
		encoding.I64Const(10), op(encoding.OpI64RemS), encoding.LocalSet(15), // digitVal

		encoding.LocalGet(2), encoding.LocalGet(3), op(encoding.OpI32Add),
		encoding.I32Const('0'), encoding.LocalGet(15), op(encoding.OpI32WrapI64), op(encoding.OpI32Add),
		encoding.I32Store8(0),
		encoding.LocalGet(3), encoding.I32Const(1), op(encoding.OpI32Add), encoding.LocalSet(3),

		encoding.LocalGet(13), encoding.I64Const(10), op(encoding.OpI64DivS), encoding.LocalSet(13),
		encoding.LocalGet(14), encoding.I32Const(1), op(encoding.OpI32Add), encoding.LocalSet(14),
		encoding.Br(0),
		encoding.EndOp(),
		encoding.EndOp(),

		// fractional part, up to 6 digits, only if non-zero
		encoding.LocalGet(10), encoding.F64Const(0), op(encoding.OpF64Ne),
		encoding.If(encoding.BlockVoid),
		encoding.LocalGet(2), encoding.LocalGet(3), op(encoding.OpI32Add),
		encoding.I32Const('.'),
		encoding.I32Store8(0),
		encoding.LocalGet(3), encoding.I32Const(1), op(encoding.OpI32Add), encoding.LocalSet(3),

		encoding.I32Const(0), encoding.LocalSet(16),
		encoding.Block(encoding.BlockVoid),
		encoding.Loop(encoding.BlockVoid),
		encoding.LocalGet(16), encoding.I32Const(6), op(encoding.OpI32LtS),
		op(encoding.OpI32Eqz), encoding.BrIf(1),

		encoding.LocalGet(10), encoding.F64Const(10), op(encoding.OpF64Mul), encoding.LocalSet(10),
		encoding.LocalGet(10), op(encoding.OpI32TruncF64S), encoding.LocalSet(17), // fracDigit
		encoding.LocalGet(2), encoding.LocalGet(3), op(encoding.OpI32Add),
		encoding.I32Const('0'), encoding.LocalGet(17), op(encoding.OpI32Add),
		encoding.I32Store8(0),
		encoding.LocalGet(3), encoding.I32Const(1), op(encoding.OpI32Add), encoding.LocalSet(3),
		encoding.LocalGet(10), encoding.LocalGet(17), op(encoding.OpF64ConvertI32S), op(encoding.OpF64Sub), encoding.LocalSet(10),

		encoding.LocalGet(16), encoding.I32Const(1), op(encoding.OpI32Add), encoding.LocalSet(16),
		encoding.Br(0),
		encoding.EndOp(),
		encoding.EndOp(),
		encoding.EndOp(),
	)

	body := seq(
		encoding.LocalGet(0), encoding.I32Load8U(0), encoding.LocalSet(1),
		encoding.GlobalGet(HeapGlobal), encoding.LocalSet(2),
		encoding.I32Const(0), encoding.LocalSet(3),

		encoding.LocalGet(1), encoding.I32Const(tagString), op(encoding.OpI32Eq),
		encoding.If(encoding.BlockVoid),
		stringCopy,
		encoding.Else(),

		encoding.LocalGet(1), encoding.I32Const(tagBool), op(encoding.OpI32Eq),
		encoding.If(encoding.BlockVoid),
		boolBranch,
		encoding.Else(),

		encoding.LocalGet(1), encoding.I32Const(tagNil), op(encoding.OpI32Eq),
		encoding.If(encoding.BlockVoid),
		nilBranch,
		encoding.Else(),
		numberBranch,
		encoding.EndOp(),
		encoding.EndOp(),
		encoding.EndOp(),

		encoding.LocalGet(2), encoding.LocalGet(3), op(encoding.OpI32Add), encoding.GlobalSet(HeapGlobal),
		encoding.LocalGet(3),
		encoding.EndOp(),
	)

	return Helper{
		Name:    "stringify_into",
		Params:  []byte{encoding.ValI32},
		Results: []byte{encoding.ValI32},
		Locals:  locals,
		Body:    body,
	}
}

// writeLiteral writes the given bytes at (dest+n), recomputing the
// address fresh for each byte, then advances n by len(bytes).
func writeLiteral(lit []byte, destLocal, nLocal uint32) []byte {
	var out []byte
	for k, b := range lit {
		out = append(out, encoding.LocalGet(destLocal)...)
		out = append(out, encoding.LocalGet(nLocal)...)
		out = append(out, encoding.OpI32Add)
		if k > 0 {
			out = append(out, encoding.I32Const(int32(k))...)
			out = append(out, encoding.OpI32Add)
		}
		out = append(out, encoding.I32Const(int32(b))...)
		out = append(out, encoding.I32Store8(0)...)
	}
	out = append(out, encoding.LocalGet(nLocal)...)
	out = append(out, encoding.I32Const(int32(len(lit)))...)
	out = append(out, encoding.OpI32Add)
	out = append(out, encoding.LocalSet(nLocal)...)
	return out
}

// concatHelper stringifies both operands back-to-back into fresh heap
// bytes and boxes the result as a string (spec.md §4.C "concat").
func concatHelper(stringifyIntoIdx, boxStringIdx uint32) Helper {
	return Helper{
		Name:    "concat",
		Params:  []byte{encoding.ValI32, encoding.ValI32},
		Results: []byte{encoding.ValI32},
		Locals: []byte{
			encoding.ValI32, // 2 startOffset
			encoding.ValI32, // 3 lenA
			encoding.ValI32, // 4 lenB
		},
		Body: seq(
			encoding.GlobalGet(HeapGlobal), encoding.LocalSet(2),
			encoding.LocalGet(0), encoding.Call(stringifyIntoIdx), encoding.LocalSet(3),
			encoding.LocalGet(1), encoding.Call(stringifyIntoIdx), encoding.LocalSet(4),
			encoding.LocalGet(2),
			encoding.LocalGet(3), encoding.LocalGet(4), op(encoding.OpI32Add),
			encoding.Call(boxStringIdx),
			encoding.EndOp(),
		),
	}
}
