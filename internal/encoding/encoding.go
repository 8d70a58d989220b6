// Package encoding implements the WASM 1.0 binary encoder primitives
// used to assemble a module: LEB128 integers, IEEE-754 float64 bytes,
// length-prefixed vectors and sections, and the opcode/section-id/
// value-type constant tables (spec.md §4.A, §6.2).
package encoding

import (
	"encoding/binary"
	"math"
)

// Magic returns the 4-byte WASM magic number, `\0asm`.
func Magic() []byte { return []byte{0x00, 0x61, 0x73, 0x6D} }

// Version returns the 4-byte WASM binary format version (1).
func Version() []byte { return []byte{0x01, 0x00, 0x00, 0x00} }

// Section IDs, in the fixed emission order spec.md §6.2 requires.
const (
	SectionType     byte = 1
	SectionImport   byte = 2
	SectionFunction byte = 3
	SectionMemory   byte = 5
	SectionGlobal   byte = 6
	SectionExport   byte = 7
	SectionCode     byte = 10
	SectionData     byte = 11
)

// Value types.
const (
	ValI32 byte = 0x7F
	ValI64 byte = 0x7E
	ValF32 byte = 0x7D
	ValF64 byte = 0x7C
)

// Export kinds.
const (
	ExportFunc   byte = 0x00
	ExportMemory byte = 0x02
)

// Import kinds.
const (
	ImportFunc byte = 0x00
)

// Global mutability flags.
const (
	GlobalConst byte = 0x00
	GlobalVar   byte = 0x01
)

// Opcodes available to the AST lowering component and the runtime
// helper catalogue (spec.md §6.2 opcode table). A few listed values
// (e.g. OpNop, OpMemoryGrow, OpI32Mul) are not emitted anywhere; this
// is not a complete WASM opcode table.
const (
	// Control flow
	OpUnreachable byte = 0x00
	OpNop         byte = 0x01
	OpBlock       byte = 0x02
	OpLoop        byte = 0x03
	OpIf          byte = 0x04
	OpElse        byte = 0x05
	OpEnd         byte = 0x0B
	OpBr          byte = 0x0C
	OpBrIf        byte = 0x0D
	OpReturn      byte = 0x0F
	OpCall        byte = 0x10
	OpDrop        byte = 0x1A

	// Variables and globals
	OpLocalGet  byte = 0x20
	OpLocalSet  byte = 0x21
	OpLocalTee  byte = 0x22
	OpGlobalGet byte = 0x23
	OpGlobalSet byte = 0x24

	// Memory
	OpI32Load    byte = 0x28
	OpI32Load8U  byte = 0x2D
	OpF64Load    byte = 0x2B
	OpI32Store   byte = 0x36
	OpI32Store8  byte = 0x3A
	OpF64Store   byte = 0x39
	OpMemorySize byte = 0x3F
	OpMemoryGrow byte = 0x40

	// Constants
	OpI32Const byte = 0x41
	OpI64Const byte = 0x42
	OpF64Const byte = 0x44

	// i32 comparisons and arithmetic
	OpI32Eqz  byte = 0x45
	OpI32Eq   byte = 0x46
	OpI32Ne   byte = 0x47
	OpI32LtS  byte = 0x48
	OpI32GtS  byte = 0x4A
	OpI32LeS  byte = 0x4C
	OpI32GeS  byte = 0x4E
	OpI32Add  byte = 0x6A
	OpI32Sub  byte = 0x6B
	OpI32Mul  byte = 0x6C
	OpI32DivS byte = 0x6D
	OpI32RemS byte = 0x6F
	OpI32And  byte = 0x71
	OpI32Or   byte = 0x72

	// f64 comparisons and arithmetic
	OpF64Eq  byte = 0x61
	OpF64Ne  byte = 0x62
	OpF64Lt  byte = 0x63
	OpF64Gt  byte = 0x64
	OpF64Le  byte = 0x65
	OpF64Ge  byte = 0x66
	OpF64Neg byte = 0x9A
	OpF64Add byte = 0xA0
	OpF64Sub byte = 0xA1
	OpF64Mul byte = 0xA2
	OpF64Div byte = 0xA3

	// i64 operations
	OpI64Eqz  byte = 0x50
	OpI64Eq   byte = 0x51
	OpI64LtS  byte = 0x53
	OpI64GeS  byte = 0x59
	OpI64Add  byte = 0x7C
	OpI64Sub  byte = 0x7D
	OpI64Mul  byte = 0x7E
	OpI64DivS byte = 0x7F
	OpI64RemS byte = 0x81

	// Conversions
	OpF64ConvertI32S byte = 0xB7
	OpI32TruncF64S   byte = 0xAA
	OpI64TruncF64S   byte = 0xB0
	OpF64ConvertI64S byte = 0xB9
	OpI32WrapI64     byte = 0xA7

	// Block types
	BlockVoid byte = 0x40
	BlockI32  byte = 0x7F
	BlockF64  byte = 0x7C
)

// Uleb128 encodes an unsigned integer as unsigned LEB128.
func Uleb128(value uint64) []byte {
	if value == 0 {
		return []byte{0}
	}
	var out []byte
	for value > 0 {
		b := byte(value & 0x7F)
		value >>= 7
		if value > 0 {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}

// Sleb128 encodes a signed integer as signed LEB128.
func Sleb128(value int64) []byte {
	var out []byte
	more := true
	for more {
		b := byte(value & 0x7F)
		value >>= 7
		if (value == 0 && b&0x40 == 0) || (value == -1 && b&0x40 != 0) {
			more = false
		} else {
			b |= 0x80
		}
		out = append(out, b)
	}
	return out
}

// F64Bytes encodes a float64 as 8 little-endian bytes.
func F64Bytes(value float64) []byte {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(value))
	return buf[:]
}

// String encodes a byte-length-prefixed UTF-8 string (the `name`
// production used by import/export entries).
func String(s string) []byte {
	out := Uleb128(uint64(len(s)))
	return append(out, []byte(s)...)
}

// Section wraps contents with a section ID byte and a ULEB128 byte
// length prefix.
func Section(id byte, contents []byte) []byte {
	out := []byte{id}
	out = append(out, Uleb128(uint64(len(contents)))...)
	return append(out, contents...)
}

// Vector prepends a ULEB128 element count to items, which must already
// hold `count` concatenated encoded elements.
func Vector(count int, items []byte) []byte {
	out := Uleb128(uint64(count))
	return append(out, items...)
}

// I32Const returns the bytes for an `i32.const value` instruction.
func I32Const(value int32) []byte {
	return append([]byte{OpI32Const}, Sleb128(int64(value))...)
}

// F64Const returns the bytes for an `f64.const value` instruction.
func F64Const(value float64) []byte {
	return append([]byte{OpF64Const}, F64Bytes(value)...)
}

// I64Const returns the bytes for an `i64.const value` instruction.
func I64Const(value int64) []byte {
	return append([]byte{OpI64Const}, Sleb128(value)...)
}

// If returns the bytes for an `if` instruction opening a structured
// block with the given result block type (BlockVoid, BlockI32, ...).
func If(resultType byte) []byte {
	return []byte{OpIf, resultType}
}

// Block returns the bytes for a `block` instruction.
func Block(resultType byte) []byte {
	return []byte{OpBlock, resultType}
}

// Loop returns the bytes for a `loop` instruction.
func Loop(resultType byte) []byte {
	return []byte{OpLoop, resultType}
}

// Else returns the bytes for the `else` instruction.
func Else() []byte { return []byte{OpElse} }

// EndOp returns the bytes for the `end` instruction closing a
// structured block, function, or if/else.
func EndOp() []byte { return []byte{OpEnd} }

// LocalGet returns the bytes for a `local.get index` instruction.
func LocalGet(index uint32) []byte {
	return append([]byte{OpLocalGet}, Uleb128(uint64(index))...)
}

// LocalSet returns the bytes for a `local.set index` instruction.
func LocalSet(index uint32) []byte {
	return append([]byte{OpLocalSet}, Uleb128(uint64(index))...)
}

// LocalTee returns the bytes for a `local.tee index` instruction.
func LocalTee(index uint32) []byte {
	return append([]byte{OpLocalTee}, Uleb128(uint64(index))...)
}

// GlobalGet returns the bytes for a `global.get index` instruction.
func GlobalGet(index uint32) []byte {
	return append([]byte{OpGlobalGet}, Uleb128(uint64(index))...)
}

// GlobalSet returns the bytes for a `global.set index` instruction.
func GlobalSet(index uint32) []byte {
	return append([]byte{OpGlobalSet}, Uleb128(uint64(index))...)
}

// Call returns the bytes for a `call funcIndex` instruction.
func Call(funcIndex uint32) []byte {
	return append([]byte{OpCall}, Uleb128(uint64(funcIndex))...)
}

// BrIf returns the bytes for a `br_if depth` instruction.
func BrIf(depth uint32) []byte {
	return append([]byte{OpBrIf}, Uleb128(uint64(depth))...)
}

// Br returns the bytes for a `br depth` instruction.
func Br(depth uint32) []byte {
	return append([]byte{OpBr}, Uleb128(uint64(depth))...)
}

// memarg encodes the (align, offset) pair every memory instruction
// carries ahead of the address already on the stack. align is a log2
// alignment hint, not a byte count; natural alignment is used
// throughout the runtime helpers.
func memarg(align uint32, offset uint32) []byte {
	out := Uleb128(uint64(align))
	return append(out, Uleb128(uint64(offset))...)
}

// I32Load8U returns `i32.load8_u offset`.
func I32Load8U(offset uint32) []byte {
	return append([]byte{OpI32Load8U}, memarg(0, offset)...)
}

// I32Store8 returns `i32.store8 offset`.
func I32Store8(offset uint32) []byte {
	return append([]byte{OpI32Store8}, memarg(0, offset)...)
}

// I32Load returns `i32.load offset`.
func I32Load(offset uint32) []byte {
	return append([]byte{OpI32Load}, memarg(2, offset)...)
}

// I32Store returns `i32.store offset`.
func I32Store(offset uint32) []byte {
	return append([]byte{OpI32Store}, memarg(2, offset)...)
}

// F64Load returns `f64.load offset`.
func F64Load(offset uint32) []byte {
	return append([]byte{OpF64Load}, memarg(3, offset)...)
}

// F64Store returns `f64.store offset`.
func F64Store(offset uint32) []byte {
	return append([]byte{OpF64Store}, memarg(3, offset)...)
}
