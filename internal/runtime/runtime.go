// Package runtime authors the fixed catalogue of WASM helper functions
// that implement boxed-value semantics at run time: box_*, unbox_*,
// is_*, is_truthy, to_number, concat, mod, math_pow (spec.md §4.C).
// Every body here is a hand-written instruction sequence, assembled
// once per compile from the primitives in internal/encoding — there is
// no higher-level IR for this component, the same way the back-end's
// string/runtime glue is hand-assembled rather than derived from a
// tree.
package runtime

import "github.com/lhaig/pinky/internal/encoding"

// HeapGlobal is the index of the mutable i32 heap-pointer global
// (spec.md §3: "Boxes are allocated by bumping a single mutable heap
// pointer global").
const HeapGlobal = 0

// Box layout: 1-byte tag at offset 0, payload starting at offset 1.
const (
	tagNil    = 0
	tagBool   = 1
	tagNumber = 2
	tagString = 3
)

// Helper is one function in the runtime catalogue: its name (for
// diagnostics and the registry), its WASM signature, the extra local
// value types its body declares beyond its parameters, and the
// already-assembled instruction bytes (including the trailing `end`).
type Helper struct {
	Name    string
	Params  []byte
	Results []byte
	Locals  []byte
	Body    []byte
}

// Relative indices within the runtime catalogue, in emission order.
// Absolute function indices are base+relIndex, where base is the
// count of imported functions preceding the catalogue.
const (
	relBoxNil = iota
	relBoxBool
	relBoxNumber
	relBoxString
	relUnboxNumber
	relIsNil
	relIsBool
	relIsNumber
	relIsString
	relIsTruthy
	relToNumber
	relStringifyInto
	relConcat
	relMod
	relMathPow
)

func seq(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func op(b byte) []byte { return []byte{b} }

// Catalogue returns the runtime helper catalogue in fixed emission
// order. base is the absolute function index of the first runtime
// helper, i.e. the number of imported functions (env.print,
// env.println) that precede it in the concatenated import+function
// index space.
func Catalogue(base uint32) []Helper {
	boxNumberIdx := base + relBoxNumber

	return []Helper{
		boxNilHelper(),
		boxBoolHelper(),
		boxNumberHelper(),
		boxStringHelper(),
		unboxNumberHelper(),
		isTagHelper("is_nil", tagNil),
		isTagHelper("is_bool", tagBool),
		isTagHelper("is_number", tagNumber),
		isTagHelper("is_string", tagString),
		isTruthyHelper(),
		toNumberHelper(boxNumberIdx),
		stringifyIntoHelper(),
		concatHelper(base + relStringifyInto, base+relBoxString),
		modHelper(),
		mathPowHelper(),
	}
}

func boxNilHelper() Helper {
	return Helper{
		Name:    "box_nil",
		Results: []byte{encoding.ValI32},
		Locals:  []byte{encoding.ValI32}, // local 0: ptr
		Body: seq(
			encoding.GlobalGet(HeapGlobal),
			encoding.LocalTee(0),
			encoding.I32Const(tagNil),
			encoding.I32Store8(0),
			encoding.LocalGet(0),
			encoding.I32Const(1),
			op(encoding.OpI32Add),
			encoding.GlobalSet(HeapGlobal),
			encoding.LocalGet(0),
			op(encoding.OpEnd),
		),
	}
}

func boxBoolHelper() Helper {
	return Helper{
		Name:    "box_bool",
		Params:  []byte{encoding.ValI32},
		Results: []byte{encoding.ValI32},
		Locals:  []byte{encoding.ValI32}, // local 1: ptr
		Body: seq(
			encoding.GlobalGet(HeapGlobal),
			encoding.LocalTee(1),
			encoding.I32Const(tagBool),
			encoding.I32Store8(0),
			encoding.LocalGet(1),
			encoding.LocalGet(0),
			encoding.I32Store8(1),
			encoding.LocalGet(1),
			encoding.I32Const(2),
			op(encoding.OpI32Add),
			encoding.GlobalSet(HeapGlobal),
			encoding.LocalGet(1),
			op(encoding.OpEnd),
		),
	}
}

func boxNumberHelper() Helper {
	return Helper{
		Name:    "box_number",
		Params:  []byte{encoding.ValF64},
		Results: []byte{encoding.ValI32},
		Locals:  []byte{encoding.ValI32}, // local 1: ptr
		Body: seq(
			encoding.GlobalGet(HeapGlobal),
			encoding.LocalTee(1),
			encoding.I32Const(tagNumber),
			encoding.I32Store8(0),
			encoding.LocalGet(1),
			encoding.LocalGet(0),
			encoding.F64Store(1),
			encoding.LocalGet(1),
			encoding.I32Const(9),
			op(encoding.OpI32Add),
			encoding.GlobalSet(HeapGlobal),
			encoding.LocalGet(1),
			op(encoding.OpEnd),
		),
	}
}

func boxStringHelper() Helper {
	return Helper{
		Name:    "box_string",
		Params:  []byte{encoding.ValI32, encoding.ValI32},
		Results: []byte{encoding.ValI32},
		Locals:  []byte{encoding.ValI32}, // local 2: ptr
		Body: seq(
			encoding.GlobalGet(HeapGlobal),
			encoding.LocalTee(2),
			encoding.I32Const(tagString),
			encoding.I32Store8(0),
			encoding.LocalGet(2),
			encoding.LocalGet(0),
			encoding.I32Store(1),
			encoding.LocalGet(2),
			encoding.LocalGet(1),
			encoding.I32Store(5),
			encoding.LocalGet(2),
			encoding.I32Const(9),
			op(encoding.OpI32Add),
			encoding.GlobalSet(HeapGlobal),
			encoding.LocalGet(2),
			op(encoding.OpEnd),
		),
	}
}

func unboxNumberHelper() Helper {
	return Helper{
		Name:    "unbox_number",
		Params:  []byte{encoding.ValI32},
		Results: []byte{encoding.ValF64},
		Body: seq(
			encoding.LocalGet(0),
			encoding.F64Load(1),
			op(encoding.OpEnd),
		),
	}
}

func isTagHelper(name string, tag int32) Helper {
	return Helper{
		Name:    name,
		Params:  []byte{encoding.ValI32},
		Results: []byte{encoding.ValI32},
		Body: seq(
			encoding.LocalGet(0),
			encoding.I32Load8U(0),
			encoding.I32Const(tag),
			op(encoding.OpI32Eq),
			op(encoding.OpEnd),
		),
	}
}

// isTruthyHelper: false only for tag=nil or (tag=bool and payload=0).
// The boolean payload byte is already 0/1, so the bool branch can
// return it directly as the i32 result.
func isTruthyHelper() Helper {
	return Helper{
		Name:    "is_truthy",
		Params:  []byte{encoding.ValI32},
		Results: []byte{encoding.ValI32},
		Locals:  []byte{encoding.ValI32}, // local 1: tag
		Body: seq(
			encoding.LocalGet(0),
			encoding.I32Load8U(0),
			encoding.LocalTee(1),
			op(encoding.OpI32Eqz),
			encoding.If(encoding.BlockI32),
			encoding.I32Const(0),
			encoding.Else(),
			encoding.LocalGet(1),
			encoding.I32Const(tagBool),
			op(encoding.OpI32Eq),
			encoding.If(encoding.BlockI32),
			encoding.LocalGet(0),
			encoding.I32Load8U(1),
			encoding.Else(),
			encoding.I32Const(1),
			encoding.EndOp(),
			encoding.EndOp(),
			encoding.EndOp(),
		),
	}
}
