// Package scope implements lexical scoping and local-slot allocation
// for a single function body, plus the function-symbol registry that
// assigns the fixed import/runtime/user-function index space
// (spec.md §3 "Function catalogue", §4.D).
package scope

// binding is a single name→slot entry in one lexical scope.
type binding struct {
	name string
	slot int
}

// Function tracks local-slot allocation and lexical scoping for one
// function body. Named and scratch slots are boxed pointers, typed
// i32 in WASM terms; the monotonically-growing slot counter never
// resets between nested scopes — only name visibility is scoped.
// Control-flow lowering also needs raw, unboxed WASM locals (the
// while/for MAX_ITERATIONS counter, a for-loop's stop/step bounds);
// RawLocal shares the same counter so every local past the parameters
// still gets one contiguous, gap-free index space, but records its
// own value type instead of assuming a boxed i32 pointer.
type Function struct {
	nextSlot   int
	paramCount int
	types      []byte // value type of each slot from paramCount onward, indexed by slot-paramCount
	scopes     [][]binding // stack of scopes, each a list of bindings
	scratchCnt int
}

// NewFunction creates a function-local allocator with params occupying
// slots 0..len(params)-1 in a base scope. Parameter types are declared
// by the function signature itself, not the locals prelude, so they
// are not recorded in types.
func NewFunction(params []string) *Function {
	f := &Function{paramCount: len(params)}
	f.nextSlot = len(params)
	f.EnterScope()
	for i, p := range params {
		f.scopes[len(f.scopes)-1] = append(f.scopes[len(f.scopes)-1], binding{name: p, slot: i})
	}
	return f
}

// EnterScope pushes a new, empty lexical scope.
func (f *Function) EnterScope() {
	f.scopes = append(f.scopes, nil)
}

// ExitScope pops the innermost lexical scope. Slots already allocated
// to names in it are never reused; the slot counter does not rewind.
func (f *Function) ExitScope() {
	f.scopes = f.scopes[:len(f.scopes)-1]
}

// valI32 is encoding.ValI32's value, 0x7F. Duplicated here rather than
// imported to keep scope free of a dependency on the encoding package;
// both packages depend on the WASM value-type byte layout independently.
const valI32 = 0x7F

func (f *Function) declareIn(scopeIdx int, name string) int {
	slot := f.nextSlot
	f.nextSlot++
	f.types = append(f.types, valI32)
	f.scopes[scopeIdx] = append(f.scopes[scopeIdx], binding{name: name, slot: slot})
	return slot
}

// Declare binds name to a fresh slot in the innermost scope,
// unconditionally shadowing any outer binding of the same name. This
// is the semantics of Pinky's local-declaration assignment form `:=`.
func (f *Function) Declare(name string) int {
	return f.declareIn(len(f.scopes)-1, name)
}

// Assign resolves name outward through the scope stack and returns its
// existing slot; if no binding exists anywhere, it declares a new one
// in the innermost scope. This is the semantics of plain `=` assignment.
func (f *Function) Assign(name string) int {
	if slot, ok := f.Resolve(name); ok {
		return slot
	}
	return f.Declare(name)
}

// Resolve looks up name from the innermost scope outward.
func (f *Function) Resolve(name string) (slot int, ok bool) {
	for i := len(f.scopes) - 1; i >= 0; i-- {
		bindings := f.scopes[i]
		for j := len(bindings) - 1; j >= 0; j-- {
			if bindings[j].name == name {
				return bindings[j].slot, true
			}
		}
	}
	return 0, false
}

// Scratch allocates an anonymous boxed-pointer local slot for a codegen
// temporary (e.g. the left/right stash in `+`'s runtime dispatch, or
// the and/or short-circuit stash), never visible to name resolution.
func (f *Function) Scratch() int {
	slot := f.nextSlot
	f.nextSlot++
	f.scratchCnt++
	f.types = append(f.types, valI32)
	return slot
}

// RawLocal allocates an anonymous local of vtype that holds a raw WASM
// value rather than a boxed pointer — the while/for MAX_ITERATIONS
// counter, or a for-loop's stop/step/descending bookkeeping. It shares
// the same slot counter as Declare/Scratch so every local past the
// parameters still occupies one contiguous index space, but records
// its true value type instead of assuming a boxed i32 pointer.
func (f *Function) RawLocal(vtype byte) int {
	slot := f.nextSlot
	f.nextSlot++
	f.types = append(f.types, vtype)
	return slot
}

// SlotCount returns the total number of slots allocated so far
// (parameters included).
func (f *Function) SlotCount() int {
	return f.nextSlot
}

// LocalTypes returns the WASM value type of every local beyond the
// function's parameters, in slot order — exactly what the code
// section's local-declarations prelude must declare.
func (f *Function) LocalTypes() []byte {
	return f.types
}
