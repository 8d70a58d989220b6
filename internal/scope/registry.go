package scope

// Signature is a WASM function type: parameter and result value types.
type Signature struct {
	Params  []byte
	Results []byte
}

// FuncKind distinguishes the three disjoint index spaces the catalogue
// assigns function indices from, in order (spec.md §3).
type FuncKind int

const (
	KindImport FuncKind = iota
	KindRuntime
	KindUser
)

// FuncEntry is one row of the function-symbol registry.
type FuncEntry struct {
	Name  string
	Kind  FuncKind
	Index uint32
	Sig   Signature
}

// Registry assigns every function — imported, runtime helper, or
// user-defined — a stable index in the concatenated import+function
// order the final module uses for `call` opcodes.
type Registry struct {
	byName  map[string]*FuncEntry
	order   []*FuncEntry
	nextIdx uint32
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*FuncEntry)}
}

// Declare adds a function of the given kind and signature, returning
// its new entry, whose Index is the assigned function index. Declarations must happen in catalogue order:
// all imports, then all runtime helpers, then all user functions.
func (r *Registry) Declare(name string, kind FuncKind, sig Signature) *FuncEntry {
	entry := &FuncEntry{Name: name, Kind: kind, Index: r.nextIdx, Sig: sig}
	r.nextIdx++
	r.byName[name] = entry
	r.order = append(r.order, entry)
	return entry
}

// Lookup returns the entry for name, if declared.
func (r *Registry) Lookup(name string) (*FuncEntry, bool) {
	e, ok := r.byName[name]
	return e, ok
}

// All returns every entry in declaration (index) order.
func (r *Registry) All() []*FuncEntry {
	return r.order
}

// OfKind returns every entry of the given kind, in declaration order.
func (r *Registry) OfKind(kind FuncKind) []*FuncEntry {
	var out []*FuncEntry
	for _, e := range r.order {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Count returns the total number of declared functions.
func (r *Registry) Count() int {
	return len(r.order)
}
