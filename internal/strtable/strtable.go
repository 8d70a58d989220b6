// Package strtable implements the append-only string-interning table
// that backs data segment 0 of the emitted module (spec.md §4.B).
// Every literal string is written once; repeated literals reuse the
// offset of the first occurrence.
package strtable

// Table interns literal strings into a single contiguous byte blob,
// placed at memory offset 0 in the final module's data segment.
type Table struct {
	blob    []byte
	offsets map[string]int
}

// New creates an empty string table.
func New() *Table {
	return &Table{offsets: make(map[string]int)}
}

// Intern records s if it hasn't been seen before and returns its
// (offset, length) within the final blob. The empty string is always
// valid and returns length 0; its offset is irrelevant to readers.
func (t *Table) Intern(s string) (offset, length int) {
	if off, ok := t.offsets[s]; ok {
		return off, len(s)
	}
	off := len(t.blob)
	t.offsets[s] = off
	t.blob = append(t.blob, s...)
	return off, len(s)
}

// Bytes returns the final interned blob. Its length is also the
// lowest legal value for the heap-pointer global's initial value
// (spec.md §3 invariant: heap pointer strictly exceeds the highest
// string-table offset).
func (t *Table) Bytes() []byte {
	return t.blob
}

// Len returns the current blob length.
func (t *Table) Len() int {
	return len(t.blob)
}
