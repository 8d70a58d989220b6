// Package diagnostic collects the compiler's user-visible error and
// warning messages, keeping a uniform, positioned format across the
// lexer, parser, and code generator.
package diagnostic

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic message.
type Severity int

const (
	Error Severity = iota
	Warning
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic represents a single compiler error or warning, positioned
// at the offending token.
type Diagnostic struct {
	Severity Severity
	Message  string
	Line     int
	Column   int
	Length   int // token length, for CompilerError.token_length (spec.md §6.1)
}

// Diagnostics manages an ordered collection of diagnostics.
type Diagnostics struct {
	items []Diagnostic
}

// New creates a new empty Diagnostics collection.
func New() *Diagnostics {
	return &Diagnostics{items: make([]Diagnostic, 0)}
}

// Errorf adds an error diagnostic with a formatted message.
func (d *Diagnostics) Errorf(line, col, length int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Error,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
		Length:   length,
	})
}

// Warningf adds a warning diagnostic with a formatted message.
func (d *Diagnostics) Warningf(line, col, length int, format string, args ...interface{}) {
	d.items = append(d.items, Diagnostic{
		Severity: Warning,
		Message:  fmt.Sprintf(format, args...),
		Line:     line,
		Column:   col,
		Length:   length,
	})
}

// HasErrors returns true if there are any error-level diagnostics.
func (d *Diagnostics) HasErrors() bool {
	for _, item := range d.items {
		if item.Severity == Error {
			return true
		}
	}
	return false
}

// First returns the first error-level diagnostic, if any.
func (d *Diagnostics) First() (Diagnostic, bool) {
	for _, item := range d.items {
		if item.Severity == Error {
			return item, true
		}
	}
	return Diagnostic{}, false
}

// All returns every diagnostic regardless of severity.
func (d *Diagnostics) All() []Diagnostic {
	return d.items
}

// Count returns the total number of diagnostics.
func (d *Diagnostics) Count() int {
	return len(d.items)
}

// Format returns a human-readable rendering of all diagnostics.
//
//	error[hello.pinky:3:10]: undeclared variable "x"
//	warning[hello.pinky:5:1]: unreachable statement
func (d *Diagnostics) Format(filename string) string {
	if len(d.items) == 0 {
		return ""
	}

	var b strings.Builder
	for i, item := range d.items {
		b.WriteString(fmt.Sprintf("%s[%s:%d:%d]: %s",
			item.Severity.String(), filename, item.Line, item.Column, item.Message))
		if i < len(d.items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
