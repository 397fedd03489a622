// Package diagnostic carries CCL's fixed-wording error catalogue.
//
// CCL's analyser is fail-fast: a run produces at most one diagnostic, and
// its wording is part of the acceptance contract (spec §7-§8), so this
// package does not rank severities or collect warnings the way a general
// compiler diagnostics package would. It keeps the teacher's line/column
// bookkeeping and Errorf-style construction, but a Diagnostic is the thing
// a failed Analyse call returns, not an item in a growing list; only the
// parser collects several, in a Diagnostics.
package diagnostic

import "fmt"

// Diagnostic is a single CCL error: a fixed, capitalised sentence together
// with the source position of the first AST node that violated a rule.
type Diagnostic struct {
	Line    int
	Column  int
	Message string
}

// Errorf constructs a Diagnostic with a formatted message.
func Errorf(line, col int, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{Line: line, Column: col, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface so a *Diagnostic can be returned and
// compared anywhere a plain error is expected.
func (d *Diagnostic) Error() string {
	if d == nil {
		return ""
	}
	return d.Message
}

// String renders the diagnostic with its source position, the format used
// by the cclcheck CLI driver.
func (d *Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s", d.Line, d.Column, d.Message)
}

// Diagnostics collects multiple diagnostics. The lexer/parser use it to
// report more than one syntax error per run (recovering and resynchronizing
// on each); the semantic checker never does, since spec §7 requires it to
// abort after the first violation.
type Diagnostics struct {
	items []*Diagnostic
}

// New creates an empty Diagnostics collection.
func New() *Diagnostics {
	return &Diagnostics{}
}

// Add appends a diagnostic to the collection.
func (d *Diagnostics) Add(diag *Diagnostic) {
	d.items = append(d.items, diag)
}

// Errorf appends a formatted diagnostic to the collection.
func (d *Diagnostics) Errorf(line, col int, format string, args ...interface{}) {
	d.Add(Errorf(line, col, format, args...))
}

// HasErrors reports whether any diagnostic has been recorded.
func (d *Diagnostics) HasErrors() bool {
	return len(d.items) > 0
}

// First returns the first recorded diagnostic, or nil if none.
func (d *Diagnostics) First() *Diagnostic {
	if len(d.items) == 0 {
		return nil
	}
	return d.items[0]
}

// All returns every recorded diagnostic in the order they were added.
func (d *Diagnostics) All() []*Diagnostic {
	return d.items
}

// Format renders every diagnostic, one per line, prefixed with filename.
func (d *Diagnostics) Format(filename string) string {
	out := ""
	for i, item := range d.items {
		if i > 0 {
			out += "\n"
		}
		out += fmt.Sprintf("%s:%s", filename, item.String())
	}
	return out
}
