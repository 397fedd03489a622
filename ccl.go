// Package ccl ties the lexer, parser, and checker into the single
// entry point a driver needs: parse source text, then analyse it,
// returning whichever diagnostic fired first.
package ccl

import (
	"github.com/ccllang/ccl/internal/ast"
	"github.com/ccllang/ccl/internal/checker"
	"github.com/ccllang/ccl/internal/diagnostic"
	"github.com/ccllang/ccl/internal/parser"
)

// Analysis is the result of successfully checking a method: the parsed
// AST plus the symbol table the checker built for it.
type Analysis struct {
	Method *ast.Method
	Result *checker.Result
}

// Check parses and semantically analyses source, stopping at the first
// diagnostic raised by either stage. Parse diagnostics are reported as
// a *diagnostic.Diagnostics collection (the lexer/parser recover and
// resynchronize); a checker diagnostic is always singular.
func Check(source string) (*Analysis, *diagnostic.Diagnostics) {
	p := parser.New(source)
	method := p.Parse()
	if p.Diagnostics().HasErrors() {
		return nil, p.Diagnostics()
	}

	res, diag := checker.Analyse(method)
	if diag != nil {
		out := diagnostic.New()
		out.Add(diag)
		return nil, out
	}

	return &Analysis{Method: method, Result: res}, nil
}

// Parse exposes just the lexer/parser stage, for callers (the cclcheck
// CLI's -ast flag) that want the syntax tree independent of whether the
// checker goes on to accept it.
func Parse(source string) (*ast.Method, *diagnostic.Diagnostics) {
	p := parser.New(source)
	method := p.Parse()
	return method, p.Diagnostics()
}
