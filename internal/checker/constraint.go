package checker

import (
	"strings"

	"github.com/ccllang/ccl/internal/ast"
)

const unboundForEachOrSumMsg = "Object %s not bound to ForEach or Sum."

func (c *Checker) checkConstraint(scope *Scope, b *bindings, constraint ast.Constraint) {
	if c.failed() {
		return
	}
	switch n := constraint.(type) {
	case *ast.BinaryLogicalOp:
		c.checkConstraint(scope, b, n.Left)
		if c.failed() {
			return
		}
		c.checkConstraint(scope, b, n.Right)
	case *ast.UnaryLogicalOp:
		c.checkConstraint(scope, b, n.Operand)
	case *ast.RelOp:
		c.checkRelOp(scope, b, n)
	case *ast.Predicate:
		c.checkPredicate(scope, b, n)
	}
}

func (c *Checker) checkRelOp(scope *Scope, b *bindings, n *ast.RelOp) {
	lt := c.checkExprMsg(scope, b, n.Left, unboundForEachOrSumMsg)
	if c.failed() {
		return
	}
	rt := c.checkExprMsg(scope, b, n.Right, unboundForEachOrSumMsg)
	if c.failed() {
		return
	}
	if !lt.IsNumeric() || !rt.IsNumeric() {
		c.fail(n.Line, n.Column, "Cannot perform %s for types %s and %s.", opSymbol(n.Op), lt.String(), rt.String())
	}
}

func (c *Checker) checkPredicate(scope *Scope, b *bindings, n *ast.Predicate) {
	sig, ok := predicates[n.Name]
	if !ok {
		c.fail(n.Line, n.Column, "Predicate %s not defined.", n.Name)
		return
	}
	if len(n.Args) != len(sig) {
		c.fail(n.Line, n.Column, "Predicate %s should have %d arguments but got %d instead.", n.Name, len(sig), len(n.Args))
		return
	}

	switch n.Name {
	case "element":
		c.checkElementPredicate(scope, b, n)
	case "near":
		c.checkNearPredicate(scope, b, n)
	default:
		for i, arg := range n.Args {
			t := c.checkExprMsg(scope, b, arg, unboundForEachOrSumMsg)
			if c.failed() {
				return
			}
			if t.Kind != sig[i] {
				c.fail(n.Line, n.Column, "Incompatible argument type for function %s. Got %s, expected %s.", n.Name, t.String(), sig[i].String())
				return
			}
		}
	}
}

func (c *Checker) checkElementPredicate(scope *Scope, b *bindings, n *ast.Predicate) {
	atomType := c.checkExprMsg(scope, b, n.Args[0], unboundForEachOrSumMsg)
	if c.failed() {
		return
	}
	if atomType.Kind != KAtom {
		c.fail(n.Line, n.Column, "Predicate's element argument is not Atom.")
		return
	}

	elemArg, ok := n.Args[1].(*ast.Name)
	if !ok {
		c.fail(n.Line, n.Column, "Predicate element expected string argument.")
		return
	}
	if !isKnownElement(strings.ToLower(elemArg.Value)) {
		c.fail(n.Line, n.Column, "Unknown element %s.", elemArg.Value)
	}
}

// checkNearPredicate validates near(i, j, r): i and j are object
// iterators, either Atom or Bond independently, and r is the numeric
// search radius.
func (c *Checker) checkNearPredicate(scope *Scope, b *bindings, n *ast.Predicate) {
	for _, arg := range n.Args[:2] {
		t := c.checkExprMsg(scope, b, arg, unboundForEachOrSumMsg)
		if c.failed() {
			return
		}
		if t.Kind != KAtom && t.Kind != KBond {
			c.fail(n.Line, n.Column, "Incompatible argument type for function %s. Got %s, expected %s.", n.Name, t.String(), "Atom or Bond")
			return
		}
	}

	distType := c.checkExprMsg(scope, b, n.Args[2], unboundForEachOrSumMsg)
	if c.failed() {
		return
	}
	if !distType.IsNumeric() {
		c.fail(n.Line, n.Column, "Incompatible argument type for function %s. Got %s, expected %s.", n.Name, distType.String(), KFloat.String())
	}
}
