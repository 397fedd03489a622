package checker

import (
	"strings"

	"github.com/ccllang/ccl/internal/ast"
	"github.com/ccllang/ccl/internal/lexer"
)

const unboundAnywhereMsg = "Object %s not bound to any For/ForEach/Sum."

// checkExpr type-checks e against scope, requiring any referenced
// object variable to already be bound by an enclosing For each/Sum.
func (c *Checker) checkExpr(scope *Scope, b *bindings, e ast.Expression) *Type {
	return c.checkExprMsg(scope, b, e, unboundAnywhereMsg)
}

func (c *Checker) checkExprMsg(scope *Scope, b *bindings, e ast.Expression, unboundMsg string) *Type {
	if c.failed() {
		return nil
	}
	switch n := e.(type) {
	case *ast.IntLit:
		return TypeInt
	case *ast.FloatLit:
		return TypeFloat
	case *ast.Name:
		return c.checkNameExpr(scope, b, n, unboundMsg)
	case *ast.Subscript:
		return c.checkSubscriptExpr(scope, b, n, unboundMsg)
	case *ast.BinaryExpr:
		return c.checkBinaryExpr(scope, b, n, unboundMsg)
	case *ast.UnaryExpr:
		return c.checkUnaryExpr(scope, b, n, unboundMsg)
	case *ast.Sum:
		return c.checkSumExpr(scope, b, n)
	case *ast.EE:
		return c.checkEEExpr(scope, b, n)
	case *ast.Call:
		return c.checkCallExpr(scope, b, n, unboundMsg)
	default:
		return nil
	}
}

func (c *Checker) checkNameExpr(scope *Scope, b *bindings, n *ast.Name, unboundMsg string) *Type {
	sym := scope.Resolve(n.Value)
	if sym == nil {
		c.fail(n.Line, n.Column, "Symbol %s not defined.", n.Value)
		return nil
	}
	if sym.Kind == SymObjectVariable && !b.isBound(n.Value) {
		c.fail(n.Line, n.Column, unboundMsg, n.Value)
		return nil
	}
	return sym.Type
}

func (c *Checker) checkSubscriptExpr(scope *Scope, b *bindings, n *ast.Subscript, unboundMsg string) *Type {
	sym := scope.Resolve(n.Name)
	if sym == nil {
		c.fail(n.Line, n.Column, "Symbol %s not defined.", n.Name)
		return nil
	}

	idxKinds := make([]Kind, len(n.Indices))
	for i, idx := range n.Indices {
		t := c.checkNameExpr(scope, b, idx, unboundMsg)
		if c.failed() {
			return nil
		}
		idxKinds[i] = t.Kind
	}

	switch sym.Kind {
	case SymArrayVariable:
		if len(idxKinds) != len(sym.Type.Dims) {
			c.fail(n.Line, n.Column, "Bad number of indices for %s, got %d, expected %d.", n.Name, len(idxKinds), len(sym.Type.Dims))
			return nil
		}
		if !dimsEqual(idxKinds, sym.Type.Dims) {
			c.fail(n.Line, n.Column, "Cannot index Array of type %s using index/indices of type(s) %s.", sym.Type.String(), joinKinds(idxKinds))
			return nil
		}
		return kindType(sym.Type.Elem)

	case SymParameter:
		switch sym.ObjectKind {
		case OKCommon:
			c.fail(n.Line, n.Column, "Cannot index common parameter.")
			return nil

		case OKAtom:
			if len(idxKinds) != 1 {
				c.fail(n.Line, n.Column, "Bad number of indices for %s, got %d, expected %d.", n.Name, len(idxKinds), 1)
				return nil
			}
			if idxKinds[0] != KAtom {
				c.fail(n.Line, n.Column, "Cannot index atom parameter with %s.", idxKinds[0].String())
				return nil
			}
			return TypeFloat

		default: // OKBond: either a single Bond index or a bonded Atom pair.
			switch len(idxKinds) {
			case 1:
				if idxKinds[0] != KBond {
					c.fail(n.Line, n.Column, "Cannot index bond parameter with %s.", idxKinds[0].String())
					return nil
				}
				return TypeFloat
			case 2:
				if idxKinds[0] != KAtom || idxKinds[1] != KAtom {
					c.fail(n.Line, n.Column, "Cannot index bond parameter with %s.", joinKinds(idxKinds))
					return nil
				}
				if !c.bondedPairs[bondPairKey(n.Indices[0].Value, n.Indices[1].Value)] {
					c.fail(n.Line, n.Column, "Cannot index bond parameter by two non-bonded atoms.")
					return nil
				}
				return TypeFloat
			default:
				c.fail(n.Line, n.Column, "Bad number of indices for %s, got %d, expected %d.", n.Name, len(idxKinds), 2)
				return nil
			}
		}

	case SymSubstitution:
		if len(idxKinds) != len(sym.Type.Dims) {
			c.fail(n.Line, n.Column, "Bad number of indices for %s, got %d, expected %d.", n.Name, len(idxKinds), len(sym.Type.Dims))
			return nil
		}
		for _, k := range idxKinds {
			if k != KAtom && k != KBond {
				c.fail(n.Line, n.Column, "Substitution indices for symbol %s must have type Atom or Bond.", n.Name)
				return nil
			}
		}
		if !dimsEqual(idxKinds, sym.Type.Dims) {
			c.fail(n.Line, n.Column, "Substitution indices for symbol %s must have type Atom or Bond.", n.Name)
			return nil
		}
		return sym.Type.Result

	case SymProperty:
		if len(idxKinds) != len(sym.Type.Args) {
			c.fail(n.Line, n.Column, "Bad number of indices for %s, got %d, expected %d.", n.Name, len(idxKinds), len(sym.Type.Args))
			return nil
		}
		for i, arg := range sym.Type.Args {
			if idxKinds[i] != arg.Kind {
				c.fail(n.Line, n.Column, "Incompatible argument type for function %s. Got %s, expected %s.", n.Name, Kind(idxKinds[i]).String(), arg.Kind.String())
				return nil
			}
		}
		return sym.Type.Result

	default:
		c.fail(n.Line, n.Column, "Cannot index type %s with indices of type(s) %s.", sym.Type.String(), joinKinds(idxKinds))
		return nil
	}
}

func (c *Checker) checkBinaryExpr(scope *Scope, b *bindings, n *ast.BinaryExpr, unboundMsg string) *Type {
	lt := c.checkExprMsg(scope, b, n.Left, unboundMsg)
	if c.failed() {
		return nil
	}
	rt := c.checkExprMsg(scope, b, n.Right, unboundMsg)
	if c.failed() {
		return nil
	}
	return c.binaryResultType(n, lt, rt)
}

func (c *Checker) binaryResultType(n *ast.BinaryExpr, lt, rt *Type) *Type {
	opName := opSymbol(n.Op)

	if lt.IsNumeric() && rt.IsNumeric() {
		return Promote(lt, rt)
	}

	if lt.IsArray() && rt.IsArray() {
		elem := KFloat
		if lt.Elem == KInt && rt.Elem == KInt {
			elem = KInt
		}

		switch n.Op {
		case lexer.PLUS, lexer.MINUS:
			if !dimsEqual(lt.Dims, rt.Dims) {
				c.fail(n.Line, n.Column, "Cannot perform %s for types %s and %s.", opName, lt.String(), rt.String())
				return nil
			}
			return Array(elem, lt.Dims...)

		case lexer.STAR:
			return c.checkArrayMultiply(n, lt, rt, elem)

		case lexer.CARET:
			c.fail(n.Line, n.Column, "Cannot perform %s for types %s and %s.", opName, lt.String(), rt.String())
			return nil

		default:
			c.fail(n.Line, n.Column, "Cannot perform %s for types %s and %s.", opName, lt.String(), rt.String())
			return nil
		}
	}

	if lt.IsArray() != rt.IsArray() {
		if n.Op != lexer.STAR && n.Op != lexer.SLASH {
			c.fail(n.Line, n.Column, "Cannot perform operation other than * or / between Number and Array.")
			return nil
		}
		if n.Op == lexer.SLASH && !lt.IsArray() {
			c.fail(n.Line, n.Column, "Cannot perform %s for types %s and %s.", opName, lt.String(), rt.String())
			return nil
		}
		arr := lt
		if rt.IsArray() {
			arr = rt
		}
		return arr
	}

	c.fail(n.Line, n.Column, "Cannot perform %s for types %s and %s.", opName, lt.String(), rt.String())
	return nil
}

// checkArrayMultiply implements the three shapes "*" takes between two
// arrays: matrix x matrix and matrix x vector (and its mirror) contract
// over one shared dimension, vector x vector is a dot product that
// collapses to a scalar. A "matrix" here is any two-index array, a
// "vector" any one-index array; higher ranks don't arise in CCL's grammar.
func (c *Checker) checkArrayMultiply(n *ast.BinaryExpr, lt, rt *Type, elem Kind) *Type {
	lRank, rRank := len(lt.Dims), len(rt.Dims)

	switch {
	case lRank == 2 && rRank == 2:
		if lt.Dims[1] != rt.Dims[0] {
			c.fail(n.Line, n.Column, "Cannot multiply matrices of type %s and %s.", lt.String(), rt.String())
			return nil
		}
		return Array(elem, lt.Dims[0], rt.Dims[1])

	case lRank == 2 && rRank == 1:
		if lt.Dims[1] != rt.Dims[0] {
			c.fail(n.Line, n.Column, "Cannot multiply vector of type %s with matrix of type %s.", rt.String(), lt.String())
			return nil
		}
		return Array(elem, lt.Dims[0])

	case lRank == 1 && rRank == 2:
		if lt.Dims[0] != rt.Dims[0] {
			c.fail(n.Line, n.Column, "Cannot multiply vector of type %s with matrix of type %s.", lt.String(), rt.String())
			return nil
		}
		return Array(elem, rt.Dims[1])

	default: // both rank 1: dot product
		if !dimsEqual(lt.Dims, rt.Dims) {
			c.fail(n.Line, n.Column, "Cannot perform dot product for types %s and %s.", lt.String(), rt.String())
			return nil
		}
		return kindType(elem)
	}
}

func (c *Checker) checkUnaryExpr(scope *Scope, b *bindings, n *ast.UnaryExpr, unboundMsg string) *Type {
	t := c.checkExprMsg(scope, b, n.Operand, unboundMsg)
	if c.failed() {
		return nil
	}
	if !t.IsNumeric() && !t.IsArray() {
		c.fail(n.Line, n.Column, "Cannot perform %s for types %s and %s.", opSymbol(n.Op), t.String(), t.String())
		return nil
	}
	return t
}

func (c *Checker) checkSumExpr(scope *Scope, b *bindings, n *ast.Sum) *Type {
	objKind := OKAtom
	if existing := scope.Resolve(n.Index); existing != nil && existing.Kind == SymObjectVariable {
		objKind = existing.ObjectKind
	} else if inferSumIndexKind(scope, n) == KBond {
		objKind = OKBond
	}

	innerBindings := b.child()
	inner := c.bindObjectVar(scope, innerBindings, n.Index, objKind, [2]int{n.IndexLine, n.IndexCol}, n)
	if c.failed() {
		return nil
	}

	bodyType := c.checkExpr(inner, innerBindings, n.Body)
	if c.failed() {
		return nil
	}
	if !bodyType.IsNumeric() {
		c.fail(n.Line, n.Column, "Sum has to iterate over Atom or Bond not %s.", bodyType.String())
		return nil
	}
	return bodyType
}

// inferSumIndexKind looks for a property/parameter/array subscript
// inside the sum body whose declared argument pins the index to Atom
// or Bond, via the shared subscriptKindHint walk; defaults to Atom
// when nothing in the body constrains it either way.
func inferSumIndexKind(scope *Scope, n *ast.Sum) Kind {
	if k, ok := subscriptKindHint(scope, n.Body, n.Index); ok {
		return k
	}
	return KAtom
}

// subscriptKindHint walks e for a subscript on name and, when found,
// resolves the subscripted symbol against scope to read off its
// declared Atom/Bond kind at that argument position — used to infer
// the kind of a sum index or substitution formal from how the body
// actually uses it, rather than from its spelling.
func subscriptKindHint(scope *Scope, e ast.Expression, name string) (Kind, bool) {
	found := KAtom
	ok := false
	var walk func(e ast.Expression)
	walk = func(e ast.Expression) {
		switch v := e.(type) {
		case *ast.Subscript:
			for i, idx := range v.Indices {
				if idx.Value != name {
					continue
				}
				sym := scope.Resolve(v.Name)
				if sym == nil {
					continue
				}
				switch sym.Kind {
				case SymProperty:
					if i < len(sym.Type.Args) {
						found, ok = sym.Type.Args[i].Kind, true
					}
				case SymParameter:
					if sym.ObjectKind == OKBond {
						found, ok = KBond, true
					} else if sym.ObjectKind == OKAtom {
						found, ok = KAtom, true
					}
				case SymSubstitution, SymArrayVariable:
					if i < len(sym.Type.Dims) {
						found, ok = sym.Type.Dims[i], true
					}
				}
			}
		case *ast.BinaryExpr:
			walk(v.Left)
			walk(v.Right)
		case *ast.UnaryExpr:
			walk(v.Operand)
		case *ast.Call:
			walk(v.Arg)
		}
	}
	walk(e)
	return found, ok
}

func (c *Checker) checkEEExpr(scope *Scope, b *bindings, n *ast.EE) *Type {
	if n.RowIndex == n.ColIndex {
		c.fail(n.Line, n.Column, "Index/indices for EE expression already defined.")
		return nil
	}
	innerBindings := b.child()
	inner := c.bindObjectVar(scope, innerBindings, n.RowIndex, OKAtom, n.RowPos, n)
	if c.failed() {
		return nil
	}
	inner = c.bindObjectVar(inner, innerBindings, n.ColIndex, OKAtom, n.ColPos, n)
	if c.failed() {
		return nil
	}

	for _, part := range []ast.Expression{n.Diag, n.Off, n.Rhs} {
		t := c.checkExpr(inner, innerBindings, part)
		if c.failed() {
			return nil
		}
		if t.Kind != KFloat && t.Kind != KInt {
			c.fail(n.Line, n.Column, "EE expression has to have all parts with Float type.")
			return nil
		}
	}
	if n.Radius != nil {
		rt := c.checkExpr(inner, innerBindings, n.Radius)
		if c.failed() {
			return nil
		}
		if !rt.IsNumeric() {
			c.fail(n.Line, n.Column, "EE expression has to have all parts with Float type.")
			return nil
		}
	}
	return Array(KFloat, KAtom)
}

func (c *Checker) checkCallExpr(scope *Scope, b *bindings, n *ast.Call, unboundMsg string) *Type {
	sig, ok := mathFunctions[n.Name]
	if !ok {
		c.fail(n.Line, n.Column, "Function %s is not known.", n.Name)
		return nil
	}
	argType := c.checkExprMsg(scope, b, n.Arg, unboundMsg)
	if c.failed() {
		return nil
	}
	want := sig.Args[0]
	if !assignable(want, argType) {
		c.fail(n.Line, n.Column, "Incompatible argument type for function %s. Got %s, expected %s.", n.Name, argType.String(), want.String())
		return nil
	}
	return sig.Result
}

func joinKinds(kinds []Kind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = k.String()
	}
	return strings.Join(parts, ", ")
}

func assignable(target, value *Type) bool {
	if target == nil || value == nil {
		return false
	}
	if target.IsArray() && value.IsArray() {
		if !dimsEqual(target.Dims, value.Dims) {
			return false
		}
		return target.Elem == value.Elem || (target.Elem == KFloat && value.Elem == KInt)
	}
	if target.IsNumeric() && value.IsNumeric() {
		if target.Kind == KFloat {
			return true
		}
		return value.Kind == KInt
	}
	return target.Equal(value)
}

func opSymbol(op lexer.TokenType) string {
	switch op {
	case lexer.PLUS:
		return "+"
	case lexer.MINUS:
		return "-"
	case lexer.STAR:
		return "*"
	case lexer.SLASH:
		return "/"
	case lexer.CARET:
		return "^"
	default:
		return op.String()
	}
}
