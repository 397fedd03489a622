package checker

import "github.com/ccllang/ccl/internal/ast"

func (c *Checker) checkStatements(scope *Scope, b *bindings, stmts []ast.Statement) {
	for _, s := range stmts {
		if c.failed() {
			return
		}
		c.checkStatement(scope, b, s)
	}
}

func (c *Checker) checkStatement(scope *Scope, b *bindings, s ast.Statement) {
	switch n := s.(type) {
	case *ast.Assign:
		c.checkAssign(scope, b, n)
	case *ast.For:
		c.checkFor(scope, b, n)
	case *ast.ForEach:
		c.checkForEach(scope, b, n)
	}
}

func (c *Checker) checkAssign(scope *Scope, b *bindings, n *ast.Assign) {
	switch target := n.Target.(type) {
	case *ast.Name:
		c.checkAssignName(scope, b, n, target)
	case *ast.Subscript:
		c.checkAssignSubscript(scope, b, n, target)
	}
}

func (c *Checker) checkAssignName(scope *Scope, b *bindings, n *ast.Assign, target *ast.Name) {
	sym := scope.Resolve(target.Value)
	if sym == nil {
		rhsType := c.checkExpr(scope, b, n.Value)
		if c.failed() {
			return
		}
		if !rhsType.IsNumeric() && !rhsType.IsArray() {
			c.fail(n.Line, n.Column, "Only Numbers and Arrays can be assigned not %s.", rhsType.String())
			return
		}
		kind := SymScalarVariable
		if rhsType.IsArray() {
			kind = SymArrayVariable
		}
		scope.Define(target.Value, &Symbol{Name: target.Value, Kind: kind, Type: rhsType, Defined: n})
		return
	}

	switch sym.Kind {
	case SymLoopVariable:
		c.fail(n.Line, n.Column, "Cannot assign to loop variable %s.", target.Value)
	case SymSubstitution:
		c.fail(n.Line, n.Column, "Cannot assign to a substitution symbol %s.", target.Value)
	case SymParameter:
		c.fail(n.Line, n.Column, "Cannot assign to a parameter symbol %s.", target.Value)
	case SymScalarVariable, SymArrayVariable:
		rhsType := c.checkExpr(scope, b, n.Value)
		if c.failed() {
			return
		}
		if !assignable(sym.Type, rhsType) {
			c.fail(n.Line, n.Column, "Cannot assign %s to the variable %s of type %s.", rhsType.String(), target.Value, sym.Type.String())
		}
	default:
		c.fail(n.Line, n.Column, "Cannot assign to %s %s.", sym.Kind.String(), target.Value)
	}
}

func (c *Checker) checkAssignSubscript(scope *Scope, b *bindings, n *ast.Assign, target *ast.Subscript) {
	idxKinds := make([]Kind, len(target.Indices))
	for i, idx := range target.Indices {
		t := c.checkNameExpr(scope, b, idx, unboundAnywhereMsg)
		if c.failed() {
			return
		}
		idxKinds[i] = t.Kind
	}

	sym := scope.Resolve(target.Name)
	if sym == nil {
		rhsType := c.checkExpr(scope, b, n.Value)
		if c.failed() {
			return
		}
		if !rhsType.IsNumeric() {
			c.fail(n.Line, n.Column, "Only Numbers and Arrays can be assigned not %s.", rhsType.String())
			return
		}
		elem := KInt
		if rhsType.Kind == KFloat {
			elem = KFloat
		}
		scope.Define(target.Name, &Symbol{Name: target.Name, Kind: SymArrayVariable, Type: Array(elem, idxKinds...), Defined: n})
		return
	}

	if sym.Kind == SymScalarVariable {
		c.fail(n.Line, n.Column, "Cannot index type %s with indices of type(s) %s.", sym.Type.String(), joinKinds(idxKinds))
		return
	}
	if sym.Kind != SymArrayVariable {
		c.fail(n.Line, n.Column, "Cannot assign to non-Array type %s.", sym.Type.String())
		return
	}
	if len(idxKinds) != len(sym.Type.Dims) {
		c.fail(n.Line, n.Column, "Bad number of indices for %s, got %d, expected %d.", target.Name, len(idxKinds), len(sym.Type.Dims))
		return
	}
	if !dimsEqual(idxKinds, sym.Type.Dims) {
		c.fail(n.Line, n.Column, "Cannot index Array of type %s using index/indices of type(s) %s.", sym.Type.String(), joinKinds(idxKinds))
		return
	}

	rhsType := c.checkExpr(scope, b, n.Value)
	if c.failed() {
		return
	}
	elemType := kindType(sym.Type.Elem)
	if !assignable(elemType, rhsType) {
		c.fail(n.Line, n.Column, "Cannot assign %s to the variable %s of type %s.", rhsType.String(), target.Name, sym.Type.String())
	}
}

func (c *Checker) checkFor(scope *Scope, b *bindings, n *ast.For) {
	if scope.Resolve(n.Var) != nil {
		c.fail(n.VarPos[0], n.VarPos[1], "Loop variable %s already defined.", n.Var)
		return
	}

	lowType := c.checkExpr(scope, b, n.Low)
	if c.failed() {
		return
	}
	if !lowType.IsNumeric() {
		c.fail(n.Line, n.Column, "Only Numbers and Arrays can be assigned not %s.", lowType.String())
		return
	}
	highType := c.checkExpr(scope, b, n.High)
	if c.failed() {
		return
	}
	if !highType.IsNumeric() {
		c.fail(n.Line, n.Column, "Only Numbers and Arrays can be assigned not %s.", highType.String())
		return
	}

	inner := NewScope(scope)
	inner.Define(n.Var, &Symbol{Name: n.Var, Kind: SymLoopVariable, Type: TypeInt, Defined: n})
	c.checkStatements(inner, b, n.Body.Statements)
}

// bindObjectVar makes name available as an object iterator of the given
// kind: if an Object annotation already declared it, bindObjectVar just
// activates that same symbol (the annotation's "such that" and this
// loop's iteration are two views of one name); otherwise it declares a
// fresh one local to the loop. An annotation's "such that" constraint
// is dormant until this point: it is (re-)validated every time the
// object is bound, not once at annotation time, since a constraint
// referencing a predicate or symbol that's wrong is only an error once
// something actually tries to bind the object it's attached to.
func (c *Checker) bindObjectVar(scope *Scope, b *bindings, name string, kind ObjectParamKind, pos [2]int, defined ast.Node) *Scope {
	t := TypeAtom
	if kind == OKBond {
		t = TypeBond
	}
	if existing := scope.Resolve(name); existing != nil {
		if existing.Kind != SymObjectVariable || existing.ObjectKind != kind {
			c.fail(pos[0], pos[1], "Symbol %s already defined.", name)
			return scope
		}
		b.bind(name)
		if existing.Cond != nil {
			c.checkConstraint(scope, b, existing.Cond)
		}
		return scope
	}
	inner := NewScope(scope)
	inner.Define(name, &Symbol{Name: name, Kind: SymObjectVariable, Type: t, ObjectKind: kind, Defined: defined})
	b.bind(name)
	return inner
}

func (c *Checker) checkForEach(scope *Scope, b *bindings, n *ast.ForEach) {
	innerBindings := b.child()

	kind := OKAtom
	if n.Kind == ast.KindBond {
		kind = OKBond
	}
	inner := c.bindObjectVar(scope, innerBindings, n.Var, kind, n.VarPos, n)
	if c.failed() {
		return
	}

	for _, idx := range n.AtomIndices {
		inner = c.bindObjectVar(inner, innerBindings, idx.Value, OKAtom, [2]int{idx.Line, idx.Column}, n)
		if c.failed() {
			return
		}
	}

	if n.Cond != nil {
		c.checkConstraint(inner, innerBindings, n.Cond)
		if c.failed() {
			return
		}
	}

	c.checkStatements(inner, innerBindings, n.Body.Statements)
}
