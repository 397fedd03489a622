// Package checker implements CCL's semantic analyser: the annotation
// resolver, the statement/expression/constraint checkers, and the
// substitution state machine. Analysis is fail-fast — the first rule
// violated in source order aborts the pass and is the only diagnostic
// returned, unlike the teacher's accumulate-everything Checker.
package checker

import (
	"strings"

	"github.com/ccllang/ccl/internal/ast"
	"github.com/ccllang/ccl/internal/diagnostic"
)

// Result is what a successful Analyse returns: every top-level symbol
// installed in the global scope, keyed by name, so a caller (the
// cclcheck CLI) can print resolved types.
type Result struct {
	Global *Scope
	Names  []string // insertion order, for stable CLI output
}

// Checker carries the fail-fast diagnostic across the whole pass.
type Checker struct {
	diag *diagnostic.Diagnostic

	// bondedPairs records the atom-name pairs a "name = [i, j] is bond"
	// decomposition establishes as statically bonded, keyed by
	// bondPairKey(i, j). checkSubscriptExpr consults it to tell a
	// genuinely bonded two-atom bond-parameter index from an arbitrary,
	// unrelated pair of atoms.
	bondedPairs map[string]bool
}

// bondPairKey canonicalizes an unordered atom-name pair so a[i,j] and
// a[j,i] register as the same bond.
func bondPairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "," + b
}

// Analyse runs the full pipeline over a parsed method: annotations
// first, then the body, top to bottom.
func Analyse(m *ast.Method) (*Result, *diagnostic.Diagnostic) {
	c := &Checker{bondedPairs: make(map[string]bool)}
	global := NewScope(nil)

	c.resolveAnnotations(global, m.Annotations)
	if c.failed() {
		return nil, c.diag
	}

	c.checkSubstitutionsComplete(global)
	if c.failed() {
		return nil, c.diag
	}

	var names []string
	for _, a := range m.Annotations {
		if n := annotationName(a); n != "" && !contains(names, n) {
			names = append(names, n)
		}
	}

	c.checkStatements(NewScope(global), newBindings(), m.Statements)
	if c.failed() {
		return nil, c.diag
	}

	return &Result{Global: global, Names: names}, nil
}

func contains(xs []string, x string) bool {
	for _, s := range xs {
		if s == x {
			return true
		}
	}
	return false
}

func annotationName(a ast.Annotation) string {
	switch n := a.(type) {
	case *ast.Parameter:
		return n.Name
	case *ast.Object:
		return n.Name
	case *ast.Property:
		return n.Name
	case *ast.Constant:
		return n.Name
	case *ast.Substitution:
		return n.Name
	default:
		return ""
	}
}

func (c *Checker) fail(line, col int, format string, args ...interface{}) {
	if c.diag == nil {
		c.diag = diagnostic.Errorf(line, col, format, args...)
	}
}

func (c *Checker) failed() bool { return c.diag != nil }

// ---------------------------------------------------------------------
// Annotation resolver
// ---------------------------------------------------------------------

func (c *Checker) resolveAnnotations(global *Scope, annotations []ast.Annotation) {
	states := make(map[string]*SubstState)

	for _, a := range annotations {
		if c.failed() {
			return
		}
		switch n := a.(type) {
		case *ast.Parameter:
			c.resolveParameter(global, n)
		case *ast.Object:
			c.resolveObject(global, n)
		case *ast.Property:
			c.resolveProperty(global, n)
		case *ast.Constant:
			c.resolveConstant(global, n)
		case *ast.Substitution:
			c.resolveSubstitutionClause(global, states, n)
		}
	}
}

func (c *Checker) resolveParameter(global *Scope, n *ast.Parameter) {
	var t *Type
	var ok ObjectParamKind
	switch n.Kind {
	case ast.ParamAtom:
		t, ok = &Type{Kind: KAtomParameter}, OKAtom
	case ast.ParamBond:
		t, ok = &Type{Kind: KBondParameter}, OKBond
	default:
		t, ok = &Type{Kind: KCommonParameter}, OKCommon
	}
	sym := &Symbol{Name: n.Name, Kind: SymParameter, Type: t, Defined: n, ObjectKind: ok}
	if !global.Define(n.Name, sym) {
		c.fail(n.Line, n.Column, "Symbol %s already defined.", n.Name)
	}
}

func (c *Checker) resolveObject(global *Scope, n *ast.Object) {
	var ok ObjectParamKind
	var t *Type
	if n.Kind == ast.KindAtom {
		ok, t = OKAtom, TypeAtom
	} else {
		ok, t = OKBond, TypeBond
	}
	sym := &Symbol{Name: n.Name, Kind: SymObjectVariable, Type: t, Defined: n, ObjectKind: ok, Cond: n.Cond}
	if !global.Define(n.Name, sym) {
		c.fail(n.Line, n.Column, "Symbol %s already defined.", n.Name)
		return
	}
	for _, idx := range n.AtomIndices {
		isym := &Symbol{Name: idx.Value, Kind: SymObjectVariable, Type: TypeAtom, Defined: n, ObjectKind: OKAtom}
		if !global.Define(idx.Value, isym) {
			c.fail(idx.Line, idx.Column, "Decomposition of bond symbol %s used already defined names.", n.Name)
			return
		}
	}
	if len(n.AtomIndices) == 2 {
		c.bondedPairs[bondPairKey(n.AtomIndices[0].Value, n.AtomIndices[1].Value)] = true
	}

	// n.Cond is stashed on the symbol rather than checked here: it stays
	// dormant until bindObjectVar actually binds this object to a
	// For each/Sum, the same way the object itself isn't "bound to any
	// For/ForEach/Sum" until then.
}

func (c *Checker) resolveProperty(global *Scope, n *ast.Property) {
	word, ok := properties[n.PropWord]
	if !ok {
		c.fail(n.Line, n.Column, "Property %s is not known.", n.PropWord)
		return
	}
	sym := &Symbol{Name: n.Name, Kind: SymProperty, Type: propertyFunctionType(word), Defined: n}
	if !global.Define(n.Name, sym) {
		c.fail(n.Line, n.Column, "Symbol %s already defined.", n.Name)
	}
}

func (c *Checker) resolveConstant(global *Scope, n *ast.Constant) {
	if _, ok := properties[n.PropWord]; !ok {
		c.fail(n.Line, n.Column, "Function %s is not a property.", n.PropWord)
		return
	}
	if !isKnownElement(strings.ToLower(n.Element)) {
		c.fail(n.Line, n.Column, "Element %s not known.", n.Element)
		return
	}
	sym := &Symbol{Name: n.Name, Kind: SymConstant, Type: TypeFloat, Defined: n}
	if !global.Define(n.Name, sym) {
		c.fail(n.Line, n.Column, "Symbol %s already defined.", n.Name)
	}
}

// resolveSubstitutionClause groups clauses sharing Name into a single
// SubstState on first sight, then folds each later clause into it: this
// is where "grouping by name" actually happens, per the resolver's own
// rules rather than the parser's.
func (c *Checker) resolveSubstitutionClause(global *Scope, states map[string]*SubstState, n *ast.Substitution) {
	if existing := global.ResolveLocal(n.Name); existing != nil && existing.Kind != SymSubstitution {
		c.fail(n.Line, n.Column, "Symbol %s already defined as something else.", n.Name)
		return
	}

	if refersToSubstitution(n.Value, global) {
		c.fail(n.Line, n.Column, "Cannot nest substitution in another substitution %s.", n.Name)
		return
	}

	st, seen := states[n.Name]
	kinds := c.inferIndexKinds(global, n)
	if !seen {
		st = &SubstState{Status: SubstUndeclared, IndexKinds: kinds}
		states[n.Name] = st
		sym := &Symbol{Name: n.Name, Kind: SymSubstitution, Type: Substitution(nil, kinds...), Defined: n, Subst: st}
		global.Define(n.Name, sym)
	} else if !dimsEqual(kinds, st.IndexKinds) {
		c.fail(n.Line, n.Column, "Substitution symbol %s has different indices defined.", n.Name)
		return
	}

	if len(n.Indices) == 0 && n.Cond != nil {
		c.fail(n.Line, n.Column, "Substitution symbol %s cannot have a constraint.", n.Name)
		return
	}

	if n.Cond != nil {
		for _, prior := range st.SeenConds {
			if sameConstraint(prior, n.Cond) {
				c.fail(n.Line, n.Column, "Same constraint already defined for symbol %s.", n.Name)
				return
			}
		}
		st.SeenConds = append(st.SeenConds, n.Cond)
	}

	local := NewScope(global)
	for i, idx := range n.Indices {
		t, ok := TypeAtom, OKAtom
		if i < len(st.IndexKinds) && st.IndexKinds[i] == KBond {
			t, ok = TypeBond, OKBond
		}
		local.Define(idx.Value, &Symbol{Name: idx.Value, Kind: SymObjectVariable, Type: t, ObjectKind: ok})
	}
	bindings := newBindings()
	for _, idx := range n.Indices {
		bindings.bind(idx.Value)
	}

	if n.Cond != nil {
		c.checkConstraint(local, bindings, n.Cond)
		if c.failed() {
			return
		}
	}
	rhsType := c.checkExpr(local, bindings, n.Value)
	if c.failed() {
		return
	}

	if st.Result == nil {
		st.Result = rhsType
	} else if !sameUpToPromotion(st.Result, rhsType) {
		c.fail(n.Line, n.Column, "All expressions within a substitution symbol %s must have same type.", n.Name)
		return
	}

	st.Clauses = append(st.Clauses, n)
	if n.Cond == nil {
		st.SeenDefault = true
		st.Status = SubstComplete
	} else if st.Status == SubstUndeclared {
		st.Status = SubstPartial
	}

	if sym := global.ResolveLocal(n.Name); sym != nil {
		sym.Type = Substitution(st.Result, st.IndexKinds...)
	}
}

// inferIndexKinds derives each formal's Atom/Bond kind bottom-up: a
// formal pinned by the clause's own "if" guard — element(i,...) or
// bonded(i,j) both force Atom, the only kind those two predicates
// accept — wins first; failing that, a subscript on the formal inside
// the clause body (e.g. bp[i] where bp is a bond parameter) pins it to
// whatever that subscript target declares at that argument position,
// the same way inferSumIndexKind resolves a sum's index. A formal only
// ever used through near(i,j,d), which accepts either kind, or not
// used at all, defaults to Atom.
func (c *Checker) inferIndexKinds(global *Scope, n *ast.Substitution) []Kind {
	kinds := make([]Kind, len(n.Indices))
	for i, idx := range n.Indices {
		kinds[i] = KAtom
		if n.Cond != nil {
			if k, ok := constraintKindHint(n.Cond, idx.Value); ok {
				kinds[i] = k
				continue
			}
		}
		if k, ok := subscriptKindHint(global, n.Value, idx.Value); ok {
			kinds[i] = k
		}
	}
	return kinds
}

// constraintKindHint looks for a predicate in cond that pins name to
// Atom: element's first argument and bonded's two arguments are both
// always Atom. near's first two arguments accept either kind, so it
// gives no hint either way.
func constraintKindHint(cond ast.Constraint, name string) (Kind, bool) {
	switch n := cond.(type) {
	case *ast.BinaryLogicalOp:
		if k, ok := constraintKindHint(n.Left, name); ok {
			return k, true
		}
		return constraintKindHint(n.Right, name)
	case *ast.UnaryLogicalOp:
		return constraintKindHint(n.Operand, name)
	case *ast.Predicate:
		switch n.Name {
		case "element":
			if predicateArgIsName(n.Args, 0, name) {
				return KAtom, true
			}
		case "bonded":
			if predicateArgIsName(n.Args, 0, name) || predicateArgIsName(n.Args, 1, name) {
				return KAtom, true
			}
		}
	}
	return KAtom, false
}

func predicateArgIsName(args []ast.Expression, i int, name string) bool {
	if i >= len(args) {
		return false
	}
	nm, ok := args[i].(*ast.Name)
	return ok && nm.Value == name
}

func refersToSubstitution(e ast.Expression, global *Scope) bool {
	switch n := e.(type) {
	case *ast.Name:
		sym := global.Resolve(n.Value)
		return sym != nil && sym.Kind == SymSubstitution
	case *ast.Subscript:
		sym := global.Resolve(n.Name)
		return sym != nil && sym.Kind == SymSubstitution
	case *ast.BinaryExpr:
		return refersToSubstitution(n.Left, global) || refersToSubstitution(n.Right, global)
	case *ast.UnaryExpr:
		return refersToSubstitution(n.Operand, global)
	case *ast.Call:
		return refersToSubstitution(n.Arg, global)
	case *ast.Sum:
		return refersToSubstitution(n.Body, global)
	case *ast.EE:
		return refersToSubstitution(n.Diag, global) || refersToSubstitution(n.Off, global) || refersToSubstitution(n.Rhs, global)
	default:
		return false
	}
}

// sameConstraint compares two constraint trees structurally, through
// their printed AST form, which leaves out source positions; CCL
// constraints have no side effects, so structural equality is the
// right notion of "the same constraint".
func sameConstraint(a, b ast.Constraint) bool {
	return ast.Print(a) == ast.Print(b)
}

func sameUpToPromotion(a, b *Type) bool {
	if a.IsNumeric() && b.IsNumeric() {
		return true
	}
	return a.Equal(b)
}

// checkSubstitutionsComplete enforces the end-of-block rule: a
// substitution that ever saw a constrained clause must also have seen
// the unconstrained default.
func (c *Checker) checkSubstitutionsComplete(global *Scope) {
	for _, name := range sortedByDefSite(global.symbols) {
		sym := global.symbols[name]
		if sym.Kind != SymSubstitution || sym.Subst == nil {
			continue
		}
		st := sym.Subst
		hasConstrained := false
		for _, cl := range st.Clauses {
			if cl.Cond != nil {
				hasConstrained = true
			}
		}
		if hasConstrained && !st.SeenDefault {
			line, col := sym.Defined.Pos()
			c.fail(line, col, "No default option specified for Substitution symbol %s.", name)
			return
		}
	}
}

// sortedByDefSite orders symbol names by their definition's source
// position, so the completeness check fails on the earliest violation
// rather than on map iteration order.
func sortedByDefSite(m map[string]*Symbol) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0; j-- {
			li, ci := m[keys[j]].Defined.Pos()
			lj, cj := m[keys[j-1]].Defined.Pos()
			if li < lj || (li == lj && ci < cj) {
				keys[j], keys[j-1] = keys[j-1], keys[j]
			} else {
				break
			}
		}
	}
	return keys
}
