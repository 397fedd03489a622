package parser

import (
	"testing"

	"github.com/ccllang/ccl/internal/ast"
	"github.com/ccllang/ccl/internal/lexer"
)

func parseNoErrors(t *testing.T, src string) *ast.Method {
	t.Helper()
	p := New(src)
	m := p.Parse()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("unexpected parse errors: %s", p.Diagnostics().Format("test"))
	}
	return m
}

func TestParseAssignStatement(t *testing.T) {
	m := parseNoErrors(t, "q = 1")
	if len(m.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(m.Statements))
	}
	assign, ok := m.Statements[0].(*ast.Assign)
	if !ok {
		t.Fatalf("expected *ast.Assign, got %T", m.Statements[0])
	}
	name, ok := assign.Target.(*ast.Name)
	if !ok || name.Value != "q" {
		t.Fatalf("expected target name q, got %#v", assign.Target)
	}
	lit, ok := assign.Value.(*ast.IntLit)
	if !ok || lit.Value != "1" {
		t.Fatalf("expected int literal 1, got %#v", assign.Value)
	}
}

func TestParseArithmeticPrecedence(t *testing.T) {
	m := parseNoErrors(t, "q = 1 + 2 * 3 ^ 2")
	assign := m.Statements[0].(*ast.Assign)
	bin, ok := assign.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != lexer.PLUS {
		t.Fatalf("expected top-level +, got %#v", assign.Value)
	}
	right, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || right.Op != lexer.STAR {
		t.Fatalf("expected * under +, got %#v", bin.Right)
	}
	pow, ok := right.Right.(*ast.BinaryExpr)
	if !ok || pow.Op != lexer.CARET {
		t.Fatalf("expected ^ under *, got %#v", right.Right)
	}
}

func TestParsePowerRightAssociative(t *testing.T) {
	m := parseNoErrors(t, "q = 2 ^ 3 ^ 2")
	assign := m.Statements[0].(*ast.Assign)
	top, ok := assign.Value.(*ast.BinaryExpr)
	if !ok || top.Op != lexer.CARET {
		t.Fatalf("expected ^, got %#v", assign.Value)
	}
	if _, ok := top.Left.(*ast.IntLit); !ok {
		t.Fatalf("expected left operand to be the literal 2, got %#v", top.Left)
	}
	if _, ok := top.Right.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected right operand to be nested ^, got %#v", top.Right)
	}
}

func TestParseForLoop(t *testing.T) {
	m := parseNoErrors(t, "for i = 0 to 10:\n  q = i\ndone")
	f, ok := m.Statements[0].(*ast.For)
	if !ok {
		t.Fatalf("expected *ast.For, got %T", m.Statements[0])
	}
	if f.Var != "i" {
		t.Errorf("expected loop var i, got %q", f.Var)
	}
	if len(f.Body.Statements) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(f.Body.Statements))
	}
}

func TestParseForEachBondDecomposition(t *testing.T) {
	m := parseNoErrors(t, "for each bond b = [i, j] such that bonded(i, j):\n  q = 1\ndone")
	fe, ok := m.Statements[0].(*ast.ForEach)
	if !ok {
		t.Fatalf("expected *ast.ForEach, got %T", m.Statements[0])
	}
	if fe.Kind != ast.KindBond {
		t.Fatalf("expected bond kind")
	}
	if len(fe.AtomIndices) != 2 || fe.AtomIndices[0].Value != "i" || fe.AtomIndices[1].Value != "j" {
		t.Fatalf("expected decomposition indices i,j, got %#v", fe.AtomIndices)
	}
	if fe.Cond == nil {
		t.Fatal("expected such-that constraint")
	}
}

func TestParseSubscriptAssign(t *testing.T) {
	m := parseNoErrors(t, "q[a] = 1")
	assign := m.Statements[0].(*ast.Assign)
	sub, ok := assign.Target.(*ast.Subscript)
	if !ok || sub.Name != "q" || len(sub.Indices) != 1 || sub.Indices[0].Value != "a" {
		t.Fatalf("expected subscript q[a], got %#v", assign.Target)
	}
}

func TestParseSumAndFunctionCall(t *testing.T) {
	m := parseNoErrors(t, "q = sum[a](sin(x))")
	assign := m.Statements[0].(*ast.Assign)
	sum, ok := assign.Value.(*ast.Sum)
	if !ok || sum.Index != "a" {
		t.Fatalf("expected sum[a], got %#v", assign.Value)
	}
	call, ok := sum.Body.(*ast.Call)
	if !ok || call.Name != "sin" {
		t.Fatalf("expected call to sin, got %#v", sum.Body)
	}
}

func TestParseEEFull(t *testing.T) {
	m := parseNoErrors(t, "q = EE[i, j](d, o, r)")
	assign := m.Statements[0].(*ast.Assign)
	ee, ok := assign.Value.(*ast.EE)
	if !ok {
		t.Fatalf("expected *ast.EE, got %#v", assign.Value)
	}
	if ee.Kind != ast.EEFull || ee.Radius != nil {
		t.Fatalf("expected full EE with no radius, got %#v", ee)
	}
}

func TestParseEECutoff(t *testing.T) {
	m := parseNoErrors(t, "q = EE[i, j](d, o, r, cutoff, 5.0)")
	assign := m.Statements[0].(*ast.Assign)
	ee := assign.Value.(*ast.EE)
	if ee.Kind != ast.EECutoff {
		t.Fatalf("expected cutoff kind, got %v", ee.Kind)
	}
	if _, ok := ee.Radius.(*ast.FloatLit); !ok {
		t.Fatalf("expected float radius, got %#v", ee.Radius)
	}
}

func TestParseConstraintAndOrNot(t *testing.T) {
	p := New("q = 1\nwhere\nd[i] = 1 if a < b and not c < d or element(i, carbon)")
	m := p.Parse()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("unexpected parse errors: %s", p.Diagnostics().Format("test"))
	}
	if len(m.Statements) != 1 {
		t.Fatalf("expected 1 statement")
	}
}

func TestParseConstraintParenGrouping(t *testing.T) {
	src := "q = 1\nwhere\nd[i] = 1 if (a < b or c < d) and element(i, carbon)\nd[i] = 2"
	p := New(src)
	m := p.Parse()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("unexpected parse errors: %s", p.Diagnostics().Format("test"))
	}
	subst, ok := m.Annotations[0].(*ast.Substitution)
	if !ok {
		t.Fatalf("expected *ast.Substitution, got %T", m.Annotations[0])
	}
	and, ok := subst.Cond.(*ast.BinaryLogicalOp)
	if !ok || and.Op != lexer.AND {
		t.Fatalf("expected top-level and, got %#v", subst.Cond)
	}
	if _, ok := and.Left.(*ast.BinaryLogicalOp); !ok {
		t.Fatalf("expected grouped or on the left, got %#v", and.Left)
	}
}

func TestParseParenExprInComparison(t *testing.T) {
	src := "q = 1\nwhere\nd[i] = 1 if (a + 1) < b"
	p := New(src)
	m := p.Parse()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("unexpected parse errors: %s", p.Diagnostics().Format("test"))
	}
	subst := m.Annotations[0].(*ast.Substitution)
	rel, ok := subst.Cond.(*ast.RelOp)
	if !ok {
		t.Fatalf("expected a comparison, got %#v", subst.Cond)
	}
	if _, ok := rel.Left.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected parenthesised sum on the left, got %#v", rel.Left)
	}
}

func TestParseAnnotations(t *testing.T) {
	src := `q = 1
where
en is electronegativity
cn is covalent radius of carbon
p is atom parameter
a is atom
b = [i, j] is bond
d[i] = 1 if element(i, hydrogen)
d[i] = 2
`
	p := New(src)
	m := p.Parse()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("unexpected parse errors: %s", p.Diagnostics().Format("test"))
	}
	if len(m.Annotations) != 7 {
		t.Fatalf("expected 7 annotations, got %d", len(m.Annotations))
	}
	if _, ok := m.Annotations[0].(*ast.Property); !ok {
		t.Errorf("annotation 0: expected *ast.Property, got %T", m.Annotations[0])
	}
	if c, ok := m.Annotations[1].(*ast.Constant); !ok || c.Element != "carbon" {
		t.Errorf("annotation 1: expected *ast.Constant of carbon, got %#v", m.Annotations[1])
	}
	if _, ok := m.Annotations[2].(*ast.Parameter); !ok {
		t.Errorf("annotation 2: expected *ast.Parameter, got %T", m.Annotations[2])
	}
	if _, ok := m.Annotations[3].(*ast.Object); !ok {
		t.Errorf("annotation 3: expected *ast.Object, got %T", m.Annotations[3])
	}
	if obj, ok := m.Annotations[4].(*ast.Object); !ok || obj.AtomIndices == nil {
		t.Errorf("annotation 4: expected bond-decomposition *ast.Object, got %#v", m.Annotations[4])
	}
	if _, ok := m.Annotations[5].(*ast.Substitution); !ok {
		t.Errorf("annotation 5: expected *ast.Substitution, got %T", m.Annotations[5])
	}
}
