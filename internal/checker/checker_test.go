package checker

import (
	"testing"

	"github.com/ccllang/ccl/internal/diagnostic"
	"github.com/ccllang/ccl/internal/parser"
)

func parseAndCheck(t *testing.T, src string) (*Result, *diagnostic.Diagnostic) {
	t.Helper()
	p := parser.New(src)
	m := p.Parse()
	if p.Diagnostics().HasErrors() {
		t.Fatalf("unexpected parse errors: %s", p.Diagnostics().Format("test"))
	}
	return Analyse(m)
}

func expectOK(t *testing.T, src string) *Result {
	t.Helper()
	res, diag := parseAndCheck(t, src)
	if diag != nil {
		t.Fatalf("unexpected diagnostic: %s", diag.Error())
	}
	return res
}

func expectDiag(t *testing.T, src, want string) {
	t.Helper()
	_, diag := parseAndCheck(t, src)
	if diag == nil {
		t.Fatalf("expected a diagnostic, got none")
	}
	if diag.Error() != want {
		t.Fatalf("diagnostic mismatch\n got:  %s\n want: %s", diag.Error(), want)
	}
}

func TestSymbolRedefinedAcrossAnnotationKinds(t *testing.T) {
	src := `q = 1
where
a is atom
a is bond
`
	expectDiag(t, src, "Symbol a already defined.")
}

func TestSubstitutionMissingDefault(t *testing.T) {
	src := `q = 1
where
a is atom
d[i] = 1 if element(i, carbon)
`
	expectDiag(t, src, "No default option specified for Substitution symbol d.")
}

func TestCannotAssignToLoopVariable(t *testing.T) {
	src := `for i = 0 to 10:
  i = 5
done`
	expectDiag(t, src, "Cannot assign to loop variable i.")
}

func TestIndexArrayWithWrongObjectKind(t *testing.T) {
	// q2[a] establishes Array(Float, Atom); reusing the same array name
	// with a bond index must be rejected.
	src := `for each atom a:
  q2[a] = 1.0
done
for each bond b:
  q2[b] = 2.0
done
where
a is atom
b is bond
`
	expectDiag(t, src, "Cannot index Array of type Float[Atom] using index/indices of type(s) Bond.")
}

func TestUnknownElementInConstant(t *testing.T) {
	src := `q = 1
where
cn is covalent radius of adamantine
`
	expectDiag(t, src, "Element adamantine not known.")
}

func TestUnknownElementInPredicate(t *testing.T) {
	src := `q = 1
where
a is atom
d[i] = 1 if element(i, adamantine)
d[i] = 2
`
	expectDiag(t, src, "Unknown element adamantine.")
}

func TestPropertyResolvesWithoutDiagnostic(t *testing.T) {
	src := `for each atom a:
  q[a] = en[a]
done
where
en is electronegativity
a is atom
`
	res := expectOK(t, src)
	sym := res.Global.Resolve("en")
	if sym == nil {
		t.Fatal("expected en to resolve")
	}
	if sym.Type.Kind != KFunction {
		t.Fatalf("expected en to resolve to a function signature, got %s", sym.Type.String())
	}
}

func TestSubstitutionWithSingleDefaultClauseIsComplete(t *testing.T) {
	src := `q = 1
where
a is atom
d[i] = 1.0
`
	expectOK(t, src)
}

func TestSubstitutionDuplicateConstraintRejected(t *testing.T) {
	src := `q = 1
where
a is atom
d[i] = 1 if element(i, carbon)
d[i] = 2 if element(i, carbon)
d[i] = 3
`
	expectDiag(t, src, "Same constraint already defined for symbol d.")
}

func TestSubstitutionCannotNest(t *testing.T) {
	src := `q = 1
where
a is atom
d[i] = 1.0
e[i] = d[i] + 1.0
`
	expectDiag(t, src, "Cannot nest substitution in another substitution e.")
}

func TestSubstitutionZeroArityCannotHaveConstraint(t *testing.T) {
	src := `q = 1
where
a is atom
k = 1 if element(a, carbon)
`
	expectDiag(t, src, "Substitution symbol k cannot have a constraint.")
}

func TestForEachObjectMustBeBoundBeforeUse(t *testing.T) {
	src := `q = en[a]
where
en is electronegativity
a is atom
`
	expectDiag(t, src, "Object a not bound to any For/ForEach/Sum.")
}

func TestForEachBindsObjectForPropertyAccess(t *testing.T) {
	src := `for each atom a:
  q[a] = en[a]
done
where
en is electronegativity
a is atom
`
	expectOK(t, src)
}

func TestLoopVariableRedefinitionRejected(t *testing.T) {
	src := `for i = 0 to 10:
  for i = 0 to 5:
    q = i
  done
done`
	expectDiag(t, src, "Loop variable i already defined.")
}

func TestUndefinedSymbolReference(t *testing.T) {
	src := `q = zzz`
	expectDiag(t, src, "Symbol zzz not defined.")
}

func TestAssignFloatToIntVariableRejected(t *testing.T) {
	src := `q = 1
q = 1.5
`
	expectDiag(t, src, "Cannot assign Float to the variable q of type Int.")
}

func TestAssignIntToFloatVariablePromotes(t *testing.T) {
	src := `q = 1.0
q = 2
`
	expectOK(t, src)
}

func TestArithmeticBetweenArrayAndArrayRequiresSameShape(t *testing.T) {
	src := `for each atom a:
  q[a] = 1.0
  p[a, a] = 1.0
  r = q + p
done
where
a is atom
`
	if res, diag := parseAndCheck(t, src); diag == nil || diag.Error() != "Cannot perform + for types Float[Atom] and Float[Atom, Atom]." {
		_ = res
		t.Fatalf("expected a shape-mismatch diagnostic, got %q", diag.Error())
	}
}

func TestPredicateWrongArgumentCount(t *testing.T) {
	src := `q = 1
where
a is atom
d[i] = 1 if bonded(i)
d[i] = 2
`
	expectDiag(t, src, "Predicate bonded should have 2 arguments but got 1 instead.")
}

func TestUnknownPredicate(t *testing.T) {
	src := `q = 1
where
a is atom
d[i] = 1 if frobnicated(i)
d[i] = 2
`
	expectDiag(t, src, "Predicate frobnicated not defined.")
}

func TestFunctionCallOnUnknownFunction(t *testing.T) {
	src := `q = wobble(1.0)`
	expectDiag(t, src, "Function wobble is not known.")
}

func TestSumOverAtomsTypeChecksBody(t *testing.T) {
	src := `q = sum[a](en[a])
where
en is electronegativity
a is atom
`
	expectOK(t, src)
}

func TestPropertyOfUnknownWordRejected(t *testing.T) {
	src := `q = 1
where
cn is banana
`
	expectDiag(t, src, "Property banana is not known.")
}

func resolvedType(t *testing.T, res *Result, name string) string {
	t.Helper()
	sym := res.Global.Resolve(name)
	if sym == nil {
		t.Fatalf("expected %s to resolve", name)
	}
	return sym.Type.String()
}

func TestAtomParameterResolvesToAtomParameterType(t *testing.T) {
	src := `q = 1
where
p is atom parameter
a is atom
`
	res := expectOK(t, src)
	if got := resolvedType(t, res, "p"); got != "Atom Parameter" {
		t.Fatalf("expected Atom Parameter, got %s", got)
	}
}

func TestArrayMultiplyMatrixTimesMatrix(t *testing.T) {
	src := `for each bond e = [i, j]:
  m[i, j] = 1.0
  n[j, i] = 2.0
  q[i, j] = 0.0
  q = m * n
done
`
	expectOK(t, src)
}

func TestArrayMultiplyMatrixTimesMatrixInnerDimensionMismatch(t *testing.T) {
	src := `for each bond e = [i, j]:
  m[i, j] = 1.0
  p[e, i] = 2.0
  r = m * p
done
`
	expectDiag(t, src, "Cannot multiply matrices of type Float[Atom, Atom] and Float[Bond, Atom].")
}

func TestArrayMultiplyMatrixTimesVector(t *testing.T) {
	src := `for each bond e = [i, j]:
  m[i, j] = 1.0
  v[i] = 2.0
  u[i] = 0.0
  u = m * v
done
`
	expectOK(t, src)
}

func TestArrayMultiplyMatrixTimesVectorDimensionMismatch(t *testing.T) {
	src := `for each bond e = [i, j]:
  m[i, j] = 1.0
  w[e] = 2.0
  r = m * w
done
`
	expectDiag(t, src, "Cannot multiply vector of type Float[Bond] with matrix of type Float[Atom, Atom].")
}

func TestArrayMultiplyVectorTimesMatrix(t *testing.T) {
	src := `for each bond e = [i, j]:
  w[e] = 1.0
  p[e, i] = 2.0
  u[i] = 0.0
  u = w * p
done
`
	expectOK(t, src)
}

func TestArrayMultiplyVectorTimesVectorIsDotProductCollapsingToScalar(t *testing.T) {
	// If the dot product wrongly returned an array, assigning it into the
	// scalar s would fail type-checking.
	src := `for each bond e = [i, j]:
  v1[i] = 1.0
  v2[j] = 2.0
  s = 0.0
  s = v1 * v2
done
`
	expectOK(t, src)
}

func TestArrayMultiplyVectorTimesVectorShapeMismatch(t *testing.T) {
	src := `for each bond e = [i, j]:
  v1[i] = 1.0
  w[e] = 2.0
  r = v1 * w
done
`
	expectDiag(t, src, "Cannot perform dot product for types Float[Atom] and Float[Bond].")
}

func TestCaretBetweenArraysAlwaysRejected(t *testing.T) {
	src := `for each bond e = [i, j]:
  m[i, j] = 1.0
  n[i, j] = 2.0
  r = m ^ n
done
`
	expectDiag(t, src, "Cannot perform ^ for types Float[Atom, Atom] and Float[Atom, Atom].")
}

func TestDivideScalarByArrayRejected(t *testing.T) {
	src := `for each atom a:
  q[a] = 1.0
  r = 2 / q
done
`
	expectDiag(t, src, "Cannot perform / for types Int and Float[Atom].")
}

func TestDivideArrayByScalarAllowed(t *testing.T) {
	src := `for each atom a:
  q[a] = 1.0
  r = q / 2
done
`
	expectOK(t, src)
}

func TestAssignSubscriptToScalarVariableUsesIndexMessage(t *testing.T) {
	src := `q = 1
for each atom a:
  q[a] = 2
done
`
	expectDiag(t, src, "Cannot index type Int with indices of type(s) Atom.")
}

func TestAssignSubscriptToParameterKeepsNonArrayMessage(t *testing.T) {
	src := `for each atom a:
  p[a] = 2
done
where
p is atom parameter
a is atom
`
	expectDiag(t, src, "Cannot assign to non-Array type Atom Parameter.")
}

func TestNearPredicateAcceptsObjectIteratorsInOrder(t *testing.T) {
	src := `for each bond e = [i, j] such that near(i, j, 2.0):
  q[e] = 1.0
done
`
	expectOK(t, src)
}

func TestNearPredicateAcceptsEitherArgumentAsBond(t *testing.T) {
	src := `for each bond e = [i, j] such that near(e, i, 2.0):
  q[e] = 1.0
done
`
	expectOK(t, src)
}

func TestNearPredicateRejectsSwappedDistanceArgument(t *testing.T) {
	// near's arguments are (object, object, distance); putting the
	// distance in the middle is the bug the old argument order had.
	src := `for each bond e = [i, j] such that near(i, 2.0, j):
  q[e] = 1.0
done
`
	expectDiag(t, src, "Incompatible argument type for function near. Got Float, expected Atom or Bond.")
}

func TestObjectConstraintNotValidatedWhenNeverBound(t *testing.T) {
	src := `q = 1
where
a is atom such that frobnicated(a)
`
	expectOK(t, src)
}

func TestObjectConstraintValidatedWhenBoundToForEach(t *testing.T) {
	src := `for each atom a:
  q[a] = 1.0
done
where
a is atom such that frobnicated(a)
`
	expectDiag(t, src, "Predicate frobnicated not defined.")
}

func TestObjectConstraintValidConstraintPassesWhenBound(t *testing.T) {
	src := `for each atom a:
  q[a] = 1.0
done
where
a is atom such that element(a, carbon)
`
	expectOK(t, src)
}

func TestAtomParameterSubscriptWrongArityReportsArity(t *testing.T) {
	src := `for each bond e = [i, j]:
  q[e] = p[i, j]
done
where
p is atom parameter
`
	expectDiag(t, src, "Bad number of indices for p, got 2, expected 1.")
}

func TestAtomParameterSubscriptWrongKind(t *testing.T) {
	src := `for each bond e = [i, j]:
  q[e] = p[e]
done
where
p is atom parameter
`
	expectDiag(t, src, "Cannot index atom parameter with Bond.")
}

func TestBondParameterSubscriptSingleBondIndex(t *testing.T) {
	src := `for each bond e:
  q[e] = bp[e]
done
where
bp is bond parameter
`
	expectOK(t, src)
}

func TestBondParameterSubscriptWrongSingleIndexKind(t *testing.T) {
	src := `for each atom a:
  q[a] = bp[a]
done
where
bp is bond parameter
a is atom
`
	expectDiag(t, src, "Cannot index bond parameter with Atom.")
}

func TestBondParameterSubscriptAcceptsBondedAtomPair(t *testing.T) {
	src := `for each atom i:
  for each atom j:
    q[j] = bp[i, j]
  done
done
where
e = [i, j] is bond
bp is bond parameter
`
	expectOK(t, src)
}

func TestBondParameterSubscriptRejectsNonBondedAtomPair(t *testing.T) {
	src := `for each atom i:
  for each atom a:
    q[a] = bp[i, a]
  done
done
where
e = [i, j] is bond
bp is bond parameter
a is atom
`
	expectDiag(t, src, "Cannot index bond parameter by two non-bonded atoms.")
}

func TestSubstitutionFormalInfersBondKindFromBondParameterSubscript(t *testing.T) {
	src := `q = 1
where
bp is bond parameter
d[i] = bp[i]
`
	expectOK(t, src)
}
