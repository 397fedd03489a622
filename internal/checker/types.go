package checker

import "strings"

// Kind tags the cases of CCL's type algebra. Array element types and
// index-kind tuples, function/predicate signatures, and substitution
// result types are all represented as *Type, not separate Go types,
// the same way the teacher folds entity/enum/generic type shapes into
// one struct with optional fields.
type Kind int

const (
	KInt Kind = iota
	KFloat
	KBool
	KString
	KAtom
	KBond
	KArray
	KAtomParameter
	KBondParameter
	KCommonParameter
	KSubstitution
	KFunction
	KPredicate
)

func (k Kind) String() string {
	switch k {
	case KInt:
		return "Int"
	case KFloat:
		return "Float"
	case KBool:
		return "Bool"
	case KString:
		return "String"
	case KAtom:
		return "Atom"
	case KBond:
		return "Bond"
	case KArray:
		return "Array"
	case KAtomParameter:
		return "Atom Parameter"
	case KBondParameter:
		return "Bond Parameter"
	case KCommonParameter:
		return "Common Parameter"
	case KSubstitution:
		return "Substitution"
	case KFunction:
		return "Function"
	case KPredicate:
		return "Predicate"
	default:
		return "?"
	}
}

// Type is the tagged representation of every case in CCL's type algebra.
// Only the fields relevant to Kind are populated; the rest stay zero.
type Type struct {
	Kind Kind

	// KArray: Elem is KInt or KFloat, Dims is one or two of KAtom/KBond.
	Elem Kind
	Dims []Kind

	// KSubstitution: Result is the clause value type, Dims is the
	// shared index-kind list (possibly empty for a zero-arity rule).
	Result *Type

	// KFunction/KPredicate: Args is the declared argument type list.
	Args []*Type
}

var (
	TypeInt    = &Type{Kind: KInt}
	TypeFloat  = &Type{Kind: KFloat}
	TypeBool   = &Type{Kind: KBool}
	TypeString = &Type{Kind: KString}
	TypeAtom   = &Type{Kind: KAtom}
	TypeBond   = &Type{Kind: KBond}
)

// Array builds an array type T[dims...].
func Array(elem Kind, dims ...Kind) *Type {
	return &Type{Kind: KArray, Elem: elem, Dims: append([]Kind{}, dims...)}
}

// Substitution builds a substitution pseudo-type.
func Substitution(result *Type, dims ...Kind) *Type {
	return &Type{Kind: KSubstitution, Result: result, Dims: append([]Kind{}, dims...)}
}

// Equal reports structural equality, ignoring Int/Float promotion.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case KArray:
		return t.Elem == other.Elem && dimsEqual(t.Dims, other.Dims)
	case KSubstitution:
		return t.Result.Equal(other.Result) && dimsEqual(t.Dims, other.Dims)
	case KFunction, KPredicate:
		if len(t.Args) != len(other.Args) {
			return false
		}
		for i := range t.Args {
			if !t.Args[i].Equal(other.Args[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func dimsEqual(a, b []Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsNumeric reports whether t is Int or Float.
func (t *Type) IsNumeric() bool {
	return t != nil && (t.Kind == KInt || t.Kind == KFloat)
}

// IsArray reports whether t is an array type.
func (t *Type) IsArray() bool {
	return t != nil && t.Kind == KArray
}

// Promote returns the common scalar type of two numeric types under
// CCL's Int -> Float rvalue promotion rule; both inputs must be numeric.
func Promote(a, b *Type) *Type {
	if a.Kind == KFloat || b.Kind == KFloat {
		return TypeFloat
	}
	return TypeInt
}

// String renders a type the way diagnostics quote it: "Float[Atom]",
// "Float[Atom, Atom]", "Bond Parameter", "Int", etc.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KArray:
		dims := make([]string, len(t.Dims))
		for i, d := range t.Dims {
			dims[i] = d.String()
		}
		return t.Elem.String() + "[" + strings.Join(dims, ", ") + "]"
	case KSubstitution:
		dims := make([]string, len(t.Dims))
		for i, d := range t.Dims {
			dims[i] = d.String()
		}
		return "Substitution(" + t.Result.String() + ")[" + strings.Join(dims, ", ") + "]"
	default:
		return t.Kind.String()
	}
}
