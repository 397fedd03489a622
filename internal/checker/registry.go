package checker

// registry.go holds the fixed builtin tables: single-argument math
// functions callable as f(e), atom/bond properties installable by a
// property annotation, and the predicate table used by the constraint
// checker. None of these are user-extensible; the analyser looks them
// up read-only.

// mathFunctions are the single-argument function-call builtins, f(e).
var mathFunctions = map[string]*Type{
	"sin":  {Kind: KFunction, Args: []*Type{TypeFloat}, Result: TypeFloat},
	"cos":  {Kind: KFunction, Args: []*Type{TypeFloat}, Result: TypeFloat},
	"exp":  {Kind: KFunction, Args: []*Type{TypeFloat}, Result: TypeFloat},
	"log":  {Kind: KFunction, Args: []*Type{TypeFloat}, Result: TypeFloat},
	"sqrt": {Kind: KFunction, Args: []*Type{TypeFloat}, Result: TypeFloat},
	"inv": {
		Kind:   KFunction,
		Args:   []*Type{Array(KFloat, KAtom, KAtom)},
		Result: Array(KFloat, KAtom, KAtom),
	},
}

// propertyWord describes one entry of the property-name grammar:
// the canonical words a property annotation may use, and the function
// signature it installs.
type propertyWord struct {
	ArgKinds []Kind
	Elem     Kind // result element kind when installed as a property (array)
}

// properties maps the fixed property-name phrases (see §4.1 item 3) to
// their installed signature. A single-index property becomes a
// FunctionSymbol over one atom/bond; "distance" and "bond distance" both
// take two atoms, matching the two-argument distance family in §4.6.
var properties = map[string]propertyWord{
	"electronegativity":    {ArgKinds: []Kind{KAtom}, Elem: KFloat},
	"covalent radius":      {ArgKinds: []Kind{KAtom}, Elem: KFloat},
	"covradius":            {ArgKinds: []Kind{KAtom}, Elem: KFloat},
	"van der waals radius": {ArgKinds: []Kind{KAtom}, Elem: KFloat},
	"vdwradius":            {ArgKinds: []Kind{KAtom}, Elem: KFloat},
	"distance":             {ArgKinds: []Kind{KAtom, KAtom}, Elem: KFloat},
	"bond order":           {ArgKinds: []Kind{KBond}, Elem: KInt},
	"bond distance":        {ArgKinds: []Kind{KAtom, KAtom}, Elem: KFloat},
	"formal charge":        {ArgKinds: []Kind{KAtom}, Elem: KFloat},
}

// predicates is the fixed constraint-checker predicate table. "near"'s
// first two positions accept either Atom or Bond (checkNearPredicate
// validates that directly rather than through this table, since a
// single Kind slot can't express "Atom or Bond"); the Float entry
// here still pins down its arity and its third position.
var predicates = map[string][]Kind{
	"bonded":        {KAtom, KAtom},
	"element":       {KAtom, KString},
	"near":          {KAtom, KAtom, KFloat},
	"bond_distance": {KAtom, KAtom, KInt},
}

// propertyFunctionType builds the FunctionSymbol signature a Property
// annotation installs: f(arg1, ..., argN) -> elem, used when the name
// is later subscripted (e.g. electronegativity[a], distance[a,b]).
func propertyFunctionType(word propertyWord) *Type {
	args := make([]*Type, len(word.ArgKinds))
	for i, k := range word.ArgKinds {
		args[i] = kindType(k)
	}
	return &Type{Kind: KFunction, Args: args, Result: kindType(word.Elem)}
}

func kindType(k Kind) *Type {
	switch k {
	case KAtom:
		return TypeAtom
	case KBond:
		return TypeBond
	case KInt:
		return TypeInt
	case KFloat:
		return TypeFloat
	case KString:
		return TypeString
	case KBool:
		return TypeBool
	default:
		return nil
	}
}
