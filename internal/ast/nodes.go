// Package ast defines the syntax tree produced by the parser and consumed
// by the checker. Every node carries its own source position so that
// diagnostics can point at the exact token that triggered them.
package ast

import "github.com/ccllang/ccl/internal/lexer"

// Node is the base interface implemented by every AST node.
type Node interface {
	Pos() (line, col int)
}

// Statement is a node that appears in a method's body.
type Statement interface {
	Node
	stmtNode()
}

// Expression is a node that yields a value.
type Expression interface {
	Node
	exprNode()
}

// Annotation is a node that appears in the where block.
type Annotation interface {
	Node
	annotationNode()
}

// Constraint is a boolean node used in "such that" and "if" clauses.
type Constraint interface {
	Node
	constraintNode()
}

// Method is the root of a parsed charge calculation method: its body
// statements followed by the where block's annotations.
type Method struct {
	Statements  []Statement
	Annotations []Annotation
	Line        int
	Column      int
}

func (m *Method) Pos() (int, int) { return m.Line, m.Column }

// Block groups the statements of a for/for-each body.
type Block struct {
	Statements []Statement
	Line       int
	Column     int
}

func (b *Block) Pos() (int, int) { return b.Line, b.Column }

// IntLit is an integer literal.
type IntLit struct {
	Value  string
	Line   int
	Column int
}

func (i *IntLit) Pos() (int, int) { return i.Line, i.Column }
func (i *IntLit) exprNode()       {}

// FloatLit is a floating point literal.
type FloatLit struct {
	Value  string
	Line   int
	Column int
}

func (f *FloatLit) Pos() (int, int) { return f.Line, f.Column }
func (f *FloatLit) exprNode()       {}

// VarContext records whether a Name is read (LOAD) or written (STORE),
// mirroring the distinction the checker needs between a use and a
// definition of the same identifier.
type VarContext int

const (
	Load VarContext = iota
	Store
)

// Name references a symbol: a scalar variable, loop variable, object
// variable, parameter, property, constant or substitution.
type Name struct {
	Value   string
	Context VarContext
	Line    int
	Column  int
}

func (n *Name) Pos() (int, int) { return n.Line, n.Column }
func (n *Name) exprNode()       {}

// Subscript indexes an array or substitution symbol by one or two names.
// CCL indices are always themselves references to object-iterator
// variables, never arbitrary expressions.
type Subscript struct {
	Name    string
	Indices []*Name
	Line    int
	Column  int
}

func (s *Subscript) Pos() (int, int) { return s.Line, s.Column }
func (s *Subscript) exprNode()       {}

// BinaryExpr is a left/right arithmetic expression: + - * / ^.
type BinaryExpr struct {
	Left   Expression
	Op     lexer.TokenType
	Right  Expression
	Line   int
	Column int
}

func (b *BinaryExpr) Pos() (int, int) { return b.Line, b.Column }
func (b *BinaryExpr) exprNode()       {}

// UnaryExpr is a unary plus or minus applied to an expression.
type UnaryExpr struct {
	Op      lexer.TokenType
	Operand Expression
	Line    int
	Column  int
}

func (u *UnaryExpr) Pos() (int, int) { return u.Line, u.Column }
func (u *UnaryExpr) exprNode()       {}

// Sum is the "sum[i](e)" summation expression form: the summation
// variable ranges implicitly over atoms or bonds depending on how it's
// used inside Body.
type Sum struct {
	Index     string
	IndexLine int
	IndexCol  int
	Body      Expression
	Line      int
	Column    int
}

func (s *Sum) Pos() (int, int) { return s.Line, s.Column }
func (s *Sum) exprNode()       {}

// EEKind distinguishes the three forms of the EE (electronegativity
// equalisation) expression.
type EEKind int

const (
	EEFull EEKind = iota
	EECutoff
	EECover
)

// EE is the "EE[i,j](diag, off, rhs[, cutoff|cover, r])" electronegativity
// equalisation expression. Kind selects whether Radius applies a hard
// cutoff, a coverage radius, or neither.
type EE struct {
	RowIndex string
	RowPos   [2]int
	ColIndex string
	ColPos   [2]int
	Diag     Expression
	Off      Expression
	Rhs      Expression
	Kind     EEKind
	Radius   Expression // nil when Kind == EEFull
	Line     int
	Column   int
}

func (e *EE) Pos() (int, int) { return e.Line, e.Column }
func (e *EE) exprNode()       {}

// Call is a built-in function application: f(arg). CCL's function
// registry is single-argument (sin, cos, exp, log, sqrt, inv); properties
// with more than one index are invoked through Subscript instead.
type Call struct {
	Name   string
	Arg    Expression
	Line   int
	Column int
}

func (c *Call) Pos() (int, int) { return c.Line, c.Column }
func (c *Call) exprNode()       {}

// Assign is a top-level statement: name = expr or name[idx,...] = expr.
type Assign struct {
	Target Expression // *Name or *Subscript, Context == Store
	Value  Expression
	Line   int
	Column int
}

func (a *Assign) Pos() (int, int) { return a.Line, a.Column }
func (a *Assign) stmtNode()       {}

// For is the bounded counting loop: for i = lo to hi: body done.
type For struct {
	Var    string
	VarPos [2]int
	Low    Expression
	High   Expression
	Body   *Block
	Line   int
	Column int
}

func (f *For) Pos() (int, int) { return f.Line, f.Column }
func (f *For) stmtNode()       {}

// ObjectKind distinguishes atom iteration from bond iteration.
type ObjectKind int

const (
	KindAtom ObjectKind = iota
	KindBond
)

// ForEach is the iterate-over-atoms/bonds loop. AtomIndices holds the
// two atom-iterator names of a bond decomposition (for each bond b =
// [i, j] ...); it is nil when the loop does not decompose its bonds.
type ForEach struct {
	Kind        ObjectKind
	Var         string
	VarPos      [2]int
	AtomIndices []*Name
	Cond        Constraint // optional "such that" guard
	Body        *Block
	Line        int
	Column      int
}

func (f *ForEach) Pos() (int, int) { return f.Line, f.Column }
func (f *ForEach) stmtNode()       {}

// BinaryLogicalOp is "and"/"or" applied to two constraints.
type BinaryLogicalOp struct {
	Left   Constraint
	Op     lexer.TokenType
	Right  Constraint
	Line   int
	Column int
}

func (b *BinaryLogicalOp) Pos() (int, int) { return b.Line, b.Column }
func (b *BinaryLogicalOp) constraintNode() {}

// UnaryLogicalOp is "not" applied to a constraint.
type UnaryLogicalOp struct {
	Operand Constraint
	Line    int
	Column  int
}

func (u *UnaryLogicalOp) Pos() (int, int) { return u.Line, u.Column }
func (u *UnaryLogicalOp) constraintNode() {}

// RelOp compares two expressions: < <= > >= == !=.
type RelOp struct {
	Left   Expression
	Op     lexer.TokenType
	Right  Expression
	Line   int
	Column int
}

func (r *RelOp) Pos() (int, int) { return r.Line, r.Column }
func (r *RelOp) constraintNode() {}

// Predicate is a call into the fixed predicate registry: bonded, element,
// near, bond_distance.
type Predicate struct {
	Name   string
	Args   []Expression
	Line   int
	Column int
}

func (p *Predicate) Pos() (int, int) { return p.Line, p.Column }
func (p *Predicate) constraintNode() {}

// Parameter is a "name is atom|bond|common parameter" annotation.
type Parameter struct {
	Name   string
	Kind   ObjectKindOrCommon
	Line   int
	Column int
}

func (p *Parameter) Pos() (int, int) { return p.Line, p.Column }
func (p *Parameter) annotationNode() {}

// ObjectKindOrCommon widens ObjectKind with the parameter-only "common"
// case (a value shared by the whole structure, indexed by neither atom
// nor bond).
type ObjectKindOrCommon int

const (
	ParamAtom ObjectKindOrCommon = iota
	ParamBond
	ParamCommon
)

// Object is a "name is atom|bond [such that constraint]" annotation, or
// its bond-decomposition form "name = [i, j] is bond".
type Object struct {
	Name        string
	Kind        ObjectKind
	AtomIndices []*Name // non-nil only for the decomposition form
	Cond        Constraint
	Line        int
	Column      int
}

func (o *Object) Pos() (int, int) { return o.Line, o.Column }
func (o *Object) annotationNode() {}

// Property is a "name is <property words>" annotation, binding name to
// one of the fixed built-in properties (electronegativity, covalent
// radius, distance, bond order, bond distance, formal charge, ...).
type Property struct {
	Name     string
	PropWord string
	Line     int
	Column   int
}

func (p *Property) Pos() (int, int) { return p.Line, p.Column }
func (p *Property) annotationNode() {}

// Constant is a "name is <property words> of <element>" annotation: a
// property value frozen for one specific chemical element.
type Constant struct {
	Name     string
	PropWord string
	Element  string
	Line     int
	Column   int
}

func (c *Constant) Pos() (int, int) { return c.Line, c.Column }
func (c *Constant) annotationNode() {}

// Substitution is one "name[idx,...] = expr [if constraint]" annotation
// line: a single clause of a possibly multi-clause substitution rule.
// Clauses sharing Name are grouped by the checker, not the parser, since
// grouping is a semantic (not syntactic) concern per the annotation
// resolver's rules.
type Substitution struct {
	Name    string
	Indices []*Name // formal index names, empty for a zero-arity rule
	Value   Expression
	Cond    Constraint // nil for the default (unconstrained) clause
	Line    int
	Column  int
}

func (s *Substitution) Pos() (int, int) { return s.Line, s.Column }
func (s *Substitution) annotationNode() {}
