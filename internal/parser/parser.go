package parser

import (
	"github.com/ccllang/ccl/internal/ast"
	"github.com/ccllang/ccl/internal/diagnostic"
	"github.com/ccllang/ccl/internal/lexer"
)

// New tokenizes source eagerly and returns a Parser ready to build a
// Method tree from it, the same one-shot lex-then-parse shape as the
// teacher's parser.
func New(source string) *Parser {
	l := lexer.New(source)
	return &Parser{tokens: l.Tokenize(), diags: diagnostic.New()}
}

// Diagnostics returns every syntax error collected during Parse.
func (p *Parser) Diagnostics() *diagnostic.Diagnostics {
	return p.diags
}

// Parse builds a Method: its statement body, then (if present) the
// where block's annotations.
func (p *Parser) Parse() *ast.Method {
	tok := p.current()
	m := &ast.Method{Line: tok.Line, Column: tok.Column}

	for !p.check(lexer.WHERE) && !p.check(lexer.EOF) {
		m.Statements = append(m.Statements, p.parseStatement())
	}

	if p.match(lexer.WHERE) {
		for !p.check(lexer.EOF) {
			if a := p.parseAnnotation(); a != nil {
				m.Annotations = append(m.Annotations, a)
			}
		}
	}

	return m
}

// parseStatement dispatches on the three statement shapes: assignment,
// counting loop, and object-iterator loop.
func (p *Parser) parseStatement() ast.Statement {
	if p.check(lexer.FOR) {
		if p.peek().Type == lexer.EACH {
			return p.parseForEach()
		}
		return p.parseFor()
	}
	return p.parseAssign()
}

func (p *Parser) parseBlockUntilDone() *ast.Block {
	tok := p.current()
	b := &ast.Block{Line: tok.Line, Column: tok.Column}
	for !p.check(lexer.DONE) && !p.check(lexer.EOF) {
		b.Statements = append(b.Statements, p.parseStatement())
	}
	return b
}

func (p *Parser) parseFor() *ast.For {
	tok := p.expect(lexer.FOR)
	varTok := p.expect(lexer.IDENT)
	p.expect(lexer.ASSIGN)
	low := p.parseExpr()
	p.expect(lexer.TO)
	high := p.parseExpr()
	p.expect(lexer.COLON)
	body := p.parseBlockUntilDone()
	p.expect(lexer.DONE)
	return &ast.For{
		Var:    varTok.Literal,
		VarPos: [2]int{varTok.Line, varTok.Column},
		Low:    low,
		High:   high,
		Body:   body,
		Line:   tok.Line,
		Column: tok.Column,
	}
}

func (p *Parser) parseForEach() *ast.ForEach {
	tok := p.expect(lexer.FOR)
	p.expect(lexer.EACH)

	kind := ast.KindAtom
	switch {
	case p.check(lexer.ATOM):
		p.advance()
	case p.check(lexer.BOND):
		p.advance()
		kind = ast.KindBond
	default:
		t := p.current()
		p.diags.Errorf(t.Line, t.Column, "expected atom or bond, got %s", t.Type)
	}

	nameTok := p.expect(lexer.IDENT)

	var atomIndices []*ast.Name
	if p.match(lexer.ASSIGN) {
		p.expect(lexer.LBRACKET)
		i := p.expect(lexer.IDENT)
		p.expect(lexer.COMMA)
		j := p.expect(lexer.IDENT)
		p.expect(lexer.RBRACKET)
		atomIndices = []*ast.Name{
			{Value: i.Literal, Context: ast.Store, Line: i.Line, Column: i.Column},
			{Value: j.Literal, Context: ast.Store, Line: j.Line, Column: j.Column},
		}
	}

	var cond ast.Constraint
	if p.check(lexer.SUCH) {
		p.advance()
		p.expect(lexer.THAT)
		cond = p.parseConstraint()
	}

	p.expect(lexer.COLON)
	body := p.parseBlockUntilDone()
	p.expect(lexer.DONE)

	return &ast.ForEach{
		Kind:        kind,
		Var:         nameTok.Literal,
		VarPos:      [2]int{nameTok.Line, nameTok.Column},
		AtomIndices: atomIndices,
		Cond:        cond,
		Body:        body,
		Line:        tok.Line,
		Column:      tok.Column,
	}
}

func (p *Parser) parseAssign() *ast.Assign {
	nameTok := p.expect(lexer.IDENT)

	var target ast.Expression
	if p.check(lexer.LBRACKET) {
		indices := p.parseIndexList()
		target = &ast.Subscript{Name: nameTok.Literal, Indices: indices, Line: nameTok.Line, Column: nameTok.Column}
	} else {
		target = &ast.Name{Value: nameTok.Literal, Context: ast.Store, Line: nameTok.Line, Column: nameTok.Column}
	}

	p.expect(lexer.ASSIGN)
	value := p.parseExpr()

	return &ast.Assign{Target: target, Value: value, Line: nameTok.Line, Column: nameTok.Column}
}

// parseIndexList parses "[" IDENT ("," IDENT)? "]"; CCL subscripts are
// always object-iterator names, never arbitrary expressions.
func (p *Parser) parseIndexList() []*ast.Name {
	p.expect(lexer.LBRACKET)
	var indices []*ast.Name

	t := p.expect(lexer.IDENT)
	indices = append(indices, &ast.Name{Value: t.Literal, Context: ast.Load, Line: t.Line, Column: t.Column})

	if p.match(lexer.COMMA) {
		t2 := p.expect(lexer.IDENT)
		indices = append(indices, &ast.Name{Value: t2.Literal, Context: ast.Load, Line: t2.Line, Column: t2.Column})
	}

	p.expect(lexer.RBRACKET)
	return indices
}

// parseAnnotation dispatches on the five annotation shapes by looking
// past the leading IDENT.
func (p *Parser) parseAnnotation() ast.Annotation {
	nameTok := p.expect(lexer.IDENT)

	switch {
	case p.check(lexer.LBRACKET):
		// Subscripted substitution clause: name[idx,...] = expr [if constraint]
		indices := p.parseIndexList()
		p.expect(lexer.ASSIGN)
		value := p.parseExpr()
		var cond ast.Constraint
		if p.match(lexer.IF) {
			cond = p.parseConstraint()
		}
		return &ast.Substitution{Name: nameTok.Literal, Indices: indices, Value: value, Cond: cond, Line: nameTok.Line, Column: nameTok.Column}

	case p.match(lexer.ASSIGN):
		if p.check(lexer.LBRACKET) {
			// Bond decomposition object annotation: name = [i,j] is bond
			p.expect(lexer.LBRACKET)
			i := p.expect(lexer.IDENT)
			p.expect(lexer.COMMA)
			j := p.expect(lexer.IDENT)
			p.expect(lexer.RBRACKET)
			p.expect(lexer.IS)
			p.expect(lexer.BOND)
			atomIndices := []*ast.Name{
				{Value: i.Literal, Context: ast.Store, Line: i.Line, Column: i.Column},
				{Value: j.Literal, Context: ast.Store, Line: j.Line, Column: j.Column},
			}
			return &ast.Object{Name: nameTok.Literal, Kind: ast.KindBond, AtomIndices: atomIndices, Line: nameTok.Line, Column: nameTok.Column}
		}
		// Bare-lhs substitution clause: name = expr [if constraint]
		value := p.parseExpr()
		var cond ast.Constraint
		if p.match(lexer.IF) {
			cond = p.parseConstraint()
		}
		return &ast.Substitution{Name: nameTok.Literal, Value: value, Cond: cond, Line: nameTok.Line, Column: nameTok.Column}

	case p.match(lexer.IS):
		if (p.check(lexer.ATOM) || p.check(lexer.BOND) || p.check(lexer.COMMON)) && p.peek().Type == lexer.PARAMETER {
			kindTok := p.advance()
			p.expect(lexer.PARAMETER)
			var pk ast.ObjectKindOrCommon
			switch kindTok.Type {
			case lexer.ATOM:
				pk = ast.ParamAtom
			case lexer.BOND:
				pk = ast.ParamBond
			default:
				pk = ast.ParamCommon
			}
			return &ast.Parameter{Name: nameTok.Literal, Kind: pk, Line: nameTok.Line, Column: nameTok.Column}
		}

		// "bond order"/"bond distance" on the same line is a property
		// phrase, not a bond object annotation.
		next := p.peek()
		bondProperty := p.check(lexer.BOND) && next.Type == lexer.IDENT && next.Line == p.current().Line &&
			(next.Literal == "order" || next.Literal == "distance")
		if (p.check(lexer.ATOM) || p.check(lexer.BOND)) && !bondProperty {
			kind := ast.KindAtom
			if p.current().Type == lexer.BOND {
				kind = ast.KindBond
			}
			p.advance()
			var cond ast.Constraint
			if p.check(lexer.SUCH) {
				p.advance()
				p.expect(lexer.THAT)
				cond = p.parseConstraint()
			}
			return &ast.Object{Name: nameTok.Literal, Kind: kind, Cond: cond, Line: nameTok.Line, Column: nameTok.Column}
		}

		word := p.parsePropertyWords()
		if p.checkWord("of") {
			p.advance()
			elemTok := p.expect(lexer.IDENT)
			return &ast.Constant{Name: nameTok.Literal, PropWord: word, Element: elemTok.Literal, Line: nameTok.Line, Column: nameTok.Column}
		}
		return &ast.Property{Name: nameTok.Literal, PropWord: word, Line: nameTok.Line, Column: nameTok.Column}

	default:
		t := p.current()
		p.diags.Errorf(t.Line, t.Column, "expected annotation, got %s", t.Type)
		p.advance()
		return nil
	}
}

// parsePropertyWords recognizes one of the fixed property-name phrases.
// These extra words ("radius", "order", "charge", "der", "waals") are
// not lexer keywords; they are matched as plain IDENT literals.
func (p *Parser) parsePropertyWords() string {
	tok := p.current()
	if tok.Type != lexer.IDENT && tok.Type != lexer.BOND {
		p.diags.Errorf(tok.Line, tok.Column, "expected property name, got %s", tok.Type)
		return ""
	}

	switch tok.Literal {
	case "electronegativity", "covradius", "vdwradius", "distance":
		p.advance()
		return tok.Literal
	case "covalent":
		p.advance()
		p.expectWord("radius")
		return "covalent radius"
	case "van":
		p.advance()
		p.expectWord("der")
		p.expectWord("waals")
		p.expectWord("radius")
		return "van der waals radius"
	case "bond":
		p.advance()
		if p.checkWord("order") {
			p.advance()
			return "bond order"
		}
		if p.checkWord("distance") {
			p.advance()
			return "bond distance"
		}
		t := p.current()
		p.diags.Errorf(t.Line, t.Column, "expected 'order' or 'distance' after 'bond'")
		return "bond"
	case "formal":
		p.advance()
		p.expectWord("charge")
		return "formal charge"
	default:
		p.advance()
		return tok.Literal
	}
}

// --- expressions ---

func (p *Parser) parseExpr() ast.Expression {
	left := p.parseTerm()
	for p.check(lexer.PLUS) || p.check(lexer.MINUS) {
		op := p.advance()
		right := p.parseTerm()
		left = &ast.BinaryExpr{Left: left, Op: op.Type, Right: right, Line: op.Line, Column: op.Column}
	}
	return left
}

func (p *Parser) parseTerm() ast.Expression {
	left := p.parseFactor()
	for p.check(lexer.STAR) || p.check(lexer.SLASH) {
		op := p.advance()
		right := p.parseFactor()
		left = &ast.BinaryExpr{Left: left, Op: op.Type, Right: right, Line: op.Line, Column: op.Column}
	}
	return left
}

// parseFactor handles "^", right-associative.
func (p *Parser) parseFactor() ast.Expression {
	left := p.parseUnary()
	if p.check(lexer.CARET) {
		op := p.advance()
		right := p.parseFactor()
		return &ast.BinaryExpr{Left: left, Op: op.Type, Right: right, Line: op.Line, Column: op.Column}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.check(lexer.PLUS) || p.check(lexer.MINUS) {
		op := p.advance()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Op: op.Type, Operand: operand, Line: op.Line, Column: op.Column}
	}
	return p.parseAtomExpr()
}

func (p *Parser) parseAtomExpr() ast.Expression {
	tok := p.current()

	switch tok.Type {
	case lexer.INT_LIT:
		p.advance()
		return &ast.IntLit{Value: tok.Literal, Line: tok.Line, Column: tok.Column}

	case lexer.FLOAT_LIT:
		p.advance()
		return &ast.FloatLit{Value: tok.Literal, Line: tok.Line, Column: tok.Column}

	case lexer.SUM:
		return p.parseSum()

	case lexer.EE:
		return p.parseEE()

	case lexer.LPAREN:
		p.advance()
		e := p.parseExpr()
		p.expect(lexer.RPAREN)
		return e

	case lexer.IDENT:
		p.advance()
		if p.check(lexer.LPAREN) {
			p.advance()
			arg := p.parseExpr()
			p.expect(lexer.RPAREN)
			return &ast.Call{Name: tok.Literal, Arg: arg, Line: tok.Line, Column: tok.Column}
		}
		if p.check(lexer.LBRACKET) {
			indices := p.parseIndexList()
			return &ast.Subscript{Name: tok.Literal, Indices: indices, Line: tok.Line, Column: tok.Column}
		}
		return &ast.Name{Value: tok.Literal, Context: ast.Load, Line: tok.Line, Column: tok.Column}

	default:
		p.diags.Errorf(tok.Line, tok.Column, "unexpected token %s in expression", tok.Type)
		p.advance()
		return &ast.Name{Value: "<error>", Line: tok.Line, Column: tok.Column}
	}
}

func (p *Parser) parseSum() *ast.Sum {
	tok := p.expect(lexer.SUM)
	p.expect(lexer.LBRACKET)
	idxTok := p.expect(lexer.IDENT)
	p.expect(lexer.RBRACKET)
	p.expect(lexer.LPAREN)
	body := p.parseExpr()
	p.expect(lexer.RPAREN)
	return &ast.Sum{
		Index:     idxTok.Literal,
		IndexLine: idxTok.Line,
		IndexCol:  idxTok.Column,
		Body:      body,
		Line:      tok.Line,
		Column:    tok.Column,
	}
}

func (p *Parser) parseEE() *ast.EE {
	tok := p.expect(lexer.EE)
	p.expect(lexer.LBRACKET)
	iTok := p.expect(lexer.IDENT)
	p.expect(lexer.COMMA)
	jTok := p.expect(lexer.IDENT)
	p.expect(lexer.RBRACKET)
	p.expect(lexer.LPAREN)

	diag := p.parseExpr()
	p.expect(lexer.COMMA)
	off := p.parseExpr()
	p.expect(lexer.COMMA)
	rhs := p.parseExpr()

	kind := ast.EEFull
	var radius ast.Expression
	if p.match(lexer.COMMA) {
		switch {
		case p.check(lexer.CUTOFF):
			p.advance()
			kind = ast.EECutoff
		case p.check(lexer.COVER):
			p.advance()
			kind = ast.EECover
		default:
			t := p.current()
			p.diags.Errorf(t.Line, t.Column, "expected cutoff or cover, got %s", t.Type)
		}
		p.expect(lexer.COMMA)
		radius = p.parseExpr()
	}

	p.expect(lexer.RPAREN)

	return &ast.EE{
		RowIndex: iTok.Literal,
		RowPos:   [2]int{iTok.Line, iTok.Column},
		ColIndex: jTok.Literal,
		ColPos:   [2]int{jTok.Line, jTok.Column},
		Diag:     diag,
		Off:      off,
		Rhs:      rhs,
		Kind:     kind,
		Radius:   radius,
		Line:     tok.Line,
		Column:   tok.Column,
	}
}

// --- constraints ---

var relOps = map[lexer.TokenType]bool{
	lexer.LT: true, lexer.GT: true, lexer.LE: true,
	lexer.GE: true, lexer.EQ: true, lexer.NEQ: true,
}

func (p *Parser) parseConstraint() ast.Constraint {
	left := p.parseAndConstraint()
	for p.check(lexer.OR) {
		op := p.advance()
		right := p.parseAndConstraint()
		left = &ast.BinaryLogicalOp{Left: left, Op: op.Type, Right: right, Line: op.Line, Column: op.Column}
	}
	return left
}

func (p *Parser) parseAndConstraint() ast.Constraint {
	left := p.parseNotConstraint()
	for p.check(lexer.AND) {
		op := p.advance()
		right := p.parseNotConstraint()
		left = &ast.BinaryLogicalOp{Left: left, Op: op.Type, Right: right, Line: op.Line, Column: op.Column}
	}
	return left
}

func (p *Parser) parseNotConstraint() ast.Constraint {
	if p.check(lexer.NOT) {
		op := p.advance()
		operand := p.parseNotConstraint()
		return &ast.UnaryLogicalOp{Operand: operand, Line: op.Line, Column: op.Column}
	}
	return p.parsePrimaryConstraint()
}

// parsePrimaryConstraint resolves the grammar's ambiguity between
// "(" constraint ")" and a relational comparison whose left operand is
// itself a parenthesised expr: it scans ahead to the matching ")" and
// only treats the parenthesis as a boolean group when a relop does not
// immediately follow it.
func (p *Parser) parsePrimaryConstraint() ast.Constraint {
	if p.check(lexer.LPAREN) && !p.parenGroupsExpr() {
		p.advance()
		c := p.parseConstraint()
		p.expect(lexer.RPAREN)
		return c
	}

	if p.check(lexer.IDENT) && p.peek().Type == lexer.LPAREN {
		return p.parsePredicate()
	}

	left := p.parseExpr()
	op := p.current()
	if !relOps[op.Type] {
		p.diags.Errorf(op.Line, op.Column, "expected relational operator, got %s", op.Type)
		return &ast.RelOp{Left: left, Op: lexer.EQ, Right: left, Line: op.Line, Column: op.Column}
	}
	p.advance()
	right := p.parseExpr()
	return &ast.RelOp{Left: left, Op: op.Type, Right: right, Line: op.Line, Column: op.Column}
}

// parenGroupsExpr reports whether the "(" at the cursor belongs to an
// expr (its matching ")" is immediately followed by a relop) rather
// than bounding a parenthesised constraint.
func (p *Parser) parenGroupsExpr() bool {
	depth := 0
	for idx := p.pos; idx < len(p.tokens); idx++ {
		switch p.tokens[idx].Type {
		case lexer.LPAREN:
			depth++
		case lexer.RPAREN:
			depth--
			if depth == 0 {
				if idx+1 < len(p.tokens) {
					return relOps[p.tokens[idx+1].Type]
				}
				return false
			}
		case lexer.EOF:
			return false
		}
	}
	return false
}

func (p *Parser) parsePredicate() *ast.Predicate {
	nameTok := p.advance()
	p.expect(lexer.LPAREN)
	args := p.parseArgList()
	p.expect(lexer.RPAREN)
	return &ast.Predicate{Name: nameTok.Literal, Args: args, Line: nameTok.Line, Column: nameTok.Column}
}

func (p *Parser) parseArgList() []ast.Expression {
	var args []ast.Expression
	if p.check(lexer.RPAREN) {
		return args
	}
	args = append(args, p.parseExpr())
	for p.match(lexer.COMMA) {
		args = append(args, p.parseExpr())
	}
	return args
}
