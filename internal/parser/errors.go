package parser

import (
	"github.com/ccllang/ccl/internal/diagnostic"
	"github.com/ccllang/ccl/internal/lexer"
)

// Parser holds the parser state: the full token stream (lexing runs
// eagerly, like the teacher's parser) and a cursor into it.
type Parser struct {
	tokens []lexer.Token
	pos    int
	diags  *diagnostic.Diagnostics
}

// current returns the token at the cursor.
func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

// peek returns the token after the cursor without consuming it.
func (p *Parser) peek() lexer.Token {
	if p.pos+1 >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos+1]
}

// advance consumes and returns the current token.
func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it has type tt; otherwise it
// reports a diagnostic but still advances, so a malformed program
// never leaves the parser stuck at the same position.
func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	tok := p.current()
	if tok.Type != tt {
		p.diags.Errorf(tok.Line, tok.Column, "expected %s, got %s", tt, tok.Type)
	}
	return p.advance()
}

// expectWord requires the current token to be an IDENT with the given
// literal text, used for the non-keyword words in property/constant
// annotations ("radius", "der", "waals", "charge").
func (p *Parser) expectWord(word string) lexer.Token {
	tok := p.current()
	if tok.Type != lexer.IDENT || tok.Literal != word {
		p.diags.Errorf(tok.Line, tok.Column, "expected %q, got %s %q", word, tok.Type, tok.Literal)
	}
	return p.advance()
}

// check reports whether the current token has type tt.
func (p *Parser) check(tt lexer.TokenType) bool {
	return p.current().Type == tt
}

// checkWord reports whether the current token is the IDENT word.
func (p *Parser) checkWord(word string) bool {
	tok := p.current()
	return tok.Type == lexer.IDENT && tok.Literal == word
}

// match consumes the current token if it has type tt.
func (p *Parser) match(tt lexer.TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}
