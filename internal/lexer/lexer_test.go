package lexer

import "testing"

func TestNextToken_Operators(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []TokenType
	}{
		{
			name:     "arithmetic operators",
			input:    "+ - * / ^",
			expected: []TokenType{PLUS, MINUS, STAR, SLASH, CARET, EOF},
		},
		{
			name:     "comparison operators",
			input:    "== != < > <= >=",
			expected: []TokenType{EQ, NEQ, LT, GT, LE, GE, EOF},
		},
		{
			name:     "assignment operator",
			input:    "=",
			expected: []TokenType{ASSIGN, EOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(tt.input)
			for i, expectedType := range tt.expected {
				tok := l.NextToken()
				if tok.Type != expectedType {
					t.Errorf("token[%d] - wrong type. expected=%q, got=%q",
						i, expectedType, tok.Type)
				}
			}
		})
	}
}

func TestNextToken_Delimiters(t *testing.T) {
	input := "( ) [ ] , :"
	expected := []TokenType{LPAREN, RPAREN, LBRACKET, RBRACKET, COMMA, COLON, EOF}

	l := New(input)
	for i, expectedType := range expected {
		tok := l.NextToken()
		if tok.Type != expectedType {
			t.Errorf("token[%d] - wrong type. expected=%q, got=%q",
				i, expectedType, tok.Type)
		}
	}
}

func TestNextToken_Keywords(t *testing.T) {
	input := "for each atom bond common parameter is where done sum EE cutoff cover if such that to and or not"
	expected := []TokenType{
		FOR, EACH, ATOM, BOND, COMMON, PARAMETER, IS, WHERE, DONE, SUM, EE,
		CUTOFF, COVER, IF, SUCH, THAT, TO, AND, OR, NOT, EOF,
	}

	l := New(input)
	for i, expectedType := range expected {
		tok := l.NextToken()
		if tok.Type != expectedType {
			t.Errorf("token[%d] - wrong type. expected=%q, got=%q (%q)",
				i, expectedType, tok.Type, tok.Literal)
		}
	}
}

func TestNextToken_Identifiers(t *testing.T) {
	input := "q electronegativity bond_order2 R"
	expected := []string{"q", "electronegativity", "bond_order2", "R"}

	l := New(input)
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != IDENT || tok.Literal != want {
			t.Errorf("token[%d] - expected IDENT %q, got %q %q", i, want, tok.Type, tok.Literal)
		}
	}
}

func TestNextToken_Numbers(t *testing.T) {
	tests := []struct {
		input string
		ttype TokenType
	}{
		{"10", INT_LIT},
		{"0", INT_LIT},
		{"3.14", FLOAT_LIT},
		{"2.", FLOAT_LIT},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != tt.ttype || tok.Literal != tt.input {
			t.Errorf("input %q: expected %q %q, got %q %q", tt.input, tt.ttype, tt.input, tok.Type, tok.Literal)
		}
	}
}

func TestNextToken_Comment(t *testing.T) {
	input := "q = 1 # this is a comment\nr = 2"
	l := New(input)

	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}

	expected := []TokenType{IDENT, ASSIGN, INT_LIT, IDENT, ASSIGN, INT_LIT, EOF}
	if len(types) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(types), types)
	}
	for i := range expected {
		if types[i] != expected[i] {
			t.Errorf("token[%d]: expected %q, got %q", i, expected[i], types[i])
		}
	}
}

func TestNextToken_LineColumn(t *testing.T) {
	input := "q\n  r"
	l := New(input)

	tok := l.NextToken()
	if tok.Line != 1 || tok.Column != 1 {
		t.Errorf("first token: expected line 1 col 1, got %d:%d", tok.Line, tok.Column)
	}

	tok = l.NextToken()
	if tok.Line != 2 {
		t.Errorf("second token: expected line 2, got %d", tok.Line)
	}
}
