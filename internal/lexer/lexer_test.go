package lexer

import "testing"

func TestNextTokenBasicProgram(t *testing.T) {
	input := `class Counter is begin
  var n;

  constructor() is skip;

  method inc() is n := n;
end;

new Counter()`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{CLASS, "class"},
		{IDENT, "Counter"},
		{IS, "is"},
		{BEGIN, "begin"},
		{VAR, "var"},
		{IDENT, "n"},
		{SEMI, ";"},
		{CONSTRUCTOR, "constructor"},
		{LPAREN, "("},
		{RPAREN, ")"},
		{IS, "is"},
		{SKIP, "skip"},
		{SEMI, ";"},
		{METHOD, "method"},
		{IDENT, "inc"},
		{LPAREN, "("},
		{RPAREN, ")"},
		{IS, "is"},
		{IDENT, "n"},
		{ASSIGN, ":="},
		{IDENT, "n"},
		{SEMI, ";"},
		{END, "end"},
		{SEMI, ";"},
		{NEW, "new"},
		{IDENT, "Counter"},
		{LPAREN, "("},
		{RPAREN, ")"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s (%q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNextTokenOperatorsAndComments(t *testing.T) {
	input := `x != y // a comment
x = y
{ skip }
[ skip ]`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{IDENT, "x"},
		{NEQ, "!="},
		{IDENT, "y"},
		{IDENT, "x"},
		{EQ, "="},
		{IDENT, "y"},
		{LBRACE, "{"},
		{SKIP, "skip"},
		{RBRACE, "}"},
		{LBRACK, "["},
		{SKIP, "skip"},
		{RBRACK, "]"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType || tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - expected {%s %q}, got {%s %q}",
				i, tt.expectedType, tt.expectedLiteral, tok.Type, tok.Literal)
		}
	}
}

func TestNextTokenIllegalCharacter(t *testing.T) {
	l := New("x @ y")
	l.NextToken() // x
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %s", tok.Type)
	}
	if tok.Literal != "@" {
		t.Fatalf("expected literal '@', got %q", tok.Literal)
	}
}

func TestNextTokenPositionsTrackLinesAndColumns(t *testing.T) {
	input := "x\ny"
	l := New(input)

	tok := l.NextToken()
	if tok.Pos.Line != 1 || tok.Pos.Column != 1 {
		t.Fatalf("expected line 1 col 1, got line %d col %d", tok.Pos.Line, tok.Pos.Column)
	}

	tok = l.NextToken()
	if tok.Pos.Line != 2 || tok.Pos.Column != 1 {
		t.Fatalf("expected line 2 col 1, got line %d col %d", tok.Pos.Line, tok.Pos.Column)
	}
}

func TestLookupIdentClassifiesKeywordsAndIdents(t *testing.T) {
	if LookupIdent("while") != WHILE {
		t.Errorf("expected 'while' to classify as WHILE")
	}
	if LookupIdent("counter") != IDENT {
		t.Errorf("expected 'counter' to classify as IDENT")
	}
}
