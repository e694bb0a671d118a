package lexer

import (
	"testing"

	"github.com/pacedproton/medialang/token"
)

func TestLexerBasicTokens(t *testing.T) {
	tests := []struct {
		input    string
		expected []token.Item
	}{
		{
			input: `UNIT Foo { id: ID PRIMARY KEY; }`,
			expected: []token.Item{
				{Type: token.UNIT, Value: "UNIT"},
				{Type: token.IDENT, Value: "Foo"},
				{Type: token.LBRACE, Value: "{"},
				{Type: token.ID, Value: "id"},
				{Type: token.COLON, Value: ":"},
				{Type: token.ID, Value: "ID"},
				{Type: token.PRIMARY, Value: "PRIMARY"},
				{Type: token.KEY, Value: "KEY"},
				{Type: token.SEMICOLON, Value: ";"},
				{Type: token.RBRACE, Value: "}"},
				{Type: token.EOF, Value: ""},
			},
		},
		{
			input: `title = "El Pais"; year = 1976;`,
			expected: []token.Item{
				{Type: token.IDENT, Value: "title"},
				{Type: token.ASSIGN, Value: "="},
				{Type: token.STRING, Value: "El Pais"},
				{Type: token.SEMICOLON, Value: ";"},
				{Type: token.YEAR, Value: "year"},
				{Type: token.ASSIGN, Value: "="},
				{Type: token.NUMBER, Value: "1976"},
				{Type: token.SEMICOLON, Value: ";"},
				{Type: token.EOF, Value: ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(0, tt.input)
			for i, exp := range tt.expected {
				got := l.Next()
				if got.Type != exp.Type {
					t.Errorf("token %d: expected type %v, got %v", i, exp.Type, got.Type)
				}
				if got.Value != exp.Value {
					t.Errorf("token %d: expected value %q, got %q", i, exp.Value, got.Value)
				}
			}
		})
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input    string
		expected token.Item
	}{
		{"123", token.Item{Type: token.NUMBER, Value: "123"}},
		{"-5", token.Item{Type: token.NUMBER, Value: "-5"}},
		{"3.14", token.Item{Type: token.NUMBER, Value: "3.14"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(0, tt.input)
			got := l.Next()
			if got.Type != tt.expected.Type {
				t.Errorf("expected type %v, got %v", tt.expected.Type, got.Type)
			}
			if got.Value != tt.expected.Value {
				t.Errorf("expected value %q, got %q", tt.expected.Value, got.Value)
			}
		})
	}
}

func TestLexerStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected token.Item
	}{
		{`"hello"`, token.Item{Type: token.STRING, Value: "hello"}},
		{`"it\"s"`, token.Item{Type: token.STRING, Value: `it"s`}},
		{`"escaped\nchar"`, token.Item{Type: token.STRING, Value: "escaped\nchar"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(0, tt.input)
			got := l.Next()
			if got.Type != tt.expected.Type {
				t.Errorf("expected type %v, got %v", tt.expected.Type, got.Type)
			}
			if got.Value != tt.expected.Value {
				t.Errorf("expected value %q, got %q", tt.expected.Value, got.Value)
			}
		})
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	l := New(0, "\"unterminated\nrest")
	got := l.Next()
	if got.Type != token.ILLEGAL {
		t.Errorf("expected ILLEGAL, got %v", got.Type)
	}
	if len(l.Errors()) != 1 || l.Errors()[0].Kind != "UnterminatedString" {
		t.Errorf("expected one UnterminatedString diagnostic, got %v", l.Errors())
	}
}

func TestLexerVarRefAndAnnotation(t *testing.T) {
	l := New(0, "$var @annot")
	v := l.Next()
	if v.Type != token.VARREF || v.Value != "var" {
		t.Errorf("expected VARREF(var), got %v(%q)", v.Type, v.Value)
	}
	a := l.Next()
	if a.Type != token.ANNOT || a.Value != "annot" {
		t.Errorf("expected ANNOT(annot), got %v(%q)", a.Type, a.Value)
	}
}

func TestLexerComments(t *testing.T) {
	tests := []struct {
		input    string
		expected []token.Item
	}{
		{
			input: "UNIT // comment\nFAMILY",
			expected: []token.Item{
				{Type: token.UNIT, Value: "UNIT"},
				{Type: token.FAMILY, Value: "FAMILY"},
			},
		},
		{
			input: "UNIT /* block\ncomment */ FAMILY",
			expected: []token.Item{
				{Type: token.UNIT, Value: "UNIT"},
				{Type: token.FAMILY, Value: "FAMILY"},
			},
		},
		{
			input: "UNIT # shell comment\nFAMILY",
			expected: []token.Item{
				{Type: token.UNIT, Value: "UNIT"},
				{Type: token.FAMILY, Value: "FAMILY"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			l := New(0, tt.input)
			for i, exp := range tt.expected {
				got := l.Next()
				if got.Type != exp.Type {
					t.Errorf("token %d: expected type %v, got %v", i, exp.Type, got.Type)
				}
			}
		})
	}
}

func TestLexerPositions(t *testing.T) {
	input := "UNIT\n  Foo\nFAMILY bar"
	l := New(0, input)

	expected := []struct {
		tok  token.Token
		line int
		col  int
	}{
		{token.UNIT, 1, 1},
		{token.IDENT, 2, 3},
		{token.FAMILY, 3, 1},
		{token.IDENT, 3, 8},
	}

	for _, exp := range expected {
		got := l.Next()
		if got.Type != exp.tok {
			t.Errorf("expected token %v, got %v", exp.tok, got.Type)
		}
		if got.Pos.Line != exp.line {
			t.Errorf("token %v: expected line %d, got %d", got.Type, exp.line, got.Pos.Line)
		}
		if got.Pos.Column != exp.col {
			t.Errorf("token %v: expected column %d, got %d", got.Type, exp.col, got.Pos.Column)
		}
	}
}

func TestLexerPeek(t *testing.T) {
	l := New(0, "UNIT FAMILY")

	peek1 := l.Peek()
	if peek1.Type != token.UNIT {
		t.Errorf("expected UNIT, got %v", peek1.Type)
	}
	peek2 := l.Peek()
	if peek2.Type != token.UNIT {
		t.Errorf("expected UNIT, got %v", peek2.Type)
	}
	next1 := l.Next()
	if next1.Type != token.UNIT {
		t.Errorf("expected UNIT, got %v", next1.Type)
	}
	next2 := l.Next()
	if next2.Type != token.FAMILY {
		t.Errorf("expected FAMILY, got %v", next2.Type)
	}
}

func TestLexerKeywordsCaseInsensitive(t *testing.T) {
	for _, spelling := range []string{"unit", "Unit", "UNIT", "uNiT"} {
		l := New(0, spelling)
		got := l.Next()
		if got.Type != token.UNIT {
			t.Errorf("%s: expected UNIT, got %v", spelling, got.Type)
		}
	}
}

func TestLexerGetPutPool(t *testing.T) {
	l := Get(0, "UNIT")
	got := l.Next()
	if got.Type != token.UNIT {
		t.Errorf("expected UNIT, got %v", got.Type)
	}
	Put(l)

	l2 := Get(0, "FAMILY")
	got2 := l2.Next()
	if got2.Type != token.FAMILY {
		t.Errorf("expected FAMILY, got %v", got2.Type)
	}
	Put(l2)
}

func BenchmarkLexer(b *testing.B) {
	input := `FAMILY "Grupo Prisa" {
  OUTLET id=1 {
    identity { title = "El Pais"; }
    lifecycle { status "active" from "1976-05-04" current; }
  }
}`
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		l := New(0, input)
		for {
			tok := l.Next()
			if tok.Type == token.EOF {
				break
			}
		}
	}
}
