// Package lexer provides a lexical scanner for MDSL.
package lexer

import (
	"fmt"
	"sync"

	"github.com/pacedproton/medialang/diag"
	"github.com/pacedproton/medialang/token"
)

// Lexer tokenizes MDSL input belonging to a single source file.
type Lexer struct {
	file    token.FileID
	input   string
	start   int // start position of current token
	pos     int // current position in input
	line    int // current line number (1-indexed)
	linePos int // byte offset of current line start
	item    token.Item
	peeked  bool
	errs    []diag.Diagnostic
}

var lexerPool = sync.Pool{
	New: func() any { return &Lexer{} },
}

// New creates a new Lexer scanning input, stamping every position with
// file (spec.md §4.1: every token carries (file, line, column, offset)).
func New(file token.FileID, input string) *Lexer {
	return &Lexer{file: file, input: input, line: 1}
}

// Get returns a pooled Lexer reset to scan input.
func Get(file token.FileID, input string) *Lexer {
	l := lexerPool.Get().(*Lexer)
	l.Reset(file, input)
	return l
}

// Put returns l to the pool.
func Put(l *Lexer) { lexerPool.Put(l) }

// Reset reinitializes l to scan new input.
func (l *Lexer) Reset(file token.FileID, input string) {
	l.file = file
	l.input = input
	l.start, l.pos, l.linePos = 0, 0, 0
	l.line = 1
	l.item = token.Item{}
	l.peeked = false
	l.errs = l.errs[:0]
}

// Next returns and consumes the next token.
func (l *Lexer) Next() token.Item {
	if l.peeked {
		l.peeked = false
		return l.item
	}
	l.item = l.scan()
	return l.item
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() token.Item {
	if !l.peeked {
		l.item = l.scan()
		l.peeked = true
	}
	return l.item
}

// Errors returns every lex-level diagnostic accumulated so far.
func (l *Lexer) Errors() []diag.Diagnostic { return l.errs }

func (l *Lexer) scan() token.Item {
	l.skipTrivia()
	l.start = l.pos

	if l.pos >= len(l.input) {
		return l.makeItem(token.EOF, "")
	}

	ch := l.input[l.pos]

	switch ch {
	case '{':
		l.pos++
		return l.makeItem(token.LBRACE, "{")
	case '}':
		l.pos++
		return l.makeItem(token.RBRACE, "}")
	case '(':
		l.pos++
		return l.makeItem(token.LPAREN, "(")
	case ')':
		l.pos++
		return l.makeItem(token.RPAREN, ")")
	case '[':
		l.pos++
		return l.makeItem(token.LBRACKET, "[")
	case ']':
		l.pos++
		return l.makeItem(token.RBRACKET, "]")
	case ',':
		l.pos++
		return l.makeItem(token.COMMA, ",")
	case ';':
		l.pos++
		return l.makeItem(token.SEMICOLON, ";")
	case ':':
		l.pos++
		return l.makeItem(token.COLON, ":")
	case '=':
		l.pos++
		return l.makeItem(token.ASSIGN, "=")
	case '.':
		l.pos++
		return l.makeItem(token.DOT, ".")
	case '"':
		return l.scanString()
	case '$':
		return l.scanVarRef()
	case '@':
		return l.scanAnnotation()
	}

	if isIdentStart(ch) {
		return l.scanIdentifier()
	}
	if isDigit(ch) || ((ch == '+' || ch == '-') && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1])) {
		return l.scanNumber()
	}

	l.pos++
	l.errorf(diag.UnexpectedChar, "unexpected character %q", ch)
	return l.makeItem(token.ILLEGAL, string(ch))
}

func (l *Lexer) makeItem(typ token.Token, val string) token.Item {
	return token.Item{
		Type:  typ,
		Value: val,
		Pos: token.Pos{
			File:   l.file,
			Offset: l.start,
			Line:   l.line,
			Column: l.start - l.linePos + 1,
		},
	}
}

func (l *Lexer) errorf(kind diag.Kind, format string, args ...any) {
	l.errs = append(l.errs, diag.Diagnostic{
		Severity: diag.Error,
		Kind:     kind,
		Span:     token.Span{File: l.file, Start: l.start, End: l.pos},
		Message:  fmt.Sprintf(format, args...),
	})
}

func (l *Lexer) skipTrivia() {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.pos++
		case ch == '\n':
			l.pos++
			l.line++
			l.linePos = l.pos
		case ch == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '/':
			l.skipLineComment()
		case ch == '#':
			l.skipLineComment()
		case ch == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '*':
			l.skipBlockComment()
		default:
			return
		}
	}
}

func (l *Lexer) skipLineComment() {
	for l.pos < len(l.input) && l.input[l.pos] != '\n' {
		l.pos++
	}
}

func (l *Lexer) skipBlockComment() {
	start := l.pos
	l.pos += 2
	for l.pos < len(l.input) {
		if l.input[l.pos] == '*' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '/' {
			l.pos += 2
			return
		}
		if l.input[l.pos] == '\n' {
			l.line++
			l.linePos = l.pos + 1
		}
		l.pos++
	}
	l.start = start
	l.errorf(diag.UnterminatedComment, "unterminated block comment")
}

func (l *Lexer) scanIdentifier() token.Item {
	for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
		l.pos++
	}
	val := l.input[l.start:l.pos]
	if tok, ok := token.Lookup(val); ok {
		return l.makeItem(tok, val)
	}
	return l.makeItem(token.IDENT, val)
}

func (l *Lexer) scanNumber() token.Item {
	if l.input[l.pos] == '+' || l.input[l.pos] == '-' {
		l.pos++
	}
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.input) && l.input[l.pos] == '.' && l.pos+1 < len(l.input) && isDigit(l.input[l.pos+1]) {
		l.pos++
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.pos++
		}
	}
	val := l.input[l.start:l.pos]
	if val == "+" || val == "-" {
		l.errorf(diag.InvalidNumber, "invalid number literal %q", val)
		return l.makeItem(token.ILLEGAL, val)
	}
	return l.makeItem(token.NUMBER, val)
}

// scanString lexes a double-quoted string, supporting \" \\ \n escapes.
// Multi-line strings are not permitted (spec.md §4.2).
func (l *Lexer) scanString() token.Item {
	l.pos++ // opening quote
	var buf []byte
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		if ch == '"' {
			l.pos++
			return l.makeItem(token.STRING, string(buf))
		}
		if ch == '\n' {
			l.errorf(diag.UnterminatedString, "unterminated string literal (newline before closing quote)")
			return l.makeItem(token.ILLEGAL, l.input[l.start:l.pos])
		}
		if ch == '\\' && l.pos+1 < len(l.input) {
			switch l.input[l.pos+1] {
			case '"':
				buf = append(buf, '"')
			case '\\':
				buf = append(buf, '\\')
			case 'n':
				buf = append(buf, '\n')
			default:
				buf = append(buf, '\\', l.input[l.pos+1])
			}
			l.pos += 2
			continue
		}
		buf = append(buf, ch)
		l.pos++
	}
	l.errorf(diag.UnterminatedString, "unterminated string literal")
	return l.makeItem(token.ILLEGAL, l.input[l.start:l.pos])
}

func (l *Lexer) scanVarRef() token.Item {
	l.pos++ // $
	nameStart := l.pos
	for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
		l.pos++
	}
	if l.pos == nameStart {
		l.errorf(diag.UnexpectedChar, "expected identifier after '$'")
		return l.makeItem(token.ILLEGAL, "$")
	}
	return l.makeItem(token.VARREF, l.input[nameStart:l.pos])
}

// scanAnnotation lexes `@name` optionally followed by `=value` or a string
// literal; the annotation token's Value holds just the name, and the
// parser consumes the optional payload itself.
func (l *Lexer) scanAnnotation() token.Item {
	l.pos++ // @
	nameStart := l.pos
	for l.pos < len(l.input) && isIdentChar(l.input[l.pos]) {
		l.pos++
	}
	if l.pos == nameStart {
		l.errorf(diag.UnexpectedChar, "expected identifier after '@'")
		return l.makeItem(token.ILLEGAL, "@")
	}
	return l.makeItem(token.ANNOT, l.input[nameStart:l.pos])
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }
