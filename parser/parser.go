// Package parser provides a recursive-descent parser for MDSL.
package parser

import (
	"fmt"
	"sync"

	"github.com/pacedproton/medialang/ast"
	"github.com/pacedproton/medialang/diag"
	"github.com/pacedproton/medialang/lexer"
	"github.com/pacedproton/medialang/token"
)

// Parser is a one-token-lookahead recursive-descent parser over a single
// file's token stream (spec.md §4.3).
type Parser struct {
	file token.FileID
	lex  *lexer.Lexer
	cur  token.Item
	errs []diag.Diagnostic
}

// New creates a parser over input belonging to file.
func New(f token.FileID, input string) *Parser {
	p := &Parser{file: f, lex: lexer.New(f, input)}
	p.advance()
	return p
}

var parserPool = sync.Pool{
	New: func() any { return &Parser{} },
}

// Get returns a pooled Parser over input belonging to file, with its lexer
// drawn from lexer's own pool. Call Put(p) once the returned Program and
// diagnostics have been copied out; Get/Put is the hot path driving the
// per-file loop in session.LoadAndParse, where a process parses many files
// back to back.
func Get(f token.FileID, input string) *Parser {
	p := parserPool.Get().(*Parser)
	p.file = f
	p.lex = lexer.Get(f, input)
	p.errs = p.errs[:0]
	p.cur = token.Item{}
	p.advance()
	return p
}

// Put returns p and its lexer to their pools.
func Put(p *Parser) {
	if p.lex != nil {
		lexer.Put(p.lex)
		p.lex = nil
	}
	parserPool.Put(p)
}

// Parse parses the whole file into a Program, recovering from errors at
// statement boundaries so a file with N parse errors still yields as much
// AST as possible (spec.md §4.3 "Error recovery").
func (p *Parser) Parse() (*ast.Program, []diag.Diagnostic) {
	prog := &ast.Program{File: p.file}
	for !p.curIs(token.EOF) {
		if p.skipStrayTerminator() {
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}
	p.errs = append(p.errs, p.lex.Errors()...)
	return prog, p.errs
}

func (p *Parser) skipStrayTerminator() bool {
	if p.curIs(token.SEMICOLON) || p.curIs(token.COMMA) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Type {
	case token.IMPORT:
		return p.parseImport()
	case token.LET:
		return p.parseLet()
	case token.UNIT:
		return p.parseUnit()
	case token.VOCABULARY:
		return p.parseVocabulary()
	case token.CATALOG:
		return p.parseCatalog()
	case token.TEMPLATE:
		return p.parseTemplate()
	case token.FAMILY:
		return p.parseFamily()
	case token.DATA:
		return p.parseDataBlock()
	case token.DIACHRONIC_LINK:
		return p.parseDiachronicLink()
	case token.SYNCHRONOUS_LINK:
		return p.parseSynchronousLink()
	case token.EVENT:
		return p.parseEvent()
	default:
		p.errorf(diag.UnexpectedToken, "unexpected token %s at top level", p.cur.Type)
		p.advance()
		// Resume at the next statement keyword or past one braced block.
		for !p.curIs(token.EOF) {
			switch p.cur.Type {
			case token.IMPORT, token.LET, token.UNIT, token.VOCABULARY, token.CATALOG, token.TEMPLATE,
				token.FAMILY, token.DATA, token.DIACHRONIC_LINK, token.SYNCHRONOUS_LINK, token.EVENT:
				return nil
			case token.LBRACE:
				p.synchronizeStatement()
				return nil
			}
			p.advance()
		}
		return nil
	}
}

func (p *Parser) advance() {
	p.cur = p.lex.Next()
	for p.cur.Type == token.COMMENT {
		p.cur = p.lex.Next()
	}
}

func (p *Parser) curIs(t token.Token) bool { return p.cur.Type == t }

func (p *Parser) span(start token.Pos) token.Span {
	return token.Span{File: start.File, Start: start.Offset, End: p.cur.Pos.Offset}
}

func (p *Parser) errorf(kind diag.Kind, format string, args ...any) {
	p.errs = append(p.errs, diag.Diagnostic{
		Severity: diag.Error,
		Kind:     kind,
		Span:     token.Span{File: p.cur.Pos.File, Start: p.cur.Pos.Offset, End: p.cur.Pos.Offset + len(p.cur.Value)},
		Message:  fmt.Sprintf(format, args...),
	})
}

// expect consumes tok if current, else records UnexpectedToken and returns
// false without advancing (so the caller can decide how to recover).
func (p *Parser) expect(tok token.Token) bool {
	if p.curIs(tok) {
		p.advance()
		return true
	}
	p.errorf(diag.UnexpectedToken, "expected %s, found %s", tok, p.cur.Type)
	return false
}

// optionalTerminator consumes an optional trailing `;` or `,` — used after
// block-level declarations, where spec.md §4.3 makes the terminator
// optional to tolerate style drift.
func (p *Parser) optionalTerminator() {
	if p.curIs(token.SEMICOLON) || p.curIs(token.COMMA) {
		p.advance()
	}
}

// requireFieldTerminator consumes a `;` or `,` field-value terminator, required
// inside blocks (spec.md §4.3), but tolerates a following `}`, `]` or end of
// input (trailing separator before the closing bracket is optional).
func (p *Parser) requireFieldTerminator() {
	if p.curIs(token.SEMICOLON) || p.curIs(token.COMMA) {
		p.advance()
		return
	}
	if p.curIs(token.RBRACE) || p.curIs(token.RBRACKET) || p.curIs(token.EOF) {
		return
	}
	p.errorf(diag.UnexpectedToken, "expected ';' or ',' after field value, found %s", p.cur.Type)
}

// identName accepts an IDENT or any "soft" context-sensitive keyword token
// as a field name (spec.md §4.2, §9), returning its text as written.
func (p *Parser) identName() (string, bool) {
	if p.curIs(token.IDENT) || token.IsSoftKeyword(p.cur.Type) {
		name := p.cur.Value
		if name == "" {
			name = p.cur.Type.String()
		}
		p.advance()
		return name, true
	}
	p.errorf(diag.UnexpectedToken, "expected identifier, found %s", p.cur.Type)
	return "", false
}

// synchronizeStatement skips tokens until a plausible statement boundary:
// a `;` at top level, or past the matching closing `}` of the current
// construct (spec.md §4.3 "Error recovery").
func (p *Parser) synchronizeStatement() {
	depth := 0
	for !p.curIs(token.EOF) {
		switch p.cur.Type {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			if depth == 0 {
				return
			}
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		case token.SEMICOLON:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}
