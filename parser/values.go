package parser

import (
	"github.com/pacedproton/medialang/ast"
	"github.com/pacedproton/medialang/diag"
	"github.com/pacedproton/medialang/token"
)

// parseValue parses any value-position expression (spec.md §4.3
// "Expressions"): string | number | boolean | variable-reference |
// object-literal | array-literal | date-expression | bare identifier.
func (p *Parser) parseValue() ast.Value {
	switch p.cur.Type {
	case token.STRING:
		return p.parseDateOrString()
	case token.NUMBER:
		return p.parseNumber()
	case token.TRUE, token.FALSE:
		return p.parseBool()
	case token.VARREF:
		return p.parseVarRef()
	case token.CURRENT:
		return p.parseDateCurrentOrRange(nil)
	case token.LBRACE:
		return p.parseObjectLit()
	case token.LBRACKET:
		return p.parseArrayLit()
	default:
		if p.curIs(token.IDENT) || token.IsSoftKeyword(p.cur.Type) {
			return p.parseIdentLit()
		}
		p.errorf(diag.UnexpectedToken, "unexpected token %s in value position", p.cur.Type)
		p.advance()
		return nil
	}
}

// parseDateOrString parses a STRING literal, then checks whether it is
// immediately followed by TO <date>, turning it into a date range
// (spec.md §4.3 "Date expressions"). A bare string otherwise remains a
// StringLit; the semantic pass, not the parser, decides whether a given
// position expects a date.
func (p *Parser) parseDateOrString() ast.Value {
	start := p.cur.Pos
	text := p.cur.Value
	p.advance()
	lit := &ast.StringLit{StartPos: start, EndPos: p.cur.Pos, Value: text}
	if p.curIs(token.TO) {
		from := &ast.DateLit{StartPos: start, EndPos: start, Text: text}
		return p.parseDateCurrentOrRange(from)
	}
	return lit
}

// parseDateCurrentOrRange parses CURRENT (when from == nil, or when an
// explicit CURRENT follows TO) and turns a pending `from` date literal plus
// a trailing `TO <date>` into a DateRangeLit.
func (p *Parser) parseDateCurrentOrRange(from *ast.DateLit) ast.Value {
	if from == nil {
		start := p.cur.Pos
		p.advance() // consume CURRENT
		from = &ast.DateLit{StartPos: start, EndPos: p.cur.Pos, Current: true}
		if !p.curIs(token.TO) {
			return from
		}
	}
	p.advance() // consume TO
	to := p.parseDateEndpoint()
	return &ast.DateRangeLit{StartPos: from.StartPos, EndPos: p.cur.Pos, From: from, To: to}
}

func (p *Parser) parseDateEndpoint() *ast.DateLit {
	start := p.cur.Pos
	switch p.cur.Type {
	case token.CURRENT:
		p.advance()
		return &ast.DateLit{StartPos: start, EndPos: p.cur.Pos, Current: true}
	case token.STRING:
		text := p.cur.Value
		p.advance()
		return &ast.DateLit{StartPos: start, EndPos: p.cur.Pos, Text: text}
	default:
		p.errorf(diag.BadDateLiteral, "expected date literal or CURRENT, found %s", p.cur.Type)
		return &ast.DateLit{StartPos: start, EndPos: start}
	}
}

// parseDateField parses a value known (from its field name) to be a date
// or date range. Nothing in this package calls it.
func (p *Parser) parseDateField() ast.Value {
	switch p.cur.Type {
	case token.STRING, token.CURRENT:
		return p.parseValue()
	default:
		p.errorf(diag.BadDateLiteral, "expected date literal, found %s", p.cur.Type)
		p.advance()
		return nil
	}
}

func (p *Parser) parseNumber() *ast.NumberLit {
	start := p.cur.Pos
	text := p.cur.Value
	p.advance()
	return &ast.NumberLit{StartPos: start, EndPos: p.cur.Pos, Text: text}
}

func (p *Parser) parseBool() *ast.BoolLit {
	start := p.cur.Pos
	val := p.curIs(token.TRUE)
	p.advance()
	return &ast.BoolLit{StartPos: start, EndPos: p.cur.Pos, Value: val}
}

func (p *Parser) parseVarRef() *ast.VarRef {
	start := p.cur.Pos
	name := p.cur.Value
	p.advance()
	return &ast.VarRef{StartPos: start, EndPos: p.cur.Pos, Name: name}
}

func (p *Parser) parseIdentLit() *ast.IdentLit {
	start := p.cur.Pos
	name := p.cur.Value
	if name == "" {
		name = p.cur.Type.String()
	}
	p.advance()
	return &ast.IdentLit{StartPos: start, EndPos: p.cur.Pos, Name: name}
}

// parseObjectLit parses `{ key = value ; key = value , ... }`, tolerating
// a trailing `,`/`;` before `}` (spec.md §4.3 "Object literals").
func (p *Parser) parseObjectLit() *ast.ObjectLit {
	start := p.cur.Pos
	p.expect(token.LBRACE)
	obj := &ast.ObjectLit{StartPos: start}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		f := p.parseField()
		if f != nil {
			obj.Fields = append(obj.Fields, f)
		}
		p.requireFieldTerminator()
	}
	p.expect(token.RBRACE)
	obj.EndPos = p.cur.Pos
	return obj
}

func (p *Parser) parseField() *ast.Field {
	start := p.cur.Pos
	name, ok := p.identName()
	if !ok {
		p.synchronizeStatement()
		return nil
	}
	if !p.expect(token.ASSIGN) {
		return nil
	}
	val := p.parseValue()
	return &ast.Field{StartPos: start, EndPos: p.cur.Pos, Key: name, Value: val}
}

// parseArrayLit parses `[ value, value, ... ]`, tolerating a trailing `,`.
func (p *Parser) parseArrayLit() *ast.ArrayLit {
	start := p.cur.Pos
	p.expect(token.LBRACKET)
	arr := &ast.ArrayLit{StartPos: start}
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		v := p.parseValue()
		if v != nil {
			arr.Elems = append(arr.Elems, v)
		}
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACKET)
	arr.EndPos = p.cur.Pos
	return arr
}

// parseAnnotation parses `@name`, `@name "literal"`, or `@name = value`.
func (p *Parser) parseAnnotation() *ast.Annotation {
	start := p.cur.Pos
	name := p.cur.Value
	p.advance() // consume ANNOT
	ann := &ast.Annotation{StartPos: start, Name: name}
	if p.curIs(token.ASSIGN) {
		p.advance()
		ann.Value = p.parseValue()
	} else if p.curIs(token.STRING) {
		ann.Value = p.parseValue()
	}
	ann.EndPos = p.cur.Pos
	return ann
}

func valueAsString(v ast.Value) string {
	switch t := v.(type) {
	case *ast.StringLit:
		return t.Value
	case *ast.IdentLit:
		return t.Name
	case *ast.NumberLit:
		return t.Text
	}
	return ""
}
