package parser

import (
	"github.com/pacedproton/medialang/ast"
	"github.com/pacedproton/medialang/diag"
	"github.com/pacedproton/medialang/token"
)

func (p *Parser) parseFamily() ast.Stmt {
	start := p.cur.Pos
	p.advance() // FAMILY
	if !p.curIs(token.STRING) && !p.curIs(token.IDENT) {
		p.errorf(diag.UnexpectedToken, "expected family name, found %s", p.cur.Type)
		p.synchronizeStatement()
		return nil
	}
	name := p.cur.Value
	p.advance()
	f := &ast.FamilyDecl{StartPos: start, Name: name}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.skipStrayTerminator() {
			continue
		}
		var member ast.Stmt
		switch p.cur.Type {
		case token.OUTLET:
			member = p.parseOutlet()
		case token.OUTLET_REF:
			member = p.parseOutletRef()
		case token.DATA:
			member = p.parseDataBlock()
		case token.DIACHRONIC_LINK:
			member = p.parseDiachronicLink()
		case token.SYNCHRONOUS_LINK:
			member = p.parseSynchronousLink()
		case token.EVENT:
			member = p.parseEvent()
		default:
			p.errorf(diag.UnexpectedToken, "unexpected token %s inside FAMILY body", p.cur.Type)
			p.synchronizeStatement()
			continue
		}
		if member != nil {
			f.Body = append(f.Body, member)
		}
	}
	p.expect(token.RBRACE)
	f.EndPos = p.cur.Pos
	p.optionalTerminator()
	return f
}

// parseOutlet parses `OUTLET ["name"] [EXTENDS TEMPLATE "t" | BASED_ON <num>
// | id = <num>]* { blocks }` (spec.md §4.3 "Inheritance").
func (p *Parser) parseOutlet() ast.Stmt {
	start := p.cur.Pos
	p.advance() // OUTLET
	o := &ast.Outlet{StartPos: start}
	if p.curIs(token.STRING) {
		o.NameHint = p.cur.Value
		p.advance()
	}
headerLoop:
	for {
		switch p.cur.Type {
		case token.EXTENDS:
			p.advance()
			p.expect(token.TEMPLATE)
			if p.curIs(token.STRING) || p.curIs(token.IDENT) {
				o.Extends = p.cur.Value
				p.advance()
			}
		case token.BASED_ON:
			p.advance()
			if p.curIs(token.NUMBER) {
				o.BasedOn = p.parseNumber()
			} else {
				p.errorf(diag.UnexpectedToken, "expected numeric id after BASED_ON, found %s", p.cur.Type)
			}
		case token.ID:
			p.advance()
			p.expect(token.ASSIGN)
			if p.curIs(token.NUMBER) {
				o.ID = p.parseNumber()
			}
		default:
			break headerLoop
		}
	}
	o.Body = p.parseOutletBody()
	o.EndPos = p.cur.Pos
	return o
}

// parseOutletBody parses the tagged-variant block sequence shared by
// outlets, templates, and override layers (spec.md §4.3 "outlet body"
// state machine, §9 "Polymorphic block bodies").
func (p *Parser) parseOutletBody() *ast.OutletBody {
	start := p.cur.Pos
	body := &ast.OutletBody{StartPos: start}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.skipStrayTerminator() {
			continue
		}
		switch p.cur.Type {
		case token.IDENTITY:
			body.Identity = p.parseIdentityBlock()
		case token.LIFECYCLE:
			body.Lifecycle = p.parseLifecycleBlock()
		case token.CHARACTERISTICS:
			p.advance()
			body.Characteristics = p.parseObjectLit()
			p.optionalTerminator()
		case token.METADATA:
			p.advance()
			body.Metadata = p.parseObjectLit()
			p.optionalTerminator()
		case token.ANNOT:
			body.Annotations = append(body.Annotations, p.parseAnnotation())
			p.optionalTerminator()
		default:
			p.errorf(diag.UnexpectedToken, "unexpected token %s in outlet body", p.cur.Type)
			p.synchronizeStatement()
		}
	}
	p.expect(token.RBRACE)
	body.EndPos = p.cur.Pos
	return body
}

func (p *Parser) parseIdentityBlock() *ast.IdentityBlock {
	start := p.cur.Pos
	p.advance() // IDENTITY
	b := &ast.IdentityBlock{StartPos: start}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		name, ok := p.identName()
		if !ok {
			p.synchronizeStatement()
			continue
		}
		p.expect(token.ASSIGN)
		switch name {
		case "id":
			if p.curIs(token.NUMBER) {
				b.ID = p.parseNumber()
			}
		case "title":
			if p.curIs(token.STRING) {
				b.Title = &ast.StringLit{StartPos: p.cur.Pos, Value: p.cur.Value, EndPos: p.cur.Pos}
				p.advance()
			}
		case "url":
			if p.curIs(token.STRING) {
				b.URL = &ast.StringLit{StartPos: p.cur.Pos, Value: p.cur.Value, EndPos: p.cur.Pos}
				p.advance()
			}
		case "historical_titles":
			arr := p.parseArrayLit()
			for _, e := range arr.Elems {
				obj, ok := e.(*ast.ObjectLit)
				if !ok {
					continue
				}
				ht := &ast.HistoricalTitle{StartPos: obj.Pos(), EndPos: obj.End()}
				ht.Title = valueAsString(obj.Get("title"))
				if pr, ok := obj.Get("period").(*ast.DateRangeLit); ok {
					ht.Period = pr
				}
				b.HistoricalTitles = append(b.HistoricalTitles, ht)
			}
		default:
			p.parseValue() // consume and discard unrecognized identity field
		}
		p.requireFieldTerminator()
	}
	p.expect(token.RBRACE)
	b.EndPos = p.cur.Pos
	return b
}

func (p *Parser) parseLifecycleBlock() *ast.LifecycleBlock {
	start := p.cur.Pos
	p.advance() // LIFECYCLE
	b := &ast.LifecycleBlock{StartPos: start}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.skipStrayTerminator() {
			continue
		}
		iv := p.parseStatusInterval()
		if iv != nil {
			b.Intervals = append(b.Intervals, iv)
		}
	}
	p.expect(token.RBRACE)
	b.EndPos = p.cur.Pos
	return b
}

// parseStatusInterval parses `STATUS "label" FROM <date> [TO <date>|CURRENT]
// { attrs }` (spec.md §4.3).
func (p *Parser) parseStatusInterval() *ast.StatusInterval {
	start := p.cur.Pos
	if !p.expect(token.STATUS) {
		p.synchronizeStatement()
		return nil
	}
	iv := &ast.StatusInterval{StartPos: start}
	if p.curIs(token.STRING) {
		iv.Label = p.cur.Value
		p.advance()
	}
	p.expect(token.FROM)
	iv.From = p.parseDateEndpoint()
	if p.curIs(token.TO) {
		p.advance()
		iv.To = p.parseDateEndpoint()
		iv.Current = iv.To.Current
	} else if p.curIs(token.CURRENT) {
		p.advance()
		iv.Current = true
	}
	if p.curIs(token.LBRACE) {
		p.parseStatusIntervalAttrs(iv)
	}
	iv.EndPos = p.cur.Pos
	p.optionalTerminator()
	return iv
}

func (p *Parser) parseStatusIntervalAttrs(iv *ast.StatusInterval) {
	p.advance() // LBRACE
	extra := &ast.ObjectLit{StartPos: p.cur.Pos}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.ANNOT) {
			iv.Annotations = append(iv.Annotations, p.parseAnnotation())
			p.optionalTerminator()
			continue
		}
		name, ok := p.identName()
		if !ok {
			p.synchronizeStatement()
			continue
		}
		p.expect(token.ASSIGN)
		val := p.parseValue()
		switch name {
		case "precision_start":
			iv.PrecisionStart = valueAsString(val)
		case "precision_end":
			iv.PrecisionEnd = valueAsString(val)
		default:
			extra.Fields = append(extra.Fields, &ast.Field{Key: name, Value: val})
		}
		p.requireFieldTerminator()
	}
	p.expect(token.RBRACE)
	extra.EndPos = p.cur.Pos
	if len(extra.Fields) > 0 {
		iv.Extra = extra
	}
}

// parseOutletRef parses `OUTLET_REF <id> ["title-hint"] { INHERITS_FROM
// <id> UNTIL <date>; OVERRIDE FROM <date> { FOR_PERIOD <from> TO <to>
// { blocks } ... } }` (spec.md §4.3 "Override").
func (p *Parser) parseOutletRef() ast.Stmt {
	start := p.cur.Pos
	p.advance() // OUTLET_REF
	r := &ast.OutletRef{StartPos: start}
	if p.curIs(token.NUMBER) {
		r.TargetID = p.parseNumber()
	} else {
		p.errorf(diag.UnexpectedToken, "expected numeric outlet id after OUTLET_REF, found %s", p.cur.Type)
	}
	if p.curIs(token.STRING) {
		r.TitleHint = p.cur.Value
		p.advance()
	}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.skipStrayTerminator() {
			continue
		}
		switch p.cur.Type {
		case token.INHERITS_FROM:
			p.advance()
			if p.curIs(token.NUMBER) {
				r.InheritsFrom = p.parseNumber()
			}
			p.expect(token.UNTIL)
			r.InheritsUntil = p.parseDateEndpoint()
			p.optionalTerminator()
		case token.OVERRIDE:
			r.Overrides = append(r.Overrides, p.parseOverrideBlock())
		default:
			p.errorf(diag.UnexpectedToken, "unexpected token %s inside OUTLET_REF", p.cur.Type)
			p.synchronizeStatement()
		}
	}
	p.expect(token.RBRACE)
	r.EndPos = p.cur.Pos
	p.optionalTerminator()
	return r
}

func (p *Parser) parseOverrideBlock() *ast.OverrideBlock {
	start := p.cur.Pos
	p.advance() // OVERRIDE
	p.expect(token.FROM)
	ob := &ast.OverrideBlock{StartPos: start, From: p.parseDateEndpoint()}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.skipStrayTerminator() {
			continue
		}
		if !p.expect(token.FOR_PERIOD) {
			p.synchronizeStatement()
			continue
		}
		fp := &ast.ForPeriod{StartPos: p.cur.Pos}
		fp.From = p.parseDateEndpoint()
		p.expect(token.TO)
		fp.To = p.parseDateEndpoint()
		fp.Body = p.parseOutletBody()
		fp.EndPos = p.cur.Pos
		ob.Periods = append(ob.Periods, fp)
		p.optionalTerminator()
	}
	p.expect(token.RBRACE)
	ob.EndPos = p.cur.Pos
	p.optionalTerminator()
	return ob
}
