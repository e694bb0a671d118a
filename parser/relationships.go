package parser

import (
	"strconv"

	"github.com/pacedproton/medialang/ast"
	"github.com/pacedproton/medialang/diag"
	"github.com/pacedproton/medialang/token"
)

// parseLinkName accepts either a STRING or a bare IDENT as a relationship
// name, preserving which spelling was used (spec.md §9 open question).
func (p *Parser) parseLinkName() (string, bool) {
	switch p.cur.Type {
	case token.STRING:
		name := p.cur.Value
		p.advance()
		return name, false
	case token.IDENT:
		name := p.cur.Value
		p.advance()
		return name, true
	default:
		p.errorf(diag.UnexpectedToken, "expected relationship name, found %s", p.cur.Type)
		return "", false
	}
}

func (p *Parser) parseDiachronicLink() ast.Stmt {
	start := p.cur.Pos
	p.advance() // DIACHRONIC_LINK
	name, isIdent := p.parseLinkName()
	d := &ast.DiachronicLink{StartPos: start, Name: name, NameIsIdent: isIdent}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.skipStrayTerminator() {
			continue
		}
		if p.curIs(token.ANNOT) {
			d.Annotations = append(d.Annotations, p.parseAnnotation())
			p.optionalTerminator()
			continue
		}
		key, ok := p.identName()
		if !ok {
			p.synchronizeStatement()
			continue
		}
		p.expect(token.ASSIGN)
		switch key {
		case "predecessor":
			if p.curIs(token.NUMBER) {
				d.Predecessor = p.parseNumber()
			}
		case "successor":
			if p.curIs(token.NUMBER) {
				d.Successor = p.parseNumber()
			}
		case "event_date":
			d.EventDate = p.parseValue()
		case "relationship_type":
			d.RelationshipType = p.parseValue()
		case "triggered_by_event":
			d.TriggeredByEvent = valueAsString(p.parseValue())
		default:
			p.parseValue()
		}
		p.requireFieldTerminator()
	}
	p.expect(token.RBRACE)
	d.EndPos = p.cur.Pos
	p.optionalTerminator()
	return d
}

func (p *Parser) parseSynchronousLink() ast.Stmt {
	start := p.cur.Pos
	p.advance() // SYNCHRONOUS_LINK
	name, isIdent := p.parseLinkName()
	s := &ast.SynchronousLink{StartPos: start, Name: name, NameIsIdent: isIdent}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.skipStrayTerminator() {
			continue
		}
		if p.curIs(token.ANNOT) {
			s.Annotations = append(s.Annotations, p.parseAnnotation())
			p.optionalTerminator()
			continue
		}
		key, ok := p.identName()
		if !ok {
			p.synchronizeStatement()
			continue
		}
		p.expect(token.ASSIGN)
		switch key {
		case "outlet_1":
			s.Outlet1 = p.parseLinkEndpoint()
		case "outlet_2":
			s.Outlet2 = p.parseLinkEndpoint()
		case "relationship_type":
			s.RelationshipType = p.parseValue()
		case "period":
			if r, ok := p.parseValue().(*ast.DateRangeLit); ok {
				s.Period = r
			}
		case "details":
			s.Details = p.parseValue()
		case "created_by_event":
			s.CreatedByEvent = valueAsString(p.parseValue())
		default:
			p.parseValue()
		}
		p.requireFieldTerminator()
	}
	p.expect(token.RBRACE)
	s.EndPos = p.cur.Pos
	p.optionalTerminator()
	return s
}

func (p *Parser) parseLinkEndpoint() *ast.LinkEndpoint {
	start := p.cur.Pos
	ep := &ast.LinkEndpoint{StartPos: start}
	obj := p.parseObjectLit()
	if id, ok := obj.Get("id").(*ast.NumberLit); ok {
		ep.ID = id
	}
	ep.Role = valueAsString(obj.Get("role"))
	ep.EndPos = obj.End()
	return ep
}

func (p *Parser) parseEvent() ast.Stmt {
	start := p.cur.Pos
	p.advance() // EVENT
	name, _ := p.parseLinkName()
	e := &ast.Event{StartPos: start, Name: name}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.skipStrayTerminator() {
			continue
		}
		if p.curIs(token.ANNOT) {
			e.Annotations = append(e.Annotations, p.parseAnnotation())
			p.optionalTerminator()
			continue
		}
		key, ok := p.identName()
		if !ok {
			p.synchronizeStatement()
			continue
		}
		p.expect(token.ASSIGN)
		switch key {
		case "type":
			e.Type = p.parseValue()
		case "date":
			e.Date = p.parseValue()
		case "status":
			e.Status = valueAsString(p.parseValue())
		case "entities":
			e.Entities = p.parseEventEntities()
		case "impact":
			e.Impact = p.parseObjectLit()
		case "metadata":
			e.Metadata = p.parseObjectLit()
		default:
			p.parseValue()
		}
		p.requireFieldTerminator()
	}
	p.expect(token.RBRACE)
	e.EndPos = p.cur.Pos
	p.optionalTerminator()
	return e
}

func (p *Parser) parseEventEntities() []*ast.EventEntity {
	p.expect(token.LBRACE)
	var entities []*ast.EventEntity
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.skipStrayTerminator() {
			continue
		}
		start := p.cur.Pos
		key, ok := p.identName()
		if !ok {
			p.synchronizeStatement()
			continue
		}
		p.expect(token.ASSIGN)
		obj := p.parseObjectLit()
		ent := &ast.EventEntity{StartPos: start, EndPos: obj.End(), Key: key}
		if id, ok := obj.Get("id").(*ast.NumberLit); ok {
			ent.ID = id
		}
		ent.Role = valueAsString(obj.Get("role"))
		if sb, ok := obj.Get("stake_before").(*ast.NumberLit); ok {
			ent.StakeBefore = sb
		}
		if sa, ok := obj.Get("stake_after").(*ast.NumberLit); ok {
			ent.StakeAfter = sa
		}
		entities = append(entities, ent)
		p.requireFieldTerminator()
	}
	p.expect(token.RBRACE)
	return entities
}

// parseDataBlock parses `DATA FOR <outlet_id> { aggregation = {...};
// YEAR <n> { metrics { ... } } ... }` (spec.md §4.5 "Data block normalization").
func (p *Parser) parseDataBlock() ast.Stmt {
	start := p.cur.Pos
	p.advance() // DATA
	p.expect(token.FOR)
	d := &ast.DataBlock{StartPos: start}
	if p.curIs(token.NUMBER) {
		d.OutletID = p.parseNumber()
	} else {
		p.errorf(diag.UnexpectedToken, "expected numeric outlet id after DATA FOR, found %s", p.cur.Type)
	}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.skipStrayTerminator() {
			continue
		}
		switch {
		case p.curIs(token.AGGREGATION):
			p.advance()
			p.expect(token.ASSIGN)
			d.Aggregation = p.parseObjectLit()
			p.optionalTerminator()
		case p.curIs(token.YEAR):
			d.Years = append(d.Years, p.parseYearBlock())
		default:
			p.errorf(diag.UnexpectedToken, "unexpected token %s inside DATA block", p.cur.Type)
			p.synchronizeStatement()
		}
	}
	p.expect(token.RBRACE)
	d.EndPos = p.cur.Pos
	p.optionalTerminator()
	return d
}

func (p *Parser) parseYearBlock() *ast.YearBlock {
	start := p.cur.Pos
	p.advance() // YEAR
	y := &ast.YearBlock{StartPos: start}
	if p.curIs(token.NUMBER) {
		y.Year, _ = strconv.Atoi(p.cur.Value)
		p.advance()
	} else {
		p.errorf(diag.UnexpectedToken, "expected year number, found %s", p.cur.Type)
	}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.skipStrayTerminator() {
			continue
		}
		if !p.expect(token.METRICS) {
			p.synchronizeStatement()
			continue
		}
		y.Metrics = append(y.Metrics, p.parseMetrics()...)
	}
	p.expect(token.RBRACE)
	y.EndPos = p.cur.Pos
	p.optionalTerminator()
	return y
}

func (p *Parser) parseMetrics() []*ast.MetricEntry {
	p.expect(token.LBRACE)
	var metrics []*ast.MetricEntry
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.skipStrayTerminator() {
			continue
		}
		start := p.cur.Pos
		name, ok := p.identName()
		if !ok {
			p.synchronizeStatement()
			continue
		}
		p.expect(token.ASSIGN)
		obj := p.parseObjectLit()
		m := &ast.MetricEntry{StartPos: start, EndPos: obj.End(), Name: name}
		if v, ok := obj.Get("value").(*ast.NumberLit); ok {
			m.Value = v
		}
		m.Unit = valueAsString(obj.Get("unit"))
		m.Source = valueAsString(obj.Get("source"))
		m.Comment = valueAsString(obj.Get("comment"))
		metrics = append(metrics, m)
		p.requireFieldTerminator()
	}
	p.expect(token.RBRACE)
	return metrics
}
