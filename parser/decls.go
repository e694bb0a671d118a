package parser

import (
	"strconv"

	"github.com/pacedproton/medialang/ast"
	"github.com/pacedproton/medialang/diag"
	"github.com/pacedproton/medialang/token"
)

func (p *Parser) parseImport() ast.Stmt {
	start := p.cur.Pos
	p.advance() // IMPORT
	if !p.curIs(token.STRING) {
		p.errorf(diag.UnexpectedToken, "expected string path after IMPORT, found %s", p.cur.Type)
		p.synchronizeStatement()
		return nil
	}
	path := p.cur.Value
	p.advance()
	p.optionalTerminator()
	return &ast.Import{StartPos: start, EndPos: p.cur.Pos, Path: path}
}

func (p *Parser) parseLet() ast.Stmt {
	start := p.cur.Pos
	p.advance() // LET
	name, ok := p.identName()
	if !ok {
		p.synchronizeStatement()
		return nil
	}
	if !p.expect(token.ASSIGN) {
		p.synchronizeStatement()
		return nil
	}
	val := p.parseValue()
	p.optionalTerminator()
	return &ast.LetStmt{StartPos: start, EndPos: p.cur.Pos, Name: name, Value: val}
}

func (p *Parser) parseUnit() ast.Stmt {
	start := p.cur.Pos
	p.advance() // UNIT
	// A unit name may be any identifier or keyword, e.g. `UNIT Outlet`.
	if !p.curIs(token.IDENT) && !token.IsKeyword(p.cur.Type) {
		p.errorf(diag.UnexpectedToken, "expected unit name, found %s", p.cur.Type)
		p.synchronizeStatement()
		return nil
	}
	name := p.cur.Value
	p.advance()
	u := &ast.UnitDecl{StartPos: start, Name: name}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		f := p.parseUnitField()
		if f != nil {
			u.Fields = append(u.Fields, f)
		}
		p.requireFieldTerminator()
	}
	p.expect(token.RBRACE)
	u.EndPos = p.cur.Pos
	p.optionalTerminator()
	return u
}

func (p *Parser) parseUnitField() *ast.UnitField {
	start := p.cur.Pos
	name, ok := p.identName()
	if !ok {
		p.synchronizeStatement()
		return nil
	}
	if !p.expect(token.COLON) {
		return nil
	}
	f := &ast.UnitField{StartPos: start, Name: name}
	switch p.cur.Type {
	case token.ID:
		p.advance()
		f.Type = ast.TypeID
	case token.TEXT:
		p.advance()
		f.Type = ast.TypeText
		if p.curIs(token.LPAREN) {
			p.advance()
			if p.curIs(token.NUMBER) {
				n, _ := strconv.Atoi(p.cur.Value)
				f.TextLen = n
				p.advance()
			}
			p.expect(token.RPAREN)
		}
	case token.NUMBERTYPE:
		p.advance()
		f.Type = ast.TypeNumber
	case token.BOOLEAN:
		p.advance()
		f.Type = ast.TypeBoolean
	case token.CATEGORY:
		p.advance()
		f.Type = ast.TypeCategory
		p.expect(token.LPAREN)
		for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
			if p.curIs(token.STRING) || p.curIs(token.IDENT) {
				f.Categories = append(f.Categories, p.cur.Value)
				p.advance()
			} else {
				break
			}
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
	default:
		p.errorf(diag.FieldTypeUnknown, "unknown field type %s", p.cur.Type)
	}
	if p.curIs(token.PRIMARY) {
		p.advance()
		p.expect(token.KEY)
		f.PrimaryKey = true
	}
	f.EndPos = p.cur.Pos
	return f
}

func (p *Parser) parseVocabulary() ast.Stmt {
	start := p.cur.Pos
	p.advance() // VOCABULARY
	name, ok := p.identName()
	if !ok {
		p.synchronizeStatement()
		return nil
	}
	v := &ast.VocabularyDecl{StartPos: start, Name: name}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		g := p.parseVocabularyGroup()
		if g != nil {
			v.Groups = append(v.Groups, g)
		}
		p.optionalTerminator()
	}
	p.expect(token.RBRACE)
	v.EndPos = p.cur.Pos
	p.optionalTerminator()
	return v
}

func (p *Parser) parseVocabularyGroup() *ast.VocabularyGroup {
	start := p.cur.Pos
	if p.curIs(token.GROUP) {
		p.advance() // optional leading GROUP keyword
	}
	name, ok := p.identName()
	if !ok {
		p.synchronizeStatement()
		return nil
	}
	g := &ast.VocabularyGroup{StartPos: start, Name: name}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		e := p.parseVocabEntry()
		if e != nil {
			g.Entries = append(g.Entries, e)
		}
		if p.curIs(token.COMMA) || p.curIs(token.SEMICOLON) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	g.EndPos = p.cur.Pos
	return g
}

func (p *Parser) parseVocabEntry() *ast.VocabEntry {
	start := p.cur.Pos
	var key string
	switch {
	case p.curIs(token.NUMBER):
		key = p.cur.Value
		p.advance()
	case p.curIs(token.IDENT) || token.IsSoftKeyword(p.cur.Type):
		name, _ := p.identName()
		key = name
	default:
		p.errorf(diag.UnexpectedToken, "expected vocabulary key, found %s", p.cur.Type)
		p.advance()
		return nil
	}
	if !p.expect(token.COLON) {
		return nil
	}
	if !p.curIs(token.STRING) {
		p.errorf(diag.UnexpectedToken, "expected string value, found %s", p.cur.Type)
		return nil
	}
	val := p.cur.Value
	p.advance()
	return &ast.VocabEntry{StartPos: start, EndPos: p.cur.Pos, Key: key, Value: val}
}

func (p *Parser) parseCatalog() ast.Stmt {
	start := p.cur.Pos
	p.advance() // CATALOG
	name, ok := p.identName()
	if !ok {
		p.synchronizeStatement()
		return nil
	}
	c := &ast.CatalogDecl{StartPos: start, Name: name}
	p.expect(token.LBRACE)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		s := p.parseSourceEntry()
		if s != nil {
			c.Sources = append(c.Sources, s)
		}
		p.optionalTerminator()
	}
	p.expect(token.RBRACE)
	c.EndPos = p.cur.Pos
	p.optionalTerminator()
	return c
}

func (p *Parser) parseSourceEntry() *ast.SourceEntry {
	start := p.cur.Pos
	if !p.expect(token.SOURCE) {
		p.synchronizeStatement()
		return nil
	}
	key, ok := p.identName()
	if !ok {
		p.synchronizeStatement()
		return nil
	}
	s := &ast.SourceEntry{StartPos: start, Key: key}
	p.expect(token.LBRACE)
	obj := &ast.ObjectLit{StartPos: p.cur.Pos}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.ANNOT) {
			s.Annotations = append(s.Annotations, p.parseAnnotation())
			p.optionalTerminator()
			continue
		}
		f := p.parseField()
		if f != nil {
			obj.Fields = append(obj.Fields, f)
		}
		p.requireFieldTerminator()
	}
	p.expect(token.RBRACE)
	obj.EndPos = p.cur.Pos
	s.Body = obj
	s.EndPos = p.cur.Pos
	return s
}

func (p *Parser) parseTemplate() ast.Stmt {
	start := p.cur.Pos
	p.advance() // TEMPLATE
	if !p.curIs(token.STRING) && !p.curIs(token.IDENT) {
		p.errorf(diag.UnexpectedToken, "expected template name, found %s", p.cur.Type)
		p.synchronizeStatement()
		return nil
	}
	name := p.cur.Value
	p.advance()
	body := p.parseOutletBody()
	return &ast.TemplateDecl{StartPos: start, EndPos: p.cur.Pos, Name: name, Body: body}
}
