package sema

import (
	"strconv"

	"github.com/pacedproton/medialang/ast"
	"github.com/pacedproton/medialang/diag"
	"github.com/pacedproton/medialang/token"
)

func (a *Analyzer) bindFile(prog *ast.Program) {
	relNames := map[*ast.FamilyDecl]map[string]bool{}
	for _, stmt := range prog.Statements {
		a.bindStmt(prog.File, stmt, nil, relNames)
	}
}

func (a *Analyzer) bindStmt(file token.FileID, stmt ast.Stmt, fam *ast.FamilyDecl, relNames map[*ast.FamilyDecl]map[string]bool) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		if _, exists := a.Sym.Vars[s.Name]; exists {
			a.Sink.Errorf(diag.ShadowedVariable, spanOf(s), "variable %q is already declared", s.Name)
		}
		a.Sym.Vars[s.Name] = s.Value
	case *ast.UnitDecl:
		if _, exists := a.Sym.Units[s.Name]; exists {
			a.Sink.Errorf(diag.DuplicateName, spanOf(s), "duplicate unit %q", s.Name)
		}
		a.Sym.Units[s.Name] = s
	case *ast.VocabularyDecl:
		if _, exists := a.Sym.Vocabularies[s.Name]; exists {
			a.Sink.Errorf(diag.DuplicateName, spanOf(s), "duplicate vocabulary %q", s.Name)
		}
		a.Sym.Vocabularies[s.Name] = s
	case *ast.TemplateDecl:
		if _, exists := a.Sym.Templates[s.Name]; exists {
			a.Sink.Errorf(diag.DuplicateName, spanOf(s), "duplicate template %q", s.Name)
		}
		a.Sym.Templates[s.Name] = s
	case *ast.CatalogDecl:
		if _, exists := a.Sym.Catalogs[s.Name]; exists {
			a.Sink.Errorf(diag.DuplicateName, spanOf(s), "duplicate catalog %q", s.Name)
		}
		a.Sym.Catalogs[s.Name] = s
		for _, src := range s.Sources {
			if _, exists := a.Sym.Sources[src.Key]; exists {
				a.Sink.Errorf(diag.DuplicateName, spanOf(src), "duplicate source %q", src.Key)
			}
			a.Sym.Sources[src.Key] = src
		}
	case *ast.FamilyDecl:
		a.Sym.FamilyOrder = append(a.Sym.FamilyOrder, s)
		relNames[s] = map[string]bool{}
		for _, member := range s.Body {
			a.bindStmt(file, member, s, relNames)
		}
	case *ast.Outlet:
		a.bindOutlet(s, fam)
	case *ast.Event:
		if _, exists := a.Sym.Events[s.Name]; exists {
			a.Sink.Errorf(diag.DuplicateName, spanOf(s), "duplicate event %q", s.Name)
		}
		a.Sym.Events[s.Name] = s
	case *ast.DiachronicLink:
		a.bindRelName(s.Name, spanOf(s), fam, relNames)
	case *ast.SynchronousLink:
		a.bindRelName(s.Name, spanOf(s), fam, relNames)
	case *ast.DataBlock, *ast.OutletRef:
		// carry no own namespace entry; referenced ids are checked in Pass B.
	}
}

// bindRelName enforces "unique name within the enclosing family"
// (spec.md §4.4 Pass A).
func (a *Analyzer) bindRelName(name string, span token.Span, fam *ast.FamilyDecl, relNames map[*ast.FamilyDecl]map[string]bool) {
	set, ok := relNames[fam]
	if !ok {
		set = map[string]bool{}
		relNames[fam] = set
	}
	if set[name] {
		a.Sink.Errorf(diag.DuplicateName, span, "duplicate relationship name %q in family", name)
	}
	set[name] = true
}

// OutletID extracts an outlet's numeric id from either its header
// attribute or its identity block (spec.md §3 "Outlet").
func OutletID(o *ast.Outlet) (int64, bool) {
	if o.ID != nil {
		if n, err := strconv.ParseInt(o.ID.Text, 10, 64); err == nil {
			return n, true
		}
	}
	if o.Body != nil && o.Body.Identity != nil && o.Body.Identity.ID != nil {
		if n, err := strconv.ParseInt(o.Body.Identity.ID.Text, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func (a *Analyzer) bindOutlet(o *ast.Outlet, fam *ast.FamilyDecl) {
	id, ok := OutletID(o)
	if !ok {
		a.Sink.Errorf(diag.TypeMismatch, spanOf(o), "outlet is missing a numeric id")
		return
	}
	if _, exists := a.Sym.Outlets[id]; exists {
		a.Sink.Errorf(diag.DuplicateOutletID, spanOf(o), "duplicate outlet id %d", id)
		return
	}
	a.Sym.Outlets[id] = o
	a.Sym.OutletOrder = append(a.Sym.OutletOrder, id)
	if fam != nil {
		a.Sym.OutletFamily[id] = fam.Name
	}
}

func spanOf(n ast.Node) token.Span {
	return token.Span{File: n.Pos().File, Start: n.Pos().Offset, End: n.End().Offset}
}
