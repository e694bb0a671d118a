// Package sema implements the MDSL semantic analyzer: symbol binding,
// reference resolution, type/category checking, and temporal consistency
// checking (spec.md §4.4).
package sema

import (
	"github.com/pacedproton/medialang/ast"
	"github.com/pacedproton/medialang/diag"
	"github.com/pacedproton/medialang/sourcemap"
)

// Symbols is the program-wide symbol table populated by Pass A and
// consulted by Pass B and by the IR transformer (spec.md §4.4 "Pass A:
// name binding").
type Symbols struct {
	Vars          map[string]ast.Value
	Units         map[string]*ast.UnitDecl
	Vocabularies  map[string]*ast.VocabularyDecl
	Templates     map[string]*ast.TemplateDecl
	Catalogs      map[string]*ast.CatalogDecl
	Sources       map[string]*ast.SourceEntry // union across all catalogs
	Outlets       map[int64]*ast.Outlet
	OutletOrder   []int64 // declaration order, for deterministic emission
	OutletFamily  map[int64]string // "" if declared outside any family
	Events        map[string]*ast.Event
	FamilyOrder   []*ast.FamilyDecl
}

func newSymbols() *Symbols {
	return &Symbols{
		Vars:         map[string]ast.Value{},
		Units:        map[string]*ast.UnitDecl{},
		Vocabularies: map[string]*ast.VocabularyDecl{},
		Templates:    map[string]*ast.TemplateDecl{},
		Catalogs:     map[string]*ast.CatalogDecl{},
		Sources:      map[string]*ast.SourceEntry{},
		Outlets:      map[int64]*ast.Outlet{},
		OutletFamily: map[int64]string{},
		Events:       map[string]*ast.Event{},
	}
}

// Analyzer runs both semantic sub-passes over a joined set of per-file
// programs (spec.md §5: "semantic analysis must join on the complete AST
// graph because of cross-file symbol resolution").
type Analyzer struct {
	Files *sourcemap.Map
	Sink  *diag.Sink
	Sym   *Symbols
}

// New creates an Analyzer over files, reporting into sink.
func New(files *sourcemap.Map, sink *diag.Sink) *Analyzer {
	return &Analyzer{Files: files, Sink: sink, Sym: newSymbols()}
}

// Analyze runs Pass A (name binding) then Pass B (reference + consistency
// checking) over every statement of every program, in file order. Analysis
// continues after each failure to aggregate diagnostics (spec.md §4.4).
func (a *Analyzer) Analyze(programs []*ast.Program) {
	for _, prog := range programs {
		a.bindFile(prog)
	}
	for _, prog := range programs {
		a.checkFile(prog)
	}
}
