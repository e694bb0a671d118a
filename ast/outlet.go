package ast

import "github.com/pacedproton/medialang/token"

// HistoricalTitle is one entry of an identity block's ordered
// historical_titles array.
type HistoricalTitle struct {
	StartPos token.Pos
	EndPos   token.Pos
	Title    string
	Period   *DateRangeLit
}

func (h *HistoricalTitle) Pos() token.Pos { return h.StartPos }
func (h *HistoricalTitle) End() token.Pos { return h.EndPos }

// IdentityBlock carries an outlet's or template's identity facts
// (spec.md §3 "identity").
type IdentityBlock struct {
	StartPos         token.Pos
	EndPos           token.Pos
	ID               *NumberLit // optional `id = <number>` inside the block
	Title            *StringLit
	URL              *StringLit
	HistoricalTitles []*HistoricalTitle
}

func (b *IdentityBlock) Pos() token.Pos { return b.StartPos }
func (b *IdentityBlock) End() token.Pos { return b.EndPos }

// StatusInterval is one labeled operational period of a lifecycle
// (spec.md §3 "lifecycle"). Current is true for an interval ending in
// CURRENT; To is nil for a bare `current` and holds a CURRENT DateLit for
// `to current`.
type StatusInterval struct {
	StartPos       token.Pos
	EndPos         token.Pos
	Label          string
	From           *DateLit
	To             *DateLit
	Current        bool
	PrecisionStart string
	PrecisionEnd   string
	Extra          *ObjectLit
	Annotations    []*Annotation
}

func (s *StatusInterval) Pos() token.Pos { return s.StartPos }
func (s *StatusInterval) End() token.Pos { return s.EndPos }

// LifecycleBlock is an ordered sequence of status intervals.
type LifecycleBlock struct {
	StartPos  token.Pos
	EndPos    token.Pos
	Intervals []*StatusInterval
}

func (b *LifecycleBlock) Pos() token.Pos { return b.StartPos }
func (b *LifecycleBlock) End() token.Pos { return b.EndPos }

// OutletBody is the tagged set of blocks an outlet, a template, or an
// override layer may define (spec.md §9 "Polymorphic block bodies": model
// outlet blocks as a tagged variant, dispatched by head keyword rather
// than inheritance).
type OutletBody struct {
	StartPos        token.Pos
	EndPos          token.Pos
	Identity        *IdentityBlock
	Lifecycle       *LifecycleBlock
	Characteristics *ObjectLit
	Metadata        *ObjectLit
	Annotations     []*Annotation
}

func (b *OutletBody) Pos() token.Pos { return b.StartPos }
func (b *OutletBody) End() token.Pos { return b.EndPos }

// TemplateDecl is a reusable named partial outlet (spec.md §3 "Template OUTLET").
type TemplateDecl struct {
	StartPos token.Pos
	EndPos   token.Pos
	Name     string
	Body     *OutletBody
}

func (*TemplateDecl) stmtNode()        {}
func (t *TemplateDecl) Pos() token.Pos { return t.StartPos }
func (t *TemplateDecl) End() token.Pos { return t.EndPos }

// Outlet is a concretely declared media outlet, globally identified by a
// numeric id (spec.md §3 "Outlet"). ID may arrive either from the outlet
// header (`id = <num>`) or from within Body.Identity; the parser records
// each where it saw it, and sema.OutletID uses the header id when present,
// else the identity id. Giving both is not reported.
type Outlet struct {
	StartPos  token.Pos
	EndPos    token.Pos
	NameHint  string // optional string literal following OUTLET, informational
	ID        *NumberLit
	Extends   string // template name; "" if none
	BasedOn   *NumberLit
	Body      *OutletBody
}

func (*Outlet) stmtNode()       {}
func (o *Outlet) Pos() token.Pos { return o.StartPos }
func (o *Outlet) End() token.Pos { return o.EndPos }

// ForPeriod is one `FOR_PERIOD <from> TO <to> { blocks }` attribute layer
// inside an OVERRIDE FROM block (spec.md §3 "OutletRef").
type ForPeriod struct {
	StartPos token.Pos
	EndPos   token.Pos
	From     *DateLit
	To       *DateLit
	Body     *OutletBody
}

func (f *ForPeriod) Pos() token.Pos { return f.StartPos }
func (f *ForPeriod) End() token.Pos { return f.EndPos }

// OverrideBlock is `OVERRIDE FROM <date> { FOR_PERIOD ... }*`.
type OverrideBlock struct {
	StartPos token.Pos
	EndPos   token.Pos
	From     *DateLit
	Periods  []*ForPeriod
}

func (o *OverrideBlock) Pos() token.Pos { return o.StartPos }
func (o *OverrideBlock) End() token.Pos { return o.EndPos }

// OutletRef references an outlet declared elsewhere by numeric id and may
// attach period-scoped override layers (spec.md §3 "OutletRef").
type OutletRef struct {
	StartPos      token.Pos
	EndPos        token.Pos
	TargetID      *NumberLit
	TitleHint     string // spec.md §9: informational only, non-semantic
	InheritsFrom  *NumberLit
	InheritsUntil *DateLit
	Overrides     []*OverrideBlock
}

func (*OutletRef) stmtNode()        {}
func (r *OutletRef) Pos() token.Pos { return r.StartPos }
func (r *OutletRef) End() token.Pos { return r.EndPos }

// FamilyDecl is a named container of outlets, outlet references,
// templates, data blocks, relationships, and events (spec.md §3 "Family").
type FamilyDecl struct {
	StartPos token.Pos
	EndPos   token.Pos
	Name     string
	Body     []Stmt
}

func (*FamilyDecl) stmtNode()        {}
func (f *FamilyDecl) Pos() token.Pos { return f.StartPos }
func (f *FamilyDecl) End() token.Pos { return f.EndPos }
