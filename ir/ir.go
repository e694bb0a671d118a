// Package ir transforms the bound, checked AST into the flat,
// backend-agnostic intermediate representation consumed by the SQL and
// Cypher emitters (spec.md §4.5 "IR Transformer").
package ir

import (
	"sort"
	"strconv"

	"github.com/pacedproton/medialang/ast"
	"github.com/pacedproton/medialang/mdate"
	"github.com/pacedproton/medialang/sema"
)

// LifecycleSegment is one flattened, contiguous operational period. Adjacent
// intervals sharing the same label are merged into a single segment
// (spec.md §4.5 "Lifecycle flattening").
type LifecycleSegment struct {
	Label string
	From  mdate.Date
	To    mdate.Date
}

// HistoricalTitleSeg is a title active over a bounded period.
type HistoricalTitleSeg struct {
	Title string
	From  mdate.Date
	To    mdate.Date
}

// AttributeSegment is one period-scoped layer of characteristics/metadata,
// produced either by the outlet's own body (the base segment, spanning its
// full lifetime) or by an OVERRIDE FROM ... FOR_PERIOD layer
// (spec.md §4.5 "Period-scoped override segments").
type AttributeSegment struct {
	From            mdate.Date
	To              mdate.Date
	Characteristics map[string]ast.Value
	Metadata        map[string]ast.Value
}

// Outlet is the fully resolved, flattened view of one media outlet: template
// expansion, BASED_ON folding, and override materialization have all been
// applied (spec.md §4.5).
type Outlet struct {
	ID               int64
	Family           string // "" if declared outside any family
	Extends          string // template name; "" if none
	BasedOn          *int64
	Title            string
	URL              string
	HistoricalTitles []HistoricalTitleSeg
	Lifecycle        []LifecycleSegment
	Segments         []AttributeSegment
}

// At returns the attribute segment covering date d, or nil if none covers it.
// A segment ending at CURRENT also covers CURRENT itself; when several
// segments cover d, the last one wins.
func (o *Outlet) At(d mdate.Date) *AttributeSegment {
	var best *AttributeSegment
	for i := range o.Segments {
		s := &o.Segments[i]
		if !mdate.Before(d, s.From) && (mdate.Before(d, s.To) || s.To.Current) {
			best = s
		}
	}
	return best
}

// DiachronicEdge is the flattened view of a DiachronicLink.
type DiachronicEdge struct {
	Name             string
	Predecessor      int64
	Successor        int64
	EventDate        ast.Value
	RelationshipType ast.Value
	TriggeredByEvent string
}

// SynchronousEdge is the flattened view of a SynchronousLink.
type SynchronousEdge struct {
	Name             string
	Outlet1          int64
	Outlet1Role      string
	Outlet2          int64
	Outlet2Role      string
	RelationshipType ast.Value
	From             mdate.Date
	To               mdate.Date
	Details          ast.Value
	CreatedByEvent   string
}

// EventEntityRef is one participant of a flattened event.
type EventEntityRef struct {
	Key         string
	OutletID    int64
	Role        string
	StakeBefore *float64
	StakeAfter  *float64
}

// EventRecord is the flattened view of an Event.
type EventRecord struct {
	Name     string
	Type     ast.Value
	Date     ast.Value
	Status   string
	Entities []EventEntityRef
	Impact   *ast.ObjectLit
	Metadata *ast.ObjectLit
}

// MetricRecord is one (outlet, year, metric) reading, uniqueness-checked
// during normalization (spec.md §4.5 "Data block normalization").
type MetricRecord struct {
	OutletID int64
	Year     int
	Name     string
	Value    *ast.NumberLit
	Unit     string
	Source   string
	Comment  string
}

// Model is the complete backend-agnostic program representation: the
// "tables_view" and "graph_view" spec.md §4.6/§4.7 describe are two distinct
// projections of this same Model, not separate transforms.
type Model struct {
	Outlets     []*Outlet
	Diachronic  []*DiachronicEdge
	Synchronous []*SynchronousEdge
	Events      []*EventRecord
	Metrics     []*MetricRecord
}

// Build runs template expansion, BASED_ON folding, override materialization,
// lifecycle flattening, and data normalization over the joined programs,
// producing the IR consumed by the sqlgen and cyphergen backends. sym must
// already be populated by a prior sema.Analyzer.Analyze over the same
// programs.
func Build(sym *sema.Symbols, programs []*ast.Program) *Model {
	b := &builder{sym: sym, resolved: map[int64]*Outlet{}}
	m := &Model{}
	for _, id := range sym.OutletOrder {
		m.Outlets = append(m.Outlets, b.resolveOutlet(id))
	}
	for _, prog := range programs {
		for _, stmt := range prog.Statements {
			b.walkStmt(stmt, m)
		}
	}
	return m
}

type builder struct {
	sym      *sema.Symbols
	resolved map[int64]*Outlet
}

func (b *builder) walkStmt(stmt ast.Stmt, m *Model) {
	switch s := stmt.(type) {
	case *ast.FamilyDecl:
		for _, member := range s.Body {
			b.walkStmt(member, m)
		}
	case *ast.DiachronicLink:
		m.Diachronic = append(m.Diachronic, b.flattenDiachronic(s))
	case *ast.SynchronousLink:
		m.Synchronous = append(m.Synchronous, b.flattenSynchronous(s))
	case *ast.Event:
		m.Events = append(m.Events, b.flattenEvent(s))
	case *ast.DataBlock:
		m.Metrics = append(m.Metrics, b.flattenDataBlock(s)...)
	case *ast.OutletRef:
		b.applyOutletRef(s)
	}
}

// resolveOutlet builds the flattened Outlet for id, expanding its template
// (spec.md §4.5 "Template expansion": child overrides parent, recursive
// nested-object merge) and folding BASED_ON (spec.md §4.5 "BASED_ON
// structural-fold projection: no shared mutable state between the folded
// copy and its source").
func (b *builder) resolveOutlet(id int64) *Outlet {
	if o, ok := b.resolved[id]; ok {
		return o
	}
	src := b.sym.Outlets[id]
	if src == nil {
		return nil
	}
	body := src.Body
	if src.Extends != "" {
		if tmpl, ok := b.sym.Templates[src.Extends]; ok {
			body = mergeBody(tmpl.Body, body)
		}
	}
	if src.BasedOn != nil {
		if baseID, ok := parseIDLit(src.BasedOn); ok {
			if baseOutlet := b.sym.Outlets[baseID]; baseOutlet != nil {
				baseBody := baseOutlet.Body
				if baseOutlet.Extends != "" {
					if tmpl, ok := b.sym.Templates[baseOutlet.Extends]; ok {
						baseBody = mergeBody(tmpl.Body, baseBody)
					}
				}
				body = mergeBody(baseBody, body)
			}
		}
	}
	out := &Outlet{ID: id, Family: b.sym.OutletFamily[id], Extends: src.Extends}
	if src.BasedOn != nil {
		if baseID, ok := parseIDLit(src.BasedOn); ok {
			out.BasedOn = &baseID
		}
	}
	if body != nil && body.Identity != nil {
		out.Title = stringOf(body.Identity.Title)
		out.URL = stringOf(body.Identity.URL)
		for _, ht := range body.Identity.HistoricalTitles {
			seg := HistoricalTitleSeg{Title: ht.Title}
			if ht.Period != nil {
				seg.From, _ = mdate.Parse(ht.Period.From.Text)
				seg.To = dateOf(ht.Period.To)
			}
			out.HistoricalTitles = append(out.HistoricalTitles, seg)
		}
	}
	if body != nil && body.Lifecycle != nil {
		out.Lifecycle = flattenLifecycle(body.Lifecycle)
	}
	base := AttributeSegment{
		From:            genesis(out.Lifecycle),
		To:              mdate.Current(),
		Characteristics: objFields(bodyObject(body, true)),
		Metadata:        objFields(bodyObject(body, false)),
	}
	out.Segments = []AttributeSegment{base}
	b.resolved[id] = out
	return out
}

func bodyObject(body *ast.OutletBody, characteristics bool) *ast.ObjectLit {
	if body == nil {
		return nil
	}
	if characteristics {
		return body.Characteristics
	}
	return body.Metadata
}

func genesis(lc []LifecycleSegment) mdate.Date {
	if len(lc) == 0 {
		return mdate.Date{}
	}
	return lc[0].From
}

// applyOutletRef materializes an OUTLET_REF's override layers on top of the
// referenced outlet's already-resolved base segment, producing the
// period-scoped timeline spec.md §4.5 describes.
func (b *builder) applyOutletRef(r *ast.OutletRef) {
	id, ok := parseIDLit(r.TargetID)
	if !ok {
		return
	}
	out := b.resolved[id]
	if out == nil {
		out = b.resolveOutlet(id)
	}
	if out == nil || len(out.Segments) == 0 {
		return
	}
	base := out.Segments[0]
	var segs []AttributeSegment
	for _, ov := range r.Overrides {
		for _, fp := range ov.Periods {
			from, _ := mdate.Parse(fp.From.Text)
			to := dateOf(fp.To)
			characteristics := mergeValueMap(base.Characteristics, objFields(bodyObject(fp.Body, true)))
			metadata := mergeValueMap(base.Metadata, objFields(bodyObject(fp.Body, false)))
			segs = append(segs, AttributeSegment{From: from, To: to, Characteristics: characteristics, Metadata: metadata})
		}
	}
	if len(segs) == 0 {
		return
	}
	sort.Slice(segs, func(i, j int) bool { return mdate.Before(segs[i].From, segs[j].From) })
	out.Segments = append([]AttributeSegment{base}, segs...)
}

func mergeValueMap(base, overlay map[string]ast.Value) map[string]ast.Value {
	out := map[string]ast.Value{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

func objFields(o *ast.ObjectLit) map[string]ast.Value {
	out := map[string]ast.Value{}
	if o == nil {
		return out
	}
	for _, f := range o.Fields {
		out[f.Key] = f.Value
	}
	return out
}

// mergeBody merges overlay onto base, overlay winning field-by-field and
// recursing into nested object literals (spec.md §4.5 "Template expansion").
// Neither input is mutated.
func mergeBody(base, overlay *ast.OutletBody) *ast.OutletBody {
	if base == nil {
		return overlay
	}
	if overlay == nil {
		return base
	}
	out := &ast.OutletBody{
		StartPos:        overlay.StartPos,
		EndPos:          overlay.EndPos,
		Identity:        overlay.Identity,
		Lifecycle:       overlay.Lifecycle,
		Characteristics: mergeObject(base.Characteristics, overlay.Characteristics),
		Metadata:        mergeObject(base.Metadata, overlay.Metadata),
		Annotations:     append(append([]*ast.Annotation{}, base.Annotations...), overlay.Annotations...),
	}
	if out.Identity == nil {
		out.Identity = base.Identity
	}
	if out.Lifecycle == nil {
		out.Lifecycle = base.Lifecycle
	}
	return out
}

func mergeObject(base, overlay *ast.ObjectLit) *ast.ObjectLit {
	if base == nil {
		return overlay
	}
	if overlay == nil {
		return base
	}
	merged := map[string]*ast.Field{}
	var order []string
	for _, f := range base.Fields {
		merged[f.Key] = f
		order = append(order, f.Key)
	}
	for _, f := range overlay.Fields {
		if prevField, exists := merged[f.Key]; exists {
			if prevObj, ok := prevField.Value.(*ast.ObjectLit); ok {
				if curObj, ok := f.Value.(*ast.ObjectLit); ok {
					merged[f.Key] = &ast.Field{Key: f.Key, Value: mergeObject(prevObj, curObj)}
					continue
				}
			}
			merged[f.Key] = f
			continue
		}
		merged[f.Key] = f
		order = append(order, f.Key)
	}
	out := &ast.ObjectLit{StartPos: overlay.StartPos, EndPos: overlay.EndPos}
	for _, k := range order {
		out.Fields = append(out.Fields, merged[k])
	}
	return out
}

func flattenLifecycle(lc *ast.LifecycleBlock) []LifecycleSegment {
	var segs []LifecycleSegment
	for _, iv := range lc.Intervals {
		from, err := mdate.Parse(iv.From.Text)
		if err != nil {
			continue
		}
		to := dateOf(iv.To)
		if iv.Current {
			to = mdate.Current()
		}
		segs = append(segs, LifecycleSegment{Label: iv.Label, From: from, To: to})
	}
	sort.Slice(segs, func(i, j int) bool { return mdate.Before(segs[i].From, segs[j].From) })
	var merged []LifecycleSegment
	for _, s := range segs {
		if n := len(merged); n > 0 && merged[n-1].Label == s.Label && mdate.Compare(merged[n-1].To, s.From) == 0 {
			merged[n-1].To = s.To
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

func (b *builder) flattenDiachronic(d *ast.DiachronicLink) *DiachronicEdge {
	pred, _ := parseIDLit(d.Predecessor)
	succ, _ := parseIDLit(d.Successor)
	return &DiachronicEdge{
		Name:             d.Name,
		Predecessor:      pred,
		Successor:        succ,
		EventDate:        d.EventDate,
		RelationshipType: d.RelationshipType,
		TriggeredByEvent: d.TriggeredByEvent,
	}
}

func (b *builder) flattenSynchronous(s *ast.SynchronousLink) *SynchronousEdge {
	e := &SynchronousEdge{
		Name:             s.Name,
		RelationshipType: s.RelationshipType,
		Details:          s.Details,
		CreatedByEvent:   s.CreatedByEvent,
	}
	if s.Outlet1 != nil {
		e.Outlet1, _ = parseIDLit(s.Outlet1.ID)
		e.Outlet1Role = s.Outlet1.Role
	}
	if s.Outlet2 != nil {
		e.Outlet2, _ = parseIDLit(s.Outlet2.ID)
		e.Outlet2Role = s.Outlet2.Role
	}
	if s.Period != nil {
		e.From, _ = mdate.Parse(s.Period.From.Text)
		e.To = dateOf(s.Period.To)
	}
	return e
}

func (b *builder) flattenEvent(e *ast.Event) *EventRecord {
	rec := &EventRecord{
		Name:     e.Name,
		Type:     e.Type,
		Date:     e.Date,
		Status:   e.Status,
		Impact:   e.Impact,
		Metadata: e.Metadata,
	}
	for _, ent := range e.Entities {
		id, _ := parseIDLit(ent.ID)
		ref := EventEntityRef{Key: ent.Key, OutletID: id, Role: ent.Role}
		if ent.StakeBefore != nil {
			if v, ok := floatOf(ent.StakeBefore); ok {
				ref.StakeBefore = &v
			}
		}
		if ent.StakeAfter != nil {
			if v, ok := floatOf(ent.StakeAfter); ok {
				ref.StakeAfter = &v
			}
		}
		rec.Entities = append(rec.Entities, ref)
	}
	return rec
}

// flattenDataBlock normalizes one DATA FOR block into MetricRecords
// (spec.md §4.5 "Data block normalization"). sema rejects a repeated
// (year, metric) pair within one DATA FOR block; the same (outlet, year,
// metric) tuple split over two DATA FOR blocks is not detected and yields
// two records.
func (b *builder) flattenDataBlock(d *ast.DataBlock) []*MetricRecord {
	outletID, _ := parseIDLit(d.OutletID)
	var out []*MetricRecord
	for _, yr := range d.Years {
		for _, m := range yr.Metrics {
			out = append(out, &MetricRecord{
				OutletID: outletID,
				Year:     yr.Year,
				Name:     m.Name,
				Value:    m.Value,
				Unit:     m.Unit,
				Source:   m.Source,
				Comment:  m.Comment,
			})
		}
	}
	return out
}

func dateOf(d *ast.DateLit) mdate.Date {
	if d == nil || d.Current {
		return mdate.Current()
	}
	v, err := mdate.Parse(d.Text)
	if err != nil {
		return mdate.Current()
	}
	return v
}

func stringOf(s *ast.StringLit) string {
	if s == nil {
		return ""
	}
	return s.Value
}

func parseIDLit(n *ast.NumberLit) (int64, bool) {
	if n == nil {
		return 0, false
	}
	v, err := strconv.ParseInt(n.Text, 10, 64)
	return v, err == nil
}

func floatOf(n *ast.NumberLit) (float64, bool) {
	v, err := strconv.ParseFloat(n.Text, 64)
	return v, err == nil
}
