package sema

import (
	"sort"
	"strconv"

	"github.com/pacedproton/medialang/ast"
	"github.com/pacedproton/medialang/diag"
	"github.com/pacedproton/medialang/mdate"
	"github.com/pacedproton/medialang/token"
)

func (a *Analyzer) checkFile(prog *ast.Program) {
	for _, stmt := range prog.Statements {
		a.checkStmt(stmt)
	}
}

func (a *Analyzer) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.FamilyDecl:
		for _, member := range s.Body {
			a.checkStmt(member)
		}
	case *ast.Outlet:
		a.checkOutlet(s)
	case *ast.OutletRef:
		a.checkOutletRef(s)
	case *ast.DiachronicLink:
		a.checkDiachronicLink(s)
	case *ast.SynchronousLink:
		a.checkSynchronousLink(s)
	case *ast.Event:
		a.checkEvent(s)
	case *ast.DataBlock:
		a.checkDataBlock(s)
	case *ast.UnitDecl:
		// field shape was validated by the parser; nothing left to resolve
	}
}

// resolveVars walks v recursively, replacing every VarRef with its bound
// literal; reports UndefinedVariable for anything unbound (spec.md §4.4
// Pass B). It also descends into object/array literals so nested
// characteristics and metadata bags get the same treatment.
func (a *Analyzer) resolveVars(v ast.Value) ast.Value {
	switch val := v.(type) {
	case *ast.VarRef:
		bound, ok := a.Sym.Vars[val.Name]
		if !ok {
			a.Sink.Errorf(diag.UndefinedVariable, spanOf(val), "undefined variable $%s", val.Name)
			return val
		}
		return bound
	case *ast.ObjectLit:
		for _, f := range val.Fields {
			f.Value = a.resolveVars(f.Value)
		}
		return val
	case *ast.ArrayLit:
		for i, e := range val.Elems {
			val.Elems[i] = a.resolveVars(e)
		}
		return val
	default:
		return v
	}
}

func (a *Analyzer) resolveOutletID(span token.Span, n *ast.NumberLit, context string) {
	if n == nil {
		return
	}
	id, ok := parseOutletIDLit(n)
	if !ok {
		a.Sink.Errorf(diag.TypeMismatch, span, "invalid outlet id in %s", context)
		return
	}
	if _, ok := a.Sym.Outlets[id]; !ok {
		a.Sink.Errorf(diag.UndefinedOutlet, span, "%s references undeclared outlet id %d", context, id)
	}
}

func (a *Analyzer) checkOutlet(o *ast.Outlet) {
	if o.Extends != "" {
		if _, ok := a.Sym.Templates[o.Extends]; !ok {
			a.Sink.Errorf(diag.UndefinedOutlet, spanOf(o), "outlet extends undeclared template %q", o.Extends)
		}
	}
	if o.BasedOn != nil {
		a.resolveOutletID(spanOf(o), o.BasedOn, "BASED_ON")
	}
	a.checkOutletBody(o.Body)
}

func (a *Analyzer) checkOutletBody(body *ast.OutletBody) {
	if body == nil {
		return
	}
	if body.Identity != nil {
		for _, ht := range body.Identity.HistoricalTitles {
			if ht.Period != nil {
				a.checkDateRange(ht.Period)
			}
		}
	}
	if body.Lifecycle != nil {
		a.checkLifecycle(body.Lifecycle)
	}
	if body.Characteristics != nil {
		a.resolveVars(body.Characteristics)
		a.checkCategoryFields(body.Characteristics)
	}
	if body.Metadata != nil {
		a.resolveVars(body.Metadata)
		a.checkCategoryFields(body.Metadata)
	}
}

// checkCategoryFields validates that any bag field whose key matches a
// declared CATEGORY-typed unit field name is a member of that category
// (spec.md §3 invariant "Category-typed field values must be members of
// their declared category"). Units are pure schema declarations with no
// other binding to outlet data in MDSL source, so field-name matching
// against every declared Unit's CATEGORY fields is the concrete
// implementation of that invariant (documented as an Open Question
// resolution in DESIGN.md).
func (a *Analyzer) checkCategoryFields(obj *ast.ObjectLit) {
	if obj == nil {
		return
	}
	for _, f := range obj.Fields {
		if nested, ok := f.Value.(*ast.ObjectLit); ok {
			a.checkCategoryFields(nested)
			continue
		}
		lit, ok := f.Value.(*ast.StringLit)
		if !ok {
			continue
		}
		for _, unit := range a.Sym.Units {
			for _, field := range unit.Fields {
				if field.Name != f.Key || field.Type != ast.TypeCategory {
					continue
				}
				if !containsStr(field.Categories, lit.Value) {
					a.Sink.Errorf(diag.CategoryViolation, spanOf(lit),
						"value %q is not a member of category %s.%s", lit.Value, unit.Name, field.Name)
				}
			}
		}
	}
}

func containsStr(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (a *Analyzer) checkLifecycle(lc *ast.LifecycleBlock) {
	type span struct {
		from, to mdate.Date
		node     *ast.StatusInterval
	}
	var spans []span
	for _, iv := range lc.Intervals {
		from, err := mdate.Parse(iv.From.Text)
		if err != nil {
			a.Sink.Errorf(diag.BadDateLiteral, spanOf(iv.From), "%s", err)
			continue
		}
		to := mdate.Current()
		if !iv.Current && iv.To != nil {
			to, err = mdate.Parse(iv.To.Text)
			if err != nil {
				a.Sink.Errorf(diag.BadDateLiteral, spanOf(iv.To), "%s", err)
				continue
			}
			if mdate.Before(to, from) {
				a.Sink.Errorf(diag.InvertedDateRange, spanOf(iv), "lifecycle interval %q ends before it starts", iv.Label)
				continue
			}
		}
		spans = append(spans, span{from: from, to: to, node: iv})
	}
	sort.Slice(spans, func(i, j int) bool { return mdate.Before(spans[i].from, spans[j].from) })
	for i := 1; i < len(spans); i++ {
		if mdate.Before(spans[i].from, spans[i-1].to) {
			a.Sink.Errorf(diag.OverlappingLifecycle, spanOf(spans[i].node),
				"lifecycle interval %q overlaps the preceding interval %q", spans[i].node.Label, spans[i-1].node.Label)
		}
	}
}

func (a *Analyzer) checkDateRange(r *ast.DateRangeLit) {
	from, err1 := mdate.Parse(r.From.Text)
	if err1 != nil {
		a.Sink.Errorf(diag.BadDateLiteral, spanOf(r.From), "%s", err1)
		return
	}
	if r.To.Current {
		return
	}
	to, err2 := mdate.Parse(r.To.Text)
	if err2 != nil {
		a.Sink.Errorf(diag.BadDateLiteral, spanOf(r.To), "%s", err2)
		return
	}
	if mdate.Before(to, from) {
		a.Sink.Errorf(diag.InvertedDateRange, spanOf(r), "date range ends before it starts")
	}
}

func (a *Analyzer) checkOutletRef(r *ast.OutletRef) {
	a.resolveOutletID(spanOf(r), r.TargetID, "OUTLET_REF")
	if r.InheritsFrom != nil {
		a.resolveOutletID(spanOf(r), r.InheritsFrom, "INHERITS_FROM")
	}
	type win struct {
		from, to mdate.Date
		node     *ast.ForPeriod
	}
	for _, ov := range r.Overrides {
		var periods []win
		for _, fp := range ov.Periods {
			a.checkOutletBody(fp.Body)
			from, err1 := mdate.Parse(fp.From.Text)
			to := mdate.Current()
			var err2 error
			if !fp.To.Current {
				to, err2 = mdate.Parse(fp.To.Text)
			}
			if err1 != nil {
				a.Sink.Errorf(diag.BadDateLiteral, spanOf(fp.From), "%s", err1)
				continue
			}
			if err2 != nil {
				a.Sink.Errorf(diag.BadDateLiteral, spanOf(fp.To), "%s", err2)
				continue
			}
			if mdate.Before(to, from) {
				a.Sink.Errorf(diag.InvertedDateRange, spanOf(fp), "FOR_PERIOD ends before it starts")
				continue
			}
			periods = append(periods, win{from: from, to: to, node: fp})
		}
		sort.Slice(periods, func(i, j int) bool { return mdate.Before(periods[i].from, periods[j].from) })
		for i := 1; i < len(periods); i++ {
			if mdate.Before(periods[i].from, periods[i-1].to) {
				a.Sink.Warnf(diag.OverlappingOverridePeriod, spanOf(periods[i].node),
					"overlapping FOR_PERIOD windows in override")
			}
		}
	}
}

func (a *Analyzer) checkDiachronicLink(d *ast.DiachronicLink) {
	a.resolveOutletID(spanOf(d), d.Predecessor, "predecessor")
	a.resolveOutletID(spanOf(d), d.Successor, "successor")
	if dr, ok := d.EventDate.(*ast.DateRangeLit); ok {
		a.checkDateRange(dr)
	}
	if d.TriggeredByEvent != "" {
		if _, ok := a.Sym.Events[d.TriggeredByEvent]; !ok {
			a.Sink.Errorf(diag.UndefinedEvent, spanOf(d), "triggered_by_event references undeclared event %q", d.TriggeredByEvent)
		}
	}
}

func (a *Analyzer) checkSynchronousLink(s *ast.SynchronousLink) {
	if s.Outlet1 != nil {
		a.resolveOutletID(spanOf(s), s.Outlet1.ID, "outlet_1.id")
	}
	if s.Outlet2 != nil {
		a.resolveOutletID(spanOf(s), s.Outlet2.ID, "outlet_2.id")
	}
	if s.Period != nil {
		a.checkDateRange(s.Period)
	}
	if s.CreatedByEvent != "" {
		if _, ok := a.Sym.Events[s.CreatedByEvent]; !ok {
			a.Sink.Errorf(diag.UndefinedEvent, spanOf(s), "created_by_event references undeclared event %q", s.CreatedByEvent)
		}
	}
}

func (a *Analyzer) checkEvent(e *ast.Event) {
	if e.Type == nil {
		a.Sink.Errorf(diag.TypeMismatch, spanOf(e), "event %q is missing required field 'type'", e.Name)
	}
	if e.Date == nil {
		a.Sink.Errorf(diag.TypeMismatch, spanOf(e), "event %q is missing required field 'date'", e.Name)
	}
	for _, ent := range e.Entities {
		a.resolveOutletID(spanOf(ent), ent.ID, "event entity "+ent.Key)
		a.checkStake(ent.StakeBefore)
		a.checkStake(ent.StakeAfter)
	}
}

func (a *Analyzer) checkStake(n *ast.NumberLit) {
	if n == nil {
		return
	}
	v, ok := parseFloat(n.Text)
	if !ok {
		return
	}
	if v < 0 || v > 100 {
		a.Sink.Errorf(diag.StakeOutOfRange, spanOf(n), "stake percentage %v is out of range [0,100]", v)
	}
}

func (a *Analyzer) checkDataBlock(d *ast.DataBlock) {
	a.resolveOutletID(spanOf(d), d.OutletID, "DATA FOR")
	seen := map[string]bool{}
	for _, yr := range d.Years {
		for _, m := range yr.Metrics {
			key := strconv.Itoa(yr.Year) + "/" + m.Name
			if seen[key] {
				a.Sink.Errorf(diag.DuplicateMetric, spanOf(m), "duplicate metric %q for year %d", m.Name, yr.Year)
			}
			seen[key] = true
			if m.Source != "" {
				if _, ok := a.Sym.Sources[m.Source]; !ok {
					a.Sink.Errorf(diag.UndefinedSource, spanOf(m), "metric %q references undeclared source %q", m.Name, m.Source)
				}
			}
		}
	}
}
