package parser

import (
	"testing"

	"github.com/pacedproton/medialang/ast"
	"github.com/pacedproton/medialang/diag"
)

func parseString(t *testing.T, input string) (*ast.Program, []diag.Diagnostic) {
	t.Helper()
	return New(0, input).Parse()
}

func TestParseUnit(t *testing.T) {
	prog, errs := parseString(t, `
UNIT Outlet {
  id: ID PRIMARY KEY;
  name: TEXT(255);
  bio: TEXT;
  weight: NUMBER;
  active: BOOLEAN;
  kind: CATEGORY("print", "broadcast", "online");
}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	u, ok := prog.Statements[0].(*ast.UnitDecl)
	if !ok {
		t.Fatalf("expected *ast.UnitDecl, got %T", prog.Statements[0])
	}
	if u.Name != "Outlet" {
		t.Errorf("expected name Outlet, got %q", u.Name)
	}
	if len(u.Fields) != 6 {
		t.Fatalf("expected 6 fields, got %d", len(u.Fields))
	}
	if u.Fields[0].Type != ast.TypeID || !u.Fields[0].PrimaryKey {
		t.Errorf("expected id field to be ID PRIMARY KEY, got %+v", u.Fields[0])
	}
	if u.Fields[1].Type != ast.TypeText || u.Fields[1].TextLen != 255 {
		t.Errorf("expected name field TEXT(255), got %+v", u.Fields[1])
	}
	if u.Fields[5].Type != ast.TypeCategory || len(u.Fields[5].Categories) != 3 {
		t.Errorf("expected kind field CATEGORY with 3 members, got %+v", u.Fields[5])
	}
}

func TestParseFamilyAndOutlet(t *testing.T) {
	prog, errs := parseString(t, `
FAMILY "Grupo Prisa" {
  OUTLET id=1 {
    identity {
      title = "El Pais";
      url = "elpais.com";
      historical_titles = [
        { title = "El Pais Primero"; period = "1976-05-04" to "1980-01-01"; }
      ];
    }
    lifecycle {
      status "active" from "1976-05-04" current;
    }
    characteristics {
      kind = "print";
    }
  }
}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	fam, ok := prog.Statements[0].(*ast.FamilyDecl)
	if !ok {
		t.Fatalf("expected *ast.FamilyDecl, got %T", prog.Statements[0])
	}
	if fam.Name != "Grupo Prisa" {
		t.Errorf("expected family name %q, got %q", "Grupo Prisa", fam.Name)
	}
	if len(fam.Body) != 1 {
		t.Fatalf("expected 1 family member, got %d", len(fam.Body))
	}
	out, ok := fam.Body[0].(*ast.Outlet)
	if !ok {
		t.Fatalf("expected *ast.Outlet, got %T", fam.Body[0])
	}
	if out.ID == nil || out.ID.Text != "1" {
		t.Errorf("expected outlet id 1, got %+v", out.ID)
	}
	if out.Body.Identity == nil || out.Body.Identity.Title == nil || out.Body.Identity.Title.Value != "El Pais" {
		t.Errorf("expected identity title El Pais, got %+v", out.Body.Identity)
	}
	if len(out.Body.Identity.HistoricalTitles) != 1 {
		t.Fatalf("expected 1 historical title, got %d", len(out.Body.Identity.HistoricalTitles))
	}
	if out.Body.Lifecycle == nil || len(out.Body.Lifecycle.Intervals) != 1 {
		t.Fatalf("expected 1 lifecycle interval, got %+v", out.Body.Lifecycle)
	}
	iv := out.Body.Lifecycle.Intervals[0]
	if iv.Label != "active" || iv.From.Text != "1976-05-04" || !iv.Current {
		t.Errorf("unexpected lifecycle interval: %+v", iv)
	}
	if out.Body.Characteristics == nil || len(out.Body.Characteristics.Fields) != 1 {
		t.Fatalf("expected 1 characteristics field, got %+v", out.Body.Characteristics)
	}
}

func TestParseOutletExtendsAndBasedOn(t *testing.T) {
	prog, errs := parseString(t, `
FAMILY "F" {
  OUTLET EXTENDS TEMPLATE "Newspaper" BASED_ON 7 id=2 {
    identity { title = "El Mundo"; }
  }
}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fam, ok := prog.Statements[0].(*ast.FamilyDecl)
	if !ok || len(fam.Body) != 1 {
		t.Fatalf("expected *ast.FamilyDecl with 1 member, got %T", prog.Statements[0])
	}
	out, ok := fam.Body[0].(*ast.Outlet)
	if !ok {
		t.Fatalf("expected *ast.Outlet, got %T", fam.Body[0])
	}
	if out.Extends != "Newspaper" {
		t.Errorf("expected Extends Newspaper, got %q", out.Extends)
	}
	if out.BasedOn == nil || out.BasedOn.Text != "7" {
		t.Errorf("expected BasedOn 7, got %+v", out.BasedOn)
	}
	if out.ID == nil || out.ID.Text != "2" {
		t.Errorf("expected id 2, got %+v", out.ID)
	}
}

func TestParseOutletRefWithOverride(t *testing.T) {
	prog, errs := parseString(t, `
FAMILY "F" {
  OUTLET_REF 3 "ABC" {
    INHERITS_FROM 1 UNTIL "1990-01-01";
    OVERRIDE FROM "1990-01-01" {
      FOR_PERIOD "1990-01-01" TO CURRENT {
        characteristics { circulation = "tabloid"; }
      }
    }
  }
}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fam, ok := prog.Statements[0].(*ast.FamilyDecl)
	if !ok || len(fam.Body) != 1 {
		t.Fatalf("expected *ast.FamilyDecl with 1 member, got %T", prog.Statements[0])
	}
	ref, ok := fam.Body[0].(*ast.OutletRef)
	if !ok {
		t.Fatalf("expected *ast.OutletRef, got %T", fam.Body[0])
	}
	if ref.TargetID == nil || ref.TargetID.Text != "3" {
		t.Errorf("expected target id 3, got %+v", ref.TargetID)
	}
	if ref.TitleHint != "ABC" {
		t.Errorf("expected title hint ABC, got %q", ref.TitleHint)
	}
	if ref.InheritsFrom == nil || ref.InheritsFrom.Text != "1" {
		t.Errorf("expected inherits_from 1, got %+v", ref.InheritsFrom)
	}
	if len(ref.Overrides) != 1 || len(ref.Overrides[0].Periods) != 1 {
		t.Fatalf("expected 1 override with 1 period, got %+v", ref.Overrides)
	}
	fp := ref.Overrides[0].Periods[0]
	if fp.From.Text != "1990-01-01" || !fp.To.Current {
		t.Errorf("unexpected FOR_PERIOD bounds: %+v", fp)
	}
}

func TestParseDiachronicLink(t *testing.T) {
	prog, errs := parseString(t, `
DIACHRONIC_LINK "rename" {
  predecessor = 1;
  successor = 2;
  event_date = "2001-01-01";
  relationship_type = "renamed_to";
}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	d, ok := prog.Statements[0].(*ast.DiachronicLink)
	if !ok {
		t.Fatalf("expected *ast.DiachronicLink, got %T", prog.Statements[0])
	}
	if d.Predecessor == nil || d.Predecessor.Text != "1" {
		t.Errorf("expected predecessor 1, got %+v", d.Predecessor)
	}
	if d.Successor == nil || d.Successor.Text != "2" {
		t.Errorf("expected successor 2, got %+v", d.Successor)
	}
}

func TestParseSynchronousLink(t *testing.T) {
	prog, errs := parseString(t, `
SYNCHRONOUS_LINK "sister" {
  outlet_1 = { id = 1; role = "parent"; };
  outlet_2 = { id = 2; role = "sibling"; };
  period = "2000-01-01" to current;
}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	s, ok := prog.Statements[0].(*ast.SynchronousLink)
	if !ok {
		t.Fatalf("expected *ast.SynchronousLink, got %T", prog.Statements[0])
	}
	if s.Outlet1 == nil || s.Outlet1.ID.Text != "1" || s.Outlet1.Role != "parent" {
		t.Errorf("unexpected outlet_1: %+v", s.Outlet1)
	}
	if s.Period == nil || s.Period.From.Text != "2000-01-01" || !s.Period.To.Current {
		t.Errorf("unexpected period: %+v", s.Period)
	}
}

func TestParseEvent(t *testing.T) {
	prog, errs := parseString(t, `
EVENT "acquisition" {
  type = "acquisition";
  date = "2005-06-01";
  entities = {
    acquirer = { id = 1; role = "acquirer"; stake_before = 0; stake_after = 100; };
  };
}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	e, ok := prog.Statements[0].(*ast.Event)
	if !ok {
		t.Fatalf("expected *ast.Event, got %T", prog.Statements[0])
	}
	if len(e.Entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(e.Entities))
	}
	ent := e.Entities[0]
	if ent.Key != "acquirer" || ent.ID.Text != "1" || ent.Role != "acquirer" {
		t.Errorf("unexpected entity: %+v", ent)
	}
	if ent.StakeAfter == nil || ent.StakeAfter.Text != "100" {
		t.Errorf("expected stake_after 100, got %+v", ent.StakeAfter)
	}
}

func TestParseDataBlock(t *testing.T) {
	prog, errs := parseString(t, `
DATA FOR 1 {
  YEAR 2020 {
    metrics {
      circulation = { value = 50000; unit = "copies"; source = "ABC"; };
    }
  }
}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	d, ok := prog.Statements[0].(*ast.DataBlock)
	if !ok {
		t.Fatalf("expected *ast.DataBlock, got %T", prog.Statements[0])
	}
	if d.OutletID == nil || d.OutletID.Text != "1" {
		t.Errorf("expected outlet id 1, got %+v", d.OutletID)
	}
	if len(d.Years) != 1 || d.Years[0].Year != 2020 {
		t.Fatalf("expected 1 year block for 2020, got %+v", d.Years)
	}
	if len(d.Years[0].Metrics) != 1 {
		t.Fatalf("expected 1 metric, got %d", len(d.Years[0].Metrics))
	}
	m := d.Years[0].Metrics[0]
	if m.Name != "circulation" || m.Value.Text != "50000" || m.Unit != "copies" || m.Source != "ABC" {
		t.Errorf("unexpected metric: %+v", m)
	}
}

func TestParseErrorRecoveryContinuesAfterBadStatement(t *testing.T) {
	prog, errs := parseString(t, `
@@@
UNIT Outlet { id: ID PRIMARY KEY; }`)
	if len(errs) == 0 {
		t.Fatalf("expected at least one diagnostic for the malformed leading token")
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("expected parser to recover and still parse the UNIT decl, got %d statements", len(prog.Statements))
	}
	if _, ok := prog.Statements[0].(*ast.UnitDecl); !ok {
		t.Fatalf("expected *ast.UnitDecl after recovery, got %T", prog.Statements[0])
	}
}

func TestParseVocabularyAndCatalog(t *testing.T) {
	prog, errs := parseString(t, `
VOCABULARY OutletKind {
  GROUP formats {
    print: "Print";
    online: "Online";
  }
}
CATALOG Sources {
  SOURCE abc { url = "https://abc.example"; }
}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(prog.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Statements))
	}
	voc, ok := prog.Statements[0].(*ast.VocabularyDecl)
	if !ok {
		t.Fatalf("expected *ast.VocabularyDecl, got %T", prog.Statements[0])
	}
	if len(voc.Groups) != 1 || len(voc.Groups[0].Entries) != 2 {
		t.Fatalf("unexpected vocabulary groups: %+v", voc.Groups)
	}
	cat, ok := prog.Statements[1].(*ast.CatalogDecl)
	if !ok {
		t.Fatalf("expected *ast.CatalogDecl, got %T", prog.Statements[1])
	}
	if len(cat.Sources) != 1 || cat.Sources[0].Key != "abc" {
		t.Fatalf("unexpected catalog sources: %+v", cat.Sources)
	}
}

func TestParseLetAndImport(t *testing.T) {
	prog, errs := parseString(t, `
IMPORT "shared/units.mdsl"
LET region = "EU";`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	imp, ok := prog.Statements[0].(*ast.Import)
	if !ok {
		t.Fatalf("expected *ast.Import, got %T", prog.Statements[0])
	}
	if imp.Path != "shared/units.mdsl" {
		t.Errorf("expected import path shared/units.mdsl, got %q", imp.Path)
	}
	let, ok := prog.Statements[1].(*ast.LetStmt)
	if !ok {
		t.Fatalf("expected *ast.LetStmt, got %T", prog.Statements[1])
	}
	if let.Name != "region" {
		t.Errorf("expected let name region, got %q", let.Name)
	}
	if s, ok := let.Value.(*ast.StringLit); !ok || s.Value != "EU" {
		t.Errorf("expected let value EU, got %+v", let.Value)
	}
}

func TestParseTemplate(t *testing.T) {
	prog, errs := parseString(t, `
TEMPLATE "Newspaper" {
  characteristics { kind = "print"; }
}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	tmpl, ok := prog.Statements[0].(*ast.TemplateDecl)
	if !ok {
		t.Fatalf("expected *ast.TemplateDecl, got %T", prog.Statements[0])
	}
	if tmpl.Name != "Newspaper" {
		t.Errorf("expected name Newspaper, got %q", tmpl.Name)
	}
	if tmpl.Body.Characteristics == nil || len(tmpl.Body.Characteristics.Fields) != 1 {
		t.Fatalf("expected 1 characteristics field, got %+v", tmpl.Body.Characteristics)
	}
}
