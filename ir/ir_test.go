package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacedproton/medialang/ast"
	"github.com/pacedproton/medialang/diag"
	"github.com/pacedproton/medialang/mdate"
	"github.com/pacedproton/medialang/parser"
	"github.com/pacedproton/medialang/sema"
	"github.com/pacedproton/medialang/sourcemap"
)

func buildModel(t *testing.T, src string) (*sema.Symbols, *Model) {
	t.Helper()
	prog, perrs := parser.New(0, src).Parse()
	require.Empty(t, perrs)
	sink := &diag.Sink{}
	an := sema.New(sourcemap.New(), sink)
	an.Analyze([]*ast.Program{prog})
	require.False(t, sink.HasErrors(), "unexpected analysis errors: %v", sink.All())
	return an.Sym, Build(an.Sym, []*ast.Program{prog})
}

func TestBuildFlattensLifecycleAndIdentity(t *testing.T) {
	_, m := buildModel(t, `
FAMILY "Grupo Prisa" {
  OUTLET id=1 {
    identity { title = "El Pais"; url = "elpais.com"; }
    lifecycle {
      status "active" from "1976-05-04" to "1990-01-01";
      status "active" from "1990-01-01" current;
    }
  }
}`)
	require.Len(t, m.Outlets, 1)
	out := m.Outlets[0]
	assert.Equal(t, int64(1), out.ID)
	assert.Equal(t, "Grupo Prisa", out.Family)
	assert.Equal(t, "El Pais", out.Title)
	assert.Equal(t, "elpais.com", out.URL)
	require.Len(t, out.Lifecycle, 1, "adjacent same-label intervals should merge into one segment")
	assert.Equal(t, "active", out.Lifecycle[0].Label)
	from, _ := mdate.Parse("1976-05-04")
	assert.Equal(t, from, out.Lifecycle[0].From)
	assert.True(t, mdate.Compare(out.Lifecycle[0].To, mdate.Current()) == 0)
}

func TestTemplateExpansionChildOverridesParent(t *testing.T) {
	_, m := buildModel(t, `
TEMPLATE "Newspaper" {
  characteristics { kind = "print"; frequency = "daily"; }
}
FAMILY "F" {
  OUTLET EXTENDS TEMPLATE "Newspaper" id=1 {
    identity { title = "El Mundo"; }
    characteristics { frequency = "weekly"; }
  }
}`)
	out := m.Outlets[0]
	seg := out.At(mdate.Current())
	require.NotNil(t, seg)
	kind, ok := seg.Characteristics["kind"].(*ast.StringLit)
	require.True(t, ok)
	assert.Equal(t, "print", kind.Value, "template-only field should survive expansion")
	freq, ok := seg.Characteristics["frequency"].(*ast.StringLit)
	require.True(t, ok)
	assert.Equal(t, "weekly", freq.Value, "outlet's own field should win over the template's")
}

func TestBasedOnFoldsBaseCharacteristics(t *testing.T) {
	_, m := buildModel(t, `
FAMILY "F" {
  OUTLET id=1 {
    identity { title = "Base Paper"; }
    characteristics { kind = "print"; }
  }
  OUTLET BASED_ON 1 id=2 {
    identity { title = "Derived Paper"; }
    characteristics { frequency = "weekly"; }
  }
}`)
	var derived *Outlet
	for _, o := range m.Outlets {
		if o.ID == 2 {
			derived = o
		}
	}
	require.NotNil(t, derived)
	require.NotNil(t, derived.BasedOn)
	assert.Equal(t, int64(1), *derived.BasedOn)
	seg := derived.At(mdate.Current())
	require.NotNil(t, seg)
	kind, ok := seg.Characteristics["kind"].(*ast.StringLit)
	require.True(t, ok, "expected folded-in base characteristic")
	assert.Equal(t, "print", kind.Value)
}

func TestOutletRefOverrideMaterializesPeriodScopedSegments(t *testing.T) {
	_, m := buildModel(t, `
FAMILY "F" {
  OUTLET id=1 {
    identity { title = "ABC"; }
    characteristics { circulation = "broadsheet"; }
  }
  OUTLET_REF 1 {
    OVERRIDE FROM "2000-01-01" {
      FOR_PERIOD "2000-01-01" TO CURRENT {
        characteristics { circulation = "tabloid"; }
      }
    }
  }
}`)
	out := m.Outlets[0]
	require.Len(t, out.Segments, 2, "expected base segment plus one override segment")
	before, _ := mdate.Parse("1999-01-01")
	after, _ := mdate.Parse("2001-01-01")
	segBefore := out.At(before)
	require.NotNil(t, segBefore)
	c, _ := segBefore.Characteristics["circulation"].(*ast.StringLit)
	require.NotNil(t, c)
	assert.Equal(t, "broadsheet", c.Value)

	segAfter := out.At(after)
	require.NotNil(t, segAfter)
	c2, _ := segAfter.Characteristics["circulation"].(*ast.StringLit)
	require.NotNil(t, c2)
	assert.Equal(t, "tabloid", c2.Value)
}

func TestDiachronicAndSynchronousEdgesFlattened(t *testing.T) {
	_, m := buildModel(t, `
FAMILY "F" {
  OUTLET id=1 { identity { title = "A"; } }
  OUTLET id=2 { identity { title = "B"; } }
  DIACHRONIC_LINK "rename" {
    predecessor = 1;
    successor = 2;
    event_date = "2001-01-01";
  }
  SYNCHRONOUS_LINK "sister" {
    outlet_1 = { id = 1; role = "parent"; };
    outlet_2 = { id = 2; role = "sibling"; };
    period = "2000-01-01" to current;
  }
}`)
	require.Len(t, m.Diachronic, 1)
	assert.Equal(t, int64(1), m.Diachronic[0].Predecessor)
	assert.Equal(t, int64(2), m.Diachronic[0].Successor)

	require.Len(t, m.Synchronous, 1)
	assert.Equal(t, int64(1), m.Synchronous[0].Outlet1)
	assert.Equal(t, "parent", m.Synchronous[0].Outlet1Role)
	assert.Equal(t, int64(2), m.Synchronous[0].Outlet2)
}

func TestEventEntitiesAndStakesFlattened(t *testing.T) {
	_, m := buildModel(t, `
FAMILY "F" {
  OUTLET id=1 { identity { title = "A"; } }
}
EVENT "acquisition" {
  type = "acquisition";
  date = "2005-06-01";
  entities = {
    acquirer = { id = 1; role = "acquirer"; stake_before = 0; stake_after = 100; };
  };
}`)
	require.Len(t, m.Events, 1)
	ev := m.Events[0]
	require.Len(t, ev.Entities, 1)
	ent := ev.Entities[0]
	assert.Equal(t, int64(1), ent.OutletID)
	require.NotNil(t, ent.StakeAfter)
	assert.Equal(t, 100.0, *ent.StakeAfter)
}

func TestDataBlockFlattenedToMetricRecords(t *testing.T) {
	_, m := buildModel(t, `
FAMILY "F" {
  OUTLET id=1 { identity { title = "A"; } }
}
DATA FOR 1 {
  YEAR 2020 {
    metrics {
      circulation = { value = 50000; unit = "copies"; };
    }
  }
}`)
	require.Len(t, m.Metrics, 1)
	metric := m.Metrics[0]
	assert.Equal(t, int64(1), metric.OutletID)
	assert.Equal(t, 2020, metric.Year)
	assert.Equal(t, "circulation", metric.Name)
	assert.Equal(t, "50000", metric.Value.Text)
}
