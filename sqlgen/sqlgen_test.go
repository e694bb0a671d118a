package sqlgen

import (
	"strings"
	"testing"

	vitess "github.com/blastrain/vitess-sqlparser/sqlparser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacedproton/medialang/ast"
	"github.com/pacedproton/medialang/diag"
	"github.com/pacedproton/medialang/ir"
	"github.com/pacedproton/medialang/parser"
	"github.com/pacedproton/medialang/sema"
	"github.com/pacedproton/medialang/sourcemap"
)

func generateSrc(t *testing.T, src string) (*sema.Symbols, string, *diag.Sink) {
	t.Helper()
	prog, perrs := parser.New(0, src).Parse()
	require.Empty(t, perrs)
	sink := &diag.Sink{}
	an := sema.New(sourcemap.New(), sink)
	an.Analyze([]*ast.Program{prog})
	require.False(t, sink.HasErrors(), "unexpected analysis errors: %v", sink.All())
	model := ir.Build(an.Sym, []*ast.Program{prog})
	genSink := &diag.Sink{}
	return an.Sym, Generate(an.Sym, model, genSink), genSink
}

func TestGenerateIncludesCoreSchema(t *testing.T) {
	_, out, _ := generateSrc(t, `FAMILY "F" { OUTLET id=1 { identity { title = "A"; } } }`)
	assert.Contains(t, out, "CREATE TABLE media_outlets")
	assert.Contains(t, out, "CREATE TABLE outlet_characteristics")
	assert.Contains(t, out, "CREATE TABLE diachronic_relationships")
}

func TestSQLTypeMapping(t *testing.T) {
	tests := []struct {
		field *ast.UnitField
		want  string
	}{
		{&ast.UnitField{Type: ast.TypeID, PrimaryKey: true}, "INTEGER PRIMARY KEY"},
		{&ast.UnitField{Type: ast.TypeID}, "INTEGER"},
		{&ast.UnitField{Type: ast.TypeText, TextLen: 100}, "VARCHAR(100)"},
		{&ast.UnitField{Type: ast.TypeText, TextLen: 500}, "TEXT"},
		{&ast.UnitField{Type: ast.TypeText}, "TEXT"},
		{&ast.UnitField{Type: ast.TypeNumber}, "DECIMAL(15,2)"},
		{&ast.UnitField{Type: ast.TypeBoolean}, "BOOLEAN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sqlType(tt.field))
	}
}

func TestSQLTypeCategoryEmitsCheckConstraint(t *testing.T) {
	f := &ast.UnitField{Type: ast.TypeCategory, Name: "kind", Categories: []string{"print", "broadcast"}}
	got := sqlType(f)
	assert.Contains(t, got, "VARCHAR(100) CHECK")
	assert.Contains(t, got, "'print'")
	assert.Contains(t, got, "'broadcast'")
}

func TestGenerateEmitsFamilyTemplateAndBasedOnColumns(t *testing.T) {
	_, out, _ := generateSrc(t, `
TEMPLATE "Newspaper" { characteristics { kind = "print"; } }
FAMILY "Grupo Prisa" {
  OUTLET EXTENDS TEMPLATE "Newspaper" id=1 { identity { title = "El Pais"; } }
  OUTLET BASED_ON 1 id=2 { identity { title = "Derived"; } }
}`)
	assert.Contains(t, out, "INSERT INTO families (name) VALUES ('Grupo Prisa');")
	assert.Contains(t, out, "INSERT INTO templates (name) VALUES ('Newspaper');")
	assert.Contains(t, out, "INSERT INTO media_outlets (id_mo, family_name, template_name, based_on) VALUES (1, 'Grupo Prisa', 'Newspaper', NULL);")
	assert.Contains(t, out, "INSERT INTO media_outlets (id_mo, family_name, template_name, based_on) VALUES (2, 'Grupo Prisa', NULL, 1);")
}

func TestGenerateEscapesSingleQuotes(t *testing.T) {
	_, out, _ := generateSrc(t, `FAMILY "F" { OUTLET id=1 { identity { title = "O'Hare Press"; } } }`)
	assert.Contains(t, out, "O''Hare Press")
}

// TestGeneratedInsertsParseAsValidSQL cross-checks every emitted INSERT
// statement against an independent SQL parser, the same role vitess-sqlparser
// plays in the teacher's comparative suite.
func TestGeneratedInsertsParseAsValidSQL(t *testing.T) {
	_, out, _ := generateSrc(t, `
TEMPLATE "Newspaper" { characteristics { kind = "print"; } }
FAMILY "Grupo Prisa" {
  OUTLET EXTENDS TEMPLATE "Newspaper" id=1 {
    identity { title = "El Pais"; url = "elpais.com"; }
    characteristics { kind = "print"; }
  }
}
DATA FOR 1 {
  YEAR 2020 {
    metrics { circulation = { value = 50000; unit = "copies"; }; }
  }
}`)
	checked := 0
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "INSERT INTO") {
			continue
		}
		_, err := vitess.Parse(strings.TrimSuffix(line, ";"))
		require.NoError(t, err, "vitess-sqlparser rejected emitted statement: %s", line)
		checked++
	}
	require.Greater(t, checked, 0, "expected at least one INSERT statement to check")
}

func TestGenerateFlattensComplexCharacteristicToPlaceholder(t *testing.T) {
	_, out, genSink := generateSrc(t, `
FAMILY "F" {
  OUTLET id=1 {
    identity { title = "A"; }
    characteristics {
      distribution = { print = 60; digital = 40; };
    }
  }
}`)
	assert.Contains(t, out, "'distribution', 'complex_object'")
	kinds := map[diag.Kind]bool{}
	for _, d := range genSink.All() {
		kinds[d.Kind] = true
	}
	assert.True(t, kinds[diag.UnrepresentableValue])
}

func TestGenerateMarketDataInsert(t *testing.T) {
	_, out, _ := generateSrc(t, `
FAMILY "F" {
  OUTLET id=1 { identity { title = "A"; } }
}
DATA FOR 1 {
  YEAR 2020 {
    metrics { circulation = { value = 50000; unit = "copies"; }; }
  }
}`)
	assert.Contains(t, out, "INSERT INTO market_data (id_mo, year, metric_name, value, unit, source, comment) VALUES (1, 2020, 'circulation', 50000, 'copies', '', '');")
}
