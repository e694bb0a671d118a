// Package sqlgen emits the relational ("tables_view") projection of an IR
// model: a fixed core schema, one CREATE TABLE per declared UNIT, and
// INSERT statements in the deterministic order spec.md §4.6 requires.
package sqlgen

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pacedproton/medialang/ast"
	"github.com/pacedproton/medialang/diag"
	"github.com/pacedproton/medialang/ir"
	"github.com/pacedproton/medialang/mdate"
	"github.com/pacedproton/medialang/sema"
	"github.com/pacedproton/medialang/token"
)

// coreSchema is the fixed set of tables spec.md §4.6 names, in the order
// they must be created (foreign keys reference only earlier tables).
const coreSchema = `CREATE TABLE families (
  name VARCHAR(255) PRIMARY KEY
);

CREATE TABLE templates (
  name VARCHAR(255) PRIMARY KEY
);

CREATE TABLE media_outlets (
  id_mo INTEGER PRIMARY KEY,
  family_name VARCHAR(255) REFERENCES families(name),
  template_name VARCHAR(255) REFERENCES templates(name),
  based_on INTEGER REFERENCES media_outlets(id_mo)
);

CREATE TABLE outlet_identity (
  id_mo INTEGER REFERENCES media_outlets(id_mo),
  title VARCHAR(500),
  url VARCHAR(500),
  historical_title VARCHAR(500),
  from_date DATE,
  to_date DATE
);

CREATE TABLE outlet_lifecycle (
  id_mo INTEGER REFERENCES media_outlets(id_mo),
  label VARCHAR(255),
  from_date DATE,
  to_date DATE
);

CREATE TABLE outlet_characteristics (
  id_mo INTEGER REFERENCES media_outlets(id_mo),
  from_date DATE,
  to_date DATE,
  key VARCHAR(255),
  value TEXT
);

CREATE TABLE outlet_metadata (
  id_mo INTEGER REFERENCES media_outlets(id_mo),
  from_date DATE,
  to_date DATE,
  key VARCHAR(255),
  value TEXT
);

CREATE TABLE relationships (
  name VARCHAR(255) PRIMARY KEY,
  kind VARCHAR(20)
);

CREATE TABLE diachronic_relationships (
  name VARCHAR(255) REFERENCES relationships(name),
  predecessor INTEGER REFERENCES media_outlets(id_mo),
  successor INTEGER REFERENCES media_outlets(id_mo),
  event_date DATE,
  relationship_type VARCHAR(255),
  triggered_by_event VARCHAR(255)
);

CREATE TABLE synchronous_relationships (
  name VARCHAR(255) REFERENCES relationships(name),
  outlet_1 INTEGER REFERENCES media_outlets(id_mo),
  outlet_1_role VARCHAR(255),
  outlet_2 INTEGER REFERENCES media_outlets(id_mo),
  outlet_2_role VARCHAR(255),
  relationship_type VARCHAR(255),
  from_date DATE,
  to_date DATE,
  created_by_event VARCHAR(255)
);

CREATE TABLE market_data (
  id_mo INTEGER REFERENCES media_outlets(id_mo),
  year INTEGER,
  metric_name VARCHAR(255),
  value DECIMAL(15,2),
  unit VARCHAR(50),
  source VARCHAR(255),
  comment TEXT
);

CREATE TABLE data_aggregation (
  id_mo INTEGER REFERENCES media_outlets(id_mo),
  key VARCHAR(255),
  value TEXT
);

CREATE TABLE vocabularies (
  name VARCHAR(255) PRIMARY KEY
);

CREATE TABLE vocabulary_entries (
  vocabulary_name VARCHAR(255) REFERENCES vocabularies(name),
  group_name VARCHAR(255),
  entry_key VARCHAR(255),
  entry_value VARCHAR(500)
);

CREATE TABLE sources (
  key VARCHAR(255) PRIMARY KEY,
  catalog_name VARCHAR(255) REFERENCES templates(name)
);
`

// Generate renders the complete SQL script: core schema, per-UNIT tables,
// then INSERT statements in declaration order (spec.md §4.6 "Determinism").
// Values that cannot be flattened to a scalar (spec.md §7
// EmitError.UnrepresentableValue) are reported to sink, which may be nil.
func Generate(sym *sema.Symbols, model *ir.Model, sink *diag.Sink) string {
	var b strings.Builder
	b.WriteString(coreSchema)
	b.WriteString("\n")
	writeUnitTables(&b, sym)
	writeVocabularyInserts(&b, sym)
	writeSourceInserts(&b, sym)
	writeFamilyAndTemplateInserts(&b, sym)
	writeOutletInserts(&b, model, sink)
	writeRelationshipInserts(&b, model, sink)
	writeMarketDataInserts(&b, model)
	return b.String()
}

func writeUnitTables(b *strings.Builder, sym *sema.Symbols) {
	var names []string
	for name := range sym.Units {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		u := sym.Units[name]
		fmt.Fprintf(b, "CREATE TABLE %s (\n", quoteIdent(u.Name))
		for i, f := range u.Fields {
			fmt.Fprintf(b, "  %s %s", quoteIdent(f.Name), sqlType(f))
			if i < len(u.Fields)-1 {
				b.WriteString(",")
			}
			b.WriteString("\n")
		}
		b.WriteString(");\n\n")
	}
}

// sqlType implements spec.md §4.6's UNIT-field type mapping table.
func sqlType(f *ast.UnitField) string {
	switch f.Type {
	case ast.TypeID:
		if f.PrimaryKey {
			return "INTEGER PRIMARY KEY"
		}
		return "INTEGER"
	case ast.TypeText:
		if f.TextLen > 0 && f.TextLen <= 255 {
			return fmt.Sprintf("VARCHAR(%d)", f.TextLen)
		}
		return "TEXT"
	case ast.TypeNumber:
		// Unit declarations carry no sample data to test integrality
		// against, so the ambiguous case in spec.md §4.6 ("When
		// ambiguous, default to DECIMAL(15,2)") always applies here.
		return "DECIMAL(15,2)"
	case ast.TypeBoolean:
		return "BOOLEAN"
	case ast.TypeCategory:
		list := make([]string, len(f.Categories))
		for i, c := range f.Categories {
			list[i] = "'" + escapeSQL(c) + "'"
		}
		return fmt.Sprintf("VARCHAR(100) CHECK (%s IN (%s))", quoteIdent(f.Name), strings.Join(list, ", "))
	}
	return "TEXT"
}

func writeVocabularyInserts(b *strings.Builder, sym *sema.Symbols) {
	var names []string
	for name := range sym.Vocabularies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := sym.Vocabularies[name]
		fmt.Fprintf(b, "INSERT INTO vocabularies (name) VALUES ('%s');\n", escapeSQL(v.Name))
		for _, g := range v.Groups {
			for _, e := range g.Entries {
				fmt.Fprintf(b, "INSERT INTO vocabulary_entries (vocabulary_name, group_name, entry_key, entry_value) VALUES ('%s', '%s', '%s', '%s');\n",
					escapeSQL(v.Name), escapeSQL(g.Name), escapeSQL(e.Key), escapeSQL(e.Value))
			}
		}
	}
	b.WriteString("\n")
}

func writeSourceInserts(b *strings.Builder, sym *sema.Symbols) {
	var names []string
	for name := range sym.Catalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := sym.Catalogs[name]
		for _, src := range c.Sources {
			fmt.Fprintf(b, "INSERT INTO sources (key, catalog_name) VALUES ('%s', '%s');\n", escapeSQL(src.Key), escapeSQL(c.Name))
		}
	}
	b.WriteString("\n")
}

func writeFamilyAndTemplateInserts(b *strings.Builder, sym *sema.Symbols) {
	for _, fam := range sym.FamilyOrder {
		fmt.Fprintf(b, "INSERT INTO families (name) VALUES ('%s');\n", escapeSQL(fam.Name))
	}
	var tnames []string
	for name := range sym.Templates {
		tnames = append(tnames, name)
	}
	sort.Strings(tnames)
	for _, name := range tnames {
		fmt.Fprintf(b, "INSERT INTO templates (name) VALUES ('%s');\n", escapeSQL(name))
	}
	b.WriteString("\n")
}

// writeOutletInserts follows spec.md §4.6's canonical per-outlet block
// order: identity, lifecycle, characteristics, metadata.
func writeOutletInserts(b *strings.Builder, model *ir.Model, sink *diag.Sink) {
	for _, o := range model.Outlets {
		if o == nil {
			continue
		}
		familyVal, templateVal, basedOnVal := "NULL", "NULL", "NULL"
		if o.Family != "" {
			familyVal = "'" + escapeSQL(o.Family) + "'"
		}
		if o.Extends != "" {
			templateVal = "'" + escapeSQL(o.Extends) + "'"
		}
		if o.BasedOn != nil {
			basedOnVal = strconv.FormatInt(*o.BasedOn, 10)
		}
		fmt.Fprintf(b, "INSERT INTO media_outlets (id_mo, family_name, template_name, based_on) VALUES (%d, %s, %s, %s);\n",
			o.ID, familyVal, templateVal, basedOnVal)
		if o.Title != "" || o.URL != "" {
			fmt.Fprintf(b, "INSERT INTO outlet_identity (id_mo, title, url) VALUES (%d, '%s', '%s');\n",
				o.ID, escapeSQL(o.Title), escapeSQL(o.URL))
		}
		for _, ht := range o.HistoricalTitles {
			fmt.Fprintf(b, "INSERT INTO outlet_identity (id_mo, historical_title, from_date, to_date) VALUES (%d, '%s', '%s', '%s');\n",
				o.ID, escapeSQL(ht.Title), ht.From.String(), ht.To.String())
		}
		for _, lc := range o.Lifecycle {
			fmt.Fprintf(b, "INSERT INTO outlet_lifecycle (id_mo, label, from_date, to_date) VALUES (%d, '%s', '%s', '%s');\n",
				o.ID, escapeSQL(lc.Label), lc.From.String(), lc.To.String())
		}
		for _, seg := range o.Segments {
			writeBagInserts(b, "outlet_characteristics", o.ID, seg.From, seg.To, seg.Characteristics, sink)
			writeBagInserts(b, "outlet_metadata", o.ID, seg.From, seg.To, seg.Metadata, sink)
		}
	}
	b.WriteString("\n")
}

func writeBagInserts(b *strings.Builder, table string, id int64, from, to mdate.Date, bag map[string]ast.Value, sink *diag.Sink) {
	var keys []string
	for k := range bag {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "INSERT INTO %s (id_mo, from_date, to_date, key, value) VALUES (%d, '%s', '%s', '%s', '%s');\n",
			table, id, from.String(), to.String(), escapeSQL(k), escapeSQL(renderValue(sink, bag[k])))
	}
}

func writeRelationshipInserts(b *strings.Builder, model *ir.Model, sink *diag.Sink) {
	for _, d := range model.Diachronic {
		fmt.Fprintf(b, "INSERT INTO relationships (name, kind) VALUES ('%s', 'diachronic');\n", escapeSQL(d.Name))
		fmt.Fprintf(b, "INSERT INTO diachronic_relationships (name, predecessor, successor, event_date, relationship_type, triggered_by_event) VALUES ('%s', %d, %d, '%s', '%s', '%s');\n",
			escapeSQL(d.Name), d.Predecessor, d.Successor, escapeSQL(renderValue(sink, d.EventDate)), escapeSQL(renderValue(sink, d.RelationshipType)), escapeSQL(d.TriggeredByEvent))
	}
	for _, s := range model.Synchronous {
		fmt.Fprintf(b, "INSERT INTO relationships (name, kind) VALUES ('%s', 'synchronous');\n", escapeSQL(s.Name))
		fmt.Fprintf(b, "INSERT INTO synchronous_relationships (name, outlet_1, outlet_1_role, outlet_2, outlet_2_role, relationship_type, from_date, to_date, created_by_event) VALUES ('%s', %d, '%s', %d, '%s', '%s', '%s', '%s', '%s');\n",
			escapeSQL(s.Name), s.Outlet1, escapeSQL(s.Outlet1Role), s.Outlet2, escapeSQL(s.Outlet2Role),
			escapeSQL(renderValue(sink, s.RelationshipType)), s.From.String(), s.To.String(), escapeSQL(s.CreatedByEvent))
	}
	b.WriteString("\n")
}

func writeMarketDataInserts(b *strings.Builder, model *ir.Model) {
	for _, m := range model.Metrics {
		value := "NULL"
		if m.Value != nil {
			value = m.Value.Text
		}
		fmt.Fprintf(b, "INSERT INTO market_data (id_mo, year, metric_name, value, unit, source, comment) VALUES (%d, %d, '%s', %s, '%s', '%s', '%s');\n",
			m.OutletID, m.Year, escapeSQL(m.Name), value, escapeSQL(m.Unit), escapeSQL(m.Source), escapeSQL(m.Comment))
	}
}

// renderValue flattens a value-position AST node to its textual form for
// storage in a generic TEXT column. A value that has no scalar form (an
// object or array literal reaching a scalar slot) is reported to sink as
// diag.UnrepresentableValue and flattened to a "complex_object" placeholder
// (spec.md §7 EmitError.UnrepresentableValue). sink may be nil.
func renderValue(sink *diag.Sink, v ast.Value) string {
	switch val := v.(type) {
	case nil:
		return ""
	case *ast.StringLit:
		return val.Value
	case *ast.NumberLit:
		return val.Text
	case *ast.BoolLit:
		return strconv.FormatBool(val.Value)
	case *ast.IdentLit:
		return val.Name
	case *ast.DateLit:
		if val.Current {
			return "CURRENT"
		}
		return val.Text
	case *ast.DateRangeLit:
		return renderValue(sink, val.From) + " TO " + renderValue(sink, val.To)
	case *ast.VarRef:
		return "$" + val.Name
	case *ast.ObjectLit, *ast.ArrayLit:
		if sink != nil {
			sink.Warnf(diag.UnrepresentableValue, spanOf(v), "value cannot be flattened to a scalar column; emitting placeholder")
		}
		return "complex_object"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func spanOf(n ast.Node) token.Span {
	return token.Span{File: n.Pos().File, Start: n.Pos().Offset, End: n.End().Offset}
}

// escapeSQL doubles single quotes; no other interpolation of raw user text
// (spec.md §4.6 "String literal escaping").
func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func quoteIdent(s string) string {
	return s
}
