// Package cyphergen emits the graph ("graph_view") projection of an IR
// model: constraints, indexes, node CREATEs, and MATCH...CREATE relationship
// statements, all namespaced by a configurable label prefix (spec.md §4.7).
package cyphergen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pacedproton/medialang/ast"
	"github.com/pacedproton/medialang/diag"
	"github.com/pacedproton/medialang/ir"
	"github.com/pacedproton/medialang/sema"
	"github.com/pacedproton/medialang/token"
)

// Generate renders the complete Cypher script for model, with labels and
// relationship types namespaced by prefix (spec.md §4.7: "a configurable
// prefix (default empty) ... applied to relationship types" too). Values
// that cannot be flattened to a scalar (spec.md §7
// EmitError.UnrepresentableValue) are reported to sink, which may be nil.
func Generate(sym *sema.Symbols, model *ir.Model, prefix string, sink *diag.Sink) string {
	var b strings.Builder
	writeConstraints(&b, prefix)
	writeIndexes(&b, prefix)
	writeFamilyNodes(&b, sym, prefix)
	writeTemplateNodes(&b, sym, prefix)
	writeVocabularyNodes(&b, sym, prefix)
	writeOutletNodes(&b, model, prefix, sink)
	writeRelationships(&b, model, prefix, sink)
	return b.String()
}

func label(prefix, name string) string { return prefix + name }

func writeConstraints(b *strings.Builder, prefix string) {
	fmt.Fprintf(b, "CREATE CONSTRAINT ON (n:%s) ASSERT n.id_mo IS UNIQUE;\n", label(prefix, "Outlet"))
	fmt.Fprintf(b, "CREATE CONSTRAINT ON (n:%s) ASSERT n.name IS UNIQUE;\n", label(prefix, "Family"))
	fmt.Fprintf(b, "CREATE CONSTRAINT ON (n:%s) ASSERT n.name IS UNIQUE;\n", label(prefix, "Template"))
	fmt.Fprintf(b, "CREATE CONSTRAINT ON (n:%s) ASSERT n.name IS UNIQUE;\n\n", label(prefix, "Vocabulary"))
}

func writeIndexes(b *strings.Builder, prefix string) {
	fmt.Fprintf(b, "CREATE INDEX ON :%s(mo_title);\n", label(prefix, "Outlet"))
	fmt.Fprintf(b, "CREATE INDEX ON :%s(name);\n", label(prefix, "Family"))
	fmt.Fprintf(b, "CREATE INDEX ON :%s(year);\n", label(prefix, "MarketData"))
	fmt.Fprintf(b, "CREATE INDEX ON :%s(name);\n\n", label(prefix, "Metric"))
}

func writeFamilyNodes(b *strings.Builder, sym *sema.Symbols, prefix string) {
	for _, fam := range sym.FamilyOrder {
		fmt.Fprintf(b, "CREATE (:%s {name: '%s'});\n", label(prefix, "Family"), escapeCypher(fam.Name))
	}
	b.WriteString("\n")
}

func writeTemplateNodes(b *strings.Builder, sym *sema.Symbols, prefix string) {
	var names []string
	for name := range sym.Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(b, "CREATE (:%s {name: '%s'});\n", label(prefix, "Template"), escapeCypher(name))
	}
	b.WriteString("\n")
}

func writeVocabularyNodes(b *strings.Builder, sym *sema.Symbols, prefix string) {
	var names []string
	for name := range sym.Vocabularies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := sym.Vocabularies[name]
		fmt.Fprintf(b, "CREATE (:%s {name: '%s'});\n", label(prefix, "Vocabulary"), escapeCypher(v.Name))
		for _, g := range v.Groups {
			for _, e := range g.Entries {
				fmt.Fprintf(b, "CREATE (:%s {vocabulary: '%s', group: '%s', key: '%s', value: '%s'});\n",
					label(prefix, "VocabularyEntry"), escapeCypher(v.Name), escapeCypher(g.Name), escapeCypher(e.Key), escapeCypher(e.Value))
			}
		}
	}
	b.WriteString("\n")
}

func writeOutletNodes(b *strings.Builder, model *ir.Model, prefix string, sink *diag.Sink) {
	outletLabel := label(prefix, "Outlet")
	identityLabel := label(prefix, "Identity")
	lifecycleLabel := label(prefix, "Lifecycle")
	charLabel := label(prefix, "Characteristic")
	metaLabel := label(prefix, "Metadata")

	for _, o := range model.Outlets {
		if o == nil {
			continue
		}
		fmt.Fprintf(b, "CREATE (:%s {id_mo: %d, mo_title: '%s'});\n", outletLabel, o.ID, escapeCypher(o.Title))
		fmt.Fprintf(b, "CREATE (:%s {id_mo: %d, title: '%s', url: '%s'});\n", identityLabel, o.ID, escapeCypher(o.Title), escapeCypher(o.URL))
		fmt.Fprintf(b, "MATCH (o:%s {id_mo: %d}), (i:%s {id_mo: %d}) CREATE (o)-[:%s]->(i);\n",
			outletLabel, o.ID, identityLabel, o.ID, label(prefix, "HAS_IDENTITY"))
		for _, lc := range o.Lifecycle {
			fmt.Fprintf(b, "CREATE (:%s {id_mo: %d, label: '%s', from_date: '%s', to_date: '%s'});\n",
				lifecycleLabel, o.ID, escapeCypher(lc.Label), lc.From.String(), lc.To.String())
		}
		if len(o.Lifecycle) > 0 {
			fmt.Fprintf(b, "MATCH (o:%s {id_mo: %d}), (l:%s {id_mo: %d}) CREATE (o)-[:%s]->(l);\n",
				outletLabel, o.ID, lifecycleLabel, o.ID, label(prefix, "HAS_LIFECYCLE"))
		}
		for _, seg := range o.Segments {
			writeBagNodes(b, charLabel, o.ID, seg.Characteristics, sink)
			writeBagNodes(b, metaLabel, o.ID, seg.Metadata, sink)
		}
		if len(o.Segments) > 0 {
			fmt.Fprintf(b, "MATCH (o:%s {id_mo: %d}), (c:%s {id_mo: %d}) CREATE (o)-[:%s]->(c);\n",
				outletLabel, o.ID, charLabel, o.ID, label(prefix, "HAS_CHARACTERISTIC"))
			fmt.Fprintf(b, "MATCH (o:%s {id_mo: %d}), (m:%s {id_mo: %d}) CREATE (o)-[:%s]->(m);\n",
				outletLabel, o.ID, metaLabel, o.ID, label(prefix, "HAS_METADATA"))
		}
		if o.Family != "" {
			fmt.Fprintf(b, "MATCH (f:%s {name: '%s'}), (o:%s {id_mo: %d}) CREATE (f)-[:%s]->(o);\n",
				label(prefix, "Family"), escapeCypher(o.Family), outletLabel, o.ID, label(prefix, "HAS_OUTLET"))
		}
		if o.Extends != "" {
			fmt.Fprintf(b, "MATCH (o:%s {id_mo: %d}), (t:%s {name: '%s'}) CREATE (o)-[:%s]->(t);\n",
				outletLabel, o.ID, label(prefix, "Template"), escapeCypher(o.Extends), label(prefix, "EXTENDS_TEMPLATE"))
		}
		if o.BasedOn != nil {
			fmt.Fprintf(b, "MATCH (o:%s {id_mo: %d}), (base:%s {id_mo: %d}) CREATE (o)-[:%s]->(base);\n",
				outletLabel, o.ID, outletLabel, *o.BasedOn, label(prefix, "BASED_ON"))
		}
	}
	b.WriteString("\n")
}

func writeBagNodes(b *strings.Builder, label string, id int64, bag map[string]ast.Value, sink *diag.Sink) {
	var keys []string
	for k := range bag {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "CREATE (:%s {id_mo: %d, key: '%s', value: '%s'});\n", label, id, escapeCypher(k), escapeCypher(renderValue(sink, bag[k])))
	}
}

func writeRelationships(b *strings.Builder, model *ir.Model, prefix string, sink *diag.Sink) {
	outletLabel := label(prefix, "Outlet")
	for _, d := range model.Diachronic {
		fmt.Fprintf(b,
			"MATCH (a:%s {id_mo: %d}), (s:%s {id_mo: %d}) CREATE (a)-[:%s {name: '%s', event_date: '%s', relationship_type: '%s', triggered_by_event: '%s'}]->(s);\n",
			outletLabel, d.Predecessor, outletLabel, d.Successor, label(prefix, "DIACHRONIC_LINK"),
			escapeCypher(d.Name), escapeCypher(renderValue(sink, d.EventDate)), escapeCypher(renderValue(sink, d.RelationshipType)), escapeCypher(d.TriggeredByEvent))
	}
	for _, s := range model.Synchronous {
		fmt.Fprintf(b,
			"MATCH (a:%s {id_mo: %d}), (b:%s {id_mo: %d}) CREATE (a)-[:%s {name: '%s', relationship_type: '%s', from_date: '%s', to_date: '%s', created_by_event: '%s'}]->(b);\n",
			outletLabel, s.Outlet1, outletLabel, s.Outlet2, label(prefix, "SYNCHRONOUS_LINK"),
			escapeCypher(s.Name), escapeCypher(renderValue(sink, s.RelationshipType)), s.From.String(), s.To.String(), escapeCypher(s.CreatedByEvent))
	}
	for _, m := range model.Metrics {
		value := "null"
		if m.Value != nil {
			value = m.Value.Text
		}
		fmt.Fprintf(b, "MERGE (:%s {id_mo: %d, year: %d});\n", label(prefix, "MarketData"), m.OutletID, m.Year)
		fmt.Fprintf(b,
			"MATCH (o:%s {id_mo: %d}), (md:%s {id_mo: %d, year: %d}) CREATE (o)-[:%s]->(md), (md)-[:%s]->(:%s {name: '%s', value: %s, unit: '%s', source: '%s'});\n",
			outletLabel, m.OutletID, label(prefix, "MarketData"), m.OutletID, m.Year, label(prefix, "HAS_MARKET_DATA"),
			label(prefix, "HAS_METRIC"), label(prefix, "Metric"), escapeCypher(m.Name), value, escapeCypher(m.Unit), escapeCypher(m.Source))
	}
	b.WriteString("\n")
}

// renderValue flattens a value-position AST node to its textual form for
// a Cypher property. A value with no scalar form (an object or array
// literal reaching a scalar slot) is reported to sink as
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
		if val.Value {
			return "true"
		}
		return "false"
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
			sink.Warnf(diag.UnrepresentableValue, spanOf(v), "value cannot be flattened to a scalar property; emitting placeholder")
		}
		return "complex_object"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func spanOf(n ast.Node) token.Span {
	return token.Span{File: n.Pos().File, Start: n.Pos().Offset, End: n.End().Offset}
}

// escapeCypher backslash-escapes single quotes and newlines, as property
// values are always emitted as quoted strings (spec.md §4.7).
func escapeCypher(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "'", "\\'")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
