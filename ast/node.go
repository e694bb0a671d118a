// Package ast defines the typed, position-carrying abstract syntax tree for
// MDSL programs (spec.md §4.4: "AST — typed tree carrying source positions;
// tolerates case-insensitive keywords and trailing commas/semicolons").
package ast

import "github.com/pacedproton/medialang/token"

// Node is the base interface implemented by every AST node.
type Node interface {
	Pos() token.Pos
	End() token.Pos
}

// Stmt is a top-level program statement.
type Stmt interface {
	Node
	stmtNode()
}

// Value is any value-position expression: a literal, a variable reference,
// an object/array literal, or a date expression (spec.md §4.3 "Expressions").
type Value interface {
	Node
	valueNode()
}

// Annotation is a uniformly represented `@name` or `@name = value` or
// `@name "literal"` tag attached to the nearest enclosing construct. It
// takes no part in semantic analysis, and neither the SQL nor the Cypher
// backend emits it.
type Annotation struct {
	StartPos token.Pos
	EndPos   token.Pos
	Name     string
	Value    Value // nil if the annotation carries no payload
}

func (a *Annotation) Pos() token.Pos { return a.StartPos }
func (a *Annotation) End() token.Pos { return a.EndPos }

// Field is a single `key = value` entry inside an object literal or a
// block body.
type Field struct {
	StartPos token.Pos
	EndPos   token.Pos
	Key      string
	Value    Value
}

func (f *Field) Pos() token.Pos { return f.StartPos }
func (f *Field) End() token.Pos { return f.EndPos }
