package ast

import "github.com/pacedproton/medialang/token"

// StringLit is a double-quoted string literal.
type StringLit struct {
	StartPos token.Pos
	EndPos   token.Pos
	Value    string
}

func (*StringLit) valueNode()        {}
func (s *StringLit) Pos() token.Pos  { return s.StartPos }
func (s *StringLit) End() token.Pos  { return s.EndPos }

// NumberLit is a signed integer or decimal literal.
type NumberLit struct {
	StartPos token.Pos
	EndPos   token.Pos
	Text     string // original text, preserved for exact re-emission
}

func (*NumberLit) valueNode()       {}
func (n *NumberLit) Pos() token.Pos { return n.StartPos }
func (n *NumberLit) End() token.Pos { return n.EndPos }

// BoolLit is the TRUE/FALSE literal.
type BoolLit struct {
	StartPos token.Pos
	EndPos   token.Pos
	Value    bool
}

func (*BoolLit) valueNode()       {}
func (b *BoolLit) Pos() token.Pos { return b.StartPos }
func (b *BoolLit) End() token.Pos { return b.EndPos }

// IdentLit is a bare identifier used in a value position (e.g. an
// unquoted relationship-type value). Bare-identifier link names are not
// IdentLits: links keep them in Name with NameIsIdent set.
type IdentLit struct {
	StartPos token.Pos
	EndPos   token.Pos
	Name     string
}

func (*IdentLit) valueNode()       {}
func (i *IdentLit) Pos() token.Pos { return i.StartPos }
func (i *IdentLit) End() token.Pos { return i.EndPos }

// VarRef is a `$name` variable reference, resolved during the semantic
// pass (spec.md §4.4 Pass B).
type VarRef struct {
	StartPos token.Pos
	EndPos   token.Pos
	Name     string
}

func (*VarRef) valueNode()       {}
func (v *VarRef) Pos() token.Pos { return v.StartPos }
func (v *VarRef) End() token.Pos { return v.EndPos }

// ObjectLit is `{ key = value; key = value; ... }`, accepting a trailing
// `,` or `;` before the closing brace (spec.md §4.3).
type ObjectLit struct {
	StartPos token.Pos
	EndPos   token.Pos
	Fields   []*Field
}

func (*ObjectLit) valueNode()       {}
func (o *ObjectLit) Pos() token.Pos { return o.StartPos }
func (o *ObjectLit) End() token.Pos { return o.EndPos }

// Get returns the value bound to key, or nil if key is absent.
func (o *ObjectLit) Get(key string) Value {
	if o == nil {
		return nil
	}
	for _, f := range o.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// ArrayLit is `[ value, value, ... ]`.
type ArrayLit struct {
	StartPos token.Pos
	EndPos   token.Pos
	Elems    []Value
}

func (*ArrayLit) valueNode()       {}
func (a *ArrayLit) Pos() token.Pos { return a.StartPos }
func (a *ArrayLit) End() token.Pos { return a.EndPos }

// DateLit is a `"YYYY-MM-DD"` date or the bare CURRENT sentinel.
type DateLit struct {
	StartPos token.Pos
	EndPos   token.Pos
	Text     string // "YYYY-MM-DD", or "" when Current is true
	Current  bool
}

func (*DateLit) valueNode()       {}
func (d *DateLit) Pos() token.Pos { return d.StartPos }
func (d *DateLit) End() token.Pos { return d.EndPos }

// DateRangeLit is `<date> TO <date>`.
type DateRangeLit struct {
	StartPos token.Pos
	EndPos   token.Pos
	From     *DateLit
	To       *DateLit
}

func (*DateRangeLit) valueNode()       {}
func (d *DateRangeLit) Pos() token.Pos { return d.StartPos }
func (d *DateRangeLit) End() token.Pos { return d.EndPos }
