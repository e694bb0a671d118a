package ast

import "github.com/pacedproton/medialang/token"

// UnitType is the declared type of a Unit field (spec.md §3).
type UnitType int

const (
	TypeID UnitType = iota
	TypeText
	TypeNumber
	TypeBoolean
	TypeCategory
)

func (t UnitType) String() string {
	switch t {
	case TypeID:
		return "ID"
	case TypeText:
		return "TEXT"
	case TypeNumber:
		return "NUMBER"
	case TypeBoolean:
		return "BOOLEAN"
	case TypeCategory:
		return "CATEGORY"
	}
	return "UNKNOWN"
}

// UnitField is one (name, type, primary-key flag) triple of a Unit.
type UnitField struct {
	StartPos   token.Pos
	EndPos     token.Pos
	Name       string
	Type       UnitType
	TextLen    int      // TEXT(n); 0 means unbounded TEXT
	Categories []string // CATEGORY(lit, lit, ...)
	PrimaryKey bool
}

func (f *UnitField) Pos() token.Pos { return f.StartPos }
func (f *UnitField) End() token.Pos { return f.EndPos }

// UnitDecl is a named schema with ordered fields (spec.md §3 "Unit").
type UnitDecl struct {
	StartPos token.Pos
	EndPos   token.Pos
	Name     string
	Fields   []*UnitField
}

func (*UnitDecl) stmtNode()        {}
func (u *UnitDecl) Pos() token.Pos { return u.StartPos }
func (u *UnitDecl) End() token.Pos { return u.EndPos }

// VocabEntry is one key->value mapping within a Vocabulary group. Key may
// be a bare number or identifier; both spellings are kept verbatim.
type VocabEntry struct {
	StartPos token.Pos
	EndPos   token.Pos
	Key      string
	Value    string
}

func (e *VocabEntry) Pos() token.Pos { return e.StartPos }
func (e *VocabEntry) End() token.Pos { return e.EndPos }

// VocabularyGroup is one inner group of a Vocabulary; keys are unique
// within the group (spec.md §3 invariant).
type VocabularyGroup struct {
	StartPos token.Pos
	EndPos   token.Pos
	Name     string
	Entries  []*VocabEntry
}

func (g *VocabularyGroup) Pos() token.Pos { return g.StartPos }
func (g *VocabularyGroup) End() token.Pos { return g.EndPos }

// VocabularyDecl is a named enumeration made of one or more groups
// (spec.md §3 "Vocabulary").
type VocabularyDecl struct {
	StartPos token.Pos
	EndPos   token.Pos
	Name     string
	Groups   []*VocabularyGroup
}

func (*VocabularyDecl) stmtNode()        {}
func (v *VocabularyDecl) Pos() token.Pos { return v.StartPos }
func (v *VocabularyDecl) End() token.Pos { return v.EndPos }

// SourceEntry is one named entry of a Catalog (spec.md §3 "Catalog / Source").
// Its well-known fields (display_name, full_name, description,
// anmi_source_id_components) are carried generically in Body so the parser
// does not need a dedicated sub-grammar. sema, ir and the backends use only
// Key; Body is not read after parsing.
type SourceEntry struct {
	StartPos    token.Pos
	EndPos      token.Pos
	Key         string
	Body        *ObjectLit
	Annotations []*Annotation
}

func (s *SourceEntry) Pos() token.Pos { return s.StartPos }
func (s *SourceEntry) End() token.Pos { return s.EndPos }

// CatalogDecl is a named catalog of source entries.
type CatalogDecl struct {
	StartPos token.Pos
	EndPos   token.Pos
	Name     string
	Sources  []*SourceEntry
}

func (*CatalogDecl) stmtNode()        {}
func (c *CatalogDecl) Pos() token.Pos { return c.StartPos }
func (c *CatalogDecl) End() token.Pos { return c.EndPos }
