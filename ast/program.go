package ast

import "github.com/pacedproton/medialang/token"

// Program is the root of an MDSL compilation unit's AST: an ordered
// sequence of top-level statements (spec.md §3 "Program").
type Program struct {
	File       token.FileID
	Statements []Stmt
}

// Import is `IMPORT "relative/path.mdsl";`, resolved relative to the
// importing file (spec.md §6).
type Import struct {
	StartPos token.Pos
	EndPos   token.Pos
	Path     string
}

func (*Import) stmtNode()       {}
func (i *Import) Pos() token.Pos { return i.StartPos }
func (i *Import) End() token.Pos { return i.EndPos }

// LetStmt binds a name to a literal value (spec.md §3 "Variable binding").
// sema keeps all bindings in one program-wide table: a name declared in any
// loaded file is visible in every other, and is not limited to the
// declaring file and its importers.
type LetStmt struct {
	StartPos token.Pos
	EndPos   token.Pos
	Name     string
	Value    Value
}

func (*LetStmt) stmtNode()       {}
func (l *LetStmt) Pos() token.Pos { return l.StartPos }
func (l *LetStmt) End() token.Pos { return l.EndPos }
