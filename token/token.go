// Package token defines MDSL token types and source positions.
package token

import "fmt"

// Token represents an MDSL lexical token kind.
type Token int

const (
	ILLEGAL Token = iota
	EOF
	COMMENT

	literalBeg
	IDENT  // free-standing identifier
	NUMBER // 123, -1, 3.14
	STRING // "quoted string"
	VARREF // $name
	ANNOT  // @name
	literalEnd

	punctBeg
	LBRACE    // {
	RBRACE    // }
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	ASSIGN    // =
	DOT       // .
	punctEnd

	keywordBeg
	IMPORT
	LET
	UNIT
	VOCABULARY
	CATALOG
	SOURCE
	TEMPLATE
	OUTLET
	FAMILY
	GROUP
	BASED_ON
	EXTENDS
	DATA
	FOR
	YEAR
	METRICS
	AGGREGATION
	DIACHRONIC_LINK
	SYNCHRONOUS_LINK
	EVENT
	PREDECESSOR
	SUCCESSOR
	EVENT_DATE
	RELATIONSHIP_TYPE
	PERIOD
	DETAILS
	IDENTITY
	LIFECYCLE
	STATUS
	CHARACTERISTICS
	METADATA
	DISTRIBUTION
	FROM
	TO
	CURRENT
	PRIMARY
	KEY
	ID
	TEXT
	NUMBERTYPE // the `NUMBER` type keyword, distinct from the NUMBER literal kind
	BOOLEAN
	CATEGORY
	TRUE
	FALSE
	OVERRIDE
	FOR_PERIOD
	INHERITS_FROM
	UNTIL
	TYPE
	DATE
	ENTITIES
	IMPACT
	STAKE_BEFORE
	STAKE_AFTER
	TRIGGERED_BY_EVENT
	CREATED_BY_EVENT
	OUTLET_REF
	keywordEnd
)

// softKeywords are keyword tokens that the parser may additionally accept
// as plain field-name identifiers in value-bag positions (spec.md §4.3,
// §9 "Case-insensitive keywords and context-sensitive identifiers"). The
// lexer always emits the keyword token; only the parser treats these as
// interchangeable with IDENT.
var softKeywords = map[Token]bool{
	TYPE:     true,
	DATE:     true,
	ENTITIES: true,
	IMPACT:   true,
	STATUS:   true,
	PERIOD:   true,
	DETAILS:  true,
	ID:       true,
	SOURCE:   true,
	UNIT:     true,

	// Field names of link, event and characteristics bodies.
	PREDECESSOR:        true,
	SUCCESSOR:          true,
	EVENT_DATE:         true,
	RELATIONSHIP_TYPE:  true,
	TRIGGERED_BY_EVENT: true,
	CREATED_BY_EVENT:   true,
	STAKE_BEFORE:       true,
	STAKE_AFTER:        true,
	DISTRIBUTION:       true,
}

// role, value and comment never collide with a reserved keyword, so they
// already lex as plain IDENT and need no entry here.

// IsSoftKeyword reports whether tok may be consumed as a field-name
// identifier even though it also has reserved keyword meaning elsewhere.
func IsSoftKeyword(tok Token) bool { return softKeywords[tok] }

// IsKeyword reports whether tok is one of the reserved keyword tokens.
func IsKeyword(tok Token) bool { return tok > keywordBeg && tok < keywordEnd }

var tokenNames = map[Token]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", COMMENT: "COMMENT",
	IDENT: "IDENT", NUMBER: "NUMBER", STRING: "STRING", VARREF: "VARREF", ANNOT: "ANNOT",
	LBRACE: "{", RBRACE: "}", LPAREN: "(", RPAREN: ")", LBRACKET: "[", RBRACKET: "]",
	COMMA: ",", SEMICOLON: ";", COLON: ":", ASSIGN: "=", DOT: ".",
	IMPORT: "IMPORT", LET: "LET", UNIT: "UNIT", VOCABULARY: "VOCABULARY",
	CATALOG: "CATALOG", SOURCE: "SOURCE", TEMPLATE: "TEMPLATE", OUTLET: "OUTLET",
	FAMILY: "FAMILY", GROUP: "GROUP", BASED_ON: "BASED_ON", EXTENDS: "EXTENDS",
	DATA: "DATA", FOR: "FOR", YEAR: "YEAR", METRICS: "METRICS",
	AGGREGATION: "AGGREGATION", DIACHRONIC_LINK: "DIACHRONIC_LINK",
	SYNCHRONOUS_LINK: "SYNCHRONOUS_LINK", EVENT: "EVENT", PREDECESSOR: "PREDECESSOR",
	SUCCESSOR: "SUCCESSOR", EVENT_DATE: "EVENT_DATE", RELATIONSHIP_TYPE: "RELATIONSHIP_TYPE",
	PERIOD: "PERIOD", DETAILS: "DETAILS", IDENTITY: "IDENTITY", LIFECYCLE: "LIFECYCLE",
	STATUS: "STATUS", CHARACTERISTICS: "CHARACTERISTICS", METADATA: "METADATA",
	DISTRIBUTION: "DISTRIBUTION", FROM: "FROM", TO: "TO", CURRENT: "CURRENT",
	PRIMARY: "PRIMARY", KEY: "KEY", ID: "ID", TEXT: "TEXT", NUMBERTYPE: "NUMBER",
	BOOLEAN: "BOOLEAN", CATEGORY: "CATEGORY", TRUE: "TRUE", FALSE: "FALSE",
	OVERRIDE: "OVERRIDE", FOR_PERIOD: "FOR_PERIOD", INHERITS_FROM: "INHERITS_FROM",
	UNTIL: "UNTIL", TYPE: "TYPE", DATE: "DATE", ENTITIES: "ENTITIES", IMPACT: "IMPACT",
	STAKE_BEFORE: "STAKE_BEFORE", STAKE_AFTER: "STAKE_AFTER",
	TRIGGERED_BY_EVENT: "TRIGGERED_BY_EVENT", CREATED_BY_EVENT: "CREATED_BY_EVENT",
	OUTLET_REF: "OUTLET_REF",
}

// String returns the canonical textual form of the token kind.
func (t Token) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Token(%d)", int(t))
}

// IsLiteral reports whether tok is a literal-class token.
func (t Token) IsLiteral() bool { return t > literalBeg && t < literalEnd }

// FileID identifies a loaded source file within a Session's source map.
type FileID int

// Pos is a source position: a byte offset plus its resolved line/column,
// scoped to a specific file.
type Pos struct {
	File   FileID
	Offset int
	Line   int
	Column int
}

// IsValid reports whether p names a real position.
func (p Pos) IsValid() bool { return p.Line > 0 }

// String renders p as "N:line:col", N being the numeric FileID, for diagnostics that lack a
// resolved file path (tests, standalone snippets).
func (p Pos) String() string {
	return fmt.Sprintf("%d:%d:%d", p.File, p.Line, p.Column)
}

// Span is a half-open [Start,End) byte range within File.
type Span struct {
	File  FileID
	Start int
	End   int
}

// Item is a single lexed token: its kind, literal text, and position.
type Item struct {
	Type  Token
	Value string
	Pos   Pos
}

func (it Item) String() string {
	return fmt.Sprintf("%s(%q)@%s", it.Type, it.Value, it.Pos)
}
