package ast

import "github.com/pacedproton/medialang/token"

// DiachronicLink is a directed, time-stamped edge denoting succession,
// acquisition, merger, split, or interruption (spec.md §3 "DiachronicLink").
type DiachronicLink struct {
	StartPos          token.Pos
	EndPos            token.Pos
	Name              string
	NameIsIdent       bool // spec.md §9 open question: bare identifier vs string name
	Predecessor       *NumberLit
	Successor         *NumberLit
	EventDate         Value // *StringLit date, *DateLit (CURRENT) or *DateRangeLit
	RelationshipType  Value
	TriggeredByEvent  string
	Annotations       []*Annotation
}

func (*DiachronicLink) stmtNode()        {}
func (d *DiachronicLink) Pos() token.Pos { return d.StartPos }
func (d *DiachronicLink) End() token.Pos { return d.EndPos }

// LinkEndpoint is one {id, role} participant of a SynchronousLink.
type LinkEndpoint struct {
	StartPos token.Pos
	EndPos   token.Pos
	ID       *NumberLit
	Role     string
}

func (e *LinkEndpoint) Pos() token.Pos { return e.StartPos }
func (e *LinkEndpoint) End() token.Pos { return e.EndPos }

// SynchronousLink is a contemporaneous, role-tagged edge between two
// outlets (spec.md §3 "SynchronousLink").
type SynchronousLink struct {
	StartPos         token.Pos
	EndPos           token.Pos
	Name             string
	NameIsIdent      bool
	Outlet1          *LinkEndpoint
	Outlet2          *LinkEndpoint
	RelationshipType Value
	Period           *DateRangeLit
	Details          Value
	CreatedByEvent   string
	Annotations      []*Annotation
}

func (*SynchronousLink) stmtNode()        {}
func (s *SynchronousLink) Pos() token.Pos { return s.StartPos }
func (s *SynchronousLink) End() token.Pos { return s.EndPos }

// EventEntity is one named participant of an Event, e.g.
// `a = { id = 1; role = "acquirer"; }`.
type EventEntity struct {
	StartPos    token.Pos
	EndPos      token.Pos
	Key         string
	ID          *NumberLit
	Role        string
	StakeBefore *NumberLit
	StakeAfter  *NumberLit
}

func (e *EventEntity) Pos() token.Pos { return e.StartPos }
func (e *EventEntity) End() token.Pos { return e.EndPos }

// Event is a named temporal occurrence that may cause links to exist
// (spec.md §3 "Event"). Type and Date are required.
type Event struct {
	StartPos    token.Pos
	EndPos      token.Pos
	Name        string
	Type        Value
	Date        Value // *StringLit date or *DateLit (CURRENT)
	Status      string
	Entities    []*EventEntity
	Impact      *ObjectLit
	Metadata    *ObjectLit
	Annotations []*Annotation
}

func (*Event) stmtNode()       {}
func (e *Event) Pos() token.Pos { return e.StartPos }
func (e *Event) End() token.Pos { return e.EndPos }

// MetricEntry is one metric reading within a YearBlock
// (spec.md §3 "DataBlock"): {value, unit, source, comment}.
type MetricEntry struct {
	StartPos token.Pos
	EndPos   token.Pos
	Name     string
	Value    *NumberLit
	Unit     string
	Source   string
	Comment  string
}

func (m *MetricEntry) Pos() token.Pos { return m.StartPos }
func (m *MetricEntry) End() token.Pos { return m.EndPos }

// YearBlock is `YEAR <n> { metrics { ... } }`.
type YearBlock struct {
	StartPos token.Pos
	EndPos   token.Pos
	Year     int
	Metrics  []*MetricEntry
}

func (y *YearBlock) Pos() token.Pos { return y.StartPos }
func (y *YearBlock) End() token.Pos { return y.EndPos }

// DataBlock is `DATA FOR <outlet_id> { ... YEAR <n> { ... } ... }`
// (spec.md §3 "DataBlock").
type DataBlock struct {
	StartPos    token.Pos
	EndPos      token.Pos
	OutletID    *NumberLit
	Aggregation *ObjectLit
	Years       []*YearBlock
}

func (*DataBlock) stmtNode()        {}
func (d *DataBlock) Pos() token.Pos { return d.StartPos }
func (d *DataBlock) End() token.Pos { return d.EndPos }
