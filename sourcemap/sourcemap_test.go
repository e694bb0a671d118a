package sourcemap

import (
	"testing"

	"github.com/pacedproton/medialang/token"
)

func TestLoadBytesInternsContentAndPath(t *testing.T) {
	m := New()
	id := m.LoadBytes("a.mdsl", []byte("FAMILY \"F\" {}\n"))
	if m.Path(id) != "a.mdsl" {
		t.Fatalf("Path() = %q, want %q", m.Path(id), "a.mdsl")
	}
	if m.Content(id) != "FAMILY \"F\" {}\n" {
		t.Fatalf("Content() = %q", m.Content(id))
	}
}

func TestLoadBytesStripsUTF8BOM(t *testing.T) {
	m := New()
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("UNIT X {}")...)
	id := m.LoadBytes("b.mdsl", raw)
	if m.Content(id) != "UNIT X {}" {
		t.Fatalf("Content() = %q, want BOM stripped", m.Content(id))
	}
}

func TestLoadBytesAssignsSequentialFileIDs(t *testing.T) {
	m := New()
	id1 := m.LoadBytes("a.mdsl", []byte("x"))
	id2 := m.LoadBytes("b.mdsl", []byte("y"))
	if id1 == id2 {
		t.Fatalf("expected distinct FileIDs, got %d and %d", id1, id2)
	}
	if id1 != 0 || id2 != 1 {
		t.Fatalf("expected FileIDs 0 and 1, got %d and %d", id1, id2)
	}
}

func TestPathAndContentUnknownFileID(t *testing.T) {
	m := New()
	if got := m.Path(42); got != "<unknown>" {
		t.Fatalf("Path(42) = %q, want <unknown>", got)
	}
	if got := m.Content(42); got != "" {
		t.Fatalf("Content(42) = %q, want empty", got)
	}
}

func TestPositionResolvesLineAndColumn(t *testing.T) {
	src := "line one\nline two\nline three"
	m := New()
	id := m.LoadBytes("f.mdsl", []byte(src))

	cases := []struct {
		offset   int
		wantLine int
		wantCol  int
	}{
		{0, 1, 1},
		{4, 1, 5},
		{9, 2, 1},
		{14, 2, 6},
		{18, 3, 1},
	}
	for _, c := range cases {
		line, col := m.Position(id, c.offset)
		if line != c.wantLine || col != c.wantCol {
			t.Errorf("Position(%d) = (%d,%d), want (%d,%d)", c.offset, line, col, c.wantLine, c.wantCol)
		}
	}
}

func TestMakePosBuildsFullPos(t *testing.T) {
	m := New()
	id := m.LoadBytes("f.mdsl", []byte("first\nsecond"))
	pos := m.MakePos(id, 6)
	if pos.File != id || pos.Offset != 6 || pos.Line != 2 || pos.Column != 1 {
		t.Fatalf("MakePos(6) = %+v", pos)
	}
}

func TestSnippetUnderlinesSpan(t *testing.T) {
	m := New()
	id := m.LoadBytes("f.mdsl", []byte("OUTLET id=1 {\n  identity { title = \"A\"; }\n}"))
	span := token.Span{File: id, Start: 0, End: 6}
	got := m.Snippet(span)
	want := "OUTLET id=1 {\n^^^^^^"
	if got != want {
		t.Fatalf("Snippet() = %q, want %q", got, want)
	}
}

func TestSnippetOnSecondLine(t *testing.T) {
	m := New()
	id := m.LoadBytes("f.mdsl", []byte("OUTLET id=1 {\n  identity { title = \"A\"; }\n}"))
	span := token.Span{File: id, Start: 16, End: 24}
	got := m.Snippet(span)
	want := "  identity { title = \"A\"; }\n  ^^^^^^^^"
	if got != want {
		t.Fatalf("Snippet() = %q, want %q", got, want)
	}
}

func TestSnippetUnknownFileReturnsEmpty(t *testing.T) {
	m := New()
	if got := m.Snippet(token.Span{File: 7, Start: 0, End: 1}); got != "" {
		t.Fatalf("Snippet() = %q, want empty", got)
	}
}

func TestBeginImportRecordsEdgeWithoutError(t *testing.T) {
	m := New()
	parent := m.LoadBytes("a.mdsl", []byte("IMPORT \"b.mdsl\";"))
	child := m.LoadBytes("b.mdsl", []byte("UNIT X {}"))
	if err := m.BeginImport(parent, child); err != nil {
		t.Fatalf("BeginImport() unexpected error: %v", err)
	}
}

func TestBeginImportDetectsDirectCycle(t *testing.T) {
	m := New()
	a := m.LoadBytes("a.mdsl", []byte(""))
	b := m.LoadBytes("b.mdsl", []byte(""))
	if err := m.BeginImport(a, b); err != nil {
		t.Fatalf("first import unexpected error: %v", err)
	}
	if err := m.BeginImport(b, a); err == nil {
		t.Fatalf("expected cycle error importing a back from b")
	}
}

func TestBeginImportDetectsTransitiveCycle(t *testing.T) {
	m := New()
	a := m.LoadBytes("a.mdsl", []byte(""))
	b := m.LoadBytes("b.mdsl", []byte(""))
	c := m.LoadBytes("c.mdsl", []byte(""))
	if err := m.BeginImport(a, b); err != nil {
		t.Fatalf("a->b unexpected error: %v", err)
	}
	if err := m.BeginImport(b, c); err != nil {
		t.Fatalf("b->c unexpected error: %v", err)
	}
	if err := m.BeginImport(c, a); err == nil {
		t.Fatalf("expected cycle error for c->a closing a->b->c->a")
	}
}
