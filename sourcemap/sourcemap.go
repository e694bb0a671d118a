// Package sourcemap assigns (file, line, column, byte_offset) positions to
// every token and AST node produced by the MDSL pipeline, and owns the
// interned source text of every loaded file (spec.md §4.1).
package sourcemap

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"

	"github.com/pacedproton/medialang/token"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type file struct {
	path        string
	content     string
	lineOffsets []int // byte offset of the start of each line
}

// Map interns loaded source files and resolves byte offsets to positions.
// A Map is owned end-to-end by one compilation Session; nothing outlives it.
type Map struct {
	files    []*file
	byPath   map[string]token.FileID
	importOf map[token.FileID]token.FileID // import edges, child -> parent, for cycle detection
}

// New returns an empty source map.
func New() *Map {
	return &Map{byPath: map[string]token.FileID{}, importOf: map[token.FileID]token.FileID{}}
}

// LoadPath reads path from disk, interns it, and returns its FileID.
// Repeated loads of the same resolved path return the same FileID.
func (m *Map) LoadPath(path string) (token.FileID, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return -1, errors.Annotatef(err, "resolving path %q", path)
	}
	if id, ok := m.byPath[abs]; ok {
		return id, nil
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return -1, errors.Annotatef(err, "reading %q", path)
	}
	return m.LoadBytes(abs, raw), nil
}

// LoadBytes interns raw content under a logical path (used directly by
// tests and by LoadPath). It always allocates a new FileID.
func (m *Map) LoadBytes(path string, raw []byte) token.FileID {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	id := token.FileID(len(m.files))
	f := &file{path: path, content: string(raw)}
	f.lineOffsets = computeLineOffsets(f.content)
	m.files = append(m.files, f)
	m.byPath[path] = id
	return id
}

func computeLineOffsets(content string) []int {
	offsets := []int{0}
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// Path returns the path a FileID was loaded from.
func (m *Map) Path(id token.FileID) string {
	if int(id) < 0 || int(id) >= len(m.files) {
		return "<unknown>"
	}
	return m.files[id].path
}

// Content returns the interned text of a file.
func (m *Map) Content(id token.FileID) string {
	if int(id) < 0 || int(id) >= len(m.files) {
		return ""
	}
	return m.files[id].content
}

// Position resolves a byte offset within file id to a 1-indexed line/column.
func (m *Map) Position(id token.FileID, offset int) (line, col int) {
	if int(id) < 0 || int(id) >= len(m.files) {
		return 0, 0
	}
	f := m.files[id]
	lo := f.lineOffsets
	// binary search for the last line start <= offset
	i, j := 0, len(lo)-1
	line = 1
	for i <= j {
		mid := (i + j) / 2
		if lo[mid] <= offset {
			line = mid + 1
			i = mid + 1
		} else {
			j = mid - 1
		}
	}
	col = offset - lo[line-1] + 1
	return line, col
}

// MakePos builds a full token.Pos from a file and byte offset.
func (m *Map) MakePos(id token.FileID, offset int) token.Pos {
	line, col := m.Position(id, offset)
	return token.Pos{File: id, Offset: offset, Line: line, Column: col}
}

// Snippet returns the single source line containing span.Start, plus a
// caret line underlining the span, in the style spec.md §7 requires for
// diagnostic rendering.
func (m *Map) Snippet(span token.Span) string {
	if int(span.File) < 0 || int(span.File) >= len(m.files) {
		return ""
	}
	f := m.files[span.File]
	line, col := m.Position(span.File, span.Start)
	lineStart := f.lineOffsets[line-1]
	lineEnd := len(f.content)
	if line < len(f.lineOffsets) {
		lineEnd = f.lineOffsets[line] - 1
	}
	if lineEnd < lineStart {
		lineEnd = lineStart
	}
	text := f.content[lineStart:lineEnd]
	width := span.End - span.Start
	if width < 1 {
		width = 1
	}
	caretPad := strings.Repeat(" ", col-1)
	carets := strings.Repeat("^", width)
	return fmt.Sprintf("%s\n%s%s", text, caretPad, carets)
}

// BeginImport records that child was reached via an IMPORT statement in
// parent, and reports an error if that edge would close a cycle.
func (m *Map) BeginImport(parent, child token.FileID) error {
	for cur, ok := parent, true; ok; cur, ok = m.importOf[cur] {
		if cur == child {
			return errors.Errorf("import cycle: %s imports %s", m.Path(parent), m.Path(child))
		}
	}
	m.importOf[child] = parent
	return nil
}
