// Package session threads every piece of pipeline state through a single
// batch run: the source map, symbol tables, diagnostic sink, emission
// config, structured logger, and correlation id (spec.md §9: carry state in
// one explicit object rather than package-level globals, for testability
// and reentrancy).
package session

import (
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pacedproton/medialang/ast"
	"github.com/pacedproton/medialang/config"
	"github.com/pacedproton/medialang/diag"
	"github.com/pacedproton/medialang/ir"
	"github.com/pacedproton/medialang/parser"
	"github.com/pacedproton/medialang/sema"
	"github.com/pacedproton/medialang/sourcemap"
	"github.com/pacedproton/medialang/token"
)

// Session is the single state-threading object for one compiler invocation:
// load -> analyze -> ir -> emit.
type Session struct {
	ID       string
	Files    *sourcemap.Map
	Sink     *diag.Sink
	Config   config.Emission
	Log      *zap.Logger
	Programs []*ast.Program
	Analyzer *sema.Analyzer
	Model    *ir.Model
}

// New creates a Session with a fresh correlation id and the given emission
// config and logger.
func New(cfg config.Emission, log *zap.Logger) *Session {
	return &Session{
		ID:     uuid.NewString(),
		Files:  sourcemap.New(),
		Sink:   &diag.Sink{},
		Config: cfg,
		Log:    log,
	}
}

type queueEntry struct {
	path   string
	parent token.FileID
	hasParent bool
}

// LoadAndParse reads roots (and everything they transitively import,
// resolved relative to the importing file's directory), lexes and parses
// each into an *ast.Program, and records every diagnostic in s.Sink without
// aborting on the first failing file (spec.md §7 "propagation"). Import
// cycles are reported through s.Sink as ImportCycle diagnostics.
func (s *Session) LoadAndParse(roots []string) error {
	seen := map[string]bool{}
	var queue []queueEntry
	for _, r := range roots {
		queue = append(queue, queueEntry{path: r})
	}
	for len(queue) > 0 {
		entry := queue[0]
		queue = queue[1:]

		abs, err := filepath.Abs(entry.path)
		if err != nil {
			return err
		}
		file, err := s.Files.LoadPath(entry.path)
		if err != nil {
			return err
		}
		if entry.hasParent {
			if cerr := s.Files.BeginImport(entry.parent, file); cerr != nil {
				s.Sink.Errorf(diag.ImportCycle, token.Span{File: file}, "%s", cerr)
				continue
			}
		}
		if seen[abs] {
			continue
		}
		seen[abs] = true
		s.Log.Debug("parsed file", zap.String("path", s.Files.Path(file)), zap.String("session", s.ID))

		p := parser.Get(file, s.Files.Content(file))
		prog, diags := p.Parse()
		parser.Put(p)
		for _, d := range diags {
			s.Sink.Add(d)
		}
		s.Programs = append(s.Programs, prog)

		dir := filepath.Dir(entry.path)
		for _, stmt := range prog.Statements {
			if imp, ok := stmt.(*ast.Import); ok {
				queue = append(queue, queueEntry{path: filepath.Join(dir, imp.Path), parent: file, hasParent: true})
			}
		}
	}
	return nil
}

// Analyze runs the two-pass semantic analyzer over every loaded program.
func (s *Session) Analyze() {
	s.Analyzer = sema.New(s.Files, s.Sink)
	s.Analyzer.Analyze(s.Programs)
}

// BuildIR transforms the bound, checked programs into the backend-agnostic
// IR model. Call only after Analyze.
func (s *Session) BuildIR() {
	s.Model = ir.Build(s.Analyzer.Sym, s.Programs)
}
