// Command mdslc is the MDSL compiler driver: lex, parse, validate, and emit
// SQL or Cypher for a source file and its transitive imports (spec.md §6).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pacedproton/medialang/config"
	"github.com/pacedproton/medialang/cyphergen"
	"github.com/pacedproton/medialang/diag"
	"github.com/pacedproton/medialang/lexer"
	"github.com/pacedproton/medialang/session"
	"github.com/pacedproton/medialang/sqlgen"
	"github.com/pacedproton/medialang/token"
)

// Exit codes (spec.md §6): 0 success, 1 any diagnostic error, 2 I/O error,
// 3 internal invariant violation.
const (
	exitSuccess = 0
	exitDiagnosticError = 1
	exitIOError = 2
	exitInternalError = 3
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "mdslc",
		Short: "MDSL compiler: lex, parse, validate, and emit SQL/Cypher",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "mdslc.yaml", "path to emission config (optional)")

	root.AddCommand(lexCmd(), parseCmd(), validateCmd(), sqlCmd(), cypherCmd())

	if err := root.Execute(); err != nil {
		os.Exit(exitInternalError)
	}
}

func newLogger() *zap.Logger {
	log, err := zap.NewProduction()
	if err != nil {
		log = zap.NewNop()
	}
	return log
}

func loadSession(path string) (*session.Session, int) {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, exitIOError
	}
	s := session.New(cfg, newLogger())
	if err := s.LoadAndParse([]string{path}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, exitIOError
	}
	return s, exitSuccess
}

func printDiagnostics(s *session.Session) {
	for _, d := range s.Sink.All() {
		fmt.Fprintln(os.Stderr, diag.Format(s.Files, d))
	}
}

func lexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lex <file>",
		Args:  cobra.ExactArgs(1),
		Short: "print the token stream as (kind, text, line:col) records",
		Run: func(cmd *cobra.Command, args []string) {
			s, code := loadSession(args[0])
			if s == nil {
				os.Exit(code)
			}
			for _, prog := range s.Programs {
				lx := lexer.Get(prog.File, s.Files.Content(prog.File))
				for {
					item := lx.Next()
					fmt.Printf("%s %q %d:%d\n", item.Type, item.Value, item.Pos.Line, item.Pos.Column)
					if item.Type == token.EOF {
						break
					}
				}
				for _, d := range lx.Errors() {
					s.Sink.Add(d)
				}
				lexer.Put(lx)
			}
			printDiagnostics(s)
			if s.Sink.HasErrors() {
				os.Exit(exitDiagnosticError)
			}
		},
	}
}

func parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Args:  cobra.ExactArgs(1),
		Short: "print each loaded file's top-level statement count (no per-node AST dump)",
		Run: func(cmd *cobra.Command, args []string) {
			s, code := loadSession(args[0])
			if s == nil {
				os.Exit(code)
			}
			for _, prog := range s.Programs {
				fmt.Printf("file %s: %d statements\n", s.Files.Path(prog.File), len(prog.Statements))
			}
			printDiagnostics(s)
			if s.Sink.HasErrors() {
				os.Exit(exitDiagnosticError)
			}
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Args:  cobra.ExactArgs(1),
		Short: "run semantic analysis; exit 0 on success, non-zero on any error",
		Run: func(cmd *cobra.Command, args []string) {
			s, code := loadSession(args[0])
			if s == nil {
				os.Exit(code)
			}
			s.Analyze()
			printDiagnostics(s)
			if s.Sink.HasErrors() {
				os.Exit(exitDiagnosticError)
			}
		},
	}
}

func sqlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sql <file>",
		Args:  cobra.ExactArgs(1),
		Short: "emit SQL to stdout",
		Run: func(cmd *cobra.Command, args []string) {
			s, code := loadSession(args[0])
			if s == nil {
				os.Exit(code)
			}
			s.Analyze()
			if s.Sink.HasErrors() {
				printDiagnostics(s)
				os.Exit(exitDiagnosticError)
			}
			s.BuildIR()
			fmt.Print(sqlgen.Generate(s.Analyzer.Sym, s.Model, s.Sink))
			printDiagnostics(s)
		},
	}
}

func cypherCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cypher <file>",
		Args:  cobra.ExactArgs(1),
		Short: "emit Cypher to stdout",
		Run: func(cmd *cobra.Command, args []string) {
			s, code := loadSession(args[0])
			if s == nil {
				os.Exit(code)
			}
			s.Analyze()
			if s.Sink.HasErrors() {
				printDiagnostics(s)
				os.Exit(exitDiagnosticError)
			}
			s.BuildIR()
			fmt.Print(cyphergen.Generate(s.Analyzer.Sym, s.Model, s.Config.CypherPrefix, s.Sink))
			printDiagnostics(s)
		},
	}
}
