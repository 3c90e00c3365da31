// cmd/decaf/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"decaf/internal/ast"
	"decaf/internal/diag"
	"decaf/internal/history"
	"decaf/internal/ir"
	"decaf/internal/lexer"
	"decaf/internal/lower"
	"decaf/internal/optimize"
	"decaf/internal/parser"
	"decaf/internal/preproc"
	"decaf/internal/printer"

	humanize "github.com/dustin/go-humanize"
	"github.com/google/uuid"
	isatty "github.com/mattn/go-isatty"
)

const version = "0.1.0"

// config is the parsed command-line surface: a .dec source path plus
// the debug and optimization flags. There is no flag-parsing
// framework here; the surface is small enough for a hand-rolled
// os.Args switch.
type config struct {
	path        string
	debug       bool
	noOptimize  bool
	historyDSN  string
	preprocOnly bool
}

func main() {
	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		usage()
		os.Exit(2)
	}
	if cfg == nil {
		usage()
		return
	}

	if err := run(cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseArgs(args []string) (*config, error) {
	if len(args) == 0 {
		return nil, nil
	}

	cfg := &config{}
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch a {
		case "-h", "--help", "help":
			return nil, nil
		case "-d":
			cfg.debug = true
		case "-O":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("decaf: -O requires a level (only 0 is supported)")
			}
			i++
			if args[i] != "0" {
				return nil, fmt.Errorf("decaf: -O %s unsupported, only -O 0 (disable optimization) is recognized", args[i])
			}
			cfg.noOptimize = true
		case "-pre":
			cfg.preprocOnly = true
		case "-history":
			if i+1 >= len(args) {
				return nil, fmt.Errorf("decaf: -history requires a DSN")
			}
			i++
			cfg.historyDSN = args[i]
		default:
			if strings.HasPrefix(a, "-") {
				return nil, fmt.Errorf("decaf: unrecognized flag %q", a)
			}
			if cfg.path != "" {
				return nil, fmt.Errorf("decaf: only one source file may be given, already have %q", cfg.path)
			}
			cfg.path = a
		}
	}

	if cfg.path == "" {
		return nil, fmt.Errorf("decaf: no source file given")
	}
	return cfg, nil
}

func usage() {
	fmt.Println("decaf " + version + " — a small imperative language compiler front end")
	fmt.Println()
	fmt.Println("Usage: decaf [-d] [-O 0] [-pre] [-history <dsn>] <path>.dec")
	fmt.Println()
	fmt.Println("  -d              print AST node-creation trace and a debug banner")
	fmt.Println("  -O 0            disable the NOP-removal pass (default: enabled)")
	fmt.Println("  -pre            preprocess only; leave the .pre file and stop")
	fmt.Println("  -history <dsn>  log this run to a compile-history store (default sqlite3://.decaf_history.db)")
}

// run drives the whole pipeline: preprocess, lex, parse, lower,
// optionally optimize, print, and (unless -pre) remove the .pre file
// before returning.
func run(cfg *config) error {
	start := time.Now()
	sessionID := uuid.NewString()

	pre, err := preproc.Run(cfg.path)
	if err != nil {
		return diag.Fatal(err, "preprocessing %s", cfg.path)
	}
	if cfg.preprocOnly {
		fmt.Printf("wrote %s\n", pre.PrePath)
		return nil
	}
	defer os.Remove(pre.PrePath)

	diags := &diag.Bag{}

	if cfg.debug {
		var traced int
		ast.OnCreate = func(kind string, pos ast.Position) {
			traced++
			fmt.Printf("[node] %-16s %d:%d\n", kind, pos.Line, pos.Col)
		}
		defer func() {
			ast.OnCreate = nil
			fmt.Printf("[node] %d node(s) constructed\n", traced)
		}()
	}

	sc := lexer.New(pre.PrePath, string(pre.Source))
	tokens := sc.ScanTokens()
	for _, d := range sc.Diags.All() {
		diags.Add(d)
	}

	p := parser.New(pre.PrePath, tokens, diags)
	root := p.Parse()

	if diags.HasErrors() {
		reportDiagnostics(diags)
		return fmt.Errorf("decaf: %s failed to compile", cfg.path)
	}

	prog := lower.Program(root)
	if !cfg.noOptimize {
		prog = optimize.RemoveNOPs(prog)
	}

	if cfg.debug {
		printDebugBanner(cfg, sessionID, pre, prog, start)
		printer.SymbolTables(os.Stdout, p.Scope.Registry())
	}
	printer.DataSection(os.Stdout, prog)
	printer.Program(os.Stdout, prog)

	if len(diags.All()) > 0 {
		reportDiagnostics(diags)
	}

	if err := logHistory(cfg, sessionID, prog, diags, time.Since(start)); err != nil {
		fmt.Fprintf(os.Stderr, "decaf: history log skipped: %v\n", err)
	}

	return nil
}

func reportDiagnostics(diags *diag.Bag) {
	for _, d := range diags.All() {
		fmt.Fprint(os.Stderr, d.Error())
	}
}

// printDebugBanner prints the session id, elapsed time, and a
// humanized size for the preprocessed source, colorized only when
// stdout is an actual terminal.
func printDebugBanner(cfg *config, sessionID string, pre *preproc.Result, prog *ir.Program, start time.Time) {
	bold, reset := "", ""
	if isatty.IsTerminal(os.Stdout.Fd()) {
		bold, reset = "\x1b[1m", "\x1b[0m"
	}

	size := humanize.Bytes(uint64(len(pre.Source)))
	elapsed := humanize.RelTime(start, time.Now(), "ago", "from now")

	fmt.Printf("%s-- decaf debug session %s --%s\n", bold, sessionID, reset)
	fmt.Printf("source:      %s (%s preprocessed, %s)\n", cfg.path, size, preprocStatus(pre))
	fmt.Printf("fingerprint: %s\n", pre.Fingerprint)
	fmt.Printf("ir lines:    %d, optimized: %v\n", prog.Len(), !cfg.noOptimize)
	fmt.Printf("started:     %s\n\n", elapsed)
}

func preprocStatus(pre *preproc.Result) string {
	if pre.Cached {
		return "cached"
	}
	return "rewritten"
}

// logHistory records one row describing this compile run to the
// history store, defaulting to a local sqlite3 file when no DSN was
// given on the command line.
func logHistory(cfg *config, sessionID string, prog *ir.Program, diags *diag.Bag, elapsed time.Duration) error {
	dsn := cfg.historyDSN
	if dsn == "" {
		dsn = history.DefaultDSN
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := history.Open(ctx, dsn)
	if err != nil {
		return err
	}
	defer store.Close()

	run := history.Run{
		SourceFile:  cfg.path,
		Fingerprint: sessionID,
		HadErrors:   diags.HasErrors(),
		DiagCount:   diags.Len(),
		IRLines:     prog.Len(),
		Optimized:   !cfg.noOptimize,
		Duration:    elapsed,
		RecordedAt:  time.Now(),
	}
	_, err = store.Record(ctx, run)
	return err
}
