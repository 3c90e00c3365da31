// Package diag implements the compiler's error taxonomy: Lexical,
// Syntax, Semantic, and Warning diagnostics carry a source location
// and are collected for batch reporting; Fatal errors abort the
// compile immediately and carry a wrapped stack via
// github.com/pkg/errors.
//
// Kind+Message+Location+Source+"^" caret rendering covers the five
// diagnostic kinds a decaf compile run can raise.
package diag

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Kind classifies a diagnostic.
type Kind string

const (
	Lexical  Kind = "LexicalError"
	Syntax   Kind = "SyntaxError"
	Semantic Kind = "SemanticError"
	Warning  Kind = "Warning"
	Fatal    Kind = "FatalError"
)

// Location pinpoints where a diagnostic was raised.
type Location struct {
	File   string
	Line   int
	Column int
}

// Diagnostic is one Lexical/Syntax/Semantic/Warning finding. Fatal
// conditions are not represented as a Diagnostic — they propagate as a
// plain Go error instead, see Fatal.
type Diagnostic struct {
	Kind     Kind
	Message  string
	Location Location
	Source   string
}

func (d *Diagnostic) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", d.Kind, d.Message)
	if d.Location.File != "" {
		fmt.Fprintf(&sb, "  at %s:%d:%d\n", d.Location.File, d.Location.Line, d.Location.Column)
		if d.Source != "" {
			fmt.Fprintf(&sb, "\n  %d | %s\n", d.Location.Line, d.Source)
			pad := len(fmt.Sprintf("%d | ", d.Location.Line))
			sb.WriteString(strings.Repeat(" ", pad))
			if d.Location.Column > 0 {
				sb.WriteString(strings.Repeat(" ", d.Location.Column-1))
			}
			sb.WriteString("^\n")
		}
	}
	return sb.String()
}

// New builds a Diagnostic of the given kind at file:line:col.
func New(kind Kind, message, file string, line, col int) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: message, Location: Location{File: file, Line: line, Column: col}}
}

// WithSource attaches the offending source line for caret rendering.
func (d *Diagnostic) WithSource(source string) *Diagnostic {
	d.Source = source
	return d
}

// Bag accumulates non-fatal diagnostics across a compile: lexical and
// syntax errors from scanning/parsing, semantic errors and warnings
// from scope resolution and lowering. Lexical/Syntax/Semantic errors
// do not stop the compile — later stages keep running on a best-effort
// AST so a single run surfaces as many problems as possible — but they
// make HasErrors true, which the CLI uses to suppress IR output and
// set a non-zero exit code.
type Bag struct {
	items []*Diagnostic
}

func (b *Bag) Add(d *Diagnostic) { b.items = append(b.items, d) }

func (b *Bag) All() []*Diagnostic { return b.items }

// HasErrors reports whether the bag holds anything other than a
// Warning.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Kind != Warning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int { return len(b.items) }

// Fatal wraps an unrecoverable condition (a malformed .pre file, an
// I/O failure, an internal invariant violation) with a stack trace via
// pkg/errors, and is returned straight to main for an immediate abort
// — it is never added to a Bag.
func Fatal(cause error, format string, args ...interface{}) error {
	return errors.Wrapf(cause, format, args...)
}
