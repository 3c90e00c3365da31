package diag

import (
	"errors"
	"strings"
	"testing"
)

func TestHasErrorsIgnoresWarnings(t *testing.T) {
	b := &Bag{}
	b.Add(New(Warning, "unused variable x", "f.dec", 1, 1))
	if b.HasErrors() {
		t.Errorf("a bag containing only warnings must not report HasErrors")
	}
	b.Add(New(Syntax, "unexpected token", "f.dec", 2, 1))
	if !b.HasErrors() {
		t.Errorf("a bag containing a syntax error must report HasErrors")
	}
}

func TestLenCountsEveryKind(t *testing.T) {
	b := &Bag{}
	b.Add(New(Lexical, "bad char", "f.dec", 1, 1))
	b.Add(New(Warning, "unused", "f.dec", 2, 1))
	if b.Len() != 2 {
		t.Errorf("Len() = %d, want 2", b.Len())
	}
}

func TestDiagnosticErrorIncludesCaret(t *testing.T) {
	d := New(Semantic, "undeclared identifier 'y'", "f.dec", 3, 5).WithSource("z = y + 1;")
	msg := d.Error()
	if !strings.Contains(msg, "f.dec:3:5") {
		t.Errorf("expected location in message: %s", msg)
	}
	if !strings.Contains(msg, "^") {
		t.Errorf("expected a caret pointing at the column: %s", msg)
	}
}

func TestFatalWrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := Fatal(cause, "writing %s", "out.pre")
	if err == nil {
		t.Fatal("Fatal should never return nil for a non-nil cause")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("wrapped error should mention the cause: %v", err)
	}
}
