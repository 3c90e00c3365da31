package printer

import (
	"bytes"
	"strings"
	"testing"

	"decaf/internal/diag"
	"decaf/internal/ir"
	"decaf/internal/lexer"
	"decaf/internal/lower"
	"decaf/internal/optimize"
	"decaf/internal/parser"
	"decaf/internal/scope"

	"github.com/kr/pretty"
)

func TestEntryIncludesEveryField(t *testing.T) {
	var buf bytes.Buffer
	Entry(&buf, ir.Entry{Line: 1, Labels: []string{"L1", "L2"}, Op: "+", Target: "t0", LHS: "a", RHS: "b", Frame: "Env1"})
	out := buf.String()
	for _, want := range []string{"1:", "L1,L2", "+", "t0", "a", "b", "Env1"} {
		if !strings.Contains(out, want) {
			t.Errorf("Entry output missing %q: %s", want, out)
		}
	}
}

func TestDataSectionSortsNumericallyNotLexicographically(t *testing.T) {
	p := &ir.Program{Data: []ir.DataObject{
		{Label: "str10", Value: "tenth"},
		{Label: "str2", Value: "second"},
		{Label: "str1", Value: "first"},
	}}
	var buf bytes.Buffer
	DataSection(&buf, p)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %v", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "str1:") || !strings.HasPrefix(lines[1], "str2:") || !strings.HasPrefix(lines[2], "str10:") {
		t.Errorf("data section not sorted numerically: %v", lines)
	}
}

// TestGoldenIRForSimpleAssignment runs the full preproc-free pipeline
// (lex -> parse -> lower -> optimize) over a small program and checks
// the resulting entries against a golden listing. pretty.Diff gives a
// field-by-field readout instead of a single "not equal" failure when
// the lowering visitor's output drifts.
func TestGoldenIRForSimpleAssignment(t *testing.T) {
	src := "int x; x = 1; x = x + 1;"
	sc := lexer.New("f.dec", src)
	toks := sc.ScanTokens()
	diags := &diag.Bag{}
	p := parser.New("f.dec", toks, diags)
	root := p.Parse()
	if diags.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", diags.All())
	}
	prog := lower.Program(root)
	prog = optimize.RemoveNOPs(prog)

	want := []ir.Entry{
		{Line: 1, Op: "dec", Target: "x", LHS: "int", Frame: "Env1"},
		{Line: 2, Op: "=", Target: "x", LHS: "1", Frame: "Env1"},
		{Line: 3, Op: "+", Target: "t1", LHS: "x", RHS: "1", Frame: "Env1"},
		{Line: 4, Op: "=", Target: "x", LHS: "t1", Frame: "Env1"},
	}
	if len(prog.Entries) != len(want) {
		t.Fatalf("entry count mismatch: got %d, want %d\n%s", len(prog.Entries), len(want), pretty.Diff(prog.Entries, want))
	}
	for i := range want {
		got := prog.Entries[i]
		if got.Line != want[i].Line || got.Op != want[i].Op || got.Target != want[i].Target ||
			got.LHS != want[i].LHS || got.RHS != want[i].RHS || got.Frame != want[i].Frame {
			t.Errorf("entry %d mismatch:\n%s", i, pretty.Diff(got, want[i]))
		}
	}
}

func TestSymbolTablesOrderedByFrameName(t *testing.T) {
	b := scope.NewBuilder()
	f2 := b.OpenScope(nil)
	f1 := b.OpenScope(nil)
	_ = f1
	_ = f2

	var buf bytes.Buffer
	SymbolTables(&buf, b.Registry())

	out := buf.String()
	i1 := strings.Index(out, "Env1:")
	i2 := strings.Index(out, "Env2:")
	if i1 == -1 || i2 == -1 || i1 > i2 {
		t.Errorf("expected Env1 before Env2 in output:\n%s", out)
	}
}
