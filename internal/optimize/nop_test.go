package optimize

import (
	"testing"

	"decaf/internal/ir"
)

func build(entries ...ir.Entry) *ir.Program {
	p := &ir.Program{}
	for _, e := range entries {
		p.Append(e)
	}
	return p
}

func TestRemoveNOPsDropsLabelLessNOPs(t *testing.T) {
	p := build(
		ir.Entry{Op: "="},
		ir.Entry{Op: "nop"},
		ir.Entry{Op: "+"},
	)
	out := RemoveNOPs(p)
	if len(out.Entries) != 2 {
		t.Fatalf("expected 2 surviving entries, got %d", len(out.Entries))
	}
	if out.Entries[0].Line != 1 || out.Entries[1].Line != 2 {
		t.Errorf("entries were not renumbered: %+v", out.Entries)
	}
}

func TestRemoveNOPsHarvestsLabelsOntoNextLine(t *testing.T) {
	p := build(
		ir.Entry{Op: "nop", Labels: []string{"L1"}},
		ir.Entry{Op: "+", Labels: []string{"L2"}},
	)
	out := RemoveNOPs(p)
	if len(out.Entries) != 1 {
		t.Fatalf("expected 1 surviving entry, got %d", len(out.Entries))
	}
	got := out.Entries[0].Labels
	want := []string{"L1", "L2"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Labels = %v, want %v", got, want)
	}
}

func TestRemoveNOPsKeepsLastEntryEvenIfNOP(t *testing.T) {
	p := build(
		ir.Entry{Op: "="},
		ir.Entry{Op: "nop"},
	)
	out := RemoveNOPs(p)
	if len(out.Entries) != 2 {
		t.Fatalf("expected the trailing NOP to survive as a possible jump target, got %d entries", len(out.Entries))
	}
}

func TestRemoveNOPsPreservesDataAndRuntimeErrs(t *testing.T) {
	p := build(ir.Entry{Op: "="})
	p.Data = []ir.DataObject{{Label: "str0", Value: "hi"}}
	p.RuntimeErrs = []ir.RuntimeErrorEntry{{Label: "L_negBound", Message: "oops"}}

	out := RemoveNOPs(p)
	if len(out.Data) != 1 || out.Data[0].Label != "str0" {
		t.Errorf("Data section was not preserved: %+v", out.Data)
	}
	if len(out.RuntimeErrs) != 1 {
		t.Errorf("RuntimeErrs were not preserved: %+v", out.RuntimeErrs)
	}
}
