package lower

import (
	"testing"

	"decaf/internal/diag"
	"decaf/internal/ir"
	"decaf/internal/lexer"
	"decaf/internal/parser"
)

func lowerSource(t *testing.T, src string) *ir.Program {
	t.Helper()
	sc := lexer.New("f.dec", src)
	toks := sc.ScanTokens()
	diags := &diag.Bag{}
	p := parser.New("f.dec", toks, diags)
	root := p.Parse()
	if diags.HasErrors() {
		t.Fatalf("source failed to parse: %v", diags.All())
	}
	return Program(root)
}

func opSeq(prog *ir.Program) []string {
	out := make([]string, len(prog.Entries))
	for i, e := range prog.Entries {
		out[i] = e.Op
	}
	return out
}

func TestSimpleAssignmentLowersToOneStore(t *testing.T) {
	prog := lowerSource(t, "int x; x = 5;")
	var stores int
	for _, e := range prog.Entries {
		if e.Op == "=" && e.Target == "x" {
			stores++
		}
	}
	if stores != 1 {
		t.Errorf("expected exactly one store to x, got %d", stores)
	}
}

func TestIfElseEmitsSharedJoinLabel(t *testing.T) {
	prog := lowerSource(t, `
		int x;
		if (x == 1) { x = 1; } else { x = 2; }
	`)
	var gotos, iffalses int
	var lastLabels []string
	for _, e := range prog.Entries {
		switch e.Op {
		case "goto":
			gotos++
		case "iffalse":
			iffalses++
		}
		if len(e.Labels) > 0 {
			lastLabels = e.Labels
		}
	}
	if iffalses != 1 {
		t.Errorf("expected 1 iffalse dispatch for a two-armed if, got %d", iffalses)
	}
	if gotos != 1 {
		t.Errorf("expected 1 goto to the join label from the Then arm, got %d", gotos)
	}
	if len(lastLabels) == 0 {
		t.Errorf("expected the join label to land on some later entry")
	}
}

func distinctLabels(prog *ir.Program) map[string]bool {
	out := make(map[string]bool)
	for _, e := range prog.Entries {
		for _, l := range e.Labels {
			out[l] = true
		}
	}
	return out
}

func TestIfWithoutElseAllocatesOnlyIfNext(t *testing.T) {
	// A leading if with no else/else-if arm never reaches a join point
	// other than its own if_next, so it must not allocate (and anchor)
	// an if_done label that nothing jumps to.
	prog := lowerSource(t, `
		int x;
		if (x == 1) { x = 1; }
		x = 2;
	`)
	if got := len(distinctLabels(prog)); got != 1 {
		t.Errorf("expected exactly 1 label (if_next) for an else-less if, got %d: %v", got, distinctLabels(prog))
	}
}

func TestIfWithElseAllocatesIfNextAndIfDone(t *testing.T) {
	prog := lowerSource(t, `
		int x;
		if (x == 1) { x = 1; } else { x = 3; }
		x = 2;
	`)
	if got := len(distinctLabels(prog)); got != 2 {
		t.Errorf("expected exactly 2 labels (if_next + if_done) for an if/else, got %d: %v", got, distinctLabels(prog))
	}
}

func TestElseIfChainReusesOneJoinLabel(t *testing.T) {
	prog := lowerSource(t, `
		int x;
		if (x == 1) { x = 1; }
		else if (x == 2) { x = 2; }
		else { x = 3; }
	`)
	var gotoTargets []string
	for _, e := range prog.Entries {
		if e.Op == "goto" {
			gotoTargets = append(gotoTargets, e.Target)
		}
	}
	if len(gotoTargets) != 2 {
		t.Fatalf("expected 2 gotos (Then arm + else-if arm) to the shared join, got %d: %v", len(gotoTargets), gotoTargets)
	}
	if gotoTargets[0] != gotoTargets[1] {
		t.Errorf("both gotos should target the same shared join label, got %v", gotoTargets)
	}
}

func TestNestedIfInsideThenRestoresOuterState(t *testing.T) {
	// The inner if must not corrupt the outer if's ifDone/ifNext; both
	// chains should still each reach exactly one join label.
	prog := lowerSource(t, `
		int x;
		int y;
		if (x == 1) {
			if (y == 2) { y = 1; } else { y = 2; }
		} else {
			x = 2;
		}
	`)
	var iffalses int
	for _, e := range prog.Entries {
		if e.Op == "iffalse" {
			iffalses++
		}
	}
	if iffalses != 2 {
		t.Errorf("expected 2 iffalse dispatches (outer + inner if), got %d", iffalses)
	}
}

func TestWhileLoopHasHeadAndExitLabels(t *testing.T) {
	prog := lowerSource(t, `
		int x;
		while (x < 10) { x = x + 1; }
	`)
	var gotos int
	for _, e := range prog.Entries {
		if e.Op == "goto" {
			gotos++
		}
	}
	if gotos != 1 {
		t.Errorf("expected exactly one backward goto closing the loop body, got %d", gotos)
	}
	if got := len(distinctLabels(prog)); got != 2 {
		t.Errorf("expected exactly 2 labels (head + exit), got %d: %v", got, distinctLabels(prog))
	}
}

func TestBreakAndContinueResolveToInnermostLoop(t *testing.T) {
	prog := lowerSource(t, `
		int x;
		for (x = 0; x < 10; x = x + 1) {
			if (x == 5) { break; }
			if (x == 2) { continue; }
		}
	`)
	var gotos int
	for _, e := range prog.Entries {
		if e.Op == "goto" {
			gotos++
		}
	}
	// break -> exit, continue -> cont/step, plus the loop's own closing
	// goto back to head: at least 3 gotos should be present.
	if gotos < 3 {
		t.Errorf("expected at least 3 gotos (break, continue, loop-close), got %d", gotos)
	}
}

func TestPreIncrementReusesSameAddress(t *testing.T) {
	prog := lowerSource(t, "int x; int y; y = ++x;")
	// A pre-increment should emit the '+' before the store to y, with no
	// intervening temp copy distinguishing "before" from "after".
	var sawIncr, sawStoreToY bool
	for _, e := range prog.Entries {
		if e.Op == "+" && e.LHS == "x" {
			sawIncr = true
		}
		if sawIncr && e.Op == "=" && e.Target == "y" {
			sawStoreToY = true
		}
	}
	if !sawIncr || !sawStoreToY {
		t.Errorf("expected an increment of x followed by a store into y")
	}
}

func TestPostIncrementCopiesBeforeIncrementing(t *testing.T) {
	prog := lowerSource(t, "int x; int y; y = x++;")
	var copyIdx, incrIdx = -1, -1
	for i, e := range prog.Entries {
		if e.Op == "=" && e.LHS == "x" && copyIdx == -1 {
			copyIdx = i
		}
		if e.Op == "+" && e.LHS == "x" {
			incrIdx = i
		}
	}
	if copyIdx == -1 || incrIdx == -1 {
		t.Fatalf("expected both a temp copy and an increment, got copyIdx=%d incrIdx=%d", copyIdx, incrIdx)
	}
	if copyIdx >= incrIdx {
		t.Errorf("post-increment must copy x into a temp before incrementing it")
	}
}

func TestArrayBoundCheckEmitsBothDispatches(t *testing.T) {
	prog := lowerSource(t, `
		int n;
		int a[10];
		a[n] = 1;
	`)
	var negChecks, upperChecks int
	for _, e := range prog.Entries {
		if e.Op == "iftrue" && e.Target == "L_negBound" {
			negChecks++
		}
		if e.Op == "iftrue" && e.Target == "L_upperBound" {
			upperChecks++
		}
	}
	if negChecks == 0 || upperChecks == 0 {
		t.Errorf("expected both a negative-bound and an upper-bound check for a[n], got neg=%d upper=%d", negChecks, upperChecks)
	}
	if len(prog.RuntimeErrs) != 2 {
		t.Errorf("expected both run-time-error handlers to be emitted, got %d", len(prog.RuntimeErrs))
	}
}

func TestLiteralInRangeIndexSkipsRuntimeCheck(t *testing.T) {
	prog := lowerSource(t, `
		int a[10];
		a[0] = 1;
	`)
	if len(prog.RuntimeErrs) != 0 {
		t.Errorf("a provably in-range literal index needs no run-time check, got %d handlers", len(prog.RuntimeErrs))
	}
}

func TestLiteralOutOfRangeIndexStillGetsRuntimeCheck(t *testing.T) {
	// A literal index is only safe to skip when it's provably inside
	// the declared extent; an out-of-range literal still needs the
	// run-time handler so the program reports the error instead of
	// corrupting memory.
	prog := lowerSource(t, `
		int a[10];
		a[20] = 1;
	`)
	if len(prog.RuntimeErrs) == 0 {
		t.Errorf("an out-of-range literal index should still emit a bound check")
	}
}

func TestPrintLowersToPushlThenCall(t *testing.T) {
	prog := lowerSource(t, `Print("hi");`)
	if len(prog.Entries) < 2 {
		t.Fatalf("expected at least pushl+call, got %d entries", len(prog.Entries))
	}
	if prog.Entries[0].Op != "pushl" || prog.Entries[1].Op != "call" {
		t.Errorf("expected [pushl, call], got %v", opSeq(prog))
	}
	if len(prog.Data) != 1 || prog.Data[0].Value != "hi" {
		t.Errorf("expected the string literal interned into the data section, got %+v", prog.Data)
	}
}
