package tables

import (
	"testing"

	"decaf/internal/token"
)

func TestPriorityOrdering(t *testing.T) {
	if Priority(token.Star) <= Priority(token.Plus) {
		t.Errorf("* should bind tighter than +")
	}
	if Priority(token.Plus) <= Priority(token.LT) {
		t.Errorf("+ should bind tighter than <")
	}
	if Priority(token.LT) <= Priority(token.AndAnd) {
		t.Errorf("< should bind tighter than &&")
	}
	if Priority(token.AndAnd) <= Priority(token.OrOr) {
		t.Errorf("&& should bind tighter than ||")
	}
}

func TestPriorityUnknownOperator(t *testing.T) {
	if p := Priority(token.Assign); p != -1 {
		t.Errorf("Assign should not be a binary operator, got priority %d", p)
	}
}

func TestTypePriorityWidensDoubleOverInt(t *testing.T) {
	if TypePriority("double") <= TypePriority("int") {
		t.Errorf("double should outrank int for coercion")
	}
	if TypePriority("bool") != -1 {
		t.Errorf("bool is not a numeric coercion target")
	}
}

func TestWidth(t *testing.T) {
	if Width("int") != 4 {
		t.Errorf("int width = %d, want 4", Width("int"))
	}
	if Width("double") != 8 {
		t.Errorf("double width = %d, want 8", Width("double"))
	}
	if Width("nonsense") != -1 {
		t.Errorf("unknown type should report -1 width")
	}
}

func TestIsLogical(t *testing.T) {
	if !IsLogical(token.AndAnd) || !IsLogical(token.OrOr) {
		t.Errorf("&& and || must classify as logical")
	}
	if IsLogical(token.Plus) || IsLogical(token.LT) {
		t.Errorf("+ and < must not classify as logical")
	}
}
