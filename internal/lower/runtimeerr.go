package lower

import (
	"fmt"

	"decaf/internal/ast"
	"decaf/internal/ir"
	"decaf/internal/scope"
	"decaf/internal/tables"
	"decaf/internal/token"
)

// The two run-time-error targets an array subscript can dispatch to
// Both share the canonical Decaf runtime message and
// the same exit sequence; they are kept as distinct labels because a
// negative index and an out-of-range index are reported as separate,
// independently skippable handlers — a program that never has a
// non-literal lower bound to check never pays for L_negBound at all.
const (
	negBoundLabel   = "L_negBound"
	upperBoundLabel = "L_upperBound"
	errExitLabel    = "L_eExit"
	runtimeErrMsg   = "Decaf runtime error: Array subscript out of bounds\n"
)

// lowerArrayBoundChecks emits the negative-bound check (no upper-bound
// check) for every declared array dimension whose bound is NOT a
// compile-time literal (Bounds[i] == 0). A literal bound was already
// checked to be positive while parsing and needs no run-time check.
func (c *Ctx) lowerArrayBoundChecks(name string, dims []ast.Node, bounds []int, frame *scope.Frame) {
	for i, d := range dims {
		if i < len(bounds) && bounds[i] > 0 {
			continue
		}
		addr := c.lowerExpr(d)
		c.checkBound(addr, frame)
	}
}

// checkBound emits the `< 0` half of a dimension's bound check,
// branching to L_negBound when addr evaluates negative at run time.
func (c *Ctx) checkBound(addr string, frame *scope.Frame) {
	tNeg := c.newTemp()
	c.emit(c.takeLabels(), string(token.LT), tNeg, addr, "0", frame)
	c.emit(nil, string(token.IfTrue), negBoundLabel, tNeg, "", frame)
	c.errUsed[negBoundLabel] = true
}

// dimIsSafeLiteral reports whether dimension i's index expression is
// itself a compile-time integer literal that provably falls inside
// the array's declared extent for that dimension, so no run-time
// check is needed.
func dimIsSafeLiteral(a *ast.ArrayId, i int) bool {
	lit, ok := a.Dims[i].(*ast.IntLit)
	if !ok {
		return false
	}
	if i >= len(a.Bounds) || a.Bounds[i] <= 0 {
		return false
	}
	return lit.Value >= 0 && lit.Value < int64(a.Bounds[i])
}

// lowerArrayAccess computes a flattened subscript address for a,
// running both halves of the bound-check dispatch against every
// dimension whose index is not a provably-in-range literal, and
// folding safe literal dimensions straight into the offset
// arithmetic. Multi-dimensional arrays are addressed row-major: each
// dimension's index is scaled by the element width times the product
// of the extents of the dimensions to its right.
func (c *Ctx) lowerArrayAccess(a *ast.ArrayId) string {
	elemWidth := tables.Width(a.ElemType)
	if elemWidth < 0 {
		elemWidth = 1
	}

	stride := elemWidth
	var offset string
	for i := len(a.Dims) - 1; i >= 0; i-- {
		d := a.Dims[i]
		var idx string
		if dimIsSafeLiteral(a, i) {
			idx = d.Addr()
			a.Resolved[i] = idx
		} else {
			idx = c.lowerExpr(d)
			c.checkBound(idx, d.Frame())
			c.checkUpperBound(idx, a.Bounds, i, d.Frame())
			a.Resolved[i] = idx
		}

		scaled := idx
		if stride != 1 {
			t := c.newTemp()
			c.emit(nil, string(token.Star), t, idx, fmt.Sprint(stride), d.Frame())
			scaled = t
		}

		if offset == "" {
			offset = scaled
		} else {
			t := c.newTemp()
			c.emit(nil, string(token.Plus), t, offset, scaled, d.Frame())
			offset = t
		}

		if i < len(a.Bounds) && a.Bounds[i] > 0 {
			stride *= a.Bounds[i]
		}
	}

	return fmt.Sprintf("%s[%s]", a.Name, offset)
}

// checkUpperBound emits the >= limit half of a non-literal dimension's
// bound check. When the declared extent for this dimension is itself
// known (bounds[dim] is a literal, non-zero bound), it is used as the
// literal RHS; otherwise the check is emitted against the symbolic
// name Decaf array declarations always carry for their own extent.
func (c *Ctx) checkUpperBound(idx string, bounds []int, dim int, frame *scope.Frame) {
	limit := "len"
	if dim < len(bounds) && bounds[dim] > 0 {
		limit = fmt.Sprint(bounds[dim])
	}
	t := c.newTemp()
	c.emit(nil, string(token.GE), t, idx, limit, frame)
	c.emit(nil, string(token.IfTrue), upperBoundLabel, t, "", frame)
	c.errUsed[upperBoundLabel] = true
}

// emitRuntimeErrorSection appends the trailing handler block, once
// per error target actually referenced by a bound check anywhere in
// the program, followed by the single shared exit sequence.
func (c *Ctx) emitRuntimeErrorSection() {
	if len(c.errUsed) == 0 {
		c.prog.Data = c.dataObjs
		return
	}

	var entries []ir.RuntimeErrorEntry
	for _, label := range []string{negBoundLabel, upperBoundLabel} {
		if !c.errUsed[label] {
			continue
		}
		msgLabel := c.internString(runtimeErrMsg)
		c.emit([]string{label}, string(token.Pushl), msgLabel, "", "", nil)
		c.emit(nil, string(token.Goto), errExitLabel, "", "", nil)
		entries = append(entries, ir.RuntimeErrorEntry{Label: label, Message: runtimeErrMsg})
	}

	c.emit([]string{errExitLabel}, string(token.Call), "printf", "", "", nil)
	c.emit(nil, string(token.Syscall), "exit", "", "", nil)

	c.prog.RuntimeErrs = entries
	c.prog.Data = c.dataObjs
}
