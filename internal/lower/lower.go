// Package lower implements the tree-to-IR lowering visitor: a single
// set of functions pattern-matching on internal/ast's concrete node
// types (a type switch), not a double-dispatch Accept/Visitor — a
// closed node family needs no virtual dispatch to walk.
//
// The temp/label counters, the if-chain label-threading state machine,
// and the array-bound run-time-error dispatch all live on an explicit,
// non-global Ctx so two compiles never share state.
package lower

import (
	"fmt"

	"decaf/internal/ast"
	"decaf/internal/ir"
	"decaf/internal/scope"
	"decaf/internal/token"
)

// Ctx carries the label-threading state, the temp/label counters, and
// the innermost loop's exit/continue labels. Reifying it as a value
// the caller owns is what lets two compiles run without cross-talk.
type Ctx struct {
	prog *ir.Program

	tempSeq  int
	labelSeq int

	loops []loopLabels

	labelState

	errUsed  map[string]bool
	dataSeq  int
	dataObjs []ir.DataObject
}

type loopLabels struct {
	exit string
	cont string
}

// New returns a ready-to-use lowering context targeting a fresh
// Program.
func New() *Ctx {
	return &Ctx{
		prog:    &ir.Program{},
		errUsed: make(map[string]bool),
	}
}

func (c *Ctx) newTemp() string {
	c.tempSeq++
	return fmt.Sprintf("t%d", c.tempSeq)
}

func (c *Ctx) newLabel() string {
	c.labelSeq++
	return fmt.Sprintf("L%d", c.labelSeq)
}

func frameName(f *scope.Frame) string {
	if f == nil {
		return ""
	}
	return f.Name
}

// emit appends one IR line under exactly the given labels; callers
// that want pending labels attached pass c.takeLabels().
func (c *Ctx) emit(labels []string, op, target, lhs, rhs string, frame *scope.Frame) {
	c.prog.Append(ir.Entry{
		Labels: labels,
		Op:     op,
		Target: target,
		LHS:    lhs,
		RHS:    rhs,
		Frame:  frameName(frame),
	})
}

// Program runs the lowering visitor over the top-level block and
// returns the finished (unoptimized) program, including the trailing
// run-time-error handler section for every bound-check label actually
// referenced.
func Program(root *ast.Block) *ir.Program {
	c := New()
	c.lowerStmt(root)
	if len(c.pendingLabels) > 0 {
		c.emit(c.takeLabels(), string(token.Nop), "", "", "", root.Frame())
	}
	c.emitRuntimeErrorSection()
	return c.prog
}

// lowerStmt dispatches a statement-position node. It returns nothing:
// statements are lowered purely for effect.
func (c *Ctx) lowerStmt(n ast.Node) {
	if n == nil {
		return
	}
	switch v := n.(type) {
	case *ast.Block:
		for _, s := range v.Stmts {
			c.lowerStmt(s)
		}

	case *ast.VarDecl:
		c.emit(c.takeLabels(), string(token.Dec), v.Name, v.Type, "", v.Frame())
		if v.Init != nil {
			rhs := c.lowerExpr(v.Init)
			c.emit(nil, "=", v.Name, rhs, "", v.Frame())
		}

	case *ast.ArrayVarDecl:
		c.lowerArrayBoundChecks(v.Name, v.Dims, v.Bounds, v.Frame())

	case *ast.Assign:
		rhs := c.lowerExpr(v.Value)
		target := c.lowerAssignTarget(v.Target)
		c.emit(c.takeLabels(), "=", target, rhs, "", v.Frame())

	case *ast.ModAssign:
		cur := c.lowerExpr(v.Target)
		rhs := c.lowerExpr(v.Value)
		t := c.newTemp()
		c.emit(nil, string(v.Op), t, cur, rhs, v.Frame())
		target := c.lowerAssignTarget(v.Target)
		c.emit(c.takeLabels(), "=", target, t, "", v.Frame())

	case *ast.If:
		c.lowerIf(v)

	case *ast.For:
		c.lowerFor(v)

	case *ast.While:
		c.lowerWhile(v)

	case *ast.Print:
		for _, arg := range v.Args {
			addr := c.lowerExpr(arg)
			c.emit(c.takeLabels(), string(token.Pushl), addr, "", "", v.Frame())
			c.emit(nil, string(token.Call), "printf", "", "", v.Frame())
		}

	case *ast.Break:
		if len(c.loops) > 0 {
			top := c.loops[len(c.loops)-1]
			c.emit(c.takeLabels(), "goto", top.exit, "", "", v.Frame())
		}

	case *ast.Cont:
		if len(c.loops) > 0 {
			top := c.loops[len(c.loops)-1]
			c.emit(c.takeLabels(), "goto", top.cont, "", "", v.Frame())
		}

	case *ast.EOB:
		// No operation of its own; a NOP anchors any labels a prior
		// statement deferred to "the next line" when that next line
		// turned out to be the end of the block.
		if len(c.pendingLabels) > 0 {
			c.emit(c.takeLabels(), string(token.Nop), "", "", "", v.Frame())
		}

	case *ast.PreIncrId, *ast.PostIncrId, *ast.PreIncrArrayId, *ast.PostIncrArrayId:
		c.lowerExpr(v)

	default:
		// Any other node reached in statement position (a bare
		// expression statement) is lowered for its side effect only;
		// its resulting address is discarded.
		c.lowerExpr(v)
	}
}

// lowerAssignTarget resolves the store address of an assignment's
// left-hand side, running array subscript/bound-check lowering when
// needed.
func (c *Ctx) lowerAssignTarget(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Id:
		return v.EffectiveAddr()
	case *ast.ArrayId:
		return c.lowerArrayAccess(v)
	default:
		return c.lowerExpr(n)
	}
}

// lowerExpr dispatches an expression-position node and returns the
// operand name a consuming instruction should use.
func (c *Ctx) lowerExpr(n ast.Node) string {
	switch v := n.(type) {
	case *ast.IntLit:
		return v.Addr()
	case *ast.FltLit:
		return v.Addr()
	case *ast.StrLit:
		label := c.internString(v.Value)
		return label
	case *ast.Tmp:
		return v.Addr()
	case *ast.ReadInteger:
		t := c.newTemp()
		c.emit(c.takeLabels(), string(token.Call), t, "ReadInteger", "", v.Frame())
		return t
	case *ast.ReadLine:
		t := c.newTemp()
		c.emit(c.takeLabels(), string(token.Call), t, "ReadLine", "", v.Frame())
		return t
	case *ast.Id:
		return v.EffectiveAddr()
	case *ast.ArrayId:
		return c.lowerArrayAccess(v)

	case *ast.Arith:
		lhs := c.lowerExpr(v.Left)
		rhs := c.lowerExpr(v.Right)
		t := c.newTemp()
		c.emit(c.takeLabels(), string(v.Op), t, lhs, rhs, v.Frame())
		return t

	case *ast.UnaryArith:
		rhs := c.lowerExpr(v.Operand)
		t := c.newTemp()
		c.emit(c.takeLabels(), string(v.Op), t, "0", rhs, v.Frame())
		return t

	case *ast.Rel:
		lhs := c.lowerExpr(v.Left)
		rhs := c.lowerExpr(v.Right)
		t := c.newTemp()
		c.emit(c.takeLabels(), string(v.Op), t, lhs, rhs, v.Frame())
		return t

	case *ast.Or:
		lhs := c.lowerExpr(v.Left)
		rhs := c.lowerExpr(v.Right)
		t := c.newTemp()
		c.emit(c.takeLabels(), string(token.OrOr), t, lhs, rhs, v.Frame())
		return t

	case *ast.And:
		lhs := c.lowerExpr(v.Left)
		rhs := c.lowerExpr(v.Right)
		t := c.newTemp()
		c.emit(c.takeLabels(), string(token.AndAnd), t, lhs, rhs, v.Frame())
		return t

	case *ast.Not:
		operand := c.lowerExpr(v.Operand)
		t := c.newTemp()
		c.emit(c.takeLabels(), string(token.Bang), t, operand, "", v.Frame())
		return t

	case *ast.Coerced:
		inner := c.lowerExpr(v.Inner)
		t := c.newTemp()
		c.emit(c.takeLabels(), string(token.Cast), t, inner, v.To, v.Frame())
		return t

	case *ast.PreIncrId:
		return c.lowerPreIncr(v.Target.EffectiveAddr(), v.Delta, v.Frame())
	case *ast.PostIncrId:
		return c.lowerPostIncr(v.Target.EffectiveAddr(), v.Delta, v.Frame())
	case *ast.PreIncrArrayId:
		addr := c.lowerArrayAccess(v.Target)
		return c.lowerPreIncr(addr, v.Delta, v.Frame())
	case *ast.PostIncrArrayId:
		addr := c.lowerArrayAccess(v.Target)
		return c.lowerPostIncr(addr, v.Delta, v.Frame())

	default:
		return ""
	}
}

// lowerPreIncr emits the increment before any use of its result: the
// caller receives addr itself as the operand.
func (c *Ctx) lowerPreIncr(addr string, delta ast.IncrDelta, frame *scope.Frame) string {
	c.emitIncr(addr, delta, frame)
	return addr
}

// lowerPostIncr copies the pre-increment value into a fresh temp, then
// emits the increment; the caller receives the temp, preserving the
// original value for use in the surrounding expression.
func (c *Ctx) lowerPostIncr(addr string, delta ast.IncrDelta, frame *scope.Frame) string {
	t := c.newTemp()
	c.emit(c.takeLabels(), "=", t, addr, "", frame)
	c.emitIncr(addr, delta, frame)
	return t
}

// emitIncr lowers both ++ and --: a decrement is an explicit '-' with
// rhs "1" (not a '+' with rhs "-1").
func (c *Ctx) emitIncr(addr string, delta ast.IncrDelta, frame *scope.Frame) {
	op := "+"
	if delta < 0 {
		op = "-"
	}
	c.emit(nil, op, addr, addr, "1", frame)
}

// internString allocates (or reuses) a data-section label for a
// string literal and returns that label as the operand address.
func (c *Ctx) internString(v string) string {
	for _, d := range c.dataObjs {
		if d.Value == v {
			return d.Label
		}
	}
	c.dataSeq++
	label := fmt.Sprintf("str%d", c.dataSeq)
	c.dataObjs = append(c.dataObjs, ir.DataObject{Label: label, Value: v})
	return label
}

// Data returns the data-section entries accumulated so far.
func (c *Ctx) Data() []ir.DataObject { return c.dataObjs }
