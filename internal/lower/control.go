package lower

import (
	"decaf/internal/ast"
	"decaf/internal/token"
)

// labelState is the Ctx-embedded portion tracking the two labels
// threaded through an if/else-if/else
// chain (ifNext is the next arm's branch-false target, ifDone is the
// chain's shared join point), plus a buffer of labels a prior
// instruction deferred onto whatever gets emitted next.
type labelState struct {
	pendingLabels []string
	ifNext        string
	ifDone        string
}

// savedLabelState is what a nested if-chain restores on exit, so that
// an if nested inside another if's Then arm doesn't clobber the outer
// chain's in-progress ifNext/ifDone.
type savedLabelState struct {
	ifNext string
	ifDone string
}

func (c *Ctx) saveLabelState() savedLabelState {
	return savedLabelState{ifNext: c.ifNext, ifDone: c.ifDone}
}

func (c *Ctx) restoreLabelState(s savedLabelState) {
	c.ifNext = s.ifNext
	c.ifDone = s.ifDone
}

// addPendingLabel defers label onto the next instruction this Ctx
// emits, whichever statement produces it.
func (c *Ctx) addPendingLabel(label string) {
	c.pendingLabels = append(c.pendingLabels, label)
}

// takeLabels hands back (and clears) whatever labels are pending,
// harvested onto the instruction about to be emitted.
func (c *Ctx) takeLabels() []string {
	if len(c.pendingLabels) == 0 {
		return nil
	}
	out := c.pendingLabels
	c.pendingLabels = nil
	return out
}

// lowerIf implements the if/else-if/else label-threading state
// machine: a fresh top-level if allocates if_next always, and if_done
// only when the chain actually has an else/else-if arm to join from,
// saving/restoring the surrounding chain's state; an else-if arm
// (reached by direct recursion with ifNext/ifDone already set) reuses
// the chain's existing ifDone instead of allocating its own.
func (c *Ctx) lowerIf(v *ast.If) {
	top := c.ifDone == ""
	hasElse := v.Else != nil
	var saved savedLabelState
	if top {
		saved = c.saveLabelState()
		if hasElse {
			c.ifDone = c.newLabel()
		}
	}

	cond := c.lowerExpr(v.Cond)
	thisNext := c.newLabel()
	c.ifNext = thisNext
	c.emit(c.takeLabels(), string(token.IfFalse), thisNext, cond, "", v.Frame())
	c.lowerArm(v.Then)

	switch next := v.Else.(type) {
	case nil:
		c.addPendingLabel(thisNext)
	case *ast.If:
		c.emit(c.takeLabels(), string(token.Goto), c.ifDone, "", "", v.Frame())
		c.addPendingLabel(thisNext)
		c.lowerIf(next)
	case *ast.Else:
		c.emit(c.takeLabels(), string(token.Goto), c.ifDone, "", "", v.Frame())
		c.addPendingLabel(thisNext)
		c.lowerArm(next.Body)
	default:
		c.emit(c.takeLabels(), string(token.Goto), c.ifDone, "", "", v.Frame())
		c.addPendingLabel(thisNext)
		c.lowerArm(v.Else)
	}

	if top {
		if hasElse {
			c.addPendingLabel(c.ifDone)
		}
		c.restoreLabelState(saved)
	}
}

// lowerArm lowers one arm's body with the chain's ifNext/ifDone
// cleared, so an if nested in the arm starts a chain of its own, and
// restores them afterwards.
func (c *Ctx) lowerArm(body ast.Node) {
	s := c.saveLabelState()
	c.ifNext, c.ifDone = "", ""
	c.lowerStmt(body)
	c.restoreLabelState(s)
}

// lowerFor lowers a C-style loop to head/step/exit labels. When Post
// is present, Cont resolves to a dedicated step label placed after the
// body and before Post runs; when absent, Cont resolves straight back
// to head.
func (c *Ctx) lowerFor(v *ast.For) {
	if v.Init != nil {
		c.lowerStmt(v.Init)
	}

	head := c.newLabel()
	exit := c.newLabel()
	cont := head
	if v.Post != nil {
		cont = c.newLabel()
	}

	c.addPendingLabel(head)
	if v.Cond != nil {
		cond := c.lowerExpr(v.Cond)
		c.emit(c.takeLabels(), string(token.IfFalse), exit, cond, "", v.Frame())
	}

	c.loops = append(c.loops, loopLabels{exit: exit, cont: cont})
	c.lowerStmt(v.Body)
	c.loops = c.loops[:len(c.loops)-1]

	if v.Post != nil {
		c.addPendingLabel(cont)
		c.lowerStmt(v.Post)
	}
	c.emit(c.takeLabels(), string(token.Goto), head, "", "", v.Frame())
	c.addPendingLabel(exit)
}

// lowerWhile lowers a pre-tested loop to head/exit labels; Cont and
// Break both resolve directly to head/exit.
func (c *Ctx) lowerWhile(v *ast.While) {
	head := c.newLabel()
	exit := c.newLabel()

	c.addPendingLabel(head)
	cond := c.lowerExpr(v.Cond)
	c.emit(c.takeLabels(), string(token.IfFalse), exit, cond, "", v.Frame())

	c.loops = append(c.loops, loopLabels{exit: exit, cont: head})
	c.lowerStmt(v.Body)
	c.loops = c.loops[:len(c.loops)-1]

	c.emit(c.takeLabels(), string(token.Goto), head, "", "", v.Frame())
	c.addPendingLabel(exit)
}
