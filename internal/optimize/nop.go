// Package optimize implements the lowering output's sole optimization
// pass: removal of the NOP placeholders left behind by the
// label-threading state machine in internal/lower.
package optimize

import "decaf/internal/ir"

// RemoveNOPs returns a new Program with every "nop" entry except the
// last dropped and re-numbered. A NOP line's own labels are never
// discarded: they are harvested into a buffer and re-attached to
// whatever the next surviving line turns out to be, so a forward jump
// that targeted the NOP still lands on a valid instruction. The very
// last entry is always kept even if it is a label-less NOP, since a
// backward jump emitted after optimization could still aim at "one
// past the end of the body" and needs somewhere to land.
func RemoveNOPs(p *ir.Program) *ir.Program {
	out := &ir.Program{Data: p.Data, RuntimeErrs: p.RuntimeErrs}

	var harvested []string
	for i, e := range p.Entries {
		isLast := i == len(p.Entries)-1
		isNOP := e.Op == "nop" && e.Target == "" && e.LHS == "" && e.RHS == ""

		if isNOP && !isLast {
			harvested = append(harvested, e.Labels...)
			continue
		}

		if len(harvested) > 0 {
			e.Labels = append(append([]string{}, harvested...), e.Labels...)
			harvested = nil
		}
		out.Entries = append(out.Entries, e)
	}

	out.Renumber()
	return out
}
