// Package printer renders a lowered Program the way the command-line
// front end displays it: a per-frame symbol table summary, the data
// section, and the numbered IR listing. Column widths (labels 10,
// op 7, frame 8, line number 5) are fixed so diffing an old listing
// against a new one lines up the same way every time.
package printer

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/exp/maps"

	"decaf/internal/ir"
	"decaf/internal/scope"
)

const (
	labelsWidth = 10
	ssaWidth    = 7
	envWidth    = 8
	lineWidth   = 5
)

// Entry writes one IR line in fixed-column layout:
// line number, joined labels, operator, target, lhs, rhs, frame name.
func Entry(w io.Writer, e ir.Entry) {
	labels := strings.Join(e.Labels, ",")
	fmt.Fprintf(w, "%*d: %-*s %-*s %-8s %-8s %-8s %-*s\n",
		lineWidth, e.Line,
		labelsWidth, labels,
		ssaWidth, e.Op,
		e.Target, e.LHS, e.RHS,
		envWidth, e.Frame,
	)
}

// Program writes the full IR listing, in line order.
func Program(w io.Writer, p *ir.Program) {
	for _, e := range p.Entries {
		Entry(w, e)
	}
}

// DataSection writes the data section: one "label: value" line per
// interned constant, in label order (Decaf's own str1, str2, ...
// sequence already sorts correctly lexicographically only up to str9;
// sort numerically instead so a 10th literal doesn't print ahead of
// the 2nd).
func DataSection(w io.Writer, p *ir.Program) {
	entries := append([]ir.DataObject(nil), p.Data...)
	sort.Slice(entries, func(i, j int) bool { return dataOrdinal(entries[i].Label) < dataOrdinal(entries[j].Label) })
	for _, d := range entries {
		fmt.Fprintf(w, "%s: %q\n", d.Label, d.Value)
	}
}

func dataOrdinal(label string) int {
	var n int
	fmt.Sscanf(label, "str%d", &n)
	return n
}

// SymbolTables writes one block per frame, sorted by frame name so the
// listing is reproducible across runs even though Registry returns an
// unordered map.
func SymbolTables(w io.Writer, registry map[string]*scope.RuntimeTable) {
	names := maps.Keys(registry)
	sort.Strings(names)
	for _, name := range names {
		table := registry[name]
		fmt.Fprintf(w, "%s:\n", name)
		ids := table.Names()
		sort.Strings(ids)
		for _, id := range ids {
			mi, _ := table.Lookup(id)
			fmt.Fprintf(w, "  %-16s %-8s %-6s off=%d width=%d\n", id, mi.Type, mi.MemKind, mi.Offset, mi.Width)
		}
	}
}
