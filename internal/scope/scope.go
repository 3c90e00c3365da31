// Package scope implements the compile-time lexical-scope hierarchy
// and its paired run-time activation-record symbol tables. A Frame is
// created when a new block opens and is never destroyed before the
// program ends: later passes (the lowering visitor) walk the frame
// tree that parsing already built.
//
// Each Frame pairs one compile-time lexical scope with a RuntimeTable
// of activation-record offsets; a Builder owns the frame-name counter
// and current top frame explicitly instead of through package-level
// globals, so two compiles can run without cross-talk.
package scope

import (
	"fmt"

	"github.com/pkg/errors"
)

// Declarable is the minimal interface a declaring AST node must
// satisfy to be stored in a Frame's compile-time identifier map.
// internal/ast's Id/ArrayId/VarDecl nodes implement it; scope does not
// import internal/ast; higher layers import scope instead.
type Declarable interface {
	DeclType() string
	DeclWidth() int
}

// Frame is one compile-time lexical scope. Its Name is assigned at
// creation by the Builder's monotonically increasing counter; Parent
// is nil only for the root frame.
type Frame struct {
	Name   string
	Parent *Frame
	ids    map[string]Declarable

	Table *RuntimeTable
}

// MemKind is the run-time storage class of a declared identifier.
type MemKind string

const (
	Stack MemKind = "stack"
	Heap  MemKind = "heap"
)

// MemInfo records where and how wide a declared identifier lives at
// run time: type, storage class, offset, width.
type MemInfo struct {
	Type    string
	MemKind MemKind
	Offset  int
	Width   int
}

// RuntimeTable is the run-time symbol table paired with exactly one
// Frame, keyed by the frame's name. It tracks two independent offset
// cursors — one per MemKind — that only ever advance.
type RuntimeTable struct {
	Name string

	stackOffset int
	heapOffset  int
	entries     map[string]MemInfo
}

func newRuntimeTable(name string) *RuntimeTable {
	return &RuntimeTable{Name: name, entries: make(map[string]MemInfo)}
}

// Lookup returns the recorded memory info for name and whether it was
// found.
func (t *RuntimeTable) Lookup(name string) (MemInfo, bool) {
	mi, ok := t.entries[name]
	return mi, ok
}

// Names returns the identifiers declared in this table, in no
// particular order; callers that need determinism sort the result
// themselves (see internal/printer).
func (t *RuntimeTable) Names() []string {
	names := make([]string, 0, len(t.entries))
	for n := range t.entries {
		names = append(names, n)
	}
	return names
}

func (t *RuntimeTable) insert(name, typ string, kind MemKind, width int) MemInfo {
	var offset int
	switch kind {
	case Heap:
		offset = t.heapOffset
		t.heapOffset += width
	case Stack:
		offset = t.stackOffset
		t.stackOffset += width
	default:
		panic("scope: invalid MemKind " + string(kind))
	}
	mi := MemInfo{Type: typ, MemKind: kind, Offset: offset, Width: width}
	t.entries[name] = mi
	return mi
}

// ErrRedefined is returned by Builder.Declare when name already exists
// in the target frame.
var ErrRedefined = errors.New("redefined")

// ErrUnknownFrame is returned when a frame is not the one registered
// by this Builder (e.g. a stale pointer from a different compile).
var ErrUnknownFrame = errors.New("unknown frame")

// Builder owns the frame-name counter and the current top-of-stack
// frame for one compile, held as explicit, non-reentrant state rather
// than package-level globals.
type Builder struct {
	count int
	root  *Frame
	top   *Frame

	registered map[string]*Frame
}

// NewBuilder creates a Builder with a fresh root frame already open.
// The root frame is never a valid declare/close target.
func NewBuilder() *Builder {
	b := &Builder{registered: make(map[string]*Frame)}
	root := &Frame{Name: "Env0"}
	root.Table = newRuntimeTable(root.Name)
	b.root = root
	b.top = root
	b.registered[root.Name] = root
	return b
}

// Root returns the builder's root frame.
func (b *Builder) Root() *Frame { return b.root }

// Top returns the currently open (innermost) frame.
func (b *Builder) Top() *Frame { return b.top }

// OpenScope creates a new frame whose parent is parent (or the current
// top frame, if parent is nil), assigns it a fresh Env{n} name, pairs
// it with a new RuntimeTable, and makes it the current top frame.
func (b *Builder) OpenScope(parent *Frame) *Frame {
	if parent == nil {
		parent = b.top
	}
	b.count++
	f := &Frame{
		Name:   fmt.Sprintf("Env%d", b.count),
		Parent: parent,
		ids:    make(map[string]Declarable),
	}
	f.Table = newRuntimeTable(f.Name)
	b.registered[f.Name] = f
	b.top = f
	return f
}

// CloseScope pops to frame.Parent as the current top. The frame's data
// is retained; nothing is freed (frames live until the process using
// them is done with the IR).
func (b *Builder) CloseScope(f *Frame) error {
	if g, ok := b.registered[f.Name]; !ok || g != f {
		return errors.Wrapf(ErrUnknownFrame, "frame %q", f.Name)
	}
	b.top = f.Parent
	if b.top == nil {
		b.top = b.root
	}
	return nil
}

// Declare inserts id into frame's compile-time map under name and
// records a matching entry in the paired run-time table, advancing
// that table's memKind cursor by id's width.
func (b *Builder) Declare(f *Frame, name string, id Declarable, kind MemKind) (MemInfo, error) {
	if g, ok := b.registered[f.Name]; !ok || g != f {
		return MemInfo{}, errors.Wrapf(ErrUnknownFrame, "frame %q", f.Name)
	}
	if f == b.root {
		return MemInfo{}, errors.New("scope: cannot declare into the root frame")
	}
	if f.ids == nil {
		f.ids = make(map[string]Declarable)
	}
	if _, exists := f.ids[name]; exists {
		return MemInfo{}, errors.Wrapf(ErrRedefined, "%q in %s", name, f.Name)
	}
	f.ids[name] = id
	return f.Table.insert(name, id.DeclType(), kind, id.DeclWidth()), nil
}

// Lookup searches f, then its ancestors up to but not including the
// root, for name. It returns the first hit.
func Lookup(f *Frame, name string) (Declarable, bool) {
	for cur := f; cur != nil && cur.Parent != nil; cur = cur.Parent {
		if d, ok := cur.ids[name]; ok {
			return d, true
		}
	}
	return nil, false
}

// Registry returns every frame's runtime table created by this
// builder, keyed by frame name: the flat dictionary the printer
// walks.
func (b *Builder) Registry() map[string]*RuntimeTable {
	out := make(map[string]*RuntimeTable, len(b.registered))
	for name, f := range b.registered {
		out[name] = f.Table
	}
	return out
}
