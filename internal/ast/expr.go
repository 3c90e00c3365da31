package ast

import (
	"strconv"

	"decaf/internal/scope"
	"decaf/internal/tables"
	"decaf/internal/token"
)

// Id is a variable reference. Initialized and Warned are
// definite-assignment flags carried on the node; no pass in this
// repository sets them. Override, when non-empty, substitutes a
// different operand name (see EffectiveAddr) without mutating Addr,
// which may still be read by other owners; internal/lower reads it but
// never sets it.
type Id struct {
	base
	Name        string
	Type        string
	Initialized bool
	Warned      bool
	Override    string
}

// NewId constructs an identifier reference and sets its own Addr to
// its name — an Id's operand name is always its source spelling.
func NewId(pos Position, frame *scope.Frame, name, typ string) *Id {
	id := &Id{base: newBase(pos, frame), Name: name, Type: typ}
	id.addr = name
	trace("Id", pos)
	return id
}

func (i *Id) Children() []Node { return nil }
func (i *Id) DeclType() string { return i.Type }
func (i *Id) DeclWidth() int   { return tables.Width(i.Type) }

// EffectiveAddr returns Override if set, else Addr — the operand name
// an expression actually consuming this Id should use.
func (i *Id) EffectiveAddr() string {
	if i.Override != "" {
		return i.Override
	}
	return i.Addr()
}

// ArrayId is a subscript access a[d0][d1]...; Dims holds one
// expression per dimension, Resolved holds the dimension's string
// form once lowered (the operand name lowering produced for that
// index: a literal's own text, a variable name, or a temporary).
type ArrayId struct {
	base
	Name       string
	ElemType   string
	Base       *Id
	Dims       []Node
	Bounds     []int // compile-time bound per dimension, 0 if non-literal
	AllLiteral bool
	Resolved   []string
}

func NewArrayId(pos Position, frame *scope.Frame, name, elemType string, dims []Node, bounds []int, allLiteral bool) *ArrayId {
	a := &ArrayId{
		base:       newBase(pos, frame),
		Name:       name,
		ElemType:   elemType,
		Dims:       dims,
		Bounds:     bounds,
		AllLiteral: allLiteral,
		Resolved:   make([]string, len(dims)),
	}
	for _, d := range dims {
		Link(d)
	}
	a.addr = name
	trace("ArrayId", pos)
	return a
}

func (a *ArrayId) Children() []Node { return a.Dims }
func (a *ArrayId) DeclType() string { return a.ElemType }
func (a *ArrayId) DeclWidth() int {
	w := tables.Width(a.ElemType)
	for _, b := range a.Bounds {
		if b > 0 {
			w *= b
		}
	}
	return w
}

// IncrDelta is shared by the four pre/post-increment node kinds.
type IncrDelta int

const (
	Inc IncrDelta = 1
	Dec IncrDelta = -1
)

// PreIncrId is ++x / --x on a scalar identifier.
type PreIncrId struct {
	base
	Target *Id
	Delta  IncrDelta
}

func NewPreIncrId(pos Position, frame *scope.Frame, target *Id, delta IncrDelta) *PreIncrId {
	Link(target)
	n := &PreIncrId{base: newBase(pos, frame), Target: target, Delta: delta}
	trace("PreIncrId", pos)
	return n
}
func (n *PreIncrId) Children() []Node { return []Node{n.Target} }

// PostIncrId is x++ / x-- on a scalar identifier.
type PostIncrId struct {
	base
	Target *Id
	Delta  IncrDelta
}

func NewPostIncrId(pos Position, frame *scope.Frame, target *Id, delta IncrDelta) *PostIncrId {
	Link(target)
	n := &PostIncrId{base: newBase(pos, frame), Target: target, Delta: delta}
	trace("PostIncrId", pos)
	return n
}
func (n *PostIncrId) Children() []Node { return []Node{n.Target} }

// PreIncrArrayId / PostIncrArrayId: identical desugaring applied to a
// subscript access, once its access address has been materialized.
type PreIncrArrayId struct {
	base
	Target *ArrayId
	Delta  IncrDelta
}

func NewPreIncrArrayId(pos Position, frame *scope.Frame, target *ArrayId, delta IncrDelta) *PreIncrArrayId {
	Link(target)
	n := &PreIncrArrayId{base: newBase(pos, frame), Target: target, Delta: delta}
	trace("PreIncrArrayId", pos)
	return n
}
func (n *PreIncrArrayId) Children() []Node { return []Node{n.Target} }

type PostIncrArrayId struct {
	base
	Target *ArrayId
	Delta  IncrDelta
}

func NewPostIncrArrayId(pos Position, frame *scope.Frame, target *ArrayId, delta IncrDelta) *PostIncrArrayId {
	Link(target)
	n := &PostIncrArrayId{base: newBase(pos, frame), Target: target, Delta: delta}
	trace("PostIncrArrayId", pos)
	return n
}
func (n *PostIncrArrayId) Children() []Node { return []Node{n.Target} }

// IntLit, FltLit, StrLit are literal terminals; their Addr is the
// literal's own printed text.
type IntLit struct {
	base
	Value int64
}

func NewIntLit(pos Position, frame *scope.Frame, v int64) *IntLit {
	n := &IntLit{base: newBase(pos, frame), Value: v}
	n.addr = itoa(v)
	trace("IntLit", pos)
	return n
}
func (n *IntLit) Children() []Node { return nil }

type FltLit struct {
	base
	Value float64
}

func NewFltLit(pos Position, frame *scope.Frame, v float64) *FltLit {
	n := &FltLit{base: newBase(pos, frame), Value: v}
	n.addr = ftoa(v)
	trace("FltLit", pos)
	return n
}
func (n *FltLit) Children() []Node { return nil }

type StrLit struct {
	base
	Value string
}

func NewStrLit(pos Position, frame *scope.Frame, v string) *StrLit {
	n := &StrLit{base: newBase(pos, frame), Value: v}
	n.addr = v
	trace("StrLit", pos)
	return n
}
func (n *StrLit) Children() []Node { return nil }

// Tmp is a visitor-synthesized temporary, name t{n}.
type Tmp struct {
	base
	Name string
}

func NewTmp(frame *scope.Frame, name string) *Tmp {
	t := &Tmp{base: newBase(Position{}, frame), Name: name}
	t.addr = name
	return t
}
func (t *Tmp) Children() []Node { return nil }

// NOP is a placeholder used purely for label anchoring; it carries no
// operands.
type NOP struct {
	base
}

func NewNOP(pos Position, frame *scope.Frame) *NOP {
	n := &NOP{base: newBase(pos, frame)}
	trace("NOP", pos)
	return n
}
func (n *NOP) Children() []Node { return nil }

// Arith is a binary arithmetic expression (+, -, *, /, %).
type Arith struct {
	base
	Op    token.Kind
	Left  Node
	Right Node
}

func NewArith(pos Position, frame *scope.Frame, op token.Kind, l, r Node) *Arith {
	Link(l)
	Link(r)
	n := &Arith{base: newBase(pos, frame), Op: op, Left: l, Right: r}
	trace("Arith", pos)
	return n
}
func (n *Arith) Children() []Node { return []Node{n.Left, n.Right} }

// UnaryArith is unary minus: its single operand is Operand; the
// lowering visitor synthesizes "0" as the left operand.
type UnaryArith struct {
	base
	Op      token.Kind
	Operand Node
}

func NewUnaryArith(pos Position, frame *scope.Frame, op token.Kind, operand Node) *UnaryArith {
	Link(operand)
	n := &UnaryArith{base: newBase(pos, frame), Op: op, Operand: operand}
	trace("UnaryArith", pos)
	return n
}
func (n *UnaryArith) Children() []Node { return []Node{n.Operand} }

// Rel is a relational comparison (<, <=, >, >=, ==, !=).
type Rel struct {
	base
	Op    token.Kind
	Left  Node
	Right Node
}

func NewRel(pos Position, frame *scope.Frame, op token.Kind, l, r Node) *Rel {
	Link(l)
	Link(r)
	n := &Rel{base: newBase(pos, frame), Op: op, Left: l, Right: r}
	trace("Rel", pos)
	return n
}
func (n *Rel) Children() []Node { return []Node{n.Left, n.Right} }

// Or / And are short-circuit logical combinators; each emits a single
// SSA tuple, the actual branching left to the backend.
type Or struct {
	base
	Left  Node
	Right Node
}

func NewOr(pos Position, frame *scope.Frame, l, r Node) *Or {
	Link(l)
	Link(r)
	n := &Or{base: newBase(pos, frame), Left: l, Right: r}
	trace("Or", pos)
	return n
}
func (n *Or) Children() []Node { return []Node{n.Left, n.Right} }

type And struct {
	base
	Left  Node
	Right Node
}

func NewAnd(pos Position, frame *scope.Frame, l, r Node) *And {
	Link(l)
	Link(r)
	n := &And{base: newBase(pos, frame), Left: l, Right: r}
	trace("And", pos)
	return n
}
func (n *And) Children() []Node { return []Node{n.Left, n.Right} }

// Not is logical negation.
type Not struct {
	base
	Operand Node
}

func NewNot(pos Position, frame *scope.Frame, operand Node) *Not {
	Link(operand)
	n := &Not{base: newBase(pos, frame), Operand: operand}
	trace("Not", pos)
	return n
}
func (n *Not) Children() []Node { return []Node{n.Operand} }

// Coerced wraps an expression being widened/narrowed between the
// basic numeric types.
type Coerced struct {
	base
	From  string
	To    string
	Inner Node
}

func NewCoerced(pos Position, frame *scope.Frame, from, to string, inner Node) *Coerced {
	Link(inner)
	n := &Coerced{base: newBase(pos, frame), From: from, To: to, Inner: inner}
	trace("Coerced", pos)
	return n
}
func (n *Coerced) Children() []Node { return []Node{n.Inner} }

func itoa(v int64) string   { return strconv.FormatInt(v, 10) }
func ftoa(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
