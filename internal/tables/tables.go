// Package tables holds the compile-time constant tables consulted by
// the expression parser and the lowering visitor: binary-operator
// precedence, type coercion precedence, type width, and the
// logical-vs-arithmetic classification of binary operators.
package tables

import "decaf/internal/token"

// BinOp maps a binary operator token to its parsing precedence. Higher
// binds tighter. Operators absent from the table (=, !, unary -, [, .)
// have a fixed role elsewhere in the grammar; Priority returns -1 for
// them. internal/parser does not read this table: it encodes the same
// ordering in one grammar function per precedence level.
var BinOp = map[token.Kind]int{
	token.OrOr:    100,
	token.AndAnd:  200,
	token.EQ:      300,
	token.NE:      300,
	token.LT:      400,
	token.LE:      400,
	token.GT:      400,
	token.GE:      400,
	token.Plus:    500,
	token.Minus:   500,
	token.Star:    600,
	token.Slash:   600,
	token.Percent: 600,
}

// Priority returns the operator-precedence parsing priority of k, or
// -1 if k does not head a binary expression.
func Priority(k token.Kind) int {
	if p, ok := BinOp[k]; ok {
		return p
	}
	return -1
}

// TypePrec ranks basic types for numeric coercion: the operand with
// the lower rank is widened to the type with the higher one.
var TypePrec = map[string]int{
	"int":    10,
	"double": 20,
}

// TypePriority returns the coercion rank of a type name, or -1 if the
// name is not a recognized basic numeric type.
func TypePriority(typ string) int {
	if p, ok := TypePrec[typ]; ok {
		return p
	}
	return -1
}

// TypeWidth gives the run-time storage width, in bytes, of a basic
// type on the target machine.
var TypeWidth = map[string]int{
	"int":    4,
	"double": 8,
}

// Width returns the storage width of typ, or -1 if unknown.
func Width(typ string) int {
	if w, ok := TypeWidth[typ]; ok {
		return w
	}
	return -1
}

// LogicalArith classifies a binary operator as logical (true) or
// arithmetic/relational (false); internal/parser does not consult it.
// || and && are logical; everything else the table tracks is
// arithmetic or relational.
var LogicalArith = map[token.Kind]bool{
	token.OrOr:    true,
	token.AndAnd:  true,
	token.EQ:      false,
	token.NE:      false,
	token.LT:      false,
	token.LE:      false,
	token.GT:      false,
	token.GE:      false,
	token.Plus:    false,
	token.Minus:   false,
	token.Star:    false,
	token.Slash:   false,
	token.Percent: false,
}

// IsLogical reports whether k is a logical (short-circuit) operator.
// Tokens outside LogicalArith are treated as non-logical.
func IsLogical(k token.Kind) bool {
	return LogicalArith[k]
}
