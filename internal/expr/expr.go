// Package expr provides the join condition representation: a small boolean
// expression AST over the concatenated left+right schema, the splitter that
// separates equi-join keys from the residual theta condition, and the
// compiler that turns the residual into a callable row-pair predicate.
package expr

import (
	"fmt"
)

// ExprType represents the type of expression
type ExprType int

const (
	ExprColumn ExprType = iota
	ExprLiteral
	ExprBinary
	ExprUnary
)

// Expr is a node of the join condition AST.
type Expr interface {
	Type() ExprType
	String() string
}

// ColumnExpr references a column by ordinal in the concatenated
// left+right schema: ordinals [0, leftWidth) are left columns, the rest
// are right columns.
type ColumnExpr struct {
	index int
}

func (c *ColumnExpr) Type() ExprType {
	return ExprColumn
}

func (c *ColumnExpr) String() string {
	return fmt.Sprintf("col(%d)", c.index)
}

func (c *ColumnExpr) Index() int {
	return c.index
}

// LiteralExpr represents a constant value
type LiteralExpr struct {
	value any
}

func (l *LiteralExpr) Type() ExprType {
	return ExprLiteral
}

func (l *LiteralExpr) String() string {
	return fmt.Sprintf("lit(%v)", l.value)
}

func (l *LiteralExpr) Value() any {
	return l.value
}

// BinaryOp represents binary operations
type BinaryOp int

const (
	OpEq BinaryOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
)

func (op BinaryOp) String() string {
	switch op {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	default:
		return "?"
	}
}

// BinaryExpr represents a binary operation
type BinaryExpr struct {
	left  Expr
	op    BinaryOp
	right Expr
}

func (b *BinaryExpr) Type() ExprType {
	return ExprBinary
}

func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.left.String(), b.op, b.right.String())
}

func (b *BinaryExpr) Left() Expr {
	return b.left
}

func (b *BinaryExpr) Op() BinaryOp {
	return b.op
}

func (b *BinaryExpr) Right() Expr {
	return b.right
}

// UnaryExpr represents logical negation
type UnaryExpr struct {
	operand Expr
}

func (u *UnaryExpr) Type() ExprType {
	return ExprUnary
}

func (u *UnaryExpr) String() string {
	return fmt.Sprintf("!%s", u.operand.String())
}

func (u *UnaryExpr) Operand() Expr {
	return u.operand
}

// Col creates a column reference by ordinal in the concatenated schema.
func Col(index int) *ColumnExpr {
	return &ColumnExpr{index: index}
}

// Lit creates a literal expression
func Lit(value any) *LiteralExpr {
	return &LiteralExpr{value: value}
}

// Not negates a boolean expression
func Not(operand Expr) *UnaryExpr {
	return &UnaryExpr{operand: operand}
}

// Comparison builders on column references

func (c *ColumnExpr) Eq(other Expr) *BinaryExpr {
	return &BinaryExpr{left: c, op: OpEq, right: other}
}

func (c *ColumnExpr) Ne(other Expr) *BinaryExpr {
	return &BinaryExpr{left: c, op: OpNe, right: other}
}

func (c *ColumnExpr) Lt(other Expr) *BinaryExpr {
	return &BinaryExpr{left: c, op: OpLt, right: other}
}

func (c *ColumnExpr) Le(other Expr) *BinaryExpr {
	return &BinaryExpr{left: c, op: OpLe, right: other}
}

func (c *ColumnExpr) Gt(other Expr) *BinaryExpr {
	return &BinaryExpr{left: c, op: OpGt, right: other}
}

func (c *ColumnExpr) Ge(other Expr) *BinaryExpr {
	return &BinaryExpr{left: c, op: OpGe, right: other}
}

// Logical builders on boolean expressions

func (b *BinaryExpr) And(other Expr) *BinaryExpr {
	return &BinaryExpr{left: b, op: OpAnd, right: other}
}

func (b *BinaryExpr) Or(other Expr) *BinaryExpr {
	return &BinaryExpr{left: b, op: OpOr, right: other}
}
