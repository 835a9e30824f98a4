package expr

import (
	"fmt"

	"github.com/querylabs/thetajoin/internal/errors"
	"github.com/querylabs/thetajoin/internal/rel"
)

// Split decomposes a join condition over the concatenated left+right
// schema into equi-join key pairs and a residual predicate expression.
//
// The decomposition is sound: the original condition is logically
// equivalent to AND(leftKey[i] == rightKey[i]) && residual. Only top-level
// conjuncts of the form col(i) == col(j) with i and j on opposite sides
// become key pairs; everything else, including equalities between columns
// of the same side, stays in the residual. The residual is nil when the
// condition is a pure equi-join.
//
// A condition with no cross-side equality conjunct cannot be executed by
// the theta hash join operator; Split reports NotApplicable so the planner
// excludes the plan at construction time.
func Split(cond Expr, leftWidth, rightWidth int) ([]rel.KeyPair, Expr, error) {
	if leftWidth <= 0 || rightWidth <= 0 {
		return nil, nil, errors.NewInvalidInputError("Split", "empty input schema")
	}
	if cond == nil {
		return nil, nil, errors.NewNotApplicableError("Split",
			"join condition has no equality component")
	}

	total := leftWidth + rightWidth
	conjuncts := flattenConjuncts(cond, nil)

	var keys []rel.KeyPair
	var residual Expr

	for _, c := range conjuncts {
		if err := checkColumnBounds(c, total); err != nil {
			return nil, nil, err
		}
		if pair, ok := asKeyPair(c, leftWidth); ok {
			keys = append(keys, pair)
			continue
		}
		if residual == nil {
			residual = c
		} else {
			residual = &BinaryExpr{left: residual, op: OpAnd, right: c}
		}
	}

	if len(keys) == 0 {
		return nil, nil, errors.NewNotApplicableError("Split",
			"join condition has no equality component")
	}
	return keys, residual, nil
}

// flattenConjuncts walks the top-level AND tree into a conjunct list.
func flattenConjuncts(e Expr, out []Expr) []Expr {
	if b, ok := e.(*BinaryExpr); ok && b.op == OpAnd {
		out = flattenConjuncts(b.left, out)
		return flattenConjuncts(b.right, out)
	}
	return append(out, e)
}

// asKeyPair recognizes a cross-side column equality. The returned pair
// holds each ordinal relative to its own side's shape.
func asKeyPair(e Expr, leftWidth int) (rel.KeyPair, bool) {
	b, ok := e.(*BinaryExpr)
	if !ok || b.op != OpEq {
		return rel.KeyPair{}, false
	}
	lc, ok := b.left.(*ColumnExpr)
	if !ok {
		return rel.KeyPair{}, false
	}
	rc, ok := b.right.(*ColumnExpr)
	if !ok {
		return rel.KeyPair{}, false
	}

	switch {
	case lc.index < leftWidth && rc.index >= leftWidth:
		return rel.KeyPair{Left: lc.index, Right: rc.index - leftWidth}, true
	case rc.index < leftWidth && lc.index >= leftWidth:
		return rel.KeyPair{Left: rc.index, Right: lc.index - leftWidth}, true
	default:
		// Same-side equality is an ordinary filter, not a join key.
		return rel.KeyPair{}, false
	}
}

// checkColumnBounds rejects column ordinals outside the concatenated schema.
func checkColumnBounds(e Expr, total int) error {
	switch node := e.(type) {
	case *ColumnExpr:
		if node.index < 0 || node.index >= total {
			return errors.NewInvalidInputError("Split",
				fmt.Sprintf("column ordinal %d outside concatenated schema of width %d",
					node.index, total))
		}
		return nil
	case *LiteralExpr:
		return nil
	case *UnaryExpr:
		return checkColumnBounds(node.operand, total)
	case *BinaryExpr:
		if err := checkColumnBounds(node.left, total); err != nil {
			return err
		}
		return checkColumnBounds(node.right, total)
	default:
		return errors.NewInvalidInputError("Split",
			fmt.Sprintf("unsupported expression node %T", e))
	}
}
