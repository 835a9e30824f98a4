package expr

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow/decimal128"

	"github.com/querylabs/thetajoin/internal/errors"
	"github.com/querylabs/thetajoin/internal/rel"
)

// Predicate is a compiled residual condition. The arguments are always the
// logical left and right rows of the join, regardless of which side the
// executor chose to build its hash index on. An evaluation error is fatal
// for the whole join execution.
type Predicate func(left, right rel.Row) (bool, error)

// True is the constant-true predicate used when the condition is a pure
// equi-join.
func True(_, _ rel.Row) (bool, error) {
	return true, nil
}

// Compile turns a residual expression into a Predicate. A nil expression
// compiles to True. Evaluation follows SQL three-valued logic: comparisons
// involving NULL are unknown, and an unknown result does not satisfy the
// predicate. Runtime type mismatches surface as PredicateEvaluationError.
func Compile(e Expr, leftWidth int) (Predicate, error) {
	if e == nil {
		return True, nil
	}
	if err := checkBoolean(e); err != nil {
		return nil, err
	}
	return func(left, right rel.Row) (bool, error) {
		v, err := eval(e, left, right, leftWidth)
		if err != nil {
			return false, errors.NewPredicateError("Residual", err)
		}
		b, ok := v.(bool)
		return ok && b, nil
	}, nil
}

// checkBoolean rejects expressions that cannot produce a boolean, so the
// mistake is reported at plan time rather than on the first row pair.
func checkBoolean(e Expr) error {
	switch node := e.(type) {
	case *BinaryExpr:
		return nil
	case *UnaryExpr:
		return checkBoolean(node.operand)
	case *LiteralExpr:
		if _, ok := node.value.(bool); ok {
			return nil
		}
		return errors.NewInvalidInputError("Compile",
			fmt.Sprintf("residual literal %v is not boolean", node.value))
	default:
		return errors.NewInvalidInputError("Compile",
			fmt.Sprintf("residual %s is not a boolean expression", e))
	}
}

// eval computes an expression over one logical row pair. A nil result is
// SQL NULL (unknown for boolean nodes).
func eval(e Expr, left, right rel.Row, leftWidth int) (any, error) {
	switch node := e.(type) {
	case *ColumnExpr:
		if node.index < leftWidth {
			return left[node.index], nil
		}
		return right[node.index-leftWidth], nil

	case *LiteralExpr:
		return normalizeLiteral(node.value), nil

	case *UnaryExpr:
		v, err := eval(node.operand, left, right, leftWidth)
		if err != nil || v == nil {
			return nil, err
		}
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("NOT applied to non-boolean %v", v)
		}
		return !b, nil

	case *BinaryExpr:
		return evalBinary(node, left, right, leftWidth)

	default:
		return nil, fmt.Errorf("unsupported expression node %T", e)
	}
}

func evalBinary(b *BinaryExpr, left, right rel.Row, leftWidth int) (any, error) {
	if b.op == OpAnd || b.op == OpOr {
		return evalLogical(b, left, right, leftWidth)
	}

	lv, err := eval(b.left, left, right, leftWidth)
	if err != nil {
		return nil, err
	}
	rv, err := eval(b.right, left, right, leftWidth)
	if err != nil {
		return nil, err
	}
	if lv == nil || rv == nil {
		return nil, nil
	}

	cmp, err := compare(lv, rv)
	if err != nil {
		return nil, err
	}

	switch b.op {
	case OpEq:
		return cmp == 0, nil
	case OpNe:
		return cmp != 0, nil
	case OpLt:
		return cmp < 0, nil
	case OpLe:
		return cmp <= 0, nil
	case OpGt:
		return cmp > 0, nil
	case OpGe:
		return cmp >= 0, nil
	default:
		return nil, fmt.Errorf("unsupported comparison operator %s", b.op)
	}
}

// evalLogical implements three-valued AND/OR.
func evalLogical(b *BinaryExpr, left, right rel.Row, leftWidth int) (any, error) {
	lv, err := evalBool(b.left, left, right, leftWidth)
	if err != nil {
		return nil, err
	}
	rv, err := evalBool(b.right, left, right, leftWidth)
	if err != nil {
		return nil, err
	}

	if b.op == OpAnd {
		if (lv != nil && !*lv) || (rv != nil && !*rv) {
			return false, nil
		}
		if lv == nil || rv == nil {
			return nil, nil
		}
		return true, nil
	}

	// OpOr
	if (lv != nil && *lv) || (rv != nil && *rv) {
		return true, nil
	}
	if lv == nil || rv == nil {
		return nil, nil
	}
	return false, nil
}

func evalBool(e Expr, left, right rel.Row, leftWidth int) (*bool, error) {
	v, err := eval(e, left, right, leftWidth)
	if err != nil || v == nil {
		return nil, err
	}
	b, ok := v.(bool)
	if !ok {
		return nil, fmt.Errorf("logical operand %v is not boolean", v)
	}
	return &b, nil
}

// normalizeLiteral widens untyped Go int literals so they compare cleanly
// against int64 row values.
func normalizeLiteral(v any) any {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case float32:
		return float64(val)
	default:
		return v
	}
}

// compare orders two non-NULL values. Integers and floats compare across
// widths; decimals compare only against decimals of the same column type
// (the splitter never produces mixed decimal comparisons, and residual
// authors are expected to match scales). Anything else is a runtime type
// error, which kills the join.
func compare(a, b any) (int, error) {
	if ai, ok := intValue(a); ok {
		if bi, ok := intValue(b); ok {
			return compareOrdered(ai, bi), nil
		}
		if bf, ok := floatValue(b); ok {
			return compareOrdered(float64(ai), bf), nil
		}
	}
	if af, ok := floatValue(a); ok {
		if bf, ok := floatValue(b); ok {
			return compareOrdered(af, bf), nil
		}
		if bi, ok := intValue(b); ok {
			return compareOrdered(af, float64(bi)), nil
		}
	}

	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return compareOrdered(av, bv), nil
		}
	case bool:
		if bv, ok := b.(bool); ok {
			switch {
			case av == bv:
				return 0, nil
			case !av:
				return -1, nil
			default:
				return 1, nil
			}
		}
	case decimal128.Num:
		if bv, ok := b.(decimal128.Num); ok {
			switch {
			case av == bv:
				return 0, nil
			case av.Less(bv):
				return -1, nil
			default:
				return 1, nil
			}
		}
	}

	return 0, fmt.Errorf("cannot compare %T with %T", a, b)
}

func intValue(v any) (int64, bool) {
	switch val := v.(type) {
	case int8:
		return int64(val), true
	case int16:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	default:
		return 0, false
	}
}

func floatValue(v any) (float64, bool) {
	switch val := v.(type) {
	case float32:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}

func compareOrdered[T int64 | float64 | string](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
