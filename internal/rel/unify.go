package rel

import (
	"github.com/apache/arrow-go/v18/arrow"

	"github.com/querylabs/thetajoin/internal/errors"
)

// Key type unification. For each equality key position the left and right
// column types must be retyped to one common comparison type before any
// hashing happens. The widening lattice is
//
//	int8 -> int16 -> int32 -> int64 -> decimal128 -> float64
//
// with float32 promoting to float64 and string/bool unifying only with
// themselves. Unification runs once per plan candidate, never per row.

// intDigits is the decimal digit capacity needed to hold any value of an
// integer type, used to decide whether a decimal128 column can absorb it.
func intDigits(dt arrow.DataType) (int32, bool) {
	switch dt.ID() {
	case arrow.INT8:
		return 3, true
	case arrow.INT16:
		return 5, true
	case arrow.INT32:
		return 10, true
	case arrow.INT64:
		return 19, true
	default:
		return 0, false
	}
}

// intRank orders the integer types by width.
func intRank(dt arrow.DataType) (int, bool) {
	switch dt.ID() {
	case arrow.INT8:
		return 1, true
	case arrow.INT16:
		return 2, true
	case arrow.INT32:
		return 3, true
	case arrow.INT64:
		return 4, true
	default:
		return 0, false
	}
}

func isFloat(dt arrow.DataType) bool {
	return dt.ID() == arrow.FLOAT32 || dt.ID() == arrow.FLOAT64
}

// unify resolves one type pair to a common comparison type, or reports
// that none exists. Types outside the key vocabulary never unify, even
// with themselves, so unsupported key columns fail at plan time instead
// of surfacing as runtime hashing errors.
func unify(left, right arrow.DataType) (arrow.DataType, bool) {
	if !supportedKeyType(left) || !supportedKeyType(right) {
		return nil, false
	}
	if arrow.TypeEqual(left, right) {
		return left, true
	}

	lInt, lIsInt := intRank(left)
	rInt, rIsInt := intRank(right)

	// Integer widening.
	if lIsInt && rIsInt {
		if lInt >= rInt {
			return left, true
		}
		return right, true
	}

	// An integer joins a decimal column on the decimal's own type when the
	// decimal has room for the integer range; otherwise both go to float64.
	if dec, ok := left.(*arrow.Decimal128Type); ok && rIsInt {
		if digits, _ := intDigits(right); dec.Precision-dec.Scale >= digits {
			return dec, true
		}
		return arrow.PrimitiveTypes.Float64, true
	}
	if dec, ok := right.(*arrow.Decimal128Type); ok && lIsInt {
		if digits, _ := intDigits(left); dec.Precision-dec.Scale >= digits {
			return dec, true
		}
		return arrow.PrimitiveTypes.Float64, true
	}

	// Any other numeric mix (int x float, float32 x float64, decimal x
	// float, decimal x decimal with different precision or scale) compares
	// as float64. Rescaling decimals against each other is not worth the
	// code for a join key; equality after promotion is identical.
	if isNumeric(left) && isNumeric(right) {
		return arrow.PrimitiveTypes.Float64, true
	}

	return nil, false
}

// supportedKeyType reports whether values of this column type can be
// hashed and compared as a join key: the numeric lattice plus string
// and bool.
func supportedKeyType(dt arrow.DataType) bool {
	return isNumeric(dt) || dt.ID() == arrow.STRING || dt.ID() == arrow.BOOL
}

func isNumeric(dt arrow.DataType) bool {
	if _, ok := intRank(dt); ok {
		return true
	}
	if _, ok := dt.(*arrow.Decimal128Type); ok {
		return true
	}
	return isFloat(dt)
}

// UnifyKeyTypes resolves the comparison type of every equality key
// position. The returned slice is parallel to keys. A position with no
// common type fails the whole plan with IncompatibleKeyTypes naming the
// position; the planner is expected to skip the plan, not crash.
func UnifyKeyTypes(left, right Shape, keys []KeyPair) ([]arrow.DataType, error) {
	unified := make([]arrow.DataType, len(keys))
	for i, kp := range keys {
		if kp.Left < 0 || kp.Left >= left.Width() {
			return nil, errors.NewInvalidInputError("Unify",
				"left key ordinal out of range")
		}
		if kp.Right < 0 || kp.Right >= right.Width() {
			return nil, errors.NewInvalidInputError("Unify",
				"right key ordinal out of range")
		}
		lt := left[kp.Left]
		rt := right[kp.Right]
		u, ok := unify(lt, rt)
		if !ok {
			return nil, errors.NewIncompatibleKeyTypesError("Unify", i, lt.String(), rt.String())
		}
		unified[i] = u
	}
	return unified, nil
}
