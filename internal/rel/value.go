package rel

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/decimal128"

	"github.com/querylabs/thetajoin/internal/errors"
)

// Format renders a single row value for explain output and error messages.
func Format(v any) string {
	if v == nil {
		return "NULL"
	}
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case decimal128.Num:
		return fmt.Sprintf("decimal(%v,%v)", val.HighBits(), val.LowBits())
	default:
		return fmt.Sprintf("%v", val)
	}
}

// FormatRow renders a row for test failures and the CLI demo.
func FormatRow(row Row) string {
	out := "["
	for i, v := range row {
		if i > 0 {
			out += ", "
		}
		out += Format(v)
	}
	return out + "]"
}

// asInt64 widens any supported integer value to int64.
func asInt64(v any) (int64, bool) {
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

// Normalize converts a value from its column type to the unified comparison
// type chosen by UnifyKeyTypes. NULL stays NULL. The conversions here are
// exactly the lattice edges, so a failure means the caller skipped
// unification and is an internal error.
func Normalize(v any, from, to arrow.DataType) (any, error) {
	if v == nil {
		return nil, nil
	}
	if arrow.TypeEqual(from, to) {
		return v, nil
	}

	switch target := to.(type) {
	case *arrow.Int16Type:
		if i, ok := asInt64(v); ok {
			return int16(i), nil
		}
	case *arrow.Int32Type:
		if i, ok := asInt64(v); ok {
			return int32(i), nil
		}
	case *arrow.Int64Type:
		if i, ok := asInt64(v); ok {
			return i, nil
		}
	case *arrow.Decimal128Type:
		if i, ok := asInt64(v); ok {
			return decimal128.FromI64(i).IncreaseScaleBy(target.Scale), nil
		}
	case *arrow.Float64Type:
		switch val := v.(type) {
		case float32:
			return float64(val), nil
		case float64:
			return val, nil
		case decimal128.Num:
			dec, ok := from.(*arrow.Decimal128Type)
			if !ok {
				break
			}
			return val.ToFloat64(dec.Scale), nil
		default:
			if i, ok := asInt64(v); ok {
				return float64(i), nil
			}
		}
	}

	return nil, errors.NewInvalidInputError("Normalize",
		fmt.Sprintf("cannot convert %s value %s to %s", from, Format(v), to))
}
