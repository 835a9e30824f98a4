// Package join implements the theta hash join executor: a two-phase state
// machine that materializes one input into an in-memory build index and
// streams the other input against it, filtering candidate pairs with the
// compiled residual predicate and null-padding unmatched rows per join
// type. Execution is single-threaded and non-reentrant; one Executor owns
// its build index for the lifetime of one execution.
package join

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/decimal128"
	xxhash "github.com/cespare/xxhash/v2"

	"github.com/querylabs/thetajoin/internal/rel"
)

// keyColumns is one side's precomputed key extraction plan: which columns
// to read and how to retype them to the unified comparison types.
type keyColumns struct {
	ordinals []int
	from     []arrow.DataType
	to       []arrow.DataType
}

func sideKeyColumns(shape rel.Shape, ordinals []int, unified []arrow.DataType) keyColumns {
	from := make([]arrow.DataType, len(ordinals))
	for i, ord := range ordinals {
		from[i] = shape[ord]
	}
	return keyColumns{ordinals: ordinals, from: from, to: unified}
}

// extract pulls the normalized key tuple out of a row. ok is false when
// any key value is NULL: a NULL key never equals anything, including
// another NULL, so such rows can skip hashing entirely.
func (kc keyColumns) extract(row rel.Row) (key []any, ok bool, err error) {
	key = make([]any, len(kc.ordinals))
	for i, ord := range kc.ordinals {
		v := row[ord]
		if v == nil {
			return nil, false, nil
		}
		nv, err := rel.Normalize(v, kc.from[i], kc.to[i])
		if err != nil {
			return nil, false, err
		}
		key[i] = nv
	}
	return key, true, nil
}

// Value type tags for the key encoding. Tags keep (1, "1") from colliding.
const (
	tagBool byte = iota + 1
	tagInt
	tagFloat
	tagString
	tagDecimal
)

// hashKey digests a normalized key tuple into a bucket selector. Bucket
// collisions are resolved by comparing the stored key tuples, so hash
// equality alone is never trusted.
func hashKey(key []any) (uint64, error) {
	var d xxhash.Digest
	var buf [17]byte
	for _, v := range key {
		switch val := v.(type) {
		case bool:
			buf[0] = tagBool
			if val {
				buf[1] = 1
			} else {
				buf[1] = 0
			}
			_, _ = d.Write(buf[:2])
		case int8:
			writeInt(&d, &buf, int64(val))
		case int16:
			writeInt(&d, &buf, int64(val))
		case int32:
			writeInt(&d, &buf, int64(val))
		case int64:
			writeInt(&d, &buf, val)
		case float32:
			writeFloat(&d, &buf, float64(val))
		case float64:
			writeFloat(&d, &buf, val)
		case string:
			buf[0] = tagString
			binary.LittleEndian.PutUint64(buf[1:9], uint64(len(val)))
			_, _ = d.Write(buf[:9])
			_, _ = d.WriteString(val)
		case decimal128.Num:
			buf[0] = tagDecimal
			binary.LittleEndian.PutUint64(buf[1:9], uint64(val.HighBits()))
			binary.LittleEndian.PutUint64(buf[9:17], val.LowBits())
			_, _ = d.Write(buf[:17])
		default:
			return 0, fmt.Errorf("unhashable key value of type %T", v)
		}
	}
	return d.Sum64(), nil
}

func writeInt(d *xxhash.Digest, buf *[17]byte, v int64) {
	buf[0] = tagInt
	binary.LittleEndian.PutUint64(buf[1:9], uint64(v))
	_, _ = d.Write(buf[:9])
}

func writeFloat(d *xxhash.Digest, buf *[17]byte, v float64) {
	// -0.0 == 0.0, so both must land in the same bucket.
	if v == 0 {
		v = 0
	}
	buf[0] = tagFloat
	binary.LittleEndian.PutUint64(buf[1:9], math.Float64bits(v))
	_, _ = d.Write(buf[:9])
}

// keysEqual compares two normalized key tuples position by position. The
// values are normalized to a common type first, so direct equality is the
// unified comparison semantics (float NaN correctly never matches).
func keysEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
