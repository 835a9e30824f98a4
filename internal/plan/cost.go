package plan

import (
	"fmt"
	"math"
	"strings"
)

// Cost is a comparable plan cost: a single blended row dimension plus CPU
// and I/O dimensions that this heuristic keeps at zero. Costs are used
// only for plan comparison, never for absolute accounting.
type Cost struct {
	Rows float64
	CPU  float64
	IO   float64
}

// Infinite reports whether the plan is effectively disqualified.
func (c Cost) Infinite() bool {
	return math.IsInf(c.Rows, 1)
}

// Less orders costs for plan comparison. Comparison is a plain numeric
// comparison on the row dimension under a total order where NaN sorts
// after every number and equal to NaN, so a NaN cost never crashes the
// comparator, it just never wins.
func (c Cost) Less(other Cost) bool {
	if math.IsNaN(c.Rows) {
		return false
	}
	if math.IsNaN(other.Rows) {
		return true
	}
	return c.Rows < other.Rows
}

func (c Cost) String() string {
	return fmt.Sprintf("{rows=%g, cpu=%g, io=%g}", c.Rows, c.CPU, c.IO)
}

// Estimate scores one theta hash join candidate.
//
// outputRows is the estimated output row count of the join, supplied by
// the planner's metadata oracle. leftRows and rightRows are the input
// estimates; either may be +Inf meaning unknown/unbounded. leftID and
// rightID are stable identities of the two sub-plans, used only to break
// ties between the two logically symmetric variants (A join B vs B join A)
// so the planner converges instead of oscillating.
func Estimate(joinType JoinType, outputRows, leftRows, rightRows float64, leftID, rightID string) Cost {
	rowCount := outputRows

	// Both orientations of a join are usually viable at the same cost.
	// Make one of them slightly more expensive so plan choice is stable.
	switch joinType {
	case RightJoin:
		rowCount = addEpsilon(rowCount)
	default:
		if strings.Compare(leftID, rightID) > 0 {
			rowCount = addEpsilon(rowCount)
		}
	}

	// Cheaper if the smaller input is on the build (left) side. Model the
	// cost of materializing and indexing it as L log L.
	if math.IsInf(leftRows, 1) {
		rowCount = leftRows
	} else {
		rowCount += nLogN(leftRows)
	}

	// One pass over the probe side.
	if math.IsInf(rightRows, 1) {
		rowCount = rightRows
	} else {
		rowCount += rightRows
	}

	return Cost{Rows: rowCount}
}

// nLogN models build-side materialization; d is a row count.
func nLogN(d float64) float64 {
	if d <= 1 {
		return 0
	}
	return d * math.Log2(d)
}

// addEpsilon returns a value strictly larger than d at any magnitude. For
// small d a relative bump changes the value where +1 would distort it; for
// medium d, +1 keeps integral values integral; for large d, +1 may round
// away so fall back to the relative bump. NaN propagates unchanged, which
// the cost comparator tolerates.
func addEpsilon(d float64) float64 {
	d0 := d
	if d < 10 {
		d *= 1.001
		if d != d0 {
			return d
		}
	}
	d++
	if d != d0 {
		return d
	}
	return d * 1.001
}
