// Package plan holds the planner-facing side of the theta hash join: the
// immutable join descriptor built once per plan candidate, and the cost
// heuristic the planner uses to compare this operator against alternatives
// (and against its own left/right-swapped variant).
package plan

// JoinType identifies the join variant.
type JoinType int

const (
	InnerJoin JoinType = iota
	LeftJoin
	RightJoin
	FullOuterJoin
)

func (t JoinType) String() string {
	switch t {
	case InnerJoin:
		return "INNER"
	case LeftJoin:
		return "LEFT"
	case RightJoin:
		return "RIGHT"
	case FullOuterJoin:
		return "FULL"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether t is one of the four join variants.
func (t JoinType) Valid() bool {
	return t >= InnerJoin && t <= FullOuterJoin
}

// FillsLeftWithNulls reports whether unmatched right rows are emitted with
// the left side null-padded.
func (t JoinType) FillsLeftWithNulls() bool {
	return t == RightJoin || t == FullOuterJoin
}

// FillsRightWithNulls reports whether unmatched left rows are emitted with
// the right side null-padded.
func (t JoinType) FillsRightWithNulls() bool {
	return t == LeftJoin || t == FullOuterJoin
}
