// Package thetajoin implements a theta hash join: a binary relational join
// whose condition combines an equality on one or more key columns with an
// arbitrary residual predicate. This package is the sole public API; it
// exposes the planner protocol (applicability, key type unification, cost)
// and the execution entry point over pull-based row sources.
package thetajoin

import (
	stderrors "errors"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/querylabs/thetajoin/internal/config"
	"github.com/querylabs/thetajoin/internal/errors"
	"github.com/querylabs/thetajoin/internal/expr"
	"github.com/querylabs/thetajoin/internal/join"
	"github.com/querylabs/thetajoin/internal/plan"
	"github.com/querylabs/thetajoin/internal/rel"
)

// Row is an ordered, fixed-arity sequence of typed values; nil is NULL.
type Row = rel.Row

// Shape is the ordered column type list of a row.
type Shape = rel.Shape

// Source is a pull-based, finite sequence of rows ending in io.EOF.
type Source = rel.Source

// KeyPair names one equality key by left and right column ordinal.
type KeyPair = rel.KeyPair

// JoinType identifies the join variant.
type JoinType = plan.JoinType

const (
	InnerJoin     = plan.InnerJoin
	LeftJoin      = plan.LeftJoin
	RightJoin     = plan.RightJoin
	FullOuterJoin = plan.FullOuterJoin
)

// Cost is a comparable plan cost with a single blended row dimension.
type Cost = plan.Cost

// Expr is a join condition expression over the concatenated left+right
// schema; build one with Col, Lit and the comparison methods.
type Expr = expr.Expr

// Col references a column by ordinal in the concatenated left+right schema.
func Col(index int) *expr.ColumnExpr { return expr.Col(index) }

// Lit creates a literal operand.
func Lit(value any) *expr.LiteralExpr { return expr.Lit(value) }

// Not negates a boolean expression.
func Not(operand Expr) *expr.UnaryExpr { return expr.Not(operand) }

// Spec is the public handle for a validated join descriptor.
type Spec struct {
	spec *plan.Spec
}

// NewSpec splits the condition, unifies the key types and compiles the
// residual, producing a descriptor ready for costing and execution.
//
// It fails with an error matching IsNotApplicable when the condition has
// no cross-side equality (the planner must pick another operator), and
// with one matching IsIncompatibleKeyTypes when some equality key has no
// common comparison type (the plan is infeasible). Both are
// plan-construction errors; execution never raises them.
func NewSpec(joinType JoinType, leftShape, rightShape Shape, cond Expr) (*Spec, error) {
	s, err := plan.NewSpec(joinType, leftShape, rightShape, cond)
	if err != nil {
		return nil, err
	}
	return &Spec{spec: s}, nil
}

// NewSpecFromKeys accepts an already-split condition from an external
// condition splitter: ordered equality key pairs plus an optional residual.
// The split must be sound (the original condition equivalent to the key
// equalities ANDed with the residual).
func NewSpecFromKeys(
	joinType JoinType,
	leftShape, rightShape Shape,
	keys []KeyPair,
	residual Expr,
) (*Spec, error) {
	s, err := plan.NewSpecFromKeys(joinType, leftShape, rightShape, keys, residual)
	if err != nil {
		return nil, err
	}
	return &Spec{spec: s}, nil
}

// OutputShape returns the concatenated left+right output shape.
func (s *Spec) OutputShape() Shape { return s.spec.Output }

// KeyTypes returns the unified comparison type of each key position.
func (s *Spec) KeyTypes() []arrow.DataType { return s.spec.KeyTypes }

// String renders the spec in explain style.
func (s *Spec) String() string { return s.spec.String() }

// EstimateCost scores this join candidate for plan comparison.
// outputRows, leftRows and rightRows come from the planner's metadata
// oracle and may be +Inf. leftID and rightID are stable sub-plan
// identities used only for deterministic tie-breaking between the two
// symmetric orientations. Pure and stateless; safe to call concurrently
// across plan candidates.
func (s *Spec) EstimateCost(outputRows, leftRows, rightRows float64, leftID, rightID string) Cost {
	return plan.Estimate(s.spec.Type, outputRows, leftRows, rightRows, leftID, rightID)
}

// ExecOptions tunes one execution without changing its result set.
type ExecOptions struct {
	// BuildRight builds the hash index on the logical right input. Output
	// shape, row set and residual argument order are unaffected.
	BuildRight bool
	// CapacityHint pre-sizes the build index (0 = use global config).
	CapacityHint int
	// MaxBuildRows caps build materialization (0 = use global config).
	MaxBuildRows int64
	// LeftRows and RightRows carry the planner's input estimates. When the
	// global config enables build-side selection and both are set, the
	// smaller side becomes the build side unless BuildRight already chose.
	LeftRows  float64
	RightRows float64
}

// Execution is the output sequence of a running join. It is a Source and
// additionally exposes execution counters.
type Execution struct {
	*join.Executor
}

// Execute starts one join over bound input sources and returns its output
// sequence. Rows stream in probe order with late unmatched-build rows
// appended at the end. Execution is single-threaded and non-reentrant;
// closing the output releases the build index and both inputs.
func (s *Spec) Execute(left, right Source, opts ExecOptions) *Execution {
	cfg := config.GetConfig()
	if opts.CapacityHint == 0 {
		opts.CapacityHint = cfg.IndexCapacityHint
	}
	if opts.MaxBuildRows == 0 {
		opts.MaxBuildRows = cfg.MaxBuildRows
	}
	if cfg.SelectBuildSide && !opts.BuildRight &&
		opts.LeftRows > 0 && opts.RightRows > 0 && opts.RightRows < opts.LeftRows {
		opts.BuildRight = true
	}
	return &Execution{Executor: join.New(s.spec, left, right, join.Options{
		BuildRight:   opts.BuildRight,
		CapacityHint: opts.CapacityHint,
		MaxBuildRows: opts.MaxBuildRows,
	})}
}

// NewSliceSource adapts an in-memory row slice to a Source.
func NewSliceSource(rows []Row) Source { return rel.NewSliceSource(rows) }

// Collect drains a source into a slice and closes it.
func Collect(src Source) ([]Row, error) { return rel.Collect(src) }

// IsNotApplicable reports whether err means the condition has no equality
// component, so this operator does not apply.
func IsNotApplicable(err error) bool {
	return stderrors.Is(err, errors.ErrNotApplicable)
}

// IsIncompatibleKeyTypes reports whether err means some equality key pair
// has no common comparison type.
func IsIncompatibleKeyTypes(err error) bool {
	return stderrors.Is(err, errors.ErrIncompatibleKeyTypes)
}

// IsResourceExhausted reports whether err means the build index exceeded
// its configured row budget.
func IsResourceExhausted(err error) bool {
	return stderrors.Is(err, errors.ErrResourceExhausted)
}
