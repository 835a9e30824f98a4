package plan

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/querylabs/thetajoin/internal/errors"
	"github.com/querylabs/thetajoin/internal/expr"
	"github.com/querylabs/thetajoin/internal/rel"
)

// Spec is the immutable descriptor of one theta hash join. It is built and
// validated once per plan candidate: the condition is split, the key types
// unified and the residual compiled here, so execution only ever calls
// opaque capabilities. A Spec that fails to build is a plan the planner
// must skip, never a runtime failure.
type Spec struct {
	Type       JoinType
	Keys       []rel.KeyPair      // ordered, non-empty
	KeyTypes   []arrow.DataType   // unified comparison type per key position
	Residual   expr.Predicate     // compiled; never nil (expr.True if absent)
	LeftShape  rel.Shape
	RightShape rel.Shape
	Output     rel.Shape

	residualExpr expr.Expr // retained for String only
}

// NewSpec builds a Spec from a whole join condition over the concatenated
// left+right schema. It fails with NotApplicable when the condition has no
// cross-side equality, and with IncompatibleKeyTypes when some key position
// has no common comparison type.
func NewSpec(joinType JoinType, leftShape, rightShape rel.Shape, cond expr.Expr) (*Spec, error) {
	keys, residual, err := expr.Split(cond, leftShape.Width(), rightShape.Width())
	if err != nil {
		return nil, err
	}
	return NewSpecFromKeys(joinType, leftShape, rightShape, keys, residual)
}

// NewSpecFromKeys builds a Spec from an already-split condition, the form
// an external condition splitter hands over. The split must be sound: the
// original condition must be equivalent to the key equalities ANDed with
// the residual. residual may be nil for a pure equi-join.
func NewSpecFromKeys(
	joinType JoinType,
	leftShape, rightShape rel.Shape,
	keys []rel.KeyPair,
	residual expr.Expr,
) (*Spec, error) {
	if !joinType.Valid() {
		return nil, errors.NewInvalidInputError("NewSpec",
			fmt.Sprintf("invalid join type %d", int(joinType)))
	}
	if len(keys) == 0 {
		return nil, errors.NewNotApplicableError("NewSpec",
			"theta hash join requires at least one equality key pair")
	}

	keyTypes, err := rel.UnifyKeyTypes(leftShape, rightShape, keys)
	if err != nil {
		return nil, err
	}

	pred, err := expr.Compile(residual, leftShape.Width())
	if err != nil {
		return nil, err
	}

	return &Spec{
		Type:         joinType,
		Keys:         keys,
		KeyTypes:     keyTypes,
		Residual:     pred,
		LeftShape:    leftShape,
		RightShape:   rightShape,
		Output:       leftShape.Concat(rightShape),
		residualExpr: residual,
	}, nil
}

// String renders the spec in explain style.
func (s *Spec) String() string {
	keys := make([]string, len(s.Keys))
	for i, kp := range s.Keys {
		keys[i] = fmt.Sprintf("l%d=r%d:%s", kp.Left, kp.Right, s.KeyTypes[i])
	}
	out := fmt.Sprintf("ThetaHashJoin(type=%s, keys=[%s]", s.Type, strings.Join(keys, ", "))
	if s.residualExpr != nil {
		out += ", residual=" + s.residualExpr.String()
	}
	return out + ")"
}
