// Package errors provides standardized error types for join planning and
// execution. Plan-construction errors (NotApplicable, IncompatibleKeyTypes)
// are recoverable by the planner; execution errors (PredicateEvaluation,
// ResourceExhausted) are terminal for the running join.
package errors

import (
	"fmt"
)

// Kind classifies a JoinError for planner-side dispatch.
type Kind int

const (
	// KindNotApplicable means the join condition has no equality component,
	// so the theta hash join operator cannot be used for this plan.
	KindNotApplicable Kind = iota
	// KindIncompatibleKeyTypes means no common comparison type exists for
	// some equality key position.
	KindIncompatibleKeyTypes
	// KindPredicateEvaluation means the residual predicate failed while
	// evaluating a concrete row pair.
	KindPredicateEvaluation
	// KindResourceExhausted means the build index exceeded its configured
	// row budget.
	KindResourceExhausted
	// KindInternal covers invalid inputs and internal failures.
	KindInternal
)

// JoinError represents standardized errors across join planning and execution
type JoinError struct {
	Kind    Kind   // Error classification
	Op      string // Operation name (e.g., "Split", "Unify", "Probe")
	Message string // Human-readable error description
	Cause   error  // Underlying error cause
}

// Error implements the error interface
func (e *JoinError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying cause for error wrapping support
func (e *JoinError) Unwrap() error {
	return e.Cause
}

// Is matches two JoinErrors by kind, so errors.Is(err, ErrNotApplicable)
// works regardless of the operation that produced the error.
func (e *JoinError) Is(target error) bool {
	if je, ok := target.(*JoinError); ok {
		return e.Kind == je.Kind
	}
	return false
}

// Sentinel values for errors.Is checks. Each carries only a Kind.
var (
	// ErrNotApplicable indicates a condition with no equi-join component
	ErrNotApplicable = &JoinError{
		Kind:    KindNotApplicable,
		Op:      "plan",
		Message: "join condition has no equality component",
	}

	// ErrIncompatibleKeyTypes indicates an unresolvable key type pair
	ErrIncompatibleKeyTypes = &JoinError{
		Kind:    KindIncompatibleKeyTypes,
		Op:      "plan",
		Message: "no common type for equality key",
	}

	// ErrResourceExhausted indicates the build index ran out of budget
	ErrResourceExhausted = &JoinError{
		Kind:    KindResourceExhausted,
		Op:      "build",
		Message: "build index row budget exceeded",
	}
)

// NewNotApplicableError creates an error for conditions this operator
// cannot execute
func NewNotApplicableError(op, message string) *JoinError {
	return &JoinError{
		Kind:    KindNotApplicable,
		Op:      op,
		Message: message,
	}
}

// NewIncompatibleKeyTypesError names the offending key position and the
// two column types that failed to unify
func NewIncompatibleKeyTypesError(op string, position int, left, right string) *JoinError {
	return &JoinError{
		Kind:    KindIncompatibleKeyTypes,
		Op:      op,
		Message: fmt.Sprintf("key position %d: no common type for %s and %s", position, left, right),
	}
}

// NewPredicateError creates an error for residual predicate failures at
// execution time
func NewPredicateError(op string, cause error) *JoinError {
	return &JoinError{
		Kind:    KindPredicateEvaluation,
		Op:      op,
		Message: "residual predicate evaluation failed",
		Cause:   cause,
	}
}

// NewResourceExhaustedError creates an error for build-side budget overruns
func NewResourceExhaustedError(op string, limit int64) *JoinError {
	return &JoinError{
		Kind:    KindResourceExhausted,
		Op:      op,
		Message: fmt.Sprintf("build index exceeded %d rows", limit),
	}
}

// NewInvalidInputError creates an error for invalid operation inputs
func NewInvalidInputError(op, message string) *JoinError {
	return &JoinError{
		Kind:    KindInternal,
		Op:      op,
		Message: message,
	}
}

// NewInternalError creates an error for internal operation failures
func NewInternalError(op string, cause error) *JoinError {
	return &JoinError{
		Kind:    KindInternal,
		Op:      op,
		Message: "internal error occurred",
		Cause:   cause,
	}
}
