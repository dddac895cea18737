// Package nomaderrors implements the two-track error taxonomy of an
// optimization engine: parameter validation failures that prevent an
// algorithm from starting, and algorithmic stop reasons that are expected,
// ordinary outcomes of a run.
package nomaderrors

import (
	"errors"
	"fmt"
)

// InvalidParameterError wraps one violated invariant from the parameter
// surface (e.g. lb[i] > ub[i], conflicting INITIAL_MESH_SIZE/INITIAL_FRAME_SIZE).
// Constructing an algorithm with one or more of these present is fatal: the
// algorithm must not start.
type InvalidParameterError struct {
	Field  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Field, e.Reason)
}

// NewInvalidParameter builds an InvalidParameterError.
func NewInvalidParameter(field, reason string) *InvalidParameterError {
	return &InvalidParameterError{Field: field, Reason: reason}
}

// InitializationFailure reports that an algorithm could not construct its
// initial state (e.g. the Nelder-Mead initial simplex could not reach rank
// n). It ends the algorithm it was raised in but is not fatal to the process.
type InitializationFailure struct {
	Algorithm string
	Reason    string
}

func (e *InitializationFailure) Error() string {
	return fmt.Sprintf("%s: initialization failed: %s", e.Algorithm, e.Reason)
}

// NewInitializationFailure builds an InitializationFailure.
func NewInitializationFailure(algorithm, reason string) *InitializationFailure {
	return &InitializationFailure{Algorithm: algorithm, Reason: reason}
}

// EvaluationFailure reports that the oracle returned a non-ok status for one
// point. It is local: the point is dropped from success consideration, and
// the step that produced it continues.
type EvaluationFailure struct {
	Reason string
}

func (e *EvaluationFailure) Error() string {
	return fmt.Sprintf("evaluation failed: %s", e.Reason)
}

// ExhaustionReason enumerates the budgets an algorithm can run out of.
type ExhaustionReason int

const (
	// ExhaustionNone is the zero value; no budget has been exhausted.
	ExhaustionNone ExhaustionReason = iota
	// ExhaustionMaxBBEval is raised when MAX_BB_EVAL is reached.
	ExhaustionMaxBBEval
	// ExhaustionMaxEval is raised when MAX_EVAL (including cache hits) is reached.
	ExhaustionMaxEval
	// ExhaustionMaxIterations is raised when MAX_ITERATIONS is reached.
	ExhaustionMaxIterations
	// ExhaustionMeshStop is raised when the mesh's stopWhen predicate fires.
	ExhaustionMeshStop
)

func (r ExhaustionReason) String() string {
	switch r {
	case ExhaustionMaxBBEval:
		return "max blackbox evaluations reached"
	case ExhaustionMaxEval:
		return "max total evaluations reached"
	case ExhaustionMaxIterations:
		return "max megaiterations reached"
	case ExhaustionMeshStop:
		return "mesh stopping criterion reached"
	default:
		return "none"
	}
}

// Exhaustion is a normal termination: some budget named by Reason ran out.
type Exhaustion struct {
	Reason ExhaustionReason
}

func (e *Exhaustion) Error() string { return e.Reason.String() }

// ErrUserInterrupt is a normal termination observed at a checkpoint.
var ErrUserInterrupt = errors.New("user interrupt")

// InvariantViolation reports an internal invariant that did not hold after
// an operation expected to preserve it (e.g. simplex rank loss after an
// insertion that should have kept rank n). The offending step is rolled back
// by the caller; this value records what happened for logging purposes.
type InvariantViolation struct {
	Component string
	Detail    string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("internal invariant violated in %s: %s", e.Component, e.Detail)
}

// IsTerminal reports whether err should end the algorithm instance it came
// from (InvalidParameterError, InitializationFailure, Exhaustion,
// ErrUserInterrupt) as opposed to being a local, continuable event
// (EvaluationFailure, InvariantViolation).
func IsTerminal(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUserInterrupt) {
		return true
	}
	var invalid *InvalidParameterError
	var initFail *InitializationFailure
	var exhausted *Exhaustion
	return errors.As(err, &invalid) || errors.As(err, &initFail) || errors.As(err, &exhausted)
}
