// Package variables classifies the coordinates of a problem's variable space
// and validates the invariants that bind bounds, granularity, and fixed
// values together before any algorithm is allowed to start.
package variables

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/nomadopt/nomad/nomaderrors"
	"github.com/nomadopt/nomad/numeric"
)

// InputType classifies a coordinate's domain.
type InputType int

const (
	// Continuous coordinates may take any real value on the mesh.
	Continuous InputType = iota
	// Integer coordinates are restricted to integer-granularity steps.
	Integer
	// Binary coordinates are restricted to {0, 1}.
	Binary
)

func (t InputType) String() string {
	switch t {
	case Integer:
		return "integer"
	case Binary:
		return "binary"
	default:
		return "continuous"
	}
}

// Variable is the classification of one coordinate.
type Variable struct {
	InputType   InputType
	Granularity numeric.D
	LB, UB      numeric.D
	Fixed       numeric.D // undefined when not fixed
}

// IsFixed reports whether this coordinate is pinned outside the search
// sub-space.
func (v Variable) IsFixed() bool { return v.Fixed.IsDefined() }

// Space is the full classification for a problem's n coordinates.
type Space struct {
	Vars []Variable
}

// N returns the dimension of the space.
func (s Space) N() int { return len(s.Vars) }

// NewSpace builds a Space, normalizing binary coordinates to bounds [0,1]
// and granularity 1 per spec (binary overrides any supplied bounds).
func NewSpace(vars []Variable) Space {
	out := make([]Variable, len(vars))
	for i, v := range vars {
		if v.InputType == Binary {
			v.LB = numeric.Zero()
			v.UB = numeric.Value(1)
			v.Granularity = numeric.Value(1)
		}
		out[i] = v
	}
	return Space{Vars: out}
}

// Validate checks every invariant from the data model: lb <= ub (lb < ub
// when both defined), fixed within [lb,ub], and granularity rules for
// integer/binary coordinates. All violations are collected rather than
// stopping at the first.
func (s Space) Validate() error {
	var errs []error
	for i, v := range s.Vars {
		lb, hasLB := v.LB.Float64()
		ub, hasUB := v.UB.Float64()
		if hasLB && hasUB {
			if lb > ub {
				errs = append(errs, nomaderrors.NewInvalidParameter(
					fmt.Sprintf("LOWER_BOUND[%d]/UPPER_BOUND[%d]", i, i),
					fmt.Sprintf("lb=%g > ub=%g", lb, ub)))
			} else if lb == ub {
				errs = append(errs, nomaderrors.NewInvalidParameter(
					fmt.Sprintf("LOWER_BOUND[%d]/UPPER_BOUND[%d]", i, i),
					"lb == ub, bounds must be strict when both defined"))
			}
		}

		if v.IsFixed() {
			fixed, _ := v.Fixed.Float64()
			if hasLB && fixed < lb {
				errs = append(errs, nomaderrors.NewInvalidParameter(
					fmt.Sprintf("FIXED_VARIABLE[%d]", i),
					fmt.Sprintf("fixed=%g < lb=%g", fixed, lb)))
			}
			if hasUB && fixed > ub {
				errs = append(errs, nomaderrors.NewInvalidParameter(
					fmt.Sprintf("FIXED_VARIABLE[%d]", i),
					fmt.Sprintf("fixed=%g > ub=%g", fixed, ub)))
			}
		}

		switch v.InputType {
		case Integer:
			g, hasG := v.Granularity.Float64()
			if hasG && g > 0 && g < 1 {
				errs = append(errs, nomaderrors.NewInvalidParameter(
					fmt.Sprintf("GRANULARITY[%d]", i),
					fmt.Sprintf("integer coordinate has granularity %g < 1", g)))
			}
		case Binary:
			if !hasLB || !hasUB || lb != 0 || ub != 1 {
				errs = append(errs, nomaderrors.NewInvalidParameter(
					fmt.Sprintf("BB_INPUT_TYPE[%d]", i),
					"binary coordinate must have bounds [0,1]"))
			}
		}
	}
	return multierr.Combine(errs...)
}

// SubIndices returns the indices of the non-fixed coordinates, in order,
// the basis of the projection between full space and an algorithm's
// sub-space (spec.md §4.7's SubproblemManager).
func (s Space) SubIndices() []int {
	idx := make([]int, 0, len(s.Vars))
	for i, v := range s.Vars {
		if !v.IsFixed() {
			idx = append(idx, i)
		}
	}
	return idx
}
