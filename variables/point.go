package variables

import "github.com/nomadopt/nomad/numeric"

// Point is an AoD intended as a location in variable space. A point may be
// "to be defined": constructed with NewUndefinedPoint and filled in later,
// e.g. while assembling X0 incrementally.
type Point struct {
	X numeric.AoD
}

// NewPoint wraps an already-built AoD as a Point.
func NewPoint(x numeric.AoD) Point { return Point{X: x} }

// NewUndefinedPoint builds a Point of dimension n whose coordinates are all
// undefined, to be filled in before use.
func NewUndefinedPoint(n int) Point { return Point{X: numeric.NewAoD(n)} }

// IsComplete reports whether every coordinate of the point is defined.
func (p Point) IsComplete() bool {
	for _, d := range p.X {
		if !d.IsDefined() {
			return false
		}
	}
	return true
}

// LB returns the space's per-coordinate lower bounds as an AoD.
func (s Space) LB() numeric.AoD {
	out := make(numeric.AoD, len(s.Vars))
	for i, v := range s.Vars {
		out[i] = v.LB
	}
	return out
}

// UB returns the space's per-coordinate upper bounds as an AoD.
func (s Space) UB() numeric.AoD {
	out := make(numeric.AoD, len(s.Vars))
	for i, v := range s.Vars {
		out[i] = v.UB
	}
	return out
}

// Granularity returns the space's per-coordinate granularity as an AoD.
func (s Space) Granularity() numeric.AoD {
	out := make(numeric.AoD, len(s.Vars))
	for i, v := range s.Vars {
		out[i] = v.Granularity
	}
	return out
}

// FixedPoint returns the point holding every fixed coordinate's pinned
// value and undefined elsewhere, the projection basis SubproblemManager
// stores per algorithm instance.
func (s Space) FixedPoint() Point {
	p := NewUndefinedPoint(len(s.Vars))
	for i, v := range s.Vars {
		if v.IsFixed() {
			p.X[i] = v.Fixed
		}
	}
	return p
}

// ToSubSpace projects a full-space point down onto the non-fixed
// coordinates, in SubIndices order.
func (s Space) ToSubSpace(p Point) Point {
	idx := s.SubIndices()
	out := numeric.NewAoD(len(idx))
	for j, i := range idx {
		out[j] = p.X[i]
	}
	return NewPoint(out)
}

// FromSubSpace expands a sub-space point back to full-space, filling fixed
// coordinates from the space's pinned values.
func (s Space) FromSubSpace(sub Point) Point {
	idx := s.SubIndices()
	out := s.FixedPoint().X
	for j, i := range idx {
		out[i] = sub.X[j]
	}
	return NewPoint(out)
}
