// Package eval defines the evaluation point: the record attached to every
// trial point once it has been (or is being) sent to the blackbox, carrying
// its inputs, its outputs, and the derived objective/infeasibility scalars
// the rest of the engine reasons about.
package eval

import (
	"github.com/nomadopt/nomad/numeric"
)

// Status is the outcome of submitting a point to the oracle.
type Status int

const (
	// Pending means the point has not yet returned from the oracle.
	Pending Status = iota
	// Ok means the oracle returned a well-formed output vector.
	Ok
	// Failed means the oracle reported failure, or returned a non-finite
	// output, or never returned within Ok semantics.
	Failed
)

// OutputTag classifies one entry of a point's output vector.
type OutputTag int

const (
	// Obj is the objective value.
	Obj OutputTag = iota
	// PB is a progressive-barrier (relaxable) constraint.
	PB
	// EB is an extreme-barrier (non-relaxable) constraint.
	EB
	// Cstr is a generic constraint, treated as PB.
	Cstr
	// CntEval marks an output slot that does not itself carry a value but
	// signals whether this evaluation counts toward the budget.
	CntEval
	// Extra is any other output, carried through but not used by the core.
	Extra
)

// NormKind mirrors numeric.NormKind for the h-norm choice, re-exported here
// so callers configuring an EvalPoint don't need to import numeric directly
// for this one symbol.
type NormKind = numeric.NormKind

const (
	L1   = numeric.L1
	L2   = numeric.L2
	LInf = numeric.LInf
)

// Point is one evaluated (or evaluating) trial point.
type Point struct {
	X             numeric.AoD
	Outputs       numeric.AoD
	OutputTags    []OutputTag
	EvalStatus    Status
	F             numeric.D
	H             numeric.D
	GeneratedFrom *Point
	GenStep       string
	MeshSnapshot  interface{}
}

// NewPoint builds an unevaluated Point at x.
func NewPoint(x numeric.AoD) *Point {
	return &Point{
		X:          x.Clone(),
		EvalStatus: Pending,
		F:          numeric.Undefined(),
		H:          numeric.Undefined(),
	}
}

// ApplyOutputs computes F and H from a raw output vector and its tags under
// the given norm, and sets EvalStatus. Non-finite entries anywhere in the
// output vector mark the point Failed and it never reaches the barrier.
func (p *Point) ApplyOutputs(outputs numeric.AoD, tags []OutputTag, norm NormKind) {
	p.Outputs = outputs
	p.OutputTags = tags

	for _, d := range outputs {
		if v, ok := d.Float64(); !ok || isNonFinite(v) {
			p.EvalStatus = Failed
			p.F = numeric.Undefined()
			p.H = numeric.Undefined()
			return
		}
	}

	p.EvalStatus = Ok

	var cstrs numeric.AoD
	for i, tag := range tags {
		switch tag {
		case Obj:
			p.F = outputs[i]
		case PB, EB, Cstr:
			v, _ := outputs[i].Float64()
			cstrs = append(cstrs, numeric.Value(positivePart(v)))
		}
	}
	p.H = cstrs.Norm(norm)
	if len(cstrs) == 0 {
		p.H = numeric.Zero()
	}
}

// IsFeasible reports whether this point is Ok and has h == 0.
func (p *Point) IsFeasible() bool {
	if p.EvalStatus != Ok {
		return false
	}
	h, ok := p.H.Float64()
	return ok && h == 0
}

func positivePart(v float64) float64 {
	if v > 0 {
		return v
	}
	return 0
}

func isNonFinite(v float64) bool {
	return v != v || v > maxFinite || v < -maxFinite
}

const maxFinite = 1.7976931348623157e+308
