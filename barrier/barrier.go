// Package barrier implements the progressive barrier: the "best so far"
// feasible and infeasible incumbent sets, and the classification of newly
// evaluated points into unsuccessful/partial/full success.
package barrier

import (
	"github.com/nomadopt/nomad/eval"
	"github.com/nomadopt/nomad/numeric"
)

// SuccessType is the outcome of evaluating a candidate against a barrier.
type SuccessType int

const (
	// Unsuccessful means the candidate improved nothing.
	Unsuccessful SuccessType = iota
	// Partial means the candidate entered the infeasible incumbent set
	// without being a full success.
	Partial
	// Full means the candidate improved the feasible best, or dominated
	// every infeasible incumbent, or was the first feasible point found.
	Full
)

// Barrier holds the undominated feasible and infeasible incumbents, and the
// current infeasibility threshold hMax.
type Barrier struct {
	xFeas []*eval.Point
	xInf  []*eval.Point
	hMax  numeric.D
}

// New builds an empty Barrier with the given initial hMax (H_MAX_0; +Inf
// when the parameter is absent, per spec.md's supplemented default).
func New(hMax0 numeric.D) *Barrier {
	h := hMax0
	if !h.IsDefined() {
		h = numeric.Inf()
	}
	return &Barrier{hMax: h}
}

// HMax returns the current infeasibility threshold.
func (b *Barrier) HMax() numeric.D { return b.hMax }

// dominates reports whether a dominates c under (f, h): a.f<=c.f and
// a.h<=c.h with at least one strict.
func dominates(a, c *eval.Point) bool {
	af, aok := a.F.Float64()
	cf, cok := c.F.Float64()
	ah, _ := a.H.Float64()
	ch, _ := c.H.Float64()
	if !aok || !cok {
		return false
	}
	leF := af <= cf
	leH := ah <= ch
	ltF := af < cf
	ltH := ah < ch
	return leF && leH && (ltF || ltH)
}

// UpdateWithPoints folds a batch of evaluated points into the barrier,
// returning the success type of the batch as a whole (the max level seen
// among its members).
func (b *Barrier) UpdateWithPoints(points []*eval.Point) SuccessType {
	overall := Unsuccessful
	for _, p := range points {
		if s := b.updateOne(p); s > overall {
			overall = s
		}
	}
	return overall
}

func (b *Barrier) updateOne(p *eval.Point) SuccessType {
	if p.EvalStatus != eval.Ok {
		return Unsuccessful
	}

	h, hok := p.H.Float64()
	if !hok {
		return Unsuccessful
	}

	if p.IsFeasible() {
		return b.admitFeasible(p)
	}

	hMax, _ := b.hMax.Float64()
	if h > hMax {
		return Unsuccessful
	}
	return b.admitInfeasible(p)
}

func (b *Barrier) admitFeasible(p *eval.Point) SuccessType {
	wasEmpty := len(b.xFeas) == 0

	for _, incumbent := range b.xFeas {
		if dominates(incumbent, p) {
			return Unsuccessful
		}
	}

	improvesBest := wasEmpty
	if !wasEmpty {
		bestF, _ := b.xFeas[0].F.Float64()
		pf, _ := p.F.Float64()
		improvesBest = pf < bestF
	}

	kept := b.xFeas[:0:0]
	for _, incumbent := range b.xFeas {
		if !dominates(p, incumbent) {
			kept = append(kept, incumbent)
		}
	}
	kept = append(kept, p)
	b.xFeas = sortByF(kept)

	if wasEmpty || improvesBest {
		return Full
	}
	return Partial
}

func (b *Barrier) admitInfeasible(p *eval.Point) SuccessType {
	for _, incumbent := range b.xInf {
		if dominates(incumbent, p) {
			return Unsuccessful
		}
	}

	dominatesAll := true
	kept := b.xInf[:0:0]
	for _, incumbent := range b.xInf {
		if dominates(p, incumbent) {
			continue
		}
		dominatesAll = false
		kept = append(kept, incumbent)
	}
	kept = append(kept, p)
	b.xInf = sortByHF(kept)

	if dominatesAll {
		return Full
	}
	return Partial
}

// SetHMax sets the threshold to h, evicting any infeasible incumbent with
// h > newHMax. The core never raises hMax; callers are expected to pass a
// value no greater than the current one.
func (b *Barrier) SetHMax(h numeric.D) {
	b.hMax = h
	hv, ok := h.Float64()
	if !ok {
		return
	}
	kept := b.xInf[:0:0]
	for _, p := range b.xInf {
		ph, _ := p.H.Float64()
		if ph <= hv {
			kept = append(kept, p)
		}
	}
	b.xInf = kept
}

// TightenHMax reduces hMax to the largest h strictly below the previous
// hMax still held among the infeasible incumbents, implementing "push
// infeasibility out over time" after a successful iteration.
func (b *Barrier) TightenHMax() {
	prev, ok := b.hMax.Float64()
	if !ok || len(b.xInf) == 0 {
		return
	}
	best := -1.0
	found := false
	for _, p := range b.xInf {
		h, _ := p.H.Float64()
		if h < prev && h > best {
			best = h
			found = true
		}
	}
	if found {
		b.SetHMax(numeric.Value(best))
	}
}

// WouldBeFullSuccess reports whether p would register as a Full success if
// fed to UpdateWithPoints right now, without mutating the barrier. Evaluator
// pools use this to implement opportunistic early stop: spec.md's "stop
// submitting further candidates after the first full success of the step".
func (b *Barrier) WouldBeFullSuccess(p *eval.Point) bool {
	if p.EvalStatus != eval.Ok {
		return false
	}
	if p.IsFeasible() {
		if len(b.xFeas) == 0 {
			return true
		}
		for _, incumbent := range b.xFeas {
			if dominates(incumbent, p) {
				return false
			}
		}
		bestF, _ := b.xFeas[0].F.Float64()
		pf, _ := p.F.Float64()
		return pf < bestF
	}

	h, hok := p.H.Float64()
	hMax, _ := b.hMax.Float64()
	if !hok || h > hMax {
		return false
	}
	if len(b.xInf) == 0 {
		return true
	}
	for _, incumbent := range b.xInf {
		if dominates(incumbent, p) {
			return false
		}
	}
	return dominatesAllOf(p, b.xInf)
}

func dominatesAllOf(candidate *eval.Point, set []*eval.Point) bool {
	for _, p := range set {
		if !dominates(candidate, p) {
			return false
		}
	}
	return len(set) > 0
}

// CurrentIncumbentFeas returns the best feasible incumbent, or nil.
func (b *Barrier) CurrentIncumbentFeas() *eval.Point {
	if len(b.xFeas) == 0 {
		return nil
	}
	return b.xFeas[0]
}

// CurrentIncumbentInf returns the best infeasible incumbent, or nil.
func (b *Barrier) CurrentIncumbentInf() *eval.Point {
	if len(b.xInf) == 0 {
		return nil
	}
	return b.xInf[0]
}

// XFeas returns all feasible incumbents, ordered by f.
func (b *Barrier) XFeas() []*eval.Point { return b.xFeas }

// XInf returns all infeasible incumbents, ordered by (h, f).
func (b *Barrier) XInf() []*eval.Point { return b.xInf }

func sortByF(pts []*eval.Point) []*eval.Point {
	out := append([]*eval.Point(nil), pts...)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0; j-- {
			fj, _ := out[j].F.Float64()
			fjm1, _ := out[j-1].F.Float64()
			if fj < fjm1 {
				out[j], out[j-1] = out[j-1], out[j]
			} else {
				break
			}
		}
	}
	return out
}

func sortByHF(pts []*eval.Point) []*eval.Point {
	out := append([]*eval.Point(nil), pts...)
	less := func(a, b *eval.Point) bool {
		ah, _ := a.H.Float64()
		bh, _ := b.H.Float64()
		if ah != bh {
			return ah < bh
		}
		af, _ := a.F.Float64()
		bf, _ := b.F.Float64()
		return af < bf
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && less(out[j], out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
