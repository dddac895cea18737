// Package iterutils generates trial-point sets on the mesh, snaps them to
// bounds, deduplicates, and feeds evaluation results into the barrier and
// mesh at the end of a step.
package iterutils

import (
	"context"
	"fmt"

	"github.com/nomadopt/nomad/barrier"
	"github.com/nomadopt/nomad/eval"
	"github.com/nomadopt/nomad/evaluator"
	"github.com/nomadopt/nomad/mesh"
	"github.com/nomadopt/nomad/numeric"
)

// TrialPointSet accumulates the trial points generated by one step (a
// Search or a Poll), evaluates them, and folds the results back into the
// barrier and mesh.
type TrialPointSet struct {
	points []*eval.Point
	seen   map[string]bool
}

// NewTrialPointSet builds an empty set.
func NewTrialPointSet() *TrialPointSet {
	return &TrialPointSet{seen: make(map[string]bool)}
}

// InsertTrialPoint deduplicates by x (first insert wins) and records
// provenance on e before adding it to the set. Returns false when e was a
// duplicate and was not inserted.
func (s *TrialPointSet) InsertTrialPoint(e *eval.Point, generatedFrom *eval.Point, genStep string, meshSnapshot interface{}) bool {
	key := coordKey(e.X)
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	e.GeneratedFrom = generatedFrom
	e.GenStep = genStep
	e.MeshSnapshot = meshSnapshot
	s.points = append(s.points, e)
	return true
}

// SnapToBoundsAndProject composes bound-snapping and mesh projection.
// Returns false when the result collapses onto center, in which case the
// caller must discard e.
func SnapToBoundsAndProject(e *eval.Point, lb, ub, center numeric.AoD, m *mesh.GMesh) bool {
	snapped := e.X.SnapToBounds(lb, ub)
	projected := m.ProjectOnMesh(snapped, center)
	e.X = projected
	return !projected.Equal(center)
}

// EvalTrialPoints hands the set's points to pool as a single batch, via
// oracle, and waits for outcomes.
func (s *TrialPointSet) EvalTrialPoints(ctx context.Context, pool evaluator.Pool, oracle evaluator.Oracle, stopEarly evaluator.StopEarly) error {
	return pool.Evaluate(ctx, s.points, oracle, stopEarly)
}

// Points returns the accumulated trial points.
func (s *TrialPointSet) Points() []*eval.Point { return s.points }

// Clear empties the set.
func (s *TrialPointSet) Clear() {
	s.points = nil
	s.seen = make(map[string]bool)
}

// PostProcessing feeds the evaluated set into b, then enlarges or refines m
// depending on the step outcome, and clears the set. dirOf extracts the
// direction used to reach the most-improving accepted point, needed only
// when the step succeeds.
func (s *TrialPointSet) PostProcessing(b *barrier.Barrier, m *mesh.GMesh, dirOf func(*eval.Point) numeric.AoD, anisotropyFactor float64, anisotropic bool) barrier.SuccessType {
	outcome := b.UpdateWithPoints(s.points)

	switch outcome {
	case barrier.Full:
		best := bestAccepted(s.points)
		if best != nil && dirOf != nil {
			m.Enlarge(dirOf(best), anisotropyFactor, anisotropic)
		}
	default:
		// Partial success (a better infeasible incumbent with no new
		// feasible improvement) refines, the same as Unsuccessful.
		m.Refine()
	}

	s.Clear()
	return outcome
}

func bestAccepted(points []*eval.Point) *eval.Point {
	var best *eval.Point
	for _, p := range points {
		if p.EvalStatus != eval.Ok {
			continue
		}
		if best == nil {
			best = p
			continue
		}
		bf, _ := best.F.Float64()
		pf, _ := p.F.Float64()
		bh, _ := best.H.Float64()
		ph, _ := p.H.Float64()
		if ph < bh || (ph == bh && pf < bf) {
			best = p
		}
	}
	return best
}

func coordKey(x numeric.AoD) string {
	key := ""
	for _, d := range x {
		v, ok := d.Float64()
		if !ok {
			key += "u,"
			continue
		}
		key += fmt.Sprintf("%.15g,", v)
	}
	return key
}
