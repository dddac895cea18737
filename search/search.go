// Package search implements the composable Search methods: speculative/line
// search, integer expansion line search, and cache search. Each implements
// the same contract (GenerateTrialPointsFinal) and is enabled independently
// by configuration.
package search

import (
	"github.com/nomadopt/nomad/cache"
	"github.com/nomadopt/nomad/eval"
	"github.com/nomadopt/nomad/mesh"
	"github.com/nomadopt/nomad/numeric"
)

// Method is the contract every Search implements.
type Method interface {
	GenerateTrialPointsFinal(center *eval.Point, m *mesh.GMesh) []*eval.Point
}

// Speculative implements the speculative / line search: given a frame
// center generated from a predecessor, extends the primitive direction
// d = x_c - x_p by a small set of step factors, with an optional quadratic
// refinement once three measured points along d are available.
type Speculative struct {
	// BaseFactors are the alpha multipliers tried against d, typically
	// doubling then halving (e.g. {2, 0.5}).
	BaseFactors []float64
	// History, keyed by predecessor identity via pointer equality, supplies
	// (0, u, v) measurements along d for the quadratic fit once populated
	// by the caller after two successes in a row.
	History map[*eval.Point]lineHistory
}

type lineHistory struct {
	u, v float64 // f measured at t=1 (x_c) and t=2 (one prior speculative success)
	have bool
}

// GenerateTrialPointsFinal implements Method.
func (s Speculative) GenerateTrialPointsFinal(center *eval.Point, m *mesh.GMesh) []*eval.Point {
	if center.GeneratedFrom == nil {
		return nil
	}
	d := numeric.Vectorize(center.GeneratedFrom.X, center.X)

	var out []*eval.Point
	factors := s.BaseFactors
	if factors == nil {
		factors = []float64{2, 0.5}
	}
	for _, alpha := range factors {
		out = append(out, trialAlongDirection(center, d, alpha))
	}

	if h, ok := s.History[center.GeneratedFrom]; ok && h.have {
		if t, ok := quadraticMinimizer(0, h.u, h.v); ok {
			out = append(out, trialAlongDirection(center, d, t))
		}
	}
	return out
}

func trialAlongDirection(center *eval.Point, d numeric.AoD, alpha float64) *eval.Point {
	x := center.X.Add(d.Scale(numeric.Value(alpha)))
	p := eval.NewPoint(x)
	p.GeneratedFrom = center
	p.GenStep = "SPECULATIVE_SEARCH"
	return p
}

// quadraticMinimizer fits a parabola through (0,f0), (1,u), (2,v) and
// returns its analytic minimizer t=-b/(2a). Returns false when a<=0 (not a
// minimum) or b is effectively zero (no useful direction).
func quadraticMinimizer(f0, u, v float64) (float64, bool) {
	// With samples at t=0,1,2: a = (v - 2u + f0)/2, b = (4u - v - 3f0)/2.
	a := (v - 2*u + f0) / 2
	b := (4*u - v - 3*f0) / 2
	if a <= 0 {
		return 0, false
	}
	if b > -1e-12 && b < 1e-12 {
		return 0, false
	}
	return -b / (2 * a), true
}

// IntegerLineSearch is the speculative line search restricted to integer
// coordinates: the direction is divided by the gcd of its integer entries,
// and step sizes are powers of two clipped to bounds.
type IntegerLineSearch struct {
	IsInteger []bool
	LB, UB    numeric.AoD
	MaxPower  int
}

// GenerateTrialPointsFinal implements Method.
func (s IntegerLineSearch) GenerateTrialPointsFinal(center *eval.Point, m *mesh.GMesh) []*eval.Point {
	if center.GeneratedFrom == nil {
		return nil
	}
	d := numeric.Vectorize(center.GeneratedFrom.X, center.X)

	ints := make([]int, 0, len(d))
	for i, isInt := range s.IsInteger {
		if !isInt {
			continue
		}
		v, ok := d[i].Float64()
		if !ok {
			continue
		}
		ints = append(ints, int(v))
	}
	g := gcdAll(ints)
	if g == 0 {
		g = 1
	}

	reduced := make(numeric.AoD, len(d))
	for i := range d {
		if !s.IsInteger[i] {
			reduced[i] = numeric.Zero()
			continue
		}
		v, _ := d[i].Float64()
		reduced[i] = numeric.Value(v / float64(g))
	}

	maxPower := s.MaxPower
	if maxPower <= 0 {
		maxPower = 3
	}

	var out []*eval.Point
	for k := 1; k <= maxPower; k++ {
		step := float64(int(1) << uint(k))
		x := center.X.Add(reduced.Scale(numeric.Value(step)))
		if s.LB != nil && s.UB != nil {
			x = x.SnapToBounds(s.LB, s.UB)
		}
		p := eval.NewPoint(x)
		p.GeneratedFrom = center
		p.GenStep = "INTEGER_LINE_SEARCH"
		out = append(out, p)
	}
	return out
}

func gcdAll(vals []int) int {
	result := 0
	for _, v := range vals {
		if v < 0 {
			v = -v
		}
		result = gcd(result, v)
	}
	return result
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// CacheSearch proposes the cache's best feasible point (lowest f) when its
// objective is strictly below the frame center's, used to synchronize
// multiple parallel MADS instances. At most one point is proposed, and
// infeasible cached points are not considered. Proposed points already
// carry evaluations, so they are immediately treated as full successes by
// the barrier.
type CacheSearch struct {
	Cache cache.Cache
}

// GenerateTrialPointsFinal implements Method. The cached point is compared
// against center's objective only, since the contract here only takes the
// frame center.
func (s CacheSearch) GenerateTrialPointsFinal(center *eval.Point, m *mesh.GMesh) []*eval.Point {
	if s.Cache == nil {
		return nil
	}
	dominator := s.Cache.FindBestFeas(func(a, b *eval.Point) bool {
		af, _ := a.F.Float64()
		bf, _ := b.F.Float64()
		return af < bf
	})
	if dominator == nil {
		return nil
	}
	cf, cok := center.F.Float64()
	df, dok := dominator.F.Float64()
	if cok && dok && df >= cf {
		return nil
	}
	return []*eval.Point{dominator}
}

// QuadraticModelSearch routes externally produced candidates through
// insertion; the model-building itself lives outside the core (spec.md
// §4.5: "a separate module produces candidates; the core only routes them
// through insertTrialPoint").
type QuadraticModelSearch struct {
	Candidates func(center *eval.Point) []*eval.Point
}

// GenerateTrialPointsFinal implements Method.
func (s QuadraticModelSearch) GenerateTrialPointsFinal(center *eval.Point, m *mesh.GMesh) []*eval.Point {
	if s.Candidates == nil {
		return nil
	}
	return s.Candidates(center)
}
