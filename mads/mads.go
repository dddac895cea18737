// Package mads implements the MADS megaiteration: composing Search then
// Poll around one or more frame centers on one shared mesh, and
// propagating the observed success back to the mesh and barrier.
package mads

import (
	"context"
	"fmt"

	"github.com/nomadopt/nomad/barrier"
	"github.com/nomadopt/nomad/direction"
	"github.com/nomadopt/nomad/eval"
	"github.com/nomadopt/nomad/evaluator"
	"github.com/nomadopt/nomad/iterutils"
	"github.com/nomadopt/nomad/logging"
	"github.com/nomadopt/nomad/mesh"
	"github.com/nomadopt/nomad/numeric"
	"github.com/nomadopt/nomad/rnd"
	"github.com/nomadopt/nomad/search"
)

// PollCache remembers the poll direction set most recently drawn around a
// frame center, keyed by that center's coordinates. When the next poll's
// center hashes the same (the iteration refined the mesh but never moved
// off this center), the cached directions are reused instead of drawing a
// fresh permutation from src.
type PollCache struct {
	lastCenterKey string
	lastDirs      [][]int
}

// NewPollCache builds an empty PollCache.
func NewPollCache() *PollCache { return &PollCache{} }

func centerKey(x numeric.AoD) string {
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

// SearchMethod is a named, independently toggleable Search implementation.
type SearchMethod struct {
	Name    string
	Method  search.Method
	Enabled bool
}

// Config configures one megaiteration.
type Config struct {
	Spanner          direction.Spanner
	Searches         []SearchMethod
	Opportunistic    bool
	AnisotropyFactor float64
	Anisotropic      bool
	Pool             evaluator.Pool
	Oracle           evaluator.Oracle
	LB, UB           numeric.AoD
	Logger           logging.Logger
	PollCache        *PollCache
}

// Megaiteration runs one MADS outer step around the supplied frame centers,
// in order, on the single mesh m, and returns the combined success type.
// Each center's step refines or enlarges m before the next center is
// polled, so later centers do not see the mesh as it was at the start of
// the megaiteration.
func Megaiteration(ctx context.Context, cfg Config, centers []*eval.Point, m *mesh.GMesh, b *barrier.Barrier, src *rnd.Source) (barrier.SuccessType, error) {
	overall := barrier.Unsuccessful

	for _, center := range centers {
		outcome, err := stepAroundCenter(ctx, cfg, center, m, b, src)
		if err != nil {
			return overall, err
		}
		if outcome > overall {
			overall = outcome
		}
		if outcome == barrier.Full && cfg.Opportunistic {
			// A full success at one center still lets other centers run;
			// opportunism here governs evaluation within a step, not
			// across centers (spec.md §4.4).
			continue
		}
	}
	return overall, nil
}

func stepAroundCenter(ctx context.Context, cfg Config, center *eval.Point, m *mesh.GMesh, b *barrier.Barrier, src *rnd.Source) (barrier.SuccessType, error) {
	searchOutcome, err := runSearches(ctx, cfg, center, m, b)
	if err != nil {
		return barrier.Unsuccessful, err
	}
	if searchOutcome == barrier.Full {
		return searchOutcome, nil
	}

	pollOutcome, err := runPoll(ctx, cfg, center, m, b, src)
	if err != nil {
		return searchOutcome, err
	}
	if pollOutcome > searchOutcome {
		return pollOutcome, nil
	}
	return searchOutcome, nil
}

func runSearches(ctx context.Context, cfg Config, center *eval.Point, m *mesh.GMesh, b *barrier.Barrier) (barrier.SuccessType, error) {
	overall := barrier.Unsuccessful
	for _, sm := range cfg.Searches {
		if !sm.Enabled {
			continue
		}
		candidates := sm.Method.GenerateTrialPointsFinal(center, m)
		if len(candidates) == 0 {
			continue
		}

		set := iterutils.NewTrialPointSet()
		for _, c := range candidates {
			if !iterutils.SnapToBoundsAndProject(c, cfg.LB, cfg.UB, center.X, m) {
				continue
			}
			set.InsertTrialPoint(c, center, sm.Name, nil)
		}
		if len(set.Points()) == 0 {
			continue
		}

		stopEarly := opportunisticStop(cfg.Opportunistic, b)

		if err := set.EvalTrialPoints(ctx, cfg.Pool, cfg.Oracle, stopEarly); err != nil {
			return overall, err
		}

		outcome := set.PostProcessing(b, m, func(p *eval.Point) numeric.AoD {
			return numeric.Vectorize(center.X, p.X)
		}, cfg.AnisotropyFactor, cfg.Anisotropic)

		if outcome > overall {
			overall = outcome
		}
		if outcome == barrier.Full {
			return overall, nil
		}
	}
	return overall, nil
}

// pollDirections returns the direction set to poll around center. When
// cfg.PollCache is set and the center's coordinates hash the same as the
// last poll's (the frame refined without moving off this center), the
// cached direction set is reused instead of drawing a fresh permutation
// from src.
func pollDirections(cfg Config, center *eval.Point, m *mesh.GMesh, src *rnd.Source) [][]int {
	spanner := cfg.Spanner
	if spanner == nil {
		spanner = direction.Compass2N{}
	}

	if cfg.PollCache == nil {
		return spanner.Span(m.N(), src)
	}

	key := centerKey(center.X)
	if cfg.PollCache.lastDirs != nil && cfg.PollCache.lastCenterKey == key {
		return cfg.PollCache.lastDirs
	}

	dirs := spanner.Span(m.N(), src)
	cfg.PollCache.lastCenterKey = key
	cfg.PollCache.lastDirs = dirs
	return dirs
}

func runPoll(ctx context.Context, cfg Config, center *eval.Point, m *mesh.GMesh, b *barrier.Barrier, src *rnd.Source) (barrier.SuccessType, error) {
	dirs := pollDirections(cfg, center, m, src)

	set := iterutils.NewTrialPointSet()
	for _, d := range dirs {
		x := make(numeric.AoD, len(d))
		for i, di := range d {
			x[i] = m.ScaleAndProject(i, float64(di))
		}
		x = center.X.Add(x)
		p := eval.NewPoint(x)
		if !iterutils.SnapToBoundsAndProject(p, cfg.LB, cfg.UB, center.X, m) {
			continue
		}
		set.InsertTrialPoint(p, center, "POLL", nil)
	}

	stopEarly := opportunisticStop(cfg.Opportunistic, b)

	if err := set.EvalTrialPoints(ctx, cfg.Pool, cfg.Oracle, stopEarly); err != nil {
		return barrier.Unsuccessful, err
	}

	return set.PostProcessing(b, m, func(p *eval.Point) numeric.AoD {
		return numeric.Vectorize(center.X, p.X)
	}, cfg.AnisotropyFactor, cfg.Anisotropic), nil
}

// opportunisticStop builds the StopEarly predicate that halts a batch after
// its first full success against b (spec.md's opportunistic evaluation),
// or nil when opportunism is disabled (evaluate the whole trial set).
func opportunisticStop(enabled bool, b *barrier.Barrier) evaluator.StopEarly {
	if !enabled {
		return nil
	}
	return func(evaluated []*eval.Point) bool {
		for _, p := range evaluated {
			if b.WouldBeFullSuccess(p) {
				return true
			}
		}
		return false
	}
}
