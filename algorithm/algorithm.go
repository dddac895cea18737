// Package algorithm implements the driver: the outer loop that runs
// megaiterations until the Termination predicate fires, propagating
// success between nested algorithm instances (e.g. Nelder-Mead running as
// a Search inside MADS).
package algorithm

import (
	"context"

	"github.com/nomadopt/nomad/barrier"
	"github.com/nomadopt/nomad/logging"
	"github.com/nomadopt/nomad/mesh"
	"github.com/nomadopt/nomad/nomaderrors"
	"github.com/nomadopt/nomad/rnd"
)

// Termination is the OR-composed stop predicate. Each Check returns a
// non-nil error (always a nomaderrors value) when its condition fires.
type Termination struct {
	checks []func(s Stats) error
}

// Stats is the subset of driver state a Termination check needs.
type Stats struct {
	MegaIterations   int
	BBEvals          int
	TotalEvals       int
	MeshStopped      bool
	UserInterrupted  bool
	ObjectiveReached bool
	HMaxCollapsed    bool
}

// NewTermination builds a Termination from budgets; zero means "no limit"
// for the eval/iteration budgets.
func NewTermination(maxBBEval, maxEval, maxIterations int, objectiveTarget *float64, currentBest func() (float64, bool)) *Termination {
	term := &Termination{}

	if maxBBEval > 0 {
		term.checks = append(term.checks, func(s Stats) error {
			if s.BBEvals >= maxBBEval {
				return &nomaderrors.Exhaustion{Reason: nomaderrors.ExhaustionMaxBBEval}
			}
			return nil
		})
	}
	if maxEval > 0 {
		term.checks = append(term.checks, func(s Stats) error {
			if s.TotalEvals >= maxEval {
				return &nomaderrors.Exhaustion{Reason: nomaderrors.ExhaustionMaxEval}
			}
			return nil
		})
	}
	if maxIterations > 0 {
		term.checks = append(term.checks, func(s Stats) error {
			if s.MegaIterations >= maxIterations {
				return &nomaderrors.Exhaustion{Reason: nomaderrors.ExhaustionMaxIterations}
			}
			return nil
		})
	}
	term.checks = append(term.checks, func(s Stats) error {
		if s.MeshStopped {
			return &nomaderrors.Exhaustion{Reason: nomaderrors.ExhaustionMeshStop}
		}
		return nil
	})
	term.checks = append(term.checks, func(s Stats) error {
		if s.UserInterrupted {
			return nomaderrors.ErrUserInterrupt
		}
		return nil
	})
	if objectiveTarget != nil && currentBest != nil {
		term.checks = append(term.checks, func(s Stats) error {
			best, ok := currentBest()
			if ok && best <= *objectiveTarget {
				return &nomaderrors.Exhaustion{Reason: nomaderrors.ExhaustionMaxIterations}
			}
			return nil
		})
	}
	return term
}

// Check runs every registered predicate and returns the first that fires.
func (t *Termination) Check(s Stats) error {
	for _, c := range t.checks {
		if err := c(s); err != nil {
			return err
		}
	}
	return nil
}

// HotRestartState is the minimal serializable state needed to resume a run:
// the megaiteration counter, the barrier, the mesh, the RNG triple, and
// evaluation counters. Cache serialization is orthogonal and not included.
type HotRestartState struct {
	MegaIteration int
	Barrier       *barrier.Barrier
	Mesh          *mesh.GMesh
	RNGState      rnd.State
	BBEvals       int
	TotalEvals    int
}

// Driver loops megaiterations until Termination fires. Step is supplied by
// the caller (it composes mads.Megaiteration with the problem's oracle);
// the driver only owns the loop, the counters, and success forwarding.
type Driver struct {
	Logger      logging.Logger
	Termination *Termination

	megaIteration int
	bbEvals       int
	totalEvals    int
	userInterrupt bool

	// bestSuccessSeen remembers the best success observed across nested
	// algorithm instances, so that when an inner algorithm (e.g. NM as a
	// Search) reports Full, it is forwarded to the outer mesh.
	bestSuccessSeen barrier.SuccessType
}

// Snapshot captures the driver's counters into a HotRestartState, pairing
// them with the caller's current barrier, mesh, and RNG. Simplex state is
// never captured: resuming into a megaiteration whose step was NM-as-Search
// restarts that sub-iteration from scratch rather than mid-simplex.
func (d *Driver) Snapshot(b *barrier.Barrier, m *mesh.GMesh, rngState rnd.State) HotRestartState {
	return HotRestartState{
		MegaIteration: d.megaIteration,
		Barrier:       b,
		Mesh:          m,
		RNGState:      rngState,
		BBEvals:       d.bbEvals,
		TotalEvals:    d.totalEvals,
	}
}

// Resume rebuilds a Driver's counters from a previously captured
// HotRestartState. The caller is responsible for restoring the barrier,
// mesh, and RNG source themselves (via state.Barrier/state.Mesh and
// rnd.Source.Restore(state.RNGState)) before resuming the step loop.
func Resume(logger logging.Logger, term *Termination, state HotRestartState) *Driver {
	return &Driver{
		Logger:        logger,
		Termination:   term,
		megaIteration: state.MegaIteration,
		bbEvals:       state.BBEvals,
		totalEvals:    state.TotalEvals,
	}
}

// NewDriver builds a Driver.
func NewDriver(logger logging.Logger, term *Termination) *Driver {
	return &Driver{Logger: logger, Termination: term}
}

// Interrupt requests termination at the next checkpoint.
func (d *Driver) Interrupt() { d.userInterrupt = true }

// RecordEvals adds to the driver's evaluation counters, to be called by the
// caller's Step after each megaiteration's evaluator pool invocation.
func (d *Driver) RecordEvals(bb, total int) {
	d.bbEvals += bb
	d.totalEvals += total
}

// ForwardSuccess records a success level observed by a nested algorithm, so
// the outer loop's mesh can enlarge on the same iteration.
func (d *Driver) ForwardSuccess(s barrier.SuccessType) {
	if s > d.bestSuccessSeen {
		d.bestSuccessSeen = s
	}
}

// BestSuccessSeen returns and resets the forwarded success level.
func (d *Driver) BestSuccessSeen() barrier.SuccessType {
	s := d.bestSuccessSeen
	d.bestSuccessSeen = barrier.Unsuccessful
	return s
}

// Run loops step until Termination fires or ctx is cancelled. step performs
// one megaiteration and reports whether the mesh's own stopWhen predicate
// has fired.
func (d *Driver) Run(ctx context.Context, step func(ctx context.Context) (meshStopped bool, err error)) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		meshStopped, err := step(ctx)
		if err != nil {
			if d.Logger != nil {
				d.Logger.Debugw("megaiteration step failed", "err", err)
			}
			return err
		}
		d.megaIteration++

		if err := d.Termination.Check(Stats{
			MegaIterations:  d.megaIteration,
			BBEvals:         d.bbEvals,
			TotalEvals:      d.totalEvals,
			MeshStopped:     meshStopped,
			UserInterrupted: d.userInterrupt,
		}); err != nil {
			return err
		}
	}
}

// MegaIteration returns the number of megaiterations run so far.
func (d *Driver) MegaIteration() int { return d.megaIteration }
