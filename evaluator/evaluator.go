// Package evaluator implements the oracle-calling pool: the boundary
// between the single-threaded core and the (possibly parallel) blackbox.
// The core hands a batch of trial points to a Pool and suspends until
// outcomes are back in the batch's declared order.
package evaluator

import (
	"context"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/nomadopt/nomad/eval"
	"github.com/nomadopt/nomad/logging"
)

// Oracle evaluates one trial point in place, setting its outputs via
// ApplyOutputs (or leaving it Failed on error). Implementations must be
// thread-safe if used by Parallel.
type Oracle func(ctx context.Context, p *eval.Point) error

// StopEarly is consulted by Pool implementations after each point returns;
// when it reports true, remaining unsubmitted points in the batch are
// skipped (opportunistic evaluation).
type StopEarly func(evaluated []*eval.Point) bool

// Pool is the evaluator contract: evaluate a batch, in the batch's declared
// order, optionally stopping early.
type Pool interface {
	Evaluate(ctx context.Context, batch []*eval.Point, oracle Oracle, stopEarly StopEarly) error
}

// Serial evaluates one point at a time, in order. It is the reference
// implementation and the only legal choice once a block includes a cache
// search result that must be accounted for before issuing the next point.
type Serial struct {
	Logger logging.Logger
}

// Evaluate implements Pool.
func (s Serial) Evaluate(ctx context.Context, batch []*eval.Point, oracle Oracle, stopEarly StopEarly) error {
	var evaluated []*eval.Point
	for _, p := range batch {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := oracle(ctx, p); err != nil {
			p.EvalStatus = eval.Failed
			if s.Logger != nil {
				s.Logger.Debugw("evaluation failed", "err", err)
			}
		}
		evaluated = append(evaluated, p)
		if stopEarly != nil && stopEarly(evaluated) {
			break
		}
	}
	return nil
}

// Parallel evaluates a batch with up to Workers goroutines via errgroup,
// preserving the batch's declared order in the caller-visible slice (each
// point is mutated in place, so ordering is a property of the slice the
// caller already holds, not of completion order).
type Parallel struct {
	Workers int
	Logger  logging.Logger
}

// Evaluate implements Pool. Per-point evaluation failures are aggregated
// with multierr rather than aborting the batch: one bad point must not
// blind the others to success classification.
func (p Parallel) Evaluate(ctx context.Context, batch []*eval.Point, oracle Oracle, stopEarly StopEarly) error {
	workers := p.Workers
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	var evaluated []*eval.Point
	var stopped bool
	var errs error

	for _, pt := range batch {
		pt := pt

		mu.Lock()
		halt := stopped
		mu.Unlock()
		if halt {
			break
		}

		g.Go(func() error {
			if err := oracle(gctx, pt); err != nil {
				pt.EvalStatus = eval.Failed
				if p.Logger != nil {
					p.Logger.Debugw("evaluation failed", "err", err)
				}
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}

			mu.Lock()
			evaluated = append(evaluated, pt)
			if stopEarly != nil && stopEarly(evaluated) {
				stopped = true
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return errs
}
