package evaluator

import (
	"context"
	"errors"
	"testing"

	"go.viam.com/test"

	"github.com/nomadopt/nomad/eval"
	"github.com/nomadopt/nomad/numeric"
)

func batchOf(n int) []*eval.Point {
	out := make([]*eval.Point, n)
	for i := range out {
		out[i] = eval.NewPoint(numeric.FromFloats([]float64{float64(i)}))
	}
	return out
}

func TestSerialEvaluatesEveryPointInOrder(t *testing.T) {
	batch := batchOf(5)
	var seen []float64

	s := Serial{}
	err := s.Evaluate(context.Background(), batch, func(_ context.Context, p *eval.Point) error {
		v, _ := p.X[0].Float64()
		seen = append(seen, v)
		p.ApplyOutputs(numeric.FromFloats([]float64{v}), []eval.OutputTag{eval.Obj}, eval.L2)
		return nil
	}, nil)

	test.That(t, err, test.ShouldBeNil)
	test.That(t, seen, test.ShouldResemble, []float64{0, 1, 2, 3, 4})
	for _, p := range batch {
		test.That(t, p.EvalStatus, test.ShouldEqual, eval.Ok)
	}
}

func TestSerialStopsEarlyWhenOpportunistic(t *testing.T) {
	batch := batchOf(5)
	var count int

	s := Serial{}
	s.Evaluate(context.Background(), batch, func(_ context.Context, p *eval.Point) error {
		count++
		p.ApplyOutputs(numeric.FromFloats([]float64{1}), []eval.OutputTag{eval.Obj}, eval.L2)
		return nil
	}, func(evaluated []*eval.Point) bool {
		return len(evaluated) >= 2
	})

	test.That(t, count, test.ShouldEqual, 2)
}

func TestSerialOracleErrorMarksFailedButContinues(t *testing.T) {
	batch := batchOf(3)
	failAt := 1

	s := Serial{}
	s.Evaluate(context.Background(), batch, func(_ context.Context, p *eval.Point) error {
		v, _ := p.X[0].Float64()
		if int(v) == failAt {
			return errors.New("oracle blew up")
		}
		p.ApplyOutputs(numeric.FromFloats([]float64{v}), []eval.OutputTag{eval.Obj}, eval.L2)
		return nil
	}, nil)

	test.That(t, batch[0].EvalStatus, test.ShouldEqual, eval.Ok)
	test.That(t, batch[1].EvalStatus, test.ShouldEqual, eval.Failed)
	test.That(t, batch[2].EvalStatus, test.ShouldEqual, eval.Ok)
}

func TestParallelEvaluatesEveryPoint(t *testing.T) {
	batch := batchOf(20)

	p := Parallel{Workers: 4}
	err := p.Evaluate(context.Background(), batch, func(_ context.Context, pt *eval.Point) error {
		v, _ := pt.X[0].Float64()
		pt.ApplyOutputs(numeric.FromFloats([]float64{v}), []eval.OutputTag{eval.Obj}, eval.L2)
		return nil
	}, nil)

	test.That(t, err, test.ShouldBeNil)
	for _, pt := range batch {
		test.That(t, pt.EvalStatus, test.ShouldEqual, eval.Ok)
	}
}

func TestParallelAggregatesErrorsWithoutAbortingOtherPoints(t *testing.T) {
	batch := batchOf(5)

	p := Parallel{Workers: 3}
	err := p.Evaluate(context.Background(), batch, func(_ context.Context, pt *eval.Point) error {
		v, _ := pt.X[0].Float64()
		if int(v)%2 == 0 {
			return errors.New("even index fails")
		}
		pt.ApplyOutputs(numeric.FromFloats([]float64{v}), []eval.OutputTag{eval.Obj}, eval.L2)
		return nil
	}, nil)

	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, batch[0].EvalStatus, test.ShouldEqual, eval.Failed)
	test.That(t, batch[1].EvalStatus, test.ShouldEqual, eval.Ok)
}
