package iterutils

import (
	"context"
	"testing"

	"go.viam.com/test"

	"github.com/nomadopt/nomad/barrier"
	"github.com/nomadopt/nomad/eval"
	"github.com/nomadopt/nomad/evaluator"
	"github.com/nomadopt/nomad/mesh"
	"github.com/nomadopt/nomad/numeric"
)

func boundedMesh(t *testing.T) *mesh.GMesh {
	t.Helper()
	m, err := mesh.Initial(mesh.Params{
		LB: numeric.FromFloats([]float64{-10}),
		UB: numeric.FromFloats([]float64{10}),
	})
	test.That(t, err, test.ShouldBeNil)
	return m
}

func TestInsertTrialPointDeduplicatesByX(t *testing.T) {
	s := NewTrialPointSet()
	a := eval.NewPoint(numeric.FromFloats([]float64{1}))
	b := eval.NewPoint(numeric.FromFloats([]float64{1}))

	test.That(t, s.InsertTrialPoint(a, nil, "POLL", nil), test.ShouldBeTrue)
	test.That(t, s.InsertTrialPoint(b, nil, "POLL", nil), test.ShouldBeFalse)
	test.That(t, len(s.Points()), test.ShouldEqual, 1)
}

func TestInsertTrialPointRecordsProvenance(t *testing.T) {
	s := NewTrialPointSet()
	parent := eval.NewPoint(numeric.FromFloats([]float64{0}))
	p := eval.NewPoint(numeric.FromFloats([]float64{1}))

	s.InsertTrialPoint(p, parent, "SEARCH", "snapshot")
	test.That(t, p.GeneratedFrom, test.ShouldEqual, parent)
	test.That(t, p.GenStep, test.ShouldEqual, "SEARCH")
	test.That(t, p.MeshSnapshot, test.ShouldEqual, "snapshot")
}

func TestSnapToBoundsAndProjectDetectsCollapse(t *testing.T) {
	m := boundedMesh(t)
	center := numeric.FromFloats([]float64{0})
	lb, ub := numeric.FromFloats([]float64{-10}), numeric.FromFloats([]float64{10})

	collapsed := eval.NewPoint(numeric.FromFloats([]float64{0}))
	ok := SnapToBoundsAndProject(collapsed, lb, ub, center, m)
	test.That(t, ok, test.ShouldBeFalse)
}

func TestSnapToBoundsAndProjectClampsOutOfBounds(t *testing.T) {
	m := boundedMesh(t)
	center := numeric.FromFloats([]float64{0})
	lb, ub := numeric.FromFloats([]float64{-10}), numeric.FromFloats([]float64{10})

	p := eval.NewPoint(numeric.FromFloats([]float64{50}))
	ok := SnapToBoundsAndProject(p, lb, ub, center, m)
	test.That(t, ok, test.ShouldBeTrue)

	v, _ := p.X[0].Float64()
	test.That(t, v, test.ShouldBeLessThanOrEqualTo, 10.0)
}

func TestEvalTrialPointsUsesPool(t *testing.T) {
	s := NewTrialPointSet()
	p := eval.NewPoint(numeric.FromFloats([]float64{3}))
	s.InsertTrialPoint(p, nil, "POLL", nil)

	err := s.EvalTrialPoints(context.Background(), evaluator.Serial{}, func(_ context.Context, pt *eval.Point) error {
		pt.ApplyOutputs(numeric.FromFloats([]float64{9}), []eval.OutputTag{eval.Obj}, eval.L2)
		return nil
	}, nil)

	test.That(t, err, test.ShouldBeNil)
	f, _ := p.F.Float64()
	test.That(t, f, test.ShouldEqual, 9.0)
}

func TestPostProcessingEnlargesOnSuccessAndRefinesOnFailure(t *testing.T) {
	m := boundedMesh(t)
	b := barrier.New(numeric.Inf())

	s := NewTrialPointSet()
	success := eval.NewPoint(numeric.FromFloats([]float64{1}))
	success.ApplyOutputs(numeric.FromFloats([]float64{1}), []eval.OutputTag{eval.Obj}, eval.L2)
	s.InsertTrialPoint(success, nil, "POLL", nil)

	beforeFrame, _ := m.FrameSize()[0].Float64()
	outcome := s.PostProcessing(b, m, func(*eval.Point) numeric.AoD {
		return numeric.FromFloats([]float64{1})
	}, 0.1, false)
	afterFrame, _ := m.FrameSize()[0].Float64()

	test.That(t, outcome, test.ShouldEqual, barrier.Full)
	test.That(t, afterFrame, test.ShouldBeGreaterThan, beforeFrame)
	test.That(t, len(s.Points()), test.ShouldEqual, 0)
}

func TestPostProcessingRefinesOnPartialSuccess(t *testing.T) {
	m := boundedMesh(t)
	b := barrier.New(numeric.Inf())
	incumbent := eval.NewPoint(numeric.FromFloats([]float64{0}))
	incumbent.ApplyOutputs(numeric.FromFloats([]float64{0, 5}), []eval.OutputTag{eval.Obj, eval.PB}, eval.L2)
	b.UpdateWithPoints([]*eval.Point{incumbent})

	s := NewTrialPointSet()
	infeasible := eval.NewPoint(numeric.FromFloats([]float64{1}))
	infeasible.ApplyOutputs(numeric.FromFloats([]float64{1, 2}), []eval.OutputTag{eval.Obj, eval.PB}, eval.L2)
	s.InsertTrialPoint(infeasible, nil, "POLL", nil)

	beforeFrame, _ := m.FrameSize()[0].Float64()
	outcome := s.PostProcessing(b, m, func(*eval.Point) numeric.AoD {
		return numeric.FromFloats([]float64{1})
	}, 0.1, false)
	afterFrame, _ := m.FrameSize()[0].Float64()

	test.That(t, outcome, test.ShouldEqual, barrier.Partial)
	test.That(t, afterFrame, test.ShouldBeLessThanOrEqualTo, beforeFrame)
}

func TestPostProcessingRefinesOnUnsuccessfulStep(t *testing.T) {
	m := boundedMesh(t)
	b := barrier.New(numeric.Value(0))

	s := NewTrialPointSet()
	failed := eval.NewPoint(numeric.FromFloats([]float64{1}))
	failed.EvalStatus = eval.Failed
	s.InsertTrialPoint(failed, nil, "POLL", nil)

	beforeFrame, _ := m.FrameSize()[0].Float64()
	outcome := s.PostProcessing(b, m, nil, 0.1, false)
	afterFrame, _ := m.FrameSize()[0].Float64()

	test.That(t, outcome, test.ShouldEqual, barrier.Unsuccessful)
	test.That(t, afterFrame, test.ShouldBeLessThanOrEqualTo, beforeFrame)
}
