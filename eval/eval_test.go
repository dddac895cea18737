package eval

import (
	"math"
	"testing"

	"go.viam.com/test"

	"github.com/nomadopt/nomad/numeric"
)

func TestApplyOutputsFeasiblePoint(t *testing.T) {
	p := NewPoint(numeric.FromFloats([]float64{1, 2}))
	p.ApplyOutputs(numeric.FromFloats([]float64{3.5, -1}), []OutputTag{Obj, PB}, L2)

	test.That(t, p.EvalStatus, test.ShouldEqual, Ok)
	f, _ := p.F.Float64()
	test.That(t, f, test.ShouldEqual, 3.5)
	test.That(t, p.IsFeasible(), test.ShouldBeTrue)
}

func TestApplyOutputsInfeasiblePoint(t *testing.T) {
	p := NewPoint(numeric.FromFloats([]float64{1, 2}))
	p.ApplyOutputs(numeric.FromFloats([]float64{3.5, 2, 1}), []OutputTag{Obj, PB, PB}, L2)

	test.That(t, p.EvalStatus, test.ShouldEqual, Ok)
	h, _ := p.H.Float64()
	test.That(t, h, test.ShouldAlmostEqual, math.Sqrt(2*2+1*1), 1e-9)
	test.That(t, p.IsFeasible(), test.ShouldBeFalse)
}

func TestApplyOutputsNonFiniteMarksFailed(t *testing.T) {
	p := NewPoint(numeric.FromFloats([]float64{1}))
	p.ApplyOutputs(numeric.AoD{numeric.Value(math.Inf(1))}, []OutputTag{Obj}, L2)

	test.That(t, p.EvalStatus, test.ShouldEqual, Failed)
	test.That(t, p.F.IsDefined(), test.ShouldBeFalse)
	test.That(t, p.IsFeasible(), test.ShouldBeFalse)
}

func TestApplyOutputsNoConstraintsIsFeasible(t *testing.T) {
	p := NewPoint(numeric.FromFloats([]float64{1}))
	p.ApplyOutputs(numeric.FromFloats([]float64{0.5}), []OutputTag{Obj}, L1)

	h, _ := p.H.Float64()
	test.That(t, h, test.ShouldEqual, 0.0)
	test.That(t, p.IsFeasible(), test.ShouldBeTrue)
}

func TestFailedPointIsNeverFeasible(t *testing.T) {
	p := NewPoint(numeric.FromFloats([]float64{1}))
	p.EvalStatus = Failed
	test.That(t, p.IsFeasible(), test.ShouldBeFalse)
}
