package variables

import (
	"testing"

	"go.viam.com/test"

	"github.com/nomadopt/nomad/numeric"
)

func continuousVar(lb, ub float64) Variable {
	return Variable{InputType: Continuous, LB: numeric.Value(lb), UB: numeric.Value(ub)}
}

func TestValidateAcceptsWellFormedSpace(t *testing.T) {
	s := NewSpace([]Variable{continuousVar(-1, 1), continuousVar(0, 10)})
	test.That(t, s.Validate(), test.ShouldBeNil)
}

func TestValidateRejectsLBGreaterThanUB(t *testing.T) {
	s := NewSpace([]Variable{continuousVar(5, 1)})
	test.That(t, s.Validate(), test.ShouldNotBeNil)
}

func TestValidateRejectsEqualBounds(t *testing.T) {
	s := NewSpace([]Variable{continuousVar(2, 2)})
	test.That(t, s.Validate(), test.ShouldNotBeNil)
}

func TestValidateRejectsFixedOutsideBounds(t *testing.T) {
	v := continuousVar(0, 10)
	v.Fixed = numeric.Value(20)
	s := NewSpace([]Variable{v})
	test.That(t, s.Validate(), test.ShouldNotBeNil)
}

func TestValidateRejectsIntegerGranularityBelowOne(t *testing.T) {
	v := Variable{InputType: Integer, Granularity: numeric.Value(0.5)}
	s := NewSpace([]Variable{v})
	test.That(t, s.Validate(), test.ShouldNotBeNil)
}

func TestNewSpaceNormalizesBinaryBounds(t *testing.T) {
	v := Variable{InputType: Binary, LB: numeric.Value(-5), UB: numeric.Value(5)}
	s := NewSpace([]Variable{v})
	test.That(t, s.Validate(), test.ShouldBeNil)
	lb, _ := s.Vars[0].LB.Float64()
	ub, _ := s.Vars[0].UB.Float64()
	test.That(t, lb, test.ShouldEqual, 0.0)
	test.That(t, ub, test.ShouldEqual, 1.0)
}

func TestSubIndicesExcludesFixed(t *testing.T) {
	fixed := continuousVar(0, 10)
	fixed.Fixed = numeric.Value(3)
	s := NewSpace([]Variable{continuousVar(0, 1), fixed, continuousVar(0, 1)})

	test.That(t, s.SubIndices(), test.ShouldResemble, []int{0, 2})
}

func TestSubSpaceRoundTrip(t *testing.T) {
	fixed := continuousVar(0, 10)
	fixed.Fixed = numeric.Value(3)
	s := NewSpace([]Variable{continuousVar(0, 1), fixed, continuousVar(0, 1)})

	full := NewPoint(numeric.FromFloats([]float64{0.1, 3, 0.9}))
	sub := s.ToSubSpace(full)
	test.That(t, sub.X.Floats(0), test.ShouldResemble, []float64{0.1, 0.9})

	back := s.FromSubSpace(sub)
	test.That(t, back.X.Floats(0), test.ShouldResemble, []float64{0.1, 3, 0.9})
}

func TestIsCompleteDetectsUndefinedCoordinates(t *testing.T) {
	p := NewUndefinedPoint(2)
	test.That(t, p.IsComplete(), test.ShouldBeFalse)

	p.X[0] = numeric.Value(1)
	p.X[1] = numeric.Value(2)
	test.That(t, p.IsComplete(), test.ShouldBeTrue)
}
