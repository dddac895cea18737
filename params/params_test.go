package params

import (
	"testing"

	"go.viam.com/test"

	"github.com/nomadopt/nomad/numeric"
	"github.com/nomadopt/nomad/variables"
)

func TestDefaultsValidateWhenProblemFilledIn(t *testing.T) {
	p := Defaults()
	p.Dimension = 2
	p.LowerBound = numeric.FromFloats([]float64{-1, -1})
	p.UpperBound = numeric.FromFloats([]float64{1, 1})

	test.That(t, p.Validate(), test.ShouldBeNil)
}

func TestValidateRejectsNonPositiveDimension(t *testing.T) {
	p := Defaults()
	p.Dimension = 0
	test.That(t, p.Validate(), test.ShouldNotBeNil)
}

func TestValidateRejectsConflictingMeshParameters(t *testing.T) {
	p := Defaults()
	p.Dimension = 1
	p.LowerBound = numeric.FromFloats([]float64{0})
	p.UpperBound = numeric.FromFloats([]float64{1})
	p.InitialFrameSize = numeric.FromFloats([]float64{0.1})
	p.InitialMeshSize = numeric.FromFloats([]float64{0.01})

	test.That(t, p.Validate(), test.ShouldNotBeNil)
}

func TestValidateRejectsBadNMCoefficientsOnlyWhenNMEnabled(t *testing.T) {
	p := Defaults()
	p.Dimension = 1
	p.LowerBound = numeric.FromFloats([]float64{0})
	p.UpperBound = numeric.FromFloats([]float64{1})
	p.NMDeltaE = 0.5 // invalid

	test.That(t, p.Validate(), test.ShouldBeNil) // NM disabled, ignored

	p.NMSearch = true
	test.That(t, p.Validate(), test.ShouldNotBeNil)
}

func TestToSpaceBuildsVariablesFromProblemGroup(t *testing.T) {
	p := Defaults()
	p.Dimension = 2
	p.LowerBound = numeric.FromFloats([]float64{0, 0})
	p.UpperBound = numeric.FromFloats([]float64{10, 10})
	p.BBInputType = []variables.InputType{variables.Continuous, variables.Integer}

	space := p.ToSpace()
	test.That(t, space.N(), test.ShouldEqual, 2)
	test.That(t, space.Vars[1].InputType, test.ShouldEqual, variables.Integer)
}
