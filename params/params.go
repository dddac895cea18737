// Package params defines the typed parameter surface consumed by the
// algorithm driver: problem definition, mesh lifecycle, evaluation budget,
// search toggles, and control settings, with the checkAndComply validation
// that must pass before any algorithm is allowed to start.
package params

import (
	"go.uber.org/multierr"

	"github.com/nomadopt/nomad/eval"
	"github.com/nomadopt/nomad/nomaderrors"
	"github.com/nomadopt/nomad/numeric"
	"github.com/nomadopt/nomad/variables"
)

// Parameters is the full, typed parameter bag.
type Parameters struct {
	// Problem group.
	Dimension     int
	LowerBound    numeric.AoD
	UpperBound    numeric.AoD
	Granularity   numeric.AoD
	BBInputType   []variables.InputType
	FixedVariable numeric.AoD // undefined entries mean "not fixed"
	X0            numeric.AoD

	// Mesh group.
	InitialMeshSize  numeric.AoD
	InitialFrameSize numeric.AoD
	MinMeshSize      numeric.AoD
	MinFrameSize     numeric.AoD

	// Evaluation group.
	BBOutputType      []eval.OutputTag
	BBMaxBlockSize    int
	MaxBBEval         int
	MaxEval           int
	OpportunisticEval bool
	HMax0             numeric.D
	HNorm             eval.NormKind

	// Search group.
	NMSearch                    bool
	NMDeltaE                   float64
	NMDeltaIC                  float64
	NMDeltaOC                  float64
	NMGamma                    float64
	NMSimplexIncludeLength     float64
	NMSimplexIncludeFactor     float64
	SpeculativeSearchBaseFactor []float64
	QuadModelSearch            bool

	// Control group.
	Seed                         int
	MaxIterations                int
	MaxIterationPerMegaIteration int
	Epsilon                      float64
}

// Defaults returns a Parameters with the engine's default control values
// set (mesh/problem fields are left zero and must be supplied by the
// caller).
func Defaults() Parameters {
	return Parameters{
		HMax0:                        numeric.Inf(),
		HNorm:                        eval.L2,
		NMDeltaE:                     2,
		NMDeltaIC:                    -0.5,
		NMDeltaOC:                    0.5,
		NMGamma:                      0.5,
		NMSimplexIncludeLength:       1,
		NMSimplexIncludeFactor:       1,
		SpeculativeSearchBaseFactor:  []float64{2, 0.5},
		MaxIterationPerMegaIteration: 1,
		Epsilon:                      1e-13,
		BBMaxBlockSize:               1,
	}
}

// Validate runs checkAndComply: every invariant from the data model and
// §6's parameter table, aggregated rather than stopping at the first
// violation.
func (p Parameters) Validate() error {
	var errs []error

	if p.Dimension <= 0 {
		errs = append(errs, nomaderrors.NewInvalidParameter("DIMENSION", "must be positive"))
	}
	if len(p.LowerBound) != p.Dimension || len(p.UpperBound) != p.Dimension {
		errs = append(errs, nomaderrors.NewInvalidParameter("LOWER_BOUND/UPPER_BOUND", "length must equal DIMENSION"))
	}
	if err := p.ToSpace().Validate(); err != nil {
		errs = append(errs, err)
	}

	hasIF := p.InitialFrameSize != nil
	hasIM := p.InitialMeshSize != nil
	if hasIF && hasIM {
		errs = append(errs, nomaderrors.NewInvalidParameter(
			"INITIAL_MESH_SIZE/INITIAL_FRAME_SIZE", "both specified"))
	}

	for i, t := range p.BBInputType {
		if t != variables.Integer {
			continue
		}
		if p.Granularity == nil || i >= len(p.Granularity) {
			continue
		}
		g, ok := p.Granularity[i].Float64()
		if ok && g > 0 && g < 1 {
			errs = append(errs, nomaderrors.NewInvalidParameter("GRANULARITY",
				"integer coordinate granularity below 1"))
		}
	}

	if p.MaxBBEval < 0 || p.MaxEval < 0 || p.MaxIterations < 0 {
		errs = append(errs, nomaderrors.NewInvalidParameter("MAX_BB_EVAL/MAX_EVAL/MAX_ITERATIONS",
			"must be non-negative"))
	}
	if p.Seed < 0 {
		errs = append(errs, nomaderrors.NewInvalidParameter("SEED", "must be non-negative"))
	}

	if p.NMSearch {
		if p.NMDeltaE <= 1 {
			errs = append(errs, nomaderrors.NewInvalidParameter("NM_DELTA_E", "must be > 1"))
		}
		if p.NMDeltaIC >= 0 {
			errs = append(errs, nomaderrors.NewInvalidParameter("NM_DELTA_IC", "must be < 0"))
		}
		if p.NMDeltaOC <= 0 || p.NMDeltaOC > 1 {
			errs = append(errs, nomaderrors.NewInvalidParameter("NM_DELTA_OC", "must be in (0,1]"))
		}
		if p.NMGamma <= 0 || p.NMGamma > 1 {
			errs = append(errs, nomaderrors.NewInvalidParameter("NM_GAMMA", "must be in (0,1]"))
		}
	}

	return multierr.Combine(errs...)
}

// ToSpace builds a variables.Space from the problem-group fields.
func (p Parameters) ToSpace() variables.Space {
	vars := make([]variables.Variable, p.Dimension)
	for i := 0; i < p.Dimension; i++ {
		v := variables.Variable{InputType: variables.Continuous}
		if p.BBInputType != nil && i < len(p.BBInputType) {
			v.InputType = p.BBInputType[i]
		}
		if p.LowerBound != nil && i < len(p.LowerBound) {
			v.LB = p.LowerBound[i]
		}
		if p.UpperBound != nil && i < len(p.UpperBound) {
			v.UB = p.UpperBound[i]
		}
		if p.Granularity != nil && i < len(p.Granularity) {
			v.Granularity = p.Granularity[i]
		}
		if p.FixedVariable != nil && i < len(p.FixedVariable) {
			v.Fixed = p.FixedVariable[i]
		}
		vars[i] = v
	}
	return variables.NewSpace(vars)
}
