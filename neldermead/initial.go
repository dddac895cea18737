package neldermead

import (
	"github.com/nomadopt/nomad/cache"
	"github.com/nomadopt/nomad/eval"
	"github.com/nomadopt/nomad/nomaderrors"
	"github.com/nomadopt/nomad/numeric"
)

// AxisAligned synthesizes an (n+1)-point simplex around x0 when no cache is
// available: y_0 = x0; y_i = x0 with coordinate i perturbed by 5%, or by
// 0.00025 when x0[i] = 0.
func AxisAligned(x0 numeric.AoD) []numeric.AoD {
	n := len(x0)
	out := make([]numeric.AoD, n+1)
	out[0] = x0.Clone()
	for i := 0; i < n; i++ {
		y := x0.Clone()
		v, _ := x0[i].Float64()
		if v == 0 {
			y[i] = numeric.Value(0.00025)
		} else {
			y[i] = numeric.Value(v * 1.05)
		}
		out[i+1] = y
	}
	return out
}

// FromCache builds an initial simplex by greedily scanning allPoints (the
// caller's cached points; c itself is not read) for Ok points inside an
// include rectangle of half-width includeLength*includeFactor*frameSize
// around center, adding each only if it increases the rank of the
// accumulated DZ. Returns an InitializationFailure error (the condition
// behind StopInitialFailed) when fewer than n+1 independent points are found.
func FromCache(c cache.Cache, center numeric.AoD, frameSize numeric.AoD, includeLength, includeFactor float64, allPoints []*eval.Point) ([]*eval.Point, error) {
	n := len(center)
	half := make([]float64, n)
	for i := range half {
		fs, _ := frameSize[i].Float64()
		half[i] = includeLength * includeFactor * fs
	}

	var candidates []*eval.Point
	for _, p := range allPoints {
		if p.EvalStatus != eval.Ok {
			continue
		}
		inside := true
		for i := range center {
			cv, _ := center[i].Float64()
			pv, ok := p.X[i].Float64()
			if !ok || pv < cv-half[i] || pv > cv+half[i] {
				inside = false
				break
			}
		}
		if inside {
			candidates = append(candidates, p)
		}
	}

	accepted := []*eval.Point{}
	for _, cand := range candidates {
		trial := append(append([]*eval.Point(nil), accepted...), cand)
		if len(trial) == 1 {
			accepted = trial
			continue
		}
		if rankOfDZ(trial) > rankOfDZ(accepted) {
			accepted = trial
		}
		if len(accepted) == n+1 {
			break
		}
	}

	if len(accepted) < n+1 {
		return nil, nomaderrors.NewInitializationFailure("neldermead",
			"fewer than n+1 independent points found in include rectangle")
	}
	return accepted, nil
}
