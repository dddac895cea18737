// Package mesh implements the granular anisotropic mesh: per-coordinate
// mantissa/exponent ladders that discretize variable space and adapt both
// mesh size (polling precision) and frame size (polling reach) in response
// to iteration outcomes.
package mesh

import (
	"math"

	"github.com/nomadopt/nomad/nomaderrors"
	"github.com/nomadopt/nomad/numeric"
)

// mantissa is one rung of the {1, 2, 5} ladder.
type mantissa int

const (
	mantissa1 mantissa = 1
	mantissa2 mantissa = 2
	mantissa5 mantissa = 5
)

// refineDown returns the next mantissa/exponent pair when decrementing the
// ladder 5 -> 2 -> 1 -> 5*10^(e-1).
func refineDown(m mantissa, e int) (mantissa, int) {
	switch m {
	case mantissa5:
		return mantissa2, e
	case mantissa2:
		return mantissa1, e
	default:
		return mantissa5, e - 1
	}
}

// enlargeUp returns the next mantissa/exponent pair when incrementing the
// ladder 1 -> 2 -> 5 -> 1*10^(e+1).
func enlargeUp(m mantissa, e int) (mantissa, int) {
	switch m {
	case mantissa1:
		return mantissa2, e
	case mantissa2:
		return mantissa5, e
	default:
		return mantissa1, e + 1
	}
}

// coord is one coordinate's mesh state.
type coord struct {
	granularity float64
	hasGran     bool

	frameMantissa mantissa
	frameExp      int
	initialExp    int // e_i^0, used to compute delta from Delta

	minMesh  float64
	hasMin   bool
	minFrame float64
	hasMinF  bool
}

func (c coord) frameSize() float64 {
	base := float64(c.frameMantissa) * math.Pow(10, float64(c.frameExp))
	if c.hasGran {
		return c.granularity * base
	}
	return base
}

func (c coord) meshSize() float64 {
	delta := c.frameSize()
	scaled := delta * math.Pow(10, -math.Abs(float64(c.frameExp-c.initialExp)))
	if c.hasGran && c.granularity > 0 {
		return math.Max(c.granularity, scaled)
	}
	return scaled
}

// GMesh is the per-problem anisotropic mesh: one coord per dimension.
type GMesh struct {
	coords []coord
}

// Params configures GMesh.Initial.
type Params struct {
	LB, UB       numeric.AoD
	Granularity  numeric.AoD
	InitialFrame numeric.AoD // optional, per-coordinate
	InitialMesh  numeric.AoD // optional, per-coordinate
	MinMesh      numeric.AoD // optional
	MinFrame     numeric.AoD // optional
	X0           numeric.AoD // used by the default Delta heuristic when bounds are absent
}

// Initial builds a GMesh from Params. Supplying both InitialFrame and
// InitialMesh for the same coordinate is fatal.
func Initial(p Params) (*GMesh, error) {
	n := len(p.LB)
	coords := make([]coord, n)

	for i := 0; i < n; i++ {
		var hasIF, hasIM bool
		var ifVal, imVal float64
		if p.InitialFrame != nil {
			ifVal, hasIF = p.InitialFrame[i].Float64()
		}
		if p.InitialMesh != nil {
			imVal, hasIM = p.InitialMesh[i].Float64()
		}
		if hasIF && hasIM {
			return nil, nomaderrors.NewInvalidParameter(
				"INITIAL_FRAME_SIZE/INITIAL_MESH_SIZE",
				"both specified for the same coordinate")
		}

		var gran float64
		hasGran := false
		if p.Granularity != nil {
			gran, hasGran = p.Granularity[i].Float64()
		}

		var delta float64
		switch {
		case hasIM:
			// derive Delta = delta * sqrt(n)
			delta = imVal * math.Sqrt(float64(n))
		case hasIF:
			delta = ifVal
		default:
			delta = defaultDelta(p, i)
		}

		m, e := snapToLadder(delta)
		c := coord{
			granularity: gran,
			hasGran:     hasGran,
			frameMantissa: m,
			frameExp:    e,
			initialExp:  e,
		}
		if p.MinMesh != nil {
			if v, ok := p.MinMesh[i].Float64(); ok {
				c.minMesh, c.hasMin = v, true
			}
		}
		if p.MinFrame != nil {
			if v, ok := p.MinFrame[i].Float64(); ok {
				c.minFrame, c.hasMinF = v, true
			}
		}

		if c.meshSize() > c.frameSize() {
			return nil, nomaderrors.NewInvalidParameter("INITIAL_MESH_SIZE",
				"derived mesh size exceeds frame size")
		}
		if hasGran && gran > 0 && c.meshSize() < gran {
			return nil, nomaderrors.NewInvalidParameter("INITIAL_MESH_SIZE",
				"derived mesh size below granularity")
		}
		coords[i] = c
	}

	return &GMesh{coords: coords}, nil
}

// defaultDelta implements the fallback heuristic: 10% of the bound range if
// both bounds are defined, otherwise max(|x0_i|/10, 1).
func defaultDelta(p Params, i int) float64 {
	lb, hasLB := p.LB[i].Float64()
	ub, hasUB := p.UB[i].Float64()
	if hasLB && hasUB {
		return 0.1 * (ub - lb)
	}
	x0 := 0.0
	if p.X0 != nil {
		if v, ok := p.X0[i].Float64(); ok {
			x0 = v
		}
	}
	return math.Max(math.Abs(x0)/10, 1)
}

// snapToLadder finds the {1,2,5}*10^e representation closest to v; the
// closest rung may lie above v (9 snaps to 10). For v<=0 it returns 1*10^0.
func snapToLadder(v float64) (mantissa, int) {
	if v <= 0 {
		return mantissa1, 0
	}
	e := int(math.Floor(math.Log10(v)))
	candidates := []struct {
		m mantissa
		e int
	}{
		{mantissa1, e}, {mantissa2, e}, {mantissa5, e}, {mantissa1, e + 1},
	}
	best := candidates[0]
	bestDiff := math.Inf(1)
	for _, c := range candidates {
		val := float64(c.m) * math.Pow(10, float64(c.e))
		if diff := math.Abs(val - v); diff < bestDiff {
			bestDiff = diff
			best = c
		}
	}
	return best.m, best.e
}

// N returns the mesh's dimension.
func (m *GMesh) N() int { return len(m.coords) }

// FrameSize returns Delta, one entry per coordinate.
func (m *GMesh) FrameSize() numeric.AoD {
	out := make(numeric.AoD, len(m.coords))
	for i, c := range m.coords {
		out[i] = numeric.Value(c.frameSize())
	}
	return out
}

// MeshSize returns delta, one entry per coordinate.
func (m *GMesh) MeshSize() numeric.AoD {
	out := make(numeric.AoD, len(m.coords))
	for i, c := range m.coords {
		out[i] = numeric.Value(c.meshSize())
	}
	return out
}

// Clone returns an independent copy, since a mesh is owned by the frame
// center that uses it and must be copied when that center changes.
func (m *GMesh) Clone() *GMesh {
	out := &GMesh{coords: make([]coord, len(m.coords))}
	copy(out.coords, m.coords)
	return out
}

// Refine decrements the mantissa ladder on every coordinate (iteration
// failure). Aggressive on frame size, conservative on mesh size: the
// exponent only drops when the mantissa wraps past 1.
func (m *GMesh) Refine() {
	for i := range m.coords {
		m.coords[i].frameMantissa, m.coords[i].frameExp = refineDown(m.coords[i].frameMantissa, m.coords[i].frameExp)
	}
}

// Enlarge increments the mantissa ladder (iteration success) on the
// coordinates selected by dir/anisotropyFactor/anisotropic, per spec.md
// §4.1. When the exponent grows on a coordinate, e_i^0 grows with it so
// that delta <= Delta keeps holding.
func (m *GMesh) Enlarge(dir numeric.AoD, anisotropyFactor float64, anisotropic bool) {
	frame := m.FrameSize()
	ratios := make([]float64, len(m.coords))
	maxRatio := 0.0
	for i := range m.coords {
		d, ok := dir[i].Float64()
		if !ok {
			continue
		}
		f, _ := frame[i].Float64()
		if f == 0 {
			continue
		}
		r := math.Abs(d) / f
		ratios[i] = r
		if r > maxRatio {
			maxRatio = r
		}
	}

	for i := range m.coords {
		selected := true
		if anisotropic {
			selected = maxRatio > 0 && ratios[i] >= anisotropyFactor*maxRatio
		}
		if !selected {
			continue
		}
		prevExp := m.coords[i].frameExp
		m.coords[i].frameMantissa, m.coords[i].frameExp = enlargeUp(m.coords[i].frameMantissa, m.coords[i].frameExp)
		if m.coords[i].frameExp > prevExp {
			m.coords[i].initialExp += m.coords[i].frameExp - prevExp
		}
	}
}

// ScaleAndProject maps a raw offset l on coordinate i to a mesh-aligned
// step close to l*Delta_i, snapped to a multiple of delta_i (and
// granularity, if applicable).
func (m *GMesh) ScaleAndProject(i int, l float64) numeric.D {
	c := m.coords[i]
	raw := l * c.frameSize()
	delta := c.meshSize()
	if delta == 0 {
		return numeric.Value(raw)
	}
	snapped := math.Round(raw/delta) * delta
	if c.hasGran && c.granularity > 0 {
		snapped = math.Round(snapped/c.granularity) * c.granularity
	}
	return numeric.Value(snapped)
}

// ProjectOnMesh snaps every coordinate of p to center + k*delta for integer
// k, and to the granularity ladder when applicable.
func (m *GMesh) ProjectOnMesh(p, center numeric.AoD) numeric.AoD {
	out := make(numeric.AoD, len(p))
	for i := range p {
		pv, pok := p[i].Float64()
		cv, cok := center[i].Float64()
		if !pok || !cok {
			out[i] = p[i]
			continue
		}
		c := m.coords[i]
		delta := c.meshSize()
		if delta == 0 {
			out[i] = p[i]
			continue
		}
		k := math.Round((pv - cv) / delta)
		snapped := cv + k*delta
		if c.hasGran && c.granularity > 0 {
			snapped = math.Round(snapped/c.granularity) * c.granularity
		}
		out[i] = numeric.Value(snapped)
	}
	return out
}

// StopWhen reports whether the mesh has reached a terminal state: for every
// coordinate, delta_i <= minMesh_i or Delta_i <= minFrame_i.
func (m *GMesh) StopWhen() bool {
	for _, c := range m.coords {
		meshDone := c.hasMin && c.meshSize() <= c.minMesh
		frameDone := c.hasMinF && c.frameSize() <= c.minFrame
		if !meshDone && !frameDone {
			return false
		}
	}
	return true
}
