// Package neldermead implements the reflective Nelder-Mead state machine:
// a simplex of n+1 evaluation points evolved by reflect/expand/contract/
// shrink moves, usable either as a Search inside MADS or as a standalone
// algorithm.
package neldermead

import (
	"github.com/nomadopt/nomad/eval"
	"github.com/nomadopt/nomad/nomaderrors"
	"github.com/nomadopt/nomad/numeric"
	"gonum.org/v1/gonum/mat"
)

// State is one state of the reflective state machine.
type State int

const (
	// Unset is the initial state, before the first step.
	Unset State = iota
	Reflect
	Expand
	OutsideContract
	InsideContract
	Shrink
	InsertInY
	// Continue marks the iteration as done; a new megaiteration starts
	// fresh at Reflect.
	Continue
	// StopNoShrink is terminal: a shrink produced a point identical to its
	// source, so further shrinking cannot make progress.
	StopNoShrink
	// StopInitialFailed is terminal: fewer than n+1 independent points
	// could be assembled for the initial simplex.
	StopInitialFailed
	// StopSingleCompleted is terminal: a standalone run finished one full
	// pass and NM_SINGLE_COMPLETED was requested.
	StopSingleCompleted
)

func (s State) String() string {
	switch s {
	case Unset:
		return "UNSET"
	case Reflect:
		return "REFLECT"
	case Expand:
		return "EXPAND"
	case OutsideContract:
		return "OUTSIDE_CONTRACT"
	case InsideContract:
		return "INSIDE_CONTRACT"
	case Shrink:
		return "SHRINK"
	case InsertInY:
		return "INSERT_IN_Y"
	case Continue:
		return "CONTINUE"
	case StopNoShrink:
		return "NM_STOP_NO_SHRINK"
	case StopInitialFailed:
		return "NM_STOP_INITIAL_FAILED"
	case StopSingleCompleted:
		return "NM_SINGLE_COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// IsTerminal reports whether s ends the Nelder-Mead run.
func (s State) IsTerminal() bool {
	return s == StopNoShrink || s == StopInitialFailed || s == StopSingleCompleted
}

// Coefficients are the reflection coefficients, validated at construction.
type Coefficients struct {
	DeltaR, DeltaE, DeltaOC, DeltaIC, Gamma float64
}

// DefaultCoefficients are the classical Nelder-Mead values.
func DefaultCoefficients() Coefficients {
	return Coefficients{DeltaR: 1, DeltaE: 2, DeltaOC: 0.5, DeltaIC: -0.5, Gamma: 0.5}
}

// Validate enforces delta_R=1, delta_E>1, 0<delta_OC<=1, delta_IC<0,
// 0<gamma<=1.
func (c Coefficients) Validate() error {
	switch {
	case c.DeltaR != 1:
		return nomaderrors.NewInvalidParameter("NM_DELTA_R", "must equal 1")
	case c.DeltaE <= 1:
		return nomaderrors.NewInvalidParameter("NM_DELTA_E", "must be > 1")
	case c.DeltaOC <= 0 || c.DeltaOC > 1:
		return nomaderrors.NewInvalidParameter("NM_DELTA_OC", "must be in (0,1]")
	case c.DeltaIC >= 0:
		return nomaderrors.NewInvalidParameter("NM_DELTA_IC", "must be < 0")
	case c.Gamma <= 0 || c.Gamma > 1:
		return nomaderrors.NewInvalidParameter("NM_GAMMA", "must be in (0,1]")
	default:
		return nil
	}
}

// better reports whether a is strictly better than b under (f,h): lower h
// first, then lower f.
func better(a, b *eval.Point) bool {
	ah, aok := a.H.Float64()
	bh, bok := b.H.Float64()
	if !aok || !bok {
		return false
	}
	if ah != bh {
		return ah < bh
	}
	af, _ := a.F.Float64()
	bf, _ := b.F.Float64()
	return af < bf
}

func dominates(a, b *eval.Point) bool {
	af, aok := a.F.Float64()
	bf, bok := b.F.Float64()
	ah, _ := a.H.Float64()
	bh, _ := b.H.Float64()
	if !aok || !bok {
		return false
	}
	return af <= bf && ah <= bh && (af < bf || ah < bh)
}

// Simplex is the ordered set of n+1 evaluation points Nelder-Mead evolves.
type Simplex struct {
	Y    []*eval.Point
	N    int
	coef Coefficients
}

// NewSimplex builds a Simplex from n+1 already-evaluated points, sorted by
// (f,h).
func NewSimplex(points []*eval.Point, coef Coefficients) (*Simplex, error) {
	if err := coef.Validate(); err != nil {
		return nil, err
	}
	n := len(points) - 1
	if n < 1 {
		return nil, nomaderrors.NewInitializationFailure("neldermead", "fewer than 2 points supplied")
	}
	s := &Simplex{Y: append([]*eval.Point(nil), points...), N: n, coef: coef}
	s.sort()
	return s, nil
}

func (s *Simplex) sort() {
	for i := 1; i < len(s.Y); i++ {
		for j := i; j > 0 && better(s.Y[j], s.Y[j-1]); j-- {
			s.Y[j], s.Y[j-1] = s.Y[j-1], s.Y[j]
		}
	}
}

// Worst returns y_n, the last point under the order.
func (s *Simplex) Worst() *eval.Point { return s.Y[len(s.Y)-1] }

// Y0 returns the undominated subset of Y.
func (s *Simplex) Y0() []*eval.Point {
	var out []*eval.Point
	for _, a := range s.Y {
		dominated := false
		for _, b := range s.Y {
			if a != b && dominates(b, a) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, a)
		}
	}
	return out
}

// Yn returns the dominated subset of Y (spec.md's Y_n decomposition,
// distinct from the single worst point returned by Worst).
func (s *Simplex) Yn() []*eval.Point {
	y0 := s.Y0()
	in := func(p *eval.Point) bool {
		for _, q := range y0 {
			if p == q {
				return true
			}
		}
		return false
	}
	var out []*eval.Point
	for _, p := range s.Y {
		if !in(p) {
			out = append(out, p)
		}
	}
	return out
}

// Centroid returns the centroid of every member except the worst.
func (s *Simplex) Centroid() numeric.AoD {
	worst := s.Worst()
	n := len(s.Y[0].X)
	sum := numeric.NewAoD(n)
	count := 0
	for _, p := range s.Y {
		if p == worst {
			continue
		}
		sum = sum.Add(p.X)
		count++
	}
	if count == 0 {
		return sum
	}
	return sum.Scale(numeric.Value(1 / float64(count)))
}

// reflectTo computes y_c + delta*(y_c - y_n).
func reflectTo(yc, yn numeric.AoD, delta float64) numeric.AoD {
	d := numeric.Vectorize(yn, yc) // y_c - y_n
	return yc.Add(d.Scale(numeric.Value(delta)))
}

// Reflect returns the trial point for the REFLECT move: x_t = y_c + delta_R*(y_c-y_n).
func (s *Simplex) Reflect() numeric.AoD {
	return reflectTo(s.Centroid(), s.Worst().X, s.coef.DeltaR)
}

// Expand returns the trial point for the EXPAND move.
func (s *Simplex) Expand() numeric.AoD {
	return reflectTo(s.Centroid(), s.Worst().X, s.coef.DeltaE)
}

// OutsideContract returns the trial point for the OUTSIDE_CONTRACT move.
func (s *Simplex) OutsideContract() numeric.AoD {
	return reflectTo(s.Centroid(), s.Worst().X, s.coef.DeltaOC)
}

// InsideContract returns the trial point for the INSIDE_CONTRACT move.
func (s *Simplex) InsideContract() numeric.AoD {
	return reflectTo(s.Centroid(), s.Worst().X, s.coef.DeltaIC)
}

// countDominated returns how many members of Y the candidate dominates.
func (s *Simplex) countDominated(candidate *eval.Point) int {
	count := 0
	for _, p := range s.Y {
		if dominates(candidate, p) {
			count++
		}
	}
	return count
}

// dominatesAllOf reports whether candidate dominates every member of set.
func dominatesAllOf(candidate *eval.Point, set []*eval.Point) bool {
	for _, p := range set {
		if !dominates(candidate, p) {
			return false
		}
	}
	return len(set) > 0
}

// anyDominates reports whether any member of set dominates candidate,
// mirroring the original's YnDominatesPoint() loop over _nmYn.
func anyDominates(set []*eval.Point, candidate *eval.Point) bool {
	for _, p := range set {
		if dominates(p, candidate) {
			return true
		}
	}
	return false
}

// Classify implements the REFLECT row of the transition table: given x_t
// (already evaluated), decide the next state.
func (s *Simplex) Classify(xt *eval.Point) State {
	y0 := s.Y0()
	if dominatesAllOf(xt, y0) {
		return Expand
	}
	if anyDominates(s.Yn(), xt) {
		return InsideContract
	}
	if s.countDominated(xt) >= 2 {
		return InsertInY
	}
	return OutsideContract
}

// rankOfDZ computes the rank of DZ = [y_1-y_0, ..., y_n-y_0], the numerical
// certificate that the simplex remains non-degenerate.
func rankOfDZ(points []*eval.Point) int {
	if len(points) < 2 {
		return 0
	}
	n := len(points[0].X)
	cols := len(points) - 1
	data := make([]float64, n*cols)
	for j := 1; j < len(points); j++ {
		d := numeric.Vectorize(points[0].X, points[j].X)
		for i := 0; i < n; i++ {
			data[i*cols+(j-1)] = d[i].FloatOr(0)
		}
	}
	m := mat.NewDense(n, cols, data)
	return mat.Rank(m, 1e-10)
}

// tryInsert replaces the worst point with candidate if doing so keeps the
// simplex at n+1 members of full rank n, and candidate is strictly better
// than the worst under (f,h). Returns false (leaving the simplex
// unchanged) otherwise.
func (s *Simplex) tryInsert(candidate *eval.Point) bool {
	if !better(candidate, s.Worst()) {
		return false
	}
	trial := make([]*eval.Point, 0, len(s.Y))
	replaced := false
	for _, p := range s.Y {
		if p == s.Worst() && !replaced {
			trial = append(trial, candidate)
			replaced = true
			continue
		}
		trial = append(trial, p)
	}
	if len(trial) != s.N+1 {
		return false
	}
	if rankOfDZ(trial) != s.N {
		return false
	}
	s.Y = trial
	s.sort()
	return true
}

// ShrinkCandidates returns y_0 + gamma*(y_i - y_0) for every member y_i
// (y_0 itself unchanged). It only produces the candidate coordinates: the
// caller evaluates them and passes the results to InsertShrunk, which is
// where StopNoShrink is reported.
func (s *Simplex) ShrinkCandidates() []numeric.AoD {
	best := s.Y[0]
	out := make([]numeric.AoD, len(s.Y))
	for i, p := range s.Y {
		if p == best {
			out[i] = p.X.Clone()
			continue
		}
		d := numeric.Vectorize(best.X, p.X)
		out[i] = best.X.Add(d.Scale(numeric.Value(s.coef.Gamma)))
	}
	return out
}

// InsertShrunk replaces Y with the evaluated shrunk points. Returns
// StopNoShrink if any shrunk point's coordinates equal its source's,
// otherwise Continue.
func (s *Simplex) InsertShrunk(shrunk []*eval.Point) State {
	for i, p := range shrunk {
		if p.X.Equal(s.Y[i].X) {
			return StopNoShrink
		}
	}
	s.Y = append([]*eval.Point(nil), shrunk...)
	s.sort()
	return Continue
}

// Step runs one classification round given the move that produced
// candidate and the candidate itself (already evaluated), returning the
// next state. allowShrink disables SHRINK when the simplex is being used
// as a Search inside MADS (spec.md: "as a Search, shrink is disabled").
func (s *Simplex) Step(move State, xR, xCandidate *eval.Point, allowShrink bool) State {
	switch move {
	case Reflect:
		next := s.Classify(xCandidate)
		if next == InsertInY {
			if s.tryInsert(xCandidate) {
				return Continue
			}
			if allowShrink {
				return Shrink
			}
			return Continue
		}
		return next
	case Expand:
		winner := xCandidate
		if !better(xCandidate, xR) {
			winner = xR
		}
		if s.tryInsert(winner) {
			return Continue
		}
		if allowShrink {
			return Shrink
		}
		return Continue
	case OutsideContract:
		winner := xR
		if better(xCandidate, xR) {
			winner = xCandidate
		}
		if s.tryInsert(winner) {
			return Continue
		}
		if allowShrink {
			return Shrink
		}
		return Continue
	case InsideContract:
		if anyDominates(s.Yn(), xCandidate) {
			if allowShrink {
				return Shrink
			}
			return Continue
		}
		if s.tryInsert(xCandidate) {
			return Continue
		}
		if allowShrink {
			return Shrink
		}
		return Continue
	default:
		return Continue
	}
}
