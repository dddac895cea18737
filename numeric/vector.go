package numeric

import "math"

// NormKind selects the norm used by vector-level infeasibility and distance
// computations, matching spec.md's H_NORM parameter.
type NormKind int

const (
	// L1 is the sum of absolute values.
	L1 NormKind = iota
	// L2 is the Euclidean norm.
	L2
	// LInf is the max-absolute-value norm.
	LInf
)

// AoD is a fixed-length ordered sequence of D: "array of D". It is the
// representation underlying both Point and trial directions.
type AoD []D

// NewAoD builds an AoD of length n, every entry undefined.
func NewAoD(n int) AoD {
	v := make(AoD, n)
	for i := range v {
		v[i] = Undefined()
	}
	return v
}

// FromFloats builds an AoD from plain float64s, all defined.
func FromFloats(vals []float64) AoD {
	v := make(AoD, len(vals))
	for i, f := range vals {
		v[i] = Value(f)
	}
	return v
}

// Floats returns the underlying values as float64, substituting def for any
// undefined entries. Useful at the boundary to numerical libraries (e.g.
// gonum) that have no undefined concept.
func (v AoD) Floats(def float64) []float64 {
	out := make([]float64, len(v))
	for i, d := range v {
		out[i] = d.FloatOr(def)
	}
	return out
}

// Clone returns an independent copy of v.
func (v AoD) Clone() AoD {
	out := make(AoD, len(v))
	copy(out, v)
	return out
}

// Set returns a copy of v with index i replaced by d (set-by-index, spec.md §3).
func (v AoD) Set(i int, d D) AoD {
	out := v.Clone()
	out[i] = d
	return out
}

// Add returns the componentwise sum of v and w; panics if lengths differ.
func (v AoD) Add(w AoD) AoD {
	mustSameLen(v, w)
	out := make(AoD, len(v))
	for i := range v {
		out[i] = v[i].Add(w[i])
	}
	return out
}

// Sub returns the componentwise difference v - w.
func (v AoD) Sub(w AoD) AoD {
	mustSameLen(v, w)
	out := make(AoD, len(v))
	for i := range v {
		out[i] = v[i].Sub(w[i])
	}
	return out
}

// Scale returns v with every component multiplied by s.
func (v AoD) Scale(s D) AoD {
	out := make(AoD, len(v))
	for i := range v {
		out[i] = v[i].Mul(s)
	}
	return out
}

// Vectorize returns b - a, the primitive direction between two points
// (spec.md §4.5's d = x_c - x_p).
func Vectorize(a, b AoD) AoD { return b.Sub(a) }

// Norm computes the requested norm of v, treating undefined entries as
// excluded from the sum (a fully-defined AoD is the normal case; this
// degrades gracefully rather than propagating undefined through the whole
// norm, since a single bad coordinate should not blind a distance query used
// for e.g. duplicate-suppression).
func (v AoD) Norm(kind NormKind) D {
	switch kind {
	case L1:
		total := 0.0
		any := false
		for _, d := range v {
			if f, ok := d.Float64(); ok {
				total += math.Abs(f)
				any = true
			}
		}
		if !any {
			return Undefined()
		}
		return Value(total)
	case LInf:
		max := 0.0
		any := false
		for _, d := range v {
			if f, ok := d.Float64(); ok {
				if a := math.Abs(f); a > max {
					max = a
				}
				any = true
			}
		}
		if !any {
			return Undefined()
		}
		return Value(max)
	default: // L2
		total := 0.0
		any := false
		for _, d := range v {
			if f, ok := d.Float64(); ok {
				total += f * f
				any = true
			}
		}
		if !any {
			return Undefined()
		}
		return Value(math.Sqrt(total))
	}
}

// SnapToBounds clamps every defined entry of v into [lb[i], ub[i]], leaving
// undefined bounds (absent lb/ub) as no-op for that coordinate.
func (v AoD) SnapToBounds(lb, ub AoD) AoD {
	out := v.Clone()
	for i := range out {
		f, ok := out[i].Float64()
		if !ok {
			continue
		}
		if lo, hasLo := lb[i].Float64(); hasLo && f < lo {
			f = lo
		}
		if hi, hasHi := ub[i].Float64(); hasHi && f > hi {
			f = hi
		}
		out[i] = Value(f)
	}
	return out
}

// Equal reports whether v and w have the same length and componentwise equal
// (and equally (un)defined) entries.
func (v AoD) Equal(w AoD) bool {
	if len(v) != len(w) {
		return false
	}
	for i := range v {
		vDef, wDef := v[i].IsDefined(), w[i].IsDefined()
		if vDef != wDef {
			return false
		}
		if vDef && !v[i].Equal(w[i]) {
			return false
		}
	}
	return true
}

func mustSameLen(v, w AoD) {
	if len(v) != len(w) {
		panic("numeric: vector length mismatch")
	}
}
