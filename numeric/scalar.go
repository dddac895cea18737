// Package numeric implements the arithmetic primitives NOMAD is built on: a
// scalar with a distinguished undefined value, and fixed-length vectors of
// such scalars.
package numeric

import "math"

// D is a real value that is either defined or undefined. Arithmetic with an
// undefined operand yields undefined; ordering treats undefined as
// incomparable. Undefined is distinct from zero and from the INF sentinels.
type D struct {
	val     float64
	defined bool
}

// Undefined returns the undefined scalar.
func Undefined() D { return D{} }

// Value wraps a defined float64 as a D. NaN and +/-Inf are rejected in favor
// of Undefined/Inf/NegInf so that "defined" always means "a finite-or-sentinel
// value the caller meant to set", matching spec.md's distinction between
// undefined and INF.
func Value(v float64) D {
	if math.IsNaN(v) {
		return Undefined()
	}
	return D{val: v, defined: true}
}

// Inf returns the +INF sentinel, a defined value that compares greater than
// every finite D.
func Inf() D { return D{val: math.Inf(1), defined: true} }

// NegInf returns the -INF sentinel.
func NegInf() D { return D{val: math.Inf(-1), defined: true} }

// Zero is the defined zero scalar.
func Zero() D { return D{val: 0, defined: true} }

// IsDefined reports whether d holds a value (including +/-INF).
func (d D) IsDefined() bool { return d.defined }

// IsInf reports whether d is the +INF or -INF sentinel.
func (d D) IsInf() bool { return d.defined && math.IsInf(d.val, 0) }

// Float64 returns the underlying float and whether d was defined. Callers
// that need a defaulted float should use FloatOr.
func (d D) Float64() (float64, bool) { return d.val, d.defined }

// FloatOr returns d's value, or def if d is undefined.
func (d D) FloatOr(def float64) float64 {
	if !d.defined {
		return def
	}
	return d.val
}

// Add returns a+b, undefined if either operand is undefined.
func (a D) Add(b D) D {
	if !a.defined || !b.defined {
		return Undefined()
	}
	return Value(a.val + b.val)
}

// Sub returns a-b, undefined if either operand is undefined.
func (a D) Sub(b D) D {
	if !a.defined || !b.defined {
		return Undefined()
	}
	return Value(a.val - b.val)
}

// Mul returns a*b, undefined if either operand is undefined.
func (a D) Mul(b D) D {
	if !a.defined || !b.defined {
		return Undefined()
	}
	return Value(a.val * b.val)
}

// Div returns a/b, undefined if either operand is undefined or b is zero.
func (a D) Div(b D) D {
	if !a.defined || !b.defined || b.val == 0 {
		return Undefined()
	}
	return Value(a.val / b.val)
}

// Abs returns |a|, undefined if a is undefined.
func (a D) Abs() D {
	if !a.defined {
		return Undefined()
	}
	return Value(math.Abs(a.val))
}

// Pow2 returns a^2, undefined if a is undefined.
func (a D) Pow2() D {
	if !a.defined {
		return Undefined()
	}
	return Value(a.val * a.val)
}

// Neg returns -a, undefined if a is undefined.
func (a D) Neg() D {
	if !a.defined {
		return Undefined()
	}
	return Value(-a.val)
}

// Equal reports value equality; two undefined values are not equal to each
// other (undefined is incomparable, per spec.md §9).
func (a D) Equal(b D) bool {
	return a.defined && b.defined && a.val == b.val
}

// Less reports a < b; false whenever either operand is undefined.
func (a D) Less(b D) bool {
	return a.defined && b.defined && a.val < b.val
}

// LessOrEqual reports a <= b; false whenever either operand is undefined.
func (a D) LessOrEqual(b D) bool {
	return a.defined && b.defined && a.val <= b.val
}

// Greater reports a > b; false whenever either operand is undefined.
func (a D) Greater(b D) bool { return b.Less(a) }

// GreaterOrEqual reports a >= b; false whenever either operand is undefined.
func (a D) GreaterOrEqual(b D) bool { return b.LessOrEqual(a) }

// IsMultipleOf reports whether a is an integer multiple of g (g must be
// defined and positive). Undefined a or g makes this false.
func (a D) IsMultipleOf(g D) bool {
	if !a.defined || !g.defined || g.val <= 0 {
		return false
	}
	ratio := a.val / g.val
	return math.Abs(ratio-math.Round(ratio)) < 1e-9
}

// NextMult returns the multiple of g nearest to a, rounding half away from
// zero. Undefined if either operand is undefined or g <= 0.
func (a D) NextMult(g D) D {
	if !a.defined || !g.defined || g.val <= 0 {
		return Undefined()
	}
	return Value(math.Round(a.val/g.val) * g.val)
}

// Max returns the greater of a and b, propagating undefined.
func Max(a, b D) D {
	if !a.defined || !b.defined {
		return Undefined()
	}
	if a.val >= b.val {
		return a
	}
	return b
}

// Min returns the lesser of a and b, propagating undefined.
func Min(a, b D) D {
	if !a.defined || !b.defined {
		return Undefined()
	}
	if a.val <= b.val {
		return a
	}
	return b
}
