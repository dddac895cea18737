// Package direction generates positive-spanning sets of poll directions:
// integer direction vectors that, scaled by the mesh frame size and
// projected onto the mesh, become the trial points MADS polls around a
// frame center.
package direction

import (
	"github.com/nomadopt/nomad/rnd"
)

// Spanner produces a positive-spanning set of n-dimensional directions.
// Order within the set is randomized but reproducible given the RNG seed.
type Spanner interface {
	Span(n int, src *rnd.Source) [][]int
}

// Compass2N is the 2n compass basis: +e_i and -e_i for every coordinate,
// in a randomized order.
type Compass2N struct{}

// Span implements Spanner.
func (Compass2N) Span(n int, src *rnd.Source) [][]int {
	dirs := make([][]int, 2*n)
	perm := perm(n, src)
	for i := 0; i < n; i++ {
		pos := make([]int, n)
		pos[i] = 1
		dirs[perm[i]] = pos

		neg := make([]int, n)
		neg[i] = -1
		dirs[n+perm[i]] = neg
	}
	return dirs
}

// CompassNp1 is the n+1 simplex basis: n directions with a random sign per
// coordinate, plus their negated sum as the (n+1)th direction, polled first.
type CompassNp1 struct{}

// Span implements Spanner.
func (CompassNp1) Span(n int, src *rnd.Source) [][]int {
	dirs := make([][]int, 0, n+1)
	final := make([]int, n)
	for i := 0; i < n; i++ {
		d := make([]int, n)
		if src.Uint32()%2 == 0 {
			d[i] = -1
			final[i] = 1
		} else {
			d[i] = 1
			final[i] = -1
		}
		dirs = append(dirs, d)
	}
	dirs = append(dirs, final)
	last := len(dirs) - 1
	dirs[0], dirs[last] = dirs[last], dirs[0]
	return dirs
}

// RandomN generates N random directions over the coordinates allowed by
// mask (nil mask allows every coordinate), each entry independently +1, -1,
// or 0.
type RandomN struct {
	N    int
	Mask []bool
}

// Span implements Spanner.
func (r RandomN) Span(n int, src *rnd.Source) [][]int {
	mask := r.Mask
	if mask == nil {
		mask = make([]bool, n)
		for i := range mask {
			mask[i] = true
		}
	}

	dirs := make([][]int, 0, r.N)
	for k := 0; k < r.N; k++ {
		d := make([]int, n)
		for i := 0; i < n; i++ {
			if !mask[i] {
				continue
			}
			switch src.Uint32() % 3 {
			case 0:
				d[i] = 1
			case 1:
				d[i] = -1
			default:
				d[i] = 0
			}
		}
		dirs = append(dirs, d)
	}
	return dirs
}

// perm returns a pseudo-random permutation of [0, n) drawn from src,
// implementing a Fisher-Yates shuffle so the caller's RNG draws stay
// attributable to the direction generator rather than the standard
// library's own rand.Perm.
func perm(n int, src *rnd.Source) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := int(src.Uint32() % uint32(i+1))
		p[i], p[j] = p[j], p[i]
	}
	return p
}
