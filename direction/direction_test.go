package direction

import (
	"testing"

	"go.viam.com/test"

	"github.com/nomadopt/nomad/rnd"
)

func TestCompass2NIsPositiveSpanning(t *testing.T) {
	src := rnd.New(1)
	dirs := Compass2N{}.Span(3, src)
	test.That(t, len(dirs), test.ShouldEqual, 6)

	seen := make(map[[3]int]bool)
	for _, d := range dirs {
		seen[[3]int{d[0], d[1], d[2]}] = true
	}
	for i := 0; i < 3; i++ {
		pos, neg := [3]int{}, [3]int{}
		pos[i], neg[i] = 1, -1
		test.That(t, seen[pos], test.ShouldBeTrue)
		test.That(t, seen[neg], test.ShouldBeTrue)
	}
}

func TestCompass2NIsDeterministicGivenSeed(t *testing.T) {
	a := Compass2N{}.Span(4, rnd.New(7))
	b := Compass2N{}.Span(4, rnd.New(7))
	test.That(t, a, test.ShouldResemble, b)
}

func TestCompassNp1HasNPlusOneDirectionsSummingToZero(t *testing.T) {
	src := rnd.New(3)
	dirs := CompassNp1{}.Span(3, src)
	test.That(t, len(dirs), test.ShouldEqual, 4)

	sum := make([]int, 3)
	for _, d := range dirs {
		for i := range d {
			sum[i] += d[i]
		}
	}
	test.That(t, sum, test.ShouldResemble, []int{0, 0, 0})
}

func TestRandomNRespectsMask(t *testing.T) {
	src := rnd.New(5)
	mask := []bool{true, false, true}
	dirs := RandomN{N: 10, Mask: mask}.Span(3, src)

	test.That(t, len(dirs), test.ShouldEqual, 10)
	for _, d := range dirs {
		test.That(t, d[1], test.ShouldEqual, 0)
	}
}

func TestRandomNProducesRequestedCount(t *testing.T) {
	src := rnd.New(9)
	dirs := RandomN{N: 5}.Span(2, src)
	test.That(t, len(dirs), test.ShouldEqual, 5)
}
