package cache

import (
	"testing"

	"go.viam.com/test"

	"github.com/nomadopt/nomad/eval"
	"github.com/nomadopt/nomad/numeric"
)

func feasiblePoint(f float64) *eval.Point {
	p := eval.NewPoint(numeric.FromFloats([]float64{f}))
	p.ApplyOutputs(numeric.FromFloats([]float64{f}), []eval.OutputTag{eval.Obj}, eval.L2)
	return p
}

func TestInsertThenFind(t *testing.T) {
	c := NewMemCache()
	p := feasiblePoint(1)
	c.Insert(p)

	found, ok := c.Find(numeric.FromFloats([]float64{1}))
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, found, test.ShouldEqual, p)
}

func TestInsertIsIdempotentOnCoordinates(t *testing.T) {
	c := NewMemCache()
	p1 := feasiblePoint(1)
	p2 := feasiblePoint(1)

	h1 := c.Insert(p1)
	h2 := c.Insert(p2)
	test.That(t, h1, test.ShouldEqual, h2)
	test.That(t, c.Len(), test.ShouldEqual, 1)

	found, _ := c.Find(numeric.FromFloats([]float64{1}))
	test.That(t, found, test.ShouldEqual, p1)
}

func TestFindMissIsFalse(t *testing.T) {
	c := NewMemCache()
	_, ok := c.Find(numeric.FromFloats([]float64{99}))
	test.That(t, ok, test.ShouldBeFalse)
}

func TestCacheHitCounterTracksFinds(t *testing.T) {
	c := NewMemCache()
	c.Insert(feasiblePoint(2))

	c.Find(numeric.FromFloats([]float64{2}))
	c.Find(numeric.FromFloats([]float64{2}))
	c.Find(numeric.FromFloats([]float64{99})) // miss, does not count

	test.That(t, c.NbCacheHits(), test.ShouldEqual, 2)

	c.ResetNbCacheHits()
	test.That(t, c.NbCacheHits(), test.ShouldEqual, 0)
}

func TestFindBestFeasFiltersInfeasible(t *testing.T) {
	c := NewMemCache()
	infeasible := eval.NewPoint(numeric.FromFloats([]float64{5}))
	infeasible.ApplyOutputs(numeric.FromFloats([]float64{5, 3}), []eval.OutputTag{eval.Obj, eval.PB}, eval.L2)

	c.Insert(feasiblePoint(10))
	c.Insert(feasiblePoint(1))
	c.Insert(infeasible)

	best := c.FindBestFeas(func(a, b *eval.Point) bool {
		af, _ := a.F.Float64()
		bf, _ := b.F.Float64()
		return af < bf
	})
	f, _ := best.F.Float64()
	test.That(t, f, test.ShouldEqual, 1.0)
}

func TestClearEmptiesCache(t *testing.T) {
	c := NewMemCache()
	c.Insert(feasiblePoint(1))
	c.Clear()
	test.That(t, c.Len(), test.ShouldEqual, 0)
}
