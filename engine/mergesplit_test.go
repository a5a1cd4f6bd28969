package engine

import (
	"math"
	"math/rand"
	"testing"
)

func weightedSum(e *Engine) float64 {
	var sum float64
	for i := 0; i < e.NPart; i++ {
		sum += e.Particles[i].W
	}
	return sum
}

func TestMergeAndSplitConservesWeight(t *testing.T) {
	e := newTestEngine(t, 4000)
	rng := rand.New(rand.NewSource(42))
	target := 1.0

	// Exactly 500 light (0.5x target, pairs evenly into merges) and 500
	// heavy (2x target, each splits in two) particles, so the expected
	// post-rebalance population has no odd-one-out left outside
	// [small, large].
	for i := 0; i < 500; i++ {
		e.Add([3]float64{rng.Float64(), rng.Float64(), rng.Float64()}, [3]float64{}, [3]float64{}, 0.5*target, 0, int64(i), 0)
	}
	for i := 500; i < 1000; i++ {
		e.Add([3]float64{rng.Float64(), rng.Float64(), rng.Float64()}, [3]float64{}, [3]float64{}, 2.0*target, 0, int64(i), 0)
	}

	before := weightedSum(e)

	cfg := DefaultMergeSplitConfig()
	cfg.MaxMergeDistance = math.Inf(1)
	e.MergeAndSplit(ConstantTarget(target), cfg, nil, nil)
	e.CleanUp()

	after := weightedSum(e)
	if math.Abs(after-before) > before*1e-9 {
		t.Errorf("total weight changed: before %v after %v", before, after)
	}

	small := target * cfg.SmallRatio
	large := target * cfg.LargeRatio
	tol := 1e-6
	for i := 0; i < e.NPart; i++ {
		w := e.Particles[i].W
		if w < small-tol || w > large+tol {
			t.Errorf("particle %d weight %v outside [%v, %v]", i, w, small, large)
		}
	}
}

func TestMergePartRxVWeightedCentroid(t *testing.T) {
	a := &Particle{X: [3]float64{0, 0, 0}, V: [3]float64{0, 0, 0}, W: 1}
	b := &Particle{X: [3]float64{2, 0, 0}, V: [3]float64{0, 0, 0}, W: 1}
	merged := MergePartRxV(a, b)
	if merged.W != 2 {
		t.Errorf("merged weight = %v, want 2", merged.W)
	}
	if math.Abs(merged.X[0]-1) > 1e-9 {
		t.Errorf("merged X[0] = %v, want 1 (midpoint of equal weights)", merged.X[0])
	}
}

func TestSplitHalveWeightConservesTotal(t *testing.T) {
	p := &Particle{W: 10, X: [3]float64{1, 2, 3}}
	out := SplitHalveWeight(p)
	if out[0].W+out[1].W != p.W {
		t.Errorf("split weights sum to %v, want %v", out[0].W+out[1].W, p.W)
	}
}
