package engine

import "testing"

func TestShareBalancesPopulationWithinNEngines(t *testing.T) {
	engines := make([]*Engine, 4)
	for i := range engines {
		engines[i] = newTestEngine(t, 100)
	}
	// Dump all 40 particles onto engine 0.
	for i := 0; i < 40; i++ {
		engines[0].Add([3]float64{}, [3]float64{}, [3]float64{}, 1, 0, int64(i), 0)
	}

	Share(engines)

	for i, e := range engines {
		for j, other := range engines {
			diff := e.NPart - other.NPart
			if diff < 0 {
				diff = -diff
			}
			if diff >= len(engines) {
				t.Errorf("engine %d (n=%d) and engine %d (n=%d) differ by >= n_engines", i, e.NPart, j, other.NPart)
			}
		}
	}
}

func TestReorderByBinsGroupsContiguously(t *testing.T) {
	e := newTestEngine(t, 100)
	bins := []int{2, 0, 1, 0, 2, 1}
	for i, b := range bins {
		e.Add([3]float64{float64(b)}, [3]float64{}, [3]float64{}, 1, 0, int64(i), 0)
	}

	binner := func(p *Particle) int { return int(p.X[0]) }
	ReorderByBins([]*Engine{e}, binner)

	last := -1
	for i := 0; i < e.NPart; i++ {
		b := binner(&e.Particles[i])
		if b < last {
			t.Errorf("bins not sorted: index %d bin %d after bin %d", i, b, last)
		}
		last = b
	}
}
