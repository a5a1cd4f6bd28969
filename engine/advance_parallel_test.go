package engine

import (
	"math"
	"testing"
)

func TestAdvanceParallelBallisticMatchesSerial(t *testing.T) {
	build := func() *Engine {
		e := buildSimpleEngine(t, Attach, 1e-30, 4)
		for i := 0; i < 4; i++ {
			e.Add([3]float64{0, 0, 0}, [3]float64{float64(i + 1), 0, 0}, [3]float64{}, 1, 0, int64(i), 0)
		}
		return e
	}

	serial := build()
	serial.Advance(1.0)

	parallel := build()
	parallel.AdvanceParallel(1.0, 2)

	if serial.NPart != parallel.NPart {
		t.Fatalf("NPart serial=%d parallel=%d", serial.NPart, parallel.NPart)
	}
	for i := 0; i < serial.NPart; i++ {
		for d := 0; d < 3; d++ {
			if math.Abs(serial.Particles[i].X[d]-parallel.Particles[i].X[d]) > 1e-6 {
				t.Errorf("particle %d axis %d: serial %v parallel %v", i, d, serial.Particles[i].X[d], parallel.Particles[i].X[d])
			}
		}
	}
}

func TestAdvanceParallelSingleWorkerIsSafe(t *testing.T) {
	e := buildSimpleEngine(t, Attach, 1e-30, 4)
	e.Add([3]float64{}, [3]float64{1, 0, 0}, [3]float64{}, 1, 0, 1, 0)
	e.AdvanceParallel(1.0, 1)
	if e.NPart != 1 {
		t.Errorf("NPart = %d, want 1", e.NPart)
	}
}
