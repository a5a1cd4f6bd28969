package engine

import (
	"math/rand"
	"sync"
)

// AdvanceParallel is the work-shared counterpart to Advance: identical
// per-substep semantics, but the inner particle loop is fanned out
// across nWorkers goroutines, each with private birth/death/event
// buffers that are committed under a coarse lock once a chunk
// finishes.
//
// Per-worker RNGs are seeded from e.RNG at the start of the call and
// worker 0's state is folded back into e.RNG at the end, so repeated
// calls keep advancing the seed sequence instead of restarting it.
func (e *Engine) AdvanceParallel(dt float64, nWorkers int) {
	if dt < 0 {
		panic("engine: AdvanceParallel: dt must be >= 0")
	}
	if nWorkers <= 0 {
		nWorkers = 1
	}
	if dt == 0 || e.NPart == 0 {
		return
	}

	nSteps, dtStep := limitAdvanceDt(dt, e.Table.InvMaxRate)
	prngs := newThreadRNGs(e.RNG, nWorkers)

	var mu sync.Mutex

	commitBirths := func(local []Particle) {
		if len(local) == 0 {
			return
		}
		mu.Lock()
		for _, b := range local {
			e.CheckSpace(e.NPart + 1)
			e.Particles[e.NPart] = b
			e.NPart++
		}
		mu.Unlock()
	}
	commitDeaths := func(local []int) {
		if len(local) == 0 {
			return
		}
		mu.Lock()
		for _, i := range local {
			e.RemovePart(i)
		}
		mu.Unlock()
	}
	commitEvents := func(local []Event) {
		if len(local) == 0 {
			return
		}
		for _, ev := range local {
			e.events.Append(ev)
		}
	}

	for s := 0; s < nSteps; s++ {
		for i := 0; i < e.NPart; i++ {
			e.Particles[i].TLeft = dtStep
		}

		nLo, nHi := 0, e.NPart
		for {
			e.workShare(nLo, nHi, nWorkers, prngs, commitBirths, commitDeaths, commitEvents)

			if e.NPart > nHi {
				nLo, nHi = nHi, e.NPart
				continue
			}
			break
		}

		e.Mover.AfterStep(e, dtStep)
	}

	e.CleanUp()

	if len(prngs) > 0 {
		e.RNG.Seed(prngs[0].Int63())
	}
}

// workShare runs one fork-join pass over [nLo, nHi), draining each
// worker's private buffers into the shared engine state whenever a
// buffer is at least half full, and again once the worker's range is
// exhausted.
func (e *Engine) workShare(
	nLo, nHi, nWorkers int,
	prngs []*rand.Rand,
	commitBirths func([]Particle),
	commitDeaths func([]int),
	commitEvents func([]Event),
) {
	n := nHi - nLo
	if n <= 0 {
		return
	}
	chunk := (n + nWorkers - 1) / nWorkers

	var wg sync.WaitGroup
	for w := 0; w < nWorkers; w++ {
		start := nLo + w*chunk
		end := start + chunk
		if end > nHi {
			end = nHi
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(workerID, lo, hi int) {
			defer wg.Done()
			rng := prngs[workerID]
			scratch := make([]float64, e.Table.NCols)

			births := make([]Particle, 0, BufSize)
			deaths := make([]int, 0, BufSize)
			events := make([]Event, 0, BufSize)

			for n := lo; n < hi; n++ {
				p := &e.Particles[n]
				if !p.Alive() {
					continue
				}
				e.moveAndCollide(p, rng, scratch, &births, &events)
				if !p.Alive() {
					deaths = append(deaths, n)
				}

				if len(births) >= BufSize/2 {
					commitBirths(births)
					births = births[:0]
				}
				if len(deaths) >= BufSize/2 {
					commitDeaths(deaths)
					deaths = deaths[:0]
				}
				if len(events) >= BufSize/2 {
					commitEvents(events)
					events = events[:0]
				}
			}

			commitBirths(births)
			commitDeaths(deaths)
			commitEvents(events)
		}(w, start, end)
	}
	wg.Wait()
}
