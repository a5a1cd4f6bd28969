package engine

import "sort"

// Share redistributes live particles across a pool of engines so their
// simulation-particle counts stay within n_engines of each other,
// transferring a single contiguous block of particles per iteration
// from the heaviest engine to the lightest rather than moving
// particles one at a time.
func Share(engines []*Engine) {
	n := len(engines)
	if n < 2 {
		return
	}

	for {
		hi, lo := 0, 0
		total := 0
		for i, e := range engines {
			if e.NPart > engines[hi].NPart {
				hi = i
			}
			if e.NPart < engines[lo].NPart {
				lo = i
			}
			total += e.NPart
		}

		if engines[hi].NPart-engines[lo].NPart < n {
			break
		}

		nAvg := (total + n - 1) / n // ceil(total/n)
		transfer := engines[hi].NPart - nAvg
		if room := nAvg - engines[lo].NPart; room < transfer {
			transfer = room
		}
		if transfer <= 0 {
			break
		}

		heavy, light := engines[hi], engines[lo]
		moved := heavy.takeN(transfer)
		light.CheckSpace(light.NPart + len(moved))
		copy(light.Particles[light.NPart:], moved)
		light.NPart += len(moved)
	}
}

// takeN removes and returns the last n live particles in the engine's
// array as a single block, compacting NPart down by len(out). It
// bypasses the deferred cleanList path since Share needs the
// particles' values immediately, not just a dead marker.
func (e *Engine) takeN(n int) []Particle {
	if n > e.NPart {
		n = e.NPart
	}
	out := make([]Particle, n)
	copy(out, e.Particles[e.NPart-n:e.NPart])
	e.NPart -= n
	return out
}

// ReorderByBins groups each engine's live particles by binner(p) and
// sorts the live prefix of the particle array by bin, so callers doing
// per-bin MergeAndSplitRange passes see contiguous ranges instead of
// scanning the whole array per bin.
func ReorderByBins(engines []*Engine, binner func(*Particle) int) {
	for _, e := range engines {
		e.reorderByBins(binner)
	}
}

func (e *Engine) reorderByBins(binner func(*Particle) int) {
	live := e.Particles[:e.NPart]
	sort.SliceStable(live, func(i, j int) bool {
		return binner(&live[i]) < binner(&live[j])
	})
}
