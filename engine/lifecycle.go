package engine

import "fmt"

// RemovePart marks particle i as pending removal and enqueues it in
// the clean list. Callers must not mark an already-dead slot twice.
func (e *Engine) RemovePart(i int) {
	e.Particles[i].W = Dead
	e.cleanList = append(e.cleanList, i)
}

// CleanUp compacts the live prefix of the particle array: while the
// clean list is non-empty, pop an index i, scan backward from NPart
// for a live slot j, and back-fill i from j. This costs O(1) amortized
// per removal instead of a full forward rescan of the array.
func (e *Engine) CleanUp() {
	for len(e.cleanList) > 0 {
		n := len(e.cleanList)
		i := e.cleanList[n-1]
		e.cleanList = e.cleanList[:n-1]

		if !e.Particles[i].Alive() {
			j := e.findLiveFromTail(i + 1)
			if j >= 0 {
				e.Particles[i] = e.Particles[j]
				e.NPart = j
			} else if e.NPart > i {
				e.NPart = i
			}
		}
	}
}

// findLiveFromTail scans backward from NPart-1 down to lo (inclusive)
// for a live particle, returning its index or -1 if none is found.
func (e *Engine) findLiveFromTail(lo int) int {
	for j := e.NPart - 1; j >= lo; j-- {
		if e.Particles[j].Alive() {
			return j
		}
	}
	return -1
}

// CheckSpace panics if nReq exceeds the particle array's fixed length.
// Growth is the caller's responsibility; the engine never resizes
// itself.
func (e *Engine) CheckSpace(nReq int) {
	if nReq > len(e.Particles) {
		panic(fmt.Sprintf("engine: capacity exhausted: requested %d, capacity %d", nReq, len(e.Particles)))
	}
}
