package engine

import "math"

// BufSize bounds per-particle-call birth/event buffering for one
// substep and is coupled to limitAdvanceDt's 1/4 factor below: both
// must move together.
const BufSize = 1000

// limitAdvanceDt splits dt into nSteps substeps of size dtStep such
// that the expected number of collisions per particle per substep is
// capped at 1/4 * BufSize, so births cannot overflow the per-particle
// buffer.
func limitAdvanceDt(dt float64, invMaxRate float64) (nSteps int, dtStep float64) {
	capStep := 0.25 * invMaxRate * BufSize
	nSteps = int(math.Ceil(dt / capStep))
	if nSteps < 1 {
		nSteps = 1
	}
	return nSteps, dt / float64(nSteps)
}

// Advance moves and collides every live particle by dt, splitting it
// into however many substeps limitAdvanceDt computes. Particles born
// mid-substep (from ionization) are advanced within the same substep,
// since NPart grows while the substep's index range is being walked.
// Panics (a fatal configuration error) if dt < 0.
func (e *Engine) Advance(dt float64) {
	if dt < 0 {
		panic("engine: Advance: dt must be >= 0")
	}
	if dt == 0 || e.NPart == 0 {
		return
	}

	nSteps, dtStep := limitAdvanceDt(dt, e.Table.InvMaxRate)

	var births []Particle
	var events []Event
	scratch := make([]float64, e.Table.NCols)

	for s := 0; s < nSteps; s++ {
		for i := 0; i < e.NPart; i++ {
			e.Particles[i].TLeft = dtStep
		}

		births = births[:0]
		events = events[:0]

		for n := 0; n < e.NPart; n++ {
			p := &e.Particles[n]
			if !p.Alive() {
				continue
			}
			e.moveAndCollide(p, e.RNG, scratch, &births, &events)
			if !p.Alive() {
				e.RemovePart(n)
			}
			for len(births) > 0 {
				b := births[0]
				births = births[1:]
				e.CheckSpace(e.NPart + 1)
				e.Particles[e.NPart] = b
				e.NPart++
			}
		}

		for _, ev := range events {
			e.events.Append(ev)
		}

		e.Mover.AfterStep(e, dtStep)
	}

	e.CleanUp()
}
