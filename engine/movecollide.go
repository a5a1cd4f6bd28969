package engine

// moveAndCollide runs the per-particle substep orchestration of spec
// §4.5: repeatedly sample a candidate collision time, cap single mover
// steps at DtMax, move the particle, check the domain, pick a
// collision (possibly null), and apply its kernel — looping until the
// next candidate time would exceed the particle's remaining t_left.
// Ionizations append a secondary to births; any recorded event appends
// to events. Returns only early on death or domain exit.
func (e *Engine) moveAndCollide(p *Particle, rng RNG, scratch []float64, births *[]Particle, events *[]Event) {
	for {
		u := rng.Float64()
		tau := SampleCollTime(u, e.Table.InvMaxRate)
		if tau > p.TLeft {
			break
		}

		for tau > e.DtMax {
			e.Mover.Step(p, e.DtMax)
			tau -= e.DtMax
		}
		e.Mover.Step(p, tau)

		if e.OutsideCheck != nil {
			if reason := e.OutsideCheck(p); reason > 0 {
				*events = append(*events, Event{Snapshot: *p, CollIndex: -1, Type: WentOut})
				p.W = Dead
				return
			}
		}

		k := e.Table.GetCollIndex(p.Speed(), rng.Float64(), scratch)
		if k > 0 {
			coll := e.Colls[k-1]
			if e.CollIsEvent[k-1] {
				*events = append(*events, Event{Snapshot: *p, CollIndex: k - 1, Type: int32(coll.Type)})
			}

			out, n := ApplyKernel(p, rng, coll)
			switch n {
			case 0:
				p.W = Dead
				return
			case 1:
				*p = out[0]
			case 2:
				*p = out[0]
				*births = append(*births, out[1])
			}
		}
		// k == 0: null collision, the particle flies on unperturbed.
	}

	e.Mover.Step(p, p.TLeft)
	if e.OutsideCheck != nil {
		if reason := e.OutsideCheck(p); reason > 0 {
			*events = append(*events, Event{Snapshot: *p, CollIndex: -1, Type: WentOut})
			p.W = Dead
		}
	}
}
