package engine

// Accel returns the acceleration to apply to p. It must be pure with
// respect to mutable engine state: the engine calls it on snapshots
// only, never expecting a side effect.
type Accel func(p *Particle) [3]float64

// OutsideCheck returns a positive reason code if p has left the domain
// this tick, 0 otherwise.
type OutsideCheck func(p *Particle) int

// Mover advances one particle by dt and, between substeps, refreshes
// its acceleration via AfterStep. Verlet and Boris are the two
// supported variants; the choice is fixed at Engine construction.
type Mover interface {
	Step(p *Particle, dt float64)
	AfterStep(e *Engine, dt float64)
}

// VerletMover implements the default second-order Verlet integrator.
type VerletMover struct{}

// Step applies x += v*dt + 1/2*a*dt^2, v += a*dt.
func (VerletMover) Step(p *Particle, dt float64) {
	for i := 0; i < 3; i++ {
		p.X[i] += p.V[i]*dt + 0.5*p.A[i]*dt*dt
		p.V[i] += p.A[i] * dt
	}
	p.TLeft -= dt
}

// AfterStep refreshes every live particle's acceleration via the
// engine's Accel callback and applies the Verlet velocity correction
// v += 1/2*(a' - a)*dt. The engine must have a non-nil Accel callback
// under the Verlet mover; its absence is a fatal configuration error.
func (VerletMover) AfterStep(e *Engine, dt float64) {
	if e.Accel == nil {
		panic("engine: Verlet mover requires a non-nil Accel callback")
	}
	for i := 0; i < e.NPart; i++ {
		p := &e.Particles[i]
		if !p.Alive() {
			continue
		}
		aNew := e.Accel(p)
		for k := 0; k < 3; k++ {
			p.V[k] += 0.5 * (aNew[k] - p.A[k]) * dt
			p.A[k] = aNew[k]
		}
	}
}

// BorisMover implements the Boris electromagnetic integrator: half
// electric-field kick, magnetic rotation via the t/s vector form, a
// second half electric-field kick, then a half position drift.
type BorisMover struct {
	ChargeToMass float64    // charge / mass, C/kg
	B            [3]float64 // constant background magnetic field, T
}

// Step applies one Boris substep of length dt.
func (m BorisMover) Step(p *Particle, dt float64) {
	qom := m.ChargeToMass
	b := m.B

	var v [3]float64
	for i := 0; i < 3; i++ {
		v[i] = p.V[i] + 0.5*p.A[i]*dt
	}

	var t [3]float64
	for i := 0; i < 3; i++ {
		t[i] = qom * b[i] * dt / 2
	}
	t2 := t[0]*t[0] + t[1]*t[1] + t[2]*t[2]
	var s [3]float64
	for i := 0; i < 3; i++ {
		s[i] = 2 * t[i] / (1 + t2)
	}

	vCrossT := cross(v, t)
	var vPrime [3]float64
	for i := 0; i < 3; i++ {
		vPrime[i] = v[i] + vCrossT[i]
	}
	vPrimeCrossS := cross(vPrime, s)
	for i := 0; i < 3; i++ {
		v[i] += vPrimeCrossS[i]
	}

	for i := 0; i < 3; i++ {
		v[i] += 0.5 * p.A[i] * dt
	}

	for i := 0; i < 3; i++ {
		p.V[i] = v[i]
		p.X[i] += 0.5 * v[i] * dt
	}
	p.TLeft -= dt
}

// AfterStep is a no-op for Boris: the rotation already consumes the
// constant B field and the per-substep E-field kicks, so there is no
// separate acceleration-correction pass.
func (m BorisMover) AfterStep(e *Engine, dt float64) {}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
