package engine

import "math"

// MarsagliaScatter samples an isotropic direction at the given speed
// using the Marsaglia disk method: reject (r1, r2) outside the unit
// disk, then map the accepted pair onto the sphere of radius speed.
func MarsagliaScatter(rng RNG, speed float64) [3]float64 {
	var r1, r2, s float64
	for {
		r1 = 2*rng.Float64() - 1
		r2 = 2*rng.Float64() - 1
		s = r1*r1 + r2*r2
		if s <= 1 {
			break
		}
	}
	root := math.Sqrt(1 - s)
	return [3]float64{
		speed * 2 * r1 * root,
		speed * 2 * r2 * root,
		speed * (1 - 2*s),
	}
}

// backgroundVelocity is the neutral background gas velocity. Zero for a
// cold background; a hook for a thermal background.
var backgroundVelocity = [3]float64{0, 0, 0}

// ElasticKernel rotates the incident particle's velocity isotropically in the
// center-of-mass frame, preserving |v - com_v|. Always produces exactly
// one output particle (in place).
func ElasticKernel(in *Particle, rng RNG, coll CollisionDescriptor) (out [2]Particle, n int) {
	bg := backgroundVelocity
	relMass := coll.RelMass

	var comV [3]float64
	for i := 0; i < 3; i++ {
		comV[i] = (relMass*in.V[i] + bg[i]) / (1 + relMass)
	}

	var rel [3]float64
	for i := 0; i < 3; i++ {
		rel[i] = in.V[i] - comV[i]
	}
	speed := math.Sqrt(rel[0]*rel[0] + rel[1]*rel[1] + rel[2]*rel[2])

	scattered := MarsagliaScatter(rng, speed)

	result := *in
	for i := 0; i < 3; i++ {
		result.V[i] = scattered[i] + comV[i]
	}
	out[0] = result
	return out, 1
}

// ExciteKernel subtracts en_loss from the incident particle's kinetic energy
// (floored at zero) and scatters isotropically at the resulting speed.
// Always produces exactly one output particle.
func ExciteKernel(in *Particle, rng RNG, coll CollisionDescriptor) (out [2]Particle, n int) {
	ke := in.KineticEnergy(coll.PartMass)
	keOut := ke - coll.EnLoss
	if keOut < 0 {
		keOut = 0
	}
	speed := math.Sqrt(2 * keOut / coll.PartMass)

	result := *in
	result.V = MarsagliaScatter(rng, speed)
	out[0] = result
	return out, 1
}

// IonizeKernel splits the post-loss kinetic energy evenly between the
// incident particle and a cloned secondary, both scattered isotropically
// at the shared resulting speed. Always produces exactly two output
// particles.
func IonizeKernel(in *Particle, rng RNG, coll CollisionDescriptor) (out [2]Particle, n int) {
	ke := in.KineticEnergy(coll.PartMass)
	keTotal := ke - coll.EnLoss
	if keTotal < 0 {
		keTotal = 0
	}
	keEach := 0.5 * keTotal
	speed := math.Sqrt(2 * keEach / coll.PartMass)

	incident := *in
	incident.V = MarsagliaScatter(rng, speed)

	secondary := *in
	secondary.V = MarsagliaScatter(rng, speed)

	out[0] = incident
	out[1] = secondary
	return out, 2
}

// AttachKernel always produces zero output particles: the parent is consumed.
func AttachKernel(in *Particle, rng RNG, coll CollisionDescriptor) (out [2]Particle, n int) {
	return out, 0
}

// ApplyKernel dispatches to the kernel matching coll.Type.
func ApplyKernel(in *Particle, rng RNG, coll CollisionDescriptor) (out [2]Particle, n int) {
	switch coll.Type {
	case Elastic:
		return ElasticKernel(in, rng, coll)
	case Excite:
		return ExciteKernel(in, rng, coll)
	case Ionize:
		return IonizeKernel(in, rng, coll)
	case Attach:
		return AttachKernel(in, rng, coll)
	default:
		panic("engine: unknown collision type " + coll.Type.String())
	}
}
