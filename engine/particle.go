// Package engine implements the particle-in-cell / Monte-Carlo-collision
// particle core: a weighted population of simulation particles advanced
// under externally supplied accelerations, interleaving ballistic motion
// with null-collision sampling against a neutral background gas.
package engine

import "math"

// Dead marks a particle slot as pending removal. Any particle with
// W <= Dead must never be used in a physics computation.
const Dead = -1e100

// Particle is the fundamental simulation entity: a macro-particle
// representing W real particles sharing one kinematic state.
type Particle struct {
	X [3]float64 // position
	V [3]float64 // velocity
	A [3]float64 // acceleration

	W     float64 // weight; W <= Dead means removed
	TLeft float64 // remaining time within the current substep

	ID    int64 // opaque, caller-assigned
	PType int32 // opaque, caller-assigned
}

// Alive reports whether p is a live particle eligible for physics.
func (p *Particle) Alive() bool {
	return p.W > 0
}

// Speed returns the Euclidean norm of the particle's velocity.
func (p *Particle) Speed() float64 {
	return math.Sqrt(p.V[0]*p.V[0] + p.V[1]*p.V[1] + p.V[2]*p.V[2])
}

// KineticEnergy returns 1/2 * mass * |v|^2 for the given particle mass.
func (p *Particle) KineticEnergy(mass float64) float64 {
	v2 := p.V[0]*p.V[0] + p.V[1]*p.V[1] + p.V[2]*p.V[2]
	return 0.5 * mass * v2
}
