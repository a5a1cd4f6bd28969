package engine

import (
	"fmt"
	"math/rand"
)

// Config bundles the construction-time parameters for an Engine.
type Config struct {
	Mass         float64 // particle rest mass, kg
	Colls        []CollisionDescriptor
	Table        *RateTable
	NMax         int // capacity: fixed-size particle array length
	DtMax        float64
	Mover        Mover // nil defaults to VerletMover{}
	Accel        Accel
	OutsideCheck OutsideCheck
	Seed         int64
}

// Engine owns a fixed-capacity particle array and the collision model
// used to advance it. It is not safe for concurrent use by multiple
// goroutines except through AdvanceParallel's own internal
// coordination.
type Engine struct {
	Particles []Particle
	NPart     int

	Colls       []CollisionDescriptor
	CollIsEvent []bool
	Table       *RateTable

	Mass  float64
	DtMax float64

	Mover        Mover
	Accel        Accel
	OutsideCheck OutsideCheck

	cleanList []int
	events    EventLog

	RNG *rand.Rand
}

// New validates cfg and constructs an Engine with a pre-sized, empty
// particle array. Fatal configuration errors panic rather than
// returning an error, since there's no sensible way to run a
// misconfigured engine.
func New(cfg Config) *Engine {
	if len(cfg.Colls) == 0 {
		panic("engine: at least one collision descriptor is required")
	}
	if cfg.Table == nil {
		panic("engine: a built RateTable is required")
	}
	if cfg.NMax <= 0 {
		panic("engine: NMax must be positive")
	}
	if cfg.DtMax <= 0 {
		panic("engine: DtMax must be positive")
	}
	if cfg.Mass <= 0 {
		panic("engine: Mass must be positive")
	}

	mover := cfg.Mover
	if mover == nil {
		mover = VerletMover{}
	}
	if _, isVerlet := mover.(VerletMover); isVerlet && cfg.Accel == nil {
		panic("engine: Verlet mover requires a non-nil Accel callback")
	}

	collIsEvent := make([]bool, len(cfg.Colls))
	for i := range collIsEvent {
		collIsEvent[i] = true
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}

	return &Engine{
		// Particles is allocated at full capacity up front and never
		// resliced again: NPart alone tracks how much of it is live.
		// This keeps the backing array's address and length fixed for
		// the Engine's lifetime, so AdvanceParallel's worker goroutines
		// can write into disjoint indices without racing on a shared
		// slice header.
		Particles:    make([]Particle, cfg.NMax),
		Colls:        cfg.Colls,
		CollIsEvent:  collIsEvent,
		Table:        cfg.Table,
		Mass:         cfg.Mass,
		DtMax:        cfg.DtMax,
		Mover:        mover,
		Accel:        cfg.Accel,
		OutsideCheck: cfg.OutsideCheck,
		RNG:          rand.New(rand.NewSource(seed)),
	}
}

// SetCollIsEvent overrides which collisions are recorded as events.
func (e *Engine) SetCollIsEvent(flags []bool) {
	if len(flags) != len(e.Colls) {
		panic(fmt.Sprintf("engine: SetCollIsEvent: expected %d flags, got %d", len(e.Colls), len(flags)))
	}
	e.CollIsEvent = flags
}

// Add appends a new particle, growing NPart. Panics if the array is at
// capacity; the caller must pre-size NMax generously enough.
func (e *Engine) Add(x, v, a [3]float64, w, tLeft float64, id int64, ptype int32) {
	e.CheckSpace(e.NPart + 1)
	e.Particles[e.NPart] = Particle{X: x, V: v, A: a, W: w, TLeft: tLeft, ID: id, PType: ptype}
	e.NPart++
}

// NSimPart returns the number of live simulation (macro-)particles.
func (e *Engine) NSimPart() int {
	return e.NPart
}

// NRealPart returns the total weight (real particle count) represented
// by the live population.
func (e *Engine) NRealPart() float64 {
	var sum float64
	for i := 0; i < e.NPart; i++ {
		sum += e.Particles[i].W
	}
	return sum
}

// Events returns the engine's accumulated event log.
func (e *Engine) Events() *EventLog {
	return &e.events
}
