package engine

import (
	"math/rand"
	"runtime"
)

// RNG is the narrow surface the engine needs from a random-number
// generator. *rand.Rand satisfies it directly.
type RNG interface {
	Float64() float64
}

// newThreadRNGs seeds one *rand.Rand per worker from the engine's RNG.
// Thread 0's state is written back into the engine RNG by the caller
// once the parallel phase completes, so repeated calls keep advancing
// the seed sequence instead of always starting from the same point.
func newThreadRNGs(seed *rand.Rand, n int) []*rand.Rand {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	rngs := make([]*rand.Rand, n)
	for i := range rngs {
		rngs[i] = rand.New(rand.NewSource(seed.Int63()))
	}
	return rngs
}
