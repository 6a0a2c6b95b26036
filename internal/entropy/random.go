// Package entropy provides the seeded randomness source for a simulation run.
// Every stochastic decision (random strategies, random pairing) draws from one
// Source, so a run is fully reproducible from its configuration and seed.
package entropy

import (
	"math/rand"
)

// Source is a deterministic stream of pseudo-random values. It is not safe
// for concurrent use; a simulation run owns exactly one writer at a time, so
// no locking is needed.
type Source struct {
	seed int64
	rng  *rand.Rand
}

// NewSource creates a Source from a seed. The same seed always produces the
// same stream.
func NewSource(seed int64) *Source {
	return &Source{
		seed: seed,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Seed returns the seed this source was created with.
func (s *Source) Seed() int64 {
	return s.seed
}

// Float returns a random float64 in [0, 1).
func (s *Source) Float() float64 {
	return s.rng.Float64()
}

// Intn returns a random int in [0, n). Panics if n <= 0.
func (s *Source) Intn(n int) int {
	return s.rng.Intn(n)
}

// Shuffle pseudo-randomizes the order of n elements using swap.
func (s *Source) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}

// Fork derives an independent Source from this one's seed and a fixed offset.
// Forked sources let subsystems consume randomness without perturbing each
// other's streams.
func (s *Source) Fork(offset int64) *Source {
	return NewSource(s.seed + offset)
}
