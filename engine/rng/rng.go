// Package rng provides the single deterministic random stream owned by a
// battle. Every random decision (target re-roll, accuracy, damage spread,
// AI choice) draws from it so a seed reproduces a battle exactly.
package rng

import "math/rand"

// countingSource counts every value pulled from the underlying source so
// the stream position can be restored exactly.
type countingSource struct {
	src rand.Source
	n   int64
}

func (s *countingSource) Int63() int64 {
	s.n++
	return s.src.Int63()
}

func (s *countingSource) Seed(seed int64) {
	s.src.Seed(seed)
	s.n = 0
}

// RNG wraps math/rand.Rand with deterministic position tracking.
type RNG struct {
	seed int64
	cs   *countingSource
	src  *rand.Rand
}

// New creates a deterministic RNG from a seed.
func New(seed int64) *RNG {
	cs := &countingSource{src: rand.NewSource(seed)}
	return &RNG{
		seed: seed,
		cs:   cs,
		src:  rand.New(cs),
	}
}

// Intn returns a random integer in [0, n). n <= 0 returns 0 without drawing.
func (r *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.src.Intn(n)
}

// Roll returns a random integer in [1, sides].
func (r *RNG) Roll(sides int) int {
	return r.Intn(sides) + 1
}

// Float64 returns a random float in [0.0, 1.0).
func (r *RNG) Float64() float64 {
	return r.src.Float64()
}

// Chance reports whether an event with probability p happens.
// p <= 0 and p >= 1 are decided without drawing.
func (r *RNG) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return r.Float64() < p
}

// Seed returns the seed the stream was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of values drawn from the source since creation.
func (r *RNG) Position() int64 {
	return r.cs.n
}

// Restore creates an RNG and advances it to the given position.
// This reproduces the exact stream state saved in a battle record.
func Restore(seed int64, position int64) *RNG {
	r := New(seed)
	for i := int64(0); i < position; i++ {
		r.cs.Int63()
	}
	return r
}
