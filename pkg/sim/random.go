// Package sim provides the random source used by the race simulation.
package sim

import "math/rand/v2"

// Source delivers the random numbers consumed by the simulation.
// Float64 returns a value in [0,1), IntN a value in [0,n).
type Source interface {
	Float64() float64
	IntN(n int) int
}

// NewSeeded returns a reproducible source
func NewSeeded(seed uint64) Source {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// NewRandom returns a source seeded from the runtime
func NewRandom() Source {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Between returns a value uniformly distributed in [lo,hi)
func Between(src Source, lo, hi float64) float64 {
	return lo + (hi-lo)*src.Float64()
}

// Pick returns a random element of items. items must not be empty.
func Pick[T any](src Source, items []T) T {
	return items[src.IntN(len(items))]
}

// Sequence is a Source replaying fixed values, cycling when exhausted.
// Useful for tests which need full control of the simulation.
type Sequence struct {
	Floats []float64
	Ints   []int
	fIdx   int
	iIdx   int
}

// NewSequence creates a Sequence which returns floats from Float64
// and ints (modulo n) from IntN
func NewSequence(floats []float64, ints ...int) *Sequence {
	return &Sequence{Floats: floats, Ints: ints}
}

// Float64 returns the next configured float, 0.5 if none are configured
func (s *Sequence) Float64() float64 {
	if len(s.Floats) == 0 {
		return 0.5
	}
	v := s.Floats[s.fIdx%len(s.Floats)]
	s.fIdx++
	return v
}

// IntN returns the next configured int modulo n, 0 if none are configured
func (s *Sequence) IntN(n int) int {
	if len(s.Ints) == 0 || n <= 0 {
		return 0
	}
	v := s.Ints[s.iIdx%len(s.Ints)]
	s.iIdx++
	return ((v % n) + n) % n
}
