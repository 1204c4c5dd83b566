package rng

import "math/rand/v2"

// Source is the process-wide random source. It is seeded once from the
// configured random_seed and shared by every setup step.
type Source struct {
	r    *rand.Rand
	seed int64
}

func New(seed int64) *Source {
	return &Source{r: rand.New(rand.NewPCG(uint64(seed), 0)), seed: seed}
}

func (s *Source) Seed() int64 { return s.seed }

// Uniform returns a value in [0,1).
func (s *Source) Uniform() float64 { return s.r.Float64() }

// Rand exposes the underlying generator.
func (s *Source) Rand() *rand.Rand { return s.r }
