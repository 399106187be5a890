// Package montecarlo builds the null-hypothesis baseline: bulk generation
// of uniformly random draws and summarization of their feature
// distributions.
package montecarlo

import (
	"math/rand"

	"lotogrid/domain/grid"
)

// Sampler generates draws of k distinct uniformly random numbers by partial
// Fisher-Yates shuffles over a reusable pool. Each Sampler owns one seeded
// stream; it is seeded exactly once and never reseeded, so a fixed seed
// yields a bit-identical draw sequence. Not safe for concurrent use: give
// each worker its own Sampler.
type Sampler struct {
	rng  *rand.Rand
	pool []int
	k    int
}

// NewSampler creates a sampler for the shape's number range with its own
// deterministic stream.
func NewSampler(shape grid.Shape, seed int64) *Sampler {
	total := shape.TotalNumbers()
	pool := make([]int, total)
	for i := range pool {
		pool[i] = shape.MinNumber + i
	}
	return &Sampler{
		rng:  rand.New(rand.NewSource(seed)),
		pool: pool,
		k:    shape.DrawSize,
	}
}

// Draw fills dst with k distinct numbers sampled without replacement.
// dst must have length k. The pool is left shuffled between calls; only the
// first k slots are re-randomized each time, which keeps the draw uniform.
func (s *Sampler) Draw(dst []int) {
	n := len(s.pool)
	for i := 0; i < s.k; i++ {
		j := i + s.rng.Intn(n-i)
		s.pool[i], s.pool[j] = s.pool[j], s.pool[i]
		dst[i] = s.pool[i]
	}
}
