package random

import (
	"fmt"
	"math"
	"math/rand"
)

var (
	DefaultSeed int64 = 1234567890
)

// Generator is a seedable source of indices for centroid seeding and mini-batch draws.
// For a fixed seed and a fixed sequence of calls it produces the same output on every run,
// which is what makes learning reproducible: call SetSeed right before the work that must repeat.
//
// A Generator is not safe for concurrent use.
type Generator struct {
	seed int64
	rng  *rand.Rand
}

// New creates a Generator positioned at the start of the sequence for seed.
func New(seed int64) *Generator {
	g := new(Generator)
	g.SetSeed(seed)
	return g
}

// SetSeed restarts the generator at the beginning of the sequence for seed.
func (g *Generator) SetSeed(seed int64) {
	g.seed = seed
	g.rng = rand.New(rand.NewSource(seed))
}

// Seed returns the seed last passed to SetSeed.
func (g *Generator) Seed() int64 { return g.seed }

// Intn returns a uniform index in [0, n). It panics if n <= 0.
func (g *Generator) Intn(n int) int { return g.rng.Intn(n) }

// Float64 returns a uniform value in [0.0, 1.0).
func (g *Generator) Float64() float64 { return g.rng.Float64() }

// SampleWithoutReplacement returns count distinct indices drawn uniformly from [0, n),
// in draw order. It uses a partial Fisher-Yates shuffle over a sparse swap table,
// so memory grows with count rather than n.
// It panics if count > n.
func (g *Generator) SampleWithoutReplacement(n, count int) []int {
	if count <= 0 {
		return nil
	}
	if count > n {
		panic(fmt.Sprintf("random: cannot draw %d distinct indices from %d", count, n))
	}
	var (
		out     = make([]int, count)
		swapped = make(map[int]int, count)
	)
	for i := range count {
		j := i + g.rng.Intn(n-i)
		vi, ok := swapped[i]
		if !ok {
			vi = i
		}
		vj, ok := swapped[j]
		if !ok {
			vj = j
		}
		out[i] = vj
		swapped[j] = vi
	}
	return out
}

// SampleWithReplacement returns count indices drawn uniformly from [0, n); duplicates are allowed.
// It panics if n <= 0 and count > 0.
func (g *Generator) SampleWithReplacement(n, count int) []int {
	if count <= 0 {
		return nil
	}
	out := make([]int, count)
	for i := range out {
		out[i] = g.rng.Intn(n)
	}
	return out
}

// Weighted returns an index i with probability proportional to weights[i].
// Non-positive entries are never chosen. The second result is false when no entry is positive
// or the total is not finite, and nothing is drawn from the sequence in that case.
func (g *Generator) Weighted(weights []float64) (int, bool) {
	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 || math.IsInf(total, 1) {
		return 0, false
	}
	target := g.rng.Float64() * total
	last := -1
	var acc float64
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		acc += w
		last = i
		if acc > target {
			return i, true
		}
	}
	// rounding left target at or above the accumulated sum
	return last, true
}
