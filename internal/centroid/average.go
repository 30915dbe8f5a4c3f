package centroid

import (
	"slices"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// Store is a weighted running mean of the points assigned to one cluster.
// Add holds the store's lock: updates to one cluster must never interleave, or the
// running mean loses mass.
type Store struct {
	mean []float64
	mass float64
	mu   sync.Mutex
}

func NewStore(mean []float64) *Store {
	return &Store{mean: slices.Clone(mean)}
}

// Add folds a batch contribution into the mean. sum is the weighted sum of the batch
// members assigned to this cluster and mass their total weight. The step taken toward
// the batch mean is mass/(accumulated mass), so it shrinks as the cluster gathers points.
// A non-positive mass leaves the store unchanged.
func (s *Store) Add(sum []float64, mass float64) {
	if mass <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mass += mass
	floats.Scale(1-mass/s.mass, s.mean)
	floats.AddScaled(s.mean, 1/s.mass, sum)
}

// Mean returns the current mean. The slice is owned by the store.
func (s *Store) Mean() []float64 { return s.mean }

func (s *Store) Mass() float64 { return s.mass }
