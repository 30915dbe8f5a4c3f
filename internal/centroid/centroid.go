package centroid

import (
	"context"
	"math"
	"runtime"

	"github.com/yyyoichi/minibatch_kmeans/distance"
	"golang.org/x/sync/errgroup"
)

const (
	// Assign fans out over goroutines from this many points on.
	parallelThreshold = 4096
	chunkSize         = 1024
)

// Nearest returns the index of the centroid closest to x and the distance to it.
// Ties resolve to the lowest index.
func Nearest(x []float64, centroids [][]float64, metric distance.Metric) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for j, c := range centroids {
		if d := metric.Distance(x, c); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best, bestDist
}

// Assign labels every point with its nearest centroid and records the distance to it.
// Large inputs are split into chunks that are labeled concurrently; the result does not
// depend on how the work was split.
func Assign(ctx context.Context, points [][]float64, centroids [][]float64, metric distance.Metric) ([]int, []float64, error) {
	var (
		labels = make([]int, len(points))
		dists  = make([]float64, len(points))
	)
	label := func(start, end int) {
		for i := start; i < end; i++ {
			labels[i], dists[i] = Nearest(points[i], centroids, metric)
		}
	}

	if len(points) < parallelThreshold {
		for start := 0; start < len(points); start += chunkSize {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			label(start, min(start+chunkSize, len(points)))
		}
		return labels, dists, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for start := 0; start < len(points); start += chunkSize {
		end := min(start+chunkSize, len(points))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			label(start, end)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return labels, dists, nil
}

// Inertia sums the distances, scaled by weights when given.
// The sum runs in index order so equal inputs always give bit-identical totals.
func Inertia(dists []float64, weights []float64) float64 {
	var sum float64
	for i, d := range dists {
		if weights != nil {
			d *= weights[i]
		}
		sum += d
	}
	return sum
}

// Run is the mutable state of one mini-batch pass over a fixed set of points.
type Run struct {
	stores []*Store
	means  [][]float64
	sums   [][]float64
	mass   []float64
	prev   []float64
}

// NewRun starts a pass from the given initial centroids, with no accumulated mass.
func NewRun(centroids [][]float64) *Run {
	r := &Run{
		stores: make([]*Store, len(centroids)),
		means:  make([][]float64, len(centroids)),
		sums:   make([][]float64, len(centroids)),
		mass:   make([]float64, len(centroids)),
	}
	for j, c := range centroids {
		r.stores[j] = NewStore(c)
		r.means[j] = r.stores[j].Mean()
		r.sums[j] = make([]float64, len(c))
	}
	if len(centroids) > 0 {
		r.prev = make([]float64, len(centroids[0]))
	}
	return r
}

// Step assigns each batch member to its nearest centroid, as the centroids were before
// the step, then moves every touched centroid toward the weighted mean of its members.
// Clusters that receive no mass keep their centroid. Step returns the largest distance
// any centroid moved.
func (r *Run) Step(points [][]float64, weights []float64, batch []int, metric distance.Metric) float64 {
	for j := range r.sums {
		clear(r.sums[j])
		r.mass[j] = 0
	}
	for _, i := range batch {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		j, _ := Nearest(points[i], r.means, metric)
		r.mass[j] += w
		for d, v := range points[i] {
			r.sums[j][d] += w * v
		}
	}

	var shift float64
	for j, s := range r.stores {
		if r.mass[j] <= 0 {
			continue
		}
		copy(r.prev, s.Mean())
		s.Add(r.sums[j], r.mass[j])
		if d := metric.Distance(r.prev, s.Mean()); d > shift {
			shift = d
		}
	}
	return shift
}

// Centroids returns copies of the current centroids.
func (r *Run) Centroids() [][]float64 {
	out := make([][]float64, len(r.stores))
	for j, s := range r.stores {
		out[j] = append([]float64(nil), s.Mean()...)
	}
	return out
}

// Masses returns the total weight each cluster accumulated during the pass.
func (r *Run) Masses() []float64 {
	out := make([]float64, len(r.stores))
	for j, s := range r.stores {
		out[j] = s.Mass()
	}
	return out
}
