package kmeans

import (
	"fmt"

	"github.com/yyyoichi/minibatch_kmeans/distance"
	"github.com/yyyoichi/minibatch_kmeans/random"
)

// Seeding selects how initial centroids are placed before learning.
type Seeding int

const (
	// SeedingKMeansPlusPlus draws the first centroid from the initialization sample with
	// probability proportional to observation weight, and each following one with probability
	// proportional to weight times the distance to the nearest centroid chosen so far.
	SeedingKMeansPlusPlus Seeding = iota
	// SeedingUniform picks K distinct observations of the initialization sample uniformly.
	SeedingUniform
	// SeedingFixed uses the first K observations as they are. It draws nothing from the generator.
	SeedingFixed
)

func (s Seeding) String() string {
	switch s {
	case SeedingKMeansPlusPlus:
		return "KMeans++"
	case SeedingUniform:
		return "Uniform"
	case SeedingFixed:
		return "Fixed"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

func (s Seeding) valid() bool {
	return s == SeedingKMeansPlusPlus || s == SeedingUniform || s == SeedingFixed
}

// seedCentroids returns k initial centroids, copied from points.
// sampleSize observations are drawn without replacement first; callers guarantee k <= sampleSize <= len(points).
func seedCentroids(s Seeding, gen *random.Generator, points [][]float64, weights []float64, k, sampleSize int, metric distance.Metric) [][]float64 {
	if s == SeedingFixed {
		return cloneRows(points[:k])
	}

	sample := gen.SampleWithoutReplacement(len(points), sampleSize)
	var picked []int
	switch s {
	case SeedingUniform:
		picked = gen.SampleWithoutReplacement(len(sample), k)
	default:
		picked = kMeansPlusPlus(gen, points, weights, sample, k, metric)
	}

	centroids := make([][]float64, k)
	for j, p := range picked {
		centroids[j] = append([]float64(nil), points[sample[p]]...)
	}
	return centroids
}

// kMeansPlusPlus returns k distinct positions into sample.
func kMeansPlusPlus(gen *random.Generator, points [][]float64, weights []float64, sample []int, k int, metric distance.Metric) []int {
	var (
		picked = make([]int, 0, k)
		taken  = make([]bool, len(sample))
		probs  = make([]float64, len(sample))
		near   = make([]float64, len(sample))
	)
	weight := func(p int) float64 {
		if weights == nil {
			return 1
		}
		return weights[sample[p]]
	}
	pick := func() int {
		for p := range sample {
			probs[p] = 0
			if !taken[p] {
				probs[p] = weight(p)
				if len(picked) > 0 {
					probs[p] *= near[p]
				}
			}
		}
		p, ok := gen.Weighted(probs)
		if !ok {
			// every remaining point coincides with a centroid or carries no weight
			p = nthFree(taken, gen.Intn(len(sample)-len(picked)))
		}
		taken[p] = true
		picked = append(picked, p)
		return p
	}

	first := pick()
	for p, i := range sample {
		near[p] = metric.Distance(points[i], points[sample[first]])
	}
	for len(picked) < k {
		c := points[sample[pick()]]
		for p, i := range sample {
			if d := metric.Distance(points[i], c); d < near[p] {
				near[p] = d
			}
		}
	}
	return picked
}

func nthFree(taken []bool, n int) int {
	for p, t := range taken {
		if t {
			continue
		}
		if n == 0 {
			return p
		}
		n--
	}
	return -1
}

func cloneRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		if r != nil {
			out[i] = append([]float64(nil), r...)
		}
	}
	return out
}
