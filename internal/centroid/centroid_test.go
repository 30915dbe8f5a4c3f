package centroid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yyyoichi/minibatch_kmeans/distance"
)

func TestNearest(t *testing.T) {
	centroids := [][]float64{
		{0, 0},
		{10, 10},
		{20, 20},
	}
	test := []struct {
		name  string
		x     []float64
		label int
		dist  float64
	}{
		{"first", []float64{1, 1}, 0, 2},
		{"last", []float64{19, 19}, 2, 2},
		{"exact", []float64{10, 10}, 1, 0},
		// equally far from 0 and 1
		{"tie", []float64{5, 5}, 0, 50},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			label, dist := Nearest(tt.x, centroids, distance.SquareEuclidean{})
			assert.Equal(t, tt.label, label)
			assert.InDelta(t, tt.dist, dist, 1e-12)
		})
	}
}

func TestAssign(t *testing.T) {
	centroids := [][]float64{{0}, {100}}

	t.Run("sequential", func(t *testing.T) {
		points := [][]float64{{1}, {99}, {-3}, {60}}
		labels, dists, err := Assign(context.Background(), points, centroids, distance.SquareEuclidean{})
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 0, 1}, labels)
		assert.Equal(t, []float64{1, 1, 9, 1600}, dists)
	})

	t.Run("parallel matches sequential", func(t *testing.T) {
		points := make([][]float64, parallelThreshold*3+17)
		for i := range points {
			points[i] = []float64{float64(i % 101)}
		}
		labels, dists, err := Assign(context.Background(), points, centroids, distance.SquareEuclidean{})
		require.NoError(t, err)
		require.Len(t, labels, len(points))
		for i, p := range points {
			want, wantDist := Nearest(p, centroids, distance.SquareEuclidean{})
			assert.Equal(t, want, labels[i])
			assert.Equal(t, wantDist, dists[i])
		}
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		points := make([][]float64, parallelThreshold*2)
		for i := range points {
			points[i] = []float64{float64(i)}
		}
		_, _, err := Assign(ctx, points, centroids, distance.SquareEuclidean{})
		assert.ErrorIs(t, err, context.Canceled)

		_, _, err = Assign(ctx, points[:10], centroids, distance.SquareEuclidean{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestInertia(t *testing.T) {
	assert.Equal(t, 6.0, Inertia([]float64{1, 2, 3}, nil))
	assert.Equal(t, 0.5+0+3, Inertia([]float64{1, 2, 3}, []float64{0.5, 0, 1}))
}

func TestStore(t *testing.T) {
	s := NewStore([]float64{100, 100})

	// first contribution replaces the seed with the batch mean
	s.Add([]float64{2, 4}, 2)
	assert.Equal(t, []float64{1, 2}, s.Mean())
	assert.Equal(t, 2.0, s.Mass())

	// a point at (4, 5) with mass 1 moves the mean a third of the way
	s.Add([]float64{4, 5}, 1)
	assert.InDeltaSlice(t, []float64{2, 3}, s.Mean(), 1e-12)
	assert.Equal(t, 3.0, s.Mass())

	// zero mass is ignored
	s.Add([]float64{1000, 1000}, 0)
	assert.InDeltaSlice(t, []float64{2, 3}, s.Mean(), 1e-12)
	assert.Equal(t, 3.0, s.Mass())
}

func TestStoreCopiesSeed(t *testing.T) {
	seed := []float64{1, 1}
	s := NewStore(seed)
	s.Add([]float64{3, 3}, 1)
	assert.Equal(t, []float64{1, 1}, seed)
}

func TestRunStep(t *testing.T) {
	points := [][]float64{
		{0, 0}, {0, 2}, // near first centroid
		{10, 10}, {10, 12}, // near second centroid
	}
	r := NewRun([][]float64{{1, 1}, {11, 11}})

	shift := r.Step(points, nil, []int{0, 1, 0}, distance.SquareEuclidean{})
	got := r.Centroids()
	// first cluster jumps to the batch mean (0, 2/3), second is untouched
	assert.InDeltaSlice(t, []float64{0, 2.0 / 3.0}, got[0], 1e-12)
	assert.Equal(t, []float64{11, 11}, got[1])
	assert.Equal(t, []float64{3, 0}, r.Masses())
	assert.InDelta(t, 1+1.0/9.0, shift, 1e-12)

	// weights scale each member's pull
	weights := []float64{1, 1, 3, 1}
	r.Step(points, weights, []int{2, 3}, distance.SquareEuclidean{})
	got = r.Centroids()
	assert.InDeltaSlice(t, []float64{10, 10.5}, got[1], 1e-12)
	assert.Equal(t, []float64{3, 4}, r.Masses())

	// zero-weight members leave their cluster alone
	zero := []float64{0, 0, 0, 0}
	shift = r.Step(points, zero, []int{0, 2}, distance.SquareEuclidean{})
	assert.Equal(t, 0.0, shift)
	assert.Equal(t, got, r.Centroids())
}
