package distance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	weighted, err := NewWeightedSquareEuclidean([]float64{0.1, 0.7, 1.1})
	require.NoError(t, err)

	test := []struct {
		name     string
		metric   Metric
		a, b     []float64
		expected float64
	}{
		{"square_simple", SquareEuclidean{}, []float64{1, 2, 3}, []float64{4, 5, 6}, 27},
		{"square_identical", SquareEuclidean{}, []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"square_mixed", SquareEuclidean{}, []float64{1, -1}, []float64{-1, 1}, 8},
		{"square_empty", SquareEuclidean{}, []float64{}, []float64{}, 0},
		{"euclidean", Euclidean{}, []float64{0, 0}, []float64{3, 4}, 5},
		{"manhattan", Manhattan{}, []float64{1, 2, 3}, []float64{4, 0, 3}, 5},
		{"manhattan_identical", Manhattan{}, []float64{-2, 7}, []float64{-2, 7}, 0},
		{"chebyshev", Chebyshev{}, []float64{1, 2, 3}, []float64{4, 0, 3}, 3},
		// 0.1*49 + 0.7*9 + 1.1*4
		{"weighted", weighted, []float64{-5, -2, -1}, []float64{2, 1, 1}, 15.6},
		{"weighted_identical", weighted, []float64{2, 1, 1}, []float64{2, 1, 1}, 0},
		{"func", Func(func(x, y []float64) float64 { return 42 }), nil, nil, 42},
	}

	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.metric.Distance(tt.a, tt.b)
			assert.InDelta(t, tt.expected, got, 1e-9)
			// symmetry
			assert.InDelta(t, got, tt.metric.Distance(tt.b, tt.a), 1e-12)
		})
	}
}

func TestNewWeightedSquareEuclidean(t *testing.T) {
	t.Run("copies weights", func(t *testing.T) {
		w := []float64{1, 2}
		m, err := NewWeightedSquareEuclidean(w)
		require.NoError(t, err)
		w[0] = 100
		assert.Equal(t, []float64{1, 2}, m.Weights())
		assert.Equal(t, 2, m.Dimension())
	})

	test := []struct {
		name    string
		weights []float64
	}{
		{"empty", nil},
		{"negative", []float64{1, -0.5}},
		{"all_zero", []float64{0, 0, 0}},
	}
	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewWeightedSquareEuclidean(tt.weights)
			assert.ErrorIs(t, err, ErrInvalidWeights)
		})
	}
}

func TestWeightedChangesOrdering(t *testing.T) {
	// With the second feature weighted up, b moves closer to origin than a.
	origin := []float64{0, 0}
	a := []float64{1, 3}
	b := []float64{4, 1}

	assert.Less(t, SquareEuclidean{}.Distance(origin, a), SquareEuclidean{}.Distance(origin, b))

	m, err := NewWeightedSquareEuclidean([]float64{0.1, 2})
	require.NoError(t, err)
	assert.Greater(t, m.Distance(origin, a), m.Distance(origin, b))
}
