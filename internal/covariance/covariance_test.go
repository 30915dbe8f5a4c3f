package covariance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestCompute(t *testing.T) {
	test := []struct {
		name     string
		rows     [][]float64
		weights  []float64
		expected []float64 // row-major dim x dim
	}{
		{
			name: "unweighted",
			rows: [][]float64{{1, 2}, {3, 6}},
			// var(x)=2 var(y)=8 cov=4
			expected: []float64{2, 4, 4, 8},
		},
		{
			name:     "uniform weights match unweighted",
			rows:     [][]float64{{1, 2}, {3, 6}},
			weights:  []float64{0.25, 0.25},
			expected: []float64{2, 4, 4, 8},
		},
		{
			name:     "single row",
			rows:     [][]float64{{1, 2}},
			expected: []float64{0, 0, 0, 0},
		},
		{
			name:     "no rows",
			rows:     nil,
			expected: []float64{0, 0, 0, 0},
		},
		{
			name:     "weightless members",
			rows:     [][]float64{{1, 2}, {3, 6}},
			weights:  []float64{0, 0},
			expected: []float64{0, 0, 0, 0},
		},
	}

	for _, tt := range test {
		t.Run(tt.name, func(t *testing.T) {
			cov := Compute(tt.rows, tt.weights, 2)
			require.Equal(t, 2, cov.SymmetricDim())
			assert.InDeltaSlice(t, tt.expected, mat.DenseCopyOf(cov).RawMatrix().Data, 1e-12)
		})
	}
}

func TestComputeLeavesInputAlone(t *testing.T) {
	rows := [][]float64{{1, 2}, {3, 6}, {5, 1}}
	weights := []float64{1, 2, 3}
	Compute(rows, weights, 2)
	assert.Equal(t, [][]float64{{1, 2}, {3, 6}, {5, 1}}, rows)
	assert.Equal(t, []float64{1, 2, 3}, weights)
}

func TestPerCluster(t *testing.T) {
	points := [][]float64{{1, 2}, {100, 100}, {3, 6}, {7, 7}}
	labels := []int{0, 1, 0, 2}

	covs := PerCluster(points, nil, labels, 4, 2)
	require.Len(t, covs, 4)
	assert.InDeltaSlice(t, []float64{2, 4, 4, 8}, mat.DenseCopyOf(covs[0]).RawMatrix().Data, 1e-12)
	for _, j := range []int{1, 2, 3} {
		assert.Equal(t, 0.0, mat.Sum(covs[j]), "cluster %d", j)
	}

	weighted := PerCluster(points, []float64{1, 1, 1, 1}, labels, 4, 2)
	assert.InDeltaSlice(t, []float64{2, 4, 4, 8}, mat.DenseCopyOf(weighted[0]).RawMatrix().Data, 1e-12)
}
