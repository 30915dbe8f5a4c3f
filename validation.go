package kmeans

import (
	"fmt"
	"math"

	"github.com/yyyoichi/minibatch_kmeans/distance"
	"gonum.org/v1/gonum/floats"
)

// validateLearn checks everything Learn and Randomize depend on and returns the feature dimension.
// It runs before any state is touched.
func (m *MiniBatchKMeans) validateLearn(observations [][]float64, weights []float64) (int, error) {
	if observations == nil {
		return 0, fmt.Errorf("%w: observations are nil", ErrNullInput)
	}
	dim, err := validateRows(observations)
	if err != nil {
		return 0, err
	}
	n := len(observations)
	if m.k > n {
		return 0, fmt.Errorf("%w: more clusters than samples (k=%d, n=%d)", ErrInvalidArgument, m.k, n)
	}
	if m.batchSize > n {
		return 0, fmt.Errorf("%w: batch size %d exceeds the number of samples %d", ErrInvalidArgument, m.batchSize, n)
	}
	if weights != nil {
		if err := validateWeights(weights, n); err != nil {
			return 0, err
		}
	}
	if err := validateMetric(m.dist, dim); err != nil {
		return 0, err
	}
	return dim, nil
}

// validateRows checks that rows form a non-empty rectangular matrix of finite values
// and returns its width. An empty set has width 0.
func validateRows(rows [][]float64) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	dim := len(rows[0])
	if dim == 0 {
		return 0, fmt.Errorf("%w: vectors have no features", ErrInvalidArgument)
	}
	for i, r := range rows {
		if len(r) != dim {
			return 0, fmt.Errorf("%w: row %d has %d features, expected %d", ErrDimensionMismatch, i, len(r), dim)
		}
		for j, v := range r {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, fmt.Errorf("%w: row %d feature %d is %v", ErrInvalidArgument, i, j, v)
			}
		}
	}
	return dim, nil
}

func validateWeights(weights []float64, n int) error {
	if len(weights) != n {
		return fmt.Errorf("%w: %d weights for %d samples", ErrDimensionMismatch, len(weights), n)
	}
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: weight[%d] = %v", ErrInvalidArgument, i, w)
		}
	}
	if sum := floats.Sum(weights); sum <= 0 {
		return fmt.Errorf("%w: weights sum to %v", ErrInvalidArgument, sum)
	}
	return nil
}

func validateMetric(metric distance.Metric, dim int) error {
	if d, ok := metric.(distance.Dimensional); ok && d.Dimension() != dim {
		return fmt.Errorf("%w: metric expects %d features, observations have %d", ErrDimensionMismatch, d.Dimension(), dim)
	}
	return nil
}

func validatePositive(name string, v int) error {
	if v <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidArgument, name, v)
	}
	return nil
}
