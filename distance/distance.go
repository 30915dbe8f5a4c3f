package distance

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrInvalidWeights = errors.New("invalid dimension weights")
)

type (
	// Metric computes the dissimilarity between two feature vectors of equal length.
	// Implementations must be symmetric, never negative, and return 0 for identical vectors.
	// The learner calls Distance from several goroutines when assigning large sets,
	// so implementations must not mutate shared state.
	Metric interface {
		Distance(x, y []float64) float64
	}

	// Dimensional is implemented by metrics that only accept vectors of a fixed length,
	// such as WeightedSquareEuclidean.
	Dimensional interface {
		Dimension() int
	}
)

var (
	_ Metric      = SquareEuclidean{}
	_ Metric      = Euclidean{}
	_ Metric      = Manhattan{}
	_ Metric      = Chebyshev{}
	_ Metric      = (*WeightedSquareEuclidean)(nil)
	_ Dimensional = (*WeightedSquareEuclidean)(nil)
	_ Metric      = Func(nil)
)

// Func adapts an ordinary function to the Metric interface.
type Func func(x, y []float64) float64

func (f Func) Distance(x, y []float64) float64 { return f(x, y) }

// SquareEuclidean is the sum of squared coordinate differences.
// It is the default metric of the learner.
type SquareEuclidean struct{}

func (SquareEuclidean) Distance(x, y []float64) float64 {
	var sum float64
	for i := range x {
		d := x[i] - y[i]
		sum += d * d
	}
	return sum
}

// Euclidean is the L2 norm of x-y.
type Euclidean struct{}

func (Euclidean) Distance(x, y []float64) float64 { return floats.Distance(x, y, 2) }

// Manhattan is the L1 norm of x-y.
type Manhattan struct{}

func (Manhattan) Distance(x, y []float64) float64 { return floats.Distance(x, y, 1) }

// Chebyshev is the largest absolute coordinate difference.
type Chebyshev struct{}

func (Chebyshev) Distance(x, y []float64) float64 { return floats.Distance(x, y, math.Inf(1)) }

// WeightedSquareEuclidean scales each squared coordinate difference by a per-dimension weight.
// Larger weights make the corresponding feature more important when grouping points.
type WeightedSquareEuclidean struct {
	weights []float64
}

// NewWeightedSquareEuclidean creates a weighted metric for vectors of len(weights) features.
// Weights must be finite and non-negative, and at least one of them must be positive.
func NewWeightedSquareEuclidean(weights []float64) (*WeightedSquareEuclidean, error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("%w: no weights given", ErrInvalidWeights)
	}
	for i, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: weight[%d] = %v", ErrInvalidWeights, i, w)
		}
	}
	if floats.Sum(weights) == 0 {
		return nil, fmt.Errorf("%w: all weights are zero", ErrInvalidWeights)
	}
	return &WeightedSquareEuclidean{weights: slices.Clone(weights)}, nil
}

func (m *WeightedSquareEuclidean) Distance(x, y []float64) float64 {
	var sum float64
	for i, w := range m.weights {
		d := x[i] - y[i]
		sum += w * d * d
	}
	return sum
}

// Dimension returns the number of features the metric was built for.
func (m *WeightedSquareEuclidean) Dimension() int { return len(m.weights) }

// Weights returns a copy of the per-dimension weights.
func (m *WeightedSquareEuclidean) Weights() []float64 { return slices.Clone(m.weights) }
