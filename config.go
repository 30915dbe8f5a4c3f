package kmeans

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/yyyoichi/minibatch_kmeans/distance"
	"github.com/yyyoichi/minibatch_kmeans/random"
)

// K returns the number of clusters.
func (m *MiniBatchKMeans) K() int { return m.k }

// BatchSize returns the number of observations drawn per learning step.
func (m *MiniBatchKMeans) BatchSize() int { return m.batchSize }

// SetBatchSize sets the number of observations drawn, with replacement, per learning step.
func (m *MiniBatchKMeans) SetBatchSize(n int) error {
	if err := validatePositive("batch size", n); err != nil {
		return err
	}
	m.batchSize = n
	return nil
}

// NumberOfInitializations returns how many independent runs Learn performs.
func (m *MiniBatchKMeans) NumberOfInitializations() int { return m.initializations }

// SetNumberOfInitializations sets how many independently seeded runs Learn performs.
// The run with the lowest error is kept.
func (m *MiniBatchKMeans) SetNumberOfInitializations(n int) error {
	if err := validatePositive("number of initializations", n); err != nil {
		return err
	}
	m.initializations = n
	return nil
}

// InitializationBatchSize returns the number of observations sampled for seeding.
// Unless set explicitly it is 3*max(BatchSize, K). It is capped by the number of
// observations at learning time.
func (m *MiniBatchKMeans) InitializationBatchSize() int {
	if m.initBatchSize > 0 {
		return m.initBatchSize
	}
	return 3 * max(m.batchSize, m.k)
}

func (m *MiniBatchKMeans) SetInitializationBatchSize(n int) error {
	if err := validatePositive("initialization batch size", n); err != nil {
		return err
	}
	m.initBatchSize = n
	return nil
}

func (m *MiniBatchKMeans) Seeding() Seeding { return m.seeding }

func (m *MiniBatchKMeans) SetSeeding(s Seeding) error {
	if !s.valid() {
		return fmt.Errorf("%w: unknown seeding %v", ErrInvalidArgument, s)
	}
	m.seeding = s
	return nil
}

// ComputeError reports whether Learn records the final error.
func (m *MiniBatchKMeans) ComputeError() bool { return m.computeError }

// SetComputeError makes Learn compute the weighted error over all observations once it
// finishes, available through Error.
func (m *MiniBatchKMeans) SetComputeError(v bool) { m.computeError = v }

func (m *MiniBatchKMeans) ComputeCovariance() bool { return m.computeCovariance }

// SetComputeCovariance makes Learn estimate a covariance matrix for every cluster.
func (m *MiniBatchKMeans) SetComputeCovariance(v bool) { m.computeCovariance = v }

// Distance returns the metric used for assignment, seeding and convergence.
func (m *MiniBatchKMeans) Distance() distance.Metric { return m.dist }

// SetDistance replaces the metric. The learner's Clusters uses it from then on.
// A fixed-width metric must match the width of centroids already in the model.
func (m *MiniBatchKMeans) SetDistance(metric distance.Metric) error {
	if metric == nil {
		return fmt.Errorf("%w: distance is nil", ErrNullInput)
	}
	if m.clusters.seeded() {
		if err := validateMetric(metric, m.clusters.dim()); err != nil {
			return err
		}
	}
	m.dist = metric
	m.clusters.metric = metric
	return nil
}

// MaxIterations returns the step limit of a single run.
func (m *MiniBatchKMeans) MaxIterations() int { return m.maxIterations }

func (m *MiniBatchKMeans) SetMaxIterations(n int) error {
	if err := validatePositive("max iterations", n); err != nil {
		return err
	}
	m.maxIterations = n
	return nil
}

// Tolerance returns the centroid displacement below which a step counts as no improvement.
func (m *MiniBatchKMeans) Tolerance() float64 { return m.tolerance }

// SetTolerance sets the convergence tolerance. It must be finite and non-negative; zero
// disables early stopping unless centroids stop moving entirely.
// A single step below the tolerance does not end a run: it takes MaxNoImprovement
// consecutive such steps.
func (m *MiniBatchKMeans) SetTolerance(t float64) error {
	if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return fmt.Errorf("%w: tolerance must be finite and non-negative, got %v", ErrInvalidArgument, t)
	}
	m.tolerance = t
	return nil
}

// MaxNoImprovement returns how many consecutive steps without improvement end a run.
func (m *MiniBatchKMeans) MaxNoImprovement() int { return m.maxNoImprovement }

func (m *MiniBatchKMeans) SetMaxNoImprovement(n int) error {
	if err := validatePositive("max no improvement", n); err != nil {
		return err
	}
	m.maxNoImprovement = n
	return nil
}

// Generator returns the source of randomness. It may be shared with other learners.
func (m *MiniBatchKMeans) Generator() *random.Generator { return m.gen }

func (m *MiniBatchKMeans) SetGenerator(gen *random.Generator) error {
	if gen == nil {
		return fmt.Errorf("%w: generator is nil", ErrNullInput)
	}
	m.gen = gen
	return nil
}

// SetLogger sets the logger used for debug output. nil discards it.
func (m *MiniBatchKMeans) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m.logger = logger
}
