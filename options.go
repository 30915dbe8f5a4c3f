package kmeans

import (
	"log/slog"

	"github.com/yyyoichi/minibatch_kmeans/distance"
	"github.com/yyyoichi/minibatch_kmeans/random"
)

type Option func(*MiniBatchKMeans) error

// WithDistance sets the metric used to assign observations to clusters, to seed with
// KMeans++ and to measure centroid movement. The default is distance.SquareEuclidean.
func WithDistance(metric distance.Metric) Option {
	return func(m *MiniBatchKMeans) error {
		return m.SetDistance(metric)
	}
}

// WithInitializations sets how many independently seeded runs Learn performs.
// The run with the lowest error is kept. More runs cost proportionally more time but make
// a poor local optimum less likely.
func WithInitializations(n int) Option {
	return func(m *MiniBatchKMeans) error {
		return m.SetNumberOfInitializations(n)
	}
}

// WithInitializationBatchSize sets how many observations are sampled, without replacement,
// to choose the initial centroids from.
func WithInitializationBatchSize(n int) Option {
	return func(m *MiniBatchKMeans) error {
		return m.SetInitializationBatchSize(n)
	}
}

func WithSeeding(s Seeding) Option {
	return func(m *MiniBatchKMeans) error {
		return m.SetSeeding(s)
	}
}

// WithComputeError makes Learn record the weighted error of the kept run.
func WithComputeError() Option {
	return func(m *MiniBatchKMeans) error {
		m.SetComputeError(true)
		return nil
	}
}

// WithComputeCovariance makes Learn estimate a covariance matrix for every cluster.
func WithComputeCovariance() Option {
	return func(m *MiniBatchKMeans) error {
		m.SetComputeCovariance(true)
		return nil
	}
}

func WithMaxIterations(n int) Option {
	return func(m *MiniBatchKMeans) error {
		return m.SetMaxIterations(n)
	}
}

// WithTolerance sets the centroid displacement below which a step counts as no improvement.
// A run stops only after MaxNoImprovement consecutive such steps (10 by default), so a
// single quiet batch does not end learning early. Use WithMaxNoImprovement(1) to stop at
// the first step below the tolerance.
func WithTolerance(t float64) Option {
	return func(m *MiniBatchKMeans) error {
		return m.SetTolerance(t)
	}
}

// WithMaxNoImprovement sets how many consecutive steps must each move every centroid by
// less than the tolerance before a run counts as converged.
func WithMaxNoImprovement(n int) Option {
	return func(m *MiniBatchKMeans) error {
		return m.SetMaxNoImprovement(n)
	}
}

// WithGenerator sets the source of randomness. Passing the same generator to several
// learners and reseeding it before each Learn makes their runs identical.
func WithGenerator(gen *random.Generator) Option {
	return func(m *MiniBatchKMeans) error {
		return m.SetGenerator(gen)
	}
}

// WithLogger enables debug logging of seeding and per-run progress.
func WithLogger(logger *slog.Logger) Option {
	return func(m *MiniBatchKMeans) error {
		m.SetLogger(logger)
		return nil
	}
}
