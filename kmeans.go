package kmeans

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yyyoichi/minibatch_kmeans/distance"
	"github.com/yyyoichi/minibatch_kmeans/internal/centroid"
	"github.com/yyyoichi/minibatch_kmeans/internal/covariance"
	"github.com/yyyoichi/minibatch_kmeans/random"
	"gonum.org/v1/gonum/mat"
)

// State is the phase a MiniBatchKMeans is in.
type State int

const (
	StateUnseeded State = iota
	StateSeeded
	StateLearning
	StateConverged
	StateMaxIterationsReached
)

func (s State) String() string {
	switch s {
	case StateUnseeded:
		return "Unseeded"
	case StateSeeded:
		return "Seeded"
	case StateLearning:
		return "Learning"
	case StateConverged:
		return "Converged"
	case StateMaxIterationsReached:
		return "MaxIterationsReached"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// MiniBatchKMeans learns K centroids from numeric feature vectors with the mini-batch
// variant of K-Means: each step draws a small random batch, assigns its members to the
// nearest centroids and moves those centroids toward the batch by a step that shrinks as
// each cluster accumulates weight.
//
// Results depend only on the generator's sequence. Reusing a generator across learners and
// calling SetSeed on it right before Learn reproduces a run exactly; the learner never
// reseeds on its own.
//
// A MiniBatchKMeans is not safe for concurrent use.
type MiniBatchKMeans struct {
	k                 int
	batchSize         int
	initBatchSize     int
	initializations   int
	seeding           Seeding
	computeError      bool
	computeCovariance bool
	maxIterations     int
	tolerance         float64
	maxNoImprovement  int
	dist              distance.Metric
	gen               *random.Generator
	logger            *slog.Logger

	clusters   *Clusters
	state      State
	iterations int
	err        float64
}

// New creates a learner for k clusters that draws batchSize observations per step.
// Both must be positive. Options are applied in order and fail fast on invalid values.
//
// Defaults: squared Euclidean distance, KMeans++ seeding over 3*max(batchSize, k) sampled
// observations, 3 initializations, at most 100 iterations, tolerance 1e-5, a generator
// seeded with random.DefaultSeed, no error or covariance computation, and no logging.
func New(k, batchSize int, opts ...Option) (*MiniBatchKMeans, error) {
	if err := validatePositive("number of clusters", k); err != nil {
		return nil, err
	}
	m := &MiniBatchKMeans{k: k}
	if err := m.SetBatchSize(batchSize); err != nil {
		return nil, err
	}
	if err := m.init(opts...); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MiniBatchKMeans) init(opts ...Option) error {
	m.initializations = 3
	m.seeding = SeedingKMeansPlusPlus
	m.maxIterations = 100
	m.tolerance = 1e-5
	m.maxNoImprovement = 10
	m.dist = distance.SquareEuclidean{}
	m.gen = random.New(random.DefaultSeed)
	m.logger = slog.New(slog.DiscardHandler)
	m.clusters = newClusters(m.k, m.dist)
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return err
		}
	}
	return nil
}

// Learn fits the clusters to observations, optionally weighting each observation.
// A nil weights slice gives every observation weight 1.
//
// Process:
//  1. Validates the input; on failure nothing is changed.
//  2. For each initialization, seeds centroids (or starts from centroids injected with
//     Randomize or Clusters.SetCentroids, for the first one) and runs mini-batch steps until
//     centroids stop moving by more than the tolerance or MaxIterations is reached.
//  3. Keeps the run with the lowest error, then computes covariances if configured.
//
// Learn returns the learner's own Clusters, updated in place. observations and weights are
// only read. If ctx is canceled the model is left as it was.
func (m *MiniBatchKMeans) Learn(ctx context.Context, observations [][]float64, weights []float64) (*Clusters, error) {
	dim, err := m.validateLearn(observations, weights)
	if err != nil {
		return nil, err
	}
	if err := m.validatePreset(dim); err != nil {
		return nil, err
	}

	var (
		prev       = m.state
		sampleSize = m.sampleSize(len(observations))
		best       *outcome
	)
	m.state = StateLearning
	fail := func(err error) (*Clusters, error) {
		m.state = prev
		return nil, err
	}

	for run := range m.initializations {
		var initial [][]float64
		if run == 0 && m.clusters.preset {
			initial = m.clusters.Centroids()
		} else {
			initial = seedCentroids(m.seeding, m.gen, observations, weights, m.k, sampleSize, m.dist)
			m.logger.DebugContext(ctx, "centroids seeded", "run", run, "seeding", m.seeding, "sample", sampleSize)
		}
		out, err := m.learnOnce(ctx, observations, weights, initial)
		if err != nil {
			return fail(err)
		}
		m.logger.DebugContext(ctx, "initialization finished",
			"run", run,
			"iterations", out.iterations,
			"converged", out.converged,
			"error", out.err,
		)
		if best == nil || out.err < best.err {
			best = out
		}
	}

	var covs []*mat.SymDense
	if m.computeCovariance {
		labels := best.labels
		if labels == nil {
			if labels, _, err = centroid.Assign(ctx, observations, best.centroids, m.dist); err != nil {
				return fail(err)
			}
		}
		covs = covariance.PerCluster(observations, weights, labels, m.k, dim)
	}

	m.clusters.reset(best.centroids)
	copy(m.clusters.mass, best.mass)
	copy(m.clusters.covariances, covs)
	m.clusters.preset = false
	m.iterations = best.iterations
	m.err = 0
	if m.computeError {
		m.err = best.err
	}
	m.state = StateMaxIterationsReached
	if best.converged {
		m.state = StateConverged
	}
	m.logger.DebugContext(ctx, "learning finished", "state", m.state, "iterations", m.iterations, "error", m.err)
	return m.clusters, nil
}

// Randomize seeds the centroids from observations without learning, using the configured
// seeding strategy. The centroids can then be inspected, or replaced through
// Clusters().SetCentroids, and the next Learn starts its first run from them.
func (m *MiniBatchKMeans) Randomize(observations [][]float64, weights []float64) error {
	if _, err := m.validateLearn(observations, weights); err != nil {
		return err
	}
	sampleSize := m.sampleSize(len(observations))
	m.clusters.reset(seedCentroids(m.seeding, m.gen, observations, weights, m.k, sampleSize, m.dist))
	m.clusters.preset = true
	m.state = StateSeeded
	m.iterations = 0
	m.err = 0
	m.logger.Debug("centroids seeded", "seeding", m.seeding, "sample", sampleSize)
	return nil
}

// Clusters returns the model owned by the learner. The pointer never changes.
func (m *MiniBatchKMeans) Clusters() *Clusters { return m.clusters }

// Error returns the weighted sum, over all observations, of the distance to the assigned
// centroid after the last Learn. It is zero unless ComputeError is enabled.
func (m *MiniBatchKMeans) Error() float64 { return m.err }

// Iterations returns the number of mini-batch steps taken by the kept run of the last Learn.
func (m *MiniBatchKMeans) Iterations() int { return m.iterations }

// State returns the learner's phase. Centroids injected through Clusters().SetCentroids
// put it back into StateSeeded.
func (m *MiniBatchKMeans) State() State {
	if m.clusters.preset && m.state != StateLearning {
		return StateSeeded
	}
	return m.state
}

func (m *MiniBatchKMeans) validatePreset(dim int) error {
	if !m.clusters.preset {
		return nil
	}
	if d := m.clusters.dim(); d != dim {
		return fmt.Errorf("%w: centroids have %d features, observations have %d", ErrDimensionMismatch, d, dim)
	}
	return nil
}

func (m *MiniBatchKMeans) sampleSize(n int) int {
	return min(max(m.InitializationBatchSize(), m.k), n)
}

type outcome struct {
	centroids  [][]float64
	mass       []float64
	labels     []int
	err        float64
	iterations int
	converged  bool
}

func (m *MiniBatchKMeans) learnOnce(ctx context.Context, points [][]float64, weights []float64, initial [][]float64) (*outcome, error) {
	var (
		run   = centroid.NewRun(initial)
		out   = new(outcome)
		stall int
	)
	for out.iterations < m.maxIterations {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch := m.gen.SampleWithReplacement(len(points), m.batchSize)
		shift := run.Step(points, weights, batch, m.dist)
		out.iterations++
		if shift >= m.tolerance {
			stall = 0
			continue
		}
		if stall++; stall >= m.maxNoImprovement {
			out.converged = true
			break
		}
	}
	out.centroids, out.mass = run.Centroids(), run.Masses()

	// runs are compared by error, so it is needed whenever there is more than one
	if m.computeError || m.initializations > 1 {
		labels, dists, err := centroid.Assign(ctx, points, out.centroids, m.dist)
		if err != nil {
			return nil, err
		}
		out.labels, out.err = labels, centroid.Inertia(dists, weights)
	}
	return out, nil
}
