package kmeans

import (
	"context"
	"fmt"
	"iter"

	"github.com/yyyoichi/minibatch_kmeans/distance"
	"github.com/yyyoichi/minibatch_kmeans/internal/centroid"
	"gonum.org/v1/gonum/mat"
)

// Clusters is the model a MiniBatchKMeans learns: K centroids with their accumulated mass
// and, optionally, per-cluster covariance matrices.
//
// A learner owns exactly one Clusters value for its whole lifetime and returns that same
// pointer from Learn and from its Clusters method. Decide and the distance queries read the
// centroids directly, so they always reflect the latest Learn, Randomize or SetCentroids.
// Clusters is not safe for use while its learner is learning.
type Clusters struct {
	metric      distance.Metric
	centroids   [][]float64
	mass        []float64
	covariances []*mat.SymDense
	views       []*Cluster
	// preset is set when the caller injected centroids; the next Learn starts from them.
	preset bool
}

func newClusters(k int, metric distance.Metric) *Clusters {
	c := &Clusters{
		metric:      metric,
		centroids:   make([][]float64, k),
		mass:        make([]float64, k),
		covariances: make([]*mat.SymDense, k),
		views:       make([]*Cluster, k),
	}
	for i := range k {
		c.views[i] = &Cluster{index: i, owner: c}
	}
	return c
}

// Count returns K.
func (c *Clusters) Count() int { return len(c.views) }

// Distance returns the metric used to assign points to clusters.
func (c *Clusters) Distance() distance.Metric { return c.metric }

// Centroids returns a copy of the centroids. Before seeding every row is nil.
func (c *Clusters) Centroids() [][]float64 { return cloneRows(c.centroids) }

// SetCentroids replaces the centroids with a copy of centroids and clears the accumulated
// mass and covariances. The next Learn starts its first run from these centroids instead of
// seeding, which makes it possible to reproduce a run from a known initialization.
func (c *Clusters) SetCentroids(centroids [][]float64) error {
	if centroids == nil {
		return fmt.Errorf("%w: centroids are nil", ErrNullInput)
	}
	if len(centroids) != c.Count() {
		return fmt.Errorf("%w: %d centroids for %d clusters", ErrDimensionMismatch, len(centroids), c.Count())
	}
	dim, err := validateRows(centroids)
	if err != nil {
		return err
	}
	if err := validateMetric(c.metric, dim); err != nil {
		return err
	}
	c.reset(cloneRows(centroids))
	c.preset = true
	return nil
}

// Covariances returns the per-cluster covariance matrices. Entries are nil unless the
// learner was configured to compute them. The matrices are shared with the model.
func (c *Clusters) Covariances() []*mat.SymDense {
	return append([]*mat.SymDense(nil), c.covariances...)
}

// Proportions returns the share of the total learned weight mass held by each cluster.
// All entries are zero before the first Learn.
func (c *Clusters) Proportions() []float64 {
	out := make([]float64, len(c.mass))
	var total float64
	for _, m := range c.mass {
		total += m
	}
	if total <= 0 {
		return out
	}
	for i, m := range c.mass {
		out[i] = m / total
	}
	return out
}

// At returns the view of cluster i. It panics if i is out of range.
// The same pointer is returned on every call.
func (c *Clusters) At(i int) *Cluster { return c.views[i] }

// All yields every cluster in index order; the values are the pointers At returns.
func (c *Clusters) All() iter.Seq2[int, *Cluster] {
	return func(yield func(int, *Cluster) bool) {
		for i, v := range c.views {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Decide returns, for each observation, the index of its nearest centroid.
// Ties go to the lowest index. Neither the model nor the observations are modified.
func (c *Clusters) Decide(observations [][]float64) ([]int, error) {
	if err := c.checkQuery(observations); err != nil {
		return nil, err
	}
	labels, _, err := centroid.Assign(context.Background(), observations, c.centroids, c.metric)
	return labels, err
}

// DecideOne returns the index of the centroid nearest to x.
func (c *Clusters) DecideOne(x []float64) (int, error) {
	if err := c.checkVector(x); err != nil {
		return 0, err
	}
	label, _ := centroid.Nearest(x, c.centroids, c.metric)
	return label, nil
}

// DistanceTo returns the distance between x and the centroid of cluster index.
func (c *Clusters) DistanceTo(x []float64, index int) (float64, error) {
	if index < 0 || index >= c.Count() {
		return 0, fmt.Errorf("%w: cluster index %d out of range [0, %d)", ErrInvalidArgument, index, c.Count())
	}
	if err := c.checkVector(x); err != nil {
		return 0, err
	}
	return c.metric.Distance(x, c.centroids[index]), nil
}

// Scores returns the distance between x and every centroid, in cluster order.
func (c *Clusters) Scores(x []float64) ([]float64, error) {
	if err := c.checkVector(x); err != nil {
		return nil, err
	}
	out := make([]float64, c.Count())
	for i, mean := range c.centroids {
		out[i] = c.metric.Distance(x, mean)
	}
	return out, nil
}

func (c *Clusters) seeded() bool { return c.centroids[0] != nil }

func (c *Clusters) dim() int { return len(c.centroids[0]) }

func (c *Clusters) checkQuery(observations [][]float64) error {
	if !c.seeded() {
		return ErrUnseeded
	}
	if observations == nil {
		return fmt.Errorf("%w: observations are nil", ErrNullInput)
	}
	if err := validateMetric(c.metric, c.dim()); err != nil {
		return err
	}
	for i, x := range observations {
		if len(x) != c.dim() {
			return fmt.Errorf("%w: row %d has %d features, expected %d", ErrDimensionMismatch, i, len(x), c.dim())
		}
	}
	return nil
}

func (c *Clusters) checkVector(x []float64) error {
	if !c.seeded() {
		return ErrUnseeded
	}
	if len(x) != c.dim() {
		return fmt.Errorf("%w: vector has %d features, expected %d", ErrDimensionMismatch, len(x), c.dim())
	}
	return validateMetric(c.metric, c.dim())
}

// reset installs freshly seeded centroids with no learned mass.
func (c *Clusters) reset(centroids [][]float64) {
	copy(c.centroids, centroids)
	clear(c.mass)
	clear(c.covariances)
}

// Cluster is a view of one cluster inside a Clusters model.
type Cluster struct {
	index int
	owner *Clusters
}

func (c *Cluster) Index() int { return c.index }

// Centroid returns a copy of the cluster's centroid, or nil before seeding.
func (c *Cluster) Centroid() []float64 {
	if c.owner.centroids[c.index] == nil {
		return nil
	}
	return append([]float64(nil), c.owner.centroids[c.index]...)
}

// Covariance returns the cluster's covariance matrix, or nil if it was not computed.
func (c *Cluster) Covariance() *mat.SymDense { return c.owner.covariances[c.index] }

// Proportion returns the cluster's share of the learned weight mass.
func (c *Cluster) Proportion() float64 { return c.owner.Proportions()[c.index] }

// Distance returns the distance between x and the cluster's centroid.
func (c *Cluster) Distance(x []float64) (float64, error) { return c.owner.DistanceTo(x, c.index) }
