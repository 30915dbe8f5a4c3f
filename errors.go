package kmeans

import "errors"

var (
	// ErrNullInput reports a missing required input, such as a nil observation set.
	ErrNullInput = errors.New("required input is missing")
	// ErrDimensionMismatch reports sequences whose lengths disagree: ragged observations,
	// a weight vector not matching the observation count, or vectors of the wrong width.
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrInvalidArgument reports well-typed but semantically invalid configuration or data.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnseeded is returned by queries on clusters that have no centroids yet.
	ErrUnseeded = errors.New("clusters have no centroids")
)
