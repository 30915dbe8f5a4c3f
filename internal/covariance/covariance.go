package covariance

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Compute returns the dim x dim sample covariance of rows.
//
// Weights, when given, are rescaled to sum to len(rows) before the unbiased estimate is
// taken, so fractional weights behave like relative importances rather than counts.
// Fewer than two rows, or members that carry no weight at all, give a zero matrix.
func Compute(rows [][]float64, weights []float64, dim int) *mat.SymDense {
	cov := mat.NewSymDense(dim, nil)
	if len(rows) < 2 {
		return cov
	}

	var w []float64
	if weights != nil {
		total := floats.Sum(weights)
		if total <= 0 {
			return cov
		}
		w = make([]float64, len(weights))
		floats.ScaleTo(w, float64(len(rows))/total, weights)
	}

	x := mat.NewDense(len(rows), dim, nil)
	for i, r := range rows {
		x.SetRow(i, r)
	}
	stat.CovarianceMatrix(cov, x, w)
	return cov
}

// PerCluster groups points by label and computes one covariance matrix per cluster.
func PerCluster(points [][]float64, weights []float64, labels []int, k, dim int) []*mat.SymDense {
	var (
		members = make([][][]float64, k)
		memberW [][]float64
	)
	if weights != nil {
		memberW = make([][]float64, k)
	}
	for i, j := range labels {
		members[j] = append(members[j], points[i])
		if weights != nil {
			memberW[j] = append(memberW[j], weights[i])
		}
	}

	out := make([]*mat.SymDense, k)
	for j := range k {
		var w []float64
		if weights != nil {
			w = memberW[j]
		}
		out[j] = Compute(members[j], w, dim)
	}
	return out
}
