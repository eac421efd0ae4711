// Package bcubed scores a candidate clustering against a gold standard with
// the B-Cubed precision, recall and F-measure in linear time.
//
// For every candidate cluster, the points are counted per gold cluster. The
// sum of squared counts, divided by the cluster size, is the cluster's share
// of precision. Recall is the same pass with the roles swapped. The sum of
// squares is maintained incrementally (v² to (v+1)² adds 2v+1), so each point
// costs O(1).
package bcubed

import (
	"fmt"
	"math"

	"github.com/hupe1980/curveclust/model"
	"github.com/hupe1980/curveclust/partition"
)

// DefaultAlpha weights precision and recall equally.
const DefaultAlpha = 0.5

// Result holds a B-Cubed comparison.
type Result struct {
	Precision float64
	Recall    float64
	// FMeasure combines both via 1/F = Alpha/Precision + (1-Alpha)/Recall.
	// It is 0 when Undefined.
	FMeasure float64
	Alpha    float64
	// Undefined reports that precision or recall is zero, so no F-measure exists.
	Undefined bool
}

// String returns a string representation of the result.
func (r Result) String() string {
	if r.Undefined {
		return fmt.Sprintf("BCubed(P=%.4f, R=%.4f, F=undefined)", r.Precision, r.Recall)
	}
	return fmt.Sprintf("BCubed(P=%.4f, R=%.4f, F=%.4f, alpha=%g)", r.Precision, r.Recall, r.FMeasure, r.Alpha)
}

// Compare scores candidate against gold. Both must partition the same
// non-empty set of points; alpha must lie in [0,1].
func Compare(candidate, gold *partition.Clustering, alpha float64) (Result, error) {
	if candidate == nil || gold == nil {
		return Result{}, fmt.Errorf("%w: nil clustering", model.ErrConfig)
	}
	if alpha < 0 || alpha > 1 || math.IsNaN(alpha) {
		return Result{}, fmt.Errorf("%w: alpha must be in [0,1], got %v", model.ErrConfig, alpha)
	}
	n := candidate.Len()
	if n == 0 && gold.Len() == 0 {
		return Result{}, fmt.Errorf("%w: no points to compare", model.ErrDegenerateInput)
	}
	if n != gold.Len() {
		return Result{}, fmt.Errorf("%w: candidate has %d points, gold has %d", model.ErrPartitionMismatch, n, gold.Len())
	}

	precision, err := score(candidate, gold)
	if err != nil {
		return Result{}, err
	}
	recall, err := score(gold, candidate)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Precision: precision / float64(n),
		Recall:    recall / float64(n),
		Alpha:     alpha,
	}
	if res.Precision == 0 || res.Recall == 0 {
		res.Undefined = true
		return res, nil
	}
	res.FMeasure = 1 / (alpha/res.Precision + (1-alpha)/res.Recall)
	return res, nil
}

// score sums, over the clusters of by, the sum of squared overlap counts with
// the clusters of against divided by the cluster size. Every point of by must
// be in against.
func score(by, against *partition.Clustering) (float64, error) {
	var total float64
	counts := make(map[model.ClusterID]int)
	for _, id := range by.ListClusters() {
		clear(counts)
		var sumSq int
		members := by.Members(id)
		for _, p := range members {
			other, ok := against.ClusterOf(p)
			if !ok {
				return 0, fmt.Errorf("%w: point %d is missing", model.ErrPartitionMismatch, p)
			}
			v := counts[other]
			sumSq += 2*v + 1
			counts[other] = v + 1
		}
		total += float64(sumSq) / float64(len(members))
	}
	return total, nil
}
