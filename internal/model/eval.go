package model

import (
	"sort"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// Confusion is an actual-by-predicted cross-tabulation of a binary outcome.
type Confusion struct {
	TruePositive  int
	FalsePositive int
	TrueNegative  int
	FalseNegative int
}

// Total returns the number of classified rows; it always equals the size of
// the evaluated partition.
func (c Confusion) Total() int {
	return c.TruePositive + c.FalsePositive + c.TrueNegative + c.FalseNegative
}

// ConfusionMatrix thresholds predicted probabilities at the given cutoff and
// tabulates them against the actual 0/1 outcomes.
func ConfusionMatrix(actual []int, probs []float64, threshold float64) Confusion {
	var c Confusion
	for i, p := range probs {
		pred := 0
		if p >= threshold {
			pred = 1
		}
		switch {
		case actual[i] == 1 && pred == 1:
			c.TruePositive++
		case actual[i] == 0 && pred == 1:
			c.FalsePositive++
		case actual[i] == 0 && pred == 0:
			c.TrueNegative++
		default:
			c.FalseNegative++
		}
	}
	return c
}

// AUC computes the area under the ROC curve for predicted probabilities
// against actual 0/1 outcomes. A partition containing a single class makes
// the curve undefined; that is reported as a DegenerateMetricError, distinct
// from a computed low score.
func AUC(actual []int, probs []float64) (float64, error) {
	var pos, neg int
	for _, a := range actual {
		if a == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return 0, &DegenerateMetricError{
			Metric: "AUC",
			Reason: "test partition contains a single outcome class",
		}
	}

	// stat.ROC wants scores in ascending order with classes aligned.
	idx := make([]int, len(probs))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return probs[idx[a]] < probs[idx[b]] })
	scores := make([]float64, len(idx))
	classes := make([]bool, len(idx))
	for i, j := range idx {
		scores[i] = probs[j]
		classes[i] = actual[j] == 1
	}

	tpr, fpr, _ := stat.ROC(nil, scores, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}
