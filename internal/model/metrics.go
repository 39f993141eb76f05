package model

import (
	"math"
	"sort"
)

// AUC computes the area under the ROC curve from binary labels and
// predicted scores, using the rank-sum formulation with averaged ranks for
// tied scores. Returns NaN when either class is absent.
func AUC(labels []int, scores []float64) float64 {
	n := len(labels)
	if n == 0 || n != len(scores) {
		return math.NaN()
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return scores[order[a]] < scores[order[b]] })

	ranks := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && scores[order[j+1]] == scores[order[i]] {
			j++
		}
		// average rank for the tie group [i, j], 1-based
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		i = j + 1
	}

	var pos, rankSum float64
	for i, y := range labels {
		if y == 1 {
			pos++
			rankSum += ranks[i]
		}
	}
	neg := float64(n) - pos
	if pos == 0 || neg == 0 {
		return math.NaN()
	}
	return (rankSum - pos*(pos+1)/2) / (pos * neg)
}

// Report holds diagnostic classification metrics for the positive class.
type Report struct {
	Precision float64
	Recall    float64
	F1        float64
}

// Classify computes precision, recall and F1 for the positive class with
// predictions thresholded at cut.
func Classify(labels []int, scores []float64, cut float64) Report {
	var tp, fp, fn float64
	for i, y := range labels {
		pred := 0
		if scores[i] >= cut {
			pred = 1
		}
		switch {
		case pred == 1 && y == 1:
			tp++
		case pred == 1 && y == 0:
			fp++
		case pred == 0 && y == 1:
			fn++
		}
	}
	var r Report
	if tp+fp > 0 {
		r.Precision = tp / (tp + fp)
	}
	if tp+fn > 0 {
		r.Recall = tp / (tp + fn)
	}
	if r.Precision+r.Recall > 0 {
		r.F1 = 2 * r.Precision * r.Recall / (r.Precision + r.Recall)
	}
	return r
}

// InRange reports whether every score lies in the closed interval [0, 1].
func InRange(scores []float64) bool {
	for _, s := range scores {
		if s < 0 || s > 1 {
			return false
		}
	}
	return true
}

// HasInvalid reports whether any score is NaN or infinite.
func HasInvalid(scores []float64) bool {
	for _, s := range scores {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return true
		}
	}
	return false
}
