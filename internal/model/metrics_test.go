package model

import (
	"math"
	"testing"
)

func TestAUCPerfectRanking(t *testing.T) {
	labels := []int{0, 0, 0, 1, 1, 1}
	scores := []float64{0.1, 0.2, 0.3, 0.7, 0.8, 0.9}
	if got := AUC(labels, scores); got != 1.0 {
		t.Fatalf("auc = %v, want 1.0", got)
	}
}

func TestAUCSingleDiscordantPair(t *testing.T) {
	// One negative outranks one positive: 1 - 1/(3*3)
	labels := []int{0, 0, 0, 1, 1, 1}
	scores := []float64{0.1, 0.2, 0.75, 0.7, 0.8, 0.9}
	want := 1.0 - 1.0/9.0
	if got := AUC(labels, scores); math.Abs(got-want) > 1e-12 {
		t.Fatalf("auc = %v, want %v", got, want)
	}
}

func TestAUCTiesCountHalf(t *testing.T) {
	labels := []int{0, 1}
	scores := []float64{0.5, 0.5}
	if got := AUC(labels, scores); got != 0.5 {
		t.Fatalf("auc = %v, want 0.5", got)
	}
}

func TestAUCDegenerate(t *testing.T) {
	if got := AUC([]int{1, 1}, []float64{0.1, 0.9}); !math.IsNaN(got) {
		t.Fatalf("single-class auc = %v, want NaN", got)
	}
	if got := AUC(nil, nil); !math.IsNaN(got) {
		t.Fatalf("empty auc = %v, want NaN", got)
	}
}

func TestClassify(t *testing.T) {
	labels := []int{1, 1, 0, 0}
	scores := []float64{0.9, 0.4, 0.8, 0.1}
	// tp=1 fp=1 fn=1 -> precision 0.5, recall 0.5, f1 0.5
	r := Classify(labels, scores, 0.5)
	if r.Precision != 0.5 || r.Recall != 0.5 || r.F1 != 0.5 {
		t.Fatalf("report = %+v", r)
	}
}

func TestClassifyNoPositivePredictions(t *testing.T) {
	r := Classify([]int{1, 0}, []float64{0.1, 0.2}, 0.5)
	if r.Precision != 0 || r.Recall != 0 || r.F1 != 0 {
		t.Fatalf("report = %+v", r)
	}
}

func TestInRange(t *testing.T) {
	if !InRange([]float64{0, 0.5, 1}) {
		t.Fatalf("expected in range")
	}
	if InRange([]float64{0.5, 1.0001}) {
		t.Fatalf("expected out of range")
	}
	if InRange([]float64{-0.0001}) {
		t.Fatalf("expected out of range")
	}
}

func TestHasInvalid(t *testing.T) {
	if HasInvalid([]float64{0.1, 0.9}) {
		t.Fatalf("unexpected invalid")
	}
	if !HasInvalid([]float64{0.1, math.NaN()}) {
		t.Fatalf("expected NaN detection")
	}
	if !HasInvalid([]float64{math.Inf(1)}) {
		t.Fatalf("expected Inf detection")
	}
}
