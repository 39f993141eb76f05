package model

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestDecodeValid(t *testing.T) {
	s, err := Decode(strings.NewReader(`{"features":["a","b"],"coefficients":[1.5,-2.0],"intercept":0.25}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(s.Features) != 2 || s.Threshold != 0.5 {
		t.Fatalf("unexpected scorer: %+v", s)
	}
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct{ name, body string }{
		{"garbage", "not json"},
		{"no features", `{"features":[],"coefficients":[],"intercept":0}`},
		{"shape mismatch", `{"features":["a","b"],"coefficients":[1.0],"intercept":0}`},
	}
	for _, c := range cases {
		_, err := Decode(strings.NewReader(c.body))
		if err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
		if !IsArtifactLoad(err) {
			t.Fatalf("%s: expected artifact load error, got %v", c.name, err)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if !IsArtifactLoad(err) {
		t.Fatalf("expected artifact load error, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "model.json", `{"features":["x"],"coefficients":[2.0],"intercept":-1.0}`)
	s, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// z = 2*1 - 1 = 1 -> sigmoid(1)
	got := s.PredictProba(map[string]float64{"x": 1})
	want := 1.0 / (1.0 + math.Exp(-1.0))
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("proba = %v, want %v", got, want)
	}
}

func TestPredictProbaMissingFeatureScoresZero(t *testing.T) {
	s := &Scorer{Features: []string{"x", "y"}, Coefficients: []float64{3, 4}, Threshold: 0.5}
	got := s.PredictProba(map[string]float64{"x": 0})
	if got != 0.5 {
		t.Fatalf("proba = %v, want 0.5", got)
	}
}

func TestLabelThreshold(t *testing.T) {
	s := &Scorer{Features: []string{"x"}, Coefficients: []float64{1}, Threshold: 0.7}
	if s.Label(0.69) != 0 || s.Label(0.7) != 1 {
		t.Fatalf("label thresholding wrong")
	}
}
