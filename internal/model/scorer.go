package model

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"

	"modelops/internal/common/fsutil"
)

// Scorer is a deserialized binary classifier artifact: a logistic model over
// a fixed, named feature schema. Instances are immutable after Load and safe
// for concurrent use.
type Scorer struct {
	// Feature names in training order.
	Features []string `json:"features"`
	// One coefficient per feature.
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
	// Decision threshold for the positive label. Defaults to 0.5.
	Threshold float64 `json:"threshold,omitempty"`
}

// Decode reads a scorer from r and checks shape consistency.
func Decode(r io.Reader) (*Scorer, error) {
	var s Scorer
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, ErrArtifactLoad(fmt.Sprintf("decode: %v", err))
	}
	if len(s.Features) == 0 {
		return nil, ErrArtifactLoad("empty feature schema")
	}
	if len(s.Coefficients) != len(s.Features) {
		return nil, ErrArtifactLoad(fmt.Sprintf("schema mismatch: %d features, %d coefficients",
			len(s.Features), len(s.Coefficients)))
	}
	if s.Threshold == 0 {
		s.Threshold = 0.5
	}
	return &s, nil
}

// Load reads a scorer artifact from a local path or an http(s) URL.
// Registered versions carry their artifact location in Source; both forms
// occur in practice.
func Load(source string) (*Scorer, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := http.Get(source)
		if err != nil {
			return nil, ErrArtifactLoad(fmt.Sprintf("fetch %s: %v", source, err))
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, ErrArtifactLoad(fmt.Sprintf("fetch %s: status %d", source, resp.StatusCode))
		}
		return Decode(resp.Body)
	}
	path, err := fsutil.ExpandHome(source)
	if err != nil {
		return nil, ErrArtifactLoad(err.Error())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrArtifactLoad(fmt.Sprintf("open %s: %v", path, err))
	}
	defer f.Close()
	return Decode(f)
}

// PredictProba returns the probability of the positive class for one row of
// named features. Missing features score as zero, matching how the training
// pipeline imputes absent columns.
func (s *Scorer) PredictProba(features map[string]float64) float64 {
	z := s.Intercept
	for i, name := range s.Features {
		z += s.Coefficients[i] * features[name]
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

// PredictRow scores one dense row laid out in schema order.
func (s *Scorer) PredictRow(row []float64) float64 {
	z := s.Intercept
	n := len(row)
	if n > len(s.Coefficients) {
		n = len(s.Coefficients)
	}
	for i := 0; i < n; i++ {
		z += s.Coefficients[i] * row[i]
	}
	return 1.0 / (1.0 + math.Exp(-z))
}

// Label applies the decision threshold to a probability.
func (s *Scorer) Label(p float64) int {
	if p >= s.Threshold {
		return 1
	}
	return 0
}
