package validator

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelops/internal/model"
	"modelops/pkg/types"
)

// Eight rows, four per class. Ranking by x separates the classes perfectly
// (AUC 1.0); ranking by v has exactly one discordant pair out of sixteen
// (AUC 0.9375).
const refCSV = `Time,x,v,Class
10,1,1,0
20,2,2,0
30,3,3,0
40,4,5,0
50,5,4,1
60,6,6,1
70,7,7,1
80,8,8,1
`

const (
	scorerOnX = `{"features":["x"],"coefficients":[1.0],"intercept":0}`
	scorerOnV = `{"features":["v"],"coefficients":[1.0],"intercept":0}`
)

type stubResolver struct {
	mv  *types.ModelVersion
	err error
}

func (s *stubResolver) ResolveAlias(ctx context.Context, model, alias string) (*types.ModelVersion, error) {
	return s.mv, s.err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

type fixture struct {
	dataset   string
	candidate string
	baseline  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	d := t.TempDir()
	return fixture{
		dataset:   writeFile(t, d, "test.csv", refCSV),
		candidate: writeFile(t, d, "candidate.json", scorerOnX),
		baseline:  writeFile(t, d, "baseline.json", scorerOnV),
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestValidatePassesWithBaselineInfo(t *testing.T) {
	fx := newFixture(t)
	resolver := &stubResolver{mv: &types.ModelVersion{Version: 3, Source: fx.baseline}}
	v := New(resolver, Config{DatasetPath: fx.dataset}, zerolog.Nop())

	res, err := v.Validate(context.Background(), "credit-fraud",
		types.ModelVersion{Version: 5, Source: fx.candidate}, "production")
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Equal(t, 1.0, res.AUC)
	assert.Len(t, res.Checks, 3, "ungated run must not add a regression check")
	require.NotNil(t, res.Baseline)
	assert.Equal(t, 3, res.Baseline.Version)
	assert.InDelta(t, 0.9375, res.Baseline.AUC, 1e-12)
	assert.InDelta(t, 0.0625, res.Baseline.Delta, 1e-12)
}

func TestValidateFailsBelowMinAUC(t *testing.T) {
	fx := newFixture(t)
	v := New(nil, Config{DatasetPath: fx.dataset, MinAUC: 0.95}, zerolog.Nop())

	// The weaker scorer lands at 0.9375, under the raised bar.
	res, err := v.Validate(context.Background(), "credit-fraud",
		types.ModelVersion{Version: 5, Source: fx.baseline}, "")
	require.NoError(t, err, "a failing verdict is not an error")
	assert.False(t, res.Passed)
	assert.Equal(t, []string{CheckAUCThreshold}, res.FailedChecks())
}

func TestRegressionGateFails(t *testing.T) {
	fx := newFixture(t)
	resolver := &stubResolver{mv: &types.ModelVersion{Version: 3, Source: fx.candidate}}
	v := New(resolver, Config{DatasetPath: fx.dataset, RegressionTolerance: floatPtr(0.01)}, zerolog.Nop())

	// Candidate scores 0.9375 against a 1.0 baseline: delta -0.0625.
	res, err := v.Validate(context.Background(), "credit-fraud",
		types.ModelVersion{Version: 5, Source: fx.baseline}, "production")
	require.NoError(t, err)
	assert.False(t, res.Passed)
	assert.Equal(t, []string{CheckNoRegression}, res.FailedChecks())
}

func TestRegressionGateWithinTolerance(t *testing.T) {
	fx := newFixture(t)
	resolver := &stubResolver{mv: &types.ModelVersion{Version: 3, Source: fx.candidate}}
	v := New(resolver, Config{DatasetPath: fx.dataset, RegressionTolerance: floatPtr(0.10)}, zerolog.Nop())

	res, err := v.Validate(context.Background(), "credit-fraud",
		types.ModelVersion{Version: 5, Source: fx.baseline}, "production")
	require.NoError(t, err)
	assert.True(t, res.Passed)
}

func TestRegressionGateVacuousWithoutAlias(t *testing.T) {
	fx := newFixture(t)
	v := New(nil, Config{DatasetPath: fx.dataset, RegressionTolerance: floatPtr(0.01)}, zerolog.Nop())

	res, err := v.Validate(context.Background(), "credit-fraud",
		types.ModelVersion{Version: 5, Source: fx.candidate}, "")
	require.NoError(t, err)
	assert.True(t, res.Passed)
	require.Len(t, res.Checks, 4)
	assert.Equal(t, CheckNoRegression, res.Checks[3].Name)
	assert.True(t, res.Checks[3].Passed)
}

func TestRegressionGateVacuousWhenAliasUnset(t *testing.T) {
	fx := newFixture(t)
	resolver := &stubResolver{} // alias resolves to nothing
	v := New(resolver, Config{DatasetPath: fx.dataset, RegressionTolerance: floatPtr(0.01)}, zerolog.Nop())

	res, err := v.Validate(context.Background(), "credit-fraud",
		types.ModelVersion{Version: 5, Source: fx.candidate}, "production")
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Nil(t, res.Baseline)
	require.Len(t, res.Checks, 4)
	assert.True(t, res.Checks[3].Passed)
}

func TestGatedBaselineResolveErrorIsError(t *testing.T) {
	fx := newFixture(t)
	resolver := &stubResolver{err: errors.New("registry down")}
	v := New(resolver, Config{DatasetPath: fx.dataset, RegressionTolerance: floatPtr(0.01)}, zerolog.Nop())

	_, err := v.Validate(context.Background(), "credit-fraud",
		types.ModelVersion{Version: 5, Source: fx.candidate}, "production")
	require.Error(t, err)
}

func TestUngatedBaselineResolveErrorIsSkipped(t *testing.T) {
	fx := newFixture(t)
	resolver := &stubResolver{err: errors.New("registry down")}
	v := New(resolver, Config{DatasetPath: fx.dataset}, zerolog.Nop())

	res, err := v.Validate(context.Background(), "credit-fraud",
		types.ModelVersion{Version: 5, Source: fx.candidate}, "production")
	require.NoError(t, err)
	assert.True(t, res.Passed)
	assert.Nil(t, res.Baseline)
}

func TestValidateArtifactLoadError(t *testing.T) {
	fx := newFixture(t)
	v := New(nil, Config{DatasetPath: fx.dataset}, zerolog.Nop())

	_, err := v.Validate(context.Background(), "credit-fraud",
		types.ModelVersion{Version: 5, Source: filepath.Join(t.TempDir(), "absent.json")}, "")
	assert.True(t, model.IsArtifactLoad(err), "got %v", err)
}

func TestValidateMissingDataset(t *testing.T) {
	fx := newFixture(t)
	v := New(nil, Config{DatasetPath: filepath.Join(t.TempDir(), "absent.csv")}, zerolog.Nop())

	_, err := v.Validate(context.Background(), "credit-fraud",
		types.ModelVersion{Version: 5, Source: fx.candidate}, "")
	require.Error(t, err)
}
