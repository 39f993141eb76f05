// Package validator scores a candidate model version against the held-out
// reference dataset and applies the promotion gate policy. It is read-only:
// registry state is never mutated here.
package validator

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"modelops/internal/model"
	"modelops/pkg/types"
)

// Check names reported in ValidationResult.Checks.
const (
	CheckAUCThreshold    = "auc_threshold"
	CheckPredictionRange = "prediction_range"
	CheckNoInvalid       = "no_invalid_predictions"
	CheckNoRegression    = "no_regression_vs_baseline"
)

// DefaultMinAUC is the score gate applied when the config leaves it zero.
const DefaultMinAUC = 0.90

// AliasResolver is the slice of the registry client the validator needs to
// find the comparison baseline.
type AliasResolver interface {
	ResolveAlias(ctx context.Context, model, alias string) (*types.ModelVersion, error)
}

// Config tunes the gate policy.
type Config struct {
	// Path to the held-out reference dataset (CSV).
	DatasetPath string
	// Minimum acceptable AUC. Zero means DefaultMinAUC.
	MinAUC float64
	// When set, a candidate scoring more than this much below the baseline
	// fails the regression check. Nil means the baseline delta is
	// informational only.
	RegressionTolerance *float64
}

// Validator runs the validation pipeline for one model name.
type Validator struct {
	resolver AliasResolver
	cfg      Config
	log      zerolog.Logger

	// loadScorer is swappable in tests.
	loadScorer func(source string) (*model.Scorer, error)
}

// New returns a Validator. resolver may be nil when no baseline comparison
// will ever be requested.
func New(resolver AliasResolver, cfg Config, log zerolog.Logger) *Validator {
	if cfg.MinAUC == 0 {
		cfg.MinAUC = DefaultMinAUC
	}
	return &Validator{resolver: resolver, cfg: cfg, log: log, loadScorer: model.Load}
}

// Validate loads the candidate's artifact, scores it against the reference
// dataset and evaluates every applicable gate. A failing verdict is a normal
// result with Passed=false; an error is returned only when the validation
// itself could not run (unreadable artifact or dataset, registry failure
// while a gating baseline was required).
func (v *Validator) Validate(ctx context.Context, modelName string, candidate types.ModelVersion, baselineAlias string) (types.ValidationResult, error) {
	res := types.ValidationResult{ModelName: modelName, Version: candidate.Version}

	scorer, err := v.loadScorer(candidate.Source)
	if err != nil {
		return res, err
	}
	ds, err := model.LoadDataset(v.cfg.DatasetPath)
	if err != nil {
		return res, err
	}
	scores, err := ds.Score(scorer)
	if err != nil {
		return res, model.ErrArtifactLoad(err.Error())
	}

	res.AUC = model.AUC(ds.Labels, scores)
	rep := model.Classify(ds.Labels, scores, 0.5)
	res.Precision, res.Recall, res.F1 = rep.Precision, rep.Recall, rep.F1

	res.Checks = append(res.Checks, types.ValidationCheck{
		Name:   CheckAUCThreshold,
		Passed: res.AUC >= v.cfg.MinAUC,
		Detail: fmt.Sprintf("auc %.4f, min %.4f", res.AUC, v.cfg.MinAUC),
	})
	res.Checks = append(res.Checks, types.ValidationCheck{
		Name:   CheckPredictionRange,
		Passed: model.InRange(scores),
		Detail: "all predictions in [0, 1]",
	})
	res.Checks = append(res.Checks, types.ValidationCheck{
		Name:   CheckNoInvalid,
		Passed: !model.HasInvalid(scores),
		Detail: "no NaN or infinite predictions",
	})

	if baselineAlias != "" {
		if err := v.compareBaseline(ctx, modelName, baselineAlias, ds, &res); err != nil {
			return res, err
		}
	} else if v.cfg.RegressionTolerance != nil {
		// Gate requested but no baseline alias configured: vacuously true.
		res.Checks = append(res.Checks, types.ValidationCheck{
			Name: CheckNoRegression, Passed: true, Detail: "no baseline alias configured",
		})
	}

	res.Passed = true
	for _, c := range res.Checks {
		if !c.Passed {
			res.Passed = false
		}
	}
	v.log.Info().Str("model", modelName).Int("version", candidate.Version).
		Float64("auc", res.AUC).Bool("passed", res.Passed).Msg("validation complete")
	return res, nil
}

// compareBaseline recomputes the baseline's score on the same dataset and
// records the signed delta. With a regression tolerance configured the
// comparison is a gate; otherwise it is informational. A missing baseline is
// vacuously passing either way.
func (v *Validator) compareBaseline(ctx context.Context, modelName, alias string, ds *model.Dataset, res *types.ValidationResult) error {
	gated := v.cfg.RegressionTolerance != nil

	vacuous := func(detail string, softErr error) error {
		if gated {
			if softErr != nil {
				// A gating comparison that cannot run is a validation error,
				// not a silent pass.
				return softErr
			}
			res.Checks = append(res.Checks, types.ValidationCheck{
				Name: CheckNoRegression, Passed: true, Detail: detail,
			})
		}
		if softErr != nil {
			v.log.Warn().Err(softErr).Str("alias", alias).Msg("baseline comparison skipped")
		}
		return nil
	}

	if v.resolver == nil {
		return vacuous("no registry resolver configured", nil)
	}
	baseline, err := v.resolver.ResolveAlias(ctx, modelName, alias)
	if err != nil {
		return vacuous("", err)
	}
	if baseline == nil {
		return vacuous(fmt.Sprintf("alias %q unset", alias), nil)
	}

	scorer, err := v.loadScorer(baseline.Source)
	if err != nil {
		return vacuous("", err)
	}
	scores, err := ds.Score(scorer)
	if err != nil {
		return vacuous("", model.ErrArtifactLoad(err.Error()))
	}
	baseAUC := model.AUC(ds.Labels, scores)
	delta := res.AUC - baseAUC
	res.Baseline = &types.BaselineComparison{
		Alias:   alias,
		Version: baseline.Version,
		AUC:     baseAUC,
		Delta:   delta,
	}
	if gated {
		tol := *v.cfg.RegressionTolerance
		res.Checks = append(res.Checks, types.ValidationCheck{
			Name:   CheckNoRegression,
			Passed: delta >= -tol,
			Detail: fmt.Sprintf("delta %+.4f vs %s v%d, tolerance %.4f", delta, alias, baseline.Version, tol),
		})
	}
	return nil
}
