package ctl

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"modelops/internal/promote"
	"modelops/internal/registry"
	"modelops/internal/reload"
	"modelops/internal/validator"
	"modelops/pkg/types"
)

func buildValidateCmd(app *App) *cobra.Command {
	var (
		version       int
		minAUC        float64
		tolerance     float64
		datasetPath   string
		baselineAlias string
		autoPromote   bool
	)
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a candidate version against the held-out dataset",
		Example: "  modelopsctl validate --version 3\n" +
			"  modelopsctl validate --version 3 --auto-promote",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.New(app.cfg.RegistryURI, app.log)
			candidate, err := reg.GetVersion(cmd.Context(), app.cfg.ModelName, version)
			if err != nil {
				return err
			}
			vcfg := app.validatorConfig(cmd, minAUC, tolerance, datasetPath)
			val := validator.New(reg, vcfg, app.log)
			if baselineAlias == "" {
				baselineAlias = app.cfg.Alias
			}
			res, err := val.Validate(cmd.Context(), app.cfg.ModelName, candidate, baselineAlias)
			if err != nil {
				return err
			}
			if rerr := app.renderValidation(res); rerr != nil {
				return rerr
			}
			if !res.Passed {
				return promote.ErrValidationFailed(res.FailedChecks())
			}
			if !autoPromote {
				return nil
			}
			// Already validated, so promote ungated; the hand-off is a live
			// reload, matching how CI chains validate-then-promote.
			coord := reload.New(app.cfg.ServingURL, app.reloadConfig(), app.log)
			prom := promote.New(reg, nil, coord, app.log)
			out, err := prom.Promote(cmd.Context(), types.PromotionRequest{
				ModelName:      app.cfg.ModelName,
				Version:        version,
				Alias:          baselineAlias,
				AttemptReload:  true,
				ReloadStrategy: types.ReloadLive,
			})
			out.Validation = &res
			if rerr := app.renderOutcome(out); rerr != nil {
				return rerr
			}
			return err
		},
	}
	cmd.Flags().IntVar(&version, "version", 0, "Model version to validate")
	cmd.Flags().Float64Var(&minAUC, "min-auc", 0, fmt.Sprintf("Minimum AUC threshold (default %.2f)", validator.DefaultMinAUC))
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "Max allowed AUC regression vs the baseline (gates only when set)")
	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Held-out dataset path (CSV)")
	cmd.Flags().StringVar(&baselineAlias, "baseline-alias", "", "Alias whose current version is the comparison baseline")
	cmd.Flags().BoolVar(&autoPromote, "auto-promote", false, "Promote to the baseline alias when validation passes")
	_ = cmd.MarkFlagRequired("version")
	return cmd
}

// validatorConfig merges config-file values with per-invocation flag
// overrides. The tolerance gate engages only when set somewhere.
func (app *App) validatorConfig(cmd *cobra.Command, minAUC, tolerance float64, datasetPath string) validator.Config {
	cfg := validator.Config{
		DatasetPath:         app.cfg.DatasetPath,
		MinAUC:              app.cfg.MinAUC,
		RegressionTolerance: app.cfg.RegressionTolerance,
	}
	if cmd.Flags().Changed("min-auc") {
		cfg.MinAUC = minAUC
	}
	if cmd.Flags().Changed("tolerance") {
		cfg.RegressionTolerance = &tolerance
	}
	if datasetPath != "" {
		cfg.DatasetPath = datasetPath
	}
	return cfg
}

func (app *App) reloadConfig() reload.Config {
	return reload.Config{
		Attempts:       app.cfg.ReloadAttempts,
		RequestTimeout: time.Duration(app.cfg.ReloadTimeoutSec) * time.Second,
		RestartCommand: app.cfg.RestartCommand,
		HealthTimeout:  time.Duration(app.cfg.HealthTimeoutSec) * time.Second,
	}
}
