package ctl

import (
	"fmt"

	"github.com/spf13/cobra"

	"modelops/internal/promote"
	"modelops/internal/registry"
	"modelops/internal/reload"
	"modelops/internal/validator"
	"modelops/pkg/types"
)

func buildPromoteCmd(app *App) *cobra.Command {
	var (
		version     int
		alias       string
		noValidate  bool
		doReload    bool
		doRestart   bool
		minAUC      float64
		tolerance   float64
		datasetPath string
		restartCmd  []string
	)
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Promote a version to an alias, optionally reloading the serving process",
		Example: "  modelopsctl promote --version 5 --alias production --reload\n" +
			"  modelopsctl promote --version 5 --no-validate --restart",
		RunE: func(cmd *cobra.Command, args []string) error {
			if doReload && doRestart {
				return fmt.Errorf("--reload and --restart are mutually exclusive")
			}
			if alias == "" {
				alias = app.cfg.Alias
			}
			reg := registry.New(app.cfg.RegistryURI, app.log)

			var gate promote.Gate
			if !noValidate {
				gate = validator.New(reg, app.validatorConfig(cmd, minAUC, tolerance, datasetPath), app.log)
			}
			rcfg := app.reloadConfig()
			if len(restartCmd) > 0 {
				rcfg.RestartCommand = restartCmd
			}
			coord := reload.New(app.cfg.ServingURL, rcfg, app.log)

			req := types.PromotionRequest{
				ModelName:        app.cfg.ModelName,
				Version:          version,
				Alias:            alias,
				GateOnValidation: !noValidate,
				AttemptReload:    doReload || doRestart,
				ReloadStrategy:   types.ReloadLive,
			}
			if doRestart {
				req.ReloadStrategy = types.ReloadRestart
			}

			out, err := promote.New(reg, gate, coord, app.log).Promote(cmd.Context(), req)
			if rerr := app.renderOutcome(out); rerr != nil {
				return rerr
			}
			// err is nil for degraded (reload-only) failures: those exit zero.
			return err
		},
	}
	cmd.Flags().IntVar(&version, "version", 0, "Model version to promote")
	cmd.Flags().StringVar(&alias, "alias", "", "Alias to set (default from config, normally \"production\")")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "Skip the validation gate")
	cmd.Flags().BoolVar(&doReload, "reload", false, "Send a live reload directive after the alias write")
	cmd.Flags().BoolVar(&doRestart, "restart", false, "Restart the serving process after the alias write")
	cmd.Flags().Float64Var(&minAUC, "min-auc", 0, "Minimum AUC threshold for the validation gate")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "Max allowed AUC regression vs the target alias")
	cmd.Flags().StringVar(&datasetPath, "dataset", "", "Held-out dataset path (CSV)")
	cmd.Flags().StringSliceVar(&restartCmd, "restart-cmd", nil, "Supervisor command for --restart")
	_ = cmd.MarkFlagRequired("version")
	return cmd
}
