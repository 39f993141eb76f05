package ctl

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"modelops/pkg/types"
)

func (app *App) renderValidation(res types.ValidationResult) error {
	if app.jsonOut {
		return json.NewEncoder(app.out).Encode(res)
	}
	fmt.Fprintf(app.out, "Validation report for %s v%d\n", res.ModelName, res.Version)
	fmt.Fprintf(app.out, "  AUC: %.4f  precision: %.4f  recall: %.4f  f1: %.4f\n",
		res.AUC, res.Precision, res.Recall, res.F1)
	if res.Baseline != nil {
		fmt.Fprintf(app.out, "  Baseline %s (v%d): AUC %.4f, delta %+.4f\n",
			res.Baseline.Alias, res.Baseline.Version, res.Baseline.AUC, res.Baseline.Delta)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(app.out)
	tw.AppendHeader(table.Row{"Check", "Verdict", "Detail"})
	for _, c := range res.Checks {
		verdict := "PASS"
		if !c.Passed {
			verdict = "FAIL"
		}
		tw.AppendRow(table.Row{c.Name, verdict, c.Detail})
	}
	tw.Render()
	if res.Passed {
		fmt.Fprintln(app.out, "VALIDATION PASSED")
	} else {
		fmt.Fprintln(app.out, "VALIDATION FAILED")
	}
	return nil
}

func (app *App) renderOutcome(out types.PromotionOutcome) error {
	if app.jsonOut {
		return json.NewEncoder(app.out).Encode(out)
	}
	fmt.Fprintf(app.out, "Promotion %s: %s v%d -> alias %q\n", out.ID, out.ModelName, out.Version, out.Alias)
	fmt.Fprintf(app.out, "  alias changed:    %v\n", out.AliasChanged)
	if out.Validation != nil {
		fmt.Fprintf(app.out, "  validation:       passed=%v\n", out.Validation.Passed)
	}
	if out.ReloadAttempted {
		fmt.Fprintf(app.out, "  reload succeeded: %v\n", out.ReloadSucceeded)
	}
	switch {
	case out.Degraded():
		fmt.Fprintln(app.out, "PARTIAL SUCCESS: the alias is updated but the serving process is stale.")
		fmt.Fprintln(app.out, "Retry the reload or restart the serving process to converge it.")
	case out.FailureStage != types.StageNone:
		fmt.Fprintf(app.out, "FAILED at stage %q: %s\n", out.FailureStage, out.Error)
	default:
		fmt.Fprintln(app.out, "SUCCESS")
	}
	return nil
}
