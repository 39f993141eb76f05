package types

// VersionStatus is the lifecycle status of a registered model version.
type VersionStatus string

const (
	StatusPending VersionStatus = "pending"
	StatusReady   VersionStatus = "ready"
	StatusFailed  VersionStatus = "failed"
)

// ModelVersion is one entry in the registry for a named model.
// Immutable once created except for alias membership, which is a
// registry-side relation rather than a property of the artifact.
type ModelVersion struct {
	// Numeric version id, unique per model name.
	Version int `json:"version"`
	// Identifier of the training run that produced the artifact.
	RunID string `json:"run_id"`
	// Artifact location (path or URI) the version was registered from.
	Source string `json:"source"`
	// Lifecycle status of the version.
	Status VersionStatus `json:"status"`
	// Alias names currently pointing at this version. May be empty.
	Aliases []string `json:"aliases"`
}

// ValidationCheck is one named pass/fail gate evaluated during validation.
type ValidationCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	// Human-readable detail, e.g. the observed value vs the bound.
	Detail string `json:"detail,omitempty"`
}

// BaselineComparison reports the candidate's score against the version the
// baseline alias currently resolves to, recomputed on the same dataset.
type BaselineComparison struct {
	Alias   string  `json:"alias"`
	Version int     `json:"version"`
	AUC     float64 `json:"auc"`
	// Signed delta: candidate AUC minus baseline AUC.
	Delta float64 `json:"delta"`
}

// ValidationResult is the full outcome of validating one candidate version.
// Computed fresh per run and never persisted here.
type ValidationResult struct {
	ModelName string  `json:"model_name"`
	Version   int     `json:"version"`
	AUC       float64 `json:"auc"`
	// Diagnostic metrics for the positive class at the 0.5 cut. Not gating.
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	// Individual gates; Passed is the AND of all of them.
	Checks   []ValidationCheck   `json:"checks"`
	Baseline *BaselineComparison `json:"baseline,omitempty"`
	Passed   bool                `json:"passed"`
}

// FailedChecks returns the names of the checks that did not pass.
func (r ValidationResult) FailedChecks() []string {
	var out []string
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c.Name)
		}
	}
	return out
}

// ReloadStrategy selects how the serving process is converged after an
// alias change.
type ReloadStrategy string

const (
	// ReloadLive sends a reload directive to the running process.
	ReloadLive ReloadStrategy = "live"
	// ReloadRestart restarts the serving process via its supervisor and
	// waits for it to come back healthy.
	ReloadRestart ReloadStrategy = "restart"
)

// PromotionRequest describes one promotion invocation. Ephemeral.
type PromotionRequest struct {
	ModelName string `json:"model_name"`
	Version   int    `json:"version"`
	Alias     string `json:"alias"`
	// When true, a passing validation verdict is required before the alias
	// is touched.
	GateOnValidation bool `json:"gate_on_validation"`
	// When true, the serving process is asked to adopt the new model after
	// the alias write.
	AttemptReload  bool           `json:"attempt_reload"`
	ReloadStrategy ReloadStrategy `json:"reload_strategy,omitempty"`
}

// Stage names the pipeline stage at which a promotion failed.
type Stage string

const (
	StageNone       Stage = ""
	StageResolve    Stage = "resolve"
	StageValidation Stage = "validation"
	StageRegistry   Stage = "registry"
	StageReload     Stage = "reload"
)

// PromotionOutcome summarizes every stage of one promotion. Reload failure
// after a successful alias write is a degraded success, not a hard failure:
// AliasChanged stays true and FailureStage records "reload".
type PromotionOutcome struct {
	// Correlation id for this promotion run.
	ID        string `json:"id"`
	ModelName string `json:"model_name"`
	Version   int    `json:"version"`
	Alias     string `json:"alias"`
	// Whether the registry alias now points at Version.
	AliasChanged bool `json:"alias_changed"`
	// Present when validation ran (gating requested).
	Validation      *ValidationResult `json:"validation,omitempty"`
	ReloadAttempted bool              `json:"reload_attempted"`
	ReloadSucceeded bool              `json:"reload_succeeded"`
	FailureStage    Stage             `json:"failure_stage,omitempty"`
	Error           string            `json:"error,omitempty"`
}

// Degraded reports whether the registry was updated but the serving process
// did not converge, i.e. manual reload intervention is needed.
func (o PromotionOutcome) Degraded() bool {
	return o.AliasChanged && o.ReloadAttempted && !o.ReloadSucceeded
}
