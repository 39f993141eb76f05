// Package promote orchestrates the promotion pipeline: resolve the target
// version, optionally gate on validation, atomically repoint the alias, then
// converge the serving process. Failures at or before the alias write are
// hard; reload failure afterwards is a degraded success, because the
// registry — not the serving process — is the source of truth for what
// should be serving. The alias is never rolled back after a successful
// write: a rollback would race any reader that already observed it.
package promote

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"modelops/pkg/types"
)

// Registry is the slice of the registry client the promoter needs.
type Registry interface {
	GetVersion(ctx context.Context, model string, version int) (types.ModelVersion, error)
	SetAlias(ctx context.Context, model, alias string, version int) error
}

// Gate runs validation for a candidate version.
type Gate interface {
	Validate(ctx context.Context, modelName string, candidate types.ModelVersion, baselineAlias string) (types.ValidationResult, error)
}

// Reloader converges the serving process after an alias change.
type Reloader interface {
	LiveReload(ctx context.Context) (types.ReloadAPIResponse, error)
	Restart(ctx context.Context) error
}

// Promoter executes one promotion per call. It holds no state across
// invocations; concurrent promotions to the same alias are last-writer-wins
// at the registry.
type Promoter struct {
	reg  Registry
	gate Gate
	rel  Reloader
	log  zerolog.Logger
}

// New returns a Promoter. gate may be nil when gating will never be
// requested; rel may be nil when reload will never be requested.
func New(reg Registry, gate Gate, rel Reloader, log zerolog.Logger) *Promoter {
	return &Promoter{reg: reg, gate: gate, rel: rel, log: log}
}

// Promote runs the pipeline for req. The returned outcome always describes
// every stage that ran. A non-nil error means a hard failure (the alias may
// or may not have been written — see outcome.AliasChanged, which is false
// for every hard failure). Reload failure alone returns a nil error with a
// degraded outcome.
func (p *Promoter) Promote(ctx context.Context, req types.PromotionRequest) (types.PromotionOutcome, error) {
	out := types.PromotionOutcome{
		ID:        uuid.NewString(),
		ModelName: req.ModelName,
		Version:   req.Version,
		Alias:     req.Alias,
	}
	log := p.log.With().Str("promotion_id", out.ID).Str("model", req.ModelName).
		Int("version", req.Version).Str("alias", req.Alias).Logger()

	// Resolve the target first: a missing version aborts with no side effects.
	candidate, err := p.reg.GetVersion(ctx, req.ModelName, req.Version)
	if err != nil {
		out.FailureStage = types.StageResolve
		out.Error = err.Error()
		return out, err
	}

	if req.GateOnValidation {
		// Validation always precedes the alias write. The baseline for the
		// regression comparison is whatever the target alias points at now.
		res, err := p.gate.Validate(ctx, req.ModelName, candidate, req.Alias)
		out.Validation = &res
		if err != nil {
			out.FailureStage = types.StageValidation
			out.Error = err.Error()
			return out, err
		}
		if !res.Passed {
			err := ErrValidationFailed(res.FailedChecks())
			out.FailureStage = types.StageValidation
			out.Error = err.Error()
			log.Warn().Strs("failed_checks", res.FailedChecks()).Msg("validation gate failed; alias untouched")
			return out, err
		}
		log.Info().Float64("auc", res.AUC).Msg("validation gate passed")
	}

	if err := p.reg.SetAlias(ctx, req.ModelName, req.Alias, req.Version); err != nil {
		// Registry state did not change, so no reload is attempted.
		out.FailureStage = types.StageRegistry
		out.Error = err.Error()
		return out, err
	}
	out.AliasChanged = true

	if req.AttemptReload {
		out.ReloadAttempted = true
		if err := p.reload(ctx, req.ReloadStrategy); err != nil {
			// Soft failure: the intended state is already committed. The
			// live process is stale until an operator retries the reload.
			out.ReloadSucceeded = false
			out.FailureStage = types.StageReload
			out.Error = err.Error()
			log.Warn().Err(err).Msg("alias updated but serving process did not converge")
			return out, nil
		}
		out.ReloadSucceeded = true
	}

	log.Info().Bool("reload_attempted", out.ReloadAttempted).Msg("promotion complete")
	return out, nil
}

func (p *Promoter) reload(ctx context.Context, strategy types.ReloadStrategy) error {
	if strategy == types.ReloadRestart {
		return p.rel.Restart(ctx)
	}
	_, err := p.rel.LiveReload(ctx)
	return err
}
