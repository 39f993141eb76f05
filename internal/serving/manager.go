// Package serving owns the daemon's active model. The active scorer lives
// behind an RWMutex-guarded pointer: readers snapshot it for the duration of
// one prediction, and a reload builds the replacement completely before
// swapping, so no request ever observes a partially loaded model.
package serving

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"modelops/internal/model"
	"modelops/pkg/types"
)

// Resolver is the slice of the registry client the manager needs to find
// the version its configured alias points at.
type Resolver interface {
	ResolveAlias(ctx context.Context, model, alias string) (*types.ModelVersion, error)
}

// Config identifies what this process serves.
type Config struct {
	// Registered model name.
	ModelName string
	// Alias resolved on every reload, e.g. "production".
	Alias string
}

// Manager resolves, loads and hot-swaps the active model.
type Manager struct {
	resolver Resolver
	cfg      Config
	log      zerolog.Logger

	// loadScorer is swappable in tests.
	loadScorer func(source string) (*model.Scorer, error)

	// reloadMu serializes reloads; a second concurrent reload waits.
	reloadMu sync.Mutex

	// mu guards everything below. Writers hold it only for the pointer
	// swap, never for artifact loading.
	mu       sync.RWMutex
	active   *model.Scorer
	version  int
	source   string
	lastErrs types.ResolutionErrors
	loads    uint64

	start time.Time
}

// New returns a Manager with no model loaded. Call Reload to load one.
func New(resolver Resolver, cfg Config, log zerolog.Logger) *Manager {
	return &Manager{
		resolver:   resolver,
		cfg:        cfg,
		log:        log,
		loadScorer: model.Load,
		start:      time.Now(),
	}
}

// Reload resolves the configured alias, loads the corresponding artifact and
// swaps it in. On failure the previous model (if any) keeps serving and the
// resolution error is recorded for /model_info, split into alias-unset vs
// registry-unreachable.
func (m *Manager) Reload(ctx context.Context) error {
	m.reloadMu.Lock()
	defer m.reloadMu.Unlock()

	mv, err := m.resolver.ResolveAlias(ctx, m.cfg.ModelName, m.cfg.Alias)
	if err != nil {
		m.recordFailure(types.ResolutionErrors{Registry: err.Error()})
		return err
	}
	if mv == nil {
		err := ErrAliasUnset(m.cfg.Alias)
		m.recordFailure(types.ResolutionErrors{Alias: err.Error()})
		return err
	}

	scorer, err := m.loadScorer(mv.Source)
	if err != nil {
		m.recordFailure(types.ResolutionErrors{Artifact: err.Error()})
		return err
	}

	m.mu.Lock()
	m.active = scorer
	m.version = mv.Version
	m.source = mv.Source
	m.lastErrs = types.ResolutionErrors{}
	m.loads++
	m.mu.Unlock()

	m.log.Info().Str("model", m.cfg.ModelName).Str("alias", m.cfg.Alias).
		Int("version", mv.Version).Msg("model loaded")
	return nil
}

func (m *Manager) recordFailure(errs types.ResolutionErrors) {
	m.mu.Lock()
	m.lastErrs = errs
	m.mu.Unlock()
}

// Predict scores one feature row with the active model.
func (m *Manager) Predict(req types.PredictRequest) (types.PredictResponse, error) {
	m.mu.RLock()
	scorer := m.active
	version := m.version
	m.mu.RUnlock()
	if scorer == nil {
		return types.PredictResponse{}, ErrNoModel()
	}
	p := scorer.PredictProba(req.Features)
	return types.PredictResponse{
		Probability:  p,
		Label:        scorer.Label(p),
		ModelVersion: version,
	}, nil
}

// Ready reports whether a model is loaded and serving.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active != nil
}

// Info reports the active version, the alias it was resolved from, and the
// outcome of the most recent resolution attempt.
func (m *Manager) Info() types.ModelInfoResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()
	resp := types.ModelInfoResponse{
		Name:          m.cfg.ModelName,
		Alias:         m.cfg.Alias,
		Version:       m.version,
		Source:        m.source,
		Loaded:        m.active != nil,
		LoadsTotal:    m.loads,
		UptimeSeconds: int64(time.Since(m.start).Seconds()),
	}
	if m.lastErrs != (types.ResolutionErrors{}) {
		errs := m.lastErrs
		resp.Errors = &errs
	}
	return resp
}
