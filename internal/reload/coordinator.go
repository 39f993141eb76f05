// Package reload converges a running serving process onto the registry's
// intended state, either by a live reload directive or by a supervisor
// restart followed by health polling. Both strategies are bounded: neither
// blocks past its configured deadline.
package reload

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"modelops/pkg/types"
)

// Config bounds the coordinator's retry and wait behavior. Zero values take
// the package defaults.
type Config struct {
	// Max live-reload attempts before giving up.
	Attempts int
	// Backoff before the second attempt; doubles per attempt.
	InitialBackoff time.Duration
	// Per-request timeout for reload and health probes.
	RequestTimeout time.Duration
	// Supervisor command for the restart strategy,
	// e.g. ["docker", "compose", "-f", "infra/docker-compose.yaml", "restart", "app"].
	RestartCommand []string
	// Total time allowed for the process to report ready after a restart.
	HealthTimeout time.Duration
	// Poll interval for health probes.
	HealthInterval time.Duration
}

const (
	defaultAttempts       = 3
	defaultInitialBackoff = 500 * time.Millisecond
	defaultRequestTimeout = 10 * time.Second
	defaultHealthTimeout  = 60 * time.Second
	defaultHealthInterval = 2 * time.Second
)

// Coordinator issues hand-off directives against one serving process.
type Coordinator struct {
	base string
	cfg  Config
	hc   *http.Client
	log  zerolog.Logger

	// runCommand is swappable in tests.
	runCommand func(ctx context.Context, name string, args ...string) error
}

// New returns a Coordinator for the serving process at baseURL.
func New(baseURL string, cfg Config, log zerolog.Logger) *Coordinator {
	if cfg.Attempts <= 0 {
		cfg.Attempts = defaultAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = defaultInitialBackoff
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = defaultHealthTimeout
	}
	if cfg.HealthInterval <= 0 {
		cfg.HealthInterval = defaultHealthInterval
	}
	return &Coordinator{
		base: strings.TrimRight(baseURL, "/"),
		cfg:  cfg,
		hc:   &http.Client{Timeout: cfg.RequestTimeout},
		log:  log,
		runCommand: func(ctx context.Context, name string, args ...string) error {
			out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
			if err != nil {
				return fmt.Errorf("%s: %v: %s", name, err, strings.TrimSpace(string(out)))
			}
			return nil
		},
	}
}

// LiveReload posts the reload directive, retrying transport failures with
// exponential backoff up to the configured attempt budget. An explicit
// non-success response is not retried: the process answered, it just said no.
func (c *Coordinator) LiveReload(ctx context.Context) (types.ReloadAPIResponse, error) {
	var lastErr error
	backoff := c.cfg.InitialBackoff
	for attempt := 1; attempt <= c.cfg.Attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return types.ReloadAPIResponse{}, ErrTimeout(ctx.Err().Error())
			case <-time.After(backoff):
			}
			backoff *= 2
		}
		resp, err := c.postReload(ctx)
		if err == nil {
			return resp, nil
		}
		if IsRejected(err) {
			return resp, err
		}
		lastErr = err
		c.log.Warn().Err(err).Int("attempt", attempt).Int("max", c.cfg.Attempts).
			Msg("reload attempt failed")
	}
	return types.ReloadAPIResponse{}, ErrTimeout(
		fmt.Sprintf("%d attempts exhausted: %v", c.cfg.Attempts, lastErr))
}

func (c *Coordinator) postReload(ctx context.Context) (types.ReloadAPIResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/reload", nil)
	if err != nil {
		return types.ReloadAPIResponse{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return types.ReloadAPIResponse{}, err
	}
	defer resp.Body.Close()
	var body types.ReloadAPIResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	if resp.StatusCode != http.StatusOK {
		msg := body.Message
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		// 5xx without a structured body usually means a proxy or a dying
		// process; retry those. A structured refusal is final.
		if resp.StatusCode >= 500 && body.Status == "" {
			return body, fmt.Errorf("reload: %s", msg)
		}
		return body, ErrRejected(msg)
	}
	return body, nil
}

// Restart signals the external supervisor to restart the serving process,
// then polls its readiness endpoint until it reports ready or the health
// deadline elapses. Trades brief unavailability for a clean process state.
func (c *Coordinator) Restart(ctx context.Context) error {
	if len(c.cfg.RestartCommand) == 0 {
		return fmt.Errorf("no restart command configured")
	}
	c.log.Info().Strs("cmd", c.cfg.RestartCommand).Msg("restarting serving process")
	if err := c.runCommand(ctx, c.cfg.RestartCommand[0], c.cfg.RestartCommand[1:]...); err != nil {
		return fmt.Errorf("restart command: %w", err)
	}

	deadline := time.Now().Add(c.cfg.HealthTimeout)
	for {
		if c.ready(ctx) {
			c.log.Info().Msg("serving process healthy after restart")
			return nil
		}
		if time.Now().After(deadline) {
			return ErrRestartTimeout(fmt.Sprintf("not ready after %s", c.cfg.HealthTimeout))
		}
		select {
		case <-ctx.Done():
			return ErrRestartTimeout(ctx.Err().Error())
		case <-time.After(c.cfg.HealthInterval):
		}
	}
}

func (c *Coordinator) ready(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/readyz", nil)
	if err != nil {
		return false
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
