package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters shared by the daemon and the CLI.
// Zero values mean "unspecified" and are replaced by defaults in
// ApplyDefaults or overridden per invocation by flags.
type Config struct {
	// HTTP listen address of the serving daemon.
	Addr string `json:"addr" yaml:"addr" toml:"addr"`
	// Base URI of the model registry.
	RegistryURI string `json:"registry_uri" yaml:"registry_uri" toml:"registry_uri"`
	// Registered model name.
	ModelName string `json:"model_name" yaml:"model_name" toml:"model_name"`
	// Alias the daemon serves and the CLI promotes to by default.
	Alias string `json:"alias" yaml:"alias" toml:"alias"`
	// Base URL of the serving process, used by the promotion pipeline.
	ServingURL string `json:"serving_url" yaml:"serving_url" toml:"serving_url"`
	// Path to the held-out validation dataset (CSV).
	DatasetPath string `json:"dataset_path" yaml:"dataset_path" toml:"dataset_path"`
	// Minimum AUC accepted by the validation gate.
	MinAUC float64 `json:"min_auc" yaml:"min_auc" toml:"min_auc"`
	// Regression tolerance vs the baseline; nil disables the gate.
	RegressionTolerance *float64 `json:"regression_tolerance" yaml:"regression_tolerance" toml:"regression_tolerance"`
	// Live-reload attempt budget.
	ReloadAttempts int `json:"reload_attempts" yaml:"reload_attempts" toml:"reload_attempts"`
	// Per-request timeout for reload and health probes, in seconds.
	ReloadTimeoutSec int `json:"reload_timeout_sec" yaml:"reload_timeout_sec" toml:"reload_timeout_sec"`
	// Supervisor command used by the restart strategy.
	RestartCommand []string `json:"restart_command" yaml:"restart_command" toml:"restart_command"`
	// Total time the restart strategy waits for a healthy process, in seconds.
	HealthTimeoutSec int `json:"health_timeout_sec" yaml:"health_timeout_sec" toml:"health_timeout_sec"`
	// Log level: debug|info|warn|error.
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Defaults mirror the conventional local stack: registry on :5000, serving
// app on :8000.
const (
	DefaultAddr        = ":8000"
	DefaultRegistryURI = "http://localhost:5000"
	DefaultModelName   = "credit-fraud"
	DefaultAlias       = "production"
	DefaultServingURL  = "http://localhost:8000"
	DefaultDatasetPath = "data/processed/test.csv"
	DefaultMinAUC      = 0.90
)

// ApplyDefaults fills unspecified fields.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.RegistryURI == "" {
		c.RegistryURI = DefaultRegistryURI
	}
	if c.ModelName == "" {
		c.ModelName = DefaultModelName
	}
	if c.Alias == "" {
		c.Alias = DefaultAlias
	}
	if c.ServingURL == "" {
		c.ServingURL = DefaultServingURL
	}
	if c.DatasetPath == "" {
		c.DatasetPath = DefaultDatasetPath
	}
	if c.MinAUC == 0 {
		c.MinAUC = DefaultMinAUC
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}
