// Package ctl implements the operator CLI: list registered versions,
// validate a candidate, and promote a version to an alias with an optional
// serving hand-off.
package ctl

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"modelops/internal/config"
)

// App carries resolved configuration and output sinks for the command tree.
type App struct {
	cfg     config.Config
	log     zerolog.Logger
	out     io.Writer
	jsonOut bool
}

// buildRootCmd constructs the cobra command tree. Persistent flags are
// overridable via MODELOPS_* environment variables.
func buildRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "modelopsctl",
		Short:         "Operate the model promotion pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "Path to a yaml/json/toml config file")
	root.PersistentFlags().String("registry-uri", "", "Model registry base URI (default "+config.DefaultRegistryURI+")")
	root.PersistentFlags().String("model", "", "Registered model name (default "+config.DefaultModelName+")")
	root.PersistentFlags().String("serving-url", "", "Serving process base URL (default "+config.DefaultServingURL+")")
	root.PersistentFlags().String("log-level", "", "Log level: debug|info|warn|error")
	root.PersistentFlags().Bool("json", false, "Emit reports as JSON")

	viper.SetEnvPrefix("MODELOPS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	for _, f := range []string{"config", "registry-uri", "model", "serving-url", "log-level", "json"} {
		_ = viper.BindPFlag(f, root.PersistentFlags().Lookup(f))
	}

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var cfg config.Config
		if path := viper.GetString("config"); path != "" {
			loaded, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = loaded
		}
		if v := viper.GetString("registry-uri"); v != "" {
			cfg.RegistryURI = v
		}
		if v := viper.GetString("model"); v != "" {
			cfg.ModelName = v
		}
		if v := viper.GetString("serving-url"); v != "" {
			cfg.ServingURL = v
		}
		if v := viper.GetString("log-level"); v != "" {
			cfg.LogLevel = v
		}
		cfg.ApplyDefaults()
		app.cfg = cfg
		app.jsonOut = viper.GetBool("json")
		app.log = newLogger(cfg.LogLevel)
		return nil
	}

	root.AddCommand(buildVersionsCmd(app))
	root.AddCommand(buildValidateCmd(app))
	root.AddCommand(buildPromoteCmd(app))
	return root
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).With().Timestamp().Logger()
}

// Main runs the CLI and returns the process exit code. Hard failures
// (version not found, validation failure, registry errors) are non-zero;
// a promotion that only failed at the reload stage reports degraded success
// and exits zero.
func Main(args []string) int {
	app := &App{out: os.Stdout}
	root := buildRootCmd(app)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
