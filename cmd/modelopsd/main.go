package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"modelops/internal/config"
	"modelops/internal/httpapi"
	"modelops/internal/registry"
	"modelops/internal/serving"
)

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	addr := flag.String("addr", envDefault("MODELOPS_ADDR", ""), "HTTP listen address, e.g. :8000")
	cfgPath := flag.String("config", envDefault("MODELOPS_CONFIG", ""), "Path to a yaml/json/toml config file")
	registryURI := flag.String("registry-uri", envDefault("MODELOPS_REGISTRY_URI", ""), "Model registry base URI")
	modelName := flag.String("model", envDefault("MODELOPS_MODEL", ""), "Registered model name to serve")
	alias := flag.String("alias", envDefault("MODELOPS_ALIAS", ""), "Alias resolved on startup and on each reload")
	logLevel := flag.String("log-level", envDefault("MODELOPS_LOG_LEVEL", ""), "Log level: debug|info|warn|error")
	flag.Parse()

	var cfg config.Config
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			fatalLog := zerolog.New(os.Stderr)
			fatalLog.Fatal().Err(err).Msg("failed to load config")
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *registryURI != "" {
		cfg.RegistryURI = *registryURI
	}
	if *modelName != "" {
		cfg.ModelName = *modelName
	}
	if *alias != "" {
		cfg.Alias = *alias
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	cfg.ApplyDefaults()

	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Str("svc", "modelopsd").Logger()

	reg := registry.New(cfg.RegistryURI, log)
	mgr := serving.New(reg, serving.Config{ModelName: cfg.ModelName, Alias: cfg.Alias}, log)

	// Load the aliased model up front. A failure is not fatal: the daemon
	// serves 503s and reports the resolution error until a reload succeeds.
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mgr.Reload(startCtx); err != nil {
		log.Warn().Err(err).Msg("initial model load failed; serving degraded until reload")
	}
	cancelStart()

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetLogger(log)

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(mgr)}
	go func() {
		log.Info().Str("addr", cfg.Addr).Str("model", cfg.ModelName).Str("alias", cfg.Alias).
			Msg("modelopsd listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
}
