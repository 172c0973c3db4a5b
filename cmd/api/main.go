// Command api serves the contact directory HTTP API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Dotunbey/feedback-os/internal/api"
	"github.com/Dotunbey/feedback-os/internal/config"
	"github.com/Dotunbey/feedback-os/internal/metrics"
	"github.com/Dotunbey/feedback-os/internal/metrics/prompush"
	"github.com/Dotunbey/feedback-os/internal/storage"

	// register the backend with the storage factory.
	_ "github.com/Dotunbey/feedback-os/internal/storage/postgres"
)

func main() {
	cfgPath := flag.String("config", "configs/feedbackos.yaml", "config YAML path")
	validate := flag.Bool("validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		fmt.Fprintf(os.Stderr, "configuration is invalid: %s\n", *cfgPath)
		os.Exit(1)
	}
	if *validate {
		fmt.Printf("configuration is valid: %s\n", *cfgPath)
		return
	}

	log := newLogger(*verbose)
	defer log.Sync()

	flush := setupMetrics(cfg.Metrics, log)
	defer flush()

	ctx := context.Background()
	repo, err := storage.New(ctx, storage.Config{Kind: cfg.Storage.Kind, DSN: cfg.Storage.DSN})
	if err != nil {
		log.Fatal("open storage", zap.Error(err))
	}
	defer repo.Close()

	if cfg.Storage.AutoCreateTable {
		if ens, ok := repo.(storage.SchemaEnsurer); ok {
			if err := ens.EnsureSchema(ctx); err != nil {
				log.Fatal("ensure schema", zap.Error(err))
			}
			log.Info("schema ensured")
		}
	}

	srv := api.NewServer(api.Config{
		Addr:         cfg.Server.Addr,
		CORSOrigin:   cfg.Server.CORSOrigin,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}, repo, log)

	if err := srv.ListenAndServe(); err != nil {
		log.Fatal("server", zap.Error(err))
	}
}

func newLogger(verbose bool) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg = zap.NewDevelopmentConfig()
	}
	log, err := zcfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	return log
}

// setupMetrics installs the configured metrics backend and returns a flush
// function for process exit. Unknown backends degrade to the no-op default.
func setupMetrics(cfg config.Metrics, log *zap.Logger) func() {
	switch cfg.Backend {
	case "pushgateway":
		b, err := prompush.NewBackend(cfg.Job, cfg.GatewayURL)
		if err != nil {
			log.Warn("metrics backend init failed; using nop", zap.Error(err))
			return func() {}
		}
		metrics.SetBackend(b)
		log.Info("metrics backend ready",
			zap.String("backend", cfg.Backend),
			zap.String("gateway_url", cfg.GatewayURL))
		return func() {
			if err := metrics.Flush(); err != nil {
				log.Warn("metrics flush failed", zap.Error(err))
			}
		}
	case "", "none":
		return func() {}
	default:
		log.Warn("unknown metrics backend; metrics disabled", zap.String("backend", cfg.Backend))
		return func() {}
	}
}
