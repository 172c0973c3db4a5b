// Command seed ingests spreadsheet exports into the contact directory.
//
// Each CSV file on the command line becomes one sheet, named after the file.
// Files are processed in argument order, which defines duplicate precedence:
// the first occurrence of an email wins.
//
// Usage:
//
//	seed -config configs/feedbackos.yaml [-mode upsert] export1.csv export2.csv
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Dotunbey/feedback-os/internal/config"
	"github.com/Dotunbey/feedback-os/internal/ingest"
	"github.com/Dotunbey/feedback-os/internal/metrics"
	"github.com/Dotunbey/feedback-os/internal/metrics/prompush"
	"github.com/Dotunbey/feedback-os/internal/normalize"
	"github.com/Dotunbey/feedback-os/internal/parser/sheet"
	"github.com/Dotunbey/feedback-os/internal/storage"

	// register the backend with the storage factory.
	_ "github.com/Dotunbey/feedback-os/internal/storage/postgres"
)

func main() {
	cfgPath := flag.String("config", "configs/feedbackos.yaml", "config YAML path")
	mode := flag.String("mode", "", `write mode override: "insert" or "upsert"`)
	validate := flag.Bool("validate", false, "validate the configuration and exit")
	jsonOut := flag.Bool("json", false, "print the run report as JSON")
	verbose := flag.Bool("v", false, "enable debug logs")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *mode != "" {
		cfg.Ingest.Mode = *mode
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

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "no input files; pass one or more CSV exports")
		os.Exit(2)
	}

	log := newLogger(*verbose)
	defer log.Sync()

	flush := setupMetrics(cfg.Metrics, log)
	defer flush()

	var opt sheet.Options
	if cfg.Ingest.Delimiter != "" {
		opt.Comma = rune(cfg.Ingest.Delimiter[0])
	}
	sheets, err := sheet.ReadFiles(paths, opt)
	if err != nil {
		log.Fatal("read sheets", zap.Error(err))
	}

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
		}
	}

	runner := &ingest.Runner{
		Repo:        repo,
		Normalizer:  normalize.New(cfg.AliasTable()),
		Mode:        storage.WriteMode(cfg.Ingest.Mode),
		ChunkSize:   cfg.Ingest.ChunkSize,
		Concurrency: cfg.Ingest.Workers,
		Log:         log,
	}
	report, err := runner.Run(ctx, sheets)
	if err != nil {
		log.Fatal("ingestion run failed", zap.Error(err))
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		printReport(report)
	}

	// Nonzero exit when any rows were lost to failed chunks, so schedulers
	// notice partial runs.
	for _, s := range report.Sheets {
		if s.FailedRows > 0 {
			os.Exit(3)
		}
	}
}

func printReport(r ingest.RunReport) {
	fmt.Printf("run %s: %d existing keys seeded\n", r.RunID, r.Seeded)
	for _, s := range r.Sheets {
		fmt.Printf("  %-24s rows=%-6d accepted=%-6d duplicates=%-6d invalid=%-6d failed=%d\n",
			s.Sheet, s.Rows, s.Accepted, s.Duplicates, s.Invalid, s.FailedRows)
	}
	fmt.Printf("total accepted: %d\n", r.Accepted())
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
// function for process exit.
func setupMetrics(cfg config.Metrics, log *zap.Logger) func() {
	switch cfg.Backend {
	case "pushgateway":
		b, err := prompush.NewBackend(cfg.Job, cfg.GatewayURL)
		if err != nil {
			log.Warn("metrics backend init failed; using nop", zap.Error(err))
			return func() {}
		}
		metrics.SetBackend(b)
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
