package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dotunbey/feedback-os/internal/contacts"
	"github.com/Dotunbey/feedback-os/internal/metrics"
	"github.com/Dotunbey/feedback-os/internal/normalize"
	"github.com/Dotunbey/feedback-os/internal/storage"
	"github.com/Dotunbey/feedback-os/pkg/records"
)

// Sheet is one named segment of a source export, rows in source order.
type Sheet struct {
	Name string
	Rows []records.Record
}

// SheetReport aggregates per-sheet row outcomes.
type SheetReport struct {
	Sheet      string        `json:"sheet"`
	Rows       int           `json:"rows"`
	Accepted   int           `json:"accepted"`
	Duplicates int           `json:"duplicates"`
	Invalid    int           `json:"invalid"`
	FailedRows int           `json:"failed_rows"` // rows lost to failed chunks
	Chunks     []ChunkReport `json:"-"`
}

// RunReport is the final accounting for one ingestion run.
type RunReport struct {
	RunID  string        `json:"run_id"`
	Seeded int           `json:"seeded"` // identity keys loaded from the store
	Sheets []SheetReport `json:"sheets"`
}

// Accepted sums accepted rows across sheets.
func (r RunReport) Accepted() int {
	n := 0
	for _, s := range r.Sheets {
		n += s.Accepted
	}
	return n
}

// Runner executes ingestion runs. Rows are processed strictly in sheet
// order then row order so that first-writer-wins dedup is deterministic;
// only chunk writes fan out.
type Runner struct {
	Repo        storage.Repository
	Normalizer  *normalize.Normalizer
	Mode        storage.WriteMode
	ChunkSize   int
	Concurrency int
	Log         *zap.Logger
}

// Run ingests the sheets and returns the per-sheet report. The returned
// error is run-fatal only (seeding failure, bad mode); row- and chunk-level
// failures are reported, counted, and survived.
func (r *Runner) Run(ctx context.Context, sheets []Sheet) (RunReport, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	norm := r.Normalizer
	if norm == nil {
		norm = normalize.New(nil)
	}
	if !r.Mode.Valid() {
		return RunReport{}, contacts.Validationf("unknown write mode %q", r.Mode)
	}

	report := RunReport{RunID: uuid.NewString()}
	log = log.With(zap.String("run_id", report.RunID))

	dedup := NewDedup()
	seeded, err := dedup.Seed(ctx, r.Repo)
	if err != nil {
		return RunReport{}, fmt.Errorf("seed dedup set: %w", err)
	}
	report.Seeded = seeded
	log.Info("dedup set seeded", zap.Int("existing_keys", seeded))

	writer := &BatchWriter{
		Repo:        r.Repo,
		Mode:        r.Mode,
		ChunkSize:   r.ChunkSize,
		Concurrency: r.Concurrency,
		Log:         log,
	}

	for _, sheet := range sheets {
		sr := SheetReport{Sheet: sheet.Name, Rows: len(sheet.Rows)}
		accepted := make([]contacts.Contact, 0, len(sheet.Rows))

		for _, row := range sheet.Rows {
			c, err := norm.Row(row, sheet.Name)
			if err != nil {
				if errors.Is(err, contacts.ErrValidation) {
					sr.Invalid++
					continue
				}
				return report, fmt.Errorf("sheet %q: %w", sheet.Name, err)
			}
			if !dedup.ShouldAccept(c.Email) {
				sr.Duplicates++
				continue
			}
			dedup.MarkAccepted(c.Email)
			accepted = append(accepted, c)
		}

		sr.Chunks = writer.Write(ctx, accepted)
		sr.FailedRows = FailedRows(sr.Chunks)
		sr.Accepted = len(accepted) - sr.FailedRows

		metrics.RecordRows(sheet.Name, "accepted", int64(sr.Accepted))
		metrics.RecordRows(sheet.Name, "duplicate", int64(sr.Duplicates))
		metrics.RecordRows(sheet.Name, "invalid", int64(sr.Invalid))
		metrics.RecordRows(sheet.Name, "failed", int64(sr.FailedRows))

		log.Info("sheet done",
			zap.String("sheet", sheet.Name),
			zap.Int("rows", sr.Rows),
			zap.Int("accepted", sr.Accepted),
			zap.Int("duplicates", sr.Duplicates),
			zap.Int("invalid", sr.Invalid),
			zap.Int("failed_rows", sr.FailedRows))

		report.Sheets = append(report.Sheets, sr)
	}
	return report, nil
}
