package ingest

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Dotunbey/feedback-os/internal/contacts"
	"github.com/Dotunbey/feedback-os/internal/storage"
)

// DefaultChunkSize is the number of records submitted per store write.
const DefaultChunkSize = 500

// ChunkReport is the outcome of one chunk write. Err is nil on success.
type ChunkReport struct {
	Index int // 0-based chunk position within the write call
	Size  int
	Err   error
}

// BatchWriter partitions an ordered record sequence into fixed-size chunks
// and writes each chunk independently. A failed chunk is terminal for that
// chunk only: it is reported and the remaining chunks are still attempted.
// Chunks have no ordering dependency on each other's outcome, so they are
// dispatched concurrently up to Concurrency writers.
type BatchWriter struct {
	Repo        storage.Repository
	Mode        storage.WriteMode
	ChunkSize   int // default DefaultChunkSize
	Concurrency int // default 1; per-chunk attribution is preserved regardless
	Log         *zap.Logger
}

// Write submits all records and returns one report per chunk, in chunk
// order. It never returns early: every chunk gets exactly one attempt.
func (w *BatchWriter) Write(ctx context.Context, recs []contacts.Contact) []ChunkReport {
	size := w.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	workers := w.Concurrency
	if workers <= 0 {
		workers = 1
	}
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}

	n := (len(recs) + size - 1) / size
	reports := make([]ChunkReport, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		lo := i * size
		hi := min(lo+size, len(recs))
		chunk := recs[lo:hi]
		reports[i] = ChunkReport{Index: i, Size: len(chunk)}

		rep := &reports[i]
		g.Go(func() error {
			if err := w.Repo.BulkWrite(ctx, chunk, w.Mode); err != nil {
				rep.Err = err
				log.Warn("chunk write failed",
					zap.Int("chunk", rep.Index),
					zap.Int("size", rep.Size),
					zap.Error(err))
				return nil // failure is chunk-scoped, keep going
			}
			log.Info("chunk written",
				zap.Int("chunk", rep.Index),
				zap.Int("size", rep.Size),
				zap.Int("written_through", hi),
				zap.Int("total", len(recs)))
			return nil
		})
	}
	_ = g.Wait()
	return reports
}

// FailedRows sums the sizes of failed chunks in a report set.
func FailedRows(reports []ChunkReport) int {
	total := 0
	for _, r := range reports {
		if r.Err != nil {
			total += r.Size
		}
	}
	return total
}
