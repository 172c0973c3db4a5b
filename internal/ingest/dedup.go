// Package ingest runs one ingestion pass: raw sheet rows are normalized,
// deduplicated against the store and against earlier rows of the same run,
// and written in fault-isolated chunks.
package ingest

import (
	"context"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/text/cases"

	"github.com/Dotunbey/feedback-os/internal/storage"
)

var foldEmail = cases.Fold()

// identityKey folds an email for case-insensitive comparison and hashes it.
// Keeping 8-byte hashes instead of the strings bounds the set's memory on
// multi-million-row stores; the store's unique constraint remains the final
// arbiter, so a (vanishingly unlikely) hash collision can only cause an
// extra silent drop, never a duplicate write.
func identityKey(email string) uint64 {
	return xxh3.HashString(foldEmail.String(strings.TrimSpace(email)))
}

// Dedup is the run-scoped identity set. It is not safe for concurrent use
// and must not outlive the run.
type Dedup struct {
	seen map[uint64]struct{}
}

// NewDedup returns an empty set.
func NewDedup() *Dedup {
	return &Dedup{seen: make(map[uint64]struct{})}
}

// Seed loads every email already committed to the ownerless partition in a
// single bulk read. Call once at run start.
func (d *Dedup) Seed(ctx context.Context, repo storage.Repository) (int, error) {
	emails, err := repo.EmailKeys(ctx)
	if err != nil {
		return 0, err
	}
	for _, e := range emails {
		d.seen[identityKey(e)] = struct{}{}
	}
	return len(emails), nil
}

// ShouldAccept reports whether this email is new, i.e. absent from both the
// store snapshot and the earlier rows of this run. On true the caller must
// MarkAccepted exactly once before the next check.
func (d *Dedup) ShouldAccept(email string) bool {
	_, dup := d.seen[identityKey(email)]
	return !dup
}

// MarkAccepted records the email as taken for the remainder of the run.
func (d *Dedup) MarkAccepted(email string) {
	d.seen[identityKey(email)] = struct{}{}
}

// Len returns the current size of the identity set.
func (d *Dedup) Len() int { return len(d.seen) }
