// Package storage defines the backend-agnostic repository contract for the
// contact directory and a small factory so that callers select a backend by
// kind without importing driver packages. Concrete backends live in
// subpackages and register themselves at init time.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/Dotunbey/feedback-os/internal/contacts"
	"github.com/Dotunbey/feedback-os/internal/search"
)

// WriteMode selects the store-level conflict policy for bulk writes. The
// mode is explicit per ingestion run, never inferred.
type WriteMode string

const (
	// ModeInsert rejects any record whose email already exists. Safe only
	// because the deduplicator has filtered such rows first.
	ModeInsert WriteMode = "insert"

	// ModeUpsert lets a later run overwrite an existing record with the
	// same email. A materially different conflict policy from ModeInsert.
	ModeUpsert WriteMode = "upsert"
)

// Valid reports whether m is a known write mode.
func (m WriteMode) Valid() bool { return m == ModeInsert || m == ModeUpsert }

// Repository is the store collaborator. All methods operate on the global
// (ownerless) contact partition unless a tenant id says otherwise.
type Repository interface {
	// CountAndFetch runs the compiled predicate twice against the same
	// intent: once for the exact total count and once for the ranged page,
	// ordered by creation time descending.
	CountAndFetch(ctx context.Context, pred search.Predicate, rng search.Range) ([]contacts.Contact, int, error)

	// BulkWrite submits one chunk of records as a single atomic write.
	BulkWrite(ctx context.Context, recs []contacts.Contact, mode WriteMode) error

	// EmailKeys returns every email currently stored in the ownerless
	// partition, for seeding the per-run dedup set in one round trip.
	EmailKeys(ctx context.Context) ([]string, error)

	// InsertLink saves a tenant→contact workspace link and returns its id.
	// Fails with contacts.ErrConflict when the pair exists and
	// contacts.ErrBadReference when either id does not.
	InsertLink(ctx context.Context, link contacts.WorkspaceLink) (string, error)

	// ListLinksJoined returns the tenant's links with each joined contact,
	// newest first, plus the exact total.
	ListLinksJoined(ctx context.Context, tenantID string, rng search.Range) ([]contacts.WorkspaceLink, int, error)

	// Close releases the backend's resources.
	Close()
}

// SchemaEnsurer is implemented by backends that can create their own schema.
// Callers type-assert when auto-create is enabled.
type SchemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

// Config selects and configures a backend.
type Config struct {
	Kind string // e.g. "postgres"
	DSN  string
}

// Constructor builds a Repository from a Config.
type Constructor func(ctx context.Context, cfg Config) (Repository, error)

var (
	regMu    sync.RWMutex
	registry = map[string]Constructor{}
)

// Register installs a backend constructor under kind. Called from backend
// package init functions; panics on duplicate registration.
func Register(kind string, fn Constructor) {
	regMu.Lock()
	defer regMu.Unlock()
	if _, dup := registry[kind]; dup {
		panic(fmt.Sprintf("storage: duplicate registration for kind %q", kind))
	}
	registry[kind] = fn
}

// New constructs the backend named by cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	regMu.RLock()
	fn, ok := registry[cfg.Kind]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: unknown kind %q (registered: %v)", cfg.Kind, Kinds())
	}
	return fn(ctx, cfg)
}

// Kinds lists registered backend kinds, sorted.
func Kinds() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
