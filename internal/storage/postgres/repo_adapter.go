// This adapter wires the Postgres backend into the storage factory at init
// time so that callers obtain a Repository via storage.New without importing
// this package directly (they import it for side effects only).
package postgres

import (
	"context"

	"github.com/Dotunbey/feedback-os/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// Ensure Repository satisfies the interface at compile time.
var _ storage.Repository = (*Repository)(nil)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return newRepository(ctx, cfg.DSN)
	})
}
