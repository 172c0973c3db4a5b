package contacts

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Callers branch with errors.Is; wrapping sites attach
// context with fmt.Errorf("...: %w", ...).
var (
	// ErrValidation marks a row or request that failed structural checks.
	// The offending item is dropped; nothing is written.
	ErrValidation = errors.New("validation failed")

	// ErrConflict marks an identity that already exists (duplicate email,
	// duplicate tenant/contact link).
	ErrConflict = errors.New("identity conflict")

	// ErrBadReference marks an operation that referenced a tenant or contact
	// id that does not exist.
	ErrBadReference = errors.New("referenced id does not exist")

	// ErrStore marks a store-side failure (connection, constraint other than
	// the ones above, malformed payload). Chunk-scoped during ingestion.
	ErrStore = errors.New("store operation failed")
)

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, a...)...)
}

// Storef wraps ErrStore with a formatted message.
func Storef(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrStore}, a...)...)
}
