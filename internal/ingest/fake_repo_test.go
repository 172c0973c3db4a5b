package ingest

import (
	"context"
	"sync"

	"github.com/Dotunbey/feedback-os/internal/contacts"
	"github.com/Dotunbey/feedback-os/internal/search"
	"github.com/Dotunbey/feedback-os/internal/storage"
)

// fakeRepo records bulk writes and serves a fixed email snapshot. failChunk
// marks write-call ordinals (0-based) that should fail.
type fakeRepo struct {
	mu        sync.Mutex
	emails    []string
	writes    [][]contacts.Contact
	modes     []storage.WriteMode
	failCalls map[int]error
	seedErr   error
}

func (f *fakeRepo) EmailKeys(ctx context.Context) ([]string, error) {
	if f.seedErr != nil {
		return nil, f.seedErr
	}
	return f.emails, nil
}

func (f *fakeRepo) BulkWrite(ctx context.Context, recs []contacts.Contact, mode storage.WriteMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	call := len(f.writes)
	f.writes = append(f.writes, append([]contacts.Contact(nil), recs...))
	f.modes = append(f.modes, mode)
	if err, ok := f.failCalls[call]; ok {
		return err
	}
	return nil
}

func (f *fakeRepo) CountAndFetch(ctx context.Context, pred search.Predicate, rng search.Range) ([]contacts.Contact, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) InsertLink(ctx context.Context, link contacts.WorkspaceLink) (string, error) {
	return "", nil
}

func (f *fakeRepo) ListLinksJoined(ctx context.Context, tenantID string, rng search.Range) ([]contacts.WorkspaceLink, int, error) {
	return nil, 0, nil
}

func (f *fakeRepo) Close() {}
