package ingest

import (
	"context"
	"fmt"
	"testing"

	"github.com/Dotunbey/feedback-os/internal/contacts"
	"github.com/Dotunbey/feedback-os/internal/storage"
)

func mkContacts(n int) []contacts.Contact {
	out := make([]contacts.Contact, n)
	for i := range out {
		out[i] = contacts.Contact{Email: fmt.Sprintf("u%d@x.com", i)}
	}
	return out
}

func TestBatchWriterChunking(t *testing.T) {
	repo := &fakeRepo{}
	w := &BatchWriter{Repo: repo, Mode: storage.ModeInsert, ChunkSize: 500}

	reports := w.Write(context.Background(), mkContacts(1200))

	if len(reports) != 3 {
		t.Fatalf("got %d chunks, want 3", len(reports))
	}
	wantSizes := []int{500, 500, 200}
	for i, r := range reports {
		if r.Size != wantSizes[i] || r.Err != nil {
			t.Errorf("chunk %d = {size %d, err %v}, want size %d, no error", i, r.Size, r.Err, wantSizes[i])
		}
	}
	if len(repo.writes) != 3 {
		t.Errorf("store saw %d writes, want 3", len(repo.writes))
	}
	// Order within and across chunks is preserved.
	if repo.writes[2][199].Email != "u1199@x.com" {
		t.Errorf("last record = %q, want u1199@x.com", repo.writes[2][199].Email)
	}
}

func TestBatchWriterIsolatesChunkFailure(t *testing.T) {
	repo := &fakeRepo{failCalls: map[int]error{1: contacts.Storef("copy failed")}}
	w := &BatchWriter{Repo: repo, Mode: storage.ModeInsert, ChunkSize: 500}

	reports := w.Write(context.Background(), mkContacts(1200))

	if len(repo.writes) != 3 {
		t.Fatalf("store saw %d writes, want all 3 attempted", len(repo.writes))
	}
	if reports[0].Err != nil || reports[2].Err != nil {
		t.Errorf("healthy chunks reported errors: %v, %v", reports[0].Err, reports[2].Err)
	}
	if reports[1].Err == nil {
		t.Error("failed chunk not reported")
	}
	if got := FailedRows(reports); got != 500 {
		t.Errorf("FailedRows = %d, want 500", got)
	}
}

func TestBatchWriterEmptyInput(t *testing.T) {
	repo := &fakeRepo{}
	w := &BatchWriter{Repo: repo, Mode: storage.ModeUpsert}
	if reports := w.Write(context.Background(), nil); len(reports) != 0 {
		t.Errorf("got %d reports for empty input", len(reports))
	}
	if len(repo.writes) != 0 {
		t.Errorf("store saw %d writes for empty input", len(repo.writes))
	}
}

func TestBatchWriterPassesMode(t *testing.T) {
	repo := &fakeRepo{}
	w := &BatchWriter{Repo: repo, Mode: storage.ModeUpsert, ChunkSize: 10}
	w.Write(context.Background(), mkContacts(5))
	if len(repo.modes) != 1 || repo.modes[0] != storage.ModeUpsert {
		t.Errorf("modes = %v, want [upsert]", repo.modes)
	}
}

func TestBatchWriterConcurrentDispatchKeepsAttribution(t *testing.T) {
	repo := &fakeRepo{}
	w := &BatchWriter{Repo: repo, Mode: storage.ModeInsert, ChunkSize: 100, Concurrency: 4}

	reports := w.Write(context.Background(), mkContacts(1000))

	if len(reports) != 10 {
		t.Fatalf("got %d chunks, want 10", len(reports))
	}
	for i, r := range reports {
		if r.Index != i {
			t.Errorf("report %d has index %d", i, r.Index)
		}
		if r.Size != 100 {
			t.Errorf("chunk %d size = %d, want 100", i, r.Size)
		}
	}
}
