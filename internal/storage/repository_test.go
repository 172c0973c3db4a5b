package storage

import (
	"context"
	"strings"
	"testing"
)

func TestNewUnknownKind(t *testing.T) {
	_, err := New(context.Background(), Config{Kind: "cassandra"})
	if err == nil {
		t.Fatal("expected error for unregistered kind")
	}
	if !strings.Contains(err.Error(), "cassandra") {
		t.Errorf("error should name the kind: %v", err)
	}
}

func TestRegisterAndNew(t *testing.T) {
	called := false
	Register("fake", func(ctx context.Context, cfg Config) (Repository, error) {
		called = true
		return nil, nil
	})
	if _, err := New(context.Background(), Config{Kind: "fake"}); err != nil {
		t.Fatalf("New: %v", err)
	}
	if !called {
		t.Error("constructor was not invoked")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("duplicate registration did not panic")
		}
	}()
	Register("dup", func(ctx context.Context, cfg Config) (Repository, error) { return nil, nil })
	Register("dup", func(ctx context.Context, cfg Config) (Repository, error) { return nil, nil })
}

func TestWriteModeValid(t *testing.T) {
	tests := []struct {
		mode WriteMode
		want bool
	}{
		{ModeInsert, true},
		{ModeUpsert, true},
		{WriteMode(""), false},
		{WriteMode("merge"), false},
	}
	for _, tt := range tests {
		if got := tt.mode.Valid(); got != tt.want {
			t.Errorf("WriteMode(%q).Valid() = %v, want %v", tt.mode, got, tt.want)
		}
	}
}
