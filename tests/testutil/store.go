package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/tudu/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T, opts ...store.Option) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(store.MemoryPath, opts...)
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	if _, err := s.ApplyMigrations(context.Background()); err != nil {
		t.Fatalf("migrating test store: %v", err)
	}

	return s
}

// FixedClock returns a clock that always reports t. Store timestamps still
// advance by one nanosecond per mutation of the same row.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
