package testsupport

import (
	"context"
	"testing"

	"shelver/internal/records"
)

// MustOpenStore opens a records.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB) *records.Store {
	t.Helper()

	store, err := records.Open()
	if err != nil {
		t.Fatalf("records.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewRecord creates a queued record for tests using the provided store.
func NewRecord(t testing.TB, store *records.Store, path string) *records.FileRecord {
	t.Helper()

	record, err := store.Create(context.Background(), path)
	if err != nil {
		t.Fatalf("store.Create: %v", err)
	}
	return record
}
