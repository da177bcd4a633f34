package session

import (
	"path/filepath"
	"testing"
)

// NewTestStore creates a fresh session store backed by a temp directory.
func NewTestStore(t *testing.T) *Store {
	t.Helper()

	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "session.sqlite3"), filepath.Join(dir, "session.key"))
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}

	t.Cleanup(func() { store.Close() })

	return store
}
