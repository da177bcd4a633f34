package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestTokensRoundTrip(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()

	// Empty store has no tokens.
	tokens, err := store.Tokens(ctx)
	if err != nil {
		t.Fatalf("Tokens: %v", err)
	}
	if tokens != nil {
		t.Fatalf("expected no tokens, got %+v", tokens)
	}

	pair := &TokenPair{AccessToken: "access-123", RefreshToken: "refresh-456"}
	if err := store.SaveTokens(ctx, pair); err != nil {
		t.Fatalf("SaveTokens: %v", err)
	}

	got, err := store.Tokens(ctx)
	if err != nil {
		t.Fatalf("Tokens: %v", err)
	}
	if got.AccessToken != "access-123" || got.RefreshToken != "refresh-456" {
		t.Errorf("token round trip mismatch: %+v", got)
	}

	// Saving again replaces the pair.
	if err := store.SaveTokens(ctx, &TokenPair{AccessToken: "access-789"}); err != nil {
		t.Fatalf("SaveTokens: %v", err)
	}
	got, _ = store.Tokens(ctx)
	if got.AccessToken != "access-789" || got.RefreshToken != "" {
		t.Errorf("expected replaced pair, got %+v", got)
	}

	if err := store.ClearTokens(ctx); err != nil {
		t.Fatalf("ClearTokens: %v", err)
	}
	got, _ = store.Tokens(ctx)
	if got != nil {
		t.Errorf("expected no tokens after clear, got %+v", got)
	}
}

func TestTokensEncryptedAtRest(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "session.sqlite3")
	store, err := Open(dbPath, filepath.Join(dir, "session.key"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	const secret = "very-secret-access-token"
	if err := store.SaveTokens(ctx, &TokenPair{AccessToken: secret, RefreshToken: "r"}); err != nil {
		t.Fatalf("SaveTokens: %v", err)
	}

	var blob []byte
	err = store.db.QueryRowContext(ctx,
		`SELECT access_token FROM tokens WHERE id = 1`,
	).Scan(&blob)
	if err != nil {
		t.Fatalf("reading raw token blob: %v", err)
	}
	if string(blob) == secret {
		t.Error("access token stored in plaintext")
	}
}

func TestPendingLogoutMarker(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()

	pending, err := store.TakePendingLogout(ctx)
	if err != nil {
		t.Fatalf("TakePendingLogout: %v", err)
	}
	if pending {
		t.Error("fresh store should have no pending logout")
	}

	if err := store.SetPendingLogout(ctx); err != nil {
		t.Fatalf("SetPendingLogout: %v", err)
	}

	// First take returns true and clears the marker.
	pending, err = store.TakePendingLogout(ctx)
	if err != nil {
		t.Fatalf("TakePendingLogout: %v", err)
	}
	if !pending {
		t.Error("expected pending logout")
	}

	pending, _ = store.TakePendingLogout(ctx)
	if pending {
		t.Error("marker should be cleared after first take")
	}
}

func TestViewStateRoundTrip(t *testing.T) {
	store := NewTestStore(t)
	ctx := context.Background()

	state, err := store.ViewState(ctx)
	if err != nil {
		t.Fatalf("ViewState: %v", err)
	}
	if *state != (ViewState{}) {
		t.Errorf("expected zero state, got %+v", state)
	}

	want := &ViewState{Query: "tv", TagID: 3, ShowArchived: true}
	if err := store.SaveViewState(ctx, want); err != nil {
		t.Fatalf("SaveViewState: %v", err)
	}

	got, err := store.ViewState(ctx)
	if err != nil {
		t.Fatalf("ViewState: %v", err)
	}
	if *got != *want {
		t.Errorf("view state mismatch: got %+v, want %+v", got, want)
	}
}

func TestKeyFilePermissions(t *testing.T) {
	dir := t.TempDir()
	keyPath := filepath.Join(dir, "session.key")
	store, err := Open(filepath.Join(dir, "session.sqlite3"), keyPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	info, err := os.Stat(keyPath)
	if err != nil {
		t.Fatalf("stat key file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected key file mode 0600, got %o", perm)
	}
}
