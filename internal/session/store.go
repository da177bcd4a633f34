package session

import (
	"context"
	"crypto/cipher"
	"database/sql"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Store is the local session state: the token cache (encrypted at rest), the
// pending-logout marker, and saved view settings.
type Store struct {
	db   *sql.DB
	aead cipher.AEAD
}

// TokenPair holds the credentials issued by the identity provider.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Open opens (and if needed creates) the session database at dbPath, using
// the encryption key at keyPath for the token cache.
func Open(dbPath, keyPath string) (*Store, error) {
	key, err := loadOrCreateKey(keyPath)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("initializing cipher: %w", err)
	}

	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, aead: aead}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveTokens persists the token pair, replacing any previous one.
func (s *Store) SaveTokens(ctx context.Context, tokens *TokenPair) error {
	access, err := seal(s.aead, []byte(tokens.AccessToken))
	if err != nil {
		return fmt.Errorf("sealing access token: %w", err)
	}
	refresh, err := seal(s.aead, []byte(tokens.RefreshToken))
	if err != nil {
		return fmt.Errorf("sealing refresh token: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tokens (id, access_token, refresh_token, updated_at)
		 VALUES (1, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(id) DO UPDATE SET
		     access_token = excluded.access_token,
		     refresh_token = excluded.refresh_token,
		     updated_at = CURRENT_TIMESTAMP`,
		access, refresh,
	)
	if err != nil {
		return fmt.Errorf("saving tokens: %w", err)
	}
	return nil
}

// Tokens returns the cached token pair, or nil if none is stored.
func (s *Store) Tokens(ctx context.Context) (*TokenPair, error) {
	var access, refresh []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT access_token, refresh_token FROM tokens WHERE id = 1`,
	).Scan(&access, &refresh)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading tokens: %w", err)
	}

	accessPlain, err := open(s.aead, access)
	if err != nil {
		return nil, fmt.Errorf("opening access token: %w", err)
	}
	refreshPlain, err := open(s.aead, refresh)
	if err != nil {
		return nil, fmt.Errorf("opening refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  string(accessPlain),
		RefreshToken: string(refreshPlain),
	}, nil
}

// ClearTokens drops the cached token pair.
func (s *Store) ClearTokens(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tokens WHERE id = 1`); err != nil {
		return fmt.Errorf("clearing tokens: %w", err)
	}
	return nil
}

const pendingLogoutKey = "pending_logout"

// SetPendingLogout records that a logout redirect is in flight, so the next
// start can route straight to login once logged-out state is confirmed.
func (s *Store) SetPendingLogout(ctx context.Context) error {
	return s.SetSetting(ctx, pendingLogoutKey, "true")
}

// TakePendingLogout reads and clears the pending-logout marker.
func (s *Store) TakePendingLogout(ctx context.Context) (bool, error) {
	value, err := s.Setting(ctx, pendingLogoutKey)
	if err != nil {
		return false, err
	}
	if value != "true" {
		return false, nil
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM settings WHERE key = ?`, pendingLogoutKey,
	); err != nil {
		return false, fmt.Errorf("clearing pending logout: %w", err)
	}
	return true, nil
}

// SetSetting stores a settings value under key.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storing setting %q: %w", key, err)
	}
	return nil
}

// Setting returns the settings value for key, or "" if unset.
func (s *Store) Setting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("querying setting %q: %w", key, err)
	}
	return value, nil
}

const viewStateKey = "view_state"

// ViewState is the last used list-view filter, restored on start.
type ViewState struct {
	Query        string `json:"query,omitempty"`
	TagID        int64  `json:"tag_id,omitempty"`
	ShowArchived bool   `json:"show_archived,omitempty"`
}

// SaveViewState persists the last used filter state.
func (s *Store) SaveViewState(ctx context.Context, state *ViewState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding view state: %w", err)
	}
	return s.SetSetting(ctx, viewStateKey, string(data))
}

// ViewState returns the saved filter state, or a zero state if none exists.
func (s *Store) ViewState(ctx context.Context) (*ViewState, error) {
	value, err := s.Setting(ctx, viewStateKey)
	if err != nil {
		return nil, err
	}
	state := &ViewState{}
	if value == "" {
		return state, nil
	}
	if err := json.Unmarshal([]byte(value), state); err != nil {
		return nil, fmt.Errorf("decoding view state: %w", err)
	}
	return state, nil
}
