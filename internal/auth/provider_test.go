package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mitindbo/indbo/internal/session"
)

// makeToken signs a throwaway HS256 token with the given expiry. Only the
// claims matter: the client never verifies signatures.
func makeToken(t *testing.T, sub string, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: jwt.NewNumericDate(exp),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

func testProvider(t *testing.T, tokenURL string) (*Provider, *session.Store) {
	t.Helper()
	store := session.NewTestStore(t)
	endpoints := Endpoints{
		AuthorizeURL: "https://idp.example.test/authorize",
		TokenURL:     tokenURL,
		LogoutURL:    "https://idp.example.test/v2/logout",
	}
	p := New(endpoints, "client-123", "mit-indbo-backend", "http://127.0.0.1:53682/callback", store)
	return p, store
}

func TestExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := makeToken(t, "user-1", exp)

	got, err := Expiry(token)
	if err != nil {
		t.Fatalf("Expiry: %v", err)
	}
	if !got.Equal(exp) {
		t.Errorf("expected expiry %v, got %v", exp, got)
	}

	if _, err := Expiry("not-a-token"); err == nil {
		t.Error("expected error for garbage token")
	}
}

func TestAccessTokenUsesCachedWhileFresh(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		http.Error(w, "should not be called", http.StatusInternalServerError)
	}))
	defer server.Close()

	p, store := testProvider(t, server.URL)
	ctx := context.Background()

	fresh := makeToken(t, "user-1", time.Now().Add(time.Hour))
	store.SaveTokens(ctx, &session.TokenPair{AccessToken: fresh, RefreshToken: "refresh-1"})

	got, err := p.AccessToken(ctx)
	if err != nil {
		t.Fatalf("AccessToken: %v", err)
	}
	if got != fresh {
		t.Error("expected cached token")
	}
	if called {
		t.Error("token endpoint should not be hit for a fresh token")
	}
}

func TestAccessTokenRefreshesExpired(t *testing.T) {
	renewed := makeToken(t, "user-1", time.Now().Add(time.Hour))
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parsing form: %v", err)
		}
		if grant := r.PostForm.Get("grant_type"); grant != "refresh_token" {
			t.Errorf("expected refresh_token grant, got %q", grant)
		}
		if rt := r.PostForm.Get("refresh_token"); rt != "refresh-1" {
			t.Errorf("unexpected refresh token %q", rt)
		}
		json.NewEncoder(w).Encode(map[string]string{"access_token": renewed})
	}))
	defer server.Close()

	p, store := testProvider(t, server.URL)
	ctx := context.Background()

	expired := makeToken(t, "user-1", time.Now().Add(-time.Minute))
	store.SaveTokens(ctx, &session.TokenPair{AccessToken: expired, RefreshToken: "refresh-1"})

	got, err := p.AccessToken(ctx)
	if err != nil {
		t.Fatalf("AccessToken: %v", err)
	}
	if got != renewed {
		t.Error("expected renewed token")
	}

	// The renewed pair is cached, and the old refresh token is kept when the
	// provider doesn't rotate it.
	cached, _ := store.Tokens(ctx)
	if cached.AccessToken != renewed {
		t.Error("renewed token not cached")
	}
	if cached.RefreshToken != "refresh-1" {
		t.Errorf("expected refresh token to survive, got %q", cached.RefreshToken)
	}
}

func TestAccessTokenFailsWithoutSession(t *testing.T) {
	p, _ := testProvider(t, "http://127.0.0.1:0")

	_, err := p.AccessToken(context.Background())
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestAccessTokenRejectedRefreshMeansLoggedOut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid_grant"})
	}))
	defer server.Close()

	p, store := testProvider(t, server.URL)
	ctx := context.Background()

	expired := makeToken(t, "user-1", time.Now().Add(-time.Minute))
	store.SaveTokens(ctx, &session.TokenPair{AccessToken: expired, RefreshToken: "refresh-1"})

	_, err := p.AccessToken(ctx)
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("expected ErrNotAuthenticated, got %v", err)
	}
}

func TestLoginURL(t *testing.T) {
	p, _ := testProvider(t, "http://127.0.0.1:0")

	raw := p.LoginURL("state-abc")
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parsing login URL: %v", err)
	}

	q := u.Query()
	for key, want := range map[string]string{
		"response_type": "code",
		"client_id":     "client-123",
		"redirect_uri":  "http://127.0.0.1:53682/callback",
		"audience":      "mit-indbo-backend",
		"state":         "state-abc",
	} {
		if got := q.Get(key); got != want {
			t.Errorf("query %s = %q, want %q", key, got, want)
		}
	}
	if !strings.Contains(q.Get("scope"), "offline_access") {
		t.Error("expected offline_access scope for refresh tokens")
	}
}

func TestLogout(t *testing.T) {
	p, store := testProvider(t, "http://127.0.0.1:0")
	ctx := context.Background()

	store.SaveTokens(ctx, &session.TokenPair{AccessToken: "a", RefreshToken: "r"})

	logoutURL, err := p.Logout(ctx)
	if err != nil {
		t.Fatalf("Logout: %v", err)
	}

	u, _ := url.Parse(logoutURL)
	if got := u.Query().Get("returnTo"); got != "http://127.0.0.1:53682" {
		t.Errorf("returnTo = %q", got)
	}

	tokens, _ := store.Tokens(ctx)
	if tokens != nil {
		t.Error("expected tokens cleared after logout")
	}

	pending, _ := store.TakePendingLogout(ctx)
	if !pending {
		t.Error("expected pending-logout marker set")
	}
}
