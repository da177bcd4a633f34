package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mitindbo/indbo/internal/client"
	"github.com/mitindbo/indbo/internal/config"
	"github.com/mitindbo/indbo/internal/inventory"
	"github.com/mitindbo/indbo/internal/model"
	"github.com/mitindbo/indbo/internal/session"
)

// fakeBackend is an items API that honors include_archived and records every
// request it receives.
type fakeBackend struct {
	mu       sync.Mutex
	items    []model.Item
	requests []string
}

func (b *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.RequestURI())
		b.mu.Unlock()

		switch {
		case r.URL.Path == "/items" && r.Method == http.MethodGet:
			includeArchived := r.URL.Query().Get("include_archived") == "true"
			out := []model.Item{}
			for _, item := range b.items {
				if item.Archived && !includeArchived {
					continue
				}
				out = append(out, item)
			}
			json.NewEncoder(w).Encode(out)
		case r.URL.Path == "/tags" || r.URL.Path == "/places":
			w.Write([]byte("[]"))
		case strings.HasPrefix(r.URL.Path, "/items/") && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(b.items[0])
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})
}

func (b *fakeBackend) received(fragment string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, req := range b.requests {
		if strings.Contains(req, fragment) {
			return true
		}
	}
	return false
}

func testBackend() *fakeBackend {
	return &fakeBackend{
		items: []model.Item{
			{ID: 1, Name: "TV", Tags: []int64{1}},
			{ID: 2, Name: "Sofa", Archived: true, Tags: []int64{1}},
		},
	}
}

type staticTokens struct{}

func (staticTokens) AccessToken(ctx context.Context) (string, error) { return "t", nil }

// testApp wires an app directly against the backend, skipping config and
// session setup.
func testApp(t *testing.T, backend *fakeBackend) (*app, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.APIURL = server.URL
	return &app{cfg: cfg, api: client.New(server.URL, staticTokens{})}, server
}

func TestControllerLoadsArchivedWhenFilterShowsThem(t *testing.T) {
	backend := testBackend()
	a, _ := testApp(t, backend)

	ctrl, err := a.controller(context.Background(), inventory.Filter{ShowArchived: true})
	if err != nil {
		t.Fatalf("controller: %v", err)
	}

	if !backend.received("include_archived=true") {
		t.Fatalf("backend never asked for archived items: %v", backend.requests)
	}

	found := false
	for _, item := range ctrl.View() {
		if item.Name == "Sofa" && item.Archived {
			found = true
		}
	}
	if !found {
		t.Errorf("archived Sofa missing from view: %d rows", len(ctrl.View()))
	}
}

func TestControllerDefaultExcludesArchived(t *testing.T) {
	backend := testBackend()
	a, _ := testApp(t, backend)

	ctrl, err := a.controller(context.Background(), inventory.Filter{})
	if err != nil {
		t.Fatalf("controller: %v", err)
	}

	if backend.received("include_archived=true") {
		t.Error("default load must not request archived items")
	}
	if got := len(ctrl.View()); got != 1 {
		t.Errorf("expected only the active TV, got %d rows", got)
	}
}

// signTestToken issues a throwaway HS256 token; the CLI only reads the claims.
func signTestToken(t *testing.T) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return signed
}

// writeTestConfig creates a config file and a session store with a valid
// token, so commands run without a login round trip.
func writeTestConfig(t *testing.T, apiURL string) string {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.APIURL = apiURL
	cfg.DataDir = filepath.Join(dir, "data")
	cfg.Auth.Domain = "idp.example.test"
	cfg.Auth.ClientID = "client-123"

	path := filepath.Join(dir, "config.toml")
	if err := config.Init(path, cfg); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	store, err := session.Open(cfg.DatabasePath(), cfg.KeyPath())
	if err != nil {
		t.Fatalf("opening session store: %v", err)
	}
	defer store.Close()
	if err := store.SaveTokens(context.Background(), &session.TokenPair{
		AccessToken: signTestToken(t),
	}); err != nil {
		t.Fatalf("seeding tokens: %v", err)
	}

	return path
}

func TestArchiveCommandAsksForConfirmation(t *testing.T) {
	backend := testBackend()
	server := httptest.NewServer(backend.handler())
	defer server.Close()
	cfgPath := writeTestConfig(t, server.URL)

	stdin = strings.NewReader("n\n")
	defer func() { stdin = os.Stdin }()

	rootCmd.SetArgs([]string{"items", "archive", "1", "--config", cfgPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if backend.received("/items/1/archive") {
		t.Error("archive request sent without confirmation")
	}
}

func TestArchiveCommandYesFlagSkipsPrompt(t *testing.T) {
	backend := testBackend()
	server := httptest.NewServer(backend.handler())
	defer server.Close()
	cfgPath := writeTestConfig(t, server.URL)

	rootCmd.SetArgs([]string{"items", "archive", "1", "--yes", "--config", cfgPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !backend.received("POST /items/1/archive") {
		t.Errorf("expected archive request, got %v", backend.requests)
	}
}

func TestListCommandArchivedFlagReachesBackend(t *testing.T) {
	backend := testBackend()
	server := httptest.NewServer(backend.handler())
	defer server.Close()
	cfgPath := writeTestConfig(t, server.URL)

	rootCmd.SetArgs([]string{"items", "list", "--archived", "--config", cfgPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if !backend.received("include_archived=true") {
		t.Errorf("list --archived never fetched archived items: %v", backend.requests)
	}
}
