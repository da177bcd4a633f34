package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/mitindbo/indbo/internal/session"
)

// Authorize runs the full redirect login flow: it serves the loopback
// redirect endpoint, hands the browser URL to launch, and waits for the
// provider to redirect back with the authorization code, which it then
// exchanges and caches.
func (p *Provider) Authorize(ctx context.Context, launch func(url string) error) (*session.TokenPair, error) {
	redirect, err := url.Parse(p.redirectURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redirect URL: %w", err)
	}

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", redirect.Host, err)
	}

	state := NewState()

	type callback struct {
		code string
		err  error
	}
	results := make(chan callback, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "ugyldig state", http.StatusBadRequest)
			results <- callback{err: fmt.Errorf("state mismatch in callback")}
		case q.Get("error") != "":
			http.Error(w, q.Get("error"), http.StatusBadRequest)
			results <- callback{err: &ProviderError{
				Code:        q.Get("error"),
				Description: q.Get("error_description"),
			}}
		default:
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			fmt.Fprintln(w, "Du er logget ind. Du kan lukke dette vindue.")
			results <- callback{code: q.Get("code")}
		}
	})

	server := &http.Server{Handler: mux}
	go server.Serve(listener)
	defer server.Close()

	if err := launch(p.LoginURL(state)); err != nil {
		return nil, fmt.Errorf("opening browser: %w", err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-results:
		if result.err != nil {
			return nil, result.err
		}
		return p.Exchange(ctx, result.code)
	}
}
