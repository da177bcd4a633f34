package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mitindbo/indbo/internal/session"
)

// ErrNotAuthenticated means no usable token exists: the user has to log in
// before any request can be sent.
var ErrNotAuthenticated = errors.New("ikke logget ind")

// ProviderError is an error response from the identity provider's token
// endpoint.
type ProviderError struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (e *ProviderError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Description)
	}
	return e.Code
}

// Endpoints are the identity provider URLs the client talks to.
type Endpoints struct {
	AuthorizeURL string
	TokenURL     string
	LogoutURL    string
}

// EndpointsForDomain derives the standard endpoints from a provider domain.
func EndpointsForDomain(domain string) Endpoints {
	base := "https://" + domain
	return Endpoints{
		AuthorizeURL: base + "/authorize",
		TokenURL:     base + "/oauth/token",
		LogoutURL:    base + "/v2/logout",
	}
}

// Provider handles the redirect-based login flow against the external
// identity provider and hands out current access tokens for API requests.
type Provider struct {
	endpoints   Endpoints
	clientID    string
	audience    string
	redirectURL string

	store *session.Store
	http  *http.Client
	now   func() time.Time
}

// New creates a Provider backed by the given session store.
func New(endpoints Endpoints, clientID, audience, redirectURL string, store *session.Store) *Provider {
	return &Provider{
		endpoints:   endpoints,
		clientID:    clientID,
		audience:    audience,
		redirectURL: redirectURL,
		store:       store,
		http:        &http.Client{Timeout: 30 * time.Second},
		now:         time.Now,
	}
}

// NewState generates a fresh state nonce for a login redirect.
func NewState() string {
	return uuid.New().String()
}

// LoginURL builds the browser URL that starts the login redirect.
func (p *Provider) LoginURL(state string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", p.clientID)
	q.Set("redirect_uri", p.redirectURL)
	q.Set("scope", "openid profile offline_access")
	q.Set("state", state)
	if p.audience != "" {
		q.Set("audience", p.audience)
	}
	return p.endpoints.AuthorizeURL + "?" + q.Encode()
}

// Exchange trades an authorization code for a token pair and caches it.
func (p *Provider) Exchange(ctx context.Context, code string) (*session.TokenPair, error) {
	tokens, err := p.tokenRequest(ctx, url.Values{
		"grant_type":   {"authorization_code"},
		"client_id":    {p.clientID},
		"code":         {code},
		"redirect_uri": {p.redirectURL},
	})
	if err != nil {
		return nil, fmt.Errorf("exchanging code: %w", err)
	}
	if err := p.store.SaveTokens(ctx, tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// AccessToken implements the token source for API requests: silent retrieval
// of a current token. It returns the cached access token while it is fresh,
// refreshes it via the refresh grant when it is not, and fails with
// ErrNotAuthenticated when neither is possible.
func (p *Provider) AccessToken(ctx context.Context) (string, error) {
	tokens, err := p.store.Tokens(ctx)
	if err != nil {
		return "", err
	}
	if tokens == nil {
		return "", ErrNotAuthenticated
	}

	if stillValid(tokens.AccessToken, p.now()) {
		return tokens.AccessToken, nil
	}
	if tokens.RefreshToken == "" {
		return "", ErrNotAuthenticated
	}

	fresh, err := p.tokenRequest(ctx, url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {p.clientID},
		"refresh_token": {tokens.RefreshToken},
	})
	if err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) {
			// The provider rejected the refresh token: the session is gone.
			return "", fmt.Errorf("%w (%v)", ErrNotAuthenticated, perr)
		}
		return "", fmt.Errorf("refreshing token: %w", err)
	}

	// Providers that don't rotate refresh tokens omit them from the response.
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = tokens.RefreshToken
	}
	if err := p.store.SaveTokens(ctx, fresh); err != nil {
		return "", err
	}
	return fresh.AccessToken, nil
}

// Logout clears the local session, records the pending-logout marker, and
// returns the provider's logout URL (with the post-logout return URL) for the
// browser to visit.
func (p *Provider) Logout(ctx context.Context) (string, error) {
	if err := p.store.SetPendingLogout(ctx); err != nil {
		return "", err
	}
	if err := p.store.ClearTokens(ctx); err != nil {
		return "", err
	}

	returnTo := p.redirectURL
	if u, err := url.Parse(p.redirectURL); err == nil {
		returnTo = u.Scheme + "://" + u.Host
	}

	q := url.Values{}
	q.Set("client_id", p.clientID)
	q.Set("returnTo", returnTo)
	return p.endpoints.LogoutURL + "?" + q.Encode(), nil
}

// tokenRequest posts a form to the token endpoint and decodes the response.
func (p *Provider) tokenRequest(ctx context.Context, form url.Values) (*session.TokenPair, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoints.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling token endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		perr := &ProviderError{}
		if err := json.NewDecoder(resp.Body).Decode(perr); err != nil || perr.Code == "" {
			perr.Code = fmt.Sprintf("http %d", resp.StatusCode)
		}
		return nil, perr
	}

	tokens := &session.TokenPair{}
	if err := json.NewDecoder(resp.Body).Decode(tokens); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}
	if tokens.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access token")
	}
	return tokens, nil
}
