// Package client implements the data access client for the Mit Indbo backend
// API. Every operation obtains a current access token first and attaches it as
// a bearer credential; if no token can be obtained the request is never sent.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TokenSource supplies a current access token for outgoing requests.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// FallbackMessage is the user-facing error text when the server provides no
// detail of its own.
const FallbackMessage = "Der opstod en fejl. Prøv igen senere."

// ErrNotFound matches 404 responses, so callers can branch on missing records
// with errors.Is.
var ErrNotFound = errors.New("findes ikke")

// APIError is a failed backend response.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return FallbackMessage
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client issues authenticated requests against the backend API.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
}

// New creates a client for the API at baseURL.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http: &http.Client{
			Timeout:   30 * time.Second,
			Transport: &loggingTransport{next: http.DefaultTransport},
		},
	}
}

// errorBody covers the error shapes the backend produces.
type errorBody struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

// do runs one authenticated request. body (if non-nil) is sent as JSON and
// out (if non-nil) receives the decoded response.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return fmt.Errorf("henter adgangstoken: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var eb errorBody
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil {
			if eb.Detail != "" {
				apiErr.Detail = eb.Detail
			} else {
				apiErr.Detail = eb.Error
			}
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
