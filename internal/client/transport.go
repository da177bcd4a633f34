package client

import (
	"log/slog"
	"net/http"
	"time"
)

// loggingTransport logs every API request with method, path, status, and
// duration.
type loggingTransport struct {
	next http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	if err != nil {
		slog.Debug("api request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"error", err,
			"duration", time.Since(start).Round(time.Millisecond))
		return nil, err
	}
	slog.Debug("api request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", time.Since(start).Round(time.Millisecond))
	return resp, nil
}
