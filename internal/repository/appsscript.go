// Package repository retrieves the live college dataset from the Google
// Apps Script web app that fronts the institutional spreadsheet.
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Fetch failures surface to the prompt as an inline error marker, never as
// a Go error. The messages match what the model is told to reason about.
const (
	errNotConfigured = "Could not fetch live data. APPS_SCRIPT_URL not configured."
	errFetchFailed   = "Could not fetch live data."
)

const maxBodyBytes = 4 << 20

// Client wraps the Apps Script endpoint for dataset retrieval.
type Client struct {
	url        string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a Client. An empty URL is allowed: it marks the data source
// as unconfigured and every Fetch returns the error map.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:        strings.TrimSpace(url),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs a single GET against the configured endpoint and decodes
// the JSON body. It never returns an error: a missing URL, transport
// failure, non-2xx status, or malformed body all collapse to a map holding
// an "error" key, which callers treat as the unusable-data signal. Numbers
// decode as json.Number so the compact re-encoding keeps their literals.
func (c *Client) Fetch(ctx context.Context) map[string]any {
	if c.url == "" {
		return map[string]any{"error": errNotConfigured}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		slog.Error("building data source request failed", "err", err)
		return map[string]any{"error": errFetchFailed}
	}

	res, err := c.resolvedHTTPClient().Do(req)
	if err != nil {
		slog.Error("data source request failed", "err", err)
		return map[string]any{"error": errFetchFailed}
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		slog.Error("data source returned unexpected status", "status", res.StatusCode)
		return map[string]any{"error": errFetchFailed}
	}

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		slog.Error("reading data source body failed", "err", err)
		return map[string]any{"error": errFetchFailed}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		slog.Error("decoding data source body failed", "err", err)
		return map[string]any{"error": errFetchFailed}
	}
	return data
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}
