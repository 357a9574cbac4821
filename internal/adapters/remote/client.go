// Package remote talks to the optional identity/profile service. Every
// call is best-effort; callers log failures and carry on with local state.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/okian/debut/internal/domain/agency"
)

const (
	defaultTimeout = 5 * time.Second
	maxErrorBody   = 512
)

// Profile is the caller's remote profile.
type Profile struct {
	Name       string `json:"name"`
	LastPlayed *int64 `json:"lastPlayed,omitempty"`
}

// Client is the remote profile/agency collaborator.
type Client interface {
	GetProfile(ctx context.Context) (*Profile, error)
	SaveProfile(ctx context.Context, p Profile) error
	ListAgencies(ctx context.Context) ([]agency.Agency, error)
	SelectAgency(ctx context.Context, name string) error
	CreateAgency(ctx context.Context, name, description string) error
}

// HTTPClient implements Client over JSON/HTTP.
type HTTPClient struct {
	base    *url.URL
	http    *http.Client
	timeout time.Duration
	token   string
}

// Option applies a configuration option to the HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) {
		if c != nil {
			h.http = c
		}
	}
}

// WithTimeout sets the per-request timeout. A client passed through
// WithHTTPClient is copied, never modified.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) {
		if d > 0 {
			h.timeout = d
		}
	}
}

// WithBearerToken authenticates requests as the caller.
func WithBearerToken(token string) Option {
	return func(h *HTTPClient) {
		h.token = strings.TrimSpace(token)
	}
}

// NewHTTPClient creates a client for the service at baseURL.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, baseURL)
	}
	c := &HTTPClient{base: u, http: &http.Client{Timeout: defaultTimeout}}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 && c.http.Timeout != c.timeout {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

type agencyRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// GetProfile returns the caller's profile, or nil when none exists.
func (c *HTTPClient) GetProfile(ctx context.Context) (*Profile, error) {
	var p Profile
	found, err := c.do(ctx, http.MethodGet, "/profile", nil, &p)
	if err != nil || !found {
		return nil, err
	}
	return &p, nil
}

// SaveProfile stores the caller's profile.
func (c *HTTPClient) SaveProfile(ctx context.Context, p Profile) error {
	_, err := c.do(ctx, http.MethodPut, "/profile", p, nil)
	return err
}

// ListAgencies returns every agency the service knows.
func (c *HTTPClient) ListAgencies(ctx context.Context) ([]agency.Agency, error) {
	var out []agency.Agency
	if _, err := c.do(ctx, http.MethodGet, "/agencies", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SelectAgency records a predefined agency as the caller's choice.
func (c *HTTPClient) SelectAgency(ctx context.Context, name string) error {
	_, err := c.do(ctx, http.MethodPost, "/agency/select", agencyRequest{Name: name}, nil)
	return err
}

// CreateAgency records a custom agency as the caller's choice.
func (c *HTTPClient) CreateAgency(ctx context.Context, name, description string) error {
	_, err := c.do(ctx, http.MethodPost, "/agencies", agencyRequest{Name: name, Description: description}, nil)
	return err
}

// do sends one request. A 404 or 204 on GET reports found=false.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) (bool, error) {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return false, fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), body)
	if err != nil {
		return false, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if method == http.MethodGet && (resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent) {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return false, &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return true, nil
}
