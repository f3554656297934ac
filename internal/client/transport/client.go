// Package transport is the authenticated HTTP client the router and the
// sync engine issue live requests through. It joins endpoints onto the
// configured base URL, encodes JSON bodies, attaches the stored bearer
// token, and maps failures onto the shared error taxonomy.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/arogyahealth/arogya-go/internal/client/metadata"
	"github.com/arogyahealth/arogya-go/internal/common"
	"github.com/arogyahealth/arogya-go/internal/logging"
)

// StatusError reports a non-2xx backend response. It wraps the response
// body so callers can surface backend validation messages.
type StatusError struct {
	Code int
	Body []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Code, string(e.Body))
}

// Client issues REST calls against the Arogya backend.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  metadata.Repository
	logger  logging.Logger
}

// NewClient returns a Client for the given base URL (e.g.
// "https://api.example.org/api/v1"). Tokens are read from and cleared in
// the metadata repository. httpClient may be nil; http.DefaultClient is
// used then.
func NewClient(baseURL string, tokens metadata.Repository, httpClient *http.Client, logger logging.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		logger:  logger,
	}
}

// RequestOption mutates an outgoing request before it is sent.
type RequestOption func(*http.Request)

// WithIdempotencyKey attaches the Idempotency-Key header so the backend
// can deduplicate a replayed mutation.
func WithIdempotencyKey(key string) RequestOption {
	return func(req *http.Request) {
		if key != "" {
			req.Header.Set("Idempotency-Key", key)
		}
	}
}

// Do issues one JSON request. body may be nil. A nil error means a 2xx
// response; its decoded body (possibly empty) is returned. Transport
// failures wrap common.ErrNetwork, 401 clears the stored token and wraps
// common.ErrUnauthorized, other statuses return a *StatusError.
func (c *Client) Do(ctx context.Context, method, endpoint string, body json.RawMessage, opts ...RequestOption) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := c.attachToken(ctx, req); err != nil {
		c.logger.Warn(ctx, "could not attach access token", "error", err)
	}

	for _, opt := range opts {
		opt(req)
	}

	return c.send(ctx, req)
}

// PostForm issues a form-encoded POST, used by the token endpoint.
func (c *Client) PostForm(ctx context.Context, endpoint string, form url.Values) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.send(ctx, req)
}

// Ping probes backend reachability via the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: health probe returned %d", common.ErrNetwork, resp.StatusCode)
	}
	return nil
}

func (c *Client) send(ctx context.Context, req *http.Request) (json.RawMessage, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", common.ErrNetwork, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Mirror the mobile interceptor: a rejected token is discarded so
		// the next login starts clean.
		if err := c.tokens.Delete(ctx, common.TokenMetadataKey); err != nil {
			c.logger.Warn(ctx, "could not clear rejected token", "error", err)
		}
		return nil, fmt.Errorf("%w: %s", common.ErrUnauthorized, strings.TrimSpace(string(respBody)))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: respBody}
	}

	return json.RawMessage(respBody), nil
}

// ClearToken drops the persisted access token.
func (c *Client) ClearToken(ctx context.Context) error {
	return c.tokens.Delete(ctx, common.TokenMetadataKey)
}

// IsRetryableFailure reports whether err represents a failed live attempt
// (transport error or backend non-2xx) rather than a local fault or
// rejected credentials. The sync engine keeps replaying past retryable
// failures and aborts the pass on anything else.
func IsRetryableFailure(err error) bool {
	var se *StatusError
	return errors.Is(err, common.ErrNetwork) || errors.As(err, &se)
}
