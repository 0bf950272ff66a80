// Package client is a typed HTTP client for the review backend.
//
// It is a request/response shim: it builds requests, decodes and normalizes
// responses, and maps unsuccessful responses to *TransportError. It holds
// no session state.
package client

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
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/zerebom/revural/internal/core/logging"
)

// DefaultTimeout bounds a single request when no http.Client is supplied.
const DefaultTimeout = 30 * time.Second

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// TransportError is returned for network failures and non-2xx responses.
// StatusCode is 0 when no response was received.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsStatus reports whether err is a TransportError with the given HTTP status.
func IsStatus(err error, code int) bool {
	var te *TransportError
	return errors.As(err, &te) && te.StatusCode == code
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// Client talks JSON over HTTP to the review backend.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// New creates a client for baseURL, for example "http://localhost:8000".
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     logging.Component("client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends a request and decodes a JSON response into out. in and out may
// be nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, requestID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Ctx(ctx).Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Debug().Ctx(ctx).Err(err).Msg("close response body")
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	c.log.Debug().
		Ctx(ctx).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &TransportError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func reviewPath(reviewID string, parts ...string) string {
	var b strings.Builder
	b.WriteString("/reviews/")
	b.WriteString(url.PathEscape(reviewID))
	for _, p := range parts {
		b.WriteByte('/')
		b.WriteString(p)
	}
	return b.String()
}

func issuePath(reviewID, issueID, action string) string {
	return reviewPath(reviewID, "issues", url.PathEscape(issueID), action)
}
