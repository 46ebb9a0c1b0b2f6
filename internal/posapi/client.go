// Package posapi is the HTTP client for the POS REST backend.
package posapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// The backend validates money fields as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

const defaultTimeout = 30 * time.Second

// TokenSource supplies the bearer token for each request. An empty token
// sends no Authorization header.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed bearer token.
type StaticToken string

func (t StaticToken) Token() string { return string(t) }

// ObserveFunc receives one call per completed request. route is the path
// template (e.g. "/bills/{id}/pay"), status is 0 for transport failures.
type ObserveFunc func(method, route string, status int, elapsed time.Duration)

// APIError is the normalized form of every failed backend call.
type APIError struct {
	Status  int
	Message string
	Method  string
	Route   string
	Err     error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Route, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Route, e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// NotFound reports a 404 from the backend.
func (e *APIError) NotFound() bool { return e.Status == http.StatusNotFound }

type requestIDKey struct{}

// WithRequestID makes the client forward id as X-Request-ID instead of
// generating one.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, _ := ctx.Value(requestIDKey{}).(string); id != "" {
		return id
	}
	return uuid.NewString()
}

// Client calls the backend. It is safe for concurrent use.
type Client struct {
	baseURL    string
	appKey     string
	tokens     TokenSource
	httpClient *http.Client
	observe    ObserveFunc
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option { return func(cl *Client) { cl.httpClient = c } }
func WithTokenSource(ts TokenSource) Option { return func(cl *Client) { cl.tokens = ts } }
func WithObserver(fn ObserveFunc) Option    { return func(cl *Client) { cl.observe = fn } }
func WithLogger(l *slog.Logger) Option      { return func(cl *Client) { cl.logger = l } }

func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.httpClient = &http.Client{Timeout: d} }
}

// New creates a client for baseURL (for example "https://pos.example/api").
func New(baseURL, appKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		appKey:     appKey,
		tokens:     StaticToken(""),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends one request. route is the path template used for logs and
// metrics; path is the concrete path.
func (c *Client) do(ctx context.Context, method, route, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, route, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, route, err)
	}
	rid := requestID(ctx)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", rid)
	if c.appKey != "" {
		req.Header.Set("App-Key", c.appKey)
	}
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.record(method, route, 0, elapsed, rid)
		return &APIError{Method: method, Route: route, Message: "unknown error", Err: err}
	}
	defer resp.Body.Close()
	c.record(method, route, resp.StatusCode, elapsed, rid)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Status: resp.StatusCode, Method: method, Route: route, Message: "unknown error", Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Method: method, Route: route, Message: errorMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, route, err)
	}
	return nil
}

func (c *Client) record(method, route string, status int, elapsed time.Duration, rid string) {
	c.logger.Debug("backend call", "method", method, "route", route, "status", status, "duration", elapsed, "request_id", rid)
	if c.observe != nil {
		c.observe(method, route, status, elapsed)
	}
}

// errorMessage extracts the backend's "message" field.
func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Message != "" {
		return body.Message
	}
	return "unknown error"
}

// IsNotFound reports whether err is a backend 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.NotFound()
}
