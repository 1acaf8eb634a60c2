// Package api is the HTTP client for the address book backend. Every JSON
// endpoint answers with an Envelope; the client unwraps it into typed results,
// an *AppError for `success=false`, or a *TransportError when no envelope
// could be obtained.
package api

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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// apiPrefix is where the backend mounts its JSON routes.
	apiPrefix = "/api"

	// maxEnvelopeBytes bounds how much of a JSON response is read.
	maxEnvelopeBytes = 32 << 20

	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-Id"
)

// Client talks to the address book REST backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	logger     *zap.Logger
	requestID  func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default http client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger attaches a logger; requests are logged at debug level, failures at warn.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a client for the backend at baseURL (e.g. http://localhost:5000).
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		userAgent:  "addressbook",
		logger:     zap.NewNop(),
		requestID:  func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client was created with.
func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) url(path string) string {
	return c.baseURL + apiPrefix + path
}

// newRequest builds a request with the common headers and returns its id.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, "", err
	}
	id := c.requestID()
	req.Header.Set(RequestIDHeader, id)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, id, nil
}

// doJSON marshals in (when non-nil) as the request body.
func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) (*Envelope, error) {
	var body io.Reader
	contentType := ""
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to marshal request: %w", op, err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.do(ctx, op, method, path, body, contentType, out)
}

// do performs the request and unwraps the envelope into out.
func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out any) (*Envelope, error) {
	req, id, err := c.newRequest(ctx, method, path, body, contentType)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	log := c.logger.With(zap.String("op", op), zap.String("request_id", id))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	log.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("dur", time.Since(start)),
	)

	env, err := decodeEnvelope(resp.Body)
	if err != nil {
		log.Warn("undecodable response", zap.Int("status", resp.StatusCode), zap.Error(err))
		return nil, &TransportError{Op: op, Status: resp.StatusCode, Err: err}
	}

	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = env.Message
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		log.Info("request rejected", zap.Int("status", resp.StatusCode), zap.String("error", msg))
		return env, &AppError{Op: op, Status: resp.StatusCode, Message: msg}
	}

	if out != nil && env.hasData() {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env, &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode data: %w", err)}
		}
	}
	return env, nil
}

func decodeEnvelope(r io.Reader) (*Envelope, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxEnvelopeBytes))
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty response body")
	}
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &env, nil
}
