// ABOUTME: HTTP gateway for the piece-tracking backend API
// ABOUTME: Builds URLs, injects the bearer token, normalizes errors, and handles session expiry

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout bounds a single request when no other timeout is configured
const DefaultTimeout = 30 * time.Second

// SessionState is the slice of the session store the gateway needs
type SessionState interface {
	Token() string
	AuthDisabled() bool
	ExpireSession() bool
}

// SessionExpiredHandler is notified once per expiry episode when the backend
// rejects the current token.
type SessionExpiredHandler interface {
	SessionExpired()
}

// Client is the API client for the piece-tracking backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    SessionState
	logger     *slog.Logger

	mu        sync.RWMutex
	onExpired SessionExpiredHandler
}

// Option configures a Client
type Option func(*Client)

// WithSession attaches the session used for bearer tokens and 401 handling
func WithSession(s SessionState) Option {
	return func(c *Client) { c.session = s }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the overall per-request timeout; zero disables it
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a new API client with the given base URL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend origin
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetSessionExpiredHandler registers the callback fired on the first 401 of an episode
func (c *Client) SetSessionExpiredHandler(h SessionExpiredHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onExpired = h
}

func (c *Client) expiredHandler() SessionExpiredHandler {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.onExpired
}

// RequestOptions describes a single gateway call
type RequestOptions struct {
	Method  string
	Body    any
	Headers http.Header
	Params  Params
	// NoAuth suppresses the bearer token
	NoAuth bool
}

// Request performs a call against the backend. It returns the raw JSON body,
// or nil when the response is 204 or carries no parseable JSON.
func (c *Client) Request(ctx context.Context, path string, opts RequestOptions) (json.RawMessage, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path, opts.Params), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if opts.Body != nil || method != http.MethodGet {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	for key, values := range opts.Headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if !opts.NoAuth && c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Backend request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)
	c.logger.Debug("Backend request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
		"request_id", requestID,
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.handleErrorResponse(resp, data, !opts.NoAuth)
	}

	if resp.StatusCode == http.StatusNoContent || readErr != nil {
		return nil, nil
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return nil, nil
	}
	return json.RawMessage(trimmed), nil
}

// resolve joins the base origin, path, and non-empty query parameters
func (c *Client) resolve(path string, params Params) string {
	u := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if q := params.Encode(); q != "" {
		u += "?" + q
	}
	return u
}

// handleRequestError converts transport errors to user-facing gateway errors
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return &Error{Kind: KindCanceled, Message: MsgCanceled, cause: err}
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &Error{Kind: KindTimeout, Message: MsgTimeout, cause: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Kind: KindTimeout, Message: MsgTimeout, cause: err}
	}
	return &Error{Kind: KindTransport, Message: MsgCannotConnect, cause: err}
}

// handleErrorResponse builds the error for a non-2xx response and runs the
// session-expiry path for 401s on authenticated calls when authentication is enabled.
func (c *Client) handleErrorResponse(resp *http.Response, data []byte, authenticated bool) error {
	message := errorDetail(data)
	if message == "" {
		message = statusText(resp)
	}
	if message == "" {
		message = MsgGeneric
	}

	apiErr := &Error{
		Kind:    kindForStatus(resp.StatusCode),
		Message: message,
		Status:  resp.StatusCode,
	}

	if resp.StatusCode == http.StatusUnauthorized && authenticated && c.session != nil && !c.session.AuthDisabled() {
		if c.session.ExpireSession() {
			apiErr.Message = MsgSessionExpired
			c.logger.Info("Session expired, login required")
			if h := c.expiredHandler(); h != nil {
				h.SessionExpired()
			}
		} else {
			apiErr.Silent = true
		}
	}

	return apiErr
}

// errorDetail extracts detail or message from a JSON error body, falling back
// to the compact JSON text of the body itself.
func errorDetail(data []byte) string {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || !json.Valid(trimmed) {
		return ""
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err == nil {
		for _, key := range []string{"detail", "message"} {
			if msg := fieldText(fields[key]); msg != "" {
				return msg
			}
		}
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err != nil {
		return string(trimmed)
	}
	return compact.String()
}

// fieldText renders a JSON value as text; strings are unquoted, null and
// empty values yield "".
func fieldText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return ""
	}
	return compact.String()
}

// statusText returns the reason phrase sent by the server
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// do performs a request and decodes the result into out when a body is present
func (c *Client) do(ctx context.Context, path string, opts RequestOptions, out any) error {
	raw, err := c.Request(ctx, path, opts)
	if err != nil {
		return err
	}
	if out == nil || raw == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}
