// Package upstream implements the HTTP client for the external registration
// API. It is the only place requests leave the gateway: it attaches the
// bearer token, relays JSON bodies and normalises transport failures so the
// service layer deals with a single error shape.
package upstream

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

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/unireg-gateway/pkg/errors"
)

// Request describes one call to the upstream API.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   json.RawMessage
	Token  string
}

// Response carries the upstream status and raw body. The body is not parsed
// here; callers decode it where the operation requires JSON.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the upstream answered with a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON returns the body as raw JSON, failing on malformed payloads.
func (r *Response) JSON() (json.RawMessage, error) {
	if !json.Valid(r.Body) {
		return nil, fmt.Errorf("upstream returned malformed JSON")
	}
	return json.RawMessage(r.Body), nil
}

// Decode unmarshals the body into dest.
func (r *Response) Decode(dest interface{}) error {
	return json.Unmarshal(r.Body, dest)
}

// ErrorMessage extracts the human-readable field from an upstream error
// body, accepting both the `message` and `error` spellings the upstream
// uses. It returns the fallback when neither is present.
func (r *Response) ErrorMessage(fallback string) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(r.Body, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return fallback
}

// Gateway is the forwarding contract the service layer depends on.
type Gateway interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// Client forwards requests to a single upstream base URL.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	observe func(method, path string, status int, duration time.Duration)
}

// Option customises a Client.
type Option func(*Client)

// WithObserver registers a callback receiving timing for every upstream call.
func WithObserver(fn func(method, path string, status int, duration time.Duration)) Option {
	return func(c *Client) { c.observe = fn }
}

// NewClient constructs an upstream client. A zero timeout disables the
// deadline entirely, matching the legacy behaviour; the default config sets
// one deliberately.
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do issues the request and reads the full response. Any transport-level
// failure is wrapped as an upstream failure error; non-2xx statuses are NOT
// errors here, the caller maps them per operation.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "build upstream request")
	}
	if len(req.Body) > 0 {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Warn("upstream request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err),
		)
		if c.observe != nil {
			c.observe(req.Method, req.Path, 0, time.Since(start))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "upstream request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "read upstream response")
	}

	if c.observe != nil {
		c.observe(req.Method, req.Path, resp.StatusCode, time.Since(start))
	}
	c.logger.Debug("upstream request",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	return &Response{StatusCode: resp.StatusCode, Body: data}, nil
}
