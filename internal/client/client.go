// Package client is a typed HTTP client for the notebook backend.
//
// Every call takes a context, sends and receives JSON, and is throttled per
// backend host. Failures come back as *Error (the backend answered with a
// non-2xx status) or wrap ErrTransport (it could not be reached). Nothing
// is retried.
package client

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

	"github.com/ytnotebook/ytnotebook/internal/logger"
	"github.com/ytnotebook/ytnotebook/internal/ratelimit"
)

const (
	defaultTimeout = 60 * time.Second
	defaultRPS     = 10.0
	defaultBurst   = 5

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 64 << 10
)

// Options configures a Client.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Logger            *logger.Logger
	// HTTPClient replaces the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to one notebook backend.
type Client struct {
	http    *http.Client
	base    *url.URL
	limiter *ratelimit.KeyedRateLimiter
	logger  *logger.Logger
}

// New creates a client for opts.BaseURL.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", opts.BaseURL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRPS
	}

	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}

	return &Client{
		http:    httpClient,
		base:    base,
		limiter: ratelimit.New(rps, defaultBurst),
		logger:  log.WithComponent("client"),
	}, nil
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// call describes one backend request.
type call struct {
	op       string
	method   string
	path     string
	body     any
	header   http.Header
	fallback string // shown when an error response has no detail
}

// do executes a request with rate limiting and decodes a 2xx body into out.
func (c *Client) do(ctx context.Context, cl call, out any) error {
	if err := c.limiter.Wait(ctx, c.base.Host); err != nil {
		return fmt.Errorf("%s: rate limit wait: %w", cl.op, err)
	}

	var body io.Reader
	if cl.body != nil {
		data, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", cl.op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.base.String()+cl.path, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", cl.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range cl.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", cl.op, ctxErr)
		}
		return fmt.Errorf("%s: %w: %w", cl.op, ErrTransport, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read-only body

	c.logger.Debug("backend request",
		"op", cl.op,
		"method", cl.method,
		"path", cl.path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{
			Op:     cl.op,
			Status: resp.StatusCode,
			Detail: readDetail(resp.Body, cl.fallback),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w: decode response: %w", cl.op, ErrTransport, err)
	}
	return nil
}

// readDetail extracts the string "detail" field of an error body.
func readDetail(r io.Reader, fallback string) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return fallback
	}
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil || len(body.Detail) == 0 {
		return fallback
	}
	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err != nil || strings.TrimSpace(detail) == "" {
		return fallback
	}
	return detail
}

// pathf builds a path from a format and escaped segments.
func pathf(format string, segments ...string) string {
	args := make([]any, len(segments))
	for i, s := range segments {
		args[i] = url.PathEscape(s)
	}
	return fmt.Sprintf(format, args...)
}
