package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/matzehuels/starctl/pkg/cache"
	"github.com/matzehuels/starctl/pkg/httputil"
	"github.com/matzehuels/starctl/pkg/observability"
)

// Client provides shared HTTP functionality for REST API clients.
// It handles base URL resolution, default headers, status classification,
// retries, and response caching. A Client is safe for concurrent use.
type Client struct {
	http     *http.Client
	baseURL  string
	cache    cache.Cache
	ttl      time.Duration
	headers  map[string]string
	attempts int
	delay    time.Duration
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the API root that request paths are resolved against.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRetry sets the number of attempts and the initial backoff delay for
// retryable failures.
func WithRetry(attempts int, delay time.Duration) Option {
	return func(c *Client) {
		c.attempts = attempts
		c.delay = delay
	}
}

// NewClient creates a Client whose cache entries live under namespace with
// the given TTL. Headers are applied to all requests made through this client.
// Pass nil for headers if no default headers are needed, and nil for c to
// disable caching.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string, opts ...Option) *Client {
	client := &Client{
		http:     NewHTTPClient(),
		cache:    cache.NewScopedCache(c, namespace),
		ttl:      ttl,
		headers:  headers,
		attempts: defaultAttempts,
		delay:    defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string { return c.baseURL }

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored in the cache.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	hooks := observability.Cache()
	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, key); ok {
			if json.Unmarshal(data, v) == nil {
				hooks.OnCacheHit(ctx, key)
				return nil
			}
		}
		hooks.OnCacheMiss(ctx, key)
	}
	if err := fetch(); err != nil {
		return err
	}
	if data, err := json.Marshal(v); err == nil {
		if c.cache.Set(ctx, key, data, c.ttl) == nil {
			hooks.OnCacheSet(ctx, key, len(data))
		}
	}
	return nil
}

// Forget drops a cached entry written by [Client.Cached].
func (c *Client) Forget(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}

// Get performs a GET for the request descriptor and returns the buffered
// response. Non-success statuses are returned as a *RequestError wrapping
// one of the package sentinels; see [checkStatus].
func (c *Client) Get(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	headers := map[string]string(nil)
	if req.Accept != "" {
		headers = map[string]string{"Accept": req.Accept}
	}
	return c.do(ctx, http.MethodGet, req.URL(c.baseURL), req.Path, headers)
}

// GetJSON performs a GET on path and JSON-decodes the response into v.
func (c *Client) GetJSON(ctx context.Context, path string, v any) error {
	resp, err := c.Get(ctx, &Request{Path: path})
	if err != nil {
		return err
	}
	return resp.Decode(v)
}

// Put performs a bodiless PUT on path.
func (c *Client) Put(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodPut, (&Request{Path: path}).URL(c.baseURL), path, nil)
	return err
}

// Delete performs a DELETE on path.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, (&Request{Path: path}).URL(c.baseURL), path, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, url, path string, headers map[string]string) (*Response, error) {
	var (
		resp    *Response
		lastErr error
		attempt int
	)
	err := httputil.Retry(ctx, c.attempts, c.delay, func() error {
		attempt++
		if attempt > 1 {
			observability.HTTP().OnRetry(ctx, method, path, attempt, lastErr)
		}
		r, err := c.roundTrip(ctx, method, url, headers)
		if err != nil {
			lastErr = wrapRequestError(method, path, err)
			return lastErr
		}
		resp = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) roundTrip(ctx context.Context, method, url string, headers map[string]string) (*Response, error) {
	var body io.Reader
	if method == http.MethodPut {
		// GitHub rejects a PUT without Content-Length with 411.
		body = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if method == http.MethodPut {
		req.ContentLength = 0
		req.Header.Set("Content-Length", "0")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, method, host, path)
	start := time.Now()

	httpResp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	defer httpResp.Body.Close()
	hooks.OnResponse(ctx, method, host, path, httpResp.StatusCode, time.Since(start))

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxBodySize))
	if err != nil {
		return nil, httputil.Retryable(fmt.Errorf("%w: read body: %v", ErrNetwork, err))
	}
	if err := checkStatus(httpResp.StatusCode, httpResp.Header, data); err != nil {
		return nil, err
	}
	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}, nil
}

// checkStatus classifies an HTTP status into the package error sentinels.
// This is the boundary callers rely on: only 404 maps to [ErrNotFound].
func checkStatus(code int, header http.Header, body []byte) error {
	switch {
	case code == http.StatusOK, code == http.StatusNoContent, code == http.StatusCreated:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiMessage(body, code))
	case code == http.StatusTooManyRequests,
		code == http.StatusForbidden && header.Get("X-RateLimit-Remaining") == "0":
		return httputil.Retryable(rateLimited(header, apiMessage(body, code)))
	case code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, apiMessage(body, code))
	case code >= 500:
		return httputil.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d: %s", ErrNetwork, code, apiMessage(body, code))
	}
}

// apiMessage extracts the "message" field GitHub puts in error bodies,
// falling back to the status text.
func apiMessage(body []byte, code int) string {
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Message != "" {
		return payload.Message
	}
	return http.StatusText(code)
}

// retryAfter reads Retry-After (seconds) or X-RateLimit-Reset (unix time).
func retryAfter(header http.Header, now time.Time) time.Duration {
	if s := header.Get("Retry-After"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	if s := header.Get("X-RateLimit-Reset"); s != "" {
		if reset, err := strconv.ParseInt(s, 10, 64); err == nil {
			if d := time.Unix(reset, 0).Sub(now); d > 0 {
				return d
			}
		}
	}
	return 0
}
