package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/scatterbox/pkg/buildinfo"
	"github.com/matzehuels/scatterbox/pkg/observability"
)

// Sentinel errors for fetches.
var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")

	// ErrNetwork is returned for transport failures and unexpected statuses.
	ErrNetwork = errors.New("network error")

	// ErrTooLarge is returned when a body exceeds the client's limit.
	ErrTooLarge = errors.New("response too large")
)

// DefaultMaxBytes bounds a single response body.
const DefaultMaxBytes = 16 << 20

// Client performs GET requests with retry.
type Client struct {
	http     *http.Client
	headers  map[string]string
	attempts int
	delay    time.Duration
	maxBytes int64
}

// NewClient creates a Client with the given request timeout and default
// headers. Pass nil for headers if none are needed.
func NewClient(timeout time.Duration, headers map[string]string) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		http:     &http.Client{Timeout: timeout},
		headers:  headers,
		attempts: 3,
		delay:    time.Second,
		maxBytes: DefaultMaxBytes,
	}
}

// WithRetry returns a copy of c using the given retry policy.
func (c *Client) WithRetry(attempts int, delay time.Duration) *Client {
	cp := *c
	cp.attempts = max(attempts, 1)
	cp.delay = delay
	return &cp
}

// Get fetches rawURL and returns the body. Transient failures are retried.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	return c.fetch(ctx, rawURL, c.maxBytes, false)
}

// GetPrefix fetches at most the first n bytes of rawURL. It asks for a byte
// range and stops reading after n bytes even when the server ignores it.
func (c *Client) GetPrefix(ctx context.Context, rawURL string, n int64) ([]byte, error) {
	if n <= 0 || n > c.maxBytes {
		n = c.maxBytes
	}
	return c.fetch(ctx, rawURL, n, true)
}

func (c *Client) fetch(ctx context.Context, rawURL string, limit int64, prefix bool) ([]byte, error) {
	var body []byte
	err := Retry(ctx, c.attempts, c.delay, func() error {
		var err error
		body, err = c.do(ctx, rawURL, limit, prefix)
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, rawURL string, limit int64, prefix bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	req.Header.Set("Cache-Control", "no-store")
	if prefix {
		req.Header.Set("Range", fmt.Sprintf("bytes=0-%d", limit-1))
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	host, path := hostPath(req.URL)
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, &RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &RetryableError{Err: fmt.Errorf("%w: read body: %v", ErrNetwork, err)}
	}
	if int64(len(data)) > limit {
		if prefix {
			return data[:limit], nil
		}
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return data, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests || code >= 500:
		return &RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

func hostPath(u *url.URL) (string, string) {
	if u == nil {
		return "", ""
	}
	return u.Host, u.Path
}
