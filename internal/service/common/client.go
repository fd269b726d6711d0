//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ilisfairy/mcl-installer/internal/domain/install"
)

const (
	// DefaultTimeout bounds every request, including reading its body.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent identifies as a desktop browser; some mirrors reject other clients.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/113.0.5672.127 Safari/537.36"
)

var (
	// ErrBadHTTPStatus is returned for non-2xx responses.
	ErrBadHTTPStatus = fmt.Errorf("%w: unexpected http status", install.ErrNetwork)

	// errURLRequired is returned when a request is built without a target.
	errURLRequired = errors.New("url must be provided")
)

// Client wraps an http.Client with the installer's request conventions.
// It is safe for concurrent use.
type Client struct {
	// http performs the requests and owns the connection pool.
	http *http.Client
	// userAgent is sent with every request.
	userAgent string
	// timeout is applied to the underlying client.
	timeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithHTTPClient replaces the underlying client, e.g. with an httptest TLS client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// NewClient builds a client with the default timeout and User-Agent.
func NewClient(opts ...Option) *Client {
	client := &Client{
		http:      new(http.Client),
		userAgent: DefaultUserAgent,
		timeout:   DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	// Copy so a caller-provided client is not mutated.
	httpClient := *client.http
	httpClient.Timeout = client.timeout
	client.http = &httpClient

	return client
}

// Do sends a request with the given method and extra headers. Transport
// failures are wrapped in install.ErrNetwork; status codes are not checked.
func (c *Client) Do(ctx context.Context, method, url string, header http.Header) (*http.Response, error) {
	if url == "" {
		return nil, errURLRequired
	}

	req, err := http.NewRequestWithContext(ctx, method, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, url, err)
	}

	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %w", method, url, install.ErrNetwork, err)
	}

	return resp, nil
}

// Head issues a HEAD request and checks the status.
func (c *Client) Head(ctx context.Context, url string) (*http.Response, error) {
	resp, err := c.Do(ctx, http.MethodHead, url, nil)
	if err != nil {
		return nil, err
	}

	// HEAD bodies are empty; close right away.
	_ = resp.Body.Close()

	if err = CheckStatus(resp); err != nil {
		return nil, err
	}

	return resp, nil
}

// Fetch GETs a resource and returns its whole body.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.Do(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if err = CheckStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", url, install.ErrNetwork, err)
	}

	return body, nil
}

// CheckStatus returns ErrBadHTTPStatus for responses outside 2xx.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	return fmt.Errorf("%s %s, %s: %w", resp.Request.Method, resp.Request.URL, resp.Status, ErrBadHTTPStatus)
}
