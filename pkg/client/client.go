// Package client provides an HTTP client for the practice API.
//
// The client fetches practice card lists and practice trees from a running
// server, caching responses on disk so repeated CLI invocations do not hit
// the network. Transient failures are retried with exponential backoff.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bdfinst/interactive-cd/pkg/httputil"
	"github.com/bdfinst/interactive-cd/pkg/practice"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a practice doesn't exist on the server.
	ErrNotFound = errors.New("practice not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")

	// ErrAPIFailure is returned when the server reports success=false.
	ErrAPIFailure = errors.New("api reported failure")
)

// envelope is the response wrapper used by all practice API endpoints.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error,omitempty"`
}

// Client is an HTTP client for the practice API.
type Client struct {
	base  string
	http  *http.Client
	cache *httputil.Cache
}

// New creates a Client for the API at base (e.g. "http://localhost:8080").
// Pass a nil cache to disable response caching.
func New(base string, cache *httputil.Cache) *Client {
	return &Client{
		base:  base,
		http:  &http.Client{Timeout: httpTimeout},
		cache: cache,
	}
}

// CardsView fetches the flattened card list rooted at rootID.
// An empty rootID fetches the default root.
func (c *Client) CardsView(ctx context.Context, rootID string) ([]*practice.Node, error) {
	var cards []*practice.Node
	key := "cards:" + rootID
	err := c.cached(ctx, key, &cards, func() error {
		return c.getJSON(ctx, c.endpoint("/api/practice-cards", rootID), &cards)
	})
	return cards, err
}

// TreeView fetches the full practice tree rooted at rootID.
// An empty rootID fetches the default root.
func (c *Client) TreeView(ctx context.Context, rootID string) (*practice.Node, error) {
	var root *practice.Node
	key := "tree:" + rootID
	err := c.cached(ctx, key, &root, func() error {
		return c.getJSON(ctx, c.endpoint("/api/practice-tree", rootID), &root)
	})
	return root, err
}

// Health checks server liveness. Returns nil when the server is reachable.
func (c *Client) Health(ctx context.Context) error {
	var status map[string]string
	return c.getJSON(ctx, c.base+"/api/health", &status)
}

func (c *Client) endpoint(path, rootID string) string {
	u := c.base + path
	if rootID != "" {
		u += "?root=" + url.QueryEscape(rootID)
	}
	return u
}

// cached retrieves a value from cache or executes fetch and caches the result.
func (c *Client) cached(ctx context.Context, key string, v any, fetch func() error) error {
	if c.cache != nil {
		if ok, _ := c.cache.Get(key, v); ok {
			return nil
		}
	}
	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Set(key, v)
	}
	return nil
}

// getJSON performs a GET request and decodes the enveloped response into v.
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		if env.Error != "" {
			return fmt.Errorf("%w: %s", ErrAPIFailure, env.Error)
		}
		return ErrAPIFailure
	}
	return json.Unmarshal(env.Data, v)
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
