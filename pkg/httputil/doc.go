// Package httputil provides HTTP utilities for API clients.
//
// # Overview
//
// This package provides infrastructure used by the practice API client:
//
//   - [Cache]: File-based HTTP response caching
//   - [Retry]: Automatic retry with exponential backoff
//
// # Caching
//
// [Cache] stores HTTP responses in the filesystem (~/.cache/cdgraph/)
// with configurable TTL. This speeds up repeated CLI invocations and
// reduces load on the practice API.
//
// Usage:
//
//	cache, err := httputil.NewCache("", 24 * time.Hour)
//	ok, err := cache.Get("tree:continuous-delivery", &node)  // Check cache
//	if !ok {
//	    node = fetchFromAPI()
//	    cache.Set("tree:continuous-delivery", node)  // Store for later
//	}
//
// Cache keys should be namespaced by endpoint to avoid collisions.
//
// # Retry
//
// [Retry] wraps HTTP requests with automatic retry for transient failures:
//
//   - Network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// It uses exponential backoff to avoid thundering herd:
//
//	err := httputil.RetryWithBackoff(ctx, func() error {
//	    return fetch(url)
//	})
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/cdgraph/
//   - Default TTL: 24 hours
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `cdgraph cache clear` or by deleting
// the cache directory.
package httputil
