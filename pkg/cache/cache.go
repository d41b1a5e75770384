// Package cache provides pluggable caching for practice trees, layouts,
// and HTTP responses.
//
// The package defines a small Cache interface with byte-slice values so
// callers control serialization. Three backends are provided:
//
//   - FileCache: directory-based cache for CLI usage
//   - RedisCache: shared cache for server deployments
//   - NullCache: no-op cache for tests and disabled caching
//
// Keys are generated through the Keyer interface so all consumers agree on
// the key structure, and ScopedKeyer adds per-tenant prefixes on top.
package cache

import (
	"context"
	"time"
)

// Cache is the interface implemented by all cache backends.
// Values are opaque byte slices; callers handle serialization.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// TreeKeyOpts captures the parameters that affect a cached practice tree.
type TreeKeyOpts struct {
	Enriched bool // dependency counts populated
	MaxDepth int  // 0 means unlimited
}

// LayoutKeyOpts captures the parameters that affect a cached layout.
type LayoutKeyOpts struct {
	Passes    int
	CardWidth float64
}

// Keyer generates cache keys for the different cached resource types.
type Keyer interface {
	// HTTPKey generates a key for HTTP response caching.
	HTTPKey(namespace, key string) string

	// CardsKey generates a key for a flattened card list rooted at rootID.
	CardsKey(rootID string) string

	// TreeKey generates a key for a practice tree rooted at rootID.
	TreeKey(rootID string, opts TreeKeyOpts) string

	// LayoutKey generates a key for an optimized layout of a tree.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// CardsKey generates a key for a flattened card list.
func (k *DefaultKeyer) CardsKey(rootID string) string {
	return "cards:" + rootID
}

// TreeKey generates a key for a practice tree.
// Options are hashed into the key so different views never collide.
func (k *DefaultKeyer) TreeKey(rootID string, opts TreeKeyOpts) string {
	return hashKey("tree", rootID, opts)
}

// LayoutKey generates a key for an optimized layout.
func (k *DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
