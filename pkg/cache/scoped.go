package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// This is useful when different users or shared sessions need separate
// cache namespaces.
//
// Example usage:
//
//	// User-specific keys for private adoption state
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:abc123:")
//
//	// Global keys for the shared practice catalog
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// CardsKey generates a prefixed key for card list caching.
func (k *ScopedKeyer) CardsKey(rootID string) string {
	return k.prefix + k.inner.CardsKey(rootID)
}

// TreeKey generates a prefixed key for practice tree caching.
func (k *ScopedKeyer) TreeKey(rootID string, opts TreeKeyOpts) string {
	return k.prefix + k.inner.TreeKey(rootID, opts)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}
