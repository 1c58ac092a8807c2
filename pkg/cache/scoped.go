package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one Redis or MongoDB backend.
//
// Example usage:
//
//	// Keys of the staging server
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
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

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(docHash, opts)
}

// GraphKey generates a prefixed key for graph caching.
func (k *ScopedKeyer) GraphKey(docHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(docHash, opts)
}
