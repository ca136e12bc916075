package cache

// ScopedKeyer wraps a Keyer with a prefix, giving each namespace (a server
// tenant, a test) its own keys in a shared backend.
//
//	tenant := NewScopedKeyer(NewDefaultKeyer(), "lab:42:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// the default one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) SequenceKey(sourceHash string) string {
	return k.scope(k.inner.SequenceKey(sourceHash))
}

func (k *ScopedKeyer) LayoutKey(sequenceHash string, opts LayoutKeyOpts) string {
	return k.scope(k.inner.LayoutKey(sequenceHash, opts))
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.scope(k.inner.ArtifactKey(layoutHash, opts))
}

// scope keeps uncacheable keys empty.
func (k *ScopedKeyer) scope(key string) string {
	if key == "" {
		return ""
	}
	return k.prefix + key
}
