package cache

// ScopedKeyer prefixes every key of an inner [Keyer]. The CLI scopes keys
// with [buildinfo.CacheScope], so a new release never reads layouts or
// drawings cached by an older one.
//
// [buildinfo.CacheScope]: github.com/matzehuels/avlviz/pkg/buildinfo.CacheScope
type ScopedKeyer struct {
	Inner  Keyer
	Prefix string
}

// NewScopedKeyer wraps inner, or the [DefaultKeyer] when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{Inner: inner, Prefix: prefix}
}

func (k ScopedKeyer) LayoutKey(keysHash string, opts LayoutKeyOpts) string {
	return k.Prefix + k.Inner.LayoutKey(keysHash, opts)
}

func (k ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.Prefix + k.Inner.ArtifactKey(layoutHash, opts)
}
