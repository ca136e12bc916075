package cache

import "strings"

// Key prefixes, one per cached layer.
const (
	PrefixSequence = "seq"
	PrefixLayout   = "layout"
	PrefixArtifact = "artifact"
)

// Keyer derives cache keys from the inputs of each pipeline stage. An
// empty key means the inputs have no stable encoding and must not be
// cached.
type Keyer interface {
	// SequenceKey addresses a parsed feature list by the hash of its source.
	SequenceKey(sourceHash string) string
	LayoutKey(sequenceHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs that change a map layout.
type LayoutKeyOpts struct {
	Topology string `json:"topology"`
	// Options is the map configuration; it is hashed as JSON.
	Options any `json:"options,omitempty"`
}

// ArtifactKeyOpts are the inputs that change a rendered output.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
	Static bool    `json:"static,omitempty"`
}

// DefaultKeyer hashes stage inputs under the standard prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) SequenceKey(sourceHash string) string {
	return PrefixSequence + ":" + sourceHash
}

func (DefaultKeyer) LayoutKey(sequenceHash string, opts LayoutKeyOpts) string {
	return hashKey(PrefixLayout, sequenceHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	opts.Format = strings.ToLower(opts.Format)
	return hashKey(PrefixArtifact, layoutHash, opts)
}
