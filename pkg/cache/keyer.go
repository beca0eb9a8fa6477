package cache

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey names a layout computed from a key sequence.
	LayoutKey(keysHash string, opts LayoutKeyOpts) string

	// ArtifactKey names a rendered artifact of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds the options that change a layout.
type LayoutKeyOpts struct {
	Strategy string  `json:"strategy"`
	Unit     float64 `json:"unit"`
	LevelGap float64 `json:"level_gap"`
	OriginX  float64 `json:"origin_x"`
	OriginY  float64 `json:"origin_y"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format    string   `json:"format"`
	VizType   string   `json:"viz_type"`
	Radius    float64  `json:"radius,omitempty"`
	Scale     float64  `json:"scale,omitempty"`
	Balance   bool     `json:"balance,omitempty"`
	Heights   bool     `json:"heights,omitempty"`
	Highlight []string `json:"highlight,omitempty"`
}

// DefaultKeyer hashes inputs and options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(keysHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", keysHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
