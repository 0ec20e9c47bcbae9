package cache

// Keyer derives cache keys. The pipeline only talks to a Keyer, so callers
// can namespace keys (see [ScopedKeyer]) without touching the pipeline.
type Keyer interface {
	// LayoutKey returns the key for a layout computed from the input
	// identified by inputHash.
	LayoutKey(inputHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key for an artifact rendered from the layout
	// identified by layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts lists the settings that change a computed layout.
type LayoutKeyOpts struct {
	Paper         string   `json:"paper"`
	DPI           float64  `json:"dpi"`
	Scale         float64  `json:"scale"`
	FontSize      float64  `json:"font_size"`
	Grade         int      `json:"grade"`
	Target        float64  `json:"target"`
	Safety        float64  `json:"safety"`
	MaxIterations int      `json:"max_iterations"`
	Overlap       float64  `json:"overlap"`
	TieBreak      string   `json:"tie_break"`
	NoMarks       bool     `json:"no_marks"`
	Order         []string `json:"order,omitempty"`
	MaxLength     int      `json:"max_length"`
	NoSymbols     bool     `json:"no_symbols"`
	Translator    string   `json:"translator"`
}

// ArtifactKeyOpts lists the settings that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format  string `json:"format"`
	Preview int    `json:"preview,omitempty"`
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(inputHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", inputHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

var _ Keyer = DefaultKeyer{}
