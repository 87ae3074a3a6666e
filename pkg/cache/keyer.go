package cache

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey identifies the layout computed from a payload.
	LayoutKey(payloadHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies one rendered output format of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts lists every option that changes a computed layout.
type LayoutKeyOpts struct {
	Kind           string   `json:"kind"`
	Width          float64  `json:"width"`
	Height         float64  `json:"height"`
	Margin         float64  `json:"margin"`
	Padding        float64  `json:"padding"`
	Ticks          int      `json:"ticks"`
	Baseline       *float64 `json:"baseline,omitempty"`
	Z              float64  `json:"z,omitempty"`
	DeriveBaseline bool     `json:"derive_baseline,omitempty"`
	LinePad        float64  `json:"line_pad,omitempty"`
	BaselineFlag   string   `json:"baseline_flag,omitempty"`
	TestFlag       string   `json:"test_flag,omitempty"`
}

// ArtifactKeyOpts lists every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// DefaultKeyer hashes key options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<hash>".
func (DefaultKeyer) LayoutKey(payloadHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", payloadHash, opts)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// ScopedKeyer prefixes every key of an inner Keyer, giving a separate
// namespace on a shared backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner (DefaultKeyer when nil) with prefix.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayoutKey(payloadHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(payloadHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
