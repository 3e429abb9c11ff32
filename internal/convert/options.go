package convert

// Flavor selects the Markdown dialect. It only affects table rendering.
type Flavor uint32

const (
	FlavorCommonMark Flavor = 0
	FlavorGFM        Flavor = 1
)

const (
	// DefaultDepthCeiling is the default maximum tree nesting depth before
	// the security policy refuses to continue (InvalidInput).
	DefaultDepthCeiling = 1000

	// DefaultCharsPerToken is the default token-estimator divisor.
	DefaultCharsPerToken = 4.0

	// NodeCheckpointInterval is how often (in visited nodes) the lowering
	// engine checks the timeout deadline during traversal.
	NodeCheckpointInterval = 100

	// CharsetScanWindow is how many leading bytes of the input are scanned
	// for a <meta charset> declaration.
	CharsetScanWindow = 1024
)

// Options is the Go rendition of the Conversion Options record (§3).
type Options struct {
	Flavor Flavor

	IncludeFrontMatter bool
	ExtractMetadata    bool

	// SimplifyNavigation and PreserveTables are reserved per the
	// specification: navigation/boilerplate is never emitted for
	// non-content wrappers by default, and tables are emitted exactly
	// when Flavor == FlavorGFM regardless of this flag's value.
	SimplifyNavigation bool
	PreserveTables     bool

	BaseURL             string
	ResolveRelativeURLs bool

	// TimeoutMillis is the wall-clock deadline in milliseconds; 0 disables
	// the timeout entirely.
	TimeoutMillis uint32

	GenerateETag   bool
	EstimateTokens bool

	// DepthCeiling overrides DefaultDepthCeiling when non-zero.
	DepthCeiling int

	// CharsPerToken overrides DefaultCharsPerToken when non-zero.
	CharsPerToken float64
}

// DefaultOptions returns the zero-configuration-sensible defaults: GFM off,
// front matter off, metadata off, URL resolution on, no timeout, both
// derived artifacts enabled.
func DefaultOptions() Options {
	return Options{
		Flavor:              FlavorCommonMark,
		ResolveRelativeURLs: true,
		GenerateETag:        true,
		EstimateTokens:      true,
	}
}

func (o Options) depthCeiling() int {
	if o.DepthCeiling > 0 {
		return o.DepthCeiling
	}
	return DefaultDepthCeiling
}

func (o Options) charsPerToken() float64 {
	if o.CharsPerToken > 0 {
		return o.CharsPerToken
	}
	return DefaultCharsPerToken
}

// wantsFrontMatter implements the "front matter requires BOTH flags true" rule.
func (o Options) wantsFrontMatter() bool {
	return o.IncludeFrontMatter && o.ExtractMetadata
}
