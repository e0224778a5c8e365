package cache

// Keyer generates cache keys. Every backend shares one key layout so that
// entries written by the CLI and the server are interchangeable.
type Keyer interface {
	// LayoutKey identifies a layout of a gallery under given options.
	LayoutKey(galleryHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered output of a layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string

	// BoardKey identifies a published layout document by ID.
	BoardKey(id string) string

	// HandoffKey identifies the single-use navigation handoff of a client.
	HandoffKey(client string) string
}

// LayoutKeyOpts are the inputs that change a layout's outcome.
type LayoutKeyOpts struct {
	Width           float64 `json:"w"`
	Height          float64 `json:"h"`
	Padding         float64 `json:"p"`
	Seed            uint64  `json:"seed"`
	Attempts        int     `json:"k"`
	RelaxIterations int     `json:"relax"`
	ShrinkFactor    float64 `json:"shrink"`
	ShrinkRetries   int     `json:"retries"`
	ItemWidth       float64 `json:"iw"`
	MaxItemWidth    float64 `json:"miw"`
}

// ArtifactKeyOpts are the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Style     string  `json:"style"`
	ShowGrid  bool    `json:"grid"`
	ShowDebug bool    `json:"debug"`
	Labels    bool    `json:"labels"`
	ImageBase string  `json:"base"`
	Title     string  `json:"title"`
	Scale     float64 `json:"scale"`
}

// DefaultKeyer produces unscoped keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey hashes the gallery hash together with the options.
func (DefaultKeyer) LayoutKey(galleryHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", galleryHash, opts)
}

// ArtifactKey hashes the layout hash together with the options.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// BoardKey is not hashed so boards stay addressable by ID.
func (DefaultKeyer) BoardKey(id string) string {
	return "board:" + id
}

// HandoffKey is not hashed so handoffs stay addressable by client ID.
func (DefaultKeyer) HandoffKey(client string) string {
	return "handoff:" + client
}
