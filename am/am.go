package am

// Config represents the nodegraph configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Layout   LayoutConfig   `mapstructure:"layout"`
	View     ViewConfig     `mapstructure:"view"`
	Graph    GraphConfig    `mapstructure:"graph"`
}

// DatabaseConfig configures the SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig configures the websocket/HTTP server
type ServerConfig struct {
	Port           *int     `mapstructure:"port"` // nil = DefaultServerPort, 0 is invalid (omit for default)
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	LogTheme       string   `mapstructure:"log_theme"`   // gruvbox, everforest
	MaxClients     int      `mapstructure:"max_clients"` // 0 = unlimited
	FrameRate      int      `mapstructure:"frame_rate"`  // frames per second streamed to each client
}

// Server port constants
const (
	DefaultServerPort  = 8787
	FallbackServerPort = 8788
)

// LayoutConfig holds the force simulation constants.
// Zero values are replaced by the layout package's own defaults.
type LayoutConfig struct {
	ChargeStrength   float64 `mapstructure:"charge_strength"`   // many-body strength, negative repels
	LinkDistance     float64 `mapstructure:"link_distance"`     // spring rest length
	LinkStrength     float64 `mapstructure:"link_strength"`     // 0 = 1/min(degree(source), degree(target))
	CollideRadius    float64 `mapstructure:"collide_radius"`    // per-node collision radius
	ExclusionRadius  float64 `mapstructure:"exclusion_radius"`  // explore-mode dead-zone radius
	CenterStrength   float64 `mapstructure:"center_strength"`   // centroid pull, 0..1
	AlphaMin         float64 `mapstructure:"alpha_min"`         // stop threshold
	AlphaDecay       float64 `mapstructure:"alpha_decay"`       // per-tick decay rate
	VelocityDecay    float64 `mapstructure:"velocity_decay"`    // friction, 0..1
	DragAlphaTarget  float64 `mapstructure:"drag_alpha_target"` // alpha floor while a drag is active
	ReheatAlpha      float64 `mapstructure:"reheat_alpha"`      // alpha set on resize and options change
	WarmupIterations int     `mapstructure:"warmup_iterations"` // synchronous ticks before first frame in detail mode
	TickIntervalMS   int     `mapstructure:"tick_interval_ms"`  // scheduler period
	Seed             int64   `mapstructure:"seed"`              // jiggle rng seed
}

// ViewConfig holds zoom, fit and render constants
type ViewConfig struct {
	MinZoom        float64 `mapstructure:"min_zoom"`
	MaxZoom        float64 `mapstructure:"max_zoom"`
	ZoomStep       float64 `mapstructure:"zoom_step"`       // factor applied by zoom in/out
	FitPadding     float64 `mapstructure:"fit_padding"`     // screen pixels around the fitted bounding box
	NodeRadius     float64 `mapstructure:"node_radius"`     // marker radius
	FocalRadius    float64 `mapstructure:"focal_radius"`    // marker radius of the focal node
	DimOpacity     float64 `mapstructure:"dim_opacity"`     // opacity outside the hovered neighborhood
	ClickThreshold float64 `mapstructure:"click_threshold"` // max pointer travel (px) still counted as a click
	TransitionMS   int     `mapstructure:"transition_ms"`   // animated zoom duration
}

// GraphConfig bounds what the store hands to a layout
type GraphConfig struct {
	Limit             int `mapstructure:"limit"`              // max nodes loaded, 0 = unlimited
	NeighborhoodDepth int `mapstructure:"neighborhood_depth"` // BFS depth of the detail view's local graph
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)
