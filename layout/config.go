package layout

// Default physics constants. DefaultAlphaDecay brings alpha from 1 below
// DefaultAlphaMin within DefaultMaxIterations ticks.
const (
	DefaultChargeStrength    = -400.0
	DefaultLinkDistance      = 100.0
	DefaultCollideRadius     = 40.0
	DefaultExclusionRadius   = 150.0
	DefaultExclusionStrength = 1.0
	DefaultCenterStrength    = 0.1
	DefaultAlphaMin          = 0.001
	DefaultAlphaDecay        = 0.0228
	DefaultVelocityDecay     = 0.4
	DefaultMaxIterations     = 300
)

// Config holds the physics constants of one simulation. Zero values take
// the defaults, except LinkStrength where zero selects 1/min(degree).
type Config struct {
	// Center is the viewport center in simulation coordinates
	Center Vector

	// Focus is the focal node id. When it names a node in the set the
	// simulation runs in detail mode: the node is pinned at Center and the
	// exclusion force is off.
	Focus string

	ChargeStrength    float64
	LinkDistance      float64
	LinkStrength      float64
	CollideRadius     float64
	ExclusionRadius   float64 // negative disables the explore-mode dead zone
	ExclusionStrength float64
	CenterStrength    float64

	AlphaMin      float64
	AlphaDecay    float64
	VelocityDecay float64

	// Seed for the jiggle used to separate coincident nodes
	Seed int64

	// Initial positions; nodes not listed are placed on a phyllotaxis
	// spiral around Center
	Initial map[string]Vector

	// Verbosity gates tick-level logging (see logger.OutputLayoutTicks)
	Verbosity int
}

// DefaultConfig returns a config with every constant at its default
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.ChargeStrength == 0 {
		c.ChargeStrength = DefaultChargeStrength
	}
	if c.LinkDistance <= 0 {
		c.LinkDistance = DefaultLinkDistance
	}
	if c.LinkStrength < 0 {
		c.LinkStrength = 0
	}
	if c.CollideRadius <= 0 {
		c.CollideRadius = DefaultCollideRadius
	}
	if c.ExclusionRadius == 0 {
		c.ExclusionRadius = DefaultExclusionRadius
	}
	if c.ExclusionStrength <= 0 {
		c.ExclusionStrength = DefaultExclusionStrength
	}
	if c.CenterStrength <= 0 {
		c.CenterStrength = DefaultCenterStrength
	}
	if c.AlphaMin <= 0 {
		c.AlphaMin = DefaultAlphaMin
	}
	if c.AlphaDecay <= 0 {
		c.AlphaDecay = DefaultAlphaDecay
	}
	if c.VelocityDecay <= 0 || c.VelocityDecay >= 1 {
		c.VelocityDecay = DefaultVelocityDecay
	}
	return c
}
