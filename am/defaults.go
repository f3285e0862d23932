package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// DefaultAllowedOrigins are the CORS origins accepted when none are configured
var DefaultAllowedOrigins = []string{
	"http://localhost",
	"https://localhost",
	"http://127.0.0.1",
	"https://127.0.0.1",
}

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", "nodegraph.db")

	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", DefaultAllowedOrigins)
	v.SetDefault("server.log_theme", "everforest")
	v.SetDefault("server.max_clients", 64)
	v.SetDefault("server.frame_rate", 30)

	v.SetDefault("layout.charge_strength", -400.0)
	v.SetDefault("layout.link_distance", 100.0)
	v.SetDefault("layout.link_strength", 0.0)
	v.SetDefault("layout.collide_radius", 40.0)
	v.SetDefault("layout.exclusion_radius", 150.0)
	v.SetDefault("layout.center_strength", 0.1)
	v.SetDefault("layout.alpha_min", 0.001)
	v.SetDefault("layout.alpha_decay", 0.0228) // 1 - 0.001^(1/300)
	v.SetDefault("layout.velocity_decay", 0.4)
	v.SetDefault("layout.drag_alpha_target", 0.3)
	v.SetDefault("layout.reheat_alpha", 1.0)
	v.SetDefault("layout.warmup_iterations", 300)
	v.SetDefault("layout.tick_interval_ms", 16)
	v.SetDefault("layout.seed", 1)

	v.SetDefault("view.min_zoom", 0.1)
	v.SetDefault("view.max_zoom", 4.0)
	v.SetDefault("view.zoom_step", 1.5)
	v.SetDefault("view.fit_padding", 40.0)
	v.SetDefault("view.node_radius", 6.0)
	v.SetDefault("view.focal_radius", 10.0)
	v.SetDefault("view.dim_opacity", 0.15)
	v.SetDefault("view.click_threshold", 3.0)
	v.SetDefault("view.transition_ms", 750)

	v.SetDefault("graph.limit", 2000)
	v.SetDefault("graph.neighborhood_depth", 1)
}

// BindSensitiveEnvVars binds settings commonly overridden per environment
func BindSensitiveEnvVars(v *viper.Viper) {
	_ = v.BindEnv("database.path", "NODEGRAPH_DATABASE_PATH")
	_ = v.BindEnv("server.port", "NODEGRAPH_PORT")
}

// GetServerPort returns the configured port, or DefaultServerPort
func (c *Config) GetServerPort() int {
	if c.Server.Port == nil {
		return DefaultServerPort
	}
	return *c.Server.Port
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return "nodegraph.db"
	}
	return c.Database.Path
}

// GetServerAllowedOrigins returns the allowed CORS origins
func (c *Config) GetServerAllowedOrigins() []string {
	if len(c.Server.AllowedOrigins) == 0 {
		return DefaultAllowedOrigins
	}
	return c.Server.AllowedOrigins
}

// GetServerLogTheme returns the log theme (default: everforest)
func (c *Config) GetServerLogTheme() string {
	if c.Server.LogTheme == "" {
		return "everforest"
	}
	return c.Server.LogTheme
}

// GetFrameRate returns frames per second streamed to clients (default: 30)
func (c *Config) GetFrameRate() int {
	if c.Server.FrameRate <= 0 {
		return 30
	}
	return c.Server.FrameRate
}

// String returns a short summary of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Database: %s, Server: {Port: %d, LogTheme: %s}, Layout: {Charge: %.0f, LinkDistance: %.0f}}",
		c.GetDatabasePath(), c.GetServerPort(), c.GetServerLogTheme(), c.Layout.ChargeStrength, c.Layout.LinkDistance)
}
