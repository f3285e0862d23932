package am

import "github.com/teranos/nodegraph/errors"

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port != nil && *c.Server.Port == 0 {
		return errors.Newf("server.port cannot be 0 (omit for default port %d)", DefaultServerPort)
	}
	if c.Server.Port != nil && *c.Server.Port < 0 {
		return errors.Newf("server.port must be positive, got %d", *c.Server.Port)
	}
	if c.Server.MaxClients < 0 {
		return errors.Newf("server.max_clients must be >= 0, got %d", c.Server.MaxClients)
	}
	if c.Server.FrameRate < 0 {
		return errors.Newf("server.frame_rate must be >= 0, got %d", c.Server.FrameRate)
	}

	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if err := c.View.Validate(); err != nil {
		return err
	}

	if c.Graph.Limit < 0 {
		return errors.Newf("graph.limit must be >= 0, got %d", c.Graph.Limit)
	}
	if c.Graph.NeighborhoodDepth < 0 {
		return errors.Newf("graph.neighborhood_depth must be >= 0, got %d", c.Graph.NeighborhoodDepth)
	}

	return nil
}

// Validate checks the physics constants
func (l LayoutConfig) Validate() error {
	if l.LinkDistance < 0 {
		return errors.Newf("layout.link_distance must be >= 0, got %f", l.LinkDistance)
	}
	if l.LinkStrength < 0 {
		return errors.Newf("layout.link_strength must be >= 0, got %f", l.LinkStrength)
	}
	if l.CollideRadius < 0 {
		return errors.Newf("layout.collide_radius must be >= 0, got %f", l.CollideRadius)
	}
	if l.ExclusionRadius < 0 {
		return errors.Newf("layout.exclusion_radius must be >= 0, got %f", l.ExclusionRadius)
	}
	if l.CenterStrength < 0 || l.CenterStrength > 1 {
		return errors.Newf("layout.center_strength must be within [0, 1], got %f", l.CenterStrength)
	}
	if l.AlphaMin < 0 || l.AlphaMin >= 1 {
		return errors.Newf("layout.alpha_min must be within [0, 1), got %f", l.AlphaMin)
	}
	if l.AlphaDecay < 0 || l.AlphaDecay >= 1 {
		return errors.Newf("layout.alpha_decay must be within [0, 1), got %f", l.AlphaDecay)
	}
	if l.VelocityDecay < 0 || l.VelocityDecay > 1 {
		return errors.Newf("layout.velocity_decay must be within [0, 1], got %f", l.VelocityDecay)
	}
	if l.DragAlphaTarget < 0 || l.DragAlphaTarget > 1 {
		return errors.Newf("layout.drag_alpha_target must be within [0, 1], got %f", l.DragAlphaTarget)
	}
	if l.ReheatAlpha < 0 || l.ReheatAlpha > 1 {
		return errors.Newf("layout.reheat_alpha must be within [0, 1], got %f", l.ReheatAlpha)
	}
	if l.WarmupIterations < 0 {
		return errors.Newf("layout.warmup_iterations must be >= 0, got %d", l.WarmupIterations)
	}
	if l.TickIntervalMS < 0 {
		return errors.Newf("layout.tick_interval_ms must be >= 0, got %d", l.TickIntervalMS)
	}
	return nil
}

// Validate checks zoom and render constants
func (v ViewConfig) Validate() error {
	if v.MinZoom < 0 {
		return errors.Newf("view.min_zoom must be >= 0, got %f", v.MinZoom)
	}
	if v.MaxZoom != 0 && v.MaxZoom < v.MinZoom {
		return errors.Newf("view.max_zoom (%f) must be >= view.min_zoom (%f)", v.MaxZoom, v.MinZoom)
	}
	if v.ZoomStep != 0 && v.ZoomStep <= 1 {
		return errors.Newf("view.zoom_step must be > 1, got %f", v.ZoomStep)
	}
	if v.FitPadding < 0 {
		return errors.Newf("view.fit_padding must be >= 0, got %f", v.FitPadding)
	}
	if v.DimOpacity < 0 || v.DimOpacity > 1 {
		return errors.Newf("view.dim_opacity must be within [0, 1], got %f", v.DimOpacity)
	}
	if v.ClickThreshold < 0 {
		return errors.Newf("view.click_threshold must be >= 0, got %f", v.ClickThreshold)
	}
	if v.TransitionMS < 0 {
		return errors.Newf("view.transition_ms must be >= 0, got %d", v.TransitionMS)
	}
	return nil
}
