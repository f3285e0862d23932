package view

import (
	"time"

	"github.com/teranos/nodegraph/am"
	"github.com/teranos/nodegraph/layout"
)

// Options configures a Controller and its Session
type Options struct {
	Layout layout.Config

	Width  float64
	Height float64

	MinZoom        float64
	MaxZoom        float64
	ZoomStep       float64
	FitPadding     float64
	NodeRadius     float64
	FocalRadius    float64
	DimOpacity     float64
	ClickThreshold float64
	Transition     time.Duration // negative resets zoom without animation

	DragAlphaTarget  float64
	ReheatAlpha      float64
	WarmupIterations int

	TickInterval time.Duration
	FrameRate    int // frames per second, 0 = unthrottled

	Verbosity int
}

// DefaultOptions returns the defaults for an 800x600 viewport
func DefaultOptions() Options {
	return Options{}.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 800
	}
	if o.Height <= 0 {
		o.Height = 600
	}
	if o.MinZoom <= 0 {
		o.MinZoom = 0.1
	}
	if o.MaxZoom <= 0 {
		o.MaxZoom = 4
	}
	if o.ZoomStep <= 1 {
		o.ZoomStep = 1.5
	}
	if o.FitPadding < 0 {
		o.FitPadding = 0
	}
	if o.NodeRadius <= 0 {
		o.NodeRadius = 6
	}
	if o.FocalRadius <= 0 {
		o.FocalRadius = 10
	}
	if o.DimOpacity <= 0 || o.DimOpacity > 1 {
		o.DimOpacity = 0.15
	}
	if o.ClickThreshold <= 0 {
		o.ClickThreshold = 3
	}
	if o.Transition == 0 {
		o.Transition = 750 * time.Millisecond
	}
	if o.DragAlphaTarget <= 0 {
		o.DragAlphaTarget = 0.3
	}
	if o.ReheatAlpha <= 0 {
		o.ReheatAlpha = 1
	}
	if o.WarmupIterations <= 0 {
		o.WarmupIterations = layout.DefaultMaxIterations
	}
	if o.TickInterval <= 0 {
		o.TickInterval = 16 * time.Millisecond
	}
	if o.FrameRate < 0 {
		o.FrameRate = 0
	}
	return o
}

// OptionsFromConfig maps the layout and view sections of cfg onto Options
func OptionsFromConfig(cfg *am.Config) Options {
	l, v := cfg.Layout, cfg.View
	return Options{
		Layout: layout.Config{
			ChargeStrength:  l.ChargeStrength,
			LinkDistance:    l.LinkDistance,
			LinkStrength:    l.LinkStrength,
			CollideRadius:   l.CollideRadius,
			ExclusionRadius: l.ExclusionRadius,
			CenterStrength:  l.CenterStrength,
			AlphaMin:        l.AlphaMin,
			AlphaDecay:      l.AlphaDecay,
			VelocityDecay:   l.VelocityDecay,
			Seed:            l.Seed,
		},
		MinZoom:          v.MinZoom,
		MaxZoom:          v.MaxZoom,
		ZoomStep:         v.ZoomStep,
		FitPadding:       v.FitPadding,
		NodeRadius:       v.NodeRadius,
		FocalRadius:      v.FocalRadius,
		DimOpacity:       v.DimOpacity,
		ClickThreshold:   v.ClickThreshold,
		Transition:       time.Duration(v.TransitionMS) * time.Millisecond,
		DragAlphaTarget:  l.DragAlphaTarget,
		ReheatAlpha:      l.ReheatAlpha,
		WarmupIterations: l.WarmupIterations,
		TickInterval:     time.Duration(l.TickIntervalMS) * time.Millisecond,
		FrameRate:        cfg.Server.FrameRate,
	}
}
