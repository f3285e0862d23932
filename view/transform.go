package view

import (
	"math"

	"github.com/teranos/nodegraph/layout"
)

// Transform maps simulation coordinates to screen coordinates:
// screen = sim*K + (X, Y). It is applied at render time only.
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the untransformed view
var Identity = Transform{X: 0, Y: 0, K: 1}

// Apply maps a simulation point to the screen
func (t Transform) Apply(p layout.Vector) layout.Vector {
	return layout.Vector{X: p.X*t.K + t.X, Y: p.Y*t.K + t.Y}
}

// Invert maps a screen point back to simulation coordinates
func (t Transform) Invert(p layout.Vector) layout.Vector {
	return layout.Vector{X: (p.X - t.X) / t.K, Y: (p.Y - t.Y) / t.K}
}

// Translate pans by a screen-space offset
func (t Transform) Translate(dx, dy float64) Transform {
	return Transform{X: t.X + dx, Y: t.Y + dy, K: t.K}
}

// ScaleAbout multiplies the scale by factor, clamped to [min, max], keeping
// the simulation point under the screen anchor fixed.
func (t Transform) ScaleAbout(factor float64, anchor layout.Vector, min, max float64) Transform {
	k := clamp(t.K*factor, min, max)
	p := t.Invert(anchor)
	return Transform{X: anchor.X - p.X*k, Y: anchor.Y - p.Y*k, K: k}
}

// Lerp interpolates between a and b; the scale is interpolated
// geometrically so zooming looks uniform.
func Lerp(a, b Transform, f float64) Transform {
	if f <= 0 {
		return a
	}
	if f >= 1 {
		return b
	}
	return Transform{
		X: a.X + (b.X-a.X)*f,
		Y: a.Y + (b.Y-a.Y)*f,
		K: a.K * math.Pow(b.K/a.K, f),
	}
}

func clamp(v, min, max float64) float64 {
	return math.Max(min, math.Min(max, v))
}

// fitTransform returns the transform that shows bounds, padded, centered in
// a width x height viewport. The scale never exceeds 1 or drops below min.
// A degenerate box (single node) keeps scale 1.
func fitTransform(b layout.Bounds, width, height, padding, min float64) Transform {
	k := 1.0
	bw, bh := b.Width(), b.Height()
	if bw > 0 || bh > 0 {
		sx, sy := math.Inf(1), math.Inf(1)
		if bw > 0 {
			sx = (width - 2*padding) / bw
		}
		if bh > 0 {
			sy = (height - 2*padding) / bh
		}
		k = math.Min(sx, sy)
	}
	k = clamp(k, min, 1)
	c := b.Center()
	return Transform{X: width/2 - c.X*k, Y: height/2 - c.Y*k, K: k}
}
