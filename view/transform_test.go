package view

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/nodegraph/layout"
)

func TestTransform_ApplyInvert(t *testing.T) {
	tr := Transform{X: 30, Y: -20, K: 2}
	p := layout.Vector{X: 5, Y: 7}

	assert.Equal(t, layout.Vector{X: 40, Y: -6}, tr.Apply(p))
	assert.Equal(t, p, tr.Invert(tr.Apply(p)))
	assert.Equal(t, p, Identity.Apply(p))
}

func TestTransform_ScaleAboutKeepsAnchor(t *testing.T) {
	tr := Transform{X: 10, Y: 10, K: 1}
	anchor := layout.Vector{X: 200, Y: 150}
	before := tr.Invert(anchor)

	scaled := tr.ScaleAbout(2, anchor, 0.1, 4)
	assert.Equal(t, 2.0, scaled.K)
	assert.InDelta(t, before.X, scaled.Invert(anchor).X, 1e-9)
	assert.InDelta(t, before.Y, scaled.Invert(anchor).Y, 1e-9)
}

func TestTransform_ScaleAboutClamps(t *testing.T) {
	assert.Equal(t, 4.0, Identity.ScaleAbout(100, layout.Vector{}, 0.1, 4).K)
	assert.Equal(t, 0.1, Identity.ScaleAbout(0.0001, layout.Vector{}, 0.1, 4).K)
}

func TestLerp(t *testing.T) {
	a := Transform{X: 0, Y: 0, K: 1}
	b := Transform{X: 100, Y: 50, K: 4}

	assert.Equal(t, a, Lerp(a, b, 0))
	assert.Equal(t, b, Lerp(a, b, 1))
	mid := Lerp(a, b, 0.5)
	assert.InDelta(t, 50, mid.X, 1e-9)
	assert.InDelta(t, 2, mid.K, 1e-9)
}

func TestFitTransform(t *testing.T) {
	b := layout.Bounds{Min: layout.Vector{X: -100, Y: -50}, Max: layout.Vector{X: 1900, Y: 950}}
	tr := fitTransform(b, 800, 600, 50, 0.1)

	// width limits: (800-100)/2000
	assert.InDelta(t, 0.35, tr.K, 1e-9)
	c := tr.Apply(b.Center())
	assert.InDelta(t, 400, c.X, 1e-9)
	assert.InDelta(t, 300, c.Y, 1e-9)
}

func TestFitTransform_NeverZoomsPastOne(t *testing.T) {
	b := layout.Bounds{Min: layout.Vector{X: 0, Y: 0}, Max: layout.Vector{X: 10, Y: 10}}
	assert.Equal(t, 1.0, fitTransform(b, 800, 600, 40, 0.1).K)
}

func TestFitTransform_Degenerate(t *testing.T) {
	p := layout.Vector{X: 12, Y: 34}
	tr := fitTransform(layout.Bounds{Min: p, Max: p}, 800, 600, 40, 0.1)
	assert.Equal(t, Transform{X: 388, Y: 266, K: 1}, tr)
}

func TestFitTransform_ClampsToMinZoom(t *testing.T) {
	b := layout.Bounds{Min: layout.Vector{}, Max: layout.Vector{X: 1e6, Y: 1}}
	assert.Equal(t, 0.1, fitTransform(b, 800, 600, 40, 0.1).K)
}
