package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/nodegraph/layout"
)

func TestRender_Nil(t *testing.T) {
	f := Render(nil, VisualState{Generation: 4, Width: 10, Height: 20, Transform: Identity}, DefaultOptions())
	assert.Equal(t, uint64(4), f.Generation)
	assert.Equal(t, "explore", f.Mode)
	assert.NotNil(t, f.Nodes)
	assert.NotNil(t, f.Edges)
}

func TestRender_MarkersAndEdges(t *testing.T) {
	g := testData("a")
	opts := DefaultOptions()
	sim := layout.New(g.Nodes, g.Links, layout.Config{Center: layout.Vector{X: 400, Y: 300}, Focus: "a"}, nil)

	f := Render(sim, VisualState{Transform: Transform{X: 1, Y: 2, K: 3}}, opts)
	require.Len(t, f.Nodes, 4)
	require.Len(t, f.Edges, 2)

	a := f.Nodes[0]
	assert.Equal(t, "Alpha", a.Label)
	assert.True(t, a.Focal)
	assert.True(t, a.Pinned)
	assert.Equal(t, opts.FocalRadius, a.Radius)
	assert.Equal(t, "#458588", a.Color)
	assert.Equal(t, 400.0, a.X)

	b := f.Nodes[1]
	assert.False(t, b.Focal)
	assert.Equal(t, opts.NodeRadius, b.Radius)
	assert.Equal(t, 1.0, b.Opacity)

	e := f.Edges[0]
	assert.Equal(t, "a", e.Source)
	assert.Equal(t, "b", e.Target)
	assert.Equal(t, a.X, e.X1)
	assert.Equal(t, b.Y, e.Y2)

	assert.Equal(t, "detail", f.Mode)
	assert.Equal(t, "a", f.Focus)
	assert.Equal(t, Transform{X: 1, Y: 2, K: 3}, f.Transform)
	assert.True(t, f.Running)
}

func TestRender_HoverDimsOutsideNeighborhood(t *testing.T) {
	g := testData("")
	opts := DefaultOptions()
	sim := layout.New(g.Nodes, g.Links, layout.Config{}, nil)

	f := Render(sim, VisualState{
		Hover:        "a",
		Neighborhood: map[string]bool{"a": true, "b": true},
	}, opts)

	opacity := map[string]float64{}
	for _, m := range f.Nodes {
		opacity[m.ID] = m.Opacity
	}
	assert.Equal(t, map[string]float64{"a": 1, "b": 1, "c": opts.DimOpacity, "d": opts.DimOpacity}, opacity)

	for _, e := range f.Edges {
		if e.Source == "a" {
			assert.Equal(t, 1.0, e.Opacity)
		} else {
			assert.Equal(t, opts.DimOpacity, e.Opacity)
		}
	}
}

func TestRender_DoesNotMutateSimulation(t *testing.T) {
	g := testData("")
	sim := layout.New(g.Nodes, g.Links, layout.Config{}, nil)
	before := sim.Nodes()[2].Position()
	alpha := sim.Alpha()

	Render(sim, VisualState{Hover: "c"}, DefaultOptions())
	assert.Equal(t, before, sim.Nodes()[2].Position())
	assert.Equal(t, alpha, sim.Alpha())
	assert.Zero(t, sim.Ticks())
}
