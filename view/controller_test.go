package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/nodegraph/graph"
	"github.com/teranos/nodegraph/layout"
	"github.com/teranos/nodegraph/sym"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func testData(focus string) *graph.Graph {
	work := graph.TagRef{ID: "work", Name: "Work", Color: "#458588"}
	return &graph.Graph{
		Nodes: []graph.Node{
			{ID: "a", Name: "Alpha", Tags: []graph.TagRef{work}},
			{ID: "b", Name: "Beta"},
			{ID: "c", Name: "Gamma"},
			{ID: "d", Name: "Delta"},
		},
		Links: []graph.Link{{Source: "a", Target: "b"}, {Source: "b", Target: "c"}, {Source: "c", Target: "ghost"}},
		Meta:  graph.Meta{Focus: focus},
	}
}

func newTestController(t *testing.T) (*Controller, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewController(Options{Width: 800, Height: 600, Layout: layout.Config{Seed: 3}}, zaptest.NewLogger(t).Sugar())
	c.now = clock.now
	return c, clock
}

func screenOf(t *testing.T, c *Controller, id string) layout.Vector {
	t.Helper()
	n, ok := c.Simulation().Node(id)
	require.True(t, ok, "node %s", id)
	return c.Transform().Apply(n.Position())
}

func settle(c *Controller) {
	for i := 0; i < 400 && c.Tick(); i++ {
	}
}

func TestController_SetDataBumpsGeneration(t *testing.T) {
	c, _ := newTestController(t)
	g1 := c.Generation()
	g2 := c.SetData(testData(""))
	assert.Greater(t, g2, g1)
	assert.Equal(t, layout.ModeExplore, c.Simulation().Mode())
	assert.True(t, c.Active())
	assert.Len(t, c.Simulation().Links(), 2)
}

func TestController_DetailModeConvergesOnLoad(t *testing.T) {
	c, _ := newTestController(t)
	c.SetData(testData("b"))

	sim := c.Simulation()
	assert.Equal(t, layout.ModeDetail, sim.Mode())
	assert.False(t, sim.Running())
	n, _ := sim.Node("b")
	assert.Equal(t, layout.Vector{X: 400, Y: 300}, n.Position())
}

func TestController_DragThenRelease(t *testing.T) {
	c, _ := newTestController(t)
	c.SetData(testData(""))
	settle(c)

	p := screenOf(t, c, "b")
	c.PointerDown(1, p.X, p.Y)
	assert.True(t, c.Simulation().Running(), "drag start reheats")

	c.PointerMove(1, 10, 10)
	c.Tick()
	n, _ := c.Simulation().Node("b")
	assert.Equal(t, layout.Vector{X: 10, Y: 10}, n.Position())

	selected := 0
	c.OnNodeSelect(func(graph.Node) { selected++ })
	c.PointerUp(1, 10, 10)
	assert.Nil(t, n.Fixed)
	assert.Zero(t, selected, "a drag is not a click")
	assert.Zero(t, c.Simulation().AlphaTarget())

	c.Tick()
	c.Tick()
	assert.NotEqual(t, layout.Vector{X: 10, Y: 10}, n.Position())
}

func TestController_ClickSelectsOnce(t *testing.T) {
	c, _ := newTestController(t)
	c.SetData(testData(""))
	settle(c)

	var got []graph.Node
	c.OnNodeSelect(func(n graph.Node) { got = append(got, n) })

	p := screenOf(t, c, "a")
	c.PointerDown(7, p.X, p.Y)
	c.PointerMove(7, p.X+2, p.Y+1)
	c.PointerUp(7, p.X+2, p.Y+1)

	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "Alpha", got[0].Name)

	n, _ := c.Simulation().Node("a")
	assert.Nil(t, n.Fixed)
}

func TestController_DragIsPerPointer(t *testing.T) {
	c, _ := newTestController(t)
	c.SetData(testData(""))
	settle(c)

	p := screenOf(t, c, "c")
	c.PointerDown(1, p.X, p.Y)
	c.PointerDown(2, p.X, p.Y)

	n, _ := c.Simulation().Node("c")
	c.PointerUp(1, p.X, p.Y)
	assert.NotNil(t, n.Fixed, "second pointer still holds the node")

	c.PointerUp(2, p.X, p.Y)
	assert.Nil(t, n.Fixed)

	c.PointerUp(3, 0, 0)
}

func TestController_RepeatedDownReleasesFirst(t *testing.T) {
	c, _ := newTestController(t)
	c.SetData(testData(""))
	settle(c)

	selected := 0
	c.OnNodeSelect(func(graph.Node) { selected++ })

	p := screenOf(t, c, "c")
	c.PointerDown(1, p.X, p.Y)
	c.PointerDown(1, p.X, p.Y)
	c.PointerUp(1, p.X, p.Y)

	n, _ := c.Simulation().Node("c")
	assert.Nil(t, n.Fixed)
	assert.Zero(t, c.Simulation().AlphaTarget())
	assert.Empty(t, c.dragCount)
	assert.Equal(t, 1, selected, "only the final up selects")

	settle(c)
	assert.False(t, c.Active(), "layout goes idle after the last release")
}

func TestController_LeaveEndsDrags(t *testing.T) {
	c, _ := newTestController(t)
	c.SetData(testData(""))
	settle(c)

	selected := 0
	c.OnNodeSelect(func(graph.Node) { selected++ })

	a := screenOf(t, c, "a")
	c.PointerDown(1, a.X, a.Y)
	c.PointerDown(2, 5, 5)
	require.NotZero(t, c.Simulation().AlphaTarget())

	c.PointerLeave()
	n, _ := c.Simulation().Node("a")
	assert.Nil(t, n.Fixed)
	assert.Zero(t, c.Simulation().AlphaTarget())
	assert.Empty(t, c.pointers)
	assert.Zero(t, selected, "leaving is not a click")

	c.PointerUp(1, a.X, a.Y)
	assert.Zero(t, selected)

	settle(c)
	assert.False(t, c.Active())
}

func TestController_FocalNodeStaysPinned(t *testing.T) {
	c, _ := newTestController(t)
	c.SetData(testData("a"))

	p := screenOf(t, c, "a")
	c.PointerDown(1, p.X, p.Y)
	c.PointerMove(1, p.X+100, p.Y+100)
	c.PointerUp(1, p.X+100, p.Y+100)

	n, _ := c.Simulation().Node("a")
	require.NotNil(t, n.Fixed)
	assert.Equal(t, layout.Vector{X: 400, Y: 300}, *n.Fixed)
}

func TestController_HoverNeighborhood(t *testing.T) {
	c, _ := newTestController(t)
	c.SetData(testData(""))
	settle(c)

	alpha := c.Simulation().Alpha()
	p := screenOf(t, c, "b")
	c.PointerMove(0, p.X, p.Y)
	assert.Equal(t, "b", c.Hover())
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, c.Neighborhood("b"))
	assert.Equal(t, alpha, c.Simulation().Alpha(), "hover does not touch the simulation")

	f := c.Frame()
	for _, m := range f.Nodes {
		if m.ID == "d" {
			assert.Equal(t, c.opts.DimOpacity, m.Opacity)
		} else {
			assert.Equal(t, 1.0, m.Opacity, m.ID)
		}
	}

	c.PointerLeave()
	assert.Empty(t, c.Hover())
	for _, m := range c.Frame().Nodes {
		assert.Equal(t, 1.0, m.Opacity)
	}
}

func TestController_BackgroundPan(t *testing.T) {
	c, _ := newTestController(t)
	c.SetData(testData(""))
	settle(c)

	selected := false
	c.OnNodeSelect(func(graph.Node) { selected = true })

	c.PointerDown(1, 5, 5)
	c.PointerMove(1, 15, 0)
	c.PointerMove(1, 25, -5)
	c.PointerUp(1, 25, -5)

	assert.Equal(t, Transform{X: 20, Y: -10, K: 1}, c.Transform())
	assert.False(t, selected)
}

func TestController_ZoomStepAndClamp(t *testing.T) {
	c, _ := newTestController(t)
	center := layout.Vector{X: 400, Y: 300}
	before := c.Transform().Invert(center)

	c.ZoomIn()
	assert.InDelta(t, 1.5, c.Transform().K, 1e-9)
	after := c.Transform().Invert(center)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)

	for i := 0; i < 20; i++ {
		c.ZoomIn()
	}
	assert.Equal(t, 4.0, c.Transform().K)
	for i := 0; i < 40; i++ {
		c.ZoomOut()
	}
	assert.Equal(t, 0.1, c.Transform().K)
}

func TestController_WheelZoomsAboutPointer(t *testing.T) {
	c, _ := newTestController(t)
	anchor := layout.Vector{X: 120, Y: 80}
	before := c.Transform().Invert(anchor)

	c.Wheel(anchor.X, anchor.Y, -500)
	assert.InDelta(t, 2.0, c.Transform().K, 1e-9)
	after := c.Transform().Invert(anchor)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)

	c.Wheel(anchor.X, anchor.Y, 500)
	assert.InDelta(t, 1.0, c.Transform().K, 1e-9)
}

func TestController_ResetZoomAnimates(t *testing.T) {
	c, clock := newTestController(t)
	c.ZoomIn()
	c.ZoomIn()

	c.ResetZoom()
	assert.True(t, c.Active())

	clock.advance(375 * time.Millisecond)
	c.Tick()
	k := c.Transform().K
	assert.Greater(t, k, 1.0)
	assert.Less(t, k, 2.25)

	clock.advance(400 * time.Millisecond)
	c.Tick()
	assert.Equal(t, Identity, c.Transform())
	assert.False(t, c.Active())
}

func TestController_FitToViewIdempotent(t *testing.T) {
	c, _ := newTestController(t)
	c.SetData(testData(""))
	settle(c)

	c.FitToView()
	first := c.Transform()
	c.FitToView()
	assert.Equal(t, first, c.Transform())
	assert.LessOrEqual(t, first.K, 1.0)

	b, _ := c.Simulation().Bounds()
	mid := first.Apply(b.Center())
	assert.InDelta(t, 400, mid.X, 1e-9)
	assert.InDelta(t, 300, mid.Y, 1e-9)
}

func TestController_FitToViewEmptyIsNoop(t *testing.T) {
	c, _ := newTestController(t)
	c.ZoomIn()
	before := c.Transform()
	c.FitToView()
	assert.Equal(t, before, c.Transform())
}

func TestController_Resize(t *testing.T) {
	c, _ := newTestController(t)
	c.SetData(testData("c"))
	require.False(t, c.Simulation().Running())

	c.Resize(1000, 800)
	assert.Equal(t, layout.Vector{X: 500, Y: 400}, c.Simulation().Center())
	assert.True(t, c.Simulation().Running())
	assert.True(t, c.Tick())

	n, _ := c.Simulation().Node("c")
	assert.Equal(t, layout.Vector{X: 500, Y: 400}, n.Position())

	w, h := c.Size()
	assert.Equal(t, 1000.0, w)
	assert.Equal(t, 800.0, h)

	c.Resize(0, 100)
	w, _ = c.Size()
	assert.Equal(t, 1000.0, w)
}

func TestController_EmptyIsNoop(t *testing.T) {
	c, _ := newTestController(t)
	c.SetData(&graph.Graph{})

	assert.False(t, c.Active())
	assert.False(t, c.Tick())
	c.PointerDown(1, 400, 300)
	c.PointerMove(1, 410, 300)
	c.PointerUp(1, 410, 300)
	c.Resize(100, 100)
	assert.False(t, c.Active())

	f := c.Frame()
	assert.Empty(t, f.Nodes)
	assert.Empty(t, f.Edges)
}

func TestController_SetOptionsKeepsPositions(t *testing.T) {
	c, _ := newTestController(t)
	c.SetData(testData(""))
	settle(c)

	n, _ := c.Simulation().Node("a")
	pos := n.Position()
	gen := c.Generation()

	c.SetOptions(Options{Layout: layout.Config{LinkDistance: 200, Seed: 3}})
	assert.Greater(t, c.Generation(), gen)
	n, _ = c.Simulation().Node("a")
	assert.Equal(t, pos, n.Position())
	assert.Equal(t, 200.0, c.Simulation().Config().LinkDistance)
	assert.True(t, c.Simulation().Running())

	w, h := c.Size()
	assert.Equal(t, 800.0, w)
	assert.Equal(t, 600.0, h)
}

func TestController_SimulationLogsCarryOneSymbol(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := NewController(Options{Width: 800, Height: 600}, zap.New(core).Sugar())
	c.SetData(testData(""))

	started := logs.FilterMessage("Simulation started").All()
	require.NotEmpty(t, started)
	entry := started[len(started)-1]
	assert.Equal(t, "layout", entry.LoggerName)

	var symbols []string
	for _, f := range entry.Context {
		if f.Key == "symbol" {
			symbols = append(symbols, f.String)
		}
	}
	assert.Equal(t, []string{sym.Layout}, symbols)
}
