package layout

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/teranos/nodegraph/graph"
)

var viewportCenter = Vector{X: 400, Y: 300}

func testGraph(n int) ([]graph.Node, []graph.Link) {
	nodes := make([]graph.Node, n)
	var links []graph.Link
	for i := range nodes {
		nodes[i] = graph.Node{ID: fmt.Sprintf("n%d", i)}
		if i > 0 {
			links = append(links, graph.Link{Source: fmt.Sprintf("n%d", (i-1)/2), Target: nodes[i].ID})
		}
	}
	return nodes, links
}

func newTestSim(t *testing.T, n int, focus string) *Simulation {
	t.Helper()
	nodes, links := testGraph(n)
	return New(nodes, links, Config{Center: viewportCenter, Focus: focus, Seed: 1}, zaptest.NewLogger(t).Sugar())
}

func TestSimulation_AlphaMonotonicAndBounded(t *testing.T) {
	sim := newTestSim(t, 12, "")
	require.Equal(t, 1.0, sim.Alpha())

	prev := sim.Alpha()
	ticks := 0
	for sim.Running() {
		sim.Tick()
		ticks++
		require.LessOrEqual(t, sim.Alpha(), prev)
		prev = sim.Alpha()
		require.LessOrEqual(t, ticks, DefaultMaxIterations, "did not stop within budget")
	}
	assert.Less(t, sim.Alpha(), DefaultAlphaMin)
	assert.False(t, sim.Tick(), "stopped simulation does not tick")
	assert.Equal(t, ticks, sim.Ticks())
}

func TestSimulation_PinStability(t *testing.T) {
	sim := newTestSim(t, 8, "")
	p := Vector{X: -25, Y: 60}
	require.True(t, sim.Pin("n3", &p))

	n, _ := sim.Node("n3")
	for i := 0; i < 100; i++ {
		sim.Tick()
		require.Equal(t, p, n.Position())
	}
	assert.Zero(t, n.VX)
	assert.Zero(t, n.VY)
}

func TestSimulation_PinnedNodeStillExertsForce(t *testing.T) {
	nodes := []graph.Node{{ID: "a"}, {ID: "b"}}
	sim := New(nodes, nil, Config{
		Initial: map[string]Vector{"a": {0, 0}, "b": {50, 0}},
		// keep the pair away from the dead zone
		ExclusionRadius: -1,
	}, nil)
	require.True(t, sim.Pin("a", &Vector{0, 0}))

	sim.Tick()
	b, _ := sim.Node("b")
	assert.Greater(t, b.X, 50.0, "b is repelled by pinned a")
}

func TestSimulation_FocalPin(t *testing.T) {
	sim := newTestSim(t, 10, "n0")
	require.Equal(t, ModeDetail, sim.Mode())
	require.Equal(t, "n0", sim.Focus())

	sim.RunToConvergence(300)

	focal, _ := sim.Node("n0")
	assert.Equal(t, viewportCenter, focal.Position())
	for _, n := range sim.Nodes() {
		assert.True(t, n.Position().IsFinite(), "node %s position not finite", n.ID)
	}
}

func TestSimulation_UnknownFocusIsExplore(t *testing.T) {
	sim := newTestSim(t, 5, "missing")
	assert.Equal(t, ModeExplore, sim.Mode())
	assert.Empty(t, sim.Focus())
	assert.NotNil(t, sim.exclusion)
}

func TestSimulation_DragThenRelease(t *testing.T) {
	sim := newTestSim(t, 6, "")
	sim.RunToConvergence(300)
	require.False(t, sim.Running())

	target := Vector{X: 10, Y: 10}
	sim.Reheat(1)
	require.True(t, sim.Pin("n1", &target))
	for i := 0; i < 5; i++ {
		sim.Tick()
	}
	b, _ := sim.Node("n1")
	require.Equal(t, target, b.Position())

	require.True(t, sim.Pin("n1", nil))
	sim.Tick()
	sim.Tick()
	assert.NotEqual(t, target, b.Position())
	assert.Nil(t, b.Fixed)
}

func TestSimulation_FocalStaysPinnedOnRelease(t *testing.T) {
	sim := newTestSim(t, 6, "n2")
	p := Vector{X: 0, Y: 0}
	sim.Pin("n2", &p)
	sim.Pin("n2", nil)

	focal, _ := sim.Node("n2")
	require.NotNil(t, focal.Fixed)
	assert.Equal(t, viewportCenter, *focal.Fixed)
}

func TestSimulation_Resize(t *testing.T) {
	sim := newTestSim(t, 6, "n0")
	sim.RunToConvergence(300)
	require.False(t, sim.Running())

	newCenter := Vector{X: 640, Y: 360}
	sim.SetCenter(newCenter)
	sim.Reheat(1)

	assert.Equal(t, newCenter, sim.Center())
	assert.Equal(t, newCenter, sim.center.Target)
	assert.GreaterOrEqual(t, sim.Alpha(), DefaultAlphaMin)
	assert.True(t, sim.Tick())

	focal, _ := sim.Node("n0")
	assert.Equal(t, newCenter, focal.Position())
}

func TestSimulation_ResizeMovesExclusion(t *testing.T) {
	sim := newTestSim(t, 3, "")
	sim.SetCenter(Vector{X: 1, Y: 2})
	assert.Equal(t, Vector{X: 1, Y: 2}, sim.exclusion.Target)
}

func TestSimulation_DanglingAndSelfLinksDropped(t *testing.T) {
	nodes := []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "a"}}
	links := []graph.Link{{Source: "a", Target: "b"}, {Source: "a", Target: "ghost"}, {Source: "b", Target: "b"}}

	sim := New(nodes, links, Config{}, nil)
	assert.Len(t, sim.Nodes(), 2)
	assert.Len(t, sim.Links(), 1)
	assert.Equal(t, 2, sim.DroppedLinks())
	assert.Equal(t, 1, sim.RunToConvergence(1))
}

func TestSimulation_Empty(t *testing.T) {
	sim := New(nil, []graph.Link{{Source: "a", Target: "b"}}, Config{}, nil)

	assert.False(t, sim.Running())
	assert.False(t, sim.Tick())
	assert.Equal(t, 0, sim.RunToConvergence(300))
	sim.Reheat(1)
	assert.False(t, sim.Running())
	assert.False(t, sim.Pin("a", &Vector{}))
	_, ok := sim.Bounds()
	assert.False(t, ok)
	sim.SetCenter(Vector{X: 5, Y: 5})
}

func TestSimulation_Deterministic(t *testing.T) {
	a := newTestSim(t, 15, "")
	b := newTestSim(t, 15, "")
	a.RunToConvergence(300)
	b.RunToConvergence(300)
	for i := range a.Nodes() {
		assert.Equal(t, a.Nodes()[i].Position(), b.Nodes()[i].Position())
	}
}

func TestSimulation_InitialPositions(t *testing.T) {
	nodes := []graph.Node{{ID: "a"}, {ID: "b"}}
	sim := New(nodes, nil, Config{Center: viewportCenter, Initial: map[string]Vector{"b": {1, 2}}}, nil)

	a, _ := sim.Node("a")
	assert.InDelta(t, viewportCenter.X+10*math.Sqrt(0.5), a.X, 1e-9)
	assert.InDelta(t, viewportCenter.Y, a.Y, 1e-9)

	b, _ := sim.Node("b")
	assert.Equal(t, Vector{1, 2}, b.Position())
}

func TestSimulation_Bounds(t *testing.T) {
	nodes := []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	sim := New(nodes, nil, Config{Initial: map[string]Vector{"a": {-5, 3}, "b": {10, -2}, "c": {0, 7}}}, nil)

	b, ok := sim.Bounds()
	require.True(t, ok)
	assert.Equal(t, Bounds{Min: Vector{-5, -2}, Max: Vector{10, 7}}, b)
	assert.Equal(t, 15.0, b.Width())
	assert.Equal(t, 9.0, b.Height())
	assert.Equal(t, Vector{2.5, 2.5}, b.Center())
}

func TestSimulation_AlphaTargetKeepsRunning(t *testing.T) {
	sim := newTestSim(t, 4, "")
	sim.SetAlphaTarget(0.3)
	for i := 0; i < 1000; i++ {
		sim.Tick()
	}
	assert.True(t, sim.Running())
	assert.InDelta(t, 0.3, sim.Alpha(), 0.01)

	sim.SetAlphaTarget(0)
	sim.RunToConvergence(1000)
	assert.False(t, sim.Running())
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "explore", ModeExplore.String())
	assert.Equal(t, "detail", ModeDetail.String())
}
