package layout

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func simNodes(points ...Vector) []*SimNode {
	nodes := make([]*SimNode, len(points))
	for i, p := range points {
		nodes[i] = &SimNode{Index: i, X: p.X, Y: p.Y}
	}
	return nodes
}

func TestManyBody_Repels(t *testing.T) {
	nodes := simNodes(Vector{0, 0}, Vector{10, 0})
	f := NewManyBody(DefaultChargeStrength)
	f.Initialize(nodes, rand.New(rand.NewSource(1)))
	f.Apply(1)

	assert.Less(t, nodes[0].VX, 0.0)
	assert.Greater(t, nodes[1].VX, 0.0)
	assert.InDelta(t, -nodes[0].VX, nodes[1].VX, 1e-9)
	// -400 * 1 / 100 * 10
	assert.InDelta(t, 40.0, nodes[1].VX, 1e-6)
}

func TestManyBody_CoincidentNodesSeparate(t *testing.T) {
	nodes := simNodes(Vector{5, 5}, Vector{5, 5})
	f := NewManyBody(DefaultChargeStrength)
	f.Initialize(nodes, rand.New(rand.NewSource(1)))
	f.Apply(1)

	assert.True(t, nodes[0].VX != 0 || nodes[0].VY != 0)
	assert.True(t, Vector{nodes[0].VX, nodes[0].VY}.IsFinite())
}

func TestLink_PullsTowardRestLength(t *testing.T) {
	nodes := simNodes(Vector{0, 0}, Vector{200, 0})
	f := NewLink([]SimLink{{Source: nodes[0], Target: nodes[1]}}, DefaultLinkDistance, 0)
	f.Initialize(nodes, rand.New(rand.NewSource(1)))
	f.Apply(1)

	// strength 1/min(1,1), bias 0.5: each end moves half of (200-100)
	assert.InDelta(t, 50.0, nodes[0].VX, 1e-9)
	assert.InDelta(t, -50.0, nodes[1].VX, 1e-9)
}

func TestLink_PushesWhenTooClose(t *testing.T) {
	nodes := simNodes(Vector{0, 0}, Vector{0, 20})
	f := NewLink([]SimLink{{Source: nodes[0], Target: nodes[1]}}, DefaultLinkDistance, 0.5)
	f.Initialize(nodes, rand.New(rand.NewSource(1)))
	f.Apply(1)

	assert.Less(t, nodes[0].VY, 0.0)
	assert.Greater(t, nodes[1].VY, 0.0)
}

func TestLink_HubMovesLess(t *testing.T) {
	hub := simNodes(Vector{0, 0}, Vector{300, 0}, Vector{-300, 0}, Vector{0, 300})
	links := []SimLink{
		{Source: hub[0], Target: hub[1]},
		{Source: hub[0], Target: hub[2]},
		{Source: hub[0], Target: hub[3]},
	}
	f := NewLink(links, DefaultLinkDistance, 0)
	f.Initialize(hub, rand.New(rand.NewSource(1)))
	f.Apply(1)

	hubMove := Vector{hub[0].VX, hub[0].VY}.Len()
	leafMove := Vector{hub[1].VX, hub[1].VY}.Len()
	assert.Less(t, hubMove, leafMove)
}

func TestCenter_ShiftsCentroid(t *testing.T) {
	nodes := simNodes(Vector{10, 10}, Vector{30, 10})
	f := NewCenter(Vector{0, 0}, 0.5)
	f.Initialize(nodes, nil)
	f.Apply(1)

	// centroid (20,10) moves halfway to the origin
	assert.Equal(t, Vector{0, 5}, nodes[0].Position())
	assert.Equal(t, Vector{20, 5}, nodes[1].Position())
	assert.Zero(t, nodes[0].VX)
}

func TestExclusion(t *testing.T) {
	center := Vector{100, 100}
	inside := &SimNode{X: 150, Y: 100}
	outside := &SimNode{X: 300, Y: 100}
	pinned := &SimNode{X: 110, Y: 100, Fixed: &Vector{110, 100}}
	onCenter := &SimNode{X: 100, Y: 100}
	nodes := []*SimNode{inside, outside, pinned, onCenter}

	f := NewExclusion(center, DefaultExclusionRadius, 1)
	f.Initialize(nodes, rand.New(rand.NewSource(1)))
	f.Apply(1)

	// (150 - 50) / 50 * 50
	assert.InDelta(t, 100.0, inside.VX, 1e-9)
	assert.Zero(t, inside.VY)
	assert.Zero(t, outside.VX)
	assert.Zero(t, pinned.VX)
	assert.True(t, onCenter.VX != 0 || onCenter.VY != 0)
}

func TestExclusion_Disabled(t *testing.T) {
	n := &SimNode{X: 1, Y: 1}
	f := NewExclusion(Vector{}, 0, 1)
	f.Initialize([]*SimNode{n}, rand.New(rand.NewSource(1)))
	f.Apply(1)
	assert.Zero(t, n.VX)
}

func TestCollide_SeparatesOverlap(t *testing.T) {
	nodes := simNodes(Vector{0, 0}, Vector{30, 0}, Vector{500, 500})
	f := NewCollide(DefaultCollideRadius)
	f.Initialize(nodes, rand.New(rand.NewSource(1)))
	f.Apply(1)

	// overlap 80 - 30 = 50, split evenly
	assert.InDelta(t, -25.0, nodes[0].VX, 1e-9)
	assert.InDelta(t, 25.0, nodes[1].VX, 1e-9)
	assert.Zero(t, nodes[2].VX)
	assert.Zero(t, nodes[2].VY)
}

func TestForceNames(t *testing.T) {
	names := []string{}
	for _, f := range []Force{NewManyBody(0), NewLink(nil, 0, 0), NewCenter(Vector{}, 0), NewExclusion(Vector{}, 0, 0), NewCollide(0)} {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"charge", "link", "center", "exclusion", "collide"}, names)
}
