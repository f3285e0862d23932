package graph

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tag(id, parent string) TagRef {
	return TagRef{ID: id, Name: id, ParentID: parent}
}

func node(id string, tags ...TagRef) Node {
	return Node{ID: id, Name: "Note " + id, Tags: tags}
}

func nodeIDs(g *Graph) []string {
	ids := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		ids = append(ids, n.ID)
	}
	sort.Strings(ids)
	return ids
}

func roundTripGraph() *Graph {
	t1, t2 := tag("t1", ""), tag("t2", "")
	return &Graph{
		Nodes: []Node{node("A", t1), node("B", t2), node("C", t1, t2)},
		Links: []Link{{"A", "B"}, {"B", "C"}, {"A", "C"}},
		Tags:  []TagRef{t1, t2},
	}
}

func TestProject_FilterRoundTrip(t *testing.T) {
	g := Project(roundTripGraph(), []string{"t1"})

	assert.Equal(t, []string{"A", "C"}, nodeIDs(g))
	assert.Equal(t, []Link{{"A", "C"}}, g.Links)
	assert.Equal(t, 1, g.Meta.Stats.TotalEdges)
	assert.Equal(t, 2, g.Meta.Stats.DroppedEdges)
	assert.Equal(t, []string{"t1"}, g.Meta.ActiveTags)
}

func TestProject_EmptyFilterPassesThrough(t *testing.T) {
	for _, filter := range [][]string{nil, {}} {
		g := Project(roundTripGraph(), filter)
		assert.Equal(t, []string{"A", "B", "C"}, nodeIDs(g))
		assert.Len(t, g.Links, 3)
		assert.Empty(t, g.Meta.ActiveTags)
	}
}

func TestProject_DropsDanglingLinks(t *testing.T) {
	g := roundTripGraph()
	g.Links = append(g.Links, Link{"A", "ghost"}, Link{"ghost", "C"})

	out := Project(g, nil)
	assert.Len(t, out.Links, 3)
	assert.Equal(t, 2, out.Meta.Stats.DroppedEdges)
}

func TestProject_DoesNotMutateInput(t *testing.T) {
	g := roundTripGraph()
	Project(g, []string{"t2"})
	assert.Len(t, g.Nodes, 3)
	assert.Len(t, g.Links, 3)
}

func TestProject_InducedSubgraphProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tags := []TagRef{tag("a", ""), tag("b", "a"), tag("c", "a"), tag("d", "c"), tag("e", "")}

	for trial := 0; trial < 50; trial++ {
		g := &Graph{Tags: tags}
		for i := 0; i < 30; i++ {
			n := Node{ID: fmt.Sprintf("n%d", i)}
			for _, tg := range tags {
				if rng.Intn(4) == 0 {
					n.Tags = append(n.Tags, tg)
				}
			}
			g.Nodes = append(g.Nodes, n)
		}
		for i := 0; i < 60; i++ {
			// ids up to n34 so some links dangle
			g.Links = append(g.Links, Link{
				Source: fmt.Sprintf("n%d", rng.Intn(35)),
				Target: fmt.Sprintf("n%d", rng.Intn(35)),
			})
		}

		filter := []string{tags[rng.Intn(len(tags))].ID}
		out := Project(g, filter)
		kept := make(map[string]bool)
		for _, n := range out.Nodes {
			kept[n.ID] = true
		}
		for _, l := range out.Links {
			require.True(t, kept[l.Source], "link source %s not in projection", l.Source)
			require.True(t, kept[l.Target], "link target %s not in projection", l.Target)
		}
	}
}

func treeTags() []TagRef {
	return []TagRef{
		tag("work", ""),
		tag("deep", "work"),
		tag("focus", "deep"),
		tag("meetings", "work"),
		tag("personal", ""),
	}
}

func TestExpandTags(t *testing.T) {
	tests := []struct {
		name     string
		selected []string
		want     []string
	}{
		{"root expands whole subtree", []string{"work"}, []string{"deep", "focus", "meetings", "work"}},
		{"inner node", []string{"deep"}, []string{"deep", "focus"}},
		{"leaf", []string{"focus"}, []string{"focus"}},
		{"unknown id kept", []string{"nope"}, []string{"nope"}},
		{"empty", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpandTags(treeTags(), tt.selected)
			ids := make([]string, 0, len(got))
			for id := range got {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestExpandTags_Cycle(t *testing.T) {
	tags := []TagRef{tag("a", "c"), tag("b", "a"), tag("c", "b"), tag("self", "self")}

	got := ExpandTags(tags, []string{"a", "self"})
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true, "self": true}, got)
}

func TestProject_TagExpansionEquivalence(t *testing.T) {
	tags := treeTags()
	g := &Graph{
		Tags: tags,
		Nodes: []Node{
			node("1", tags[0]),
			node("2", tags[1]),
			node("3", tags[2]),
			node("4", tags[3]),
			node("5", tags[4]),
			node("6"),
		},
		Links: []Link{{"1", "2"}, {"2", "3"}, {"3", "5"}, {"4", "6"}},
	}

	parent := Project(g, []string{"work"})
	explicit := Project(g, []string{"work", "deep", "focus", "meetings"})

	assert.Equal(t, nodeIDs(explicit), nodeIDs(parent))
	assert.Equal(t, explicit.Links, parent.Links)
	assert.Equal(t, []string{"1", "2", "3", "4"}, nodeIDs(parent))
}

func TestIndex(t *testing.T) {
	g := roundTripGraph()
	g.Nodes = append(g.Nodes, Node{ID: "A", Name: "duplicate"})
	idx := NewIndex(g)

	n, ok := idx.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, "Note A", n.Name)

	_, ok = idx.Lookup("missing")
	assert.False(t, ok)
}

func TestNeighborhood(t *testing.T) {
	g := &Graph{
		Nodes: []Node{node("a"), node("b"), node("c"), node("d"), node("e")},
		Links: []Link{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"e", "e"}, {"a", "ghost"}},
	}

	one := Neighborhood(g, "b", 1)
	assert.Equal(t, []string{"a", "b", "c"}, nodeIDs(one))
	assert.ElementsMatch(t, []Link{{"a", "b"}, {"b", "c"}}, one.Links)

	two := Neighborhood(g, "a", 2)
	assert.Equal(t, []string{"a", "b", "c"}, nodeIDs(two))

	zero := Neighborhood(g, "e", 0)
	assert.Equal(t, []string{"e"}, nodeIDs(zero))
	assert.Equal(t, []Link{{"e", "e"}}, zero.Links)

	assert.Same(t, g, Neighborhood(g, "missing", 3))
}

func TestAdjacency(t *testing.T) {
	adj := Adjacency([]Link{{"a", "b"}, {"b", "c"}, {"c", "c"}})
	assert.Equal(t, map[string]bool{"b": true}, adj["a"])
	assert.Equal(t, map[string]bool{"a": true, "c": true}, adj["b"])
	assert.Equal(t, map[string]bool{"b": true}, adj["c"])
}
