package graph

// Index maps node ids to their records in one graph
type Index map[string]*Node

// NewIndex indexes g's nodes. The first node wins on duplicate ids.
func NewIndex(g *Graph) Index {
	idx := make(Index, len(g.Nodes))
	for i := range g.Nodes {
		if _, dup := idx[g.Nodes[i].ID]; !dup {
			idx[g.Nodes[i].ID] = &g.Nodes[i]
		}
	}
	return idx
}

// Lookup returns the node with the given id
func (idx Index) Lookup(id string) (*Node, bool) {
	n, ok := idx[id]
	return n, ok
}

// ExpandTags returns the selected tag ids plus every descendant id in the
// tree formed by ParentID. Unknown ids are kept as-is. Cycles in the parent
// chain are tolerated.
func ExpandTags(tags []TagRef, selected []string) map[string]bool {
	children := make(map[string][]string)
	for _, t := range tags {
		if t.ParentID != "" && t.ParentID != t.ID {
			children[t.ParentID] = append(children[t.ParentID], t.ID)
		}
	}

	expanded := make(map[string]bool, len(selected))
	queue := make([]string, 0, len(selected))
	for _, id := range selected {
		if id != "" && !expanded[id] {
			expanded[id] = true
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range children[id] {
			if !expanded[child] {
				expanded[child] = true
				queue = append(queue, child)
			}
		}
	}
	return expanded
}

// FilterNodes keeps the nodes carrying at least one tag in active, plus
// exactly the links whose endpoints both survive. An empty active set keeps
// every node. Links to unknown nodes are always dropped; the count of
// dropped links is recorded in Meta.Stats.
func FilterNodes(g *Graph, active map[string]bool) *Graph {
	out := &Graph{
		Nodes: make([]Node, 0, len(g.Nodes)),
		Links: make([]Link, 0, len(g.Links)),
		Tags:  g.Tags,
		Meta:  g.Meta,
	}

	kept := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if kept[n.ID] {
			continue
		}
		if len(active) == 0 || n.HasAnyTag(active) {
			kept[n.ID] = true
			out.Nodes = append(out.Nodes, n)
		}
	}

	dropped := 0
	for _, l := range g.Links {
		if kept[l.Source] && kept[l.Target] {
			out.Links = append(out.Links, l)
		} else {
			dropped++
		}
	}

	out.Meta.Stats = Stats{
		TotalNodes:   len(out.Nodes),
		TotalEdges:   len(out.Links),
		DroppedEdges: dropped,
	}
	return out
}

// Project derives the subgraph actually laid out: the active tag ids are
// first expanded through the tag tree, then the induced subgraph of the
// matching nodes is taken. A nil or empty filter passes every node through.
func Project(g *Graph, activeTagIDs []string) *Graph {
	if len(activeTagIDs) == 0 {
		return FilterNodes(g, nil)
	}
	out := FilterNodes(g, ExpandTags(g.AllTags(), activeTagIDs))
	out.Meta.ActiveTags = append([]string(nil), activeTagIDs...)
	return out
}

// Neighborhood returns the induced subgraph of every node within depth hops
// of focus. An unknown focus returns g unchanged.
func Neighborhood(g *Graph, focus string, depth int) *Graph {
	idx := NewIndex(g)
	if _, ok := idx.Lookup(focus); !ok {
		return g
	}

	adj := Adjacency(g.Links)
	dist := map[string]int{focus: 0}
	queue := []string{focus}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if dist[id] >= depth {
			continue
		}
		for next := range adj[id] {
			if _, seen := dist[next]; seen {
				continue
			}
			if _, exists := idx[next]; !exists {
				continue
			}
			dist[next] = dist[id] + 1
			queue = append(queue, next)
		}
	}

	local := &Graph{Tags: g.Tags, Meta: g.Meta, Links: g.Links}
	for _, n := range g.Nodes {
		if _, in := dist[n.ID]; in {
			local.Nodes = append(local.Nodes, n)
		}
	}
	return FilterNodes(local, nil)
}
