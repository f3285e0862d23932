package graph

import (
	"sort"
	"strings"
	"time"
)

// normalizeID derives a stable id from a display name: special characters
// become underscores and letters are lowercased.
// Example: "Deep Work/Focus" becomes "deep_work_focus"
func normalizeID(name string) string {
	normalized := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, strings.TrimSpace(name))

	return strings.ToLower(normalized)
}

// emptyGraph returns a graph with no nodes carrying the given meta config
func emptyGraph(config map[string]string) *Graph {
	return &Graph{
		Nodes: []Node{},
		Links: []Link{},
		Meta: Meta{
			GeneratedAt: time.Now(),
			Config:      config,
		},
	}
}

// sortGraph orders nodes, tags and links by id so output is deterministic
func sortGraph(g *Graph) {
	sort.Slice(g.Nodes, func(i, j int) bool { return g.Nodes[i].ID < g.Nodes[j].ID })
	for i := range g.Nodes {
		tags := g.Nodes[i].Tags
		sort.Slice(tags, func(a, b int) bool { return tags[a].ID < tags[b].ID })
	}
	sort.Slice(g.Tags, func(i, j int) bool { return g.Tags[i].ID < g.Tags[j].ID })
	sort.Slice(g.Links, func(i, j int) bool {
		if g.Links[i].Source != g.Links[j].Source {
			return g.Links[i].Source < g.Links[j].Source
		}
		return g.Links[i].Target < g.Links[j].Target
	})
}

// Adjacency returns the undirected neighbor sets of every node id that
// appears in a link. Self-links are ignored.
func Adjacency(links []Link) map[string]map[string]bool {
	adj := make(map[string]map[string]bool)
	add := func(a, b string) {
		if adj[a] == nil {
			adj[a] = make(map[string]bool)
		}
		adj[a][b] = true
	}
	for _, l := range links {
		if l.Source == l.Target {
			continue
		}
		add(l.Source, l.Target)
		add(l.Target, l.Source)
	}
	return adj
}

// AllTags returns the graph's tag tree merged with every tag carried by a
// node, deduplicated by id. A declared tag wins over a node's copy.
func (g *Graph) AllTags() []TagRef {
	seen := make(map[string]bool)
	var out []TagRef
	for _, t := range g.Tags {
		if t.ID == "" || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	for _, n := range g.Nodes {
		for _, t := range n.Tags {
			if t.ID == "" || seen[t.ID] {
				continue
			}
			seen[t.ID] = true
			out = append(out, t)
		}
	}
	return out
}
