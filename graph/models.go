package graph

import (
	"time"
)

// Graph is the note graph handed to a layout: nodes with their tags, links,
// and the full tag tree (tags may exist without any node carrying them).
type Graph struct {
	Nodes []Node   `json:"nodes" yaml:"nodes" toml:"nodes"`
	Links []Link   `json:"links" yaml:"links" toml:"links"`
	Tags  []TagRef `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags,omitempty"`
	Meta  Meta     `json:"meta" yaml:"-" toml:"-"`
}

// Node is a note. Identity is ID, unique within one graph.
type Node struct {
	ID   string   `json:"id" yaml:"id" toml:"id"`
	Name string   `json:"name" yaml:"name" toml:"name"`
	Tags []TagRef `json:"tags" yaml:"tags,omitempty" toml:"tags,omitempty"`
}

// Label returns the display label, falling back to the id
func (n Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// HasAnyTag reports whether the node carries at least one tag in set
func (n Node) HasAnyTag(set map[string]bool) bool {
	for _, t := range n.Tags {
		if set[t.ID] {
			return true
		}
	}
	return false
}

// Link is an undirected connection between two notes, by id.
type Link struct {
	Source string `json:"source" yaml:"source" toml:"source"`
	Target string `json:"target" yaml:"target" toml:"target"`
}

// TagRef is a tag; ParentID forms the tag tree.
type TagRef struct {
	ID       string `json:"id" yaml:"id" toml:"id"`
	Name     string `json:"name" yaml:"name" toml:"name"`
	Color    string `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	ParentID string `json:"parent_id,omitempty" yaml:"parent_id,omitempty" toml:"parent_id,omitempty"`
}

// Meta contains metadata about how the graph was produced
type Meta struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Stats       Stats             `json:"stats"`
	Focus       string            `json:"focus,omitempty"`
	ActiveTags  []string          `json:"active_tags,omitempty"`
	Config      map[string]string `json:"config"`
}

// Stats provides graph statistics
type Stats struct {
	TotalNodes   int `json:"total_nodes"`
	TotalEdges   int `json:"total_edges"`
	DroppedEdges int `json:"dropped_edges,omitempty"`
}
