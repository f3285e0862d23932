package view

import (
	"github.com/teranos/nodegraph/layout"
)

// Frame is everything a renderer needs to draw one picture. Positions are in
// simulation coordinates; Transform maps them to the screen.
type Frame struct {
	Generation uint64        `json:"generation"`
	Alpha      float64       `json:"alpha"`
	Running    bool          `json:"running"`
	Mode       string        `json:"mode"`
	Focus      string        `json:"focus,omitempty"`
	Hover      string        `json:"hover,omitempty"`
	Width      float64       `json:"width"`
	Height     float64       `json:"height"`
	Transform  Transform     `json:"transform"`
	Nodes      []NodeMarker  `json:"nodes"`
	Edges      []EdgeSegment `json:"edges"`
}

// NodeMarker is one node's circle and label
type NodeMarker struct {
	ID      string  `json:"id" yaml:"id" toml:"id"`
	Label   string  `json:"label" yaml:"label" toml:"label"`
	X       float64 `json:"x" yaml:"x" toml:"x"`
	Y       float64 `json:"y" yaml:"y" toml:"y"`
	Radius  float64 `json:"r" yaml:"r" toml:"r"`
	Opacity float64 `json:"opacity" yaml:"opacity" toml:"opacity"`
	Color   string  `json:"color,omitempty" yaml:"color,omitempty" toml:"color,omitempty"`
	Focal   bool    `json:"focal,omitempty" yaml:"focal,omitempty" toml:"focal,omitempty"`
	Pinned  bool    `json:"pinned,omitempty" yaml:"pinned,omitempty" toml:"pinned,omitempty"`
}

// EdgeSegment is one link drawn between its endpoints
type EdgeSegment struct {
	Source  string  `json:"source"`
	Target  string  `json:"target"`
	X1      float64 `json:"x1"`
	Y1      float64 `json:"y1"`
	X2      float64 `json:"x2"`
	Y2      float64 `json:"y2"`
	Opacity float64 `json:"opacity"`
}

// VisualState is the render-only state owned by the controller
type VisualState struct {
	Generation   uint64
	Width        float64
	Height       float64
	Transform    Transform
	Hover        string
	Neighborhood map[string]bool
}

// Render builds a frame from simulation output and visual state. It reads
// sim and never mutates it. A nil simulation renders an empty frame.
func Render(sim *layout.Simulation, vs VisualState, opts Options) *Frame {
	f := &Frame{
		Generation: vs.Generation,
		Mode:       layout.ModeExplore.String(),
		Hover:      vs.Hover,
		Width:      vs.Width,
		Height:     vs.Height,
		Transform:  vs.Transform,
		Nodes:      []NodeMarker{},
		Edges:      []EdgeSegment{},
	}
	if sim == nil {
		return f
	}
	f.Alpha = sim.Alpha()
	f.Running = sim.Running()
	f.Mode = sim.Mode().String()
	f.Focus = sim.Focus()

	dimmed := func(in bool) float64 {
		if vs.Hover == "" || in {
			return 1
		}
		return opts.DimOpacity
	}

	for _, n := range sim.Nodes() {
		m := NodeMarker{
			ID:      n.ID,
			Label:   n.Node.Label(),
			X:       n.X,
			Y:       n.Y,
			Radius:  opts.NodeRadius,
			Opacity: dimmed(vs.Neighborhood[n.ID]),
			Pinned:  n.Fixed != nil,
		}
		if len(n.Node.Tags) > 0 {
			m.Color = n.Node.Tags[0].Color
		}
		if n.ID == f.Focus {
			m.Focal = true
			m.Radius = opts.FocalRadius
		}
		f.Nodes = append(f.Nodes, m)
	}

	for _, l := range sim.Links() {
		incident := l.Source.ID == vs.Hover || l.Target.ID == vs.Hover
		f.Edges = append(f.Edges, EdgeSegment{
			Source:  l.Source.ID,
			Target:  l.Target.ID,
			X1:      l.Source.X,
			Y1:      l.Source.Y,
			X2:      l.Target.X,
			Y2:      l.Target.Y,
			Opacity: dimmed(incident),
		})
	}
	return f
}
