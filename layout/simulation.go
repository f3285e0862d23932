// Package layout positions graph nodes with a force-directed simulation.
//
// A Simulation is created for one filtered node set and discarded when the
// set changes. It starts hot (alpha = 1), cools by AlphaDecay per tick and
// stops once alpha falls below AlphaMin. Reheat resumes it from the current
// positions.
package layout

import (
	"math"
	"math/rand"

	"github.com/teranos/nodegraph/graph"
	"github.com/teranos/nodegraph/logger"
	"go.uber.org/zap"
)

// Mode is explore (no centered node) or detail (focal node pinned at center)
type Mode int

const (
	ModeExplore Mode = iota
	ModeDetail
)

func (m Mode) String() string {
	if m == ModeDetail {
		return "detail"
	}
	return "explore"
}

// SimNode is a graph node extended with layout state
type SimNode struct {
	ID    string
	Index int
	Node  graph.Node

	X, Y   float64
	VX, VY float64

	// Fixed, when set, is authoritative for the position
	Fixed *Vector
}

// Position returns the node's current position
func (n *SimNode) Position() Vector { return Vector{n.X, n.Y} }

// Simulation owns the layout state of one node set. It is not safe for
// concurrent use.
type Simulation struct {
	cfg    Config
	nodes  []*SimNode
	byID   map[string]*SimNode
	links  []SimLink
	forces []Force

	center    *Center
	exclusion *Exclusion

	mode        Mode
	focus       string
	alpha       float64
	alphaTarget float64
	ticks       int
	dropped     int

	rng    *rand.Rand
	logger *zap.SugaredLogger
}

// New builds a simulation over nodes and links. Links with a missing
// endpoint and self-links are dropped. Nodes without an initial position
// are placed on a phyllotaxis spiral around cfg.Center.
func New(nodes []graph.Node, links []graph.Link, cfg Config, log *zap.SugaredLogger) *Simulation {
	cfg = cfg.withDefaults()
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Simulation{
		cfg:    cfg,
		byID:   make(map[string]*SimNode, len(nodes)),
		alpha:  1,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
		logger: logger.AddLayoutSymbol(log.Named("layout")),
	}

	for _, n := range nodes {
		if _, dup := s.byID[n.ID]; dup {
			continue
		}
		sn := &SimNode{ID: n.ID, Index: len(s.nodes), Node: n}
		s.nodes = append(s.nodes, sn)
		s.byID[n.ID] = sn
	}
	s.initPositions()

	for _, l := range links {
		src, okS := s.byID[l.Source]
		dst, okT := s.byID[l.Target]
		if !okS || !okT || src == dst {
			s.dropped++
			continue
		}
		s.links = append(s.links, SimLink{Source: src, Target: dst})
	}

	s.center = NewCenter(cfg.Center, cfg.CenterStrength)
	s.forces = []Force{
		NewManyBody(cfg.ChargeStrength),
		NewLink(s.links, cfg.LinkDistance, cfg.LinkStrength),
		s.center,
	}

	if focal, ok := s.byID[cfg.Focus]; ok {
		s.mode = ModeDetail
		s.focus = focal.ID
		c := cfg.Center
		s.pin(focal, &c)
	} else {
		s.exclusion = NewExclusion(cfg.Center, cfg.ExclusionRadius, cfg.ExclusionStrength)
		s.forces = append(s.forces, s.exclusion)
	}
	s.forces = append(s.forces, NewCollide(cfg.CollideRadius))

	for _, f := range s.forces {
		f.Initialize(s.nodes, s.rng)
	}

	s.logger.Debugw("Simulation started",
		logger.FieldNodes, len(s.nodes),
		logger.FieldLinks, len(s.links),
		"dropped_links", s.dropped,
		logger.FieldMode, s.mode.String(),
		logger.FieldFocus, s.focus)
	return s
}

func (s *Simulation) initPositions() {
	const initialRadius = 10.0
	initialAngle := math.Pi * (3 - math.Sqrt(5))
	for i, n := range s.nodes {
		if p, ok := s.cfg.Initial[n.ID]; ok && p.IsFinite() {
			n.X, n.Y = p.X, p.Y
			continue
		}
		radius := initialRadius * math.Sqrt(0.5+float64(i))
		angle := float64(i) * initialAngle
		n.X = s.cfg.Center.X + radius*math.Cos(angle)
		n.Y = s.cfg.Center.Y + radius*math.Sin(angle)
	}
}

// Tick advances the simulation one step and reports whether it is still
// running. A stopped or empty simulation does nothing.
func (s *Simulation) Tick() bool {
	if !s.Running() {
		return false
	}

	s.alpha += (s.alphaTarget - s.alpha) * s.cfg.AlphaDecay
	for _, f := range s.forces {
		f.Apply(s.alpha)
	}

	friction := 1 - s.cfg.VelocityDecay
	for _, n := range s.nodes {
		if n.Fixed != nil {
			n.X, n.Y = n.Fixed.X, n.Fixed.Y
			n.VX, n.VY = 0, 0
			continue
		}
		n.VX *= friction
		n.VY *= friction
		n.X += n.VX
		n.Y += n.VY
	}
	s.ticks++

	if logger.ShouldOutput(s.cfg.Verbosity, logger.OutputLayoutTicks) {
		s.logger.Debugw("Tick", logger.FieldTicks, s.ticks, logger.FieldAlpha, s.alpha)
	}
	return s.Running()
}

// RunToConvergence ticks synchronously until the simulation stops or max
// ticks have run, and returns the number of ticks run. Hitting max is not
// an error: the layout is simply less settled.
func (s *Simulation) RunToConvergence(max int) int {
	if max <= 0 {
		max = DefaultMaxIterations
	}
	n := 0
	for n < max && s.Running() {
		s.Tick()
		n++
	}
	if s.Running() {
		s.logger.Debugw("Layout budget exhausted", logger.FieldTicks, n, logger.FieldAlpha, s.alpha)
	}
	return n
}

// Running reports whether ticks still move the layout
func (s *Simulation) Running() bool {
	return len(s.nodes) > 0 && s.alpha >= s.cfg.AlphaMin
}

// Alpha returns the current temperature
func (s *Simulation) Alpha() float64 { return s.alpha }

// AlphaTarget returns the temperature alpha decays toward
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// SetAlphaTarget sets the temperature alpha decays toward. A target at or
// above AlphaMin keeps the simulation running until it is lowered again.
func (s *Simulation) SetAlphaTarget(target float64) {
	s.alphaTarget = math.Max(0, target)
}

// Reheat resumes ticking at the given alpha, clamped to [0, 1], keeping
// positions.
func (s *Simulation) Reheat(alpha float64) {
	if len(s.nodes) == 0 {
		return
	}
	s.alpha = math.Max(0, math.Min(alpha, 1))
}

// Pin fixes the node at p, or releases it when p is nil. The focal node of
// a detail-mode simulation cannot be released. Pinned nodes still push and
// pull the others. Returns false for an unknown id.
func (s *Simulation) Pin(id string, p *Vector) bool {
	n, ok := s.byID[id]
	if !ok {
		return false
	}
	if p == nil && id == s.focus {
		c := s.center.Target
		p = &c
	}
	s.pin(n, p)
	return true
}

func (s *Simulation) pin(n *SimNode, p *Vector) {
	if p == nil {
		n.Fixed = nil
		return
	}
	v := *p
	n.Fixed = &v
	n.X, n.Y = v.X, v.Y
	n.VX, n.VY = 0, 0
}

// SetCenter moves the centering and exclusion targets, and the focal pin
// in detail mode, to c.
func (s *Simulation) SetCenter(c Vector) {
	s.cfg.Center = c
	s.center.Target = c
	if s.exclusion != nil {
		s.exclusion.Target = c
	}
	if focal, ok := s.byID[s.focus]; ok {
		s.pin(focal, &c)
	}
}

// Center returns the current viewport center
func (s *Simulation) Center() Vector { return s.center.Target }

// Mode returns explore or detail
func (s *Simulation) Mode() Mode { return s.mode }

// Focus returns the focal node id, empty in explore mode
func (s *Simulation) Focus() string { return s.focus }

// Nodes returns the simulation nodes in input order. Callers must not
// mutate them.
func (s *Simulation) Nodes() []*SimNode { return s.nodes }

// Node returns the simulation node with the given id
func (s *Simulation) Node(id string) (*SimNode, bool) {
	n, ok := s.byID[id]
	return n, ok
}

// Links returns the resolved links
func (s *Simulation) Links() []SimLink { return s.links }

// DroppedLinks counts links dropped at resolution
func (s *Simulation) DroppedLinks() int { return s.dropped }

// Ticks counts ticks run since New
func (s *Simulation) Ticks() int { return s.ticks }

// Config returns the effective constants
func (s *Simulation) Config() Config { return s.cfg }

// Bounds returns the bounding box of all node positions. ok is false for an
// empty simulation.
func (s *Simulation) Bounds() (b Bounds, ok bool) {
	if len(s.nodes) == 0 {
		return Bounds{}, false
	}
	b.Min = Vector{math.Inf(1), math.Inf(1)}
	b.Max = Vector{math.Inf(-1), math.Inf(-1)}
	for _, n := range s.nodes {
		b.Min.X = math.Min(b.Min.X, n.X)
		b.Min.Y = math.Min(b.Min.Y, n.Y)
		b.Max.X = math.Max(b.Max.X, n.X)
		b.Max.Y = math.Max(b.Max.Y, n.Y)
	}
	return b, true
}
