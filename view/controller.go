// Package view turns pointer, wheel and viewport events into simulation
// mutations and render frames for one graph instance.
package view

import (
	"math"
	"time"

	"github.com/teranos/nodegraph/graph"
	"github.com/teranos/nodegraph/layout"
	"github.com/teranos/nodegraph/logger"
	"go.uber.org/zap"
)

// pointer tracks one pressed pointer from down to up
type pointer struct {
	nodeID string // empty when panning the background
	start  layout.Vector
	last   layout.Vector
	travel float64
}

// transition animates the transform between two values
type transition struct {
	from, to Transform
	start    time.Time
	duration time.Duration
}

// Controller owns the simulation and visual state of one graph instance.
// It is not safe for concurrent use; Session serializes access.
type Controller struct {
	opts Options
	data *graph.Graph
	sim  *layout.Simulation
	adj  map[string]map[string]bool

	generation uint64
	transform  Transform
	anim       *transition

	pointers  map[int]*pointer
	dragCount map[string]int
	hover     string

	onSelect func(graph.Node)
	now      func() time.Time
	base     *zap.SugaredLogger
	logger   *zap.SugaredLogger
}

// NewController creates a controller with no data
func NewController(opts Options, log *zap.SugaredLogger) *Controller {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	c := &Controller{
		opts:      opts.withDefaults(),
		transform: Identity,
		pointers:  make(map[int]*pointer),
		dragCount: make(map[string]int),
		now:       time.Now,
		base:      log,
		logger:    logger.AddViewSymbol(log.Named("view")),
	}
	c.rebuild(nil)
	return c
}

// OnNodeSelect registers the click callback
func (c *Controller) OnNodeSelect(fn func(graph.Node)) {
	c.onSelect = fn
}

// SetData replaces the graph. Everything simulation-related is rebuilt from
// scratch and the generation is bumped. When the graph's focus is in the
// node set the controller runs in detail mode and converges synchronously
// before returning.
func (c *Controller) SetData(g *graph.Graph) uint64 {
	c.data = g
	c.rebuild(nil)
	return c.generation
}

// SetOptions applies new constants. The viewport size is kept. The
// simulation is rebuilt from the current positions and reheated.
func (c *Controller) SetOptions(opts Options) {
	opts.Width, opts.Height = c.opts.Width, c.opts.Height
	c.opts = opts.withDefaults()

	initial := make(map[string]layout.Vector)
	for _, n := range c.sim.Nodes() {
		initial[n.ID] = n.Position()
	}
	c.rebuild(initial)
	c.sim.Reheat(c.opts.ReheatAlpha)
}

func (c *Controller) rebuild(initial map[string]layout.Vector) {
	var nodes []graph.Node
	var links []graph.Link
	focus := ""
	if c.data != nil {
		nodes, links, focus = c.data.Nodes, c.data.Links, c.data.Meta.Focus
	}

	cfg := c.opts.Layout
	cfg.Center = c.center()
	cfg.Focus = focus
	cfg.Initial = initial
	cfg.Verbosity = c.opts.Verbosity

	c.generation++
	c.sim = layout.New(nodes, links, cfg, c.base)
	c.adj = make(map[string]map[string]bool)
	for _, l := range c.sim.Links() {
		c.link(l.Source.ID, l.Target.ID)
	}
	c.pointers = make(map[int]*pointer)
	c.dragCount = make(map[string]int)
	c.hover = ""

	if c.sim.Mode() == layout.ModeDetail && initial == nil {
		start := c.now()
		ticks := c.sim.RunToConvergence(c.opts.WarmupIterations)
		c.logger.Debugw("Detail layout converged",
			logger.FieldGeneration, c.generation,
			logger.FieldTicks, ticks,
			logger.FieldDurationMS, c.now().Sub(start).Milliseconds())
	}
}

func (c *Controller) link(a, b string) {
	if c.adj[a] == nil {
		c.adj[a] = make(map[string]bool)
	}
	if c.adj[b] == nil {
		c.adj[b] = make(map[string]bool)
	}
	c.adj[a][b] = true
	c.adj[b][a] = true
}

// center is the viewport center in simulation coordinates under the
// identity transform
func (c *Controller) center() layout.Vector {
	return layout.Vector{X: c.opts.Width / 2, Y: c.opts.Height / 2}
}

// Generation identifies the current data; it changes on every rebuild
func (c *Controller) Generation() uint64 { return c.generation }

// Simulation exposes the current simulation for reading
func (c *Controller) Simulation() *layout.Simulation { return c.sim }

// Transform returns the current view transform
func (c *Controller) Transform() Transform { return c.transform }

// Hover returns the hovered node id, if any
func (c *Controller) Hover() string { return c.hover }

// Size returns the viewport size
func (c *Controller) Size() (width, height float64) { return c.opts.Width, c.opts.Height }

// Active reports whether ticks are still needed: the simulation is hot or
// a zoom transition is running.
func (c *Controller) Active() bool {
	return c.sim.Running() || c.anim != nil
}

// Tick advances the zoom transition and the simulation one step and
// reports whether more ticks are needed.
func (c *Controller) Tick() bool {
	if c.anim != nil {
		f := 1.0
		if c.anim.duration > 0 {
			f = float64(c.now().Sub(c.anim.start)) / float64(c.anim.duration)
		}
		c.transform = Lerp(c.anim.from, c.anim.to, easeCubicInOut(f))
		if f >= 1 {
			c.anim = nil
		}
	}
	c.sim.Tick()
	return c.Active()
}

// Resize moves the centering and exclusion targets and the focal pin to the
// new viewport center and reheats the layout.
func (c *Controller) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	c.opts.Width, c.opts.Height = width, height
	c.sim.SetCenter(c.center())
	c.sim.Reheat(c.opts.ReheatAlpha)
}

// PointerDown starts a node drag when the pointer is over a node and a
// background pan otherwise. A pointer that is already down is released
// first, without selecting.
func (c *Controller) PointerDown(id int, x, y float64) {
	if _, down := c.pointers[id]; down {
		c.release(id)
	}
	screen := layout.Vector{X: x, Y: y}
	p := &pointer{start: screen, last: screen}
	c.pointers[id] = p

	n := c.hitTest(screen)
	if n == nil {
		return
	}
	p.nodeID = n.ID
	if c.dragCount[n.ID] == 0 {
		c.sim.SetAlphaTarget(c.opts.DragAlphaTarget)
		c.sim.Reheat(math.Max(c.sim.Alpha(), c.opts.DragAlphaTarget))
	}
	c.dragCount[n.ID]++
	pos := n.Position()
	c.sim.Pin(n.ID, &pos)
}

// PointerMove drags, pans, or updates the hover neighborhood when no
// button is down.
func (c *Controller) PointerMove(id int, x, y float64) {
	screen := layout.Vector{X: x, Y: y}
	p, down := c.pointers[id]
	if !down {
		c.setHover(c.hitTest(screen))
		return
	}

	p.travel = math.Max(p.travel, screen.Sub(p.start).Len())
	delta := screen.Sub(p.last)
	p.last = screen

	if p.nodeID == "" {
		c.anim = nil
		c.transform = c.transform.Translate(delta.X, delta.Y)
		return
	}
	target := c.transform.Invert(screen)
	c.sim.Pin(p.nodeID, &target)
}

// PointerUp ends a drag or pan. A pointer that stayed within the click
// threshold over a node selects it.
func (c *Controller) PointerUp(id int, x, y float64) {
	p, down := c.pointers[id]
	if !down {
		return
	}
	screen := layout.Vector{X: x, Y: y}
	p.travel = math.Max(p.travel, screen.Sub(p.start).Len())
	c.release(id)

	if p.nodeID != "" && p.travel <= c.opts.ClickThreshold {
		if n, ok := c.sim.Node(p.nodeID); ok && c.onSelect != nil {
			c.onSelect(n.Node)
		}
	}
}

// PointerLeave clears the hover neighborhood and ends every drag and pan
// still in progress. Nothing is selected.
func (c *Controller) PointerLeave() {
	c.setHover(nil)
	for id := range c.pointers {
		c.release(id)
	}
}

// release forgets pointer id and unpins its node once no other pointer
// holds it. The last release lets the layout cool again.
func (c *Controller) release(id int) {
	p, down := c.pointers[id]
	if !down {
		return
	}
	delete(c.pointers, id)
	if p.nodeID == "" {
		return
	}

	c.dragCount[p.nodeID]--
	if c.dragCount[p.nodeID] <= 0 {
		delete(c.dragCount, p.nodeID)
		c.sim.Pin(p.nodeID, nil)
	}
	if len(c.dragCount) == 0 {
		c.sim.SetAlphaTarget(0)
	}
}

// Neighborhood returns id and its direct neighbors
func (c *Controller) Neighborhood(id string) map[string]bool {
	if _, ok := c.sim.Node(id); !ok {
		return nil
	}
	set := map[string]bool{id: true}
	for n := range c.adj[id] {
		set[n] = true
	}
	return set
}

func (c *Controller) setHover(n *layout.SimNode) {
	if n == nil {
		c.hover = ""
		return
	}
	c.hover = n.ID
}

// hitTest returns the node whose marker contains the screen point, the
// nearest one when markers overlap
func (c *Controller) hitTest(screen layout.Vector) *layout.SimNode {
	p := c.transform.Invert(screen)
	var best *layout.SimNode
	bestDist := math.Inf(1)
	for _, n := range c.sim.Nodes() {
		r := c.opts.NodeRadius
		if n.ID == c.sim.Focus() {
			r = c.opts.FocalRadius
		}
		d := n.Position().Sub(p).Len()
		if d <= r && d < bestDist {
			best, bestDist = n, d
		}
	}
	return best
}

// Wheel zooms about the pointer. Positive deltaY zooms out.
func (c *Controller) Wheel(x, y, deltaY float64) {
	c.anim = nil
	factor := math.Pow(2, -deltaY*0.002)
	c.transform = c.transform.ScaleAbout(factor, layout.Vector{X: x, Y: y}, c.opts.MinZoom, c.opts.MaxZoom)
}

// ZoomIn scales up by the zoom step about the viewport center
func (c *Controller) ZoomIn() {
	c.anim = nil
	c.transform = c.transform.ScaleAbout(c.opts.ZoomStep, c.center(), c.opts.MinZoom, c.opts.MaxZoom)
}

// ZoomOut scales down by the zoom step about the viewport center
func (c *Controller) ZoomOut() {
	c.anim = nil
	c.transform = c.transform.ScaleAbout(1/c.opts.ZoomStep, c.center(), c.opts.MinZoom, c.opts.MaxZoom)
}

// ResetZoom animates back to the identity transform
func (c *Controller) ResetZoom() {
	if c.opts.Transition <= 0 {
		c.anim = nil
		c.transform = Identity
		return
	}
	c.anim = &transition{from: c.transform, to: Identity, start: c.now(), duration: c.opts.Transition}
}

// FitToView frames every node, padded, in the viewport. Calling it again
// without a data change yields the same transform. No-op without nodes.
func (c *Controller) FitToView() {
	b, ok := c.sim.Bounds()
	if !ok {
		return
	}
	c.anim = nil
	c.transform = fitTransform(b, c.opts.Width, c.opts.Height, c.opts.FitPadding, c.opts.MinZoom)
}

// Frame renders the current state
func (c *Controller) Frame() *Frame {
	return Render(c.sim, VisualState{
		Generation:   c.generation,
		Width:        c.opts.Width,
		Height:       c.opts.Height,
		Transform:    c.transform,
		Hover:        c.hover,
		Neighborhood: c.Neighborhood(c.hover),
	}, c.opts)
}

func easeCubicInOut(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2*t - 2
	return (u*u*u + 2) / 2
}
