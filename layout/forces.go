package layout

import (
	"math"
	"math/rand"
)

// Force is one additive contribution to a tick. Apply mutates node
// velocities (or, for centering, positions) using only node and link state
// and its own constants.
type Force interface {
	Name() string
	Initialize(nodes []*SimNode, rng *rand.Rand)
	Apply(alpha float64)
}

// jiggle returns a tiny random offset used to separate coincident points
func jiggle(rng *rand.Rand) float64 {
	return (rng.Float64() - 0.5) * 1e-6
}

// ManyBody is pairwise inverse-distance repulsion (negative strength) or
// attraction (positive strength) between every pair of nodes.
type ManyBody struct {
	Strength    float64
	DistanceMin float64

	nodes []*SimNode
	rng   *rand.Rand
}

// NewManyBody creates a many-body force
func NewManyBody(strength float64) *ManyBody {
	return &ManyBody{Strength: strength, DistanceMin: 1}
}

func (f *ManyBody) Name() string { return "charge" }

func (f *ManyBody) Initialize(nodes []*SimNode, rng *rand.Rand) {
	f.nodes, f.rng = nodes, rng
}

func (f *ManyBody) Apply(alpha float64) {
	min2 := f.DistanceMin * f.DistanceMin
	for _, ni := range f.nodes {
		for _, nj := range f.nodes {
			if ni == nj {
				continue
			}
			x := nj.X - ni.X
			y := nj.Y - ni.Y
			l := x*x + y*y
			if x == 0 {
				x = jiggle(f.rng)
				l += x * x
			}
			if y == 0 {
				y = jiggle(f.rng)
				l += y * y
			}
			if l < min2 {
				l = math.Sqrt(min2 * l)
			}
			w := f.Strength * alpha / l
			ni.VX += x * w
			ni.VY += y * w
		}
	}
}

// SimLink is a resolved link between two simulation nodes
type SimLink struct {
	Source *SimNode
	Target *SimNode
}

// Link is a spring pulling linked nodes toward Distance apart. With a zero
// Strength each link uses 1/min(degree(source), degree(target)); the
// correction is split by relative degree so hubs move less.
type Link struct {
	Distance float64
	Strength float64

	links     []SimLink
	strengths []float64
	bias      []float64
	rng       *rand.Rand
}

// NewLink creates a link force over resolved links
func NewLink(links []SimLink, distance, strength float64) *Link {
	return &Link{Distance: distance, Strength: strength, links: links}
}

func (f *Link) Name() string { return "link" }

func (f *Link) Initialize(_ []*SimNode, rng *rand.Rand) {
	f.rng = rng
	degree := make(map[*SimNode]int)
	for _, l := range f.links {
		degree[l.Source]++
		degree[l.Target]++
	}
	f.strengths = make([]float64, len(f.links))
	f.bias = make([]float64, len(f.links))
	for i, l := range f.links {
		ds, dt := float64(degree[l.Source]), float64(degree[l.Target])
		f.bias[i] = ds / (ds + dt)
		if f.Strength > 0 {
			f.strengths[i] = f.Strength
		} else {
			f.strengths[i] = 1 / math.Min(ds, dt)
		}
	}
}

func (f *Link) Apply(alpha float64) {
	for i, l := range f.links {
		s, t := l.Source, l.Target
		x := t.X + t.VX - s.X - s.VX
		if x == 0 {
			x = jiggle(f.rng)
		}
		y := t.Y + t.VY - s.Y - s.VY
		if y == 0 {
			y = jiggle(f.rng)
		}
		d := math.Sqrt(x*x + y*y)
		k := (d - f.Distance) / d * alpha * f.strengths[i]
		x *= k
		y *= k

		b := f.bias[i]
		t.VX -= x * b
		t.VY -= y * b
		s.VX += x * (1 - b)
		s.VY += y * (1 - b)
	}
}

// Center translates all nodes so their centroid moves toward Target by
// Strength of the remaining offset per tick. It does not touch velocities.
type Center struct {
	Target   Vector
	Strength float64

	nodes []*SimNode
}

// NewCenter creates a centering force
func NewCenter(target Vector, strength float64) *Center {
	return &Center{Target: target, Strength: strength}
}

func (f *Center) Name() string { return "center" }

func (f *Center) Initialize(nodes []*SimNode, _ *rand.Rand) { f.nodes = nodes }

func (f *Center) Apply(float64) {
	n := len(f.nodes)
	if n == 0 {
		return
	}
	var sx, sy float64
	for _, node := range f.nodes {
		sx += node.X
		sy += node.Y
	}
	sx = (sx/float64(n) - f.Target.X) * f.Strength
	sy = (sy/float64(n) - f.Target.Y) * f.Strength
	for _, node := range f.nodes {
		node.X -= sx
		node.Y -= sy
	}
}

// Exclusion pushes unpinned nodes radially out of a disk of Radius around
// Target. It keeps the viewport center clear in explore mode.
type Exclusion struct {
	Target   Vector
	Radius   float64
	Strength float64

	nodes []*SimNode
	rng   *rand.Rand
}

// NewExclusion creates a radial exclusion force
func NewExclusion(target Vector, radius, strength float64) *Exclusion {
	return &Exclusion{Target: target, Radius: radius, Strength: strength}
}

func (f *Exclusion) Name() string { return "exclusion" }

func (f *Exclusion) Initialize(nodes []*SimNode, rng *rand.Rand) {
	f.nodes, f.rng = nodes, rng
}

func (f *Exclusion) Apply(alpha float64) {
	if f.Radius <= 0 {
		return
	}
	for _, node := range f.nodes {
		if node.Fixed != nil {
			continue
		}
		x := node.X - f.Target.X
		y := node.Y - f.Target.Y
		if x == 0 && y == 0 {
			x, y = jiggle(f.rng), jiggle(f.rng)
		}
		d := math.Sqrt(x*x + y*y)
		if d >= f.Radius {
			continue
		}
		k := (f.Radius - d) / d * f.Strength * alpha
		node.VX += x * k
		node.VY += y * k
	}
}

// Collide keeps every pair of nodes at least Radius+Radius apart, judged
// on where the nodes will be after this tick's velocities.
type Collide struct {
	Radius   float64
	Strength float64

	nodes []*SimNode
	rng   *rand.Rand
}

// NewCollide creates a collision force with a uniform node radius
func NewCollide(radius float64) *Collide {
	return &Collide{Radius: radius, Strength: 1}
}

func (f *Collide) Name() string { return "collide" }

func (f *Collide) Initialize(nodes []*SimNode, rng *rand.Rand) {
	f.nodes, f.rng = nodes, rng
}

func (f *Collide) Apply(float64) {
	r := f.Radius + f.Radius
	for i, a := range f.nodes {
		xi := a.X + a.VX
		yi := a.Y + a.VY
		for _, b := range f.nodes[i+1:] {
			x := xi - (b.X + b.VX)
			y := yi - (b.Y + b.VY)
			l := x*x + y*y
			if l >= r*r {
				continue
			}
			if x == 0 {
				x = jiggle(f.rng)
				l += x * x
			}
			if y == 0 {
				y = jiggle(f.rng)
				l += y * y
			}
			d := math.Sqrt(l)
			// equal radii split the correction evenly
			k := (r - d) / d * f.Strength / 2
			a.VX += x * k
			a.VY += y * k
			b.VX -= x * k
			b.VY -= y * k
		}
	}
}
