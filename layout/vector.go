package layout

import "math"

// Vector is a point or displacement in simulation space
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o
func (v Vector) Add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o
func (v Vector) Sub(o Vector) Vector { return Vector{v.X - o.X, v.Y - o.Y} }

// Scale returns v * k
func (v Vector) Scale(k float64) Vector { return Vector{v.X * k, v.Y * k} }

// Len returns the euclidean length
func (v Vector) Len() float64 { return math.Hypot(v.X, v.Y) }

// IsFinite reports whether neither component is NaN or infinite
func (v Vector) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

// Bounds is an axis-aligned bounding box
type Bounds struct {
	Min Vector `json:"min"`
	Max Vector `json:"max"`
}

// Width of the box
func (b Bounds) Width() float64 { return b.Max.X - b.Min.X }

// Height of the box
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// Center of the box
func (b Bounds) Center() Vector {
	return Vector{(b.Min.X + b.Max.X) / 2, (b.Min.Y + b.Max.Y) / 2}
}
