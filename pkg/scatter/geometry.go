package scatter

import "math"

// Point is a position in layout units (CSS pixels for the web gallery).
type Point struct {
	X, Y float64
}

// distSq returns the squared Euclidean distance between p and q.
func (p Point) distSq(q Point) float64 {
	dx, dy := p.X-q.X, p.Y-q.Y
	return dx*dx + dy*dy
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Size is the measured extent of an item.
type Size struct {
	W, H float64
}

// Pos is the top-left corner of a placed item.
type Pos struct {
	Left, Top float64
}

// Item is one thing to place: a measured size and a slot for its position.
// The engine only reads Size and only writes Pos and Placed.
type Item struct {
	Size   Size
	Pos    Pos
	Placed bool
}

// Center returns the center of the item's placed box.
func (it Item) Center() Point {
	return Point{X: it.Pos.Left + it.Size.W/2, Y: it.Pos.Top + it.Size.H/2}
}

// Bounds is the axis-aligned rectangle centers may occupy.
// MaxX >= MinX and MaxY >= MinY always hold for bounds built by [Domain].
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// Width returns the horizontal span of the bounds.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical span of the bounds.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Area returns Width times Height.
func (b Bounds) Area() float64 { return b.Width() * b.Height() }

// Contains reports whether p lies inside the closed rectangle.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// Clamp returns p moved to the nearest point inside the bounds.
func (b Bounds) Clamp(p Point) Point {
	return Point{
		X: clamp(p.X, b.MinX, b.MaxX),
		Y: clamp(p.Y, b.MinY, b.MaxY),
	}
}

// clamp applies the lower bound first, then the upper one. When hi < lo
// the result is hi, matching the placement rule for oversized items.
func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
