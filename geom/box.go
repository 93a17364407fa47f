package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// Box represents a closed axis-aligned bounding box
type Box struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

// BoxFromCenter builds a box from its center and half extents
func BoxFromCenter(center, halfSize mgl64.Vec2) Box {
	return Box{Min: center.Sub(halfSize), Max: center.Add(halfSize)}
}

// BoundsOf returns the smallest box containing every point.
// It returns the zero Box for an empty slice.
func BoundsOf(points []mgl64.Vec2) Box {
	if len(points) == 0 {
		return Box{}
	}

	min := points[0]
	max := points[0]
	for _, p := range points[1:] {
		min[0] = math.Min(min[0], p[0])
		min[1] = math.Min(min[1], p[1])
		max[0] = math.Max(max[0], p[0])
		max[1] = math.Max(max[1], p[1])
	}

	return Box{Min: min, Max: max}
}

// BoxFromRect converts an r2 rectangle
func BoxFromRect(r r2.Rect) Box {
	return Box{
		Min: mgl64.Vec2{r.X.Lo, r.Y.Lo},
		Max: mgl64.Vec2{r.X.Hi, r.Y.Hi},
	}
}

// Rect converts the box to the r2 rectangle used by the spatial index
func (b Box) Rect() r2.Rect {
	return r2.Rect{
		X: r1.Interval{Lo: b.Min[0], Hi: b.Max[0]},
		Y: r1.Interval{Lo: b.Min[1], Hi: b.Max[1]},
	}
}

// Center returns the middle of the box
func (b Box) Center() mgl64.Vec2 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// HalfSize returns half the width and height
func (b Box) HalfSize() mgl64.Vec2 {
	return b.Max.Sub(b.Min).Mul(0.5)
}

// Size returns the width and height
func (b Box) Size() mgl64.Vec2 {
	return b.Max.Sub(b.Min)
}

// ContainsPoint checks if a point is inside the box, borders included
func (b Box) ContainsPoint(point mgl64.Vec2) bool {
	return point.X() >= b.Min.X() && point.X() <= b.Max.X() &&
		point.Y() >= b.Min.Y() && point.Y() <= b.Max.Y()
}

// Overlaps checks if two boxes overlap. Touching borders count as overlapping.
func (b Box) Overlaps(other Box) bool {
	return b.Max.X() >= other.Min.X() && b.Min.X() <= other.Max.X() &&
		b.Max.Y() >= other.Min.Y() && b.Min.Y() <= other.Max.Y()
}

// Union returns the smallest box containing both boxes
func (b Box) Union(other Box) Box {
	return Box{
		Min: mgl64.Vec2{math.Min(b.Min[0], other.Min[0]), math.Min(b.Min[1], other.Min[1])},
		Max: mgl64.Vec2{math.Max(b.Max[0], other.Max[0]), math.Max(b.Max[1], other.Max[1])},
	}
}

// Translated returns the box moved by offset
func (b Box) Translated(offset mgl64.Vec2) Box {
	return Box{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}
