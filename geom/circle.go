package geom

import (
	"math"

	"github.com/akmonengine/feather2d/vec2"
	"github.com/go-gl/mathgl/mgl64"
)

// Circle represents a disk
type Circle struct {
	center mgl64.Vec2
	radius float64
}

// NewCircle creates a circle, rejecting negative radii
func NewCircle(center mgl64.Vec2, radius float64) (*Circle, error) {
	if radius < 0 || math.IsNaN(radius) {
		return nil, ErrNegativeRadius
	}
	return &Circle{center: center, radius: radius}, nil
}

// Radius returns the radius of the circle
func (c *Circle) Radius() float64 {
	return c.radius
}

// Area returns πr²
func (c *Circle) Area() float64 {
	return math.Pi * c.radius * c.radius
}

// ComputeMass calculates the mass of the disk for a given surface density
func (c *Circle) ComputeMass(density float64) float64 {
	return density * c.Area()
}

// MomentOfInertia returns ½mr², the inertia of a uniform disk around its center
func (c *Circle) MomentOfInertia(mass float64) float64 {
	return 0.5 * mass * c.radius * c.radius
}

// Bounds returns the square enclosing the disk
func (c *Circle) Bounds() Box {
	return BoxFromCenter(c.center, mgl64.Vec2{c.radius, c.radius})
}

// Centroid returns the center of the circle
func (c *Circle) Centroid() mgl64.Vec2 {
	return c.center
}

// Contains reports whether u lies strictly inside the circle
func (c *Circle) Contains(u mgl64.Vec2) bool {
	return u.Sub(c.center).LenSqr() < c.radius*c.radius
}

// ProjectionAxes points from the center toward every feature of the other shape that can
// separate it from the circle. Axes that have no direction (feature at the center) are dropped.
func (c *Circle) ProjectionAxes(other Shape) []mgl64.Vec2 {
	var targets []mgl64.Vec2

	switch o := other.(type) {
	case *Polygon:
		targets = o.Vertices()
	case *Circle:
		targets = []mgl64.Vec2{o.center}
	case *Point:
		targets = []mgl64.Vec2{o.position}
	default:
		return nil
	}

	axes := make([]mgl64.Vec2, 0, len(targets))
	for _, target := range targets {
		if axis, ok := vec2.SafeNormalize(target.Sub(c.center)); ok {
			axes = append(axes, axis)
		}
	}

	return axes
}

// ProjectedOn projects the disk on axis
func (c *Circle) ProjectedOn(axis mgl64.Vec2) Projection {
	projected := c.center.Dot(axis)
	offset := axis.Mul(c.radius)

	return Projection{
		Min:      projected - c.radius,
		Max:      projected + c.radius,
		MinPoint: c.center.Sub(offset),
		MaxPoint: c.center.Add(offset),
	}
}
