package geom

import "github.com/go-gl/mathgl/mgl64"

// Point is a shape without extent, used by particles
type Point struct {
	position mgl64.Vec2
}

func NewPoint(position mgl64.Vec2) *Point {
	return &Point{position: position}
}

func (p *Point) Bounds() Box {
	return Box{Min: p.position, Max: p.position}
}

func (p *Point) Centroid() mgl64.Vec2 {
	return p.position
}

// Contains is always false: a point has no interior
func (p *Point) Contains(u mgl64.Vec2) bool {
	return false
}

func (p *Point) ProjectionAxes(other Shape) []mgl64.Vec2 {
	return nil
}

func (p *Point) ProjectedOn(axis mgl64.Vec2) Projection {
	projected := p.position.Dot(axis)
	return Projection{
		Min:      projected,
		Max:      projected,
		MinPoint: p.position,
		MaxPoint: p.position,
	}
}
