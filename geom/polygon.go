package geom

import (
	"math"

	"github.com/akmonengine/feather2d/vec2"
	"github.com/go-gl/mathgl/mgl64"
)

// Polygon is a convex polygon stored with counter-clockwise winding.
// Bounds, centroid and edge axes are computed once: a Polygon never changes after construction.
type Polygon struct {
	vertices []mgl64.Vec2
	bounds   Box
	centroid mgl64.Vec2
	area     float64
	axes     []mgl64.Vec2
}

// NewPolygon copies the vertices of a convex polygon. Clockwise input is reversed.
func NewPolygon(vertices []mgl64.Vec2) (*Polygon, error) {
	if len(vertices) < 3 {
		return nil, ErrDegeneratePolygon
	}

	signedArea := SignedArea(vertices)
	if math.Abs(signedArea) < 1e-12 || math.IsNaN(signedArea) {
		return nil, ErrDegeneratePolygon
	}

	owned := make([]mgl64.Vec2, len(vertices))
	copy(owned, vertices)
	if signedArea < 0 {
		for i, j := 0, len(owned)-1; i < j; i, j = i+1, j-1 {
			owned[i], owned[j] = owned[j], owned[i]
		}
	}

	return newPolygon(owned, math.Abs(signedArea)), nil
}

// newPolygon trusts its input: non-degenerate, counter-clockwise, owned by the polygon.
func newPolygon(vertices []mgl64.Vec2, area float64) *Polygon {
	p := &Polygon{
		vertices: vertices,
		area:     area,
		bounds:   BoundsOf(vertices),
		centroid: ConvexCentroid(vertices),
		axes:     make([]mgl64.Vec2, 0, len(vertices)),
	}

	for i, base := range vertices {
		head := vertices[(i+1)%len(vertices)]
		axis, ok := vec2.SafeNormalize(vec2.CounterClockwiseOrthogonal(head.Sub(base)))
		if !ok {
			// repeated vertex, the edge has no direction
			continue
		}
		p.axes = append(p.axes, axis)
	}

	return p
}

// Vertices returns the polygon vertices. The slice must not be modified.
func (p *Polygon) Vertices() []mgl64.Vec2 {
	return p.vertices
}

// Area returns the (positive) area of the polygon
func (p *Polygon) Area() float64 {
	return p.area
}

// ComputeMass calculates the mass of the polygon for a given surface density
func (p *Polygon) ComputeMass(density float64) float64 {
	return density * p.area
}

// MomentOfInertia returns the moment of inertia of a uniform plate of the given mass around its
// centroid.
func (p *Polygon) MomentOfInertia(mass float64) float64 {
	var numerator, denominator float64

	c := p.centroid
	for i := range p.vertices {
		a := p.vertices[i].Sub(c)
		b := p.vertices[(i+1)%len(p.vertices)].Sub(c)

		cross := math.Abs(vec2.Cross(a, b))
		numerator += cross * (a.Dot(a) + a.Dot(b) + b.Dot(b))
		denominator += cross
	}

	return mass * numerator / (6 * denominator)
}

// Translated returns a copy moved by offset
func (p *Polygon) Translated(offset mgl64.Vec2) *Polygon {
	moved := make([]mgl64.Vec2, len(p.vertices))
	for i, v := range p.vertices {
		moved[i] = v.Add(offset)
	}
	return newPolygon(moved, p.area)
}

// Transformed returns a copy with every vertex mapped through fn.
// fn must be a rigid motion, otherwise convexity and winding are not preserved.
func (p *Polygon) Transformed(fn func(mgl64.Vec2) mgl64.Vec2) *Polygon {
	mapped := make([]mgl64.Vec2, len(p.vertices))
	for i, v := range p.vertices {
		mapped[i] = fn(v)
	}
	return newPolygon(mapped, p.area)
}

// Bounds returns the axis-aligned bounding box
func (p *Polygon) Bounds() Box {
	return p.bounds
}

// Centroid returns the center of area
func (p *Polygon) Centroid() mgl64.Vec2 {
	return p.centroid
}

// Contains reports whether u lies inside the polygon. Points on an edge count as inside.
func (p *Polygon) Contains(u mgl64.Vec2) bool {
	hasClockwise := false
	hasCounterClockwise := false

	for i, base := range p.vertices {
		tip := p.vertices[(i+1)%len(p.vertices)]
		if vec2.Cross(tip.Sub(base), u.Sub(base)) < 0 {
			hasClockwise = true
		} else {
			hasCounterClockwise = true
		}
	}

	return hasClockwise != hasCounterClockwise
}

// ProjectionAxes returns the unit normals of the polygon edges, whatever the other shape is
func (p *Polygon) ProjectionAxes(other Shape) []mgl64.Vec2 {
	return p.axes
}

// ProjectedOn projects every vertex on axis
func (p *Polygon) ProjectedOn(axis mgl64.Vec2) Projection {
	projection := Projection{Min: math.Inf(1), Max: math.Inf(-1)}

	for _, vertex := range p.vertices {
		projected := vertex.Dot(axis)

		if projected < projection.Min {
			projection.Min = projected
			projection.MinPoint = vertex
		}
		if projected > projection.Max {
			projection.Max = projected
			projection.MaxPoint = vertex
		}
	}

	return projection
}

// SignedArea returns the area of the polygon, positive for counter-clockwise winding
func SignedArea(vertices []mgl64.Vec2) float64 {
	var twiceArea float64
	for i, v := range vertices {
		twiceArea += vec2.Cross(v, vertices[(i+1)%len(vertices)])
	}
	return twiceArea / 2
}

// ConvexCentroid returns the area-weighted centroid of a polygon.
// It falls back to the vertex average when the area vanishes.
func ConvexCentroid(vertices []mgl64.Vec2) mgl64.Vec2 {
	if len(vertices) == 0 {
		return vec2.Zero
	}

	// triangles fanned from the first vertex keep the sums well conditioned far from the origin
	origin := vertices[0]
	var total mgl64.Vec2
	var totalArea float64
	for i := 2; i < len(vertices); i++ {
		a := vertices[i-1].Sub(origin)
		b := vertices[i].Sub(origin)
		area := vec2.Cross(a, b) / 2

		total = total.Add(a.Add(b).Mul(area / 3))
		totalArea += area
	}

	if math.Abs(totalArea) < 1e-12 {
		var sum mgl64.Vec2
		for _, v := range vertices {
			sum = sum.Add(v)
		}
		return sum.Mul(1 / float64(len(vertices)))
	}

	return origin.Add(total.Mul(1 / totalArea))
}

// Rectangle returns the counter-clockwise corners of a width x height rectangle centered on
// the origin.
func Rectangle(width, height float64) []mgl64.Vec2 {
	hw, hh := width/2, height/2
	return []mgl64.Vec2{
		{-hw, -hh},
		{hw, -hh},
		{hw, hh},
		{-hw, hh},
	}
}
