package actor

import (
	"fmt"

	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/vec2"
	"github.com/go-gl/mathgl/mgl64"
)

// Kinematic is the part of an actor the collision resolvers work with
type Kinematic interface {
	Mass() float64
	MomentOfInertia() float64
	Center() mgl64.Vec2
	SetCenter(center mgl64.Vec2)
	Velocity() mgl64.Vec2
	AngularVelocity() float64
	VelocityAt(point mgl64.Vec2) mgl64.Vec2
	ApplyImpulse(from, impulse mgl64.Vec2)
}

// Body is an actor with a collision shape, as handled by a world
type Body interface {
	Kinematic

	Orientation() float64
	SetOrientation(orientation float64)
	SetVelocity(velocity mgl64.Vec2)
	SetAngularVelocity(angularVelocity float64)
	ApplyForce(from, force mgl64.Vec2)
	ClearForces()
	Advance(dt float64)
	Energy() float64
	Revision() uint64
	ToLocalSpace(u mgl64.Vec2) mgl64.Vec2
	FromLocalSpace(u mgl64.Vec2) mgl64.Vec2

	WorldShape() geom.Shape
	WorldBounds() geom.Box
	Contains(point mgl64.Vec2) bool
	Attrs() *Attributes
}

// =============================================================================
// ConvexBody
// =============================================================================

// ConvexBody is an actor shaped as a convex polygon.
// The polygon is kept in local space, centered on its centroid; the world polygon and its bounds
// are derived from the actor state on demand.
type ConvexBody struct {
	Actor
	Attributes

	local *geom.Polygon

	worldShape  cell[*geom.Polygon]
	worldBounds cell[geom.Box]
}

// NewConvexBody creates a body from world-space vertices. The actor center is placed on the
// centroid of the polygon.
func NewConvexBody(vertices []mgl64.Vec2, mass float64) (*ConvexBody, error) {
	polygon, err := geom.NewPolygon(vertices)
	if err != nil {
		return nil, fmt.Errorf("convex body: %w", err)
	}

	centroid := polygon.Centroid()
	local := polygon.Translated(centroid.Mul(-1))

	body := &ConvexBody{
		Attributes: defaultAttributes(),
		local:      local,
	}
	if err := body.init(mass, local.MomentOfInertia(mass)); err != nil {
		return nil, fmt.Errorf("convex body: %w", err)
	}
	body.SetCenter(centroid)

	return body, nil
}

// NewBoxBody creates a width x height rectangle centered on the origin
func NewBoxBody(width, height, mass float64) (*ConvexBody, error) {
	return NewConvexBody(geom.Rectangle(width, height), mass)
}

// LocalShape returns the polygon in the body frame
func (b *ConvexBody) LocalShape() *geom.Polygon {
	return b.local
}

// WorldPolygon returns the polygon placed at the current transform
func (b *ConvexBody) WorldPolygon() *geom.Polygon {
	return b.worldShape.get(b.revision, func() *geom.Polygon {
		return b.local.Transformed(b.FromLocalSpace)
	})
}

func (b *ConvexBody) WorldShape() geom.Shape {
	return b.WorldPolygon()
}

func (b *ConvexBody) WorldBounds() geom.Box {
	return b.worldBounds.get(b.revision, func() geom.Box {
		return b.WorldPolygon().Bounds()
	})
}

// WorldVertices returns the vertices placed at the current transform. The slice must not be
// modified.
func (b *ConvexBody) WorldVertices() []mgl64.Vec2 {
	return b.WorldPolygon().Vertices()
}

// WorldVerticesInterpolated returns the vertices extrapolated t steps ahead, for rendering
func (b *ConvexBody) WorldVerticesInterpolated(t float64) []mgl64.Vec2 {
	local := b.local.Vertices()
	vertices := make([]mgl64.Vec2, len(local))
	for i, v := range local {
		vertices[i] = b.FromLocalSpaceInterpolated(v, t)
	}
	return vertices
}

// Contains reports whether a world point lies inside the body
func (b *ConvexBody) Contains(point mgl64.Vec2) bool {
	return b.WorldBounds().ContainsPoint(point) && b.WorldPolygon().Contains(point)
}

// =============================================================================
// CircleBody
// =============================================================================

// CircleBody is an actor shaped as a disk centered on the actor center
type CircleBody struct {
	Actor
	Attributes

	radius float64

	worldShape cell[*geom.Circle]
}

func NewCircleBody(radius, mass float64) (*CircleBody, error) {
	circle, err := geom.NewCircle(vec2.Zero, radius)
	if err != nil {
		return nil, fmt.Errorf("circle body: %w", err)
	}

	body := &CircleBody{
		Attributes: defaultAttributes(),
		radius:     radius,
	}
	if err := body.init(mass, circle.MomentOfInertia(mass)); err != nil {
		return nil, fmt.Errorf("circle body: %w", err)
	}

	return body, nil
}

func (b *CircleBody) Radius() float64 {
	return b.radius
}

// WorldCircle returns the disk placed at the current center
func (b *CircleBody) WorldCircle() *geom.Circle {
	return b.worldShape.get(b.revision, func() *geom.Circle {
		// the radius was validated by NewCircleBody
		circle, _ := geom.NewCircle(b.Center(), b.radius)
		return circle
	})
}

func (b *CircleBody) WorldShape() geom.Shape {
	return b.WorldCircle()
}

func (b *CircleBody) WorldBounds() geom.Box {
	return b.WorldCircle().Bounds()
}

func (b *CircleBody) Contains(point mgl64.Vec2) bool {
	return b.WorldCircle().Contains(point)
}

// =============================================================================
// ParticleBody
// =============================================================================

// ParticleBody is an actor without extent. Its moment of inertia is 1.
type ParticleBody struct {
	Actor
	Attributes
}

func NewParticleBody(mass float64) (*ParticleBody, error) {
	body := &ParticleBody{Attributes: defaultAttributes()}
	if err := body.init(mass, 1); err != nil {
		return nil, fmt.Errorf("particle body: %w", err)
	}
	return body, nil
}

func (b *ParticleBody) WorldShape() geom.Shape {
	return geom.NewPoint(b.Center())
}

func (b *ParticleBody) WorldBounds() geom.Box {
	return b.WorldShape().Bounds()
}

func (b *ParticleBody) Contains(point mgl64.Vec2) bool {
	return false
}
