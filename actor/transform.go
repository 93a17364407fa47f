package actor

import (
	"github.com/akmonengine/feather2d/vec2"
	"github.com/go-gl/mathgl/mgl64"
)

// Transform represents a position and an orientation in 2D space
type Transform struct {
	Position mgl64.Vec2
	Rotation float64
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{}
}

// Apply maps a local point to the space the transform is expressed in
func (t Transform) Apply(local mgl64.Vec2) mgl64.Vec2 {
	return t.Position.Add(vec2.Rotate(local, t.Rotation))
}

// Inverse maps a point back into the local frame of the transform
func (t Transform) Inverse(world mgl64.Vec2) mgl64.Vec2 {
	return vec2.Rotate(world.Sub(t.Position), -t.Rotation)
}

// Sub returns the displacement from other to t, component by component
func (t Transform) Sub(other Transform) Transform {
	return Transform{
		Position: t.Position.Sub(other.Position),
		Rotation: t.Rotation - other.Rotation,
	}
}
