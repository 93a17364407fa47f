package feather2d

import (
	"github.com/akmonengine/feather2d/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DEFAULT_DRAG_STIFFNESS = 80.0
	DEFAULT_DRAG_DAMPING   = 200.0
)

// Drag pulls a point of a body toward a target with a damped spring, as a pointer dragging it would
type Drag struct {
	Body actor.Body
	// the grabbed point, in the body frame
	Anchor mgl64.Vec2
	Target mgl64.Vec2

	Stiffness float64
	Damping   float64
}

// NewDrag grabs body at the world point, the target starting on it
func NewDrag(body actor.Body, point mgl64.Vec2) *Drag {
	return &Drag{
		Body:      body,
		Anchor:    body.ToLocalSpace(point),
		Target:    point,
		Stiffness: DEFAULT_DRAG_STIFFNESS,
		Damping:   DEFAULT_DRAG_DAMPING,
	}
}

// AnchorWorld returns the grabbed point in world space
func (d *Drag) AnchorWorld() mgl64.Vec2 {
	return d.Body.FromLocalSpace(d.Anchor)
}

// Force returns the spring force at the anchor
func (d *Drag) Force() mgl64.Vec2 {
	anchor := d.AnchorWorld()
	velocity := d.Body.VelocityAt(anchor)

	return d.Target.Sub(anchor).Mul(d.Stiffness).Sub(velocity.Mul(d.Damping))
}

// Apply accumulates the spring force on the body, felt by its next Advance
func (d *Drag) Apply() {
	d.Body.ApplyForce(d.AnchorWorld(), d.Force())
}
