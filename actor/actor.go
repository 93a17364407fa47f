package actor

import (
	"errors"
	"math"

	"github.com/akmonengine/feather2d/vec2"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrInvalidMass            = errors.New("actor: mass must be positive and finite")
	ErrInvalidMomentOfInertia = errors.New("actor: moment of inertia must be positive and finite")
)

// Actor holds the integrable state of a rigid body.
//
// The state is stored as two samples (current and previous) of the transform, Verlet style:
// velocities are never stored, they are the difference between both samples, expressed per
// step. Mutating the current sample therefore changes the velocity unless the previous sample
// is shifted too, which is what SetCenter and SetOrientation do.
type Actor struct {
	mass            float64
	momentOfInertia float64

	// Spatial properties, only written through methods bumping revision
	current  Transform
	previous Transform

	acceleration        mgl64.Vec2
	angularAcceleration float64

	// revision changes each time the current sample moves, caches compare against it
	revision uint64
}

// NewActor creates an actor at rest on the origin
func NewActor(mass, momentOfInertia float64) (*Actor, error) {
	a := &Actor{}
	if err := a.init(mass, momentOfInertia); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Actor) init(mass, momentOfInertia float64) error {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return ErrInvalidMass
	}
	if !(momentOfInertia > 0) || math.IsInf(momentOfInertia, 0) {
		return ErrInvalidMomentOfInertia
	}

	a.mass = mass
	a.momentOfInertia = momentOfInertia
	a.current = NewTransform()
	a.previous = NewTransform()
	return nil
}

func (a *Actor) Mass() float64 {
	return a.mass
}

func (a *Actor) MomentOfInertia() float64 {
	return a.momentOfInertia
}

// Revision returns a counter bumped by every change of the current sample
func (a *Actor) Revision() uint64 {
	return a.revision
}

// Transform returns the current sample
func (a *Actor) Transform() Transform {
	return a.current
}

// PreviousTransform returns the sample of the step before
func (a *Actor) PreviousTransform() Transform {
	return a.previous
}

func (a *Actor) Center() mgl64.Vec2 {
	return a.current.Position
}

// CenterInterpolated extrapolates the center by t steps of the current velocity
func (a *Actor) CenterInterpolated(t float64) mgl64.Vec2 {
	return a.current.Position.Add(a.Velocity().Mul(t))
}

// SetCenter teleports the actor, keeping its velocity
func (a *Actor) SetCenter(center mgl64.Vec2) {
	velocity := a.Velocity()
	a.current.Position = center
	a.previous.Position = center.Sub(velocity)
	a.revision++
}

// Velocity returns the displacement of the center over the last step
func (a *Actor) Velocity() mgl64.Vec2 {
	return a.current.Position.Sub(a.previous.Position)
}

func (a *Actor) SetVelocity(velocity mgl64.Vec2) {
	a.previous.Position = a.current.Position.Sub(velocity)
}

// VelocityAt returns the velocity of a world point attached to the actor
func (a *Actor) VelocityAt(point mgl64.Vec2) mgl64.Vec2 {
	fromCenter := point.Sub(a.current.Position)
	return a.Velocity().Add(vec2.ClockwiseOrthogonal(fromCenter).Mul(a.AngularVelocity()))
}

func (a *Actor) Orientation() float64 {
	return a.current.Rotation
}

// SetOrientation turns the actor, keeping its angular velocity
func (a *Actor) SetOrientation(orientation float64) {
	angularVelocity := a.AngularVelocity()
	a.current.Rotation = orientation
	a.previous.Rotation = orientation - angularVelocity
	a.revision++
}

func (a *Actor) AngularVelocity() float64 {
	return a.current.Rotation - a.previous.Rotation
}

func (a *Actor) SetAngularVelocity(angularVelocity float64) {
	a.previous.Rotation = a.current.Rotation - angularVelocity
}

// ToLocalSpace maps a world point into the actor frame
func (a *Actor) ToLocalSpace(u mgl64.Vec2) mgl64.Vec2 {
	return a.current.Inverse(u)
}

// FromLocalSpace maps a point of the actor frame into world space
func (a *Actor) FromLocalSpace(u mgl64.Vec2) mgl64.Vec2 {
	return a.current.Apply(u)
}

// FromLocalSpaceInterpolated maps a local point into world space as it will be t steps ahead,
// extrapolating both velocities. The actor is left untouched.
func (a *Actor) FromLocalSpaceInterpolated(u mgl64.Vec2, t float64) mgl64.Vec2 {
	ahead := Transform{
		Position: a.CenterInterpolated(t),
		Rotation: a.current.Rotation + a.AngularVelocity()*t,
	}
	return ahead.Apply(u)
}

// Advance integrates one step with Störmer-Verlet then clears the accumulated accelerations
func (a *Actor) Advance(dt float64) {
	dt2 := dt * dt

	next := Transform{
		Position: a.current.Position.Mul(2).Sub(a.previous.Position).Add(a.acceleration.Mul(dt2)),
		Rotation: 2*a.current.Rotation - a.previous.Rotation + a.angularAcceleration*dt2,
	}
	a.previous = a.current
	a.current = next

	a.acceleration = vec2.Zero
	a.angularAcceleration = 0
	a.revision++
}

// ApplyForce accumulates a force applied at a world point. It is only felt by the next Advance.
func (a *Actor) ApplyForce(from, force mgl64.Vec2) {
	torque := vec2.Cross(force, from.Sub(a.current.Position))

	a.acceleration = a.acceleration.Add(force.Mul(1 / a.mass))
	a.angularAcceleration += torque / a.momentOfInertia
}

// ApplyImpulse changes the velocities immediately by rewriting the previous sample
func (a *Actor) ApplyImpulse(from, impulse mgl64.Vec2) {
	angularImpulse := vec2.Cross(impulse, from.Sub(a.current.Position))

	a.SetVelocity(a.Velocity().Add(impulse.Mul(1 / a.mass)))
	a.SetAngularVelocity(a.AngularVelocity() + angularImpulse/a.momentOfInertia)
}

// ClearForces drops the accelerations accumulated since the last Advance
func (a *Actor) ClearForces() {
	a.acceleration = vec2.Zero
	a.angularAcceleration = 0
}

// LinearEnergy returns ½mv²
func (a *Actor) LinearEnergy() float64 {
	return 0.5 * a.mass * a.Velocity().LenSqr()
}

// AngularEnergy returns ½Iω²
func (a *Actor) AngularEnergy() float64 {
	angularVelocity := a.AngularVelocity()
	return 0.5 * a.momentOfInertia * angularVelocity * angularVelocity
}

func (a *Actor) Energy() float64 {
	return a.LinearEnergy() + a.AngularEnergy()
}
