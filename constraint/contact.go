package constraint

import (
	"math"

	"github.com/akmonengine/feather2d/actor"
	"github.com/akmonengine/feather2d/sat"
	"github.com/akmonengine/feather2d/vec2"
	"github.com/go-gl/mathgl/mgl64"
)

// Contact pairs two bodies with the intersection moving BodyA out of BodyB.
// A fixed body is never moved nor impulsed; its mass is ignored.
type Contact struct {
	BodyA        actor.Body
	BodyB        actor.Body
	Intersection sat.Intersection

	Restitution float64
	Friction    float64

	FixedA bool
	FixedB bool

	// body revisions the intersection was computed at
	revisionA uint64
	revisionB uint64
}

// NewContact builds a contact, mixing the materials of both bodies and marking static ones as fixed
func NewContact(bodyA, bodyB actor.Body, intersection sat.Intersection) *Contact {
	attrsA, attrsB := bodyA.Attrs(), bodyB.Attrs()

	return &Contact{
		BodyA:        bodyA,
		BodyB:        bodyB,
		Intersection: intersection,
		Restitution:  ComputeRestitution(attrsA.Material, attrsB.Material),
		Friction:     ComputeFriction(attrsA.Material, attrsB.Material),
		FixedA:       attrsA.IsStatic(),
		FixedB:       attrsB.IsStatic(),
		revisionA:    bodyA.Revision(),
		revisionB:    bodyB.Revision(),
	}
}

// Refresh recomputes the intersection if either body moved since it was computed, typically
// while resolving an earlier contact. It returns false when the bodies no longer overlap.
func (c *Contact) Refresh() bool {
	if c.BodyA.Revision() == c.revisionA && c.BodyB.Revision() == c.revisionB {
		return true
	}

	intersection, ok := sat.Intersect(c.BodyA.WorldShape(), c.BodyB.WorldShape())
	if !ok {
		return false
	}
	c.Intersection = intersection
	c.revisionA, c.revisionB = c.BodyA.Revision(), c.BodyB.Revision()
	return true
}

// Resolve separates the bodies and applies the collision impulses.
// It returns false when nothing could be done: both bodies fixed, or a contact without direction.
func (c *Contact) Resolve() bool {
	switch {
	case c.FixedA && c.FixedB:
		return false
	case c.FixedA:
		return resolveFixed(c.BodyA, c.BodyB, c.Intersection, c.Restitution, c.Friction)
	case c.FixedB:
		return resolveFixed(c.BodyB, c.BodyA, c.Intersection.Reverse(), c.Restitution, c.Friction)
	default:
		return resolve(c.BodyA, c.BodyB, c.Intersection, c.Restitution, c.Friction)
	}
}

// ResolveCollision separates a from b along the intersection axis, each body moving in proportion
// to the mass of the other one, then applies opposite normal impulses at the impact point.
// intersection must move a out of b, as returned by sat.Intersect(a shape, b shape).
func ResolveCollision(a, b actor.Kinematic, intersection sat.Intersection, restitution float64) bool {
	return resolve(a, b, intersection, restitution, 0)
}

// ResolveCollisionWithFriction also applies a tangential impulse.
// The friction model is approximate: the tangential impulse shrinks as the normal one grows.
func ResolveCollisionWithFriction(a, b actor.Kinematic, intersection sat.Intersection, restitution, friction float64) bool {
	return resolve(a, b, intersection, restitution, friction)
}

// ResolveCollisionFixed resolves a contact against a body of infinite mass: fixed is neither moved
// nor impulsed. intersection must move fixed out of body.
func ResolveCollisionFixed(fixed, body actor.Kinematic, intersection sat.Intersection, restitution float64) bool {
	return resolveFixed(fixed, body, intersection, restitution, 0)
}

func ResolveCollisionFixedWithFriction(fixed, body actor.Kinematic, intersection sat.Intersection, restitution, friction float64) bool {
	return resolveFixed(fixed, body, intersection, restitution, friction)
}

func resolve(a, b actor.Kinematic, intersection sat.Intersection, restitution, friction float64) bool {
	normal, ok := vec2.SafeNormalize(intersection.Axis())
	if !ok {
		return false
	}

	// ========== 1. Positional correction ==========
	axis := intersection.Axis()
	totalMass := a.Mass() + b.Mass()
	weightA := b.Mass() / totalMass
	weightB := a.Mass() / totalMass

	a.SetCenter(a.Center().Add(axis.Mul(weightA)))
	b.SetCenter(b.Center().Sub(axis.Mul(weightB)))

	// where both shapes touch once separated
	impact := intersection.Positions[1].Add(axis.Mul(weightA))

	// ========== 2. Normal impulse ==========
	invMassA := 1.0 / a.Mass()
	invMassB := 1.0 / b.Mass()
	invInertiaA := 1.0 / a.MomentOfInertia()
	invInertiaB := 1.0 / b.MomentOfInertia()

	rA := impact.Sub(a.Center())
	rB := impact.Sub(b.Center())

	normalVel := b.VelocityAt(impact).Sub(a.VelocityAt(impact)).Dot(normal)
	effectiveMassNormal := invMassA + invMassB +
		square(vec2.Cross(rA, normal))*invInertiaA +
		square(vec2.Cross(rB, normal))*invInertiaB

	lambdaNormal := (1 + restitution) * normalVel / effectiveMassNormal

	// ========== CRITICAL: Prevent attractive impulses ==========
	if lambdaNormal < 0 {
		lambdaNormal = 0
	}

	a.ApplyImpulse(impact, normal.Mul(lambdaNormal))
	b.ApplyImpulse(impact, normal.Mul(-lambdaNormal))

	// ========== 3. Tangential impulse (friction) ==========
	if friction <= 0 {
		return true
	}

	tangent := vec2.ClockwiseOrthogonal(normal)
	tangentVel := b.VelocityAt(impact).Sub(a.VelocityAt(impact)).Dot(tangent)
	effectiveMassTangent := invMassA + invMassB +
		square(vec2.Cross(rA, tangent))*invInertiaA +
		square(vec2.Cross(rB, tangent))*invInertiaB

	lambdaTangent := frictionImpulse(friction, tangentVel, effectiveMassTangent, lambdaNormal)
	a.ApplyImpulse(impact, tangent.Mul(lambdaTangent))
	b.ApplyImpulse(impact, tangent.Mul(-lambdaTangent))

	return true
}

func resolveFixed(fixed, body actor.Kinematic, intersection sat.Intersection, restitution, friction float64) bool {
	normal, ok := vec2.SafeNormalize(intersection.Axis())
	if !ok {
		return false
	}

	// the body takes the whole correction
	body.SetCenter(body.Center().Sub(intersection.Axis()))
	impact := intersection.Positions[1]

	invMass := 1.0 / body.Mass()
	invInertia := 1.0 / body.MomentOfInertia()
	r := impact.Sub(body.Center())

	normalVel := body.VelocityAt(impact).Sub(fixed.VelocityAt(impact)).Dot(normal)
	effectiveMassNormal := invMass + square(vec2.Cross(r, normal))*invInertia

	lambdaNormal := (1 + restitution) * normalVel / effectiveMassNormal
	if lambdaNormal < 0 {
		lambdaNormal = 0
	}

	body.ApplyImpulse(impact, normal.Mul(-lambdaNormal))

	if friction <= 0 {
		return true
	}

	tangent := vec2.ClockwiseOrthogonal(normal)
	tangentVel := body.VelocityAt(impact).Sub(fixed.VelocityAt(impact)).Dot(tangent)
	effectiveMassTangent := invMass + square(vec2.Cross(r, tangent))*invInertia

	lambdaTangent := frictionImpulse(friction, tangentVel, effectiveMassTangent, lambdaNormal)
	body.ApplyImpulse(impact, tangent.Mul(-lambdaTangent))

	return true
}

// frictionImpulse returns the tangential impulse magnitude. Sliding is damped less the harder
// the bodies hit, and never beyond stopping the relative tangential motion.
func frictionImpulse(friction, tangentVel, effectiveMassTangent, lambdaNormal float64) float64 {
	if effectiveMassTangent < 1e-12 {
		return 0
	}
	factor := math.Min(friction, 1) / (1 + math.Abs(lambdaNormal))
	return factor * tangentVel / effectiveMassTangent
}

func square(x float64) float64 {
	return x * x
}

// ImpactPoint returns the world point the impulses are applied at
func (c *Contact) ImpactPoint() mgl64.Vec2 {
	if c.FixedA {
		return c.Intersection.Positions[1]
	}
	if c.FixedB {
		return c.Intersection.Positions[0]
	}
	weightA := c.BodyB.Mass() / (c.BodyA.Mass() + c.BodyB.Mass())
	return c.Intersection.Positions[1].Add(c.Intersection.Axis().Mul(weightA))
}
