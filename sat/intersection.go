// Package sat implements the Separating Axis Theorem for convex 2D shapes.
//
// Two convex shapes are disjoint if and only if there is an axis on which their projections do
// not overlap. The candidate axes come from the shapes themselves (edge normals for polygons,
// directions toward the opponent features for circles). When no candidate separates the shapes,
// the axis with the smallest overlap gives the minimum translation needed to pull them apart.
//
// The test is run twice, once with the axes of each shape, and the shallowest result wins.
// Only convex shapes are supported: a concave polygon may be reported as colliding when it is not.
package sat

import (
	"math"

	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/vec2"
	"github.com/go-gl/mathgl/mgl64"
)

// TrivialDepth is the depth under which an overlap is not reported as a contact.
// It keeps resting bodies from jittering on floating point noise.
const TrivialDepth = 0.001

// Intersection describes how two shapes overlap.
//
// Positions holds a witness pair taken on the deepest feature. Axis (Positions[0] - Positions[1])
// is the translation that separates the first shape from the second, and Positions[1] + Axis is
// where both shapes touch once that translation is applied.
type Intersection struct {
	Positions [2]mgl64.Vec2
	Depth     float64
}

// Axis returns the translation moving the first shape out of the second
func (in Intersection) Axis() mgl64.Vec2 {
	return in.Positions[0].Sub(in.Positions[1])
}

// Normal returns the unit separation direction, pointing from the second shape to the first
func (in Intersection) Normal() mgl64.Vec2 {
	normal, _ := vec2.SafeNormalize(in.Axis())
	return normal
}

func (in Intersection) Tangent() mgl64.Vec2 {
	return vec2.ClockwiseOrthogonal(in.Normal())
}

// Reverse returns the intersection seen from the other shape
func (in Intersection) Reverse() Intersection {
	return Intersection{
		Positions: [2]mgl64.Vec2{in.Positions[1], in.Positions[0]},
		Depth:     in.Depth,
	}
}

func (in Intersection) IsTrivial() bool {
	return in.Depth < TrivialDepth
}

// ToLocalSpace expresses u in the contact frame: x along the tangent, y along the normal
func (in Intersection) ToLocalSpace(u mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{u.Dot(in.Tangent()), u.Dot(in.Normal())}
}

// FromLocalSpace is the inverse of ToLocalSpace
func (in Intersection) FromLocalSpace(u mgl64.Vec2) mgl64.Vec2 {
	return in.Tangent().Mul(u.X()).Add(in.Normal().Mul(u.Y()))
}

// Intersect reports whether a and b overlap, and how.
// The returned Intersection moves a out of b; see Intersection for the ordering of Positions.
// Touching, trivially overlapping and degenerate pairs report no intersection.
func Intersect(a, b geom.Shape) (Intersection, bool) {
	fromA, ok := checkAxes(a, b)
	if !ok {
		return Intersection{}, false
	}

	fromB, ok := checkAxes(b, a)
	if !ok {
		return Intersection{}, false
	}

	var best Intersection
	if fromA.Depth < fromB.Depth {
		best = fromA
	} else {
		best = fromB.Reverse()
	}

	if math.IsInf(best.Depth, 0) || math.IsNaN(best.Depth) || best.IsTrivial() {
		return Intersection{}, false
	}

	return best, true
}

// checkAxes projects both shapes on the axes of shape and keeps the shallowest overlap, with the
// witness points taken on other. It returns false as soon as one axis separates them.
func checkAxes(shape, other geom.Shape) (Intersection, bool) {
	minimum := Intersection{Depth: math.Inf(1)}

	for _, axis := range shape.ProjectionAxes(other) {
		projection := shape.ProjectedOn(axis)
		otherProjection := other.ProjectedOn(axis)

		if projection.Min >= otherProjection.Max || projection.Max <= otherProjection.Min {
			return Intersection{}, false
		}

		// shape sticks out on the positive side (depthPositive) or on the negative side
		depthPositive := otherProjection.Max - projection.Min
		depthNegative := projection.Max - otherProjection.Min

		if depthPositive < depthNegative {
			if depthPositive < minimum.Depth {
				minimum = Intersection{
					Positions: [2]mgl64.Vec2{
						otherProjection.MaxPoint,
						otherProjection.MaxPoint.Sub(axis.Mul(depthPositive)),
					},
					Depth: depthPositive,
				}
			}
		} else if depthNegative < minimum.Depth {
			minimum = Intersection{
				Positions: [2]mgl64.Vec2{
					otherProjection.MinPoint,
					otherProjection.MinPoint.Add(axis.Mul(depthNegative)),
				},
				Depth: depthNegative,
			}
		}
	}

	return minimum, true
}
