// Package vec2 holds the small set of 2D vector operations the engine needs on top of mgl64.Vec2.
//
// Orientation convention: a positive angle turns a vector the same way ClockwiseOrthogonal does.
// Rotate, Cross and ClockwiseOrthogonal are chosen so that torque (Cross(force, r)) and the
// velocity of a point on a spinning body (ClockwiseOrthogonal(r) * ω) agree with each other.
package vec2

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Zero is the origin.
var Zero = mgl64.Vec2{0, 0}

// Cross returns the z component of the 3D cross product of u and v.
func Cross(u, v mgl64.Vec2) float64 {
	return u[0]*v[1] - u[1]*v[0]
}

// ClockwiseOrthogonal returns u turned a quarter turn in the positive angle direction.
func ClockwiseOrthogonal(u mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{u[1], -u[0]}
}

// CounterClockwiseOrthogonal returns u turned a quarter turn against the positive angle direction.
func CounterClockwiseOrthogonal(u mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-u[1], u[0]}
}

// Rotate turns u by angle radians.
func Rotate(u mgl64.Vec2, angle float64) mgl64.Vec2 {
	// mgl64 rotates counter-clockwise for positive angles
	return mgl64.Rotate2D(-angle).Mul2x1(u)
}

// ProjectedLength returns the signed length of u along onto.
func ProjectedLength(u, onto mgl64.Vec2) float64 {
	return u.Dot(onto) / onto.Len()
}

// Project returns the component of u parallel to onto.
func Project(u, onto mgl64.Vec2) mgl64.Vec2 {
	return onto.Mul(u.Dot(onto) / onto.LenSqr())
}

// SafeNormalize returns u scaled to unit length, or the zero vector and false when u has no
// usable direction.
func SafeNormalize(u mgl64.Vec2) (mgl64.Vec2, bool) {
	length := u.Len()
	if length < 1e-12 || !IsFinite(u) {
		return Zero, false
	}
	return u.Mul(1 / length), true
}

// IsFinite reports whether both components are neither NaN nor infinite.
func IsFinite(u mgl64.Vec2) bool {
	return !math.IsNaN(u[0]) && !math.IsNaN(u[1]) && !math.IsInf(u[0], 0) && !math.IsInf(u[1], 0)
}

// Lerp interpolates between u (t=0) and v (t=1).
func Lerp(u, v mgl64.Vec2, t float64) mgl64.Vec2 {
	return u.Add(v.Sub(u).Mul(t))
}

// ApproxEqual compares u and v component-wise within epsilon.
func ApproxEqual(u, v mgl64.Vec2, epsilon float64) bool {
	return math.Abs(u[0]-v[0]) <= epsilon && math.Abs(u[1]-v[1]) <= epsilon
}
