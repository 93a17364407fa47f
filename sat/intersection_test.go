package sat

import (
	"math"
	"testing"

	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/vec2"
	"github.com/davecgh/go-spew/spew"
	"github.com/go-gl/mathgl/mgl64"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func square(t *testing.T, center mgl64.Vec2, side float64) *geom.Polygon {
	t.Helper()
	p, err := geom.NewPolygon(geom.Rectangle(side, side))
	if err != nil {
		t.Fatalf("NewPolygon: %v", err)
	}
	return p.Translated(center)
}

func circle(t *testing.T, center mgl64.Vec2, radius float64) *geom.Circle {
	t.Helper()
	c, err := geom.NewCircle(center, radius)
	if err != nil {
		t.Fatalf("NewCircle: %v", err)
	}
	return c
}

// =============================================================================
// Intersect Tests
// =============================================================================

func TestIntersect_KnownSquares(t *testing.T) {
	a := square(t, mgl64.Vec2{0, 0}, 2)
	b := square(t, mgl64.Vec2{1, 0}, 2)

	in, ok := Intersect(a, b)
	if !ok {
		t.Fatal("overlapping squares should intersect")
	}

	if !almostEqual(in.Depth, 1, 1e-12) {
		t.Errorf("depth = %v, want 1\n%s", in.Depth, spew.Sdump(in))
	}
	if !vec2.ApproxEqual(in.Normal(), mgl64.Vec2{-1, 0}, 1e-12) {
		t.Errorf("normal = %v, want [-1 0] (moves a away from b)\n%s", in.Normal(), spew.Sdump(in))
	}
	if !almostEqual(in.Axis().Len(), in.Depth, 1e-12) {
		t.Errorf("axis length %v should equal depth %v", in.Axis().Len(), in.Depth)
	}
}

func TestIntersect_ResolvesOverlap(t *testing.T) {
	tests := []struct {
		name string
		a    geom.Shape
		b    geom.Shape
	}{
		{"squares offset diagonally", square(t, mgl64.Vec2{0, 0}, 2), square(t, mgl64.Vec2{1.5, 0.5}, 2)},
		{"circles", circle(t, mgl64.Vec2{0, 0}, 1), circle(t, mgl64.Vec2{1.5, 0.2}, 1)},
		{"circle and square", circle(t, mgl64.Vec2{0, 0}, 1), square(t, mgl64.Vec2{1.5, 0}, 2)},
		{"square and circle", square(t, mgl64.Vec2{0, 3}, 2), circle(t, mgl64.Vec2{0, 1.2}, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, ok := Intersect(tt.a, tt.b)
			if !ok {
				t.Fatal("shapes should intersect")
			}

			// the separation direction must point from b toward a
			towardA := tt.a.Centroid().Sub(tt.b.Centroid())
			if in.Normal().Dot(towardA) <= 0 {
				t.Errorf("normal %v points into b\n%s", in.Normal(), spew.Sdump(in))
			}
		})
	}
}

func TestIntersect_Symmetry(t *testing.T) {
	tests := []struct {
		name string
		a    geom.Shape
		b    geom.Shape
	}{
		{"squares", square(t, mgl64.Vec2{0, 0}, 2), square(t, mgl64.Vec2{1.5, 0.5}, 2)},
		{"square and rotated square", square(t, mgl64.Vec2{0, 0}, 2),
			square(t, mgl64.Vec2{0, 0}, 2).Transformed(func(v mgl64.Vec2) mgl64.Vec2 {
				return vec2.Rotate(v, math.Pi/4).Add(mgl64.Vec2{2, 0.3})
			})},
		{"circles", circle(t, mgl64.Vec2{0, 0}, 1), circle(t, mgl64.Vec2{1, 1}, 1)},
		{"circle and square", circle(t, mgl64.Vec2{-1, 0}, 1), square(t, mgl64.Vec2{0.5, 0.2}, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ab, okAB := Intersect(tt.a, tt.b)
			ba, okBA := Intersect(tt.b, tt.a)
			if !okAB || !okBA {
				t.Fatalf("both orders should intersect: %v %v", okAB, okBA)
			}

			if !almostEqual(ab.Depth, ba.Depth, 1e-9) {
				t.Errorf("depth %v != %v\n%s%s", ab.Depth, ba.Depth, spew.Sdump(ab), spew.Sdump(ba))
			}
			if !vec2.ApproxEqual(ab.Normal(), ba.Normal().Mul(-1), 1e-9) {
				t.Errorf("normals %v and %v should be opposite", ab.Normal(), ba.Normal())
			}
		})
	}
}

func TestIntersect_MirroredPositions(t *testing.T) {
	// a single shallowest axis, found by both passes of each order
	a := circle(t, mgl64.Vec2{0, 0}, 1)
	b := circle(t, mgl64.Vec2{1.5, 0}, 1)

	ab, _ := Intersect(a, b)
	ba, _ := Intersect(b, a)

	// touching points after separation must coincide whatever the order
	if !vec2.ApproxEqual(ab.Positions[1].Add(ab.Axis().Mul(0.5)), ba.Positions[1].Add(ba.Axis().Mul(0.5)), 1e-9) {
		t.Errorf("contact points differ\n%s%s", spew.Sdump(ab), spew.Sdump(ba))
	}
}

func TestIntersect_NoContact(t *testing.T) {
	tests := []struct {
		name string
		a    geom.Shape
		b    geom.Shape
	}{
		{"separated squares", square(t, mgl64.Vec2{0, 0}, 2), square(t, mgl64.Vec2{3, 0}, 2)},
		{"touching squares", square(t, mgl64.Vec2{0, 0}, 2), square(t, mgl64.Vec2{2, 0}, 2)},
		{"trivial overlap", square(t, mgl64.Vec2{0, 0}, 2), square(t, mgl64.Vec2{1.9995, 0}, 2)},
		{"bounds overlap only", square(t, mgl64.Vec2{0, 0}, 2),
			square(t, mgl64.Vec2{0, 0}, 2).Transformed(func(v mgl64.Vec2) mgl64.Vec2 {
				return vec2.Rotate(v, math.Pi/4).Add(mgl64.Vec2{2.3, 2.3})
			})},
		{"separated circles", circle(t, mgl64.Vec2{0, 0}, 1), circle(t, mgl64.Vec2{0, 2.5}, 1)},
		{"concentric circles", circle(t, mgl64.Vec2{1, 1}, 1), circle(t, mgl64.Vec2{1, 1}, 2)},
		{"two points", geom.NewPoint(mgl64.Vec2{1, 1}), geom.NewPoint(mgl64.Vec2{1, 1})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if in, ok := Intersect(tt.a, tt.b); ok {
				t.Errorf("expected no contact, got\n%s", spew.Sdump(in))
			}
		})
	}
}

func TestIntersect_TrivialThreshold(t *testing.T) {
	a := square(t, mgl64.Vec2{0, 0}, 2)
	b := square(t, mgl64.Vec2{1.998, 0}, 2)

	in, ok := Intersect(a, b)
	if !ok {
		t.Fatal("an overlap of 0.002 should be reported")
	}
	if !almostEqual(in.Depth, 0.002, 1e-9) {
		t.Errorf("depth = %v, want 0.002", in.Depth)
	}
}

func TestIntersect_PointInPolygon(t *testing.T) {
	point := geom.NewPoint(mgl64.Vec2{0.9, 0})
	box := square(t, mgl64.Vec2{0, 0}, 2)

	in, ok := Intersect(point, box)
	if !ok {
		t.Fatal("a point inside a polygon should intersect")
	}
	if !almostEqual(in.Depth, 0.1, 1e-9) {
		t.Errorf("depth = %v, want 0.1", in.Depth)
	}
	if !vec2.ApproxEqual(in.Normal(), mgl64.Vec2{1, 0}, 1e-9) {
		t.Errorf("normal = %v, want [1 0]", in.Normal())
	}
}

// =============================================================================
// Intersection Tests
// =============================================================================

func TestIntersection_Frame(t *testing.T) {
	in := Intersection{
		Positions: [2]mgl64.Vec2{{0, 3}, {0, 1}},
		Depth:     2,
	}

	if in.Axis() != (mgl64.Vec2{0, 2}) {
		t.Errorf("Axis() = %v", in.Axis())
	}
	if in.Normal() != (mgl64.Vec2{0, 1}) {
		t.Errorf("Normal() = %v", in.Normal())
	}
	if in.Tangent() != (mgl64.Vec2{1, 0}) {
		t.Errorf("Tangent() = %v", in.Tangent())
	}

	u := mgl64.Vec2{3, -4}
	local := in.ToLocalSpace(u)
	if local != (mgl64.Vec2{3, -4}) {
		t.Errorf("ToLocalSpace(%v) = %v", u, local)
	}
	if back := in.FromLocalSpace(local); !vec2.ApproxEqual(back, u, 1e-12) {
		t.Errorf("FromLocalSpace(ToLocalSpace(u)) = %v", back)
	}

	reversed := in.Reverse()
	if reversed.Axis() != in.Axis().Mul(-1) || reversed.Depth != in.Depth {
		t.Errorf("Reverse() = %+v", reversed)
	}
}

func TestIntersection_FrameRoundTripOblique(t *testing.T) {
	in := Intersection{Positions: [2]mgl64.Vec2{{1, 2}, {-0.5, 0.3}}, Depth: 1}

	for _, u := range []mgl64.Vec2{{1, 0}, {0, 1}, {-2.5, 7}} {
		if back := in.FromLocalSpace(in.ToLocalSpace(u)); !vec2.ApproxEqual(back, u, 1e-12) {
			t.Errorf("round trip of %v gave %v", u, back)
		}
	}
}

func TestIntersection_IsTrivial(t *testing.T) {
	if !(Intersection{Depth: 0.0009}).IsTrivial() {
		t.Error("depth under the threshold should be trivial")
	}
	if (Intersection{Depth: TrivialDepth}).IsTrivial() {
		t.Error("depth at the threshold is not trivial")
	}
}
