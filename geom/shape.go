// Package geom defines the convex shapes used for collision detection and their projection
// queries.
//
// Shapes are immutable values in a single coordinate space. Bodies own a local-space shape and
// derive a world-space copy from it whenever they move.
package geom

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrDegeneratePolygon = errors.New("geom: polygon needs at least 3 vertices and a non-zero area")
	ErrNegativeRadius    = errors.New("geom: circle radius must not be negative")
)

// Projection is the shadow of a shape on an axis.
//
//	       |`
//	      |    `
//	     |  shape `
//	    |           `
//	    o-------------`o
//	 MinPoint       MaxPoint
//	    :              :
//	----+--------------+--------> axis
//	   Min            Max
//
// MinPoint and MaxPoint are the points of the unprojected shape reaching the extremes of the span.
type Projection struct {
	Min      float64
	Max      float64
	MinPoint mgl64.Vec2
	MaxPoint mgl64.Vec2
}

// Shape is the interface that every collision shape implements
type Shape interface {
	Bounds() Box
	Centroid() mgl64.Vec2
	Contains(point mgl64.Vec2) bool
	// ProjectionAxes returns the candidate separating axes this shape contributes when tested
	// against other. Axes are unit length.
	ProjectionAxes(other Shape) []mgl64.Vec2
	// ProjectedOn projects the shape on a unit axis
	ProjectedOn(axis mgl64.Vec2) Projection
}
