// Package feather2d steps a world of 2D rigid bodies: Verlet integration, quadtree or grid
// broad phase, SAT narrow phase and impulse resolution.
package feather2d

import (
	"log/slog"

	"github.com/akmonengine/feather2d/actor"
	"github.com/akmonengine/feather2d/constraint"
	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/profile"
	"github.com/akmonengine/feather2d/quadtree"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DEFAULT_WORKERS     = 1
	DEFAULT_SUBSTEPS    = 1
	DEFAULT_CAPACITY    = 5
	DEFAULT_DEPTH_LIMIT = 8
)

type World struct {
	// List of all bodies in the world
	Bodies []actor.Body
	// Gravity acceleration, applied to dynamic bodies only
	Gravity  mgl64.Vec2
	Substeps int

	BroadPhase BroadPhaseType
	// quadtree node capacity and depth limit
	Capacity   int
	DepthLimit int
	// used when BroadPhase is BroadPhaseGrid
	SpatialGrid *SpatialGrid

	Workers int
	Drag    *Drag

	Events   Events
	Profiler *profile.Profiler
	Logger   *slog.Logger

	tree *quadtree.QuadTree[int]
}

// NewWorld returns an empty world without gravity, using the quadtree broad phase
func NewWorld() *World {
	return &World{
		Substeps:   DEFAULT_SUBSTEPS,
		BroadPhase: BroadPhaseQuadTree,
		Capacity:   DEFAULT_CAPACITY,
		DepthLimit: DEFAULT_DEPTH_LIMIT,
		Workers:    DEFAULT_WORKERS,
		Events:     NewEvents(),
	}
}

// AddBody adds a body to the world
func (w *World) AddBody(body actor.Body) {
	w.Bodies = append(w.Bodies, body)
}

// RemoveBody removes a body from the world. Its pending events are dropped.
func (w *World) RemoveBody(body actor.Body) {
	k := -1
	for i, b := range w.Bodies {
		if b == body {
			k = i
			break
		}
	}

	if k != -1 {
		w.Bodies = append(w.Bodies[:k], w.Bodies[k+1:]...)
	}

	w.Events.forget(body)
	if w.Drag != nil && w.Drag.Body == body {
		w.Drag = nil
	}
}

// BodyAt returns the last added dynamic body containing point, or nil
func (w *World) BodyAt(point mgl64.Vec2) actor.Body {
	for i := len(w.Bodies) - 1; i >= 0; i-- {
		body := w.Bodies[i]
		if !body.Attrs().IsStatic() && body.Contains(point) {
			return body
		}
	}
	return nil
}

// QuadTree returns the tree built by the last step, nil if none was
func (w *World) QuadTree() *quadtree.QuadTree[int] {
	return w.tree
}

// Energy returns the kinetic energy of the dynamic bodies
func (w *World) Energy() float64 {
	energy := 0.0
	for _, body := range w.Bodies {
		if !body.Attrs().IsStatic() {
			energy += body.Energy()
		}
	}
	return energy
}

func (w *World) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}

// Step advances the world by dt, split in Substeps
func (w *World) Step(dt float64) {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	w.Substeps = max(DEFAULT_SUBSTEPS, w.Substeps)
	h := dt / float64(w.Substeps)

	contactsCount := 0
	for range w.Substeps {
		// Phase 1: forces and integration
		w.integrate(h)

		// Phase 2: broad phase then narrow phase
		pairs := w.broadPhase()

		w.Profiler.Begin("collision.narrowPhase")
		contacts := NarrowPhase(w.Bodies, pairs, w.Workers)
		w.Profiler.End("collision.narrowPhase")

		contacts = w.Events.recordCollisions(contacts)
		contactsCount += len(contacts)

		// Phase 3: resolution, sequential as each contact moves its bodies
		w.solve(contacts)
	}

	w.Events.flush()

	w.logger().Debug("world step",
		slog.Float64("dt", dt),
		slog.Int("bodies", len(w.Bodies)),
		slog.Int("contacts", contactsCount))
}

func (w *World) integrate(h float64) {
	w.Profiler.Begin("simulation.integration")
	defer w.Profiler.End("simulation.integration")

	task(w.Workers, w.Bodies, func(_ int, body actor.Body) {
		if body.Attrs().IsStatic() {
			body.ClearForces()
			return
		}
		body.ApplyForce(body.Center(), w.Gravity.Mul(body.Mass()))
		body.Advance(h)
	})

	if w.Drag != nil {
		w.Profiler.Begin("simulation.dragging")
		w.Drag.Apply()
		w.Profiler.End("simulation.dragging")
	}
}

func (w *World) broadPhase() []Pair {
	w.Profiler.Begin("collision.boundsCalculation")
	bounds := WorldBounds(w.Bodies)
	w.Profiler.End("collision.boundsCalculation")

	if w.BroadPhase == BroadPhaseGrid {
		if w.SpatialGrid != nil {
			w.tree = nil
			w.Profiler.Begin("collision.grid")
			defer w.Profiler.End("collision.grid")
			return GridPhase(w.SpatialGrid, w.Bodies, bounds, w.Workers)
		}
		w.logger().Warn("grid broad phase without a spatial grid, using the quadtree")
	}

	tree, pairs, err := QuadTreePhase(w.Bodies, bounds, max(0, w.Capacity), max(1, w.DepthLimit), w.Profiler)
	if err != nil {
		w.logger().Error("quadtree broad phase", slog.Any("error", err))
		return nil
	}
	w.tree = tree
	return pairs
}

func (w *World) solve(contacts []*constraint.Contact) {
	w.Profiler.Begin("collision.resolution")
	defer w.Profiler.End("collision.resolution")

	for _, contact := range contacts {
		// an earlier contact may have separated these bodies already
		if !contact.Refresh() {
			continue
		}
		if !contact.Resolve() {
			w.logger().Warn("skipping degenerate contact",
				slog.Float64("depth", contact.Intersection.Depth),
				slog.Any("positions", contact.Intersection.Positions))
		}
	}
}

// Bounds returns the union of the bounds of every body, false for an empty world
func (w *World) Bounds() (geom.Box, bool) {
	if len(w.Bodies) == 0 {
		return geom.Box{}, false
	}
	box := w.Bodies[0].WorldBounds()
	for _, body := range w.Bodies[1:] {
		box = box.Union(body.WorldBounds())
	}
	return box, true
}
