// Package scene describes a world in YAML and builds it.
//
// A scene file looks like:
//
//	timestep: 0.03
//	world:
//	  gravity: [0, 9.81]
//	  broadPhase: quadtree
//	bodies:
//	  - shape: box
//	    width: 10
//	    height: 4
//	    center: [100, 50]
//	  - shape: circle
//	    radius: 3
//	    mass: 2
//	    static: true
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"

	"github.com/akmonengine/feather2d"
	"github.com/akmonengine/feather2d/actor"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTimestep = 0.03

	ShapeBox      = "box"
	ShapePolygon  = "polygon"
	ShapeCircle   = "circle"
	ShapeParticle = "particle"

	// WallMass is the mass of the walls of the default arena. Walls are static, so it only matters
	// to code reading it back.
	WallMass = 999999
)

var (
	ErrUnknownShape      = errors.New("unknown shape")
	ErrUnknownBroadPhase = errors.New("unknown broad phase")
	ErrInvalidTimestep   = errors.New("timestep must be positive")
	ErrInvalidSize       = errors.New("size must be positive")
	ErrMissingVertices   = errors.New("polygon needs at least 3 vertices")
	ErrInvalidGrid       = errors.New("grid cell size must be positive")
)

// Vec2 is written as a [x, y] sequence
type Vec2 [2]float64

func (v Vec2) vec() mgl64.Vec2 {
	return mgl64.Vec2(v)
}

// IsZero lets omitempty skip the origin
func (v Vec2) IsZero() bool {
	return v == Vec2{}
}

// World holds the tuning of a feather2d.World. Zero values keep the world defaults.
type World struct {
	Gravity    Vec2   `yaml:"gravity,omitempty"`
	Substeps   int    `yaml:"substeps,omitempty"`
	Workers    int    `yaml:"workers,omitempty"`
	BroadPhase string `yaml:"broadPhase,omitempty"`
	Capacity   int    `yaml:"capacity,omitempty"`
	DepthLimit int    `yaml:"depthLimit,omitempty"`

	// grid broad phase only
	CellSize float64 `yaml:"cellSize,omitempty"`
	Cells    int     `yaml:"cells,omitempty"`
}

type Body struct {
	Shape string `yaml:"shape"`

	Width    float64 `yaml:"width,omitempty"`
	Height   float64 `yaml:"height,omitempty"`
	Radius   float64 `yaml:"radius,omitempty"`
	Vertices []Vec2  `yaml:"vertices,omitempty"`

	// defaults to 1
	Mass float64 `yaml:"mass,omitempty"`

	// ignored by polygons, placed by their vertices
	Center          Vec2    `yaml:"center,omitempty"`
	Orientation     float64 `yaml:"orientation,omitempty"`
	Velocity        Vec2    `yaml:"velocity,omitempty"`
	AngularVelocity float64 `yaml:"angularVelocity,omitempty"`

	Static  bool `yaml:"static,omitempty"`
	Trigger bool `yaml:"trigger,omitempty"`

	// defaults to actor.DefaultMaterial
	Restitution *float64 `yaml:"restitution,omitempty"`
	Friction    float64  `yaml:"friction,omitempty"`
}

type Scene struct {
	// seconds per update
	Timestep float64 `yaml:"timestep"`
	World    World   `yaml:"world"`
	Bodies   []Body  `yaml:"bodies"`
}

// Default returns the 800x600 arena: 400 random boxes enclosed by four walls
func Default() *Scene {
	return Arena(800, 600, 400, rand.New(rand.NewSource(1)))
}

// Arena returns count boxes of random sizes spread over a width x height area,
// enclosed by four heavy static walls
func Arena(width, height float64, count int, rng *rand.Rand) *Scene {
	s := &Scene{Timestep: DefaultTimestep}

	for range count {
		s.Bodies = append(s.Bodies, Body{
			Shape:  ShapeBox,
			Width:  rng.Float64()*16 + 4,
			Height: rng.Float64()*16 + 4,
			Mass:   1,
			Center: Vec2{rng.Float64() * width, rng.Float64() * height},
		})
	}

	for _, center := range []Vec2{
		{width / 2, -500},
		{width + 500, height / 2},
		{width / 2, height + 500},
		{-500, height / 2},
	} {
		s.Bodies = append(s.Bodies, Body{
			Shape:  ShapeBox,
			Width:  1000,
			Height: 1000,
			Mass:   WallMass,
			Center: center,
			Static: true,
		})
	}

	return s
}

// Load reads and validates a scene file
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a scene. Unknown fields are rejected.
func Parse(data []byte) (*Scene, error) {
	s := &Scene{Timestep: DefaultTimestep}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("scene: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Marshal encodes the scene in YAML
func (s *Scene) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}

// Save writes the scene to path
func (s *Scene) Save(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports every problem of the scene at once
func (s *Scene) Validate() error {
	var errs []error

	if !(s.Timestep > 0) {
		errs = append(errs, fmt.Errorf("scene: %w", ErrInvalidTimestep))
	}
	if _, err := broadPhase(s.World.BroadPhase); err != nil {
		errs = append(errs, fmt.Errorf("scene: world: %w", err))
	}
	if s.World.BroadPhase == feather2d.BroadPhaseGrid.String() && !(s.World.CellSize > 0) {
		errs = append(errs, fmt.Errorf("scene: world: %w", ErrInvalidGrid))
	}

	for i, body := range s.Bodies {
		if err := body.validate(); err != nil {
			errs = append(errs, fmt.Errorf("scene: body %d: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

func (b *Body) validate() error {
	switch b.Shape {
	case ShapeBox:
		if !(b.Width > 0) || !(b.Height > 0) {
			return fmt.Errorf("box %vx%v: %w", b.Width, b.Height, ErrInvalidSize)
		}
	case ShapeCircle:
		if !(b.Radius > 0) {
			return fmt.Errorf("circle radius %v: %w", b.Radius, ErrInvalidSize)
		}
	case ShapePolygon:
		if len(b.Vertices) < 3 {
			return ErrMissingVertices
		}
	case ShapeParticle:
	default:
		return fmt.Errorf("%w %q", ErrUnknownShape, b.Shape)
	}

	if b.Mass < 0 {
		return fmt.Errorf("mass %v: %w", b.Mass, actor.ErrInvalidMass)
	}
	return nil
}

func broadPhase(name string) (feather2d.BroadPhaseType, error) {
	switch name {
	case "", feather2d.BroadPhaseQuadTree.String():
		return feather2d.BroadPhaseQuadTree, nil
	case feather2d.BroadPhaseGrid.String():
		return feather2d.BroadPhaseGrid, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrUnknownBroadPhase, name)
	}
}

// Build creates the world described by the scene, bodies in order
func (s *Scene) Build() (*feather2d.World, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	w := feather2d.NewWorld()
	w.Gravity = s.World.Gravity.vec()
	w.BroadPhase, _ = broadPhase(s.World.BroadPhase)
	if s.World.Substeps > 0 {
		w.Substeps = s.World.Substeps
	}
	if s.World.Workers > 0 {
		w.Workers = s.World.Workers
	}
	if s.World.Capacity > 0 {
		w.Capacity = s.World.Capacity
	}
	if s.World.DepthLimit > 0 {
		w.DepthLimit = s.World.DepthLimit
	}
	if w.BroadPhase == feather2d.BroadPhaseGrid {
		grid, err := feather2d.NewSpatialGrid(s.World.CellSize, max(s.World.Cells, len(s.Bodies)))
		if err != nil {
			return nil, fmt.Errorf("scene: world: %w", err)
		}
		w.SpatialGrid = grid
	}

	for i := range s.Bodies {
		body, err := s.Bodies[i].Build()
		if err != nil {
			return nil, fmt.Errorf("scene: body %d: %w", i, err)
		}
		w.AddBody(body)
	}

	return w, nil
}

// Build creates the body
func (b *Body) Build() (actor.Body, error) {
	mass := b.Mass
	if mass == 0 {
		mass = 1
	}

	body, err := b.newBody(mass)
	if err != nil {
		return nil, err
	}

	// polygons are placed by their vertices
	if b.Shape != ShapePolygon {
		body.SetCenter(b.Center.vec())
	}
	body.SetOrientation(b.Orientation)
	body.SetVelocity(b.Velocity.vec())
	body.SetAngularVelocity(b.AngularVelocity)

	attrs := body.Attrs()
	if b.Static {
		attrs.BodyType = actor.BodyTypeStatic
	}
	attrs.IsTrigger = b.Trigger
	if b.Restitution != nil {
		attrs.Material.Restitution = *b.Restitution
	}
	attrs.Material.Friction = b.Friction

	return body, nil
}

func (b *Body) newBody(mass float64) (actor.Body, error) {
	switch b.Shape {
	case ShapeBox:
		return actor.NewBoxBody(b.Width, b.Height, mass)
	case ShapePolygon:
		vertices := make([]mgl64.Vec2, len(b.Vertices))
		for i, v := range b.Vertices {
			vertices[i] = v.vec()
		}
		return actor.NewConvexBody(vertices, mass)
	case ShapeCircle:
		return actor.NewCircleBody(b.Radius, mass)
	case ShapeParticle:
		return actor.NewParticleBody(mass)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownShape, b.Shape)
	}
}
