package feather2d

import (
	"cmp"
	"slices"

	"github.com/akmonengine/feather2d/actor"
	"github.com/akmonengine/feather2d/constraint"
	"github.com/akmonengine/feather2d/geom"
	"github.com/akmonengine/feather2d/profile"
	"github.com/akmonengine/feather2d/quadtree"
	"github.com/akmonengine/feather2d/sat"
)

// BroadPhaseType selects how candidate pairs are found
type BroadPhaseType uint8

const (
	// BroadPhaseQuadTree rebuilds a quadtree over the dynamic bodies every step; static bodies query it
	BroadPhaseQuadTree BroadPhaseType = iota
	// BroadPhaseGrid uses World.SpatialGrid
	BroadPhaseGrid
)

func (t BroadPhaseType) String() string {
	switch t {
	case BroadPhaseQuadTree:
		return "quadtree"
	case BroadPhaseGrid:
		return "grid"
	default:
		return "unknown"
	}
}

// Pair holds the indices of two bodies that potentially collide, A < B
type Pair struct {
	A, B int
}

func makePair(i, j int) Pair {
	if j < i {
		i, j = j, i
	}
	return Pair{A: i, B: j}
}

func comparePairs(p, q Pair) int {
	if c := cmp.Compare(p.A, q.A); c != 0 {
		return c
	}
	return cmp.Compare(p.B, q.B)
}

// WorldBounds computes the world bounds of every body. It also warms the world shape caches, so the
// shapes can be read concurrently until a body moves again.
func WorldBounds(bodies []actor.Body) []geom.Box {
	bounds := make([]geom.Box, len(bodies))
	for i, body := range bodies {
		body.WorldShape()
		bounds[i] = body.WorldBounds()
	}
	return bounds
}

// QuadTreePhase finds the pairs of bodies whose bounds overlap. The dynamic bodies are indexed in
// a quadtree covering their union; each static body queries it, and dynamic bodies are paired
// within every leaf. The tree is returned for diagnostics, nil when there is no dynamic body.
func QuadTreePhase(bodies []actor.Body, bounds []geom.Box, capacity, depthLimit int, profiler *profile.Profiler) (*quadtree.QuadTree[int], []Pair, error) {
	profiler.Begin("collision.treeGeneration")

	var root geom.Box
	dynamics := 0
	for i, body := range bodies {
		if body.Attrs().IsStatic() {
			continue
		}
		if dynamics == 0 {
			root = bounds[i]
		} else {
			root = root.Union(bounds[i])
		}
		dynamics++
	}
	if dynamics == 0 {
		profiler.End("collision.treeGeneration")
		return nil, nil, nil
	}

	tree, err := quadtree.New[int](root.Rect(), capacity, depthLimit)
	if err != nil {
		profiler.End("collision.treeGeneration")
		return nil, nil, err
	}
	for i, body := range bodies {
		if !body.Attrs().IsStatic() {
			tree.Insert(quadtree.Item[int]{Bounds: bounds[i].Rect(), Data: i})
		}
	}
	profiler.End("collision.treeGeneration")

	seen := make(map[Pair]struct{})
	var pairs []Pair
	add := func(i, j int) {
		if i == j || !bounds[i].Overlaps(bounds[j]) {
			return
		}
		pair := makePair(i, j)
		if _, ok := seen[pair]; ok {
			return
		}
		seen[pair] = struct{}{}
		pairs = append(pairs, pair)
	}

	profiler.Begin("collision.walls")
	for i, body := range bodies {
		if !body.Attrs().IsStatic() || !bounds[i].Rect().Intersects(tree.Bounds()) {
			continue
		}
		for _, item := range tree.ItemsInBox(bounds[i].Rect()) {
			add(i, item.Data)
		}
	}
	profiler.End("collision.walls")

	profiler.Begin("collision.things")
	tree.ForEachPartition(func(items []quadtree.Item[int]) {
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				add(items[i].Data, items[j].Data)
			}
		}
	})
	profiler.End("collision.things")

	slices.SortFunc(pairs, comparePairs)
	return tree, pairs, nil
}

// GridPhase finds the pairs of bodies whose bounds overlap with a spatial grid
func GridPhase(grid *SpatialGrid, bodies []actor.Body, bounds []geom.Box, workersCount int) []Pair {
	grid.Clear()
	for i := range bodies {
		grid.Insert(i, bounds[i])
	}
	grid.SortCells()

	return grid.FindPairsParallel(bodies, bounds, workersCount)
}

// NarrowPhase runs SAT on every pair over workersCount goroutines and returns the contacts found,
// in the order of the pairs. World shapes must be up to date (see WorldBounds).
func NarrowPhase(bodies []actor.Body, pairs []Pair, workersCount int) []*constraint.Contact {
	contacts := make([]*constraint.Contact, len(pairs))

	task(workersCount, pairs, func(i int, pair Pair) {
		bodyA, bodyB := bodies[pair.A], bodies[pair.B]

		intersection, ok := sat.Intersect(bodyA.WorldShape(), bodyB.WorldShape())
		if ok {
			contacts[i] = constraint.NewContact(bodyA, bodyB, intersection)
		}
	})

	return slices.DeleteFunc(contacts, func(c *constraint.Contact) bool {
		return c == nil
	})
}
