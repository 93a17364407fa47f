package feather2d

import (
	"errors"
	"math"
	"slices"

	"github.com/akmonengine/feather2d/actor"
	"github.com/akmonengine/feather2d/geom"
	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidCellSize = errors.New("spatial grid: cell size must be positive and finite")

// ============================================================================
// Types
// ============================================================================

// CellKey is the coordinate of a grid cell
type CellKey struct {
	X, Y int
}

// Cell holds the indices of the bodies overlapping it. Several cells may share a bucket.
type Cell struct {
	bodyIndices []int
}

// SpatialGrid is a uniform grid hashed into a fixed number of buckets, an alternative broad phase
// for scenes of bodies of similar size
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
}

// ============================================================================
// Constructor
// ============================================================================

// NewSpatialGrid creates a grid of square cells. numCells is rounded up to a power of two.
func NewSpatialGrid(cellSize float64, numCells int) (*SpatialGrid, error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return nil, ErrInvalidCellSize
	}
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}, nil
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	n++
	return n
}

func (sg *SpatialGrid) CellSize() float64 {
	return sg.cellSize
}

// Insert adds a body index to every cell its bounds overlap
func (sg *SpatialGrid) Insert(bodyIndex int, bounds geom.Box) {
	minCell := sg.worldToCell(bounds.Min)
	maxCell := sg.worldToCell(bounds.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			cellIdx := sg.hashCell(CellKey{x, y})
			bucket := &sg.cells[cellIdx]

			// a body spanning several cells hashed to the same bucket is stored once
			if n := len(bucket.bodyIndices); n > 0 && bucket.bodyIndices[n-1] == bodyIndex {
				continue
			}
			bucket.bodyIndices = append(bucket.bodyIndices, bodyIndex)
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].bodyIndices = sg.cells[i].bodyIndices[:0]
	}
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].bodyIndices) > 1 {
			slices.Sort(sg.cells[i].bodyIndices)
		}
	}
}

// FindPairs returns the pairs of bodies whose bounds overlap, each once with A < B.
// Pairs of static bodies are skipped. bounds[i] must be the world bounds of bodies[i], as inserted.
func (sg *SpatialGrid) FindPairs(bodies []actor.Body, bounds []geom.Box) []Pair {
	return sg.findPairs(bodies, bounds, 0, len(bodies))
}

// FindPairsParallel splits the bodies over workersCount goroutines.
// The result is the same as FindPairs, in the same order.
func (sg *SpatialGrid) FindPairsParallel(bodies []actor.Body, bounds []geom.Box, workersCount int) []Pair {
	workersCount = max(1, workersCount)
	chunkSize := (len(bodies) + workersCount - 1) / workersCount

	chunks := make([][]Pair, workersCount)
	task(workersCount, chunks, func(i int, _ []Pair) {
		start, end := i*chunkSize, min((i+1)*chunkSize, len(bodies))
		if start < end {
			chunks[i] = sg.findPairs(bodies, bounds, start, end)
		}
	})

	return slices.Concat(chunks...)
}

func (sg *SpatialGrid) findPairs(bodies []actor.Body, bounds []geom.Box, start, end int) []Pair {
	pairs := make([]Pair, 0, (end-start)/2)
	seen := make(map[int]struct{})

	for bodyIdx := start; bodyIdx < end; bodyIdx++ {
		clear(seen)
		staticA := bodies[bodyIdx].Attrs().IsStatic()
		var found []Pair

		minCell := sg.worldToCell(bounds[bodyIdx].Min)
		maxCell := sg.worldToCell(bounds[bodyIdx].Max)

		for x := minCell.X; x <= maxCell.X; x++ {
			for y := minCell.Y; y <= maxCell.Y; y++ {
				cellIdx := sg.hashCell(CellKey{x, y})

				for _, otherIdx := range sg.cells[cellIdx].bodyIndices {
					// deterministic order, avoids (A,B) and (B,A)
					if otherIdx <= bodyIdx {
						continue
					}
					if _, ok := seen[otherIdx]; ok {
						continue
					}
					seen[otherIdx] = struct{}{}

					if staticA && bodies[otherIdx].Attrs().IsStatic() {
						continue
					}
					if bounds[bodyIdx].Overlaps(bounds[otherIdx]) {
						found = append(found, Pair{A: bodyIdx, B: otherIdx})
					}
				}
			}
		}

		slices.SortFunc(found, comparePairs)
		pairs = append(pairs, found...)
	}

	return pairs
}

func (sg *SpatialGrid) worldToCell(pos mgl64.Vec2) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
	}
}

func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663)
	return h & sg.cellMask
}
