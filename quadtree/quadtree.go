// Package quadtree implements the broad phase: a region quadtree rebuilt from scratch every step.
//
// Only leaves hold items. A node starts as a leaf and splits into four quadrants once it holds
// more items than its capacity, unless the depth limit is reached. An item is stored in every
// leaf its bounds intersect, so an item straddling a split appears in several leaves.
//
// Queries only filter on node bounds: callers must check the item bounds themselves.
package quadtree

import (
	"errors"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

var (
	ErrInvalidDepthLimit = errors.New("quadtree: depth limit must be at least 1")
	ErrInvalidCapacity   = errors.New("quadtree: capacity must not be negative")
)

// Position indexes the children of a node
type Position int

const (
	TopLeft Position = iota
	TopRight
	BottomRight
	BottomLeft
)

// Item is a value stored with its bounds
type Item[T any] struct {
	Bounds r2.Rect
	Data   T
}

// QuadTree is a node of the tree. Invariant: items and children are never both non-empty,
// and children is either nil or holds exactly four nodes.
type QuadTree[T any] struct {
	bounds   r2.Rect
	children []*QuadTree[T]
	items    []Item[T]

	capacity int
	// number of levels this node and its descendants may span
	depthLimit int

	count int
}

// New creates an empty tree covering bounds. A node splits when it holds more than capacity
// items; depthLimit counts the levels of the tree, 1 meaning the root never splits.
func New[T any](bounds r2.Rect, capacity, depthLimit int) (*QuadTree[T], error) {
	if depthLimit < 1 {
		return nil, ErrInvalidDepthLimit
	}
	if capacity < 0 {
		return nil, ErrInvalidCapacity
	}
	return newNode[T](bounds, capacity, depthLimit), nil
}

func newNode[T any](bounds r2.Rect, capacity, depthLimit int) *QuadTree[T] {
	return &QuadTree[T]{
		bounds:     bounds,
		capacity:   capacity,
		depthLimit: depthLimit,
	}
}

// Bounds returns the region covered by the node
func (q *QuadTree[T]) Bounds() r2.Rect {
	return q.bounds
}

// Len returns the number of items inserted in the tree, each counted once
func (q *QuadTree[T]) Len() int {
	return q.count
}

// Insert adds an item to every leaf its bounds intersect.
// Parts of the item outside the tree bounds are not indexed.
func (q *QuadTree[T]) Insert(item Item[T]) {
	q.count++
	q.insert(item)
}

func (q *QuadTree[T]) insert(item Item[T]) {
	q.items = append(q.items, item)

	if q.depthLimit <= 1 {
		return
	}
	// items must only be placed in leaf nodes
	if len(q.items) <= q.capacity && q.children == nil {
		return
	}

	if q.children == nil {
		q.split()
	}

	for _, it := range q.items {
		for _, child := range q.children {
			if it.Bounds.Intersects(child.bounds) {
				child.insert(it)
			}
		}
	}
	q.items = nil
}

// split shares the exact split coordinates between siblings and the parent edges with the outer
// children, so every point of the parent lies in at least one child.
func (q *QuadTree[T]) split() {
	x, y := q.bounds.X, q.bounds.Y
	center := q.bounds.Center()

	left := r1.Interval{Lo: x.Lo, Hi: center.X}
	right := r1.Interval{Lo: center.X, Hi: x.Hi}
	top := r1.Interval{Lo: y.Lo, Hi: center.Y}
	bottom := r1.Interval{Lo: center.Y, Hi: y.Hi}

	q.children = make([]*QuadTree[T], 4)
	q.children[TopLeft] = newNode[T](r2.Rect{X: left, Y: top}, q.capacity, q.depthLimit-1)
	q.children[TopRight] = newNode[T](r2.Rect{X: right, Y: top}, q.capacity, q.depthLimit-1)
	q.children[BottomRight] = newNode[T](r2.Rect{X: right, Y: bottom}, q.capacity, q.depthLimit-1)
	q.children[BottomLeft] = newNode[T](r2.Rect{X: left, Y: bottom}, q.capacity, q.depthLimit-1)
}

// ItemsInBox gathers the items of every leaf whose bounds intersect box.
// An item stored in several of those leaves is returned several times.
func (q *QuadTree[T]) ItemsInBox(box r2.Rect) []Item[T] {
	var found []Item[T]
	q.itemsInBox(box, &found)
	return found
}

func (q *QuadTree[T]) itemsInBox(box r2.Rect, found *[]Item[T]) {
	*found = append(*found, q.items...)

	for _, child := range q.children {
		if box.Intersects(child.bounds) {
			child.itemsInBox(box, found)
		}
	}
}

// ForEachPartition calls fn once with the items of each non-empty leaf.
// fn must not keep nor modify the slice.
func (q *QuadTree[T]) ForEachPartition(fn func(items []Item[T])) {
	if len(q.items) > 0 {
		fn(q.items)
	}

	for _, child := range q.children {
		child.ForEachPartition(fn)
	}
}

// AllBounds returns the bounds of every node, root first, for debug drawing
func (q *QuadTree[T]) AllBounds() []r2.Rect {
	bounds := []r2.Rect{q.bounds}
	for _, child := range q.children {
		bounds = append(bounds, child.AllBounds()...)
	}
	return bounds
}

// Child returns the child at position p, or nil for a leaf
func (q *QuadTree[T]) Child(p Position) *QuadTree[T] {
	if q.children == nil {
		return nil
	}
	return q.children[p]
}

// Items returns the items held by the node itself. Only leaves hold items.
func (q *QuadTree[T]) Items() []Item[T] {
	return q.items
}
