package actor

// cell lazily holds a value derived from an actor state.
// The value is stale as soon as the actor revision moves past the one it was computed at.
type cell[T any] struct {
	value    T
	revision uint64
	valid    bool
}

// get returns the cached value, recomputing it first if revision differs from the cached one
func (c *cell[T]) get(revision uint64, compute func() T) T {
	if !c.valid || c.revision != revision {
		c.value = compute()
		c.revision = revision
		c.valid = true
	}
	return c.value
}
