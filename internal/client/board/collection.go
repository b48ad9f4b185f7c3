// Package board holds the in-memory lists a view renders. Lists change only
// after the server confirms a mutation and are patched by id rather than
// re-fetched.
package board

import "sync"

// collection is a detachable, id-keyed list. Every mutator reports false
// once the collection is closed so callers can drop late responses.
type collection[T any] struct {
	mu     sync.RWMutex
	items  []T
	id     func(T) int64
	closed bool
}

func newCollection[T any](id func(T) int64) *collection[T] {
	return &collection[T]{id: id}
}

func (c *collection[T]) replace(items []T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.items = append([]T(nil), items...)
	return true
}

func (c *collection[T]) prepend(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	c.items = append([]T{item}, c.items...)
	return true
}

// patch swaps in item for the entry with the same id. Other entries are
// left untouched.
func (c *collection[T]) patch(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	id := c.id(item)
	for i := range c.items {
		if c.id(c.items[i]) == id {
			c.items[i] = item
			break
		}
	}
	return true
}

func (c *collection[T]) remove(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	for i := range c.items {
		if c.id(c.items[i]) == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			break
		}
	}
	return true
}

func (c *collection[T]) snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items...)
}

func (c *collection[T]) filter(keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}

func (c *collection[T]) close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}
