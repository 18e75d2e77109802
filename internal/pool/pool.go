// Package pool provides a reuse registry for simulation entities.
package pool

import "errors"

// ErrNotOwned is returned when releasing an instance the pool never handed out.
var ErrNotOwned = errors.New("pool: instance not owned by this pool")

// Pool hands out and reclaims instances of T.
// It grows on demand and never shrinks. Not safe for concurrent use;
// the simulation runs on a single goroutine.
type Pool[T any] struct {
	newFn  func() *T
	free   []*T        // LIFO free list
	owned  map[*T]bool // every instance ever created -> active flag
	active int
}

// New creates a pool that constructs instances with newFn and warms up
// prealloc inactive instances.
func New[T any](newFn func() *T, prealloc int) *Pool[T] {
	if newFn == nil {
		newFn = func() *T { return new(T) }
	}
	if prealloc < 0 {
		prealloc = 0
	}
	p := &Pool[T]{
		newFn: newFn,
		free:  make([]*T, 0, prealloc),
		owned: make(map[*T]bool, prealloc),
	}
	for i := 0; i < prealloc; i++ {
		v := newFn()
		p.owned[v] = false
		p.free = append(p.free, v)
	}
	return p
}

// Acquire returns an inactive instance and marks it active.
// A freed instance is reused if one exists, otherwise a new one is built.
func (p *Pool[T]) Acquire() *T {
	var v *T
	if n := len(p.free); n > 0 {
		v = p.free[n-1]
		p.free[n-1] = nil
		p.free = p.free[:n-1]
	} else {
		v = p.newFn()
	}
	p.owned[v] = true
	p.active++
	return v
}

// Release marks v inactive and puts it back on the free list.
// Releasing an owned instance that is already inactive is a no-op.
func (p *Pool[T]) Release(v *T) error {
	if v == nil {
		return ErrNotOwned
	}
	active, ok := p.owned[v]
	if !ok {
		return ErrNotOwned
	}
	if !active {
		return nil
	}
	p.owned[v] = false
	p.active--
	p.free = append(p.free, v)
	return nil
}

// IsActive reports whether v is currently handed out by this pool.
func (p *Pool[T]) IsActive(v *T) bool {
	return p.owned[v]
}

// Active returns the number of instances currently handed out.
func (p *Pool[T]) Active() int {
	return p.active
}

// Free returns the number of instances waiting on the free list.
func (p *Pool[T]) Free() int {
	return len(p.free)
}

// Allocated returns the total number of instances ever created.
func (p *Pool[T]) Allocated() int {
	return len(p.owned)
}
