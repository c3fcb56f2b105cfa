package concurrency

import "sync"

// MemoryPool recycles fixed-size objects of type T behind a single
// lock over its free-list, callable from any goroutine. Acquire
// allocates via newFn when the free-list is empty.
type MemoryPool[T any] struct {
	mu      sync.Mutex
	free    []*T
	newFn   func() *T
	resetFn func(*T)
}

// NewMemoryPool builds a pool that allocates via newFn and, on
// Release, clears a returned object via resetFn before making it
// available for reuse. resetFn may be nil if no clearing is needed.
func NewMemoryPool[T any](newFn func() *T, resetFn func(*T)) *MemoryPool[T] {
	return &MemoryPool[T]{newFn: newFn, resetFn: resetFn}
}

// Acquire returns a recycled object or, if the free-list is empty, a
// freshly allocated one.
func (p *MemoryPool[T]) Acquire() *T {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.free)
	if n == 0 {
		return p.newFn()
	}
	obj := p.free[n-1]
	p.free = p.free[:n-1]
	return obj
}

// Release resets obj (if a resetFn was configured) and returns it to
// the free-list for later reuse.
func (p *MemoryPool[T]) Release(obj *T) {
	if p.resetFn != nil {
		p.resetFn(obj)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.free = append(p.free, obj)
}

// Len reports how many objects currently sit in the free-list.
func (p *MemoryPool[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}
