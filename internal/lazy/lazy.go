// Package lazy holds write-once memo cells for derived type data.
package lazy

import "sync"

// Value computes T once on first Get. A Get issued while the computation is
// still running (a derivation that loops back to itself) returns the zero
// value instead of recursing.
type Value[T any] struct {
	mu      sync.Mutex
	fn      func() T
	val     T
	done    bool
	running bool
}

// New returns a cell computed by fn.
func New[T any](fn func() T) *Value[T] {
	return &Value[T]{fn: fn}
}

// Get returns the memoized value, computing it first if needed.
func (v *Value[T]) Get() T {
	v.mu.Lock()
	if v.done || v.running {
		val := v.val
		v.mu.Unlock()
		return val
	}
	v.running = true
	fn := v.fn
	v.mu.Unlock()

	var out T
	if fn != nil {
		out = fn()
	}

	v.mu.Lock()
	v.val, v.done, v.running, v.fn = out, true, false, nil
	v.mu.Unlock()
	return out
}

// Done reports whether the value has been computed.
func (v *Value[T]) Done() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.done
}
