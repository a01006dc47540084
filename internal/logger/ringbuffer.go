package logger

import "sync"

// RingBuffer is a fixed-capacity circular buffer safe for concurrent use.
// Once full, each Push overwrites the oldest entry.
type RingBuffer[T any] struct {
	mu    sync.RWMutex
	items []T
	next  int
	count int
}

// NewRingBuffer creates a new ring buffer with the specified capacity.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &RingBuffer[T]{items: make([]T, capacity)}
}

// Push adds an item, evicting the oldest when full.
func (r *RingBuffer[T]) Push(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[r.next] = item
	r.next = (r.next + 1) % len(r.items)
	if r.count < len(r.items) {
		r.count++
	}
}

// Last returns up to n items, oldest first. n <= 0 returns everything.
func (r *RingBuffer[T]) Last(n int) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if n <= 0 || n > r.count {
		n = r.count
	}
	out := make([]T, n)
	start := (r.next - n + len(r.items)) % len(r.items)
	for i := 0; i < n; i++ {
		out[i] = r.items[(start+i)%len(r.items)]
	}
	return out
}

// Len returns the current number of items in the buffer.
func (r *RingBuffer[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}
