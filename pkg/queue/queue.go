package queue

import "sync"

// Queue là unbounded, concurrency-safe FIFO dùng cho write-behind ingestion.
// Producers (request handlers) push without blocking; the flusher drains
// everything available in one call. Items pushed during a drain are picked
// up by the next drain.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// New tạo queue instance
func New[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends an item in arrival order. Never blocks, never fails.
func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	q.items = append(q.items, item)
	q.mu.Unlock()
}

// DrainAll atomically removes and returns everything currently queued,
// preserving arrival order. Returns nil when the queue is empty.
func (q *Queue[T]) DrainAll() []T {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return items
}

// Len returns the current queue size. The value is only advisory: a
// concurrent Push can change it before the caller acts on it.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	n := len(q.items)
	q.mu.Unlock()
	return n
}
