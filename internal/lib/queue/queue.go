package queue

import (
	"sync"
)

type (
	// Queue is a FIFO safe for concurrent use. A bounded queue drops its
	// oldest element when a new one does not fit.
	Queue[T any] struct {
		mu      sync.Mutex
		head    *node[T]
		tail    *node[T]
		len     int
		limit   int
		dropped uint64
	}

	node[T any] struct {
		value T
		next  *node[T]
	}
)

// NewQueue returns a queue holding at most limit elements; limit <= 0 means unbounded.
func NewQueue[T any](limit int) *Queue[T] {
	return &Queue[T]{limit: limit}
}

func (q *Queue[T]) Enqueue(value T) {
	n := &node[T]{value: value}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.limit > 0 && q.len == q.limit {
		q.popLocked()
		q.dropped++
	}

	if q.head == nil {
		q.head = n
		q.tail = n
	} else {
		q.tail.next = n
		q.tail = n
	}
	q.len++
}

func (q *Queue[T]) Dequeue() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head == nil {
		var zero T
		return zero, false
	}
	return q.popLocked(), true
}

// Drain removes and returns every queued element in FIFO order.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	values := make([]T, 0, q.len)
	for q.head != nil {
		values = append(values, q.popLocked())
	}
	return values
}

func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.len
}

// Dropped returns how many elements were discarded to respect the limit.
func (q *Queue[T]) Dropped() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

func (q *Queue[T]) popLocked() T {
	n := q.head
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	q.len--
	return n.value
}
