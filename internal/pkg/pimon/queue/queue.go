// Package queue provides the unbounded blocking FIFO that connects
// producer and consumer goroutines in the monitor workload.
package queue

import (
	"sync"
)

// Queue is a FIFO of T safe for any number of concurrent producers and
// consumers. Push never blocks, the queue grows without bound. Pop blocks
// while the queue is empty. The zero value is not usable, create instances
// with New.
type Queue[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	elems    []T
}

// New returns an empty queue ready for concurrent use
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// IsEmpty reports whether the queue holds no element. Under concurrent
// pushes and pops the answer is stale by the time the caller sees it, so
// it is only good for diagnostics, never for deciding whether Pop would
// block.
func (q *Queue[T]) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.elems) == 0
}

// Size returns the number of pending elements, with the same staleness
// caveat as IsEmpty.
func (q *Queue[T]) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.elems)
}

// Push appends v at the tail and wakes one blocked Pop if there is any.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.elems = append(q.elems, v)
	q.notEmpty.Signal()
	q.mu.Unlock()
}

// Pop removes and returns the head element, blocking while the queue is
// empty. The emptiness check runs in a loop: a woken goroutine may find
// that a competing consumer already took the element, or the wakeup may be
// spurious, and in both cases it must wait again. There is no timeout and
// no close signal, so callers must arrange matching Push and Pop counts or
// a Pop can block forever.
func (q *Queue[T]) Pop() T {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.elems) == 0 {
		q.notEmpty.Wait()
	}
	v := q.elems[0]
	var zero T
	q.elems[0] = zero // the queue keeps no reference to a popped element
	q.elems = q.elems[1:]
	return v
}
