// Package dispatch implements a serial execution queue backing the single-threaded owner context.
//
// Work submitted from any goroutine runs in submission order on one dedicated goroutine.
// Submission never blocks and is never acknowledged; the queue grows without bound if the
// consumer falls behind.
package dispatch

import "sync"

// Queue executes submitted functions sequentially on a single goroutine.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	jobs   []func()
	closed bool
	done   chan struct{}
}

// New creates a queue and starts its worker goroutine.
func New() *Queue {
	q := &Queue{done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

// Dispatch enqueues fn for execution. It never blocks.
// Functions submitted after Close are silently dropped.
func (q *Queue) Dispatch(fn func()) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.jobs = append(q.jobs, fn)
	q.cond.Signal()
}

// Close stops the queue. Work already dequeued finishes; everything still
// pending is dropped. Close blocks until the worker goroutine has exited
// and is safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.closed = true
	q.jobs = nil
	q.cond.Signal()
	q.mu.Unlock()

	<-q.done
}

func (q *Queue) run() {
	defer close(q.done)

	for {
		q.mu.Lock()
		for len(q.jobs) == 0 && !q.closed {
			q.cond.Wait()
		}
		if q.closed {
			q.mu.Unlock()
			return
		}
		fn := q.jobs[0]
		q.jobs = q.jobs[1:]
		q.mu.Unlock()

		fn()
	}
}
