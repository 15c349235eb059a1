// Package dispatch marshals work from background goroutines back onto the
// goroutine that owns UI state.
package dispatch

import "sync"

// Dispatcher runs fn on the UI goroutine at some later point
type Dispatcher interface {
	Post(fn func())
}

// Queue is a Dispatcher backed by a channel. The owner of UI state reads
// from C (or calls Drain) and runs each function it receives.
type Queue struct {
	ch        chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewQueue creates a queue that buffers up to size pending functions
func NewQueue(size int) *Queue {
	return &Queue{
		ch:   make(chan func(), size),
		done: make(chan struct{}),
	}
}

// Post enqueues fn. It blocks while the buffer is full and drops fn once
// the queue is closed.
func (q *Queue) Post(fn func()) {
	select {
	case <-q.done:
		return
	default:
	}
	select {
	case q.ch <- fn:
	case <-q.done:
	}
}

// C exposes the receive side of the queue
func (q *Queue) C() <-chan func() {
	return q.ch
}

// Done is closed when the queue is closed
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

// Drain runs every function currently queued without blocking and returns
// how many ran.
func (q *Queue) Drain() int {
	n := 0
	for {
		select {
		case fn := <-q.ch:
			fn()
			n++
		default:
			return n
		}
	}
}

// Close stops accepting new work. Pending functions are discarded.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.done) })
}

// Immediate runs functions on the caller's goroutine. Only safe when the
// caller already is the UI goroutine, e.g. in the CLI.
type Immediate struct{}

// Post runs fn right away
func (Immediate) Post(fn func()) { fn() }
