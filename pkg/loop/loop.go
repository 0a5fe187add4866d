// Package loop provides the single logical thread all shell state
// transitions run on.
//
// Work from other goroutines (surface callbacks, finished generations) is
// queued with Post and executed in FIFO order by whichever goroutine owns
// the loop, either through Run or by calling Drain from its own event loop.
// The queue is unbounded so posting never blocks, including from a task
// that is itself running on the loop.
package loop

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Call when the loop was closed before the task ran.
var ErrClosed = errors.New("loop closed")

// Scheduler queues work onto a single logical thread.
type Scheduler interface {
	Post(fn func())
}

// Loop is an unbounded FIFO task queue.
type Loop struct {
	mu     sync.Mutex
	tasks  []func()
	wake   chan struct{}
	closed bool
}

// New creates an empty loop.
func New() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post queues fn. Tasks posted after Close are dropped.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Ready is signaled whenever tasks may be pending. Front ends with their
// own event loop select on it and call Drain from that loop.
func (l *Loop) Ready() <-chan struct{} {
	return l.wake
}

// Drain runs queued tasks until the queue is empty, including tasks posted
// while draining. It returns the number of tasks run.
func (l *Loop) Drain() int {
	n := 0
	for {
		l.mu.Lock()
		if len(l.tasks) == 0 {
			l.mu.Unlock()
			return n
		}
		batch := l.tasks
		l.tasks = nil
		l.mu.Unlock()

		for _, fn := range batch {
			fn()
			n++
		}
	}
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks)
}

// Run drains the queue whenever work arrives until ctx is done or the loop
// is closed.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
			l.Drain()
			if l.isClosed() {
				return nil
			}
		}
	}
}

// Call posts fn and blocks until it has run. It must not be called from a
// task running on the loop.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return ErrClosed
	}

	l.Post(func() {
		defer close(done)
		fn()
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting tasks. Already queued tasks still run on the next
// Drain.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}
