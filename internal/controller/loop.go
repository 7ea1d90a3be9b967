package controller

import (
	"context"
	"errors"
)

// ErrStopped is returned by Do after the loop has exited.
var ErrStopped = errors.New("event loop stopped")

// Loop runs queued functions one at a time on a single goroutine. Everything
// it runs may share state without locking.
type Loop struct {
	queue   chan func()
	stopped chan struct{}
}

// NewLoop creates a loop with the given queue capacity.
func NewLoop(capacity int) *Loop {
	return &Loop{
		queue:   make(chan func(), capacity),
		stopped: make(chan struct{}),
	}
}

// Run processes queued functions until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.queue:
			fn()
		}
	}
}

// Post enqueues fn without waiting for it to run. It drops fn once the loop
// has stopped.
func (l *Loop) Post(fn func()) {
	select {
	case l.queue <- fn:
	case <-l.stopped:
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	wrapped := func() {
		defer close(done)
		fn()
	}

	select {
	case l.queue <- wrapped:
	case <-l.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-done:
		return nil
	case <-l.stopped:
		// fn may have been dequeued just before shutdown.
		select {
		case <-done:
			return nil
		default:
			return ErrStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}
