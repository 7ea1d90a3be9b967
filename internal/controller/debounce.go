package controller

import "time"

// Debouncer delays a call until triggers stop arriving for a fixed wait.
// Trigger must be called from the loop; the delayed call is posted back to it.
type Debouncer struct {
	wait  time.Duration
	post  func(func())
	timer *time.Timer
	gen   uint64
}

// NewDebouncer returns a debouncer that posts through post.
func NewDebouncer(wait time.Duration, post func(func())) *Debouncer {
	return &Debouncer{wait: wait, post: post}
}

// Trigger schedules fn, cancelling any call scheduled earlier.
func (d *Debouncer) Trigger(fn func()) {
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() {
		d.post(func() {
			// A timer that fired while a newer Trigger was queued is stale.
			if gen == d.gen {
				fn()
			}
		})
	})
}

// Stop cancels any pending call.
func (d *Debouncer) Stop() {
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
}
