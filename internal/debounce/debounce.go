// Package debounce coalesces bursts of calls into a single deferred run.
//
// A [Debouncer] is a cancel-and-restart single-shot timer: every [Debouncer.Trigger]
// replaces the pending run, so only the last trigger in a burst leads to a
// call once the quiet window passes. [Debouncer.Flush] and [Debouncer.Cancel]
// make the pending run deterministic in tests and at shutdown.
package debounce

import (
	"sync"
	"time"
)

// Timer is a stoppable pending call.
type Timer interface {
	Stop() bool
}

// Clock schedules deferred calls. [RealClock] uses the runtime timer; tests
// substitute a manually advanced clock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// RealClock implements [Clock] with package time.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Debouncer runs fn once per burst of triggers.
type Debouncer struct {
	mu    sync.Mutex
	clock Clock
	delay time.Duration
	fn    func()
	timer Timer
	gen   uint64
}

// New returns a debouncer that calls fn delay after the last trigger.
// A nil clock means [RealClock].
func New(delay time.Duration, fn func(), clock Clock) *Debouncer {
	if clock == nil {
		clock = RealClock{}
	}

	return &Debouncer{clock: clock, delay: delay, fn: fn}
}

// Delay returns the quiet window.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger (re)starts the quiet window.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Flush runs the pending call now. It reports whether one was pending.
func (d *Debouncer) Flush() bool {
	if !d.stop() {
		return false
	}

	d.fn()

	return true
}

// Cancel drops the pending call. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	return d.stop()
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.timer != nil
}

func (d *Debouncer) stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer == nil {
		return false
	}

	d.timer.Stop()
	d.timer = nil
	d.gen++

	return true
}

// fire runs fn unless the timer that scheduled it was replaced, flushed or
// cancelled while the callback waited for the lock.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()

	if gen != d.gen || d.timer == nil {
		d.mu.Unlock()

		return
	}

	d.timer = nil
	d.mu.Unlock()

	d.fn()
}
