package validate

import (
	"sync/atomic"
	"time"

	"github.com/calvinalkan/gsmeac/internal/debounce"
)

// DefaultDelay is the quiet window before a scheduled validation pass.
const DefaultDelay = 300 * time.Millisecond

// Scheduler debounces validation passes. pass is whatever the owner needs to
// run one pass, usually [Run] under the owner's lock.
type Scheduler struct {
	deb    *debounce.Debouncer
	pass   func()
	passes atomic.Int64
}

// NewScheduler returns a scheduler that calls pass delay after the last
// [Scheduler.Trigger]. A non-positive delay means [DefaultDelay].
func NewScheduler(delay time.Duration, clock debounce.Clock, pass func()) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}

	s := &Scheduler{pass: pass}
	s.deb = debounce.New(delay, s.run, clock)

	return s
}

// Trigger (re)starts the quiet window.
func (s *Scheduler) Trigger() {
	s.deb.Trigger()
}

// Now drops any pending pass and runs one immediately.
func (s *Scheduler) Now() {
	s.deb.Cancel()
	s.run()
}

// Flush runs a pending pass now. It reports whether one was pending.
func (s *Scheduler) Flush() bool {
	return s.deb.Flush()
}

// Cancel drops a pending pass.
func (s *Scheduler) Cancel() bool {
	return s.deb.Cancel()
}

// Pending reports whether a pass is scheduled.
func (s *Scheduler) Pending() bool {
	return s.deb.Pending()
}

// Passes returns how many passes have run.
func (s *Scheduler) Passes() int {
	return int(s.passes.Load())
}

func (s *Scheduler) run() {
	s.passes.Add(1)
	s.pass()
}
