package testutil

import (
	"sort"
	"sync"
	"time"

	"github.com/calvinalkan/gsmeac/internal/debounce"
)

// Clock is a manually advanced [debounce.Clock]. Scheduled callbacks run
// synchronously inside [Clock.Advance], in due order.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*fakeTimer
}

type fakeTimer struct {
	c    *Clock
	id   int
	when time.Time
	fn   func()
}

// NewClock returns a clock initialized to a fixed UTC start time.
func NewClock() *Clock {
	return &Clock{
		now: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *Clock) AfterFunc(d time.Duration, f func()) debounce.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	t := &fakeTimer{c: c, id: c.seq, when: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)

	return t
}

// Advance moves the clock forward by d, running every callback that falls
// due on the way.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)

	for {
		sort.SliceStable(c.timers, func(i, j int) bool {
			return c.timers[i].when.Before(c.timers[j].when)
		})

		if len(c.timers) == 0 || c.timers[0].when.After(target) {
			break
		}

		next := c.timers[0]
		c.timers = c.timers[1:]
		c.now = next.when

		c.mu.Unlock()
		next.fn()
		c.mu.Lock()
	}

	c.now = target
	c.mu.Unlock()
}

// Pending returns the number of scheduled callbacks.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.timers)
}

func (t *fakeTimer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()

	for i, other := range t.c.timers {
		if other.id == t.id {
			t.c.timers = append(t.c.timers[:i], t.c.timers[i+1:]...)

			return true
		}
	}

	return false
}
