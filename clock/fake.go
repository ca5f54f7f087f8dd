package clock

import (
	"sync"
	"time"
)

// FakeClock は Advance が呼ばれた時だけ進む。
// AfterFunc のコールバックは Advance の呼び出し元 goroutine で期限順に同期実行される。
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	waiters []*fakeWaiter
}

type fakeWaiter struct {
	deadline time.Time
	callback func()
	stopped  bool
	fired    bool
	queued   bool
}

func Fake(initial time.Time) *FakeClock {
	return &FakeClock{current: initial}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	if d <= 0 {
		f()
		return &Timer{
			stopFunc:  func() bool { return false },
			resetFunc: func(time.Duration) bool { return false },
		}
	}

	c.mu.Lock()
	w := &fakeWaiter{deadline: c.current.Add(d), callback: f, queued: true}
	c.waiters = append(c.waiters, w)
	c.mu.Unlock()

	return &Timer{
		stopFunc: func() bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			if w.stopped || w.fired {
				return false
			}
			w.stopped = true
			return true
		},
		resetFunc: func(d time.Duration) bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			active := !w.stopped && !w.fired
			w.deadline = c.current.Add(d)
			w.stopped = false
			w.fired = false
			if !w.queued {
				w.queued = true
				c.waiters = append(c.waiters, w)
			}
			return active
		},
	}
}

// Advance moves the clock forward by d. Waiters fire one at a time in
// deadline order and the clock reads each waiter's deadline while its callback
// runs, so a callback that reschedules itself counts from the time it fired.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.current.Add(d)
	c.mu.Unlock()

	for {
		w := c.next(target)
		if w == nil {
			break
		}
		w.callback()
	}

	c.mu.Lock()
	if target.After(c.current) {
		c.current = target
	}
	c.mu.Unlock()
}

// next pops the earliest waiter due by target and moves the clock to its deadline.
func (c *FakeClock) next(target time.Time) *fakeWaiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	var due *fakeWaiter
	remaining := c.waiters[:0]
	for _, w := range c.waiters {
		if w.stopped {
			w.queued = false
			continue
		}
		remaining = append(remaining, w)
		if w.deadline.After(target) {
			continue
		}
		if due == nil || w.deadline.Before(due.deadline) {
			due = w
		}
	}
	c.waiters = remaining
	if due == nil {
		return nil
	}

	for i, w := range c.waiters {
		if w == due {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			break
		}
	}
	due.fired = true
	due.queued = false
	if due.deadline.After(c.current) {
		c.current = due.deadline
	}
	return due
}

// PendingCount returns the number of timers that have neither fired nor been stopped.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, w := range c.waiters {
		if !w.stopped && !w.fired {
			n++
		}
	}
	return n
}
