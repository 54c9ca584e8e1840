package timer

import (
	"sync"
	"time"
)

// Lease identifies one armed tick source. Leases are never reused within a Session.
type Lease uint64

// Scheduler arms a periodic one-second tick for a lease. Each tick must reach the
// session's owning goroutine as a call to Session.Tick(lease). Calling the returned
// stop function disarms the source; it must be safe to call more than once.
type Scheduler interface {
	Schedule(l Lease) (stop func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(Lease) func()

// Schedule implements Scheduler.
func (f SchedulerFunc) Schedule(l Lease) func() { return f(l) }

// TickerScheduler arms a time.Ticker per lease and hands each tick to Deliver, which
// is responsible for getting it onto the session's goroutine. Deliver runs on the
// ticker goroutine and may block; stop never waits for it.
type TickerScheduler struct {
	Interval time.Duration
	Deliver  func(Lease)
}

// Schedule implements Scheduler.
func (t TickerScheduler) Schedule(l Lease) func() {
	interval := t.Interval
	if interval <= 0 {
		interval = time.Second
	}
	done := make(chan struct{})
	var once sync.Once

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				t.Deliver(l)
			}
		}
	}()

	return func() {
		once.Do(func() { close(done) })
	}
}
