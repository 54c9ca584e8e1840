package timer_test

import "tigre/pkg/timer"

// fakeScheduler records every Schedule/stop pair so tests can assert that at most
// one tick source is armed at a time and that every exit path disarms it.
type fakeScheduler struct {
	armed     map[timer.Lease]bool
	schedules int
	maxArmed  int
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{armed: make(map[timer.Lease]bool)}
}

func (f *fakeScheduler) Schedule(l timer.Lease) func() {
	f.schedules++
	f.armed[l] = true
	if len(f.armed) > f.maxArmed {
		f.maxArmed = len(f.armed)
	}
	return func() { delete(f.armed, l) }
}

func (f *fakeScheduler) armedCount() int { return len(f.armed) }

// newSession builds a session or fails the test.
func newSession(t interface {
	Helper()
	Fatalf(string, ...any)
}, minutes int, sched timer.Scheduler) *timer.Session {
	t.Helper()
	s, err := timer.New(minutes, sched)
	if err != nil {
		t.Fatalf("timer.New(%d): %v", minutes, err)
	}
	return s
}
