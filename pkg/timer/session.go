// Package timer implements the focus countdown as an explicit state machine.
//
// States: Idle → Running → Paused ⇄ Running → Finished. Idle and Finished begin a
// fresh run; Paused resumes with the remaining time intact. The only rejected input
// is changing the duration while Running, reported as ErrPresetLocked.
package timer

import (
	"errors"
	"fmt"
)

var (
	// ErrPresetLocked rejects a duration change while the countdown is running.
	ErrPresetLocked = errors.New("presets are locked while a session is running")

	// ErrInvalidDuration rejects non-positive durations.
	ErrInvalidDuration = errors.New("duration must be positive")
)

// State is the externally visible phase of a Session.
type State int

const (
	// Idle has never started since the last reset or duration change.
	Idle State = iota
	// Running is counting down.
	Running
	// Paused holds the remaining time until resumed.
	Paused
	// Finished reached zero; the next Start begins a fresh run.
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Completion is reported exactly once per run, when the countdown reaches zero.
// DurationSeconds is the length captured when the run started, not the live value.
type Completion struct {
	DurationSeconds int
}

// Snapshot is a read-only copy of a session's fields.
type Snapshot struct {
	SelectedSeconds  int
	RemainingSeconds int
	ActiveSeconds    int
	Running          bool
	Finished         bool
	Started          bool
	State            State
}

// IsActive reports whether the session has been started or has finished. It exists
// for presentation only; no transition depends on it.
func (s Snapshot) IsActive() bool {
	return s.Started || s.Finished
}

// Remaining returns the fraction of the active duration still to go, in [0, 1].
func (s Snapshot) Remaining() float64 {
	if s.ActiveSeconds <= 0 {
		return 0
	}
	return float64(s.RemainingSeconds) / float64(s.ActiveSeconds)
}

// Session is one countdown. It is not safe for concurrent use: all calls, including
// Tick, must come from the goroutine that owns it.
type Session struct {
	selected  int
	remaining int
	active    int
	running   bool
	finished  bool
	started   bool

	sched     Scheduler
	lease     Lease
	lastLease Lease
	stop      func()
}

// New returns an idle session preset to minutes. A nil scheduler means ticks are
// delivered by hand via Tick(s.Lease()).
func New(minutes int, sched Scheduler) (*Session, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("preset %d minutes: %w", minutes, ErrInvalidDuration)
	}
	secs := minutes * 60
	return &Session{
		selected:  secs,
		remaining: secs,
		active:    secs,
		sched:     sched,
	}, nil
}

// Snapshot returns the current fields and derived state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		SelectedSeconds:  s.selected,
		RemainingSeconds: s.remaining,
		ActiveSeconds:    s.active,
		Running:          s.running,
		Finished:         s.finished,
		Started:          s.started,
		State:            s.State(),
	}
}

// State derives the phase from the session flags.
func (s *Session) State() State {
	switch {
	case s.running:
		return Running
	case s.finished:
		return Finished
	case s.started:
		return Paused
	default:
		return Idle
	}
}

// Lease returns the lease of the armed tick source, or zero when none is armed.
func (s *Session) Lease() Lease {
	return s.lease
}

// SelectPreset changes the duration to minutes. It is rejected while Running.
func (s *Session) SelectPreset(minutes int) error {
	if s.running {
		return ErrPresetLocked
	}
	if minutes <= 0 {
		return fmt.Errorf("preset %d minutes: %w", minutes, ErrInvalidDuration)
	}
	s.selected = minutes * 60
	s.remaining = s.selected
	s.active = s.selected
	s.finished = false
	return nil
}

// ForceDuration loads a one-off run of seconds without changing the selected preset.
// It backs the developer shortcut for exercising completion without waiting.
func (s *Session) ForceDuration(seconds int) error {
	if s.running {
		return ErrPresetLocked
	}
	if seconds <= 0 {
		return fmt.Errorf("duration %ds: %w", seconds, ErrInvalidDuration)
	}
	s.remaining = seconds
	s.active = seconds
	s.finished = false
	s.started = false
	return nil
}

// Start begins or resumes the countdown and arms the tick source. It returns false
// when the session was already running.
func (s *Session) Start() bool {
	if s.running {
		return false
	}
	if s.remaining <= 0 {
		s.remaining = s.selected
		s.active = s.selected
	} else if s.active == 0 {
		s.active = s.remaining
	}
	s.finished = false
	s.running = true
	s.started = true
	s.acquire()
	return true
}

// Pause stops the countdown, keeping the remaining time. No-op unless Running.
func (s *Session) Pause() {
	if !s.running {
		return
	}
	s.running = false
	s.release()
}

// Reset stops the countdown and reloads the selected duration.
func (s *Session) Reset() {
	s.release()
	s.running = false
	s.remaining = s.selected
	s.active = s.selected
	s.finished = false
	s.started = false
}

// Tick advances the countdown by one second. Ticks carrying any lease other than the
// armed one are ignored, so a tick already in flight when the session was paused or
// reset cannot change it. The completion is returned on the tick that reaches zero.
func (s *Session) Tick(l Lease) (Completion, bool) {
	if !s.running || l == 0 || l != s.lease {
		return Completion{}, false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		return Completion{}, false
	}
	s.running = false
	s.finished = true
	s.release()
	return Completion{DurationSeconds: s.active}, true
}

func (s *Session) acquire() {
	s.release()
	s.lastLease++
	s.lease = s.lastLease
	if s.sched != nil {
		s.stop = s.sched.Schedule(s.lease)
	}
}

func (s *Session) release() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
	s.lease = 0
}
