package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tigre/pkg/protocol"
	"tigre/pkg/rules"
	"tigre/pkg/timer"
)

// Timer returns a snapshot of the focus session.
func (o *Orchestrator) Timer() timer.Snapshot {
	return o.session.Snapshot()
}

// Lease returns the lease of the armed tick source, zero when the timer is stopped.
func (o *Orchestrator) Lease() timer.Lease {
	return o.session.Lease()
}

// SessionID identifies the current focus run; empty before the first start.
func (o *Orchestrator) SessionID() string {
	return o.runID
}

// SelectPreset changes the focus length. While the timer runs the change is rejected
// with timer.ErrPresetLocked, a PresetLocked notification and the locked toast.
func (o *Orchestrator) SelectPreset(minutes int) error {
	err := o.session.SelectPreset(minutes)
	if errors.Is(err, timer.ErrPresetLocked) {
		o.log.Debug("preset change rejected", "minutes", minutes)
		o.lockedToast.show(o.clock.Now(), o.lockedTT)
		o.emit(Notification{Kind: PresetLocked})
	}
	return err
}

// Start begins or resumes the countdown. A run that starts from idle or finished gets
// a new session id; resuming from pause keeps it.
func (o *Orchestrator) Start() bool {
	st := o.session.State()
	if !o.session.Start() {
		return false
	}
	if st == timer.Idle || st == timer.Finished || o.runID == "" {
		o.runID = o.newID()
	}
	o.log.Debug("focus started", "session", o.runID, "remaining", o.session.Snapshot().RemainingSeconds)
	return true
}

// Pause holds the countdown.
func (o *Orchestrator) Pause() {
	o.session.Pause()
}

// Reset stops the countdown and reloads the selected preset.
func (o *Orchestrator) Reset() {
	o.session.Reset()
}

// DevRun loads a short run for exercising completion without waiting. It is ignored
// while the timer is running.
func (o *Orchestrator) DevRun() error {
	return o.session.ForceDuration(o.devRun)
}

// Tick delivers one scheduled tick. Ticks carrying a stale lease are dropped. When the
// tick completes the run, the completion is recorded as a FOCUS_SESSION_COMPLETED event
// and the rules are evaluated; completed reports whether that happened.
func (o *Orchestrator) Tick(ctx context.Context, l timer.Lease) (res rules.Result, completed bool, err error) {
	c, done := o.session.Tick(l)
	if !done {
		return rules.Result{}, false, nil
	}
	res, err = o.complete(ctx, c)
	return res, true, err
}

func (o *Orchestrator) complete(ctx context.Context, c timer.Completion) (rules.Result, error) {
	o.done++
	o.emit(Notification{Kind: SessionCompleted, DurationSeconds: c.DurationSeconds})

	meta := map[string]any{
		protocol.MetaSource:          protocol.SourceHyperfocusTimer,
		protocol.MetaDurationSeconds: c.DurationSeconds,
		protocol.MetaCompletedAt:     o.clock.Now().UTC().Format(time.RFC3339),
	}
	if o.runID != "" {
		meta[protocol.MetaSessionID] = o.runID
	}
	res, err := o.LogEvent(ctx, protocol.FocusSessionCompleted, meta)
	if err != nil {
		return res, fmt.Errorf("record completion: %w", err)
	}
	return res, nil
}
