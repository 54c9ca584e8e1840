package orchestrator

import (
	"time"

	"tigre/pkg/symbols"
)

// toast is a transient flag whose expiry is checked against the clock when read.
type toast struct {
	until time.Time
}

func (t *toast) show(now time.Time, d time.Duration) { t.until = now.Add(d) }

func (t *toast) visible(now time.Time) bool { return now.Before(t.until) }

func (t *toast) dismiss() { t.until = time.Time{} }

// UnlockToast returns the symbol announced by the most recent unlock while its toast
// has not expired.
func (o *Orchestrator) UnlockToast() (symbols.Definition, bool) {
	if !o.unlockToast.visible(o.clock.Now()) {
		return symbols.Definition{}, false
	}
	return symbols.Lookup(o.toastSymbol)
}

// DismissUnlockToast hides the unlock toast before it expires.
func (o *Orchestrator) DismissUnlockToast() {
	o.unlockToast.dismiss()
}

// LockedToast reports whether the "presets are locked" toast is showing.
func (o *Orchestrator) LockedToast() bool {
	return o.lockedToast.visible(o.clock.Now())
}
