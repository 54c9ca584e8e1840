package orchestrator

import (
	"fmt"

	"tigre/pkg/protocol"
	"tigre/pkg/symbols"
)

// NotificationKind identifies what happened.
type NotificationKind int

const (
	// SessionCompleted fires once per finished focus run.
	SessionCompleted NotificationKind = iota + 1
	// SymbolUnlocked fires once per newly unlocked symbol, in unlock order.
	SymbolUnlocked
	// PresetLocked fires when a preset change is rejected because the timer is running.
	PresetLocked
	// EventLogged fires for every event appended to the log.
	EventLogged
)

func (k NotificationKind) String() string {
	switch k {
	case SessionCompleted:
		return "session_completed"
	case SymbolUnlocked:
		return "symbol_unlocked"
	case PresetLocked:
		return "preset_locked"
	case EventLogged:
		return "event_logged"
	default:
		return fmt.Sprintf("notification(%d)", int(k))
	}
}

// Notification is delivered to listeners on the orchestrator's goroutine. Only the
// fields relevant to Kind are set.
type Notification struct {
	Kind            NotificationKind
	DurationSeconds int
	Symbol          symbols.ID
	Event           protocol.Event
}

// Listener receives notifications. It must not call back into the orchestrator.
type Listener func(Notification)

type subscriber struct {
	id int
	fn Listener
}

// Subscribe registers l and returns a function that removes it.
func (o *Orchestrator) Subscribe(l Listener) (unsubscribe func()) {
	o.nextSub++
	id := o.nextSub
	o.subs = append(o.subs, subscriber{id: id, fn: l})
	return func() {
		for i, s := range o.subs {
			if s.id == id {
				o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
				return
			}
		}
	}
}

func (o *Orchestrator) emit(n Notification) {
	for _, s := range o.subs {
		s.fn(n)
	}
}
