// Package orchestrator owns the canonical event log, unlocked set and focus timer for
// one process, and wires timer completion through rule evaluation to unlock
// notifications.
//
// An Orchestrator is not safe for concurrent use. Drive it from a single goroutine:
// the bubbletea Update loop, or a Loop for headless callers.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tigre/internal/clock"
	"tigre/pkg/eventlog"
	"tigre/pkg/kv"
	"tigre/pkg/protocol"
	"tigre/pkg/rules"
	"tigre/pkg/symbols"
	"tigre/pkg/timer"
)

// Options configures Open. Backend is required.
type Options struct {
	Backend   kv.Backend
	Engine    *rules.Engine   // nil: rules.Default()
	Clock     clock.Clock     // nil: clock.System{}
	Scheduler timer.Scheduler // nil: ticks are delivered by calling Tick directly
	Logger    *slog.Logger    // nil: slog.Default()

	PresetMinutes int           // default 15
	DevRunSeconds int           // default 5
	UnlockToast   time.Duration // default 5s
	LockedToast   time.Duration // default 5s

	// NewSessionID names each fresh focus run. nil: uuid.NewString.
	NewSessionID func() string
}

// Orchestrator is the single source of truth for a running client.
type Orchestrator struct {
	store    *eventlog.Store
	backend  kv.Backend
	engine   *rules.Engine
	clock    clock.Clock
	log      *slog.Logger
	newID    func() string
	devRun   int
	unlockTT time.Duration
	lockedTT time.Duration

	events   []protocol.Event
	unlocked symbols.Set
	session  *timer.Session
	runID    string
	done     int

	unlockToast toast
	toastSymbol symbols.ID
	lockedToast toast

	subs    []subscriber
	nextSub int
}

// Open loads persisted state and grants any symbol the loaded history already earns.
// Unreadable state is logged and replaced with empty collections; Open only fails
// when the options are unusable.
func Open(ctx context.Context, opts Options) (*Orchestrator, error) {
	if opts.Backend == nil {
		return nil, errors.New("orchestrator: backend is required")
	}
	if opts.Engine == nil {
		opts.Engine = rules.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.PresetMinutes == 0 {
		opts.PresetMinutes = 15
	}
	if opts.DevRunSeconds == 0 {
		opts.DevRunSeconds = 5
	}
	if opts.UnlockToast == 0 {
		opts.UnlockToast = 5 * time.Second
	}
	if opts.LockedToast == 0 {
		opts.LockedToast = 5 * time.Second
	}
	if opts.NewSessionID == nil {
		opts.NewSessionID = uuid.NewString
	}

	session, err := timer.New(opts.PresetMinutes, opts.Scheduler)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}

	o := &Orchestrator{
		store:    eventlog.NewStore(opts.Backend),
		backend:  opts.Backend,
		engine:   opts.Engine,
		clock:    opts.Clock,
		log:      opts.Logger,
		newID:    opts.NewSessionID,
		devRun:   opts.DevRunSeconds,
		unlockTT: opts.UnlockToast,
		lockedTT: opts.LockedToast,
		session:  session,
	}
	o.load(ctx)

	if _, err := o.evaluate(ctx); err != nil {
		o.log.Warn("reconcile unlocked symbols", "error", err)
	}
	return o, nil
}

func (o *Orchestrator) load(ctx context.Context) {
	events, err := o.store.Load(ctx)
	if err != nil {
		o.log.Warn("event log unreadable, starting empty", "error", err)
	}
	unlocked, err := symbols.LoadUnlocked(ctx, o.backend, o.log)
	if err != nil {
		o.log.Warn("unlocked symbols unreadable, starting empty", "error", err)
	}
	o.events = events
	o.unlocked = unlocked
	o.log.Debug("state loaded", "events", len(events), "unlocked", unlocked.Len())
}

// Reload re-reads storage, picking up writes from another tigre process, and
// re-evaluates. The timer is untouched. Symbols unlocked in memory stay unlocked even
// when storage no longer lists them, and the stored set is repaired. An unreadable
// log leaves the in-memory log in place.
func (o *Orchestrator) Reload(ctx context.Context) (rules.Result, error) {
	events, err := o.store.Load(ctx)
	if err != nil {
		o.log.Warn("event log unreadable, keeping in-memory log", "error", err)
	} else {
		o.events = events
	}

	stored, err := symbols.LoadUnlocked(ctx, o.backend, o.log)
	if err != nil {
		o.log.Warn("unlocked symbols unreadable, keeping in-memory set", "error", err)
	}
	o.unlocked = o.unlocked.Merge(stored.IDs()...)

	var saveErr error
	if o.unlocked.Len() != stored.Len() {
		if err := symbols.SaveUnlocked(ctx, o.backend, o.unlocked); err != nil {
			o.log.Error("persist unlocked symbols", "error", err)
			saveErr = fmt.Errorf("reload: %w", err)
		}
	}
	o.log.Debug("state reloaded", "events", len(o.events), "unlocked", o.unlocked.Len())

	res, err := o.evaluate(ctx)
	return res, errors.Join(saveErr, err)
}

// Events returns a copy of the log in insertion order.
func (o *Orchestrator) Events() []protocol.Event {
	out := make([]protocol.Event, len(o.events))
	copy(out, o.events)
	return out
}

// UnlockedSymbols returns the unlocked ids in unlock order.
func (o *Orchestrator) UnlockedSymbols() []symbols.ID {
	return o.unlocked.IDs()
}

// Symbol looks up a catalog entry. Unknown ids report false.
func (o *Orchestrator) Symbol(id symbols.ID) (symbols.Definition, bool) {
	return symbols.Lookup(id)
}

// SessionsCompleted counts focus runs completed by this process.
func (o *Orchestrator) SessionsCompleted() int {
	return o.done
}

// LogEvent appends an event of kind and re-evaluates the rules. Unknown kinds and
// meta that cannot be encoded are rejected before anything is appended. A failed save
// is logged and returned, but the event stays in memory and evaluation still runs.
func (o *Orchestrator) LogEvent(ctx context.Context, kind protocol.EventKind, meta map[string]any) (rules.Result, error) {
	if !kind.Valid() {
		return rules.Result{}, fmt.Errorf("log event: %w: %q", protocol.ErrUnknownEventKind, kind)
	}
	evt, err := protocol.NewEvent(kind, meta, o.clock.Now())
	if err != nil {
		return rules.Result{}, fmt.Errorf("log event: %w", err)
	}
	o.events = eventlog.Append(o.events, evt)
	o.log.Info("event logged", "type", kind, "timestamp", evt.Timestamp)
	o.emit(Notification{Kind: EventLogged, Event: evt})

	var saveErr error
	if err := o.store.Save(ctx, o.events); err != nil {
		o.log.Error("persist event log", "error", err)
		saveErr = fmt.Errorf("log event: %w", err)
	}

	res, err := o.evaluate(ctx)
	return res, errors.Join(saveErr, err)
}

// evaluate applies the rules until nothing new unlocks, persists the grown set and
// announces each new symbol.
func (o *Orchestrator) evaluate(ctx context.Context) (rules.Result, error) {
	var all []symbols.ID
	for range len(o.engine.Rules()) + 1 {
		res := o.engine.Evaluate(o.events, o.unlocked)
		if len(res.NewlyUnlocked) == 0 {
			break
		}
		o.unlocked = o.unlocked.Merge(res.NewlyUnlocked...)
		all = append(all, res.NewlyUnlocked...)
	}
	result := rules.Result{NewlyUnlocked: all}
	if len(all) == 0 {
		return result, nil
	}

	var saveErr error
	if err := symbols.SaveUnlocked(ctx, o.backend, o.unlocked); err != nil {
		o.log.Error("persist unlocked symbols", "error", err)
		saveErr = fmt.Errorf("evaluate: %w", err)
	}

	for _, id := range all {
		o.log.Info("symbol unlocked", "symbol", id)
		o.emit(Notification{Kind: SymbolUnlocked, Symbol: id})
	}
	last, _ := result.Last()
	o.toastSymbol = last
	o.unlockToast.show(o.clock.Now(), o.unlockTT)
	return result, saveErr
}
