package orchestrator

import (
	"context"
	"errors"

	"tigre/pkg/timer"
)

// ErrLoopStopped is returned by Do once the loop has exited.
var ErrLoopStopped = errors.New("orchestrator loop stopped")

// Op is a unit of work run on the loop goroutine.
type Op func(ctx context.Context, o *Orchestrator)

// Loop serializes work from many goroutines onto the one goroutine that owns an
// Orchestrator. Create it before Open so Deliver can back a timer.TickerScheduler.
type Loop struct {
	ops  chan Op
	done chan struct{}
}

// NewLoop returns a loop that has not started.
func NewLoop() *Loop {
	return &Loop{
		ops:  make(chan Op),
		done: make(chan struct{}),
	}
}

// Run executes ops against o until ctx is cancelled. The timer is paused on exit so no
// tick source outlives the loop.
func (l *Loop) Run(ctx context.Context, o *Orchestrator) error {
	defer close(l.done)
	defer o.Pause()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case op := <-l.ops:
			op(ctx, o)
		}
	}
}

// Do runs op on the loop goroutine and waits for it to finish.
func (l *Loop) Do(ctx context.Context, op Op) error {
	finished := make(chan struct{})
	wrapped := func(ctx context.Context, o *Orchestrator) {
		defer close(finished)
		op(ctx, o)
	}
	select {
	case l.ops <- wrapped:
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	}
}

// Deliver hands a scheduled tick to the loop. It returns without delivering once the
// loop has exited.
func (l *Loop) Deliver(lease timer.Lease) {
	op := func(ctx context.Context, o *Orchestrator) {
		if _, _, err := o.Tick(ctx, lease); err != nil {
			o.log.Error("focus tick", "error", err)
		}
	}
	select {
	case l.ops <- op:
	case <-l.done:
	}
}
