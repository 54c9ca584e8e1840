package orchestrator_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"tigre/internal/clock"
	"tigre/pkg/kv"
	"tigre/pkg/orchestrator"
	"tigre/pkg/protocol"
)

var (
	epoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	quiet = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// failingPuts accepts reads but rejects every write.
type failingPuts struct{ kv.Memory }

func (f *failingPuts) Put(context.Context, string, []byte) error {
	return errors.New("read-only filesystem")
}

// recorder collects notifications in order.
type recorder struct {
	got []orchestrator.Notification
}

func (r *recorder) listen(n orchestrator.Notification) { r.got = append(r.got, n) }

func (r *recorder) kinds() []orchestrator.NotificationKind {
	out := make([]orchestrator.NotificationKind, len(r.got))
	for i, n := range r.got {
		out[i] = n.Kind
	}
	return out
}

func (r *recorder) count(k orchestrator.NotificationKind) int {
	n := 0
	for _, got := range r.got {
		if got.Kind == k {
			n++
		}
	}
	return n
}

type fixture struct {
	o       *orchestrator.Orchestrator
	backend kv.Backend
	clock   *clock.Manual
	rec     *recorder
}

func open(t *testing.T, backend kv.Backend, mutate ...func(*orchestrator.Options)) *fixture {
	t.Helper()
	c := clock.NewManual(epoch)
	seq := 0
	opts := orchestrator.Options{
		Backend: backend,
		Clock:   c,
		Logger:  quiet,
		NewSessionID: func() string {
			seq++
			return fmt.Sprintf("run-%d", seq)
		},
	}
	for _, m := range mutate {
		m(&opts)
	}
	o, err := orchestrator.Open(context.Background(), opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	rec := &recorder{}
	o.Subscribe(rec.listen)
	return &fixture{o: o, backend: backend, clock: c, rec: rec}
}

// runToCompletion starts the timer and ticks it down, returning the tick results.
func (f *fixture) runToCompletion(t *testing.T) (completedAt int) {
	t.Helper()
	ctx := context.Background()
	if !f.o.Start() {
		t.Fatal("Start returned false")
	}
	for i := 1; ; i++ {
		f.clock.Advance(time.Second)
		_, done, err := f.o.Tick(ctx, f.o.Lease())
		if err != nil {
			t.Fatalf("Tick: %v", err)
		}
		if done {
			return i
		}
		if i > 3*3600 {
			t.Fatal("timer never completed")
		}
	}
}

func seedFocusEvents(t *testing.T, backend kv.Backend, n int) {
	t.Helper()
	ctx := context.Background()
	events := make([]protocol.Event, n)
	for i := range events {
		events[i] = protocol.Event{
			Type:      protocol.FocusSessionCompleted,
			Timestamp: epoch.Add(time.Duration(i) * time.Hour).UnixMilli(),
			Meta:      map[string]any{},
		}
	}
	data := mustJSON(t, events)
	if err := backend.Put(ctx, protocol.EventsKey, data); err != nil {
		t.Fatal(err)
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return data
}
