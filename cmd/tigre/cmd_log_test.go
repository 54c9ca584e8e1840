package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tigre/pkg/config"
	"tigre/pkg/eventlog"
	"tigre/pkg/protocol"
)

func loadEvents(t *testing.T, cfg *config.Config) []protocol.Event {
	t.Helper()
	backend, err := openBackend(context.Background(), cfg)
	if err != nil {
		t.Fatalf("openBackend: %v", err)
	}
	defer backend.Close()
	events, err := eventlog.NewStore(backend).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return events
}

func TestLogCmd(t *testing.T) {
	for _, storage := range []string{config.StorageFile, config.StorageSQLite} {
		t.Run(storage, func(t *testing.T) {
			a, cfg := newTestApp(t, storage)

			out, err := run(t, a, "log", "seed-watered", "--meta", "seed=call mom", "--meta", "minutes=10")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(out, "Logged SEED_WATERED") {
				t.Errorf("unexpected output %q", out)
			}

			events := loadEvents(t, cfg)
			if len(events) != 1 {
				t.Fatalf("expected 1 event, got %d", len(events))
			}
			if s, _ := events[0].MetaString("seed"); s != "call mom" {
				t.Errorf("seed meta = %q", s)
			}
			if n, _ := events[0].MetaInt("minutes"); n != 10 {
				t.Errorf("minutes meta = %d", n)
			}
		})
	}
}

func TestLogCmd_PrintsUnlocks(t *testing.T) {
	a, _ := newTestApp(t, config.StorageFile)

	var out string
	for range 3 {
		var err error
		out, err = run(t, a, "log", "FOCUS_SESSION_COMPLETED")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if !strings.Contains(out, "Consistency unlocked") {
		t.Errorf("third focus event should unlock Consistency, got %q", out)
	}

	out, err := run(t, a, "log", "FOCUS_SESSION_COMPLETED")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "unlocked") {
		t.Errorf("already unlocked symbols must not be announced again: %q", out)
	}
}

func TestLogCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "unknown kind", args: []string{"log", "nap-taken"}, want: protocol.ErrUnknownEventKind},
		{name: "bad meta", args: []string{"log", "DAY_CLOSED", "--meta", "novalue"}},
		{name: "missing kind", args: []string{"log"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestApp(t, config.StorageFile)
			_, err := run(t, a, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseMeta(t *testing.T) {
	tests := []struct {
		pair string
		want any
	}{
		{pair: "n=3", want: int64(3)},
		{pair: "n=-12", want: int64(-12)},
		{pair: "n=0.5", want: 0.5},
		{pair: "n=true", want: true},
		{pair: "n=false", want: false},
		{pair: "n=hello=world", want: "hello=world"},
		{pair: "n=nan", want: "nan"},
		{pair: "n=inf", want: "inf"},
		{pair: "n=-Infinity", want: "-Infinity"},
		{pair: "n=1e400", want: "1e400"},
		{pair: "n=f", want: "f"},
		{pair: "n=t", want: "t"},
		{pair: "n=TRUE", want: "TRUE"},
		{pair: "n=", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.pair, func(t *testing.T) {
			meta, err := parseMeta([]string{tt.pair})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, meta["n"]); diff != "" {
				t.Errorf("parseMeta(%q) mismatch (-want +got):\n%s", tt.pair, diff)
			}
		})
	}
}

func TestParseMeta_RejectsMissingKey(t *testing.T) {
	for _, pair := range []string{"novalue", "=3", " =x"} {
		if _, err := parseMeta([]string{pair}); err == nil {
			t.Errorf("parseMeta(%q): expected error", pair)
		}
	}
}

func TestLogCmd_NonFiniteMetaIsStored(t *testing.T) {
	a, cfg := newTestApp(t, config.StorageFile)

	if _, err := run(t, a, "log", "seed-watered", "--meta", "mood=inf"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	events := loadEvents(t, cfg)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if s, _ := events[0].MetaString("mood"); s != "inf" {
		t.Errorf("mood = %v, want the string inf", events[0].Meta["mood"])
	}
}
