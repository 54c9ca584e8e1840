package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tigre/internal/clock"
	"tigre/pkg/kv"
	"tigre/pkg/orchestrator"
	"tigre/pkg/protocol"
	"tigre/pkg/timer"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, backend kv.Backend) (Model, *clock.Manual) {
	t.Helper()
	c := clock.NewManual(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))
	sched := NewScheduler()
	o, err := orchestrator.Open(context.Background(), orchestrator.Options{
		Backend:   backend,
		Clock:     c,
		Scheduler: sched,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return New(context.Background(), o, sched, Options{Presets: []int{15, 20, 45}}), c
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestPresetKeys(t *testing.T) {
	tests := []struct {
		key  string
		want int
	}{
		{"1", 15 * 60},
		{"2", 20 * 60},
		{"3", 45 * 60},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, _ := newTestModel(t, kv.NewMemory())
			m, _ = update(t, m, runes(tt.key))
			if got := m.o.Timer().SelectedSeconds; got != tt.want {
				t.Errorf("SelectedSeconds = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestToggleArmsAndPauses(t *testing.T) {
	m, _ := newTestModel(t, kv.NewMemory())

	m, cmd := update(t, m, runes("s"))
	if !m.o.Timer().Running {
		t.Fatal("s should start the timer")
	}
	if cmd == nil {
		t.Fatal("starting must return a tick command")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if m.o.Timer().Running {
		t.Error("space should pause the timer")
	}
	if m.o.Lease() != 0 {
		t.Error("pause must release the lease")
	}
}

func TestTickMsg(t *testing.T) {
	m, _ := newTestModel(t, kv.NewMemory())
	m, _ = update(t, m, runes("s"))
	lease := m.o.Lease()

	m, cmd := update(t, m, tickMsg{lease: lease})
	if got := m.o.Timer().RemainingSeconds; got != 15*60-1 {
		t.Errorf("remaining = %d after one tick", got)
	}
	if cmd == nil {
		t.Error("a live tick must re-arm the next one")
	}

	m, _ = update(t, m, runes("s"))
	before := m.o.Timer()
	m, _ = update(t, m, tickMsg{lease: lease})
	if m.o.Timer() != before {
		t.Error("stale tick changed a paused timer")
	}
}

func TestDevRunCompletesAndLogs(t *testing.T) {
	backend := kv.NewMemory()
	m, c := newTestModel(t, backend)

	m, _ = update(t, m, runes("d"))
	m, _ = update(t, m, runes("s"))
	for range 5 {
		c.Advance(time.Second)
		m, _ = update(t, m, tickMsg{lease: m.o.Lease()})
	}

	snap := m.o.Timer()
	if !snap.Finished {
		t.Fatalf("dev run should finish after 5 ticks: %+v", snap)
	}
	events := m.o.Events()
	if len(events) != 1 || events[0].Type != protocol.FocusSessionCompleted {
		t.Errorf("events = %+v", events)
	}
	if !strings.Contains(m.View(), "hunt complete") {
		t.Error("view should announce completion")
	}
}

func TestLockedPresetShowsToast(t *testing.T) {
	m, c := newTestModel(t, kv.NewMemory())
	m, _ = update(t, m, runes("s"))
	m, cmd := update(t, m, runes("3"))

	if got := m.o.Timer().SelectedSeconds; got != 15*60 {
		t.Errorf("preset changed while running: %d", got)
	}
	if !strings.Contains(m.View(), "locked") {
		t.Error("view should show the locked toast")
	}
	if m.errMsg != "" {
		t.Errorf("locked preset is not an error, got %q", m.errMsg)
	}
	if cmd == nil || !m.redrawPending {
		t.Error("a visible toast should schedule a redraw")
	}

	c.Advance(6 * time.Second)
	m, _ = update(t, m, redrawMsg{})
	if strings.Contains(m.View(), "locked while") {
		t.Error("locked toast should be gone after expiry")
	}
}

func TestUnlockToastAndDismiss(t *testing.T) {
	m, _ := newTestModel(t, kv.NewMemory())
	ctx := context.Background()
	for range 3 {
		if _, err := m.o.LogEvent(ctx, protocol.FocusSessionCompleted, nil); err != nil {
			t.Fatalf("LogEvent: %v", err)
		}
	}
	if !strings.Contains(m.View(), "unlocked") {
		t.Fatal("unlock toast should render")
	}

	m, _ = update(t, m, runes("x"))
	if strings.Contains(m.View(), "unlocked") {
		t.Error("x should dismiss the unlock toast")
	}
	if _, ok := m.o.UnlockToast(); ok {
		t.Error("toast still active after dismiss")
	}
}

func TestTailPanel(t *testing.T) {
	m, _ := newTestModel(t, kv.NewMemory())

	m, _ = update(t, m, runes("t"))
	if !strings.Contains(m.View(), "No symbols yet") {
		t.Error("empty tail should say so")
	}

	for range 3 {
		_, _ = m.o.LogEvent(context.Background(), protocol.FocusSessionCompleted, nil)
	}
	m.o.DismissUnlockToast()
	if !strings.Contains(m.View(), "📈") {
		t.Error("tail should list the unlocked symbol")
	}

	m, _ = update(t, m, runes("t"))
	if strings.Contains(m.View(), "Your tail") {
		t.Error("t should hide the tail")
	}
}

func TestResetKey(t *testing.T) {
	m, _ := newTestModel(t, kv.NewMemory())
	m, _ = update(t, m, runes("s"))
	m, _ = update(t, m, tickMsg{lease: m.o.Lease()})
	m, _ = update(t, m, runes("r"))

	snap := m.o.Timer()
	if snap.State != timer.Idle || snap.RemainingSeconds != snap.SelectedSeconds {
		t.Errorf("after reset: %+v", snap)
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, kv.NewMemory())
	m, _ = update(t, m, runes("?"))
	if !m.help.ShowAll {
		t.Error("? should expand help")
	}
	if !strings.Contains(m.View(), "dev run") {
		t.Error("full help should list the dev run key")
	}
}

func TestQuit(t *testing.T) {
	for _, msg := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}} {
		m, _ := newTestModel(t, kv.NewMemory())
		_, cmd := update(t, m, msg)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", msg)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: expected tea.QuitMsg", msg)
		}
	}
}

func TestWindowSizeClampsRing(t *testing.T) {
	m, _ := newTestModel(t, kv.NewMemory())
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 40})
	if m.progress.Width != 60 {
		t.Errorf("progress width = %d, want 60", m.progress.Width)
	}
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 4, Height: 40})
	if m.progress.Width != 10 {
		t.Errorf("progress width = %d, want 10", m.progress.Width)
	}
}
