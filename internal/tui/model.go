// Package tui is the interactive focus screen: preset picker, countdown ring, unlock
// toasts and the tail of unlocked symbols.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tigre/pkg/orchestrator"
	"tigre/pkg/symbols"
	"tigre/pkg/timer"
)

// Ring gradient endpoints; progress needs hex colors, not ANSI codes.
const (
	ringFrom = "#FF4FD8"
	ringTo   = "#FF8C00"
)

// redrawMsg re-renders so expired toasts disappear.
type redrawMsg struct{}

// Options configures the focus screen.
type Options struct {
	Presets   []int  // minutes, in display order
	WatchPath string // store location to watch for external writes; empty disables
}

// Model is the Bubble Tea model for the focus screen.
type Model struct {
	ctx     context.Context
	o       *orchestrator.Orchestrator
	sched   *Scheduler
	presets []int
	watcher *storeWatcher

	keys     keyMap
	help     help.Model
	progress progress.Model
	styles   Styles

	showTail      bool
	redrawPending bool
	errMsg        string
	width         int
}

// New builds the screen around o. sched must be the scheduler o was opened with.
func New(ctx context.Context, o *orchestrator.Orchestrator, sched *Scheduler, opts Options) Model {
	theme := DefaultTheme()
	m := Model{
		ctx:      ctx,
		o:        o,
		sched:    sched,
		presets:  opts.Presets,
		keys:     newKeyMap(len(opts.Presets)),
		help:     help.New(),
		progress: progress.New(progress.WithGradient(ringFrom, ringTo), progress.WithoutPercentage()),
		styles:   NewStyles(theme),
	}
	if opts.WatchPath != "" {
		m.watcher = watchStore(opts.WatchPath)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.redrawCmd()}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.next())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKeyPress(msg)
		cmds = append(cmds, cmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.progress.Width = min(max(msg.Width-8, 10), 60)

	case tickMsg:
		_, done, err := m.o.Tick(m.ctx, msg.lease)
		m.setErr(err)
		if !done && m.o.Lease() == msg.lease {
			cmds = append(cmds, m.sched.tick(msg.lease))
		}

	case storeChangedMsg:
		_, err := m.o.Reload(m.ctx)
		m.setErr(err)
		if m.watcher != nil {
			cmds = append(cmds, m.watcher.next())
		}

	case redrawMsg:
		m.redrawPending = false
	}

	cmds = append(cmds, m.sched.drain()...)
	if !m.redrawPending && m.toastShowing() {
		m.redrawPending = true
		cmds = append(cmds, m.redrawCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.watcher != nil {
			_ = m.watcher.Close()
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Preset):
		idx := int(msg.String()[0] - '1')
		if idx >= 0 && idx < len(m.presets) {
			err := m.o.SelectPreset(m.presets[idx])
			if !errors.Is(err, timer.ErrPresetLocked) {
				m.setErr(err)
			}
		}
	case key.Matches(msg, m.keys.Toggle):
		if m.o.Timer().Running {
			m.o.Pause()
		} else {
			m.o.Start()
		}
	case key.Matches(msg, m.keys.Reset):
		m.o.Reset()
		m.errMsg = ""
	case key.Matches(msg, m.keys.Dev):
		// Ignored while running, like the preset buttons but without a toast.
		_ = m.o.DevRun()
	case key.Matches(msg, m.keys.Dismiss):
		m.o.DismissUnlockToast()
	case key.Matches(msg, m.keys.Tail):
		m.showTail = !m.showTail
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) setErr(err error) {
	if err != nil {
		m.errMsg = err.Error()
	}
}

func (m Model) toastShowing() bool {
	_, unlock := m.o.UnlockToast()
	return unlock || m.o.LockedToast()
}

func (m Model) redrawCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(time.Time) tea.Msg { return redrawMsg{} })
}

// View implements tea.Model.
func (m Model) View() string {
	snap := m.o.Timer()
	sections := []string{
		m.styles.Title.Render("NEON TIGRE · focus"),
		m.renderPresets(snap),
		m.renderClock(snap),
		m.progress.ViewAs(snap.Remaining()),
		m.renderStatus(snap),
	}
	if toast := m.renderToasts(); toast != "" {
		sections = append(sections, toast)
	}
	if m.errMsg != "" {
		sections = append(sections, m.styles.Error.Render("error: "+m.errMsg))
	}
	if m.showTail {
		sections = append(sections, m.renderTail())
	}
	sections = append(sections, "", m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderPresets(snap timer.Snapshot) string {
	parts := []string{m.styles.Muted.Render("Choose your hunt length:")}
	for _, p := range m.presets {
		label := fmt.Sprintf("%dm", p)
		switch {
		case snap.Running:
			parts = append(parts, m.styles.PresetLock.Render(label))
		case p*60 == snap.SelectedSeconds:
			parts = append(parts, m.styles.PresetOn.Render(label))
		default:
			parts = append(parts, m.styles.Preset.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}

func (m Model) renderClock(snap timer.Snapshot) string {
	text := timer.Format(snap.RemainingSeconds)
	if snap.Finished {
		return m.styles.ClockDone.Render(text + "  hunt complete")
	}
	return m.styles.Clock.Render(text)
}

func (m Model) renderStatus(snap timer.Snapshot) string {
	return m.styles.Status.Render(fmt.Sprintf("%s · sessions this run: %d · symbols: %d",
		snap.State, m.o.SessionsCompleted(), len(m.o.UnlockedSymbols())))
}

func (m Model) renderToasts() string {
	var out []string
	if def, ok := m.o.UnlockToast(); ok {
		out = append(out, m.styles.Toast.Render(
			fmt.Sprintf("%s %s unlocked\n%s", def.Emoji, def.Name, def.Description)))
	}
	if m.o.LockedToast() {
		out = append(out, m.styles.LockedToast.Render("Presets are locked while the hunt is running."))
	}
	return strings.Join(out, "\n")
}

func (m Model) renderTail() string {
	ids := m.o.UnlockedSymbols()
	var b strings.Builder
	b.WriteString(m.styles.TailTitle.Render("Your tail"))
	b.WriteString("\n")
	if len(ids) == 0 {
		b.WriteString(m.styles.TailItem.Render("No symbols yet. Finish a hunt to grow your tail."))
		return b.String()
	}
	for _, id := range ids {
		def, ok := symbols.Lookup(id)
		if !ok {
			continue
		}
		b.WriteString(m.styles.TailItem.Render(def.Emoji + " " + def.Name))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Run shows the focus screen until the user quits or ctx is cancelled.
func Run(ctx context.Context, o *orchestrator.Orchestrator, sched *Scheduler, opts Options) error {
	m := New(ctx, o, sched, opts)
	defer func() {
		if m.watcher != nil {
			_ = m.watcher.Close()
		}
	}()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("focus screen: %w", err)
	}
	o.Pause()
	return nil
}
