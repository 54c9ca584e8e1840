package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tigre/pkg/timer"
)

// tickMsg carries the lease it was armed for; the orchestrator drops stale ones.
type tickMsg struct {
	lease timer.Lease
}

type armed struct {
	lease timer.Lease
	cmd   tea.Cmd
}

// Scheduler turns timer leases into tea.Tick commands. Schedule is called from inside
// Update (via Orchestrator.Start), so the commands are queued and handed back to
// bubbletea when Update returns.
type Scheduler struct {
	interval time.Duration
	pending  []armed
}

// NewScheduler returns a one-second Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{interval: time.Second}
}

// Schedule implements timer.Scheduler. Stopping before the command is drained
// withdraws it; after that, the lease check discards the tick.
func (s *Scheduler) Schedule(l timer.Lease) func() {
	s.pending = append(s.pending, armed{lease: l, cmd: s.tick(l)})
	return func() {
		for i, a := range s.pending {
			if a.lease == l {
				s.pending = append(s.pending[:i], s.pending[i+1:]...)
				return
			}
		}
	}
}

func (s *Scheduler) tick(l timer.Lease) tea.Cmd {
	return tea.Tick(s.interval, func(time.Time) tea.Msg {
		return tickMsg{lease: l}
	})
}

// drain returns the queued tick commands.
func (s *Scheduler) drain() []tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(s.pending))
	for _, a := range s.pending {
		cmds = append(cmds, a.cmd)
	}
	s.pending = nil
	return cmds
}
