package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tigre/internal/tui"
	"tigre/pkg/config"
	"tigre/pkg/orchestrator"
	"tigre/pkg/symbols"
	"tigre/pkg/timer"
)

func newFocusCmd(a *app) *cobra.Command {
	var (
		preset   int
		dev      bool
		headless bool
	)
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Run a focus session",
		Long: "Open the focus screen. Pick a preset, start the countdown and finish the hunt\n" +
			"to log a FOCUS_SESSION_COMPLETED event.\n\n" +
			"When stdout is not a terminal, or with --headless, the session starts at once\n" +
			"and progress is printed until it completes or is interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if preset < 0 {
				return fmt.Errorf("focus: --preset must be positive, got %d", preset)
			}
			tty := isTerminal(cmd.OutOrStdout())
			if headless || !tty {
				return a.runHeadless(cmd.Context(), cmd, preset, dev, tty)
			}
			return a.runScreen(cmd.Context(), preset, dev)
		},
	}
	cmd.Flags().IntVar(&preset, "preset", 0, "session length in minutes (default from config)")
	cmd.Flags().BoolVar(&dev, "dev", false, "load a short developer run instead of the preset")
	cmd.Flags().BoolVar(&headless, "headless", false, "print progress instead of opening the focus screen")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runScreen opens the interactive focus screen. Logs go to a file while the screen
// owns the terminal.
func (a *app) runScreen(ctx context.Context, preset int, dev bool) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	logger, logFile, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	sched := tui.NewScheduler()
	o, err := a.openOrchestrator(ctx, cfg, backend, sched, logger, preset)
	if err != nil {
		return err
	}
	if dev {
		_ = o.DevRun()
	}
	return tui.Run(ctx, o, sched, tui.Options{Presets: cfg.Presets, WatchPath: cfg.StatePath()})
}

// fileLogger installs a logger appending to the log file under the tigre home.
func fileLogger(cfg *config.Config) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath()), 0o750); err != nil {
		return nil, nil, fmt.Errorf("create tigre home: %w", err)
	}
	//nolint:gosec // log path is under the tigre home
	f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	return installLogger(cfg, f), f, nil
}

// runHeadless starts the countdown immediately and reports progress until the run
// completes or ctx is cancelled. An interrupted run is not recorded.
func (a *app) runHeadless(ctx context.Context, cmd *cobra.Command, preset int, dev, tty bool) error {
	cfg, logger, err := a.setup(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	loop := orchestrator.NewLoop()
	sched := timer.TickerScheduler{Interval: a.tick, Deliver: loop.Deliver}
	o, err := a.openOrchestrator(ctx, cfg, backend, sched, logger, preset)
	if err != nil {
		return err
	}

	pl := newProgressLog(cmd.OutOrStdout(), tty)
	o.Subscribe(func(n orchestrator.Notification) {
		switch n.Kind {
		case orchestrator.SessionCompleted:
			pl.Step("focus session complete (" + timer.Format(n.DurationSeconds) + ")")
		case orchestrator.SymbolUnlocked:
			if def, ok := symbols.Lookup(n.Symbol); ok {
				pl.Info(fmt.Sprintf("%s %s unlocked: %s", def.Emoji, def.Name, def.Description))
			}
		}
	})

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	errc := make(chan error, 1)
	go func() { errc <- loop.Run(loopCtx, o) }()
	stopLoop := func() {
		cancel()
		<-errc
	}

	var snap timer.Snapshot
	err = loop.Do(ctx, func(_ context.Context, o *orchestrator.Orchestrator) {
		if dev {
			_ = o.DevRun()
		}
		o.Start()
		snap = o.Timer()
	})
	if err != nil {
		stopLoop()
		return interrupted(ctx, pl, err, snap)
	}
	pl.Step("focus started: " + timer.Format(snap.ActiveSeconds))

	last := snap.RemainingSeconds
	for {
		var done int
		err := loop.Do(ctx, func(_ context.Context, o *orchestrator.Orchestrator) {
			snap = o.Timer()
			done = o.SessionsCompleted()
		})
		if err != nil {
			stopLoop()
			return interrupted(ctx, pl, err, snap)
		}
		if done > 0 {
			stopLoop()
			return nil
		}
		if snap.RemainingSeconds != last && shouldReport(snap.RemainingSeconds, tty) {
			pl.Countdown("remaining " + timer.Format(snap.RemainingSeconds))
			last = snap.RemainingSeconds
		}

		select {
		case <-ctx.Done():
		case <-time.After(a.tick / 2):
		}
	}
}

// shouldReport keeps non-terminal output short: once a minute, then every second of
// the last ten.
func shouldReport(remaining int, tty bool) bool {
	return tty || remaining%60 == 0 || remaining <= 10
}

func interrupted(ctx context.Context, pl *progressLog, err error, snap timer.Snapshot) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		pl.Info("interrupted at " + timer.Format(snap.RemainingSeconds) + "; session not recorded")
		return nil
	}
	return fmt.Errorf("focus: %w", err)
}
