package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"tigre/internal/clock"
	"tigre/internal/version"
	"tigre/pkg/config"
)

// app carries what every subcommand needs. Tests swap every field.
type app struct {
	loadConfig func() (*config.Config, error)
	clock      clock.Clock
	tick       time.Duration // headless countdown interval
}

func defaultApp() *app {
	return &app{loadConfig: config.Load, clock: clock.System{}, tick: time.Second}
}

// setup resolves the configuration and installs a logger writing to w.
func (a *app) setup(w io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, nil, err
	}
	return cfg, installLogger(cfg, w), nil
}

func (a *app) config() (*config.Config, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func installLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	logger := cfg.NewLogger(w)
	slog.SetDefault(logger)
	return logger
}

// newRootCmd creates the root tigre command with all subcommands attached.
func newRootCmd() *cobra.Command {
	return newRootCmdWith(defaultApp())
}

func newRootCmdWith(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tigre",
		Short:         "Neon Tigre focus and habit tracker",
		Long:          "tigre runs focus sessions, logs habit events and grows your tail of\nunlocked symbols as milestones are reached.",
		Version:       fmt.Sprintf("tigre %s", version.String()),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddCommand(
		newFocusCmd(a),
		newLogCmd(a),
		newEventsCmd(a),
		newTailCmd(a),
		newSymbolCmd(a),
	)

	return cmd
}
