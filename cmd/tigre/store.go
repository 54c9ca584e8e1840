package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"tigre/pkg/config"
	"tigre/pkg/kv"
	"tigre/pkg/orchestrator"
	"tigre/pkg/timer"
)

// openBackend opens the configured store. The file backend's directory is created up
// front so it can be watched before the first write.
func openBackend(ctx context.Context, cfg *config.Config) (kv.Backend, error) {
	switch cfg.Storage {
	case config.StorageFile:
		if err := os.MkdirAll(cfg.FilesDir(), 0o750); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
		return kv.NewFiles(cfg.FilesDir()), nil
	default:
		backend, err := kv.OpenSQLite(ctx, cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open store: %w", err)
		}
		return backend, nil
	}
}

// openOrchestrator wires an orchestrator to backend using the configured presets and
// toast durations.
func (a *app) openOrchestrator(ctx context.Context, cfg *config.Config, backend kv.Backend, sched timer.Scheduler, logger *slog.Logger, preset int) (*orchestrator.Orchestrator, error) {
	if preset == 0 {
		preset = cfg.DefaultPreset
	}
	o, err := orchestrator.Open(ctx, orchestrator.Options{
		Backend:       backend,
		Clock:         a.clock,
		Scheduler:     sched,
		Logger:        logger,
		PresetMinutes: preset,
		DevRunSeconds: cfg.DevRunSeconds,
		UnlockToast:   seconds(cfg.UnlockToastSeconds),
		LockedToast:   seconds(cfg.LockedToastSeconds),
	})
	if err != nil {
		return nil, fmt.Errorf("open orchestrator: %w", err)
	}
	return o, nil
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }
