package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tigre/pkg/protocol"
	"tigre/pkg/symbols"
)

func newLogCmd(a *app) *cobra.Command {
	var metaPairs []string
	cmd := &cobra.Command{
		Use:   "log <kind>",
		Short: "Record a habit event",
		Long: "Append an event to the log and check for newly unlocked symbols.\n\n" +
			"Kinds: " + kindList() + ".\nKinds are case-insensitive and accept dashes, e.g. seed-watered.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := protocol.ParseEventKind(args[0])
			if err != nil {
				return fmt.Errorf("log: %w (want one of %s)", err, kindList())
			}
			meta, err := parseMeta(metaPairs)
			if err != nil {
				return fmt.Errorf("log: %w", err)
			}

			ctx := cmd.Context()
			cfg, logger, err := a.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			backend, err := openBackend(ctx, cfg)
			if err != nil {
				return err
			}
			defer backend.Close()

			before, _ := symbols.LoadUnlocked(ctx, backend, logger)
			o, err := a.openOrchestrator(ctx, cfg, backend, nil, logger, 0)
			if err != nil {
				return err
			}
			if _, err := o.LogEvent(ctx, kind, meta); err != nil {
				return fmt.Errorf("log: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Logged %s\n", kind)
			for _, id := range o.UnlockedSymbols() {
				if !before.Contains(id) {
					printUnlocked(out, id)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&metaPairs, "meta", nil, "metadata as key=value (repeatable)")
	return cmd
}

func kindList() string {
	kinds := protocol.EventKinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}

// parseMeta turns key=value pairs into event metadata. Integers and finite floats are
// stored as numbers and the literals true and false as booleans. Anything else,
// including nan and inf, stays a string.
func parseMeta(pairs []string) (map[string]any, error) {
	meta := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("meta %q: want key=value", pair)
		}
		meta[k] = parseValue(v)
	}
	return meta, nil
}

func parseValue(v string) any {
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	switch v {
	case "true":
		return true
	case "false":
		return false
	}
	return v
}
