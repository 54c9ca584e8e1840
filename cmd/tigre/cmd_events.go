package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tigre/pkg/eventlog"
	"tigre/pkg/protocol"
)

func newEventsCmd(a *app) *cobra.Command {
	var (
		kind   string
		since  time.Duration
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List logged events, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := eventlog.QueryOpts{Limit: limit}
			if kind != "" {
				k, err := protocol.ParseEventKind(kind)
				if err != nil {
					return fmt.Errorf("events: %w", err)
				}
				opts.Kind = k
			}
			if since > 0 {
				after := a.clock.Now().Add(-since)
				opts.After = &after
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

			events, err := eventlog.NewStore(backend).Load(ctx)
			if err != nil {
				logger.Warn("event log unreadable", "error", err)
			}
			matched := eventlog.Query(events, opts)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(matched); err != nil {
					return fmt.Errorf("events: %w", err)
				}
				return nil
			}
			if len(matched) == 0 {
				fmt.Fprintln(out, "No events recorded.")
				return nil
			}
			for _, e := range matched {
				writeEvent(out, e)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "type", "", "only events of this kind")
	cmd.Flags().DurationVar(&since, "since", 0, "only events newer than this, e.g. 24h")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of events (0 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func writeEvent(w io.Writer, e protocol.Event) {
	parts := make([]string, 0, len(e.Meta))
	for _, k := range slices.Sorted(maps.Keys(e.Meta)) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.Meta[k]))
	}
	fmt.Fprintf(w, "%s  %-24s %s\n",
		e.Time().Local().Format(time.DateTime), e.Type, strings.Join(parts, " "))
}
