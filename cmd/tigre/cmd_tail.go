package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tigre/pkg/symbols"
)

func newTailCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tail",
		Short: "Show your unlocked symbols in the order they were earned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			set, err := symbols.LoadUnlocked(ctx, backend, logger)
			if err != nil {
				logger.Warn("unlocked symbols unreadable", "error", err)
			}

			out := cmd.OutOrStdout()
			if set.Len() == 0 {
				fmt.Fprintln(out, "Your tail is empty. Finish a focus session to earn your first symbol.")
				return nil
			}
			for i, id := range set.IDs() {
				def, _ := symbols.Lookup(id)
				fmt.Fprintf(out, "%d. %s %s (%s)\n", i+1, def.Emoji, def.Name, def.ID)
			}
			return nil
		},
	}
}
