package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tigre/pkg/protocol"
	"tigre/pkg/symbols"
)

func newSymbolCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "symbol <id>",
		Short: "Describe a tail symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			id := symbols.ID(strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(args[0]), "-", "_")))
			def, ok := symbols.Lookup(id)
			if !ok {
				fmt.Fprintln(out, (&protocol.UnknownSymbolError{ID: args[0]}).Error())
				return nil
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

			set, err := symbols.LoadUnlocked(ctx, backend, logger)
			if err != nil {
				logger.Warn("unlocked symbols unreadable", "error", err)
			}
			status := "locked"
			if set.Contains(id) {
				status = "unlocked"
			}

			fmt.Fprintf(out, "%s %s (%s)\n%s\nstatus: %s\n", def.Emoji, def.Name, def.ID, def.Description, status)
			return nil
		},
	}
}
