package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rorical/typedconfirm/internal/config"
	"github.com/Rorical/typedconfirm/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent confirmation decisions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		store, err := history.Open(history.DefaultPath(cfg.Path()))
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No decisions recorded yet")
			return nil
		}

		out := cmd.OutOrStdout()
		for _, e := range entries {
			decision := "cancelled"
			if e.Confirmed {
				decision = "confirmed"
			}
			fmt.Fprintf(out, "%s  %-12s %-10s %-10s exit=%d\n",
				e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.Action, decision, e.Status, e.ExitCode)
			fmt.Fprintf(out, "    $ %s\n", e.Command)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of entries to show")
}
