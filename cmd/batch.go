package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Rorical/typedconfirm/internal/app"
	"github.com/Rorical/typedconfirm/internal/config"
	"github.com/Rorical/typedconfirm/internal/history"
)

var (
	batchWatch     bool
	batchNoHistory bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Guard a list of actions on one screen",
	Long: `Loads a YAML or JSON file of actions. Select an action with the arrow keys
and press enter to confirm it; confirmed commands run in the background and
their status is shown next to them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		opts := []app.Option{app.WithLogger(logger), app.WithWatch(batchWatch)}
		if !batchNoHistory {
			store, err := history.Open(history.DefaultPath(cfg.Path()))
			if err != nil {
				logger.Warn("history unavailable", zap.Error(err))
			} else {
				defer store.Close()
				opts = append(opts, app.WithRecorder(store))
			}
		}

		application, err := app.NewApplication(cfg, args[0], opts...)
		if err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}
		defer application.Stop()

		return application.Start(cmd.Context())
	},
}

func init() {
	batchCmd.Flags().BoolVarP(&batchWatch, "watch", "w", false, "reload the file when it changes")
	batchCmd.Flags().BoolVar(&batchNoHistory, "no-history", false, "do not record decisions")
}
