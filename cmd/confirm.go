package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Rorical/typedconfirm/internal/app"
	"github.com/Rorical/typedconfirm/internal/config"
	"github.com/Rorical/typedconfirm/internal/models"
)

// confirmTyped guards a destructive config change behind typing keyword.
func confirmTyped(cmd *cobra.Command, cfg *config.File, keyword string) (bool, error) {
	root, err := cfg.Resolve("")
	if err != nil {
		root = cfg.Defaults
	}
	decision, err := app.Confirm(cmd.Context(), root, models.Literal(keyword), config.Options{}, logger)
	return decision.Confirmed, err
}
