package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rorical/typedconfirm/internal/config"
	"github.com/Rorical/typedconfirm/internal/utils"
)

var keywordLength int

var keywordCmd = &cobra.Command{
	Use:   "keyword",
	Short: "Print a random keyword",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if keywordLength <= 0 {
			return fmt.Errorf("length must be positive, got %d", keywordLength)
		}
		fmt.Fprintln(cmd.OutOrStdout(), utils.GenerateRandomString(keywordLength))
		return nil
	},
}

func init() {
	keywordCmd.Flags().IntVarP(&keywordLength, "length", "n", config.DefaultRandomKeywordLength, "keyword length")
}
