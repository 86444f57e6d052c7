package cmd

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Rorical/typedconfirm/internal/logging"
)

var (
	verbose bool
	logFile string
	logger  = zap.NewNop()
)

// exitCodeError ends the process with a specific status and no message.
type exitCodeError struct {
	code int
}

func (e exitCodeError) Error() string {
	return "exit status"
}

var rootCmd = &cobra.Command{
	Use:   "typedconfirm",
	Short: "Type-to-confirm guard for destructive commands",
	Long: `typedconfirm asks you to type a keyword before a destructive command runs.
Keywords can be literal, random, or checked by a shell command, an HTTP
endpoint or an LLM judge.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(verbose, logFile)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	var exit exitCodeError
	if errors.As(err, &exit) {
		_ = logger.Sync()
		os.Exit(exit.code)
	}
	log.Printf("Command execution error: %v", err)
	os.Exit(1)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", os.Getenv("TYPEDCONFIRM_LOG"), "write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(presetCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(keywordCmd)
	rootCmd.AddCommand(historyCmd)
}
