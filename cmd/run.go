package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Rorical/typedconfirm/internal/app"
	"github.com/Rorical/typedconfirm/internal/config"
	"github.com/Rorical/typedconfirm/internal/history"
	"github.com/Rorical/typedconfirm/internal/models"
	"github.com/Rorical/typedconfirm/internal/tools"
)

var runFlags struct {
	keyword     string
	random      bool
	length      int
	checkCmd    string
	checkURL    string
	judge       string
	preset      string
	autoConfirm bool
	secret      bool
	debounce    int
	noHistory   bool
}

var runCmd = &cobra.Command{
	Use:   "run [flags] -- <command...>",
	Short: "Confirm, then run a command",
	Long: `Shows a type-to-confirm prompt and runs the command only when confirmed.
Exits with status 1 when the prompt is cancelled, otherwise with the
command's own status.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		root, err := cfg.Resolve(runFlags.preset)
		if err != nil {
			return err
		}

		spec, err := runCheckSpec()
		if err != nil {
			return err
		}
		kw := models.Literal(runFlags.keyword)
		if spec != nil {
			pred, err := app.NewCheckRegistry(cfg, logger).Predicate(*spec)
			if err != nil {
				return err
			}
			kw = models.Async(pred)
		}

		line := strings.Join(args, " ")
		if tools.IsDangerous(line) {
			logger.Info("confirming dangerous command", zap.String("command", line))
		}

		opts := runOptions(cmd)
		if spec == nil && runFlags.keyword == "" && config.Merge(root, opts, false).Settings.SecretKeyword {
			return errSecretRandom
		}

		decision, err := app.Confirm(cmd.Context(), root, kw, opts, logger)
		if err != nil {
			return err
		}
		if !decision.Confirmed {
			record(cmd.Context(), cfg, history.Entry{CorrelationID: decision.ID, Action: "run", Command: line, Status: models.ActionCancelled.String()})
			fmt.Fprintln(os.Stderr, "Not confirmed")
			return exitCodeError{code: 1}
		}

		code, err := tools.RunAttached(cmd.Context(), args)
		state := models.ActionSucceeded
		if err != nil || code != 0 {
			state = models.ActionFailed
		}
		record(cmd.Context(), cfg, history.Entry{CorrelationID: decision.ID, Action: "run", Command: line, Confirmed: true, Status: state.String(), ExitCode: code})
		if err != nil {
			return err
		}
		if code != 0 {
			return exitCodeError{code: code}
		}
		return nil
	},
}

// A secret random keyword is never shown, so nobody could type it.
var errSecretRandom = errors.New("--secret needs --keyword or a check")

// runCheckSpec picks the keyword source. A literal keyword, --random and the
// three checks are mutually exclusive; with none of them a random keyword is
// used.
func runCheckSpec() (*config.CheckSpec, error) {
	var specs []*config.CheckSpec
	if runFlags.checkCmd != "" {
		specs = append(specs, &config.CheckSpec{Type: "shell", Command: runFlags.checkCmd})
	}
	if runFlags.checkURL != "" {
		specs = append(specs, &config.CheckSpec{Type: "http", URL: runFlags.checkURL})
	}
	if runFlags.judge != "" {
		specs = append(specs, &config.CheckSpec{Type: "judge", Criterion: runFlags.judge})
	}

	sources := len(specs)
	if runFlags.keyword != "" {
		sources++
	}
	if runFlags.random {
		sources++
	}
	if sources > 1 {
		return nil, fmt.Errorf("--keyword, --random, --check-cmd, --check-url and --judge are mutually exclusive")
	}
	if runFlags.secret && runFlags.keyword == "" && len(specs) == 0 {
		return nil, errSecretRandom
	}
	if len(specs) == 0 {
		return nil, nil
	}
	return specs[0], nil
}

// runOptions turns the flags the user set into per-trigger options.
func runOptions(cmd *cobra.Command) config.Options {
	flags := cmd.Flags()
	patch := &config.SettingsPatch{}
	if flags.Changed("auto-confirm") {
		patch.AutoConfirm = config.Bool(runFlags.autoConfirm)
	}
	if flags.Changed("secret") {
		patch.SecretKeyword = config.Bool(runFlags.secret)
	}
	if flags.Changed("debounce") {
		patch.AsyncDebounceTime = config.Int(runFlags.debounce)
	}
	if flags.Changed("length") {
		patch.RandomKeywordLength = config.Int(runFlags.length)
	}
	return config.Options{Settings: patch}
}

// record writes to the history store. Failures are logged, never fatal.
func record(ctx context.Context, cfg *config.File, e history.Entry) {
	if runFlags.noHistory {
		return
	}
	store, err := history.Open(history.DefaultPath(cfg.Path()))
	if err != nil {
		logger.Warn("history unavailable", zap.Error(err))
		return
	}
	defer store.Close()

	if err := store.Record(context.WithoutCancel(ctx), e); err != nil {
		logger.Warn("failed to record decision", zap.Error(err))
	}
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&runFlags.keyword, "keyword", "k", "", "literal keyword to type")
	f.BoolVar(&runFlags.random, "random", false, "generate a random keyword (the default)")
	f.IntVar(&runFlags.length, "length", config.DefaultRandomKeywordLength, "random keyword length")
	f.StringVar(&runFlags.checkCmd, "check-cmd", "", "shell check; input is in $"+tools.InputEnv)
	f.StringVar(&runFlags.checkURL, "check-url", "", "HTTP check endpoint")
	f.StringVar(&runFlags.judge, "judge", "", "criterion the LLM judge checks the input against")
	f.StringVarP(&runFlags.preset, "preset", "p", "", "preset to use instead of the active one")
	f.BoolVar(&runFlags.autoConfirm, "auto-confirm", false, "confirm as soon as the input is valid")
	f.BoolVar(&runFlags.secret, "secret", false, "hide the keyword and mask the input")
	f.IntVar(&runFlags.debounce, "debounce", config.DefaultDebounceTime, "async check debounce in milliseconds")
	f.BoolVar(&runFlags.noHistory, "no-history", false, "do not record the decision")
}
