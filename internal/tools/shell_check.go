package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rorical/typedconfirm/internal/config"
	"github.com/Rorical/typedconfirm/internal/models"
)

// InputEnv carries the typed text to shell checks.
const InputEnv = "TYPEDCONFIRM_INPUT"

// ShellCheck accepts input when a shell command exits 0. The input is passed
// in $TYPEDCONFIRM_INPUT, never interpolated into the command line.
type ShellCheck struct {
	Timeout time.Duration
}

func (s *ShellCheck) Name() string {
	return "shell"
}

func (s *ShellCheck) Description() string {
	return "Run a shell command with the input in $" + InputEnv + "; exit status 0 confirms"
}

func (s *ShellCheck) Build(spec config.CheckSpec) (models.Predicate, error) {
	if strings.TrimSpace(spec.Command) == "" {
		return nil, fmt.Errorf("command is required")
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	argv := ShellCommand(spec.Command)

	return func(ctx context.Context, input string) (models.Outcome, error) {
		result, err := run(ctx, argv, timeout, []string{InputEnv + "=" + input})
		if result == nil {
			return models.Outcome{}, err
		}
		if ctx.Err() != nil {
			return models.Outcome{}, ctx.Err()
		}
		if result.TimedOut {
			return models.Outcome{}, err
		}

		data := map[string]any{
			"exit_code": result.ExitCode,
			"output":    strings.TrimSpace(result.Output),
		}
		// A command that could not start is an error, not a "no".
		if result.ExitCode < 0 {
			return models.Outcome{Data: data}, err
		}
		return models.Outcome{Success: result.ExitCode == 0, Data: data}, nil
	}, nil
}
