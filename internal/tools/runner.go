package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// DefaultTimeout bounds a confirmed command when the caller sets none.
const DefaultTimeout = 5 * time.Minute

// Result describes one finished command.
type Result struct {
	Command  string
	Output   string
	ExitCode int
	TimedOut bool
	Duration time.Duration
}

// Success reports a zero exit code.
func (r *Result) Success() bool {
	return r.ExitCode == 0 && !r.TimedOut
}

// ShellCommand wraps a command line for the platform shell.
func ShellCommand(line string) []string {
	if runtime.GOOS == "windows" {
		return []string{"cmd", "/c", line}
	}
	return []string{"sh", "-c", line}
}

// RunCommand executes argv and captures combined output. A non-zero exit is
// reported both in the result and as an error.
func RunCommand(ctx context.Context, argv []string, timeout time.Duration) (*Result, error) {
	return run(ctx, argv, timeout, nil)
}

func run(ctx context.Context, argv []string, timeout time.Duration, env []string) (*Result, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(timeoutCtx, argv[0], argv[1:]...)
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	start := time.Now()
	output, err := cmd.CombinedOutput()

	result := &Result{
		Command:  strings.Join(argv, " "),
		Output:   string(output),
		Duration: time.Since(start),
	}

	if err == nil {
		return result, nil
	}

	if errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	} else {
		result.ExitCode = -1
	}

	return result, fmt.Errorf("command %q failed: %w", result.Command, err)
}

// RunAttached runs argv on the terminal's stdio and returns its exit code.
// A command that exits non-zero is not an error; one that cannot start is.
func RunAttached(ctx context.Context, argv []string) (int, error) {
	if len(argv) == 0 {
		return -1, fmt.Errorf("empty command")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, fmt.Errorf("failed to run %s: %w", argv[0], err)
	}
	return 0, nil
}
