// Package shell provides a shell-based executor for running command lines.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/ai-kana/kb/internal/core/domain"
	"go.trai.ch/zerr"
)

const (
	// DefaultShell is the interpreter used to run command lines.
	DefaultShell = "sh"

	// waitDelay bounds how long output pipes stay open once the command exited
	// or was cancelled.
	waitDelay = 500 * time.Millisecond
)

// Executor implements ports.Executor by handing each command line to the shell.
type Executor struct {
	shell string
	stdin io.Reader
}

// NewExecutor creates a new Executor using DefaultShell.
func NewExecutor() *Executor {
	return &Executor{
		shell: DefaultShell,
		stdin: os.Stdin,
	}
}

// WithShell returns a copy of the executor that runs command lines with shell.
func (e *Executor) WithShell(shell string) *Executor {
	cp := *e
	cp.shell = shell
	return &cp
}

// Execute runs cmdline with `sh -c` and waits for it to complete.
//
// The command inherits the environment and the current working directory of
// the process. Cancelling ctx kills the command. Writers that are files are
// inherited directly; other writers are fed through pipes, which a background
// process left behind by a successful command may keep open for at most
// waitDelay without failing the command.
func (e *Executor) Execute(ctx context.Context, cmdline string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, e.shell, "-c", cmdline) //nolint:gosec // command lines come from the build description
	cmd.Stdin = e.stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if errors.Is(err, exec.ErrWaitDelay) && ctx.Err() == nil {
		return nil
	}
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		err = zerr.Wrap(err, domain.ErrCommandFailed.Error())
		err = zerr.With(err, "command", cmdline)
		return zerr.With(err, "exit_code", exitCode)
	}

	return nil
}
