// Package bootstrap rebuilds and relaunches the build program when its own source changed.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/ai-kana/kb/internal/core/domain"
	"github.com/ai-kana/kb/internal/core/ports"
	"go.trai.ch/zerr"
)

// State is the result of comparing the build program's source with its binary.
type State uint8

const (
	// Fresh means the binary is at least as new as its source.
	Fresh State = iota
	// Stale means the source is strictly newer than the binary.
	Stale
)

// String returns the string representation of the State.
func (s State) String() string {
	if s == Stale {
		return "stale"
	}
	return "fresh"
}

// LaunchFunc starts binary with args, waits for it, and returns its error.
type LaunchFunc func(ctx context.Context, binary string, args []string, stdout, stderr io.Writer) error

// Rebuilder runs the one-shot self-rebuild check at program start.
type Rebuilder struct {
	executor ports.Executor
	oracle   ports.StalenessOracle
	logger   ports.Logger

	stdout io.Writer
	stderr io.Writer
	args   []string
	launch LaunchFunc
	exit   func(code int)
}

// NewRebuilder creates a new Rebuilder that relaunches with the current process arguments.
func NewRebuilder(executor ports.Executor, oracle ports.StalenessOracle, logger ports.Logger) *Rebuilder {
	return &Rebuilder{
		executor: executor,
		oracle:   oracle,
		logger:   logger,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		args:     os.Args[1:],
		launch:   launchProcess,
		exit:     os.Exit,
	}
}

// WithOutput redirects the echoed command line and the output of the rebuild and the relaunched binary.
func (r *Rebuilder) WithOutput(stdout, stderr io.Writer) *Rebuilder {
	r.stdout = stdout
	r.stderr = stderr
	return r
}

// WithArgs sets the arguments passed to the relaunched binary.
func (r *Rebuilder) WithArgs(args []string) *Rebuilder {
	r.args = args
	return r
}

// WithLauncher replaces the process launcher.
func (r *Rebuilder) WithLauncher(launch LaunchFunc) *Rebuilder {
	r.launch = launch
	return r
}

// WithExit replaces the function terminating the process.
func (r *Rebuilder) WithExit(exit func(code int)) *Rebuilder {
	r.exit = exit
	return r
}

// Check reports whether spec's binary needs rebuilding. It has no side effects.
func (r *Rebuilder) Check(spec domain.SelfSpec) State {
	if r.oracle.IsStale(spec.Source, spec.Binary) {
		return Stale
	}
	return Fresh
}

// Rebuild runs the check and acts on its result.
//
// A Fresh program is left alone and Rebuild returns normally. A Stale program is
// recompiled with spec.CommandLine(), the new binary is launched with the same
// arguments, and the process exits with code 0. Neither the compiler's nor the
// relaunched binary's failure is retried; both are logged.
func (r *Rebuilder) Rebuild(ctx context.Context, spec domain.SelfSpec) State {
	spec = withDefaults(spec)

	if r.Check(spec) == Fresh {
		r.logger.Info("recompile not needed")
		return Fresh
	}

	r.logger.Info("recompiling self")

	cmdline := spec.CommandLine()
	_, _ = io.WriteString(r.stdout, cmdline+"\n")
	if err := r.executor.Execute(ctx, cmdline, r.stdout, r.stderr); err != nil {
		r.logger.Warn(fmt.Sprintf("self rebuild failed: %v", err))
	}

	if err := r.launch(ctx, executablePath(spec.Binary), r.args, r.stdout, r.stderr); err != nil {
		r.logger.Error(zerr.With(zerr.Wrap(err, domain.ErrSelfRebuildFailed.Error()), "binary", spec.Binary))
	}

	r.exit(0)
	return Stale
}

func withDefaults(spec domain.SelfSpec) domain.SelfSpec {
	defaults := domain.DefaultSelfSpec()
	if spec.Compiler == "" {
		spec.Compiler = defaults.Compiler
	}
	if spec.Source == "" {
		spec.Source = defaults.Source
	}
	if spec.Binary == "" {
		spec.Binary = defaults.Binary
	}
	return spec
}

// executablePath makes a bare binary name resolve against the working directory instead of PATH.
func executablePath(binary string) string {
	if filepath.IsAbs(binary) || filepath.Base(binary) != binary {
		return binary
	}
	return "." + string(filepath.Separator) + binary
}

func launchProcess(ctx context.Context, binary string, args []string, stdout, stderr io.Writer) error {
	//nolint:gosec // The binary is the build program that was just rebuilt.
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}
