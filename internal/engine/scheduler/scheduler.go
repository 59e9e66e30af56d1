// Package scheduler executes recorded command buffers.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/ai-kana/kb/internal/core/domain"
	"github.com/ai-kana/kb/internal/core/ports"
	"github.com/google/uuid"
	"go.trai.ch/zerr"
)

// SubmitOptions configures one submission.
type SubmitOptions struct {
	// Strict makes Submit return the command failures of the submission,
	// joined with domain.ErrBuildExecutionFailed, once the whole buffer ran.
	// By default failures are only logged.
	Strict bool
	// DryRun prints every command that would run without running it.
	DryRun bool
	// PoolSize overrides the pool size of every compilation pass when positive.
	PoolSize int
	// RunID identifies the submission in build records. A random ID is used when empty.
	RunID string
	// Root is the directory holding the build record store.
	// It defaults to the working directory at the time Submit is called.
	Root string
	// Telemetry records the commands of this submission instead of the
	// scheduler's own tracer when set.
	Telemetry ports.Telemetry
}

// Scheduler executes command buffers in recorded order.
//
// Every command line is printed to stdout right before it runs. Commands of
// one compilation pass run on a short-lived worker pool; everything else runs
// on the calling goroutine. A Scheduler must not be used by concurrent Submit
// calls: ChangeDirectory mutates the process working directory.
type Scheduler struct {
	executor ports.Executor
	oracle   ports.StalenessOracle
	store    ports.BuildInfoStore
	tracer   ports.Telemetry
	logger   ports.Logger

	// printMu serializes every write to stdout and stderr so echoed lines never interleave.
	printMu sync.Mutex
	stdout  io.Writer
	stderr  io.Writer

	mu     sync.RWMutex
	status map[string]domain.ArtifactStatus
}

// NewScheduler creates a new Scheduler writing to the process stdout and stderr.
// store and tracer may be nil, in which case nothing is recorded.
func NewScheduler(
	executor ports.Executor,
	oracle ports.StalenessOracle,
	store ports.BuildInfoStore,
	tracer ports.Telemetry,
	logger ports.Logger,
) *Scheduler {
	return &Scheduler{
		executor: executor,
		oracle:   oracle,
		store:    store,
		tracer:   tracer,
		logger:   logger,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		status:   make(map[string]domain.ArtifactStatus),
	}
}

// WithOutput redirects echoed command lines and command output.
func (s *Scheduler) WithOutput(stdout, stderr io.Writer) *Scheduler {
	s.stdout = stdout
	s.stderr = stderr
	return s
}

// Status returns the status of artifact in the latest submission.
func (s *Scheduler) Status(artifact string) (domain.ArtifactStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status, ok := s.status[artifact]
	return status, ok
}

// Statuses returns a copy of the artifact statuses of the latest submission.
func (s *Scheduler) Statuses() map[string]domain.ArtifactStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	statuses := make(map[string]domain.ArtifactStatus, len(s.status))
	for k, v := range s.status {
		statuses[k] = v
	}
	return statuses
}

func (s *Scheduler) resetStatuses() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.status)
}

func (s *Scheduler) updateStatus(artifact string, status domain.ArtifactStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status[artifact] = status
}

// Submit executes every command recorded in buf, in order.
//
// Secondary commands submit the referenced buffer recursively before the next
// command runs. A buffer that re-enters itself through Secondary commands fails
// with domain.ErrCycleDetected; a destroyed buffer fails with
// domain.ErrBufferDestroyed. Commands that already ran are not undone.
//
// When ctx is cancelled, no further command is started, running commands are
// killed, and Submit returns the context error.
func (s *Scheduler) Submit(ctx context.Context, buf *domain.Buffer, opts SubmitOptions) error {
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	if opts.Root == "" {
		opts.Root = "."
		if wd, err := os.Getwd(); err == nil {
			opts.Root = wd
		}
	}

	s.resetStatuses()

	sub := &submission{
		s:      s,
		opts:   opts,
		active: make(map[*domain.Buffer]bool),
	}
	if err := sub.run(ctx, buf); err != nil {
		return err
	}

	if opts.Strict && sub.failures != nil {
		return errors.Join(domain.ErrBuildExecutionFailed, sub.failures)
	}
	return nil
}

// submission holds the state of one top-level Submit call.
type submission struct {
	s    *Scheduler
	opts SubmitOptions

	// active holds the buffers currently being executed, outermost first.
	active map[*domain.Buffer]bool

	mu       sync.Mutex
	failures error
}

func (sub *submission) run(ctx context.Context, buf *domain.Buffer) error {
	switch {
	case buf == nil:
		return domain.ErrNilBuffer
	case buf.Destroyed():
		return domain.ErrBufferDestroyed
	case sub.active[buf]:
		return domain.ErrCycleDetected
	}

	sub.active[buf] = true
	defer delete(sub.active, buf)

	for i, cmd := range buf.Commands() {
		if err := ctx.Err(); err != nil {
			return err
		}

		var err error
		switch c := cmd.(type) {
		case domain.CompilationPass:
			err = sub.compile(ctx, c)
		case domain.LinkPass:
			err = sub.link(ctx, c)
		case domain.Secondary:
			err = sub.run(ctx, c.Buffer)
		case domain.ChangeDirectory:
			sub.changeDirectory(c)
		default:
			err = zerr.With(domain.ErrUnknownCommand, "index", i)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (sub *submission) changeDirectory(c domain.ChangeDirectory) {
	if err := os.Chdir(c.Path); err != nil {
		err = zerr.With(zerr.Wrap(err, domain.ErrChangeDirectoryFailed.Error()), "path", c.Path)
		sub.s.logger.Warn(fmt.Sprintf("failed to change directory to %s: %v", c.Path, err))
		sub.fail(err)
	}
}

func (sub *submission) fail(err error) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	sub.failures = errors.Join(sub.failures, err)
}
