// Package kb records build actions into command buffers and executes them.
//
// A build program creates buffers, records compilation passes, link passes,
// nested buffers and working directory changes into them, then submits them:
//
//	objects := kb.NewBuffer()
//	objects.AddCompilationPass(kb.CompilationPass{
//		Files:    kb.FileSet{"main.c", "util.c"},
//		Flags:    "-Wall",
//		Compiler: "cc",
//		BuildDir: "obj",
//	})
//
//	main := kb.NewBuffer()
//	main.AddSecondary(objects)
//	main.AddLinkPass(kb.LinkPass{
//		Files:      kb.FileSet{"obj/main.o", "obj/util.o"},
//		Linker:     "cc",
//		BuildDir:   ".",
//		OutputName: "app",
//	})
//
//	if err := kb.Submit(ctx, main); err != nil {
//		log.Fatal(err)
//	}
//
// Every command line is printed to stdout right before it runs.
package kb

import (
	"context"
	"io"
	"os"

	"github.com/ai-kana/kb/internal/adapters/cas"
	"github.com/ai-kana/kb/internal/adapters/fs"
	"github.com/ai-kana/kb/internal/adapters/logger"
	"github.com/ai-kana/kb/internal/adapters/shell"
	"github.com/ai-kana/kb/internal/adapters/telemetry"
	"github.com/ai-kana/kb/internal/adapters/telemetry/progrock"
	"github.com/ai-kana/kb/internal/core/domain"
	"github.com/ai-kana/kb/internal/core/ports"
	"github.com/ai-kana/kb/internal/engine/bootstrap"
	"github.com/ai-kana/kb/internal/engine/scheduler"
)

type (
	// Buffer is an ordered, append-only list of recorded commands.
	Buffer = domain.Buffer
	// Command is a single recorded build action.
	Command = domain.Command
	// FileSet is an ordered sequence of file names.
	FileSet = domain.FileSet
	// CompilationPass compiles every file into one object file.
	CompilationPass = domain.CompilationPass
	// LinkPass combines files into a single output artifact.
	LinkPass = domain.LinkPass
	// Secondary nests another buffer's commands.
	Secondary = domain.Secondary
	// ChangeDirectory changes the process working directory.
	ChangeDirectory = domain.ChangeDirectory
)

var (
	// ErrBufferDestroyed is returned when a destroyed buffer is submitted.
	ErrBufferDestroyed = domain.ErrBufferDestroyed
	// ErrNilBuffer is returned when a nil buffer is submitted.
	ErrNilBuffer = domain.ErrNilBuffer
	// ErrCycleDetected is returned when a buffer re-enters itself through Secondary commands.
	ErrCycleDetected = domain.ErrCycleDetected
	// ErrBuildExecutionFailed is returned by a strict submission when a command failed.
	ErrBuildExecutionFailed = domain.ErrBuildExecutionFailed
)

// NewBuffer creates an empty Buffer.
func NewBuffer() *Buffer {
	return domain.NewBuffer()
}

type options struct {
	strict   bool
	dryRun   bool
	poolSize int
	records  bool
	shell    string
	stdout   io.Writer
	stderr   io.Writer
	logs     io.Writer
	journal  string
	self     domain.SelfSpec
	args     []string
}

// Option configures Submit and RebuildSelf.
type Option func(*options)

// WithStrict makes Submit report failed commands as an error wrapping ErrBuildExecutionFailed.
func WithStrict() Option {
	return func(o *options) { o.strict = true }
}

// WithDryRun prints commands without running them.
func WithDryRun() Option {
	return func(o *options) { o.dryRun = true }
}

// WithPoolSize overrides the worker pool size of every compilation pass.
func WithPoolSize(n int) Option {
	return func(o *options) { o.poolSize = n }
}

// WithBuildRecords stores a record of every produced artifact below the
// working directory, so that `kb clean` can remove them.
func WithBuildRecords() Option {
	return func(o *options) { o.records = true }
}

// WithShell sets the shell that runs command lines. The default is sh.
func WithShell(shell string) Option {
	return func(o *options) { o.shell = shell }
}

// WithOutput redirects echoed command lines and command output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(o *options) {
		o.stdout = stdout
		o.stderr = stderr
	}
}

// WithJournal records every executed command and its output as a progrock
// journal in path, one JSON status update per line. Command output is then
// copied into the journal instead of being inherited by the commands.
func WithJournal(path string) Option {
	return func(o *options) { o.journal = path }
}

// WithLogOutput redirects warnings and status messages. The default is stderr.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) { o.logs = w }
}

// WithSelf sets the source and binary RebuildSelf compares.
func WithSelf(source, binary string) Option {
	return func(o *options) {
		o.self.Source = source
		o.self.Binary = binary
	}
}

// WithArgs sets the arguments RebuildSelf passes to the relaunched binary.
// The default is the arguments of the current process.
func WithArgs(args ...string) Option {
	return func(o *options) { o.args = args }
}

func newOptions(opts []Option) *options {
	o := &options{
		shell:  shell.DefaultShell,
		stdout: os.Stdout,
		stderr: os.Stderr,
		logs:   os.Stderr,
		self:   domain.DefaultSelfSpec(),
		args:   os.Args[1:],
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) logger() ports.Logger {
	log := logger.New()
	if l, ok := log.(interface{ SetOutput(w io.Writer) }); ok {
		l.SetOutput(o.logs)
	}
	return log
}

// Submit executes every command recorded in buf, in order.
//
// Command failures are logged and do not stop the submission unless
// WithStrict is given. Submit returns an error when buf, or a buffer it
// references, is destroyed or re-entered, and when ctx is cancelled.
func Submit(ctx context.Context, buf *Buffer, opts ...Option) error {
	o := newOptions(opts)

	var store ports.BuildInfoStore
	if o.records {
		s, err := cas.NewStore()
		if err != nil {
			return err
		}
		store = s
	}

	var tracer ports.Telemetry = telemetry.NewNoOp()
	if o.journal != "" {
		journal, err := progrock.NewOpener().Open(o.journal)
		if err != nil {
			return err
		}
		tracer = journal
	}
	defer func() { _ = tracer.Close() }()

	sched := scheduler.NewScheduler(
		shell.NewExecutor().WithShell(o.shell),
		fs.NewOracle(),
		store,
		tracer,
		o.logger(),
	).WithOutput(o.stdout, o.stderr)

	return sched.Submit(ctx, buf, scheduler.SubmitOptions{
		Strict:   o.strict,
		DryRun:   o.dryRun,
		PoolSize: o.poolSize,
	})
}

// RebuildSelf rebuilds the build program when its source is newer than its binary.
//
// When the binary is up to date RebuildSelf returns. Otherwise it runs
// "<compiler> -o <binary> <source>", runs the new binary with the same
// arguments, and exits the process with code 0. An empty compiler means cc.
func RebuildSelf(ctx context.Context, compiler string, opts ...Option) {
	o := newOptions(opts)
	spec := o.self
	spec.Compiler = compiler

	bootstrap.NewRebuilder(shell.NewExecutor().WithShell(o.shell), fs.NewOracle(), o.logger()).
		WithOutput(o.stdout, o.stderr).
		WithArgs(o.args).
		Rebuild(ctx, spec)
}

// IsStale reports whether source is newer than target.
// A missing source is never stale; a missing target always is.
func IsStale(source, target string) bool {
	return fs.IsStale(source, target)
}

// ListFiles returns the files directly inside dir whose names end in ext,
// sorted and joined with dir. Names starting with "kb" are skipped.
func ListFiles(dir, ext string) ([]string, error) {
	return fs.NewLister().ListFiles(dir, ext)
}
