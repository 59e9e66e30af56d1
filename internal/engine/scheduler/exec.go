package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ai-kana/kb/internal/core/domain"
	"github.com/ai-kana/kb/internal/core/ports"
)

// echo prints cmdline on its own line.
func (s *Scheduler) echo(cmdline string) {
	s.printMu.Lock()
	defer s.printMu.Unlock()
	_, _ = io.WriteString(s.stdout, cmdline+"\n")
}

// lockedWriter serializes writes through the scheduler's print lock.
type lockedWriter struct {
	s *Scheduler
	w io.Writer
}

func (l lockedWriter) Write(p []byte) (int, error) {
	l.s.printMu.Lock()
	defer l.s.printMu.Unlock()
	return l.w.Write(p)
}

// stream returns the writer a command writes one of its output streams to.
// Unless a vertex captures the stream, a file is handed over as is so the
// command inherits it the way a child of the shell would.
func (s *Scheduler) stream(w, capture io.Writer) io.Writer {
	if capture != nil {
		return io.MultiWriter(lockedWriter{s: s, w: w}, capture)
	}
	if f, ok := w.(*os.File); ok {
		return f
	}
	return lockedWriter{s: s, w: w}
}

// record starts a vertex for name on the submission's tracer, if any.
func (sub *submission) record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	tracer := sub.opts.Telemetry
	if tracer == nil {
		tracer = sub.s.tracer
	}
	if tracer == nil {
		return ctx, nil
	}
	return tracer.Record(ctx, name)
}

// job is one shell command producing one artifact.
type job struct {
	kind     domain.CommandKind
	artifact string
	sources  []string
	cmdline  string
}

// execute prints and runs j synchronously, recording its outcome.
// A failing command is logged and remembered; it never stops the submission.
func (sub *submission) execute(ctx context.Context, j job) {
	s := sub.s
	s.echo(j.cmdline)
	if sub.opts.DryRun {
		return
	}

	s.updateStatus(j.artifact, domain.StatusRunning)

	var captureOut, captureErr io.Writer
	vctx, vertex := sub.record(ctx, j.cmdline)
	if vertex != nil {
		captureOut, captureErr = vertex.Stdout(), vertex.Stderr()
	}

	err := s.executor.Execute(vctx, j.cmdline, s.stream(s.stdout, captureOut), s.stream(s.stderr, captureErr))
	if vertex != nil {
		vertex.Complete(err)
	}

	if err != nil {
		s.updateStatus(j.artifact, domain.StatusFailed)
		s.logger.Warn(fmt.Sprintf("command failed: %s: %v", j.cmdline, err))
		sub.fail(err)
	} else {
		s.updateStatus(j.artifact, domain.StatusCompleted)
	}

	sub.store(j, exitCode(err))
}

// skip records that j's artifact was up to date.
func (sub *submission) skip(ctx context.Context, j job) {
	s := sub.s
	s.updateStatus(j.artifact, domain.StatusUpToDate)
	if sub.opts.DryRun {
		return
	}
	if _, vertex := sub.record(ctx, j.cmdline); vertex != nil {
		vertex.Cached()
		vertex.Complete(nil)
	}
}

func (sub *submission) store(j job, code int) {
	s := sub.s
	if s.store == nil {
		return
	}
	dir, _ := os.Getwd()
	record := domain.BuildRecord{
		Artifact:  j.artifact,
		Dir:       dir,
		Sources:   j.sources,
		Command:   j.cmdline,
		Kind:      j.kind,
		RunID:     sub.opts.RunID,
		ExitCode:  code,
		Timestamp: time.Now(),
	}
	if err := s.store.Put(sub.opts.Root, record); err != nil {
		s.logger.Warn(fmt.Sprintf("failed to record %s: %v", j.artifact, err))
	}
}

// exitCode extracts the exit status carried by err, or -1 if it carries none.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	return -1
}
