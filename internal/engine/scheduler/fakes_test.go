package scheduler_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
)

// recordingExecutor records every command line it is asked to run.
type recordingExecutor struct {
	mu       sync.Mutex
	cmdlines []string
	counts   map[string]int
	stdout   io.Writer
	stderr   io.Writer

	running     atomic.Int32
	maxParallel atomic.Int32

	// fail lists command lines that exit with status 1.
	fail map[string]bool
	// hook runs before a command line is recorded.
	hook func(cmdline string)
}

func newRecordingExecutor() *recordingExecutor {
	return &recordingExecutor{counts: make(map[string]int), fail: make(map[string]bool)}
}

func (e *recordingExecutor) Execute(_ context.Context, cmdline string, stdout, stderr io.Writer) error {
	n := e.running.Add(1)
	defer e.running.Add(-1)
	for {
		m := e.maxParallel.Load()
		if n <= m || e.maxParallel.CompareAndSwap(m, n) {
			break
		}
	}

	if e.hook != nil {
		e.hook(cmdline)
	}

	e.mu.Lock()
	e.cmdlines = append(e.cmdlines, cmdline)
	e.counts[cmdline]++
	e.stdout, e.stderr = stdout, stderr
	failed := e.fail[cmdline]
	e.mu.Unlock()

	if failed {
		return exitError{code: 1, cmdline: cmdline}
	}
	return nil
}

func (e *recordingExecutor) Cmdlines() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.cmdlines...)
}

// Outputs returns the writers handed to the latest command.
func (e *recordingExecutor) Outputs() (io.Writer, io.Writer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stdout, e.stderr
}

func (e *recordingExecutor) Count(cmdline string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counts[cmdline]
}

type exitError struct {
	code    int
	cmdline string
}

func (e exitError) Error() string { return fmt.Sprintf("%s: exit status %d", e.cmdline, e.code) }

func (e exitError) ExitCode() int { return e.code }

// staleOracle reports every file as stale unless listed in fresh.
type staleOracle struct {
	fresh map[string]bool
}

func (o staleOracle) IsStale(source, _ string) bool {
	return !o.fresh[source]
}

// nopLogger drops every message.
type nopLogger struct{}

func (nopLogger) Info(string) {}
func (nopLogger) Warn(string) {}
func (nopLogger) Error(error) {}
