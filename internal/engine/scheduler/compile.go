package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/ai-kana/kb/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

// unit is one file of a compilation pass. Units that are not stale carry no work.
type unit struct {
	job
	stale bool
}

// plan asks the oracle about every file of pass.
func (sub *submission) plan(pass domain.CompilationPass) []unit {
	units := make([]unit, len(pass.Files))
	for i, file := range pass.Files {
		object := pass.ObjectPath(file)
		units[i] = unit{
			job: job{
				kind:     domain.KindCompilationPass,
				artifact: object,
				sources:  []string{file},
				cmdline:  pass.CommandLine(file, object),
			},
			stale: sub.s.oracle.IsStale(file, object),
		}
		if units[i].stale {
			sub.s.updateStatus(object, domain.StatusPending)
		}
	}
	return units
}

// cursor hands out the indices of stale units to workers, each exactly once.
type cursor struct {
	mu    sync.Mutex
	next  int
	units []unit
}

// claim returns the next stale unit and advances past it.
// The lock is held only while scanning, never while a command runs.
func (c *cursor) claim() (unit, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.next < len(c.units) {
		u := c.units[c.next]
		c.next++
		if u.stale {
			return u, true
		}
	}
	return unit{}, false
}

// compile runs the stale units of pass on a pool of pass.Workers() goroutines
// and returns once every worker has exited.
func (sub *submission) compile(ctx context.Context, pass domain.CompilationPass) error {
	if sub.opts.PoolSize > 0 {
		pass.PoolSize = sub.opts.PoolSize
	}

	units := sub.plan(pass)
	for _, u := range units {
		if !u.stale {
			sub.skip(ctx, u.job)
		}
	}

	if !sub.opts.DryRun {
		_ = os.MkdirAll(pass.BuildDir, domain.OutputDirPerm)
	}

	work := &cursor{units: units}
	var g errgroup.Group
	for range pass.Workers() {
		g.Go(func() error {
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				u, ok := work.claim()
				if !ok {
					return nil
				}
				if !sub.opts.DryRun {
					_ = os.MkdirAll(filepath.Dir(u.artifact), domain.OutputDirPerm)
				}
				sub.execute(ctx, u.job)
			}
		})
	}
	return g.Wait()
}
