package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ai-kana/kb/internal/adapters/watcher" //nolint:depguard // Debouncing is part of the watch loop
	"github.com/ai-kana/kb/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Watch submits the selected buffers once, then again whenever a file below
// the working directory changes, until ctx is cancelled.
//
// Every resubmission starts from the original working directory and loads the
// build description again, so edits to it and files matched by its listings
// are picked up. Changes to object files and to artifacts built by a previous
// submission are ignored.
func (a *App) Watch(ctx context.Context, opts RunOptions) error {
	tracer, err := a.openJournal(opts.Journal)
	if err != nil {
		return err
	}
	defer a.closeTelemetry(tracer)

	buffers, err := a.prepare(ctx, opts)
	if err != nil {
		return err
	}

	root, err := os.Getwd()
	if err != nil {
		return zerr.Wrap(err, "failed to get working directory")
	}

	artifacts := &artifactSet{paths: make(map[string]bool)}
	build := func(buffers []*domain.Buffer) error {
		err := a.submit(ctx, buffers, root, tracer, opts)
		artifacts.addAll(root, a.scheduler.Statuses())
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, domain.ErrBuildExecutionFailed) {
			a.logger.Error(err)
			return nil
		}
		return err
	}

	rebuild := func() error {
		if err := os.Chdir(root); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrChangeDirectoryFailed.Error()), "path", root)
		}
		buffers, err := a.reload(opts)
		if err != nil {
			// A half-edited build description must not end the watch.
			a.logger.Error(err)
			return nil
		}
		return build(buffers)
	}

	if err := build(buffers); err != nil {
		return err
	}

	if err := a.watcher.Start(ctx, root); err != nil {
		return zerr.Wrap(err, domain.ErrWatcherFailed.Error())
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	trigger := make(chan struct{}, 1)
	debouncer := watcher.NewDebouncer(a.debounce, func([]string) {
		select {
		case trigger <- struct{}{}:
		default:
		}
	})

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		for event := range a.watcher.Events() {
			if ignored(event.Path, artifacts) {
				continue
			}
			debouncer.Add(event.Path)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return a.watcher.Stop()
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-trigger:
				a.logger.Info("change detected, resubmitting")
				if err := rebuild(); err != nil {
					return err
				}
			}
		}
	})

	return g.Wait()
}

// artifactSet holds the absolute paths of artifacts produced while watching.
type artifactSet struct {
	mu    sync.RWMutex
	paths map[string]bool
}

func (s *artifactSet) addAll(root string, statuses map[string]domain.ArtifactStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for artifact := range statuses {
		if !filepath.IsAbs(artifact) {
			artifact = filepath.Join(root, artifact)
		}
		s.paths[filepath.Clean(artifact)] = true
	}
}

func (s *artifactSet) contains(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.paths[filepath.Clean(path)]
}

func ignored(path string, artifacts *artifactSet) bool {
	if strings.HasSuffix(path, domain.ObjectExtension) {
		return true
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return artifacts.contains(path)
}
