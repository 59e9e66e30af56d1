// Package app implements the application layer for kb.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ai-kana/kb/internal/adapters/watcher" //nolint:depguard // Debouncing is part of the watch loop
	"github.com/ai-kana/kb/internal/core/domain"
	"github.com/ai-kana/kb/internal/core/ports"
	"github.com/ai-kana/kb/internal/engine/bootstrap"
	"github.com/ai-kana/kb/internal/engine/scheduler"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	scheduler    *scheduler.Scheduler
	rebuilder    *bootstrap.Rebuilder
	store        ports.BuildInfoStore
	journals     ports.TelemetryOpener
	logger       ports.Logger
	watcher      ports.Watcher
	debounce     time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	sched *scheduler.Scheduler,
	rebuilder *bootstrap.Rebuilder,
	store ports.BuildInfoStore,
	journals ports.TelemetryOpener,
	log ports.Logger,
	w ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		scheduler:    sched,
		rebuilder:    rebuilder,
		store:        store,
		journals:     journals,
		logger:       log,
		watcher:      w,
		debounce:     watcher.DefaultDebounceWindow,
	}
}

// WithDebounceWindow sets how long Watch waits for file events to settle before resubmitting.
func (a *App) WithDebounceWindow(window time.Duration) *App {
	a.debounce = window
	return a
}

// RunOptions configuration for the Run and Watch methods.
type RunOptions struct {
	// ConfigPath is the build description to load.
	ConfigPath string
	// Buffers names the buffers to submit, in order. Empty means the project's entry buffer.
	Buffers []string
	// NoRebuild skips the self-rebuild check.
	NoRebuild bool
	// Strict fails the run when a command exits unsuccessfully.
	Strict bool
	// DryRun prints the commands without running them.
	DryRun bool
	// PoolSize overrides the pool size of every compilation pass when positive.
	PoolSize int
	// Journal is the file that records every executed command as a progrock
	// journal. Empty means no journal is written.
	Journal string
}

// Run loads the build description and submits the selected buffers once.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
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

	return a.submit(ctx, buffers, root, tracer, opts)
}

// prepare loads the project, runs the self-rebuild check,
// and resolves the buffers to submit.
func (a *App) prepare(ctx context.Context, opts RunOptions) ([]*domain.Buffer, error) {
	project, err := a.load(opts)
	if err != nil {
		return nil, err
	}

	if !opts.NoRebuild && !opts.DryRun {
		a.rebuilder.Rebuild(ctx, project.Self)
	}

	return resolve(project, opts.Buffers)
}

// reload loads the project again and resolves the buffers to submit.
// File listings of the build description are evaluated anew.
func (a *App) reload(opts RunOptions) ([]*domain.Buffer, error) {
	project, err := a.load(opts)
	if err != nil {
		return nil, err
	}
	return resolve(project, opts.Buffers)
}

// load reads the build description and its env files.
func (a *App) load(opts RunOptions) (*domain.Project, error) {
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = domain.ConfigFileName
	}

	project, err := a.configLoader.Load(configPath)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}

	if err := loadEnvFiles(project.EnvFiles); err != nil {
		return nil, err
	}
	return project, nil
}

// resolve returns the named buffers of project, or its entry buffer when names is empty.
func resolve(project *domain.Project, names []string) ([]*domain.Buffer, error) {
	if len(names) == 0 {
		names = []string{project.Entry}
	}

	buffers := make([]*domain.Buffer, 0, len(names))
	for _, name := range names {
		buf, ok := project.Buffer(name)
		if !ok {
			return nil, zerr.With(domain.ErrBufferNotFound, "buffer", name)
		}
		buffers = append(buffers, buf)
	}
	return buffers, nil
}

// submit runs buffers in order under one run ID.
func (a *App) submit(
	ctx context.Context,
	buffers []*domain.Buffer,
	root string,
	tracer ports.Telemetry,
	opts RunOptions,
) error {
	submitOpts := scheduler.SubmitOptions{
		Strict:    opts.Strict,
		DryRun:    opts.DryRun,
		PoolSize:  opts.PoolSize,
		RunID:     uuid.NewString(),
		Root:      root,
		Telemetry: tracer,
	}

	var errs error
	counts := make(map[domain.ArtifactStatus]int)
	for _, buf := range buffers {
		err := a.scheduler.Submit(ctx, buf, submitOpts)
		for _, status := range a.scheduler.Statuses() {
			counts[status]++
		}
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrBuildExecutionFailed) {
			return err
		}
		// Strict failures of one buffer do not stop the following buffers.
		errs = errors.Join(errs, err)
	}

	if !opts.DryRun {
		a.logger.Info(fmt.Sprintf(
			"%d built, %d up to date, %d failed",
			counts[domain.StatusCompleted],
			counts[domain.StatusUpToDate],
			counts[domain.StatusFailed],
		))
	}
	return errs
}

// openJournal opens the telemetry journal at path.
// It returns a nil Telemetry when path is empty.
func (a *App) openJournal(path string) (ports.Telemetry, error) {
	if path == "" {
		return nil, nil
	}
	return a.journals.Open(path)
}

func (a *App) closeTelemetry(tracer ports.Telemetry) {
	if tracer == nil {
		return
	}
	if err := tracer.Close(); err != nil {
		a.logger.Warn(fmt.Sprintf("failed to close telemetry: %v", err))
	}
}

// loadEnvFiles loads every file into the process environment.
// Variables that are already set are not overridden.
func loadEnvFiles(files []string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrEnvFileLoadFailed.Error()), "file", file)
		}
	}
	return nil
}
