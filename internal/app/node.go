package app

import (
	"context"

	"github.com/ai-kana/kb/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"github.com/ai-kana/kb/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"github.com/ai-kana/kb/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"github.com/ai-kana/kb/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"github.com/ai-kana/kb/internal/adapters/watcher"            //nolint:depguard // Wired in app layer
	"github.com/ai-kana/kb/internal/core/ports"
	"github.com/ai-kana/kb/internal/engine/bootstrap"
	"github.com/ai-kana/kb/internal/engine/scheduler"
	"github.com/grindlemire/graft"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components holds the values the command line layer needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			scheduler.NodeID,
			bootstrap.NodeID,
			cas.NodeID,
			progrock.NodeID,
			logger.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}

	rebuilder, err := graft.Dep[*bootstrap.Rebuilder](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.BuildInfoStore](ctx)
	if err != nil {
		return nil, err
	}

	journals, err := graft.Dep[ports.TelemetryOpener](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, sched, rebuilder, store, journals, log, w), nil
}
