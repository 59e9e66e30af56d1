package scheduler

import (
	"context"

	"github.com/ai-kana/kb/internal/adapters/cas"                //nolint:depguard // Wired in engine wiring
	"github.com/ai-kana/kb/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"github.com/ai-kana/kb/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"github.com/ai-kana/kb/internal/adapters/shell"              //nolint:depguard // Wired in engine wiring
	"github.com/ai-kana/kb/internal/adapters/telemetry"          //nolint:depguard // Wired in engine wiring
	"github.com/ai-kana/kb/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the scheduler Graft node.
const NodeID graft.ID = "engine.scheduler"

func init() {
	graft.Register(graft.Node[*Scheduler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			fs.OracleNodeID,
			cas.NodeID,
			telemetry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Scheduler, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			oracle, err := graft.Dep[ports.StalenessOracle](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.BuildInfoStore](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewScheduler(executor, oracle, store, tracer, log), nil
		},
	})
}
