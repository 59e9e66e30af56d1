package bootstrap

import (
	"context"

	"github.com/ai-kana/kb/internal/adapters/fs"     //nolint:depguard // Wired in engine wiring
	"github.com/ai-kana/kb/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"github.com/ai-kana/kb/internal/adapters/shell"  //nolint:depguard // Wired in engine wiring
	"github.com/ai-kana/kb/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the self-rebuild Graft node.
const NodeID graft.ID = "engine.bootstrap"

func init() {
	graft.Register(graft.Node[*Rebuilder]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			shell.NodeID,
			fs.OracleNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Rebuilder, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}

			oracle, err := graft.Dep[ports.StalenessOracle](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewRebuilder(executor, oracle, log), nil
		},
	})
}
