package config

import (
	"context"

	"github.com/ai-kana/kb/internal/adapters/fs"
	"github.com/ai-kana/kb/internal/adapters/logger"
	"github.com/ai-kana/kb/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the configuration loader Graft node.
const NodeID graft.ID = "adapter.config_loader"

func init() {
	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, fs.ListerNodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			lister, err := graft.Dep[ports.FileLister](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log, lister), nil
		},
	})
}
