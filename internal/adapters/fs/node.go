package fs

import (
	"context"

	"github.com/ai-kana/kb/internal/core/ports"
	"github.com/grindlemire/graft"
)

const (
	// OracleNodeID is the unique identifier for the staleness oracle Graft node.
	OracleNodeID graft.ID = "adapter.fs.oracle"
	// ListerNodeID is the unique identifier for the file lister Graft node.
	ListerNodeID graft.ID = "adapter.fs.lister"
)

func init() {
	graft.Register(graft.Node[ports.StalenessOracle]{
		ID:        OracleNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.StalenessOracle, error) {
			return NewOracle(), nil
		},
	})

	graft.Register(graft.Node[ports.FileLister]{
		ID:        ListerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FileLister, error) {
			return NewLister(), nil
		},
	})
}
