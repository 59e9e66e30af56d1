package telemetry

import (
	"context"

	"github.com/ai-kana/kb/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the default telemetry Graft node.
const NodeID graft.ID = "adapter.telemetry"

func init() {
	graft.Register(graft.Node[ports.Telemetry]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Telemetry, error) {
			return NewNoOp(), nil
		},
	})
}
