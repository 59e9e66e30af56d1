package progrock

import (
	"context"

	"github.com/ai-kana/kb/internal/core/ports"
	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the journal opener Graft node.
const NodeID graft.ID = "adapter.telemetry.journal"

func init() {
	graft.Register(graft.Node[ports.TelemetryOpener]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.TelemetryOpener, error) {
			return NewOpener(), nil
		},
	})
}
