// Package telemetry provides telemetry adapters that record executed commands.
package telemetry

import (
	"context"

	"github.com/ai-kana/kb/internal/core/ports"
)

// NoOp is a ports.Telemetry that records nothing.
// Commands run under it keep the process output streams.
type NoOp struct{}

// NewNoOp creates a new NoOp telemetry.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Record returns ctx unchanged and no vertex.
func (t *NoOp) Record(ctx context.Context, _ string) (context.Context, ports.Vertex) {
	return ctx, nil
}

// Close does nothing.
func (t *NoOp) Close() error { return nil }
