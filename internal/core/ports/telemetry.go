package ports

import (
	"context"
	"io"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Telemetry records one vertex per executed command.
type Telemetry interface {
	// Record starts recording a new vertex named after the command it tracks.
	// The returned Vertex is nil when nothing is recorded.
	Record(ctx context.Context, name string) (context.Context, Vertex)
	// Close flushes and closes the recording session.
	Close() error
}

// TelemetryOpener opens telemetry sessions that persist what they record.
type TelemetryOpener interface {
	// Open starts a session writing its journal to path.
	Open(path string) (Telemetry, error)
}

// Vertex represents the execution of one command.
type Vertex interface {
	// Stdout returns a writer that captures the command's standard output.
	Stdout() io.Writer
	// Stderr returns a writer that captures the command's error output.
	Stderr() io.Writer
	// Complete marks the vertex as finished, successfully when err is nil.
	Complete(err error)
	// Cached marks the vertex as skipped because its artifact was up to date.
	Cached()
}

type vertexKey struct{}

// ContextWithVertex returns a copy of ctx carrying v.
func ContextWithVertex(ctx context.Context, v Vertex) context.Context {
	return context.WithValue(ctx, vertexKey{}, v)
}

// VertexFromContext returns the vertex stored in ctx, if any.
func VertexFromContext(ctx context.Context) (Vertex, bool) {
	v, ok := ctx.Value(vertexKey{}).(Vertex)
	return v, ok
}
