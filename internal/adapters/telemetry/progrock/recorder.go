// Package progrock records executed commands as a progrock journal.
package progrock

import (
	"context"
	"io"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/ai-kana/kb/internal/core/domain"
	"github.com/ai-kana/kb/internal/core/ports"
	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/zerr"
)

// Opener implements ports.TelemetryOpener with progrock journals.
type Opener struct{}

// NewOpener creates a new Opener.
func NewOpener() *Opener {
	return &Opener{}
}

// Open creates or truncates the journal at path and records into it.
// Every status update becomes one JSON line.
func (o *Opener) Open(path string) (ports.Telemetry, error) {
	w, err := progrock.CreateJournal(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrJournalCreateFailed.Error()), "path", path)
	}
	return NewRecorder(w), nil
}

// Recorder implements ports.Telemetry by recording one progrock vertex per command.
type Recorder struct {
	rec *progrock.Recorder
	seq atomic.Uint64
}

// NewRecorder creates a new Recorder writing status updates to w.
// Updates from concurrent commands are serialized before they reach w.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{rec: progrock.NewRecorder(&serialWriter{w: w})}
}

// Record starts a vertex named after the command line.
// Every call gets its own vertex, so repeated submissions of the same command stay distinct.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	id := digest.FromString(strconv.FormatUint(r.seq.Add(1), 10) + "\x00" + name)
	vertex := commandVertex{r.rec.Vertex(id, name)}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close completes the root group and closes the journal.
func (r *Recorder) Close() error {
	r.rec.Complete()
	return r.rec.Close()
}

// serialWriter guards a progrock.Writer that is not safe for concurrent use.
type serialWriter struct {
	mu sync.Mutex
	w  progrock.Writer
}

func (s *serialWriter) WriteStatus(update *progrock.StatusUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.WriteStatus(update)
}

func (s *serialWriter) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Close()
}

// commandVertex is the vertex of one command.
// Its output streams become vertex logs in the journal.
type commandVertex struct {
	rec *progrock.VertexRecorder
}

func (v commandVertex) Stdout() io.Writer { return v.rec.Stdout() }

func (v commandVertex) Stderr() io.Writer { return v.rec.Stderr() }

// Complete marks the command as done, errored when err is non-nil.
func (v commandVertex) Complete(err error) { v.rec.Done(err) }

// Cached marks the command as skipped because its artifact was up to date.
func (v commandVertex) Cached() { v.rec.Cached() }
