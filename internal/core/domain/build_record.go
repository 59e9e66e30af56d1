package domain

import (
	"path/filepath"
	"time"
)

// BuildRecord describes an artifact produced by a submission.
// Records are kept so that `kb clean` can remove exactly what was built.
type BuildRecord struct {
	Artifact  string      `json:"artifact,omitzero"`
	// Dir is the working directory the command ran in. Artifact is relative to it unless absolute.
	Dir       string      `json:"dir,omitzero"`
	Sources   []string    `json:"sources,omitzero"`
	Command   string      `json:"command,omitzero"`
	Kind      CommandKind `json:"kind"`
	RunID     string      `json:"run_id,omitzero"`
	ExitCode  int         `json:"exit_code"`
	Timestamp time.Time   `json:"timestamp,omitzero"`
}

// Path returns the location of the artifact, resolving a relative Artifact against Dir.
func (r BuildRecord) Path() string {
	if filepath.IsAbs(r.Artifact) || r.Dir == "" {
		return r.Artifact
	}
	return filepath.Join(r.Dir, r.Artifact)
}
