package domain

import "strings"

// ArtifactStatus represents the lifecycle state of one artifact within a submission.
type ArtifactStatus string

const (
	// StatusPending indicates the artifact is planned but no worker has claimed it yet.
	StatusPending ArtifactStatus = "pending"
	// StatusRunning indicates the command producing the artifact is executing.
	StatusRunning ArtifactStatus = "running"
	// StatusCompleted indicates the command exited successfully.
	StatusCompleted ArtifactStatus = "completed"
	// StatusFailed indicates the command could not be run or exited unsuccessfully.
	StatusFailed ArtifactStatus = "failed"
	// StatusUpToDate indicates the artifact was newer than its source and no command ran.
	StatusUpToDate ArtifactStatus = "up-to-date"
)

// IsTerminal checks if a status is a terminal state (Completed, Failed, UpToDate).
func (s ArtifactStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusUpToDate:
		return true
	default:
		return false
	}
}

// NormalizeArtifactStatus converts a string to an ArtifactStatus, defaulting to pending if unknown.
func NormalizeArtifactStatus(s string) ArtifactStatus {
	switch strings.ToLower(s) {
	case string(StatusRunning):
		return StatusRunning
	case string(StatusCompleted):
		return StatusCompleted
	case string(StatusFailed):
		return StatusFailed
	case string(StatusUpToDate):
		return StatusUpToDate
	default:
		return StatusPending
	}
}
