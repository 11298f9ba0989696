package domain

import "slices"

type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusStopped    JobStatus = "stopped"
)

// AllowedFrom returns the statuses a job may move to s from.
// processing -> processing is a redelivered job being re-run.
func (s JobStatus) AllowedFrom() []JobStatus {
	switch s {
	case StatusProcessing:
		return []JobStatus{StatusQueued, StatusProcessing}
	case StatusCompleted, StatusFailed:
		return []JobStatus{StatusProcessing}
	case StatusStopped:
		return []JobStatus{StatusQueued, StatusProcessing}
	default:
		return nil
	}
}

func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusStopped
}

func (s JobStatus) Valid() bool {
	switch s {
	case StatusQueued, StatusProcessing, StatusCompleted, StatusFailed, StatusStopped:
		return true
	}
	return false
}

func CanTransition(from, to JobStatus) bool {
	return slices.Contains(to.AllowedFrom(), from)
}

type RecordStatus string

const (
	RecordPending RecordStatus = "pending"
	RecordSuccess RecordStatus = "success"
	RecordFailed  RecordStatus = "failed"
)
