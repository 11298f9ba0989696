package domain

import "time"

// IngestionJob is the tracker of one uploaded file.
type IngestionJob struct {
	ID          string     `db:"id"          json:"_id"`
	Owner       string     `db:"owner"       json:"userEmail"`
	SourcePath  string     `db:"source_path" json:"-"`
	Fingerprint string     `db:"fingerprint" json:"-"`
	Total       int        `db:"total"       json:"total"`
	Processed   int        `db:"processed"   json:"processed"`
	Success     int        `db:"success"     json:"success"`
	Failed      int        `db:"failed"      json:"failed"`
	Errors      []RowError `db:"errors"      json:"processingErrors"`
	Status      JobStatus  `db:"status"      json:"status"`
	CreatedAt   time.Time  `db:"created_at"  json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at"  json:"updatedAt"`
}

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// JobUpdate lists the tracker fields to change. Nil fields are left untouched.
type JobUpdate struct {
	Status    *JobStatus
	Total     *int
	Processed *int
	Success   *int
	Failed    *int
	Errors    []RowError // replaces the stored list

	// AppendErrors is added to the stored list after Errors is applied.
	AppendErrors []RowError
}

func (u JobUpdate) Empty() bool {
	return u.Status == nil && u.Total == nil && u.Processed == nil &&
		u.Success == nil && u.Failed == nil && u.Errors == nil && len(u.AppendErrors) == 0
}

// Apply mirrors the update onto an in-memory copy of the tracker.
func (u JobUpdate) Apply(job *IngestionJob) {
	if u.Status != nil {
		job.Status = *u.Status
	}
	if u.Total != nil {
		job.Total = *u.Total
	}
	if u.Processed != nil {
		job.Processed = *u.Processed
	}
	if u.Success != nil {
		job.Success = *u.Success
	}
	if u.Failed != nil {
		job.Failed = *u.Failed
	}
	if u.Errors != nil {
		job.Errors = u.Errors
	}
	if len(u.AppendErrors) > 0 {
		job.Errors = append(job.Errors, u.AppendErrors...)
	}
}

// JobEnvelope is the queue payload. The tracker holds the mutable state.
type JobEnvelope struct {
	SourcePath string `json:"path"`
	Owner      string `json:"userEmail"`
	JobID      string `json:"fileProcessId"`
}

// Delivery is an envelope handed to one consumer, acknowledged once handled.
type Delivery struct {
	Envelope *JobEnvelope
	Receipt  string
}

type Summary struct {
	Total   int        `json:"total"`
	Success int        `json:"success"`
	Failed  int        `json:"failed"`
	Errors  []RowError `json:"errors"`
}

type History struct {
	List                []*IngestionJob `json:"list"`
	CurrentProcessingID *string         `json:"currentProcessingId"`
}
