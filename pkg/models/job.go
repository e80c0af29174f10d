package models

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a processing job.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// IsTerminal reports whether no further transition is allowed.
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job tracks one batch of uploaded files. The API returns a job_id on POST /api/v1/jobs;
// the client polls GET /api/v1/jobs/{job_id} until status is completed or failed.
type Job struct {
	ID            uuid.UUID `db:"id"            json:"id"`
	FileNames     []string  `db:"file_names"    json:"file_names"`
	Status        JobStatus `db:"status"        json:"status"`
	Transcription *string   `db:"transcription" json:"transcription,omitempty"`
	Translation   *string   `db:"translation"   json:"translation,omitempty"`
	Summary       *string   `db:"summary"       json:"summary,omitempty"`
	Error         *string   `db:"error"         json:"error,omitempty"`
	CreatedAt     time.Time `db:"created_at"    json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"    json:"updated_at"`
}

// InputFile is one uploaded file. It is never persisted.
type InputFile struct {
	Name      string
	MediaType string
	Content   []byte
}
