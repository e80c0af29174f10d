package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/banglify/pkg/models"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrDuplicateKey      = errors.New("duplicate key violation")
	ErrInvalidTransition = errors.New("invalid job status transition")
	ErrIncompleteResults = errors.New("completed job requires transcription, translation and summary")
)

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	// UpdateJobStatus moves a processing job to a terminal status. A job
	// that is already terminal is left untouched and ErrInvalidTransition is returned.
	UpdateJobStatus(ctx context.Context, id uuid.UUID, status models.JobStatus, opts ...JobUpdateOption) error
}

// JobUpdate is the set of columns written alongside a terminal status.
type JobUpdate struct {
	Transcription *string
	Translation   *string
	Summary       *string
	ErrorMessage  *string
}

type JobUpdateOption func(*JobUpdate)

// ApplyJobUpdateOptions folds opts into a JobUpdate.
func ApplyJobUpdateOptions(opts ...JobUpdateOption) JobUpdate {
	var u JobUpdate
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

// WithResults attaches the three outputs of a completed job.
func WithResults(transcription, translation, summary string) JobUpdateOption {
	return func(p *JobUpdate) {
		p.Transcription = &transcription
		p.Translation = &translation
		p.Summary = &summary
	}
}

func WithErrorMessage(msg string) JobUpdateOption {
	return func(p *JobUpdate) {
		p.ErrorMessage = &msg
	}
}

// ValidateJobUpdate checks a requested terminal update before it is written.
func ValidateJobUpdate(status models.JobStatus, p JobUpdate) error {
	if !status.IsTerminal() {
		return ErrInvalidTransition
	}
	if status == models.JobStatusCompleted &&
		(empty(p.Transcription) || empty(p.Translation) || empty(p.Summary)) {
		return ErrIncompleteResults
	}
	return nil
}

func empty(s *string) bool {
	return s == nil || *s == ""
}
