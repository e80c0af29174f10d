package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kiranshivaraju/banglify/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Jobs ---

func (s *PostgresStore) CreateJob(ctx context.Context, job *models.Job) error {
	fileNames := job.FileNames
	if fileNames == nil {
		fileNames = []string{}
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO processing_jobs (id, file_names, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		job.ID, fileNames, string(job.Status), job.CreatedAt, job.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var j models.Job
	var status string
	err := s.pool.QueryRow(ctx,
		`SELECT id, file_names, status, transcription, translation, summary, error, created_at, updated_at
		 FROM processing_jobs WHERE id = $1`, id,
	).Scan(&j.ID, &j.FileNames, &status, &j.Transcription, &j.Translation, &j.Summary,
		&j.Error, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	j.Status = models.JobStatus(status)
	return &j, nil
}

func (s *PostgresStore) UpdateJobStatus(ctx context.Context, id uuid.UUID, status models.JobStatus, opts ...JobUpdateOption) error {
	params := ApplyJobUpdateOptions(opts...)
	if err := ValidateJobUpdate(status, params); err != nil {
		return err
	}

	// The status guard makes the terminal transition happen at most once,
	// even when two writers race.
	tag, err := s.pool.Exec(ctx,
		`UPDATE processing_jobs
		 SET status = $2, transcription = $3, translation = $4, summary = $5, error = $6, updated_at = $7
		 WHERE id = $1 AND status = 'processing'`,
		id, string(status), params.Transcription, params.Translation, params.Summary,
		params.ErrorMessage, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var current string
	err = s.pool.QueryRow(ctx, `SELECT status FROM processing_jobs WHERE id = $1`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get job status: %w", err)
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, status)
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

var _ Store = (*PostgresStore)(nil)
