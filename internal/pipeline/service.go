// Package pipeline runs a submitted batch of files through extraction,
// translation and summarization, and records the outcome on the job row.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/banglify/internal/ai"
	"github.com/kiranshivaraju/banglify/internal/cache"
	"github.com/kiranshivaraju/banglify/internal/store"
	"github.com/kiranshivaraju/banglify/pkg/models"
)

// MinCombinedChars is the least amount of extracted text worth translating.
const MinCombinedChars = 10

var (
	ErrNoFiles              = errors.New("no files provided")
	ErrNoExtractableContent = errors.New("no meaningful text could be extracted from the files")
)

// TextExtractor turns one file into raw text.
type TextExtractor interface {
	Extract(ctx context.Context, file models.InputFile, transcriptionCredential string) (string, error)
}

type Translator interface {
	Translate(ctx context.Context, text, credential string) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text, credential string) (string, error)
}

// Credentials are already resolved: request overrides win over configured defaults.
type Credentials struct {
	Generation    string
	Transcription string
}

// SubmitRequest is one batch of uploaded files.
type SubmitRequest struct {
	Files       []models.InputFile
	Credentials Credentials
}

// Service owns the lifecycle of processing jobs.
type Service struct {
	store      store.Store
	cache      cache.Cache
	extractor  TextExtractor
	translator Translator
	summarizer Summarizer
	timeout    time.Duration
}

// NewService creates a Service. timeout bounds every individual remote call.
func NewService(st store.Store, ca cache.Cache, ex TextExtractor, tr Translator, su Summarizer, timeout time.Duration) *Service {
	return &Service{
		store:      st,
		cache:      ca,
		extractor:  ex,
		translator: tr,
		summarizer: su,
		timeout:    timeout,
	}
}

// Submit validates the batch, creates a processing job and dispatches the
// pipeline in a background goroutine. It returns without waiting for the result.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*models.Job, error) {
	if req.Credentials.Generation == "" {
		return nil, fmt.Errorf("generation credential is required: %w", ai.ErrMissingCredential)
	}
	if len(req.Files) == 0 {
		return nil, ErrNoFiles
	}

	names := make([]string, len(req.Files))
	for i, f := range req.Files {
		names[i] = f.Name
	}

	now := time.Now().UTC()
	job := &models.Job{
		ID:        uuid.New(),
		FileNames: names,
		Status:    models.JobStatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}

	_ = s.cache.SetJobStatus(ctx, job.ID, models.JobStatusProcessing, cache.JobStatusTTL)

	slog.Info("job submitted",
		"job_id", job.ID,
		"files", len(req.Files),
		"transcription_credential", req.Credentials.Transcription != "",
	)

	// The job outlives the request that created it.
	go s.Process(context.Background(), job.ID, req.Files, req.Credentials)

	return job, nil
}

// Process runs the pipeline for one job and records exactly one terminal status.
// It recovers from panics so no job is left processing.
func (s *Service) Process(ctx context.Context, jobID uuid.UUID, files []models.InputFile, creds Credentials) {
	start := time.Now()
	log := slog.With("job_id", jobID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("panic in job pipeline", "error", r)
			s.fail(ctx, jobID, fmt.Sprintf("panic: %v", r))
		}
	}()

	log.Info("job started", "files", len(files))

	combined, err := s.extractAll(ctx, log, files, creds.Transcription)
	if err != nil {
		s.fail(ctx, jobID, err.Error())
		return
	}
	log.Info("text extracted", "chars", utf8.RuneCountInString(combined))

	translation, err := s.withTimeout(ctx, func(ctx context.Context) (string, error) {
		return s.translator.Translate(ctx, combined, creds.Generation)
	})
	if err != nil {
		s.fail(ctx, jobID, err.Error())
		return
	}
	log.Info("translation done", "chars", utf8.RuneCountInString(translation))

	summary, err := s.withTimeout(ctx, func(ctx context.Context) (string, error) {
		return s.summarizer.Summarize(ctx, combined, creds.Generation)
	})
	if err != nil {
		s.fail(ctx, jobID, err.Error())
		return
	}
	log.Info("summary done", "chars", utf8.RuneCountInString(summary))

	if err := s.store.UpdateJobStatus(ctx, jobID, models.JobStatusCompleted,
		store.WithResults(combined, translation, summary)); err != nil {
		log.Error("failed to record completed job", "error", err)
		s.fail(ctx, jobID, fmt.Sprintf("failed to update job: %v", err))
		return
	}
	_ = s.cache.SetJobStatus(ctx, jobID, models.JobStatusCompleted, cache.JobStatusTTL)

	log.Info("job completed", "duration_ms", time.Since(start).Milliseconds())
}

// extractAll extracts every file in order. A failed file becomes an inline
// placeholder; only a batch with too little real text is an error.
func (s *Service) extractAll(ctx context.Context, log *slog.Logger, files []models.InputFile, transcriptionCredential string) (string, error) {
	sections := make([]string, 0, len(files))
	var failures []string
	extracted := 0

	for _, f := range files {
		text, err := s.withTimeout(ctx, func(ctx context.Context) (string, error) {
			return s.extractor.Extract(ctx, f, transcriptionCredential)
		})
		if err != nil {
			log.Warn("file extraction failed", "file", f.Name, "media_type", f.MediaType, "error", err)
			sections = append(sections, placeholder(f.Name, err))
			failures = append(failures, fmt.Sprintf("%s: %v", f.Name, err))
			continue
		}

		log.Info("file extracted", "file", f.Name, "media_type", f.MediaType, "chars", utf8.RuneCountInString(text))
		sections = append(sections, section(f.Name, text))
		extracted += utf8.RuneCountInString(strings.TrimSpace(text))
	}

	if extracted < MinCombinedChars {
		if len(failures) > 0 {
			return "", fmt.Errorf("%w (%s)", ErrNoExtractableContent, strings.Join(failures, "; "))
		}
		return "", ErrNoExtractableContent
	}

	return strings.Join(sections, "\n\n"), nil
}

func (s *Service) withTimeout(ctx context.Context, call func(context.Context) (string, error)) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return call(callCtx)
}

func (s *Service) fail(ctx context.Context, jobID uuid.UUID, msg string) {
	if err := s.store.UpdateJobStatus(ctx, jobID, models.JobStatusFailed, store.WithErrorMessage(msg)); err != nil {
		slog.Error("failed to record failed job", "job_id", jobID, "error", err)
		return
	}
	_ = s.cache.SetJobStatus(ctx, jobID, models.JobStatusFailed, cache.JobStatusTTL)
	slog.Warn("job failed", "job_id", jobID, "error", msg)
}

func section(name, text string) string {
	return "\n--- " + name + " ---\n" + text
}

func placeholder(name string, err error) string {
	return section(name, "Error processing file: "+err.Error())
}
