package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kiranshivaraju/banglify/internal/ai"
	"github.com/kiranshivaraju/banglify/internal/api/response"
	"github.com/kiranshivaraju/banglify/internal/cache"
	"github.com/kiranshivaraju/banglify/internal/pipeline"
	"github.com/kiranshivaraju/banglify/internal/store"
	"github.com/kiranshivaraju/banglify/pkg/models"
)

// maxMemory is how much of a multipart body is held in memory before
// the rest spills to temporary files.
const maxMemory = 32 << 20

// submitWriteWindow is the write deadline granted once the upload has been read.
const submitWriteWindow = 30 * time.Second

const (
	msgMissingGenerationKey = "Gemini API key is required. Please provide your API key in settings."
	msgNoFiles              = "No files provided"
)

// JobSubmitter defines the interface the submit handler depends on.
type JobSubmitter interface {
	Submit(ctx context.Context, req pipeline.SubmitRequest) (*models.Job, error)
}

// submitResponse is written unwrapped: clients read jobId at the top level.
type submitResponse struct {
	JobID uuid.UUID `json:"jobId"`
}

type statusResponse struct {
	JobID  uuid.UUID        `json:"job_id"`
	Status models.JobStatus `json:"status"`
}

// NewSubmitJobHandler returns an http.HandlerFunc for POST /api/v1/jobs.
// Credentials in the form override the configured defaults.
func NewSubmitJobHandler(svc JobSubmitter, defaults pipeline.Credentials, maxUploadBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxUploadBytes {
			writeTooLarge(w, maxUploadBytes)
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

		if err := r.ParseMultipartForm(maxMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeTooLarge(w, maxUploadBytes)
				return
			}
			response.Error(w, http.StatusBadRequest, response.CodeInvalidRequest,
				"Request body must be multipart/form-data", nil)
			return
		}
		defer r.MultipartForm.RemoveAll()

		if err := http.NewResponseController(w).SetWriteDeadline(time.Now().Add(submitWriteWindow)); err != nil &&
			!errors.Is(err, http.ErrNotSupported) {
			slog.Warn("extending submit write deadline", "error", err)
		}

		creds := pipeline.Credentials{
			Generation:    firstNonEmpty(r.FormValue("geminiApiKey"), defaults.Generation),
			Transcription: firstNonEmpty(r.FormValue("openaiApiKey"), defaults.Transcription),
		}

		files, err := readFiles(r.MultipartForm.File["files"])
		if err != nil {
			response.Error(w, http.StatusBadRequest, response.CodeInvalidRequest,
				"Could not read uploaded files", nil)
			return
		}

		job, err := svc.Submit(r.Context(), pipeline.SubmitRequest{Files: files, Credentials: creds})
		if err != nil {
			switch {
			case errors.Is(err, ai.ErrMissingCredential):
				response.Error(w, http.StatusInternalServerError, response.CodeMissingCredential,
					msgMissingGenerationKey, nil)
			case errors.Is(err, pipeline.ErrNoFiles):
				response.Error(w, http.StatusInternalServerError, response.CodeNoFiles, msgNoFiles, nil)
			default:
				slog.Error("job submission failed", "error", err)
				response.Error(w, http.StatusInternalServerError, response.CodeInternal,
					"Failed to create processing job", nil)
			}
			return
		}

		slog.Info("job accepted",
			"job_id", job.ID,
			"files", len(files),
			"user_generation_key", r.FormValue("geminiApiKey") != "",
			"user_transcription_key", r.FormValue("openaiApiKey") != "",
		)
		response.Plain(w, submitResponse{JobID: job.ID})
	}
}

// NewGetJobHandler returns an http.HandlerFunc for GET /api/v1/jobs/{jobID}.
func NewGetJobHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := parseJobID(w, r)
		if !ok {
			return
		}

		job, err := st.GetJob(r.Context(), jobID)
		if err != nil {
			writeStoreError(w, jobID, err)
			return
		}
		response.JSON(w, job)
	}
}

// NewJobStatusHandler returns an http.HandlerFunc for GET /api/v1/jobs/{jobID}/status.
// The cached status is served when present; the store is the fallback.
func NewJobStatusHandler(st store.Store, ca cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, ok := parseJobID(w, r)
		if !ok {
			return
		}

		status, found, err := ca.GetJobStatus(r.Context(), jobID)
		if err != nil {
			slog.Warn("job status cache read failed", "job_id", jobID, "error", err)
		}
		if err == nil && found {
			response.JSON(w, statusResponse{JobID: jobID, Status: status})
			return
		}

		job, err := st.GetJob(r.Context(), jobID)
		if err != nil {
			writeStoreError(w, jobID, err)
			return
		}
		_ = ca.SetJobStatus(r.Context(), jobID, job.Status, cache.JobStatusTTL)
		response.JSON(w, statusResponse{JobID: jobID, Status: job.Status})
	}
}

func writeTooLarge(w http.ResponseWriter, limit int64) {
	response.Error(w, http.StatusRequestEntityTooLarge, response.CodePayloadTooLarge,
		fmt.Sprintf("Upload exceeds the %d byte limit", limit), nil)
}

func parseJobID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.CodeInvalidJobID, "jobID must be a valid UUID", nil)
		return uuid.Nil, false
	}
	return jobID, true
}

func writeStoreError(w http.ResponseWriter, jobID uuid.UUID, err error) {
	if errors.Is(err, store.ErrNotFound) {
		response.Error(w, http.StatusNotFound, response.CodeJobNotFound, "Job not found", nil)
		return
	}
	slog.Error("job lookup failed", "job_id", jobID, "error", err)
	response.Error(w, http.StatusInternalServerError, response.CodeInternal, "An unexpected error occurred", nil)
}

// readFiles loads every uploaded part into memory in submission order.
func readFiles(headers []*multipart.FileHeader) ([]models.InputFile, error) {
	files := make([]models.InputFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		files = append(files, models.InputFile{
			Name:      fh.Filename,
			MediaType: mediaType(fh),
			Content:   content,
		})
	}
	return files, nil
}

// mediaType prefers the part's declared type and falls back to the file
// extension when the client sent none or a generic one.
func mediaType(fh *multipart.FileHeader) string {
	declared := fh.Header.Get("Content-Type")
	if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
		return mt
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename))); byExt != "" {
		if mt, _, err := mime.ParseMediaType(byExt); err == nil {
			return mt
		}
	}
	return declared
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
