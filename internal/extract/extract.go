// Package extract turns one uploaded file into raw text.
package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kiranshivaraju/banglify/internal/ai"
	"github.com/kiranshivaraju/banglify/pkg/models"
)

const (
	// MinDocumentChars is the floor below which a PDF is treated as image-only.
	MinDocumentChars = 50
	// MaxDocumentChars bounds the text kept from a single PDF.
	MaxDocumentChars = 50000

	mediaTypePDF       = "application/pdf"
	transcriptLanguage = "en"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrEmptyDocument       = errors.New("PDF appears to be empty or contains only images")
)

// Extractor dispatches by declared media type.
type Extractor struct {
	transcriber models.Transcriber
}

// New creates an Extractor that sends audio and video to the given transcriber.
func New(t models.Transcriber) *Extractor {
	return &Extractor{transcriber: t}
}

// Extract returns the raw text of file. transcriptionCredential is only
// consulted for audio and video.
func (e *Extractor) Extract(ctx context.Context, file models.InputFile, transcriptionCredential string) (string, error) {
	mt := strings.ToLower(strings.TrimSpace(file.MediaType))

	switch {
	case mt == mediaTypePDF:
		return extractPDF(file.Content)
	case strings.HasPrefix(mt, "audio/"), strings.HasPrefix(mt, "video/"):
		return e.transcribe(ctx, file, transcriptionCredential)
	default:
		return "", fmt.Errorf("%w: %q. Supported types: PDF, audio, and video files", ErrUnsupportedFileType, file.MediaType)
	}
}

func (e *Extractor) transcribe(ctx context.Context, file models.InputFile, credential string) (string, error) {
	if credential == "" {
		return "", fmt.Errorf("transcription credential is required for audio/video files: %w", ai.ErrMissingCredential)
	}

	text, err := e.transcriber.Transcribe(ctx, models.TranscriptionRequest{
		Credential: credential,
		File:       file,
		Language:   transcriptLanguage,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ai.ErrTranscriptionProvider, err)
	}
	return text, nil
}

// extractPDF is a best-effort decode: bytes are read as text, not parsed as
// PDF structure. Only printable ASCII and newlines survive.
func extractPDF(content []byte) (string, error) {
	buf := make([]byte, len(content))
	for i, b := range content {
		if (b >= 0x20 && b <= 0x7e) || b == '\n' {
			buf[i] = b
		} else {
			buf[i] = ' '
		}
	}

	text := strings.Join(strings.Fields(string(buf)), " ")
	if len(text) < MinDocumentChars {
		return "", ErrEmptyDocument
	}
	if len(text) > MaxDocumentChars {
		text = text[:MaxDocumentChars]
	}
	return text, nil
}
