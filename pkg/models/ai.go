// Package models contains shared data models used across the Banglify codebase.
package models

import (
	"context"
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned by a provider that answered 2xx without the
// field the caller needs.
var ErrMalformedResponse = errors.New("malformed provider response")

// Transcriber turns audio or video bytes into plain text.
// Never call a speech-to-text vendor directly; inject this interface.
type Transcriber interface {
	Transcribe(ctx context.Context, req TranscriptionRequest) (string, error)
}

// Generator sends one prompt to a generative-text provider.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// TranscriptionRequest is the input to a speech-to-text call.
type TranscriptionRequest struct {
	Credential string
	File       InputFile
	Language   string // ISO-639-1, e.g. "en"
}

// GenerationRequest is the input to a generative-text call.
type GenerationRequest struct {
	Credential      string
	Prompt          string
	Temperature     float32
	MaxOutputTokens int32
}

// ProviderError is a non-2xx answer from an external provider.
type ProviderError struct {
	Status int
	Body   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("status %d - %s", e.Status, e.Body)
}
