package ai

import (
	"errors"

	"github.com/kiranshivaraju/banglify/pkg/models"
)

var (
	ErrMissingCredential     = errors.New("missing provider credential")
	ErrTranscriptionProvider = errors.New("transcription provider error")
	ErrTranslationProvider   = errors.New("translation provider error")
	ErrSummaryProvider       = errors.New("summary provider error")
)

// ErrMalformedResponse is returned when a provider answered 2xx without the
// generated text.
var ErrMalformedResponse = models.ErrMalformedResponse
