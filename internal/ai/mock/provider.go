package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/kiranshivaraju/banglify/pkg/models"
)

// MockGenerator satisfies models.Generator for testing.
// Every request is recorded so tests can inspect prompts and settings.
type MockGenerator struct {
	GenerateFunc func(ctx context.Context, req models.GenerationRequest) (string, error)

	mu       sync.Mutex
	requests []models.GenerationRequest
}

func (m *MockGenerator) Generate(ctx context.Context, req models.GenerationRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return "", nil
}

// Requests returns a copy of all recorded requests in call order.
func (m *MockGenerator) Requests() []models.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.GenerationRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// MockTranscriber satisfies models.Transcriber for testing.
type MockTranscriber struct {
	TranscribeFunc func(ctx context.Context, req models.TranscriptionRequest) (string, error)

	mu       sync.Mutex
	requests []models.TranscriptionRequest
}

func (m *MockTranscriber) Transcribe(ctx context.Context, req models.TranscriptionRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, req)
	}
	return "", nil
}

// Requests returns a copy of all recorded requests in call order.
func (m *MockTranscriber) Requests() []models.TranscriptionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.TranscriptionRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// NewMockGenerator returns a MockGenerator that answers every prompt with a
// fixed Bengali reply tagged by temperature, so translation and summary differ.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{
		GenerateFunc: func(_ context.Context, req models.GenerationRequest) (string, error) {
			return fmt.Sprintf("মক উত্তর (temperature %.1f)", req.Temperature), nil
		},
	}
}

// NewFailingGenerator returns a MockGenerator that always returns the given error.
func NewFailingGenerator(err error) *MockGenerator {
	return &MockGenerator{
		GenerateFunc: func(_ context.Context, _ models.GenerationRequest) (string, error) {
			return "", err
		},
	}
}

// NewTimeoutGenerator returns a MockGenerator that blocks until context is cancelled.
func NewTimeoutGenerator() *MockGenerator {
	return &MockGenerator{
		GenerateFunc: func(ctx context.Context, _ models.GenerationRequest) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
}

// NewMockTranscriber returns a MockTranscriber that answers with a transcript
// naming the file it received.
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{
		TranscribeFunc: func(_ context.Context, req models.TranscriptionRequest) (string, error) {
			return "Mock transcript of " + req.File.Name, nil
		},
	}
}

// NewFailingTranscriber returns a MockTranscriber that always returns the given error.
func NewFailingTranscriber(err error) *MockTranscriber {
	return &MockTranscriber{
		TranscribeFunc: func(_ context.Context, _ models.TranscriptionRequest) (string, error) {
			return "", err
		},
	}
}

// Compile-time checks.
var (
	_ models.Generator   = (*MockGenerator)(nil)
	_ models.Transcriber = (*MockTranscriber)(nil)
)
