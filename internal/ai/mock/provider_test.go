package mock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kiranshivaraju/banglify/internal/ai/mock"
	"github.com/kiranshivaraju/banglify/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGeneration(temp float32) models.GenerationRequest {
	return models.GenerationRequest{
		Credential:      "gm-key",
		Prompt:          "prompt",
		Temperature:     temp,
		MaxOutputTokens: 8000,
	}
}

// --- NewMockGenerator ---

func TestNewMockGenerator_AnswersPerTemperature(t *testing.T) {
	g := mock.NewMockGenerator()

	a, err := g.Generate(context.Background(), sampleGeneration(0.3))
	require.NoError(t, err)
	b, err := g.Generate(context.Background(), sampleGeneration(0.4))
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestMockGenerator_RecordsRequests(t *testing.T) {
	g := mock.NewMockGenerator()
	_, _ = g.Generate(context.Background(), sampleGeneration(0.3))
	_, _ = g.Generate(context.Background(), sampleGeneration(0.4))

	reqs := g.Requests()
	require.Len(t, reqs, 2)
	assert.InDelta(t, 0.3, reqs[0].Temperature, 0.001)
	assert.InDelta(t, 0.4, reqs[1].Temperature, 0.001)
}

func TestMockGenerator_NilFuncReturnsEmpty(t *testing.T) {
	g := &mock.MockGenerator{}
	out, err := g.Generate(context.Background(), sampleGeneration(0.3))
	require.NoError(t, err)
	assert.Empty(t, out)
}

// --- NewFailingGenerator ---

func TestNewFailingGenerator(t *testing.T) {
	want := errors.New("boom")
	g := mock.NewFailingGenerator(want)

	_, err := g.Generate(context.Background(), sampleGeneration(0.3))
	assert.ErrorIs(t, err, want)
}

// --- NewTimeoutGenerator ---

func TestNewTimeoutGenerator_BlocksUntilDeadline(t *testing.T) {
	g := mock.NewTimeoutGenerator()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := g.Generate(ctx, sampleGeneration(0.3))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

// --- Transcriber ---

func TestNewMockTranscriber(t *testing.T) {
	tr := mock.NewMockTranscriber()
	out, err := tr.Transcribe(context.Background(), models.TranscriptionRequest{
		Credential: "sk",
		File:       models.InputFile{Name: "talk.mp3", MediaType: "audio/mpeg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mock transcript of talk.mp3", out)
	assert.Len(t, tr.Requests(), 1)
}

func TestNewFailingTranscriber(t *testing.T) {
	want := &models.ProviderError{Status: 500, Body: "down"}
	tr := mock.NewFailingTranscriber(want)

	_, err := tr.Transcribe(context.Background(), models.TranscriptionRequest{})
	var perr *models.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 500, perr.Status)
}
