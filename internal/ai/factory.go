package ai

import (
	"net/http"

	"github.com/kiranshivaraju/banglify/internal/ai/gemini"
	"github.com/kiranshivaraju/banglify/internal/ai/openai"
	"github.com/kiranshivaraju/banglify/internal/config"
	"github.com/kiranshivaraju/banglify/pkg/models"
)

// NewProviders constructs the generative-text and speech-to-text providers.
// Called once at server startup. Every outbound call is bounded by ProviderTimeout.
func NewProviders(cfg config.AIConfig) (models.Generator, models.Transcriber) {
	client := &http.Client{Timeout: cfg.ProviderTimeout}
	return gemini.NewProvider(cfg.Gemini, client), openai.NewProvider(cfg.Whisper, client)
}
