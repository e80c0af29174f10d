package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/kiranshivaraju/banglify/pkg/models"
)

const (
	// MaxPromptChars bounds the text sent to the generative provider.
	MaxPromptChars = 30000
	// MaxOutputTokens caps the generated answer.
	MaxOutputTokens = 8000

	TranslationTemperature float32 = 0.3
	SummaryTemperature     float32 = 0.4
)

const translationPrompt = "Translate the following text into সহজ বাংলা (simple Bengali). " +
	"Maintain the meaning and keep it natural and easy to understand. " +
	"Do not add any explanations, just provide the translation:\n\n%s"

const summaryPrompt = `Provide a comprehensive summary and explanation in সহজ বাংলা (simple Bengali) of the following content. Include:
1. মূল বিষয় এবং গুরুত্বপূর্ণ পয়েন্ট (Main topics and key points)
2. গুরুত্বপূর্ণ বিবরণ এবং অর্থ (Important details and meanings)
3. প্রসঙ্গ এবং তাৎপর্য (Context and significance)
4. কোনো কার্যকর অন্তর্দৃষ্টি (Any actionable insights)

Content to summarize:

%s`

// Translator renders combined text into simplified Bengali.
type Translator struct {
	generator models.Generator
}

// NewTranslator creates a Translator backed by the given generator.
func NewTranslator(g models.Generator) *Translator {
	return &Translator{generator: g}
}

// Translate returns the provider's translation verbatim.
func (t *Translator) Translate(ctx context.Context, text, credential string) (string, error) {
	if credential == "" {
		return "", fmt.Errorf("translation: %w", ErrMissingCredential)
	}

	out, err := t.generator.Generate(ctx, models.GenerationRequest{
		Credential:      credential,
		Prompt:          fmt.Sprintf(translationPrompt, truncateRunes(text, MaxPromptChars)),
		Temperature:     TranslationTemperature,
		MaxOutputTokens: MaxOutputTokens,
	})
	if err != nil {
		return "", classify("translation", ErrTranslationProvider, err)
	}
	if out == "" {
		return "", fmt.Errorf("translation: %w", ErrMalformedResponse)
	}
	return out, nil
}

// Summarizer produces a four-section Bengali summary of combined text.
type Summarizer struct {
	generator models.Generator
}

// NewSummarizer creates a Summarizer backed by the given generator.
func NewSummarizer(g models.Generator) *Summarizer {
	return &Summarizer{generator: g}
}

// Summarize returns the provider's summary verbatim.
func (s *Summarizer) Summarize(ctx context.Context, text, credential string) (string, error) {
	if credential == "" {
		return "", fmt.Errorf("summary: %w", ErrMissingCredential)
	}

	out, err := s.generator.Generate(ctx, models.GenerationRequest{
		Credential:      credential,
		Prompt:          fmt.Sprintf(summaryPrompt, truncateRunes(text, MaxPromptChars)),
		Temperature:     SummaryTemperature,
		MaxOutputTokens: MaxOutputTokens,
	})
	if err != nil {
		return "", classify("summary", ErrSummaryProvider, err)
	}
	if out == "" {
		return "", fmt.Errorf("summary: %w", ErrMalformedResponse)
	}
	return out, nil
}

// classify tags a provider failure with the caller's error kind. Malformed
// responses keep their own kind.
func classify(op string, kind, err error) error {
	if errors.Is(err, ErrMalformedResponse) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// truncateRunes keeps at most n characters of s.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
