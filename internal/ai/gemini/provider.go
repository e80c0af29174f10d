package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/kiranshivaraju/banglify/internal/config"
	"github.com/kiranshivaraju/banglify/pkg/models"
	"google.golang.org/genai"
)

// Provider implements models.Generator using the Gemini API.
// A client is built per call because the credential travels with each request.
type Provider struct {
	cfg        config.GeminiConfig
	httpClient *http.Client
}

func NewProvider(cfg config.GeminiConfig, httpClient *http.Client) *Provider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Provider{cfg: cfg, httpClient: httpClient}
}

func (p *Provider) Generate(ctx context.Context, req models.GenerationRequest) (string, error) {
	cc := &genai.ClientConfig{
		APIKey:     req.Credential,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
	}
	if p.cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: p.cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	temperature := req.Temperature
	result, err := client.Models.GenerateContent(ctx, p.cfg.Model, genai.Text(req.Prompt), &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: req.MaxOutputTokens,
	})
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", &models.ProviderError{Status: apiErr.Code, Body: apiErr.Message}
		}
		return "", err
	}

	return firstText(result)
}

// firstText extracts candidates[0].content.parts[0].text.
func firstText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", models.ErrMalformedResponse)
	}
	c := resp.Candidates[0]
	if c == nil || c.Content == nil || len(c.Content.Parts) == 0 || c.Content.Parts[0] == nil {
		return "", fmt.Errorf("%w: candidate has no content parts", models.ErrMalformedResponse)
	}
	text := c.Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("%w: empty text part", models.ErrMalformedResponse)
	}
	return text, nil
}

var _ models.Generator = (*Provider)(nil)
