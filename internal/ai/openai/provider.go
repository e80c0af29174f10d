package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/banglify/internal/config"
	"github.com/kiranshivaraju/banglify/pkg/models"
)

const transcriptionsPath = "/v1/audio/transcriptions"

// maxErrorBody bounds how much of a failed response is kept for diagnostics.
const maxErrorBody = 64 << 10

// Provider implements models.Transcriber using OpenAI's Whisper endpoint.
type Provider struct {
	cfg    config.WhisperConfig
	client *http.Client
}

func NewProvider(cfg config.WhisperConfig, client *http.Client) *Provider {
	if client == nil {
		client = http.DefaultClient
	}
	return &Provider{cfg: cfg, client: client}
}

// Transcribe uploads the raw file and returns the plain-text transcript verbatim.
func (p *Provider) Transcribe(ctx context.Context, req models.TranscriptionRequest) (string, error) {
	body, contentType, err := buildForm(req, p.cfg.Model)
	if err != nil {
		return "", fmt.Errorf("building form: %w", err)
	}

	u := strings.TrimRight(p.cfg.BaseURL, "/") + transcriptionsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Authorization", "Bearer "+req.Credential)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling whisper: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &models.ProviderError{Status: resp.StatusCode, Body: string(b)}
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading transcript: %w", err)
	}
	return string(b), nil
}

func buildForm(req models.TranscriptionRequest, model string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", req.File.Name)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(req.File.Content); err != nil {
		return nil, "", err
	}

	language := req.Language
	if language == "" {
		language = "en"
	}
	fields := [][2]string{
		{"model", model},
		{"language", language},
		{"response_format", "text"},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var _ models.Transcriber = (*Provider)(nil)
