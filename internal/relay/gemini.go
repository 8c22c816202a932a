package relay

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Gemini talks to the Gemini API through the genai SDK.
type Gemini struct {
	client *genai.Client
	opts   Options
	logger *zap.Logger
}

// NewGemini builds a Gemini relay. An empty apiKey yields an unconfigured
// relay rather than an error, so the service can still start and report the
// missing key per request. baseURL overrides the API host when set.
func NewGemini(ctx context.Context, apiKey, baseURL string, timeout time.Duration, opts Options, logger *zap.Logger) (*Gemini, error) {
	g := &Gemini{opts: opts, logger: logger.Named("gemini")}
	if apiKey == "" {
		return g, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  &http.Client{Timeout: timeout},
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	g.client = client
	return g, nil
}

func (g *Gemini) Configured() bool { return g.client != nil }

func (g *Gemini) Complete(ctx context.Context, message string) (string, error) {
	if g.client == nil {
		return "", errors.New("gemini: client not configured")
	}

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(g.opts.systemPrompt(), genai.RoleUser),
		Temperature:       genai.Ptr(g.opts.Temperature),
		MaxOutputTokens:   int32(g.opts.MaxTokens),
	}
	contents := []*genai.Content{
		genai.NewContentFromText(strings.TrimSpace(message), genai.RoleUser),
	}

	g.logger.Debug("sending completion request", zap.String("model", g.opts.Model))
	resp, err := g.client.Models.GenerateContent(ctx, g.opts.Model, contents, cfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			status := apiErr.Code
			if status == 0 {
				status = http.StatusBadGateway
			}
			g.logger.Info("completion response",
				zap.Int("status", status),
				zap.String("body", apiErr.Message))
			return "", &UpstreamError{StatusCode: status, Body: apiErr.Message}
		}
		return "", fmt.Errorf("gemini: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	g.logger.Info("completion response", zap.Int("status", http.StatusOK), zap.String("body", text))
	return text, nil
}
