package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultOpenAIEndpoint = "https://api.openai.com/v1/chat/completions"

// OpenAI talks to a chat-completions endpoint.
type OpenAI struct {
	apiKey   string
	endpoint string
	opts     Options
	http     *http.Client
	logger   *zap.Logger
}

func NewOpenAI(apiKey, endpoint string, timeout time.Duration, opts Options, logger *zap.Logger) *OpenAI {
	if endpoint == "" {
		endpoint = DefaultOpenAIEndpoint
	}
	return &OpenAI{
		apiKey:   apiKey,
		endpoint: endpoint,
		opts:     opts,
		http:     &http.Client{Timeout: timeout},
		logger:   logger.Named("openai"),
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *OpenAI) Configured() bool { return o.apiKey != "" }

func (o *OpenAI) Complete(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: o.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: o.opts.systemPrompt()},
			{Role: "user", Content: strings.TrimSpace(message)},
		},
		Temperature: o.opts.Temperature,
		MaxTokens:   o.opts.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	o.logger.Debug("sending completion request", zap.String("model", o.opts.Model))
	resp, err := o.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai: reading body: %w", err)
	}

	o.logger.Info("completion response",
		zap.Int("status", resp.StatusCode),
		zap.ByteString("body", raw))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &UpstreamError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("openai: unmarshal: %w", err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == nil {
		return "", nil
	}
	return strings.TrimSpace(*out.Choices[0].Message.Content), nil
}
