package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"captioncraft/internal/config"
	"captioncraft/internal/domain/caption"
	"captioncraft/internal/pkg/logger"

	"go.uber.org/zap"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint. The API key stays on the server.
type OpenAIClient struct {
	endpoint    string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	retry       retryPolicy

	client *http.Client
	logger *zap.Logger
	now    func() time.Time
}

func NewOpenAIClient(cfg config.LLMConfig, log *zap.Logger) *OpenAIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &OpenAIClient{
		endpoint:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/") + "/chat/completions",
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		retry:       retryPolicy{maxRetries: cfg.MaxRetries, backoff: cfg.RetryBackoff},
		client:      &http.Client{Timeout: timeout},
		logger:      logger.OrNop(log).With(zap.String("provider", config.ProviderOpenAI)),
		now:         time.Now,
	}
}

func (c *OpenAIClient) Generate(ctx context.Context, req caption.GenerationRequest) (caption.GenerationResult, error) {
	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemInstruction},
			{Role: "user", Content: BuildPrompt(req)},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}
	b, err := json.Marshal(body)
	if err != nil {
		return caption.GenerationResult{}, fmt.Errorf("%w: %v", caption.ErrGenerationFailed, err)
	}

	text, err := c.retry.run(ctx, c.logger, func(ctx context.Context) (string, bool, error) {
		return c.complete(ctx, b)
	})
	if err != nil {
		c.logger.Error("caption generation failed", zap.String("model", c.model), zap.Error(err))
		return caption.GenerationResult{}, fmt.Errorf("%w: %v", caption.ErrGenerationFailed, err)
	}

	return caption.ParseGenerated(text, c.now()), nil
}

func (c *OpenAIClient) complete(ctx context.Context, body []byte) (string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", ctx.Err() == nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", retryableStatus(resp.StatusCode),
			fmt.Errorf("chat completion failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(rb)))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", false, fmt.Errorf("decode chat completion: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", false, errors.New("chat completion returned no choices")
	}
	text := out.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", false, errors.New("chat completion returned empty content")
	}
	return text, false, nil
}

var _ caption.Generator = (*OpenAIClient)(nil)
