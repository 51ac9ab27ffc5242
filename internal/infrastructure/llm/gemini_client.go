package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"captioncraft/internal/config"
	"captioncraft/internal/domain/caption"
	"captioncraft/internal/pkg/logger"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// contentModels is the slice of *genai.Models the client uses.
type contentModels interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiClient struct {
	models  contentModels
	model   string
	gen     *genai.GenerateContentConfig
	timeout time.Duration
	retry   retryPolicy

	logger *zap.Logger
	now    func() time.Time
}

func NewGeminiClient(ctx context.Context, cfg config.LLMConfig, log *zap.Logger) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newGeminiClient(client.Models, cfg, log), nil
}

func newGeminiClient(models contentModels, cfg config.LLMConfig, log *zap.Logger) *GeminiClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GeminiClient{
		models: models,
		model:  cfg.Model,
		gen: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(SystemInstruction, genai.RoleUser),
			Temperature:       genai.Ptr(float32(cfg.Temperature)),
			MaxOutputTokens:   int32(cfg.MaxTokens),
		},
		timeout: timeout,
		retry:   retryPolicy{maxRetries: cfg.MaxRetries, backoff: cfg.RetryBackoff},
		logger:  logger.OrNop(log).With(zap.String("provider", config.ProviderGemini)),
		now:     time.Now,
	}
}

func (g *GeminiClient) Generate(ctx context.Context, req caption.GenerationRequest) (caption.GenerationResult, error) {
	contents := genai.Text(BuildPrompt(req))

	text, err := g.retry.run(ctx, g.logger, func(ctx context.Context) (string, bool, error) {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()

		resp, err := g.models.GenerateContent(callCtx, g.model, contents, g.gen)
		if err != nil {
			return "", geminiRetryable(ctx, err), err
		}
		if resp == nil {
			return "", false, errors.New("gemini returned no response")
		}
		out := resp.Text()
		if strings.TrimSpace(out) == "" {
			return "", false, errors.New("gemini returned no content")
		}
		return out, false, nil
	})
	if err != nil {
		g.logger.Error("caption generation failed", zap.String("model", g.model), zap.Error(err))
		return caption.GenerationResult{}, fmt.Errorf("%w: %v", caption.ErrGenerationFailed, err)
	}

	return caption.ParseGenerated(text, g.now()), nil
}

func geminiRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return retryableStatus(apiErrPtr.Code)
	}
	return true
}

var _ caption.Generator = (*GeminiClient)(nil)
