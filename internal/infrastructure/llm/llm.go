package llm

import (
	"context"
	"fmt"

	"captioncraft/internal/config"
	"captioncraft/internal/domain/caption"

	"go.uber.org/zap"
)

// New returns the generation backend selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig, log *zap.Logger) (caption.Generator, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		return NewOpenAIClient(cfg, log), nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
