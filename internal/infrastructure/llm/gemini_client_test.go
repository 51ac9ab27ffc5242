package llm

import (
	"context"
	"errors"
	"testing"

	"captioncraft/internal/config"
	"captioncraft/internal/domain/caption"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	replies []string
	errs    []error
	calls   int

	model  string
	prompt string
	config *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	i := f.calls
	f.calls++
	f.model = model
	f.config = cfg
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	text := ""
	if i < len(f.replies) {
		text = f.replies[i]
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(text, genai.RoleModel)},
		},
	}, nil
}

func geminiConfig() config.LLMConfig {
	cfg := testLLMConfig("")
	cfg.Provider = config.ProviderGemini
	cfg.Model = "gemini-2.5-flash-lite"
	return cfg
}

func TestGeminiClient_Generate(t *testing.T) {
	fm := &fakeModels{replies: []string{"Fresh bread, made with love. Order today! #bakery #sourdough #local"}}
	c := newGeminiClient(fm, geminiConfig(), nil)

	res, err := c.Generate(context.Background(), bakeryRequest())
	require.NoError(t, err)

	assert.Equal(t, "Fresh bread, made with love. Order today!", res.Caption)
	assert.Equal(t, []string{"bakery", "sourdough", "local"}, res.Hashtags)
	assert.Equal(t, "gemini-2.5-flash-lite", fm.model)
	assert.Contains(t, fm.prompt, "Artisan sourdough, family-run")
	require.NotNil(t, fm.config)
	require.NotNil(t, fm.config.Temperature)
	assert.InDelta(t, 0.7, *fm.config.Temperature, 0.0001)
	assert.Equal(t, int32(500), fm.config.MaxOutputTokens)
}

func TestGeminiClient_EmptyReply(t *testing.T) {
	fm := &fakeModels{replies: []string{"   "}}
	c := newGeminiClient(fm, geminiConfig(), nil)

	_, err := c.Generate(context.Background(), bakeryRequest())
	assert.ErrorIs(t, err, caption.ErrGenerationFailed)
}

func TestGeminiClient_RetriesUnavailable(t *testing.T) {
	fm := &fakeModels{
		errs:    []error{genai.APIError{Code: 503, Message: "overloaded"}},
		replies: []string{"", "Second time lucky. #retry"},
	}
	cfg := geminiConfig()
	cfg.MaxRetries = 1
	c := newGeminiClient(fm, cfg, nil)

	res, err := c.Generate(context.Background(), bakeryRequest())
	require.NoError(t, err)
	assert.Equal(t, "Second time lucky.", res.Caption)
	assert.Equal(t, 2, fm.calls)
}

func TestGeminiClient_DoesNotRetryBadRequest(t *testing.T) {
	fm := &fakeModels{errs: []error{genai.APIError{Code: 400, Message: "bad"}}}
	cfg := geminiConfig()
	cfg.MaxRetries = 3
	c := newGeminiClient(fm, cfg, nil)

	_, err := c.Generate(context.Background(), bakeryRequest())
	require.ErrorIs(t, err, caption.ErrGenerationFailed)
	assert.Equal(t, 1, fm.calls)
}

func TestGeminiRetryable(t *testing.T) {
	ctx := context.Background()
	assert.True(t, geminiRetryable(ctx, genai.APIError{Code: 429}))
	assert.True(t, geminiRetryable(ctx, &genai.APIError{Code: 500}))
	assert.False(t, geminiRetryable(ctx, genai.APIError{Code: 404}))
	assert.True(t, geminiRetryable(ctx, errors.New("connection reset")))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.False(t, geminiRetryable(cancelled, errors.New("connection reset")))
}
