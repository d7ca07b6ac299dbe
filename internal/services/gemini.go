package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"alfredoptarigan/ats-analyzer/internal/logger"
)

const (
	defaultModel      = "gemini-2.5-flash"
	defaultEmbedModel = "text-embedding-004"
	maxEmbeddingChars = 40000
)

type GeminiService interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	Model() string
}

// modelsAPI is the subset of *genai.Models the service calls.
type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
	EmbedContent(ctx context.Context, model string, contents []*genai.Content, config *genai.EmbedContentConfig) (*genai.EmbedContentResponse, error)
}

type geminiService struct {
	models     modelsAPI
	modelName  string
	embedModel string
	logger     *zap.Logger
}

func NewGeminiService(ctx context.Context, apiKey, model, embedModel string, log *zap.Logger) (GeminiService, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return newGeminiService(client.Models, model, embedModel, log), nil
}

func newGeminiService(models modelsAPI, model, embedModel string, log *zap.Logger) *geminiService {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if embedModel = strings.TrimSpace(embedModel); embedModel == "" {
		embedModel = defaultEmbedModel
	}

	return &geminiService{
		models:     models,
		modelName:  model,
		embedModel: embedModel,
		logger:     logger.WithAIFields(log, "gemini", model),
	}
}

// GenerateText makes a single call to the model and returns the text of its
// first candidate. Provider failures come back as *ProviderError.
func (g *geminiService) GenerateText(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("sending prompt", zap.Int("prompt_chars", len(prompt)))

	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), nil)
	if err != nil {
		g.logger.Warn("gemini api error", zap.Error(err))
		return "", &ProviderError{
			Status: providerStatus(err),
			Err:    fmt.Errorf("failed to generate text: %w", err),
		}
	}

	if resp == nil {
		return "", &ProviderError{Err: errors.New("no response generated (nil response)")}
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", &ProviderError{Err: errors.New("no text content in response")}
	}

	g.logger.Debug("gemini response received",
		zap.Int("response_chars", len(text)),
		zap.String("preview", logger.TruncateForLog(text, 200)))

	return text, nil
}

func (g *geminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	text = truncateRunes(text, maxEmbeddingChars)

	result, err := g.models.EmbedContent(ctx, g.embedModel, genai.Text(text), nil)
	if err != nil {
		return nil, &ProviderError{
			Status: providerStatus(err),
			Err:    fmt.Errorf("failed to generate embedding: %w", err),
		}
	}

	if result == nil || len(result.Embeddings) == 0 || result.Embeddings[0] == nil {
		return nil, &ProviderError{Err: errors.New("empty embedding result")}
	}

	return result.Embeddings[0].Values, nil
}

func (g *geminiService) Model() string {
	return g.modelName
}

// providerStatus extracts the HTTP status the provider attached to err, or 0.
func providerStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}

	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}

	return 0
}

// truncateRunes cuts s to at most limit bytes without splitting a rune.
func truncateRunes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	s = s[:limit]
	for len(s) > 0 {
		r, size := utf8.DecodeLastRuneInString(s)
		if r != utf8.RuneError || size != 1 {
			break
		}
		s = s[:len(s)-1]
	}
	return s
}
