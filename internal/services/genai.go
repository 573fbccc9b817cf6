package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

var _ Generator = (*GenAIService)(nil)

// GenAIService calls Gemini through the google.golang.org/genai SDK.
type GenAIService struct {
	client    *genai.Client
	modelName string
	logger    *slog.Logger
	slots     slots
}

func NewGenAIService(ctx context.Context, apiKey, modelName string, concurrentReqs int, logger *slog.Logger) (*GenAIService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GenAIService{
		client:    client,
		modelName: modelName,
		logger:    logger,
		slots:     newSlots(concurrentReqs),
	}, nil
}

func (s *GenAIService) Generate(ctx context.Context, prompt string, safety []SafetySetting) (string, error) {
	if err := s.slots.acquire(ctx); err != nil {
		return "", &ProviderError{Err: err}
	}
	defer s.slots.release()

	temp := float32(0.3)
	topP := float32(0.95)
	config := &genai.GenerateContentConfig{
		Temperature:    &temp,
		TopP:           &topP,
		SafetySettings: genaiSafetySettings(safety),
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", genaiProviderError(err)
	}

	for i, cand := range resp.Candidates {
		s.logger.Debug("genai candidate", "index", i, "finish_reason", string(cand.FinishReason), "token_count", cand.TokenCount)
		if cand.FinishReason != "" && cand.FinishReason != genai.FinishReasonStop {
			s.logger.Warn("genai stopped early", "finish_reason", string(cand.FinishReason))
		}
	}

	text := resp.Text()
	if text == "" {
		return "", &ProviderError{Err: errors.New("genai returned empty text")}
	}
	return text, nil
}

func genaiSafetySettings(settings []SafetySetting) []*genai.SafetySetting {
	out := make([]*genai.SafetySetting, 0, len(settings))
	for _, ss := range settings {
		out = append(out, &genai.SafetySetting{
			Category:  genaiHarmCategory(ss.Category),
			Threshold: genaiHarmThreshold(ss.Threshold),
		})
	}
	return out
}

func genaiHarmCategory(c HarmCategory) genai.HarmCategory {
	switch c {
	case HarmCategoryHarassment:
		return genai.HarmCategoryHarassment
	case HarmCategoryHateSpeech:
		return genai.HarmCategoryHateSpeech
	case HarmCategorySexuallyExplicit:
		return genai.HarmCategorySexuallyExplicit
	default:
		return genai.HarmCategoryDangerousContent
	}
}

func genaiHarmThreshold(t HarmThreshold) genai.HarmBlockThreshold {
	switch t {
	case BlockLowAndAbove:
		return genai.HarmBlockThresholdBlockLowAndAbove
	case BlockOnlyHigh:
		return genai.HarmBlockThresholdBlockOnlyHigh
	case BlockNone:
		return genai.HarmBlockThresholdBlockNone
	default:
		return genai.HarmBlockThresholdBlockMediumAndAbove
	}
}

func genaiProviderError(err error) *ProviderError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{StatusCode: apiErr.Code, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &ProviderError{StatusCode: apiErrPtr.Code, Err: err}
	}
	return &ProviderError{Err: err}
}
