package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
)

var _ Generator = (*GeminiService)(nil)

// GeminiService calls Gemini through the generative-ai-go SDK.
type GeminiService struct {
	client    *genai.Client
	modelName string
	logger    *slog.Logger
	slots     slots
}

func NewGeminiService(ctx context.Context, apiKey, modelName string, concurrentReqs int, logger *slog.Logger) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiService{
		client:    client,
		modelName: modelName,
		logger:    logger,
		slots:     newSlots(concurrentReqs),
	}, nil
}

func (s *GeminiService) Close() error {
	return s.client.Close()
}

// Generate sends prompt as a single text part. A fresh model handle is built
// per call so safety settings never leak between requests.
func (s *GeminiService) Generate(ctx context.Context, prompt string, safety []SafetySetting) (string, error) {
	if err := s.slots.acquire(ctx); err != nil {
		return "", &ProviderError{Err: err}
	}
	defer s.slots.release()

	model := s.client.GenerativeModel(s.modelName)
	model.SetTemperature(0.3)
	model.SetTopP(0.95)
	model.SafetySettings = legacySafetySettings(safety)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", legacyProviderError(err)
	}

	for i, cand := range resp.Candidates {
		s.logger.Debug("gemini candidate", "index", i, "finish_reason", cand.FinishReason.String(), "token_count", cand.TokenCount)
		if cand.FinishReason != genai.FinishReasonStop {
			s.logger.Warn("gemini stopped early", "finish_reason", cand.FinishReason.String())
		}
	}

	text := extractText(resp)
	if text == "" {
		return "", &ProviderError{Err: errors.New("gemini returned empty text")}
	}
	return text, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func legacySafetySettings(settings []SafetySetting) []*genai.SafetySetting {
	out := make([]*genai.SafetySetting, 0, len(settings))
	for _, ss := range settings {
		out = append(out, &genai.SafetySetting{
			Category:  legacyHarmCategory(ss.Category),
			Threshold: legacyHarmThreshold(ss.Threshold),
		})
	}
	return out
}

func legacyHarmCategory(c HarmCategory) genai.HarmCategory {
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

func legacyHarmThreshold(t HarmThreshold) genai.HarmBlockThreshold {
	switch t {
	case BlockLowAndAbove:
		return genai.HarmBlockLowAndAbove
	case BlockOnlyHigh:
		return genai.HarmBlockOnlyHigh
	case BlockNone:
		return genai.HarmBlockNone
	default:
		return genai.HarmBlockMediumAndAbove
	}
}

// legacyProviderError recovers the HTTP status from the SDK's error chain.
func legacyProviderError(err error) *ProviderError {
	status := 0

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		if code := apiErr.HTTPCode(); code > 0 {
			status = code
		} else if apiErr.GRPCStatus().Code() == codes.ResourceExhausted {
			status = 429
		}
	}

	var gErr *googleapi.Error
	if status == 0 && errors.As(err, &gErr) {
		status = gErr.Code
	}

	return &ProviderError{StatusCode: status, Err: err}
}
