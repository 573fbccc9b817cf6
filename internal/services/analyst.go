package services

import (
	"context"
	"log/slog"
	"strings"

	"csv-analyst/internal/chart"
	"csv-analyst/internal/models"
)

// AnalystService answers questions about an uploaded CSV file with a single
// provider call per request.
type AnalystService struct {
	generator Generator
	estimator TokenEstimator
	logger    *slog.Logger
	maxTokens int
}

func NewAnalystService(generator Generator, estimator TokenEstimator, logger *slog.Logger) *AnalystService {
	return &AnalystService{
		generator: generator,
		estimator: estimator,
		logger:    logger,
		maxTokens: MaxResponseTokens,
	}
}

// Answer runs validate → summarize → compose → generate → normalize →
// length-check. Every failure comes back as one of *ValidationError,
// *QuotaError, *TooLongError or *UnclassifiedError.
func (s *AnalystService) Answer(ctx context.Context, req models.ChatRequest) (string, error) {
	if err := validateChatRequest(req); err != nil {
		return "", err
	}

	summary := SummarizeCSV(req.CSVContent)
	prompt := BuildPrompt(summary, req.Question, req.History)

	s.logger.Debug("sending prompt",
		"prompt_chars", len(prompt),
		"history_messages", min(len(req.History), MaxHistoryMessages),
	)

	raw, err := s.generator.Generate(ctx, prompt, DefaultSafetySettings)
	if err != nil {
		classified := classifyProviderError(err)
		s.logger.Error("generate failed", "err", err, "classified_as", classifiedName(classified))
		return "", classified
	}

	text := FormatResponse(raw)

	if tokens := s.estimator.EstimateTokens(text); tokens > s.maxTokens {
		s.logger.Warn("response over token budget", "estimated_tokens", tokens, "max_tokens", s.maxTokens)
		return "", &TooLongError{Message: msgResponseTooLong}
	}

	for _, block := range chart.ExtractBlocks(text) {
		if block.Err != nil {
			s.logger.Warn("malformed chart block in response", "err", block.Err, "raw_chars", len(block.Raw))
		}
	}

	return text, nil
}

func validateChatRequest(req models.ChatRequest) error {
	fields := map[string]string{}
	if strings.TrimSpace(req.CSVContent) == "" {
		fields["csvContent"] = "required"
	}
	if strings.TrimSpace(req.Question) == "" {
		fields["question"] = "required"
	}
	if len(fields) > 0 {
		return &ValidationError{Message: msgMissingFields, Fields: fields}
	}
	return nil
}

func classifiedName(err error) string {
	switch err.(type) {
	case *QuotaError:
		return "quota"
	case *TooLongError:
		return "too_long"
	default:
		return "unclassified"
	}
}
