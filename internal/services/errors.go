package services

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// User-facing messages. Provider error text never reaches the client.
const (
	msgMissingFields   = "Missing required fields"
	msgQuotaExceeded   = "API quota exceeded. Please try again in a few minutes."
	msgInputTooLong    = "The CSV file or question is too long. Please try a smaller file or a more specific question."
	msgResponseTooLong = "Response too long. Please try a more specific question."
)

// Custom errors
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

// QuotaError means the provider rejected the call for rate or quota reasons.
type QuotaError struct{ Message string }

func (e *QuotaError) Error() string { return e.Message }

// TooLongError covers both the provider's own length complaints and
// replies over the local token budget.
type TooLongError struct{ Message string }

func (e *TooLongError) Error() string { return e.Message }

type UnclassifiedError struct{ Err error }

func (e *UnclassifiedError) Error() string { return fmt.Sprintf("unclassified failure: %v", e.Err) }

func (e *UnclassifiedError) Unwrap() error { return e.Err }

// ProviderError is what Generator implementations return for failed calls.
// StatusCode is the HTTP status reported by the provider, or 0 if unknown.
type ProviderError struct {
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider: HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider: %v", e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

var tokenLimitHints = []string{"token", "too long", "context length"}

// classifyProviderError maps a failed generate call onto the error taxonomy.
func classifyProviderError(err error) error {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.StatusCode == http.StatusTooManyRequests {
		return &QuotaError{Message: msgQuotaExceeded}
	}

	lower := strings.ToLower(err.Error())
	for _, hint := range tokenLimitHints {
		if strings.Contains(lower, hint) {
			return &TooLongError{Message: msgInputTooLong}
		}
	}

	return &UnclassifiedError{Err: err}
}
