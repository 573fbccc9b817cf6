package services

import (
	"context"
	"fmt"
	"time"
)

type HarmCategory string

const (
	HarmCategoryDangerousContent HarmCategory = "dangerous_content"
	HarmCategoryHarassment       HarmCategory = "harassment"
	HarmCategoryHateSpeech       HarmCategory = "hate_speech"
	HarmCategorySexuallyExplicit HarmCategory = "sexually_explicit"
)

type HarmThreshold string

const (
	BlockLowAndAbove    HarmThreshold = "block_low_and_above"
	BlockMediumAndAbove HarmThreshold = "block_medium_and_above"
	BlockOnlyHigh       HarmThreshold = "block_only_high"
	BlockNone           HarmThreshold = "block_none"
)

// SafetySetting is a provider-neutral content filter rule.
type SafetySetting struct {
	Category  HarmCategory
	Threshold HarmThreshold
}

// DefaultSafetySettings is sent with every analyst prompt.
var DefaultSafetySettings = []SafetySetting{
	{Category: HarmCategoryDangerousContent, Threshold: BlockMediumAndAbove},
}

// Generator turns a single prompt into text. Implementations report failures
// as *ProviderError so callers can classify them.
type Generator interface {
	Generate(ctx context.Context, prompt string, safety []SafetySetting) (string, error)
}

// slots is a token bucket bounding concurrent provider calls.
type slots chan struct{}

func newSlots(n int) slots {
	if n < 1 {
		n = 1
	}
	s := make(slots, n)
	for i := 0; i < n; i++ {
		s <- struct{}{}
	}
	return s
}

// acquire blocks until a slot is available
func (s slots) acquire(ctx context.Context) error {
	select {
	case <-s:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s slots) release() {
	s <- struct{}{}
}
