package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// MaxResponseTokens is the largest estimated reply the analyst returns.
// Longer replies are rejected, never truncated.
const MaxResponseTokens = 2048

type TokenEstimator interface {
	EstimateTokens(text string) int
}

// WordEstimator approximates tokens as 1.5 per whitespace-separated word.
type WordEstimator struct{}

func (WordEstimator) EstimateTokens(text string) int {
	return int(math.Ceil(float64(len(strings.Fields(text))) * 1.5))
}

// TiktokenEstimator counts cl100k_base BPE tokens.
type TiktokenEstimator struct {
	encoding *tiktoken.Tiktoken
}

func NewTiktokenEstimator() (*TiktokenEstimator, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load cl100k_base encoding: %w", err)
	}
	return &TiktokenEstimator{encoding: enc}, nil
}

func (t *TiktokenEstimator) EstimateTokens(text string) int {
	return len(t.encoding.Encode(text, nil, nil))
}

// NewTokenEstimator picks an estimator by name: "words" (default) or
// "tiktoken".
func NewTokenEstimator(kind string) (TokenEstimator, error) {
	switch kind {
	case "", "words":
		return WordEstimator{}, nil
	case "tiktoken":
		est, err := NewTiktokenEstimator()
		if err != nil {
			return nil, err
		}
		return est, nil
	default:
		return nil, fmt.Errorf("unknown token estimator %q", kind)
	}
}
