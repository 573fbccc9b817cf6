package services_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"csv-analyst/internal/services"
)

func TestFormatResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		input         string
		wantPrefix    string
		wantFollowUps bool
	}{
		{"adds heading and follow-ups", "Sales grew 12%.", "# Analysis\n\nSales grew 12%.", true},
		{"keeps existing heading", "## Revenue\n\nUp 12%.", "## Revenue\n\nUp 12%.", true},
		{"trims whitespace", "\n\n  # Title\nbody  \n", "# Title\nbody", true},
		{"existing follow-up section", "# Title\n\nFollow-Up: check Q3.", "# Title\n\nFollow-Up: check Q3.", false},
		{"existing next steps", "# Title\n\nNEXT STEPS: segment by region.", "# Title\n\nNEXT STEPS: segment by region.", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := services.FormatResponse(tc.input)
			assert.True(t, strings.HasPrefix(got, tc.wantPrefix), got)
			assert.True(t, strings.HasPrefix(got, "#"))
			assert.Equal(t, tc.wantFollowUps, strings.Contains(got, "### Suggested Follow-up Questions"))
		})
	}
}

func TestFormatResponse_Idempotent(t *testing.T) {
	t.Parallel()

	once := services.FormatResponse("Plain answer.")
	assert.Equal(t, once, services.FormatResponse(once))
}

func TestWordEstimator(t *testing.T) {
	t.Parallel()

	var e services.WordEstimator
	assert.Equal(t, 0, e.EstimateTokens(""))
	assert.Equal(t, 2, e.EstimateTokens("one"))
	assert.Equal(t, 3, e.EstimateTokens("one two"))
	assert.Equal(t, 5, e.EstimateTokens("  one\ttwo\nthree  "))
}

func TestNewTokenEstimator(t *testing.T) {
	t.Parallel()

	e, err := services.NewTokenEstimator("")
	assert.NoError(t, err)
	assert.IsType(t, services.WordEstimator{}, e)

	_, err = services.NewTokenEstimator("bytes")
	assert.Error(t, err)
}
