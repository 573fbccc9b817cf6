// Package mock provides test doubles for service interfaces using function fields.
package mock

import (
	"context"

	"csv-analyst/internal/services"
)

// Interface compliance check.
var _ services.Generator = (*Generator)(nil)

// Generator is a test double for services.Generator. It records every call.
// Set GenerateFn before calling Generate.
type Generator struct {
	GenerateFn func(ctx context.Context, prompt string, safety []services.SafetySetting) (string, error)

	Calls      int
	LastPrompt string
	LastSafety []services.SafetySetting
}

// Generate records the call and delegates to GenerateFn.
func (g *Generator) Generate(ctx context.Context, prompt string, safety []services.SafetySetting) (string, error) {
	g.Calls++
	g.LastPrompt = prompt
	g.LastSafety = safety
	return g.GenerateFn(ctx, prompt, safety)
}

// Returning builds a Generator that always answers with text.
func Returning(text string) *Generator {
	return &Generator{
		GenerateFn: func(context.Context, string, []services.SafetySetting) (string, error) {
			return text, nil
		},
	}
}

// Failing builds a Generator that always fails with err.
func Failing(err error) *Generator {
	return &Generator{
		GenerateFn: func(context.Context, string, []services.SafetySetting) (string, error) {
			return "", err
		},
	}
}
