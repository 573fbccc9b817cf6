// Package chart defines the chart block convention shared between the
// analyst's replies and the rendering client.
//
// A chart block is a fenced code block tagged "chart" whose body is a JSON
// object:
//
//	{"type": "bar", "chartData": [{"name": "Q1", "value": 42}], "options": {"title": "Sales"}}
//
// Models frequently over-escape that JSON, so parsing goes through SafeParse,
// which tries progressively more aggressive unescaping before giving up.
package chart

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Type is the kind of chart the client draws.
type Type string

const (
	TypeBar     Type = "bar"
	TypeLine    Type = "line"
	TypePie     Type = "pie"
	TypeScatter Type = "scatter"
	TypeArea    Type = "area"
	TypeRadial  Type = "radial"
	TypeRadar   Type = "radar"
)

// Types lists every chart type the client can render.
var Types = []Type{TypeBar, TypeLine, TypePie, TypeScatter, TypeArea, TypeRadial, TypeRadar}

// Valid reports whether t is a known chart type.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Point is a single named value in a chart series.
type Point struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Options holds optional presentation settings.
type Options struct {
	Title string `json:"title,omitempty"`
}

// Spec is a decoded chart block.
type Spec struct {
	Type      Type     `json:"type"`
	ChartData []Point  `json:"chartData"`
	Options   *Options `json:"options,omitempty"`
}

// ErrInvalid is wrapped by every error returned from Parse and Validate.
var ErrInvalid = errors.New("invalid chart")

// Validate checks the spec against the chart sub-schema.
func (s *Spec) Validate() error {
	if !s.Type.Valid() {
		return fmt.Errorf("unknown chart type %q: %w", s.Type, ErrInvalid)
	}
	if len(s.ChartData) == 0 {
		return fmt.Errorf("chartData is empty: %w", ErrInvalid)
	}
	for i, p := range s.ChartData {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("chartData[%d] has no name: %w", i, ErrInvalid)
		}
	}
	return nil
}

// Parse decodes and validates a chart block body.
func Parse(raw string) (*Spec, error) {
	data, ok := normalize(raw)
	if !ok {
		return nil, fmt.Errorf("body is not valid JSON: %w", ErrInvalid)
	}
	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("decode chart: %v: %w", err, ErrInvalid)
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// SafeParse decodes raw as JSON, retrying with unescaping fallbacks. It
// returns false instead of an error when every attempt fails.
func SafeParse(raw string) (any, bool) {
	data, ok := normalize(raw)
	if !ok {
		return nil, false
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return v, true
}

var backslashRun = regexp.MustCompile(`(?s)\\+(.?)`)

// escapeFixes are applied in order; later entries see the output of
// earlier ones.
var escapeFixes = [][2]string{
	{`\"`, `"`},
	{`\{`, `{`},
	{`\}`, `}`},
	{`\[`, `[`},
	{`\]`, `]`},
	{`\\`, `\`},
	{`\n`, "\n"},
	{`\r`, "\r"},
	{`\t`, "\t"},
}

// normalize returns the first candidate rewrite of raw that is valid JSON.
func normalize(raw string) ([]byte, bool) {
	if json.Valid([]byte(raw)) {
		return []byte(raw), true
	}

	if strings.Contains(raw, `\[`) {
		if cleaned := stripEscapeRuns(raw); json.Valid([]byte(cleaned)) {
			return []byte(cleaned), true
		}
	}

	fixed := raw
	for _, fix := range escapeFixes {
		fixed = strings.ReplaceAll(fixed, fix[0], fix[1])
	}
	if json.Valid([]byte(fixed)) {
		return []byte(fixed), true
	}

	sanitized := strings.ReplaceAll(raw, `\`, "")
	sanitized = strings.ReplaceAll(sanitized, `"[`, "[")
	sanitized = strings.ReplaceAll(sanitized, `]"`, "]")
	if json.Valid([]byte(sanitized)) {
		return []byte(sanitized), true
	}

	return nil, false
}

// stripEscapeRuns drops backslash runs in front of a quote or opening
// bracket and collapses any other run to a single backslash.
func stripEscapeRuns(s string) string {
	return backslashRun.ReplaceAllStringFunc(s, func(m string) string {
		next := strings.TrimLeft(m, `\`)
		switch next {
		case `"`, `[`, `{`:
			return next
		default:
			return `\` + next
		}
	})
}
