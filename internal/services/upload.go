package services

import (
	"bytes"
	"strings"
)

// NormalizeCSVText prepares uploaded CSV bytes for the summarizer: line
// endings become "\n", a UTF-8 BOM is dropped, and blank lines and
// surrounding whitespace are removed.
func NormalizeCSVText(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var buf bytes.Buffer
	for _, line := range strings.Split(s, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		buf.WriteString(trimmed)
		buf.WriteString("\n")
	}

	return strings.TrimSpace(buf.String())
}
