package services

import "strings"

const defaultHeading = "# Analysis"

const followUpSection = `### Suggested Follow-up Questions
- What other aspects of the data would you like to explore?
- Would you like to see any specific trends or patterns?
- Should we analyze any particular relationships in the data?`

// FormatResponse trims the model's reply, guarantees a leading heading and
// appends follow-up questions unless the reply already offers some.
func FormatResponse(text string) string {
	formatted := strings.TrimSpace(text)
	if !strings.HasPrefix(formatted, "#") {
		formatted = defaultHeading + "\n\n" + formatted
	}

	lower := strings.ToLower(formatted)
	if !strings.Contains(lower, "follow-up") && !strings.Contains(lower, "next steps") {
		formatted += "\n\n" + followUpSection
	}

	return formatted
}
