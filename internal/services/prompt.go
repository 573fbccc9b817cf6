package services

import (
	"strings"

	"csv-analyst/internal/models"
)

// MaxHistoryMessages bounds how many prior turns reach the prompt.
const MaxHistoryMessages = 10

// SystemPrompt frames every request. It also documents the chart block
// format understood by the client.
const SystemPrompt = `You are an expert data analyst. The user has uploaded a CSV dataset and is asking questions about it.

Guidelines:
- Answer in GitHub-flavored markdown, starting with a level-one heading.
- Base every claim on the dataset overview and preview provided below. If the preview is not enough to answer precisely, say so and explain what you would need.
- Quote concrete values, column names and counts where they support your answer.
- Use markdown tables for tabular comparisons.
- Keep answers focused; prefer short sections and bullet points over long prose.

Charts:
When a visualization would help, add a fenced code block tagged "chart" whose body is a single JSON object:
{"type": "bar", "chartData": [{"name": "label", "value": 123}], "options": {"title": "Chart title"}}
"type" is one of bar, line, pie, scatter, area, radial, radar. Every chartData entry needs a string "name" and a numeric "value". Do not escape the JSON.`

const focusInstructions = `Focus on:
1. Providing accurate analysis
2. Including specific data points
3. Highlighting key trends
4. Making data-driven recommendations
5. Suggesting relevant follow-up questions`

// RenderHistory formats the last MaxHistoryMessages turns as a markdown
// section, or returns "" when there is no history. This is the only place
// history is truncated.
func RenderHistory(history []models.ChatMessage) string {
	if len(history) == 0 {
		return ""
	}
	if len(history) > MaxHistoryMessages {
		history = history[len(history)-MaxHistoryMessages:]
	}

	turns := make([]string, 0, len(history))
	for _, msg := range history {
		label := "🤖 **Assistant**"
		if msg.Role == models.RoleUser {
			label = "👤 **User**"
		}
		turns = append(turns, label+":\n"+strings.TrimSpace(msg.Content))
	}

	return "### Conversation History\n\n" + strings.Join(turns, "\n\n---\n\n")
}

// BuildPrompt assembles the outbound prompt. Section order sets the model's
// instruction priority: system text, dataset summary, history, question,
// focus list.
func BuildPrompt(csvSummary, question string, history []models.ChatMessage) string {
	sections := []string{SystemPrompt, csvSummary}
	if rendered := RenderHistory(history); rendered != "" {
		sections = append(sections, rendered)
	}
	sections = append(sections, "Current Question: "+question, focusInstructions)
	return strings.Join(sections, "\n\n")
}
