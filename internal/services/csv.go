package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EmptyCSV is returned by SummarizeCSV for blank input.
const EmptyCSV = "Empty CSV file"

const csvPreviewRows = 3

var errMalformedCSV = errors.New("csv is not valid UTF-8")

var numberPrinter = message.NewPrinter(language.AmericanEnglish)

// SummarizeCSV describes the shape of raw CSV text as markdown: record and
// field counts, the column list, a preview table and a raw excerpt.
//
// Rows are split on newlines and fields on commas; quoted commas are not
// understood. Input that cannot be described is returned trimmed and
// verbatim, so the summary never fails a request.
func SummarizeCSV(content string) (summary string) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return EmptyCSV
	}

	defer func() {
		if r := recover(); r != nil {
			summary = trimmed
		}
	}()

	out, err := describeCSV(trimmed)
	if err != nil {
		return trimmed
	}
	return out
}

func describeCSV(content string) (string, error) {
	if !utf8.ValidString(content) {
		return "", errMalformedCSV
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}

	headers := splitCSVLine(lines[0])
	sample := lines[1:min(len(lines), csvPreviewRows+1)]
	rowCount := len(lines) - 1

	var b strings.Builder

	b.WriteString("## Dataset Overview\n\n")
	b.WriteString("### Structure\n")
	b.WriteString(fmt.Sprintf("- **Total Records:** `%s`\n", numberPrinter.Sprintf("%d", rowCount)))
	b.WriteString(fmt.Sprintf("- **Fields:** `%d`\n\n", len(headers)))

	b.WriteString("### Columns\n")
	for i, h := range headers {
		b.WriteString(fmt.Sprintf("%d. **%s**\n", i+1, h))
	}

	b.WriteString("\n### Preview\n")
	b.WriteString(markdownRow(headers))
	divider := make([]string, len(headers))
	for i := range divider {
		divider[i] = "---"
	}
	b.WriteString(markdownRow(divider))
	for _, row := range sample {
		b.WriteString(markdownRow(splitCSVLine(row)))
	}

	b.WriteString("\n```csv\n")
	b.WriteString(fmt.Sprintf("# First %d rows of data\n", len(sample)))
	for _, row := range sample {
		b.WriteString(row)
		b.WriteString("\n")
	}
	b.WriteString("```")

	return b.String(), nil
}

func splitCSVLine(line string) []string {
	cells := strings.Split(line, ",")
	for i, c := range cells {
		cells[i] = strings.TrimSpace(c)
	}
	return cells
}

func markdownRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |\n"
}
