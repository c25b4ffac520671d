package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pankaj-dahiya-devops/netexpose/internal/models"
)

const (
	markdownTitle     = "# OCI Network Exposure Scan Report"
	markdownHeader    = "| Type | Resource | Ports | Risk | Note |"
	markdownSeparator = "|---|---|---:|---|---|"
)

// RenderMarkdown writes the human-readable projection of findings: title,
// generation time, total count, then one table row per finding in input
// order. Notes are never truncated; pipes and newlines inside cells are
// escaped so every row stays on one line.
func RenderMarkdown(w io.Writer, findings []models.Finding, generatedAt time.Time) error {
	var b strings.Builder
	b.WriteString(markdownTitle + "\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", generatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Total findings: **%d**\n\n", len(findings))
	b.WriteString(markdownHeader + "\n")
	b.WriteString(markdownSeparator)
	for _, f := range findings {
		fmt.Fprintf(&b, "\n| %s | %s | %s | %s | %s |",
			cell(string(f.ResourceType)),
			cell(f.ResourceName),
			cell(f.Ports),
			cell(string(f.Risk)),
			cell(f.Note),
		)
	}
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}
	return nil
}

var cellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

func cell(s string) string {
	return cellReplacer.Replace(s)
}
