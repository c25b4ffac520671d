package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/pankaj-dahiya-devops/netexpose/internal/models"
)

// ANSI color codes for risk output (used when Colored=true).
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[0;31m"
	ansiYellow = "\033[0;33m"
)

// TableOptions controls which columns RenderTable renders and how risk is coloured.
type TableOptions struct {
	// Colored wraps risk labels with ANSI codes. Default false (CI-safe).
	Colored bool

	// IncludeOCID adds an OCID column after RESOURCE.
	IncludeOCID bool

	// Wide disables note shortening.
	Wide bool
}

// ColorRisk wraps a risk string with ANSI codes when colored is true.
// When colored is false the string is returned unchanged.
func ColorRisk(risk models.Risk, colored bool) string {
	s := string(risk)
	if code := riskColor(risk); colored && code != "" {
		return code + s + ansiReset
	}
	return s
}

func riskColor(risk models.Risk) string {
	switch risk {
	case models.RiskHigh:
		return ansiRed
	case models.RiskMedium:
		return ansiYellow
	default:
		return ""
	}
}

// ShortenMessage truncates msg to at most max runes, appending "..." when truncated.
// max is treated as at least 4 to guarantee space for the ellipsis.
func ShortenMessage(msg string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(msg)
	if len(runes) <= max {
		return msg
	}
	return string(runes[:max-3]) + "..."
}

// riskCell returns the risk padded to width characters.
// When colored, ANSI codes wrap only the text; trailing padding spaces are plain
// so subsequent columns stay aligned.
func riskCell(risk models.Risk, width int, colored bool) string {
	spaces := width - len(risk)
	if spaces < 0 {
		spaces = 0
	}
	return ColorRisk(risk, colored) + strings.Repeat(" ", spaces)
}

// truncateField shortens s to at most max runes for name/ID columns.
func truncateField(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// RenderTable writes a formatted findings table to w.
//
// Column order:
//
//	TYPE  RESOURCE  [OCID]  PORTS  RISK  NOTE
func RenderTable(w io.Writer, findings []models.Finding, opts TableOptions) {
	if len(findings) == 0 {
		fmt.Fprintln(w, "No findings.")
		return
	}

	const (
		wType     = 13
		wResource = 28
		wOCID     = 40
		wPorts    = 11
		wRisk     = 6
		wNote     = 70
	)

	var hb strings.Builder
	hb.WriteString(fmt.Sprintf("%-*s", wType, "TYPE"))
	hb.WriteString(fmt.Sprintf("  %-*s", wResource, "RESOURCE"))
	if opts.IncludeOCID {
		hb.WriteString(fmt.Sprintf("  %-*s", wOCID, "OCID"))
	}
	hb.WriteString(fmt.Sprintf("  %-*s", wPorts, "PORTS"))
	hb.WriteString(fmt.Sprintf("  %-*s", wRisk, "RISK"))
	hb.WriteString("  NOTE")
	header := hb.String()

	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)+wNote-len("NOTE")))

	for _, f := range findings {
		note := f.Note
		if !opts.Wide {
			note = ShortenMessage(note, wNote)
		}

		var rb strings.Builder
		rb.WriteString(fmt.Sprintf("%-*s", wType, string(f.ResourceType)))
		rb.WriteString(fmt.Sprintf("  %-*s", wResource, truncateField(f.ResourceName, wResource)))
		if opts.IncludeOCID {
			rb.WriteString(fmt.Sprintf("  %-*s", wOCID, truncateField(f.ResourceID, wOCID)))
		}
		rb.WriteString(fmt.Sprintf("  %-*s", wPorts, f.Ports))
		rb.WriteString("  " + riskCell(f.Risk, wRisk, opts.Colored))
		rb.WriteString("  " + note)
		fmt.Fprintln(w, rb.String())
	}
}
