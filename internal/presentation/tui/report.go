package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/vantage/internal/dto"
	"github.com/muesli/termenv"
)

// MarkdownReport renders a cache report as markdown, ready for glamour.
func MarkdownReport(report dto.CacheReport) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Transforms relative to `%s`\n\n", report.Reference)
	fmt.Fprintf(&sb, "Query: *%s*\n\n", report.Query)

	sb.WriteString("## Reachable\n\n")
	if len(report.Entities) == 0 {
		sb.WriteString("No reachable entities.\n\n")
	} else {
		sb.WriteString("| Entity | Translation |\n|---|---|\n")
		for _, e := range report.Entities {
			fmt.Fprintf(&sb, "| `%s` | %s |\n", e.Path, formatVec(e.Translation))
		}
		sb.WriteString("\n")
	}

	if len(report.UnreachableDescendants) > 0 || report.FirstUnreachableParent != nil {
		sb.WriteString("## Unreachable\n\n| Entity | Reason |\n|---|---|\n")
		for _, u := range report.UnreachableDescendants {
			fmt.Fprintf(&sb, "| `%s` | %s |\n", u.Path, u.Message)
		}
		if u := report.FirstUnreachableParent; u != nil {
			fmt.Fprintf(&sb, "| `%s` (parent) | %s |\n", u.Path, u.Message)
		}
	}
	return sb.String()
}

// TextReport renders a cache report as plain lines. Colors follow the profile;
// termenv.Ascii yields uncolored text.
func TextReport(report dto.CacheReport, profile termenv.Profile) string {
	ok := func(s string) termenv.Style { return profile.String(s).Foreground(profile.Color("#22c55e")) }
	bad := func(s string) termenv.Style { return profile.String(s).Foreground(profile.Color("#ef4444")) }

	var sb strings.Builder
	fmt.Fprintf(&sb, "reference %s (%s)\n", report.Reference, report.Query)
	for _, e := range report.Entities {
		fmt.Fprintf(&sb, "  %s %s %s\n", ok("✓"), e.Path, formatVec(e.Translation))
	}
	for _, u := range report.UnreachableDescendants {
		fmt.Fprintf(&sb, "  %s %s %s\n", bad("✗"), u.Path, u.Reason)
	}
	if u := report.FirstUnreachableParent; u != nil {
		fmt.Fprintf(&sb, "  %s %s %s (parent)\n", bad("✗"), u.Path, u.Reason)
	}
	return sb.String()
}

func formatVec(v [3]float64) string {
	return fmt.Sprintf("(%.4g, %.4g, %.4g)", v[0], v[1], v[2])
}
