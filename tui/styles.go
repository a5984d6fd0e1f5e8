package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/soumyaswe/Pravartak-AI-sub000/result"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	successStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	categoryStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	dimStyle         = lipgloss.NewStyle().Faint(true)
	urlStyle         = lipgloss.NewStyle()
	statusErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	actionStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// categoryOrder defines the display order for error categories (most to least actionable).
var categoryOrder = []result.ErrorCategory{
	result.Category4xx,
	result.CategoryUnavailable,
	result.Category5xx,
	result.CategoryTimeout,
	result.CategoryDNSFailure,
	result.CategoryConnectionRefused,
	result.CategoryTLS,
	result.CategoryRedirectLoop,
	result.CategoryInvalidURL,
	result.CategoryUnknown,
}

// RenderSummary produces a Lip Gloss styled summary of a link-check report.
func RenderSummary(rep *result.Report) string {
	if rep == nil {
		return errorStyle.Render("No results available.")
	}

	var builder strings.Builder
	broken := rep.BrokenLinks()

	if len(broken) == 0 {
		builder.WriteString(successStyle.Render("No broken links found!"))
		builder.WriteString("\n")
		builder.WriteString(dimStyle.Render(fmt.Sprintf(
			"Checked %d links in %s (%d redirected)",
			rep.Stats.OriginalCount,
			rep.Stats.Duration.Round(time.Millisecond),
			rep.Stats.RedirectedCount,
		)))
		builder.WriteString("\n")
		return builder.String()
	}

	grouped := make(map[result.ErrorCategory][]result.LinkReport)
	for _, link := range broken {
		cat := link.ErrorCategory
		if cat == "" {
			cat = result.CategoryUnknown
		}
		grouped[cat] = append(grouped[cat], link)
	}

	for _, cat := range categoryOrder {
		links := grouped[cat]
		if len(links) == 0 {
			continue
		}

		builder.WriteString(categoryStyle.Render(fmt.Sprintf("## %s (%d)", cat.Label(), len(links))))
		builder.WriteString("\n")

		rows := make([][]string, 0, len(links))
		for _, link := range links {
			status := fmt.Sprintf("%d", link.StatusCode)
			if link.Error != "" {
				status = link.Error
			}
			rows = append(rows, []string{link.URL, status, action(link)})
		}

		catTable := table.New().
			Border(lipgloss.RoundedBorder()).
			Headers("URL", "Status", "Action").
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				case col == 1:
					return statusErrorStyle
				case col == 2:
					return actionStyle
				}
				return urlStyle
			}).
			Rows(rows...)

		builder.WriteString(catTable.Render())
		builder.WriteString("\n\n")
	}

	builder.WriteString(titleStyle.Render(fmt.Sprintf(
		"Found %d broken links out of %d checked: %d replaced, %d removed (%s)",
		len(broken),
		rep.Stats.OriginalCount,
		rep.Stats.ReplacedCount,
		rep.Stats.RemovedCount,
		rep.Stats.Duration.Round(time.Millisecond),
	)))
	builder.WriteString("\n")

	return builder.String()
}

func action(link result.LinkReport) string {
	switch link.Outcome {
	case result.OutcomeReplaced:
		return "replaced: " + link.Replacement
	case result.OutcomeRemoved:
		return "removed"
	default:
		return "left in place"
	}
}
