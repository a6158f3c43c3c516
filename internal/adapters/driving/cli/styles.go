package cli

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/team151/robotcore/internal/core/domain"
)

// Output colours. Styles render as plain text when stdout is not a colour terminal.
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorSuccess = lipgloss.Color("#A6E3A1")
	colorWarning = lipgloss.Color("#F9E2AF")
	colorError   = lipgloss.Color("#F38BA8")

	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorError)

	outcomeStyles = map[domain.TaskOutcome]lipgloss.Style{
		domain.OutcomeFinished:    lipgloss.NewStyle().Foreground(colorSuccess),
		domain.OutcomeInterrupted: lipgloss.NewStyle().Foreground(colorWarning),
		domain.OutcomeFaulted:     lipgloss.NewStyle().Bold(true).Foreground(colorError),
	}
)

// renderTitle renders a section heading.
func renderTitle(s string) string {
	return titleStyle.Render(s)
}

// renderOutcome renders an outcome padded to width so table columns align
// whether or not colour escapes are emitted.
func renderOutcome(o domain.TaskOutcome, width int) string {
	style, ok := outcomeStyles[o]
	if !ok {
		style = lipgloss.NewStyle()
	}
	return style.Width(width).Render(string(o))
}

// renderFaults renders a fault count, highlighted when non-zero.
func renderFaults(n int) string {
	if n == 0 {
		return "0"
	}
	return errorStyle.Render(strconv.Itoa(n))
}
