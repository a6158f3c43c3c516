package cli

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/team151/robotcore/internal/core/domain"
)

func TestRenderOutcome_PadsToWidth(t *testing.T) {
	for _, o := range []domain.TaskOutcome{
		domain.OutcomeFinished,
		domain.OutcomeInterrupted,
		domain.OutcomeFaulted,
		domain.TaskOutcome("unknown"),
	} {
		out := renderOutcome(o, 11)
		assert.Contains(t, out, string(o))
		assert.Equal(t, 11, lipgloss.Width(out), "outcome %s", o)
	}
}

func TestRenderFaults(t *testing.T) {
	assert.Equal(t, "0", renderFaults(0))
	assert.Contains(t, renderFaults(3), "3")
}

func TestRenderTitle(t *testing.T) {
	assert.Contains(t, renderTitle("Summary"), "Summary")
}
