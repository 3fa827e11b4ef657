package components

import (
	"strings"

	"github.com/prepvox/prepvox/internal/ui/theme"
)

// ProgressBar is a fixed-width horizontal bar. The results screen
// uses it to visualize the deterministic score for the session.
type ProgressBar struct {
	Percent float64 // 0.0 through 1.0
	Width   int
}

// NewProgressBar creates a bar at the given fill ratio and width.
func NewProgressBar(percent float64, width int) ProgressBar {
	return ProgressBar{Percent: percent, Width: width}
}

// View renders the bar.
func (p ProgressBar) View() string {
	width := p.Width
	if width < 4 {
		width = 4
	}

	filled := fill(p.Percent, width)

	return theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", width-filled))
}

// fill clamps the ratio and converts it to a cell count.
func fill(percent float64, width int) int {
	filled := int(float64(width) * percent)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return filled
}
