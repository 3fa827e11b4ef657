package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/prepvox/prepvox/internal/ui/theme"
)

// Minimum terminal size the screens are designed for. Below this the
// app shows a resize prompt instead of a broken layout.
const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint is one key binding shown in the footer bar.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal is below the minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage fills the terminal with a resize prompt.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader draws the top bar: app name left, screen title
// centered, subscription tier right. An empty tier hides the badge.
func RenderHeader(title, tier string, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true).
		Render("  PrepVox")

	center := lipgloss.NewStyle().
		Foreground(theme.Text).
		Render(title)

	right := ""
	if tier != "" {
		right = lipgloss.NewStyle().
			Foreground(theme.Accent).
			Render("◆ " + tier)
	}

	inner := width - 4 // border padding
	if inner < 0 {
		inner = 0
	}

	// Center the title against the full bar, then pad the remainder
	// out to the right edge for the tier badge.
	leftGap := (inner-lipgloss.Width(center))/2 - lipgloss.Width(left)
	if leftGap < 1 {
		leftGap = 1
	}
	rightGap := inner - lipgloss.Width(left) - leftGap - lipgloss.Width(center) - lipgloss.Width(right)
	if rightGap < 1 {
		rightGap = 1
	}

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right

	return barStyle(width).Render(content)
}

// RenderFooter draws the bottom bar listing the active key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key)+
				" "+
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description))
	}

	return barStyle(width).Render("  " + strings.Join(parts, "   "))
}

// RenderFrame stacks header, content and footer, stretching the
// content region to fill the remaining height.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)

	return header + "\n" + body + "\n" + footer
}

func barStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}
