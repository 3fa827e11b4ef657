package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/prepvox/prepvox/internal/ui/theme"
)

const bannerArt = `
 ██████╗ ██████╗ ███████╗██████╗ ██╗   ██╗ ██████╗ ██╗  ██╗
 ██╔══██╗██╔══██╗██╔════╝██╔══██╗██║   ██║██╔═══██╗╚██╗██╔╝
 ██████╔╝██████╔╝█████╗  ██████╔╝██║   ██║██║   ██║ ╚███╔╝
 ██╔═══╝ ██╔══██╗██╔══╝  ██╔═══╝ ╚██╗ ██╔╝██║   ██║ ██╔██╗
 ██║     ██║  ██║███████╗██║      ╚████╔╝ ╚██████╔╝██╔╝ ██╗
 ╚═╝     ╚═╝  ╚═╝╚══════╝╚═╝       ╚═══╝   ╚═════╝ ╚═╝  ╚═╝`

const bannerCompact = "P R E P V O X"

// RenderBanner returns the PREPVOX banner styled in the primary color.
// Uses a compact fallback for terminals narrower than 62 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 62 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
