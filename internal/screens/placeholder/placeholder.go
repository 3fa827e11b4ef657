package placeholder

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/prepvox/prepvox/internal/router"
	"github.com/prepvox/prepvox/internal/screen"
	"github.com/prepvox/prepvox/internal/ui/theme"
)

// UnavailableScreen stands in for a feature that cannot open in the
// current configuration, e.g. the usage report when telemetry is off.
type UnavailableScreen struct {
	title  string
	reason string
}

var _ screen.Screen = (*UnavailableScreen)(nil)

// New creates the screen with the feature name and why it is off.
func New(title, reason string) *UnavailableScreen {
	return &UnavailableScreen{title: title, reason: reason}
}

func (u *UnavailableScreen) Init() tea.Cmd {
	return nil
}

func (u *UnavailableScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok {
		return u, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return u, nil
}

func (u *UnavailableScreen) View(width, height int) string {
	body := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(u.title+" is not available") +
		"\n\n" + lipgloss.NewStyle().Foreground(theme.TextDim).Render(u.reason) +
		"\n\n" + theme.Hint.Render("Press any key to go back.")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(body)
}

func (u *UnavailableScreen) Title() string {
	return u.title
}
