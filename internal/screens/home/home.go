package home

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/prepvox/prepvox/internal/entitlement"
	"github.com/prepvox/prepvox/internal/practice"
	"github.com/prepvox/prepvox/internal/router"
	"github.com/prepvox/prepvox/internal/screen"
	"github.com/prepvox/prepvox/internal/screens/account"
	"github.com/prepvox/prepvox/internal/screens/placeholder"
	"github.com/prepvox/prepvox/internal/screens/setup"
	"github.com/prepvox/prepvox/internal/screens/usage"
	"github.com/prepvox/prepvox/internal/store"
	"github.com/prepvox/prepvox/internal/tts"
	"github.com/prepvox/prepvox/internal/ui/components"
	"github.com/prepvox/prepvox/internal/ui/theme"
)

// HomeScreen is the main menu.
type HomeScreen struct {
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(ctrl *practice.Controller, speaker tts.Speaker, source entitlement.StatusSource, gate *entitlement.Gate, eventRepo store.EventRepo) *HomeScreen {
	items := []components.MenuItem{
		{Label: "START PRACTICE", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: setup.New(ctrl, speaker)}
			}
		}},
		{Label: "SUBSCRIPTION", Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: account.New(source, gate)}
			}
		}},
		{Label: "API USAGE", Action: func() tea.Cmd {
			if eventRepo == nil {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: placeholder.New(
						"API Usage", "Telemetry is disabled, so there is nothing to report.")}
				}
			}
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: usage.New(eventRepo)}
			}
		}},
		{Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	return &HomeScreen{menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	title := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("PrepVox")
	subtitle := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("voice-first exam practice")

	menu := lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View())

	return "\n\n" + title + "\n" + subtitle + "\n\n\n" + menu
}

func (h *HomeScreen) Title() string {
	return "Home"
}
