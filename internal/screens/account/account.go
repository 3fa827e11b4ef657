package account

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/prepvox/prepvox/internal/entitlement"
	"github.com/prepvox/prepvox/internal/router"
	"github.com/prepvox/prepvox/internal/screen"
	"github.com/prepvox/prepvox/internal/ui/layout"
	"github.com/prepvox/prepvox/internal/ui/theme"
)

type statusLoadedMsg struct {
	Status entitlement.Status
	Err    error
}

// AccountScreen shows the live subscription status and session caps.
type AccountScreen struct {
	source entitlement.StatusSource
	gate   *entitlement.Gate

	status entitlement.Status
	loaded bool
	errMsg string
}

var _ screen.Screen = (*AccountScreen)(nil)
var _ screen.KeyHintProvider = (*AccountScreen)(nil)

// New creates the account screen.
func New(source entitlement.StatusSource, gate *entitlement.Gate) *AccountScreen {
	return &AccountScreen{source: source, gate: gate}
}

func (s *AccountScreen) Init() tea.Cmd {
	return func() tea.Msg {
		status, err := s.source.Status(context.Background())
		return statusLoadedMsg{Status: status, Err: err}
	}
}

func (s *AccountScreen) Title() string {
	return "Subscription"
}

func (s *AccountScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "R", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AccountScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statusLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.errMsg = ""
			s.status = msg.Status
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "r", "R":
			s.loaded = false
			return s, s.Init()
		}
	}
	return s, nil
}

func (s *AccountScreen) View(width, height int) string {
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Checking subscription...")
	}
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nCould not reach the subscription service:\n%s", s.errMsg))
	}

	var b strings.Builder
	b.WriteString("\n")

	tierStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	if s.status.Expired() {
		tierStyle = theme.Incorrect
	}
	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).
		Render("Plan: " + tierStyle.Render(strings.ToUpper(string(s.status.Tier)))))
	b.WriteString("\n\n")

	switch {
	case s.status.Expired():
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render("Your subscription has expired. Upgrade to start new sessions."))
	case s.status.DaysRemaining != nil:
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Text).
			Render(fmt.Sprintf("%d day(s) remaining", *s.status.DaysRemaining)))
	default:
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("Free plan, no expiry"))
	}
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
		Render(fmt.Sprintf("Up to %d questions per session on this plan",
			s.gate.MaxQuestions(s.status.Tier))))

	return b.String()
}
