package usage

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/prepvox/prepvox/internal/llm"
	"github.com/prepvox/prepvox/internal/router"
	"github.com/prepvox/prepvox/internal/screen"
	"github.com/prepvox/prepvox/internal/store"
	"github.com/prepvox/prepvox/internal/ui/layout"
	"github.com/prepvox/prepvox/internal/ui/theme"
)

type usageLoadedMsg struct {
	Events    []store.LLMRequestEvent
	ByPurpose []store.PurposeUsage
	Err       error
}

// UsageScreen lists recent LLM API requests and per-purpose totals.
type UsageScreen struct {
	eventRepo store.EventRepo
	events    []store.LLMRequestEvent
	byPurpose []store.PurposeUsage
	selected  int
	expanded  map[int]bool
	loaded    bool
	errMsg    string
}

var _ screen.Screen = (*UsageScreen)(nil)
var _ screen.KeyHintProvider = (*UsageScreen)(nil)

// New creates a new UsageScreen.
func New(eventRepo store.EventRepo) *UsageScreen {
	return &UsageScreen{
		eventRepo: eventRepo,
		expanded:  make(map[int]bool),
	}
}

func (s *UsageScreen) Init() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		events, err := s.eventRepo.RecentLLMRequests(ctx, 50)
		if err != nil {
			return usageLoadedMsg{Err: err}
		}

		byPurpose, err := s.eventRepo.UsageByPurpose(ctx)
		if err != nil {
			return usageLoadedMsg{Events: events}
		}

		return usageLoadedMsg{Events: events, ByPurpose: byPurpose}
	}
}

func (s *UsageScreen) Title() string {
	return "API Usage"
}

func (s *UsageScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *UsageScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case usageLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.events = msg.Events
			s.byPurpose = msg.ByPurpose
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.events)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *UsageScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading usage...")
	}
	if len(s.events) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No API requests recorded yet.")
	}

	var b strings.Builder
	b.WriteString("\n")

	// Per-purpose totals first.
	for _, p := range s.byPurpose {
		line := fmt.Sprintf("  %-16s %d requests   %d in / %d out tok   avg %dms",
			p.Purpose, p.Requests, p.InputTokens, p.OutputTokens, p.AvgLatencyMs)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Secondary).Render(line)))
		b.WriteString("\n")
	}
	if len(s.byPurpose) > 0 {
		b.WriteString("\n")
	}

	for i, ev := range s.events {
		status := lipgloss.NewStyle().Foreground(theme.Success).Render("ok")
		if !ev.Success {
			status = lipgloss.NewStyle().Foreground(theme.Error).Render("err")
		}

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}

		line := fmt.Sprintf("%s#%-4d %s  %-14s %-28s %s",
			prefix, ev.ID, ev.Timestamp.Format("Jan 02 15:04"),
			ev.Purpose, ev.Model, status)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, detail := range eventDetails(ev) {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
					lipgloss.NewStyle().Foreground(theme.TextDim).Render("    "+detail)))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// eventDetails formats the expanded detail lines for one request.
func eventDetails(ev store.LLMRequestEvent) []string {
	details := []string{
		fmt.Sprintf("provider %s   tokens %d in / %d out   latency %dms",
			ev.Provider, ev.InputTokens, ev.OutputTokens, ev.LatencyMs),
	}
	if c := llm.LookupCost(ev.Model); c != nil {
		details = append(details,
			fmt.Sprintf("est. cost $%.4f", c.Cost(ev.InputTokens, ev.OutputTokens)))
	}
	if ev.ErrorMessage != "" {
		details = append(details, "error: "+ev.ErrorMessage)
	}
	return details
}
