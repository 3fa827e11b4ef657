package summary

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/prepvox/prepvox/internal/practice"
	"github.com/prepvox/prepvox/internal/router"
	"github.com/prepvox/prepvox/internal/screen"
	"github.com/prepvox/prepvox/internal/scoring"
	"github.com/prepvox/prepvox/internal/ui/components"
	"github.com/prepvox/prepvox/internal/ui/layout"
	"github.com/prepvox/prepvox/internal/ui/theme"
)

// SummaryScreen shows the scored report and fetches remote evaluation
// for the open-ended answers.
type SummaryScreen struct {
	ctrl *practice.Controller

	report     *scoring.Report
	evaluating bool
	evalErr    string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates the summary screen for a submitted session.
func New(ctrl *practice.Controller) *SummaryScreen {
	return &SummaryScreen{ctrl: ctrl, report: ctrl.Report()}
}

// evaluatedMsg carries the merged report, or the evaluation error.
type evaluatedMsg struct {
	report *scoring.Report
	err    error
}

func (s *SummaryScreen) Init() tea.Cmd {
	if s.report == nil || s.report.Evaluated || !hasDeferred(s.report) {
		return nil
	}
	return s.evaluate()
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
	}
	if s.evalErr != "" {
		hints = append([]layout.KeyHint{{Key: "R", Description: "Retry evaluation"}}, hints...)
	}
	return hints
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case evaluatedMsg:
		s.evaluating = false
		if msg.err != nil {
			s.evalErr = msg.err.Error()
			return s, nil
		}
		if msg.report != nil {
			s.report = msg.report
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "r", "R":
			if s.evalErr != "" && !s.evaluating {
				return s, s.evaluate()
			}
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

// evaluate runs the remote evaluation off the UI loop.
func (s *SummaryScreen) evaluate() tea.Cmd {
	s.evaluating = true
	s.evalErr = ""
	ctrl := s.ctrl
	return func() tea.Msg {
		report, err := ctrl.Evaluate(context.Background())
		return evaluatedMsg{report: report, err: err}
	}
}

func (s *SummaryScreen) View(width, height int) string {
	r := s.report
	if r == nil {
		return ""
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render("Session complete"))
	b.WriteString("\n\n")

	if r.Aggregate.Total > 0 {
		statsLine := fmt.Sprintf("Scored: %d/%d correct        %d%%",
			r.Aggregate.CorrectCount, r.Aggregate.Total, r.Aggregate.Percentage)
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Text).
			Render(statsLine))
		b.WriteString("\n")
		bar := components.NewProgressBar(
			float64(r.Aggregate.Percentage)/100, min(width-16, 44))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
		b.WriteString("\n\n")
	}

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for _, qr := range r.PerQuestion {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			renderResult(qr, width)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case s.evaluating:
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Evaluating spoken and written answers..."))
	case s.evalErr != "":
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render("Evaluation failed: " + s.evalErr))
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Press R to retry."))
	case r.Evaluated && r.OverallFeedback != "":
		feedback := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text).
			Render(r.OverallFeedback)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, feedback))
	}

	return b.String()
}

// renderResult formats one per-question line plus optional evaluator
// feedback underneath.
func renderResult(qr scoring.QuestionResult, width int) string {
	var verdict string
	style := lipgloss.NewStyle().Foreground(theme.Text)

	switch {
	case qr.Correct != nil && *qr.Correct:
		verdict = "correct"
		style = theme.Correct
	case qr.Correct != nil:
		verdict = "incorrect"
		style = theme.Incorrect
	case qr.Score != nil:
		verdict = fmt.Sprintf("%.0f/100", *qr.Score)
		style = lipgloss.NewStyle().Foreground(theme.Secondary)
	case qr.UserAnswer == "":
		verdict = "unanswered"
		style = lipgloss.NewStyle().Foreground(theme.TextDim)
	default:
		verdict = "pending"
		style = lipgloss.NewStyle().Foreground(theme.TextDim)
	}

	line := style.Render(fmt.Sprintf("  Q%d  %-14s %s", qr.Index+1, qr.Modality, verdict))
	if qr.Feedback != "" {
		line += "\n" + lipgloss.NewStyle().
			Width(min(width-12, 64)).
			Foreground(theme.TextDim).
			Render("      "+qr.Feedback)
	}
	return line
}

func hasDeferred(r *scoring.Report) bool {
	for _, qr := range r.PerQuestion {
		if qr.Correct == nil && strings.TrimSpace(qr.UserAnswer) != "" {
			return true
		}
	}
	return false
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
