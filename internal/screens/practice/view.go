package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	prac "github.com/prepvox/prepvox/internal/practice"
	"github.com/prepvox/prepvox/internal/question"
	"github.com/prepvox/prepvox/internal/tts"
	"github.com/prepvox/prepvox/internal/ui/components"
	"github.com/prepvox/prepvox/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	if s.showQuitConfirm {
		return renderQuitConfirm(width)
	}
	if s.showSubmitConfirm {
		return s.renderSubmitConfirm(width)
	}

	q, idx, ok := s.ctrl.Current()
	if !ok {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n  No active session.")
	}

	var b strings.Builder

	total := len(s.ctrl.Questions())
	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d/%d", idx+1, total))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("answered %d  %s", s.ctrl.AnsweredCount(), q.Difficulty))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(s.renderPrompt(q, idx, width))
	b.WriteString("\n\n")

	switch {
	case q.Modality == question.ModalityMCQ:
		b.WriteString(s.renderOptions(q, idx, width))
	case q.Modality.Voice() && !s.typedFallback:
		b.WriteString(s.renderVoice(width))
	default:
		b.WriteString(s.renderTextEntry(idx, width))
	}

	if s.busy {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("Working..."))
	}

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.errMsg))
		if s.errKind == prac.KindBlocking {
			hint := "This will not recover on its own."
			if s.typedFallback {
				hint = "Voice capture is unavailable. Type your answer instead."
			}
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.TextDim).
				Render(hint))
		}
	}

	return b.String()
}

// renderPrompt shows the question text. Dictation prompts stay hidden
// while audio playback is available so the exercise tests listening,
// not reading.
func (s *PracticeScreen) renderPrompt(q question.Question, idx int, width int) string {
	text := q.Prompt
	if q.Modality == question.ModalityDictation {
		if _, silent := s.speaker.(tts.Silent); !silent {
			if s.played[idx] {
				text = "(sentence played; type what you heard)"
			} else {
				text = "Press Ctrl+P to hear the sentence, then type it."
			}
			return lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.TextDim).
				Italic(true).
				Render(text)
		}
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(text)
}

func (s *PracticeScreen) renderOptions(q question.Question, idx int, width int) string {
	stored, _ := s.ctrl.Answer(idx)

	list := components.OptionList{
		Options: q.Options,
		Cursor:  s.mcSelected,
		Chosen:  stored,
	}

	body := list.View() + lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("\nSelect (1-4) or arrows + Enter")

	return lipgloss.PlaceHorizontal(width, lipgloss.Center, body)
}

func (s *PracticeScreen) renderTextEntry(idx int, width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("Answer: " + s.input.View())
}

func (s *PracticeScreen) renderVoice(width int) string {
	var b strings.Builder

	if s.ctrl.Recording() {
		committed, interim := s.ctrl.Transcript()
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Accent).
			Bold(true).
			Render("● Recording... press Enter to stop"))
		b.WriteString("\n\n")

		text := strings.TrimSpace(committed)
		if interim != "" {
			if text != "" {
				text += " "
			}
			text += lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(interim)
		}
		if text == "" {
			text = lipgloss.NewStyle().Foreground(theme.TextDim).Render("(listening)")
		}
		box := lipgloss.NewStyle().
			Width(min(width-8, 70)).
			Foreground(theme.Text).
			Render(text)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, box))
		return b.String()
	}

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Press Enter to start recording your answer"))

	if _, idx, ok := s.ctrl.Current(); ok {
		if stored, answered := s.ctrl.Answer(idx); answered {
			b.WriteString("\n\n")
			captured := lipgloss.NewStyle().
				Width(min(width-8, 70)).
				Foreground(theme.Text).
				Render("Captured: " + stored)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, captured))
		}
	}
	return b.String()
}

func (s *PracticeScreen) renderSubmitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Submit now?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d question(s) are still unanswered.", s.ctrl.UnansweredCount())))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Success).
		Render("[Y] Submit anyway"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] Keep practicing"))

	return b.String()
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render("Abandon this session?"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("Answers and transcripts will be discarded."))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render("[Y] Yes, abandon"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Render("[N] No, keep going"))

	return b.String()
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
