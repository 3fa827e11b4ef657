package setup

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/prepvox/prepvox/internal/entitlement"
	"github.com/prepvox/prepvox/internal/practice"
	"github.com/prepvox/prepvox/internal/question"
	"github.com/prepvox/prepvox/internal/router"
	"github.com/prepvox/prepvox/internal/screen"
	practicescreen "github.com/prepvox/prepvox/internal/screens/practice"
	"github.com/prepvox/prepvox/internal/tts"
	"github.com/prepvox/prepvox/internal/ui/components"
	"github.com/prepvox/prepvox/internal/ui/layout"
	"github.com/prepvox/prepvox/internal/ui/theme"
)

type field int

const (
	fieldBranch field = iota
	fieldTopic
	fieldDifficulty
	fieldModality
	fieldCount
	fieldStart

	numFields = int(fieldStart) + 1
)

var difficulties = []question.Difficulty{
	question.DifficultyEasy,
	question.DifficultyMedium,
	question.DifficultyHard,
}

var modalities = []struct {
	value question.Modality
	label string
}{
	{question.ModalityMCQ, "Multiple choice"},
	{question.ModalityText, "Written answer"},
	{question.ModalityDictation, "Dictation"},
	{question.ModalityVoiceReading, "Read aloud"},
	{question.ModalityVoiceSpeaking, "Spoken answer"},
}

// SetupScreen collects the batch parameters and starts the session.
type SetupScreen struct {
	ctrl    *practice.Controller
	speaker tts.Speaker

	branch     components.TextInput
	topic      components.TextInput
	count      components.TextInput
	difficulty int
	modality   int
	focus      field

	loading    bool
	errMsg     string
	errKind    practice.Kind
	errUpgrade bool
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates the setup screen.
func New(ctrl *practice.Controller, speaker tts.Speaker) *SetupScreen {
	branch := components.NewTextInput("computer-science", false, 40)
	branch.Model.SetValue("computer-science")

	topic := components.NewTextInput("any topic", false, 40)
	topic.Model.Blur()

	count := components.NewTextInput("5", true, 3)
	count.Model.SetValue("5")
	count.Model.Blur()

	return &SetupScreen{
		ctrl:       ctrl,
		speaker:    speaker,
		branch:     branch,
		topic:      topic,
		count:      count,
		difficulty: 1, // medium
	}
}

func (s *SetupScreen) Init() tea.Cmd {
	return s.branch.Init()
}

func (s *SetupScreen) Title() string {
	return "New Session"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	if s.loading {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
		{Key: "←→", Description: "Change"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDoneMsg:
		s.loading = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			s.errKind = practice.Classify(msg.err)
			s.errUpgrade = entitlement.UpgradeRequired(msg.err)
			return s, nil
		}
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: practicescreen.New(s.ctrl, s.speaker)}
		}

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s.forwardToInput(msg)
}

func (s *SetupScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.loading {
		return s, nil
	}

	switch msg.String() {
	case "up", "shift+tab":
		s.setFocus(s.focus - 1)
		return s, nil
	case "down", "tab":
		s.setFocus(s.focus + 1)
		return s, nil
	case "left":
		switch s.focus {
		case fieldDifficulty:
			s.difficulty = (s.difficulty + len(difficulties) - 1) % len(difficulties)
			return s, nil
		case fieldModality:
			s.modality = (s.modality + len(modalities) - 1) % len(modalities)
			return s, nil
		}
	case "right":
		switch s.focus {
		case fieldDifficulty:
			s.difficulty = (s.difficulty + 1) % len(difficulties)
			return s, nil
		case fieldModality:
			s.modality = (s.modality + 1) % len(modalities)
			return s, nil
		}
	case "enter":
		if s.focus == fieldStart {
			return s, s.startSession()
		}
		s.setFocus(s.focus + 1)
		return s, nil
	}

	return s.forwardToInput(msg)
}

// forwardToInput routes a message to the focused text field.
func (s *SetupScreen) forwardToInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.focus {
	case fieldBranch:
		s.branch, cmd = s.branch.Update(msg)
	case fieldTopic:
		s.topic, cmd = s.topic.Update(msg)
	case fieldCount:
		s.count, cmd = s.count.Update(msg)
	}
	return s, cmd
}

func (s *SetupScreen) setFocus(f field) {
	if f < 0 {
		f = 0
	}
	if int(f) >= numFields {
		f = fieldStart
	}
	s.focus = f

	s.branch.Model.Blur()
	s.topic.Model.Blur()
	s.count.Model.Blur()
	switch f {
	case fieldBranch:
		s.branch.Model.Focus()
	case fieldTopic:
		s.topic.Model.Focus()
	case fieldCount:
		s.count.Model.Focus()
	}
}

// startSession runs Configure and LoadBatch off the UI loop.
func (s *SetupScreen) startSession() tea.Cmd {
	n, err := s.count.NumericValue()
	if err != nil || n < 1 {
		n = 5
	}
	req := question.BatchRequest{
		Branch:     strings.TrimSpace(s.branch.Value()),
		Topic:      strings.TrimSpace(s.topic.Value()),
		Difficulty: difficulties[s.difficulty],
		Modality:   modalities[s.modality].value,
		Count:      n,
	}
	if req.Branch == "" {
		req.Branch = "computer-science"
	}

	s.loading = true
	s.errMsg = ""
	ctrl := s.ctrl
	return func() tea.Msg {
		ctx := context.Background()
		if err := ctrl.Configure(ctx, req); err != nil {
			return loadDoneMsg{err: err}
		}
		return loadDoneMsg{err: ctrl.LoadBatch(ctx)}
	}
}

func (s *SetupScreen) View(width, height int) string {
	if s.loading {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n\n  Requesting questions...")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(s.renderField(fieldBranch, "Subject", s.branch.View()))
	b.WriteString(s.renderField(fieldTopic, "Topic", s.topic.View()))
	b.WriteString(s.renderField(fieldDifficulty, "Difficulty", cycleView(string(difficulties[s.difficulty]))))
	b.WriteString(s.renderField(fieldModality, "Mode", cycleView(modalities[s.modality].label)))
	b.WriteString(s.renderField(fieldCount, "Questions", s.count.View()))
	b.WriteString("\n")

	start := components.NewButton("START PRACTICE", s.focus == fieldStart)
	b.WriteString("  " + start.View())

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString("  " + theme.Incorrect.Render(s.errMsg))
		switch {
		case s.errUpgrade:
			b.WriteString("\n  " + theme.Hint.Render("Your plan cannot start this session. Upgrade to continue."))
		case s.errKind == practice.KindBlocking:
			b.WriteString("\n  " + theme.Hint.Render("Retrying will not help; fix the underlying problem first."))
		default:
			b.WriteString("\n  " + theme.Hint.Render("Press Enter on START PRACTICE to retry."))
		}
	}

	card := theme.Card.Width(min(width-4, 72)).Render(b.String())
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}

func (s *SetupScreen) renderField(f field, label, value string) string {
	marker := "  "
	labelStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if s.focus == f {
		marker = "▸ "
		labelStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}
	return fmt.Sprintf("%s%s  %s\n", marker, labelStyle.Render(fmt.Sprintf("%-11s", label)), value)
}

func cycleView(value string) string {
	return lipgloss.NewStyle().Foreground(theme.Text).Render("◂ " + value + " ▸")
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// loadDoneMsg reports the outcome of Configure plus LoadBatch.
type loadDoneMsg struct {
	err error
}
