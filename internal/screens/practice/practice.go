package practice

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	prac "github.com/prepvox/prepvox/internal/practice"
	"github.com/prepvox/prepvox/internal/question"
	"github.com/prepvox/prepvox/internal/router"
	"github.com/prepvox/prepvox/internal/screen"
	"github.com/prepvox/prepvox/internal/screens/summary"
	"github.com/prepvox/prepvox/internal/speech"
	"github.com/prepvox/prepvox/internal/tts"
	"github.com/prepvox/prepvox/internal/ui/components"
	"github.com/prepvox/prepvox/internal/ui/layout"
)

// PracticeScreen drives the in-progress session: it renders the current
// question, routes answers into the controller, and owns voice capture
// start/stop for the question on screen.
type PracticeScreen struct {
	ctrl    *prac.Controller
	speaker tts.Speaker

	input      components.TextInput
	mcSelected int
	played     map[int]bool // question index -> dictation prompt already played

	// typedFallback flips on when voice capture is dead for good; voice
	// questions then accept typed answers so the session can still be
	// completed.
	typedFallback bool

	showQuitConfirm   bool
	showSubmitConfirm bool
	busy              bool
	errMsg            string
	errKind           prac.Kind
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.EscInterceptor = (*PracticeScreen)(nil)

// New creates the practice screen for an in-progress session.
func New(ctrl *prac.Controller, speaker tts.Speaker) *PracticeScreen {
	s := &PracticeScreen{
		ctrl:    ctrl,
		speaker: speaker,
		played:  make(map[int]bool),
	}
	s.syncToCurrent()
	return s
}

func (s *PracticeScreen) Init() tea.Cmd {
	return tea.Batch(s.input.Init(), s.listenFaults())
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

func (s *PracticeScreen) InterceptEsc() bool {
	return s.ctrl.State() == prac.StateInProgress
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	if s.showQuitConfirm || s.showSubmitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "Confirm"},
			{Key: "N", Description: "Cancel"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Next"},
		{Key: "Shift+Tab", Description: "Prev"},
	}
	if q, _, ok := s.ctrl.Current(); ok {
		switch {
		case q.Modality.Voice():
			switch {
			case s.typedFallback:
				hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Save answer"})
			case s.ctrl.Recording():
				hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Stop recording"})
			default:
				hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Record"})
			}
		case q.Modality == question.ModalityDictation:
			hints = append(hints,
				layout.KeyHint{Key: "Enter", Description: "Save answer"},
				layout.KeyHint{Key: "Ctrl+P", Description: "Play sentence"})
		case q.Modality == question.ModalityMCQ:
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Choose"})
		default:
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Save answer"})
		}
	}
	hints = append(hints,
		layout.KeyHint{Key: "Ctrl+S", Description: "Submit"},
		layout.KeyHint{Key: "Esc", Description: "Quit session"})
	return hints
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case navigatedMsg:
		s.busy = false
		if msg.err != nil {
			s.setError(msg.err)
			return s, nil
		}
		s.syncToCurrent()
		return s, s.input.Init()

	case recordingStoppedMsg:
		s.busy = false
		if msg.err != nil {
			s.setError(msg.err)
		}
		return s, nil

	case submittedMsg:
		s.busy = false
		if msg.err != nil {
			s.setError(msg.err)
			return s, nil
		}
		return s, func() tea.Msg {
			return router.PushScreenMsg{Screen: summary.New(s.ctrl)}
		}

	case faultMsg:
		s.setError(msg.err)
		return s, s.listenFaults()

	case speakDoneMsg:
		if msg.err != nil {
			// Playback failed; let the candidate read the sentence.
			if _, idx, ok := s.ctrl.Current(); ok {
				s.played[idx] = false
			}
		}
		return s, nil

	case transcriptTickMsg:
		if s.ctrl.Recording() {
			return s, transcriptTick()
		}
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	return s.forwardToInput(msg)
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	// A submitted session lingering under the summary screen: any key
	// returns to setup.
	if s.ctrl.State() != prac.StateInProgress {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.showQuitConfirm {
		switch key {
		case "y", "Y":
			s.ctrl.Exit()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.showQuitConfirm = false
		}
		return s, nil
	}

	if s.showSubmitConfirm {
		switch key {
		case "y", "Y":
			s.showSubmitConfirm = false
			return s, s.submit()
		case "n", "N", "esc":
			s.showSubmitConfirm = false
		}
		return s, nil
	}

	if s.busy {
		return s, nil
	}

	q, idx, ok := s.ctrl.Current()
	if !ok {
		return s, nil
	}

	switch key {
	case "esc":
		s.showQuitConfirm = true
		return s, nil

	case "tab":
		return s, s.navigate(idx + 1)

	case "shift+tab":
		return s, s.navigate(idx - 1)

	case "ctrl+s":
		if s.ctrl.UnansweredCount() > 0 {
			s.showSubmitConfirm = true
			return s, nil
		}
		return s, s.submit()

	case "ctrl+p":
		if q.Modality == question.ModalityDictation && !s.played[idx] {
			s.played[idx] = true
			return s, s.speak(q.Prompt)
		}
		return s, nil

	case "enter":
		return s.handleEnter(q, idx)
	}

	if q.Modality == question.ModalityMCQ {
		switch key {
		case "up", "k":
			if s.mcSelected > 0 {
				s.mcSelected--
			}
			return s, nil
		case "down", "j":
			if s.mcSelected < len(q.Options)-1 {
				s.mcSelected++
			}
			return s, nil
		case "1", "2", "3", "4":
			i := int(key[0] - '1')
			if i < len(q.Options) {
				s.mcSelected = i
				s.recordOption(q, idx)
			}
			return s, nil
		}
		return s, nil
	}

	return s.forwardToInput(msg)
}

func (s *PracticeScreen) handleEnter(q question.Question, idx int) (screen.Screen, tea.Cmd) {
	switch {
	case q.Modality.Voice():
		if s.typedFallback {
			if err := s.ctrl.RecordAnswer(idx, s.input.Value()); err != nil {
				s.setError(err)
			}
			return s, nil
		}
		if s.ctrl.Recording() {
			return s, s.stopRecording()
		}
		if err := s.ctrl.StartRecording(context.Background()); err != nil {
			s.setError(err)
			return s, nil
		}
		s.errMsg = ""
		return s, transcriptTick()

	case q.Modality == question.ModalityMCQ:
		s.recordOption(q, idx)
		return s, nil

	default:
		if err := s.ctrl.RecordAnswer(idx, s.input.Value()); err != nil {
			s.setError(err)
		}
		return s, nil
	}
}

func (s *PracticeScreen) recordOption(q question.Question, idx int) {
	if s.mcSelected < 0 || s.mcSelected >= len(q.Options) {
		return
	}
	if err := s.ctrl.RecordAnswer(idx, q.Options[s.mcSelected]); err != nil {
		s.setError(err)
	}
}

// navigate captures typed text for the outgoing question and moves the
// pointer. Recording capture happens inside the controller.
func (s *PracticeScreen) navigate(target int) tea.Cmd {
	q, idx, ok := s.ctrl.Current()
	if !ok || target < 0 || target >= len(s.ctrl.Questions()) {
		return nil
	}
	if (!q.Modality.Voice() || s.typedFallback) && q.Modality != question.ModalityMCQ {
		if v := s.input.Value(); v != "" {
			if err := s.ctrl.RecordAnswer(idx, v); err != nil {
				s.setError(err)
			}
		}
	}

	s.busy = true
	ctrl := s.ctrl
	return func() tea.Msg {
		return navigatedMsg{err: ctrl.Navigate(context.Background(), target)}
	}
}

func (s *PracticeScreen) stopRecording() tea.Cmd {
	s.busy = true
	ctrl := s.ctrl
	return func() tea.Msg {
		text, err := ctrl.StopRecording(context.Background())
		return recordingStoppedMsg{text: text, err: err}
	}
}

func (s *PracticeScreen) submit() tea.Cmd {
	s.busy = true
	ctrl := s.ctrl
	_, idx, _ := ctrl.Current()
	force := idx != len(ctrl.Questions())-1
	return func() tea.Msg {
		report, err := ctrl.Submit(context.Background(), force)
		return submittedMsg{report: report, err: err}
	}
}

func (s *PracticeScreen) speak(text string) tea.Cmd {
	speaker := s.speaker
	return func() tea.Msg {
		return speakDoneMsg{err: speaker.Speak(context.Background(), text)}
	}
}

// listenFaults delivers the next fatal speech-capture error.
func (s *PracticeScreen) listenFaults() tea.Cmd {
	ch := s.ctrl.Faults()
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		return faultMsg{err: <-ch}
	}
}

// syncToCurrent rebuilds the input state for the question now on
// screen, restoring any stored answer.
func (s *PracticeScreen) syncToCurrent() {
	q, idx, ok := s.ctrl.Current()
	if !ok {
		return
	}
	stored, _ := s.ctrl.Answer(idx)

	s.mcSelected = 0
	if q.Modality == question.ModalityMCQ {
		for i, opt := range q.Options {
			if opt == stored {
				s.mcSelected = i
				break
			}
		}
		return
	}
	if !q.Modality.Voice() || s.typedFallback {
		s.input = components.NewTextInput("Type your answer...", false, 200)
		s.input.Model.SetValue(stored)
	}
}

func (s *PracticeScreen) forwardToInput(msg tea.Msg) (screen.Screen, tea.Cmd) {
	q, _, ok := s.ctrl.Current()
	if !ok || (q.Modality.Voice() && !s.typedFallback) || q.Modality == question.ModalityMCQ {
		return s, nil
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *PracticeScreen) setError(err error) {
	s.errMsg = err.Error()
	s.errKind = prac.Classify(err)
	if errors.Is(err, speech.ErrEngineUnavailable) && !s.typedFallback {
		s.typedFallback = true
		s.syncToCurrent()
	}
}

func transcriptTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return transcriptTickMsg(t)
	})
}
