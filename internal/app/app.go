package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/prepvox/prepvox/internal/entitlement"
	"github.com/prepvox/prepvox/internal/practice"
	"github.com/prepvox/prepvox/internal/router"
	"github.com/prepvox/prepvox/internal/screen"
	"github.com/prepvox/prepvox/internal/screens/home"
	"github.com/prepvox/prepvox/internal/screens/welcome"
	"github.com/prepvox/prepvox/internal/store"
	"github.com/prepvox/prepvox/internal/tts"
	"github.com/prepvox/prepvox/internal/ui/layout"
)

// Options carries the wired services the screens need.
type Options struct {
	Controller *practice.Controller
	Speaker    tts.Speaker
	Status     entitlement.StatusSource
	Gate       *entitlement.Gate
	EventRepo  store.EventRepo

	// SkipSplash starts directly on the home screen.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	opts   Options
	width  int
	height int
}

// newAppModel creates a new AppModel with the splash or home screen.
func newAppModel(opts Options) AppModel {
	homeFactory := func() screen.Screen {
		return home.New(opts.Controller, opts.Speaker, opts.Status, opts.Gate, opts.EventRepo)
	}

	var initial screen.Screen
	if opts.SkipSplash {
		initial = homeFactory()
	} else {
		initial = welcome.New(homeFactory)
	}

	return AppModel{
		router: router.New(initial),
		opts:   opts,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			// Screens with a live session confirm before leaving.
			if ei, ok := m.router.Active().(screen.EscInterceptor); ok && ei.InterceptEsc() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	// The splash renders without chrome.
	if title == "" {
		v.SetContent(m.router.View(m.width, m.height))
		return v
	}

	tier := ""
	if m.opts.Controller != nil {
		tier = string(m.opts.Controller.Tier())
	}
	header := layout.RenderHeader(title, tier, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
