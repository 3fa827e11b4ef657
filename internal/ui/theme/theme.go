package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette. Dark navy base with an indigo accent; success/error greens
// and reds tuned to stay readable on the card background.
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#06B6D4") // Cyan
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#10B981") // Emerald
	Error     = lipgloss.Color("#EF4444") // Red
	Text      = lipgloss.Color("#E2E8F0") // Off-white
	TextDim   = lipgloss.Color("#7C8BA1") // Muted slate
	BgDark    = lipgloss.Color("#0B1120") // Near-black navy
	BgCard    = lipgloss.Color("#151E2E") // Raised card
	Border    = lipgloss.Color("#2B3A4F") // Card border
)

var (
	// Hint styles the one-line guidance under errors and prompts.
	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	// Card frames the setup form and other boxed content.
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// List rows.
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)
)

// Verdicts on the results screen.
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Component styles.
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Background(BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)
