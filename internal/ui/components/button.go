package components

import (
	"github.com/prepvox/prepvox/internal/ui/theme"
)

// Button is a label that renders pressed-ready when it holds focus.
// Screens own the key handling; the button only draws itself.
type Button struct {
	Label   string
	Focused bool
}

// NewButton creates a button.
func NewButton(label string, focused bool) Button {
	return Button{Label: label, Focused: focused}
}

// View renders the button in its focus state.
func (b Button) View() string {
	if b.Focused {
		return theme.ButtonActive.Render(" " + b.Label + " ")
	}
	return theme.ButtonInactive.Render(" " + b.Label + " ")
}
