package components

import (
	"fmt"
	"strings"

	"github.com/prepvox/prepvox/internal/ui/theme"
)

// OptionList renders the numbered answer choices of a multiple-choice
// question: a cursor on the highlighted row and a dot marking the
// answer already stored for the question.
type OptionList struct {
	Options []string
	Cursor  int
	Chosen  string // stored answer text, empty when unanswered
}

// View renders one line per option.
func (l OptionList) View() string {
	var b strings.Builder
	for i, opt := range l.Options {
		prefix := "  "
		if i == l.Cursor {
			prefix = "> "
		}
		mark := " "
		if opt == l.Chosen && l.Chosen != "" {
			mark = "●"
		}
		line := fmt.Sprintf("%s%s %d) %s", prefix, mark, i+1, opt)

		if i == l.Cursor {
			b.WriteString(theme.Selected.Render(line))
		} else {
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
