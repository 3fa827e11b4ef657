package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

func TestOptionList_MarksCursorAndStoredAnswer(t *testing.T) {
	list := OptionList{
		Options: []string{"TCP", "UDP", "ICMP"},
		Cursor:  1,
		Chosen:  "ICMP",
	}

	lines := strings.Split(strings.TrimRight(list.View(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if !strings.Contains(lines[1], "> ") {
		t.Errorf("cursor row missing marker: %q", lines[1])
	}
	if !strings.Contains(lines[2], "●") {
		t.Errorf("stored answer row missing dot: %q", lines[2])
	}
	if strings.Contains(lines[0], "●") {
		t.Errorf("unanswered row should not carry a dot: %q", lines[0])
	}
	for i, want := range []string{"1) TCP", "2) UDP", "3) ICMP"} {
		if !strings.Contains(lines[i], want) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], want)
		}
	}
}

func TestOptionList_EmptyChosenNeverMatches(t *testing.T) {
	list := OptionList{Options: []string{"", "yes"}, Cursor: 0}
	if strings.Contains(list.View(), "●") {
		t.Error("empty stored answer must not mark the empty option")
	}
}

func TestProgressBar_FillClampsAndScales(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		width   int
		want    int
	}{
		{"empty", 0, 10, 0},
		{"half", 0.5, 10, 5},
		{"full", 1, 10, 10},
		{"clamped above one", 1.7, 10, 10},
		{"clamped below zero", -0.2, 10, 0},
		{"rounds down", 0.49, 10, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fill(tt.percent, tt.width); got != tt.want {
				t.Errorf("fill(%v, %d) = %d, want %d", tt.percent, tt.width, got, tt.want)
			}
		})
	}
}

func TestProgressBar_ViewSpansRequestedWidth(t *testing.T) {
	bar := NewProgressBar(0.72, 40)
	if got := lipgloss.Width(bar.View()); got != 40 {
		t.Errorf("rendered width = %d, want 40", got)
	}
}

func TestButton_ViewShowsLabel(t *testing.T) {
	for _, focused := range []bool{true, false} {
		btn := NewButton("START PRACTICE", focused)
		if !strings.Contains(btn.View(), "START PRACTICE") {
			t.Errorf("focused=%v: label missing from %q", focused, btn.View())
		}
	}
}

func TestMenu_CursorSkipsDisabledItems(t *testing.T) {
	menu := NewMenu([]MenuItem{
		{Label: "START PRACTICE"},
		{Label: "SUBSCRIPTION", Disabled: true},
		{Label: "QUIT"},
	})

	menu, _ = menu.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if menu.Selected != 2 {
		t.Errorf("cursor after down = %d, want 2 (disabled row skipped)", menu.Selected)
	}
	menu, _ = menu.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if menu.Selected != 0 {
		t.Errorf("cursor after up = %d, want 0", menu.Selected)
	}
}

func TestMenu_StartsOnFirstEnabledItem(t *testing.T) {
	menu := NewMenu([]MenuItem{
		{Label: "LOCKED", Disabled: true},
		{Label: "START PRACTICE"},
	})
	if menu.Selected != 1 {
		t.Errorf("initial cursor = %d, want 1", menu.Selected)
	}
}

func TestMenu_EnterFiresSelectedAction(t *testing.T) {
	fired := false
	menu := NewMenu([]MenuItem{
		{Label: "START PRACTICE", Action: func() tea.Cmd {
			return func() tea.Msg { fired = true; return nil }
		}},
	})

	_, cmd := menu.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("enter on an enabled item must return its command")
	}
	cmd()
	if !fired {
		t.Error("returned command did not run the item's action")
	}
}
