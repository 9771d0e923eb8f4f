package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/beatrunner/internal/core"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Action
	}{
		{"arrow left", tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft},
		{"a", runes("a"), core.ActionLeft},
		{"h", runes("h"), core.ActionLeft},
		{"arrow right", tea.KeyMsg{Type: tea.KeyRight}, core.ActionRight},
		{"d", runes("d"), core.ActionRight},
		{"l", runes("l"), core.ActionRight},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, core.ActionConfirm},
		{"r", runes("r"), core.ActionRetry},
		{"m", runes("m"), core.ActionMenu},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionMenu},
		{"s", runes("s"), core.ActionScores},
		{"q", runes("q"), core.ActionQuit},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit},
		{"unbound", runes("z"), core.ActionNone},
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := km.MapKey(tt.msg); got != tt.want {
				t.Errorf("MapKey(%q) = %v, want %v", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func TestHelpForEveryState(t *testing.T) {
	keys := DefaultKeyMap()
	for _, s := range []screenState{stateMenu, statePlaying, stateGameOver, stateScores} {
		b := keys.helpFor(s)
		if len(b.ShortHelp()) == 0 {
			t.Errorf("state %d has no help bindings", s)
		}
		if len(b.FullHelp()) != 1 {
			t.Errorf("state %d: FullHelp should hold one column", s)
		}
	}
}
