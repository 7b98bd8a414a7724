package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/juststeveking/pingtray/internal/monitor"
)

func testInfo() Info {
	return Info{Target: "8.8.8.8", Method: "icmp", Interval: 20 * time.Second, Threshold: 500 * time.Millisecond}
}

func TestModelShowsPlaceholder(t *testing.T) {
	m := NewModel(testInfo(), nil)

	view := m.View()
	if !strings.Contains(view, "...") {
		t.Errorf("Expected placeholder glyph in view:\n%s", view)
	}
	if !strings.Contains(view, "waiting for first probe") {
		t.Errorf("Expected waiting message in view:\n%s", view)
	}
}

func TestModelAppliesState(t *testing.T) {
	m := NewModel(testInfo(), nil)

	updated, _ := m.Update(stateMsg(monitor.DisplayState{
		Glyph:     "123",
		Tooltip:   "123 ms",
		Color:     monitor.ColorGreen,
		Tier:      monitor.TierGood,
		UpdatedAt: time.Now(),
	}))
	view := updated.(Model).View()

	for _, want := range []string{"123", "123 ms", "tier: good", "ICMP probe every 20s"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected %q in view:\n%s", want, view)
		}
	}
}

func TestModelQuit(t *testing.T) {
	calls := 0
	m := NewModel(testInfo(), func() { calls++ })

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("Expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.QuitMsg")
	}
	if calls != 1 {
		t.Errorf("Expected onQuit to be called once, got %d", calls)
	}
	if updated.(Model).View() != "" {
		t.Error("Expected empty view after quitting")
	}

	// A second quit key does not call onQuit again
	updated.(Model).Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if calls != 1 {
		t.Errorf("Expected onQuit to stay at one call, got %d", calls)
	}
}

func TestTierColor(t *testing.T) {
	if tierColor(monitor.ColorRed) != colorUnhealthy {
		t.Error("Expected red to map to the unhealthy colour")
	}
	if tierColor(monitor.ColorGray) != colorMuted {
		t.Error("Expected gray to map to the muted colour")
	}
}
