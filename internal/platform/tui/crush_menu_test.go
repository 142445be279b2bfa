package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rock-crush/internal/config"
	"github.com/vovakirdan/rock-crush/internal/games/rockcrush"
)

func pressSetup(t *testing.T, m CrushSetupModel, msgs ...tea.KeyMsg) CrushSetupModel {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		nm, ok := next.(CrushSetupModel)
		if !ok {
			t.Fatalf("Update returned %T", next)
		}
		m = nm
	}
	return m
}

func TestCrushSetupDefaults(t *testing.T) {
	m := NewCrushSetupModel(80, 24, config.DifficultyNormal)
	if m.Selected() != nil {
		t.Fatal("nothing should be selected yet")
	}

	m = pressSetup(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	sel := m.Selected()
	if sel == nil {
		t.Fatal("enter on Start should select")
	}
	if sel.Mode != rockcrush.ModeClassic || sel.Difficulty != config.DifficultyNormal {
		t.Errorf("selection = %+v, want classic/normal", *sel)
	}
	if sel.GameID() != "rockcrush" {
		t.Errorf("GameID() = %q, want rockcrush", sel.GameID())
	}
}

func TestCrushSetupChangesOptions(t *testing.T) {
	m := NewCrushSetupModel(80, 24, config.DifficultyNormal)

	up := tea.KeyMsg{Type: tea.KeyUp}
	down := tea.KeyMsg{Type: tea.KeyDown}
	right := tea.KeyMsg{Type: tea.KeyRight}
	left := tea.KeyMsg{Type: tea.KeyLeft}

	// Start -> Difficulty: normal -> hard; Mode: classic -> endless
	m = pressSetup(t, m, up, right, up, left, up, down, down)

	if !strings.Contains(m.View(), "Endless") {
		t.Errorf("view should show the endless mode:\n%s", m.View())
	}

	m = pressSetup(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	sel := m.Selected()
	if sel == nil {
		t.Fatal("expected a selection")
	}
	if sel.Mode != rockcrush.ModeEndless || sel.Difficulty != config.DifficultyHard {
		t.Errorf("selection = %+v, want endless/hard", *sel)
	}
	if sel.GameID() != "rockcrush_endless" {
		t.Errorf("GameID() = %q, want rockcrush_endless", sel.GameID())
	}
}

func TestCrushSetupBackAndQuit(t *testing.T) {
	m := pressSetup(t, NewCrushSetupModel(80, 24, config.DifficultyEasy), tea.KeyMsg{Type: tea.KeyEsc})
	if !m.WantsBack() || m.Selected() != nil {
		t.Error("esc should go back without a selection")
	}

	m = pressSetup(t, NewCrushSetupModel(80, 24, config.DifficultyEasy), tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !m.IsQuitting() {
		t.Error("q should quit")
	}
}
