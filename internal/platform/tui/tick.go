// Package tui provides the Bubble Tea integration for Rock Crush.
// It runs the tick loop, maps keys and clicks to game input, and hosts the
// menus, the scoreboard and the SSH server.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg drives one game step.
type TickMsg time.Time

// tickCmd schedules the next TickMsg. Rates outside 1..240 fall back to the default.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 || tickRate > 240 {
		tickRate = 60
	}
	return tea.Tick(time.Second/time.Duration(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
