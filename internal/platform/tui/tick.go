// Package tui runs games in a Bubble Tea program, locally or over SSH.
// It maps keys to actions, drives the fixed-rate step loop and renders
// core.Screen buffers with lipgloss.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickCmd returns a Bubble Tea command that schedules the next simulation step at tickRate per second.
func tickCmd(tickRate int) tea.Cmd {
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
