package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/storage"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{95 * time.Second, "1:35"},
		{1500 * time.Millisecond, "0:02"},
		{61 * time.Minute, "61:00"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestScoreboardEmpty(t *testing.T) {
	store := openStore(t)
	m := NewScoreboardModel(store, "tetris", "Tetris", 80, 24)

	view := m.View()
	if !strings.Contains(view, "No scores recorded yet") {
		t.Errorf("empty message missing:\n%s", view)
	}
	if !strings.Contains(view, "no games played") {
		t.Errorf("stats line missing:\n%s", view)
	}
}

func TestScoreboardRows(t *testing.T) {
	store := openStore(t)
	for _, r := range []storage.Result{
		{GameID: "tetris", Score: 800, Lines: 4, Level: 1, Player: "dave"},
		{GameID: "tetris", Score: 2400, Lines: 21, Level: 3},
	} {
		if _, err := store.SaveResult(r); err != nil {
			t.Fatalf("SaveResult: %v", err)
		}
	}

	m := NewScoreboardModel(store, "tetris", "Tetris", 100, 30)
	view := m.View()
	for _, want := range []string{"HIGH SCORES - Tetris", "2400", "800", "dave", "Player"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Index(view, "2400") > strings.Index(view, "800") {
		t.Error("scores should be sorted high to low")
	}

	narrow := NewScoreboardModel(store, "tetris", "Tetris", 60, 30)
	if strings.Contains(narrow.View(), "Player") {
		t.Error("narrow layout should hide the player column")
	}
}

func TestScoreboardStandaloneBackQuits(t *testing.T) {
	m := NewScoreboardModel(nil, "tetris", "Tetris", 80, 24)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	board := next.(ScoreboardModel)
	if !board.IsGoingBack() {
		t.Error("esc should go back")
	}
	if cmd == nil {
		t.Error("standalone scoreboard should quit on back")
	}
	if board.View() != "" {
		t.Error("view should be empty after leaving")
	}
}
