package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// SessionModel is the top-level model for one player: the game, plus the
// scoreboard it can open and return from. While the scoreboard is shown
// the game is not stepped, so its clock stands still.
type SessionModel struct {
	game     Model
	scores   *ScoreboardModel
	store    *storage.Store
	gameID   string
	title    string
	width    int
	height   int
	tickRate int
	quitting bool
}

// NewSessionModel creates a session running game.
func NewSessionModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) SessionModel {
	gm := NewModel(game, store, cfg, opts)
	return SessionModel{
		game:     gm,
		store:    store,
		gameID:   game.ID(),
		title:    game.Title(),
		width:    cfg.ScreenW,
		height:   cfg.ScreenH,
		tickRate: gm.config.TickRate,
	}
}

// Init starts the game.
func (m SessionModel) Init() tea.Cmd {
	return m.game.Init()
}

// Update routes messages to the visible screen. Window sizes go to both.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
		m.game = m.game.handleResize(wsm.Width, wsm.Height)
		if m.scores != nil {
			sb, _ := m.scores.Update(msg)
			board := sb.(ScoreboardModel)
			m.scores = &board
		}
		return m, nil
	}

	if m.scores != nil {
		return m.updateScores(msg)
	}
	return m.updateGame(msg)
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	m.game = next.(Model)

	if m.game.quitting {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.wantScores {
		m.game.wantScores = false
		board := NewScoreboardModel(m.store, m.gameID, m.title, m.width, m.height).
			WithHighlight(m.game.LastRunID())
		board.embedded = true
		m.scores = &board
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Keep the tick chain alive without stepping the game.
	if _, ok := msg.(TickMsg); ok {
		return m, tickCmd(m.tickRate)
	}

	next, cmd := m.scores.Update(msg)
	board := next.(ScoreboardModel)
	m.scores = &board

	if board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if board.IsGoingBack() {
		m.scores = nil
		return m, nil
	}
	return m, cmd
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.scores != nil {
		return m.scores.View()
	}
	return m.game.View()
}

// InScores reports whether the scoreboard is showing.
func (m SessionModel) InScores() bool {
	return m.scores != nil
}

// Game returns the game model.
func (m SessionModel) Game() Model {
	return m.game
}
