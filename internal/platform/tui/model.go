package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/registry"
	"github.com/vovakirdan/tui-tetris/internal/storage"
)

// Options describe who is playing and how results are recorded.
type Options struct {
	Player     string      // Stored with each result; may be empty
	Difficulty string      // Preset name stored with each result
	Logger     *log.Logger // Nil discards log output
}

// resizer is implemented by games that can relayout without a reset.
type resizer interface {
	Resize(w, h int)
}

// elapsedReporter is implemented by games that track their own play time.
type elapsedReporter interface {
	Elapsed() time.Duration
}

// Model is the Bubble Tea model that runs one game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	opts       Options
	config     core.RuntimeConfig
	keys       KeyMap
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	width      int
	height     int
	quitting   bool
	wantScores bool
	scoreSaved bool // Whether the result has been saved for the current game over
	lastRunID  uuid.UUID
}

// NewModel creates a model for game. The screen height leaves room for the
// help footer.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	h := help.New()
	h.ShowAll = false
	h.Width = cfg.ScreenW

	m := Model{
		game:       game,
		store:      store,
		logger:     logger,
		opts:       opts,
		config:     cfg,
		keys:       DefaultKeyMap(),
		help:       h,
		inputFrame: core.NewInputFrame(),
		width:      cfg.ScreenW,
		height:     cfg.ScreenH,
	}
	m.config.ScreenH = m.boardHeight()
	m.screen = core.NewScreen(m.config.ScreenW, m.config.ScreenH)
	return m
}

// Init resets the game and starts the tick loop.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	m.logger.Debug("game started", "game", m.game.ID(), "seed", m.config.Seed, "player", m.opts.Player)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg.Width, msg.Height), nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey queues the action for the next step; platform keys act at once.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Screenshot):
		if path, err := m.saveScreenshot(); err != nil {
			m.logger.Warn("screenshot failed", "error", err)
		} else {
			m.logger.Info("screenshot saved", "path", path)
		}
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m.handleResize(m.width, m.height), nil
	case key.Matches(msg, m.keys.Scores):
		m.wantScores = true
		return m, nil
	}

	action := m.keys.Action(msg)
	switch action {
	case core.ActionRestart:
		if !m.gameState.GameOver {
			return m, nil
		}
	case core.ActionBack:
		if m.gameState.GameOver || m.gameState.Paused {
			m.wantScores = true
		}
		return m, nil
	}
	m.inputFrame.Set(action)
	return m, nil
}

// handleResize relayouts the screen. Games that implement Resize keep their
// state; others are reset unless the current game is already over.
func (m Model) handleResize(w, h int) Model {
	m.width = w
	m.height = h
	m.help.Width = w
	m.config.ScreenW = w
	m.config.ScreenH = m.boardHeight()
	m.screen.Resize(m.config.ScreenW, m.config.ScreenH)

	if r, ok := m.game.(resizer); ok {
		r.Resize(m.config.ScreenW, m.config.ScreenH)
	} else if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m
}

// handleTick runs one simulation step with the queued input.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.inputFrame.Clear()
		m.logger.Debug("game restarted", "seed", m.config.Seed)
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	for _, n := range result.Notices {
		m.logger.Debug("notice", "text", n, "player", m.opts.Player)
	}

	if m.gameState.GameOver && !m.scoreSaved {
		m.saveResult()
		m.scoreSaved = true
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveResult records the finished game. Empty games are not stored.
func (m *Model) saveResult() {
	if m.store == nil || m.gameState.Score == 0 {
		return
	}
	r := storage.Result{
		GameID:     m.game.ID(),
		Player:     m.opts.Player,
		Difficulty: m.opts.Difficulty,
		Score:      m.gameState.Score,
		Lines:      m.gameState.Lines,
		Level:      m.gameState.Level,
	}
	if e, ok := m.game.(elapsedReporter); ok {
		r.Duration = e.Elapsed()
	}
	runID, err := m.store.SaveResult(r)
	if err != nil {
		m.logger.Warn("could not save result", "error", err)
		return
	}
	m.lastRunID = runID
	m.logger.Info("result saved",
		"run", runID,
		"player", m.opts.Player,
		"score", r.Score,
		"lines", r.Lines,
		"level", r.Level,
	)
}

// saveScreenshot writes the current screen as plain text under
// ~/.tetris/screenshots.
func (m *Model) saveScreenshot() (string, error) {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	dir := filepath.Join(home, ".tetris", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	return path, nil
}

// boardHeight is the terminal height minus the help footer.
func (m Model) boardHeight() int {
	h := m.height - lipgloss.Height(m.help.View(m.keys))
	if h < 0 {
		h = 0
	}
	return h
}

// View renders the game screen followed by the help footer.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render(m.help.View(m.keys))
	return RenderScreen(m.screen) + "\n" + footer
}

// State returns the game state observed after the last step.
func (m Model) State() core.GameState {
	return m.gameState
}

// LastRunID returns the id of the most recently saved result, or uuid.Nil.
func (m Model) LastRunID() uuid.UUID {
	return m.lastRunID
}

// Run starts a local session for game and blocks until the player quits.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts Options) error {
	p := tea.NewProgram(
		NewSessionModel(game, store, cfg, opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
