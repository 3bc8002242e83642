// Package tetris adapts the engine to the platform's fixed-rate game loop:
// each Step applies the frame's actions to the controller and advances the
// engine's virtual clock by one frame.
package tetris

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/core"
	"github.com/vovakirdan/tui-tetris/internal/engine"
	"github.com/vovakirdan/tui-tetris/internal/registry"
)

const gameID = "tetris"

// How long the LEVEL UP banner stays on screen.
const bannerDuration = 1500 * time.Millisecond

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset = config.DifficultyNormal

// logger receives config load failures; the CLI replaces it
var logger = log.New(io.Discard)

// SetLogger sets the logger used by every game instance. nil discards.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset applied on every Reset.
func SetDifficultyPreset(preset config.DifficultyPreset) {
	difficultyPreset = preset
}

// DifficultyPreset returns the preset applied on Reset.
func DifficultyPreset() config.DifficultyPreset {
	return difficultyPreset
}

// Game drives one engine controller.
type Game struct {
	cfg      config.TetrisConfig
	fixedCfg bool  // cfg was injected; skip loading on Reset
	cfgErr   error // Last load failure; defaults were used instead

	sched *engine.VirtualScheduler
	ctrl  *engine.Controller

	tickRate  int
	tick      uint64
	playTicks int64 // Frames in which the engine clock advanced

	screenW  int
	screenH  int
	tooSmall bool

	banner      string
	bannerTicks int
	notices     []string
}

// New creates a game that loads its configuration on Reset.
func New() *Game {
	return &Game{}
}

// NewWithConfig creates a game with a fixed configuration. The CLI config
// path and difficulty preset are ignored.
func NewWithConfig(cfg config.TetrisConfig) *Game {
	return &Game{cfg: cfg, fixedCfg: true}
}

func init() {
	registry.Register(gameID, func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return gameID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Tetris"
}

// Reset builds a fresh controller and starts a session.
func (g *Game) Reset(rc core.RuntimeConfig) {
	if !g.fixedCfg {
		cfg, err := config.LoadTetris(configPath)
		g.cfgErr = err
		if err != nil {
			logger.Warn("config not loaded, using defaults", "path", configPath, "error", err)
			cfg = config.DefaultTetrisConfig()
		}
		config.ApplyTetrisPreset(&cfg, difficultyPreset)
		g.cfg = cfg
	}

	g.tickRate = rc.TickRate
	if g.tickRate <= 0 {
		g.tickRate = core.DefaultConfig().TickRate
	}
	g.tick = 0
	g.playTicks = 0
	g.banner = ""
	g.bannerTicks = 0
	g.notices = nil
	g.resize(rc.ScreenW, rc.ScreenH)

	g.sched = engine.NewVirtualScheduler()
	g.ctrl = engine.NewController(engine.Options{
		Scheduler: g.sched,
		Random:    rand.New(rand.NewSource(rc.Seed)),
		Timing:    g.cfg.EngineTiming(),
	})
	g.ctrl.SetListener(g.onEvent)
	g.ctrl.Start()
}

// Resize updates the layout without touching the session.
func (g *Game) Resize(w, h int) {
	g.resize(w, h)
}

func (g *Game) resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.tooSmall = w < minScreenW || h < minScreenH
}

// Step applies the frame's actions in order, then advances the engine clock
// by one frame while the session is playing.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	g.notices = g.notices[:0]

	if g.ctrl == nil || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	for _, a := range in.Actions() {
		g.apply(a)
	}

	if g.ctrl.State() == engine.StatePlaying {
		g.playTicks++
		target := time.Duration(g.playTicks) * time.Second / time.Duration(g.tickRate)
		g.sched.Advance(target - g.sched.Now())
	}

	if g.bannerTicks > 0 {
		g.bannerTicks--
		if g.bannerTicks == 0 {
			g.banner = ""
		}
	}

	return core.StepResult{State: g.State(), Notices: append([]string(nil), g.notices...)}
}

// apply maps one action onto the controller. Restart is left to the
// platform, which calls Reset with a new seed.
func (g *Game) apply(a core.Action) {
	switch a {
	case core.ActionLeft:
		g.ctrl.MoveLeft()
	case core.ActionRight:
		g.ctrl.MoveRight()
	case core.ActionSoftDrop:
		g.ctrl.SoftDrop()
	case core.ActionRotate:
		g.ctrl.Rotate()
	case core.ActionHardDrop:
		g.ctrl.HardDrop()
	case core.ActionHold:
		g.ctrl.Hold()
	case core.ActionPause:
		g.ctrl.TogglePause()
	}
}

func (g *Game) onEvent(ev engine.Event, snap engine.Snapshot) {
	switch e := ev.(type) {
	case engine.LinesClearedEvent:
		g.notices = append(g.notices, fmt.Sprintf("%s +%d", clearLabel(e.Count), e.Points))
	case engine.LevelUpEvent:
		g.banner = "LEVEL UP"
		g.bannerTicks = int(bannerDuration * time.Duration(g.tickRate) / time.Second)
		g.notices = append(g.notices, fmt.Sprintf("level %d", e.Level))
	case engine.GameOverEvent:
		g.notices = append(g.notices, fmt.Sprintf("game over: %d points, %d lines", e.Score, snap.Lines))
	}
}

func clearLabel(n int) string {
	switch n {
	case 1:
		return "SINGLE"
	case 2:
		return "DOUBLE"
	case 3:
		return "TRIPLE"
	default:
		return "TETRIS"
	}
}

// State returns the platform summary.
func (g *Game) State() core.GameState {
	if g.ctrl == nil {
		return core.GameState{Level: 1}
	}
	st := g.ctrl.State()
	return core.GameState{
		Score:    g.ctrl.Score(),
		Level:    g.ctrl.Level(),
		Lines:    g.ctrl.Lines(),
		GameOver: st == engine.StateGameOver,
		Paused:   st == engine.StatePaused || g.tooSmall,
	}
}

// Snapshot returns the engine snapshot, or the zero snapshot before Reset.
func (g *Game) Snapshot() engine.Snapshot {
	if g.ctrl == nil {
		return engine.Snapshot{}
	}
	return g.ctrl.Snapshot()
}

// Tick returns the number of steps since Reset.
func (g *Game) Tick() uint64 {
	return g.tick
}

// Elapsed returns the engine time played, excluding pauses.
func (g *Game) Elapsed() time.Duration {
	if g.sched == nil {
		return 0
	}
	return g.sched.Now()
}

// ConfigErr returns the error from the last config load, or nil when the
// file was read (or the config was injected).
func (g *Game) ConfigErr() error {
	return g.cfgErr
}

// Config returns the configuration in effect.
func (g *Game) Config() config.TetrisConfig {
	return g.cfg
}
