package config

import (
	_ "embed"
)

//go:embed defaults/tetris.yaml
var defaultTetrisYAML []byte

// DefaultTetrisConfig returns the built-in configuration: 1000ms gravity
// getting 100ms faster per level down to 100ms, a level every 10 lines and a
// 300ms pause after each clear.
func DefaultTetrisConfig() TetrisConfig {
	return TetrisConfig{
		Gravity: GravityConfig{
			BaseMS: 1000,
			StepMS: 100,
			MinMS:  100,
		},
		Leveling: LevelingConfig{
			LinesPerLevel: 10,
		},
		Timing: TimingConfig{
			LineClearDelayMS: 300,
		},
		Display: DisplayConfig{
			Ghost: true,
			Stats: true,
		},
	}
}
