// Package config loads the YAML game configuration and applies difficulty
// presets on top of it.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/engine"
)

// TetrisConfig is the full game configuration.
type TetrisConfig struct {
	Gravity  GravityConfig  `yaml:"gravity"`
	Leveling LevelingConfig `yaml:"leveling"`
	Timing   TimingConfig   `yaml:"timing"`
	Display  DisplayConfig  `yaml:"display"`
}

// GravityConfig defines the fall interval curve.
type GravityConfig struct {
	BaseMS int `yaml:"base_ms"` // Interval at level 1
	StepMS int `yaml:"step_ms"` // Reduction per level; 0 keeps gravity constant
	MinMS  int `yaml:"min_ms"`  // Floor
}

// LevelingConfig defines how cleared lines raise the level.
type LevelingConfig struct {
	LinesPerLevel int `yaml:"lines_per_level"`
}

// TimingConfig holds the remaining delays.
type TimingConfig struct {
	LineClearDelayMS int `yaml:"line_clear_delay_ms"`
}

// DisplayConfig toggles optional panels.
type DisplayConfig struct {
	Ghost bool `yaml:"ghost"`
	Stats bool `yaml:"stats"`
}

// Validate reports every invalid field.
func (c TetrisConfig) Validate() error {
	var errs []error
	if c.Gravity.BaseMS <= 0 {
		errs = append(errs, fmt.Errorf("gravity.base_ms must be positive, got %d", c.Gravity.BaseMS))
	}
	if c.Gravity.StepMS < 0 {
		errs = append(errs, fmt.Errorf("gravity.step_ms must not be negative, got %d", c.Gravity.StepMS))
	}
	if c.Gravity.MinMS <= 0 || c.Gravity.MinMS > c.Gravity.BaseMS {
		errs = append(errs, fmt.Errorf("gravity.min_ms must be in 1..base_ms, got %d", c.Gravity.MinMS))
	}
	if c.Leveling.LinesPerLevel <= 0 {
		errs = append(errs, fmt.Errorf("leveling.lines_per_level must be positive, got %d", c.Leveling.LinesPerLevel))
	}
	if c.Timing.LineClearDelayMS < 0 {
		errs = append(errs, fmt.Errorf("timing.line_clear_delay_ms must not be negative, got %d", c.Timing.LineClearDelayMS))
	}
	return errors.Join(errs...)
}

// EngineTiming converts the configuration into engine timing parameters.
func (c TetrisConfig) EngineTiming() engine.Timing {
	return engine.Timing{
		BaseInterval:   time.Duration(c.Gravity.BaseMS) * time.Millisecond,
		IntervalStep:   time.Duration(c.Gravity.StepMS) * time.Millisecond,
		MinInterval:    time.Duration(c.Gravity.MinMS) * time.Millisecond,
		LinesPerLevel:  c.Leveling.LinesPerLevel,
		LineClearDelay: time.Duration(c.Timing.LineClearDelayMS) * time.Millisecond,
	}
}
