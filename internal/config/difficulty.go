package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset is a named adjustment of the gravity curve.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed" // Gravity never speeds up
)

// Presets lists the accepted preset names in display order.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}

// ParseDifficulty resolves a preset name. The empty string means normal.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	if s == "" {
		return DifficultyNormal, nil
	}
	p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Presets {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
}

// ApplyTetrisPreset adjusts cfg for a preset. Normal leaves it unchanged.
// Scoring is never affected.
func ApplyTetrisPreset(cfg *TetrisConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Gravity.StepMS = 50
	case DifficultyHard:
		cfg.Gravity.BaseMS = 800
		cfg.Gravity.MinMS = min(cfg.Gravity.MinMS, cfg.Gravity.BaseMS)
	case DifficultyFixed:
		cfg.Gravity.StepMS = 0
	}
}
