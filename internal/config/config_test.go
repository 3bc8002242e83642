package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestEmbeddedDefaultsMatchBuiltin(t *testing.T) {
	cfg, err := parseTetris(defaultTetrisYAML)
	if err != nil {
		t.Fatalf("embedded defaults: %v", err)
	}
	if cfg != DefaultTetrisConfig() {
		t.Errorf("embedded = %+v, builtin = %+v", cfg, DefaultTetrisConfig())
	}
}

func TestLoadTetrisCustomPathPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tetris.yaml")
	data := []byte("gravity:\n  base_ms: 600\ndisplay:\n  ghost: false\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadTetris(path)
	if err != nil {
		t.Fatalf("LoadTetris: %v", err)
	}
	if cfg.Gravity.BaseMS != 600 {
		t.Errorf("base_ms = %d, expected 600", cfg.Gravity.BaseMS)
	}
	if cfg.Gravity.StepMS != 100 || cfg.Leveling.LinesPerLevel != 10 {
		t.Errorf("unset fields should keep defaults, got %+v", cfg)
	}
	if cfg.Display.Ghost {
		t.Error("ghost should be disabled")
	}
	if !cfg.Display.Stats {
		t.Error("stats should keep its default")
	}
}

func TestLoadTetrisCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadTetris(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("gravity: [1, 2"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTetris(bad); err == nil {
		t.Error("expected error for malformed YAML")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("leveling:\n  lines_per_level: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTetris(invalid); err == nil {
		t.Error("expected validation error")
	}
}

func TestEngineTiming(t *testing.T) {
	timing := DefaultTetrisConfig().EngineTiming()

	if timing.BaseInterval != time.Second {
		t.Errorf("BaseInterval = %v", timing.BaseInterval)
	}
	if timing.IntervalStep != 100*time.Millisecond || timing.MinInterval != 100*time.Millisecond {
		t.Errorf("step/min = %v/%v", timing.IntervalStep, timing.MinInterval)
	}
	if timing.LinesPerLevel != 10 {
		t.Errorf("LinesPerLevel = %d", timing.LinesPerLevel)
	}
	if timing.LineClearDelay != 300*time.Millisecond {
		t.Errorf("LineClearDelay = %v", timing.LineClearDelay)
	}
}

func TestApplyTetrisPreset(t *testing.T) {
	tests := []struct {
		preset DifficultyPreset
		base   int
		step   int
	}{
		{DifficultyEasy, 1000, 50},
		{DifficultyNormal, 1000, 100},
		{DifficultyHard, 800, 100},
		{DifficultyFixed, 1000, 0},
	}
	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := DefaultTetrisConfig()
			ApplyTetrisPreset(&cfg, tc.preset)
			if cfg.Gravity.BaseMS != tc.base || cfg.Gravity.StepMS != tc.step {
				t.Errorf("gravity = %+v, expected base %d step %d", cfg.Gravity, tc.base, tc.step)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset produced invalid config: %v", err)
			}
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in      string
		want    DifficultyPreset
		wantErr bool
	}{
		{"", DifficultyNormal, false},
		{"easy", DifficultyEasy, false},
		{" HARD ", DifficultyHard, false},
		{"fixed", DifficultyFixed, false},
		{"nightmare", "", true},
	}
	for _, tc := range tests {
		got, err := ParseDifficulty(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseDifficulty(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDifficulty(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateReportsFields(t *testing.T) {
	cfg := DefaultTetrisConfig()
	cfg.Gravity.BaseMS = 0
	cfg.Timing.LineClearDelayMS = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, field := range []string{"gravity.base_ms", "timing.line_clear_delay_ms"} {
		if !strings.Contains(msg, field) {
			t.Errorf("error %q should mention %s", msg, field)
		}
	}
}
