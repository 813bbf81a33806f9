package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), FileName))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Presets.Medium != 32 || cfg.Presets.Small != 17 || cfg.Presets.ExtraSmall != 3 {
		t.Fatalf("unexpected presets: %+v", cfg.Presets)
	}
	opts := cfg.AutofitOptions(nil)
	if opts.MaxIterations != 10 || opts.Tolerance != 0.5 || *opts.DistanceBias != 1 || opts.ScrollEpsilon != 0.1 {
		t.Fatalf("unexpected autofit options: %+v", opts)
	}
}

func TestParseOverridesDefaults(t *testing.T) {
	src := `
theme: themes/card.theme
logLevel: debug
presets:
  small: 20
autofit:
  maxIterations: 7
  distanceBias: 0
`
	cfg, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Theme != "themes/card.theme" {
		t.Fatalf("theme = %q", cfg.Theme)
	}
	// 未写出的字段保留默认值
	if cfg.Presets.Small != 20 || cfg.Presets.Medium != 32 {
		t.Fatalf("presets = %+v", cfg.Presets)
	}
	opts := cfg.AutofitOptions(slog.Default())
	if opts.MaxIterations != 7 || *opts.DistanceBias != 0 || opts.Tolerance != 0.5 {
		t.Fatalf("autofit options = %+v", opts)
	}
	if cfg.CommandPresets().Small != 20 {
		t.Fatalf("command presets not converted")
	}
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil || level != slog.LevelDebug {
		t.Fatalf("level = %v err = %v", level, err)
	}
}

func TestParseEmptyDocument(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log level = %q", cfg.LogLevel)
	}
}

func TestParseRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"unknown field": "colour: red\n",
		"bad level":     "logLevel: loud\n",
		"zero preset":   "presets:\n  medium: 0\n",
		"iterations":    "autofit:\n  maxIterations: 0\n",
		"too many":      "autofit:\n  maxIterations: 11\n",
		"tolerance":     "autofit:\n  tolerance: -1\n",
	}
	for name, src := range cases {
		if _, err := Parse(strings.NewReader(src)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadReportsParseErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("presets: [1, 2"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}
