package config

import (
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("load should succeed, got: %v", err)
	}

	if cfg.Mode != MODE_CONSOLE || cfg.Players != 4 || cfg.MusicMinMs != 500 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoad_Precedence(t *testing.T) {
	t.Setenv("MUSICAL_CHAIRS_PLAYERS", "7")
	t.Setenv("MUSICAL_CHAIRS_LOG_LEVEL", "debug")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("load should succeed, got: %v", err)
	}

	if cfg.Players != 7 || cfg.LogLevel != "debug" {
		t.Fatalf("env should override defaults, got %+v", cfg)
	}

	cfg, err = Load([]string{"--players", "9", "--mode", MODE_SERVE})
	if err != nil {
		t.Fatalf("load should succeed, got: %v", err)
	}

	if cfg.Players != 9 || cfg.Mode != MODE_SERVE {
		t.Fatalf("flags should override env, got %+v", cfg)
	}

	if cfg.LogLevel != "debug" {
		t.Fatalf("unset flag should not override env, got %q", cfg.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "one player", args: []string{"-n", "1"}},
		{name: "unknown mode", args: []string{"--mode", "gui"}},
		{name: "negative pause", args: []string{"--settle_pause_ms", "-5"}},
		{name: "unknown flag", args: []string{"--chairs", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.args); err == nil {
				t.Fatalf("want error for %v", tt.args)
			}
		})
	}
}
