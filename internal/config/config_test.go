package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[service]
  endpoint = "https://music.example.com/playlist"
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Service.Endpoint != "https://music.example.com/playlist" {
		t.Errorf("Endpoint = %q, want file value", cfg.Service.Endpoint)
	}
	if cfg.Service.Timeout != 15 {
		t.Errorf("Timeout = %d, want default 15", cfg.Service.Timeout)
	}
	if cfg.Player.Volume != 50 {
		t.Errorf("Volume = %d, want default 50", cfg.Player.Volume)
	}
	if cfg.TUI.Theme != "auto" {
		t.Errorf("Theme = %q, want default auto", cfg.TUI.Theme)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TUNEBAR_SERVICE_ENDPOINT", "http://localhost:9999/playlist")
	t.Setenv("TUNEBAR_PLAYER_VOLUME", "80")
	t.Setenv("TUNEBAR_PLAYER_AUTOPLAY", "true")

	cfg := Default()
	applyEnvOverrides(cfg)

	if cfg.Service.Endpoint != "http://localhost:9999/playlist" {
		t.Errorf("Endpoint = %q, want env value", cfg.Service.Endpoint)
	}
	if cfg.Player.Volume != 80 {
		t.Errorf("Volume = %d, want 80", cfg.Player.Volume)
	}
	if !cfg.Player.Autoplay {
		t.Error("Autoplay = false, want true")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(c *Config) {}, false},
		{"bad endpoint scheme", func(c *Config) { c.Service.Endpoint = "ftp://x" }, true},
		{"volume too high", func(c *Config) { c.Player.Volume = 150 }, true},
		{"negative volume", func(c *Config) { c.Player.Volume = -1 }, true},
		{"bad theme", func(c *Config) { c.TUI.Theme = "neon" }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
