package config

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Timeout: 15,
		},
		Player: PlayerConfig{
			Socket:   "/tmp/tunebar-player.sock",
			Volume:   50,
			Autoplay: false,
		},
		TUI: TUIConfig{
			Theme:           "auto",
			RefreshInterval: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ApplyDefaults fills in zero values with sensible defaults.
func (c *Config) ApplyDefaults() {
	d := Default()

	// Service
	if c.Service.Timeout == 0 {
		c.Service.Timeout = d.Service.Timeout
	}

	// Player
	if c.Player.Socket == "" {
		c.Player.Socket = d.Player.Socket
	}
	if c.Player.Volume == 0 {
		c.Player.Volume = d.Player.Volume
	}

	// TUI
	if c.TUI.Theme == "" {
		c.TUI.Theme = d.TUI.Theme
	}
	if c.TUI.RefreshInterval == 0 {
		c.TUI.RefreshInterval = d.TUI.RefreshInterval
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
}
