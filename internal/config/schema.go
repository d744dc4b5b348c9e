package config

// Config is the root configuration structure.
type Config struct {
	Service ServiceConfig `toml:"service"`
	Player  PlayerConfig  `toml:"player"`
	TUI     TUIConfig     `toml:"tui"`
	Log     LogConfig     `toml:"log"`
}

// ServiceConfig holds playlist service settings.
type ServiceConfig struct {
	Endpoint string `toml:"endpoint"`
	Timeout  int    `toml:"timeout"`
}

// PlayerConfig holds embedded player daemon settings.
type PlayerConfig struct {
	Socket       string `toml:"socket"`
	DefaultTrack string `toml:"default_track"`
	Volume       int    `toml:"volume"`
	Autoplay     bool   `toml:"autoplay"`
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme           string `toml:"theme"`
	RefreshInterval int    `toml:"refresh_interval"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}
