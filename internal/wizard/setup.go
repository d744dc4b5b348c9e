// Package wizard provides the interactive first-run setup form.
package wizard

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/tunebar/tunebar/internal/config"
)

// IsTerminal returns true if stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Run walks the user through the initial configuration and mutates cfg
// in place. The caller decides whether and where to write the result.
func Run(cfg *config.Config) error {
	if !IsTerminal() {
		return fmt.Errorf("setup wizard requires a terminal")
	}

	endpoint := cfg.Service.Endpoint
	socket := cfg.Player.Socket
	defaultTrack := cfg.Player.DefaultTrack
	volume := strconv.Itoa(cfg.Player.Volume)
	autoplay := cfg.Player.Autoplay

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Playlist service endpoint").
				Description("HTTP endpoint serving the playlist JSON").
				Value(&endpoint).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("endpoint is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Player daemon socket").
				Description("Unix socket path of the embedded player daemon").
				Value(&socket),
			huh.NewInput().
				Title("Default track ID").
				Description("Played when no playlist is available (optional)").
				Value(&defaultTrack),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Startup volume").
				Description("0-100").
				Value(&volume).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < 0 || n > 100 {
						return fmt.Errorf("must be a number between 0 and 100")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Start playback automatically?").
				Description("Falls back to muted playback if the player refuses").
				Value(&autoplay),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	cfg.Service.Endpoint = endpoint
	cfg.Player.Socket = socket
	cfg.Player.DefaultTrack = defaultTrack
	cfg.Player.Volume, _ = strconv.Atoi(volume)
	cfg.Player.Autoplay = autoplay

	return cfg.Validate()
}
