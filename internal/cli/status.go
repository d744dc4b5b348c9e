package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/tunebar/tunebar/internal/core"
	"github.com/tunebar/tunebar/internal/logging"
	"github.com/tunebar/tunebar/internal/playlist"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current playback status",
	Long:  `Shows what the player daemon is doing right now.`,
	RunE:  runStatus,
}

var playlistRefresh bool

var playlistCmd = &cobra.Command{
	Use:   "playlist",
	Short: "List the playlist",
	Long:  `Lists the playlist tracks, fetching from the service when the cache is stale.`,
	RunE:  runPlaylist,
}

func init() {
	playlistCmd.Flags().BoolVar(&playlistRefresh, "refresh", false, "Ignore the cache and fetch fresh")
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(playlistCmd)
}

type statusResult struct {
	State    string  `json:"state"`
	VideoID  string  `json:"videoId,omitempty"`
	Title    string  `json:"title,omitempty"`
	Index    int     `json:"index"`
	Count    int     `json:"count"`
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
	Volume   int     `json:"volume"`
	Muted    bool    `json:"muted"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	conn, err := dialEmbed()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	state, err := conn.State()
	if err != nil {
		return fmt.Errorf("failed to query state: %w", err)
	}

	res := statusResult{State: embedStateName(state), Index: -1}
	res.VideoID, _ = conn.VideoID()
	res.Position, _ = conn.CurrentTime()
	res.Duration, _ = conn.Duration()
	res.Volume, _ = conn.Volume()
	res.Muted, _ = conn.Muted()

	// Titles live in the playlist, not the daemon.
	if pl, err := cachedPlaylist(); err == nil {
		res.Count = pl.Len()
		if idx := pl.IndexOf(res.VideoID); idx >= 0 {
			res.Index = idx
			res.Title = pl.Track(idx).Title
		}
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(res)
	}

	name := res.Title
	if name == "" {
		name = res.VideoID
	}
	if name == "" {
		fmt.Println("Nothing playing")
		return nil
	}

	icon := "⏸"
	if state == core.EmbedPlaying || state == core.EmbedBuffering {
		icon = "▶"
	}
	fmt.Printf("%s %s\n", icon, name)
	if res.Index >= 0 {
		fmt.Printf("  Track %d/%d\n", res.Index+1, res.Count)
	}
	fmt.Printf("  %s / %s\n", formatClock(res.Position), formatClock(res.Duration))
	if res.Muted {
		fmt.Printf("  Volume: %d%% (muted)\n", res.Volume)
	} else {
		fmt.Printf("  Volume: %d%%\n", res.Volume)
	}
	return nil
}

func embedStateName(s core.EmbedState) string {
	switch s {
	case core.EmbedPlaying:
		return "playing"
	case core.EmbedPaused:
		return "paused"
	case core.EmbedBuffering:
		return "buffering"
	case core.EmbedEnded:
		return "ended"
	case core.EmbedCued:
		return "cued"
	default:
		return "unstarted"
	}
}

func runPlaylist(cmd *cobra.Command, args []string) error {
	dir, err := playlist.DefaultCacheDir()
	if err != nil {
		return err
	}
	cache := playlist.NewCache(dir, clockwork.NewRealClock())
	if playlistRefresh {
		// Dropping the cache forces EnsureLoaded to hit the service.
		_ = cache.Invalidate()
	}

	client := playlist.NewClient(cfg.Service.Endpoint, time.Duration(cfg.Service.Timeout)*time.Second)
	loader := playlist.NewLoader(client, cache, logging.NewConsole(cfg.Log.Level))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pl, err := loader.EnsureLoaded(ctx)
	if err != nil {
		return err
	}

	if JSONOutput() {
		return json.NewEncoder(os.Stdout).Encode(pl.Tracks)
	}

	for i, track := range pl.Tracks {
		fmt.Printf("%3d. %s\n", i+1, track.Title)
	}
	return nil
}
