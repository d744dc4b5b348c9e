package cli

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/tunebar/tunebar/internal/core"
	"github.com/tunebar/tunebar/internal/embed"
	"github.com/tunebar/tunebar/internal/logging"
	"github.com/tunebar/tunebar/internal/playlist"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Resume playback",
	Long:  `Resume playback of the current track.`,
	RunE:  runPlay,
}

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause playback",
	Long:  `Pause the current playback.`,
	RunE:  runPause,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Toggle play/pause",
	Long:  `Pause if playing, resume otherwise.`,
	RunE:  runToggle,
}

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Skip to next track",
	Long:  `Skip to the next track in the playlist.`,
	RunE:  runNext,
}

var prevCmd = &cobra.Command{
	Use:   "prev",
	Short: "Go to previous track",
	Long:  `Go back to the previous track in the playlist.`,
	RunE:  runPrev,
}

var shuffleCmd = &cobra.Command{
	Use:   "shuffle",
	Short: "Jump to a random track",
	Long:  `Jump to a random track other than the current one.`,
	RunE:  runShuffle,
}

var (
	volumeUp   bool
	volumeDown bool
)

var volumeCmd = &cobra.Command{
	Use:   "volume [level]",
	Short: "Set or adjust volume",
	Long: `Set the playback volume (0-100) or adjust it up/down.

Examples:
  tunebar volume 50      # Set volume to 50%
  tunebar volume --up    # Increase volume by 10%
  tunebar volume --down  # Decrease volume by 10%`,
	RunE: runVolume,
}

var muteCmd = &cobra.Command{
	Use:   "mute",
	Short: "Toggle mute",
	Long:  `Mute if audible, unmute otherwise.`,
	RunE:  runMute,
}

var seekCmd = &cobra.Command{
	Use:   "seek <seconds>",
	Short: "Seek within the current track",
	Long: `Seek to an absolute position in the current track.

A leading + or - seeks relative to the current position:
  tunebar seek 90    # Jump to 1:30
  tunebar seek +15   # Forward 15 seconds
  tunebar seek -15   # Back 15 seconds`,
	Args: cobra.ExactArgs(1),
	RunE: runSeek,
}

func init() {
	volumeCmd.Flags().BoolVar(&volumeUp, "up", false, "Increase volume by 10%")
	volumeCmd.Flags().BoolVar(&volumeDown, "down", false, "Decrease volume by 10%")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(nextCmd)
	rootCmd.AddCommand(prevCmd)
	rootCmd.AddCommand(shuffleCmd)
	rootCmd.AddCommand(volumeCmd)
	rootCmd.AddCommand(muteCmd)
	rootCmd.AddCommand(seekCmd)
}

// noopHandler discards daemon events. One-shot commands issue a single
// request and exit, so there is nothing to react to.
type noopHandler struct{}

func (noopHandler) OnReady()                      {}
func (noopHandler) OnStateChange(core.EmbedState) {}
func (noopHandler) OnError(core.ErrorCode)        {}

var _ core.EventHandler = noopHandler{}

func dialEmbed() (*embed.Client, error) {
	return embed.Dial(cfg.Player.Socket, noopHandler{}, logging.NewConsole(cfg.Log.Level))
}

func runPlay(cmd *cobra.Command, args []string) error {
	conn, err := dialEmbed()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	if err := conn.Play(); err != nil {
		return fmt.Errorf("failed to play: %w", err)
	}
	reportStatus("playing", "▶ Playing")
	return nil
}

func runPause(cmd *cobra.Command, args []string) error {
	conn, err := dialEmbed()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	if err := conn.Pause(); err != nil {
		return fmt.Errorf("failed to pause: %w", err)
	}
	reportStatus("paused", "⏸ Paused")
	return nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	conn, err := dialEmbed()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	state, err := conn.State()
	if err != nil {
		return fmt.Errorf("failed to query state: %w", err)
	}

	if state == core.EmbedPlaying || state == core.EmbedBuffering {
		if err := conn.Pause(); err != nil {
			return fmt.Errorf("failed to pause: %w", err)
		}
		reportStatus("paused", "⏸ Paused")
		return nil
	}

	if err := conn.Play(); err != nil {
		return fmt.Errorf("failed to play: %w", err)
	}
	reportStatus("playing", "▶ Playing")
	return nil
}

func runNext(cmd *cobra.Command, args []string) error {
	return stepTrack(1)
}

func runPrev(cmd *cobra.Command, args []string) error {
	return stepTrack(-1)
}

// stepTrack cues the adjacent playlist entry, wrapping at the ends.
// It relies on the cached playlist; run the interactive player at
// least once to populate it.
func stepTrack(delta int) error {
	pl, err := cachedPlaylist()
	if err != nil {
		return err
	}

	conn, err := dialEmbed()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	cur := 0
	if id, err := conn.VideoID(); err == nil {
		if idx := pl.IndexOf(id); idx >= 0 {
			cur = idx
		}
	}

	next := ((cur+delta)%pl.Len() + pl.Len()) % pl.Len()
	return cueAndPlay(conn, pl, next)
}

func runShuffle(cmd *cobra.Command, args []string) error {
	pl, err := cachedPlaylist()
	if err != nil {
		return err
	}

	conn, err := dialEmbed()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	cur := -1
	if id, err := conn.VideoID(); err == nil {
		cur = pl.IndexOf(id)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	idx := rng.Intn(pl.Len())
	if pl.Len() > 1 && cur >= 0 {
		idx = rng.Intn(pl.Len() - 1)
		if idx >= cur {
			idx++
		}
	}
	return cueAndPlay(conn, pl, idx)
}

func cueAndPlay(conn *embed.Client, pl *core.Playlist, idx int) error {
	track := pl.Track(idx)
	if track == nil {
		return fmt.Errorf("track %d out of range", idx)
	}

	if err := conn.CueVideo(track.VideoID, 0); err != nil {
		return fmt.Errorf("failed to cue track: %w", err)
	}
	if err := conn.Play(); err != nil {
		return fmt.Errorf("failed to play: %w", err)
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]any{
			"status": "playing",
			"index":  idx,
			"track":  track.Title,
		})
	} else {
		fmt.Printf("▶ %d. %s\n", idx+1, track.Title)
	}
	return nil
}

func runVolume(cmd *cobra.Command, args []string) error {
	conn, err := dialEmbed()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	var level int
	switch {
	case volumeUp || volumeDown:
		cur, err := conn.Volume()
		if err != nil {
			return fmt.Errorf("failed to query volume: %w", err)
		}
		if volumeUp {
			level = cur + 10
		} else {
			level = cur - 10
		}
	case len(args) == 1:
		level, err = strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("volume must be a number between 0 and 100")
		}
	default:
		cur, err := conn.Volume()
		if err != nil {
			return fmt.Errorf("failed to query volume: %w", err)
		}
		if JSONOutput() {
			_ = json.NewEncoder(os.Stdout).Encode(map[string]int{"volume": cur})
		} else {
			fmt.Printf("Volume: %d%%\n", cur)
		}
		return nil
	}

	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}

	if err := conn.SetVolume(level); err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}

	// Keep the mute flag consistent with the slider position.
	if level == 0 {
		_ = conn.Mute()
	} else {
		_ = conn.UnMute()
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]int{"volume": level})
	} else {
		fmt.Printf("Volume: %d%%\n", level)
	}
	return nil
}

func runMute(cmd *cobra.Command, args []string) error {
	conn, err := dialEmbed()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	muted, err := conn.Muted()
	if err != nil {
		return fmt.Errorf("failed to query mute state: %w", err)
	}

	if muted {
		if err := conn.UnMute(); err != nil {
			return fmt.Errorf("failed to unmute: %w", err)
		}
		reportStatus("unmuted", "🔊 Unmuted")
		return nil
	}

	if err := conn.Mute(); err != nil {
		return fmt.Errorf("failed to mute: %w", err)
	}
	reportStatus("muted", "🔇 Muted")
	return nil
}

func runSeek(cmd *cobra.Command, args []string) error {
	conn, err := dialEmbed()
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	arg := args[0]
	relative := len(arg) > 0 && (arg[0] == '+' || arg[0] == '-')

	offset, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return fmt.Errorf("seek position must be a number of seconds")
	}

	target := offset
	if relative {
		cur, err := conn.CurrentTime()
		if err != nil {
			return fmt.Errorf("failed to query position: %w", err)
		}
		target = cur + offset
	}
	if target < 0 {
		target = 0
	}

	if err := conn.SeekTo(target); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}

	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]float64{"position": target})
	} else {
		fmt.Printf("Seeked to %s\n", formatClock(target))
	}
	return nil
}

// cachedPlaylist loads the playlist from the on-disk cache, stale or
// not. One-shot commands never hit the network.
func cachedPlaylist() (*core.Playlist, error) {
	dir, err := playlist.DefaultCacheDir()
	if err != nil {
		return nil, err
	}

	data, _ := playlist.NewCache(dir, clockwork.NewRealClock()).Load()
	if data == nil {
		return nil, fmt.Errorf("no cached playlist. Run 'tunebar ui' first")
	}

	var resp playlist.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("cached playlist is corrupt. Run 'tunebar ui' to refresh it")
	}

	pl := resp.Playlist()
	if pl.IsEmpty() {
		return nil, fmt.Errorf("cached playlist is empty")
	}
	return pl, nil
}

func reportStatus(status, human string) {
	if JSONOutput() {
		_ = json.NewEncoder(os.Stdout).Encode(map[string]string{"status": status})
	} else {
		fmt.Println(human)
	}
}

func formatClock(s float64) string {
	if s < 0 {
		s = 0
	}
	total := int(s)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
