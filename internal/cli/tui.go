package cli

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/tunebar/tunebar/internal/core"
	"github.com/tunebar/tunebar/internal/embed"
	"github.com/tunebar/tunebar/internal/logging"
	"github.com/tunebar/tunebar/internal/player"
	"github.com/tunebar/tunebar/internal/playlist"
	"github.com/tunebar/tunebar/internal/store"
	"github.com/tunebar/tunebar/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:     "ui",
	Aliases: []string{"tui"},
	Short:   "Open the interactive player",
	Long: `Open the interactive terminal player.

Keyboard shortcuts:
  Space, p     Play/Pause
  n / b        Next / previous track
  s            Toggle shuffle
  m            Toggle mute
  +/-          Volume up/down
  ←/→          Seek 5s back/forward
  0-9          Jump to a fraction of the track
  /            Filter playlist
  Tab          Switch panel
  Enter        Play selected track
  q, Ctrl+C    Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// eventRelay forwards daemon events to a controller that is created
// after the connection. Events arriving before the controller exists
// are queued and replayed in order.
type eventRelay struct {
	mu      sync.Mutex
	target  core.EventHandler
	pending []func(core.EventHandler)
}

func (r *eventRelay) SetTarget(h core.EventHandler) {
	r.mu.Lock()
	pending := r.pending
	r.pending = nil
	r.target = h
	r.mu.Unlock()

	for _, fn := range pending {
		fn(h)
	}
}

func (r *eventRelay) deliver(fn func(core.EventHandler)) {
	r.mu.Lock()
	if r.target == nil {
		r.pending = append(r.pending, fn)
		r.mu.Unlock()
		return
	}
	h := r.target
	r.mu.Unlock()
	fn(h)
}

func (r *eventRelay) OnReady() {
	r.deliver(func(h core.EventHandler) { h.OnReady() })
}

func (r *eventRelay) OnStateChange(s core.EmbedState) {
	r.deliver(func(h core.EventHandler) { h.OnStateChange(s) })
}

func (r *eventRelay) OnError(code core.ErrorCode) {
	r.deliver(func(h core.EventHandler) { h.OnError(code) })
}

func runTUI(cmd *cobra.Command, args []string) error {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	st, err := store.New(strconv.Itoa(os.Getpid()))
	if err != nil {
		return fmt.Errorf("failed to open playback store: %w", err)
	}

	cacheDir, err := playlist.DefaultCacheDir()
	if err != nil {
		return fmt.Errorf("failed to locate cache dir: %w", err)
	}

	clock := clockwork.NewRealClock()
	client := playlist.NewClient(cfg.Service.Endpoint, time.Duration(cfg.Service.Timeout)*time.Second)
	loader := playlist.NewLoader(client, playlist.NewCache(cacheDir, clock), log)

	relay := &eventRelay{}
	conn, err := embed.Dial(cfg.Player.Socket, relay, log)
	if err != nil {
		return fmt.Errorf("failed to reach player daemon at %s: %w", cfg.Player.Socket, err)
	}

	ctrl := player.New(conn, loader, st, clock, log, player.Options{
		DefaultVideoID: cfg.Player.DefaultTrack,
		DefaultVolume:  cfg.Player.Volume,
		Autoplay:       cfg.Player.Autoplay,
	})
	relay.SetTarget(ctrl)
	defer func() { _ = ctrl.Close() }()
	defer func() { _ = conn.Close() }()

	return tui.Run(ctrl)
}
