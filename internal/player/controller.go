// Package player owns the embedded player instance and drives playback:
// resume-on-start, sequential and shuffle navigation, volume and mute,
// seeking, and reaction to daemon lifecycle events.
package player

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/tunebar/tunebar/internal/core"
	"github.com/tunebar/tunebar/internal/history"
	"github.com/tunebar/tunebar/internal/store"
)

const (
	// cueSettleDelay is how long a cue gets to settle before a
	// requested resume-play is issued.
	cueSettleDelay = 500 * time.Millisecond

	// skipDelay is the pause before auto-advancing past an
	// unavailable track, long enough for the status to be seen.
	skipDelay = 2 * time.Second

	progressInterval = time.Second
)

// PlaylistSource supplies the loaded playlist. Satisfied by
// *playlist.Loader.
type PlaylistSource interface {
	EnsureLoaded(ctx context.Context) (*core.Playlist, error)
	Playlist() *core.Playlist
	Err() error
}

// Options configures controller startup behavior.
type Options struct {
	DefaultVideoID string
	DefaultVolume  int
	Autoplay       bool
}

// Controller is the playback state machine. All commands from the UI
// and all events from the embedded player funnel through it; nothing
// else touches the embed port.
type Controller struct {
	mu     sync.Mutex
	embed  core.EmbedPlayer
	source PlaylistSource
	store  *store.Store
	hist   *history.Tracker
	clock  clockwork.Clock
	log    zerolog.Logger
	rand   *rand.Rand
	opts   Options

	state     core.State
	shuffle   bool
	volume    int
	preMute   int
	muted     bool
	position  float64
	duration  float64
	lastIndex int
	status    string
	hasPlayed bool

	tickerStop chan struct{}
	onChange   func()
	closed     bool
}

// New creates a controller in the Uninitialized state. It becomes Ready
// when the embedded player reports ready (OnReady).
func New(embed core.EmbedPlayer, source PlaylistSource, st *store.Store, clock clockwork.Clock, log zerolog.Logger, opts Options) *Controller {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if opts.DefaultVolume <= 0 || opts.DefaultVolume > 100 {
		opts.DefaultVolume = 50
	}
	return &Controller{
		embed:     embed,
		source:    source,
		store:     st,
		hist:      history.New(),
		clock:     clock,
		log:       log,
		rand:      rand.New(rand.NewSource(clock.Now().UnixNano())),
		opts:      opts,
		state:     core.StateUninitialized,
		volume:    opts.DefaultVolume,
		preMute:   opts.DefaultVolume,
		lastIndex: -1,
	}
}

// SetOnChange registers the hook invoked after every state change, once
// the change has been persisted. The UI re-renders from it.
func (c *Controller) SetOnChange(fn func()) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// SetRandSource replaces the random source used for shuffle picks.
func (c *Controller) SetRandSource(src rand.Source) {
	c.mu.Lock()
	c.rand = rand.New(src)
	c.mu.Unlock()
}

// OnReady handles the embedded player becoming ready: restore the
// persisted snapshot, cue the resume track, and kick off the playlist
// load.
func (c *Controller) OnReady() {
	c.mu.Lock()
	if c.state != core.StateUninitialized {
		c.mu.Unlock()
		return
	}
	c.state = core.StateReady
	c.hasPlayed = c.store.HasPlayed()

	snap := c.store.Load()
	videoID := c.opts.DefaultVideoID
	start := 0.0
	playNow := false

	if snap != nil {
		c.volume = clampVolume(snap.Volume)
		c.preMute = c.volume
		c.muted = snap.Muted
		if snap.VideoID != "" {
			videoID = snap.VideoID
		}
		c.lastIndex = snap.Index
		start = snap.Time
		c.duration = snap.Duration

		// Resume as playing only if the track would plausibly still be
		// going; a stale timestamp or unknown duration resumes paused.
		elapsed := c.clock.Now().Sub(snap.SavedAt()).Seconds()
		if snap.Playing && elapsed >= 0 && elapsed < snap.Remaining() {
			start = snap.Time + elapsed
			playNow = true
		}
	} else if c.opts.Autoplay {
		// Fresh start: autoplay must begin muted.
		c.muted = true
		playNow = true
	}

	c.applyVolumeLocked()
	if videoID != "" {
		if err := c.embed.CueVideo(videoID, start); err != nil {
			c.log.Warn().Err(err).Str("video", videoID).Msg("cue failed")
		}
		c.position = start
	}
	if playNow {
		// Let the cue settle before playing. Not cancelled by user
		// action; a manual toggle may race with it.
		c.clock.AfterFunc(cueSettleDelay, func() { c.Play() })
	}
	c.persistLocked()
	c.mu.Unlock()
	c.notify()

	go func() {
		_, _ = c.source.EnsureLoaded(context.Background())
		c.notify()
	}()
}

// OnStateChange maps an embedded player state onto the controller state
// machine, records history, manages the progress ticker, and persists.
func (c *Controller) OnStateChange(es core.EmbedState) {
	c.mu.Lock()
	switch es {
	case core.EmbedPlaying:
		c.state = core.StatePlaying
	case core.EmbedPaused:
		c.state = core.StatePaused
	case core.EmbedBuffering:
		c.state = core.StateBuffering
	case core.EmbedEnded:
		c.state = core.StateEnded
	case core.EmbedCued, core.EmbedUnstarted:
		c.state = core.StateReady
	}

	if c.state.Active() {
		c.status = ""
		if c.state == core.StatePlaying && !c.hasPlayed {
			c.hasPlayed = true
			if err := c.store.MarkPlayed(); err != nil {
				c.log.Debug().Err(err).Msg("failed to write played marker")
			}
		}
		c.recordCurrentLocked()
		c.startTickerLocked()
	} else {
		c.stopTickerLocked()
	}

	c.refreshPositionLocked()
	c.persistLocked()
	ended := c.state == core.StateEnded
	c.mu.Unlock()
	c.notify()

	if ended {
		c.Next()
	}
}

// OnError handles playback error codes. Unavailable or restricted
// tracks show a transient status and auto-advance; anything else is
// only logged.
func (c *Controller) OnError(code core.ErrorCode) {
	if !code.Skippable() {
		c.log.Warn().Int("code", int(code)).Msg("playback error")
		return
	}

	c.mu.Lock()
	c.state = core.StateError
	c.status = "Track unavailable, skipping"
	c.stopTickerLocked()
	c.persistLocked()
	c.mu.Unlock()
	c.notify()

	c.clock.AfterFunc(skipDelay, func() {
		c.mu.Lock()
		c.status = ""
		c.mu.Unlock()
		c.Next()
	})
}

// Play asks the embedded player to start or resume playback.
func (c *Controller) Play() {
	if err := c.embed.Play(); err != nil {
		c.log.Warn().Err(err).Msg("play failed")
	}
}

// Pause asks the embedded player to pause.
func (c *Controller) Pause() {
	if err := c.embed.Pause(); err != nil {
		c.log.Warn().Err(err).Msg("pause failed")
	}
}

// TogglePlay plays when paused and pauses when active.
func (c *Controller) TogglePlay() {
	c.mu.Lock()
	active := c.state.Active()
	c.mu.Unlock()
	if active {
		c.Pause()
	} else {
		c.Play()
	}
}

// PlayTrack cues and plays the playlist track at index i. This is the
// playlist-row click path.
func (c *Controller) PlayTrack(i int) {
	pl := c.source.Playlist()
	tr := pl.Track(i)
	if tr == nil {
		return
	}
	c.mu.Lock()
	c.loadTrackLocked(tr, i)
	c.mu.Unlock()
	c.notify()
	c.Play()
}

// SetVolume moves the volume control. Zero implies mute; any other
// value implies unmute, keeping the slider and the mute flag in step.
func (c *Controller) SetVolume(v int) {
	v = clampVolume(v)
	c.mu.Lock()
	if v == 0 {
		if !c.muted {
			c.preMute = c.volume
		}
		c.muted = true
	} else {
		c.muted = false
	}
	c.volume = v
	c.applyVolumeLocked()
	c.persistLocked()
	c.mu.Unlock()
	c.notify()
}

// ToggleMute mutes, remembering the pre-mute volume so unmuting
// restores it.
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	if c.muted {
		c.muted = false
		if c.volume == 0 {
			c.volume = c.preMute
			if c.volume == 0 {
				c.volume = c.opts.DefaultVolume
			}
		}
	} else {
		c.preMute = c.volume
		c.muted = true
	}
	c.applyVolumeLocked()
	c.persistLocked()
	c.mu.Unlock()
	c.notify()
}

// SeekFraction seeks to a fraction of the track, clamped to [0,1]. The
// visual position updates before the player confirms the seek.
func (c *Controller) SeekFraction(f float64) {
	if f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	c.mu.Lock()
	d := c.duration
	if got, err := c.embed.Duration(); err == nil && got > 0 {
		d = got
		c.duration = got
	}
	target := f * d
	c.position = target
	if err := c.embed.SeekTo(target); err != nil {
		c.log.Warn().Err(err).Msg("seek failed")
	}
	c.persistLocked()
	c.mu.Unlock()
	c.notify()
}

// SeekTo seeks to an absolute position in seconds.
func (c *Controller) SeekTo(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	c.mu.Lock()
	c.position = seconds
	if err := c.embed.SeekTo(seconds); err != nil {
		c.log.Warn().Err(err).Msg("seek failed")
	}
	c.persistLocked()
	c.mu.Unlock()
	c.notify()
}

// SaveNow persists a snapshot immediately. Called on shutdown.
func (c *Controller) SaveNow() {
	c.mu.Lock()
	c.refreshPositionLocked()
	c.persistLocked()
	c.mu.Unlock()
}

// Close stops the progress ticker, persists a final snapshot, and
// releases the embed port.
func (c *Controller) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.stopTickerLocked()
	c.refreshPositionLocked()
	c.persistLocked()
	c.mu.Unlock()
	return c.embed.Close()
}

// applyVolumeLocked pushes the volume and mute flag to the player.
func (c *Controller) applyVolumeLocked() {
	var err error
	if c.muted {
		err = c.embed.Mute()
	} else {
		err = c.embed.UnMute()
	}
	if err != nil {
		c.log.Warn().Err(err).Msg("mute toggle failed")
	}
	if err := c.embed.SetVolume(c.volume); err != nil {
		c.log.Warn().Err(err).Msg("set volume failed")
	}
}

// recordCurrentLocked resolves the active video to a playlist index and
// records it in history. The tracker suppresses the duplicate signals
// that buffering produces for the same track.
func (c *Controller) recordCurrentLocked() {
	pl := c.source.Playlist()
	if pl.IsEmpty() {
		return
	}
	vid, err := c.embed.VideoID()
	if err != nil || vid == "" {
		return
	}
	idx := pl.IndexOf(vid)
	if idx < 0 {
		return
	}
	c.lastIndex = idx
	c.hist.RecordPlay(idx)
}

// refreshPositionLocked pulls position and duration from the player.
func (c *Controller) refreshPositionLocked() {
	if t, err := c.embed.CurrentTime(); err == nil && t >= 0 {
		c.position = t
	}
	if d, err := c.embed.Duration(); err == nil && d > 0 {
		c.duration = d
	}
}

// persistLocked writes the snapshot for the current state to both
// storage scopes. Write failures never propagate.
func (c *Controller) persistLocked() {
	vid, _ := c.embed.VideoID()
	snap := &core.Snapshot{
		Index:     c.lastIndex,
		VideoID:   vid,
		Time:      c.position,
		Duration:  c.duration,
		Volume:    c.volume,
		Muted:     c.muted,
		Playing:   c.state.Active(),
		Timestamp: c.clock.Now().UnixMilli(),
	}
	if err := c.store.Save(snap); err != nil {
		c.log.Debug().Err(err).Msg("snapshot save failed")
	}
}

func (c *Controller) startTickerLocked() {
	c.stopTickerLocked() // never two tickers
	stop := make(chan struct{})
	c.tickerStop = stop
	ticker := c.clock.NewTicker(progressInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.Chan():
				c.mu.Lock()
				c.refreshPositionLocked()
				c.mu.Unlock()
				c.notify()
			}
		}
	}()
}

func (c *Controller) stopTickerLocked() {
	if c.tickerStop != nil {
		close(c.tickerStop)
		c.tickerStop = nil
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func clampVolume(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
