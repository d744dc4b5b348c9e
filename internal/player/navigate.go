package player

import "github.com/tunebar/tunebar/internal/core"

// Next advances to the next track. Sequential mode wraps around the
// playlist; shuffle mode replays recorded history first and only picks
// a fresh random track once history is exhausted.
func (c *Controller) Next() {
	pl := c.source.Playlist()
	if pl.IsEmpty() {
		return
	}

	c.mu.Lock()
	var idx int
	if c.shuffle {
		if fwd, ok := c.hist.StepForward(); ok {
			idx = fwd
		} else {
			idx = c.randomIndexLocked(pl)
		}
	} else {
		idx = (c.currentIndexLocked(pl) + 1) % pl.Len()
	}
	tr := pl.Track(idx)
	if tr == nil {
		c.mu.Unlock()
		return
	}
	c.loadTrackLocked(tr, idx)
	c.mu.Unlock()
	c.notify()
	c.Play()
}

// Previous goes back one track. Sequential mode wraps; shuffle mode
// walks recorded history and stops at the oldest entry.
func (c *Controller) Previous() {
	pl := c.source.Playlist()
	if pl.IsEmpty() {
		return
	}

	c.mu.Lock()
	var idx int
	if c.shuffle {
		back, ok := c.hist.StepBack()
		if !ok {
			// Bounded by history, not circular.
			c.mu.Unlock()
			return
		}
		idx = back
	} else {
		idx = (c.currentIndexLocked(pl) - 1 + pl.Len()) % pl.Len()
	}
	tr := pl.Track(idx)
	if tr == nil {
		c.mu.Unlock()
		return
	}
	c.loadTrackLocked(tr, idx)
	c.mu.Unlock()
	c.notify()
	c.Play()
}

// SetShuffle switches the navigation policy. Turning shuffle on resets
// history to just the current track; turning it off keeps none.
func (c *Controller) SetShuffle(on bool) {
	pl := c.source.Playlist()

	c.mu.Lock()
	if c.shuffle == on {
		c.mu.Unlock()
		return
	}
	c.shuffle = on
	idx := -1
	if on {
		if vid, err := c.embed.VideoID(); err == nil {
			idx = pl.IndexOf(vid)
		}
	}
	c.hist.ResetTo(idx)
	c.persistLocked()
	c.mu.Unlock()
	c.notify()
}

// ToggleShuffle flips the shuffle flag.
func (c *Controller) ToggleShuffle() {
	c.mu.Lock()
	on := !c.shuffle
	c.mu.Unlock()
	c.SetShuffle(on)
}

// History returns a copy of the recorded play order, oldest first.
func (c *Controller) History() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hist.Entries()
}

// currentIndexLocked resolves the active video id to a playlist index,
// defaulting to 0 when unresolvable.
func (c *Controller) currentIndexLocked(pl *core.Playlist) int {
	vid, err := c.embed.VideoID()
	if err != nil {
		return 0
	}
	if idx := pl.IndexOf(vid); idx >= 0 {
		return idx
	}
	return 0
}

// randomIndexLocked picks a uniform random index, excluding the current
// track whenever the playlist has more than one.
func (c *Controller) randomIndexLocked(pl *core.Playlist) int {
	n := pl.Len()
	if n <= 1 {
		return 0
	}
	cur := c.currentIndexLocked(pl)
	idx := c.rand.Intn(n - 1)
	if idx >= cur {
		idx++
	}
	return idx
}

// loadTrackLocked cues a playlist track from its start. The caller
// issues Play; the resulting state-change event records history.
func (c *Controller) loadTrackLocked(tr *core.Track, idx int) {
	if err := c.embed.CueVideo(tr.VideoID, 0); err != nil {
		c.log.Warn().Err(err).Str("video", tr.VideoID).Msg("cue failed")
	}
	c.lastIndex = idx
	c.position = 0
	c.duration = 0
	c.persistLocked()
}
