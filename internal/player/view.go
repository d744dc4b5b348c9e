package player

import "github.com/tunebar/tunebar/internal/core"

// View is a read-only projection of controller state for rendering.
// The TUI derives everything it draws from one of these.
type View struct {
	State       core.State
	Track       *core.Track
	Index       int
	Count       int
	Position    float64
	Duration    float64
	Volume      int
	Muted       bool
	Shuffle     bool
	Status      string
	PlaylistErr error

	// PlaylistRef is the loaded playlist itself, shared not copied;
	// it is immutable after load.
	PlaylistRef *core.Playlist
}

// View returns the current projection.
func (c *Controller) View() View {
	pl := c.source.Playlist()
	plErr := c.source.Err()

	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		State:       c.state,
		Index:       c.lastIndex,
		Count:       pl.Len(),
		Position:    c.position,
		Duration:    c.duration,
		Volume:      c.volume,
		Muted:       c.muted,
		Shuffle:     c.shuffle,
		Status:      c.status,
		PlaylistErr: plErr,
		PlaylistRef: pl,
	}
	v.Track = pl.Track(c.lastIndex)
	return v
}

// ProgressPercent returns playback progress as a percentage (0-100).
func (v View) ProgressPercent() float64 {
	if v.Duration <= 0 {
		return 0
	}
	p := v.Position / v.Duration * 100
	if p > 100 {
		return 100
	}
	return p
}

// VolumeTier buckets the volume for icon selection.
type VolumeTier int

const (
	VolumeMutedTier VolumeTier = iota
	VolumeLowTier
	VolumeHighTier
)

// Tier returns the volume icon tier.
func (v View) Tier() VolumeTier {
	switch {
	case v.Muted || v.Volume == 0:
		return VolumeMutedTier
	case v.Volume < 50:
		return VolumeLowTier
	default:
		return VolumeHighTier
	}
}
