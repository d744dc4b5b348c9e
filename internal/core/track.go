package core

// Track represents one playable item from the playlist service.
type Track struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnail"`
	Position     int    `json:"position"`
}

// Playlist is the ordered collection of tracks for a player instance.
// It is immutable after load; other components reference tracks by index.
type Playlist struct {
	ID     string
	Tracks []Track
}

// Len returns the number of tracks in the playlist.
func (p *Playlist) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Tracks)
}

// Track returns the track at index i, or nil if out of range.
func (p *Playlist) Track(i int) *Track {
	if p == nil || i < 0 || i >= len(p.Tracks) {
		return nil
	}
	return &p.Tracks[i]
}

// IndexOf returns the index of the track with the given video ID, or -1.
func (p *Playlist) IndexOf(videoID string) int {
	if p == nil || videoID == "" {
		return -1
	}
	for i := range p.Tracks {
		if p.Tracks[i].VideoID == videoID {
			return i
		}
	}
	return -1
}

// IsEmpty returns true if the playlist has no tracks.
func (p *Playlist) IsEmpty() bool {
	return p.Len() == 0
}
