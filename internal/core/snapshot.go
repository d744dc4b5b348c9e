package core

import "time"

// Snapshot is persisted playback state used to resume across restarts.
// The same JSON shape is written to both the session and profile scopes.
type Snapshot struct {
	Index     int     `json:"index"`
	VideoID   string  `json:"videoId"`
	Time      float64 `json:"time"`
	Duration  float64 `json:"duration"`
	Volume    int     `json:"volume"`
	Muted     bool    `json:"muted"`
	Playing   bool    `json:"playing"`
	Timestamp int64   `json:"timestamp"`
}

// SavedAt returns the time the snapshot was written.
func (s *Snapshot) SavedAt() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// Remaining returns the seconds of playback the snapshot had left,
// or 0 if the duration was unknown when it was saved.
func (s *Snapshot) Remaining() float64 {
	if s.Duration <= 0 {
		return 0
	}
	r := s.Duration - s.Time
	if r < 0 {
		return 0
	}
	return r
}
