package core

// EmbedState is a playback state reported by the embedded player daemon.
type EmbedState int

const (
	EmbedUnstarted EmbedState = iota
	EmbedEnded
	EmbedPlaying
	EmbedPaused
	EmbedBuffering
	EmbedCued
)

func (s EmbedState) String() string {
	switch s {
	case EmbedUnstarted:
		return "unstarted"
	case EmbedEnded:
		return "ended"
	case EmbedPlaying:
		return "playing"
	case EmbedPaused:
		return "paused"
	case EmbedBuffering:
		return "buffering"
	case EmbedCued:
		return "cued"
	default:
		return "unknown"
	}
}

// ErrorCode is a playback error code emitted by the embedded player.
type ErrorCode int

const (
	ErrCodeInvalidRequest ErrorCode = 2
	ErrCodePlaybackFailed ErrorCode = 5
	ErrCodeNotFound       ErrorCode = 100
	ErrCodeRestricted     ErrorCode = 101
	ErrCodeRestrictedAlt  ErrorCode = 150
)

// Skippable returns true for codes that mean the track itself is
// unavailable (removed, restricted) and the player should advance past it.
func (c ErrorCode) Skippable() bool {
	switch c {
	case ErrCodeNotFound, ErrCodeRestricted, ErrCodeRestrictedAlt:
		return true
	}
	return false
}

// EventHandler receives asynchronous events from an embedded player.
type EventHandler interface {
	OnReady()
	OnStateChange(EmbedState)
	OnError(ErrorCode)
}

// EmbedPlayer is the port to the embedded player daemon. The controller
// is the only component that talks to it; implementations must be safe
// for calls from multiple goroutines.
type EmbedPlayer interface {
	CueVideo(videoID string, startSeconds float64) error
	Play() error
	Pause() error
	SeekTo(seconds float64) error
	Mute() error
	UnMute() error
	SetVolume(percent int) error
	Volume() (int, error)
	Muted() (bool, error)
	CurrentTime() (float64, error)
	Duration() (float64, error)
	VideoID() (string, error)
	State() (EmbedState, error)
	Close() error
}
