package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error types for common failure scenarios.
var (
	ErrPlaylistUnavailable = errors.New("playlist unavailable")
	ErrQuotaExceeded       = errors.New("playlist service quota exceeded")
	ErrPlayerNotReady      = errors.New("player not ready")
	ErrDaemonUnreachable   = errors.New("player daemon unreachable")
	ErrTrackUnavailable    = errors.New("track unavailable")
	ErrEmptyPlaylist       = errors.New("playlist is empty")
	ErrNetworkError        = errors.New("network error")
	ErrTimeout             = errors.New("request timeout")
	ErrConfigNotFound      = errors.New("config file not found")
	ErrInvalidConfig       = errors.New("invalid configuration")
)

// TunebarError wraps an error with a user-friendly suggestion.
type TunebarError struct {
	Err        error
	Suggestion string
}

func (e *TunebarError) Error() string {
	return e.Err.Error()
}

func (e *TunebarError) Unwrap() error {
	return e.Err
}

// WithSuggestion wraps an error with a helpful suggestion.
func WithSuggestion(err error, suggestion string) error {
	return &TunebarError{
		Err:        err,
		Suggestion: suggestion,
	}
}

// GetSuggestion returns a suggestion for the given error.
func GetSuggestion(err error) string {
	if err == nil {
		return ""
	}

	// Check if it's already a TunebarError with suggestion
	var tbErr *TunebarError
	if errors.As(err, &tbErr) && tbErr.Suggestion != "" {
		return tbErr.Suggestion
	}

	errStr := strings.ToLower(err.Error())

	// Daemon errors
	if errors.Is(err, ErrDaemonUnreachable) || strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such file or directory") {
		return "Start the player daemon, or check player.socket in your config"
	}

	if errors.Is(err, ErrPlayerNotReady) {
		return "The player is still starting up. Try again in a moment"
	}

	// Playlist service errors
	if errors.Is(err, ErrQuotaExceeded) || strings.Contains(errStr, "quota") ||
		strings.Contains(errStr, "429") {
		return "The playlist service is rate limiting. Wait a moment and try again"
	}

	if errors.Is(err, ErrPlaylistUnavailable) || errors.Is(err, ErrEmptyPlaylist) {
		return "Check service.endpoint in your config, or try again later"
	}

	// Network errors
	if errors.Is(err, ErrNetworkError) || errors.Is(err, ErrTimeout) ||
		strings.Contains(errStr, "network") || strings.Contains(errStr, "timeout") {
		return "Check your internet connection and try again"
	}

	// Config errors
	if errors.Is(err, ErrConfigNotFound) || errors.Is(err, ErrInvalidConfig) ||
		strings.Contains(errStr, "config") {
		return "Run 'tunebar config init' to set up your configuration"
	}

	return ""
}

// Format returns a formatted error message with suggestion if available.
func Format(err error) string {
	if err == nil {
		return ""
	}

	suggestion := GetSuggestion(err)
	if suggestion != "" {
		return fmt.Sprintf("Error: %s\n\nSuggestion: %s", err.Error(), suggestion)
	}

	return fmt.Sprintf("Error: %s", err.Error())
}
