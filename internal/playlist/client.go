// Package playlist fetches and caches the track list from the remote
// playlist service.
package playlist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tunebar/tunebar/internal/core"
	tberrors "github.com/tunebar/tunebar/internal/errors"
)

const (
	// Retry configuration for transient errors
	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Response is the playlist service payload.
type Response struct {
	PlaylistID  string       `json:"playlistId"`
	TotalVideos int          `json:"totalVideos"`
	Videos      []core.Track `json:"videos"`
}

// Playlist converts the payload into the immutable core playlist.
func (r *Response) Playlist() *core.Playlist {
	return &core.Playlist{
		ID:     r.PlaylistID,
		Tracks: r.Videos,
	}
}

// Client fetches playlists from the remote playlist service.
type Client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient creates a client for the given playlist endpoint URL.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
	}
}

// Fetch retrieves the playlist. Server errors and network failures are
// retried with exponential backoff; a quota response is returned as
// ErrQuotaExceeded so callers can fall back to a stale cache.
func (c *Client) Fetch(ctx context.Context) (*Response, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		// Wait before retry (skip on first attempt)
		if attempt > 0 {
			wait := baseRetryWait * time.Duration(1<<(attempt-1)) // exponential backoff
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue // Retry on network error
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			// Quota exhaustion is retryable later, not now.
			return nil, tberrors.ErrQuotaExceeded
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("service error: status %d", resp.StatusCode)
			continue // Retry
		case resp.StatusCode != http.StatusOK:
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		var payload Response
		if err := json.Unmarshal(body, &payload); err != nil {
			return nil, fmt.Errorf("failed to parse response: %w", err)
		}
		return &payload, nil
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}
