package playlist

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tunebar/tunebar/internal/core"
	tberrors "github.com/tunebar/tunebar/internal/errors"
)

// Loader produces the playlist, consulting the disk cache before the
// network. Loading happens at most once per process; EnsureLoaded is
// idempotent and a failed load can be retried on the next call.
type Loader struct {
	mu       sync.Mutex
	client   *Client
	cache    *Cache
	log      zerolog.Logger
	playlist *core.Playlist
	err      error
}

// NewLoader creates a loader backed by the given client and cache.
func NewLoader(client *Client, cache *Cache, log zerolog.Logger) *Loader {
	return &Loader{client: client, cache: cache, log: log}
}

// EnsureLoaded returns the playlist, loading it on first call. A cached
// copy younger than the TTL is used without a fetch; otherwise the
// service is queried and the cache overwritten. On fetch failure a
// stale cache is served if one parses; with no usable cache the error
// is recorded and returned, never panicked.
func (l *Loader) EnsureLoaded(ctx context.Context) (*core.Playlist, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.playlist != nil {
		return l.playlist, nil
	}

	cached, fresh := l.cache.Load()
	if fresh {
		if pl := parsePayload(cached); pl != nil {
			l.log.Debug().Int("tracks", pl.Len()).Msg("playlist served from cache")
			l.playlist = pl
			l.err = nil
			return pl, nil
		}
		// Corrupt cache entry reads as a miss.
		l.log.Warn().Msg("discarding corrupt playlist cache")
	}

	resp, err := l.client.Fetch(ctx)
	if err != nil {
		// A stale copy beats an error affordance.
		if pl := parsePayload(cached); pl != nil {
			l.log.Warn().Err(err).Msg("playlist fetch failed, serving stale cache")
			l.playlist = pl
			l.err = nil
			return pl, nil
		}
		l.err = fmt.Errorf("%w: %w", tberrors.ErrPlaylistUnavailable, err)
		l.log.Error().Err(err).Msg("playlist fetch failed")
		return nil, l.err
	}

	if len(resp.Videos) == 0 {
		l.err = tberrors.ErrEmptyPlaylist
		return nil, l.err
	}

	if data, err := json.Marshal(resp); err == nil {
		if err := l.cache.Save(data); err != nil {
			l.log.Warn().Err(err).Msg("failed to write playlist cache")
		}
	}

	l.playlist = resp.Playlist()
	l.err = nil
	l.log.Info().Str("playlist", resp.PlaylistID).Int("tracks", l.playlist.Len()).Msg("playlist loaded")
	return l.playlist, nil
}

// Playlist returns the loaded playlist, or nil before a successful load.
func (l *Loader) Playlist() *core.Playlist {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.playlist
}

// Err returns the error from the last failed load, or nil.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

func parsePayload(data []byte) *core.Playlist {
	if len(data) == 0 {
		return nil
	}
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil
	}
	if len(resp.Videos) == 0 {
		return nil
	}
	return resp.Playlist()
}
