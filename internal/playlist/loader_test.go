package playlist

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	tberrors "github.com/tunebar/tunebar/internal/errors"
)

const testPayload = `{
	"playlistId": "PL123",
	"totalVideos": 3,
	"videos": [
		{"videoId": "aaa", "title": "First", "thumbnail": "http://t/a.jpg", "position": 0},
		{"videoId": "bbb", "title": "Second", "thumbnail": "http://t/b.jpg", "position": 1},
		{"videoId": "ccc", "title": "Third", "thumbnail": "http://t/c.jpg", "position": 2}
	]
}`

func testServer(t *testing.T, hits *int32, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(testPayload))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEnsureLoadedIdempotent(t *testing.T) {
	var hits int32
	srv := testServer(t, &hits, http.StatusOK)

	clock := clockwork.NewFakeClock()
	loader := NewLoader(NewClient(srv.URL, 0), NewCache(t.TempDir(), clock), zerolog.Nop())

	pl, err := loader.EnsureLoaded(context.Background())
	if err != nil {
		t.Fatalf("EnsureLoaded() error = %v", err)
	}
	if pl.Len() != 3 {
		t.Errorf("Len() = %d, want 3", pl.Len())
	}
	if pl.IndexOf("bbb") != 1 {
		t.Errorf("IndexOf(bbb) = %d, want 1", pl.IndexOf("bbb"))
	}

	if _, err := loader.EnsureLoaded(context.Background()); err != nil {
		t.Fatalf("second EnsureLoaded() error = %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("fetch count = %d, want 1", got)
	}
}

func TestFreshCacheSkipsFetch(t *testing.T) {
	var hits int32
	srv := testServer(t, &hits, http.StatusOK)

	dir := t.TempDir()
	clock := clockwork.NewFakeClock()
	cache := NewCache(dir, clock)
	if err := cache.Save([]byte(testPayload)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// A second loader, as after a restart: within the TTL the cache
	// answers without any network traffic.
	clock.Advance(23 * time.Hour)
	loader := NewLoader(NewClient(srv.URL, 0), NewCache(dir, clock), zerolog.Nop())
	pl, err := loader.EnsureLoaded(context.Background())
	if err != nil {
		t.Fatalf("EnsureLoaded() error = %v", err)
	}
	if pl.Len() != 3 {
		t.Errorf("Len() = %d, want 3", pl.Len())
	}
	if got := atomic.LoadInt32(&hits); got != 0 {
		t.Errorf("fetch count = %d, want 0", got)
	}
}

func TestExpiredCacheRefetches(t *testing.T) {
	var hits int32
	srv := testServer(t, &hits, http.StatusOK)

	dir := t.TempDir()
	clock := clockwork.NewFakeClock()
	cache := NewCache(dir, clock)
	if err := cache.Save([]byte(`{"playlistId":"OLD","videos":[{"videoId":"zzz"}]}`)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	clock.Advance(25 * time.Hour)
	loader := NewLoader(NewClient(srv.URL, 0), NewCache(dir, clock), zerolog.Nop())
	pl, err := loader.EnsureLoaded(context.Background())
	if err != nil {
		t.Fatalf("EnsureLoaded() error = %v", err)
	}
	if pl.ID != "PL123" {
		t.Errorf("playlist ID = %q, want fresh payload", pl.ID)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("fetch count = %d, want 1", got)
	}

	// The cache was overwritten with the new payload and timestamp.
	data, fresh := cache.Load()
	if !fresh {
		t.Error("cache not fresh after refetch")
	}
	if pl := parsePayload(data); pl == nil || pl.ID != "PL123" {
		t.Errorf("cache payload = %q", data)
	}
}

func TestFetchFailureWithoutCache(t *testing.T) {
	var hits int32
	srv := testServer(t, &hits, http.StatusNotFound)

	loader := NewLoader(NewClient(srv.URL, 0), NewCache(t.TempDir(), clockwork.NewFakeClock()), zerolog.Nop())
	if _, err := loader.EnsureLoaded(context.Background()); !errors.Is(err, tberrors.ErrPlaylistUnavailable) {
		t.Errorf("EnsureLoaded() error = %v, want ErrPlaylistUnavailable", err)
	}
	if loader.Err() == nil {
		t.Error("Err() = nil after failed load")
	}
	if loader.Playlist() != nil {
		t.Error("Playlist() != nil after failed load")
	}
}

func TestQuotaFallsBackToStaleCache(t *testing.T) {
	var hits int32
	srv := testServer(t, &hits, http.StatusTooManyRequests)

	dir := t.TempDir()
	clock := clockwork.NewFakeClock()
	cache := NewCache(dir, clock)
	if err := cache.Save([]byte(testPayload)); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	clock.Advance(48 * time.Hour)
	loader := NewLoader(NewClient(srv.URL, 0), NewCache(dir, clock), zerolog.Nop())
	pl, err := loader.EnsureLoaded(context.Background())
	if err != nil {
		t.Fatalf("EnsureLoaded() error = %v, want stale cache fallback", err)
	}
	if pl.Len() != 3 {
		t.Errorf("Len() = %d, want 3 from stale cache", pl.Len())
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("fetch count = %d, want 1 (quota is not retried)", got)
	}
}

func TestQuotaError(t *testing.T) {
	var hits int32
	srv := testServer(t, &hits, http.StatusTooManyRequests)

	client := NewClient(srv.URL, 0)
	if _, err := client.Fetch(context.Background()); !errors.Is(err, tberrors.ErrQuotaExceeded) {
		t.Errorf("Fetch() error = %v, want ErrQuotaExceeded", err)
	}
}

func TestCorruptCacheTreatedAsMiss(t *testing.T) {
	var hits int32
	srv := testServer(t, &hits, http.StatusOK)

	dir := t.TempDir()
	clock := clockwork.NewFakeClock()
	cache := NewCache(dir, clock)
	if err := cache.Save([]byte("{broken")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loader := NewLoader(NewClient(srv.URL, 0), NewCache(dir, clock), zerolog.Nop())
	pl, err := loader.EnsureLoaded(context.Background())
	if err != nil {
		t.Fatalf("EnsureLoaded() error = %v", err)
	}
	if pl.ID != "PL123" {
		t.Errorf("playlist ID = %q, want fetched payload", pl.ID)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("fetch count = %d, want 1", got)
	}
}
