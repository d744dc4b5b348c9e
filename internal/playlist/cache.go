package playlist

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jonboulle/clockwork"
)

const (
	// TTL is how long a cached playlist stays fresh.
	TTL = 24 * 60 * 60 * 1000 // ms

	cacheFileName     = "playlist.json"
	timestampFileName = "playlist.ts"
)

// Cache stores the raw playlist payload on disk next to a sibling
// timestamp file, both string-serialized.
type Cache struct {
	dir   string
	clock clockwork.Clock
}

// NewCache creates a cache rooted at dir.
func NewCache(dir string, clock clockwork.Clock) *Cache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cache{dir: dir, clock: clock}
}

// DefaultCacheDir returns the cache directory under the user cache root.
func DefaultCacheDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get cache directory: %w", err)
	}
	return filepath.Join(cacheDir, "tunebar"), nil
}

// Load returns the cached payload and whether it is younger than the
// TTL. A missing, corrupt, or unstamped cache reads as a miss.
func (c *Cache) Load() (data []byte, fresh bool) {
	data, err := os.ReadFile(filepath.Join(c.dir, cacheFileName))
	if err != nil {
		return nil, false
	}

	tsRaw, err := os.ReadFile(filepath.Join(c.dir, timestampFileName))
	if err != nil {
		return data, false
	}
	savedAt, err := strconv.ParseInt(string(tsRaw), 10, 64)
	if err != nil {
		return data, false
	}

	age := c.clock.Now().UnixMilli() - savedAt
	return data, age >= 0 && age < TTL
}

// Invalidate removes the cached payload and its timestamp.
func (c *Cache) Invalidate() error {
	if err := os.Remove(filepath.Join(c.dir, cacheFileName)); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := os.Remove(filepath.Join(c.dir, timestampFileName)); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Save overwrites the cache with the payload and the current timestamp.
func (c *Cache) Save(data []byte) error {
	if err := os.MkdirAll(c.dir, 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.dir, cacheFileName), data, 0600); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	ts := strconv.FormatInt(c.clock.Now().UnixMilli(), 10)
	if err := os.WriteFile(filepath.Join(c.dir, timestampFileName), []byte(ts), 0600); err != nil {
		return fmt.Errorf("failed to write cache timestamp: %w", err)
	}
	return nil
}
