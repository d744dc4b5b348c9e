// Package store persists playback snapshots so a restarted player can
// resume where the last one left off.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tunebar/tunebar/internal/core"
)

const (
	// ProfileFileName is the cross-session snapshot file.
	ProfileFileName = "playback.json"

	// playedMarkerName records that playback has started at least once,
	// which feeds future autoplay decisions.
	playedMarkerName = "played"
)

// Store writes each snapshot to two scopes: a session-scoped file that
// dies with the machine's temp dir, and a profile-scoped file that
// survives across sessions. On load the session copy wins.
type Store struct {
	sessionPath string
	profilePath string
}

// New creates a store rooted at the default locations. The session
// scope lives under the OS temp dir keyed by sessionID.
func New(sessionID string) (*Store, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	if sessionID == "" {
		sessionID = strconv.Itoa(os.Getppid())
	}
	return &Store{
		sessionPath: filepath.Join(os.TempDir(), "tunebar", "session-"+sessionID+".json"),
		profilePath: filepath.Join(configDir, "tunebar", ProfileFileName),
	}, nil
}

// NewAt creates a store with explicit file paths for both scopes.
func NewAt(sessionPath, profilePath string) *Store {
	return &Store{sessionPath: sessionPath, profilePath: profilePath}
}

// Save writes the snapshot to both scopes. A failure in one scope does
// not prevent the write to the other; the first error is returned so
// callers can log it, but saving is always best-effort.
func (s *Store) Save(snap *core.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	var firstErr error
	for _, path := range []string{s.sessionPath, s.profilePath} {
		if err := writeFile(path, data); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Load returns the session snapshot if present and parseable, else the
// profile snapshot, else nil. Corrupt or unreadable files are treated
// as absent.
func (s *Store) Load() *core.Snapshot {
	if snap := readSnapshot(s.sessionPath); snap != nil {
		return snap
	}
	return readSnapshot(s.profilePath)
}

// Clear removes both snapshot files.
func (s *Store) Clear() error {
	var firstErr error
	for _, path := range []string{s.sessionPath, s.profilePath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// MarkPlayed records that playback has started at least once for this
// profile.
func (s *Store) MarkPlayed() error {
	return writeFile(s.markerPath(), []byte("1"))
}

// HasPlayed reports whether playback has ever started for this profile.
func (s *Store) HasPlayed() bool {
	_, err := os.Stat(s.markerPath())
	return err == nil
}

func (s *Store) markerPath() string {
	return filepath.Join(filepath.Dir(s.profilePath), playedMarkerName)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

func readSnapshot(path string) *core.Snapshot {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var snap core.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil
	}
	if snap.Time < 0 {
		snap.Time = 0
	}
	return &snap
}
