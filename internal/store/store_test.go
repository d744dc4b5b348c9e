package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tunebar/tunebar/internal/core"
)

func testStore(t *testing.T) (*Store, string, string) {
	t.Helper()
	tmpDir := t.TempDir()
	session := filepath.Join(tmpDir, "session.json")
	profile := filepath.Join(tmpDir, "profile", "playback.json")
	return NewAt(session, profile), session, profile
}

func TestSaveAndLoad(t *testing.T) {
	s, sessionPath, profilePath := testStore(t)

	if snap := s.Load(); snap != nil {
		t.Errorf("Load() = %+v for empty store, want nil", snap)
	}

	snap := &core.Snapshot{
		Index:     3,
		VideoID:   "abc123",
		Time:      42.5,
		Duration:  180,
		Volume:    70,
		Playing:   true,
		Timestamp: 1700000000000,
	}
	if err := s.Save(snap); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	// Both scopes hold the same serialized snapshot.
	sessionData, err := os.ReadFile(sessionPath)
	if err != nil {
		t.Fatalf("reading session file: %v", err)
	}
	profileData, err := os.ReadFile(profilePath)
	if err != nil {
		t.Fatalf("reading profile file: %v", err)
	}
	if string(sessionData) != string(profileData) {
		t.Errorf("scopes differ: session %s, profile %s", sessionData, profileData)
	}

	loaded := s.Load()
	if loaded == nil {
		t.Fatal("Load() = nil after save")
	}
	if loaded.VideoID != snap.VideoID || loaded.Time != snap.Time || loaded.Volume != snap.Volume {
		t.Errorf("Load() = %+v, want %+v", loaded, snap)
	}
}

func TestSessionScopeWins(t *testing.T) {
	s, sessionPath, profilePath := testStore(t)

	if err := s.Save(&core.Snapshot{VideoID: "old", Index: 1}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	// Overwrite only the session copy to simulate a newer tab-local state.
	if err := os.WriteFile(sessionPath, []byte(`{"videoId":"new","index":2}`), 0600); err != nil {
		t.Fatalf("writing session file: %v", err)
	}

	loaded := s.Load()
	if loaded == nil || loaded.VideoID != "new" {
		t.Errorf("Load() = %+v, want session-scoped snapshot", loaded)
	}

	// With the session copy gone, the profile copy is used.
	if err := os.Remove(sessionPath); err != nil {
		t.Fatalf("removing session file: %v", err)
	}
	loaded = s.Load()
	if loaded == nil || loaded.VideoID != "old" {
		t.Errorf("Load() = %+v, want profile-scoped snapshot", loaded)
	}
	_ = profilePath
}

func TestCorruptSnapshotTreatedAsAbsent(t *testing.T) {
	s, sessionPath, profilePath := testStore(t)

	if err := os.MkdirAll(filepath.Dir(profilePath), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(sessionPath, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(profilePath, []byte(`{"videoId":"ok"}`), 0600); err != nil {
		t.Fatal(err)
	}

	loaded := s.Load()
	if loaded == nil || loaded.VideoID != "ok" {
		t.Errorf("Load() = %+v, want fallback past corrupt session file", loaded)
	}

	if err := os.WriteFile(profilePath, []byte("also not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(sessionPath); err != nil {
		t.Fatal(err)
	}
	if loaded := s.Load(); loaded != nil {
		t.Errorf("Load() = %+v with both scopes corrupt, want nil", loaded)
	}
}

func TestNegativeTimeClamped(t *testing.T) {
	s, sessionPath, _ := testStore(t)
	if err := os.MkdirAll(filepath.Dir(sessionPath), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(sessionPath, []byte(`{"videoId":"x","time":-7}`), 0600); err != nil {
		t.Fatal(err)
	}
	loaded := s.Load()
	if loaded == nil || loaded.Time != 0 {
		t.Errorf("Load().Time = %v, want 0", loaded.Time)
	}
}

func TestPlayedMarker(t *testing.T) {
	s, _, _ := testStore(t)

	if s.HasPlayed() {
		t.Error("HasPlayed() = true for fresh store, want false")
	}
	if err := s.MarkPlayed(); err != nil {
		t.Fatalf("MarkPlayed() error = %v", err)
	}
	if !s.HasPlayed() {
		t.Error("HasPlayed() = false after MarkPlayed, want true")
	}
}

func TestClear(t *testing.T) {
	s, _, _ := testStore(t)
	if err := s.Save(&core.Snapshot{VideoID: "x"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if snap := s.Load(); snap != nil {
		t.Errorf("Load() = %+v after Clear, want nil", snap)
	}
	// Clearing an already-empty store is fine.
	if err := s.Clear(); err != nil {
		t.Errorf("Clear() error = %v on empty store", err)
	}
}
