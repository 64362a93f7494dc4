package config

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"aptdeals/server/internal/models"
)

// PreferenceStore keeps the last query of each user in one JSON file, keyed by an
// opaque user hash. Writes replace the whole file; the last writer wins.
type PreferenceStore struct {
	path string

	mu    sync.RWMutex
	prefs map[string]models.UserPreferences
}

func NewPreferenceStore(path string) *PreferenceStore {
	return &PreferenceStore{
		path:  path,
		prefs: make(map[string]models.UserPreferences),
	}
}

// HashUser derives the storage key from a client token.
func HashUser(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Load reads the preference file. A missing file leaves the store empty.
func (s *PreferenceStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.prefs = make(map[string]models.UserPreferences)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read preferences file: %w", err)
	}

	prefs := make(map[string]models.UserPreferences)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &prefs); err != nil {
			return fmt.Errorf("failed to parse preferences: %w", err)
		}
	}
	s.prefs = prefs
	return nil
}

// Get returns the stored preferences for a user key
func (s *PreferenceStore) Get(key string) (models.UserPreferences, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.prefs[key]
	return p, ok
}

// Put stores preferences for a user key and persists the whole store.
func (s *PreferenceStore) Put(key string, prefs models.UserPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.prefs[key]
	s.prefs[key] = prefs
	if err := s.save(); err != nil {
		if existed {
			s.prefs[key] = previous
		} else {
			delete(s.prefs, key)
		}
		return err
	}
	return nil
}

// save must be called with mu held. The temp file lives next to the target so the
// rename stays on one filesystem.
func (s *PreferenceStore) save() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create preferences directory: %w", err)
	}

	data, err := json.MarshalIndent(s.prefs, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace preferences file: %w", err)
	}
	return nil
}
