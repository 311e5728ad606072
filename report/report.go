// Package report persists run artifacts (preview, dry-run and import
// summaries) as JSON snapshots with a time-to-live.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Store writes one JSON file per artifact kind under a directory.
type Store struct {
	dir string
}

// NewStore builds a report store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

type envelope struct {
	SavedAt   time.Time       `json:"saved_at"`
	ExpiresAt time.Time       `json:"expires_at"`
	Payload   json.RawMessage `json:"payload"`
}

// Save stores payload under kind, replacing any previous snapshot. A zero
// ttl keeps the snapshot forever.
func (s *Store) Save(kind string, payload any, ttl time.Duration) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create report dir %q: %w", s.dir, err)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", kind, err)
	}

	env := envelope{SavedAt: time.Now(), Payload: raw}
	if ttl > 0 {
		env.ExpiresAt = env.SavedAt.Add(ttl)
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", kind, err)
	}

	path := s.path(kind)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s snapshot: %w", kind, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("publish %s snapshot: %w", kind, err)
	}
	return nil
}

// Load reads the snapshot for kind into out. It reports false when no
// snapshot exists or the stored one has expired (expired snapshots are
// removed).
func (s *Store) Load(kind string, out any) (bool, error) {
	data, err := os.ReadFile(s.path(kind))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s snapshot: %w", kind, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return false, fmt.Errorf("decode %s snapshot: %w", kind, err)
	}
	if !env.ExpiresAt.IsZero() && time.Now().After(env.ExpiresAt) {
		os.Remove(s.path(kind))
		return false, nil
	}
	if err := json.Unmarshal(env.Payload, out); err != nil {
		return false, fmt.Errorf("decode %s payload: %w", kind, err)
	}
	return true, nil
}

func (s *Store) path(kind string) string {
	return filepath.Join(s.dir, kind+".json")
}
