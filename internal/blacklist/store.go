// Package blacklist keeps the set of users removed on sight when they join
// a guild.
package blacklist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// DefaultPath is where the blacklist is read from when none is configured.
const DefaultPath = "data/blacklist.json"

// Store is a read-only view of a JSON array of user ids.
//
// A missing file is an empty policy. A malformed file keeps the last good
// snapshot; when none was ever loaded the policy stays empty.
type Store struct {
	path string

	mu     sync.RWMutex
	ids    map[string]struct{}
	loaded bool
}

// NewStore returns an empty store for path. Call Load to read it.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path, ids: map[string]struct{}{}}
}

// Path returns the watched file.
func (s *Store) Path() string { return s.path }

// Load reads the file. The returned error is informational: the store always
// remains usable.
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.replace(map[string]struct{}{})
		log.Info().Str("path", s.path).Msg("Blacklist file not found, no users blacklisted")
		return nil
	}
	if err != nil {
		return s.keep(fmt.Errorf("failed to read blacklist %s: %w", s.path, err))
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return s.keep(fmt.Errorf("failed to parse blacklist %s: %w", s.path, err))
	}

	ids := make(map[string]struct{}, len(list))
	for _, id := range list {
		if id != "" {
			ids[id] = struct{}{}
		}
	}
	s.replace(ids)
	log.Info().Str("path", s.path).Int("users", len(ids)).Msg("Loaded blacklist")
	return nil
}

func (s *Store) replace(ids map[string]struct{}) {
	s.mu.Lock()
	s.ids = ids
	s.loaded = true
	s.mu.Unlock()
}

func (s *Store) keep(err error) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()

	if loaded {
		log.Warn().Err(err).Msg("Keeping previous blacklist")
	} else {
		log.Error().Err(err).Msg("Blacklist unreadable, enforcement disabled until fixed")
	}
	return err
}

// Contains reports whether userID is blacklisted.
func (s *Store) Contains(userID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[userID]
	return ok
}

// Len returns the number of blacklisted users.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Watch reloads the file whenever it changes until ctx is done. The parent
// directory is watched so the file may be created, replaced or removed.
func (s *Store) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create blacklist watcher: %w", err)
	}
	defer w.Close()

	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	log.Debug().Str("path", s.path).Msg("Watching blacklist")

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Load(); err != nil {
				log.Debug().Err(err).Str("op", ev.Op.String()).Msg("Blacklist reload kept previous policy")
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("Blacklist watcher error")
		}
	}
}
