// Package credstore persists the active room credentials and the saved rooms.
package credstore

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/naveenspark/stageremote/internal/fsutil"
	"github.com/naveenspark/stageremote/pkg/domain"
)

// ErrRoomNotFound is returned by Switch for an unknown saved room id.
var ErrRoomNotFound = errors.New("saved room not found")

// Mirror receives the active pair after every successful write. Failures are
// logged by the store and never reach the caller.
type Mirror interface {
	Write(domain.Credentials) error
	Clear() error
}

type document struct {
	Active domain.Credentials `yaml:"active"`
	Saved  []domain.SavedRoom `yaml:"saved"`
}

// Store is a YAML-file backed credential store. All writes go through to
// disk before returning.
type Store struct {
	path   string
	mirror Mirror
	logger *slog.Logger

	mu  sync.RWMutex
	doc document
}

// Open loads the store at path. A missing file yields an empty store.
// mirror and logger may be nil.
func Open(path string, mirror Mirror, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Store{path: path, mirror: mirror, logger: logger}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("credstore.Open: %w", err)
	}
	if err := yaml.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("credstore.Open: parse %s: %w", path, err)
	}
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Load returns the active pair and whether it is complete.
func (s *Store) Load() (domain.Credentials, bool) {
	c := s.Active()
	return c, c.Complete()
}

// Active returns the active pair, complete or not. It satisfies
// client.CredentialSource.
func (s *Store) Active() domain.Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Active
}

// Save replaces the active pair and mirrors it.
func (s *Store) Save(c domain.Credentials) error {
	s.mu.Lock()
	prev := s.doc.Active
	s.doc.Active = c
	if err := s.persistLocked(); err != nil {
		s.doc.Active = prev
		s.mu.Unlock()
		return fmt.Errorf("credstore.Save: %w", err)
	}
	s.mu.Unlock()

	s.mirrorWrite(c)
	return nil
}

// Clear forgets the active pair. Saved rooms are kept.
func (s *Store) Clear() error {
	s.mu.Lock()
	prev := s.doc.Active
	s.doc.Active = domain.Credentials{}
	if err := s.persistLocked(); err != nil {
		s.doc.Active = prev
		s.mu.Unlock()
		return fmt.Errorf("credstore.Clear: %w", err)
	}
	s.mu.Unlock()

	if s.mirror != nil {
		if err := s.mirror.Clear(); err != nil {
			s.logger.Warn("clear widget mirror", "error", err)
		}
	}
	return nil
}

// ListSaved returns the saved rooms in insertion order.
func (s *Store) ListSaved() []domain.SavedRoom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SavedRoom, len(s.doc.Saved))
	copy(out, s.doc.Saved)
	return out
}

// AddSaved appends room. It fails with domain.ErrDuplicateRoom when the same
// room id and API key are already saved. An empty id is generated and an
// empty name defaults to the room id.
func (s *Store) AddSaved(room domain.SavedRoom) (domain.SavedRoom, error) {
	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	if room.Name == "" {
		room.Name = room.RoomID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.doc.Saved {
		if r.SameRoom(room.Credentials()) {
			return domain.SavedRoom{}, domain.ErrDuplicateRoom
		}
	}
	s.doc.Saved = append(s.doc.Saved, room)
	if err := s.persistLocked(); err != nil {
		s.doc.Saved = s.doc.Saved[:len(s.doc.Saved)-1]
		return domain.SavedRoom{}, fmt.Errorf("credstore.AddSaved: %w", err)
	}
	return room, nil
}

// RemoveSaved deletes the saved room with id. Unknown ids are not an error.
func (s *Store) RemoveSaved(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, r := range s.doc.Saved {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	prev := s.doc.Saved
	next := make([]domain.SavedRoom, 0, len(prev)-1)
	next = append(next, prev[:idx]...)
	next = append(next, prev[idx+1:]...)
	s.doc.Saved = next
	if err := s.persistLocked(); err != nil {
		s.doc.Saved = prev
		return fmt.Errorf("credstore.RemoveSaved: %w", err)
	}
	return nil
}

// Switch makes the saved room with id the active pair.
func (s *Store) Switch(id string) (domain.Credentials, error) {
	s.mu.RLock()
	var (
		c     domain.Credentials
		found bool
	)
	for _, r := range s.doc.Saved {
		if r.ID == id {
			c, found = r.Credentials(), true
			break
		}
	}
	s.mu.RUnlock()
	if !found {
		return domain.Credentials{}, fmt.Errorf("credstore.Switch: %w", ErrRoomNotFound)
	}
	if err := s.Save(c); err != nil {
		return domain.Credentials{}, err
	}
	return c, nil
}

func (s *Store) persistLocked() error {
	data, err := yaml.Marshal(&s.doc)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(s.path, data, 0o600)
}

func (s *Store) mirrorWrite(c domain.Credentials) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Write(c); err != nil {
		s.logger.Warn("write widget mirror", "room_id", c.RoomID, "error", err)
	}
}
