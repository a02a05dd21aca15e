// Package notebook implements the in-process note store: a name-keyed,
// insertion-ordered collection of text notes that is written back to its
// snapshot after every mutation.
package notebook

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/notebook/internal/apperr"
	"github.com/starford/notebook/internal/models"
	"github.com/starford/notebook/internal/storage"
)

// Store owns the notes and their snapshot.
//
// All methods are safe for concurrent use; each mutation and the persist that
// follows it run under one write lock, so operations are applied one at a time.
type Store struct {
	provider storage.Provider
	logger   *slog.Logger

	mu    sync.RWMutex
	order []string
	notes map[string]*models.Note
}

// Open creates a Store and loads the snapshot held by provider.
// A missing snapshot yields an empty store; an undecodable one is an error.
func Open(provider storage.Provider, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{provider: provider, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory notes with the persisted snapshot.
// The write lock is held across the load so a concurrent mutation is either
// fully before it (and on disk) or fully after it.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.provider.Load()
	if err != nil {
		return fmt.Errorf("notebook: load: %w", err)
	}

	order := make([]string, 0, len(records))
	notes := make(map[string]*models.Note, len(records))
	for _, r := range records {
		n := r.Note()
		if _, dup := notes[r.Name]; !dup {
			order = append(order, r.Name)
		}
		notes[r.Name] = &n
	}

	s.order, s.notes = order, notes

	s.logger.Info("notebook: loaded",
		slog.String("snapshot", s.provider.Location()),
		slog.Int("notes", len(order)))
	return nil
}

// List returns every note name in insertion order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of notes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Get returns a copy of the named note. For an unknown name it returns the
// zero Note (empty name and contents) and false.
func (s *Store) Get(name string) (models.Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notes[name]
	if !ok {
		return models.Note{}, false
	}
	return *n, true
}

// Add inserts a note or overwrites the contents of an existing one, keeping
// its position, then persists.
func (s *Store) Add(name, contents string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n, ok := s.notes[name]; ok {
		n.Update(contents)
	} else {
		n := models.NewNote(name, contents)
		s.notes[name] = &n
		s.order = append(s.order, name)
	}
	return s.persist()
}

// Update replaces the contents of an existing note and persists.
// It returns apperr.ErrNotFound if there is no note with that name.
func (s *Store) Update(name, contents string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[name]
	if !ok {
		return fmt.Errorf("notebook: update %q: %w", name, apperr.ErrNotFound)
	}
	n.Update(contents)
	return s.persist()
}

// Find returns, in listing order, the names of notes whose lowercased
// contents contain term as a whole token. term itself is not lowercased.
func (s *Store) Find(term string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []string{}
	for _, name := range s.order {
		if hasToken(s.notes[name].Text(), term) {
			out = append(out, name)
		}
	}
	return out
}

// Clear removes every note and persists the empty snapshot.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = nil
	s.notes = make(map[string]*models.Note)
	return s.persist()
}

// Snapshot returns all notes as records in listing order.
func (s *Store) Snapshot() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records()
}

// persist writes the whole collection. Callers hold the write lock.
func (s *Store) persist() error {
	if s.notes == nil {
		return errors.New("notebook: persist: nil note map")
	}
	if err := s.provider.Save(s.records()); err != nil {
		return fmt.Errorf("notebook: persist: %w", err)
	}
	s.logger.Debug("notebook: persisted",
		slog.String("snapshot", s.provider.Location()),
		slog.Int("notes", len(s.order)))
	return nil
}

func (s *Store) records() []models.Record {
	out := make([]models.Record, len(s.order))
	for i, name := range s.order {
		out[i] = s.notes[name].Record()
	}
	return out
}
