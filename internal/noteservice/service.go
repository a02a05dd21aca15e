// Package noteservice is the layer every front-end talks to. It forwards
// calls to the note store, validates input and announces changes to live
// subscribers.
package noteservice

import (
	"context"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/notebook/internal/apperr"
	"github.com/starford/notebook/internal/notebook"
)

// Change kinds passed to a Publisher.
const (
	KindAdded    = "added"
	KindUpdated  = "updated"
	KindCleared  = "cleared"
	KindReloaded = "reloaded"
)

// Publisher receives a notification after each successful mutation.
// name is empty for collection-wide changes.
type Publisher interface {
	PublishNoteEvent(kind, name string)
}

// NoteDetail is the full representation of a note.
type NoteDetail struct {
	Name     string `json:"name"`
	Contents string `json:"contents"`
}

// Service coordinates the store and change notifications.
type Service struct {
	store *notebook.Store
	pub   Publisher
}

// NewService creates a new note service. pub may be nil.
func NewService(store *notebook.Store, pub Publisher) *Service {
	return &Service{store: store, pub: pub}
}

// ListNotes returns all note names in listing order.
func (s *Service) ListNotes(_ context.Context) []string {
	return s.store.List()
}

// GetNote returns the named note or apperr.ErrNotFound.
func (s *Service) GetNote(_ context.Context, name string) (*NoteDetail, error) {
	n, ok := s.store.Get(name)
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &NoteDetail{Name: n.Name(), Contents: n.Text()}, nil
}

// AddNote creates or overwrites a note. Name and contents must be non-empty.
func (s *Service) AddNote(_ context.Context, name, contents string) (*NoteDetail, error) {
	if err := validateNote(name, contents); err != nil {
		return nil, err
	}
	if err := s.store.Add(name, contents); err != nil {
		return nil, err
	}
	s.publish(KindAdded, name)
	return &NoteDetail{Name: name, Contents: contents}, nil
}

// UpdateNote replaces the contents of an existing note.
func (s *Service) UpdateNote(_ context.Context, name, contents string) (*NoteDetail, error) {
	if err := validateNote(name, contents); err != nil {
		return nil, err
	}
	if err := s.store.Update(name, contents); err != nil {
		return nil, err
	}
	s.publish(KindUpdated, name)
	return &NoteDetail{Name: name, Contents: contents}, nil
}

// Find returns the names of notes containing term as a whole token.
func (s *Service) Find(_ context.Context, term string) []string {
	return s.store.Find(term)
}

// Clear removes every note.
func (s *Service) Clear(_ context.Context) error {
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.publish(KindCleared, "")
	return nil
}

// Reload re-reads the snapshot, e.g. after it changed on disk.
func (s *Service) Reload(_ context.Context) error {
	if err := s.store.Reload(); err != nil {
		return err
	}
	s.publish(KindReloaded, "")
	return nil
}

func (s *Service) publish(kind, name string) {
	if s.pub != nil {
		s.pub.PublishNoteEvent(kind, name)
	}
}

func validateNote(name, contents string) error {
	err := validation.Errors{
		"name":     validation.Validate(name, validation.Required),
		"contents": validation.Validate(contents, validation.Required),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidNote, err)
	}
	return nil
}
