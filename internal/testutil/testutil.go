// Package testutil provides shared test helpers for building stores and services.
package testutil

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/starford/notebook/internal/noteservice"
	"github.com/starford/notebook/internal/notebook"
	"github.com/starford/notebook/internal/storage"
)

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestStore creates a Store backed by a snapshot file in a temporary directory.
func TestStore(t *testing.T) (*notebook.Store, *storage.File) {
	t.Helper()
	f, err := storage.NewFile(t.TempDir(), "recent_notes.msgpack")
	if err != nil {
		t.Fatal(err)
	}
	s, err := notebook.Open(f, Logger())
	if err != nil {
		t.Fatal(err)
	}
	return s, f
}

// TestService creates a Service over a fresh temporary store.
func TestService(t *testing.T, pub noteservice.Publisher) *noteservice.Service {
	t.Helper()
	s, _ := TestStore(t)
	return noteservice.NewService(s, pub)
}

// Event is one recorded notification.
type Event struct {
	Kind string
	Name string
}

// Recorder is a noteservice.Publisher that remembers what it was told.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// PublishNoteEvent implements noteservice.Publisher.
func (r *Recorder) PublishNoteEvent(kind, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: kind, Name: name})
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}
