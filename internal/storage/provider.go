// Package storage persists notebook snapshots.
package storage

import "github.com/starford/notebook/internal/models"

// Provider loads and saves the whole note collection as one snapshot.
type Provider interface {
	// Load returns the persisted records in listing order. A snapshot that
	// does not exist yet yields no records and no error.
	Load() ([]models.Record, error)
	// Save replaces the persisted snapshot with records.
	Save(records []models.Record) error
	// Location describes where the snapshot lives (path or DSN).
	Location() string
}

// Verify implementations satisfy Provider at compile time.
var (
	_ Provider = (*File)(nil)
	_ Provider = (*SQLite)(nil)
)
