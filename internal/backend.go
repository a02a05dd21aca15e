package internal

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/notebook/internal/notebook"
	"github.com/starford/notebook/internal/storage"
)

var errConfigRequired = errors.New("config is required")

// Backend is an opened Store together with the provider it persists to.
type Backend struct {
	Store *notebook.Store
	// File is set only for the file backend; the watcher needs it.
	File *storage.File

	closer io.Closer
}

// Close releases the provider, if it holds any resources.
func (b *Backend) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

// OpenBackend opens the configured provider and loads the notebook from it.
// A corrupt snapshot is returned as an error wrapping apperr.ErrCorruptSnapshot.
func OpenBackend(cfg *StoreConfig, logger *slog.Logger) (*Backend, error) {
	b := &Backend{}
	var provider storage.Provider

	switch cfg.Backend {
	case BackendSQLite:
		if err := os.MkdirAll(cfg.CacheDir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
		db, err := storage.OpenSQLite(filepath.Join(cfg.CacheDir, cfg.File))
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		provider, b.closer = db, db
	default:
		f, err := storage.NewFile(cfg.CacheDir, cfg.File)
		if err != nil {
			return nil, fmt.Errorf("init storage: %w", err)
		}
		provider, b.File = f, f
	}

	store, err := notebook.Open(provider, logger)
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	b.Store = store
	return b, nil
}

// NewLogger returns the JSON logger used by every command.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
