package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/starford/notebook/internal/apperr"
	"github.com/starford/notebook/internal/checksum"
	"github.com/starford/notebook/internal/models"
)

const snapshotVersion = 1

// snapshot is the on-disk layout of a File provider.
type snapshot struct {
	Version int             `msgpack:"version"`
	Notes   []models.Record `msgpack:"notes"`
}

// File implements Provider with a single msgpack-encoded file.
type File struct {
	path string // absolute path to the snapshot file

	mu      sync.Mutex
	lastSum string // digest of the bytes last loaded or saved
}

// NewFile creates a File provider for the snapshot at dir/name.
// The directory is created if it does not exist.
func NewFile(dir, name string) (*File, error) {
	if name == "" {
		return nil, fmt.Errorf("storage: empty snapshot file name")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: mkdir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: not a directory: %s", abs)
	}
	return &File{path: filepath.Join(abs, name)}, nil
}

// Location returns the absolute snapshot path.
func (f *File) Location() string { return f.path }

// Load decodes the snapshot file.
func (f *File) Load() ([]models.Record, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.remember("")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", f.path, err)
	}

	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("storage: decode %s: %w: %v", f.path, apperr.ErrCorruptSnapshot, err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("storage: %s has version %d: %w", f.path, snap.Version, apperr.ErrCorruptSnapshot)
	}
	f.remember(checksum.Sum(data))
	return snap.Notes, nil
}

// Save atomically writes the snapshot: tmp file → fsync → rename.
func (f *File) Save(records []models.Record) error {
	if records == nil {
		records = []models.Record{}
	}
	data, err := msgpack.Marshal(snapshot{Version: snapshotVersion, Notes: records})
	if err != nil {
		return fmt.Errorf("storage: encode: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".notebook-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	f.remember(checksum.Sum(data))
	return nil
}

// Changed reports whether the file on disk differs from what this provider
// last loaded or saved.
func (f *File) Changed() (bool, error) {
	sum, err := checksum.File(f.path)
	if err != nil {
		return false, fmt.Errorf("storage: checksum %s: %w", f.path, err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return sum != f.lastSum, nil
}

func (f *File) remember(sum string) {
	f.mu.Lock()
	f.lastSum = sum
	f.mu.Unlock()
}
