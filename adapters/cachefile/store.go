// Package cachefile persists the type discovery index as a flat JSON file.
package cachefile

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/PerAsperaMods/modkit/core/domain"
	"github.com/PerAsperaMods/modkit/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.IndexStore = (*Store)(nil)

// Store implements ports.IndexStore using a single JSON file.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates an IndexStore backed by the file at the given path.
func NewStore(path string) *Store {
	return &Store{path: filepath.Clean(path)}
}

// DefaultPath returns the per-user default location of the index file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", zerr.Wrap(err, "failed to resolve user config dir")
	}
	return filepath.Join(dir, "modkit", "typecache.json"), nil
}

// Load reads the persisted index. A missing file yields an empty index.
// Anything unreadable or undecodable is reported as domain.ErrCorruptIndex;
// callers discard and rebuild rather than propagate.
func (s *Store) Load() (domain.CacheIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var index domain.CacheIndex

	//nolint:gosec // Path is cleaned and provided by trusted caller
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return index, nil
		}
		return index, s.corrupt(err, "failed to read cache index")
	}

	if len(data) == 0 {
		return index, nil
	}

	if err := json.Unmarshal(data, &index); err != nil {
		return domain.CacheIndex{}, s.corrupt(err, "failed to decode cache index")
	}

	return index, nil
}

func (s *Store) corrupt(err error, msg string) error {
	return errors.Join(domain.ErrCorruptIndex, zerr.With(zerr.Wrap(err, msg), "path", s.path))
}

// Save writes the index. The file is written to a temporary sibling first and
// renamed into place, so a crash mid-write cannot leave a torn index behind.
func (s *Store) Save(index domain.CacheIndex) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return zerr.Wrap(err, "failed to marshal cache index")
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return zerr.Wrap(err, "failed to create directory for cache index")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return zerr.Wrap(err, "failed to create temp file for cache index")
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to write cache index")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to close cache index temp file")
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return zerr.Wrap(err, "failed to replace cache index")
	}

	return nil
}

// Info describes the on-disk state of the index file.
func (s *Store) Info() (domain.IndexFileInfo, error) {
	info := domain.IndexFileInfo{Path: s.path}

	stat, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return info, nil
		}
		return info, zerr.With(zerr.Wrap(err, "failed to stat cache index"), "path", s.path)
	}

	info.Exists = true
	info.Size = stat.Size()
	info.ModTime = stat.ModTime()
	return info, nil
}
