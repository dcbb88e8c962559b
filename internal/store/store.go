// Package store owns the on-disk repository layout and every read and
// write of the durable catalog state. Mergers stay pure; all file I/O
// and locking funnels through here.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DarrenMaxi/HTPSource/internal/catalog"
	apperrors "github.com/DarrenMaxi/HTPSource/internal/errors"
	"github.com/DarrenMaxi/HTPSource/internal/filelock"
	"github.com/DarrenMaxi/HTPSource/internal/patch"
	"github.com/DarrenMaxi/HTPSource/internal/record"
)

// LockFileName sits at the repository root and serializes catalog
// read-merge-write cycles across concurrent runs.
const LockFileName = ".htpack.lock"

// Store reads and writes one patch repository rooted at a local
// directory.
type Store struct {
	root string
}

// New returns a store for the repository at root.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the repository root directory.
func (s *Store) Root() string {
	return s.root
}

// IndexPath returns the host path of the global index.json.
func (s *Store) IndexPath() string {
	return filepath.Join(s.root, "index.json")
}

// InfoPath returns the host path of a patch's info.json.
func (s *Store) InfoPath(id patch.Identity) string {
	return filepath.Join(s.root, filepath.FromSlash(id.Dir()), "info.json")
}

// PackagePath returns the host path of a version's package file.
func (s *Store) PackagePath(id patch.Identity, version string) string {
	return filepath.Join(s.root, filepath.FromSlash(id.Dir()), id.PackageFileName(version))
}

// Lock returns the repository lock. Hold it across the whole
// load-merge-save sequence for the record and index pair.
func (s *Store) Lock() *filelock.Lock {
	return filelock.New(filepath.Join(s.root, LockFileName))
}

// WithLock runs fn while holding the repository lock.
func (s *Store) WithLock(timeout time.Duration, fn func() error) error {
	return s.Lock().With(timeout, fn)
}

// LoadRecord reads a patch's version record. A missing file returns
// (nil, nil): the first submission creates it. An unreadable or
// structurally hollow file is surfaced as a StateError, never silently
// replaced.
func (s *Store) LoadRecord(id patch.Identity) (*record.VersionRecord, error) {
	path := s.InfoPath(id)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var rec record.VersionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &apperrors.StateError{Path: path, Err: err}
	}
	if rec.PatchID == "" || rec.Versions == nil {
		return nil, &apperrors.StateError{Path: path, Err: errors.New("missing patchId or versions")}
	}
	return &rec, nil
}

// SaveRecord writes a patch's version record in one shot.
func (s *Store) SaveRecord(id patch.Identity, rec *record.VersionRecord) error {
	return writeJSON(s.InfoPath(id), rec, "    ")
}

// LoadIndex reads the global catalog. A missing file yields a fresh
// empty index; an unreadable one is a StateError.
func (s *Store) LoadIndex() (*catalog.Index, error) {
	path := s.IndexPath()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return catalog.NewIndex(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var idx catalog.Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, &apperrors.StateError{Path: path, Err: err}
	}
	if idx.Patches == nil {
		return nil, &apperrors.StateError{Path: path, Err: errors.New("missing patches mapping")}
	}
	return &idx, nil
}

// SaveIndex writes the global catalog in one shot. The index uses a
// tighter indent than info.json to keep the shared file small.
func (s *Store) SaveIndex(idx *catalog.Index) error {
	return writeJSON(s.IndexPath(), idx, "  ")
}

// writeJSON renders v as human-diffable UTF-8 JSON and writes it as a
// single whole-value write, which keeps every persisted update atomic
// at the application level.
func writeJSON(path string, v interface{}, indent string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
