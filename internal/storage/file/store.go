// Package file keeps each slot as a <key>.json document in a directory.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/julianstephens/habitual/internal/storage"
)

const slotExt = ".json"

type Store struct {
	dir    string
	loaded bool
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Init() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	s.loaded = true
	return nil
}

func (s *Store) Load() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return storage.ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage path %s is not a directory", s.dir)
	}
	s.loaded = true
	return nil
}

func (s *Store) Close() error {
	s.loaded = false
	return nil
}

func (s *Store) slotPath(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return "", fmt.Errorf("invalid slot key %q", key)
	}
	return filepath.Join(s.dir, key+slotExt), nil
}

func (s *Store) GetSlot(key string) ([]byte, error) {
	if !s.loaded {
		return nil, storage.ErrNotLoaded
	}
	path, err := s.slotPath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrSlotNotFound
		}
		return nil, fmt.Errorf("failed to read slot %q: %w", key, err)
	}
	return data, nil
}

// PutSlot writes to a temp file in the same directory and renames it over
// the slot so a crash never leaves a half-written document.
func (s *Store) PutSlot(key string, value []byte) error {
	if !s.loaded {
		return storage.ErrNotLoaded
	}
	path, err := s.slotPath(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write slot %q: %w", key, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync slot %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close slot %q: %w", key, err)
	}
	if err := os.Chmod(tmpPath, 0600); err != nil {
		return fmt.Errorf("failed to set permissions on slot %q: %w", key, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace slot %q: %w", key, err)
	}
	return nil
}

func (s *Store) DeleteSlot(key string) error {
	if !s.loaded {
		return storage.ErrNotLoaded
	}
	path, err := s.slotPath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete slot %q: %w", key, err)
	}
	return nil
}

func (s *Store) ListSlots() ([]string, error) {
	if !s.loaded {
		return nil, storage.ErrNotLoaded
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list slots: %w", err)
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, slotExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, slotExt))
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *Store) GetConfigPath() string {
	return s.dir
}
