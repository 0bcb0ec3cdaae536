// Package filestore keeps the session token in a small JSON file, one entry
// per storage key, readable only by the current user.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	bserrors "github.com/jrsteele09/go-backoffice-session/internal/errors"
	"github.com/jrsteele09/go-backoffice-session/token"
)

const (
	// FileName is the default file name inside the data folder
	FileName = "session.json"

	filePerm = 0o600
	dirPerm  = 0o700
)

var _ token.Repo = (*Store)(nil)

type Store struct {
	path string
	key  string
	mu   sync.Mutex
}

// New returns a store writing to path under the given key. The parent
// directory is created if needed.
func New(path, key string) (*Store, error) {
	if path == "" {
		return nil, errors.New("[filestore.New] path is required")
	}
	if key == "" {
		return nil, errors.New("[filestore.New] key is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return nil, bserrors.Wrapf(err, "[filestore.New] create directory %s", filepath.Dir(path))
	}
	return &Store{path: path, key: key}, nil
}

func (s *Store) Get(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return "", err
	}
	t, ok := entries[s.key]
	if !ok || t == "" {
		return "", token.ErrNoToken
	}
	return t, nil
}

func (s *Store) Set(_ context.Context, t string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	entries[s.key] = t
	return s.write(entries)
}

func (s *Store) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := entries[s.key]; !ok {
		return nil
	}
	delete(entries, s.key)
	if len(entries) == 0 {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return bserrors.Wrapf(err, "[filestore.Delete] remove %s", s.path)
		}
		return nil
	}
	return s.write(entries)
}

func (s *Store) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, bserrors.Wrapf(err, "[filestore] read %s", s.path)
	}
	entries := map[string]string{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, bserrors.Wrapf(err, "[filestore] decode %s", s.path)
	}
	return entries, nil
}

// write replaces the file atomically so a crash never leaves half a token.
func (s *Store) write(entries map[string]string) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return bserrors.Wrapf(err, "[filestore] encode")
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return bserrors.Wrapf(err, "[filestore] create temp file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return bserrors.Wrapf(err, "[filestore] chmod temp file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return bserrors.Wrapf(err, "[filestore] write temp file")
	}
	if err := tmp.Close(); err != nil {
		return bserrors.Wrapf(err, "[filestore] close temp file")
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("[filestore] replace %s: %w", s.path, err)
	}
	return nil
}
