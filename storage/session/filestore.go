// Package session persists the admin session on disk between CLI runs.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/presencehq/presence/core/auth"
)

// FileStore keeps the session as a JSON file readable only by the owner.
type FileStore struct {
	path string
}

var _ auth.Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (fs *FileStore) Load() (auth.Session, error) {
	raw, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return auth.Session{}, auth.ErrNotAuthenticated
		}
		return auth.Session{}, errors.Wrap(err, "reading session file")
	}
	var s auth.Session
	if err := json.Unmarshal(raw, &s); err != nil {
		// A corrupt file is as good as no session.
		return auth.Session{}, auth.ErrNotAuthenticated
	}
	if !s.Authenticated() {
		return auth.Session{}, auth.ErrNotAuthenticated
	}
	return s, nil
}

func (fs *FileStore) Save(s auth.Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return errors.Wrap(err, "creating session dir")
	}
	return errors.Wrap(os.WriteFile(fs.path, raw, 0o600), "writing session file")
}

func (fs *FileStore) Clear() error {
	err := os.Remove(fs.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing session file")
	}
	return nil
}
