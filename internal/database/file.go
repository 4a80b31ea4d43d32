// Package database provides the durable storage backends for the
// reservation store: a JSON document on disk and a MySQL snapshot table.
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vjcatalan74/reservas-ciclo-backend/internal/model"
)

// FileStorage keeps the whole state in one pretty-printed JSON file.  Saves
// go to a temporary file in the same directory which is then renamed over
// the previous document, so a crash never leaves a half written file.
type FileStorage struct {
	path string
}

// NewFileStorage returns a FileStorage for path.  The file does not need
// to exist yet.
func NewFileStorage(path string) *FileStorage { return &FileStorage{path: path} }

// Path returns the location of the document.
func (s *FileStorage) Path() string { return s.path }

// Load reads the document.  A missing file is not an error and reports
// found=false; an unreadable or malformed one is.
func (s *FileStorage) Load(_ context.Context) (model.State, bool, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.State{}, false, nil
	}
	if err != nil {
		return model.State{}, false, fmt.Errorf("read %s: %w", s.path, err)
	}
	var st model.State
	if err := json.Unmarshal(b, &st); err != nil {
		return model.State{}, false, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return st, true, nil
}

// Save rewrites the document with the given state.
func (s *FileStorage) Save(ctx context.Context, st model.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	b = append(b, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }() // no-op once renamed

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
