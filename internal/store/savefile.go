package store

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"imgctool/internal/model"
)

const DefaultFileName = ".imgctool"

// Store persists a tagging model to a single save file.
type Store struct {
	Path string

	// Backup keeps a copy of the previous save at Path+".bak".
	Backup bool
}

func (s Store) path() string {
	if strings.TrimSpace(s.Path) == "" {
		return DefaultFileName
	}
	return filepath.Clean(s.Path)
}

func (s Store) BackupPath() string { return s.path() + ".bak" }

// Exists reports whether the save file is present.
func (s Store) Exists() bool {
	_, err := os.Stat(s.path())
	return err == nil
}

// Load restores the model from disk. A missing save file yields an empty store.
func (s Store) Load() (*model.Store, error) {
	path := s.path()
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewStore(), nil
		}
		return nil, &PersistenceError{Kind: ErrReadFailure, Phase: PhaseHeader, Path: path, Err: err}
	}
	defer f.Close()

	st, err := Decode(f)
	if err != nil {
		return nil, withPath(err, path)
	}
	return st, nil
}

// Save encodes st and replaces the save file atomically.
func (s Store) Save(st *model.Store) error {
	path := s.path()
	var buf bytes.Buffer
	if err := Encode(&buf, st); err != nil {
		return withPath(err, path)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &PersistenceError{Kind: ErrWriteFailure, Phase: PhaseWrite, Path: path, Err: err}
	}

	// Best-effort: a failed backup must not block the save itself.
	if s.Backup && s.Exists() {
		_ = CopyFile(path, s.BackupPath())
	}

	if err := atomicWriteFile(dir, filepath.Base(path)+".*.tmp", path, buf.Bytes(), 0o644); err != nil {
		return &PersistenceError{Kind: ErrWriteFailure, Phase: PhaseWrite, Path: path, Err: err}
	}
	return nil
}
