// Package file implements db.Store on the local filesystem: every key is a
// path, and every value is the whole file.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kailas-cloud/chunkdex/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store reads and writes snapshot files. Relative keys resolve against root.
type Store struct {
	root string
}

// NewStore creates a file store rooted at root ("" = working directory).
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Path resolves a key to a filesystem path.
func (s *Store) Path(key string) string {
	if filepath.IsAbs(key) || s.root == "" {
		return filepath.Clean(key)
	}
	return filepath.Join(s.root, key)
}

// Ping checks that the root directory is reachable.
func (s *Store) Ping(_ context.Context) error {
	if s.root == "" {
		return nil
	}
	if _, err := os.Stat(s.root); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close is a no-op.
func (s *Store) Close() {}

// Get reads the file at key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpRead, Err: err}
	}
	return data, nil
}

// Set writes value to a temp file next to key and renames it into place, so
// readers never observe a half-written snapshot.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	path := s.Path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &db.Error{Op: db.OpWrite, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &db.Error{Op: db.OpWrite, Err: err}
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return &db.Error{Op: db.OpWrite, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &db.Error{Op: db.OpWrite, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		return &db.Error{Op: db.OpWrite, Err: fmt.Errorf("rename %s: %w", path, err)}
	}
	return nil
}

// Del removes the file at key. A missing file is not an error.
func (s *Store) Del(_ context.Context, key string) error {
	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &db.Error{Op: db.OpRemove, Err: err}
	}
	return nil
}
