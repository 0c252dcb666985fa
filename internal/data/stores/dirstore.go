// Package stores provides FileStore implementations backed by real storage.
package stores

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/colonyops/patchwork/internal/core/changeset"
)

// ErrPathOutsideRoot is returned for paths that escape the store root.
var ErrPathOutsideRoot = errors.New("path outside store root")

// DirStore implements changeset.FileStore on a directory tree. Paths are
// slash-separated and relative to the root.
type DirStore struct {
	root string
}

var _ changeset.FileStore = (*DirStore)(nil)

// NewDirStore creates a store rooted at dir. The directory must exist.
func NewDirStore(dir string) (*DirStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("open root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open root: %s is not a directory", abs)
	}
	return &DirStore{root: abs}, nil
}

// Root returns the absolute root directory.
func (s *DirStore) Root() string {
	return s.root
}

func (s *DirStore) resolve(path string) (string, error) {
	local := filepath.FromSlash(path)
	if !filepath.IsLocal(local) {
		return "", fmt.Errorf("%w: %s", ErrPathOutsideRoot, path)
	}
	return filepath.Join(s.root, local), nil
}

func (s *DirStore) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	full, err := s.resolve(path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(full)
	if errors.Is(err, fs.ErrNotExist) {
		return "", changeset.ErrFileNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func (s *DirStore) Exists(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	full, err := s.resolve(path)
	if err != nil {
		return false, err
	}

	info, err := os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory", path)
	}
	return true, nil
}

// Write replaces path atomically, creating parent directories as needed.
// An existing file keeps its permissions.
func (s *DirStore) Write(ctx context.Context, path string, content string) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(full)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write %s: create dir: %w", path, err)
	}

	mode := fs.FileMode(0o644)
	if info, statErr := os.Stat(full); statErr == nil {
		mode = info.Mode().Perm()
	}

	// temp file in the same directory so the rename stays on one filesystem
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(full)+".tmp.*")
	if err != nil {
		return fmt.Errorf("write %s: create temp: %w", path, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			_ = tmp.Close()
		}
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if err = tmp.Chmod(mode); err != nil {
		return fmt.Errorf("write %s: chmod temp: %w", path, err)
	}
	if _, err = tmp.WriteString(content); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("write %s: sync: %w", path, err)
	}
	err = tmp.Close()
	tmp = nil
	if err != nil {
		return fmt.Errorf("write %s: close: %w", path, err)
	}

	if err = os.Rename(tmpPath, full); err != nil {
		return fmt.Errorf("write %s: rename: %w", path, err)
	}
	return nil
}

func (s *DirStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(path)
	if err != nil {
		return err
	}

	err = os.Remove(full)
	if errors.Is(err, fs.ErrNotExist) {
		return changeset.ErrFileNotFound
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}
