package changeset

import (
	"context"

	"github.com/colonyops/patchwork/pkg/kv"
)

// MemStore is an in-memory FileStore.
type MemStore struct {
	files *kv.Store[string, string]
}

var _ FileStore = (*MemStore)(nil)

// NewMemStore returns a store seeded with the given files.
func NewMemStore(seed map[string]string) *MemStore {
	s := &MemStore{files: kv.New[string, string]()}
	for path, content := range seed {
		s.files.Set(path, content)
	}
	return s
}

func (s *MemStore) Read(_ context.Context, path string) (string, error) {
	content, ok := s.files.Get(path)
	if !ok {
		return "", ErrFileNotFound
	}
	return content, nil
}

func (s *MemStore) Exists(_ context.Context, path string) (bool, error) {
	_, ok := s.files.Get(path)
	return ok, nil
}

func (s *MemStore) Write(_ context.Context, path string, content string) error {
	s.files.Set(path, content)
	return nil
}

func (s *MemStore) Delete(_ context.Context, path string) error {
	if !s.files.Delete(path) {
		return ErrFileNotFound
	}
	return nil
}

// Paths returns every stored path in ascending order.
func (s *MemStore) Paths() []string {
	return s.files.Keys()
}
