package changeset

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/patchwork/internal/core/hunk"
)

func TestApplyFile(t *testing.T) {
	tests := []struct {
		name      string
		seed      map[string]string
		change    FileChange
		wantOK    bool
		wantError string
		wantFiles map[string]string
	}{
		{
			name:      "create new file",
			seed:      map[string]string{},
			change:    Create("a.txt", "hello\n"),
			wantOK:    true,
			wantFiles: map[string]string{"a.txt": "hello\n"},
		},
		{
			name:      "create duplicate path",
			seed:      map[string]string{"a.txt": "old"},
			change:    Create("a.txt", "new"),
			wantError: "file already exists: a.txt",
			wantFiles: map[string]string{"a.txt": "old"},
		},
		{
			name:      "create without content",
			seed:      map[string]string{},
			change:    FileChange{Path: "a.txt", Operation: hunk.OpCreate},
			wantError: "missing content for create: a.txt",
			wantFiles: map[string]string{},
		},
		{
			name:      "update existing",
			seed:      map[string]string{"a.txt": "old"},
			change:    Update("a.txt", "new"),
			wantOK:    true,
			wantFiles: map[string]string{"a.txt": "new"},
		},
		{
			name:      "update missing target",
			seed:      map[string]string{},
			change:    Update("a.txt", "new"),
			wantError: "file not found: a.txt",
			wantFiles: map[string]string{},
		},
		{
			name:      "update without content",
			seed:      map[string]string{"a.txt": "old"},
			change:    FileChange{Path: "a.txt", Operation: hunk.OpUpdate},
			wantError: "missing content for update: a.txt",
			wantFiles: map[string]string{"a.txt": "old"},
		},
		{
			name:      "delete existing",
			seed:      map[string]string{"a.txt": "old", "b.txt": "keep"},
			change:    Delete("a.txt"),
			wantOK:    true,
			wantFiles: map[string]string{"b.txt": "keep"},
		},
		{
			name:      "delete missing target",
			seed:      map[string]string{},
			change:    Delete("a.txt"),
			wantError: "file not found: a.txt",
			wantFiles: map[string]string{},
		},
		{
			name:      "unknown operation",
			seed:      map[string]string{},
			change:    FileChange{Path: "a.txt", Operation: "rename"},
			wantError: `unknown operation "rename" for a.txt`,
			wantFiles: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := NewMemStore(tt.seed)

			res := ApplyFile(ctx, store, tt.change)
			assert.Equal(t, tt.wantOK, res.Success)
			assert.Equal(t, tt.wantError, res.Error)
			if tt.wantOK {
				assert.Equal(t, []string{tt.change.Path}, res.AffectedPaths)
			} else {
				assert.NotNil(t, res.AffectedPaths)
				assert.Empty(t, res.AffectedPaths)
			}

			got := map[string]string{}
			for _, p := range store.Paths() {
				content, err := store.Read(ctx, p)
				require.NoError(t, err)
				got[p] = content
			}
			assert.Equal(t, tt.wantFiles, got)
		})
	}
}

type failingStore struct {
	*MemStore
}

func (failingStore) Exists(context.Context, string) (bool, error) {
	return false, errors.New("disk on fire")
}

func TestApplyFile_StoreErrorFolded(t *testing.T) {
	res := ApplyFile(context.Background(), failingStore{MemStore: NewMemStore(nil)}, Create("a.txt", "x"))

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "disk on fire")
}

func TestValidate(t *testing.T) {
	c := New("refactor",
		Create("a.txt", "1"),
		Create("a.txt", "2"),
		FileChange{Path: "b.txt", Operation: hunk.OpUpdate},
		Delete("c.txt"),
		FileChange{Operation: hunk.OpDelete},
	)

	problems := Validate(c)
	require.Len(t, problems, 3)
	assert.Equal(t, "duplicate path for create: a.txt", problems[0].Error)
	assert.Equal(t, "missing content for update: b.txt", problems[1].Error)
	assert.Equal(t, "missing path", problems[2].Error)

	assert.Nil(t, Validate(New("ok", Update("a.txt", ""))))
}

func TestChange_EnsureID(t *testing.T) {
	c := Change{}.EnsureID()
	assert.NotEmpty(t, c.ID)

	kept := Change{ID: "fixed"}.EnsureID()
	assert.Equal(t, "fixed", kept.ID)
	assert.NotEqual(t, New("x").ID, New("x").ID)
}
