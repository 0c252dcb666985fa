// Package changeset models a pending multi-file change and applies whole-file
// operations to a file store.
package changeset

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/colonyops/patchwork/internal/core/hunk"
)

// ErrFileNotFound is returned by a FileStore when a path does not exist.
var ErrFileNotFound = errors.New("file not found")

// FileStore holds file content. It is the source of original text and the
// sink of reconstructed text; the engine never writes to it except through
// ApplyFile.
type FileStore interface {
	// Read returns the content of path or ErrFileNotFound.
	Read(ctx context.Context, path string) (string, error)
	Exists(ctx context.Context, path string) (bool, error)
	Write(ctx context.Context, path string, content string) error
	// Delete removes path or returns ErrFileNotFound.
	Delete(ctx context.Context, path string) error
}

// FileChange is one file-level operation of a pending change.
type FileChange struct {
	Path      string             `json:"path"`
	Operation hunk.OperationKind `json:"operation"`
	// Content is the proposed text for create and update. nil means the
	// change carries no content, which is malformed for those operations.
	Content *string `json:"content,omitempty"`
}

// Text returns the proposed content, or "" when there is none.
func (fc FileChange) Text() string {
	if fc.Content == nil {
		return ""
	}
	return *fc.Content
}

// Change is a pending multi-file change offered for review.
type Change struct {
	ID    string       `json:"id"`
	Title string       `json:"title,omitempty"`
	Files []FileChange `json:"files"`
}

// New returns a change with a fresh ID.
func New(title string, files ...FileChange) Change {
	return Change{
		ID:    uuid.NewString(),
		Title: title,
		Files: files,
	}
}

// EnsureID assigns a fresh ID when the change has none.
func (c Change) EnsureID() Change {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return c
}

// Create builds a create operation for path.
func Create(path, content string) FileChange {
	return FileChange{Path: path, Operation: hunk.OpCreate, Content: &content}
}

// Update builds an update operation for path.
func Update(path, content string) FileChange {
	return FileChange{Path: path, Operation: hunk.OpUpdate, Content: &content}
}

// Delete builds a delete operation for path.
func Delete(path string) FileChange {
	return FileChange{Path: path, Operation: hunk.OpDelete}
}
