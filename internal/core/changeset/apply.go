package changeset

import (
	"context"
	"errors"
	"fmt"

	"github.com/colonyops/patchwork/internal/core/hunk"
)

// Result reports the outcome of a whole-file operation. A failed operation
// carries a message and no affected paths.
type Result struct {
	Success       bool     `json:"success"`
	Error         string   `json:"error,omitempty"`
	AffectedPaths []string `json:"affectedPaths"`
}

func failed(format string, args ...any) Result {
	return Result{
		Success:       false,
		Error:         fmt.Sprintf(format, args...),
		AffectedPaths: []string{},
	}
}

func succeeded(path string) Result {
	return Result{Success: true, AffectedPaths: []string{path}}
}

// ApplyFile performs one whole-file operation against the store. Malformed
// operations and store failures are reported in the Result rather than as an
// error; the caller decides whether to surface the message.
func ApplyFile(ctx context.Context, store FileStore, fc FileChange) Result {
	if fc.Path == "" {
		return failed("missing path")
	}

	exists, err := store.Exists(ctx, fc.Path)
	if err != nil {
		return failed("check %s: %v", fc.Path, err)
	}

	switch fc.Operation {
	case hunk.OpCreate:
		if fc.Content == nil {
			return failed("missing content for create: %s", fc.Path)
		}
		if exists {
			return failed("file already exists: %s", fc.Path)
		}
		if err := store.Write(ctx, fc.Path, *fc.Content); err != nil {
			return failed("create %s: %v", fc.Path, err)
		}
	case hunk.OpUpdate:
		if fc.Content == nil {
			return failed("missing content for update: %s", fc.Path)
		}
		if !exists {
			return failed("file not found: %s", fc.Path)
		}
		if err := store.Write(ctx, fc.Path, *fc.Content); err != nil {
			return failed("update %s: %v", fc.Path, err)
		}
	case hunk.OpDelete:
		if !exists {
			return failed("file not found: %s", fc.Path)
		}
		if err := store.Delete(ctx, fc.Path); err != nil {
			if errors.Is(err, ErrFileNotFound) {
				return failed("file not found: %s", fc.Path)
			}
			return failed("delete %s: %v", fc.Path, err)
		}
	default:
		return failed("unknown operation %q for %s", fc.Operation, fc.Path)
	}

	return succeeded(fc.Path)
}

// Validate checks a change for duplicate paths among create operations and
// for operations without required content. It returns one Result per file in
// file order; a nil slice means the change is well formed.
func Validate(c Change) []Result {
	var problems []Result
	created := map[string]bool{}

	for _, fc := range c.Files {
		switch {
		case fc.Path == "":
			problems = append(problems, failed("missing path"))
		case !fc.Operation.IsValid():
			problems = append(problems, failed("unknown operation %q for %s", fc.Operation, fc.Path))
		case fc.Operation != hunk.OpDelete && fc.Content == nil:
			problems = append(problems, failed("missing content for %s: %s", fc.Operation, fc.Path))
		case fc.Operation == hunk.OpCreate && created[fc.Path]:
			problems = append(problems, failed("duplicate path for create: %s", fc.Path))
		}
		if fc.Operation == hunk.OpCreate {
			created[fc.Path] = true
		}
	}

	return problems
}
