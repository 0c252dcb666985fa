// Package reviewer runs interactive review sessions over a pending change:
// it parses every file into hunks, tracks the reviewer's selection and
// cursor, and commits the selected hunks to a file store.
package reviewer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/colonyops/patchwork/internal/core/changeset"
	"github.com/colonyops/patchwork/internal/core/hunk"
	"github.com/colonyops/patchwork/internal/core/logging"
	"github.com/colonyops/patchwork/internal/core/review"
	"github.com/colonyops/patchwork/internal/core/selection"
	"github.com/colonyops/patchwork/internal/offload"
)

var (
	// ErrInvalidChange is returned by Open when the change fails validation.
	ErrInvalidChange = errors.New("invalid change")
	// ErrNothingToReview is returned by Open when every file is excluded.
	ErrNothingToReview = errors.New("nothing to review")
)

// maxParallelParses bounds concurrent per-file parses during Open.
const maxParallelParses = 8

// Options configures a Service.
type Options struct {
	// Exclude holds doublestar globs. Matching paths are left out of review
	// and never written.
	Exclude []string
}

// Service opens review sessions against a file store.
type Service struct {
	store   changeset.FileStore
	bridge  *offload.Bridge
	exclude []string
	log     zerolog.Logger
}

// New creates a Service. bridge decides where parsing and application run.
func New(store changeset.FileStore, bridge *offload.Bridge, opts Options, log zerolog.Logger) *Service {
	return &Service{
		store:   store,
		bridge:  bridge,
		exclude: opts.Exclude,
		log:     log,
	}
}

// Excluded reports whether path matches one of the exclude globs.
func (s *Service) Excluded(path string) bool {
	for _, pattern := range s.exclude {
		ok, err := doublestar.Match(pattern, path)
		if err != nil {
			s.log.Warn().Err(err).Str("pattern", pattern).Msg("invalid exclude pattern")
			continue
		}
		if ok {
			return true
		}
	}
	return false
}

// Open validates the change, reads the original text of every reviewable
// file, parses all files in parallel, and returns a session positioned on
// the first file with every hunk selected.
func (s *Service) Open(ctx context.Context, change changeset.Change) (*Session, error) {
	change = change.EnsureID()
	ctx = logging.WithReviewID(ctx, change.ID)

	if problems := changeset.Validate(change); len(problems) > 0 {
		msgs := make([]string, len(problems))
		for i, p := range problems {
			msgs[i] = p.Error
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidChange, strings.Join(msgs, "; "))
	}

	var (
		reviewable []changeset.FileChange
		skipped    []string
	)
	for _, fc := range change.Files {
		if s.Excluded(fc.Path) {
			skipped = append(skipped, fc.Path)
			continue
		}
		reviewable = append(reviewable, fc)
	}
	if len(reviewable) == 0 {
		return nil, ErrNothingToReview
	}

	files := make([]File, len(reviewable))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelParses)
	for i, fc := range reviewable {
		g.Go(func() error {
			f, err := s.load(logging.WithPath(gctx, fc.Path), fc)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	counts := make([]int, len(files))
	for i, f := range files {
		counts[i] = f.Parsed.Len()
	}

	sess := &Session{
		ID:        change.ID,
		Title:     change.Title,
		Skipped:   skipped,
		files:     files,
		selection: selection.NewFull(counts),
		machine:   review.NewMachine(),
		svc:       s,
	}
	sess.machine.StartReview(0, len(files))
	_ = sess.machine.SetTotalHunks(counts[0])

	s.log.Info().Ctx(ctx).
		Int("files", len(files)).
		Int("skipped", len(skipped)).
		Msg("review opened")

	return sess, nil
}

func (s *Service) load(ctx context.Context, fc changeset.FileChange) (File, error) {
	var original string
	if fc.Operation != hunk.OpCreate {
		text, err := s.store.Read(ctx, fc.Path)
		if err != nil {
			if errors.Is(err, changeset.ErrFileNotFound) {
				return File{}, fmt.Errorf("file not found: %s", fc.Path)
			}
			return File{}, fmt.Errorf("read %s: %w", fc.Path, err)
		}
		original = text
	}

	parsed, err := s.bridge.Parse(ctx, offload.ParseRequest{
		OldContent:    original,
		NewContent:    fc.Text(),
		Path:          fc.Path,
		OperationKind: fc.Operation,
	})
	if err != nil {
		return File{}, fmt.Errorf("parse %s: %w", fc.Path, err)
	}

	s.log.Debug().Ctx(ctx).Int("hunks", parsed.Len()).Msg("file parsed")

	return File{Change: fc, Original: original, Parsed: parsed}, nil
}
