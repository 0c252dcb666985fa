// Package offload runs hunk parsing and application on a background worker
// when inputs are large enough to stall the caller.
package offload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/colonyops/patchwork/internal/core/hunk"
)

// Default offload thresholds.
const (
	DefaultMaxBytes = 50 * 1024
	DefaultMaxLines = 1000
)

// ErrWorkerFault rejects every request that was pending when the worker
// reported a fatal fault.
var ErrWorkerFault = errors.New("offload worker fault")

// Config controls when work leaves the calling goroutine. With Enabled false
// everything runs inline.
type Config struct {
	Enabled  bool
	MaxBytes int
	MaxLines int
}

// DefaultConfig returns the standard thresholds with offloading enabled.
func DefaultConfig() Config {
	return Config{
		Enabled:  true,
		MaxBytes: DefaultMaxBytes,
		MaxLines: DefaultMaxLines,
	}
}

type pendingEntry struct {
	settle func(Response)
	fail   func(error)
}

// Bridge owns the background worker and the table that matches responses to
// the requests waiting on them. The worker is created on the first offloaded
// request and reused until Shutdown or a fault.
type Bridge struct {
	cfg    Config
	spawn  Spawner
	logger zerolog.Logger

	mu      sync.Mutex
	worker  Worker
	stop    chan struct{}
	nextID  int64
	pending map[int64]pendingEntry
}

// New creates a bridge whose worker runs on a goroutine.
func New(cfg Config, logger zerolog.Logger) *Bridge {
	return NewWithSpawner(cfg, logger, GoroutineSpawner(nil))
}

// NewWithSpawner creates a bridge that obtains workers from spawn.
func NewWithSpawner(cfg Config, logger zerolog.Logger, spawn Spawner) *Bridge {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.MaxLines <= 0 {
		cfg.MaxLines = DefaultMaxLines
	}
	return &Bridge{
		cfg:     cfg,
		spawn:   spawn,
		logger:  logger,
		pending: map[int64]pendingEntry{},
	}
}

// ShouldOffload reports whether content is large enough to compute on the
// worker: more than MaxBytes bytes or more than MaxLines lines.
func (b *Bridge) ShouldOffload(content string) bool {
	if !b.cfg.Enabled || b.spawn == nil {
		return false
	}
	return len(content) > b.cfg.MaxBytes || hunk.CountLines(content) > b.cfg.MaxLines
}

// shouldOffloadApply reports whether an apply is large enough to compute on
// the worker. The added text counts as well, so a large create offloads even
// though it has no original.
func (b *Bridge) shouldOffloadApply(req ApplyRequest) bool {
	if b.ShouldOffload(req.OldContent) {
		return true
	}
	if !b.cfg.Enabled || b.spawn == nil {
		return false
	}

	size, lines := 0, 0
	for _, h := range req.ParsedHunks.Hunks {
		for _, l := range h.Lines {
			size += len(l.Text) + 1
			lines++
		}
	}
	return size > b.cfg.MaxBytes || lines > b.cfg.MaxLines
}

// ParseHunks submits a parse to the worker. Text that is not valid UTF-8
// cannot cross the JSON envelope unchanged and is parsed inline instead.
func (b *Bridge) ParseHunks(req ParseRequest) *Future[hunk.ParsedHunks] {
	if !req.encodable() {
		return Resolved(hunk.Parse(req.OldContent, req.NewContent, req.Path, req.OperationKind))
	}
	return submit[hunk.ParsedHunks](b, KindParseHunks, req)
}

// ApplySelectedHunks submits a selective apply to the worker. Text that is
// not valid UTF-8 is applied inline instead.
func (b *Bridge) ApplySelectedHunks(req ApplyRequest) *Future[string] {
	if req.SelectedHunkIndices == nil {
		req.SelectedHunkIndices = []int{}
	}
	if !req.encodable() {
		return Resolved(hunk.Apply(req.OldContent, req.ParsedHunks, req.SelectedHunkIndices))
	}
	return submit[string](b, KindApplySelectedHunks, req)
}

// encodable reports whether every string survives a JSON round trip.
func (r ParseRequest) encodable() bool {
	return utf8.ValidString(r.OldContent) && utf8.ValidString(r.NewContent) && utf8.ValidString(r.Path)
}

func (r ApplyRequest) encodable() bool {
	if !utf8.ValidString(r.OldContent) || !utf8.ValidString(r.ParsedHunks.Path) {
		return false
	}
	for _, h := range r.ParsedHunks.Hunks {
		for _, l := range h.Lines {
			if !utf8.ValidString(l.Text) {
				return false
			}
		}
	}
	return true
}

// Parse computes hunks inline for small inputs and on the worker otherwise.
// A worker fault falls back to inline computation.
func (b *Bridge) Parse(ctx context.Context, req ParseRequest) (hunk.ParsedHunks, error) {
	if !b.ShouldOffload(req.OldContent) && !b.ShouldOffload(req.NewContent) {
		return hunk.Parse(req.OldContent, req.NewContent, req.Path, req.OperationKind), nil
	}
	if !req.encodable() {
		b.logger.Debug().Str("path", req.Path).Msg("content is not valid UTF-8, parsing inline")
		return hunk.Parse(req.OldContent, req.NewContent, req.Path, req.OperationKind), nil
	}

	parsed, err := b.ParseHunks(req).Await(ctx)
	if isWorkerLoss(err) {
		b.logger.Warn().Err(err).Str("path", req.Path).Msg("offloaded parse failed, computing inline")
		return hunk.Parse(req.OldContent, req.NewContent, req.Path, req.OperationKind), nil
	}
	return parsed, err
}

// Apply reconstructs text inline for small inputs and on the worker
// otherwise. A worker fault falls back to inline computation.
func (b *Bridge) Apply(ctx context.Context, req ApplyRequest) (string, error) {
	if !b.shouldOffloadApply(req) {
		return hunk.Apply(req.OldContent, req.ParsedHunks, req.SelectedHunkIndices), nil
	}
	if !req.encodable() {
		b.logger.Debug().Str("path", req.ParsedHunks.Path).Msg("content is not valid UTF-8, applying inline")
		return hunk.Apply(req.OldContent, req.ParsedHunks, req.SelectedHunkIndices), nil
	}

	text, err := b.ApplySelectedHunks(req).Await(ctx)
	if isWorkerLoss(err) {
		b.logger.Warn().Err(err).Str("path", req.ParsedHunks.Path).Msg("offloaded apply failed, computing inline")
		return hunk.Apply(req.OldContent, req.ParsedHunks, req.SelectedHunkIndices), nil
	}
	return text, err
}

func isWorkerLoss(err error) bool {
	return errors.Is(err, ErrWorkerFault) || errors.Is(err, ErrWorkerTerminated)
}

// Pending returns the number of requests awaiting a response.
func (b *Bridge) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Running reports whether a worker currently exists.
func (b *Bridge) Running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.worker != nil
}

// Shutdown terminates the worker and rejects every pending request with
// ErrWorkerTerminated. A later offloaded request starts a new worker.
func (b *Bridge) Shutdown() {
	b.mu.Lock()
	w, stop := b.worker, b.stop
	dropped := b.pending
	b.worker, b.stop = nil, nil
	b.pending = map[int64]pendingEntry{}
	b.mu.Unlock()

	if w == nil {
		return
	}

	close(stop)
	w.Terminate()
	b.logger.Debug().Int("dropped", len(dropped)).Msg("offload worker terminated")

	for _, p := range dropped {
		p.fail(ErrWorkerTerminated)
	}
}

func submit[T any](b *Bridge, kind Kind, payload any) *Future[T] {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Rejected[T](fmt.Errorf("encode %s payload: %w", kind, err))
	}

	f := newFuture[T]()
	entry := pendingEntry{
		settle: func(resp Response) {
			var zero T
			if resp.Outcome != OutcomeSuccess {
				f.settle(zero, &RequestError{Kind: kind, Message: resp.Error})
				return
			}
			var v T
			if err := json.Unmarshal(resp.Result, &v); err != nil {
				f.settle(zero, fmt.Errorf("decode %s result: %w", kind, err))
				return
			}
			f.settle(v, nil)
		},
		fail: func(err error) {
			var zero T
			f.settle(zero, err)
		},
	}

	b.mu.Lock()
	w, err := b.ensureWorkerLocked()
	if err != nil {
		b.mu.Unlock()
		return Rejected[T](fmt.Errorf("start offload worker: %w", err))
	}
	b.nextID++
	id := b.nextID
	b.pending[id] = entry
	b.mu.Unlock()

	msg, err := json.Marshal(Request{ID: id, Kind: kind, Payload: raw})
	if err == nil {
		err = w.Post(msg)
	}
	if err != nil {
		if p, ok := b.take(id); ok {
			p.fail(fmt.Errorf("post %s request: %w", kind, err))
		}
	}

	return f
}

func (b *Bridge) ensureWorkerLocked() (Worker, error) {
	if b.worker != nil {
		return b.worker, nil
	}

	w, err := b.spawn()
	if err != nil {
		return nil, err
	}

	b.worker = w
	b.stop = make(chan struct{})
	go b.dispatch(w, b.stop)

	b.logger.Debug().Msg("offload worker started")
	return w, nil
}

func (b *Bridge) dispatch(w Worker, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case err := <-w.Faults():
			b.fault(w, err)
			return
		case msg, ok := <-w.Messages():
			if !ok {
				b.fault(w, errors.New("worker closed its response channel"))
				return
			}

			var resp Response
			if err := json.Unmarshal(msg, &resp); err != nil {
				b.logger.Warn().Err(err).Msg("discarding undecodable worker response")
				continue
			}

			p, ok := b.take(resp.ID)
			if !ok {
				b.logger.Debug().Int64("id", resp.ID).Msg("discarding response with no pending request")
				continue
			}
			p.settle(resp)
		}
	}
}

func (b *Bridge) take(id int64) (pendingEntry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.pending[id]
	if ok {
		delete(b.pending, id)
	}
	return p, ok
}

func (b *Bridge) fault(w Worker, cause error) {
	b.mu.Lock()
	if b.worker != w {
		b.mu.Unlock()
		return
	}
	dropped := b.pending
	b.worker, b.stop = nil, nil
	b.pending = map[int64]pendingEntry{}
	b.mu.Unlock()

	w.Terminate()
	b.logger.Error().Err(cause).Int("pending", len(dropped)).Msg("offload worker fault")

	for _, p := range dropped {
		p.fail(fmt.Errorf("%w: %v", ErrWorkerFault, cause))
	}
}
