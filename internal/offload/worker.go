package offload

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrWorkerTerminated is returned for requests that were pending when the
// worker was shut down, and by Post on a terminated worker.
var ErrWorkerTerminated = errors.New("offload worker terminated")

// Worker is the transport to a background computation. Messages are JSON
// encoded Request and Response envelopes.
type Worker interface {
	// Post delivers an encoded request.
	Post(msg []byte) error
	// Messages delivers encoded responses.
	Messages() <-chan []byte
	// Faults delivers a fatal error after which the worker answers nothing.
	Faults() <-chan error
	// Terminate stops the worker. It is safe to call more than once.
	Terminate()
}

// Spawner creates a worker on demand.
type Spawner func() (Worker, error)

// Handler computes the response to a decoded request.
type Handler func(Request) Response

// GoroutineSpawner returns a Spawner for workers that run handler on their
// own goroutine. A nil handler uses Handle.
func GoroutineSpawner(handler Handler) Spawner {
	if handler == nil {
		handler = Handle
	}
	return func() (Worker, error) {
		w := &goroutineWorker{
			handler: handler,
			inbox:   make(chan []byte, 64),
			outbox:  make(chan []byte, 64),
			faults:  make(chan error, 1),
			quit:    make(chan struct{}),
		}
		go w.run()
		return w, nil
	}
}

type goroutineWorker struct {
	handler Handler
	inbox   chan []byte
	outbox  chan []byte
	faults  chan error
	quit    chan struct{}
	once    sync.Once
}

func (w *goroutineWorker) Post(msg []byte) error {
	select {
	case <-w.quit:
		return ErrWorkerTerminated
	default:
	}

	select {
	case w.inbox <- msg:
		return nil
	case <-w.quit:
		return ErrWorkerTerminated
	}
}

func (w *goroutineWorker) Messages() <-chan []byte { return w.outbox }

func (w *goroutineWorker) Faults() <-chan error { return w.faults }

func (w *goroutineWorker) Terminate() {
	w.once.Do(func() { close(w.quit) })
}

func (w *goroutineWorker) run() {
	defer func() {
		if r := recover(); r != nil {
			w.faults <- fmt.Errorf("worker panic: %v", r)
		}
	}()

	for {
		select {
		case <-w.quit:
			return
		case msg := <-w.inbox:
			out, err := w.handle(msg)
			if err != nil {
				w.faults <- err
				return
			}
			select {
			case w.outbox <- out:
			case <-w.quit:
				return
			}
		}
	}
}

func (w *goroutineWorker) handle(msg []byte) ([]byte, error) {
	var req Request
	if err := json.Unmarshal(msg, &req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}

	out, err := json.Marshal(w.handler(req))
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	return out, nil
}
