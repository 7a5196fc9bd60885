package compute

import (
	"fmt"
	"runtime/debug"
	"sync"

	json "github.com/goccy/go-json"

	rwdebug "github.com/vanderheijden86/regionwork/pkg/debug"
)

// ComputeFunc answers a compute request. storage is a snapshot; changes to
// it are not kept.
type ComputeFunc func(data json.RawMessage, storage Storage) (any, error)

// PrecomputeFunc primes storage. It receives a snapshot of storage; only the
// returned entries are merged into the worker's storage.
type PrecomputeFunc func(data json.RawMessage, storage Storage) (Storage, error)

// Handlers are the transform callbacks a worker runs. Either may be nil; a
// compute request without a handler fails, a precompute is ignored.
type Handlers struct {
	Compute    ComputeFunc
	Precompute PrecomputeFunc
	Errors     ErrorCodes
}

// Worker owns the storage map and processes one message at a time on its
// own goroutine. Storage is touched only from that goroutine.
type Worker struct {
	handlers Handlers
	storage  Storage

	inbox  chan []byte
	outbox chan []byte
	quit   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// NewWorker returns a worker whose inbox and outbox hold up to queue
// messages. Call Run to start it.
func NewWorker(h Handlers, queue int) *Worker {
	if queue < 0 {
		queue = 0
	}
	return &Worker{
		handlers: h,
		storage:  make(Storage),
		inbox:    make(chan []byte, queue),
		outbox:   make(chan []byte, queue),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Run processes messages until Stop is called.
func (w *Worker) Run() {
	defer close(w.done)
	for {
		select {
		case <-w.quit:
			return
		case msg := <-w.inbox:
			w.handle(msg)
		}
	}
}

// Stop ends Run without draining queued messages. It is idempotent.
func (w *Worker) Stop() {
	w.once.Do(func() { close(w.quit) })
}

// Done is closed once Run has returned.
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

func (w *Worker) handle(msg []byte) {
	var req Request
	if err := json.Unmarshal(msg, &req); err != nil {
		rwdebug.Log("compute worker: dropping malformed message: %v", err)
		return
	}

	switch req.Type {
	case KindCompute:
		result, err := w.safeCall(req.Type, func() (any, error) {
			if w.handlers.Compute == nil {
				return nil, fmt.Errorf("no compute handler")
			}
			return w.handlers.Compute(req.Data, w.storage.Clone())
		})
		w.respond(req, result, err)

	case KindPrecompute:
		if w.handlers.Precompute == nil {
			return
		}
		result, err := w.safeCall(req.Type, func() (any, error) {
			return w.handlers.Precompute(req.Data, w.storage.Clone())
		})
		if err != nil {
			rwdebug.Log("compute worker: precompute %s: %v", req.EventID, err)
			return
		}
		if entries, ok := result.(Storage); ok {
			w.storage.Merge(entries)
		}

	case KindStore:
		var entries Storage
		if err := json.Unmarshal(req.Data, &entries); err != nil {
			rwdebug.Log("compute worker: store %s: %v", req.EventID, err)
			return
		}
		w.storage.Merge(entries)

	case KindGetStorage:
		w.respond(req, w.storage.Clone(), nil)

	default:
		rwdebug.Log("compute worker: unknown message type %q", req.Type)
	}
}

// safeCall runs fn and turns a panic into an error.
func (w *Worker) safeCall(kind Kind, fn func() (any, error)) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			rwdebug.Log("compute worker: %s panicked: %v\n%s", kind, r, debug.Stack())
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func (w *Worker) respond(req Request, result any, err error) {
	resp := Response{EventID: req.EventID}
	if err == nil {
		resp.Result, err = Encode(result)
	}
	if err != nil {
		resp.Result = nil
		resp.Error = err.Error()
		resp.Code = w.handlers.Errors.code(err)
	}

	data, merr := json.Marshal(resp)
	if merr != nil {
		rwdebug.Log("compute worker: encoding response %s: %v", req.EventID, merr)
		return
	}
	select {
	case w.outbox <- data:
	case <-w.quit:
	}
}
