package compute

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/vanderheijden86/regionwork/pkg/debug"
	"github.com/vanderheijden86/regionwork/pkg/metrics"
)

var (
	// ErrDestroyed is returned by requests made after, or still waiting at,
	// Destroy.
	ErrDestroyed = errors.New("compute channel destroyed")
	// ErrTimeout is returned when no response arrived within the timeout.
	ErrTimeout = errors.New("compute request timed out")
)

// DefaultQueue is the worker inbox size used when none is configured.
const DefaultQueue = 16

// Option configures a Channel.
type Option func(*Channel)

// WithTimeout bounds how long a request waits for its response. Zero waits
// until the context is done.
func WithTimeout(d time.Duration) Option {
	return func(c *Channel) { c.timeout = d }
}

// WithQueue sets the worker inbox and outbox size.
func WithQueue(n int) Option {
	return func(c *Channel) { c.queue = n }
}

// Channel is the caller side of a worker. It is safe for concurrent use.
// Responses to concurrent compute requests may arrive in any order.
type Channel struct {
	worker  *Worker
	codes   ErrorCodes
	timeout time.Duration
	queue   int

	mu        sync.Mutex
	pending   map[string]chan Response
	destroyed bool
	closed    chan struct{}
	readDone  chan struct{}
}

// Start launches a worker running h and returns the channel to it.
func Start(h Handlers, opts ...Option) *Channel {
	c := &Channel{
		codes:    h.Errors,
		queue:    DefaultQueue,
		pending:  make(map[string]chan Response),
		closed:   make(chan struct{}),
		readDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.worker = NewWorker(h, c.queue)
	go c.worker.Run()
	go c.readLoop()
	return c
}

// Compute sends data to the compute handler and decodes its result into out.
// out may be nil when the result is not needed.
func (c *Channel) Compute(ctx context.Context, data any, out any) error {
	raw, err := c.request(ctx, KindCompute, data)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return Decode(raw, out)
}

// Precompute posts data to the precompute handler without waiting.
func (c *Channel) Precompute(ctx context.Context, data any) error {
	_, err := c.request(ctx, KindPrecompute, data)
	return err
}

// Store merges entries into the worker's storage without waiting.
func (c *Channel) Store(ctx context.Context, entries map[string]any) error {
	_, err := c.request(ctx, KindStore, entries)
	return err
}

// GetStorage returns a snapshot of the worker's storage.
func (c *Channel) GetStorage(ctx context.Context) (Storage, error) {
	raw, err := c.request(ctx, KindGetStorage, nil)
	if err != nil {
		return nil, err
	}
	storage := make(Storage)
	if len(raw) == 0 {
		return storage, nil
	}
	if err := Decode(raw, &storage); err != nil {
		return nil, err
	}
	return storage, nil
}

// Pending returns the number of requests waiting for a response.
func (c *Channel) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Destroy stops the worker at once. Waiting requests return ErrDestroyed,
// and so does every later request. It is idempotent.
func (c *Channel) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	c.pending = make(map[string]chan Response)
	close(c.closed)
	c.mu.Unlock()

	c.worker.Stop()
	<-c.readDone
}

func (c *Channel) request(ctx context.Context, kind Kind, data any) (json.RawMessage, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	payload, err := Encode(data)
	if err != nil {
		return nil, err
	}
	req := Request{Type: kind, Data: payload, EventID: uuid.NewString()}
	msg, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", kind, err)
	}

	var reply chan Response
	if kind.AwaitsResponse() {
		defer metrics.Timer(metrics.ComputeRoundTrip)()
		reply = make(chan Response, 1)
	}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return nil, ErrDestroyed
	}
	if reply != nil {
		c.pending[req.EventID] = reply
	}
	c.mu.Unlock()

	if c.timeout > 0 && reply != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	select {
	case c.worker.inbox <- msg:
	case <-c.closed:
		return nil, ErrDestroyed
	case <-ctx.Done():
		c.forget(req.EventID)
		return nil, c.ctxErr(ctx, kind)
	}

	if reply == nil {
		return nil, nil
	}

	select {
	case resp := <-reply:
		if resp.Error != "" {
			return nil, &RemoteError{
				Type:    kind,
				EventID: resp.EventID,
				Message: resp.Error,
				Cause:   c.codes.lookup(resp.Code),
			}
		}
		return resp.Result, nil
	case <-c.closed:
		return nil, ErrDestroyed
	case <-ctx.Done():
		c.forget(req.EventID)
		return nil, c.ctxErr(ctx, kind)
	}
}

func (c *Channel) ctxErr(ctx context.Context, kind Kind) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w (%w)", kind, ErrTimeout, ctx.Err())
	}
	return ctx.Err()
}

func (c *Channel) forget(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

func (c *Channel) readLoop() {
	defer close(c.readDone)
	for {
		select {
		case <-c.closed:
			return
		case msg := <-c.worker.outbox:
			c.dispatch(msg)
		}
	}
}

// dispatch hands a response to its waiting request. The pending entry is
// removed first so a response settles at most one request.
func (c *Channel) dispatch(msg []byte) {
	var resp Response
	if err := json.Unmarshal(msg, &resp); err != nil {
		debug.Log("compute: dropping malformed response: %v", err)
		return
	}

	c.mu.Lock()
	reply, ok := c.pending[resp.EventID]
	delete(c.pending, resp.EventID)
	c.mu.Unlock()

	if !ok {
		debug.Log("compute: dropping response for unknown request %s", resp.EventID)
		return
	}
	reply <- resp
}
