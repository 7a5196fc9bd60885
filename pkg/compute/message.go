// Package compute runs CPU-heavy transforms on a background goroutine and
// exchanges serialized request/response messages with it.
//
// Messages cross the goroutine boundary as encoded JSON so the worker never
// shares memory with its caller. Each request carries a fresh correlation id;
// responses are matched back to the waiting caller through a pending-request
// map.
package compute

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// Kind is the type of a worker message.
type Kind string

const (
	// KindCompute runs the worker's compute handler and waits for its result.
	KindCompute Kind = "compute"
	// KindPrecompute runs the precompute handler and merges its result into
	// storage. Nothing is sent back.
	KindPrecompute Kind = "precompute"
	// KindStore merges a JSON object into storage. Nothing is sent back.
	KindStore Kind = "store"
	// KindGetStorage returns a snapshot of the whole storage.
	KindGetStorage Kind = "getStorage"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindCompute, KindPrecompute, KindStore, KindGetStorage:
		return true
	}
	return false
}

// AwaitsResponse reports whether the worker answers messages of kind k.
func (k Kind) AwaitsResponse() bool {
	return k == KindCompute || k == KindGetStorage
}

// Request is the message posted to the worker.
type Request struct {
	Type    Kind            `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	EventID string          `json:"eventId"`
}

// Response is the message posted back by the worker. Error is set instead of
// Result when the handler failed; Code names a known sentinel error.
type Response struct {
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
	Code    string          `json:"code,omitempty"`
	EventID string          `json:"eventId"`
}

// Storage is the key-value map held by a worker for its lifetime.
type Storage map[string]json.RawMessage

// Merge copies every key of other into s. Existing keys are overwritten.
func (s Storage) Merge(other Storage) {
	for k, v := range other {
		s[k] = v
	}
}

// Clone returns a copy of s that shares no byte slices with it.
func (s Storage) Clone() Storage {
	out := make(Storage, len(s))
	for k, v := range s {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// RemoteError is a failure reported by the worker for one request.
type RemoteError struct {
	Type    Kind
	EventID string
	Message string
	Cause   error // known sentinel matching the response code, if any
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s %s failed: %s", e.Type, e.EventID, e.Message)
}

func (e *RemoteError) Unwrap() error {
	return e.Cause
}

// ErrorCodes lists sentinel errors that keep their identity across the
// worker boundary. The worker tags a failed response with the text of the
// first listed error the handler error matches, and the caller turns that
// code back into the sentinel so errors.Is keeps working.
type ErrorCodes []error

func (c ErrorCodes) code(err error) string {
	for _, known := range c {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return ""
}

func (c ErrorCodes) lookup(code string) error {
	if code == "" {
		return nil
	}
	for _, known := range c {
		if known.Error() == code {
			return known
		}
	}
	return nil
}

// Encode marshals v into a payload for a request or response.
func Encode(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("encoding payload: %T produced invalid JSON", v)
	}
	return data, nil
}

// Decode unmarshals a payload into v.
func Decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return errors.New("empty payload")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding payload: %w", err)
	}
	return nil
}
