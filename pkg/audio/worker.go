package audio

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/regionwork/pkg/compute"
)

// StorageKey is where a precomputed split is kept in worker storage.
const StorageKey = "data"

// SplitRequest is the payload of a split request.
type SplitRequest struct {
	Value        Samples `json:"value"`
	ChannelCount int     `json:"channelCount"`
}

// SplitResult is the payload of a split response.
type SplitResult struct {
	Data []Samples `json:"data"`
}

// Handlers returns the worker callbacks that split channels. Both compute
// and precompute split the request; precompute keeps the result in storage.
func Handlers() compute.Handlers {
	return compute.Handlers{
		Compute: func(data json.RawMessage, _ compute.Storage) (any, error) {
			chans, err := splitPayload(data)
			if err != nil {
				return nil, err
			}
			return SplitResult{Data: toSamples(chans)}, nil
		},
		Precompute: func(data json.RawMessage, _ compute.Storage) (compute.Storage, error) {
			chans, err := splitPayload(data)
			if err != nil {
				return nil, err
			}
			raw, err := compute.Encode(toSamples(chans))
			if err != nil {
				return nil, err
			}
			return compute.Storage{StorageKey: raw}, nil
		},
		Errors: compute.ErrorCodes{ErrChannelCount, ErrUnalignedBuffer},
	}
}

func splitPayload(data json.RawMessage) ([][]float32, error) {
	var req SplitRequest
	if err := compute.Decode(data, &req); err != nil {
		return nil, err
	}
	return SplitChannels(req.Value, req.ChannelCount)
}

// Splitter splits buffers on a dedicated worker goroutine.
type Splitter struct {
	ch *compute.Channel
}

// NewSplitter starts a split worker.
func NewSplitter(opts ...compute.Option) *Splitter {
	return &Splitter{ch: compute.Start(Handlers(), opts...)}
}

// Split returns value deinterleaved into channels buffers.
func (s *Splitter) Split(ctx context.Context, value []float32, channels int) ([][]float32, error) {
	var res SplitResult
	err := s.ch.Compute(ctx, SplitRequest{Value: value, ChannelCount: channels}, &res)
	if err != nil {
		return nil, fmt.Errorf("splitting %d samples: %w", len(value), err)
	}
	return fromSamples(res.Data), nil
}

// Prime asks the worker to split value ahead of time and keep the result.
func (s *Splitter) Prime(ctx context.Context, value []float32, channels int) error {
	return s.ch.Precompute(ctx, SplitRequest{Value: value, ChannelCount: channels})
}

// Cached returns the split kept by the last successful Prime, if any.
func (s *Splitter) Cached(ctx context.Context) ([][]float32, bool, error) {
	storage, err := s.ch.GetStorage(ctx)
	if err != nil {
		return nil, false, err
	}
	raw, ok := storage[StorageKey]
	if !ok {
		return nil, false, nil
	}
	var chans []Samples
	if err := compute.Decode(raw, &chans); err != nil {
		return nil, false, err
	}
	return fromSamples(chans), true, nil
}

// Close stops the worker.
func (s *Splitter) Close() {
	s.ch.Destroy()
}
