package compute

import (
	"testing"

	json "github.com/goccy/go-json"
)

func TestWorkerDropsUnknownResponses(t *testing.T) {
	c := Start(Handlers{})
	defer c.Destroy()

	// A response nobody waits for must not panic or block the reader.
	c.dispatch([]byte(`{"eventId":"nobody","result":1}`))
	c.dispatch([]byte(`not json`))
	if n := c.Pending(); n != 0 {
		t.Errorf("expected no pending, got %d", n)
	}
}

func TestWorkerHandleStoreMergesShallow(t *testing.T) {
	w := NewWorker(Handlers{}, 1)
	send := func(kind Kind, data string) {
		msg, err := json.Marshal(Request{Type: kind, Data: json.RawMessage(data), EventID: "x"})
		if err != nil {
			t.Fatal(err)
		}
		w.handle(msg)
	}
	send(KindStore, `{"a":{"x":1},"b":2}`)
	send(KindStore, `{"a":{"y":2}}`)
	send(KindStore, `[1,2]`)
	send("bogus", `{}`)

	if got := string(w.storage["a"]); got != `{"y":2}` {
		t.Errorf("a = %s, want last write", got)
	}
	if got := string(w.storage["b"]); got != "2" {
		t.Errorf("b = %s", got)
	}
	if len(w.storage) != 2 {
		t.Errorf("expected 2 keys, got %d", len(w.storage))
	}
}

func TestKind(t *testing.T) {
	for _, k := range []Kind{KindCompute, KindPrecompute, KindStore, KindGetStorage} {
		if !k.Valid() {
			t.Errorf("%s should be valid", k)
		}
	}
	if Kind("nope").Valid() {
		t.Error("unknown kind reported valid")
	}
	if !KindCompute.AwaitsResponse() || !KindGetStorage.AwaitsResponse() {
		t.Error("compute and getStorage await responses")
	}
	if KindStore.AwaitsResponse() || KindPrecompute.AwaitsResponse() {
		t.Error("store and precompute are fire-and-forget")
	}
}

func TestStorageClone(t *testing.T) {
	s := Storage{"k": json.RawMessage(`[1]`)}
	c := s.Clone()
	c["k"][1] = '2'
	if string(s["k"]) != "[1]" {
		t.Error("clone shares bytes with original")
	}
}

func TestHandlersGetStorageSnapshot(t *testing.T) {
	w := NewWorker(Handlers{
		Compute: func(_ json.RawMessage, storage Storage) (any, error) {
			storage["leak"] = json.RawMessage(`1`)
			storage["k"][1] = '9'
			return nil, nil
		},
		Precompute: func(_ json.RawMessage, storage Storage) (Storage, error) {
			delete(storage, "k")
			return Storage{"p": json.RawMessage(`2`)}, nil
		},
	}, 1)
	w.storage["k"] = json.RawMessage(`[1]`)
	send := func(kind Kind) {
		msg, err := json.Marshal(Request{Type: kind, EventID: "x"})
		if err != nil {
			t.Fatal(err)
		}
		w.handle(msg)
	}
	send(KindCompute)
	send(KindPrecompute)

	if got := string(w.storage["k"]); got != "[1]" {
		t.Errorf("k = %s, want untouched", got)
	}
	if _, ok := w.storage["leak"]; ok {
		t.Error("compute handler wrote into worker storage")
	}
	if got := string(w.storage["p"]); got != "2" {
		t.Errorf("p = %q, want merged precompute result", got)
	}
}

func TestEncodeRejectsInvalidJSON(t *testing.T) {
	if _, err := Encode(badMarshaler{}); err == nil {
		t.Error("expected an error for a marshaler producing invalid JSON")
	}
	raw, err := Encode(map[string]int{"a": 1})
	if err != nil || string(raw) != `{"a":1}` {
		t.Errorf("Encode = %s, %v", raw, err)
	}
}

type badMarshaler struct{}

func (badMarshaler) MarshalJSON() ([]byte, error) { return []byte("NaN"), nil }
