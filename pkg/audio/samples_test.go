package audio

import (
	"math"
	"testing"

	json "github.com/goccy/go-json"
)

func TestSamplesJSON(t *testing.T) {
	in := Samples{0, -1.5, float32(math.NaN()), float32(math.Inf(-1))}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Fatalf("invalid JSON: %s", data)
	}

	var out Samples
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d samples, want %d", len(out), len(in))
	}
	for i := range in {
		if math.Float32bits(out[i]) != math.Float32bits(in[i]) {
			t.Errorf("sample %d: got %v, want %v", i, out[i], in[i])
		}
	}
}

func TestSamplesUnmarshalForms(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Samples
		wantErr bool
	}{
		{"number array", `[1, 2.5]`, Samples{1, 2.5}, false},
		{"null", `null`, nil, false},
		{"empty string", `""`, Samples{}, false},
		{"partial sample", `"AAAA"`, nil, true},
		{"not samples", `{}`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Samples
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) || (got == nil) != (tt.want == nil) {
				t.Fatalf("got %#v, want %#v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("sample %d: got %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
