package canonical

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{
			name:  "simple object sorted keys",
			input: map[string]any{"z": 1, "a": 2, "m": 3},
			want:  `{"a":2,"m":3,"z":1}`,
		},
		{
			name:  "nested object sorted keys",
			input: map[string]any{"b": map[string]any{"d": 1, "c": 2}, "a": 3},
			want:  `{"a":3,"b":{"c":2,"d":1}}`,
		},
		{
			name:  "array preserved order",
			input: []any{3, 1, 2},
			want:  `[3,1,2]`,
		},
		{
			name:  "mixed types",
			input: map[string]any{"str": "hello", "num": 42, "bool": true, "null": nil},
			want:  `{"bool":true,"null":null,"num":42,"str":"hello"}`,
		},
		{
			name:  "empty object",
			input: map[string]any{},
			want:  `{}`,
		},
		{
			name: "event envelope structure",
			input: map[string]any{
				"agent_id":   "agent_123",
				"event_type": "agent.created",
				"timestamp":  "2024-01-15T10:30:00Z",
				"actor_type": "system",
				"payload": map[string]any{
					"name":         "Suds & Duds",
					"initial_cash": 10000,
				},
			},
			want: `{"actor_type":"system","agent_id":"agent_123","event_type":"agent.created","payload":{"initial_cash":10000,"name":"Suds & Duds"},"timestamp":"2024-01-15T10:30:00Z"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := JSON(tt.input)
			if err != nil {
				t.Fatalf("JSON() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("JSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestHash_Deterministic(t *testing.T) {
	input1 := map[string]any{"z": 1, "a": 2, "m": 3}
	input2 := map[string]any{"a": 2, "m": 3, "z": 1}

	hash1, err := Hash(input1)
	if err != nil {
		t.Fatalf("Hash(input1) error = %v", err)
	}
	hash2, err := Hash(input2)
	if err != nil {
		t.Fatalf("Hash(input2) error = %v", err)
	}
	if hash1 != hash2 {
		t.Errorf("Hash not deterministic: %s != %s", hash1, hash2)
	}
	if len(hash1) != 32 {
		t.Errorf("Hash length = %d, want 32", len(hash1))
	}
}

func TestHash_DifferentInputsDifferentHashes(t *testing.T) {
	hash1, _ := Hash(map[string]any{"key": "value1"})
	hash2, _ := Hash(map[string]any{"key": "value2"})
	if hash1 == hash2 {
		t.Error("different inputs should produce different hashes")
	}
}

func TestJSON_MarshalError(t *testing.T) {
	_, err := JSON(make(chan int))
	if err == nil {
		t.Fatal("expected error for non-marshalable type")
	}
	if !strings.Contains(err.Error(), "marshal") {
		t.Fatalf("expected marshal error, got: %v", err)
	}
}

func TestJSON_RawMessageReordered(t *testing.T) {
	got, err := JSON(json.RawMessage(`{"z":1,"a":2}`))
	if err != nil {
		t.Fatalf("JSON() error = %v", err)
	}
	if string(got) != `{"a":2,"z":1}` {
		t.Errorf("got %s", got)
	}
}

func TestJSON_ScalarTypes(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{"hello", `"hello"`},
		{42, `42`},
		{true, `true`},
		{nil, `null`},
	}
	for _, c := range cases {
		got, err := JSON(c.in)
		if err != nil {
			t.Fatalf("JSON(%v) error = %v", c.in, err)
		}
		if string(got) != c.want {
			t.Errorf("JSON(%v) = %s, want %s", c.in, got, c.want)
		}
	}
}
