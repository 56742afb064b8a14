// Package canonical provides deterministic JSON serialization and
// content hashing for the event and command envelopes.
package canonical

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// JSON serializes v with object keys in sorted order and without HTML
// escaping, so that two semantically equal values always produce
// byte-identical output regardless of map iteration order or original
// field order in incoming JSON.
//
// Values that arrive as json.RawMessage or []byte are unmarshaled first so
// their object keys are re-sorted; all other values are marshaled as-is,
// which is sufficient because encoding/json already sorts the keys of any
// map type.
func JSON(v any) ([]byte, error) {
	normalized, err := normalize(v)
	if err != nil {
		return nil, fmt.Errorf("normalize canonical json: %w", err)
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, fmt.Errorf("marshal canonical json: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func normalize(v any) (any, error) {
	switch t := v.(type) {
	case json.RawMessage:
		if len(t) == 0 {
			return nil, nil
		}
		var out any
		if err := json.Unmarshal(t, &out); err != nil {
			return nil, err
		}
		return out, nil
	case []byte:
		return normalize(json.RawMessage(t))
	default:
		return v, nil
	}
}

// Hash returns a 128-bit (32 hex character) content hash of v's canonical
// JSON form. Two values that canonicalize identically always hash
// identically, which is what makes the event chain tamper-evident rather
// than merely ordered.
func Hash(v any) (string, error) {
	data, err := JSON(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:16]), nil
}
