package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/suds/laundromat/internal/engine/core/canonical"
)

// contentEnvelope builds the canonical field map used for content hashing.
// This is the single place that declares which fields participate in the
// hash, so content and chain hashing never drift apart.
func contentEnvelope(evt Event) map[string]any {
	envelope := map[string]any{
		"agent_id":   evt.AgentID,
		"event_type": string(evt.Type),
		"owner":      string(evt.Owner),
		"week":       evt.Week,
		"day":        evt.Day,
		"timestamp":  evt.Timestamp.Format(time.RFC3339Nano),
		"payload":    json.RawMessage(evt.PayloadJSON),
	}
	if evt.CorrelationID != "" {
		envelope["correlation_id"] = evt.CorrelationID
	}
	if evt.CausationID != "" {
		envelope["causation_id"] = evt.CausationID
	}
	return envelope
}

// chainEnvelope extends the content envelope with the fields that link an
// event to its predecessor: sequence number, its own content hash, and the
// previous event's chain hash.
func chainEnvelope(evt Event, prevHash string) map[string]any {
	envelope := contentEnvelope(evt)
	envelope["seq"] = evt.Seq
	envelope["event_hash"] = evt.Hash
	envelope["prev_chain_hash"] = prevHash
	return envelope
}

// Hash computes the content hash of an event's own fields.
func Hash(evt Event) (string, error) {
	return canonical.Hash(contentEnvelope(evt))
}

// ChainHash computes the hash linking evt to the previous event's chain
// hash. evt.Hash must already be populated.
func ChainHash(evt Event, prevHash string) (string, error) {
	if evt.Hash == "" {
		return "", fmt.Errorf("event hash is required before chaining")
	}
	return canonical.Hash(chainEnvelope(evt, prevHash))
}
