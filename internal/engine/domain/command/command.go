// Package command defines the command envelope: a player or host intent
// submitted for validation and possible event emission.
package command

// Type identifies a stable command semantic, shared between the API surface
// and domain handlers.
type Type string

// Command captures the canonical envelope used by the engine (spec §6).
// Payload is a JSON document whose shape is declared by the command's
// registered Definition and validated before any handler sees it.
type Command struct {
	AgentID       string
	Type          Type
	RequestID     string
	CorrelationID string
	CausationID   string
	PayloadJSON   []byte
}
