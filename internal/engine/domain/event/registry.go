package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/suds/laundromat/internal/engine/core/canonical"
)

var (
	// ErrAgentIDRequired indicates a missing agent id.
	ErrAgentIDRequired = errors.New("agent id is required")
	// ErrTypeRequired indicates a missing event type.
	ErrTypeRequired = errors.New("event type is required")
	// ErrTypeUnknown indicates an unregistered event type. Unlike an unknown
	// command, an unknown event reaching the fold path is a fatal invariant
	// violation (spec §7) rather than a caller-facing rejection: it can only
	// happen if a kind was appended without ever registering a reducer.
	ErrTypeUnknown = errors.New("event type is not registered")
	// ErrOwnerInvalid indicates an unrecognized event owner.
	ErrOwnerInvalid = errors.New("event owner is invalid")
	// ErrPayloadInvalid indicates malformed payload JSON.
	ErrPayloadInvalid = errors.New("payload json must be valid")
	// ErrStorageFieldsSet indicates storage-assigned fields were pre-set by
	// the caller. Sequence numbers and hashes are assigned exclusively by the
	// journal at append time.
	ErrStorageFieldsSet = errors.New("storage-assigned fields must be empty")
)

// PayloadValidator validates a payload JSON document against a kind's shape.
type PayloadValidator func(json.RawMessage) error

// Definition registers the metadata the registry needs to validate and fold
// one event kind. Every kind appended to the log must have been registered;
// this is the "missing reducer is fatal" invariant's first line of defense.
type Definition struct {
	Type            Type
	Owner           Owner
	ValidatePayload PayloadValidator
}

// Registry stores event definitions and validates events before they reach
// the journal.
type Registry struct {
	definitions map[Type]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[Type]Definition)}
}

// Register adds a new event type definition. Registering the same type twice
// is a startup-time bug, not a runtime condition, so it errors loudly rather
// than silently overwriting.
func (r *Registry) Register(def Definition) error {
	if r == nil {
		return errors.New("registry is required")
	}
	def.Type = Type(strings.TrimSpace(string(def.Type)))
	if def.Type == "" {
		return ErrTypeRequired
	}
	switch def.Owner {
	case OwnerCommand, OwnerTicker, OwnerGameMaster, OwnerRegulator:
	default:
		return ErrOwnerInvalid
	}
	if r.definitions == nil {
		r.definitions = make(map[Type]Definition)
	}
	if _, exists := r.definitions[def.Type]; exists {
		return fmt.Errorf("event type already registered: %s", def.Type)
	}
	r.definitions[def.Type] = def
	return nil
}

// Definition returns the registered definition for a type, if any.
func (r *Registry) Definition(t Type) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	def, ok := r.definitions[Type(strings.TrimSpace(string(t)))]
	return def, ok
}

// ValidateForAppend validates and normalizes an event prior to journal
// append. It enforces that storage-assigned fields are untouched, that the
// type is registered, and that the payload canonicalizes and passes its
// kind-specific validator. This is the boundary that keeps corrupt or
// unregistered facts out of the log entirely, rather than catching them
// during a later fold.
func (r *Registry) ValidateForAppend(evt Event) (Event, error) {
	if r == nil {
		return Event{}, errors.New("registry is required")
	}
	if evt.Seq != 0 || strings.TrimSpace(evt.Hash) != "" ||
		strings.TrimSpace(evt.PrevHash) != "" || strings.TrimSpace(evt.ChainHash) != "" {
		return Event{}, ErrStorageFieldsSet
	}

	evt.AgentID = strings.TrimSpace(evt.AgentID)
	if evt.AgentID == "" {
		return Event{}, ErrAgentIDRequired
	}

	evt.Type = Type(strings.TrimSpace(string(evt.Type)))
	if evt.Type == "" {
		return Event{}, ErrTypeRequired
	}
	def, ok := r.definitions[evt.Type]
	if !ok {
		return Event{}, ErrTypeUnknown
	}

	switch evt.Owner {
	case OwnerCommand, OwnerTicker, OwnerGameMaster, OwnerRegulator:
	case "":
		evt.Owner = def.Owner
	default:
		return Event{}, ErrOwnerInvalid
	}

	evt.CorrelationID = strings.TrimSpace(evt.CorrelationID)
	evt.CausationID = strings.TrimSpace(evt.CausationID)

	if len(evt.PayloadJSON) == 0 {
		evt.PayloadJSON = []byte("{}")
	}
	if !json.Valid(evt.PayloadJSON) {
		return Event{}, ErrPayloadInvalid
	}
	canonicalPayload, err := canonical.JSON(json.RawMessage(evt.PayloadJSON))
	if err != nil {
		return Event{}, fmt.Errorf("canonical payload json: %w", err)
	}
	evt.PayloadJSON = canonicalPayload

	if def.ValidatePayload != nil {
		if err := def.ValidatePayload(json.RawMessage(evt.PayloadJSON)); err != nil {
			return Event{}, fmt.Errorf("payload invalid: %w", err)
		}
	}
	return evt, nil
}

// ListDefinitions returns a stable, sorted snapshot of all registered
// definitions, used by startup validation and diagnostics.
func (r *Registry) ListDefinitions() []Definition {
	if r == nil || len(r.definitions) == 0 {
		return nil
	}
	defs := make([]Definition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return string(defs[i].Type) < string(defs[j].Type) })
	return defs
}
