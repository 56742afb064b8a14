package event

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRegistry_RegisterAndDefinition(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Definition{Type: "PriceSet", Owner: OwnerCommand}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	def, ok := r.Definition("PriceSet")
	if !ok {
		t.Fatal("expected definition to be found")
	}
	if def.Owner != OwnerCommand {
		t.Fatalf("got owner %q", def.Owner)
	}
}

func TestRegistry_RegisterRejectsInvalidOwner(t *testing.T) {
	r := NewRegistry()
	err := r.Register(Definition{Type: "PriceSet", Owner: "nonsense"})
	if !errors.Is(err, ErrOwnerInvalid) {
		t.Fatalf("got %v, want ErrOwnerInvalid", err)
	}
}

func TestRegistry_RegisterRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Definition{Type: "PriceSet", Owner: OwnerCommand}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(Definition{Type: "PriceSet", Owner: OwnerCommand}); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestRegistry_ValidateForAppend_DefaultsOwnerFromDefinition(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Definition{Type: "PriceSet", Owner: OwnerCommand}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	evt := Event{AgentID: "agent-1", Type: "PriceSet"}
	validated, err := r.ValidateForAppend(evt)
	if err != nil {
		t.Fatalf("ValidateForAppend: %v", err)
	}
	if validated.Owner != OwnerCommand {
		t.Fatalf("got owner %q, want defaulted OwnerCommand", validated.Owner)
	}
}

func TestRegistry_ValidateForAppend_CanonicalizesPayload(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Definition{Type: "PriceSet", Owner: OwnerCommand}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	evt := Event{AgentID: "agent-1", Type: "PriceSet", PayloadJSON: json.RawMessage(`{"z":1,"a":2}`)}
	validated, err := r.ValidateForAppend(evt)
	if err != nil {
		t.Fatalf("ValidateForAppend: %v", err)
	}
	if string(validated.PayloadJSON) != `{"a":2,"z":1}` {
		t.Fatalf("got payload %s", validated.PayloadJSON)
	}
}

func TestRegistry_ValidateForAppend_RejectsStorageFieldsSet(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Definition{Type: "PriceSet", Owner: OwnerCommand}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	cases := []Event{
		{AgentID: "agent-1", Type: "PriceSet", Seq: 1},
		{AgentID: "agent-1", Type: "PriceSet", Hash: "deadbeef"},
		{AgentID: "agent-1", Type: "PriceSet", PrevHash: "deadbeef"},
		{AgentID: "agent-1", Type: "PriceSet", ChainHash: "deadbeef"},
	}
	for _, evt := range cases {
		if _, err := r.ValidateForAppend(evt); !errors.Is(err, ErrStorageFieldsSet) {
			t.Fatalf("got %v, want ErrStorageFieldsSet for %+v", err, evt)
		}
	}
}

func TestRegistry_ValidateForAppend_MissingAgentID(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Definition{Type: "PriceSet", Owner: OwnerCommand}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := r.ValidateForAppend(Event{Type: "PriceSet"})
	if !errors.Is(err, ErrAgentIDRequired) {
		t.Fatalf("got %v, want ErrAgentIDRequired", err)
	}
}

func TestRegistry_ValidateForAppend_UnknownType(t *testing.T) {
	r := NewRegistry()
	_, err := r.ValidateForAppend(Event{AgentID: "agent-1", Type: "NotRegistered"})
	if !errors.Is(err, ErrTypeUnknown) {
		t.Fatalf("got %v, want ErrTypeUnknown", err)
	}
}

func TestRegistry_ValidateForAppend_InvalidPayloadJSON(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Definition{Type: "PriceSet", Owner: OwnerCommand}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := r.ValidateForAppend(Event{AgentID: "agent-1", Type: "PriceSet", PayloadJSON: []byte("{bad")})
	if !errors.Is(err, ErrPayloadInvalid) {
		t.Fatalf("got %v, want ErrPayloadInvalid", err)
	}
}

func TestRegistry_ValidateForAppend_RunsPayloadValidator(t *testing.T) {
	r := NewRegistry()
	err := r.Register(Definition{
		Type:  "PriceSet",
		Owner: OwnerCommand,
		ValidatePayload: func(json.RawMessage) error {
			return errors.New("bad payload")
		},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err = r.ValidateForAppend(Event{AgentID: "agent-1", Type: "PriceSet"})
	if err == nil {
		t.Fatal("expected payload validator error to propagate")
	}
}

func TestRegistry_ValidateForAppend_RejectsExplicitInvalidOwner(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Definition{Type: "PriceSet", Owner: OwnerCommand}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := r.ValidateForAppend(Event{AgentID: "agent-1", Type: "PriceSet", Owner: "bogus"})
	if !errors.Is(err, ErrOwnerInvalid) {
		t.Fatalf("got %v, want ErrOwnerInvalid", err)
	}
}

func TestRegistry_ListDefinitions_Sorted(t *testing.T) {
	r := NewRegistry()
	for _, typ := range []Type{"StaffHired", "AgentCreated", "PriceSet"} {
		if err := r.Register(Definition{Type: typ, Owner: OwnerCommand}); err != nil {
			t.Fatalf("Register(%s): %v", typ, err)
		}
	}
	defs := r.ListDefinitions()
	if len(defs) != 3 {
		t.Fatalf("got %d definitions, want 3", len(defs))
	}
	if defs[0].Type != "AgentCreated" || defs[1].Type != "PriceSet" || defs[2].Type != "StaffHired" {
		t.Fatalf("definitions not sorted: %+v", defs)
	}
}

func TestRegistry_NilReceiverIsSafe(t *testing.T) {
	var r *Registry
	if _, ok := r.Definition("PriceSet"); ok {
		t.Fatal("expected nil registry to report not-found")
	}
	if err := r.Register(Definition{Type: "PriceSet", Owner: OwnerCommand}); err == nil {
		t.Fatal("expected nil registry Register to error")
	}
	if _, err := r.ValidateForAppend(Event{}); err == nil {
		t.Fatal("expected nil registry ValidateForAppend to error")
	}
	if defs := r.ListDefinitions(); defs != nil {
		t.Fatalf("expected nil registry ListDefinitions to return nil, got %v", defs)
	}
}
