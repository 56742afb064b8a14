package command

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestRegistry_RegisterAndDefinition(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Definition{Type: "SET_PRICE"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	def, ok := r.Definition("SET_PRICE")
	if !ok {
		t.Fatal("expected definition to be found")
	}
	if def.Type != "SET_PRICE" {
		t.Fatalf("got type %s", def.Type)
	}
	if _, ok := r.Definition("UNKNOWN"); ok {
		t.Fatal("expected unknown type to be absent")
	}
}

func TestRegistry_RegisterRejectsEmptyType(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Definition{Type: "  "}); !errors.Is(err, ErrTypeRequired) {
		t.Fatalf("got %v, want ErrTypeRequired", err)
	}
}

func TestRegistry_RegisterRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Definition{Type: "SET_PRICE"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(Definition{Type: "SET_PRICE"}); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}

func TestRegistry_ValidateForDecision_DefaultsRequestIDAndCanonicalizes(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Definition{Type: "SET_PRICE"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	cmd := Command{
		AgentID:     " agent-1 ",
		Type:        " SET_PRICE ",
		PayloadJSON: json.RawMessage(`{"z":1,"a":2}`),
	}
	validated, err := r.ValidateForDecision(cmd)
	if err != nil {
		t.Fatalf("ValidateForDecision: %v", err)
	}
	if validated.AgentID != "agent-1" {
		t.Fatalf("got agent id %q", validated.AgentID)
	}
	if validated.Type != "SET_PRICE" {
		t.Fatalf("got type %q", validated.Type)
	}
	if validated.RequestID == "" {
		t.Fatal("expected RequestID to be defaulted")
	}
	if string(validated.PayloadJSON) != `{"a":2,"z":1}` {
		t.Fatalf("got payload %s", validated.PayloadJSON)
	}
}

func TestRegistry_ValidateForDecision_PreservesCallerRequestID(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Definition{Type: "SET_PRICE"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	cmd := Command{AgentID: "agent-1", Type: "SET_PRICE", RequestID: "caller-req-1"}
	validated, err := r.ValidateForDecision(cmd)
	if err != nil {
		t.Fatalf("ValidateForDecision: %v", err)
	}
	if validated.RequestID != "caller-req-1" {
		t.Fatalf("got %q, want preserved caller RequestID", validated.RequestID)
	}
}

func TestRegistry_ValidateForDecision_MissingAgentID(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Definition{Type: "SET_PRICE"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := r.ValidateForDecision(Command{Type: "SET_PRICE"}); !errors.Is(err, ErrAgentIDRequired) {
		t.Fatalf("got %v, want ErrAgentIDRequired", err)
	}
}

func TestRegistry_ValidateForDecision_MissingType(t *testing.T) {
	r := NewRegistry()
	if _, err := r.ValidateForDecision(Command{AgentID: "agent-1"}); !errors.Is(err, ErrTypeRequired) {
		t.Fatalf("got %v, want ErrTypeRequired", err)
	}
}

func TestRegistry_ValidateForDecision_UnknownType(t *testing.T) {
	r := NewRegistry()
	_, err := r.ValidateForDecision(Command{AgentID: "agent-1", Type: "NOT_REGISTERED"})
	if !errors.Is(err, ErrTypeUnknown) {
		t.Fatalf("got %v, want ErrTypeUnknown", err)
	}
}

func TestRegistry_ValidateForDecision_InvalidPayloadJSON(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(Definition{Type: "SET_PRICE"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err := r.ValidateForDecision(Command{AgentID: "agent-1", Type: "SET_PRICE", PayloadJSON: []byte("{not json")})
	if !errors.Is(err, ErrPayloadInvalid) {
		t.Fatalf("got %v, want ErrPayloadInvalid", err)
	}
}

func TestRegistry_ValidateForDecision_RunsPayloadValidator(t *testing.T) {
	r := NewRegistry()
	wantErr := errors.New("price out of range")
	err := r.Register(Definition{
		Type: "SET_PRICE",
		ValidatePayload: func(json.RawMessage) error {
			return wantErr
		},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, err = r.ValidateForDecision(Command{AgentID: "agent-1", Type: "SET_PRICE"})
	if err == nil {
		t.Fatal("expected payload validator error to propagate")
	}
}

func TestRegistry_ListDefinitions_SortedAndEmpty(t *testing.T) {
	r := NewRegistry()
	if defs := r.ListDefinitions(); defs != nil {
		t.Fatalf("expected nil for empty registry, got %v", defs)
	}
	for _, typ := range []Type{"TAKE_LOAN", "BUY_EQUIPMENT", "SET_PRICE"} {
		if err := r.Register(Definition{Type: typ}); err != nil {
			t.Fatalf("Register(%s): %v", typ, err)
		}
	}
	defs := r.ListDefinitions()
	if len(defs) != 3 {
		t.Fatalf("got %d definitions, want 3", len(defs))
	}
	if defs[0].Type != "BUY_EQUIPMENT" || defs[1].Type != "SET_PRICE" || defs[2].Type != "TAKE_LOAN" {
		t.Fatalf("definitions not sorted: %+v", defs)
	}
}

func TestRegistry_NilReceiverIsSafe(t *testing.T) {
	var r *Registry
	if _, ok := r.Definition("SET_PRICE"); ok {
		t.Fatal("expected nil registry to report not-found")
	}
	if err := r.Register(Definition{Type: "SET_PRICE"}); err == nil {
		t.Fatal("expected nil registry Register to error")
	}
	if _, err := r.ValidateForDecision(Command{}); err == nil {
		t.Fatal("expected nil registry ValidateForDecision to error")
	}
	if defs := r.ListDefinitions(); defs != nil {
		t.Fatalf("expected nil registry ListDefinitions to return nil, got %v", defs)
	}
}

func TestAccept_CopiesEventsSlice(t *testing.T) {
	decision := Accept()
	if len(decision.Events) != 0 {
		t.Fatal("expected Accept() with no events to carry an empty events slice")
	}
	if len(decision.Rejections) != 0 {
		t.Fatal("expected no rejections from Accept")
	}
}

func TestReject_CarriesSingleRejection(t *testing.T) {
	decision := Reject(CodeInvalidState, "bad input")
	if len(decision.Events) != 0 {
		t.Fatal("expected no events from Reject")
	}
	if len(decision.Rejections) != 1 {
		t.Fatalf("got %d rejections, want 1", len(decision.Rejections))
	}
	if decision.Rejections[0].Code != CodeInvalidState || decision.Rejections[0].Message != "bad input" {
		t.Fatalf("got %+v", decision.Rejections[0])
	}
}
