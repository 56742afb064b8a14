package engine

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/suds/laundromat/internal/engine/domain/agent"
	"github.com/suds/laundromat/internal/engine/domain/command"
	"github.com/suds/laundromat/internal/engine/domain/event"
	"github.com/suds/laundromat/internal/engine/domain/journal"
)

func newTestRegistriesAndJournal(t *testing.T) (Registries, *journal.Memory) {
	t.Helper()
	registries, err := BuildRegistries()
	if err != nil {
		t.Fatalf("BuildRegistries: %v", err)
	}
	return registries, journal.NewMemory(registries.Events)
}

func appendAgentCreated(t *testing.T, mem *journal.Memory, agentID string, cash float64) event.Event {
	t.Helper()
	payload, err := json.Marshal(agent.CreateAgentPayload{Name: "suds", InitialCash: cash, InitialCreditLimit: 1000})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	evt := command.NewEvent(command.Command{AgentID: agentID}, agent.EventAgentCreated, 0, 0, time.Now(), payload)
	appended, err := mem.Append(context.Background(), evt)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	return appended
}

func TestStateBuilder_Load_FoldsEmptyStreamToZeroState(t *testing.T) {
	_, mem := newTestRegistriesAndJournal(t)
	builder := StateBuilder{Journal: mem}

	state, err := builder.Load(context.Background(), "agent-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if state.Cash != 0 {
		t.Fatalf("expected zero-value state, got cash=%v", state.Cash)
	}
}

func TestStateBuilder_Load_FoldsFullStream(t *testing.T) {
	_, mem := newTestRegistriesAndJournal(t)
	appendAgentCreated(t, mem, "agent-1", 5000)
	builder := StateBuilder{Journal: mem}

	state, err := builder.Load(context.Background(), "agent-1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if state.Cash != 5000 {
		t.Fatalf("got cash %v, want 5000", state.Cash)
	}
}

func TestStateBuilder_LoadUpTo_StopsAtMaxSeq(t *testing.T) {
	_, mem := newTestRegistriesAndJournal(t)
	first := appendAgentCreated(t, mem, "agent-1", 5000)

	priceEvt := command.NewEvent(command.Command{AgentID: "agent-1"}, agent.EventPriceSet, 0, 0, time.Now(),
		mustMarshal(t, agent.PriceSetPayload{LocationID: "LOC_001", Service: agent.ServiceStandardWash, Price: 3.75}))
	if _, err := mem.Append(context.Background(), priceEvt); err != nil {
		t.Fatalf("Append: %v", err)
	}

	builder := StateBuilder{Journal: mem}
	state, err := builder.LoadUpTo(context.Background(), "agent-1", first.Seq)
	if err != nil {
		t.Fatalf("LoadUpTo: %v", err)
	}
	if len(state.Locations) != 0 {
		t.Fatalf("expected the point-in-time snapshot to predate LocationOpened/PriceSet, got %+v", state.Locations)
	}
	if state.Cash != 5000 {
		t.Fatalf("got cash %v, want 5000", state.Cash)
	}
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}
