package command

import (
	"testing"
	"time"

	"github.com/suds/laundromat/internal/engine/domain/event"
)

func TestNewEvent_CopiesEnvelopeFieldsFromCommand(t *testing.T) {
	cmd := Command{
		AgentID:       "agent-1",
		CorrelationID: "corr-1",
		CausationID:   "cause-1",
	}
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	evt := NewEvent(cmd, event.Type("PriceSet"), 2, 3, now, []byte(`{"price":3.75}`))

	if evt.ID == "" {
		t.Fatal("expected a generated event id")
	}
	if evt.AgentID != "agent-1" {
		t.Fatalf("got agent id %q", evt.AgentID)
	}
	if evt.Type != event.Type("PriceSet") {
		t.Fatalf("got type %q", evt.Type)
	}
	if evt.Owner != event.OwnerCommand {
		t.Fatalf("got owner %q, want OwnerCommand", evt.Owner)
	}
	if evt.Week != 2 || evt.Day != 3 {
		t.Fatalf("got week=%d day=%d, want week=2 day=3", evt.Week, evt.Day)
	}
	if !evt.Timestamp.Equal(now) {
		t.Fatalf("got timestamp %v, want %v", evt.Timestamp, now)
	}
	if evt.CorrelationID != "corr-1" || evt.CausationID != "cause-1" {
		t.Fatalf("got correlation=%q causation=%q", evt.CorrelationID, evt.CausationID)
	}
	if string(evt.PayloadJSON) != `{"price":3.75}` {
		t.Fatalf("got payload %s", evt.PayloadJSON)
	}
}

func TestNewEvent_GeneratesDistinctIDs(t *testing.T) {
	cmd := Command{AgentID: "agent-1"}
	now := time.Now()
	first := NewEvent(cmd, "PriceSet", 0, 0, now, nil)
	second := NewEvent(cmd, "PriceSet", 0, 0, now, nil)
	if first.ID == second.ID {
		t.Fatal("expected distinct event ids across calls")
	}
}
