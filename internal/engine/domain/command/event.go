package command

import (
	"time"

	"github.com/google/uuid"
	"github.com/suds/laundromat/internal/engine/domain/event"
)

// NewEvent builds an event.Event by copying the shared envelope fields from
// a command. Handlers supply only the event-specific type, week/day, and
// payload; this keeps per-handler code free of envelope boilerplate and
// ensures new envelope fields are forwarded automatically.
func NewEvent(cmd Command, eventType event.Type, week, day int, now time.Time, payloadJSON []byte) event.Event {
	return event.Event{
		ID:            uuid.NewString(),
		AgentID:       cmd.AgentID,
		Type:          eventType,
		Owner:         event.OwnerCommand,
		Week:          week,
		Day:           day,
		Timestamp:     now,
		CorrelationID: cmd.CorrelationID,
		CausationID:   cmd.CausationID,
		PayloadJSON:   payloadJSON,
	}
}
