package engine

import (
	"context"

	"github.com/suds/laundromat/internal/engine/domain/agent"
	"github.com/suds/laundromat/internal/engine/domain/event"
)

// EventLister reads back an agent's persisted stream (spec §4.4's
// state-from-log contract). Both journal.Memory and journal.File satisfy
// this directly.
type EventLister interface {
	ListEvents(ctx context.Context, agentID string, afterSeq uint64, limit int) ([]event.Event, error)
}

// StateBuilder reconstructs agent.State by replaying an agent's event
// stream from the journal, the only source of truth (spec §3/§4.4). There
// is no snapshot store: replay cost is bounded by one agent's own history,
// not by the whole simulation's, so the teacher's checkpoint/snapshot layer
// (built for a multi-entity shared campaign log) has nothing to earn its
// keep here.
type StateBuilder struct {
	Journal EventLister
}

// Load folds an agent's entire stream into its current state.
func (b StateBuilder) Load(ctx context.Context, agentID string) (agent.State, error) {
	return b.LoadUpTo(ctx, agentID, 0)
}

// LoadUpTo folds an agent's stream up to and including maxSeq, or the whole
// stream when maxSeq is zero. This is the point-in-time query spec §4.4
// allows get_history callers to request — a reconstruction as of any prior
// sequence number, not just the latest.
func (b StateBuilder) LoadUpTo(ctx context.Context, agentID string, maxSeq uint64) (agent.State, error) {
	events, err := b.Journal.ListEvents(ctx, agentID, 0, 0)
	if err != nil {
		return agent.State{}, err
	}
	state := agent.New()
	for _, evt := range events {
		if maxSeq > 0 && evt.Seq > maxSeq {
			break
		}
		state, err = agent.Fold(state, evt)
		if err != nil {
			return agent.State{}, err
		}
	}
	return state, nil
}
