// Package journal implements the append-only event log (spec §4.1): two
// contractually supported backends, in-memory and line-delimited file, both
// exposing the same append/load contract so the engine can swap them without
// touching domain code.
package journal

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/suds/laundromat/internal/engine/domain/event"
)

// ErrAgentIDRequired indicates a missing agent id.
var ErrAgentIDRequired = errors.New("agent id is required")

// Memory is a volatile, process-lifetime journal backend. It is the
// default for tests and for hosts that do not need durability across
// restarts.
type Memory struct {
	mu       sync.Mutex
	registry *event.Registry
	streams  map[string][]event.Event
}

// NewMemory creates an empty in-memory journal validating appends against
// registry.
func NewMemory(registry *event.Registry) *Memory {
	return &Memory{registry: registry, streams: make(map[string][]event.Event)}
}

// Append validates, sequences, hash-chains, and stores a single event.
// Sequence numbers and hashes are assigned here — never by the caller —
// which is what makes ValidateForAppend's "storage fields must be empty"
// check meaningful.
func (m *Memory) Append(ctx context.Context, evt event.Event) (event.Event, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return event.Event{}, err
		}
	}
	if m == nil {
		return event.Event{}, errors.New("journal is required")
	}
	agentID := strings.TrimSpace(evt.AgentID)
	if agentID == "" {
		return event.Event{}, ErrAgentIDRequired
	}
	if m.registry != nil {
		validated, err := m.registry.ValidateForAppend(evt)
		if err != nil {
			return event.Event{}, err
		}
		evt = validated
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendLocked(agentID, evt)
}

// BatchAppend appends every event from one command decision atomically: if
// any event fails validation, none are stored (spec §5 "appended atomically
// and contiguously").
func (m *Memory) BatchAppend(ctx context.Context, events []event.Event) ([]event.Event, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	if m == nil {
		return nil, errors.New("journal is required")
	}
	if len(events) == 0 {
		return nil, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	agentID := strings.TrimSpace(events[0].AgentID)
	if agentID == "" {
		return nil, ErrAgentIDRequired
	}
	validated := make([]event.Event, 0, len(events))
	for _, evt := range events {
		if strings.TrimSpace(evt.AgentID) != agentID {
			return nil, errors.New("batch append requires a single agent stream")
		}
		if m.registry != nil {
			v, err := m.registry.ValidateForAppend(evt)
			if err != nil {
				return nil, err
			}
			evt = v
		}
		validated = append(validated, evt)
	}

	stored := make([]event.Event, 0, len(validated))
	for _, evt := range validated {
		appended, err := m.appendLocked(agentID, evt)
		if err != nil {
			// A mid-batch failure here would violate atomicity; every event
			// above has already passed ValidateForAppend, so append itself
			// cannot fail except via hashing, which only fails on encoding
			// bugs — an invariant violation, not a partial commit to paper
			// over.
			return nil, err
		}
		stored = append(stored, appended)
	}
	return stored, nil
}

func (m *Memory) appendLocked(agentID string, evt event.Event) (event.Event, error) {
	stream := m.streams[agentID]
	evt.Seq = uint64(len(stream) + 1)
	hash, err := event.Hash(evt)
	if err != nil {
		return event.Event{}, err
	}
	evt.Hash = hash
	prevHash := ""
	if len(stream) > 0 {
		prevHash = stream[len(stream)-1].ChainHash
	}
	evt.PrevHash = prevHash
	chainHash, err := event.ChainHash(evt, prevHash)
	if err != nil {
		return event.Event{}, err
	}
	evt.ChainHash = chainHash

	m.streams[agentID] = append(stream, evt)
	return evt, nil
}

// LoadAll returns every event across every agent, in per-agent append order
// (spec's load_all, restartable and finite). Ordering across agents is not
// guaranteed — the log only totally orders within a single agent's stream.
func (m *Memory) LoadAll(ctx context.Context) ([]event.Event, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []event.Event
	for _, stream := range m.streams {
		all = append(all, stream...)
	}
	return all, nil
}

// ListEvents returns events ordered by sequence for one agent, paginated by
// afterSeq/limit (spec's load_for_agent / tail).
func (m *Memory) ListEvents(ctx context.Context, agentID string, afterSeq uint64, limit int) ([]event.Event, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return nil, ErrAgentIDRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	stream := m.streams[agentID]
	if len(stream) == 0 {
		return nil, nil
	}
	start := 0
	if afterSeq > 0 {
		if afterSeq >= uint64(len(stream)) {
			return nil, nil
		}
		start = int(afterSeq)
	}
	end := len(stream)
	if limit > 0 && start+limit < end {
		end = start + limit
	}
	page := make([]event.Event, 0, end-start)
	page = append(page, stream[start:end]...)
	return page, nil
}

// Tail returns the last n events for an agent.
func (m *Memory) Tail(ctx context.Context, agentID string, n int) ([]event.Event, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	agentID = strings.TrimSpace(agentID)
	if agentID == "" {
		return nil, ErrAgentIDRequired
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stream := m.streams[agentID]
	if n <= 0 || n >= len(stream) {
		out := make([]event.Event, len(stream))
		copy(out, stream)
		return out, nil
	}
	out := make([]event.Event, n)
	copy(out, stream[len(stream)-n:])
	return out, nil
}
