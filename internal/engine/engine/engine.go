// Package engine is the public API surface spec §6 describes: create an
// engine over a journal, execute commands against it, advance an agent's
// clock, and read back current state or history. It wires the lower-level
// domain/engine Handler together with the ticker, game master, and
// regulator so every one of those stages runs inside the same
// append-then-fold boundary a caller's single call observes atomically.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/suds/laundromat/internal/engine/domain/agent"
	"github.com/suds/laundromat/internal/engine/domain/command"
	domainengine "github.com/suds/laundromat/internal/engine/domain/engine"
	"github.com/suds/laundromat/internal/engine/domain/event"
	"github.com/suds/laundromat/internal/engine/domain/handlerr"
	"github.com/suds/laundromat/internal/engine/gamemaster"
	"github.com/suds/laundromat/internal/engine/regulator"
	"github.com/suds/laundromat/internal/engine/ticker"
)

// ErrJournalRequired indicates a missing journal dependency.
var ErrJournalRequired = errors.New("journal is required")

// defaultRecentHistoryWindow bounds how many of an agent's own prior events
// the regulator sees for its monotonicity and collusion-frequency checks
// (spec §8 "regulator monotonicity").
const defaultRecentHistoryWindow = 200

// Journal is the storage boundary an Engine needs: atomic batch append
// (spec §4.1/§5), the per-agent read paths get_history/tail, and the
// full-log load_all restart path. journal.Memory and journal.File both
// satisfy this directly.
type Journal interface {
	domainengine.EventJournal
	domainengine.EventLister
	LoadAll(ctx context.Context) ([]event.Event, error)
	Tail(ctx context.Context, agentID string, n int) ([]event.Event, error)
}

// Config holds the dependencies for constructing an Engine (spec §6
// create_engine).
type Config struct {
	Journal Journal
	Logger  *slog.Logger
	// Now defaults to time.Now; tests pin it for deterministic stamps.
	Now func() time.Time
	// RecentHistoryWindow overrides defaultRecentHistoryWindow.
	RecentHistoryWindow int
}

// Engine is the public API spec §6 describes: execute_command, advance_time,
// get_current_state, get_history, all assembled over the registries
// BuildRegistries validates at startup.
//
// Command and event kinds grow by adding one entry to agent.RegisterCommands
// / agent.RegisterEvents and their dispatch maps (see CoreDomains in
// domain/engine), not by calling a runtime register_command_handler: Go's
// static dispatch tables give the same "no central switch statement" growth
// property spec §6 asks register_command_handler/register_reducer for,
// checked at startup instead of at registration time.
type Engine struct {
	registries    domainengine.Registries
	handler       domainengine.Handler
	states        domainengine.StateBuilder
	journal       Journal
	logger        *slog.Logger
	now           func() time.Time
	historyWindow int
}

// New builds an Engine, validating command/event registry coverage eagerly
// so a missing decider or reducer is a startup failure, never a surprise at
// first use.
func New(cfg Config) (*Engine, error) {
	if cfg.Journal == nil {
		return nil, ErrJournalRequired
	}
	registries, err := domainengine.BuildRegistries()
	if err != nil {
		return nil, fmt.Errorf("build registries: %w", err)
	}
	states := domainengine.StateBuilder{Journal: cfg.Journal}
	handler, err := domainengine.NewHandler(domainengine.HandlerConfig{
		Commands: registries.Commands,
		Events:   registries.Events,
		Journal:  cfg.Journal,
		States:   states,
		Now:      cfg.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("build handler: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	window := cfg.RecentHistoryWindow
	if window <= 0 {
		window = defaultRecentHistoryWindow
	}

	return &Engine{
		registries:    registries,
		handler:       handler,
		states:        states,
		journal:       cfg.Journal,
		logger:        logger,
		now:           now,
		historyWindow: window,
	}, nil
}

// Registries exposes the built command/event registries for introspection
// (diagnostics, doc generation) without re-running BuildRegistries.
func (e *Engine) Registries() domainengine.Registries {
	return e.registries
}

// ExecuteResult is the execute_command return shape spec §6 describes.
type ExecuteResult struct {
	OK        bool
	Events    []event.Event
	ErrorKind string
	Message   string
	State     agent.State
}

// ExecuteCommand runs one command to completion: decide, append, fold,
// then run the regulator over the newly appended events and append and
// fold whatever consequences it returns — all before returning to the
// caller, so a caller never observes a command's events without also
// observing any regulator reaction to them (spec §5/§7).
func (e *Engine) ExecuteCommand(ctx context.Context, agentID string, cmd command.Command) (ExecuteResult, error) {
	cmd.AgentID = agentID
	result, err := e.handler.Execute(ctx, cmd)
	if err != nil {
		var herr *handlerr.Error
		if errors.As(err, &herr) {
			switch herr.Kind {
			case handlerr.KindValidation, handlerr.KindUnknownCommand:
				return ExecuteResult{ErrorKind: string(herr.Kind), Message: herr.Error()}, nil
			}
		}
		return ExecuteResult{}, err
	}

	if len(result.Decision.Rejections) > 0 {
		rej := result.Decision.Rejections[0]
		e.logger.Warn("command rejected", "agent_id", agentID, "command_type", string(cmd.Type), "code", string(rej.Code))
		return ExecuteResult{ErrorKind: string(rej.Code), Message: rej.Message, State: result.State}, nil
	}

	events := result.Decision.Events
	state := result.State

	consequences, err := e.runRegulator(ctx, agentID, state, events)
	if err != nil {
		return ExecuteResult{}, err
	}
	for _, evt := range consequences {
		state, err = agent.Fold(state, evt)
		if err != nil {
			return ExecuteResult{}, handlerr.New(handlerr.KindInvariant, "fold regulator event", err)
		}
	}
	events = append(append([]event.Event(nil), events...), consequences...)

	e.logger.Info("command executed", "agent_id", agentID, "command_type", string(cmd.Type), "event_count", len(events))
	return ExecuteResult{OK: true, Events: events, State: state}, nil
}

// AdvanceResult is the advance_time return shape spec §6 describes.
type AdvanceResult struct {
	Events []event.Event
	State  agent.State
}

// AdvanceTime moves an agent's clock forward by days, one day at a time:
// ticker events, then game-master events, then regulator consequences, each
// appended and folded before the next day runs — so later days see every
// earlier day's full consequences, the same ordering ticker.Advance's
// internal fold already gives within a single day's events.
func (e *Engine) AdvanceTime(ctx context.Context, agentID string, days int) (AdvanceResult, error) {
	if err := ctx.Err(); err != nil {
		return AdvanceResult{}, err
	}
	state, err := e.states.Load(ctx, agentID)
	if err != nil {
		return AdvanceResult{}, handlerr.New(handlerr.KindStorage, "load agent state", err)
	}

	var allEvents []event.Event
	for d := 0; d < days; d++ {
		now := e.clock()

		dayEvents, err := ticker.Advance(state, 1, now)
		if err != nil {
			return AdvanceResult{}, handlerr.New(handlerr.KindInvariant, "ticker advance", err)
		}
		state, allEvents, err = e.appendAndFold(ctx, agentID, state, dayEvents, allEvents)
		if err != nil {
			return AdvanceResult{}, err
		}

		gmEvents, err := gamemaster.Generate(state, state.Week, state.Day, now)
		if err != nil {
			return AdvanceResult{}, handlerr.New(handlerr.KindInvariant, "game master generate", err)
		}
		state, allEvents, err = e.appendAndFold(ctx, agentID, state, gmEvents, allEvents)
		if err != nil {
			return AdvanceResult{}, err
		}

		dayBatch := append(append([]event.Event(nil), dayEvents...), gmEvents...)
		consequences, err := e.runRegulator(ctx, agentID, state, dayBatch)
		if err != nil {
			return AdvanceResult{}, err
		}
		for _, evt := range consequences {
			state, err = agent.Fold(state, evt)
			if err != nil {
				return AdvanceResult{}, handlerr.New(handlerr.KindInvariant, "fold regulator event", err)
			}
		}
		allEvents = append(allEvents, consequences...)
	}

	e.logger.Info("time advanced", "agent_id", agentID, "days", days, "event_count", len(allEvents))
	return AdvanceResult{Events: allEvents, State: state}, nil
}

// GetCurrentState returns an agent's state folded from its entire stream
// (spec §6 get_current_state).
func (e *Engine) GetCurrentState(ctx context.Context, agentID string) (agent.State, error) {
	return e.states.Load(ctx, agentID)
}

// GetHistory returns up to the last limit events for an agent, or its whole
// stream when limit is zero or negative (spec §6 get_history).
func (e *Engine) GetHistory(ctx context.Context, agentID string, limit int) ([]event.Event, error) {
	if limit <= 0 {
		return e.journal.ListEvents(ctx, agentID, 0, 0)
	}
	return e.journal.Tail(ctx, agentID, limit)
}

func (e *Engine) runRegulator(ctx context.Context, agentID string, state agent.State, newEvents []event.Event) ([]event.Event, error) {
	if len(newEvents) == 0 {
		return nil, nil
	}
	history, err := e.journal.Tail(ctx, agentID, e.historyWindow)
	if err != nil {
		return nil, handlerr.New(handlerr.KindStorage, "load history for regulator", err)
	}
	candidates, err := regulator.Inspect(state, newEvents, history, e.counterpartyLookup(ctx), state.Week, state.Day, e.clock())
	if err != nil {
		return nil, handlerr.New(handlerr.KindInvariant, "regulator inspect", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	vetted := make([]event.Event, 0, len(candidates))
	for _, evt := range candidates {
		v, err := e.registries.Events.ValidateForAppend(evt)
		if err != nil {
			return nil, handlerr.New(handlerr.KindInvariant, "validate regulator event", err)
		}
		vetted = append(vetted, v)
	}
	stored, err := e.journal.BatchAppend(ctx, vetted)
	if err != nil {
		return nil, handlerr.New(handlerr.KindStorage, "append regulator events", err)
	}
	return stored, nil
}

func (e *Engine) appendAndFold(ctx context.Context, agentID string, state agent.State, events, acc []event.Event) (agent.State, []event.Event, error) {
	if len(events) == 0 {
		return state, acc, nil
	}
	vetted := make([]event.Event, 0, len(events))
	for _, evt := range events {
		v, err := e.registries.Events.ValidateForAppend(evt)
		if err != nil {
			return state, acc, handlerr.New(handlerr.KindInvariant, "validate autonomous event", err)
		}
		vetted = append(vetted, v)
	}
	stored, err := e.journal.BatchAppend(ctx, vetted)
	if err != nil {
		return state, acc, handlerr.New(handlerr.KindStorage, "append autonomous events", err)
	}
	for _, evt := range stored {
		state, err = agent.Fold(state, evt)
		if err != nil {
			return state, acc, handlerr.New(handlerr.KindInvariant, "fold autonomous event", err)
		}
	}
	return state, append(acc, stored...), nil
}

func (e *Engine) counterpartyLookup(ctx context.Context) regulator.CounterpartyLookup {
	return func(agentID string) (agent.State, bool) {
		st, err := e.states.Load(ctx, agentID)
		if err != nil {
			return agent.State{}, false
		}
		return st, true
	}
}

func (e *Engine) clock() time.Time {
	if e.now != nil {
		return e.now()
	}
	return time.Now()
}
