package engine

import (
	"context"
	"errors"
	"time"

	"github.com/suds/laundromat/internal/engine/domain/agent"
	"github.com/suds/laundromat/internal/engine/domain/command"
	"github.com/suds/laundromat/internal/engine/domain/event"
	"github.com/suds/laundromat/internal/engine/domain/handlerr"
)

var (
	// ErrCommandRegistryRequired indicates a missing command registry.
	ErrCommandRegistryRequired = errors.New("command registry is required")
	// ErrEventRegistryRequired indicates a missing event registry.
	ErrEventRegistryRequired = errors.New("event registry is required")
	// ErrJournalRequired indicates a missing event journal.
	ErrJournalRequired = errors.New("event journal is required")
	// ErrStateLoaderRequired indicates a missing state loader.
	ErrStateLoaderRequired = errors.New("state loader is required")
	// ErrCommandMustMutate indicates a decision with neither events nor
	// rejections — a decider bug, since every command must do one or the
	// other (spec §4.5).
	ErrCommandMustMutate = errors.New("command must emit at least one event or rejection")
)

// EventJournal appends decided events. BatchAppend is the persistence
// boundary: every event from one command's decision commits atomically
// (spec §5).
type EventJournal interface {
	BatchAppend(ctx context.Context, events []event.Event) ([]event.Event, error)
}

// Handler is the write-path orchestrator (spec §4.4/§5/§6's execute_command):
//  1. validate the command against the command registry,
//  2. load current state by replaying the agent's stream,
//  3. run the decider over that state,
//  4. validate produced events against the event registry,
//  5. append them atomically to the journal,
//  6. fold them into state and return the result.
type Handler struct {
	Commands *command.Registry
	Events   *event.Registry
	Journal  EventJournal
	States   StateBuilder
	Now      func() time.Time
}

// HandlerConfig holds the dependencies for constructing a Handler.
type HandlerConfig struct {
	Commands *command.Registry
	Events   *event.Registry
	Journal  EventJournal
	States   StateBuilder
	Now      func() time.Time
}

// NewHandler validates required dependencies and returns a configured
// Handler, catching missing wiring at startup rather than at first command.
func NewHandler(cfg HandlerConfig) (Handler, error) {
	if cfg.Commands == nil {
		return Handler{}, ErrCommandRegistryRequired
	}
	if cfg.Events == nil {
		return Handler{}, ErrEventRegistryRequired
	}
	if cfg.Journal == nil {
		return Handler{}, ErrJournalRequired
	}
	if cfg.States.Journal == nil {
		return Handler{}, ErrStateLoaderRequired
	}
	return Handler{
		Commands: cfg.Commands,
		Events:   cfg.Events,
		Journal:  cfg.Journal,
		States:   cfg.States,
		Now:      cfg.Now,
	}, nil
}

// Result captures both the command's decision and the resulting state, so
// callers get read-after-write without a second load.
type Result struct {
	Decision command.Decision
	State    agent.State
}

// Execute runs a command end to end (spec §6's execute_command). A rejected
// command returns its Decision with no events appended and the caller's
// pre-command state unchanged.
func (h Handler) Execute(ctx context.Context, cmd command.Command) (Result, error) {
	validated, err := h.Commands.ValidateForDecision(cmd)
	if err != nil {
		return Result{}, handlerr.New(handlerr.KindValidation, "validate command", err)
	}
	cmd = validated

	if _, ok := h.Commands.Definition(cmd.Type); !ok {
		return Result{}, handlerr.New(handlerr.KindUnknownCommand, "unknown command type: "+string(cmd.Type), handlerr.ErrUnknownCommand)
	}

	state, err := h.States.Load(ctx, cmd.AgentID)
	if err != nil {
		return Result{}, handlerr.New(handlerr.KindStorage, "load agent state", err)
	}

	now := h.Now
	if now == nil {
		now = time.Now
	}
	decision, ok := agent.Decide(state, cmd, state.Week, state.Day, now())
	if !ok {
		return Result{}, handlerr.New(handlerr.KindInvariant, "no decider registered for "+string(cmd.Type), handlerr.ErrUnknownCommand)
	}
	if len(decision.Rejections) == 0 && len(decision.Events) == 0 {
		return Result{}, handlerr.New(handlerr.KindInvariant, "decider violated must-mutate invariant", ErrCommandMustMutate)
	}
	if len(decision.Rejections) > 0 {
		return Result{Decision: decision, State: state}, nil
	}

	vetted := make([]event.Event, 0, len(decision.Events))
	for _, evt := range decision.Events {
		v, err := h.Events.ValidateForAppend(evt)
		if err != nil {
			return Result{}, handlerr.New(handlerr.KindInvariant, "validate produced event", err)
		}
		vetted = append(vetted, v)
	}
	decision.Events = vetted

	stored, err := h.Journal.BatchAppend(ctx, decision.Events)
	if err != nil {
		return Result{}, handlerr.New(handlerr.KindStorage, "append events", err)
	}
	decision.Events = stored

	for _, evt := range stored {
		state, err = agent.Fold(state, evt)
		if err != nil {
			return Result{}, handlerr.New(handlerr.KindInvariant, "fold persisted event", err)
		}
	}
	return Result{Decision: decision, State: state}, nil
}
