// Package engine wires the agent domain's registries, decider, and reducer
// into a single write-path orchestrator (spec §4.4/§5/§6), grounded on the
// teacher's domain/engine package (Handler, CoreDomains, BuildRegistries).
package engine

import (
	"github.com/suds/laundromat/internal/engine/domain/agent"
	"github.com/suds/laundromat/internal/engine/domain/command"
	"github.com/suds/laundromat/internal/engine/domain/event"
)

// CoreDomain bundles the registration hooks a domain package exports.
// Unlike the teacher, which has six core domains (campaign, action, session,
// participant, invite, character) because its log spans a whole shared
// campaign, this module's log is partitioned per agent and the entire
// simulated business is one aggregate — so CoreDomains returns exactly one
// entry. The shape is kept because it is what lets BuildRegistries validate
// coverage generically instead of hardcoding the agent package's types.
type CoreDomain struct {
	name                   string
	RegisterCommands       func(*command.Registry) error
	RegisterEvents         func(*event.Registry) error
	EmittableEventTypes    func() []event.Type
	FoldHandledTypes       func() []event.Type
	DeciderHandledCommands func() []command.Type
}

// Name returns a human-readable label for error messages and diagnostics.
func (d CoreDomain) Name() string { return d.name }

// CoreDomains returns the authoritative list of domain registrations.
func CoreDomains() []CoreDomain {
	return []CoreDomain{
		{
			name:                   "agent",
			RegisterCommands:       agent.RegisterCommands,
			RegisterEvents:         agent.RegisterEvents,
			EmittableEventTypes:    agent.EmittableEventTypes,
			FoldHandledTypes:       agent.FoldHandledTypes,
			DeciderHandledCommands: agent.DeciderHandledCommands,
		},
	}
}
