package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/suds/laundromat/internal/engine/domain/command"
	"github.com/suds/laundromat/internal/engine/domain/event"
)

// Registries bundles the fully built, cross-validated command and event
// registries the Handler needs to run.
type Registries struct {
	Commands *command.Registry
	Events   *event.Registry
}

// BuildRegistries registers every core domain's commands and events, then
// validates that registration and dispatch agree with each other: every
// registered event type must be emittable by some domain and foldable by
// some domain, and every registered command type must be decidable.
// Catching a coverage gap here, at startup, is the whole point — a command
// kind a decider doesn't handle, or an event kind a reducer doesn't fold,
// must never be discovered for the first time at replay.
func BuildRegistries() (Registries, error) {
	commands := command.NewRegistry()
	events := event.NewRegistry()

	for _, domain := range CoreDomains() {
		if err := domain.RegisterCommands(commands); err != nil {
			return Registries{}, fmt.Errorf("register %s commands: %w", domain.Name(), err)
		}
		if err := domain.RegisterEvents(events); err != nil {
			return Registries{}, fmt.Errorf("register %s events: %w", domain.Name(), err)
		}
	}

	if err := validateEmittableEventTypesRegistered(events); err != nil {
		return Registries{}, err
	}
	if err := validateFoldCoverage(events); err != nil {
		return Registries{}, err
	}
	if err := validateDeciderCoverage(commands); err != nil {
		return Registries{}, err
	}

	return Registries{Commands: commands, Events: events}, nil
}

func validateEmittableEventTypesRegistered(events *event.Registry) error {
	var missing []string
	for _, domain := range CoreDomains() {
		if domain.EmittableEventTypes == nil {
			continue
		}
		for _, t := range domain.EmittableEventTypes() {
			if _, ok := events.Definition(t); !ok {
				missing = append(missing, string(t))
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("emittable event types missing from registry: %s", strings.Join(missing, ", "))
	}
	return nil
}

func validateFoldCoverage(events *event.Registry) error {
	handled := make(map[event.Type]struct{})
	for _, domain := range CoreDomains() {
		if domain.FoldHandledTypes == nil {
			continue
		}
		for _, t := range domain.FoldHandledTypes() {
			handled[t] = struct{}{}
		}
	}
	var missing []string
	for _, def := range events.ListDefinitions() {
		if _, ok := handled[def.Type]; !ok {
			missing = append(missing, string(def.Type))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("registered event types with no reducer: %s", strings.Join(missing, ", "))
	}
	return nil
}

func validateDeciderCoverage(commands *command.Registry) error {
	handled := make(map[command.Type]struct{})
	for _, domain := range CoreDomains() {
		if domain.DeciderHandledCommands == nil {
			continue
		}
		for _, t := range domain.DeciderHandledCommands() {
			handled[t] = struct{}{}
		}
	}
	var missing []string
	for _, def := range commands.ListDefinitions() {
		if _, ok := handled[def.Type]; !ok {
			missing = append(missing, string(def.Type))
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("registered command types with no decider: %s", strings.Join(missing, ", "))
	}
	return nil
}
