// Package regulator implements the adjudicator spec §4.9 describes: a pure
// function that inspects a just-appended batch of events (plus the state
// already folded through them) and returns the consequence events — fines,
// status escalations, investigations, appeal rulings — that follow. It never
// mutates state itself; the caller appends and folds whatever it returns,
// the same discipline the ticker and game master packages follow.
package regulator

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/suds/laundromat/internal/engine/domain/agent"
	"github.com/suds/laundromat/internal/engine/domain/event"
)

const (
	// PredatoryPriceThreshold is the open-question fraction this project
	// settled on (see DESIGN.md): a service priced below this fraction of
	// its location's computed cost-per-load draws a finding.
	PredatoryPriceThreshold = 0.60

	// LaborWageFloor is the living-wage floor the regulator polices on
	// StaffHired/StaffWageAdjusted events. It is deliberately distinct from
	// (and higher than) the handler's bare "rate must be positive" gate —
	// the handler rejects nonsensical payloads, the regulator flags
	// otherwise-valid wages that still fall short of the floor.
	LaborWageFloor = 12.0

	// ScandalEscalationThreshold is the cumulative active-scandal severity
	// that escalates regulatory status to UNDER_INVESTIGATION.
	ScandalEscalationThreshold = 50.0

	collusionContentLengthThreshold  = 280
	collusionMessageFrequencyWindow  = 5
	collusionPriceAlignmentFraction  = 0.02
	baseDailyLoadsPerService         = 20.0
	supplyCostPerLoad                = 0.35
)

var statusRank = map[agent.RegulatoryStatus]int{
	agent.RegulatoryStatusNormal:             0,
	agent.RegulatoryStatusWarning:            1,
	agent.RegulatoryStatusUnderInvestigation: 2,
	agent.RegulatoryStatusPenalized:          3,
}

// CounterpartyLookup resolves another agent's current snapshot for the
// collusion check's price-alignment half. The regulator has no built-in
// cross-stream state access (spec §5: there is no cross-stream atomicity
// guarantee) — a nil lookup simply means that half of the check never
// fires.
type CounterpartyLookup func(agentID string) (agent.State, bool)

// Inspect runs every check spec §4.9 describes against a batch of events
// just appended to one agent's stream, given the state already folded
// through them. recentHistory is a bounded tail of that agent's own prior
// events, used as the monotonicity guard spec §8 requires: a consequence
// already present in the window is never re-emitted for the same
// underlying fact.
func Inspect(state agent.State, newEvents, recentHistory []event.Event, lookup CounterpartyLookup, week, day int, now time.Time) ([]event.Event, error) {
	var out []event.Event

	predatory, err := predatoryPricingFindings(state, newEvents, recentHistory, week, day, now)
	if err != nil {
		return nil, err
	}
	out = append(out, predatory...)

	labor, err := laborViolationFindings(newEvents, recentHistory, week, day, now)
	if err != nil {
		return nil, err
	}
	out = append(out, labor...)

	out = append(out, scandalEscalationFindings(state, week, day, now)...)

	collusion, err := collusionFindings(state, newEvents, recentHistory, lookup, week, day, now)
	if err != nil {
		return nil, err
	}
	out = append(out, collusion...)

	appeals, err := appealResolutions(state, newEvents, week, day, now)
	if err != nil {
		return nil, err
	}
	out = append(out, appeals...)

	return out, nil
}

func predatoryPricingFindings(state agent.State, newEvents, recentHistory []event.Event, week, day int, now time.Time) ([]event.Event, error) {
	var out []event.Event
	for _, evt := range newEvents {
		if evt.Type != agent.EventPriceSet {
			continue
		}
		var payload agent.PriceSetPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return nil, fmt.Errorf("decode PriceSet payload: %w", err)
		}
		loc, ok := state.Locations[payload.LocationID]
		if !ok {
			continue
		}
		cost := costPerLoad(loc)
		if cost <= 0 || payload.Price >= cost*PredatoryPriceThreshold {
			continue
		}
		reason := fmt.Sprintf("predatory pricing: %s at %s priced %.2f below %.0f%% of cost-per-load %.2f",
			payload.Service, payload.LocationID, payload.Price, PredatoryPriceThreshold*100, cost)
		if findingAlreadyPresent(recentHistory, reason) {
			continue
		}
		out = append(out, newRegEvent(evt.AgentID, agent.EventRegulatoryFinding, week, day, now, agent.RegulatoryFindingPayload{
			FineID:      fmt.Sprintf("fine-predatory-%s-%s", payload.LocationID, payload.Service),
			Description: reason,
			Amount:      cost * 10,
			DueWeek:     week + 4,
		}))
		out = append(out, newRegEvent(evt.AgentID, agent.EventRegulatoryStatusUpdated, week, day, now, agent.RegulatoryStatusUpdatedPayload{
			NewStatus: escalateStatus(state.RegulatoryStatus, agent.RegulatoryStatusWarning),
			Reason:    reason,
		}))
	}
	return out, nil
}

// costPerLoad estimates a location's break-even load price from its
// overhead (rent, wages) amortized across an estimated daily load volume,
// plus a flat per-load supply cost. It is a deliberately simple,
// implementation-defined proxy: the spec only requires that predatory
// pricing be judged against "cost-per-load", not a specific formula.
func costPerLoad(loc agent.LocationState) float64 {
	dailyRent := loc.MonthlyRent / 30
	var dailyWages float64
	for _, s := range loc.Staff {
		dailyWages += s.HourlyRate * 8
	}
	services := len(loc.ActivePricing)
	if services == 0 {
		services = 1
	}
	loadsEstimate := baseDailyLoadsPerService * float64(services)
	return (dailyRent+dailyWages)/loadsEstimate + supplyCostPerLoad
}

func laborViolationFindings(newEvents, recentHistory []event.Event, week, day int, now time.Time) ([]event.Event, error) {
	var out []event.Event
	for _, evt := range newEvents {
		var locationID, staffID string
		var rate float64
		switch evt.Type {
		case agent.EventStaffHired:
			var p agent.StaffHiredPayload
			if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
				return nil, fmt.Errorf("decode StaffHired payload: %w", err)
			}
			locationID, staffID, rate = p.LocationID, p.StaffID, p.HourlyRate
		case agent.EventStaffWageAdjusted:
			var p agent.StaffWageAdjustedPayload
			if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
				return nil, fmt.Errorf("decode StaffWageAdjusted payload: %w", err)
			}
			locationID, staffID, rate = p.LocationID, p.StaffID, p.NewRate
		default:
			continue
		}
		if rate >= LaborWageFloor {
			continue
		}
		reason := fmt.Sprintf("labor violation: %s at %s paid %.2f below floor %.2f", staffID, locationID, rate, LaborWageFloor)
		if findingAlreadyPresent(recentHistory, reason) {
			continue
		}
		out = append(out, newRegEvent(evt.AgentID, agent.EventRegulatoryFinding, week, day, now, agent.RegulatoryFindingPayload{
			FineID:      fmt.Sprintf("fine-labor-%s", staffID),
			Description: reason,
			Amount:      (LaborWageFloor - rate) * 160,
			DueWeek:     week + 4,
		}))
	}
	return out, nil
}

func scandalEscalationFindings(state agent.State, week, day int, now time.Time) []event.Event {
	var sum float64
	for _, s := range state.ActiveScandals {
		sum += s.Severity
	}
	if sum <= ScandalEscalationThreshold {
		return nil
	}
	if statusRank[state.RegulatoryStatus] >= statusRank[agent.RegulatoryStatusUnderInvestigation] {
		return nil
	}
	reason := fmt.Sprintf("cumulative scandal severity %.1f exceeds threshold %.1f", sum, ScandalEscalationThreshold)
	return []event.Event{newRegEvent(state.ID, agent.EventRegulatoryStatusUpdated, week, day, now, agent.RegulatoryStatusUpdatedPayload{
		NewStatus: agent.RegulatoryStatusUnderInvestigation,
		Reason:    reason,
	})}
}

func collusionFindings(state agent.State, newEvents, recentHistory []event.Event, lookup CounterpartyLookup, week, day int, now time.Time) ([]event.Event, error) {
	var out []event.Event
	for _, evt := range newEvents {
		if evt.Type != agent.EventMessageSent {
			continue
		}
		var payload agent.MessageSentPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return nil, fmt.Errorf("decode MessageSent payload: %w", err)
		}
		lengthy := len(payload.Content) >= collusionContentLengthThreshold
		frequent := countRecentMessages(recentHistory, payload.RecipientAgentID)+1 >= collusionMessageFrequencyWindow
		if !lengthy && !frequent {
			continue
		}
		if lookup == nil {
			continue
		}
		counterparty, ok := lookup(payload.RecipientAgentID)
		if !ok || !pricesAligned(state, counterparty) {
			continue
		}
		investigationID := fmt.Sprintf("investigation-collusion-%s-%s", state.ID, payload.RecipientAgentID)
		if investigationAlreadyActive(state, investigationID) {
			continue
		}
		out = append(out, newRegEvent(evt.AgentID, agent.EventInvestigationStarted, week, day, now, agent.InvestigationStartedPayload{
			InvestigationID: investigationID,
			Reason:          fmt.Sprintf("communication with %s combined with aligned pricing", payload.RecipientAgentID),
		}))
	}
	return out, nil
}

func countRecentMessages(history []event.Event, recipientID string) int {
	count := 0
	for _, evt := range history {
		if evt.Type != agent.EventMessageSent {
			continue
		}
		var p agent.MessageSentPayload
		if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
			continue
		}
		if p.RecipientAgentID == recipientID {
			count++
		}
	}
	return count
}

func pricesAligned(a, b agent.State) bool {
	for _, locA := range a.Locations {
		for svc, priceA := range locA.ActivePricing {
			if priceA <= 0 {
				continue
			}
			for _, locB := range b.Locations {
				priceB, ok := locB.ActivePricing[svc]
				if !ok {
					continue
				}
				if abs(priceA-priceB)/priceA <= collusionPriceAlignmentFraction {
					return true
				}
			}
		}
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func investigationAlreadyActive(state agent.State, id string) bool {
	for _, existing := range state.ActiveInvestigations {
		if existing == id {
			return true
		}
	}
	return false
}

// appealResolutions adjudicates every AppealFiled event in the batch
// deterministically: an appeal is upheld only if the agent was already
// under the regulator's harshest standing when it was filed, otherwise
// dismissed. This gives the registered-but-otherwise-unproduced
// AppealResolved event kind its only emitter.
func appealResolutions(state agent.State, newEvents []event.Event, week, day int, now time.Time) ([]event.Event, error) {
	var out []event.Event
	for _, evt := range newEvents {
		if evt.Type != agent.EventAppealFiled {
			continue
		}
		var payload agent.AppealFiledPayload
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return nil, fmt.Errorf("decode AppealFiled payload: %w", err)
		}
		out = append(out, newRegEvent(evt.AgentID, agent.EventAppealResolved, week, day, now, agent.AppealResolvedPayload{
			FineID: payload.FineID,
			Upheld: state.RegulatoryStatus == agent.RegulatoryStatusPenalized,
		}))
	}
	return out, nil
}

func escalateStatus(current, minimum agent.RegulatoryStatus) agent.RegulatoryStatus {
	if statusRank[minimum] > statusRank[current] {
		return minimum
	}
	return current
}

// findingAlreadyPresent is the monotonicity guard spec §8 requires: a
// RegulatoryFinding with the identical description already in the window
// means this exact fact has already drawn its consequence.
func findingAlreadyPresent(history []event.Event, reason string) bool {
	for _, evt := range history {
		if evt.Type != agent.EventRegulatoryFinding {
			continue
		}
		var p agent.RegulatoryFindingPayload
		if err := json.Unmarshal(evt.PayloadJSON, &p); err != nil {
			continue
		}
		if p.Description == reason {
			return true
		}
	}
	return false
}

func newRegEvent(agentID string, eventType event.Type, week, day int, now time.Time, payload any) event.Event {
	data, err := json.Marshal(payload)
	if err != nil {
		panic(fmt.Sprintf("regulator: marshal payload: %v", err))
	}
	return event.Event{
		ID:          uuid.NewString(),
		AgentID:     agentID,
		Type:        eventType,
		Owner:       event.OwnerRegulator,
		Week:        week,
		Day:         day,
		Timestamp:   now,
		PayloadJSON: data,
	}
}
