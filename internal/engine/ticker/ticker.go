// Package ticker implements the autonomous passage of time (spec §4.7): a
// pure function from (state, number of days, clock) to the events that
// would occur if nobody issued another command — daily revenue and wear,
// weekly fixed costs and scandal decay, monthly interest and tax. It is
// seeded the same way the teacher's dice package is: deterministically, so
// the same state advanced the same number of days always yields the same
// events (spec §8 determinism property).
package ticker

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/suds/laundromat/internal/engine/domain/agent"
	"github.com/suds/laundromat/internal/engine/domain/event"
)

// daysPerWeek is the simulation's calendar: day 1..7 within a week.
const daysPerWeek = 7

// weeksPerMonth bounds how often monthly billing (interest, tax) fires —
// every 4th week boundary.
const weeksPerMonth = 4

// baseDailyLoadsPerService is the demand baseline a location's each priced
// service draws before cleanliness, competition, and marketing adjust it.
const baseDailyLoadsPerService = 20.0

// dailyMachineWearMin/Max bound the random wear roll applied to each
// operational machine per day.
const (
	dailyMachineWearMin = 0.5
	dailyMachineWearMax = 2.5
)

// Advance synthesizes the events that occur as an agent's clock moves
// forward by days days, starting from state and stamped with now. It folds
// its own output internally (via agent.Fold) so later days in a multi-day
// advance see the state changes earlier days produced, but returns only the
// flat event list — the caller is responsible for validating, persisting,
// and folding those events through the same path a command's events take.
func Advance(state agent.State, days int, now time.Time) ([]event.Event, error) {
	var events []event.Event
	for i := 0; i < days; i++ {
		dayEvents, err := advanceOneDay(state, now)
		if err != nil {
			return nil, err
		}
		events = append(events, dayEvents...)
		for _, evt := range dayEvents {
			var err error
			state, err = agent.Fold(state, evt)
			if err != nil {
				return nil, err
			}
		}
	}
	return events, nil
}

func advanceOneDay(state agent.State, now time.Time) ([]event.Event, error) {
	// Day is zero-based within a week (0..daysPerWeek-1); wrapping back to 0
	// is itself the week boundary, matching spec §8.3's literal scenario
	// where 7 days from (week=0, day=0) land on (week=1, day=0), not
	// (week=0, day=7).
	day := (state.Day + 1) % daysPerWeek
	week := state.Week
	weekBoundary := day == 0
	if weekBoundary {
		week++
	}

	var events []event.Event
	events = append(events, newTickerEvent(state.ID, agent.EventTimeAdvanced, week, day, now, agent.TimeAdvancedPayload{
		NewWeek: week,
		NewDay:  day,
	}))

	for _, locID := range sortedLocationIDs(state.Locations) {
		loc := state.Locations[locID]
		events = append(events, dailyRevenueEvent(state.ID, locID, loc, week, day, now)...)
		events = append(events, dailyWearEvents(state.ID, locID, loc, week, day, now)...)
	}

	if weekBoundary {
		events = append(events, weeklyFixedCostsEvents(state, week, day, now)...)
		events = append(events, weeklyScandalDecayEvents(state, week, day, now)...)
	}
	if weekBoundary && week > 0 && week%weeksPerMonth == 0 {
		events = append(events, monthlyInterestEvents(state, week, day, now)...)
		events = append(events, monthlyTaxEvent(state, week, day, now))
	}

	return events, nil
}

func dailyRevenueEvent(agentID, locationID string, loc agent.LocationState, week, day int, now time.Time) []event.Event {
	if len(loc.ActivePricing) == 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seedFor(agentID, strconv.Itoa(week), strconv.Itoa(day), locationID, "revenue")))
	demandFactor := clamp01(loc.Cleanliness/100) * loyaltyFactor(loc.LoyaltyMembers)

	totalLoads := 0.0
	revenue := 0.0
	byService := make(map[agent.ServiceName]float64, len(loc.ActivePricing))
	for _, svc := range sortedServiceNames(loc.ActivePricing) {
		price := loc.ActivePricing[svc]
		loads := baseDailyLoadsPerService * demandFactor * (0.8 + rng.Float64()*0.4)
		if competitor, ok := loc.CompetitorPrices[svc]; ok && competitor > 0 && price > competitor {
			loads *= clamp01(competitor / price)
		}
		amount := loads * price
		if loc.MarketingBoost != nil && (loc.MarketingBoost.ServiceScope == "ALL" || loc.MarketingBoost.ServiceScope == string(svc)) {
			amount *= loc.MarketingBoost.BoostMultiplier
		}
		totalLoads += loads
		revenue += amount
		byService[svc] = amount
	}

	return []event.Event{
		newTickerEvent(agentID, agent.EventDailyRevenueProcessed, week, day, now, agent.DailyRevenueProcessedPayload{
			LocationID: locationID,
			TotalLoads: totalLoads,
			Revenue:    revenue,
			ByService:  byService,
		}),
		newTickerEvent(agentID, agent.EventFundsTransferred, week, day, now, agent.FundsTransferredPayload{
			Kind:        agent.FundsKindRevenue,
			Amount:      revenue,
			Description: "daily revenue at " + locationID,
		}),
	}
}

func dailyWearEvents(agentID, locationID string, loc agent.LocationState, week, day int, now time.Time) []event.Event {
	var events []event.Event
	for _, machineID := range sortedMachineIDs(loc.Equipment) {
		machine := loc.Equipment[machineID]
		if machine.Status != agent.MachineStatusOperational {
			continue
		}
		rng := rand.New(rand.NewSource(seedFor(agentID, strconv.Itoa(week), strconv.Itoa(day), locationID, machineID)))
		wear := dailyMachineWearMin + rng.Float64()*(dailyMachineWearMax-dailyMachineWearMin)
		var newStatus agent.MachineStatus
		if machine.Condition-wear <= 10 {
			newStatus = agent.MachineStatusBroken
		}
		events = append(events, newTickerEvent(agentID, agent.EventMachineWearUpdated, week, day, now, agent.MachineWearUpdatedPayload{
			LocationID: locationID,
			MachineID:  machineID,
			WearDelta:  wear,
			NewStatus:  newStatus,
		}))
	}
	return events
}

func weeklyFixedCostsEvents(state agent.State, week, day int, now time.Time) []event.Event {
	var rent, wages float64
	for _, locID := range sortedLocationIDs(state.Locations) {
		loc := state.Locations[locID]
		rent += loc.MonthlyRent / weeksPerMonth
		for _, staffID := range sortedStaffIDs(loc.Staff) {
			wages += loc.Staff[staffID].HourlyRate * 40
		}
	}
	utilities := rent * 0.15
	total := rent + utilities + wages
	return []event.Event{
		newTickerEvent(state.ID, agent.EventWeeklyFixedCostsBilled, week, day, now, agent.WeeklyFixedCostsBilledPayload{
			Rent:      rent,
			Utilities: utilities,
			Wages:     wages,
			Total:     total,
		}),
		newTickerEvent(state.ID, agent.EventFundsTransferred, week, day, now, agent.FundsTransferredPayload{
			Kind:        agent.FundsKindExpense,
			Amount:      total,
			Description: "weekly fixed costs",
		}),
	}
}

func weeklyScandalDecayEvents(state agent.State, week, day int, now time.Time) []event.Event {
	events := make([]event.Event, 0, len(state.ActiveScandals))
	for _, s := range state.ActiveScandals {
		events = append(events, newTickerEvent(state.ID, agent.EventScandalMarkerDecayed, week, day, now, agent.ScandalMarkerDecayedPayload{
			ScandalID: s.ID,
			Decay:     s.DecayRate,
		}))
	}
	return events
}

func monthlyInterestEvents(state agent.State, week, day int, now time.Time) []event.Event {
	events := make([]event.Event, 0, len(state.Loans))
	for _, loan := range state.Loans {
		interest := loan.Outstanding * loan.RatePct / 12
		if interest <= 0 {
			continue
		}
		events = append(events, newTickerEvent(state.ID, agent.EventInterestAccrued, week, day, now, agent.InterestAccruedPayload{
			LoanID: loan.ID,
			Amount: interest,
		}))
	}
	return events
}

func monthlyTaxEvent(state agent.State, week, day int, now time.Time) event.Event {
	var revenue float64
	for _, loc := range state.Locations {
		revenue += loc.WeeklyRevenue * weeksPerMonth
	}
	const taxRate = 0.15
	amount := revenue * taxRate
	return newTickerEvent(state.ID, agent.EventTaxLiabilityCalculated, week, day, now, agent.TaxLiabilityCalculatedPayload{
		Amount: amount,
	})
}

func newTickerEvent(agentID string, eventType event.Type, week, day int, now time.Time, payload any) event.Event {
	return event.Event{
		ID:          uuid.NewString(),
		AgentID:     agentID,
		Type:        eventType,
		Owner:       event.OwnerTicker,
		Week:        week,
		Day:         day,
		Timestamp:   now,
		PayloadJSON: mustMarshal(payload),
	}
}

// mustMarshal panics on a marshal failure: every payload here is a plain Go
// struct built from already-valid state, so a failure means a programming
// bug, not a recoverable runtime condition.
func mustMarshal(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("ticker: marshal payload: %v", err))
	}
	return data
}

func loyaltyFactor(members int) float64 {
	return clamp01(1.0 + float64(members)/1000)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 2 {
		return 2
	}
	return v
}

// seedFor derives a deterministic PRNG seed from the facts that identify one
// random draw, so replaying the same agent/week/day/location/machine always
// reproduces the same roll (spec §8 determinism property), the same
// discipline the teacher's dice package documents for its Seed field.
func seedFor(parts ...string) int64 {
	h := fnv.New64a()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return int64(h.Sum64())
}

func sortedLocationIDs(m map[string]agent.LocationState) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedMachineIDs(m map[string]agent.MachineState) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedStaffIDs(m map[string]agent.StaffMember) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedServiceNames(m map[agent.ServiceName]float64) []agent.ServiceName {
	names := make([]agent.ServiceName, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
