// Package gamemaster synthesizes the narrative and market-color events spec
// §4.7/§9 attribute to a game-master adjudicator rather than the ticker:
// customer reviews, vendor price swings, delivery disruptions, competitor
// price moves, and narrative dilemmas. Like the ticker, every roll is seeded
// off (agent, week, day, ...) so replay reproduces the same narrative beats
// (spec §8 determinism), grounded on the teacher's dice package idiom.
//
// Dilemma triggering is data-driven: each catalog entry carries a small Lua
// boolean expression evaluated against the agent's current facts, using the
// same github.com/Shopify/go-lua the teacher embeds for its scenario
// scripting — here put to runtime use instead of test fixtures.
package gamemaster

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"strconv"
	"time"

	lua "github.com/Shopify/go-lua"
	"github.com/google/uuid"

	"github.com/suds/laundromat/internal/engine/domain/agent"
	"github.com/suds/laundromat/internal/engine/domain/event"
)

// Chance constants tune how often each narrative beat fires per
// agent/location/day. Values are small because Generate runs once per
// simulated day; over a long run they still produce a believable cadence of
// reviews, price swings, and dilemmas.
const (
	chanceCustomerReview         = 0.30
	chanceVendorPriceFluctuation = 0.10
	chanceDisruptionStart        = 0.03
	chanceDisruptionEnd          = 0.25
	chanceCompetitorPriceChange  = 0.08
)

// dilemmaSpec is one catalog entry: Predicate is a Lua expression evaluated
// against facts (see factsForState) that must evaluate true for the dilemma
// to be eligible, Weight is the further random chance it actually fires once
// eligible.
type dilemmaSpec struct {
	ID          string
	Description string
	Predicate   string
	Weight      float64
}

// dilemmaCatalog is the fixed set of narrative forks the game master can
// surface. Catalog order is part of the seed, so do not reorder entries
// without accepting that existing replays will draw different outcomes.
var dilemmaCatalog = []dilemmaSpec{
	{
		ID:          "cashflow-crunch",
		Description: "A regular customer offers to prepay a month of wash-and-fold if you discount it 20% today.",
		Predicate:   "cash < 2000",
		Weight:      0.35,
	},
	{
		ID:          "supplier-kickback",
		Description: "A vendor rep offers a private kickback for exclusivity instead of the contract on file.",
		Predicate:   "true",
		Weight:      0.05,
	},
	{
		ID:          "staff-whistleblower",
		Description: "An attendant asks you to look the other way on a safety violation to avoid a costly fix.",
		Predicate:   "regulatory_status == \"WARNING\" or regulatory_status == \"UNDER_INVESTIGATION\"",
		Weight:      0.20,
	},
	{
		ID:          "community-fundraiser",
		Description: "A neighborhood association asks you to sponsor a fundraiser in exchange for a banner out front.",
		Predicate:   "social_score > 0",
		Weight:      0.15,
	},
	{
		ID:          "rival-sabotage-tip",
		Description: "An anonymous tip claims a rival is undercutting you with unsafe equipment.",
		Predicate:   "scandal_count == 0",
		Weight:      0.08,
	},
}

// scandalSpec is a fixed narrative template the game master can instantiate
// as ScandalStarted when its predicate holds.
type scandalSpec struct {
	ID            string
	Description   string
	Predicate     string
	Severity      float64
	DurationWeeks int
	DecayRate     float64
	Weight        float64
}

var scandalCatalog = []scandalSpec{
	{
		ID:            "health-code-complaint",
		Description:   "A customer posts photos alleging mold in a wash basin.",
		Predicate:     "cleanliness_min < 40",
		Severity:      25,
		DurationWeeks: 6,
		DecayRate:     4,
		Weight:        0.12,
	},
	{
		ID:            "wage-theft-allegation",
		Description:   "A former employee alleges unpaid overtime on social media.",
		Predicate:     "regulatory_status == \"UNDER_INVESTIGATION\"",
		Severity:      35,
		DurationWeeks: 8,
		DecayRate:     3,
		Weight:        0.10,
	},
}

// Generate synthesizes one day's worth of game-master events for state,
// stamped at week/day/now. It never mutates state directly — callers fold
// the returned events through the same validate/append/fold path a
// command's events take.
func Generate(state agent.State, week, day int, now time.Time) ([]event.Event, error) {
	var events []event.Event

	for _, locID := range sortedLocationIDs(state.Locations) {
		loc := state.Locations[locID]
		events = append(events, customerReviewEvents(state.ID, locID, loc, week, day, now)...)
		events = append(events, vendorEvents(state.ID, locID, loc, week, day, now)...)
		events = append(events, competitorPriceEvents(state.ID, locID, loc, week, day, now)...)
	}

	dilemmaEvts, err := dilemmaEvents(state, week, day, now)
	if err != nil {
		return nil, fmt.Errorf("evaluate dilemma catalog: %w", err)
	}
	events = append(events, dilemmaEvts...)

	scandalEvts, err := scandalEvents(state, week, day, now)
	if err != nil {
		return nil, fmt.Errorf("evaluate scandal catalog: %w", err)
	}
	events = append(events, scandalEvts...)

	return events, nil
}

func customerReviewEvents(agentID, locationID string, loc agent.LocationState, week, day int, now time.Time) []event.Event {
	rng := rand.New(rand.NewSource(seedFor(agentID, strconv.Itoa(week), strconv.Itoa(day), locationID, "review")))
	if rng.Float64() >= chanceCustomerReview {
		return nil
	}
	base := 3.0 + (loc.Cleanliness-50)/25
	rating := clampRating(base + (rng.Float64()*2 - 1))
	return []event.Event{newGMEvent(agentID, agent.EventCustomerReviewSubmitted, week, day, now, agent.CustomerReviewSubmittedPayload{
		LocationID: locationID,
		Rating:     rating,
	})}
}

func vendorEvents(agentID, locationID string, loc agent.LocationState, week, day int, now time.Time) []event.Event {
	var events []event.Event
	for _, vendorID := range sortedVendorIDs(loc.VendorRelationships) {
		rel := loc.VendorRelationships[vendorID]
		rng := rand.New(rand.NewSource(seedFor(agentID, strconv.Itoa(week), strconv.Itoa(day), locationID, vendorID)))

		if rel.Disrupted {
			if rng.Float64() < chanceDisruptionEnd {
				events = append(events, newGMEvent(agentID, agent.EventDeliveryDisruptionEnded, week, day, now, agent.DeliveryDisruptionEndedPayload{
					LocationID: locationID,
					VendorID:   vendorID,
				}))
			}
			continue
		}
		if rng.Float64() < chanceDisruptionStart {
			events = append(events, newGMEvent(agentID, agent.EventDeliveryDisruptionStarted, week, day, now, agent.DeliveryDisruptionStartedPayload{
				LocationID: locationID,
				VendorID:   vendorID,
			}))
			continue
		}
		if rng.Float64() < chanceVendorPriceFluctuation {
			swing := 0.85 + rng.Float64()*0.3
			events = append(events, newGMEvent(agentID, agent.EventVendorPriceFluctuated, week, day, now, agent.VendorPriceFluctuatedPayload{
				LocationID:   locationID,
				VendorID:     vendorID,
				NewUnitPrice: rel.UnitPrice * swing,
			}))
		}
	}
	return events
}

func competitorPriceEvents(agentID, locationID string, loc agent.LocationState, week, day int, now time.Time) []event.Event {
	var events []event.Event
	for _, svc := range sortedServiceNames(loc.CompetitorPrices) {
		current := loc.CompetitorPrices[svc]
		if current <= 0 {
			continue
		}
		rng := rand.New(rand.NewSource(seedFor(agentID, strconv.Itoa(week), strconv.Itoa(day), locationID, string(svc), "competitor")))
		if rng.Float64() >= chanceCompetitorPriceChange {
			continue
		}
		newPrice := current * (0.9 + rng.Float64()*0.2)
		events = append(events, newGMEvent(agentID, agent.EventCompetitorPriceChanged, week, day, now, agent.CompetitorPriceChangedPayload{
			LocationID: locationID,
			Service:    svc,
			NewPrice:   newPrice,
		}))
	}
	return events
}

func dilemmaEvents(state agent.State, week, day int, now time.Time) ([]event.Event, error) {
	facts := factsForState(state)
	var events []event.Event
	for _, spec := range dilemmaCatalog {
		if _, active := state.ActiveDilemmas[spec.ID]; active {
			continue
		}
		eligible, err := evalPredicate(spec.Predicate, facts)
		if err != nil {
			return nil, fmt.Errorf("dilemma %s: %w", spec.ID, err)
		}
		if !eligible {
			continue
		}
		rng := rand.New(rand.NewSource(seedFor(state.ID, strconv.Itoa(week), strconv.Itoa(day), "dilemma", spec.ID)))
		if rng.Float64() >= spec.Weight {
			continue
		}
		events = append(events, newGMEvent(state.ID, agent.EventDilemmaTriggered, week, day, now, agent.DilemmaTriggeredPayload{
			DilemmaID:   fmt.Sprintf("%s-%s", spec.ID, uuid.NewString()),
			Description: spec.Description,
		}))
	}
	return events, nil
}

func scandalEvents(state agent.State, week, day int, now time.Time) ([]event.Event, error) {
	facts := factsForState(state)
	var events []event.Event
	for _, spec := range scandalCatalog {
		eligible, err := evalPredicate(spec.Predicate, facts)
		if err != nil {
			return nil, fmt.Errorf("scandal %s: %w", spec.ID, err)
		}
		if !eligible {
			continue
		}
		rng := rand.New(rand.NewSource(seedFor(state.ID, strconv.Itoa(week), strconv.Itoa(day), "scandal", spec.ID)))
		if rng.Float64() >= spec.Weight {
			continue
		}
		events = append(events, newGMEvent(state.ID, agent.EventScandalStarted, week, day, now, agent.ScandalStartedPayload{
			ScandalID:     fmt.Sprintf("%s-%s", spec.ID, uuid.NewString()),
			Description:   spec.Description,
			Severity:      spec.Severity,
			DurationWeeks: spec.DurationWeeks,
			DecayRate:     spec.DecayRate,
		}))
	}
	return events, nil
}

// factsForState projects the agent facts a dilemma/scandal predicate may
// reference. Keeping this list explicit (rather than exposing the whole
// State to Lua) keeps the scripting surface small and auditable.
func factsForState(state agent.State) map[string]any {
	cleanlinessMin := 100.0
	for _, loc := range state.Locations {
		if loc.Cleanliness < cleanlinessMin {
			cleanlinessMin = loc.Cleanliness
		}
	}
	if len(state.Locations) == 0 {
		cleanlinessMin = 100
	}
	return map[string]any{
		"cash":                state.Cash,
		"social_score":        state.SocialScore,
		"scandal_count":       len(state.ActiveScandals),
		"regulatory_status":   string(state.RegulatoryStatus),
		"week":                state.Week,
		"location_count":      len(state.Locations),
		"cleanliness_min":     cleanlinessMin,
		"total_debt":          state.TotalDebt,
	}
}

// evalPredicate runs expr as a Lua chunk of the form "return <expr>" with
// facts bound as global variables, and requires a boolean result.
func evalPredicate(expr string, facts map[string]any) (bool, error) {
	state := lua.NewState()
	lua.OpenLibraries(state)
	for key, value := range facts {
		pushValue(state, value)
		state.SetGlobal(key)
	}
	if err := lua.LoadString(state, "return "+expr); err != nil {
		return false, fmt.Errorf("lua predicate %q: load: %w", expr, err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return false, fmt.Errorf("lua predicate %q: run: %w", expr, err)
	}
	b := state.ToBoolean(-1)
	state.Pop(1)
	return b, nil
}

func pushValue(state *lua.State, value any) {
	switch v := value.(type) {
	case string:
		state.PushString(v)
	case int:
		state.PushInteger(v)
	case float64:
		state.PushNumber(v)
	case bool:
		state.PushBoolean(v)
	default:
		state.PushNil()
	}
}

func newGMEvent(agentID string, eventType event.Type, week, day int, now time.Time, payload any) event.Event {
	return event.Event{
		ID:          uuid.NewString(),
		AgentID:     agentID,
		Type:        eventType,
		Owner:       event.OwnerGameMaster,
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
		panic(fmt.Sprintf("gamemaster: marshal payload: %v", err))
	}
	return data
}

func clampRating(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

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

func sortedVendorIDs(m map[string]agent.VendorRelationship) []string {
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
