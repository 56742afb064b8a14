// Package agent implements the laundromat-tycoon aggregate: one player
// agent's entire simulated business (cash, locations, staff, equipment,
// vendors, reputation, and regulatory standing), folded from that agent's
// event stream (spec §3).
package agent

// RegulatoryStatus tracks an agent's standing with the regulator.
type RegulatoryStatus string

const (
	RegulatoryStatusNormal             RegulatoryStatus = "NORMAL"
	RegulatoryStatusWarning            RegulatoryStatus = "WARNING"
	RegulatoryStatusUnderInvestigation RegulatoryStatus = "UNDER_INVESTIGATION"
	RegulatoryStatusPenalized          RegulatoryStatus = "PENALIZED"
)

// MachineKind enumerates equipment kinds.
type MachineKind string

const (
	MachineKindWasher  MachineKind = "WASHER"
	MachineKindDryer   MachineKind = "DRYER"
	MachineKindVending MachineKind = "VENDING"
)

// MachineStatus tracks a machine's operability.
type MachineStatus string

const (
	MachineStatusOperational MachineStatus = "OPERATIONAL"
	MachineStatusBroken      MachineStatus = "BROKEN"
	MachineStatusInRepair    MachineStatus = "IN_REPAIR"
)

// StaffRole enumerates staff roles.
type StaffRole string

const (
	StaffRoleAttendant  StaffRole = "ATTENDANT"
	StaffRoleTechnician StaffRole = "TECHNICIAN"
	StaffRoleManager    StaffRole = "MANAGER"
)

// LoanKind enumerates loan products, each with a fixed rate/term (spec
// §4.5 TakeLoan).
type LoanKind string

const (
	LoanKindLOC       LoanKind = "LOC"
	LoanKindEquipment LoanKind = "EQUIPMENT"
	LoanKindExpansion LoanKind = "EXPANSION"
	LoanKindEmergency LoanKind = "EMERGENCY"
)

// AllianceKind enumerates inter-agent alliance formality.
type AllianceKind string

const (
	AllianceKindInformal AllianceKind = "INFORMAL"
	AllianceKindFormal   AllianceKind = "FORMAL"
)

// FineStatus tracks a regulatory fine's lifecycle.
type FineStatus string

const (
	FineStatusOpen     FineStatus = "OPEN"
	FineStatusPaid     FineStatus = "PAID"
	FineStatusAppealed FineStatus = "APPEALED"
)

// ServiceName enumerates the priceable services (spec §4.5 SetPrice).
type ServiceName string

const (
	ServiceStandardWash ServiceName = "StandardWash"
	ServicePremiumWash  ServiceName = "PremiumWash"
	ServiceDry          ServiceName = "Dry"
	ServiceVendingItems ServiceName = "VendingItems"
)

// Loan is an outstanding debt obligation.
type Loan struct {
	ID          string
	Kind        LoanKind
	Principal   float64
	Outstanding float64
	RatePct     float64
	TermWeeks   int
	IssuedWeek  int
}

// Dilemma is an open narrative choice injected by the game master.
type Dilemma struct {
	ID            string
	Description   string
	TriggeredWeek int
}

// Listing is an available expansion-location opportunity.
type Listing struct {
	ID          string
	Zone        string
	Description string
	AskingPrice float64
}

// ScandalMarker is a decaying reputational event (spec §3).
type ScandalMarker struct {
	ID            string
	Description   string
	Severity      float64
	StartWeek     int
	DurationWeeks int
	DecayRate     float64
}

// Fine is a regulator-issued monetary penalty.
type Fine struct {
	ID          string
	Description string
	Amount      float64
	IssuedWeek  int
	DueWeek     int
	Status      FineStatus
}

// Alliance is a cooperative relationship with another agent.
type Alliance struct {
	ID             string
	PartnerAgentID string
	Kind           AllianceKind
	StartWeek      int
}

// StaffMember is one employee at a location.
type StaffMember struct {
	ID          string
	Name        string
	Role        StaffRole
	HourlyRate  float64
	Morale      float64
	TenureWeeks int
}

// MachineState is a single piece of equipment at a location.
type MachineState struct {
	ID                         string
	Kind                       MachineKind
	Status                     MachineStatus
	Condition                  float64
	LoadsProcessedSinceService int
}

// VendorRelationship tracks one supply vendor's terms at a location.
type VendorRelationship struct {
	ID                  string
	Tier                int
	WeeksAtTier         int
	PaymentHistory      []float64
	ExclusiveContract   bool
	ExclusiveExpiryWeek int
	UnitPrice           float64
	Disrupted           bool
}

// paymentHistoryCap bounds VendorRelationship.PaymentHistory to a tail
// window; older entries are dropped on push (spec "bounded tail").
const paymentHistoryCap = 12

func pushPaymentHistory(history []float64, score float64) []float64 {
	updated := append(append([]float64(nil), history...), score)
	if len(updated) > paymentHistoryCap {
		updated = updated[len(updated)-paymentHistoryCap:]
	}
	return updated
}

// MarketingBoost is an active promotional campaign at a location. This is
// the canonical shape resolving the MarketingBoostApplied field-shape
// question left open by spec §9: handler and reducer share this one struct.
type MarketingBoost struct {
	ServiceScope          string
	BoostMultiplier       float64
	DurationDaysRemaining int
	CampaignType          string
}

// LocationState is a single laundromat location (spec §3).
type LocationState struct {
	ID                  string
	Zone                string
	MonthlyRent         float64
	Cleanliness         float64
	Equipment           map[string]MachineState
	InventoryDetergent  float64
	InventorySoftener   float64
	Staff               map[string]StaffMember
	ActivePricing       map[ServiceName]float64
	CompetitorPrices    map[ServiceName]float64
	VendorRelationships map[string]VendorRelationship
	WeeklyRevenue       float64
	WeeklyCOGS          float64
	MarketingBoost      *MarketingBoost
	LoyaltyMembers      int
}

// cloneLocation deepcopies a location so reducers never let two state
// snapshots share mutable subtrees (spec §3 "deepcopy-on-write").
func cloneLocation(loc LocationState) LocationState {
	clone := loc
	clone.Equipment = cloneMachineMap(loc.Equipment)
	clone.Staff = cloneStaffMap(loc.Staff)
	clone.ActivePricing = clonePriceMap(loc.ActivePricing)
	clone.CompetitorPrices = clonePriceMap(loc.CompetitorPrices)
	clone.VendorRelationships = cloneVendorMap(loc.VendorRelationships)
	if loc.MarketingBoost != nil {
		boost := *loc.MarketingBoost
		clone.MarketingBoost = &boost
	}
	return clone
}

func cloneMachineMap(m map[string]MachineState) map[string]MachineState {
	if m == nil {
		return nil
	}
	out := make(map[string]MachineState, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneStaffMap(m map[string]StaffMember) map[string]StaffMember {
	if m == nil {
		return nil
	}
	out := make(map[string]StaffMember, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func clonePriceMap(m map[ServiceName]float64) map[ServiceName]float64 {
	if m == nil {
		return nil
	}
	out := make(map[ServiceName]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneVendorMap(m map[string]VendorRelationship) map[string]VendorRelationship {
	if m == nil {
		return nil
	}
	out := make(map[string]VendorRelationship, len(m))
	for k, v := range m {
		v.PaymentHistory = append([]float64(nil), v.PaymentHistory...)
		out[k] = v
	}
	return out
}

// State is the full per-agent aggregate snapshot (spec §3 AgentState).
type State struct {
	ID   string
	Name string
	Week int
	Day  int
	Cash float64

	CreditLineBalance float64
	CreditLineLimit   float64
	TotalDebt         float64
	Loans             []Loan

	SocialScore float64

	ActiveScandals []ScandalMarker
	ActiveDilemmas map[string]Dilemma

	LoyaltyMembers   int
	MarketShareLoads float64
	TaxLiability     float64

	RegulatoryStatus     RegulatoryStatus
	ActiveInvestigations []string
	// CreditRating is bounded [0,100] (spec §3); TakeLoan checks it against a
	// kind-specific floor and LoanTaken adjusts it per a fixed schedule.
	CreditRating float64

	ActiveAlliances []Alliance
	PendingFines    []Fine

	Locations         map[string]LocationState
	AvailableListings map[string]Listing

	PrivateNotes    []string
	LastAuditMarker string
}

// New returns a zero-value agent State with initialized maps, ready to
// receive AgentCreated.
func New() State {
	return State{
		ActiveDilemmas:    make(map[string]Dilemma),
		Locations:         make(map[string]LocationState),
		AvailableListings: make(map[string]Listing),
		RegulatoryStatus:  RegulatoryStatusNormal,
	}
}

// clone deepcopies state so reducers never hand out a snapshot whose
// subtrees a caller could mutate out from under a later fold.
func (s State) clone() State {
	out := s
	out.Loans = append([]Loan(nil), s.Loans...)
	out.ActiveScandals = append([]ScandalMarker(nil), s.ActiveScandals...)
	out.ActiveInvestigations = append([]string(nil), s.ActiveInvestigations...)
	out.ActiveAlliances = append([]Alliance(nil), s.ActiveAlliances...)
	out.PendingFines = append([]Fine(nil), s.PendingFines...)
	out.PrivateNotes = append([]string(nil), s.PrivateNotes...)

	out.ActiveDilemmas = make(map[string]Dilemma, len(s.ActiveDilemmas))
	for k, v := range s.ActiveDilemmas {
		out.ActiveDilemmas[k] = v
	}
	out.AvailableListings = make(map[string]Listing, len(s.AvailableListings))
	for k, v := range s.AvailableListings {
		out.AvailableListings[k] = v
	}
	out.Locations = make(map[string]LocationState, len(s.Locations))
	for k, v := range s.Locations {
		out.Locations[k] = cloneLocation(v)
	}
	return out
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
