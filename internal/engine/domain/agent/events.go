package agent

import (
	"encoding/json"

	"github.com/suds/laundromat/internal/engine/domain/event"
)

// Event type catalog (spec §6). Each kind has a fixed payload schema;
// registering one here is the whole cost of adding a kind — fold.go's
// dispatch table is the only other place that needs an entry.
const (
	EventAgentCreated event.Type = "AgentCreated"
	EventAgentRetired event.Type = "AgentRetired"
	EventTimeAdvanced event.Type = "TimeAdvanced"

	EventFundsTransferred       event.Type = "FundsTransferred"
	EventLoanTaken              event.Type = "LoanTaken"
	EventDebtPaymentProcessed   event.Type = "DebtPaymentProcessed"
	EventInterestAccrued        event.Type = "InterestAccrued"
	EventTaxLiabilityCalculated event.Type = "TaxLiabilityCalculated"
	EventWeeklyFixedCostsBilled event.Type = "WeeklyFixedCostsBilled"
	EventDailyRevenueProcessed  event.Type = "DailyRevenueProcessed"

	EventLocationOpened event.Type = "LocationOpened"
	EventLocationClosed event.Type = "LocationClosed"

	EventPriceSet              event.Type = "PriceSet"
	EventEquipmentPurchased    event.Type = "EquipmentPurchased"
	EventEquipmentSold         event.Type = "EquipmentSold"
	EventEquipmentRepaired     event.Type = "EquipmentRepaired"
	EventMachineWearUpdated    event.Type = "MachineWearUpdated"
	EventMachineStatusChanged  event.Type = "MachineStatusChanged"
	EventSuppliesPurchased     event.Type = "SuppliesPurchased"
	EventMarketingBoostApplied event.Type = "MarketingBoostApplied"

	EventStaffHired            event.Type = "StaffHired"
	EventStaffFired            event.Type = "StaffFired"
	EventStaffQuit             event.Type = "StaffQuit"
	EventStaffWageAdjusted     event.Type = "StaffWageAdjusted"
	EventStaffBenefitsProvided event.Type = "StaffBenefitsProvided"

	EventVendorNegotiationInitiated event.Type = "VendorNegotiationInitiated"
	EventVendorNegotiationResult    event.Type = "VendorNegotiationResult"
	EventVendorTermsUpdated         event.Type = "VendorTermsUpdated"
	EventVendorPriceFluctuated      event.Type = "VendorPriceFluctuated"
	EventDeliveryDisruptionStarted  event.Type = "DeliveryDisruptionStarted"
	EventDeliveryDisruptionEnded    event.Type = "DeliveryDisruptionEnded"
	EventExclusiveContractSigned    event.Type = "ExclusiveContractSigned"
	EventVendorContractCancelled    event.Type = "VendorContractCancelled"

	EventSocialScoreAdjusted event.Type = "SocialScoreAdjusted"
	EventCharityInitiated    event.Type = "CharityInitiated"
	EventEthicalChoiceMade   event.Type = "EthicalChoiceMade"

	EventRegulatoryFinding       event.Type = "RegulatoryFinding"
	EventRegulatoryStatusUpdated event.Type = "RegulatoryStatusUpdated"
	EventInvestigationStarted    event.Type = "InvestigationStarted"
	EventRegulatoryReportFiled   event.Type = "RegulatoryReportFiled"
	EventAppealFiled             event.Type = "AppealFiled"
	EventAppealResolved          event.Type = "AppealResolved"

	EventScandalStarted       event.Type = "ScandalStarted"
	EventScandalMarkerDecayed event.Type = "ScandalMarkerDecayed"
	EventFineIssued           event.Type = "FineIssued"
	EventFinePaid             event.Type = "FinePaid"
	EventAllianceFormed       event.Type = "AllianceFormed"
	EventAllianceBreached     event.Type = "AllianceBreached"

	EventCustomerReviewSubmitted event.Type = "CustomerReviewSubmitted"
	EventDilemmaTriggered        event.Type = "DilemmaTriggered"
	EventCompetitorPriceChanged  event.Type = "CompetitorPriceChanged"

	EventBuyoutProposed           event.Type = "BuyoutProposed"
	EventBuyoutAccepted           event.Type = "BuyoutAccepted"
	EventMessageSent              event.Type = "MessageSent"
	EventMessageReceived          event.Type = "MessageReceived"
	EventLoyaltyProgramSubscribed event.Type = "LoyaltyProgramSubscribed"
)

// FundsTransferKind classifies a FundsTransferred event's direction (spec
// §4.6).
type FundsTransferKind string

const (
	FundsKindRevenue FundsTransferKind = "REVENUE"
	FundsKindLoan    FundsTransferKind = "LOAN"
	FundsKindExpense FundsTransferKind = "EXPENSE"
	FundsKindPayment FundsTransferKind = "PAYMENT"
	FundsKindFine    FundsTransferKind = "FINE"
	FundsKindPenalty FundsTransferKind = "PENALTY"
)

// Payload structs. Each mirrors exactly the facts its reducer needs; fields
// are never reused across kinds even when two kinds share a shape, so a
// schema change to one kind can never silently affect another.

type AgentCreatedPayload struct {
	Name               string  `json:"name"`
	InitialCash        float64 `json:"initial_cash"`
	InitialCreditLimit float64 `json:"initial_credit_limit"`
}

type AgentRetiredPayload struct {
	Reason string `json:"reason"`
}

type TimeAdvancedPayload struct {
	NewWeek int `json:"new_week"`
	NewDay  int `json:"new_day"`
}

type FundsTransferredPayload struct {
	Kind        FundsTransferKind `json:"kind"`
	Amount      float64           `json:"amount"`
	Description string            `json:"description"`
}

type LoanTakenPayload struct {
	LoanID     string   `json:"loan_id"`
	Kind       LoanKind `json:"kind"`
	Principal  float64  `json:"principal"`
	RatePct    float64  `json:"rate_pct"`
	TermWeeks  int      `json:"term_weeks"`
	// LocationID is accepted on the wire but unused by the reducer (spec §9
	// open question: preserved rather than silently dropped).
	LocationID string `json:"location_id,omitempty"`
}

type DebtPaymentProcessedPayload struct {
	LoanID string  `json:"loan_id"`
	Amount float64 `json:"amount"`
}

type InterestAccruedPayload struct {
	LoanID string  `json:"loan_id"`
	Amount float64 `json:"amount"`
}

type TaxLiabilityCalculatedPayload struct {
	Amount float64 `json:"amount"`
}

type WeeklyFixedCostsBilledPayload struct {
	Rent      float64 `json:"rent"`
	Utilities float64 `json:"utilities"`
	Wages     float64 `json:"wages"`
	Total     float64 `json:"total"`
}

type DailyRevenueProcessedPayload struct {
	LocationID string                  `json:"location_id"`
	TotalLoads float64                 `json:"total_loads"`
	Revenue    float64                 `json:"revenue"`
	ByService  map[ServiceName]float64 `json:"by_service"`
}

type LocationOpenedPayload struct {
	LocationID  string  `json:"location_id"`
	Zone        string  `json:"zone"`
	MonthlyRent float64 `json:"monthly_rent"`
}

type LocationClosedPayload struct {
	LocationID string `json:"location_id"`
}

type PriceSetPayload struct {
	LocationID string      `json:"location_id"`
	Service    ServiceName `json:"service"`
	Price      float64     `json:"price"`
}

type EquipmentPurchasedPayload struct {
	LocationID string      `json:"location_id"`
	MachineID  string      `json:"machine_id"`
	Kind       MachineKind `json:"kind"`
	UnitPrice  float64     `json:"unit_price"`
	VendorID   string      `json:"vendor_id,omitempty"`
}

type EquipmentSoldPayload struct {
	LocationID string `json:"location_id"`
	MachineID  string `json:"machine_id"`
}

type EquipmentRepairedPayload struct {
	LocationID     string  `json:"location_id"`
	MachineID      string  `json:"machine_id"`
	ConditionDelta float64 `json:"condition_delta"`
	NewCondition   float64 `json:"new_condition,omitempty"`
}

type MachineWearUpdatedPayload struct {
	LocationID string        `json:"location_id"`
	MachineID  string        `json:"machine_id"`
	WearDelta  float64       `json:"wear_delta"`
	NewStatus  MachineStatus `json:"new_status,omitempty"`
}

type MachineStatusChangedPayload struct {
	LocationID string        `json:"location_id"`
	MachineID  string        `json:"machine_id"`
	NewStatus  MachineStatus `json:"new_status"`
}

type SuppliesPurchasedPayload struct {
	LocationID string  `json:"location_id"`
	Detergent  float64 `json:"detergent"`
	Softener   float64 `json:"softener"`
}

type MarketingBoostAppliedPayload struct {
	LocationID      string  `json:"location_id"`
	ServiceScope    string  `json:"service_scope"`
	BoostMultiplier float64 `json:"boost_multiplier"`
	DurationDays    int     `json:"duration_days"`
	CampaignType    string  `json:"campaign_type"`
}

type StaffHiredPayload struct {
	LocationID string    `json:"location_id"`
	StaffID    string    `json:"staff_id"`
	Name       string    `json:"name"`
	Role       StaffRole `json:"role"`
	HourlyRate float64   `json:"hourly_rate"`
}

type StaffFiredPayload struct {
	LocationID string `json:"location_id"`
	StaffID    string `json:"staff_id"`
}

type StaffQuitPayload struct {
	LocationID string `json:"location_id"`
	StaffID    string `json:"staff_id"`
}

type StaffWageAdjustedPayload struct {
	LocationID string  `json:"location_id"`
	StaffID    string  `json:"staff_id"`
	NewRate    float64 `json:"new_rate"`
}

type StaffBenefitsProvidedPayload struct {
	LocationID  string  `json:"location_id"`
	StaffID     string  `json:"staff_id"`
	MoraleDelta float64 `json:"morale_delta"`
}

type VendorNegotiationInitiatedPayload struct {
	LocationID        string  `json:"location_id"`
	VendorID          string  `json:"vendor_id"`
	RequestedDiscount float64 `json:"requested_discount"`
}

// NegotiationOutcome enumerates the deterministic outcome of a vendor
// negotiation (spec §4.5 NegotiateVendorDeal).
type NegotiationOutcome string

const (
	NegotiationAccept  NegotiationOutcome = "ACCEPT"
	NegotiationCounter NegotiationOutcome = "COUNTER"
	NegotiationReject  NegotiationOutcome = "REJECT"
)

type VendorNegotiationResultPayload struct {
	LocationID   string             `json:"location_id"`
	VendorID     string             `json:"vendor_id"`
	Outcome      NegotiationOutcome `json:"outcome"`
	NewUnitPrice float64            `json:"new_unit_price,omitempty"`
}

type VendorTermsUpdatedPayload struct {
	LocationID   string  `json:"location_id"`
	VendorID     string  `json:"vendor_id"`
	NewUnitPrice float64 `json:"new_unit_price"`
}

type VendorPriceFluctuatedPayload struct {
	LocationID   string  `json:"location_id"`
	VendorID     string  `json:"vendor_id"`
	NewUnitPrice float64 `json:"new_unit_price"`
}

type DeliveryDisruptionStartedPayload struct {
	LocationID string `json:"location_id"`
	VendorID   string `json:"vendor_id"`
}

type DeliveryDisruptionEndedPayload struct {
	LocationID string `json:"location_id"`
	VendorID   string `json:"vendor_id"`
}

type ExclusiveContractSignedPayload struct {
	LocationID string `json:"location_id"`
	VendorID   string `json:"vendor_id"`
	ExpiryWeek int    `json:"expiry_week"`
}

type VendorContractCancelledPayload struct {
	LocationID  string  `json:"location_id"`
	VendorID    string  `json:"vendor_id"`
	PenaltyPaid float64 `json:"penalty_paid"`
}

type SocialScoreAdjustedPayload struct {
	Delta  float64 `json:"delta"`
	Reason string  `json:"reason"`
}

type CharityInitiatedPayload struct {
	Amount float64 `json:"amount"`
	Cause  string  `json:"cause"`
}

type EthicalChoiceMadePayload struct {
	ChoiceID    string `json:"choice_id"`
	Description string `json:"description"`
}

type RegulatoryFindingPayload struct {
	FineID      string  `json:"fine_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	DueWeek     int     `json:"due_week"`
}

type RegulatoryStatusUpdatedPayload struct {
	NewStatus RegulatoryStatus `json:"new_status"`
	Reason    string           `json:"reason"`
}

type InvestigationStartedPayload struct {
	InvestigationID string `json:"investigation_id"`
	Reason          string `json:"reason"`
}

type RegulatoryReportFiledPayload struct {
	ReportID string `json:"report_id"`
	Subject  string `json:"subject"`
}

type AppealFiledPayload struct {
	FineID string `json:"fine_id"`
}

type AppealResolvedPayload struct {
	FineID string `json:"fine_id"`
	Upheld bool   `json:"upheld"`
}

type ScandalStartedPayload struct {
	ScandalID     string  `json:"scandal_id"`
	Description   string  `json:"description"`
	Severity      float64 `json:"severity"`
	DurationWeeks int     `json:"duration_weeks"`
	DecayRate     float64 `json:"decay_rate"`
}

type ScandalMarkerDecayedPayload struct {
	ScandalID string  `json:"scandal_id"`
	Decay     float64 `json:"decay"`
}

type FineIssuedPayload struct {
	FineID      string  `json:"fine_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	DueWeek     int     `json:"due_week"`
}

type FinePaidPayload struct {
	FineID string `json:"fine_id"`
}

type AllianceFormedPayload struct {
	AllianceID     string       `json:"alliance_id"`
	PartnerAgentID string       `json:"partner_agent_id"`
	Kind           AllianceKind `json:"kind"`
}

type AllianceBreachedPayload struct {
	AllianceID string `json:"alliance_id"`
}

type CustomerReviewSubmittedPayload struct {
	LocationID string  `json:"location_id"`
	Rating     float64 `json:"rating"`
}

type DilemmaTriggeredPayload struct {
	DilemmaID   string `json:"dilemma_id"`
	Description string `json:"description"`
}

type CompetitorPriceChangedPayload struct {
	LocationID string      `json:"location_id"`
	Service    ServiceName `json:"service"`
	NewPrice   float64     `json:"new_price"`
}

type BuyoutProposedPayload struct {
	ProposalID     string  `json:"proposal_id"`
	CounterpartyID string  `json:"counterparty_id"`
	Amount         float64 `json:"amount"`
}

type BuyoutAcceptedPayload struct {
	ProposalID string `json:"proposal_id"`
}

type MessageSentPayload struct {
	RecipientAgentID string `json:"recipient_agent_id"`
	Content          string `json:"content"`
}

type MessageReceivedPayload struct {
	SenderAgentID string `json:"sender_agent_id"`
	Content       string `json:"content"`
}

type LoyaltyProgramSubscribedPayload struct {
	LocationID string `json:"location_id"`
	Members    int    `json:"members"`
}

// RegisterEvents registers every event kind this domain produces.
func RegisterEvents(registry *event.Registry) error {
	defs := []event.Definition{
		{Type: EventAgentCreated, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[AgentCreatedPayload]},
		{Type: EventAgentRetired, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[AgentRetiredPayload]},
		{Type: EventTimeAdvanced, Owner: event.OwnerTicker, ValidatePayload: unmarshalOnly[TimeAdvancedPayload]},
		{Type: EventFundsTransferred, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[FundsTransferredPayload]},
		{Type: EventLoanTaken, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[LoanTakenPayload]},
		{Type: EventDebtPaymentProcessed, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[DebtPaymentProcessedPayload]},
		{Type: EventInterestAccrued, Owner: event.OwnerTicker, ValidatePayload: unmarshalOnly[InterestAccruedPayload]},
		{Type: EventTaxLiabilityCalculated, Owner: event.OwnerTicker, ValidatePayload: unmarshalOnly[TaxLiabilityCalculatedPayload]},
		{Type: EventWeeklyFixedCostsBilled, Owner: event.OwnerTicker, ValidatePayload: unmarshalOnly[WeeklyFixedCostsBilledPayload]},
		{Type: EventDailyRevenueProcessed, Owner: event.OwnerTicker, ValidatePayload: unmarshalOnly[DailyRevenueProcessedPayload]},
		{Type: EventLocationOpened, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[LocationOpenedPayload]},
		{Type: EventLocationClosed, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[LocationClosedPayload]},
		{Type: EventPriceSet, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[PriceSetPayload]},
		{Type: EventEquipmentPurchased, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[EquipmentPurchasedPayload]},
		{Type: EventEquipmentSold, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[EquipmentSoldPayload]},
		{Type: EventEquipmentRepaired, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[EquipmentRepairedPayload]},
		{Type: EventMachineWearUpdated, Owner: event.OwnerTicker, ValidatePayload: unmarshalOnly[MachineWearUpdatedPayload]},
		{Type: EventMachineStatusChanged, Owner: event.OwnerTicker, ValidatePayload: unmarshalOnly[MachineStatusChangedPayload]},
		{Type: EventSuppliesPurchased, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[SuppliesPurchasedPayload]},
		{Type: EventMarketingBoostApplied, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[MarketingBoostAppliedPayload]},
		{Type: EventStaffHired, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[StaffHiredPayload]},
		{Type: EventStaffFired, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[StaffFiredPayload]},
		{Type: EventStaffQuit, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[StaffQuitPayload]},
		{Type: EventStaffWageAdjusted, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[StaffWageAdjustedPayload]},
		{Type: EventStaffBenefitsProvided, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[StaffBenefitsProvidedPayload]},
		{Type: EventVendorNegotiationInitiated, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[VendorNegotiationInitiatedPayload]},
		{Type: EventVendorNegotiationResult, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[VendorNegotiationResultPayload]},
		{Type: EventVendorTermsUpdated, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[VendorTermsUpdatedPayload]},
		{Type: EventVendorPriceFluctuated, Owner: event.OwnerGameMaster, ValidatePayload: unmarshalOnly[VendorPriceFluctuatedPayload]},
		{Type: EventDeliveryDisruptionStarted, Owner: event.OwnerGameMaster, ValidatePayload: unmarshalOnly[DeliveryDisruptionStartedPayload]},
		{Type: EventDeliveryDisruptionEnded, Owner: event.OwnerGameMaster, ValidatePayload: unmarshalOnly[DeliveryDisruptionEndedPayload]},
		{Type: EventExclusiveContractSigned, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[ExclusiveContractSignedPayload]},
		{Type: EventVendorContractCancelled, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[VendorContractCancelledPayload]},
		{Type: EventSocialScoreAdjusted, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[SocialScoreAdjustedPayload]},
		{Type: EventCharityInitiated, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[CharityInitiatedPayload]},
		{Type: EventEthicalChoiceMade, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[EthicalChoiceMadePayload]},
		{Type: EventRegulatoryFinding, Owner: event.OwnerRegulator, ValidatePayload: unmarshalOnly[RegulatoryFindingPayload]},
		{Type: EventRegulatoryStatusUpdated, Owner: event.OwnerRegulator, ValidatePayload: unmarshalOnly[RegulatoryStatusUpdatedPayload]},
		{Type: EventInvestigationStarted, Owner: event.OwnerRegulator, ValidatePayload: unmarshalOnly[InvestigationStartedPayload]},
		{Type: EventRegulatoryReportFiled, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[RegulatoryReportFiledPayload]},
		{Type: EventAppealFiled, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[AppealFiledPayload]},
		{Type: EventAppealResolved, Owner: event.OwnerRegulator, ValidatePayload: unmarshalOnly[AppealResolvedPayload]},
		{Type: EventScandalStarted, Owner: event.OwnerGameMaster, ValidatePayload: unmarshalOnly[ScandalStartedPayload]},
		{Type: EventScandalMarkerDecayed, Owner: event.OwnerTicker, ValidatePayload: unmarshalOnly[ScandalMarkerDecayedPayload]},
		{Type: EventFineIssued, Owner: event.OwnerRegulator, ValidatePayload: unmarshalOnly[FineIssuedPayload]},
		{Type: EventFinePaid, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[FinePaidPayload]},
		{Type: EventAllianceFormed, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[AllianceFormedPayload]},
		{Type: EventAllianceBreached, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[AllianceBreachedPayload]},
		{Type: EventCustomerReviewSubmitted, Owner: event.OwnerGameMaster, ValidatePayload: unmarshalOnly[CustomerReviewSubmittedPayload]},
		{Type: EventDilemmaTriggered, Owner: event.OwnerGameMaster, ValidatePayload: unmarshalOnly[DilemmaTriggeredPayload]},
		{Type: EventCompetitorPriceChanged, Owner: event.OwnerGameMaster, ValidatePayload: unmarshalOnly[CompetitorPriceChangedPayload]},
		{Type: EventBuyoutProposed, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[BuyoutProposedPayload]},
		{Type: EventBuyoutAccepted, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[BuyoutAcceptedPayload]},
		{Type: EventMessageSent, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[MessageSentPayload]},
		{Type: EventMessageReceived, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[MessageReceivedPayload]},
		{Type: EventLoyaltyProgramSubscribed, Owner: event.OwnerCommand, ValidatePayload: unmarshalOnly[LoyaltyProgramSubscribedPayload]},
	}
	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// unmarshalOnly builds a PayloadValidator that only checks the payload
// unmarshals into T. Most event kinds in this catalog carry facts already
// computed and validated by their producing handler/ticker/adjudicator, so
// re-validating business rules here would duplicate that logic instead of
// trusting the producer — the registry's job at this point is schema
// shape, not business policy.
func unmarshalOnly[T any](raw json.RawMessage) error {
	var payload T
	return json.Unmarshal(raw, &payload)
}

// EmittableEventTypes lists every event type this domain may append,
// mirroring the teacher's CoreDomain.EmittableEventTypes for startup
// coverage validation.
func EmittableEventTypes() []event.Type {
	return []event.Type{
		EventAgentCreated, EventAgentRetired, EventTimeAdvanced,
		EventFundsTransferred, EventLoanTaken, EventDebtPaymentProcessed,
		EventInterestAccrued, EventTaxLiabilityCalculated, EventWeeklyFixedCostsBilled,
		EventDailyRevenueProcessed, EventLocationOpened, EventLocationClosed,
		EventPriceSet, EventEquipmentPurchased, EventEquipmentSold, EventEquipmentRepaired,
		EventMachineWearUpdated, EventMachineStatusChanged, EventSuppliesPurchased,
		EventMarketingBoostApplied, EventStaffHired, EventStaffFired, EventStaffQuit,
		EventStaffWageAdjusted, EventStaffBenefitsProvided,
		EventVendorNegotiationInitiated, EventVendorNegotiationResult, EventVendorTermsUpdated,
		EventVendorPriceFluctuated, EventDeliveryDisruptionStarted, EventDeliveryDisruptionEnded,
		EventExclusiveContractSigned, EventVendorContractCancelled,
		EventSocialScoreAdjusted, EventCharityInitiated, EventEthicalChoiceMade,
		EventRegulatoryFinding, EventRegulatoryStatusUpdated, EventInvestigationStarted,
		EventRegulatoryReportFiled, EventAppealFiled, EventAppealResolved,
		EventScandalStarted, EventScandalMarkerDecayed, EventFineIssued, EventFinePaid,
		EventAllianceFormed, EventAllianceBreached,
		EventCustomerReviewSubmitted, EventDilemmaTriggered, EventCompetitorPriceChanged,
		EventBuyoutProposed, EventBuyoutAccepted, EventMessageSent, EventMessageReceived,
		EventLoyaltyProgramSubscribed,
	}
}
