package agent

import (
	"encoding/json"
	"errors"

	"github.com/suds/laundromat/internal/engine/domain/command"
)

// Command type catalog (spec §6's canonical command kinds), plus
// CREATE_AGENT, needed to bootstrap an agent stream but not enumerated in
// the spec's player-facing catalog.
const (
	CommandCreateAgent             command.Type = "CREATE_AGENT"
	CommandSetPrice                command.Type = "SET_PRICE"
	CommandTakeLoan                command.Type = "TAKE_LOAN"
	CommandMakeDebtPayment         command.Type = "MAKE_DEBT_PAYMENT"
	CommandInvestInMarketing       command.Type = "INVEST_IN_MARKETING"
	CommandBuyEquipment            command.Type = "BUY_EQUIPMENT"
	CommandSellEquipment           command.Type = "SELL_EQUIPMENT"
	CommandPerformMaintenance      command.Type = "PERFORM_MAINTENANCE"
	CommandFixMachine              command.Type = "FIX_MACHINE"
	CommandBuySupplies             command.Type = "BUY_SUPPLIES"
	CommandOpenNewLocation         command.Type = "OPEN_NEW_LOCATION"
	CommandHireStaff               command.Type = "HIRE_STAFF"
	CommandFireStaff               command.Type = "FIRE_STAFF"
	CommandAdjustStaffWage         command.Type = "ADJUST_STAFF_WAGE"
	CommandProvideBenefits         command.Type = "PROVIDE_BENEFITS"
	CommandNegotiateVendorDeal     command.Type = "NEGOTIATE_VENDOR_DEAL"
	CommandSignExclusiveContract   command.Type = "SIGN_EXCLUSIVE_CONTRACT"
	CommandCancelVendorContract    command.Type = "CANCEL_VENDOR_CONTRACT"
	CommandInitiateCharity         command.Type = "INITIATE_CHARITY"
	CommandResolveScandal          command.Type = "RESOLVE_SCANDAL"
	CommandMakeEthicalChoice       command.Type = "MAKE_ETHICAL_CHOICE"
	CommandFileRegulatoryReport    command.Type = "FILE_REGULATORY_REPORT"
	CommandFileAppeal              command.Type = "FILE_APPEAL"
	CommandSubscribeLoyaltyProgram command.Type = "SUBSCRIBE_LOYALTY_PROGRAM"
	CommandEnterAlliance           command.Type = "ENTER_ALLIANCE"
	CommandProposeBuyout           command.Type = "PROPOSE_BUYOUT"
	CommandAcceptBuyoutOffer       command.Type = "ACCEPT_BUYOUT_OFFER"
	CommandCommunicateToAgent      command.Type = "COMMUNICATE_TO_AGENT"
)

// Command payloads. One struct per kind, matching the fields a decider
// needs to validate and decide — never shared across kinds.

type CreateAgentPayload struct {
	Name               string  `json:"name"`
	InitialCash        float64 `json:"initial_cash"`
	InitialCreditLimit float64 `json:"initial_credit_limit"`
}

type SetPricePayload struct {
	LocationID string      `json:"location_id"`
	Service    ServiceName `json:"service"`
	Price      float64     `json:"price"`
}

type TakeLoanPayload struct {
	Kind      LoanKind `json:"kind"`
	Principal float64  `json:"principal"`
	// LocationID is an open-question field (spec §9): accepted and
	// validated when present, but does not change loan terms or routing.
	LocationID string `json:"location_id,omitempty"`
}

type MakeDebtPaymentPayload struct {
	LoanID string  `json:"loan_id"`
	Amount float64 `json:"amount"`
}

type InvestInMarketingPayload struct {
	LocationID   string  `json:"location_id"`
	ServiceScope string  `json:"service_scope"`
	Amount       float64 `json:"amount"`
	CampaignType string  `json:"campaign_type"`
}

type BuyEquipmentPayload struct {
	LocationID string      `json:"location_id"`
	Kind       MachineKind `json:"kind"`
	Quantity   int         `json:"quantity"`
	VendorID   string      `json:"vendor_id,omitempty"`
}

type SellEquipmentPayload struct {
	LocationID string `json:"location_id"`
	MachineID  string `json:"machine_id"`
}

// MaintenanceKind enumerates PERFORM_MAINTENANCE tiers (spec §4.5): each
// restores a different condition delta at a different cost.
type MaintenanceKind string

const (
	MaintenanceRoutine  MaintenanceKind = "ROUTINE"
	MaintenanceDeep     MaintenanceKind = "DEEP"
	MaintenanceOverhaul MaintenanceKind = "OVERHAUL"
)

type PerformMaintenancePayload struct {
	LocationID string          `json:"location_id"`
	MachineID  string          `json:"machine_id"`
	Kind       MaintenanceKind `json:"kind"`
}

type FixMachinePayload struct {
	LocationID string `json:"location_id"`
	MachineID  string `json:"machine_id"`
}

type BuySuppliesPayload struct {
	LocationID string  `json:"location_id"`
	Detergent  float64 `json:"detergent"`
	Softener   float64 `json:"softener"`
}

type OpenNewLocationPayload struct {
	ListingID string `json:"listing_id"`
}

type HireStaffPayload struct {
	LocationID string    `json:"location_id"`
	Name       string    `json:"name"`
	Role       StaffRole `json:"role"`
	HourlyRate float64   `json:"hourly_rate"`
}

type FireStaffPayload struct {
	LocationID string `json:"location_id"`
	StaffID    string `json:"staff_id"`
}

type AdjustStaffWagePayload struct {
	LocationID string  `json:"location_id"`
	StaffID    string  `json:"staff_id"`
	NewRate    float64 `json:"new_rate"`
}

type ProvideBenefitsPayload struct {
	LocationID string  `json:"location_id"`
	StaffID    string  `json:"staff_id"`
	Amount     float64 `json:"amount"`
}

type NegotiateVendorDealPayload struct {
	LocationID        string  `json:"location_id"`
	VendorID          string  `json:"vendor_id"`
	RequestedDiscount float64 `json:"requested_discount"`
}

type SignExclusiveContractPayload struct {
	LocationID string `json:"location_id"`
	VendorID   string `json:"vendor_id"`
	TermWeeks  int    `json:"term_weeks"`
}

type CancelVendorContractPayload struct {
	LocationID string `json:"location_id"`
	VendorID   string `json:"vendor_id"`
}

type InitiateCharityPayload struct {
	Amount float64 `json:"amount"`
	Cause  string  `json:"cause"`
}

type ResolveScandalPayload struct {
	ScandalID string  `json:"scandal_id"`
	Spend     float64 `json:"spend"`
}

type MakeEthicalChoicePayload struct {
	DilemmaID string `json:"dilemma_id"`
	ChoiceID  string `json:"choice_id"`
}

type FileRegulatoryReportPayload struct {
	Subject string `json:"subject"`
}

type FileAppealPayload struct {
	FineID string `json:"fine_id"`
}

type SubscribeLoyaltyProgramPayload struct {
	LocationID string `json:"location_id"`
	NewMembers int    `json:"new_members"`
}

type EnterAlliancePayload struct {
	PartnerAgentID string       `json:"partner_agent_id"`
	Kind           AllianceKind `json:"kind"`
}

type ProposeBuyoutPayload struct {
	CounterpartyID string  `json:"counterparty_id"`
	Amount         float64 `json:"amount"`
}

type AcceptBuyoutOfferPayload struct {
	ProposalID string `json:"proposal_id"`
}

type CommunicateToAgentPayload struct {
	RecipientAgentID string `json:"recipient_agent_id"`
	Content          string `json:"content"`
}

// RegisterCommands registers every command kind this domain accepts.
func RegisterCommands(registry *command.Registry) error {
	defs := []command.Definition{
		{Type: CommandCreateAgent, ValidatePayload: unmarshalCmd[CreateAgentPayload]},
		{Type: CommandSetPrice, ValidatePayload: validateSetPrice},
		{Type: CommandTakeLoan, ValidatePayload: validateTakeLoan},
		{Type: CommandMakeDebtPayment, ValidatePayload: unmarshalCmd[MakeDebtPaymentPayload]},
		{Type: CommandInvestInMarketing, ValidatePayload: unmarshalCmd[InvestInMarketingPayload]},
		{Type: CommandBuyEquipment, ValidatePayload: unmarshalCmd[BuyEquipmentPayload]},
		{Type: CommandSellEquipment, ValidatePayload: unmarshalCmd[SellEquipmentPayload]},
		{Type: CommandPerformMaintenance, ValidatePayload: validateMaintenance},
		{Type: CommandFixMachine, ValidatePayload: unmarshalCmd[FixMachinePayload]},
		{Type: CommandBuySupplies, ValidatePayload: unmarshalCmd[BuySuppliesPayload]},
		{Type: CommandOpenNewLocation, ValidatePayload: unmarshalCmd[OpenNewLocationPayload]},
		{Type: CommandHireStaff, ValidatePayload: unmarshalCmd[HireStaffPayload]},
		{Type: CommandFireStaff, ValidatePayload: unmarshalCmd[FireStaffPayload]},
		{Type: CommandAdjustStaffWage, ValidatePayload: unmarshalCmd[AdjustStaffWagePayload]},
		{Type: CommandProvideBenefits, ValidatePayload: unmarshalCmd[ProvideBenefitsPayload]},
		{Type: CommandNegotiateVendorDeal, ValidatePayload: unmarshalCmd[NegotiateVendorDealPayload]},
		{Type: CommandSignExclusiveContract, ValidatePayload: unmarshalCmd[SignExclusiveContractPayload]},
		{Type: CommandCancelVendorContract, ValidatePayload: unmarshalCmd[CancelVendorContractPayload]},
		{Type: CommandInitiateCharity, ValidatePayload: unmarshalCmd[InitiateCharityPayload]},
		{Type: CommandResolveScandal, ValidatePayload: unmarshalCmd[ResolveScandalPayload]},
		{Type: CommandMakeEthicalChoice, ValidatePayload: unmarshalCmd[MakeEthicalChoicePayload]},
		{Type: CommandFileRegulatoryReport, ValidatePayload: unmarshalCmd[FileRegulatoryReportPayload]},
		{Type: CommandFileAppeal, ValidatePayload: unmarshalCmd[FileAppealPayload]},
		{Type: CommandSubscribeLoyaltyProgram, ValidatePayload: unmarshalCmd[SubscribeLoyaltyProgramPayload]},
		{Type: CommandEnterAlliance, ValidatePayload: unmarshalCmd[EnterAlliancePayload]},
		{Type: CommandProposeBuyout, ValidatePayload: unmarshalCmd[ProposeBuyoutPayload]},
		{Type: CommandAcceptBuyoutOffer, ValidatePayload: unmarshalCmd[AcceptBuyoutOfferPayload]},
		{Type: CommandCommunicateToAgent, ValidatePayload: unmarshalCmd[CommunicateToAgentPayload]},
	}
	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func unmarshalCmd[T any](raw json.RawMessage) error {
	var payload T
	return json.Unmarshal(raw, &payload)
}

// minPrice/maxPrice bound SET_PRICE: a new price must fall in [0.01, 100].
const (
	minPrice = 0.01
	maxPrice = 100
)

var errPriceOutOfRange = errors.New("price must be in [0.01, 100]")
var errUnknownServiceName = errors.New("unknown service name")

func validateSetPrice(raw json.RawMessage) error {
	var payload SetPricePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	switch payload.Service {
	case ServiceStandardWash, ServicePremiumWash, ServiceDry, ServiceVendingItems:
	default:
		return errUnknownServiceName
	}
	if payload.Price < minPrice || payload.Price > maxPrice {
		return errPriceOutOfRange
	}
	return nil
}

var errUnknownLoanKind = errors.New("unknown loan kind")
var errPrincipalNotPositive = errors.New("loan principal must be positive")

func validateTakeLoan(raw json.RawMessage) error {
	var payload TakeLoanPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	switch payload.Kind {
	case LoanKindLOC, LoanKindEquipment, LoanKindExpansion, LoanKindEmergency:
	default:
		return errUnknownLoanKind
	}
	if payload.Principal <= 0 {
		return errPrincipalNotPositive
	}
	return nil
}

var errUnknownMaintenanceKind = errors.New("unknown maintenance kind")

func validateMaintenance(raw json.RawMessage) error {
	var payload PerformMaintenancePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	switch payload.Kind {
	case MaintenanceRoutine, MaintenanceDeep, MaintenanceOverhaul:
		return nil
	default:
		return errUnknownMaintenanceKind
	}
}
