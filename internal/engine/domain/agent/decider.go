package agent

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/suds/laundromat/internal/engine/domain/command"
	"github.com/suds/laundromat/internal/engine/domain/event"
)

// DeciderFunc is one command kind's pure decision logic (spec §4.5): given
// the current state and the command, it returns events to append or a
// rejection. It never mutates state and never reads a clock itself — now is
// supplied by the engine so replay is deterministic.
type DeciderFunc func(state State, cmd command.Command, week, day int, now time.Time) command.Decision

// deciderRoutes is the command-kind dispatch table (spec "no central switch
// statements"): adding a command kind means adding one map entry here and
// one Register call in commands.go, never touching a branch elsewhere.
var deciderRoutes = map[command.Type]DeciderFunc{
	CommandCreateAgent:             decideCreateAgent,
	CommandSetPrice:                decideSetPrice,
	CommandTakeLoan:                decideTakeLoan,
	CommandMakeDebtPayment:         decideMakeDebtPayment,
	CommandInvestInMarketing:       decideInvestInMarketing,
	CommandBuyEquipment:            decideBuyEquipment,
	CommandSellEquipment:           decideSellEquipment,
	CommandPerformMaintenance:      decidePerformMaintenance,
	CommandFixMachine:              decideFixMachine,
	CommandBuySupplies:             decideBuySupplies,
	CommandOpenNewLocation:         decideOpenNewLocation,
	CommandHireStaff:               decideHireStaff,
	CommandFireStaff:               decideFireStaff,
	CommandAdjustStaffWage:         decideAdjustStaffWage,
	CommandProvideBenefits:         decideProvideBenefits,
	CommandNegotiateVendorDeal:     decideNegotiateVendorDeal,
	CommandSignExclusiveContract:   decideSignExclusiveContract,
	CommandCancelVendorContract:    decideCancelVendorContract,
	CommandInitiateCharity:         decideInitiateCharity,
	CommandResolveScandal:          decideResolveScandal,
	CommandMakeEthicalChoice:       decideMakeEthicalChoice,
	CommandFileRegulatoryReport:    decideFileRegulatoryReport,
	CommandFileAppeal:              decideFileAppeal,
	CommandSubscribeLoyaltyProgram: decideSubscribeLoyaltyProgram,
	CommandEnterAlliance:           decideEnterAlliance,
	CommandProposeBuyout:           decideProposeBuyout,
	CommandAcceptBuyoutOffer:       decideAcceptBuyoutOffer,
	CommandCommunicateToAgent:      decideCommunicateToAgent,
}

// Decide routes cmd to its decider. Callers (the engine's Handler) are
// expected to have already resolved cmd.Type against command.Registry, so an
// unmapped type here indicates a registry/dispatch-table drift bug rather
// than user input — callers should treat it as an invariant violation.
func Decide(state State, cmd command.Command, week, day int, now time.Time) (command.Decision, bool) {
	fn, ok := deciderRoutes[cmd.Type]
	if !ok {
		return command.Decision{}, false
	}
	return fn(state, cmd, week, day, now), true
}

// DeciderHandledCommands lists every command type deciderRoutes dispatches,
// for startup coverage validation against command.Registry's contents.
func DeciderHandledCommands() []command.Type {
	types := make([]command.Type, 0, len(deciderRoutes))
	for t := range deciderRoutes {
		types = append(types, t)
	}
	return types
}

func decodeCmd[T any](cmd command.Command) T {
	var payload T
	// Payloads reach the decider only after command.Registry.ValidateForDecision
	// has already unmarshaled and schema-checked them, so a failure here would
	// mean that guarantee was violated upstream.
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	return payload
}

func marshalPayload(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("agent: marshal event payload: %v", err))
	}
	return b
}

// newAgentEvent builds the event this command produces, stamping the
// timestamp from the engine-supplied clock rather than letting the decider
// read one itself (spec "handler purity": deciders never touch wall time
// except through the now parameter).
func newAgentEvent(cmd command.Command, eventType event.Type, week, day int, now time.Time, payload any) event.Event {
	return command.NewEvent(cmd, eventType, week, day, now, marshalPayload(payload))
}

// --- lifecycle ---------------------------------------------------------

func decideCreateAgent(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	if state.ID != "" {
		return command.Reject(command.CodeInvalidState, "agent already exists")
	}
	payload := decodeCmd[CreateAgentPayload](cmd)
	evt := newAgentEvent(cmd, EventAgentCreated, week, day, now, AgentCreatedPayload{
		Name:               payload.Name,
		InitialCash:        payload.InitialCash,
		InitialCreditLimit: payload.InitialCreditLimit,
	})
	return command.Accept(evt)
}

// --- pricing & marketing -------------------------------------------------

func decideSetPrice(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[SetPricePayload](cmd)
	if _, ok := state.Locations[payload.LocationID]; !ok {
		return command.Reject(command.CodeLocationNotFound, "location not found: "+payload.LocationID)
	}
	evt := newAgentEvent(cmd, EventPriceSet, week, day, now, PriceSetPayload{
		LocationID: payload.LocationID,
		Service:    payload.Service,
		Price:      payload.Price,
	})
	return command.Accept(evt)
}

func decideInvestInMarketing(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[InvestInMarketingPayload](cmd)
	if _, ok := state.Locations[payload.LocationID]; !ok {
		return command.Reject(command.CodeLocationNotFound, "location not found: "+payload.LocationID)
	}
	if payload.Amount <= 0 || state.Cash < payload.Amount {
		return command.Reject(command.CodeInsufficientFunds, "insufficient cash for marketing spend")
	}
	boost := 1.0 + clampFloat(payload.Amount/1000*0.05, 0, 0.5)
	evtBoost := newAgentEvent(cmd, EventMarketingBoostApplied, week, day, now, MarketingBoostAppliedPayload{
		LocationID:      payload.LocationID,
		ServiceScope:    payload.ServiceScope,
		BoostMultiplier: boost,
		DurationDays:    14,
		CampaignType:    payload.CampaignType,
	})
	evtFunds := newAgentEvent(cmd, EventFundsTransferred, week, day, now, FundsTransferredPayload{
		Kind:        FundsKindExpense,
		Amount:      payload.Amount,
		Description: "marketing investment at " + payload.LocationID,
	})
	return command.Accept(evtBoost, evtFunds)
}

// --- equipment -----------------------------------------------------------

var equipmentBasePrice = map[MachineKind]float64{
	MachineKindWasher:  2000,
	MachineKindDryer:   1800,
	MachineKindVending: 900,
}

const maintenanceFixCost = 300

var maintenanceCost = map[MaintenanceKind]float64{
	MaintenanceRoutine:  50,
	MaintenanceDeep:     150,
	MaintenanceOverhaul: 400,
}

var maintenanceConditionDelta = map[MaintenanceKind]float64{
	MaintenanceRoutine:  15,
	MaintenanceDeep:     35,
	MaintenanceOverhaul: 100,
}

// DefaultVendorID is the fallback vendor path BuyEquipment accepts when a
// location has no recorded relationship with the requested vendor (spec
// §4.5 "vendor known or default-vendor path").
const DefaultVendorID = "DEFAULT_VENDOR"

func decideBuyEquipment(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[BuyEquipmentPayload](cmd)
	loc, ok := state.Locations[payload.LocationID]
	if !ok {
		return command.Reject(command.CodeLocationNotFound, "location not found: "+payload.LocationID)
	}
	price, ok := equipmentBasePrice[payload.Kind]
	if !ok {
		return command.Reject(command.CodeInvalidState, "unknown machine kind")
	}
	quantity := payload.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	vendorID := payload.VendorID
	if vendorID == "" {
		vendorID = DefaultVendorID
	}
	if vendorID != DefaultVendorID {
		if _, known := loc.VendorRelationships[vendorID]; !known {
			return command.Reject(command.CodeVendorNotFound, "vendor not found: "+vendorID)
		}
	}
	total := price * float64(quantity)
	if state.Cash < total {
		return command.Reject(command.CodeInsufficientFunds, "insufficient cash to buy equipment")
	}
	events := make([]event.Event, 0, quantity+1)
	for i := 0; i < quantity; i++ {
		machineID := fmt.Sprintf("%s-%s-%d-%d", payload.LocationID, payload.Kind, state.Week*10+state.Day, i)
		events = append(events, newAgentEvent(cmd, EventEquipmentPurchased, week, day, now, EquipmentPurchasedPayload{
			LocationID: payload.LocationID,
			MachineID:  machineID,
			Kind:       payload.Kind,
			UnitPrice:  price,
			VendorID:   vendorID,
		}))
	}
	events = append(events, newAgentEvent(cmd, EventFundsTransferred, week, day, now, FundsTransferredPayload{
		Kind:        FundsKindExpense,
		Amount:      total,
		Description: "equipment purchase at " + payload.LocationID,
	}))
	return command.Accept(events...)
}

func decideSellEquipment(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[SellEquipmentPayload](cmd)
	loc, ok := state.Locations[payload.LocationID]
	if !ok {
		return command.Reject(command.CodeLocationNotFound, "location not found: "+payload.LocationID)
	}
	machine, ok := loc.Equipment[payload.MachineID]
	if !ok {
		return command.Reject(command.CodeMachineNotFound, "machine not found: "+payload.MachineID)
	}
	base := equipmentBasePrice[machine.Kind]
	resale := base * clampFloat(machine.Condition, 0, 100) / 100 * 0.5
	evtSold := newAgentEvent(cmd, EventEquipmentSold, week, day, now, EquipmentSoldPayload{
		LocationID: payload.LocationID,
		MachineID:  payload.MachineID,
	})
	evtFunds := newAgentEvent(cmd, EventFundsTransferred, week, day, now, FundsTransferredPayload{
		Kind:        FundsKindRevenue,
		Amount:      resale,
		Description: "equipment resale at " + payload.LocationID,
	})
	return command.Accept(evtSold, evtFunds)
}

func decidePerformMaintenance(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[PerformMaintenancePayload](cmd)
	loc, ok := state.Locations[payload.LocationID]
	if !ok {
		return command.Reject(command.CodeLocationNotFound, "location not found: "+payload.LocationID)
	}
	machine, ok := loc.Equipment[payload.MachineID]
	if !ok {
		return command.Reject(command.CodeMachineNotFound, "machine not found: "+payload.MachineID)
	}
	if machine.Status == MachineStatusInRepair {
		return command.Reject(command.CodeInvalidState, "machine already in repair: "+payload.MachineID)
	}
	cost := maintenanceCost[payload.Kind]
	if state.Cash < cost {
		return command.Reject(command.CodeInsufficientFunds, "insufficient cash for maintenance")
	}
	delta := maintenanceConditionDelta[payload.Kind]
	evtRepair := newAgentEvent(cmd, EventEquipmentRepaired, week, day, now, EquipmentRepairedPayload{
		LocationID:     payload.LocationID,
		MachineID:      payload.MachineID,
		ConditionDelta: delta,
	})
	evtFunds := newAgentEvent(cmd, EventFundsTransferred, week, day, now, FundsTransferredPayload{
		Kind:        FundsKindExpense,
		Amount:      cost,
		Description: "maintenance at " + payload.LocationID,
	})
	return command.Accept(evtRepair, evtFunds)
}

func decideFixMachine(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[FixMachinePayload](cmd)
	loc, ok := state.Locations[payload.LocationID]
	if !ok {
		return command.Reject(command.CodeLocationNotFound, "location not found: "+payload.LocationID)
	}
	machine, ok := loc.Equipment[payload.MachineID]
	if !ok {
		return command.Reject(command.CodeMachineNotFound, "machine not found: "+payload.MachineID)
	}
	if machine.Status != MachineStatusBroken {
		return command.Reject(command.CodeInvalidState, "machine is not broken")
	}
	if state.Cash < maintenanceFixCost {
		return command.Reject(command.CodeInsufficientFunds, "insufficient cash to repair machine")
	}
	evtRepair := newAgentEvent(cmd, EventEquipmentRepaired, week, day, now, EquipmentRepairedPayload{
		LocationID:     payload.LocationID,
		MachineID:      payload.MachineID,
		ConditionDelta: 50,
	})
	evtStatus := newAgentEvent(cmd, EventMachineStatusChanged, week, day, now, MachineStatusChangedPayload{
		LocationID: payload.LocationID,
		MachineID:  payload.MachineID,
		NewStatus:  MachineStatusOperational,
	})
	evtFunds := newAgentEvent(cmd, EventFundsTransferred, week, day, now, FundsTransferredPayload{
		Kind:        FundsKindExpense,
		Amount:      maintenanceFixCost,
		Description: "emergency repair at " + payload.LocationID,
	})
	return command.Accept(evtRepair, evtStatus, evtFunds)
}

func decideBuySupplies(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[BuySuppliesPayload](cmd)
	if _, ok := state.Locations[payload.LocationID]; !ok {
		return command.Reject(command.CodeLocationNotFound, "location not found: "+payload.LocationID)
	}
	cost := payload.Detergent*2 + payload.Softener*2.5
	if state.Cash < cost {
		return command.Reject(command.CodeInsufficientFunds, "insufficient cash for supplies")
	}
	evtSupplies := newAgentEvent(cmd, EventSuppliesPurchased, week, day, now, SuppliesPurchasedPayload{
		LocationID: payload.LocationID,
		Detergent:  payload.Detergent,
		Softener:   payload.Softener,
	})
	evtFunds := newAgentEvent(cmd, EventFundsTransferred, week, day, now, FundsTransferredPayload{
		Kind:        FundsKindExpense,
		Amount:      cost,
		Description: "supplies at " + payload.LocationID,
	})
	return command.Accept(evtSupplies, evtFunds)
}

// --- locations & staffing -------------------------------------------------

func decideOpenNewLocation(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[OpenNewLocationPayload](cmd)
	listing, ok := state.AvailableListings[payload.ListingID]
	if !ok {
		return command.Reject(command.CodeInvalidState, "listing not found: "+payload.ListingID)
	}
	if state.Cash < listing.AskingPrice {
		return command.Reject(command.CodeInsufficientFunds, "insufficient cash to open location")
	}
	evtOpened := newAgentEvent(cmd, EventLocationOpened, week, day, now, LocationOpenedPayload{
		LocationID:  listing.ID,
		Zone:        listing.Zone,
		MonthlyRent: listing.AskingPrice * 0.02,
	})
	evtFunds := newAgentEvent(cmd, EventFundsTransferred, week, day, now, FundsTransferredPayload{
		Kind:        FundsKindExpense,
		Amount:      listing.AskingPrice,
		Description: "new location acquisition: " + listing.ID,
	})
	return command.Accept(evtOpened, evtFunds)
}

func decideHireStaff(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[HireStaffPayload](cmd)
	if _, ok := state.Locations[payload.LocationID]; !ok {
		return command.Reject(command.CodeLocationNotFound, "location not found: "+payload.LocationID)
	}
	switch payload.Role {
	case StaffRoleAttendant, StaffRoleTechnician, StaffRoleManager:
	default:
		return command.Reject(command.CodeInvalidState, "unknown staff role: "+string(payload.Role))
	}
	if payload.HourlyRate <= 0 {
		return command.Reject(command.CodeInvalidState, "hourly rate must be positive")
	}
	staffID := fmt.Sprintf("%s-staff-%d", payload.LocationID, state.Week*10+state.Day)
	evt := newAgentEvent(cmd, EventStaffHired, week, day, now, StaffHiredPayload{
		LocationID: payload.LocationID,
		StaffID:    staffID,
		Name:       payload.Name,
		Role:       payload.Role,
		HourlyRate: payload.HourlyRate,
	})
	return command.Accept(evt)
}

func decideFireStaff(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[FireStaffPayload](cmd)
	loc, ok := state.Locations[payload.LocationID]
	if !ok {
		return command.Reject(command.CodeLocationNotFound, "location not found: "+payload.LocationID)
	}
	staff, ok := loc.Staff[payload.StaffID]
	if !ok {
		return command.Reject(command.CodeStaffNotFound, "staff not found: "+payload.StaffID)
	}
	severance := staff.HourlyRate * 40
	if state.Cash < severance {
		return command.Reject(command.CodeInsufficientFunds, "insufficient cash for severance")
	}
	evtFired := newAgentEvent(cmd, EventStaffFired, week, day, now, StaffFiredPayload{
		LocationID: payload.LocationID,
		StaffID:    payload.StaffID,
	})
	evtFunds := newAgentEvent(cmd, EventFundsTransferred, week, day, now, FundsTransferredPayload{
		Kind:        FundsKindExpense,
		Amount:      severance,
		Description: "severance at " + payload.LocationID,
	})
	return command.Accept(evtFired, evtFunds)
}

func decideAdjustStaffWage(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[AdjustStaffWagePayload](cmd)
	loc, ok := state.Locations[payload.LocationID]
	if !ok {
		return command.Reject(command.CodeLocationNotFound, "location not found: "+payload.LocationID)
	}
	if _, ok := loc.Staff[payload.StaffID]; !ok {
		return command.Reject(command.CodeStaffNotFound, "staff not found: "+payload.StaffID)
	}
	if payload.NewRate <= 0 {
		return command.Reject(command.CodeInvalidState, "new rate must be positive")
	}
	evt := newAgentEvent(cmd, EventStaffWageAdjusted, week, day, now, StaffWageAdjustedPayload{
		LocationID: payload.LocationID,
		StaffID:    payload.StaffID,
		NewRate:    payload.NewRate,
	})
	return command.Accept(evt)
}

func decideProvideBenefits(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[ProvideBenefitsPayload](cmd)
	loc, ok := state.Locations[payload.LocationID]
	if !ok {
		return command.Reject(command.CodeLocationNotFound, "location not found: "+payload.LocationID)
	}
	if _, ok := loc.Staff[payload.StaffID]; !ok {
		return command.Reject(command.CodeStaffNotFound, "staff not found: "+payload.StaffID)
	}
	if state.Cash < payload.Amount {
		return command.Reject(command.CodeInsufficientFunds, "insufficient cash for benefits")
	}
	moraleDelta := clampFloat(payload.Amount/50, 0, 20)
	evtBenefits := newAgentEvent(cmd, EventStaffBenefitsProvided, week, day, now, StaffBenefitsProvidedPayload{
		LocationID:  payload.LocationID,
		StaffID:     payload.StaffID,
		MoraleDelta: moraleDelta,
	})
	evtFunds := newAgentEvent(cmd, EventFundsTransferred, week, day, now, FundsTransferredPayload{
		Kind:        FundsKindExpense,
		Amount:      payload.Amount,
		Description: "staff benefits at " + payload.LocationID,
	})
	return command.Accept(evtBenefits, evtFunds)
}

// --- vendors ---------------------------------------------------------------

func decideNegotiateVendorDeal(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[NegotiateVendorDealPayload](cmd)
	loc, ok := state.Locations[payload.LocationID]
	if !ok {
		return command.Reject(command.CodeLocationNotFound, "location not found: "+payload.LocationID)
	}
	vendor, ok := loc.VendorRelationships[payload.VendorID]
	if !ok {
		return command.Reject(command.CodeVendorNotFound, "vendor not found: "+payload.VendorID)
	}
	if payload.RequestedDiscount < 0 || payload.RequestedDiscount > 0.5 {
		return command.Reject(command.CodeInvalidState, "requested discount must be in [0, 0.5]")
	}

	avgPayment := 1.0
	if len(vendor.PaymentHistory) > 0 {
		var sum float64
		for _, v := range vendor.PaymentHistory {
			sum += v
		}
		avgPayment = sum / float64(len(vendor.PaymentHistory))
	}
	score := float64(vendor.Tier)*0.2 + float64(vendor.WeeksAtTier)*0.01 + avgPayment*0.5 - payload.RequestedDiscount

	evtInitiated := newAgentEvent(cmd, EventVendorNegotiationInitiated, week, day, now, VendorNegotiationInitiatedPayload{
		LocationID:        payload.LocationID,
		VendorID:          payload.VendorID,
		RequestedDiscount: payload.RequestedDiscount,
	})

	var outcome NegotiationOutcome
	var newPrice float64
	switch {
	case score >= 0.5:
		outcome = NegotiationAccept
		newPrice = vendor.UnitPrice * (1 - payload.RequestedDiscount)
	case score >= 0.2:
		outcome = NegotiationCounter
		newPrice = vendor.UnitPrice * (1 - payload.RequestedDiscount/2)
	default:
		outcome = NegotiationReject
	}

	evtResult := newAgentEvent(cmd, EventVendorNegotiationResult, week, day, now, VendorNegotiationResultPayload{
		LocationID:   payload.LocationID,
		VendorID:     payload.VendorID,
		Outcome:      outcome,
		NewUnitPrice: newPrice,
	})
	if outcome == NegotiationReject {
		return command.Accept(evtInitiated, evtResult)
	}
	evtTerms := newAgentEvent(cmd, EventVendorTermsUpdated, week, day, now, VendorTermsUpdatedPayload{
		LocationID:   payload.LocationID,
		VendorID:     payload.VendorID,
		NewUnitPrice: newPrice,
	})
	return command.Accept(evtInitiated, evtResult, evtTerms)
}

const vendorExclusivePenalty = 500

func decideSignExclusiveContract(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[SignExclusiveContractPayload](cmd)
	loc, ok := state.Locations[payload.LocationID]
	if !ok {
		return command.Reject(command.CodeLocationNotFound, "location not found: "+payload.LocationID)
	}
	vendor, ok := loc.VendorRelationships[payload.VendorID]
	if !ok {
		return command.Reject(command.CodeVendorNotFound, "vendor not found: "+payload.VendorID)
	}
	if vendor.ExclusiveContract {
		return command.Reject(command.CodeContractViolation, "vendor already under exclusive contract")
	}
	evt := newAgentEvent(cmd, EventExclusiveContractSigned, week, day, now, ExclusiveContractSignedPayload{
		LocationID: payload.LocationID,
		VendorID:   payload.VendorID,
		ExpiryWeek: state.Week + payload.TermWeeks,
	})
	return command.Accept(evt)
}

func decideCancelVendorContract(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[CancelVendorContractPayload](cmd)
	loc, ok := state.Locations[payload.LocationID]
	if !ok {
		return command.Reject(command.CodeLocationNotFound, "location not found: "+payload.LocationID)
	}
	vendor, ok := loc.VendorRelationships[payload.VendorID]
	if !ok {
		return command.Reject(command.CodeVendorNotFound, "vendor not found: "+payload.VendorID)
	}
	if !vendor.ExclusiveContract {
		return command.Reject(command.CodeContractViolation, "no active exclusive contract to cancel")
	}
	if state.Cash < vendorExclusivePenalty {
		return command.Reject(command.CodeInsufficientFunds, "insufficient cash to pay cancellation penalty")
	}
	evtCancel := newAgentEvent(cmd, EventVendorContractCancelled, week, day, now, VendorContractCancelledPayload{
		LocationID:  payload.LocationID,
		VendorID:    payload.VendorID,
		PenaltyPaid: vendorExclusivePenalty,
	})
	evtFunds := newAgentEvent(cmd, EventFundsTransferred, week, day, now, FundsTransferredPayload{
		Kind:        FundsKindPenalty,
		Amount:      vendorExclusivePenalty,
		Description: "exclusive contract cancellation at " + payload.LocationID,
	})
	return command.Accept(evtCancel, evtFunds)
}

// --- social, ethics, regulatory ---------------------------------------------

func decideInitiateCharity(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[InitiateCharityPayload](cmd)
	if payload.Amount <= 0 || state.Cash < payload.Amount {
		return command.Reject(command.CodeInsufficientFunds, "insufficient cash for charity")
	}
	evtCharity := newAgentEvent(cmd, EventCharityInitiated, week, day, now, CharityInitiatedPayload{
		Amount: payload.Amount,
		Cause:  payload.Cause,
	})
	evtFunds := newAgentEvent(cmd, EventFundsTransferred, week, day, now, FundsTransferredPayload{
		Kind:        FundsKindExpense,
		Amount:      payload.Amount,
		Description: "charity: " + payload.Cause,
	})
	evtScore := newAgentEvent(cmd, EventSocialScoreAdjusted, week, day, now, SocialScoreAdjustedPayload{
		Delta:  clampFloat(payload.Amount/500, 0, 10),
		Reason: "charity: " + payload.Cause,
	})
	return command.Accept(evtCharity, evtFunds, evtScore)
}

func decideResolveScandal(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[ResolveScandalPayload](cmd)
	found := false
	for _, s := range state.ActiveScandals {
		if s.ID == payload.ScandalID {
			found = true
			break
		}
	}
	if !found {
		return command.Reject(command.CodeInvalidState, "scandal not found: "+payload.ScandalID)
	}
	if payload.Spend <= 0 || state.Cash < payload.Spend {
		return command.Reject(command.CodeInsufficientFunds, "insufficient cash to resolve scandal")
	}
	evtFunds := newAgentEvent(cmd, EventFundsTransferred, week, day, now, FundsTransferredPayload{
		Kind:        FundsKindExpense,
		Amount:      payload.Spend,
		Description: "scandal resolution: " + payload.ScandalID,
	})
	evtDecay := newAgentEvent(cmd, EventScandalMarkerDecayed, week, day, now, ScandalMarkerDecayedPayload{
		ScandalID: payload.ScandalID,
		Decay:     payload.Spend / 100,
	})
	return command.Accept(evtFunds, evtDecay)
}

func decideMakeEthicalChoice(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[MakeEthicalChoicePayload](cmd)
	if _, ok := state.ActiveDilemmas[payload.DilemmaID]; !ok {
		return command.Reject(command.CodeInvalidState, "dilemma not found: "+payload.DilemmaID)
	}
	evtChoice := newAgentEvent(cmd, EventEthicalChoiceMade, week, day, now, EthicalChoiceMadePayload{
		ChoiceID:    payload.ChoiceID,
		Description: payload.DilemmaID,
	})
	evtScore := newAgentEvent(cmd, EventSocialScoreAdjusted, week, day, now, SocialScoreAdjustedPayload{
		Delta:  3,
		Reason: "ethical choice: " + payload.ChoiceID,
	})
	return command.Accept(evtChoice, evtScore)
}

func decideFileRegulatoryReport(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[FileRegulatoryReportPayload](cmd)
	reportID := fmt.Sprintf("report-%s-%d", state.ID, state.Week*10+state.Day)
	evt := newAgentEvent(cmd, EventRegulatoryReportFiled, week, day, now, RegulatoryReportFiledPayload{
		ReportID: reportID,
		Subject:  payload.Subject,
	})
	return command.Accept(evt)
}

func decideFileAppeal(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[FileAppealPayload](cmd)
	var fine *Fine
	for i := range state.PendingFines {
		if state.PendingFines[i].ID == payload.FineID {
			fine = &state.PendingFines[i]
			break
		}
	}
	if fine == nil {
		return command.Reject(command.CodeInvalidState, "fine not found: "+payload.FineID)
	}
	if fine.Status != FineStatusOpen {
		return command.Reject(command.CodeInvalidState, "fine is not open")
	}
	evt := newAgentEvent(cmd, EventAppealFiled, week, day, now, AppealFiledPayload{FineID: payload.FineID})
	return command.Accept(evt)
}

func decideSubscribeLoyaltyProgram(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[SubscribeLoyaltyProgramPayload](cmd)
	if _, ok := state.Locations[payload.LocationID]; !ok {
		return command.Reject(command.CodeLocationNotFound, "location not found: "+payload.LocationID)
	}
	if payload.NewMembers <= 0 {
		return command.Reject(command.CodeInvalidState, "new members must be positive")
	}
	evt := newAgentEvent(cmd, EventLoyaltyProgramSubscribed, week, day, now, LoyaltyProgramSubscribedPayload{
		LocationID: payload.LocationID,
		Members:    payload.NewMembers,
	})
	return command.Accept(evt)
}

// --- inter-agent -------------------------------------------------------

func decideEnterAlliance(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[EnterAlliancePayload](cmd)
	for _, a := range state.ActiveAlliances {
		if a.PartnerAgentID == payload.PartnerAgentID {
			return command.Reject(command.CodeInvalidState, "alliance already exists with "+payload.PartnerAgentID)
		}
	}
	allianceID := fmt.Sprintf("alliance-%s-%s", state.ID, payload.PartnerAgentID)
	evt := newAgentEvent(cmd, EventAllianceFormed, week, day, now, AllianceFormedPayload{
		AllianceID:     allianceID,
		PartnerAgentID: payload.PartnerAgentID,
		Kind:           payload.Kind,
	})
	return command.Accept(evt)
}

func decideProposeBuyout(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[ProposeBuyoutPayload](cmd)
	deposit := payload.Amount * 0.1
	if state.Cash < deposit {
		return command.Reject(command.CodeInsufficientFunds, "insufficient cash for due-diligence deposit")
	}
	proposalID := fmt.Sprintf("buyout-%s-%d", state.ID, state.Week*10+state.Day)
	evt := newAgentEvent(cmd, EventBuyoutProposed, week, day, now, BuyoutProposedPayload{
		ProposalID:     proposalID,
		CounterpartyID: payload.CounterpartyID,
		Amount:         payload.Amount,
	})
	return command.Accept(evt)
}

func decideAcceptBuyoutOffer(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[AcceptBuyoutOfferPayload](cmd)
	evt := newAgentEvent(cmd, EventBuyoutAccepted, week, day, now, BuyoutAcceptedPayload{
		ProposalID: payload.ProposalID,
	})
	return command.Accept(evt)
}

func decideCommunicateToAgent(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[CommunicateToAgentPayload](cmd)
	evt := newAgentEvent(cmd, EventMessageSent, week, day, now, MessageSentPayload{
		RecipientAgentID: payload.RecipientAgentID,
		Content:          payload.Content,
	})
	return command.Accept(evt)
}

// --- loans ---------------------------------------------------------------

// loanTerms is the fixed rate/term/credit-floor schedule per loan kind.
// Principal is never part of the catalog; it comes from the caller's
// payload.
type loanTerms struct {
	RatePct     float64
	TermWeeks   int
	CreditFloor float64
}

var loanCatalog = map[LoanKind]loanTerms{
	LoanKindLOC:       {RatePct: 0.08, TermWeeks: 0, CreditFloor: 50},
	LoanKindEquipment: {RatePct: 0.06, TermWeeks: 24, CreditFloor: 55},
	LoanKindExpansion: {RatePct: 0.07, TermWeeks: 52, CreditFloor: 65},
	LoanKindEmergency: {RatePct: 0.12, TermWeeks: 8, CreditFloor: 40},
}

func decideTakeLoan(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[TakeLoanPayload](cmd)
	terms, ok := loanCatalog[payload.Kind]
	if !ok {
		return command.Reject(command.CodeInvalidState, "unknown loan kind")
	}
	if payload.Principal <= 0 {
		return command.Reject(command.CodeInvalidState, "loan principal must be positive")
	}
	if state.CreditRating < terms.CreditFloor {
		return command.Reject(command.CodeCreditError, fmt.Sprintf("credit rating %.0f below floor %.0f for %s loans", state.CreditRating, terms.CreditFloor, payload.Kind))
	}
	if state.CreditLineLimit > 0 && state.TotalDebt+payload.Principal > state.CreditLineLimit*3 {
		return command.Reject(command.CodeCreditError, "loan would exceed sustainable leverage")
	}
	loanID := fmt.Sprintf("loan-%s-%d", state.ID, state.Week*10+state.Day)
	evtLoan := newAgentEvent(cmd, EventLoanTaken, week, day, now, LoanTakenPayload{
		LoanID:     loanID,
		Kind:       payload.Kind,
		Principal:  payload.Principal,
		RatePct:    terms.RatePct,
		TermWeeks:  terms.TermWeeks,
		LocationID: payload.LocationID,
	})
	evtFunds := newAgentEvent(cmd, EventFundsTransferred, week, day, now, FundsTransferredPayload{
		Kind:        FundsKindLoan,
		Amount:      payload.Principal,
		Description: "loan disbursement: " + string(payload.Kind),
	})
	return command.Accept(evtLoan, evtFunds)
}

func decideMakeDebtPayment(state State, cmd command.Command, week, day int, now time.Time) command.Decision {
	payload := decodeCmd[MakeDebtPaymentPayload](cmd)
	var loan *Loan
	for i := range state.Loans {
		if state.Loans[i].ID == payload.LoanID {
			loan = &state.Loans[i]
			break
		}
	}
	if loan == nil {
		return command.Reject(command.CodeInvalidState, "loan not found: "+payload.LoanID)
	}
	if payload.Amount <= 0 || payload.Amount > loan.Outstanding {
		return command.Reject(command.CodeInvalidState, "payment amount must be positive and at most the outstanding balance")
	}
	if state.Cash < payload.Amount {
		return command.Reject(command.CodeInsufficientFunds, "insufficient cash for debt payment")
	}
	evtPayment := newAgentEvent(cmd, EventDebtPaymentProcessed, week, day, now, DebtPaymentProcessedPayload{
		LoanID: payload.LoanID,
		Amount: payload.Amount,
	})
	evtFunds := newAgentEvent(cmd, EventFundsTransferred, week, day, now, FundsTransferredPayload{
		Kind:        FundsKindPayment,
		Amount:      payload.Amount,
		Description: "debt payment: " + payload.LoanID,
	})
	return command.Accept(evtPayment, evtFunds)
}
