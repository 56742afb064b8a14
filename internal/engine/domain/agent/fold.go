package agent

import (
	"encoding/json"

	"github.com/suds/laundromat/internal/engine/domain/event"
)

// ReducerFunc applies one event kind to an already-cloned state and returns
// the updated state (spec §4.6). It never mutates the state it was handed
// by reference from outside Fold — Fold itself performs the one clone per
// event, so reducers are free to mutate their local copy directly.
type ReducerFunc func(next State, evt event.Event) (State, error)

// foldRoutes is the event-kind dispatch table (spec "no central switch
// statements" / registry growth): adding an event kind means one map entry
// here and one Register call in events.go.
var foldRoutes = map[event.Type]ReducerFunc{
	EventAgentCreated: foldAgentCreated,
	EventAgentRetired: foldAgentRetired,
	EventTimeAdvanced: foldTimeAdvanced,

	EventFundsTransferred:       foldFundsTransferred,
	EventLoanTaken:              foldLoanTaken,
	EventDebtPaymentProcessed:   foldDebtPaymentProcessed,
	EventInterestAccrued:        foldInterestAccrued,
	EventTaxLiabilityCalculated: foldTaxLiabilityCalculated,
	EventWeeklyFixedCostsBilled: foldWeeklyFixedCostsBilled,
	EventDailyRevenueProcessed:  foldDailyRevenueProcessed,

	EventLocationOpened: foldLocationOpened,
	EventLocationClosed: foldLocationClosed,

	EventPriceSet:              foldPriceSet,
	EventEquipmentPurchased:    foldEquipmentPurchased,
	EventEquipmentSold:         foldEquipmentSold,
	EventEquipmentRepaired:     foldEquipmentRepaired,
	EventMachineWearUpdated:    foldMachineWearUpdated,
	EventMachineStatusChanged:  foldMachineStatusChanged,
	EventSuppliesPurchased:     foldSuppliesPurchased,
	EventMarketingBoostApplied: foldMarketingBoostApplied,

	EventStaffHired:            foldStaffHired,
	EventStaffFired:            foldStaffRemoved,
	EventStaffQuit:             foldStaffRemoved,
	EventStaffWageAdjusted:     foldStaffWageAdjusted,
	EventStaffBenefitsProvided: foldStaffBenefitsProvided,

	EventVendorNegotiationInitiated: foldNoop,
	EventVendorNegotiationResult:    foldNoop,
	EventVendorTermsUpdated:         foldVendorTermsUpdated,
	EventVendorPriceFluctuated:      foldVendorPriceFluctuated,
	EventDeliveryDisruptionStarted:  foldDeliveryDisruptionStarted,
	EventDeliveryDisruptionEnded:    foldDeliveryDisruptionEnded,
	EventExclusiveContractSigned:    foldExclusiveContractSigned,
	EventVendorContractCancelled:    foldVendorContractCancelled,

	EventSocialScoreAdjusted: foldSocialScoreAdjusted,
	EventCharityInitiated:    foldNoop,
	EventEthicalChoiceMade:   foldEthicalChoiceMade,

	EventRegulatoryFinding:       foldRegulatoryFinding,
	EventRegulatoryStatusUpdated: foldRegulatoryStatusUpdated,
	EventInvestigationStarted:    foldInvestigationStarted,
	EventRegulatoryReportFiled:   foldNoop,
	EventAppealFiled:             foldAppealFiled,
	EventAppealResolved:          foldAppealResolved,

	EventScandalStarted:       foldScandalStarted,
	EventScandalMarkerDecayed: foldScandalMarkerDecayed,
	EventFineIssued:           foldFineIssued,
	EventFinePaid:             foldFinePaid,
	EventAllianceFormed:       foldAllianceFormed,
	EventAllianceBreached:     foldAllianceBreached,

	EventCustomerReviewSubmitted: foldNoop,
	EventDilemmaTriggered:        foldDilemmaTriggered,
	EventCompetitorPriceChanged:  foldCompetitorPriceChanged,

	EventBuyoutProposed:          foldNoop,
	EventBuyoutAccepted:          foldNoop,
	EventMessageSent:             foldNoop,
	EventMessageReceived:         foldMessageReceived,
	EventLoyaltyProgramSubscribed: foldLoyaltyProgramSubscribed,
}

// Fold applies evt to state, returning the next state. The only clone in
// the whole apply path happens here, once, up front — every reducer below
// mutates the clone it is handed directly (spec §3's "deepcopy-on-write" is
// about never aliasing two different Fold outputs, not about cloning on
// every nested field write).
func Fold(state State, evt event.Event) (State, error) {
	fn, ok := foldRoutes[evt.Type]
	if !ok {
		return state, ErrUnknownEventType
	}
	return fn(state.clone(), evt)
}

// FoldHandledTypes lists every event type foldRoutes dispatches, for startup
// coverage validation against event.Registry's contents.
func FoldHandledTypes() []event.Type {
	types := make([]event.Type, 0, len(foldRoutes))
	for t := range foldRoutes {
		types = append(types, t)
	}
	return types
}

func decodeEvt[T any](evt event.Event) T {
	var payload T
	// events.Registry.ValidateForAppend already schema-checked this payload
	// before the event was ever stored, so a failure here indicates a
	// corrupted journal, not a recoverable condition.
	_ = json.Unmarshal(evt.PayloadJSON, &payload)
	return payload
}

func foldNoop(next State, evt event.Event) (State, error) { return next, nil }

// --- lifecycle & time ------------------------------------------------------

func foldAgentCreated(next State, evt event.Event) (State, error) {
	payload := decodeEvt[AgentCreatedPayload](evt)
	next.ID = evt.AgentID
	next.Name = payload.Name
	next.Cash = payload.InitialCash
	next.CreditLineLimit = payload.InitialCreditLimit
	next.CreditRating = 65
	next.SocialScore = 50
	next.RegulatoryStatus = RegulatoryStatusNormal
	return next, nil
}

func foldAgentRetired(next State, evt event.Event) (State, error) {
	payload := decodeEvt[AgentRetiredPayload](evt)
	next.PrivateNotes = append(next.PrivateNotes, "retired: "+payload.Reason)
	return next, nil
}

func foldTimeAdvanced(next State, evt event.Event) (State, error) {
	payload := decodeEvt[TimeAdvancedPayload](evt)
	next.Week = payload.NewWeek
	next.Day = payload.NewDay
	return next, nil
}

// --- finance -----------------------------------------------------------

func foldFundsTransferred(next State, evt event.Event) (State, error) {
	payload := decodeEvt[FundsTransferredPayload](evt)
	switch payload.Kind {
	case FundsKindRevenue, FundsKindLoan:
		next.Cash += payload.Amount
	case FundsKindExpense, FundsKindPayment, FundsKindFine, FundsKindPenalty:
		next.Cash -= payload.Amount
	}
	return next, nil
}

// creditRatingLoanDelta is the fixed per-kind adjustment LoanTaken applies to
// credit rating (spec §4.6 "adjust credit rating per fixed schedule"):
// riskier, shorter-term products cost more rating than cheap revolving
// credit.
var creditRatingLoanDelta = map[LoanKind]float64{
	LoanKindLOC:       -2,
	LoanKindEquipment: -4,
	LoanKindExpansion: -6,
	LoanKindEmergency: -8,
}

func foldLoanTaken(next State, evt event.Event) (State, error) {
	payload := decodeEvt[LoanTakenPayload](evt)
	next.Loans = append(next.Loans, Loan{
		ID:          payload.LoanID,
		Kind:        payload.Kind,
		Principal:   payload.Principal,
		Outstanding: payload.Principal,
		RatePct:     payload.RatePct,
		TermWeeks:   payload.TermWeeks,
		IssuedWeek:  next.Week,
	})
	next.TotalDebt += payload.Principal
	if payload.Kind == LoanKindLOC {
		next.CreditLineBalance += payload.Principal
	}
	next.CreditRating = clampFloat(next.CreditRating+creditRatingLoanDelta[payload.Kind], 0, 100)
	return next, nil
}

func foldDebtPaymentProcessed(next State, evt event.Event) (State, error) {
	payload := decodeEvt[DebtPaymentProcessedPayload](evt)
	idx := -1
	for i := range next.Loans {
		if next.Loans[i].ID == payload.LoanID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return next, ErrEntityNotFound
	}
	next.Loans[idx].Outstanding -= payload.Amount
	next.TotalDebt -= payload.Amount
	if next.Loans[idx].Kind == LoanKindLOC {
		next.CreditLineBalance -= payload.Amount
	}
	if next.Loans[idx].Outstanding <= 0 {
		next.Loans = append(next.Loans[:idx], next.Loans[idx+1:]...)
	}
	return next, nil
}

func foldInterestAccrued(next State, evt event.Event) (State, error) {
	payload := decodeEvt[InterestAccruedPayload](evt)
	for i := range next.Loans {
		if next.Loans[i].ID == payload.LoanID {
			next.Loans[i].Outstanding += payload.Amount
			next.TotalDebt += payload.Amount
			return next, nil
		}
	}
	return next, ErrEntityNotFound
}

func foldTaxLiabilityCalculated(next State, evt event.Event) (State, error) {
	payload := decodeEvt[TaxLiabilityCalculatedPayload](evt)
	next.TaxLiability += payload.Amount
	return next, nil
}

// foldWeeklyFixedCostsBilled records the billed breakdown only; the
// accompanying FundsTransferred(EXPENSE) event the ticker emits alongside it
// is what moves cash (spec §4.7 step 5).
func foldWeeklyFixedCostsBilled(next State, evt event.Event) (State, error) {
	return next, nil
}

// foldDailyRevenueProcessed records load/revenue accounting only; the
// accompanying FundsTransferred(REVENUE) event the ticker emits alongside it
// is what moves cash (spec §4.7 step 3).
func foldDailyRevenueProcessed(next State, evt event.Event) (State, error) {
	payload := decodeEvt[DailyRevenueProcessedPayload](evt)
	loc, ok := next.Locations[payload.LocationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	loc.WeeklyRevenue += payload.Revenue
	next.Locations[payload.LocationID] = loc
	next.MarketShareLoads += payload.TotalLoads
	return next, nil
}

// --- locations -----------------------------------------------------------

func foldLocationOpened(next State, evt event.Event) (State, error) {
	payload := decodeEvt[LocationOpenedPayload](evt)
	next.Locations[payload.LocationID] = LocationState{
		ID:                  payload.LocationID,
		Zone:                payload.Zone,
		MonthlyRent:         payload.MonthlyRent,
		Cleanliness:         100,
		Equipment:           make(map[string]MachineState),
		Staff:               make(map[string]StaffMember),
		ActivePricing:       make(map[ServiceName]float64),
		CompetitorPrices:    make(map[ServiceName]float64),
		VendorRelationships: make(map[string]VendorRelationship),
	}
	delete(next.AvailableListings, payload.LocationID)
	return next, nil
}

func foldLocationClosed(next State, evt event.Event) (State, error) {
	payload := decodeEvt[LocationClosedPayload](evt)
	delete(next.Locations, payload.LocationID)
	return next, nil
}

// --- pricing, equipment, inventory -----------------------------------------

func foldPriceSet(next State, evt event.Event) (State, error) {
	payload := decodeEvt[PriceSetPayload](evt)
	loc, ok := next.Locations[payload.LocationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	loc.ActivePricing[payload.Service] = payload.Price
	next.Locations[payload.LocationID] = loc
	return next, nil
}

func foldEquipmentPurchased(next State, evt event.Event) (State, error) {
	payload := decodeEvt[EquipmentPurchasedPayload](evt)
	loc, ok := next.Locations[payload.LocationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	loc.Equipment[payload.MachineID] = MachineState{
		ID:        payload.MachineID,
		Kind:      payload.Kind,
		Status:    MachineStatusOperational,
		Condition: 100,
	}
	next.Locations[payload.LocationID] = loc
	return next, nil
}

func foldEquipmentSold(next State, evt event.Event) (State, error) {
	payload := decodeEvt[EquipmentSoldPayload](evt)
	loc, ok := next.Locations[payload.LocationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	delete(loc.Equipment, payload.MachineID)
	next.Locations[payload.LocationID] = loc
	return next, nil
}

func foldEquipmentRepaired(next State, evt event.Event) (State, error) {
	payload := decodeEvt[EquipmentRepairedPayload](evt)
	loc, ok := next.Locations[payload.LocationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	machine, ok := loc.Equipment[payload.MachineID]
	if !ok {
		return next, ErrEntityNotFound
	}
	if payload.NewCondition > 0 {
		machine.Condition = clampFloat(payload.NewCondition, 0, 100)
	} else {
		machine.Condition = clampFloat(machine.Condition+payload.ConditionDelta, 0, 100)
	}
	if machine.Status == MachineStatusBroken && machine.Condition > 10 {
		machine.Status = MachineStatusOperational
	}
	loc.Equipment[payload.MachineID] = machine
	next.Locations[payload.LocationID] = loc
	return next, nil
}

func foldMachineWearUpdated(next State, evt event.Event) (State, error) {
	payload := decodeEvt[MachineWearUpdatedPayload](evt)
	loc, ok := next.Locations[payload.LocationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	machine, ok := loc.Equipment[payload.MachineID]
	if !ok {
		return next, ErrEntityNotFound
	}
	machine.Condition = clampFloat(machine.Condition-payload.WearDelta, 0, 100)
	machine.LoadsProcessedSinceService++
	if payload.NewStatus != "" {
		machine.Status = payload.NewStatus
	} else if machine.Condition <= 10 {
		machine.Status = MachineStatusBroken
	}
	loc.Equipment[payload.MachineID] = machine
	next.Locations[payload.LocationID] = loc
	return next, nil
}

func foldMachineStatusChanged(next State, evt event.Event) (State, error) {
	payload := decodeEvt[MachineStatusChangedPayload](evt)
	loc, ok := next.Locations[payload.LocationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	machine, ok := loc.Equipment[payload.MachineID]
	if !ok {
		return next, ErrEntityNotFound
	}
	machine.Status = payload.NewStatus
	loc.Equipment[payload.MachineID] = machine
	next.Locations[payload.LocationID] = loc
	return next, nil
}

func foldSuppliesPurchased(next State, evt event.Event) (State, error) {
	payload := decodeEvt[SuppliesPurchasedPayload](evt)
	loc, ok := next.Locations[payload.LocationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	loc.InventoryDetergent += payload.Detergent
	loc.InventorySoftener += payload.Softener
	next.Locations[payload.LocationID] = loc
	return next, nil
}

func foldMarketingBoostApplied(next State, evt event.Event) (State, error) {
	payload := decodeEvt[MarketingBoostAppliedPayload](evt)
	loc, ok := next.Locations[payload.LocationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	loc.MarketingBoost = &MarketingBoost{
		ServiceScope:          payload.ServiceScope,
		BoostMultiplier:       payload.BoostMultiplier,
		DurationDaysRemaining: payload.DurationDays,
		CampaignType:          payload.CampaignType,
	}
	next.Locations[payload.LocationID] = loc
	return next, nil
}

// --- staffing -----------------------------------------------------------

func foldStaffHired(next State, evt event.Event) (State, error) {
	payload := decodeEvt[StaffHiredPayload](evt)
	loc, ok := next.Locations[payload.LocationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	loc.Staff[payload.StaffID] = StaffMember{
		ID:         payload.StaffID,
		Name:       payload.Name,
		Role:       payload.Role,
		HourlyRate: payload.HourlyRate,
		Morale:     50,
	}
	next.Locations[payload.LocationID] = loc
	return next, nil
}

// foldStaffRemoved backs both StaffFired and StaffQuit: both remove the
// staff member from their location, and neither carries any other state
// difference a reducer needs to distinguish.
func foldStaffRemoved(next State, evt event.Event) (State, error) {
	locationID, staffID := "", ""
	switch evt.Type {
	case EventStaffFired:
		p := decodeEvt[StaffFiredPayload](evt)
		locationID, staffID = p.LocationID, p.StaffID
	case EventStaffQuit:
		p := decodeEvt[StaffQuitPayload](evt)
		locationID, staffID = p.LocationID, p.StaffID
	}
	loc, ok := next.Locations[locationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	delete(loc.Staff, staffID)
	next.Locations[locationID] = loc
	return next, nil
}

func foldStaffWageAdjusted(next State, evt event.Event) (State, error) {
	payload := decodeEvt[StaffWageAdjustedPayload](evt)
	loc, ok := next.Locations[payload.LocationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	staff, ok := loc.Staff[payload.StaffID]
	if !ok {
		return next, ErrEntityNotFound
	}
	staff.HourlyRate = payload.NewRate
	loc.Staff[payload.StaffID] = staff
	next.Locations[payload.LocationID] = loc
	return next, nil
}

func foldStaffBenefitsProvided(next State, evt event.Event) (State, error) {
	payload := decodeEvt[StaffBenefitsProvidedPayload](evt)
	loc, ok := next.Locations[payload.LocationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	staff, ok := loc.Staff[payload.StaffID]
	if !ok {
		return next, ErrEntityNotFound
	}
	staff.Morale = clampFloat(staff.Morale+payload.MoraleDelta, 0, 100)
	loc.Staff[payload.StaffID] = staff
	next.Locations[payload.LocationID] = loc
	return next, nil
}

// --- vendors ---------------------------------------------------------------

func foldVendorTermsUpdated(next State, evt event.Event) (State, error) {
	payload := decodeEvt[VendorTermsUpdatedPayload](evt)
	loc, ok := next.Locations[payload.LocationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	vendor, ok := loc.VendorRelationships[payload.VendorID]
	if !ok {
		return next, ErrEntityNotFound
	}
	vendor.UnitPrice = payload.NewUnitPrice
	vendor.PaymentHistory = pushPaymentHistory(vendor.PaymentHistory, 1.0)
	loc.VendorRelationships[payload.VendorID] = vendor
	next.Locations[payload.LocationID] = loc
	return next, nil
}

func foldVendorPriceFluctuated(next State, evt event.Event) (State, error) {
	payload := decodeEvt[VendorPriceFluctuatedPayload](evt)
	loc, ok := next.Locations[payload.LocationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	vendor, ok := loc.VendorRelationships[payload.VendorID]
	if !ok {
		return next, ErrEntityNotFound
	}
	vendor.UnitPrice = payload.NewUnitPrice
	loc.VendorRelationships[payload.VendorID] = vendor
	next.Locations[payload.LocationID] = loc
	return next, nil
}

func foldDeliveryDisruptionStarted(next State, evt event.Event) (State, error) {
	return foldVendorDisruption(next, evt, true)
}

func foldDeliveryDisruptionEnded(next State, evt event.Event) (State, error) {
	return foldVendorDisruption(next, evt, false)
}

func foldVendorDisruption(next State, evt event.Event, disrupted bool) (State, error) {
	locationID, vendorID := "", ""
	if disrupted {
		p := decodeEvt[DeliveryDisruptionStartedPayload](evt)
		locationID, vendorID = p.LocationID, p.VendorID
	} else {
		p := decodeEvt[DeliveryDisruptionEndedPayload](evt)
		locationID, vendorID = p.LocationID, p.VendorID
	}
	loc, ok := next.Locations[locationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	vendor, ok := loc.VendorRelationships[vendorID]
	if !ok {
		return next, ErrEntityNotFound
	}
	vendor.Disrupted = disrupted
	loc.VendorRelationships[vendorID] = vendor
	next.Locations[locationID] = loc
	return next, nil
}

func foldExclusiveContractSigned(next State, evt event.Event) (State, error) {
	payload := decodeEvt[ExclusiveContractSignedPayload](evt)
	loc, ok := next.Locations[payload.LocationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	vendor, ok := loc.VendorRelationships[payload.VendorID]
	if !ok {
		return next, ErrEntityNotFound
	}
	vendor.ExclusiveContract = true
	vendor.ExclusiveExpiryWeek = payload.ExpiryWeek
	loc.VendorRelationships[payload.VendorID] = vendor
	next.Locations[payload.LocationID] = loc
	return next, nil
}

func foldVendorContractCancelled(next State, evt event.Event) (State, error) {
	payload := decodeEvt[VendorContractCancelledPayload](evt)
	loc, ok := next.Locations[payload.LocationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	vendor, ok := loc.VendorRelationships[payload.VendorID]
	if !ok {
		return next, ErrEntityNotFound
	}
	vendor.ExclusiveContract = false
	vendor.ExclusiveExpiryWeek = 0
	loc.VendorRelationships[payload.VendorID] = vendor
	next.Locations[payload.LocationID] = loc
	return next, nil
}

// --- social, ethics, regulatory ---------------------------------------------

func foldSocialScoreAdjusted(next State, evt event.Event) (State, error) {
	payload := decodeEvt[SocialScoreAdjustedPayload](evt)
	next.SocialScore = clampFloat(next.SocialScore+payload.Delta, 0, 100)
	return next, nil
}

func foldEthicalChoiceMade(next State, evt event.Event) (State, error) {
	payload := decodeEvt[EthicalChoiceMadePayload](evt)
	delete(next.ActiveDilemmas, payload.Description)
	return next, nil
}

func foldRegulatoryFinding(next State, evt event.Event) (State, error) {
	payload := decodeEvt[RegulatoryFindingPayload](evt)
	next.PendingFines = append(next.PendingFines, Fine{
		ID:          payload.FineID,
		Description: payload.Description,
		Amount:      payload.Amount,
		IssuedWeek:  next.Week,
		DueWeek:     payload.DueWeek,
		Status:      FineStatusOpen,
	})
	return next, nil
}

func foldFineIssued(next State, evt event.Event) (State, error) {
	payload := decodeEvt[FineIssuedPayload](evt)
	next.PendingFines = append(next.PendingFines, Fine{
		ID:          payload.FineID,
		Description: payload.Description,
		Amount:      payload.Amount,
		IssuedWeek:  next.Week,
		DueWeek:     payload.DueWeek,
		Status:      FineStatusOpen,
	})
	return next, nil
}

func foldFinePaid(next State, evt event.Event) (State, error) {
	payload := decodeEvt[FinePaidPayload](evt)
	for i := range next.PendingFines {
		if next.PendingFines[i].ID == payload.FineID {
			next.PendingFines = append(next.PendingFines[:i], next.PendingFines[i+1:]...)
			return next, nil
		}
	}
	return next, ErrEntityNotFound
}

func foldRegulatoryStatusUpdated(next State, evt event.Event) (State, error) {
	payload := decodeEvt[RegulatoryStatusUpdatedPayload](evt)
	next.RegulatoryStatus = payload.NewStatus
	return next, nil
}

func foldInvestigationStarted(next State, evt event.Event) (State, error) {
	payload := decodeEvt[InvestigationStartedPayload](evt)
	next.ActiveInvestigations = append(next.ActiveInvestigations, payload.InvestigationID)
	return next, nil
}

func foldAppealFiled(next State, evt event.Event) (State, error) {
	payload := decodeEvt[AppealFiledPayload](evt)
	for i := range next.PendingFines {
		if next.PendingFines[i].ID == payload.FineID {
			next.PendingFines[i].Status = FineStatusAppealed
			return next, nil
		}
	}
	return next, ErrEntityNotFound
}

func foldAppealResolved(next State, evt event.Event) (State, error) {
	payload := decodeEvt[AppealResolvedPayload](evt)
	for i := range next.PendingFines {
		if next.PendingFines[i].ID == payload.FineID {
			if payload.Upheld {
				next.PendingFines = append(next.PendingFines[:i], next.PendingFines[i+1:]...)
			} else {
				next.PendingFines[i].Status = FineStatusOpen
			}
			return next, nil
		}
	}
	return next, ErrEntityNotFound
}

func foldScandalStarted(next State, evt event.Event) (State, error) {
	payload := decodeEvt[ScandalStartedPayload](evt)
	next.ActiveScandals = append(next.ActiveScandals, ScandalMarker{
		ID:            payload.ScandalID,
		Description:   payload.Description,
		Severity:      payload.Severity,
		StartWeek:     next.Week,
		DurationWeeks: payload.DurationWeeks,
		DecayRate:     payload.DecayRate,
	})
	return next, nil
}

func foldScandalMarkerDecayed(next State, evt event.Event) (State, error) {
	payload := decodeEvt[ScandalMarkerDecayedPayload](evt)
	for i := range next.ActiveScandals {
		if next.ActiveScandals[i].ID == payload.ScandalID {
			next.ActiveScandals[i].Severity -= payload.Decay
			if next.ActiveScandals[i].Severity <= 0 {
				next.ActiveScandals = append(next.ActiveScandals[:i], next.ActiveScandals[i+1:]...)
			}
			return next, nil
		}
	}
	return next, ErrEntityNotFound
}

func foldAllianceFormed(next State, evt event.Event) (State, error) {
	payload := decodeEvt[AllianceFormedPayload](evt)
	next.ActiveAlliances = append(next.ActiveAlliances, Alliance{
		ID:             payload.AllianceID,
		PartnerAgentID: payload.PartnerAgentID,
		Kind:           payload.Kind,
		StartWeek:      next.Week,
	})
	return next, nil
}

func foldAllianceBreached(next State, evt event.Event) (State, error) {
	payload := decodeEvt[AllianceBreachedPayload](evt)
	for i := range next.ActiveAlliances {
		if next.ActiveAlliances[i].ID == payload.AllianceID {
			next.ActiveAlliances = append(next.ActiveAlliances[:i], next.ActiveAlliances[i+1:]...)
			return next, nil
		}
	}
	return next, ErrEntityNotFound
}

// --- narrative & competition -------------------------------------------------

func foldDilemmaTriggered(next State, evt event.Event) (State, error) {
	payload := decodeEvt[DilemmaTriggeredPayload](evt)
	next.ActiveDilemmas[payload.DilemmaID] = Dilemma{
		ID:            payload.DilemmaID,
		Description:   payload.Description,
		TriggeredWeek: next.Week,
	}
	return next, nil
}

func foldCompetitorPriceChanged(next State, evt event.Event) (State, error) {
	payload := decodeEvt[CompetitorPriceChangedPayload](evt)
	loc, ok := next.Locations[payload.LocationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	loc.CompetitorPrices[payload.Service] = payload.NewPrice
	next.Locations[payload.LocationID] = loc
	return next, nil
}

// --- inter-agent & loyalty ---------------------------------------------------

func foldMessageReceived(next State, evt event.Event) (State, error) {
	payload := decodeEvt[MessageReceivedPayload](evt)
	next.PrivateNotes = append(next.PrivateNotes, "message from "+payload.SenderAgentID+": "+payload.Content)
	return next, nil
}

func foldLoyaltyProgramSubscribed(next State, evt event.Event) (State, error) {
	payload := decodeEvt[LoyaltyProgramSubscribedPayload](evt)
	loc, ok := next.Locations[payload.LocationID]
	if !ok {
		return next, ErrEntityNotFound
	}
	loc.LoyaltyMembers += payload.Members
	next.Locations[payload.LocationID] = loc
	next.LoyaltyMembers += payload.Members
	return next, nil
}
