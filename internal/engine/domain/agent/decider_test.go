package agent

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/suds/laundromat/internal/engine/domain/command"
)

func mustPayload(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return data
}

// decideFor is a thin test helper around Decide with a fixed agent id and
// clock; every test here targets a registered command kind, so a missing
// decider is a test bug, not an expected outcome.
func decideFor(t *testing.T, state State, cmdType command.Type, payload any) command.Decision {
	t.Helper()
	cmd := command.Command{AgentID: "agent-1", Type: cmdType, PayloadJSON: mustPayload(t, payload)}
	decision, ok := Decide(state, cmd, state.Week, state.Day, time.Unix(0, 0))
	if !ok {
		t.Fatalf("no decider registered for %s", cmdType)
	}
	return decision
}

func foldAll(t *testing.T, state State, decision command.Decision) State {
	t.Helper()
	for _, evt := range decision.Events {
		var err error
		state, err = Fold(state, evt)
		if err != nil {
			t.Fatalf("fold %s: %v", evt.Type, err)
		}
	}
	return state
}

func newState(t *testing.T) State {
	t.Helper()
	state := New()
	decision := decideFor(t, state, CommandCreateAgent, CreateAgentPayload{
		Name: "suds-and-duds", InitialCash: 20000, InitialCreditLimit: 6000,
	})
	return foldAll(t, state, decision)
}

func TestDecideCreateAgent(t *testing.T) {
	state := New()
	decision := decideFor(t, state, CommandCreateAgent, CreateAgentPayload{
		Name: "x", InitialCash: 1000, InitialCreditLimit: 500,
	})
	if len(decision.Rejections) != 0 {
		t.Fatalf("unexpected rejection: %+v", decision.Rejections)
	}
	if len(decision.Events) != 1 || decision.Events[0].Type != EventAgentCreated {
		t.Fatalf("expected one AgentCreated event, got %+v", decision.Events)
	}
}

func TestDecideCreateAgent_AlreadyExists(t *testing.T) {
	state := newState(t)
	decision := decideFor(t, state, CommandCreateAgent, CreateAgentPayload{Name: "y"})
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != command.CodeInvalidState {
		t.Fatalf("expected CodeInvalidState rejection, got %+v", decision)
	}
}

func TestDecideSetPrice_LocationNotFound(t *testing.T) {
	state := newState(t)
	decision := decideFor(t, state, CommandSetPrice, SetPricePayload{
		LocationID: "missing", Service: "WASH", Price: 5,
	})
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != command.CodeLocationNotFound {
		t.Fatalf("expected CodeLocationNotFound, got %+v", decision)
	}
}

func TestDecideTakeLoan_Accepted(t *testing.T) {
	state := newState(t)
	decision := decideFor(t, state, CommandTakeLoan, TakeLoanPayload{Kind: LoanKindEquipment, Principal: 3000})
	if len(decision.Rejections) != 0 {
		t.Fatalf("unexpected rejection: %+v", decision.Rejections)
	}
	if len(decision.Events) != 2 {
		t.Fatalf("expected LoanTaken + FundsTransferred, got %d events", len(decision.Events))
	}
	if decision.Events[0].Type != EventLoanTaken {
		t.Fatalf("expected first event LoanTaken, got %s", decision.Events[0].Type)
	}
	state = foldAll(t, state, decision)
	if len(state.Loans) != 1 {
		t.Fatalf("expected one loan on state, got %d", len(state.Loans))
	}
	if state.TotalDebt != 3000 {
		t.Fatalf("expected total debt to equal requested principal 3000, got %v", state.TotalDebt)
	}
	if state.Cash <= 20000 {
		t.Fatalf("expected cash to increase from loan principal, got %v", state.Cash)
	}
}

func TestDecideTakeLoan_UnknownKind(t *testing.T) {
	state := newState(t)
	decision := decideFor(t, state, CommandTakeLoan, TakeLoanPayload{Kind: LoanKind("NOT_A_KIND"), Principal: 1000})
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != command.CodeInvalidState {
		t.Fatalf("expected CodeInvalidState, got %+v", decision)
	}
}

func TestDecideTakeLoan_NonPositivePrincipal(t *testing.T) {
	state := newState(t)
	decision := decideFor(t, state, CommandTakeLoan, TakeLoanPayload{Kind: LoanKindLOC, Principal: 0})
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != command.CodeInvalidState {
		t.Fatalf("expected CodeInvalidState for non-positive principal, got %+v", decision)
	}
}

func TestDecideTakeLoan_BelowCreditFloor(t *testing.T) {
	state := newState(t)
	state.CreditRating = 10
	decision := decideFor(t, state, CommandTakeLoan, TakeLoanPayload{Kind: LoanKindExpansion, Principal: 1000})
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != command.CodeCreditError {
		t.Fatalf("expected CodeCreditError for credit rating below floor, got %+v", decision)
	}
}

func TestDecideTakeLoan_ExceedsLeverage(t *testing.T) {
	state := newState(t)
	state.CreditLineLimit = 100
	state.TotalDebt = 290
	decision := decideFor(t, state, CommandTakeLoan, TakeLoanPayload{Kind: LoanKindExpansion, Principal: 200})
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != command.CodeCreditError {
		t.Fatalf("expected CodeCreditError, got %+v", decision)
	}
}

func withLocation(state State, locationID string) State {
	state.Locations[locationID] = LocationState{
		ID:                  locationID,
		Equipment:           make(map[string]MachineState),
		Staff:               make(map[string]StaffMember),
		ActivePricing:       make(map[ServiceName]float64),
		CompetitorPrices:    make(map[ServiceName]float64),
		VendorRelationships: make(map[string]VendorRelationship),
	}
	return state
}

// TestDecideBuyEquipment_LiteralScenario reproduces spec §8.4: two units at
// a known location via the default vendor path, one EquipmentPurchased per
// unit plus a single FundsTransferred(EXPENSE, unit price × quantity).
func TestDecideBuyEquipment_LiteralScenario(t *testing.T) {
	state := newState(t)
	state = withLocation(state, "LOC_001")

	decision := decideFor(t, state, CommandBuyEquipment, BuyEquipmentPayload{
		LocationID: "LOC_001",
		Kind:       MachineKindWasher,
		Quantity:   2,
		VendorID:   DefaultVendorID,
	})
	if len(decision.Rejections) != 0 {
		t.Fatalf("unexpected rejection: %+v", decision.Rejections)
	}
	if len(decision.Events) != 3 {
		t.Fatalf("expected two EquipmentPurchased + one FundsTransferred, got %d events", len(decision.Events))
	}
	purchased := 0
	var fundsAmount float64
	for _, evt := range decision.Events {
		switch evt.Type {
		case EventEquipmentPurchased:
			purchased++
		case EventFundsTransferred:
			var payload FundsTransferredPayload
			if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
				t.Fatalf("unmarshal FundsTransferred: %v", err)
			}
			fundsAmount = payload.Amount
		}
	}
	if purchased != 2 {
		t.Fatalf("expected 2 EquipmentPurchased events, got %d", purchased)
	}
	if fundsAmount != 4000 {
		t.Fatalf("expected FundsTransferred amount 4000 (2 x 2000 unit price), got %v", fundsAmount)
	}

	state = foldAll(t, state, decision)
	if len(state.Locations["LOC_001"].Equipment) != 2 {
		t.Fatalf("expected two machines on state, got %d", len(state.Locations["LOC_001"].Equipment))
	}
	for _, m := range state.Locations["LOC_001"].Equipment {
		if m.Condition != 100 {
			t.Fatalf("expected purchased machine condition 100, got %v", m.Condition)
		}
	}
}

func TestDecideBuyEquipment_DefaultsQuantityToOne(t *testing.T) {
	state := newState(t)
	state = withLocation(state, "LOC_001")

	decision := decideFor(t, state, CommandBuyEquipment, BuyEquipmentPayload{
		LocationID: "LOC_001",
		Kind:       MachineKindWasher,
	})
	if len(decision.Rejections) != 0 {
		t.Fatalf("unexpected rejection: %+v", decision.Rejections)
	}
	purchased := 0
	for _, evt := range decision.Events {
		if evt.Type == EventEquipmentPurchased {
			purchased++
		}
	}
	if purchased != 1 {
		t.Fatalf("expected a zero/absent quantity to default to 1 unit, got %d", purchased)
	}
}

func TestDecideBuyEquipment_UnknownVendorRejected(t *testing.T) {
	state := newState(t)
	state = withLocation(state, "LOC_001")

	decision := decideFor(t, state, CommandBuyEquipment, BuyEquipmentPayload{
		LocationID: "LOC_001",
		Kind:       MachineKindWasher,
		Quantity:   1,
		VendorID:   "VENDOR_NOT_ON_FILE",
	})
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != command.CodeVendorNotFound {
		t.Fatalf("expected CodeVendorNotFound, got %+v", decision)
	}
}

func TestDecideMakeDebtPayment_Accepted(t *testing.T) {
	state := newState(t)
	state = foldAll(t, state, decideFor(t, state, CommandTakeLoan, TakeLoanPayload{Kind: LoanKindEquipment, Principal: 3000}))
	loanID := state.Loans[0].ID

	decision := decideFor(t, state, CommandMakeDebtPayment, MakeDebtPaymentPayload{LoanID: loanID, Amount: 1000})
	if len(decision.Rejections) != 0 {
		t.Fatalf("unexpected rejection: %+v", decision.Rejections)
	}
	state = foldAll(t, state, decision)
	if state.Loans[0].Outstanding != 2000 {
		t.Fatalf("expected outstanding balance 2000 after paying 1000 of 3000, got %v", state.Loans[0].Outstanding)
	}
}

func TestDecideMakeDebtPayment_LoanNotFound(t *testing.T) {
	state := newState(t)
	decision := decideFor(t, state, CommandMakeDebtPayment, MakeDebtPaymentPayload{LoanID: "missing", Amount: 100})
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != command.CodeInvalidState {
		t.Fatalf("expected CodeInvalidState, got %+v", decision)
	}
}

// TestDecideMakeDebtPayment_ExceedsOutstanding covers spec §4.5's "amount ≤
// min(cash, outstanding)": an overpayment is rejected even when cash alone
// would cover it.
func TestDecideMakeDebtPayment_ExceedsOutstanding(t *testing.T) {
	state := newState(t)
	state = foldAll(t, state, decideFor(t, state, CommandTakeLoan, TakeLoanPayload{Kind: LoanKindEquipment, Principal: 3000}))
	loanID := state.Loans[0].ID

	decision := decideFor(t, state, CommandMakeDebtPayment, MakeDebtPaymentPayload{LoanID: loanID, Amount: 3001})
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != command.CodeInvalidState {
		t.Fatalf("expected CodeInvalidState for payment exceeding outstanding balance, got %+v", decision)
	}
}

func TestDecideMakeDebtPayment_InsufficientCash(t *testing.T) {
	state := newState(t)
	state = foldAll(t, state, decideFor(t, state, CommandTakeLoan, TakeLoanPayload{Kind: LoanKindEquipment, Principal: 3000}))
	loanID := state.Loans[0].ID
	state.Cash = 500

	decision := decideFor(t, state, CommandMakeDebtPayment, MakeDebtPaymentPayload{LoanID: loanID, Amount: 1000})
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != command.CodeInsufficientFunds {
		t.Fatalf("expected CodeInsufficientFunds, got %+v", decision)
	}
}

func TestDecideMakeEthicalChoice_IncreasesSocialScore(t *testing.T) {
	state := newState(t)
	before := state.SocialScore
	decision := decideFor(t, state, CommandMakeEthicalChoice, MakeEthicalChoicePayload{Description: "returned a customer's lost ring"})
	if len(decision.Rejections) != 0 {
		t.Fatalf("unexpected rejection: %+v", decision.Rejections)
	}
	state = foldAll(t, state, decision)
	if state.SocialScore <= before {
		t.Fatalf("expected social score to increase, was %v now %v", before, state.SocialScore)
	}
}

func TestDecideNegotiateVendorDeal_RejectsDiscountOutOfRange(t *testing.T) {
	state := newState(t)
	state = withLocation(state, "LOC_001")
	loc := state.Locations["LOC_001"]
	loc.VendorRelationships["v1"] = VendorRelationship{ID: "v1", Tier: 2, UnitPrice: 10}
	state.Locations["LOC_001"] = loc

	decision := decideFor(t, state, CommandNegotiateVendorDeal, NegotiateVendorDealPayload{
		LocationID: "LOC_001", VendorID: "v1", RequestedDiscount: 0.75,
	})
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != command.CodeInvalidState {
		t.Fatalf("expected CodeInvalidState for discount outside [0, 0.5], got %+v", decision)
	}
}

func TestDecideHireStaff_RejectsUnknownRole(t *testing.T) {
	state := newState(t)
	state = withLocation(state, "LOC_001")

	decision := decideFor(t, state, CommandHireStaff, HireStaffPayload{
		LocationID: "LOC_001", Name: "new hire", Role: StaffRole("JANITOR"), HourlyRate: 15,
	})
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != command.CodeInvalidState {
		t.Fatalf("expected CodeInvalidState for an unrecognized staff role, got %+v", decision)
	}
}

func TestDecidePerformMaintenance_RejectsMachineAlreadyInRepair(t *testing.T) {
	state := newState(t)
	state = withLocation(state, "LOC_001")
	loc := state.Locations["LOC_001"]
	loc.Equipment["m1"] = MachineState{ID: "m1", Kind: MachineKindWasher, Status: MachineStatusInRepair, Condition: 40}
	state.Locations["LOC_001"] = loc

	decision := decideFor(t, state, CommandPerformMaintenance, PerformMaintenancePayload{
		LocationID: "LOC_001", MachineID: "m1", Kind: MaintenanceRoutine,
	})
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != command.CodeInvalidState {
		t.Fatalf("expected CodeInvalidState for a machine already in repair, got %+v", decision)
	}
}

func TestDeciderHandledCommands_CoversAllRegisteredCommands(t *testing.T) {
	registry := command.NewRegistry()
	if err := RegisterCommands(registry); err != nil {
		t.Fatalf("RegisterCommands: %v", err)
	}
	handled := make(map[command.Type]bool)
	for _, c := range DeciderHandledCommands() {
		handled[c] = true
	}
	for _, def := range registry.ListDefinitions() {
		if !handled[def.Type] {
			t.Errorf("command %s registered but has no decider", def.Type)
		}
	}
}
