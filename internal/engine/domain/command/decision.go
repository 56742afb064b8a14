package command

import "github.com/suds/laundromat/internal/engine/domain/event"

// Decision is the pure outcome of a handler evaluating a command: either a
// set of events to append, or a set of rejections explaining why nothing was
// emitted. A Decision never carries both.
type Decision struct {
	Events     []event.Event
	Rejections []Rejection
}

// Rejection captures a single handler-visible reason a command was
// declined (spec §4.5 error taxonomy). Code is a stable machine-readable
// kind; Message is for diagnostics.
type Rejection struct {
	Code    RejectionCode
	Message string
}

// RejectionCode enumerates the handler-visible error taxonomy from spec
// §4.5.
type RejectionCode string

const (
	CodeInsufficientFunds RejectionCode = "INSUFFICIENT_FUNDS"
	CodeInvalidState      RejectionCode = "INVALID_STATE"
	CodeCreditError       RejectionCode = "CREDIT_ERROR"
	CodeLocationNotFound  RejectionCode = "LOCATION_NOT_FOUND"
	CodeMachineNotFound   RejectionCode = "MACHINE_NOT_FOUND"
	CodeVendorNotFound    RejectionCode = "VENDOR_NOT_FOUND"
	CodeStaffNotFound     RejectionCode = "STAFF_NOT_FOUND"
	CodeContractViolation RejectionCode = "CONTRACT_VIOLATION"
)

// Accept returns a decision that emits the provided events. Handlers call
// Accept exactly once, at the end of a successful validation path, so there
// is one place where "this command succeeded" is decided.
func Accept(events ...event.Event) Decision {
	return Decision{Events: append([]event.Event(nil), events...)}
}

// Reject returns a decision carrying rejections and no events. A rejected
// decision never produces a replayable state change.
func Reject(code RejectionCode, message string) Decision {
	return Decision{Rejections: []Rejection{{Code: code, Message: message}}}
}
