package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of a delivery order.
// It implements a state machine with defined transitions to ensure orders
// follow the correct business workflow.
//
// State transitions:
//
//	Pending ──> Shipping ──> Arrived ──> Delivered
//	   │            │           │
//	   └────────────┴───────────┴──────> Cancelled
//
// Every transition is applied conditionally at the storage layer: the update
// only commits when the persisted status still matches the expected prior
// status, so racing callers cannot both succeed.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status after dispatch validation.
	// Orders stay pending until a route and rule are attached.
	Pending

	// Shipping indicates the order is being advanced along its route.
	Shipping

	// Arrived indicates the simulated position reached the recipient.
	// The order waits for an explicit delivery confirmation.
	Arrived

	// Delivered indicates the recipient confirmed delivery.
	// This is a final state.
	Delivered

	// Cancelled is the escape hatch reachable from any non-final state.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Shipping:  "Shipping",
		Arrived:   "Arrived",
		Delivered: "Delivered",
		Cancelled: "Cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "Pending",
		Shipping:  "Shipping",
		Arrived:   "Arrived",
		Delivered: "Delivered",
		Cancelled: "Cancelled",
	}
}

// Validate checks if the Status value is valid.
// Unknown (0) and any out-of-range values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Implements fmt.Stringer and is safe on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsFinal reports whether no further transitions are possible from this status.
func (s Status) IsFinal() bool {
	return s == Delivered || s == Cancelled
}

// Ship transitions the status to Shipping.
//
// Valid transitions:
//   - Pending -> Shipping (route and rule attached)
//
// Returns (0, error) if the transition is not allowed from the current status.
func (s Status) Ship() (Status, error) {
	if s != Pending {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to ship", s.String()))
	}

	return Shipping, nil
}

// Arrive transitions the status to Arrived.
//
// Valid transitions:
//   - Shipping -> Arrived (position reached the recipient)
func (s Status) Arrive() (Status, error) {
	if s != Shipping {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to arrive", s.String()))
	}

	return Arrived, nil
}

// Deliver transitions the status to Delivered.
//
// Valid transitions:
//   - Arrived -> Delivered (recipient confirmation)
//
// A shipping order cannot be delivered directly; it must arrive first.
func (s Status) Deliver() (Status, error) {
	if s != Arrived {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to deliver", s.String()))
	}

	return Delivered, nil
}

// Cancel transitions the status to Cancelled.
//
// Valid from any non-final status. Cancelling an already delivered or
// cancelled order is rejected.
func (s Status) Cancel() (Status, error) {
	if err := s.Validate(); err != nil {
		return 0, err
	}
	if s.IsFinal() {
		return 0, errs.NewValueIsInvalidErrorWithCause("status is invalid",
			fmt.Errorf("%s is not a valid status to cancel", s.String()))
	}

	return Cancelled, nil
}
