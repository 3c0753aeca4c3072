package order

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder. This ensures all orders are properly validated.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructors")

// Order represents a delivery order. It is the aggregate root managing the
// order lifecycle from dispatch validation through simulated shipping,
// arrival detection and delivery confirmation.
//
// Order follows these invariants:
//   - Must have valid identifiers for itself, the merchant and the ordering user
//   - Amount must be positive
//   - The recipient coordinate must be a valid, constructed coordinate
//   - Status transitions follow the state machine defined in Status
//   - A route and rule can only be attached while Pending
//
// The immutable facts (merchant, user, amount, recipient details, creation
// time) never change after construction; only tracking state, status and the
// abnormal flag mutate.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// immutable facts fixed at creation
	merchantID       kernel.UUID
	userID           kernel.UUID
	amount           int64
	recipientName    string
	recipientAddress string
	recipient        kernel.Coordinate
	createTime       time.Time

	// status represents the current state in the order lifecycle
	status Status

	// ruleID and routePath are nil until the order is shipped
	ruleID    *int
	routePath []kernel.Coordinate

	// live tracking state written by the movement simulation
	currentPosition *kernel.Coordinate
	lastUpdateTime  *time.Time

	// abnormal flag set by the periodic sweep; monotonic
	isAbnormal     bool
	abnormalReason AnomalyReason

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates a new Order in Pending status with validation. This is the
// only way (together with RestoreOrder) to create a valid Order.
//
// Parameters:
//   - id: unique identifier for the order
//   - merchantID: the merchant fulfilling the order
//   - userID: the ordering user, later required for delivery confirmation
//   - amount: order amount in minor currency units (must be positive)
//   - recipientName, recipientAddress: recipient contact facts
//   - recipient: validated recipient coordinate, already matched to a zone
//   - createTime: order creation timestamp
//
// Example:
//
//	point, _ := kernel.NewCoordinate(120.301, 30.301)
//	o, err := order.NewOrder(kernel.NewUUID(), merchantID, userID,
//	    2500, "A. Customer", "1 Harbor Rd", point, time.Now())
//	if err != nil {
//	    // handle validation error
//	}
func NewOrder(
	id kernel.UUID,
	merchantID kernel.UUID,
	userID kernel.UUID,
	amount int64,
	recipientName string,
	recipientAddress string,
	recipient kernel.Coordinate,
	createTime time.Time,
) (*Order, error) {
	o := &Order{
		status:        Pending,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setMerchantID(merchantID),
		o.setUserID(userID),
		o.setAmount(amount),
		o.setRecipientName(recipientName),
		o.setRecipientAddress(recipientAddress),
		o.setRecipient(recipient),
		o.setCreateTime(createTime),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order aggregate from persistent storage,
// including its mutable tracking state. The same invariants as NewOrder are
// enforced; additionally the status and anomaly reason must be valid.
func RestoreOrder(
	id kernel.UUID,
	merchantID kernel.UUID,
	userID kernel.UUID,
	amount int64,
	recipientName string,
	recipientAddress string,
	recipient kernel.Coordinate,
	createTime time.Time,
	status Status,
	ruleID *int,
	routePath []kernel.Coordinate,
	currentPosition *kernel.Coordinate,
	lastUpdateTime *time.Time,
	isAbnormal bool,
	abnormalReason AnomalyReason,
) (*Order, error) {
	o, err := NewOrder(id, merchantID, userID, amount, recipientName, recipientAddress, recipient, createTime)
	if err != nil {
		return nil, err
	}

	if err = errors.Join(status.Validate(), abnormalReason.Validate()); err != nil {
		return nil, err
	}

	o.status = status
	o.ruleID = ruleID
	o.routePath = append([]kernel.Coordinate(nil), routePath...)
	o.currentPosition = currentPosition
	o.lastUpdateTime = lastUpdateTime
	o.isAbnormal = isAbnormal
	o.abnormalReason = abnormalReason

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// MerchantID returns the fulfilling merchant's identifier.
func (o *Order) MerchantID() kernel.UUID {
	return o.merchantID
}

// UserID returns the ordering user's identifier.
func (o *Order) UserID() kernel.UUID {
	return o.userID
}

// Amount returns the order amount in minor currency units.
func (o *Order) Amount() int64 {
	return o.amount
}

// RecipientName returns the recipient's name.
func (o *Order) RecipientName() string {
	return o.recipientName
}

// RecipientAddress returns the recipient's street address.
func (o *Order) RecipientAddress() string {
	return o.recipientAddress
}

// Recipient returns the recipient's coordinate.
func (o *Order) Recipient() kernel.Coordinate {
	return o.recipient
}

// CreateTime returns the creation timestamp.
func (o *Order) CreateTime() time.Time {
	return o.createTime
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// RuleID returns the attached dispatch rule, or nil before shipping.
func (o *Order) RuleID() *int {
	return o.ruleID
}

// RoutePath returns a copy of the attached route, or nil before shipping.
func (o *Order) RoutePath() []kernel.Coordinate {
	if o.routePath == nil {
		return nil
	}
	return append([]kernel.Coordinate(nil), o.routePath...)
}

// CurrentPosition returns the last recorded position, or nil if none.
func (o *Order) CurrentPosition() *kernel.Coordinate {
	return o.currentPosition
}

// LastUpdateTime returns when the position was last recorded, or nil if never.
func (o *Order) LastUpdateTime() *time.Time {
	return o.lastUpdateTime
}

// IsAbnormal reports whether the order has been flagged by the anomaly sweep.
func (o *Order) IsAbnormal() bool {
	return o.isAbnormal
}

// AbnormalReason returns the recorded anomaly reason, ReasonNone when healthy.
func (o *Order) AbnormalReason() AnomalyReason {
	return o.abnormalReason
}

// TraveledPath derives the prefix of the route up to the point nearest the
// current position. The nearest point is found by projecting over the whole
// route, not by cumulative arc length; exact ties resolve to the first
// occurrence scanning from the route start. Returns nil when the order has no
// route or no recorded position yet. The traveled path is never stored.
func (o *Order) TraveledPath() []kernel.Coordinate {
	if len(o.routePath) == 0 || o.currentPosition == nil {
		return nil
	}

	idx := kernel.NearestPointIndex(o.routePath, *o.currentPosition)
	if idx == kernel.NoNearestPoint {
		return nil
	}

	return append([]kernel.Coordinate(nil), o.routePath[:idx+1]...)
}

// Ship attaches a route and dispatch rule and transitions the order to
// Shipping. This is the single allowed transition point out of Pending.
//
// Business rules:
//   - The order must be Pending
//   - The rule id must be positive
//   - The route must contain at least one valid coordinate
func (o *Order) Ship(ruleID int, routePath []kernel.Coordinate) error {
	if ruleID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("ruleID",
			fmt.Errorf("%d is not greater than 0", ruleID))
	}

	if len(routePath) == 0 {
		return errs.NewValueIsRequiredError("routePath")
	}

	for i, p := range routePath {
		if err := p.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("routePath[%d]", i), err)
		}
	}

	newStatus, err := o.status.Ship()
	if err != nil {
		return err
	}

	o.status = newStatus
	o.ruleID = &ruleID
	o.routePath = append([]kernel.Coordinate(nil), routePath...)
	return nil
}

// RecordPosition updates the current position and last update timestamp.
// It does not touch the status: position writes are unconditional as long as
// the order exists, because a position report racing a status change is
// harmless and frequent.
func (o *Order) RecordPosition(position kernel.Coordinate, at time.Time) error {
	if err := position.Validate(); err != nil {
		return err
	}
	if at.IsZero() {
		return errs.NewValueIsRequiredError("at")
	}

	o.currentPosition = &position
	o.lastUpdateTime = &at
	return nil
}

// Arrive transitions the order from Shipping to Arrived.
// Callers gate this on proximity to the recipient; the aggregate only enforces
// the state machine.
func (o *Order) Arrive() error {
	newStatus, err := o.status.Arrive()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// IsWithinArrivalDistance reports whether the recorded position is within
// thresholdMeters of the recipient coordinate. False when no position has
// been recorded yet.
func (o *Order) IsWithinArrivalDistance(thresholdMeters float64) bool {
	if o.currentPosition == nil {
		return false
	}
	return kernel.DistanceMeters(*o.currentPosition, o.recipient) <= thresholdMeters
}

// Deliver transitions the order from Arrived to Delivered after verifying the
// requesting user placed the order.
//
// Returns UnauthorizedError when the user does not match, or a status error
// when the order has not arrived yet.
func (o *Order) Deliver(requestingUserID kernel.UUID) error {
	if err := requestingUserID.Validate(); err != nil {
		return err
	}

	if !o.userID.IsEqual(requestingUserID) {
		return errs.NewUnauthorizedError("order", o.id.String())
	}

	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// Cancel transitions the order to Cancelled from any non-final status.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

// MarkAbnormal flags the order as abnormal with the given reason.
// The flag is monotonic: flagging an already abnormal order is rejected so the
// first recorded reason is never overwritten.
func (o *Order) MarkAbnormal(reason AnomalyReason) error {
	if err := reason.Validate(); err != nil {
		return err
	}
	if !reason.IsFlagged() {
		return errs.NewValueIsRequiredError("reason")
	}
	if o.isAbnormal {
		return errs.NewInvalidStateError("order", o.id.String(),
			"not abnormal", fmt.Sprintf("abnormal (%s)", o.abnormalReason))
	}

	o.isAbnormal = true
	o.abnormalReason = reason
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setMerchantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.merchantID = id
	return nil
}

func (o *Order) setUserID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.userID = id
	return nil
}

func (o *Order) setAmount(amount int64) error {
	if amount <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount",
			fmt.Errorf("%d is not greater than 0", amount))
	}
	o.amount = amount
	return nil
}

func (o *Order) setRecipientName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("recipientName")
	}
	o.recipientName = name
	return nil
}

func (o *Order) setRecipientAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("recipientAddress")
	}
	o.recipientAddress = address
	return nil
}

func (o *Order) setRecipient(recipient kernel.Coordinate) error {
	if err := recipient.Validate(); err != nil {
		return err
	}
	o.recipient = recipient
	return nil
}

func (o *Order) setCreateTime(createTime time.Time) error {
	if createTime.IsZero() {
		return errs.NewValueIsRequiredError("createTime")
	}
	o.createTime = createTime
	return nil
}
