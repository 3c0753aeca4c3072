package order

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// AnomalyReason is a tagged value recording why an order was flagged as
// abnormal. Only the first reason that commits is kept: the abnormal flag is
// monotonic, so a flagged order is never re-evaluated and the reason never
// overwritten within this core.
type AnomalyReason string

const (
	// ReasonNone means the order is not abnormal.
	ReasonNone AnomalyReason = ""

	// ReasonPendingTimeout means the order stayed pending past the allowed window.
	ReasonPendingTimeout AnomalyReason = "pending_timeout"

	// ReasonShippingTimeout means the order stayed shipping past the allowed window.
	ReasonShippingTimeout AnomalyReason = "shipping_timeout"

	// ReasonPositionStale means no position update arrived within the allowed gap.
	ReasonPositionStale AnomalyReason = "position_stale"

	// ReasonRouteDeviation means the current position strayed too far from the route.
	ReasonRouteDeviation AnomalyReason = "route_deviation"
)

// Validate checks that the reason is one of the defined values.
// ReasonNone is valid: it is the reason of a healthy order.
func (r AnomalyReason) Validate() error {
	switch r {
	case ReasonNone, ReasonPendingTimeout, ReasonShippingTimeout, ReasonPositionStale, ReasonRouteDeviation:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("anomalyReason",
			fmt.Errorf("%q is not a valid anomaly reason", string(r)))
	}
}

// IsFlagged reports whether the reason marks an actual anomaly.
func (r AnomalyReason) IsFlagged() bool {
	return r != ReasonNone
}

// String returns the persisted representation of the reason.
func (r AnomalyReason) String() string {
	if r == ReasonNone {
		return "none"
	}
	return string(r)
}
