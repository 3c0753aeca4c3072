package simulator

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// Reconciler rescans storage for shipping orders that have no movement task
// and hands them back to the tracker. This covers orders shipped by a
// previous process instance and tasks lost to transient failures.
type Reconciler struct {
	orders  ports.OrderRepository
	tracker *Tracker
	logger  *slog.Logger
}

// NewReconciler creates a reconciler over the given order repository.
func NewReconciler(orders ports.OrderRepository, tracker *Tracker, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		orders:  orders,
		tracker: tracker,
		logger:  logger.With("component", "reconciler"),
	}
}

// Reconcile starts movement tasks for untracked shipping orders. The route
// cursor resumes at the point nearest the last recorded position, so a
// restarted process does not replay the whole route.
func (r *Reconciler) Reconcile(ctx context.Context) error {
	shipping, err := r.orders.GetAllInStatus(ctx, order.Shipping)
	if err != nil {
		return err
	}

	for _, o := range shipping {
		if r.tracker.IsTracked(o.ID()) {
			continue
		}

		ruleID := o.RuleID()
		route := o.RoutePath()
		if ruleID == nil || len(route) == 0 {
			r.logger.Error("shipping order has no rule or route, skipping",
				"orderID", o.ID())
			continue
		}

		r.tracker.Track(o.ID(), *ruleID, route, resumeIndex(route, o.CurrentPosition()))
	}

	return nil
}

// resumeIndex picks where along the route a recovered task should continue.
func resumeIndex(route []kernel.Coordinate, position *kernel.Coordinate) int {
	if position == nil {
		return 0
	}
	idx := kernel.NearestPointIndex(route, *position)
	if idx == kernel.NoNearestPoint {
		return 0
	}
	return idx
}
