package commands

import (
	"context"
	"strconv"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/rule"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ShipOrderCommandHandler moves a pending order into shipping.
// Attaches the route and dispatch rule, then hands the order to the tracker
// so simulated movement begins immediately.
//
// The status transition is a conditional update keyed on the Pending status;
// when two ship requests race, exactly one succeeds and the other observes
// an InvalidStateError.
type ShipOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	rules      *rule.Table
	tracker    ports.OrderTracker
	publisher  ports.EventPublisher
}

// NewShipOrderCommandHandler creates a handler for shipping operations.
func NewShipOrderCommandHandler(
	uowFactory OrderUoWFactory,
	rules *rule.Table,
	tracker ports.OrderTracker,
	publisher ports.EventPublisher,
) ShipOrderCommandHandler {
	return ShipOrderCommandHandler{
		uowFactory: uowFactory,
		rules:      rules,
		tracker:    tracker,
		publisher:  publisher,
	}
}

// Handle processes the ship command.
// Verifies the dispatch rule exists, applies the Pending -> Shipping
// transition conditionally, and on success publishes the status change and
// starts the movement task from the beginning of the route.
func (h ShipOrderCommandHandler) Handle(ctx context.Context, cmd ShipOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if !h.rules.Has(cmd.RuleID()) {
		return errs.NewObjectNotFoundError("ruleID", strconv.Itoa(cmd.RuleID()))
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if aggregate.Status() != order.Pending {
		return errs.NewInvalidStateError("order", cmd.OrderID().String(),
			order.Pending.String(), aggregate.Status().String())
	}

	if err = aggregate.Ship(cmd.RuleID(), cmd.RoutePath()); err != nil {
		return err
	}

	updated, err := orderRepo.UpdateIfStatus(ctx, aggregate, order.Pending)
	if err != nil {
		return err
	}
	if !updated {
		// Lost the race: the row left Pending between the read and the write.
		current, getErr := orderRepo.Get(ctx, cmd.OrderID())
		if getErr != nil {
			return getErr
		}
		return errs.NewInvalidStateError("order", cmd.OrderID().String(),
			order.Pending.String(), current.Status().String())
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.PublishStatus(cmd.OrderID(), order.Shipping, "order shipped")
	h.tracker.Track(cmd.OrderID(), cmd.RuleID(), cmd.RoutePath(), 0)

	return nil
}
