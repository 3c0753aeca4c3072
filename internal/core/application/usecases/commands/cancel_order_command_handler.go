package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// CancelOrderCommandHandler is the escape hatch out of any non-terminal
// status. On success the movement task for the order is torn down.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	tracker    ports.OrderTracker
	publisher  ports.EventPublisher
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	tracker ports.OrderTracker,
	publisher ports.EventPublisher,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		tracker:    tracker,
		publisher:  publisher,
	}
}

// Handle processes the cancellation.
// The conditional update is keyed on the status the order was read in, so a
// concurrent transition (arrival, delivery) invalidates the cancellation
// instead of silently overwriting it.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
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

	priorStatus := aggregate.Status()
	if err = aggregate.Cancel(); err != nil {
		return err
	}

	updated, err := orderRepo.UpdateIfStatus(ctx, aggregate, priorStatus)
	if err != nil {
		return err
	}
	if !updated {
		current, getErr := orderRepo.Get(ctx, cmd.OrderID())
		if getErr != nil {
			return getErr
		}
		return errs.NewInvalidStateError("order", cmd.OrderID().String(),
			priorStatus.String(), current.Status().String())
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	// Prompt teardown of the movement task; the task would also notice the
	// cancelled status on its own next tick.
	h.tracker.Untrack(cmd.OrderID())
	h.publisher.PublishStatus(cmd.OrderID(), order.Cancelled, "order cancelled")

	return nil
}
