package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ConfirmDeliveryCommandHandler finalizes an arrived order.
// Verifies the confirming user placed the order before applying the
// Arrived -> Delivered transition conditionally.
type ConfirmDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewConfirmDeliveryCommandHandler creates a handler for delivery confirmation.
func NewConfirmDeliveryCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the delivery confirmation.
// Returns UnauthorizedError when the user did not place the order,
// InvalidStateError when the order has not arrived yet.
func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) error {
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

	if aggregate.Status() != order.Arrived {
		return errs.NewInvalidStateError("order", cmd.OrderID().String(),
			order.Arrived.String(), aggregate.Status().String())
	}

	if err = aggregate.Deliver(cmd.UserID()); err != nil {
		return err
	}

	updated, err := orderRepo.UpdateIfStatus(ctx, aggregate, order.Arrived)
	if err != nil {
		return err
	}
	if !updated {
		current, getErr := orderRepo.Get(ctx, cmd.OrderID())
		if getErr != nil {
			return getErr
		}
		return errs.NewInvalidStateError("order", cmd.OrderID().String(),
			order.Arrived.String(), current.Status().String())
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.PublishStatus(cmd.OrderID(), order.Delivered, "delivery confirmed by recipient")

	return nil
}
