package commands

import (
	"context"

	"dispatch/internal/pkg/errs"
)

// RecordPositionCommandHandler persists position samples for tracked orders.
//
// The write is a single conditional statement keyed on the order ID only; the
// status is deliberately not part of the predicate so a late sample arriving
// just after arrival is still recorded rather than rejected.
type RecordPositionCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewRecordPositionCommandHandler creates a handler for position updates.
func NewRecordPositionCommandHandler(uowFactory OrderUoWFactory) RecordPositionCommandHandler {
	return RecordPositionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the position sample.
// Returns ObjectNotFoundError when the order no longer exists; the simulator
// treats that as a normal stop signal.
func (h RecordPositionCommandHandler) Handle(ctx context.Context, cmd RecordPositionCommand) error {
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

	updated, err := uow.OrderRepository().UpdatePosition(ctx, cmd.OrderID(), cmd.Position(), cmd.At())
	if err != nil {
		return err
	}
	if !updated {
		return errs.NewObjectNotFoundError("orderID", cmd.OrderID().String())
	}

	return uow.Commit(ctx)
}
