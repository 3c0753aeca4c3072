package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Rejects orders whose recipient coordinate is not covered by any delivery
// zone, so undeliverable orders never enter the system.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	cmd, _ := NewCreateOrderCommand(kernel.NewUUID(), merchantID, userID,
//	    2500, "A. Customer", "1 Harbor Rd", recipient)
//
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrOutOfDeliveryArea) {
//	    // recipient is outside every delivery zone
//	}
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
// Requires a UoWFactory because the deliverability check reads zones in the
// same transaction that inserts the order.
func NewCreateOrderCommandHandler(uowFactory UoWFactory) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the order creation command.
// Matches the recipient coordinate against all delivery zones; the order is
// created in "pending" status only when a zone covers it, otherwise
// errs.OutOfDeliveryAreaError is returned.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
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

	zones, err := uow.ZoneRepository().GetAll(ctx)
	if err != nil {
		return err
	}

	match, err := services.NewZoneMatcher().Match(zones, cmd.Recipient())
	if err != nil {
		return err
	}
	if !match.Deliverable {
		return errs.NewOutOfDeliveryAreaError(cmd.Recipient().Lon(), cmd.Recipient().Lat())
	}

	newOrder, err := order.NewOrder(
		cmd.OrderID(),
		cmd.MerchantID(),
		cmd.UserID(),
		cmd.Amount(),
		cmd.RecipientName(),
		cmd.RecipientAddress(),
		cmd.Recipient(),
		time.Now(),
	)
	if err != nil {
		return err
	}

	if err = uow.OrderRepository().Add(ctx, newOrder); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
