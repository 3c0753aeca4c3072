package commands

import (
	"context"

	"dispatch/internal/pkg/errs"
)

// DeleteZoneCommandHandler removes merchant delivery zones.
// Deleting a zone does not touch orders already created under it.
type DeleteZoneCommandHandler struct {
	uowFactory ZoneUoWFactory
}

// NewDeleteZoneCommandHandler creates a handler for zone deletion.
func NewDeleteZoneCommandHandler(uowFactory ZoneUoWFactory) DeleteZoneCommandHandler {
	return DeleteZoneCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the zone deletion command.
// Returns ObjectNotFoundError when the zone is absent and UnauthorizedError
// when the requesting merchant does not own it.
func (h DeleteZoneCommandHandler) Handle(ctx context.Context, cmd DeleteZoneCommand) error {
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

	zoneRepo := uow.ZoneRepository()

	aggregate, err := zoneRepo.Get(ctx, cmd.ZoneID())
	if err != nil {
		return err
	}

	if !aggregate.IsOwnedBy(cmd.MerchantID()) {
		return errs.NewUnauthorizedError("zone", cmd.ZoneID().String())
	}

	if err = zoneRepo.Delete(ctx, cmd.ZoneID()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
