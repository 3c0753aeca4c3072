package commands

import (
	"context"
	"strconv"

	"dispatch/internal/core/domain/model/rule"
	"dispatch/internal/pkg/errs"
)

// UpdateZoneCommandHandler replaces a zone's name, geometry and rule.
// Only the owning merchant may update a zone. In-flight orders created under
// the old geometry are untouched; zone changes are never cascaded.
type UpdateZoneCommandHandler struct {
	uowFactory ZoneUoWFactory
	rules      *rule.Table
}

// NewUpdateZoneCommandHandler creates a handler for zone updates.
func NewUpdateZoneCommandHandler(uowFactory ZoneUoWFactory, rules *rule.Table) UpdateZoneCommandHandler {
	return UpdateZoneCommandHandler{
		uowFactory: uowFactory,
		rules:      rules,
	}
}

// Handle processes the zone update command.
// Returns ObjectNotFoundError when the zone is absent and UnauthorizedError
// when the requesting merchant does not own it.
func (h UpdateZoneCommandHandler) Handle(ctx context.Context, cmd UpdateZoneCommand) error {
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

	zoneRepo := uow.ZoneRepository()

	aggregate, err := zoneRepo.Get(ctx, cmd.ZoneID())
	if err != nil {
		return err
	}

	if !aggregate.IsOwnedBy(cmd.MerchantID()) {
		return errs.NewUnauthorizedError("zone", cmd.ZoneID().String())
	}

	if err = aggregate.Rename(cmd.Name(), cmd.Description()); err != nil {
		return err
	}
	if err = aggregate.Reshape(cmd.Shape(), cmd.RuleID()); err != nil {
		return err
	}

	if err = zoneRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
