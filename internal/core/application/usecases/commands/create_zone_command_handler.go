package commands

import (
	"context"
	"strconv"

	"dispatch/internal/core/domain/model/rule"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/pkg/errs"
)

// CreateZoneCommandHandler registers merchant delivery zones.
// The bound dispatch rule must exist in the rule table; zones never reference
// rules the simulator cannot execute.
type CreateZoneCommandHandler struct {
	uowFactory ZoneUoWFactory
	rules      *rule.Table
}

// NewCreateZoneCommandHandler creates a handler for zone creation.
func NewCreateZoneCommandHandler(uowFactory ZoneUoWFactory, rules *rule.Table) CreateZoneCommandHandler {
	return CreateZoneCommandHandler{
		uowFactory: uowFactory,
		rules:      rules,
	}
}

// Handle processes the zone creation command.
func (h CreateZoneCommandHandler) Handle(ctx context.Context, cmd CreateZoneCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if !h.rules.Has(cmd.RuleID()) {
		return errs.NewObjectNotFoundError("ruleID", strconv.Itoa(cmd.RuleID()))
	}

	newZone, err := zone.NewZone(
		cmd.ZoneID(),
		cmd.MerchantID(),
		cmd.Name(),
		cmd.Description(),
		cmd.RuleID(),
		cmd.Shape(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ZoneRepository().Add(ctx, newZone); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
