package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateZoneCommandIsNotConstructed = errors.New(
	"UpdateZoneCommand must be created via NewUpdateZoneCommand constructor",
)

// UpdateZoneCommand represents a merchant's request to replace a zone's name,
// geometry and dispatch rule. Updates are full replacements, not patches.
type UpdateZoneCommand struct { //nolint:recvcheck //using for validation
	zoneID      kernel.UUID
	merchantID  kernel.UUID
	name        string
	description string
	ruleID      int
	shape       zone.Shape

	guard guard.ConstructorGuard
}

// NewUpdateZoneCommand creates a command to update a delivery zone.
func NewUpdateZoneCommand(
	zoneID kernel.UUID,
	merchantID kernel.UUID,
	name string,
	description string,
	ruleID int,
	shape zone.Shape,
) (UpdateZoneCommand, error) {
	cmd := UpdateZoneCommand{
		description: description,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setZoneID(zoneID),
		cmd.setMerchantID(merchantID),
		cmd.setName(name),
		cmd.setRuleID(ruleID),
		cmd.setShape(shape),
	); err != nil {
		return UpdateZoneCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c UpdateZoneCommand) Validate() error {
	return c.guard.Validate(ErrUpdateZoneCommandIsNotConstructed)
}

// ZoneID returns the identifier of the zone to update.
func (c UpdateZoneCommand) ZoneID() kernel.UUID {
	return c.zoneID
}

// MerchantID returns the requesting merchant's identifier.
func (c UpdateZoneCommand) MerchantID() kernel.UUID {
	return c.merchantID
}

// Name returns the new display name.
func (c UpdateZoneCommand) Name() string {
	return c.name
}

// Description returns the new description.
func (c UpdateZoneCommand) Description() string {
	return c.description
}

// RuleID returns the new dispatch rule.
func (c UpdateZoneCommand) RuleID() int {
	return c.ruleID
}

// Shape returns the new geometry.
func (c UpdateZoneCommand) Shape() zone.Shape {
	return c.shape
}

func (c *UpdateZoneCommand) setZoneID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.zoneID = id
	return nil
}

func (c *UpdateZoneCommand) setMerchantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.merchantID = id
	return nil
}

func (c *UpdateZoneCommand) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *UpdateZoneCommand) setRuleID(ruleID int) error {
	if ruleID <= 0 {
		return errs.NewValueIsInvalidError("ruleID")
	}
	c.ruleID = ruleID
	return nil
}

func (c *UpdateZoneCommand) setShape(shape zone.Shape) error {
	if err := shape.Validate(); err != nil {
		return err
	}
	c.shape = shape
	return nil
}
