package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrDeleteZoneCommandIsNotConstructed = errors.New(
	"DeleteZoneCommand must be created via NewDeleteZoneCommand constructor",
)

// DeleteZoneCommand represents a merchant's request to remove a delivery zone.
type DeleteZoneCommand struct { //nolint:recvcheck //using for validation
	zoneID     kernel.UUID
	merchantID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeleteZoneCommand creates a command to delete a delivery zone.
func NewDeleteZoneCommand(zoneID, merchantID kernel.UUID) (DeleteZoneCommand, error) {
	cmd := DeleteZoneCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setZoneID(zoneID),
		cmd.setMerchantID(merchantID),
	); err != nil {
		return DeleteZoneCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DeleteZoneCommand) Validate() error {
	return c.guard.Validate(ErrDeleteZoneCommandIsNotConstructed)
}

// ZoneID returns the identifier of the zone to delete.
func (c DeleteZoneCommand) ZoneID() kernel.UUID {
	return c.zoneID
}

// MerchantID returns the requesting merchant's identifier.
func (c DeleteZoneCommand) MerchantID() kernel.UUID {
	return c.merchantID
}

func (c *DeleteZoneCommand) setZoneID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.zoneID = id
	return nil
}

func (c *DeleteZoneCommand) setMerchantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.merchantID = id
	return nil
}
