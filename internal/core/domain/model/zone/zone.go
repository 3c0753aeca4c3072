package zone

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrZoneIsNotConstructed is returned when a Zone instance was not created
// through NewZone or RestoreZone.
var ErrZoneIsNotConstructed = errors.New("Zone must be created via NewZone or RestoreZone constructors")

// Zone is a merchant-owned geographic delivery area bound to a dispatch rule.
// Orders may only be created for recipient coordinates covered by a zone, and
// the matched zone's rule determines how fast the delivery is simulated.
//
// Invariants:
//   - Must have valid identifiers for the zone itself and the owning merchant
//   - The shape must be a valid polygon or circle variant
//   - The rule id must be positive
//   - A zone referenced by an in-flight order is treated as immutable; there is
//     no cascading mutation of orders when a zone changes
type Zone struct {
	id          kernel.UUID
	merchantID  kernel.UUID
	name        string
	description string
	ruleID      int
	shape       Shape

	isConstructed bool
}

// NewZone creates a Zone with validation. This is the only way (together with
// RestoreZone) to obtain a valid Zone.
//
// Example:
//
//	center, _ := kernel.NewCoordinate(120.30, 30.30)
//	shape, _ := zone.NewCircleShape(center, 2000)
//	z, err := zone.NewZone(kernel.NewUUID(), merchantID, "downtown", "city core", 101, shape)
func NewZone(
	id kernel.UUID,
	merchantID kernel.UUID,
	name string,
	description string,
	ruleID int,
	shape Shape,
) (*Zone, error) {
	z := &Zone{
		description:   description,
		isConstructed: true,
	}

	if err := errors.Join(
		z.setID(id),
		z.setMerchantID(merchantID),
		z.setName(name),
		z.setRuleID(ruleID),
		z.setShape(shape),
	); err != nil {
		return nil, err
	}

	return z, nil
}

// RestoreZone reconstructs a Zone from persistent storage. The same
// validations as NewZone apply; storage is not trusted to hold invariants.
func RestoreZone(
	id kernel.UUID,
	merchantID kernel.UUID,
	name string,
	description string,
	ruleID int,
	shape Shape,
) (*Zone, error) {
	return NewZone(id, merchantID, name, description, ruleID, shape)
}

// Validate ensures the Zone was created through a constructor.
func (z *Zone) Validate() error {
	if z == nil || !z.isConstructed {
		return ErrZoneIsNotConstructed
	}

	return nil
}

// ID returns the zone's unique identifier.
func (z *Zone) ID() kernel.UUID {
	return z.id
}

// MerchantID returns the owning merchant's identifier.
func (z *Zone) MerchantID() kernel.UUID {
	return z.merchantID
}

// Name returns the zone's display name.
func (z *Zone) Name() string {
	return z.name
}

// Description returns the zone's free-form description.
func (z *Zone) Description() string {
	return z.description
}

// RuleID returns the dispatch rule bound to this zone.
func (z *Zone) RuleID() int {
	return z.ruleID
}

// Shape returns the zone's geometry.
func (z *Zone) Shape() Shape {
	return z.shape
}

// Contains reports whether the point lies inside the zone's shape.
func (z *Zone) Contains(point kernel.Coordinate) bool {
	return z.shape.Contains(point)
}

// Rename updates the zone's name and description.
func (z *Zone) Rename(name string, description string) error {
	if err := z.setName(name); err != nil {
		return err
	}
	z.description = description
	return nil
}

// Reshape replaces the zone's geometry and dispatch rule.
func (z *Zone) Reshape(shape Shape, ruleID int) error {
	return errors.Join(z.setShape(shape), z.setRuleID(ruleID))
}

// IsOwnedBy reports whether the given merchant owns this zone.
func (z *Zone) IsOwnedBy(merchantID kernel.UUID) bool {
	return z.merchantID.IsEqual(merchantID)
}

func (z *Zone) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	z.id = id
	return nil
}

func (z *Zone) setMerchantID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	z.merchantID = id
	return nil
}

func (z *Zone) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	z.name = name
	return nil
}

func (z *Zone) setRuleID(ruleID int) error {
	if ruleID <= 0 {
		return errs.NewValueIsInvalidError("ruleID")
	}
	z.ruleID = ruleID
	return nil
}

func (z *Zone) setShape(shape Shape) error {
	if err := shape.Validate(); err != nil {
		return err
	}
	z.shape = shape
	return nil
}
