package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
)

// ZoneRepository defines the persistence contract for delivery zone aggregates.
// Zones are read-mostly; no conditional-update discipline is needed beyond the
// storage layer's own guarantees.
type ZoneRepository interface {
	// Add persists a new zone aggregate.
	Add(ctx context.Context, aggregate *zone.Zone) error

	// Update persists changes to an existing zone.
	// Returns ObjectNotFoundError when absent.
	Update(ctx context.Context, aggregate *zone.Zone) error

	// Delete removes a zone by id. Returns ObjectNotFoundError when absent.
	Delete(ctx context.Context, id kernel.UUID) error

	// Get retrieves a zone by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*zone.Zone, error)

	// GetAll retrieves every zone in creation order. The order matters: zone
	// matching takes the first zone containing a point.
	GetAll(ctx context.Context) ([]*zone.Zone, error)

	// GetAllByMerchant retrieves the zones owned by a merchant in creation order.
	GetAllByMerchant(ctx context.Context, merchantID kernel.UUID) ([]*zone.Zone, error)
}
