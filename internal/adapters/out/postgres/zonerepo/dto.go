// Package zonerepo persists delivery zone aggregates. The zone's shape is a
// tagged variant: polygon rings go into a flattened float8 array, circles into
// nullable center and radius columns. Creation time is kept because zone
// matching scans zones in creation order.
package zonerepo

import (
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ZoneDTO is the database representation of a delivery zone.
type ZoneDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	MerchantID   uuid.UUID `gorm:"type:uuid;index"`
	Name         string
	Description  string
	RuleID       int
	ShapeKind    int
	Ring         pq.Float64Array `gorm:"type:float8[]"`
	CenterLon    *float64
	CenterLat    *float64
	RadiusMeters *float64
	CreatedAt    time.Time `gorm:"autoCreateTime;index"`
}

// TableName overrides GORM's default naming to use "zones".
func (ZoneDTO) TableName() string {
	return "zones"
}

func fromDomain(aggregate *zone.Zone) ZoneDTO {
	dto := ZoneDTO{
		ID:          aggregate.ID().Bytes(),
		MerchantID:  aggregate.MerchantID().Bytes(),
		Name:        aggregate.Name(),
		Description: aggregate.Description(),
		RuleID:      aggregate.RuleID(),
		ShapeKind:   int(aggregate.Shape().Kind()),
	}

	switch aggregate.Shape().Kind() {
	case zone.ShapeKindPolygon:
		dto.Ring = flattenRing(aggregate.Shape().Ring())
	case zone.ShapeKindCircle:
		lon := aggregate.Shape().Center().Lon()
		lat := aggregate.Shape().Center().Lat()
		radius := aggregate.Shape().RadiusMeters()
		dto.CenterLon = &lon
		dto.CenterLat = &lat
		dto.RadiusMeters = &radius
	}

	return dto
}

func toDomain(dto ZoneDTO) (*zone.Zone, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	merchantID, err := kernel.UUIDFromBytes(dto.MerchantID[:])
	if err != nil {
		return nil, err
	}

	shape, err := shapeFromDTO(dto)
	if err != nil {
		return nil, err
	}

	return zone.RestoreZone(id, merchantID, dto.Name, dto.Description, dto.RuleID, shape)
}

func shapeFromDTO(dto ZoneDTO) (zone.Shape, error) {
	switch zone.ShapeKind(dto.ShapeKind) {
	case zone.ShapeKindPolygon:
		ring, err := ringFromFlat(dto.Ring)
		if err != nil {
			return zone.Shape{}, err
		}
		return zone.NewPolygonShape(ring)

	case zone.ShapeKindCircle:
		if dto.CenterLon == nil || dto.CenterLat == nil || dto.RadiusMeters == nil {
			return zone.Shape{}, errs.NewValueIsRequiredError("circle shape columns")
		}
		center, err := kernel.NewCoordinate(*dto.CenterLon, *dto.CenterLat)
		if err != nil {
			return zone.Shape{}, err
		}
		return zone.NewCircleShape(center, *dto.RadiusMeters)

	default:
		return zone.Shape{}, errs.NewValueIsInvalidErrorWithCause("shape_kind",
			fmt.Errorf("unknown kind: %d", dto.ShapeKind))
	}
}

func flattenRing(ring []kernel.Coordinate) pq.Float64Array {
	flat := make(pq.Float64Array, 0, len(ring)*2)
	for _, c := range ring {
		flat = append(flat, c.Lon(), c.Lat())
	}
	return flat
}

func ringFromFlat(flat pq.Float64Array) ([]kernel.Coordinate, error) {
	if len(flat)%2 != 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("ring",
			fmt.Errorf("odd number of values: %d", len(flat)))
	}

	ring := make([]kernel.Coordinate, 0, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		c, err := kernel.NewCoordinate(flat[i], flat[i+1])
		if err != nil {
			return nil, err
		}
		ring = append(ring, c)
	}
	return ring, nil
}
