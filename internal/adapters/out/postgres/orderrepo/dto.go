// Package orderrepo persists order aggregates. It maps the aggregate to a
// single wide row; route paths are stored as a flattened float8 array of
// longitude/latitude pairs so position math stays in the domain layer.
package orderrepo

import (
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// OrderDTO is the database representation of an order aggregate.
type OrderDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	MerchantID       uuid.UUID `gorm:"type:uuid;index"`
	UserID           uuid.UUID `gorm:"type:uuid;index"`
	Amount           int64
	RecipientName    string
	RecipientAddress string
	RecipientLon     float64
	RecipientLat     float64
	CreateTime       time.Time
	Status           int `gorm:"index"`
	RuleID           *int
	RoutePath        pq.Float64Array `gorm:"type:float8[]"`
	CurrentLon       *float64
	CurrentLat       *float64
	LastUpdateTime   *time.Time
	IsAbnormal       bool `gorm:"index"`
	AbnormalReason   string
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:               aggregate.ID().Bytes(),
		MerchantID:       aggregate.MerchantID().Bytes(),
		UserID:           aggregate.UserID().Bytes(),
		Amount:           aggregate.Amount(),
		RecipientName:    aggregate.RecipientName(),
		RecipientAddress: aggregate.RecipientAddress(),
		RecipientLon:     aggregate.Recipient().Lon(),
		RecipientLat:     aggregate.Recipient().Lat(),
		CreateTime:       aggregate.CreateTime(),
		Status:           int(aggregate.Status()),
		RuleID:           aggregate.RuleID(),
		RoutePath:        flattenCoordinates(aggregate.RoutePath()),
		LastUpdateTime:   aggregate.LastUpdateTime(),
		IsAbnormal:       aggregate.IsAbnormal(),
		AbnormalReason:   string(aggregate.AbnormalReason()),
	}

	if position := aggregate.CurrentPosition(); position != nil {
		lon, lat := position.Lon(), position.Lat()
		dto.CurrentLon = &lon
		dto.CurrentLat = &lat
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	merchantID, err := kernel.UUIDFromBytes(dto.MerchantID[:])
	if err != nil {
		return nil, err
	}

	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	recipient, err := kernel.NewCoordinate(dto.RecipientLon, dto.RecipientLat)
	if err != nil {
		return nil, err
	}

	routePath, err := coordinatesFromFlat(dto.RoutePath)
	if err != nil {
		return nil, err
	}

	var currentPosition *kernel.Coordinate
	if dto.CurrentLon != nil && dto.CurrentLat != nil {
		position, posErr := kernel.NewCoordinate(*dto.CurrentLon, *dto.CurrentLat)
		if posErr != nil {
			return nil, posErr
		}
		currentPosition = &position
	}

	return order.RestoreOrder(
		id, merchantID, userID, dto.Amount,
		dto.RecipientName, dto.RecipientAddress, recipient, dto.CreateTime,
		order.Status(dto.Status), dto.RuleID, routePath, currentPosition,
		dto.LastUpdateTime, dto.IsAbnormal, order.AnomalyReason(dto.AbnormalReason),
	)
}

// flattenCoordinates encodes coordinates as [lon, lat, lon, lat, ...].
// An empty route maps to nil so the column stays NULL.
func flattenCoordinates(coords []kernel.Coordinate) pq.Float64Array {
	if len(coords) == 0 {
		return nil
	}

	flat := make(pq.Float64Array, 0, len(coords)*2)
	for _, c := range coords {
		flat = append(flat, c.Lon(), c.Lat())
	}
	return flat
}

func coordinatesFromFlat(flat pq.Float64Array) ([]kernel.Coordinate, error) {
	if len(flat)%2 != 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("route_path",
			fmt.Errorf("odd number of values: %d", len(flat)))
	}

	coords := make([]kernel.Coordinate, 0, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		c, err := kernel.NewCoordinate(flat[i], flat[i+1])
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	return coords, nil
}
