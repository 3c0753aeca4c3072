package orderrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
//
// Status transitions go through UpdateIfStatus: a single UPDATE whose WHERE
// clause carries the expected prior status. When two writers race on the same
// order, the database lets exactly one through; the loser sees zero rows
// affected and gets false back.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// UpdateIfStatus persists the aggregate's mutable fields only when the stored
// status still equals expected. A column map is used instead of the DTO struct
// so zero values (cleared rule, unset abnormal flag) are written too.
func (r *GormOrderRepository) UpdateIfStatus(
	ctx context.Context,
	aggregate *order.Order,
	expected order.Status,
) (bool, error) {
	if err := aggregate.Validate(); err != nil {
		return false, err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND status = ?", dto.ID, int(expected)).
		Updates(map[string]any{
			"status":           dto.Status,
			"rule_id":          dto.RuleID,
			"route_path":       dto.RoutePath,
			"current_lon":      dto.CurrentLon,
			"current_lat":      dto.CurrentLat,
			"last_update_time": dto.LastUpdateTime,
			"is_abnormal":      dto.IsAbnormal,
			"abnormal_reason":  dto.AbnormalReason,
		})
	if result.Error != nil {
		return false, result.Error
	}

	if result.RowsAffected == 0 {
		return false, nil
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return true, nil
}

// UpdatePosition writes a position sample without touching the status.
// Returns false when the order no longer exists.
func (r *GormOrderRepository) UpdatePosition(
	ctx context.Context,
	id kernel.UUID,
	position kernel.Coordinate,
	at time.Time,
) (bool, error) {
	if err := id.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(map[string]any{
			"current_lon":      position.Lon(),
			"current_lat":      position.Lat(),
			"last_update_time": at,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// MarkAbnormal flags the order with a reason, once. The unflagged predicate in
// the WHERE clause keeps the first reason sticky under concurrent sweeps.
func (r *GormOrderRepository) MarkAbnormal(
	ctx context.Context,
	id kernel.UUID,
	reason order.AnomalyReason,
) (bool, error) {
	if err := errors.Join(id.Validate(), reason.Validate()); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND is_abnormal = ?", id.Bytes(), false).
		Updates(map[string]any{
			"is_abnormal":     true,
			"abnormal_reason": string(reason),
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// GetAllInStatus retrieves all orders in the given status in creation order.
func (r *GormOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", int(status)).
		Order("create_time, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

// GetUnflaggedInStatus retrieves orders in the given status not yet flagged abnormal.
func (r *GormOrderRepository) GetUnflaggedInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND is_abnormal = ?", int(status), false).
		Order("create_time, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainAll(dtos)
}

func toDomainAll(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
