package queries

import (
	"context"
	"database/sql"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler retrieves all non-terminal orders.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for active order queries.
// Requires a GORM database connection for query execution.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle executes the query. Orders in Delivered or Cancelled status are
// excluded; results are sorted by creation time for stable dashboards.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			recipient_lon,
			recipient_lat,
			current_lon,
			current_lat,
			is_abnormal,
			abnormal_reason
		FROM orders
		WHERE status NOT IN (?, ?)
		ORDER BY create_time, id
	`, order.Delivered, order.Cancelled).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id             uuid.UUID
			status         int
			recipientLon   float64
			recipientLat   float64
			currentLon     sql.NullFloat64
			currentLat     sql.NullFloat64
			isAbnormal     bool
			abnormalReason string
		)

		if err = rows.Scan(&id, &status, &recipientLon, &recipientLat,
			&currentLon, &currentLat, &isAbnormal, &abnormalReason); err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		recipient, coordErr := kernel.NewCoordinate(recipientLon, recipientLat)
		if coordErr != nil {
			return nil, coordErr
		}

		resp := GetActiveOrdersQueryResponse{
			OrderID:        orderID,
			Status:         order.Status(status).String(),
			Recipient:      recipient,
			IsAbnormal:     isAbnormal,
			AbnormalReason: order.AnomalyReason(abnormalReason).String(),
		}

		if currentLon.Valid && currentLat.Valid {
			position, posErr := kernel.NewCoordinate(currentLon.Float64, currentLat.Float64)
			if posErr != nil {
				return nil, posErr
			}
			resp.CurrentPosition = &position
		}

		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
