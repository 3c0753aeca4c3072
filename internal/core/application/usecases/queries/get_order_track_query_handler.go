package queries

import (
	"context"
	"database/sql"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetOrderTrackQueryHandler builds the tracking view of an order directly
// from its row. The traveled path is recomputed on every read by projecting
// the current position onto the stored route.
type GetOrderTrackQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderTrackQueryHandler creates a handler for order tracking queries.
// Requires a GORM database connection for query execution.
func NewGetOrderTrackQueryHandler(db *gorm.DB) GetOrderTrackQueryHandler {
	return GetOrderTrackQueryHandler{db: db}
}

// Handle executes the query. Returns ObjectNotFoundError for unknown orders.
func (h GetOrderTrackQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTrackQuery,
) (GetOrderTrackQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTrackQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			recipient_lon,
			recipient_lat,
			route_path,
			current_lon,
			current_lat,
			last_update_time,
			is_abnormal,
			abnormal_reason
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	var (
		id             uuid.UUID
		status         int
		recipientLon   float64
		recipientLat   float64
		routePath      pq.Float64Array
		currentLon     sql.NullFloat64
		currentLat     sql.NullFloat64
		lastUpdateTime sql.NullTime
		isAbnormal     bool
		abnormalReason string
	)

	err := row.Scan(&id, &status, &recipientLon, &recipientLat, &routePath,
		&currentLon, &currentLat, &lastUpdateTime, &isAbnormal, &abnormalReason)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderTrackQueryResponse{}, errs.NewObjectNotFoundError("orderID", query.OrderID().String())
	}
	if err != nil {
		return GetOrderTrackQueryResponse{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderTrackQueryResponse{}, err
	}

	recipient, err := kernel.NewCoordinate(recipientLon, recipientLat)
	if err != nil {
		return GetOrderTrackQueryResponse{}, err
	}

	route, err := coordinatesFromFlat(routePath)
	if err != nil {
		return GetOrderTrackQueryResponse{}, err
	}

	resp := GetOrderTrackQueryResponse{
		OrderID:        orderID,
		Status:         order.Status(status).String(),
		Recipient:      recipient,
		RoutePath:      route,
		IsAbnormal:     isAbnormal,
		AbnormalReason: order.AnomalyReason(abnormalReason).String(),
	}

	if currentLon.Valid && currentLat.Valid {
		position, posErr := kernel.NewCoordinate(currentLon.Float64, currentLat.Float64)
		if posErr != nil {
			return GetOrderTrackQueryResponse{}, posErr
		}
		resp.CurrentPosition = &position
		resp.TraveledPath = traveledPath(route, position)
	}

	if lastUpdateTime.Valid {
		at := lastUpdateTime.Time.UTC()
		resp.LastUpdateTime = &at
	}

	return resp, nil
}

// traveledPath is the route prefix up to the point nearest the position.
// Nil when the order has no route yet.
func traveledPath(route []kernel.Coordinate, position kernel.Coordinate) []kernel.Coordinate {
	idx := kernel.NearestPointIndex(route, position)
	if idx == kernel.NoNearestPoint {
		return nil
	}
	return route[:idx+1]
}
