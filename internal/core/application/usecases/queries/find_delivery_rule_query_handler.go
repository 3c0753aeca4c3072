package queries

import (
	"context"
	"database/sql"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// FindDeliveryRuleQueryHandler resolves the delivery rule for a coordinate
// by scanning zones in creation order and testing containment. The first
// containing zone wins, which matches the precondition applied on order
// creation.
type FindDeliveryRuleQueryHandler struct {
	db *gorm.DB
}

// NewFindDeliveryRuleQueryHandler creates a handler for delivery rule lookups.
// Requires a GORM database connection for query execution.
func NewFindDeliveryRuleQueryHandler(db *gorm.DB) FindDeliveryRuleQueryHandler {
	return FindDeliveryRuleQueryHandler{db: db}
}

// Handle executes the lookup. Returns Deliverable=false when no zone covers
// the point; that outcome is not an error.
func (h FindDeliveryRuleQueryHandler) Handle(
	ctx context.Context,
	query FindDeliveryRuleQuery,
) (FindDeliveryRuleQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return FindDeliveryRuleQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			rule_id,
			shape_kind,
			ring,
			center_lon,
			center_lat,
			radius_meters
		FROM zones
		ORDER BY created_at, id
	`).Rows()
	if err != nil {
		return FindDeliveryRuleQueryResponse{}, err
	}
	defer rows.Close()

	point := query.Point()

	for rows.Next() {
		var (
			id           uuid.UUID
			ruleID       int
			shapeKind    int
			ring         pq.Float64Array
			centerLon    sql.NullFloat64
			centerLat    sql.NullFloat64
			radiusMeters sql.NullFloat64
		)

		if err = rows.Scan(&id, &ruleID, &shapeKind, &ring, &centerLon, &centerLat, &radiusMeters); err != nil {
			return FindDeliveryRuleQueryResponse{}, err
		}

		shape, shapeErr := shapeFromRow(shapeKind, ring, centerLon, centerLat, radiusMeters)
		if shapeErr != nil {
			return FindDeliveryRuleQueryResponse{}, shapeErr
		}

		if !shape.Contains(point) {
			continue
		}

		zoneID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return FindDeliveryRuleQueryResponse{}, idErr
		}

		return FindDeliveryRuleQueryResponse{
			Deliverable: true,
			RuleID:      ruleID,
			ZoneID:      zoneID,
		}, nil
	}

	if err = rows.Err(); err != nil {
		return FindDeliveryRuleQueryResponse{}, err
	}

	return FindDeliveryRuleQueryResponse{}, nil
}

// shapeFromRow rebuilds a zone shape from its column representation.
func shapeFromRow(
	kind int,
	ring pq.Float64Array,
	centerLon, centerLat, radiusMeters sql.NullFloat64,
) (zone.Shape, error) {
	if zone.ShapeKind(kind) == zone.ShapeKindCircle {
		center, err := kernel.NewCoordinate(centerLon.Float64, centerLat.Float64)
		if err != nil {
			return zone.Shape{}, err
		}
		return zone.NewCircleShape(center, radiusMeters.Float64)
	}

	points, err := coordinatesFromFlat(ring)
	if err != nil {
		return zone.Shape{}, err
	}
	return zone.NewPolygonShape(points)
}
