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

// GetZonesQueryHandler retrieves a merchant's delivery zones.
type GetZonesQueryHandler struct {
	db *gorm.DB
}

// NewGetZonesQueryHandler creates a handler for zone listing queries.
// Requires a GORM database connection for query execution.
func NewGetZonesQueryHandler(db *gorm.DB) GetZonesQueryHandler {
	return GetZonesQueryHandler{db: db}
}

// Handle executes the query. Zones are returned in creation order, the same
// order the matcher scans them in.
func (h GetZonesQueryHandler) Handle(
	ctx context.Context,
	query GetZonesQuery,
) ([]GetZonesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	zones := make([]GetZonesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			name,
			description,
			rule_id,
			shape_kind,
			ring,
			center_lon,
			center_lat,
			radius_meters
		FROM zones
		WHERE merchant_id = ?
		ORDER BY created_at, id
	`, query.MerchantID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id           uuid.UUID
			name         string
			description  string
			ruleID       int
			shapeKind    int
			ring         pq.Float64Array
			centerLon    sql.NullFloat64
			centerLat    sql.NullFloat64
			radiusMeters sql.NullFloat64
		)

		if err = rows.Scan(&id, &name, &description, &ruleID, &shapeKind,
			&ring, &centerLon, &centerLat, &radiusMeters); err != nil {
			return nil, err
		}

		zoneID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}

		resp := GetZonesQueryResponse{
			ZoneID:      zoneID,
			Name:        name,
			Description: description,
			RuleID:      ruleID,
			ShapeKind:   zone.ShapeKind(shapeKind).String(),
		}

		if zone.ShapeKind(shapeKind) == zone.ShapeKindCircle {
			center, coordErr := kernel.NewCoordinate(centerLon.Float64, centerLat.Float64)
			if coordErr != nil {
				return nil, coordErr
			}
			resp.Center = &center
			radius := radiusMeters.Float64
			resp.RadiusMeters = &radius
		} else {
			points, ringErr := coordinatesFromFlat(ring)
			if ringErr != nil {
				return nil, ringErr
			}
			resp.Ring = points
		}

		zones = append(zones, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return zones, nil
}
