package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetZonesQueryIsNotConstructed = errors.New(
	"GetZonesQuery must be created via NewGetZonesQuery constructor",
)

// GetZonesQuery retrieves a merchant's delivery zones in creation order.
type GetZonesQuery struct { //nolint:recvcheck //using for validation
	merchantID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetZonesQuery creates a query for the given merchant's zones.
func NewGetZonesQuery(merchantID kernel.UUID) (GetZonesQuery, error) {
	q := GetZonesQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := q.setMerchantID(merchantID); err != nil {
		return GetZonesQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetZonesQuery) Validate() error {
	return q.guard.Validate(ErrGetZonesQueryIsNotConstructed)
}

// MerchantID returns the merchant whose zones are requested.
func (q GetZonesQuery) MerchantID() kernel.UUID {
	return q.merchantID
}

func (q *GetZonesQuery) setMerchantID(merchantID kernel.UUID) error {
	if err := merchantID.Validate(); err != nil {
		return err
	}

	q.merchantID = merchantID
	return nil
}

// GetZonesQueryResponse is one delivery zone owned by the merchant.
// Ring is empty for circle zones; Center and RadiusMeters are nil for polygons.
type GetZonesQueryResponse struct {
	ZoneID       kernel.UUID
	Name         string
	Description  string
	RuleID       int
	ShapeKind    string
	Ring         []kernel.Coordinate
	Center       *kernel.Coordinate
	RadiusMeters *float64
}
