package http

import (
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
	"dispatch/internal/pkg/errs"
)

// Error is the JSON error envelope returned by every failing endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Point is the wire form of a coordinate.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Shape is the wire form of a zone geometry. Kind selects the variant:
// "polygon" uses Ring, "circle" uses Center and RadiusMeters.
type Shape struct {
	Kind         string   `json:"kind"`
	Ring         []Point  `json:"ring,omitempty"`
	Center       *Point   `json:"center,omitempty"`
	RadiusMeters *float64 `json:"radiusMeters,omitempty"`
}

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	MerchantID       string `json:"merchantId"`
	UserID           string `json:"userId"`
	Amount           int64  `json:"amount"`
	RecipientName    string `json:"recipientName"`
	RecipientAddress string `json:"recipientAddress"`
	Recipient        Point  `json:"recipient"`
}

// CreatedOrderResponse returns the id of a newly created order.
type CreatedOrderResponse struct {
	OrderID string `json:"orderId"`
}

// ShipOrderRequest is the body of POST /api/v1/orders/:id/ship.
type ShipOrderRequest struct {
	RuleID    int     `json:"ruleId"`
	RoutePath []Point `json:"routePath"`
}

// ConfirmDeliveryRequest is the body of POST /api/v1/orders/:id/confirm.
type ConfirmDeliveryRequest struct {
	UserID string `json:"userId"`
}

// CreateZoneRequest is the body of POST /api/v1/zones.
type CreateZoneRequest struct {
	MerchantID  string `json:"merchantId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RuleID      int    `json:"ruleId"`
	Shape       Shape  `json:"shape"`
}

// CreatedZoneResponse returns the id of a newly created zone.
type CreatedZoneResponse struct {
	ZoneID string `json:"zoneId"`
}

// UpdateZoneRequest is the body of PUT /api/v1/zones/:id.
type UpdateZoneRequest struct {
	MerchantID  string `json:"merchantId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RuleID      int    `json:"ruleId"`
	Shape       Shape  `json:"shape"`
}

// OrderTrackResponse is the body of GET /api/v1/orders/:id/track.
type OrderTrackResponse struct {
	OrderID         string     `json:"orderId"`
	Status          string     `json:"status"`
	Recipient       Point      `json:"recipient"`
	RoutePath       []Point    `json:"routePath"`
	TraveledPath    []Point    `json:"traveledPath"`
	CurrentPosition *Point     `json:"currentPosition,omitempty"`
	LastUpdateTime  *time.Time `json:"lastUpdateTime,omitempty"`
	IsAbnormal      bool       `json:"isAbnormal"`
	AbnormalReason  string     `json:"abnormalReason,omitempty"`
}

// ActiveOrderResponse is one element of GET /api/v1/orders/active.
type ActiveOrderResponse struct {
	OrderID         string `json:"orderId"`
	Status          string `json:"status"`
	Recipient       Point  `json:"recipient"`
	CurrentPosition *Point `json:"currentPosition,omitempty"`
	IsAbnormal      bool   `json:"isAbnormal"`
	AbnormalReason  string `json:"abnormalReason,omitempty"`
}

// ZoneResponse is one element of GET /api/v1/zones.
type ZoneResponse struct {
	ZoneID      string `json:"zoneId"`
	Name        string `json:"name"`
	Description string `json:"description"`
	RuleID      int    `json:"ruleId"`
	Shape       Shape  `json:"shape"`
}

// DeliveryRuleResponse is the body of GET /api/v1/delivery-rule.
type DeliveryRuleResponse struct {
	Deliverable bool   `json:"deliverable"`
	RuleID      int    `json:"ruleId,omitempty"`
	ZoneID      string `json:"zoneId,omitempty"`
}

func pointFromCoordinate(c kernel.Coordinate) Point {
	return Point{Lon: c.Lon(), Lat: c.Lat()}
}

func pointsFromCoordinates(coords []kernel.Coordinate) []Point {
	points := make([]Point, len(coords))
	for i, c := range coords {
		points[i] = pointFromCoordinate(c)
	}
	return points
}

func optionalPoint(c *kernel.Coordinate) *Point {
	if c == nil {
		return nil
	}
	p := pointFromCoordinate(*c)
	return &p
}

func coordinateFromPoint(p Point) (kernel.Coordinate, error) {
	return kernel.NewCoordinate(p.Lon, p.Lat)
}

func coordinatesFromPoints(points []Point) ([]kernel.Coordinate, error) {
	coords := make([]kernel.Coordinate, 0, len(points))
	for _, p := range points {
		c, err := coordinateFromPoint(p)
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}
	return coords, nil
}

// shapeFromWire builds the domain shape from its wire form.
func shapeFromWire(s Shape) (zone.Shape, error) {
	switch s.Kind {
	case "polygon":
		ring, err := coordinatesFromPoints(s.Ring)
		if err != nil {
			return zone.Shape{}, err
		}
		return zone.NewPolygonShape(ring)

	case "circle":
		if s.Center == nil || s.RadiusMeters == nil {
			return zone.Shape{}, errs.NewValueIsRequiredError("center and radiusMeters")
		}
		center, err := coordinateFromPoint(*s.Center)
		if err != nil {
			return zone.Shape{}, err
		}
		return zone.NewCircleShape(center, *s.RadiusMeters)

	default:
		return zone.Shape{}, errs.NewValueIsInvalidError("shape.kind")
	}
}

// shapeToWire assembles the wire form of a zone geometry from query fields.
func shapeToWire(kind string, ring []kernel.Coordinate, center *kernel.Coordinate, radiusMeters *float64) Shape {
	return Shape{
		Kind:         strings.ToLower(kind),
		Ring:         pointsFromCoordinates(ring),
		Center:       optionalPoint(center),
		RadiusMeters: radiusMeters,
	}
}
