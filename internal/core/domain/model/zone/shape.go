package zone

import (
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// MinRingPoints is the minimum number of vertices a polygon ring must have.
// The ring is implicitly closed, so three points describe a triangle.
const MinRingPoints = 3

// ErrShapeIsNotConstructed is returned when attempting to use an improperly
// initialized Shape. Shapes must be created via NewPolygonShape or NewCircleShape.
var ErrShapeIsNotConstructed = errs.NewValueIsRequiredError(
	"shape must be created via NewPolygonShape or NewCircleShape constructors")

// ShapeKind tags the variant held by a Shape.
type ShapeKind int

const (
	// ShapeKindUnknown is the zero, invalid kind.
	ShapeKindUnknown ShapeKind = iota

	// ShapeKindPolygon is a closed ring of at least MinRingPoints vertices.
	ShapeKindPolygon

	// ShapeKindCircle is a center coordinate with a positive radius in meters.
	ShapeKindCircle
)

// String returns the kind's name for logging and persistence.
func (k ShapeKind) String() string {
	switch k {
	case ShapeKindPolygon:
		return "Polygon"
	case ShapeKindCircle:
		return "Circle"
	case ShapeKindUnknown:
		return "Unknown"
	default:
		return "Unknown"
	}
}

// Shape is the tagged-variant geometry of a delivery zone: either a polygon
// ring or a circle. It is an immutable value object; the zero value is invalid.
//
// Example:
//
//	center, _ := kernel.NewCoordinate(120.30, 30.30)
//	shape, err := zone.NewCircleShape(center, 2000)
//	if err != nil {
//	    // handle validation error
//	}
//	covered := shape.Contains(point)
type Shape struct { //nolint:recvcheck //using for validation
	kind         ShapeKind
	ring         []kernel.Coordinate
	center       kernel.Coordinate
	radiusMeters float64

	guard guard.ConstructorGuard
}

// NewPolygonShape creates a polygon Shape from a ring of vertices. The ring is
// treated as implicitly closed and must contain at least MinRingPoints
// properly constructed coordinates.
func NewPolygonShape(ring []kernel.Coordinate) (Shape, error) {
	if len(ring) < MinRingPoints {
		return Shape{}, errs.NewValueIsInvalidErrorWithCause("ring",
			fmt.Errorf("polygon ring needs at least %d points, got %d", MinRingPoints, len(ring)))
	}

	for i, p := range ring {
		if err := p.Validate(); err != nil {
			return Shape{}, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("ring[%d]", i), err)
		}
	}

	return Shape{
		kind:  ShapeKindPolygon,
		ring:  append([]kernel.Coordinate(nil), ring...),
		guard: guard.NewConstructorGuard(),
	}, nil
}

// NewCircleShape creates a circle Shape from a center coordinate and a radius
// in meters. The radius must be greater than zero.
func NewCircleShape(center kernel.Coordinate, radiusMeters float64) (Shape, error) {
	if err := center.Validate(); err != nil {
		return Shape{}, err
	}

	if radiusMeters <= 0 {
		return Shape{}, errs.NewValueIsInvalidErrorWithCause("radiusMeters",
			fmt.Errorf("%f is not greater than 0", radiusMeters))
	}

	return Shape{
		kind:         ShapeKindCircle,
		center:       center,
		radiusMeters: radiusMeters,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate checks that the Shape was created through one of its constructors.
func (s Shape) Validate() error {
	return s.guard.Validate(ErrShapeIsNotConstructed)
}

// Kind returns the variant tag.
func (s Shape) Kind() ShapeKind {
	return s.kind
}

// Ring returns a copy of the polygon ring. Empty for circle shapes.
func (s Shape) Ring() []kernel.Coordinate {
	return append([]kernel.Coordinate(nil), s.ring...)
}

// Center returns the circle center. The zero Coordinate for polygon shapes.
func (s Shape) Center() kernel.Coordinate {
	return s.center
}

// RadiusMeters returns the circle radius in meters. Zero for polygon shapes.
func (s Shape) RadiusMeters() float64 {
	return s.radiusMeters
}

// Contains reports whether the point lies inside the shape. A point exactly on
// a circle's edge or on a polygon vertex counts as inside. An unconstructed
// shape contains nothing.
func (s Shape) Contains(point kernel.Coordinate) bool {
	switch s.kind {
	case ShapeKindPolygon:
		return kernel.PointInPolygon(point, s.ring)
	case ShapeKindCircle:
		return kernel.PointInCircle(point, s.center, s.radiusMeters)
	case ShapeKindUnknown:
		return false
	default:
		return false
	}
}

// IsEqual compares two shapes structurally.
func (s Shape) IsEqual(other Shape) (bool, error) {
	if err := errors.Join(s.Validate(), other.Validate()); err != nil {
		return false, err
	}

	if s.kind != other.kind {
		return false, nil
	}

	switch s.kind {
	case ShapeKindCircle:
		equal, err := s.center.IsEqual(other.center)
		if err != nil {
			return false, err
		}
		return equal && s.radiusMeters == other.radiusMeters, nil
	case ShapeKindPolygon:
		if len(s.ring) != len(other.ring) {
			return false, nil
		}
		for i := range s.ring {
			equal, err := s.ring[i].IsEqual(other.ring[i])
			if err != nil {
				return false, err
			}
			if !equal {
				return false, nil
			}
		}
		return true, nil
	case ShapeKindUnknown:
		return false, nil
	default:
		return false, nil
	}
}
