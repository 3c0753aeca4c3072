package kernel

import (
	"errors"
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// LongitudeMin is the minimum valid longitude in degrees.
	LongitudeMin float64 = -180
	// LongitudeMax is the maximum valid longitude in degrees.
	LongitudeMax float64 = 180
	// LatitudeMin is the minimum valid latitude in degrees.
	LatitudeMin float64 = -90
	// LatitudeMax is the maximum valid latitude in degrees.
	LatitudeMax float64 = 90
)

// ErrCoordinateIsNotConstructed is returned when attempting to use an improperly
// initialized Coordinate. Coordinates must be created via NewCoordinate.
var ErrCoordinateIsNotConstructed = errs.NewValueIsRequiredError(
	"coordinate must be created via NewCoordinate constructor")

// Coordinate is an immutable value object representing a WGS84 position as an
// ordered (longitude, latitude) pair in degrees. The axis order follows the
// GeoJSON convention: longitude first, latitude second.
//
// The zero value of Coordinate is invalid and will fail validation; use
// NewCoordinate to create instances.
//
// Example:
//
//	point, err := kernel.NewCoordinate(120.30, 30.30)
//	if err != nil {
//	    // handle validation error
//	}
//	fmt.Println(point) // Output: Coordinate(120.300000,30.300000)
type Coordinate struct { //nolint:recvcheck //using for validation
	lon   float64
	lat   float64
	guard guard.ConstructorGuard
}

// NewCoordinate creates a Coordinate from a longitude and latitude in degrees.
// Both values must be finite; longitude must lie in [-180, 180] and latitude
// in [-90, 90]. Returns a validation error otherwise.
func NewCoordinate(lon float64, lat float64) (Coordinate, error) {
	c := Coordinate{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(c.setLon(lon), c.setLat(lat)); err != nil {
		return Coordinate{}, err
	}

	return c, nil
}

// Validate checks that the Coordinate was created through NewCoordinate.
// The zero value fails this validation.
func (c Coordinate) Validate() error {
	return c.guard.Validate(ErrCoordinateIsNotConstructed)
}

// Lon returns the longitude in degrees.
func (c Coordinate) Lon() float64 {
	return c.lon
}

// Lat returns the latitude in degrees.
func (c Coordinate) Lat() float64 {
	return c.lat
}

// String returns a human-readable representation in (lon,lat) order.
func (c Coordinate) String() string {
	return fmt.Sprintf("Coordinate(%f,%f)", c.lon, c.lat)
}

// IsEqual compares two coordinates for exact equality of both axes.
// Both coordinates must be properly constructed.
func (c Coordinate) IsEqual(other Coordinate) (bool, error) {
	if err := errors.Join(c.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return c.lon == other.lon && c.lat == other.lat, nil
}

// setLon sets the longitude with validation.
// Pointer receiver is used intentionally for self-encapsulated validation
// during construction, mirroring the other value objects in this package.
func (c *Coordinate) setLon(lon float64) error {
	if math.IsNaN(lon) || math.IsInf(lon, 0) || lon < LongitudeMin || lon > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", lon, LongitudeMin, LongitudeMax)
	}

	c.lon = lon
	return nil
}

// setLat sets the latitude with validation.
func (c *Coordinate) setLat(lat float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < LatitudeMin || lat > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", lat, LatitudeMin, LatitudeMax)
	}

	c.lat = lat
	return nil
}
