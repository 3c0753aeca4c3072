// Package queries contains read-only operations that retrieve system state.
// Implements the query side of the CQRS architecture: handlers read the
// database directly with raw SQL and map rows into response structs, bypassing
// the aggregate repositories.
package queries

import (
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// coordinatesFromFlat decodes a flattened [lon, lat, lon, lat, ...] array into
// coordinates. Routes and polygon rings are stored in this form.
func coordinatesFromFlat(values []float64) ([]kernel.Coordinate, error) {
	if len(values)%2 != 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("coordinates",
			fmt.Errorf("odd number of values: %d", len(values)))
	}

	coords := make([]kernel.Coordinate, 0, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		c, err := kernel.NewCoordinate(values[i], values[i+1])
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}

	return coords, nil
}
