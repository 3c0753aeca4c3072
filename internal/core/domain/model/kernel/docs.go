// Package kernel provides core domain primitives for the dispatch system.
// It implements the fundamental building blocks used throughout the domain model.
//
// The package includes:
//   - UUID: A value object for unique identifiers with validation and comparison capabilities
//   - Coordinate: A value object for a WGS84 (longitude, latitude) pair
//   - Great-circle geometry: distance, nearest-point and containment helpers used by
//     zone matching, route tracking and arrival detection
//
// These primitives enforce domain invariants and validation rules, ensuring that
// domain objects are always in a valid state. They are immutable and thread-safe,
// making them suitable for concurrent use.
package kernel
