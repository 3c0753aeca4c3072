package services

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/zone"
)

// Match is the result of resolving a coordinate against the delivery zones.
// When Deliverable is false the remaining fields are zero values.
type Match struct {
	Deliverable bool
	RuleID      int
	ZoneID      kernel.UUID
}

// ZoneMatcher is a domain service that resolves which delivery zone covers a
// coordinate. Creating an order requires a successful match: the matched
// zone's dispatch rule determines how the delivery is later simulated.
//
// Zones are scanned in the order supplied by the caller (the repository's
// iteration order, which is creation order) and the first containing zone
// wins. Overlapping zones with different rules are not further disambiguated.
//
// Example:
//
//	matcher := services.NewZoneMatcher()
//	match, err := matcher.Match(zones, recipient)
//	if err != nil {
//	    return err
//	}
//	if !match.Deliverable {
//	    // coordinate is outside every zone
//	}
type ZoneMatcher struct{}

// NewZoneMatcher creates a ZoneMatcher instance.
func NewZoneMatcher() ZoneMatcher {
	return ZoneMatcher{}
}

// Match returns the first zone containing the point, in the given order.
// A point on a zone boundary (circle edge or polygon vertex) counts as covered.
//
// Returns a validation error if the point or any zone is improperly constructed.
func (m ZoneMatcher) Match(zones []*zone.Zone, point kernel.Coordinate) (Match, error) {
	if err := point.Validate(); err != nil {
		return Match{}, err
	}

	for _, z := range zones {
		if err := z.Validate(); err != nil {
			return Match{}, err
		}

		if z.Contains(point) {
			return Match{
				Deliverable: true,
				RuleID:      z.RuleID(),
				ZoneID:      z.ID(),
			}, nil
		}
	}

	return Match{}, nil
}
