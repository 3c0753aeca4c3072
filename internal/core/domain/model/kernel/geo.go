package kernel

import "math"

// earthRadiusMeters is the mean Earth radius used for great-circle distances.
const earthRadiusMeters = 6371000.0

// NoNearestPoint is the sentinel index returned by NearestPointIndex for an
// empty path. An order with no route yet is a legitimate transient state, so
// the geometry helpers return sentinels instead of erroring.
const NoNearestPoint = -1

// DistanceMeters returns the haversine great-circle distance between two
// coordinates in meters. The result is symmetric and zero (up to floating
// precision) for equal points.
//
// Example:
//
//	a, _ := kernel.NewCoordinate(120.30, 30.30)
//	b, _ := kernel.NewCoordinate(120.31, 30.31)
//	meters := kernel.DistanceMeters(a, b)
func DistanceMeters(a Coordinate, b Coordinate) float64 {
	lat1 := degToRad(a.Lat())
	lat2 := degToRad(b.Lat())
	dLat := degToRad(b.Lat() - a.Lat())
	dLon := degToRad(b.Lon() - a.Lon())

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLon*sinLon

	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// NearestPointIndex returns the index of the path point closest to the given
// point, scanning from the start of the path. On an exact distance tie the
// first index wins. Returns NoNearestPoint for an empty path.
func NearestPointIndex(path []Coordinate, point Coordinate) int {
	if len(path) == 0 {
		return NoNearestPoint
	}

	best := 0
	bestDist := DistanceMeters(path[0], point)
	for i := 1; i < len(path); i++ {
		if d := DistanceMeters(path[i], point); d < bestDist {
			best = i
			bestDist = d
		}
	}

	return best
}

// DistanceToPolyline returns the minimum distance in meters from a point to a
// path, taken over every vertex and every vertex-to-vertex segment, where the
// distance to a segment is approximated as the minimum of the distances to its
// two endpoints. This deliberately avoids true point-to-segment projection;
// on long straight segments it can overstate the distance to the path.
// Returns +Inf for an empty path.
func DistanceToPolyline(point Coordinate, path []Coordinate) float64 {
	if len(path) == 0 {
		return math.Inf(1)
	}

	best := DistanceMeters(path[0], point)
	for i := 1; i < len(path); i++ {
		d := DistanceMeters(path[i], point)
		if d < best {
			best = d
		}
		// segment [i-1, i] approximated by its endpoints; the endpoint
		// distances are already accounted for above.
	}

	return best
}

// PointInPolygon reports whether a point lies inside the polygon described by
// ring using even-odd ray casting on the (lon, lat) plane. The ring is treated
// as implicitly closed. A point coinciding with a vertex counts as inside.
// The planar approximation is acceptable at city scale.
func PointInPolygon(point Coordinate, ring []Coordinate) bool {
	if len(ring) < 3 {
		return false
	}

	px, py := point.Lon(), point.Lat()

	for _, v := range ring {
		if v.Lon() == px && v.Lat() == py {
			return true
		}
	}

	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		xi, yi := ring[i].Lon(), ring[i].Lat()
		xj, yj := ring[j].Lon(), ring[j].Lat()

		if (yi > py) != (yj > py) &&
			px < (xj-xi)*(py-yi)/(yj-yi)+xi {
			inside = !inside
		}
		j = i
	}

	return inside
}

// PointInCircle reports whether a point lies within radiusMeters of center.
// A point exactly on the edge (distance equal to the radius) counts as inside.
func PointInCircle(point Coordinate, center Coordinate, radiusMeters float64) bool {
	return DistanceMeters(point, center) <= radiusMeters
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
