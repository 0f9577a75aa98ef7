// Package geo provides great-circle distance computation and proximity-tier
// classification for attendance verification.
package geo

import (
	"math"

	"github.com/twpayne/go-geom"
)

// earthRadiusMeters is the mean Earth radius.
const earthRadiusMeters = 6371000.0

// Distance returns the great-circle (haversine) distance in meters between
// two lon/lat coordinates. Pure function; callers must guard against absent
// coordinates, non-finite inputs yield NaN.
func Distance(a, b geom.Coord) float64 {
	lat1, lon1 := a.Y(), a.X()
	lat2, lon2 := b.Y(), b.X()

	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)

	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
