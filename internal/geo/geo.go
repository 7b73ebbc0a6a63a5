// Package geo provides the geographic primitives for proof-of-visit
// distance checks: a lat/lng point and great-circle distance on a
// spherical-Earth approximation.
package geo

import (
	"fmt"
	"math"
)

// earthRadius is the mean Earth radius in meters.
const earthRadius = 6371e3

// Point is a geographic coordinate pair in floating degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (p Point) String() string {
	return fmt.Sprintf("(%f, %f)", p.Lat, p.Lng)
}

// Haversine returns the great-circle distance between p and other in
// meters. The value is not rounded; callers round for presentation only.
func (p Point) Haversine(other Point) float64 {
	lat1 := p.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - p.Lat) * math.Pi / 180
	dLng := (other.Lng - p.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadius * c
}
