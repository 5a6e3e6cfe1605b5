// Package geo provides the geodesy primitives shared by the filtering and
// selection code: great-circle distances, locale-aware decimal parsing and
// the point/polyline types used for routes.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const earthRadiusKm = 6371.0

// Point is a WGS84 coordinate pair in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Polyline is an ordered sequence of route vertices.
type Polyline []Point

// DistanceKm returns the haversine great-circle distance in kilometers
// between two coordinate pairs.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// DistanceKm returns the great-circle distance from p to q in kilometers.
func (p Point) DistanceKm(q Point) float64 {
	return DistanceKm(p.Lat, p.Lon, q.Lat, q.Lon)
}

// ParseDecimal parses a decimal string that may use a comma as the decimal
// separator, as the fuel dataset does for coordinates and prices.
func ParseDecimal(s string) (float64, error) {
	s = strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("error parsing decimal %q: %w", s, err)
	}

	return v, nil
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
