// Package filter implements the spatial predicates over a loaded station
// collection: point-radius queries, route-corridor queries and brand
// narrowing.
package filter

import (
	"sort"
	"strings"

	"github.com/i40130/fuel-finder-portal/internal/geo"
	"github.com/i40130/fuel-finder-portal/pkg/api"
)

const (
	// DefaultRadiusKm is the radius used for "nearby" point queries.
	DefaultRadiusKm = 10.0
	// DefaultCorridorKm is the corridor width for along-route queries.
	DefaultCorridorKm = 5.0
)

// Station is a dataset record with parsed coordinates and a transient
// distance annotation. DistanceKm is relative to the reference of the query
// that produced the slice and is never part of the canonical record.
type Station struct {
	*api.GasStation
	Lat        float64
	Lon        float64
	DistanceKm float64
}

// Point returns the station coordinates as a geo.Point.
func (s Station) Point() geo.Point {
	return geo.Point{Lat: s.Lat, Lon: s.Lon}
}

// Collection is an immutable, coordinate-parsed view over a dataset
// snapshot. Records whose coordinates cannot be parsed are dropped at build
// time so the predicates never deal with malformed positions.
type Collection struct {
	stations []Station
}

// NewCollection parses the coordinate strings of every record and keeps the
// ones with usable positions, in input order.
func NewCollection(records []api.GasStation) *Collection {
	stations := make([]Station, 0, len(records))
	for i := range records {
		record := &records[i]
		lat, err := geo.ParseDecimal(record.Latitud)
		if err != nil {
			continue
		}
		lon, err := geo.ParseDecimal(record.Longitud)
		if err != nil {
			continue
		}
		stations = append(stations, Station{GasStation: record, Lat: lat, Lon: lon})
	}
	return &Collection{stations: stations}
}

// Len returns the number of usable stations in the collection.
func (c *Collection) Len() int {
	return len(c.stations)
}

// WithinRadius returns the stations within radiusKm of center, in input
// order, each annotated with its distance to center.
func (c *Collection) WithinRadius(center geo.Point, radiusKm float64) []Station {
	var matched []Station
	for _, s := range c.stations {
		d := center.DistanceKm(s.Point())
		if d <= radiusKm {
			s.DistanceKm = d
			matched = append(matched, s)
		}
	}
	return matched
}

// AlongRoute returns the stations with at least one route vertex within
// corridorKm, sorted by their minimum vertex distance ascending, which
// approximates along-route order.
//
// This is a vertex-sampling test, not a true point-to-segment distance:
// stations near long straight segments with sparse vertices can be missed.
// Known limitation, kept for compatibility with the corridor semantics the
// frontend expects.
func (c *Collection) AlongRoute(route geo.Polyline, corridorKm float64) []Station {
	var matched []Station
	for _, s := range c.stations {
		min, ok := minVertexDistance(s.Point(), route)
		if ok && min <= corridorKm {
			s.DistanceKm = min
			matched = append(matched, s)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].DistanceKm < matched[j].DistanceKm
	})
	return matched
}

func minVertexDistance(p geo.Point, route geo.Polyline) (float64, bool) {
	if len(route) == 0 {
		return 0, false
	}
	min := p.DistanceKm(route[0])
	for _, v := range route[1:] {
		if d := p.DistanceKm(v); d < min {
			min = d
		}
	}
	return min, true
}

// ByBrand narrows a filtered set to one brand using case-insensitive exact
// matching on the trimmed brand name. An empty brand passes everything.
func ByBrand(stations []Station, brand string) []Station {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return stations
	}
	var matched []Station
	for _, s := range stations {
		if strings.EqualFold(strings.TrimSpace(s.Rotulo), brand) {
			matched = append(matched, s)
		}
	}
	return matched
}
