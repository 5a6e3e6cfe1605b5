package routing

import (
	"fmt"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/i40130/fuel-finder-portal/internal/geo"
)

// GPX serializes a route polyline as a single-track GPX document, for
// loading the highlight route into navigation devices.
func GPX(route geo.Polyline, name string) ([]byte, error) {
	if len(route) == 0 {
		return nil, fmt.Errorf("empty route")
	}

	points := make([]gpx.GPXPoint, 0, len(route))
	for _, v := range route {
		points = append(points, gpx.GPXPoint{
			Point: gpx.Point{Latitude: v.Lat, Longitude: v.Lon},
		})
	}

	doc := &gpx.GPX{
		Creator: "fuel-finder-portal",
		Tracks: []gpx.GPXTrack{
			{
				Name:     name,
				Segments: []gpx.GPXTrackSegment{{Points: points}},
			},
		},
	}

	data, err := gpx.ToXml(doc, gpx.ToXmlParams{Version: "1.1", Indent: true})
	if err != nil {
		return nil, fmt.Errorf("error serializing GPX: %w", err)
	}
	return data, nil
}
