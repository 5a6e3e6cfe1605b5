// Package routing computes driving routes through an OSRM-compatible
// directions service and exports them as GPX tracks.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/i40130/fuel-finder-portal/internal/geo"
)

const (
	DefaultBaseURL = "https://router.project-osrm.org"
	DefaultProfile = "driving"

	requestTimeout = 30 * time.Second
)

// Client calls an OSRM-compatible route service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	profile    string
	log        *slog.Logger
}

// NewClient creates a route client. An empty baseURL selects the public
// OSRM demo server.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
		profile:    DefaultProfile,
		log:        logger,
	}
}

type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// Route requests a driving route between origin and dest and returns its
// geometry as a polyline. A nil polyline with a nil error means the service
// found no route.
func (c *Client) Route(ctx context.Context, origin, dest geo.Point) (geo.Polyline, error) {
	url := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?overview=full&geometries=geojson",
		c.baseURL, c.profile, origin.Lon, origin.Lat, dest.Lon, dest.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error requesting route: %w", err)
	}
	defer resp.Body.Close()

	// OSRM reports NoRoute with a 400 status; read the body either way.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading route response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusBadRequest {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var decoded routeResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("error unmarshaling route response: %w", err)
	}
	if decoded.Code != "Ok" || len(decoded.Routes) == 0 {
		c.log.Debug("no route found", "code", decoded.Code)
		return nil, nil
	}

	coords := decoded.Routes[0].Geometry.Coordinates
	route := make(geo.Polyline, 0, len(coords))
	for _, pair := range coords {
		if len(pair) < 2 {
			continue
		}
		// GeoJSON order is lon,lat.
		route = append(route, geo.Point{Lat: pair[1], Lon: pair[0]})
	}
	if len(route) == 0 {
		return nil, nil
	}

	c.log.Debug("route computed",
		"vertices", len(route),
		"distance_m", decoded.Routes[0].Distance,
		"duration_s", decoded.Routes[0].Duration)
	return route, nil
}
