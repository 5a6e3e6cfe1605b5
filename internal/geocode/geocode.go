// Package geocode resolves place names to coordinates through a Nominatim
// server.
package geocode

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/muesli/gominatim"
	"github.com/patrickmn/go-cache"

	"github.com/i40130/fuel-finder-portal/internal/geo"
)

const (
	DefaultServer = "https://nominatim.openstreetmap.org/"

	cacheExpiry  = 30 * time.Minute
	cacheCleanup = 90 * time.Minute
)

// Client is a caching Nominatim geocoder. Lookups for the same place name
// are served from cache to stay within the public server's usage policy.
type Client struct {
	cache *cache.Cache
	log   *slog.Logger
}

// New configures the Nominatim server and returns a caching client.
func New(server string, logger *slog.Logger) (*Client, error) {
	if server == "" {
		server = DefaultServer
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	gominatim.SetServer(server)
	return &Client{
		cache: cache.New(cacheExpiry, cacheCleanup),
		log:   logger,
	}, nil
}

// Geocode resolves a place name to coordinates. A false second return means
// the name could not be resolved; it is not an error.
//
// gominatim has no context support; ctx is accepted for interface
// compatibility only.
func (c *Client) Geocode(_ context.Context, place string) (geo.Point, bool, error) {
	if cached, found := c.cache.Get(place); found {
		c.log.Debug("geocode cache hit", "place", place)
		return cached.(geo.Point), true, nil
	}

	qry := gominatim.SearchQuery{Q: place}
	resp, err := qry.Get()
	if err != nil {
		return geo.Point{}, false, fmt.Errorf("error geocoding %q: %w", place, err)
	}
	if len(resp) == 0 {
		return geo.Point{}, false, nil
	}

	lat, err := strconv.ParseFloat(resp[0].Lat, 64)
	if err != nil {
		return geo.Point{}, false, fmt.Errorf("error parsing latitude for %q: %w", place, err)
	}
	lon, err := strconv.ParseFloat(resp[0].Lon, 64)
	if err != nil {
		return geo.Point{}, false, fmt.Errorf("error parsing longitude for %q: %w", place, err)
	}

	point := geo.Point{Lat: lat, Lon: lon}
	c.cache.Set(place, point, cache.DefaultExpiration)
	c.log.Debug("location found", "place", place, "display_name", resp[0].DisplayName)
	return point, true, nil
}
