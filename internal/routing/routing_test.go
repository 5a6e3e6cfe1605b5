package routing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i40130/fuel-finder-portal/internal/geo"
)

const okResponse = `{
  "code": "Ok",
  "routes": [
    {
      "distance": 1523.4,
      "duration": 210.5,
      "geometry": {
        "coordinates": [
          [-3.7038, 40.4168],
          [-3.7000, 40.4200],
          [-3.6900, 40.4300]
        ]
      }
    }
  ]
}`

func TestRouteDecodesGeoJSONOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/route/v1/driving/")
		assert.Equal(t, "full", r.URL.Query().Get("overview"))
		assert.Equal(t, "geojson", r.URL.Query().Get("geometries"))
		w.Write([]byte(okResponse))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	route, err := c.Route(context.Background(),
		geo.Point{Lat: 40.4168, Lon: -3.7038},
		geo.Point{Lat: 40.4300, Lon: -3.6900})
	require.NoError(t, err)
	require.Len(t, route, 3)

	// GeoJSON pairs arrive lon,lat; the polyline stores lat,lon.
	assert.Equal(t, geo.Point{Lat: 40.4168, Lon: -3.7038}, route[0])
	assert.Equal(t, geo.Point{Lat: 40.4300, Lon: -3.6900}, route[2])
}

func TestRouteNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code": "NoRoute", "routes": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	route, err := c.Route(context.Background(), geo.Point{}, geo.Point{Lat: 1, Lon: 1})
	require.NoError(t, err, "NoRoute is not an error condition")
	assert.Nil(t, route)
}

func TestRouteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.Route(context.Background(), geo.Point{}, geo.Point{Lat: 1, Lon: 1})
	assert.Error(t, err)
}

func TestGPXExport(t *testing.T) {
	route := geo.Polyline{
		{Lat: 40.4168, Lon: -3.7038},
		{Lat: 40.4200, Lon: -3.7000},
	}

	data, err := GPX(route, "madrid-test")
	require.NoError(t, err)

	xml := string(data)
	assert.True(t, strings.Contains(xml, "<trkpt"), "expected track points in %s", xml)
	assert.Contains(t, xml, "madrid-test")
	assert.Contains(t, xml, `version="1.1"`)
}

func TestGPXEmptyRoute(t *testing.T) {
	_, err := GPX(nil, "empty")
	assert.Error(t, err)
}
