// Package server exposes the finder operations as a JSON API for the
// browser frontend. The frontend owns the map and form rendering; this
// surface is its only write path into the filter and selection state.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/httprate"

	"github.com/i40130/fuel-finder-portal/internal/finder"
)

const rateLimitPerMinute = 20

// Snapshot is the slice of the storage layer the server needs: dataset
// freshness for the status endpoint and search-location logging.
type Snapshot interface {
	GetLastUpdateDate(ctx context.Context) (*time.Time, error)
	LogSearchLocation(ctx context.Context, latitude, longitude, distance float64) error
}

// Server serves one finder session over HTTP. It binds locally and backs a
// single browser client.
type Server struct {
	finder   *finder.Finder
	snapshot Snapshot
	log      *httplog.Logger
}

// New creates a Server around an initialized finder.
func New(f *finder.Finder, snapshot Snapshot, logger *httplog.Logger) *Server {
	return &Server{finder: f, snapshot: snapshot, log: logger}
}

// Router builds the chi router with the middleware stack and API routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	if s.log != nil {
		r.Use(httplog.RequestLogger(s.log))
	}
	r.Use(middleware.Recoverer)
	r.Use(httprate.LimitByIP(rateLimitPerMinute, time.Minute))

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/state", s.handleState)
		r.Get("/route.gpx", s.handleRouteGPX)
		r.Post("/query/point", s.handlePointQuery)
		r.Post("/query/route", s.handleCorridorQuery)
		r.Post("/brand", s.handleBrand)
		r.Post("/fuel", s.handleFuel)
		r.Post("/select", s.handleSelect)
		r.Post("/nearest", s.handleNearest)
		r.Post("/cheapest", s.handleCheapest)
	})

	return r
}

// ListenAndServe starts the server on addr.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.Router())
}
