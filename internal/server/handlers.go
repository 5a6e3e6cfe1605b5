package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/i40130/fuel-finder-portal/internal/filter"
	"github.com/i40130/fuel-finder-portal/internal/finder"
	"github.com/i40130/fuel-finder-portal/internal/fuel"
	"github.com/i40130/fuel-finder-portal/internal/routing"
)

// StationView is the station shape the frontend renders as markers and
// list cards. Price reflects the active fuel type.
type StationView struct {
	ID           string  `json:"id"`
	Brand        string  `json:"brand"`
	Address      string  `json:"address"`
	Municipality string  `json:"municipality"`
	Province     string  `json:"province"`
	Schedule     string  `json:"schedule"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	DistanceKm   float64 `json:"distance_km"`
	Price        string  `json:"price"`
}

// QueryView describes the active spatial query.
type QueryView struct {
	Kind       string  `json:"kind"`
	Lat        float64 `json:"lat,omitempty"`
	Lng        float64 `json:"lng,omitempty"`
	RadiusKm   float64 `json:"radius_km,omitempty"`
	CorridorKm float64 `json:"corridor_km,omitempty"`
}

// StateView is the full read model: displayed stations, facets, filter and
// selection state. HighlightRoute uses lon,lat pairs as the map layer
// expects.
type StateView struct {
	Stations       []StationView `json:"stations"`
	Brands         []string      `json:"brands"`
	Brand          string        `json:"brand"`
	Fuel           string        `json:"fuel"`
	Query          *QueryView    `json:"query,omitempty"`
	Selected       *StationView  `json:"selected,omitempty"`
	Criterion      string        `json:"criterion,omitempty"`
	HighlightRoute [][2]float64  `json:"highlight_route,omitempty"`
	Warning        string        `json:"warning,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var lastUpdate string
	if s.snapshot != nil {
		date, err := s.snapshot.GetLastUpdateDate(r.Context())
		if err != nil {
			s.logError("error getting last update date", err)
		} else if date != nil {
			lastUpdate = date.Format("2006-01-02")
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stations":    s.finder.StationCount(),
		"last_update": lastUpdate,
	})
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.stateView(""))
}

func (s *Server) handlePointQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Lat *float64 `json:"lat"`
		Lng *float64 `json:"lng"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Lat == nil || req.Lng == nil {
		// The browser could not provide a position (denied or unsupported).
		writeError(w, http.StatusBadRequest, "location_required", errors.New("lat and lng are required"))
		return
	}

	if err := s.finder.SetPointQuery(*req.Lat, *req.Lng); err != nil {
		s.writeTaxonomyError(w, err)
		return
	}

	if s.snapshot != nil {
		if err := s.snapshot.LogSearchLocation(r.Context(), *req.Lat, *req.Lng, filter.DefaultRadiusKm); err != nil {
			s.logError("error logging search location", err)
		}
	}

	writeJSON(w, http.StatusOK, s.stateView(""))
}

func (s *Server) handleCorridorQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Origin      string `json:"origin"`
		Destination string `json:"destination"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Origin == "" || req.Destination == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("origin and destination are required"))
		return
	}

	if err := s.finder.SetCorridorQuery(r.Context(), req.Origin, req.Destination); err != nil {
		s.writeTaxonomyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.stateView(""))
}

func (s *Server) handleBrand(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Brand string `json:"brand"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	s.finder.SetBrand(req.Brand)
	writeJSON(w, http.StatusOK, s.stateView(""))
}

func (s *Server) handleFuel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Fuel string `json:"fuel"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	t, _ := fuel.ParseType(req.Fuel)
	s.finder.SetFuel(t)
	writeJSON(w, http.StatusOK, s.stateView(""))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("station id is required"))
		return
	}
	s.respondSelection(w, s.finder.SelectStation(r.Context(), req.ID))
}

func (s *Server) handleNearest(w http.ResponseWriter, r *http.Request) {
	_, err := s.finder.FindNearest(r.Context())
	s.respondSelection(w, err)
}

func (s *Server) handleCheapest(w http.ResponseWriter, r *http.Request) {
	_, err := s.finder.FindCheapest(r.Context())
	s.respondSelection(w, err)
}

func (s *Server) handleRouteGPX(w http.ResponseWriter, r *http.Request) {
	sel := s.finder.Selection()
	if len(sel.HighlightRoute) == 0 {
		writeError(w, http.StatusNotFound, "route_not_found", finder.ErrRouteNotFound)
		return
	}

	name := "fuel route"
	if sel.Selected != nil {
		name = fmt.Sprintf("route to %s", sel.Selected.Rotulo)
	}
	data, err := routing.GPX(sel.HighlightRoute, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", err)
		return
	}

	w.Header().Set("Content-Type", "application/gpx+xml")
	w.Header().Set("Content-Disposition", `attachment; filename="route.gpx"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// respondSelection reports selection results. A route failure after a
// committed selection is a warning, not an error: the frontend keeps the
// new selection and shows a notice.
func (s *Server) respondSelection(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, s.stateView(""))
	case errors.Is(err, finder.ErrRouteNotFound):
		writeJSON(w, http.StatusOK, s.stateView("route_not_found"))
	default:
		s.writeTaxonomyError(w, err)
	}
}

func (s *Server) stateView(warning string) StateView {
	state := s.finder.State()
	sel := s.finder.Selection()

	view := StateView{
		Stations:  make([]StationView, 0),
		Brands:    s.finder.Brands(),
		Brand:     state.Brand,
		Fuel:      string(state.Fuel),
		Criterion: string(sel.Criterion),
		Warning:   warning,
	}
	for _, st := range s.finder.Displayed() {
		view.Stations = append(view.Stations, stationView(st, state.Fuel))
	}
	if state.Spatial != nil {
		q := QueryView{RadiusKm: state.Spatial.RadiusKm, CorridorKm: state.Spatial.CorridorKm}
		switch state.Spatial.Kind {
		case finder.SpatialCorridor:
			q.Kind = "corridor"
		default:
			q.Kind = "point"
			q.Lat = state.Spatial.Center.Lat
			q.Lng = state.Spatial.Center.Lon
		}
		view.Query = &q
	}
	if sel.Selected != nil {
		v := stationView(*sel.Selected, state.Fuel)
		view.Selected = &v
	}
	for _, p := range sel.HighlightRoute {
		view.HighlightRoute = append(view.HighlightRoute, [2]float64{p.Lon, p.Lat})
	}
	return view
}

func stationView(st filter.Station, t fuel.Type) StationView {
	return StationView{
		ID:           st.IDEESS,
		Brand:        st.Rotulo,
		Address:      st.Direccion,
		Municipality: st.Municipio,
		Province:     st.Provincia,
		Schedule:     st.Horario,
		Lat:          st.Lat,
		Lng:          st.Lon,
		DistanceKm:   st.DistanceKm,
		Price:        fuel.Price(st.GasStation, t),
	}
}

func (s *Server) writeTaxonomyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, finder.ErrDataUnavailable):
		writeError(w, http.StatusServiceUnavailable, "data_unavailable", err)
	case errors.Is(err, finder.ErrGeocodeNotFound):
		writeError(w, http.StatusNotFound, "geocode_not_found", err)
	case errors.Is(err, finder.ErrRouteNotFound):
		writeError(w, http.StatusNotFound, "route_not_found", err)
	case errors.Is(err, finder.ErrNoReferencePoint):
		writeError(w, http.StatusConflict, "no_reference_point", err)
	case errors.Is(err, finder.ErrNoMatchingFuel):
		writeError(w, http.StatusNotFound, "no_matching_fuel", err)
	case errors.Is(err, finder.ErrEmptyCandidates):
		writeError(w, http.StatusNotFound, "no_candidates", err)
	case errors.Is(err, finder.ErrStaleRequest):
		writeError(w, http.StatusConflict, "stale_request", err)
	case errors.Is(err, finder.ErrUnknownStation):
		writeError(w, http.StatusNotFound, "unknown_station", err)
	default:
		s.logError("unexpected error", err)
		writeError(w, http.StatusInternalServerError, "internal", errors.New("internal error"))
	}
}

func (s *Server) logError(msg string, err error) {
	if s.log != nil {
		s.log.Error(msg, "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}
