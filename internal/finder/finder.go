// Package finder coordinates the three filter dimensions (route corridor,
// point radius, brand) and the selection state into one consistent view of
// the station dataset. It owns the filter and selection state; the
// presentation layer reads view models and writes only through the
// operations defined here.
package finder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/i40130/fuel-finder-portal/internal/filter"
	"github.com/i40130/fuel-finder-portal/internal/fuel"
	"github.com/i40130/fuel-finder-portal/internal/geo"
	"github.com/i40130/fuel-finder-portal/internal/selector"
	"github.com/i40130/fuel-finder-portal/pkg/api"
)

// StationSource provides the station dataset.
type StationSource interface {
	Stations(ctx context.Context) ([]api.GasStation, error)
}

// Geocoder resolves a place name to coordinates. A false second return
// signals "not found", not an error.
type Geocoder interface {
	Geocode(ctx context.Context, place string) (geo.Point, bool, error)
}

// Router computes a driving route between two points. An empty polyline with
// a nil error signals "no route found".
type Router interface {
	Route(ctx context.Context, origin, dest geo.Point) (geo.Polyline, error)
}

// SpatialKind discriminates the active spatial query variant.
type SpatialKind int

const (
	SpatialNone SpatialKind = iota
	SpatialPoint
	SpatialCorridor
)

// SpatialQuery is the active spatial filter: a point with a radius or a
// route polyline with a corridor width. At most one is active at a time.
type SpatialQuery struct {
	Kind       SpatialKind
	Center     geo.Point
	RadiusKm   float64
	Route      geo.Polyline
	CorridorKm float64
}

// AllBrands is the brand filter value that passes every brand.
const AllBrands = "all"

// FilterState is the orchestrator-owned filter state. Brand resets to
// AllBrands whenever the spatial query changes; Fuel persists across spatial
// changes.
type FilterState struct {
	Spatial *SpatialQuery
	Brand   string
	Fuel    fuel.Type
}

// Criterion records which extremal selection was last applied.
type Criterion string

const (
	CriterionNone     Criterion = ""
	CriterionNearest  Criterion = "nearest"
	CriterionCheapest Criterion = "cheapest"
)

// SelectionState holds the currently selected station and the route drawn
// on the map.
type SelectionState struct {
	Selected       *filter.Station
	HighlightRoute geo.Polyline
	Criterion      Criterion
}

// Finder owns the filter and selection state for one session. All methods
// are safe for concurrent use; external calls (fetch, geocode, route) run
// outside the lock and their results are applied under it with the
// sequence-discard rule, so the latest-triggered spatial query always wins
// regardless of response ordering.
type Finder struct {
	source   StationSource
	geocoder Geocoder
	router   Router
	log      *slog.Logger

	radiusKm   float64
	corridorKm float64

	mu         sync.Mutex
	seq        uint64
	collection *filter.Collection
	state      FilterState
	spatial    []filter.Station // spatially filtered, before brand narrowing
	displayed  []filter.Station
	brands     []string
	selection  SelectionState
	userPoint  *geo.Point
}

// New creates a Finder with the default 10 km point radius and 5 km
// corridor width. A nil logger discards log output.
func New(source StationSource, geocoder Geocoder, router Router, logger *slog.Logger) *Finder {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Finder{
		source:     source,
		geocoder:   geocoder,
		router:     router,
		log:        logger,
		radiusKm:   filter.DefaultRadiusKm,
		corridorKm: filter.DefaultCorridorKm,
		state:      FilterState{Brand: AllBrands, Fuel: fuel.DefaultType},
	}
}

// Load fetches the station dataset once per session. On failure or an empty
// dataset it returns ErrDataUnavailable and leaves any previously loaded
// collection in place.
func (f *Finder) Load(ctx context.Context) error {
	records, err := f.source.Stations(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	if len(records) == 0 {
		return ErrDataUnavailable
	}

	collection := filter.NewCollection(records)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.collection = collection
	f.recompute()
	f.log.Debug("station dataset loaded", "records", len(records), "usable", collection.Len())
	return nil
}

// StationCount returns the number of usable stations in the loaded dataset.
func (f *Finder) StationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.collection == nil {
		return 0
	}
	return f.collection.Len()
}

// NextSeq reserves a sequence number for a spatial query at trigger time.
// A result applies only while its number is still the latest issued, so a
// re-trigger invalidates every in-flight request.
func (f *Finder) NextSeq() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	return f.seq
}

// SetPointQuery applies a point-radius query from already-resolved
// coordinates (a geolocation success).
func (f *Finder) SetPointQuery(lat, lon float64) error {
	return f.ApplyPointQuery(f.NextSeq(), lat, lon)
}

// ApplyPointQuery applies a point-radius query for a request triggered at
// seq. It replaces the spatial query, resets the brand filter, clears the
// selection and recomputes the displayed stations and brand facets.
func (f *Finder) ApplyPointQuery(seq uint64, lat, lon float64) error {
	center := geo.Point{Lat: lat, Lon: lon}

	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.seq {
		return ErrStaleRequest
	}
	f.state.Spatial = &SpatialQuery{Kind: SpatialPoint, Center: center, RadiusKm: f.radiusKm}
	f.state.Brand = AllBrands
	f.userPoint = &center
	f.selection = SelectionState{}
	f.recompute()
	f.log.Debug("point query applied", "lat", lat, "lon", lon, "matched", len(f.spatial))
	return nil
}

// SetCorridorQuery geocodes both place names, requests a driving route and
// applies a corridor query over it. Failures leave the prior displayed state
// untouched.
func (f *Finder) SetCorridorQuery(ctx context.Context, origin, dest string) error {
	seq := f.NextSeq()

	originPt, ok, err := f.geocoder.Geocode(ctx, origin)
	if err != nil {
		return fmt.Errorf("error geocoding %q: %w", origin, err)
	}
	if !ok {
		return fmt.Errorf("%q: %w", origin, ErrGeocodeNotFound)
	}
	destPt, ok, err := f.geocoder.Geocode(ctx, dest)
	if err != nil {
		return fmt.Errorf("error geocoding %q: %w", dest, err)
	}
	if !ok {
		return fmt.Errorf("%q: %w", dest, ErrGeocodeNotFound)
	}

	route, err := f.router.Route(ctx, originPt, destPt)
	if err != nil {
		return fmt.Errorf("error computing route: %w", err)
	}

	return f.ApplyCorridorQuery(seq, route)
}

// ApplyCorridorQuery applies a corridor query over a resolved route for a
// request triggered at seq. The route itself becomes the highlight route;
// the route origin becomes the reference point for later selections.
func (f *Finder) ApplyCorridorQuery(seq uint64, route geo.Polyline) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if seq != f.seq {
		return ErrStaleRequest
	}
	if len(route) == 0 {
		return ErrRouteNotFound
	}
	origin := route[0]
	f.state.Spatial = &SpatialQuery{Kind: SpatialCorridor, Route: route, CorridorKm: f.corridorKm}
	f.state.Brand = AllBrands
	f.userPoint = &origin
	f.selection = SelectionState{HighlightRoute: route}
	f.recompute()
	f.log.Debug("corridor query applied", "vertices", len(route), "matched", len(f.spatial))
	return nil
}

// SetBrand narrows the displayed stations to one brand without touching the
// spatial query. An empty brand is treated as AllBrands.
func (f *Finder) SetBrand(brand string) {
	if brand == "" {
		brand = AllBrands
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Brand = brand
	f.recompute()
}

// SetFuel changes the active fuel type. It does not affect the spatial
// filter, only which price is shown and used by FindCheapest.
func (f *Finder) SetFuel(t fuel.Type) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Fuel = t
}

// SelectStation handles a manual station click. The selection is committed
// immediately; with a known reference point a point-to-point route is then
// requested and replaces the highlight route on success. Without a
// reference point the selection stands and ErrNoReferencePoint is returned
// so the caller can prompt for a location.
func (f *Finder) SelectStation(ctx context.Context, id string) error {
	f.mu.Lock()
	var picked *filter.Station
	for i := range f.displayed {
		if f.displayed[i].IDEESS == id {
			s := f.displayed[i]
			picked = &s
			break
		}
	}
	if picked == nil {
		f.mu.Unlock()
		return ErrUnknownStation
	}
	f.selection.Selected = picked
	f.selection.Criterion = CriterionNone
	ref := f.userPoint
	f.mu.Unlock()

	if ref == nil {
		return ErrNoReferencePoint
	}
	return f.requestHighlightRoute(ctx, *ref, *picked)
}

// FindNearest selects the station closest to the reference point among the
// currently displayed stations, marks the nearest criterion and requests
// the highlight route.
func (f *Finder) FindNearest(ctx context.Context) (filter.Station, error) {
	return f.findExtremal(ctx, CriterionNearest)
}

// FindCheapest selects the cheapest displayed station for the active fuel
// type, marks the cheapest criterion and requests the highlight route.
func (f *Finder) FindCheapest(ctx context.Context) (filter.Station, error) {
	return f.findExtremal(ctx, CriterionCheapest)
}

func (f *Finder) findExtremal(ctx context.Context, criterion Criterion) (filter.Station, error) {
	f.mu.Lock()
	if f.userPoint == nil {
		f.mu.Unlock()
		return filter.Station{}, ErrNoReferencePoint
	}
	ref := *f.userPoint

	var (
		best filter.Station
		err  error
	)
	switch criterion {
	case CriterionCheapest:
		best, err = selector.Cheapest(f.displayed, f.state.Fuel)
	default:
		best, err = selector.Nearest(f.displayed, ref)
	}
	if err != nil {
		f.mu.Unlock()
		return filter.Station{}, err
	}
	selected := best
	f.selection.Selected = &selected
	f.selection.Criterion = criterion
	f.mu.Unlock()

	f.log.Debug("extremal station selected", "criterion", string(criterion), "id", best.IDEESS, "brand", best.Rotulo)
	if err := f.requestHighlightRoute(ctx, ref, best); err != nil {
		return best, err
	}
	return best, nil
}

// requestHighlightRoute asks the router for a point-to-point route and, on
// success, replaces the highlight route if the selection has not changed in
// the meantime. The selection itself is never rolled back on route failure.
func (f *Finder) requestHighlightRoute(ctx context.Context, ref geo.Point, station filter.Station) error {
	route, err := f.router.Route(ctx, ref, station.Point())
	if err != nil {
		return fmt.Errorf("error computing route to station: %w", err)
	}
	if len(route) == 0 {
		return ErrRouteNotFound
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.selection.Selected != nil && f.selection.Selected.IDEESS == station.IDEESS {
		f.selection.HighlightRoute = route
	}
	return nil
}

// recompute derives the spatial set, brand facets and displayed list from
// the current state. Callers hold the lock. Facets come from the spatial
// set before brand narrowing, so switching brands never shrinks the facet
// list. Without a spatial anchor nothing is displayed; the full national
// dataset is never shown raw.
func (f *Finder) recompute() {
	if f.collection == nil || f.state.Spatial == nil {
		f.spatial = nil
		f.displayed = nil
		f.brands = nil
		return
	}

	switch f.state.Spatial.Kind {
	case SpatialCorridor:
		f.spatial = f.collection.AlongRoute(f.state.Spatial.Route, f.state.Spatial.CorridorKm)
	default:
		f.spatial = f.collection.WithinRadius(f.state.Spatial.Center, f.state.Spatial.RadiusKm)
	}
	f.brands = filter.Brands(f.spatial)

	if f.state.Brand == AllBrands {
		f.displayed = f.spatial
	} else {
		f.displayed = filter.ByBrand(f.spatial, f.state.Brand)
	}
}

// Displayed returns a copy of the currently displayed stations.
func (f *Finder) Displayed() []filter.Station {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]filter.Station, len(f.displayed))
	copy(out, f.displayed)
	return out
}

// Brands returns a copy of the brand facets for the current spatial set.
func (f *Finder) Brands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.brands))
	copy(out, f.brands)
	return out
}

// State returns a copy of the current filter state.
func (f *Finder) State() FilterState {
	f.mu.Lock()
	defer f.mu.Unlock()
	state := f.state
	if f.state.Spatial != nil {
		q := *f.state.Spatial
		state.Spatial = &q
	}
	return state
}

// Selection returns a copy of the current selection state.
func (f *Finder) Selection() SelectionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	sel := f.selection
	if f.selection.Selected != nil {
		s := *f.selection.Selected
		sel.Selected = &s
	}
	return sel
}

// UserPoint returns the active reference point, if any.
func (f *Finder) UserPoint() (geo.Point, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.userPoint == nil {
		return geo.Point{}, false
	}
	return *f.userPoint, true
}
