package finder

import (
	"errors"

	"github.com/i40130/fuel-finder-portal/internal/selector"
)

// User-visible failure conditions. Every operation catches collaborator
// failures at its boundary and returns one of these; prior displayed and
// selection state is left untouched.
var (
	// ErrDataUnavailable reports a failed or empty dataset load.
	ErrDataUnavailable = errors.New("station data unavailable")
	// ErrGeocodeNotFound reports a place name the geocoder could not resolve.
	ErrGeocodeNotFound = errors.New("location not found")
	// ErrRouteNotFound reports that the router found no driving route.
	ErrRouteNotFound = errors.New("no route found")
	// ErrNoReferencePoint reports a selection or route request without an
	// active point or corridor anchor.
	ErrNoReferencePoint = errors.New("no reference point set")
	// ErrStaleRequest reports a spatial result superseded by a later trigger.
	ErrStaleRequest = errors.New("stale spatial request discarded")
	// ErrUnknownStation reports a selection of a station id that is not in
	// the displayed set.
	ErrUnknownStation = errors.New("station not in displayed set")

	// ErrEmptyCandidates and ErrNoMatchingFuel surface the selector
	// conditions through the same boundary.
	ErrEmptyCandidates = selector.ErrEmptyCandidates
	ErrNoMatchingFuel  = selector.ErrNoMatchingFuel
)
