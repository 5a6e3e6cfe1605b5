// Package selector picks the single best station from a filtered candidate
// set under a criterion: minimum distance or minimum price.
package selector

import (
	"errors"

	"github.com/i40130/fuel-finder-portal/internal/filter"
	"github.com/i40130/fuel-finder-portal/internal/fuel"
	"github.com/i40130/fuel-finder-portal/internal/geo"
)

var (
	// ErrEmptyCandidates reports a selection over an empty filtered set.
	ErrEmptyCandidates = errors.New("no candidate stations")
	// ErrNoMatchingFuel reports that no candidate offers the selected fuel.
	ErrNoMatchingFuel = errors.New("no station offers the selected fuel")
)

// Nearest returns the candidate closest to ref. Ties break in favor of the
// first-encountered candidate, so the result is stable for a fixed input
// order.
func Nearest(candidates []filter.Station, ref geo.Point) (filter.Station, error) {
	if len(candidates) == 0 {
		return filter.Station{}, ErrEmptyCandidates
	}

	best := candidates[0]
	best.DistanceKm = ref.DistanceKm(best.Point())
	for _, s := range candidates[1:] {
		if d := ref.DistanceKm(s.Point()); d < best.DistanceKm {
			s.DistanceKm = d
			best = s
		}
	}
	return best, nil
}

// Cheapest returns the candidate with the lowest parsed price for the given
// fuel type. Candidates without a usable price are excluded before the
// comparison; ties break in favor of the first-encountered candidate.
func Cheapest(candidates []filter.Station, t fuel.Type) (filter.Station, error) {
	if len(candidates) == 0 {
		return filter.Station{}, ErrEmptyCandidates
	}

	var (
		best      filter.Station
		bestPrice float64
		found     bool
	)
	for _, s := range candidates {
		price, ok := fuel.PriceValue(s.GasStation, t)
		if !ok {
			continue
		}
		if !found || price < bestPrice {
			best = s
			bestPrice = price
			found = true
		}
	}
	if !found {
		return filter.Station{}, ErrNoMatchingFuel
	}
	return best, nil
}
