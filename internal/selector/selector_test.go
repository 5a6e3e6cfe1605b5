package selector

import (
	"errors"
	"testing"

	"github.com/i40130/fuel-finder-portal/internal/filter"
	"github.com/i40130/fuel-finder-portal/internal/fuel"
	"github.com/i40130/fuel-finder-portal/internal/geo"
	"github.com/i40130/fuel-finder-portal/pkg/api"
)

func priced(id, price95 string, lat, lon float64) filter.Station {
	return filter.Station{
		GasStation: &api.GasStation{IDEESS: id, PrecioGasolina95E5: price95},
		Lat:        lat,
		Lon:        lon,
	}
}

func TestCheapestExcludesUnavailable(t *testing.T) {
	candidates := []filter.Station{
		priced("A", "1,479", 40.42, -3.70),
		priced("B", "", 40.43, -3.70), // "No disponible"
		priced("C", "1,399", 40.44, -3.70),
	}

	best, err := Cheapest(candidates, fuel.Gasolina95)
	if err != nil {
		t.Fatalf("Cheapest() failed: %v", err)
	}
	if best.IDEESS != "C" {
		t.Errorf("Cheapest() = %s, expected C", best.IDEESS)
	}
}

func TestCheapestTieBreaksOnInputOrder(t *testing.T) {
	candidates := []filter.Station{
		priced("A", "1,399", 40.42, -3.70),
		priced("B", "1,399", 40.43, -3.70),
	}

	best, err := Cheapest(candidates, fuel.Gasolina95)
	if err != nil {
		t.Fatalf("Cheapest() failed: %v", err)
	}
	if best.IDEESS != "A" {
		t.Errorf("tie should break on first-encountered, got %s", best.IDEESS)
	}
}

func TestCheapestNoMatchingFuel(t *testing.T) {
	candidates := []filter.Station{
		priced("A", "", 40.42, -3.70),
		priced("B", "", 40.43, -3.70),
	}

	_, err := Cheapest(candidates, fuel.Gasolina95)
	if !errors.Is(err, ErrNoMatchingFuel) {
		t.Errorf("expected ErrNoMatchingFuel, got %v", err)
	}
}

func TestCheapestEmptyCandidates(t *testing.T) {
	if _, err := Cheapest(nil, fuel.Gasolina95); !errors.Is(err, ErrEmptyCandidates) {
		t.Errorf("expected ErrEmptyCandidates, got %v", err)
	}
}

func TestNearest(t *testing.T) {
	ref := geo.Point{Lat: 40.4167, Lon: -3.7033}
	candidates := []filter.Station{
		priced("far", "", 40.50, -3.70),
		priced("near", "", 40.42, -3.70),
		priced("mid", "", 40.45, -3.70),
	}

	best, err := Nearest(candidates, ref)
	if err != nil {
		t.Fatalf("Nearest() failed: %v", err)
	}
	if best.IDEESS != "near" {
		t.Errorf("Nearest() = %s, expected near", best.IDEESS)
	}
}

func TestNearestStableUnderReordering(t *testing.T) {
	ref := geo.Point{Lat: 40.4167, Lon: -3.7033}
	forward := []filter.Station{
		priced("far", "", 40.50, -3.70),
		priced("near", "", 40.42, -3.70),
		priced("mid", "", 40.45, -3.70),
	}
	reversed := []filter.Station{forward[2], forward[1], forward[0]}

	a, err := Nearest(forward, ref)
	if err != nil {
		t.Fatalf("Nearest(forward) failed: %v", err)
	}
	b, err := Nearest(reversed, ref)
	if err != nil {
		t.Fatalf("Nearest(reversed) failed: %v", err)
	}
	if a.IDEESS != b.IDEESS {
		t.Errorf("result depends on input order: %s vs %s", a.IDEESS, b.IDEESS)
	}
}

func TestNearestEmptyCandidates(t *testing.T) {
	ref := geo.Point{Lat: 40.4167, Lon: -3.7033}
	if _, err := Nearest(nil, ref); !errors.Is(err, ErrEmptyCandidates) {
		t.Errorf("expected ErrEmptyCandidates, got %v", err)
	}
}
